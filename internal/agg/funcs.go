package agg

import (
	"github.com/roach88/sidx/internal/value"
)

// sumReducer accumulates the first input of every row as float64.
// Null rows count as items contributing zero.
type sumReducer struct {
	count   int
	total   float64
	average bool
}

func (r *sumReducer) Step(inputs []value.SIValue) error {
	n, err := firstNumber(inputs)
	if err != nil {
		return err
	}
	r.count++
	r.total += n
	return nil
}

func (r *sumReducer) Finalize() {
	if r.average && r.count > 0 {
		r.total /= float64(r.count)
	}
}

func (r *sumReducer) ReduceNext() value.SIValue {
	return value.Float64Val(r.total)
}

// firstNumber coerces inputs[0]. A missing input reads as Null.
func firstNumber(inputs []value.SIValue) (float64, error) {
	if len(inputs) == 0 || value.IsNull(inputs[0]) {
		return 0, nil
	}
	n, err := value.ToDouble(inputs[0])
	if err != nil {
		return 0, &StepError{Kind: inputs[0].Kind(), Err: err}
	}
	return n, nil
}

type countReducer struct {
	count int64
}

func (r *countReducer) Step([]value.SIValue) error {
	r.count++
	return nil
}

func (*countReducer) Finalize() {}

func (r *countReducer) ReduceNext() value.SIValue {
	return value.Int64Val(r.count)
}

// SumFunc returns a node emitting the sum of the first input of every
// upstream row as a Float64.
func SumFunc(in Node) *PipelineNode {
	return Reduce(in, NewCtx("sum", &sumReducer{}), 1)
}

// AverageFunc returns a node emitting the mean of the first input of every
// upstream row as a Float64. Null rows count toward the divisor. An empty
// input averages to 0.
func AverageFunc(in Node) *PipelineNode {
	return Reduce(in, NewCtx("avg", &sumReducer{average: true}), 1)
}

// CountFunc returns a node emitting the number of upstream rows as an Int64.
func CountFunc(in Node) *PipelineNode {
	return Reduce(in, NewCtx("count", &countReducer{}), 1)
}

// Funcs maps aggregate names to constructors.
var Funcs = map[string]func(Node) *PipelineNode{
	"sum":     SumFunc,
	"avg":     AverageFunc,
	"average": AverageFunc,
	"count":   CountFunc,
}
