package agg

import (
	"io"
	"log/slog"

	"github.com/roach88/sidx/internal/value"
)

// Node is a pipeline stage (AggPipelineNode). Next returns the next row, or
// io.EOF once the stage is exhausted. Any other error is a pipeline failure
// and the stage must not be pulled again.
type Node interface {
	Next() ([]value.SIValue, error)
}

// PipelineNode is a reduce-style aggregate bound to its upstream.
type PipelineNode struct {
	in    Node
	ctx   *Ctx
	arity int
	err   error
}

// Reduce binds ctx to upstream in. arity is the number of values in each
// output row.
func Reduce(in Node, ctx *Ctx, arity int) *PipelineNode {
	return &PipelineNode{in: in, ctx: ctx, arity: arity}
}

// Arity returns the declared output arity.
func (n *PipelineNode) Arity() int { return n.arity }

// Ctx returns the aggregate context.
func (n *PipelineNode) Ctx() *Ctx { return n.ctx }

// Next drains the upstream on first call and returns the single result row.
// Later calls return io.EOF. A step or upstream failure is returned from
// every call and no result is produced.
func (n *PipelineNode) Next() ([]value.SIValue, error) {
	if n.err != nil {
		return nil, n.err
	}
	if n.ctx.State() == StateExhausted {
		return nil, io.EOF
	}

	if n.ctx.State() == StateAccumulating {
		if err := n.accumulate(); err != nil {
			n.err = err
			slog.Debug("aggregate aborted", "func", n.ctx.Name(), "rows", n.ctx.Rows(), "error", err)
			return nil, err
		}
		n.ctx.Finalize()
	}

	out := n.ctx.ReduceNext()
	slog.Debug("aggregate reduced", "func", n.ctx.Name(), "rows", n.ctx.Rows(), "result", value.Format(out))
	return []value.SIValue{out}, nil
}

func (n *PipelineNode) accumulate() error {
	for {
		row, err := n.in.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		err = n.ctx.Step(row)
		releaseRow(row)
		if err != nil {
			return err
		}
	}
}

// Drain pulls every row from n until io.EOF.
func Drain(n Node) ([][]value.SIValue, error) {
	var rows [][]value.SIValue
	for {
		row, err := n.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			for _, r := range rows {
				releaseRow(r)
			}
			return nil, err
		}
		rows = append(rows, row)
	}
}

func releaseRow(row []value.SIValue) {
	for _, v := range row {
		value.Release(v)
	}
}
