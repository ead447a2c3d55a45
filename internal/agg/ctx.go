package agg

import (
	"fmt"

	"github.com/roach88/sidx/internal/value"
)

// State is the lifecycle position of an aggregate.
type State int

const (
	StateAccumulating State = iota
	StateFinalized
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateFinalized:
		return "finalized"
	case StateExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reducer is the algorithm behind a reduce-style aggregate. Its accumulator
// is private to the implementation. Ctx guarantees the call order, so
// implementations do not track state themselves.
type Reducer interface {
	// Step consumes one input row. It must not retain the row's values.
	Step(inputs []value.SIValue) error

	// Finalize completes the accumulation.
	Finalize()

	// ReduceNext returns the finalized result.
	ReduceNext() value.SIValue
}

// Ctx (AggCtx) binds a Reducer to its lifecycle state.
type Ctx struct {
	name    string
	reducer Reducer
	state   State
	rows    int
}

// NewCtx creates a context in the Accumulating state.
func NewCtx(name string, r Reducer) *Ctx {
	return &Ctx{name: name, reducer: r}
}

// Name returns the aggregate name.
func (c *Ctx) Name() string { return c.name }

// State returns the current lifecycle state.
func (c *Ctx) State() State { return c.state }

// Rows returns how many rows were stepped successfully.
func (c *Ctx) Rows() int { return c.rows }

// Step feeds one row to the reducer. A failed step is reported as a
// *StepError and leaves the state unchanged.
func (c *Ctx) Step(inputs []value.SIValue) error {
	c.require("Step", StateAccumulating)
	if err := c.reducer.Step(inputs); err != nil {
		return c.stepError(err)
	}
	c.rows++
	return nil
}

// Finalize moves from Accumulating to Finalized.
func (c *Ctx) Finalize() {
	c.require("Finalize", StateAccumulating)
	c.reducer.Finalize()
	c.state = StateFinalized
}

// ReduceNext returns the result and moves from Finalized to Exhausted.
func (c *Ctx) ReduceNext() value.SIValue {
	c.require("ReduceNext", StateFinalized)
	v := c.reducer.ReduceNext()
	c.state = StateExhausted
	return v
}

func (c *Ctx) require(call string, want State) {
	if c.state != want {
		panic(fmt.Sprintf("agg: %s.%s called while %s, want %s", c.name, call, c.state, want))
	}
}

func (c *Ctx) stepError(err error) error {
	se, ok := err.(*StepError)
	if !ok {
		se = &StepError{Err: err}
	}
	if se.Func == "" {
		se.Func = c.name
	}
	se.Row = c.rows
	return se
}
