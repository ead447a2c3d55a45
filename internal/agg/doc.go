// Package agg implements the pull-based aggregation pipeline.
//
// A pipeline is a chain of Nodes. Each Node pulls rows of values from its
// upstream with Next until io.EOF. Reduce-style aggregates (SumFunc,
// AverageFunc, CountFunc) drain their upstream, then emit a single row
// holding the result.
//
// # Reducer State Machine
//
// Every aggregate runs its Reducer through a Ctx:
//
//	Accumulating --Finalize--> Finalized --ReduceNext--> Exhausted
//
//   - Step is legal only while Accumulating
//   - Finalize is called exactly once, after upstream is exhausted
//   - ReduceNext is legal only when Finalized and yields the result
//
// Calling any of them in another state is a programming error and panics.
// A failed Step is not a state violation: it returns a *StepError and the
// pipeline reports it from Next without producing a result.
//
// # Ownership
//
// Rows returned by Next belong to the caller, who releases their values
// when done. Aggregates release every upstream row after stepping it.
package agg
