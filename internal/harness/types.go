package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/sidx/internal/value"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string

	// Pass is true if every expectation and assertion held.
	Pass bool

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string

	// Batches holds one entry per applied batch.
	Batches []BatchResult

	// Rows is the index size after all batches.
	Rows int

	// Queries holds one entry per query, in scenario order.
	Queries []QueryResult
}

// BatchResult records one Apply.
type BatchResult struct {
	Changes int
	Code    string // Index error code, "" on success
	Rows    int    // Index size after the batch
}

// QueryResult records one Find and its aggregate.
type QueryResult struct {
	Name  string
	Query string // Compact rendering of the tree
	IDs   []string
	Code  string // Error code, "" on success

	// Aggregate is the rendered call, e.g. "avg(age)", empty without one.
	Aggregate string
	Result    value.SIValue
}

// NewResult creates a passing result.
func NewResult(scenario string) *Result {
	return &Result{Scenario: scenario, Pass: true, Errors: []string{}}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Query returns the named query result.
func (r *Result) Query(name string) (QueryResult, bool) {
	for _, q := range r.Queries {
		if q.Name == name {
			return q, true
		}
	}
	return QueryResult{}, false
}

// Report renders the backend-independent part of the result, one fact per
// line. It is the golden file format.
//
//	scenario: people_basics
//	batch 0: ok changes=4 rows=4
//	rows: 4
//	query adults: ($0 >= 18 AND $1 = true)
//	  ids: a d
//	  avg(age) = 24.000000
func (r *Result) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	for i, br := range r.Batches {
		fmt.Fprintf(&b, "batch %d: %s changes=%d rows=%d\n", i, codeOrOK(br.Code), br.Changes, br.Rows)
	}
	fmt.Fprintf(&b, "rows: %d\n", r.Rows)

	for _, q := range r.Queries {
		fmt.Fprintf(&b, "query %s: %s\n", q.Name, q.Query)
		if q.Code != "" && len(q.IDs) == 0 && q.Aggregate == "" {
			fmt.Fprintf(&b, "  error: %s\n", q.Code)
			continue
		}
		if len(q.IDs) == 0 {
			b.WriteString("  ids: (none)\n")
		} else {
			fmt.Fprintf(&b, "  ids: %s\n", strings.Join(q.IDs, " "))
		}
		switch {
		case q.Aggregate == "":
			if q.Code != "" {
				fmt.Fprintf(&b, "  error: %s\n", q.Code)
			}
		case q.Code != "":
			fmt.Fprintf(&b, "  %s error: %s\n", q.Aggregate, q.Code)
		default:
			fmt.Fprintf(&b, "  %s = %s\n", q.Aggregate, value.Format(q.Result))
		}
	}
	return b.String()
}
