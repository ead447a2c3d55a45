package harness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/sidx/internal/value"
)

// aggregateTolerance bounds float drift between backends.
const aggregateTolerance = 1e-9

// AssertionError is a failed assertion with expected and actual outcomes.
type AssertionError struct {
	Type     string
	Query    string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Query != "" {
		fmt.Fprintf(&buf, " (query %s)", e.Query)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(r *Result, a Assertion) error {
	if a.Type == AssertRows {
		if r.Rows != a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d rows", a.Count), Actual: fmt.Sprintf("%d rows", r.Rows)}
		}
		return nil
	}

	q, ok := r.Query(a.Query)
	if !ok {
		return &AssertionError{Type: a.Type, Query: a.Query, Expected: "query result", Actual: "query did not run"}
	}
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Query: a.Query, Expected: expected, Actual: actual}
	}

	switch a.Type {
	case AssertQueryIDs:
		if q.Code != "" {
			return fail(fmt.Sprintf("ids %v", a.IDs), "error "+q.Code)
		}
		if !slices.Equal(q.IDs, a.IDs) && (len(q.IDs) > 0 || len(a.IDs) > 0) {
			return fail(fmt.Sprintf("ids %v", a.IDs), fmt.Sprintf("ids %v", q.IDs))
		}
	case AssertQueryCount:
		if q.Code != "" {
			return fail(fmt.Sprintf("%d ids", a.Count), "error "+q.Code)
		}
		if len(q.IDs) != a.Count {
			return fail(fmt.Sprintf("%d ids", a.Count), fmt.Sprintf("%d ids", len(q.IDs)))
		}
	case AssertQueryError:
		if q.Code != a.Code {
			return fail("error "+a.Code, "error "+codeOrOK(q.Code))
		}
	case AssertAggregate:
		if q.Aggregate == "" {
			return fail(fmt.Sprintf("aggregate %g", *a.Value), "query has no aggregate")
		}
		if q.Code != "" {
			return fail(fmt.Sprintf("aggregate %g", *a.Value), "error "+q.Code)
		}
		got, err := value.ToDouble(q.Result)
		if err != nil || math.Abs(got-*a.Value) > aggregateTolerance {
			return fail(fmt.Sprintf("aggregate %g", *a.Value), "aggregate "+value.Format(q.Result))
		}
	}
	return nil
}
