package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/roach88/sidx/internal/agg"
	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/sqlindex"
)

// Opener creates an empty backend for spec.
type Opener func(spec index.Spec) (index.Backend, error)

// Backends lists the index implementations scenarios run against.
var Backends = map[string]Opener{
	"memory": func(spec index.Spec) (index.Backend, error) {
		return index.NewSimpleIndex(spec), nil
	},
	"sqlite": func(spec index.Spec) (index.Backend, error) {
		return sqlindex.Open(sqlindex.MemoryPath, spec)
	},
}

// BackendNames returns the keys of Backends in sorted order.
func BackendNames() []string {
	names := make([]string, 0, len(Backends))
	for name := range Backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SQLiteFileOpener returns an Opener that creates a fresh database file
// in dir for every scenario. The files are left in place for inspection.
func SQLiteFileOpener(dir string) Opener {
	return func(spec index.Spec) (index.Backend, error) {
		path := filepath.Join(dir, string(index.NewID())+".db")
		return sqlindex.Open(path, spec)
	}
}

// Harness executes scenarios against one backend.
type Harness struct {
	backend string
	open    Opener
	logger  *slog.Logger
}

// New creates a harness for the named backend. A nil logger discards output.
func New(backend string, logger *slog.Logger) (*Harness, error) {
	open, ok := Backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (want one of %v)", backend, BackendNames())
	}
	return NewWithOpener(backend, open, logger), nil
}

// NewWithOpener creates a harness for a caller-supplied backend.
func NewWithOpener(name string, open Opener, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{backend: name, open: open, logger: logger}
}

// Backend returns the backend name.
func (h *Harness) Backend() string { return h.backend }

// Run executes scenario against the named backend with logging discarded.
func Run(scenario *Scenario, backend string) (*Result, error) {
	h, err := New(backend, nil)
	if err != nil {
		return nil, err
	}
	return h.Run(scenario)
}

// Run executes a scenario in a fresh index and returns the result.
//
// Execution flow:
//  1. Build the schema and open an empty backend
//  2. Apply every batch, checking expected failures
//  3. Run every query and its aggregate
//  4. Evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all;
// unmet expectations are reported in the Result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	spec, err := buildSpec(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	idx, err := h.open(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", h.backend, err)
	}
	defer idx.Close()

	h.logger.Info("running scenario", "scenario", scenario.Name, "backend", h.backend)
	result := NewResult(scenario.Name)

	for i, b := range scenario.Batches {
		if err := h.applyBatch(spec, idx, i, b, result); err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
	}
	result.Rows = idx.Len()

	for _, q := range scenario.Queries {
		qr, err := h.runQuery(spec, idx, q)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}
		result.Queries = append(result.Queries, qr)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished", "scenario", scenario.Name, "backend", h.backend,
		"pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

func (h *Harness) applyBatch(spec index.Spec, idx index.Backend, i int, b Batch, result *Result) error {
	changes, err := buildChanges(spec, b)
	if err != nil {
		return err
	}
	before := idx.Len()
	applyErr := idx.Apply(changes)
	releaseChanges(changes)

	br := BatchResult{Changes: len(changes), Code: errorCode(applyErr)}
	br.Rows = idx.Len()
	result.Batches = append(result.Batches, br)
	h.logger.Debug("batch applied", "batch", i, "changes", br.Changes, "code", br.Code, "rows", br.Rows)

	switch {
	case b.ExpectError == "" && applyErr != nil:
		result.AddError(fmt.Sprintf("batch %d: unexpected error: %v", i, applyErr))
	case b.ExpectError != "" && br.Code != b.ExpectError:
		result.AddError(fmt.Sprintf("batch %d: expected %s, got %s", i, b.ExpectError, codeOrOK(br.Code)))
	case applyErr != nil && br.Rows != before:
		result.AddError(fmt.Sprintf("batch %d: failed batch changed row count %d -> %d", i, before, br.Rows))
	}
	return nil
}

func (h *Harness) runQuery(spec index.Spec, idx index.Backend, step QueryStep) (QueryResult, error) {
	q, err := buildQuery(spec, step.Where)
	if err != nil {
		return QueryResult{}, err
	}
	defer query.Free(q)

	qr := QueryResult{Name: step.Name, Query: query.String(q)}

	if step.Aggregate == nil {
		cur := idx.Find(q)
		ids, err := cur.Collect()
		qr.IDs = idStrings(ids)
		qr.Code = errorCode(err)
		return qr, nil
	}

	ag := step.Aggregate
	newAgg, ok := agg.Funcs[ag.Func]
	if !ok {
		return qr, fmt.Errorf("unknown aggregate %q", ag.Func)
	}
	prop, err := resolveProp(spec, ag.Prop)
	if err != nil {
		return qr, err
	}

	// Collect the ids on one cursor, reduce over a second.
	ids, err := idx.Find(q).Collect()
	qr.IDs = idStrings(ids)
	if qr.Code = errorCode(err); err != nil {
		return qr, nil
	}

	src := agg.NewCursorSource(idx.Find(q), idx, prop)
	defer src.Close()
	out, err := newAgg(src).Next()
	qr.Aggregate = fmt.Sprintf("%s(%s)", ag.Func, spec.PropertyName(prop))
	if err != nil {
		qr.Code = errorCode(err)
		return qr, nil
	}
	qr.Result = out[0]
	return qr, nil
}

func idStrings(ids []index.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// errorCode classifies err for reports: the index error code, STEP_ERROR
// for aggregate failures, ERROR for anything else, "" for nil.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var ie *index.IndexError
	if errors.As(err, &ie) {
		return string(ie.Code)
	}
	if agg.IsStepError(err) {
		return "STEP_ERROR"
	}
	return "ERROR"
}

func codeOrOK(code string) string {
	if code == "" {
		return "ok"
	}
	return code
}
