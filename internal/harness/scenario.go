package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines an index scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the path of a CUE schema file, relative to the scenario file.
	Spec string `yaml:"spec,omitempty"`

	// Properties defines the schema inline when Spec is empty.
	Properties []PropertyDef `yaml:"properties,omitempty"`

	// Batches are applied in order. A batch expected to fail must leave the
	// index unchanged.
	Batches []Batch `yaml:"batches"`

	// Queries run after all batches.
	Queries []QueryStep `yaml:"queries,omitempty"`

	// Assertions validate the final outcome.
	Assertions []Assertion `yaml:"assertions"`

	// baseDir resolves Spec. Set by LoadScenario.
	baseDir string
}

// PropertyDef is an inline schema property.
type PropertyDef struct {
	Name    string `yaml:"name,omitempty"`
	Type    string `yaml:"type"`
	NotNull bool   `yaml:"not_null,omitempty"`
	Unique  bool   `yaml:"unique,omitempty"`
}

// Batch is one call to Apply.
type Batch struct {
	Changes []ChangeDef `yaml:"changes"`

	// ExpectError is the index error code the batch must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ChangeDef is a change record. Exactly one of Add and Delete is set.
type ChangeDef struct {
	Add    string `yaml:"add,omitempty"`
	Delete string `yaml:"delete,omitempty"`

	// Values holds one entry per property for Add, converted to the
	// property's kind.
	Values []any `yaml:"values,omitempty"`
}

// QueryStep is a Find, optionally reduced by an aggregate.
type QueryStep struct {
	Name      string        `yaml:"name"`
	Where     *Where        `yaml:"where,omitempty"`
	Aggregate *AggregateDef `yaml:"aggregate,omitempty"`
}

// Where is a node of a query tree. A predicate sets Prop and Op; a
// condition sets And or Or.
type Where struct {
	Prop  string   `yaml:"prop,omitempty"`
	Op    string   `yaml:"op,omitempty"`
	Value any      `yaml:"value,omitempty"`
	And   []*Where `yaml:"and,omitempty"`
	Or    []*Where `yaml:"or,omitempty"`
}

// AggregateDef reduces the rows matched by a query.
type AggregateDef struct {
	Func string `yaml:"func"`
	Prop string `yaml:"prop"`
}

// Assertion validates the scenario outcome.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Query names the query (query_ids, query_count, query_error, aggregate).
	Query string `yaml:"query,omitempty"`

	// IDs is the expected result list (query_ids).
	IDs []string `yaml:"ids,omitempty"`

	// Count is the expected number of rows or ids (rows, query_count).
	Count int `yaml:"count,omitempty"`

	// Code is the expected index error code (query_error).
	Code string `yaml:"code,omitempty"`

	// Value is the expected aggregate result (aggregate).
	Value *float64 `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertRows       = "rows"
	AssertQueryIDs   = "query_ids"
	AssertQueryCount = "query_count"
	AssertQueryError = "query_error"
	AssertAggregate  = "aggregate"
)

// LoadScenario reads and parses a scenario YAML file. Spec paths are
// resolved relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	s.baseDir = filepath.Dir(path)
	if s.Spec != "" {
		if _, err := os.Stat(s.SpecPath()); err != nil {
			return nil, fmt.Errorf("invalid scenario: spec file not found: %s", s.SpecPath())
		}
	}
	return s, nil
}

// ParseScenario decodes a scenario, rejecting unknown fields.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// SpecPath returns Spec resolved against the scenario directory.
func (s *Scenario) SpecPath() string {
	if s.Spec == "" || filepath.IsAbs(s.Spec) || s.baseDir == "" {
		return s.Spec
	}
	return filepath.Join(s.baseDir, s.Spec)
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.Spec == "") == (len(s.Properties) == 0) {
		return fmt.Errorf("exactly one of spec and properties is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, p := range s.Properties {
		if p.Type == "" {
			return fmt.Errorf("properties[%d]: type is required", i)
		}
	}

	for i, b := range s.Batches {
		if len(b.Changes) == 0 {
			return fmt.Errorf("batches[%d]: changes list must be non-empty", i)
		}
		for j, ch := range b.Changes {
			if (ch.Add == "") == (ch.Delete == "") {
				return fmt.Errorf("batches[%d].changes[%d]: exactly one of add and delete is required", i, j)
			}
			if ch.Delete != "" && len(ch.Values) > 0 {
				return fmt.Errorf("batches[%d].changes[%d]: delete takes no values", i, j)
			}
		}
	}

	queries := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if queries[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate name %q", i, q.Name)
		}
		queries[q.Name] = true
		if q.Where != nil {
			if err := validateWhere(q.Where); err != nil {
				return fmt.Errorf("queries[%d].where: %w", i, err)
			}
		}
		if q.Aggregate != nil && q.Aggregate.Func == "" {
			return fmt.Errorf("queries[%d].aggregate: func is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, queries); err != nil {
			return err
		}
	}
	return nil
}

func validateWhere(w *Where) error {
	isPredicate := w.Prop != "" || w.Op != ""
	switch {
	case isPredicate && (w.And != nil || w.Or != nil):
		return fmt.Errorf("node mixes a predicate with and/or")
	case w.And != nil && w.Or != nil:
		return fmt.Errorf("node has both and and or")
	case isPredicate && (w.Prop == "" || w.Op == ""):
		return fmt.Errorf("predicate needs prop and op")
	}
	for _, children := range [][]*Where{w.And, w.Or} {
		for _, c := range children {
			if c == nil {
				return fmt.Errorf("empty child node")
			}
			if err := validateWhere(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(i int, a *Assertion, queries map[string]bool) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	case AssertRows:
		return nil
	case AssertQueryIDs, AssertQueryCount, AssertQueryError, AssertAggregate:
		if !queries[a.Query] {
			return fmt.Errorf("assertions[%d]: unknown query %q", i, a.Query)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
	}

	switch {
	case a.Type == AssertQueryError && a.Code == "":
		return fmt.Errorf("assertions[%d]: code is required for %s", i, a.Type)
	case a.Type == AssertAggregate && a.Value == nil:
		return fmt.Errorf("assertions[%d]: value is required for %s", i, a.Type)
	}
	return nil
}
