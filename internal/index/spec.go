package index

import (
	"fmt"

	"github.com/roach88/sidx/internal/value"
)

// Property flags.
const (
	// FlagNotNull rejects Null values for the property.
	FlagNotNull uint32 = 1 << iota

	// FlagUnique rejects two live rows with equal non-Null values.
	FlagUnique
)

// Property describes one indexed property.
type Property struct {
	Name  string // Optional, diagnostics only
	Type  value.Kind
	Flags uint32
}

// Has reports whether every bit of flag is set.
func (p Property) Has(flag uint32) bool {
	return p.Flags&flag == flag
}

// Spec is the ordered list of indexed properties (SISpec).
type Spec struct {
	Properties []Property
}

// NewSpec creates a Spec from properties.
func NewSpec(props ...Property) Spec {
	return Spec{Properties: props}
}

// Len returns the number of properties.
func (s Spec) Len() int { return len(s.Properties) }

// Kinds returns the property types in order.
func (s Spec) Kinds() []value.Kind {
	kinds := make([]value.Kind, len(s.Properties))
	for i, p := range s.Properties {
		kinds[i] = p.Type
	}
	return kinds
}

// PropertyName returns the name of property i, or "$i" when unnamed.
func (s Spec) PropertyName(i int) string {
	if i >= 0 && i < len(s.Properties) && s.Properties[i].Name != "" {
		return s.Properties[i].Name
	}
	return fmt.Sprintf("$%d", i)
}

// Validate checks that the Spec itself is usable by a backend.
func (s Spec) Validate() error {
	if len(s.Properties) == 0 {
		return fmt.Errorf("spec has no properties")
	}
	for i, p := range s.Properties {
		if p.Type.IsSentinel() {
			return fmt.Errorf("property %s: %s is not an indexable type", s.PropertyName(i), p.Type)
		}
	}
	return nil
}

// CheckRow verifies a row's arity, kinds and NOT NULL flags.
// Uniqueness needs the index contents and is checked by backends.
func (s Spec) CheckRow(vals []value.SIValue) error {
	if len(vals) != len(s.Properties) {
		return fmt.Errorf("row has %d values, spec has %d properties", len(vals), len(s.Properties))
	}
	for i, v := range vals {
		p := s.Properties[i]
		if value.IsNull(v) {
			if p.Has(FlagNotNull) {
				return fmt.Errorf("property %s is NOT NULL", s.PropertyName(i))
			}
			continue
		}
		if v.Kind() != p.Type {
			return fmt.Errorf("property %s: got %s, want %s", s.PropertyName(i), v.Kind(), p.Type)
		}
		if value.IsNaN(v) {
			return fmt.Errorf("property %s: NaN cannot be stored", s.PropertyName(i))
		}
	}
	return nil
}

func uniqueError(spec Spec, prop int, other ID) error {
	return fmt.Errorf("property %s is UNIQUE, value already held by %s", spec.PropertyName(prop), other)
}
