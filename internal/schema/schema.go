// Package schema loads index specs from CUE documents.
//
// A document lists the indexed properties in order:
//
//	properties: [
//		{name: "age", type: "int32", not_null: true},
//		{name: "active", type: "bool"},
//		{name: "name", type: "string", unique: true},
//	]
//
// Types are value kind names ("int32", "double", "string", ...). The
// document is unified with a CUE definition before it is read, so
// structural mistakes are reported with their CUE position.
package schema

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/value"
)

//go:embed schema.cue
var schemaCUE string

// Error reports a schema problem with its source position when known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadSpecFile reads and compiles the CUE document at path.
func LoadSpecFile(path string) (index.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return index.Spec{}, fmt.Errorf("read schema: %w", err)
	}
	return LoadSpecBytes(path, data)
}

// LoadSpecBytes compiles a CUE document. filename is used in positions.
func LoadSpecBytes(filename string, data []byte) (index.Spec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return index.Spec{}, formatCUEError(err)
	}
	return CompileSpec(v)
}

// CompileSpec builds a Spec from a CUE value holding a properties list.
func CompileSpec(v cue.Value) (index.Spec, error) {
	def := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := def.Err(); err != nil {
		return index.Spec{}, fmt.Errorf("compile built-in schema: %w", err)
	}

	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return index.Spec{}, formatCUEError(err)
	}

	iter, err := v.LookupPath(cue.ParsePath("properties")).List()
	if err != nil {
		return index.Spec{}, formatCUEError(err)
	}

	var spec index.Spec
	for iter.Next() {
		p, err := compileProperty(iter.Value())
		if err != nil {
			return index.Spec{}, err
		}
		spec.Properties = append(spec.Properties, p)
	}

	if err := spec.Validate(); err != nil {
		return index.Spec{}, &Error{Field: "properties", Message: err.Error(), Pos: v.Pos()}
	}
	return spec, nil
}

func compileProperty(v cue.Value) (index.Property, error) {
	var p index.Property

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return p, formatCUEError(err)
		}
		p.Name = name
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	typeName, err := typeVal.String()
	if err != nil {
		return p, formatCUEError(err)
	}
	kind, err := value.ParseKind(typeName)
	if err != nil {
		return p, &Error{Field: "type", Message: err.Error(), Pos: typeVal.Pos()}
	}
	p.Type = kind

	flags := []struct {
		field string
		flag  uint32
	}{
		{"not_null", index.FlagNotNull},
		{"unique", index.FlagUnique},
	}
	for _, f := range flags {
		fv := v.LookupPath(cue.ParsePath(f.field))
		if !fv.Exists() {
			continue
		}
		set, err := fv.Bool()
		if err != nil {
			return p, formatCUEError(err)
		}
		if set {
			p.Flags |= f.flag
		}
	}
	return p, nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &Error{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: "cue", Message: first.Error()}
}
