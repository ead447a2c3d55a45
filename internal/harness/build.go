package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/schema"
	"github.com/roach88/sidx/internal/value"
)

// buildSpec loads the scenario schema from its CUE file or inline list.
func buildSpec(s *Scenario) (index.Spec, error) {
	if s.Spec != "" {
		return schema.LoadSpecFile(s.SpecPath())
	}

	var spec index.Spec
	for i, p := range s.Properties {
		kind, err := value.ParseKind(p.Type)
		if err != nil {
			return index.Spec{}, fmt.Errorf("properties[%d]: %w", i, err)
		}
		prop := index.Property{Name: p.Name, Type: kind}
		if p.NotNull {
			prop.Flags |= index.FlagNotNull
		}
		if p.Unique {
			prop.Flags |= index.FlagUnique
		}
		spec.Properties = append(spec.Properties, prop)
	}
	return spec, spec.Validate()
}

// buildChanges converts a batch. The caller releases the values.
func buildChanges(spec index.Spec, b Batch) ([]index.Change, error) {
	changes := make([]index.Change, 0, len(b.Changes))
	for i, def := range b.Changes {
		if def.Delete != "" {
			changes = append(changes, index.Delete(index.ID(def.Delete)))
			continue
		}
		vals := make([]value.SIValue, len(def.Values))
		for j, raw := range def.Values {
			kind := value.KindNull
			if j < spec.Len() {
				kind = spec.Properties[j].Type
			}
			v, err := storedValue(kind, raw)
			if err != nil {
				releaseChanges(changes)
				releaseValues(vals[:j])
				return nil, fmt.Errorf("changes[%d].values[%d]: %w", i, j, err)
			}
			vals[j] = v
		}
		changes = append(changes, index.Add(index.ID(def.Add), vals...))
	}
	return changes, nil
}

// storedValue converts a YAML scalar to a value of the property kind.
func storedValue(kind value.Kind, raw any) (value.SIValue, error) {
	if raw == nil {
		return value.NullVal(), nil
	}
	if kind == value.KindNull {
		return nil, fmt.Errorf("more values than properties")
	}
	text, err := scalarText(raw)
	if err != nil {
		return nil, err
	}
	return value.ParseString(kind, text)
}

// literalValue converts a YAML scalar to a query literal. Numbers and bools
// keep their own kind so mixed comparisons are expressible; strings are
// parsed as the property kind unless they name an infinity.
func literalValue(kind value.Kind, raw any) (value.SIValue, error) {
	switch x := raw.(type) {
	case nil:
		return value.NullVal(), nil
	case int:
		return value.Int64Val(int64(x)), nil
	case uint64:
		return value.UIntVal(x), nil
	case float64:
		return value.Float64Val(x), nil
	case bool:
		return value.BoolVal(x), nil
	case string:
		switch x {
		case "+inf", "inf":
			return value.PositiveInfinityVal(), nil
		case "-inf":
			return value.NegativeInfinityVal(), nil
		}
		if kind == value.KindString {
			return value.StringVal(x), nil
		}
		return value.ParseString(kind, x)
	}
	return nil, fmt.Errorf("unsupported literal %v (%T)", raw, raw)
}

func scalarText(raw any) (string, error) {
	switch x := raw.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	return "", fmt.Errorf("unsupported value %v (%T)", raw, raw)
}

// buildQuery converts a where tree. A nil where matches every row.
func buildQuery(spec index.Spec, w *Where) (query.ParseNode, error) {
	if w == nil {
		return nil, nil
	}

	if w.Prop != "" {
		prop, err := resolveProp(spec, w.Prop)
		if err != nil {
			return nil, err
		}
		op, err := query.ParseCompOp(w.Op)
		if err != nil {
			return nil, err
		}
		kind := value.KindNull
		if prop < spec.Len() {
			kind = spec.Properties[prop].Type
		}
		lit, err := literalValue(kind, w.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", w.Prop, err)
		}
		return query.NewPredicateNode(prop, op, lit), nil
	}

	op, children := query.AND, w.And
	if w.Or != nil {
		op, children = query.OR, w.Or
	}
	nodes := make([]query.ParseNode, 0, len(children))
	for _, c := range children {
		n, err := buildQuery(spec, c)
		if err != nil {
			query.Free(query.And(nodes...))
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return query.NewConditionNode(nil, op, nil), nil
	}
	if op == query.OR {
		return query.Or(nodes...), nil
	}
	return query.And(nodes...), nil
}

// resolveProp maps a property name or "$N" to its position. Positions are
// not range-checked here; the index rejects them at Find.
func resolveProp(spec index.Spec, name string) (int, error) {
	if n, ok := strings.CutPrefix(name, "$"); ok {
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("bad property reference %q", name)
		}
		return i, nil
	}
	for i, p := range spec.Properties {
		if p.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

func releaseChanges(changes []index.Change) {
	for _, ch := range changes {
		releaseValues(ch.Values)
	}
}

func releaseValues(vals []value.SIValue) {
	for _, v := range vals {
		value.Release(v)
	}
}
