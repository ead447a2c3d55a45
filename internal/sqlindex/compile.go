package sqlindex

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/value"
)

// Constant predicates.
const (
	sqlTrue  = "1"
	sqlFalse = "0"
)

// Compile converts q into a WHERE fragment and its parameters.
// A nil tree compiles to a predicate that is always true.
//
// Compile does not check q against a Spec; run query.Validate first.
func Compile(q query.ParseNode) (string, []any, error) {
	switch n := q.(type) {
	case nil:
		return sqlTrue, nil, nil
	case *query.PredicateNode:
		if n == nil {
			return sqlTrue, nil, nil
		}
		return compilePredicate(n)
	case *query.ConditionNode:
		if n == nil {
			return sqlTrue, nil, nil
		}
		return compileCondition(n)
	}
	return "", nil, fmt.Errorf("unsupported node type: %T", q)
}

// SelectIDs compiles q into a full statement returning matching ids.
// Every statement is ordered by id COLLATE BINARY ASC.
func SelectIDs(q query.ParseNode) (string, []any, error) {
	where, params, err := Compile(q)
	if err != nil {
		return "", nil, err
	}
	return "SELECT id FROM entries WHERE " + where + " ORDER BY id COLLATE BINARY ASC", params, nil
}

func compilePredicate(p *query.PredicateNode) (string, []any, error) {
	if !p.Op().Valid() {
		return "", nil, fmt.Errorf("$%d: invalid operator %s", p.PropID(), p.Op())
	}
	col := column(p.PropID())
	lit := p.Literal()

	switch {
	case value.IsNull(lit), value.IsNaN(lit):
		return sqlFalse, nil, nil
	case lit.Kind() == value.KindPosInf:
		return infinityBound(col, p.Op(), query.LT, query.LE), nil, nil
	case lit.Kind() == value.KindNegInf:
		return infinityBound(col, p.Op(), query.GT, query.GE), nil, nil
	}

	param, err := bindLiteral(lit)
	if err != nil {
		return "", nil, fmt.Errorf("$%d: %w", p.PropID(), err)
	}
	return fmt.Sprintf("%s %s ?", col, p.Op()), []any{param}, nil
}

// infinityBound compiles a comparison with an infinity. Every non-Null
// value lies strictly on one side of it, so op either holds for every
// stored value or for none.
func infinityBound(col string, op, strict, loose query.CompOp) string {
	switch op {
	case strict, loose, query.NE:
		return col + " IS NOT NULL"
	}
	return sqlFalse
}

func compileCondition(c *query.ConditionNode) (string, []any, error) {
	left, right := c.Left(), c.Right()
	hasLeft, hasRight := !isNil(left), !isNil(right)
	switch {
	case !hasLeft && !hasRight:
		return sqlTrue, nil, nil
	case !hasRight:
		return Compile(left)
	case !hasLeft:
		return Compile(right)
	}

	var joiner string
	switch c.Op() {
	case query.AND:
		joiner = " AND "
	case query.OR:
		joiner = " OR "
	default:
		return "", nil, fmt.Errorf("invalid logical operator %s", c.Op())
	}

	lsql, lparams, err := Compile(left)
	if err != nil {
		return "", nil, err
	}
	rsql, rparams, err := Compile(right)
	if err != nil {
		return "", nil, err
	}
	return "(" + strings.Join([]string{lsql, rsql}, joiner) + ")", append(lparams, rparams...), nil
}

func isNil(n query.ParseNode) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *query.PredicateNode:
		return v == nil
	case *query.ConditionNode:
		return v == nil
	}
	return false
}

// bindLiteral converts a query literal to a driver parameter.
// UInt64 literals beyond int64 compare as REAL.
func bindLiteral(v value.SIValue) (any, error) {
	if u, ok := v.(value.SIUInt64); ok && uint64(u) > math.MaxInt64 {
		return float64(u), nil
	}
	return bindValue(v)
}

// floatParam refuses NaN, which the driver would bind as NULL.
func floatParam(f float64) (any, error) {
	if math.IsNaN(f) {
		return nil, fmt.Errorf("NaN cannot be stored")
	}
	return f, nil
}

// bindValue converts a stored value to a driver parameter.
func bindValue(v value.SIValue) (any, error) {
	switch x := v.(type) {
	case nil, value.SINull:
		return nil, nil
	case value.SIInt32:
		return int64(x), nil
	case value.SIInt64:
		return int64(x), nil
	case value.SIUInt64:
		if uint64(x) > math.MaxInt64 {
			return nil, fmt.Errorf("uint64 %d exceeds the storable range", uint64(x))
		}
		return int64(x), nil
	case value.SIFloat32:
		return floatParam(float64(x))
	case value.SIFloat64:
		return floatParam(float64(x))
	case value.SIBool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case value.SITime:
		return int64(x), nil
	case value.SIString:
		return norm.NFC.String(x.Text()), nil
	}
	return nil, fmt.Errorf("cannot bind %s value", v.Kind())
}

// decodeValue rebuilds a value of kind k from a scanned column.
func decodeValue(k value.Kind, raw any) (value.SIValue, error) {
	if raw == nil {
		return value.NullVal(), nil
	}
	switch k {
	case value.KindString:
		switch s := raw.(type) {
		case string:
			return value.StringVal(s), nil
		case []byte:
			return value.StringValBytes(s), nil
		}
	case value.KindFloat32, value.KindFloat64:
		f, ok := raw.(float64)
		if !ok {
			break
		}
		if k == value.KindFloat32 {
			return value.Float32Val(float32(f)), nil
		}
		return value.Float64Val(f), nil
	default:
		n, ok := raw.(int64)
		if !ok {
			break
		}
		switch k {
		case value.KindInt32:
			return value.Int32Val(int32(n)), nil
		case value.KindInt64:
			return value.Int64Val(n), nil
		case value.KindUInt64:
			return value.UIntVal(uint64(n)), nil
		case value.KindBool:
			return value.BoolVal(n != 0), nil
		case value.KindTime:
			return value.TimeVal(n), nil
		}
	}
	return nil, fmt.Errorf("column of type %T does not hold a %s", raw, k)
}
