package query

import (
	"errors"
	"fmt"

	"github.com/roach88/sidx/internal/value"
)

// ErrPropertyOutOfRange is returned when a predicate names a property the
// row does not have.
var ErrPropertyOutOfRange = errors.New("property out of range")

// Eval evaluates n against one row of property values.
//
// Both children of a condition are always evaluated, left first, so an error
// anywhere in the tree is reported regardless of the operator. A nil tree
// matches every row.
func Eval(n ParseNode, row []value.SIValue) (bool, error) {
	if isNilNode(n) {
		return true, nil
	}
	switch node := n.(type) {
	case *PredicateNode:
		return evalPredicate(node, row)
	case *ConditionNode:
		return evalCondition(node, row)
	}
	return false, fmt.Errorf("unsupported node type: %T", n)
}

func evalPredicate(n *PredicateNode, row []value.SIValue) (bool, error) {
	if n.propID < 0 || n.propID >= len(row) {
		return false, fmt.Errorf("$%d of %d: %w", n.propID, len(row), ErrPropertyOutOfRange)
	}
	if !n.op.Valid() {
		return false, fmt.Errorf("$%d: invalid operator %s", n.propID, n.op)
	}
	stored := row[n.propID]
	if value.IsNull(stored) || value.IsNull(n.literal) || value.IsNaN(stored) || value.IsNaN(n.literal) {
		return false, nil
	}
	c, err := value.Compare(stored, n.literal)
	if err != nil {
		return false, fmt.Errorf("$%d %s %s: %w", n.propID, n.op, value.Format(n.literal), err)
	}
	return n.op.holds(c), nil
}

func evalCondition(n *ConditionNode, row []value.SIValue) (bool, error) {
	hasLeft, hasRight := !isNilNode(n.left), !isNilNode(n.right)
	switch {
	case !hasLeft && !hasRight:
		return true, nil
	case !hasRight:
		return Eval(n.left, row)
	case !hasLeft:
		return Eval(n.right, row)
	}

	l, err := Eval(n.left, row)
	if err != nil {
		return false, err
	}
	r, err := Eval(n.right, row)
	if err != nil {
		return false, err
	}
	switch n.op {
	case AND:
		return l && r, nil
	case OR:
		return l || r, nil
	}
	return false, fmt.Errorf("invalid logical operator %s", n.op)
}
