package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sidx/internal/value"
)

// ErrInvalidQuery wraps every error returned by ValidationResult.Err.
var ErrInvalidQuery = errors.New("invalid query")

// ValidationResult is the outcome of checking a tree against a schema.
type ValidationResult struct {
	// Errors lists problems that make the query impossible to evaluate.
	Errors []string

	// Warnings lists legal but suspicious constructs, such as a comparison
	// with a Null literal (never matches).
	Warnings []string
}

// Valid reports whether no errors were found.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result, or an error wrapping ErrInvalidQuery
// that lists every problem.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(r.Errors, "; "))
}

// Validate checks n against the kinds of the indexed properties, in
// property order. It walks the tree in evaluation order (left, then right).
//
// Validate is a pure function with no side effects.
func Validate(n ParseNode, kinds []value.Kind) ValidationResult {
	v := &validator{kinds: kinds}
	v.validateNode(n)
	return ValidationResult{Errors: v.errors, Warnings: v.warnings}
}

// validator accumulates findings during traversal.
type validator struct {
	kinds    []value.Kind
	errors   []string
	warnings []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateNode(n ParseNode) {
	if isNilNode(n) {
		return // nil tree matches everything
	}
	switch node := n.(type) {
	case *PredicateNode:
		v.validatePredicate(node)
	case *ConditionNode:
		v.validateCondition(node)
	default:
		v.addError("unknown node type: %T", n)
	}
}

func (v *validator) validatePredicate(n *PredicateNode) {
	if !n.op.Valid() {
		v.addError("$%d: invalid comparison operator %s", n.propID, n.op)
	}
	if n.propID < 0 || n.propID >= len(v.kinds) {
		v.addError("$%d: property out of range (index has %d properties)", n.propID, len(v.kinds))
		return
	}
	if n.literal == nil {
		v.addError("$%d: missing literal", n.propID)
		return
	}
	lit := n.literal.Kind()
	if lit == value.KindNull {
		v.addWarning("$%d compared to NULL - never matches", n.propID)
		return
	}
	if prop := v.kinds[n.propID]; !value.Comparable(prop, lit) {
		v.addError("$%d: cannot compare %s property with %s literal", n.propID, prop, lit)
	}
}

func (v *validator) validateCondition(n *ConditionNode) {
	if !n.op.Valid() {
		v.addError("invalid logical operator %s", n.op)
	}
	if isNilNode(n.left) && isNilNode(n.right) {
		v.addWarning("empty condition - matches every row")
		return
	}
	v.validateNode(n.left)
	v.validateNode(n.right)
}
