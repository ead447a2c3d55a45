package query

import "github.com/roach88/sidx/internal/value"

// ParseNode is a node of the predicate tree.
//
// This is a sealed interface - only *PredicateNode and *ConditionNode
// implement it.
type ParseNode interface {
	parseNode() // Marker method - seals interface to this package
}

// PredicateNode compares one indexed property against a literal.
//
// Semantics:
//
//	$<propID> <op> <literal>
//
// Any comparison involving Null (stored value or literal) is false.
type PredicateNode struct {
	propID  int
	op      CompOp
	literal value.SIValue
}

func (*PredicateNode) parseNode() {}

// ConditionNode combines two subtrees with AND or OR. Either child may be
// nil, in which case the other child's result passes through.
type ConditionNode struct {
	left  ParseNode
	op    LogicOp
	right ParseNode
}

func (*ConditionNode) parseNode() {}

// NewPredicateNode creates a leaf comparing property propID to literal.
// The node takes ownership of literal.
func NewPredicateNode(propID int, op CompOp, literal value.SIValue) *PredicateNode {
	return &PredicateNode{propID: propID, op: op, literal: literal}
}

// NewConditionNode creates an internal node. The node takes ownership of
// both children.
func NewConditionNode(left ParseNode, op LogicOp, right ParseNode) *ConditionNode {
	return &ConditionNode{left: left, op: op, right: right}
}

// PropID returns the index of the compared property.
func (n *PredicateNode) PropID() int { return n.propID }

// Op returns the comparison operator.
func (n *PredicateNode) Op() CompOp { return n.op }

// Literal returns the right-hand operand. The node keeps ownership.
func (n *PredicateNode) Literal() value.SIValue { return n.literal }

// Left returns the left child, or nil.
func (n *ConditionNode) Left() ParseNode { return n.left }

// Op returns the logical operator.
func (n *ConditionNode) Op() LogicOp { return n.op }

// Right returns the right child, or nil.
func (n *ConditionNode) Right() ParseNode { return n.right }

// And folds nodes left to right into nested AND conditions.
// Nil entries are skipped; And() returns nil.
func And(nodes ...ParseNode) ParseNode {
	return fold(AND, nodes)
}

// Or folds nodes left to right into nested OR conditions.
func Or(nodes ...ParseNode) ParseNode {
	return fold(OR, nodes)
}

func fold(op LogicOp, nodes []ParseNode) ParseNode {
	var acc ParseNode
	for _, n := range nodes {
		if isNilNode(n) {
			continue
		}
		if acc == nil {
			acc = n
			continue
		}
		acc = NewConditionNode(acc, op, n)
	}
	return acc
}

// Free releases the tree post-order: both children first, then the node.
// Predicate literals are released.
func Free(n ParseNode) {
	switch node := n.(type) {
	case *ConditionNode:
		if node == nil {
			return
		}
		Free(node.left)
		Free(node.right)
		node.left, node.right = nil, nil
	case *PredicateNode:
		if node == nil {
			return
		}
		value.Release(node.literal)
		node.literal = value.NullVal()
	}
}

// isNilNode reports whether n is nil or a typed nil pointer.
func isNilNode(n ParseNode) bool {
	switch node := n.(type) {
	case nil:
		return true
	case *ConditionNode:
		return node == nil
	case *PredicateNode:
		return node == nil
	}
	return false
}
