// Package query provides the predicate AST consumed by secondary indexes.
//
// A query is a binary tree of ParseNodes:
//
//	ConditionNode  left AND|OR right   (internal)
//	PredicateNode  $prop op literal    (leaf)
//
// Example:
//
//	q := NewConditionNode(
//	    NewPredicateNode(0, GT, value.Int32Val(5)),
//	    AND,
//	    NewPredicateNode(1, EQ, value.BoolVal(true)),
//	)
//	String(q) // ($0 > 5 AND $1 = true)
//
// SEALED INTERFACE:
//
// ParseNode is sealed using the marker method pattern; only *PredicateNode
// and *ConditionNode implement it, so backends can switch exhaustively.
//
// IMMUTABILITY:
//
// Nodes are built through the constructors and never mutated afterwards.
// The tree is therefore acyclic and Free can tear it down recursively.
// A PredicateNode owns its literal; Free releases it.
//
// EVALUATION ORDER:
//
// Conditions are evaluated depth-first, left child before right child,
// matching construction order. A condition with one child passes that
// child's result through; a condition with none matches everything.
package query
