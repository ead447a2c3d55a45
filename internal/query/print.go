package query

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/sidx/internal/value"
)

// String renders n compactly, e.g. ($0 > 5 AND $1 = true).
// A nil tree renders as "*".
func String(n ParseNode) string {
	var b strings.Builder
	writeCompact(&b, n)
	return b.String()
}

func writeCompact(b *strings.Builder, n ParseNode) {
	if isNilNode(n) {
		b.WriteString("*")
		return
	}
	switch node := n.(type) {
	case *PredicateNode:
		writePredicate(b, node)
	case *ConditionNode:
		b.WriteByte('(')
		switch {
		case !isNilNode(node.left) && !isNilNode(node.right):
			writeCompact(b, node.left)
			b.WriteString(" " + node.op.String() + " ")
			writeCompact(b, node.right)
		case !isNilNode(node.left):
			writeCompact(b, node.left)
		case !isNilNode(node.right):
			writeCompact(b, node.right)
		}
		b.WriteByte(')')
	}
}

func writePredicate(b *strings.Builder, n *PredicateNode) {
	b.WriteByte('$')
	b.WriteString(strconv.Itoa(n.propID))
	b.WriteByte(' ')
	b.WriteString(n.op.String())
	b.WriteByte(' ')
	b.WriteString(value.Format(n.literal))
}

// Fprint writes an indented, depth-first pre-order dump of n to w, one node
// per line. Diagnostics only.
//
//	AND
//	  $0 > 5
//	  $1 = true
func Fprint(w io.Writer, n ParseNode) error {
	var b strings.Builder
	writeTree(&b, n, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, n ParseNode, depth int) {
	pad := strings.Repeat("  ", depth)
	if isNilNode(n) {
		fmt.Fprintf(b, "%s*\n", pad)
		return
	}
	switch node := n.(type) {
	case *PredicateNode:
		b.WriteString(pad)
		writePredicate(b, node)
		b.WriteByte('\n')
	case *ConditionNode:
		fmt.Fprintf(b, "%s%s\n", pad, node.op)
		if !isNilNode(node.left) {
			writeTree(b, node.left, depth+1)
		}
		if !isNilNode(node.right) {
			writeTree(b, node.right, depth+1)
		}
	}
}
