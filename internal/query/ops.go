package query

import (
	"fmt"
	"strings"
)

// CompOp is the comparison of a PredicateNode.
type CompOp int

const (
	EQ CompOp = iota + 1
	GT
	LT
	GE
	LE
	NE
)

var compOpSymbols = map[CompOp]string{
	EQ: "=",
	GT: ">",
	LT: "<",
	GE: ">=",
	LE: "<=",
	NE: "!=",
}

var compOpNames = map[string]CompOp{
	"=": EQ, "==": EQ, "eq": EQ,
	">": GT, "gt": GT,
	"<": LT, "lt": LT,
	">=": GE, "ge": GE, "gte": GE,
	"<=": LE, "le": LE, "lte": LE,
	"!=": NE, "<>": NE, "ne": NE,
}

func (op CompOp) String() string {
	if s, ok := compOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Valid reports whether op is one of the six comparisons.
func (op CompOp) Valid() bool {
	_, ok := compOpSymbols[op]
	return ok
}

// ParseCompOp resolves a comparison symbol or mnemonic (e.g. ">=", "gte").
func ParseCompOp(s string) (CompOp, error) {
	if op, ok := compOpNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("unknown comparison operator %q", s)
}

// holds reports whether a comparison result c (-1, 0, +1) satisfies op.
func (op CompOp) holds(c int) bool {
	switch op {
	case EQ:
		return c == 0
	case GT:
		return c > 0
	case LT:
		return c < 0
	case GE:
		return c >= 0
	case LE:
		return c <= 0
	case NE:
		return c != 0
	}
	return false
}

// LogicOp joins the children of a ConditionNode.
type LogicOp int

const (
	AND LogicOp = iota + 1
	OR
)

func (op LogicOp) String() string {
	switch op {
	case AND:
		return "AND"
	case OR:
		return "OR"
	}
	return fmt.Sprintf("logic(%d)", int(op))
}

// Valid reports whether op is AND or OR.
func (op LogicOp) Valid() bool {
	return op == AND || op == OR
}

// ParseLogicOp resolves "and"/"or" (case-insensitive).
func ParseLogicOp(s string) (LogicOp, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND", "&&":
		return AND, nil
	case "OR", "||":
		return OR, nil
	}
	return 0, fmt.Errorf("unknown logical operator %q", s)
}
