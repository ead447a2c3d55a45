package value

import (
	"fmt"
	"strings"
)

// Kind identifies the active variant of an SIValue.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt32
	KindInt64
	KindUInt64
	KindFloat32
	KindFloat64
	KindBool
	KindTime
	KindString
	KindPosInf
	KindNegInf
)

var kindNames = [...]string{
	KindNull:    "null",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUInt64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindTime:    "time",
	KindString:  "string",
	KindPosInf:  "+inf",
	KindNegInf:  "-inf",
}

// kindAliases maps the names accepted by schemas, scenarios and the CLI.
var kindAliases = map[string]Kind{
	"int":    KindInt32,
	"long":   KindInt64,
	"uint":   KindUInt64,
	"float":  KindFloat32,
	"double": KindFloat64,
	"inf":    KindPosInf,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves a kind name (case-insensitive).
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, kn := range kindNames {
		if kn == n {
			return Kind(k), nil
		}
	}
	if k, ok := kindAliases[n]; ok {
		return k, nil
	}
	return KindNull, fmt.Errorf("unknown value kind %q", name)
}

// IsNumeric reports whether values of k can be widened to float64.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt32, KindInt64, KindUInt64, KindFloat32, KindFloat64, KindTime:
		return true
	}
	return false
}

// isInteger reports whether k carries an exact integer payload.
func (k Kind) isInteger() bool {
	switch k {
	case KindInt32, KindInt64, KindUInt64, KindTime:
		return true
	}
	return false
}

// IsSentinel reports whether k carries no payload (Null and the infinities).
func (k Kind) IsSentinel() bool {
	return k == KindNull || k == KindPosInf || k == KindNegInf
}
