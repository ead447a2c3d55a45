package value

import (
	"errors"
	"strconv"
	"strings"
)

// Parse builds a value of the given kind from raw text.
//
// Integer kinds (Int32, Int64, UInt64, Time) accept an optional sign followed
// by base-10 digits and nothing else; out-of-range input reports Overflow or
// Underflow. Bool accepts "1", "0" and case-insensitive "true"/"false".
// Float kinds accept any Go floating point literal. String copies text into
// a new buffer. Null and the infinities cannot be parsed.
func Parse(kind Kind, text []byte) (SIValue, error) {
	switch kind {
	case KindInt32, KindInt64, KindTime:
		return parseInt(kind, text)
	case KindUInt64:
		return parseUint(text)
	case KindFloat32, KindFloat64:
		return parseFloat(kind, text)
	case KindBool:
		return parseBool(text)
	case KindString:
		return StringValBytes(text), nil
	default:
		return nil, &ParseError{Kind: kind, Input: string(text), Reason: ReasonUnsupported}
	}
}

// ParseInto parses text as kind and stores the result in dst.
// On failure dst is left untouched.
func ParseInto(dst *SIValue, kind Kind, text []byte) error {
	v, err := Parse(kind, text)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// ParseString is Parse for Go strings.
func ParseString(kind Kind, text string) (SIValue, error) {
	return Parse(kind, []byte(text))
}

func parseInt(kind Kind, text []byte) (SIValue, error) {
	bits := 64
	if kind == KindInt32 {
		bits = 32
	}
	s := string(text)
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return nil, intParseError(kind, s, err)
	}
	switch kind {
	case KindInt32:
		return SIInt32(n), nil
	case KindTime:
		return SITime(n), nil
	default:
		return SIInt64(n), nil
	}
}

func parseUint(text []byte) (SIValue, error) {
	s := string(text)
	if strings.HasPrefix(s, "-") && hasDigit(s) {
		return nil, &ParseError{Kind: KindUInt64, Input: s, Reason: ReasonUnderflow}
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return nil, intParseError(KindUInt64, s, err)
	}
	return SIUInt64(n), nil
}

func intParseError(kind Kind, s string, err error) *ParseError {
	pe := &ParseError{Kind: kind, Input: s, Reason: ReasonSyntax, Err: err}
	switch {
	case !hasDigit(s):
		pe.Reason = ReasonNoDigits
	case errors.Is(err, strconv.ErrRange):
		pe.Reason = ReasonOverflow
		if strings.HasPrefix(s, "-") {
			pe.Reason = ReasonUnderflow
		}
	}
	return pe
}

func parseFloat(kind Kind, text []byte) (SIValue, error) {
	bits := 64
	if kind == KindFloat32 {
		bits = 32
	}
	s := string(text)
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		pe := &ParseError{Kind: kind, Input: s, Reason: ReasonBadFloat, Err: err}
		switch {
		case len(s) == 0:
			pe.Reason = ReasonNoDigits
		case errors.Is(err, strconv.ErrRange):
			pe.Reason = ReasonOverflow
			if f <= 0 {
				pe.Reason = ReasonUnderflow
			}
		}
		return nil, pe
	}
	if kind == KindFloat32 {
		return SIFloat32(f), nil
	}
	return SIFloat64(f), nil
}

func parseBool(text []byte) (SIValue, error) {
	s := string(text)
	switch {
	case s == "1" || strings.EqualFold(s, "true"):
		return SIBool(true), nil
	case s == "0" || strings.EqualFold(s, "false"):
		return SIBool(false), nil
	}
	return nil, &ParseError{Kind: KindBool, Input: s, Reason: ReasonBadBool}
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
