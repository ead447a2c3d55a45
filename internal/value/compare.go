package value

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"math/big"

	"golang.org/x/text/unicode/norm"
)

// Compare orders a and b, returning -1, 0 or +1.
//
// Ordering rules:
//   - -inf sorts before and +inf after every non-Null value
//   - numeric kinds compare exactly, integers against floats included
//   - Bool: false < true
//   - String: byte order of the NFC-normalized text
//
// Null and NaN are not ordered against anything, and values from different
// families (e.g. String vs Int32) are refused. All return ErrIncomparable.
func Compare(a, b SIValue) (int, error) {
	ka, kb := kindOf(a), kindOf(b)
	if ka == KindNull || kb == KindNull {
		return 0, fmt.Errorf("%w: %s vs %s", ErrIncomparable, ka, kb)
	}
	if IsNaN(a) || IsNaN(b) {
		return 0, fmt.Errorf("%w: NaN", ErrIncomparable)
	}
	if c, ok := compareSentinels(ka, kb); ok {
		return c, nil
	}

	switch {
	case ka.isInteger() && kb.isInteger():
		return compareIntegers(a, b), nil
	case ka.IsNumeric() && kb.IsNumeric():
		return compareMixed(a, b, ka, kb), nil
	case ka == KindBool && kb == KindBool:
		return compareBools(bool(a.(SIBool)), bool(b.(SIBool))), nil
	case ka == KindString && kb == KindString:
		return compareText(a.(SIString).Bytes(), b.(SIString).Bytes()), nil
	}
	return 0, fmt.Errorf("%w: %s vs %s", ErrIncomparable, ka, kb)
}

// Comparable reports whether values of kinds a and b can be ordered by
// Compare. Null is comparable with nothing.
func Comparable(a, b Kind) bool {
	if a == KindNull || b == KindNull {
		return false
	}
	if a == KindPosInf || a == KindNegInf || b == KindPosInf || b == KindNegInf {
		return true
	}
	switch {
	case a.IsNumeric() && b.IsNumeric():
		return true
	case a == KindBool && b == KindBool:
		return true
	case a == KindString && b == KindString:
		return true
	}
	return false
}

// Equal reports whether a and b compare equal. Incomparable values are unequal.
func Equal(a, b SIValue) bool {
	c, err := Compare(a, b)
	return err == nil && c == 0
}

func compareSentinels(ka, kb Kind) (int, bool) {
	switch {
	case ka == kb && (ka == KindPosInf || ka == KindNegInf):
		return 0, true
	case ka == KindNegInf || kb == KindPosInf:
		return -1, true
	case ka == KindPosInf || kb == KindNegInf:
		return 1, true
	}
	return 0, false
}

// compareIntegers orders exact integers, including across the signed and
// unsigned boundary.
func compareIntegers(a, b SIValue) int {
	ua, aUnsigned := a.(SIUInt64)
	ub, bUnsigned := b.(SIUInt64)
	switch {
	case aUnsigned && bUnsigned:
		return cmp.Compare(ua, ub)
	case aUnsigned:
		sb := signedOf(b)
		if sb < 0 {
			return 1
		}
		return cmp.Compare(uint64(ua), uint64(sb))
	case bUnsigned:
		sa := signedOf(a)
		if sa < 0 {
			return -1
		}
		return cmp.Compare(uint64(sa), uint64(ub))
	}
	return cmp.Compare(signedOf(a), signedOf(b))
}

// compareMixed orders two numbers of which at least one is a float. An
// integer is compared against a float without rounding it to float64.
func compareMixed(a, b SIValue, ka, kb Kind) int {
	if !ka.isInteger() && !kb.isInteger() {
		fa, _ := ToDouble(a)
		fb, _ := ToDouble(b)
		return cmp.Compare(fa, fb)
	}
	return exactOf(a).Cmp(exactOf(b))
}

// exactOf returns v as an exact big.Float. v must not be NaN.
func exactOf(v SIValue) *big.Float {
	switch n := v.(type) {
	case SIUInt64:
		return new(big.Float).SetUint64(uint64(n))
	case SIFloat32:
		return big.NewFloat(float64(n))
	case SIFloat64:
		return big.NewFloat(float64(n))
	}
	return new(big.Float).SetInt64(signedOf(v))
}

// IsNaN reports whether v is a Float32 or Float64 NaN.
func IsNaN(v SIValue) bool {
	switch n := v.(type) {
	case SIFloat32:
		return math.IsNaN(float64(n))
	case SIFloat64:
		return math.IsNaN(float64(n))
	}
	return false
}

func signedOf(v SIValue) int64 {
	switch n := v.(type) {
	case SIInt32:
		return int64(n)
	case SIInt64:
		return int64(n)
	case SITime:
		return int64(n)
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func compareText(a, b []byte) int {
	return bytes.Compare(norm.NFC.Bytes(a), norm.NFC.Bytes(b))
}
