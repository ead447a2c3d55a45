package value

import "strconv"

// floatStringPrecision is the fractional digit count used when a float is
// cast to String. It is wide enough for the text to parse back to the same
// float64.
const floatStringPrecision = 17

// CastTo converts *v to the target kind in place.
//
// Casting a value to its own kind is a no-op. Numeric casts use Go's
// conversion rules (truncation on narrowing). Casting to Bool yields true for
// any nonzero value. Casting to String formats into a new buffer. Casting a
// String to any other kind parses its text and releases the old buffer.
//
// On failure *v is left untouched and a *CastError is returned.
func CastTo(v *SIValue, to Kind) error {
	from := kindOf(*v)
	if from == to {
		return nil
	}
	var (
		out SIValue
		ok  bool
	)
	switch src := (*v).(type) {
	case SIInt32:
		out, ok = fromInt(int64(src), to)
	case SIInt64:
		out, ok = fromInt(int64(src), to)
	case SITime:
		out, ok = fromInt(int64(src), to)
	case SIUInt64:
		out, ok = fromUint(uint64(src), to)
	case SIFloat32:
		out, ok = fromFloat(float64(src), to)
	case SIFloat64:
		out, ok = fromFloat(float64(src), to)
	case SIBool:
		out, ok = fromBool(bool(src), to)
	case SIString:
		return castString(v, src, to)
	}
	if !ok {
		return &CastError{From: from, To: to, Reason: ReasonUnsupportedTarget}
	}
	*v = out
	return nil
}

// CastInt64 is CastTo restricted to Int64 sources.
func CastInt64(v *SIValue, to Kind) error {
	return castFrom(KindInt64, v, to)
}

// CastFloat64 is CastTo restricted to Float64 sources.
func CastFloat64(v *SIValue, to Kind) error {
	return castFrom(KindFloat64, v, to)
}

// CastString is CastTo restricted to String sources.
func CastString(v *SIValue, to Kind) error {
	return castFrom(KindString, v, to)
}

func castFrom(want Kind, v *SIValue, to Kind) error {
	if from := kindOf(*v); from != want {
		return &CastError{From: from, To: to, Reason: ReasonSourceMismatch}
	}
	return CastTo(v, to)
}

func kindOf(v SIValue) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

func fromInt(i int64, to Kind) (SIValue, bool) {
	switch to {
	case KindInt32:
		return SIInt32(int32(i)), true
	case KindInt64:
		return SIInt64(i), true
	case KindUInt64:
		return SIUInt64(uint64(i)), true
	case KindFloat32:
		return SIFloat32(float32(i)), true
	case KindFloat64:
		return SIFloat64(float64(i)), true
	case KindBool:
		return SIBool(i != 0), true
	case KindTime:
		return SITime(i), true
	case KindString:
		return newSIString(strconv.AppendInt(nil, i, 10)), true
	}
	return nil, false
}

func fromUint(u uint64, to Kind) (SIValue, bool) {
	switch to {
	case KindInt32:
		return SIInt32(int32(u)), true
	case KindInt64:
		return SIInt64(int64(u)), true
	case KindFloat32:
		return SIFloat32(float32(u)), true
	case KindFloat64:
		return SIFloat64(float64(u)), true
	case KindBool:
		return SIBool(u != 0), true
	case KindTime:
		return SITime(int64(u)), true
	case KindString:
		return newSIString(strconv.AppendUint(nil, u, 10)), true
	}
	return nil, false
}

func fromFloat(f float64, to Kind) (SIValue, bool) {
	switch to {
	case KindInt32:
		return SIInt32(int32(f)), true
	case KindInt64:
		return SIInt64(int64(f)), true
	case KindUInt64:
		return SIUInt64(uint64(f)), true
	case KindFloat32:
		return SIFloat32(float32(f)), true
	case KindFloat64:
		return SIFloat64(f), true
	case KindBool:
		return SIBool(f != 0), true
	case KindTime:
		return SITime(int64(f)), true
	case KindString:
		return newSIString(strconv.AppendFloat(nil, f, 'f', floatStringPrecision, 64)), true
	}
	return nil, false
}

func fromBool(b bool, to Kind) (SIValue, bool) {
	if to == KindString {
		return newSIString(strconv.AppendBool(nil, b)), true
	}
	var i int64
	if b {
		i = 1
	}
	return fromInt(i, to)
}

func castString(v *SIValue, s SIString, to Kind) error {
	if to.IsSentinel() {
		return &CastError{From: KindString, To: to, Reason: ReasonUnsupportedTarget}
	}
	out, err := Parse(to, s.Bytes())
	if err != nil {
		return &CastError{From: KindString, To: to, Reason: ReasonParseFailed, Err: err}
	}
	s.Release()
	*v = out
	return nil
}

// ToDouble widens any numeric or time value to float64.
// String, Bool, Null and the infinities are refused.
func ToDouble(v SIValue) (float64, error) {
	switch n := v.(type) {
	case SIInt32:
		return float64(n), nil
	case SIInt64:
		return float64(n), nil
	case SIUInt64:
		return float64(n), nil
	case SIFloat32:
		return float64(n), nil
	case SIFloat64:
		return float64(n), nil
	case SITime:
		return float64(n), nil
	}
	return 0, &CastError{From: kindOf(v), To: KindFloat64, Reason: ReasonNotNumeric}
}
