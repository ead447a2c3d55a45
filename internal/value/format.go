package value

import "strconv"

// floatTextPrecision is the fractional digit count of the canonical float form.
const floatTextPrecision = 6

// Format returns the canonical text form of v.
//
//	String        "quoted", exact byte length, no escaping
//	integers      decimal
//	Time          decimal seconds
//	Bool          true | false
//	floats        fixed point, 6 fractional digits
//	infinities    +inf | -inf
//	Null, nil     NULL
func Format(v SIValue) string {
	return string(AppendFormat(nil, v))
}

// FormatN is Format bounded to at most capacity bytes.
func FormatN(v SIValue, capacity int) string {
	if capacity <= 0 {
		return ""
	}
	b := AppendFormat(make([]byte, 0, 32), v)
	if len(b) > capacity {
		b = b[:capacity]
	}
	return string(b)
}

// AppendFormat appends the canonical text form of v to dst.
func AppendFormat(dst []byte, v SIValue) []byte {
	switch val := v.(type) {
	case SIString:
		dst = append(dst, '"')
		dst = append(dst, val.Bytes()...)
		return append(dst, '"')
	case SIInt32:
		return strconv.AppendInt(dst, int64(val), 10)
	case SIInt64:
		return strconv.AppendInt(dst, int64(val), 10)
	case SIUInt64:
		return strconv.AppendUint(dst, uint64(val), 10)
	case SITime:
		return strconv.AppendInt(dst, int64(val), 10)
	case SIBool:
		return strconv.AppendBool(dst, bool(val))
	case SIFloat32:
		return strconv.AppendFloat(dst, float64(val), 'f', floatTextPrecision, 64)
	case SIFloat64:
		return strconv.AppendFloat(dst, float64(val), 'f', floatTextPrecision, 64)
	case SIPosInf:
		return append(dst, "+inf"...)
	case SINegInf:
		return append(dst, "-inf"...)
	default:
		return append(dst, "NULL"...)
	}
}
