package value

import "time"

// SIValue is a sealed interface over the scalar kinds.
// Only the SI* types in this package implement it.
type SIValue interface {
	Kind() Kind
	siValue() // Sealed
}

// SIInt32 is a signed 32-bit integer value.
type SIInt32 int32

// SIInt64 is a signed 64-bit integer value.
type SIInt64 int64

// SIUInt64 is an unsigned 64-bit integer value.
type SIUInt64 uint64

// SIFloat32 is a single-precision float value.
type SIFloat32 float32

// SIFloat64 is a double-precision float value.
type SIFloat64 float64

// SIBool is a boolean value.
type SIBool bool

// SITime is a point in time, in seconds since the Unix epoch.
type SITime int64

// SINull is the absent value. It carries no payload.
type SINull struct{}

// SIPosInf sorts after every other orderable value.
type SIPosInf struct{}

// SINegInf sorts before every other orderable value.
type SINegInf struct{}

func (SIInt32) Kind() Kind   { return KindInt32 }
func (SIInt64) Kind() Kind   { return KindInt64 }
func (SIUInt64) Kind() Kind  { return KindUInt64 }
func (SIFloat32) Kind() Kind { return KindFloat32 }
func (SIFloat64) Kind() Kind { return KindFloat64 }
func (SIBool) Kind() Kind    { return KindBool }
func (SITime) Kind() Kind    { return KindTime }
func (SIString) Kind() Kind  { return KindString }
func (SINull) Kind() Kind    { return KindNull }
func (SIPosInf) Kind() Kind  { return KindPosInf }
func (SINegInf) Kind() Kind  { return KindNegInf }

func (SIInt32) siValue()   {}
func (SIInt64) siValue()   {}
func (SIUInt64) siValue()  {}
func (SIFloat32) siValue() {}
func (SIFloat64) siValue() {}
func (SIBool) siValue()    {}
func (SITime) siValue()    {}
func (SIString) siValue()  {}
func (SINull) siValue()    {}
func (SIPosInf) siValue()  {}
func (SINegInf) siValue()  {}

func (v SIInt32) String() string   { return Format(v) }
func (v SIInt64) String() string   { return Format(v) }
func (v SIUInt64) String() string  { return Format(v) }
func (v SIFloat32) String() string { return Format(v) }
func (v SIFloat64) String() string { return Format(v) }
func (v SIBool) String() string    { return Format(v) }
func (v SITime) String() string    { return Format(v) }
func (v SIString) String() string  { return Format(v) }
func (v SINull) String() string    { return Format(v) }
func (v SIPosInf) String() string  { return Format(v) }
func (v SINegInf) String() string  { return Format(v) }

// Int32Val creates an SIInt32 value.
func Int32Val(i int32) SIInt32 { return SIInt32(i) }

// Int64Val creates an SIInt64 value.
func Int64Val(i int64) SIInt64 { return SIInt64(i) }

// UIntVal creates an SIUInt64 value.
func UIntVal(u uint64) SIUInt64 { return SIUInt64(u) }

// Float32Val creates an SIFloat32 value.
func Float32Val(f float32) SIFloat32 { return SIFloat32(f) }

// Float64Val creates an SIFloat64 value.
func Float64Val(f float64) SIFloat64 { return SIFloat64(f) }

// BoolVal creates an SIBool value.
func BoolVal(b bool) SIBool { return SIBool(b) }

// TimeVal creates an SITime value from seconds since the epoch.
func TimeVal(sec int64) SITime { return SITime(sec) }

// TimeOf creates an SITime value from t, truncated to whole seconds.
func TimeOf(t time.Time) SITime { return SITime(t.Unix()) }

// Time converts the value back to a time.Time in UTC.
func (v SITime) Time() time.Time { return time.Unix(int64(v), 0).UTC() }

// NullVal returns the Null value.
func NullVal() SINull { return SINull{} }

// PositiveInfinityVal returns the +inf sentinel.
func PositiveInfinityVal() SIPosInf { return SIPosInf{} }

// NegativeInfinityVal returns the -inf sentinel.
func NegativeInfinityVal() SINegInf { return SINegInf{} }

// IsNull reports whether v is nil or the Null kind.
func IsNull(v SIValue) bool {
	return v == nil || v.Kind() == KindNull
}

// Retain returns a value safe to store alongside v: strings are shared via
// Copy, every other kind is returned as is.
func Retain(v SIValue) SIValue {
	if s, ok := v.(SIString); ok {
		return s.Copy()
	}
	return v
}

// Release drops the resources held by v. Only strings hold any.
func Release(v SIValue) {
	if s, ok := v.(SIString); ok {
		s.Release()
	}
}
