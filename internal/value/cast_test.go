package value

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastTo_SameKindIsNoOp(t *testing.T) {
	s := StringVal("same")
	defer s.Release()

	for _, orig := range []SIValue{
		SIInt32(-3), SIInt64(1 << 40), SIUInt64(math.MaxUint64),
		SIFloat32(1.25), SIFloat64(3.5), SIBool(true), SITime(1700000000),
		s, SINull{}, SIPosInf{}, SINegInf{},
	} {
		v := orig
		require.NoError(t, CastTo(&v, orig.Kind()), "%s", orig.Kind())
		assert.Equal(t, orig, v)
	}
	assert.Equal(t, int32(1), s.Refs())
}

func TestCastFloat64_SameKindKeepsPayload(t *testing.T) {
	var v SIValue = SIFloat64(2.75)
	require.NoError(t, CastFloat64(&v, KindFloat64))
	assert.Equal(t, SIFloat64(2.75), v)
}

func TestCast_SourceMismatch(t *testing.T) {
	var v SIValue = SIFloat64(1.5)

	err := CastInt64(&v, KindInt32)
	require.Error(t, err)

	var ce *CastError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ReasonSourceMismatch, ce.Reason)
	assert.Equal(t, KindFloat64, ce.From)
	assert.Equal(t, SIFloat64(1.5), v)

	v = SIInt32(4)
	assert.Error(t, CastString(&v, KindInt64))
	assert.Error(t, CastFloat64(&v, KindInt64))
	assert.Equal(t, SIInt32(4), v)
}

func TestCast_Numeric(t *testing.T) {
	tests := []struct {
		name string
		from SIValue
		to   Kind
		want SIValue
	}{
		{"int64 narrows to int32", SIInt64(1<<32 + 5), KindInt32, SIInt32(5)},
		{"negative int64 to uint64", SIInt64(-1), KindUInt64, SIUInt64(math.MaxUint64)},
		{"int64 to float64", SIInt64(3), KindFloat64, SIFloat64(3)},
		{"int64 to time", SIInt64(60), KindTime, SITime(60)},
		{"int64 zero to bool", SIInt64(0), KindBool, SIBool(false)},
		{"int64 nonzero to bool", SIInt64(-2), KindBool, SIBool(true)},
		{"float64 truncates", SIFloat64(3.99), KindInt64, SIInt64(3)},
		{"negative float64 truncates", SIFloat64(-3.99), KindInt32, SIInt32(-3)},
		{"float64 fraction to bool", SIFloat64(0.5), KindBool, SIBool(true)},
		{"float64 to float32", SIFloat64(0.25), KindFloat32, SIFloat32(0.25)},
		{"int32 widens", SIInt32(-9), KindInt64, SIInt64(-9)},
		{"uint64 to int64", SIUInt64(10), KindInt64, SIInt64(10)},
		{"time to int64", SITime(100), KindInt64, SIInt64(100)},
		{"bool to int32", SIBool(true), KindInt32, SIInt32(1)},
		{"float32 to float64", SIFloat32(1.5), KindFloat64, SIFloat64(1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.from
			require.NoError(t, CastTo(&v, tt.to))
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestCast_ToString(t *testing.T) {
	tests := []struct {
		from SIValue
		want string
	}{
		{SIInt64(42), "42"},
		{SIInt32(-7), "-7"},
		{SIUInt64(math.MaxUint64), "18446744073709551615"},
		{SITime(1700000000), "1700000000"},
		{SIFloat64(0.5), "0.50000000000000000"},
		{SIBool(false), "false"},
	}

	for _, tt := range tests {
		v := tt.from
		require.NoError(t, CastTo(&v, KindString))
		s, ok := v.(SIString)
		require.True(t, ok)
		assert.Equal(t, tt.want, s.Text())
		assert.Equal(t, int32(1), s.Refs())
		s.Release()
	}
}

func TestCast_FromStringParsesAndReleases(t *testing.T) {
	s := StringVal("12")
	var v SIValue = s

	require.NoError(t, CastString(&v, KindInt32))
	assert.Equal(t, SIInt32(12), v)
	assert.False(t, s.Live())
}

func TestCast_FromStringParseFailure(t *testing.T) {
	s := StringVal("abc")
	defer s.Release()
	var v SIValue = s

	err := CastTo(&v, KindInt32)
	require.Error(t, err)

	var ce *CastError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ReasonParseFailed, ce.Reason)
	assert.True(t, IsParseError(err))
	assert.True(t, s.SameBuffer(v.(SIString)))
	assert.True(t, s.Live())
}

func TestCast_UnsupportedTarget(t *testing.T) {
	for _, to := range []Kind{KindNull, KindPosInf, KindNegInf} {
		var v SIValue = SIInt64(1)
		err := CastTo(&v, to)
		require.Error(t, err)
		assert.True(t, IsCastError(err))
		assert.Equal(t, SIInt64(1), v)
	}

	var v SIValue = SINull{}
	assert.Error(t, CastTo(&v, KindInt32))
	assert.Equal(t, SINull{}, v)
}

func TestToDouble(t *testing.T) {
	for _, v := range []SIValue{SIInt32(2), SIInt64(2), SIUInt64(2), SIFloat32(2), SIFloat64(2), SITime(2)} {
		f, err := ToDouble(v)
		require.NoError(t, err, "%s", v.Kind())
		assert.Equal(t, 2.0, f)
	}

	s := StringVal("2")
	defer s.Release()
	for _, v := range []SIValue{s, SIBool(true), SINull{}, SIPosInf{}, SINegInf{}, nil} {
		_, err := ToDouble(v)
		require.Error(t, err)
		var ce *CastError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, ReasonNotNumeric, ce.Reason)
	}
}
