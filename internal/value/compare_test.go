package value

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	a, b := StringVal("apple"), StringVal("banana")
	defer a.Release()
	defer b.Release()

	tests := []struct {
		name string
		a, b SIValue
		want int
	}{
		{"int32 vs int64 equal", SIInt32(5), SIInt64(5), 0},
		{"negative vs unsigned", SIInt32(-1), SIUInt64(0), -1},
		{"uint64 beyond int64", SIUInt64(math.MaxUint64), SIInt64(math.MaxInt64), 1},
		{"int64 vs uint64 exact", SIInt64(7), SIUInt64(7), 0},
		{"time vs int32", SITime(10), SIInt32(9), 1},
		{"int vs float", SIInt32(2), SIFloat64(2.5), -1},
		{"int64 above 2^53 vs float", SIInt64(9007199254740993), SIFloat64(9007199254740992), 1},
		{"int64 at 2^53 vs float", SIInt64(9007199254740992), SIFloat64(9007199254740992), 0},
		{"float vs int64 above 2^53", SIFloat64(9007199254740992), SIInt64(9007199254740993), -1},
		{"max uint64 vs 2^64", SIUInt64(math.MaxUint64), SIFloat64(18446744073709551616), -1},
		{"time vs float32", SITime(3), SIFloat32(2.5), 1},
		{"int vs float infinity", SIInt64(math.MaxInt64), SIFloat64(math.Inf(1)), -1},
		{"float32 vs float64", SIFloat32(0.5), SIFloat64(0.5), 0},
		{"bool order", SIBool(false), SIBool(true), -1},
		{"string order", a, b, -1},
		{"neg inf first", SINegInf{}, SIInt32(math.MinInt32), -1},
		{"pos inf last", SIPosInf{}, a, 1},
		{"inf vs inf", SIPosInf{}, SIPosInf{}, 0},
		{"neg vs pos inf", SINegInf{}, SIPosInf{}, -1},
		{"value vs neg inf", SIFloat64(-1e300), SINegInf{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_NormalizesText(t *testing.T) {
	composed := StringVal("caf\u00e9")
	decomposed := StringVal("cafe\u0301")
	defer composed.Release()
	defer decomposed.Release()

	c, err := Compare(composed, decomposed)
	require.NoError(t, err)
	assert.Equal(t, 0, c)
	assert.True(t, Equal(composed, decomposed))
}

func TestCompare_Incomparable(t *testing.T) {
	s := StringVal("1")
	defer s.Release()

	for _, pair := range [][2]SIValue{
		{SINull{}, SIInt32(1)},
		{SIInt32(1), SINull{}},
		{SINull{}, SINull{}},
		{s, SIInt32(1)},
		{SIBool(true), SIInt32(1)},
		{SIFloat64(math.NaN()), SIFloat64(math.NaN())},
		{SIFloat64(math.NaN()), SIInt32(5)},
		{SIInt64(5), SIFloat32(float32(math.NaN()))},
		{SIFloat64(math.NaN()), SIPosInf{}},
	} {
		_, err := Compare(pair[0], pair[1])
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIncomparable))
		assert.False(t, Equal(pair[0], pair[1]))
	}
}

func TestComparable(t *testing.T) {
	assert.True(t, Comparable(KindInt32, KindFloat64))
	assert.True(t, Comparable(KindTime, KindUInt64))
	assert.True(t, Comparable(KindString, KindString))
	assert.True(t, Comparable(KindBool, KindPosInf))
	assert.False(t, Comparable(KindString, KindInt32))
	assert.False(t, Comparable(KindBool, KindInt64))
	assert.False(t, Comparable(KindNull, KindNull))
	assert.False(t, Comparable(KindNull, KindPosInf))
}

func TestIsNaN(t *testing.T) {
	assert.True(t, IsNaN(SIFloat64(math.NaN())))
	assert.True(t, IsNaN(SIFloat32(float32(math.NaN()))))
	assert.False(t, IsNaN(SIFloat64(math.Inf(1))))
	assert.False(t, IsNaN(SIInt32(0)))
	assert.False(t, IsNaN(nil))
}
