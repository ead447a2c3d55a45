package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	s := StringVal(`a"b`)
	defer s.Release()

	tests := []struct {
		v    SIValue
		want string
	}{
		{s, `"a"b"`},
		{SIInt32(-7), "-7"},
		{SIInt64(1 << 40), "1099511627776"},
		{SIUInt64(math.MaxUint64), "18446744073709551615"},
		{SITime(1700000000), "1700000000"},
		{SIBool(true), "true"},
		{SIBool(false), "false"},
		{SIFloat32(1.5), "1.500000"},
		{SIFloat64(3.14159265), "3.141593"},
		{SIFloat64(0), "0.000000"},
		{SIPosInf{}, "+inf"},
		{SINegInf{}, "-inf"},
		{SINull{}, "NULL"},
		{nil, "NULL"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.v))
	}
}

func TestFormat_StringUsesExactLength(t *testing.T) {
	s := StringValBytes([]byte("nul\x00inside"))
	defer s.Release()
	assert.Equal(t, "\"nul\x00inside\"", Format(s))
}

func TestFormatN_NeverExceedsCapacity(t *testing.T) {
	s := StringVal("hello")
	defer s.Release()

	assert.Equal(t, `"hel`, FormatN(s, 4))
	assert.Equal(t, `"hello"`, FormatN(s, 100))
	assert.Equal(t, "", FormatN(s, 0))
	assert.Equal(t, "NU", FormatN(SINull{}, 2))

	for c := 0; c < 12; c++ {
		assert.LessOrEqual(t, len(FormatN(SIFloat64(123.456), c)), c)
	}
}

func TestStringer(t *testing.T) {
	assert.Equal(t, "5", SIInt32(5).String())
	assert.Equal(t, "+inf", PositiveInfinityVal().String())
}
