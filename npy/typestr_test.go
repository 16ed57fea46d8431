package npy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeStrValid(t *testing.T) {
	tests := []struct {
		input string
		want  TypeStr
	}{
		{"<i4", TypeStr{LittleEndian, KindInt, 4, NoUnit}},
		{">i8", TypeStr{BigEndian, KindInt, 8, NoUnit}},
		{"|i1", TypeStr{IrrelevantEndian, KindInt, 1, NoUnit}},
		{"<u2", TypeStr{LittleEndian, KindUint, 2, NoUnit}},
		{"|b1", TypeStr{IrrelevantEndian, KindBool, 1, NoUnit}},
		{">f16", TypeStr{BigEndian, KindFloat, 16, NoUnit}},
		{"<c8", TypeStr{LittleEndian, KindComplex, 8, NoUnit}},
		{">c16", TypeStr{BigEndian, KindComplex, 16, NoUnit}},
		{"|S7", TypeStr{IrrelevantEndian, KindByteStr, 7, NoUnit}},
		{"|S0", TypeStr{IrrelevantEndian, KindByteStr, 0, NoUnit}},
		{"<S0", TypeStr{LittleEndian, KindByteStr, 0, NoUnit}},
		{"|V7", TypeStr{IrrelevantEndian, KindRawData, 7, NoUnit}},
		{"|V0", TypeStr{IrrelevantEndian, KindRawData, 0, NoUnit}},
		{">U3", TypeStr{BigEndian, KindUnicode, 3, NoUnit}},
		{">U0", TypeStr{BigEndian, KindUnicode, 0, NoUnit}},
		{">m8[us]", TypeStr{BigEndian, KindTimeDelta, 8, UnitMicrosecond}},
		{"<m8[D]", TypeStr{LittleEndian, KindTimeDelta, 8, UnitDay}},
		{">M8[ns]", TypeStr{BigEndian, KindDateTime, 8, UnitNanosecond}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTypeStr(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTypeStrErrors(t *testing.T) {
	tests := []struct {
		input string
		is    error
	}{
		{"", ErrTypeStrSyntax},
		{">", ErrTypeStrSyntax},
		{">i", ErrTypeStrSyntax},
		{">m", ErrTypeStrSyntax},
		{">m8[", ErrTypeStrSyntax},
		{">m8[us", ErrTypeStrSyntax},
		{">m8[us]garbage", ErrTypeStrSyntax},
		{">m8[us]]", ErrTypeStrSyntax},
		{">i8garbage", ErrTypeStrSyntax},
		{">m[us]", ErrTypeStrSyntax},
		{"*i8", ErrTypeStrSyntax},
		{"<p8", ErrTypeStrSyntax},
		{">m8[bus]", ErrTypeStrSyntax},
		{">m8[usb]", ErrTypeStrSyntax},
		{">m8[xq]", ErrTypeStrSyntax},

		// Integer overflow must not panic.
		{">m999999999999999999999999999999[us]", ErrTypeStrSyntax},
		{">i999999999999999999999999999999", ErrTypeStrSyntax},

		// Multi-byte values require explicit endianness; so does 'U'.
		{"|i8", ErrInvalidEndianness},
		{"|U1", ErrInvalidEndianness},

		{">i9", ErrInvalidSize},
		{">m4[us]", ErrInvalidSize},
		{">b4", ErrInvalidSize},
		{">c4", ErrInvalidSize},

		{">i8[us]", ErrBadTimeUnits},
		{">m8", ErrBadTimeUnits},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseTypeStr(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestTypeStrString(t *testing.T) {
	assert.Equal(t, "<i8", TypeStr{LittleEndian, KindInt, 8, NoUnit}.String())
	assert.Equal(t, "|S13", TypeStr{IrrelevantEndian, KindByteStr, 13, NoUnit}.String())
	assert.Equal(t, ">m8[ns]", TypeStr{BigEndian, KindTimeDelta, 8, UnitNanosecond}.String())
}

func TestTypeStrRoundTrip(t *testing.T) {
	inputs := []string{
		">i8", ">f16", "<i8", "<i1", ">i1", "|i1", "|S7", "|S0", "<S0",
		">U3", "<m8[D]", ">m8[ms]", "<M8[as]", "<c32", "|u1", "<u8",
	}
	for _, s := range inputs {
		ts, err := ParseTypeStr(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, ts.String())
	}
}

func TestTypeStrNumBytes(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
	}{
		{"<i4", 4},
		{"|S7", 7},
		{"|V0", 0},
		{">U3", 12}, // code points, four bytes each
		{"<c16", 16},
	}
	for _, tt := range tests {
		ts, err := ParseTypeStr(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ts.NumBytes(), tt.input)
	}
}

func TestWithAutoEndianness(t *testing.T) {
	native := nativeEndianness()

	one := withAutoEndianness(KindInt, 1, NoUnit)
	assert.Equal(t, IrrelevantEndian, one.Endianness)

	eight := withAutoEndianness(KindInt, 8, NoUnit)
	assert.Equal(t, native, eight.Endianness)

	blob := withAutoEndianness(KindByteStr, 32, NoUnit)
	assert.Equal(t, IrrelevantEndian, blob.Endianness)
}
