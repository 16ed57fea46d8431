package npy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescrScalar(t *testing.T) {
	dt, err := ParseDescr("'<i4'")
	require.NoError(t, err)
	assert.False(t, dt.IsRecord())
	assert.Equal(t, TypeStr{LittleEndian, KindInt, 4, NoUnit}, *dt.Ty)
	assert.Empty(t, dt.Shape)
}

func TestParseDescrRecord(t *testing.T) {
	dt, err := ParseDescr("[('a', '<u2'), ('b', '<f4')]")
	require.NoError(t, err)
	require.True(t, dt.IsRecord())
	require.Len(t, dt.Fields, 2)

	assert.Equal(t, "a", dt.Fields[0].Name)
	assert.Equal(t, TypeStr{LittleEndian, KindUint, 2, NoUnit}, *dt.Fields[0].DType.Ty)
	assert.Equal(t, "b", dt.Fields[1].Name)
	assert.Equal(t, TypeStr{LittleEndian, KindFloat, 4, NoUnit}, *dt.Fields[1].DType.Ty)
}

func TestParseDescrFieldShape(t *testing.T) {
	dt, err := ParseDescr("[('a', '<i4', (2, 3)), ('b', '|S5')]")
	require.NoError(t, err)
	require.True(t, dt.IsRecord())
	require.Len(t, dt.Fields, 2)
	assert.Equal(t, []int{2, 3}, dt.Fields[0].DType.Shape)
	assert.Empty(t, dt.Fields[1].DType.Shape)
}

func TestParseDescrNestedRecord(t *testing.T) {
	dt, err := ParseDescr("[('pos', [('x', '<f8'), ('y', '<f8')]), ('id', '<u4')]")
	require.NoError(t, err)
	require.True(t, dt.IsRecord())
	require.Len(t, dt.Fields, 2)

	nested := dt.Fields[0].DType
	require.True(t, nested.IsRecord())
	require.Len(t, nested.Fields, 2)
	assert.Equal(t, "x", nested.Fields[0].Name)
	assert.Equal(t, "y", nested.Fields[1].Name)
}

func TestParseDescrErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a literal", "<i4"},
		{"bad type string", "'<i3'"},
		{"int literal", "42"},
		{"field not a tuple", "['a']"},
		{"one-element tuple", "[('a',)]"},
		{"four-element tuple", "[('a', '<i4', (2,), 'extra')]"},
		{"non-string field name", "[(1, '<i4')]"},
		{"shaped nested record", "[('a', [('x', '<i4')], (2,))]"},
		{"non-integer shape", "[('a', '<i4', ('x',))]"},
		{"zero dimension", "[('a', '<i4', (0,))]"},
		{"negative dimension", "[('a', '<i4', (2, 0))]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescr(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDescr)
		})
	}
}

func TestDescrRoundTrip(t *testing.T) {
	inputs := []string{
		"'<i4'",
		"'>m8[ns]'",
		"[('a', '<u2'), ('b', '<f4')]",
		"[('a', '<i4', (2,3,)), ('b', '|S5')]",
		"[('pos', [('x', '<f8'), ('y', '<f8')]), ('id', '<u4')]",
		"[]",
	}
	for _, s := range inputs {
		dt, err := ParseDescr(s)
		require.NoError(t, err, s)

		back, err := ParseDescr(dt.Descr())
		require.NoError(t, err, dt.Descr())
		assert.Equal(t, dt, back, s)
	}
}

func TestDescrRendering(t *testing.T) {
	dt := NewRecord(
		Field{"a", NewArray(TypeStr{LittleEndian, KindInt, 4, NoUnit}, 2, 3)},
		Field{"b", NewScalar(TypeStr{IrrelevantEndian, KindByteStr, 5, NoUnit})},
	)
	assert.Equal(t, "[('a', '<i4', (2,3,)), ('b', '|S5')]", dt.Descr())

	scalar := NewScalar(TypeStr{BigEndian, KindDateTime, 8, UnitMillisecond})
	assert.Equal(t, "'>M8[ms]'", scalar.Descr())
}

func TestDTypeNumBytes(t *testing.T) {
	dt, err := ParseDescr("[('a', '<u2'), ('b', '<f4')]")
	require.NoError(t, err)
	n, err := dt.NumBytes()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	arr, err := ParseDescr("[('a', '<i4', (2, 3))]")
	require.NoError(t, err)
	n, err = arr.NumBytes()
	require.NoError(t, err)
	assert.Equal(t, 24, n)

	empty := NewRecord()
	n, err = empty.NumBytes()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	unicode := NewScalar(TypeStr{LittleEndian, KindUnicode, 3, NoUnit})
	n, err = unicode.NumBytes()
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestDTypeNumBytesOverflow(t *testing.T) {
	huge := NewScalar(TypeStr{IrrelevantEndian, KindByteStr, 1 << 62, NoUnit})
	_, err := NewArray(*huge.Ty, 16).NumBytes()
	require.Error(t, err)
	var de *DTypeError
	assert.ErrorAs(t, err, &de)
}
