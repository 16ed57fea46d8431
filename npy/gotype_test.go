package npy

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeForScalars(t *testing.T) {
	tests := []struct {
		descr string
		want  reflect.Type
	}{
		{"'|b1'", reflect.TypeFor[bool]()},
		{"'|i1'", reflect.TypeFor[int8]()},
		{"'<i2'", reflect.TypeFor[int16]()},
		{"'<i4'", reflect.TypeFor[int32]()},
		{"'>i8'", reflect.TypeFor[int64]()},
		{"'|u1'", reflect.TypeFor[uint8]()},
		{"'<u8'", reflect.TypeFor[uint64]()},
		{"'<f4'", reflect.TypeFor[float32]()},
		{"'>f8'", reflect.TypeFor[float64]()},
		{"'<c8'", reflect.TypeFor[complex64]()},
		{"'<c16'", reflect.TypeFor[complex128]()},
		{"'<m8[ns]'", reflect.TypeFor[int64]()},
		{"'<M8[us]'", reflect.TypeFor[uint64]()},
		{"'|S5'", reflect.TypeFor[[]byte]()},
		{"'|V3'", reflect.TypeFor[[]byte]()},
		{"'<U4'", reflect.TypeFor[string]()},
	}
	for _, tt := range tests {
		t.Run(tt.descr, func(t *testing.T) {
			rt, err := TypeFor(mustDescr(t, tt.descr))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt)
		})
	}
}

func TestTypeForUnrepresentable(t *testing.T) {
	// Half and quad floats decode to no Go type.
	for _, descr := range []string{"'<f2'", "'<f16'", "'<c32'"} {
		_, err := TypeFor(mustDescr(t, descr))
		require.Error(t, err, descr)
	}
}

func TestTypeForShaped(t *testing.T) {
	rt, err := TypeFor(mustDescr(t, "'<i4'"))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[int32](), rt)

	dt := NewArray(TypeStr{LittleEndian, KindInt, 4, NoUnit}, 2, 3)
	rt, err = TypeFor(dt)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[[2][3]int32](), rt)
}

func TestTypeForRecordBindsBack(t *testing.T) {
	dt := mustDescr(t, "[('a', '<u2'), ('b', '<f4'), ('x y', '|i1')]")
	rt, err := TypeFor(dt)
	require.NoError(t, err)
	require.Equal(t, reflect.Struct, rt.Kind())
	require.Equal(t, 3, rt.NumField())

	assert.Equal(t, "A", rt.Field(0).Name)
	assert.Equal(t, "B", rt.Field(1).Name)
	assert.Equal(t, "X_y", rt.Field(2).Name)
	assert.Equal(t, "x y", rt.Field(2).Tag.Get("npy"))

	// The generated type must bind back to the dtype it came from.
	_, err = compileRead(rt, dt)
	require.NoError(t, err)
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a", "A"},
		{"Already", "Already"},
		{"x y", "X_y"},
		{"2fast", "F2fast"},
		{"_hidden", "_hidden"},
		{"", "Field"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exportName(tt.in), tt.in)
	}
}

func TestFromBytesAny(t *testing.T) {
	rows := []pairRow{{A: 5, B: 2.5}, {A: 6, B: -1}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	d, err := FromBytesAny(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, reflect.Struct, d.GoType().Kind())

	first := reflect.ValueOf(d.Get(0))
	assert.Equal(t, uint16(5), first.Field(0).Interface())
	assert.Equal(t, float32(2.5), first.Field(1).Interface())

	second := reflect.ValueOf(d.Get(1))
	assert.Equal(t, uint16(6), second.Field(0).Interface())

	assert.Panics(t, func() { d.Get(2) })
}

func TestFromBytesAnyPlainArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []float64{1.5, 2.5, 3.5}))

	d, err := FromBytesAny(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[float64](), d.GoType())
	assert.Equal(t, 2.5, d.Get(1))
}
