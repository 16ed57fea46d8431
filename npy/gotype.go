package npy

import (
	"fmt"
	"reflect"
)

// TypeFor builds a Go reflect.Type that can hold one element of the given
// dtype: bool, sized integers and floats, complex numbers, []byte for the
// 'S' and 'V' kinds, string for 'U', int64/uint64 for 'm'/'M', nested
// fixed-size arrays for shaped dtypes, and a generated struct for
// records. The struct fields carry `npy` tags with the original names, so
// the type binds back to the same dtype.
func TypeFor(dt DType) (reflect.Type, error) {
	if dt.IsRecord() {
		fields := make([]reflect.StructField, len(dt.Fields))
		for i, f := range dt.Fields {
			ft, err := TypeFor(f.DType)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			fields[i] = reflect.StructField{
				Name: exportName(f.Name),
				Type: ft,
				Tag:  reflect.StructTag(fmt.Sprintf("npy:%q", f.Name)),
			}
		}
		return reflect.StructOf(fields), nil
	}

	elem, err := scalarGoType(*dt.Ty)
	if err != nil {
		return nil, err
	}
	// Nest from the innermost dimension outwards.
	for i := len(dt.Shape) - 1; i >= 0; i-- {
		elem = reflect.ArrayOf(dt.Shape[i], elem)
	}
	return elem, nil
}

func scalarGoType(ts TypeStr) (reflect.Type, error) {
	if err := ts.validate(); err != nil {
		return nil, err
	}

	switch ts.Kind {
	case KindBool:
		return reflect.TypeFor[bool](), nil
	case KindInt, KindTimeDelta:
		switch ts.Size {
		case 1:
			return reflect.TypeFor[int8](), nil
		case 2:
			return reflect.TypeFor[int16](), nil
		case 4:
			return reflect.TypeFor[int32](), nil
		case 8:
			return reflect.TypeFor[int64](), nil
		}
	case KindUint, KindDateTime:
		switch ts.Size {
		case 1:
			return reflect.TypeFor[uint8](), nil
		case 2:
			return reflect.TypeFor[uint16](), nil
		case 4:
			return reflect.TypeFor[uint32](), nil
		case 8:
			return reflect.TypeFor[uint64](), nil
		}
	case KindFloat:
		switch ts.Size {
		case 4:
			return reflect.TypeFor[float32](), nil
		case 8:
			return reflect.TypeFor[float64](), nil
		}
	case KindComplex:
		switch ts.Size {
		case 8:
			return reflect.TypeFor[complex64](), nil
		case 16:
			return reflect.TypeFor[complex128](), nil
		}
	case KindByteStr, KindRawData:
		return reflect.TypeFor[[]byte](), nil
	case KindUnicode:
		return reflect.TypeFor[string](), nil
	}
	return nil, DTypeErrorf("no Go type for type-string '%s'", ts)
}

// exportName converts a dtype field name to a valid exported Go struct
// field name. The original name is preserved in the `npy` tag, so lossy
// sanitizing here does not affect the dtype binding.
func exportName(name string) string {
	if len(name) == 0 {
		return "Field"
	}

	runes := []rune(name)
	if runes[0] >= 'a' && runes[0] <= 'z' {
		runes[0] = runes[0] - 'a' + 'A'
	}
	if !((runes[0] >= 'A' && runes[0] <= 'Z') || runes[0] == '_') {
		runes = append([]rune{'F'}, runes...)
	}
	for i, r := range runes {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_') {
			runes[i] = '_'
		}
	}
	return string(runes)
}

// AnyData is the dynamically-typed counterpart of Data: records decode
// into a Go type inferred from the file's own dtype. It backs inspection
// tooling that cannot know the record type at compile time.
type AnyData struct {
	header   Header
	read     readFunc
	rt       reflect.Type
	data     []byte
	n        int
	itemSize int
}

// FromBytesAny parses a complete NPY file and prepares dynamic decoding.
func FromBytesAny(b []byte) (*AnyData, error) {
	h, rest, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if h.FortranOrder {
		return nil, ErrFortranOrder
	}
	if len(h.Shape) != 1 {
		return nil, fmt.Errorf("%w: got %v", ErrBadShape, h.Shape)
	}
	n := h.Shape[0]

	rt, err := TypeFor(h.Descr)
	if err != nil {
		return nil, err
	}
	read, err := compileRead(rt, h.Descr)
	if err != nil {
		return nil, err
	}
	itemSize, err := h.Descr.NumBytes()
	if err != nil {
		return nil, err
	}
	if itemSize > 0 && n > len(rest)/itemSize {
		return nil, fmt.Errorf("%w: %d records declared, data holds %d",
			ErrInvalidHeader, n, len(rest)/itemSize)
	}

	return &AnyData{header: h, read: read, rt: rt, data: rest, n: n, itemSize: itemSize}, nil
}

// Len is the number of records.
func (d *AnyData) Len() int { return d.n }

// Header is the parsed file header.
func (d *AnyData) Header() Header { return d.header }

// GoType is the inferred element type.
func (d *AnyData) GoType() reflect.Type { return d.rt }

// Get decodes record i into the inferred Go type. It panics if i is out
// of range.
func (d *AnyData) Get(i int) any {
	if i < 0 || i >= d.n {
		panic(fmt.Sprintf("npy: record index %d out of range [0:%d]", i, d.n))
	}
	v := reflect.New(d.rt).Elem()
	d.read(v, d.data[i*d.itemSize:])
	return v.Interface()
}
