package npy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/potocpav/npy-rs/internal/pylit"
)

// DType describes the type, shape and byte order of one array element.
// It is either plain (a scalar type-string, optionally with fixed array
// dimensions) or a record (an ordered list of named fields). Exactly one
// of Ty or Fields is set.
type DType struct {
	// Ty is the scalar type-string of a plain dtype.
	Ty *TypeStr
	// Shape holds the fixed array dimensions of a plain dtype; empty for
	// scalars. Every dimension is positive.
	Shape []int
	// Fields is the ordered field list of a record dtype.
	Fields []Field
}

// Field is one named member of a record dtype. Nested records are
// allowed; arrays of records are not.
type Field struct {
	Name  string
	DType DType
}

// NewScalar makes a plain dtype with no array dimensions.
func NewScalar(ts TypeStr) DType {
	return DType{Ty: &ts}
}

// NewArray makes a plain dtype with the given array dimensions.
func NewArray(ts TypeStr, shape ...int) DType {
	return DType{Ty: &ts, Shape: shape}
}

// NewRecord makes a record dtype from fields in order.
func NewRecord(fields ...Field) DType {
	if fields == nil {
		fields = []Field{}
	}
	return DType{Fields: fields}
}

// IsRecord reports whether the dtype is a record.
func (d DType) IsRecord() bool { return d.Fields != nil }

// asScalar returns the type-string when the dtype is a plain scalar
// (no array dimensions).
func (d DType) asScalar() (TypeStr, bool) {
	if d.Ty != nil && len(d.Shape) == 0 {
		return *d.Ty, true
	}
	return TypeStr{}, false
}

// NumBytes is the number of bytes one element of this dtype occupies.
// It fails only when the declared sizes do not fit the platform int.
func (d DType) NumBytes() (int, error) {
	if d.IsRecord() {
		total := 0
		for _, f := range d.Fields {
			n, err := f.DType.NumBytes()
			if err != nil {
				return 0, err
			}
			if total > math.MaxInt-n {
				return 0, errSizeOverflow(uint64(n))
			}
			total += n
		}
		return total, nil
	}

	size := d.Ty.NumBytes()
	if size > math.MaxInt {
		return 0, errSizeOverflow(size)
	}
	n := int(size)
	for _, dim := range d.Shape {
		if dim != 0 && n > math.MaxInt/dim {
			return 0, errSizeOverflow(size)
		}
		n *= dim
	}
	return n, nil
}

// arrayInnerDType pops the first array dimension, checking that it equals
// want. It is how fixed-size Go arrays bind to one dimension of a plain
// dtype; nested arrays pop one dimension per nesting level.
func (d DType) arrayInnerDType(want int, goType string) (DType, error) {
	if d.IsRecord() || len(d.Shape) == 0 {
		return DType{}, errExpectedArray(d, goType)
	}
	if d.Shape[0] != want {
		return DType{}, errWrongArrayLen(want, d.Shape[0])
	}
	return DType{Ty: d.Ty, Shape: d.Shape[1:]}, nil
}

// Descr renders the canonical descr text: a single quoted type-string for
// plain dtypes, or a list of name/type tuples for records, exactly as it
// is embedded in a file header. ParseDescr inverts it.
func (d DType) Descr() string {
	var sb strings.Builder
	d.renderDescr(&sb)
	return sb.String()
}

func (d DType) renderDescr(sb *strings.Builder) {
	if !d.IsRecord() {
		sb.WriteByte('\'')
		sb.WriteString(d.Ty.String())
		sb.WriteByte('\'')
		return
	}

	sb.WriteByte('[')
	for i, f := range d.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("('")
		sb.WriteString(f.Name)
		sb.WriteString("', ")
		if f.DType.IsRecord() {
			f.DType.renderDescr(sb)
		} else {
			sb.WriteByte('\'')
			sb.WriteString(f.DType.Ty.String())
			sb.WriteByte('\'')
			if len(f.DType.Shape) > 0 {
				sb.WriteString(", (")
				for _, dim := range f.DType.Shape {
					sb.WriteString(strconv.Itoa(dim))
					sb.WriteByte(',')
				}
				sb.WriteByte(')')
			}
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(']')
}

// ParseDescr parses descr text (one header item: a quoted type-string or
// a list of field tuples) into a DType.
func ParseDescr(text string) (DType, error) {
	v, err := pylit.Parse([]byte(text))
	if err != nil {
		return DType{}, fmt.Errorf("%w: %v", ErrInvalidDescr, err)
	}
	return dtypeFromValue(v)
}

// dtypeFromValue builds a DType from a parsed header value. A string is a
// plain scalar; a list is a record whose items are 2-tuples
// [name, type-string], 2-tuples [name, nested-record-list], or 3-tuples
// [name, type-string, shape].
func dtypeFromValue(v pylit.Value) (DType, error) {
	switch v.Kind {
	case pylit.KindStr:
		ts, err := ParseTypeStr(v.Str)
		if err != nil {
			return DType{}, fmt.Errorf("%w: %v", ErrInvalidDescr, err)
		}
		return NewScalar(ts), nil

	case pylit.KindList:
		fields := make([]Field, 0, len(v.List))
		for _, item := range v.List {
			f, err := fieldFromValue(item)
			if err != nil {
				return DType{}, err
			}
			fields = append(fields, f)
		}
		return NewRecord(fields...), nil

	default:
		return DType{}, fmt.Errorf("%w: descr must be a string or a list, got %s",
			ErrInvalidDescr, v.Kind)
	}
}

func fieldFromValue(v pylit.Value) (Field, error) {
	if v.Kind != pylit.KindList {
		return Field{}, fmt.Errorf("%w: field descriptor must be a tuple, got %s",
			ErrInvalidDescr, v.Kind)
	}
	if len(v.List) != 2 && len(v.List) != 3 {
		return Field{}, fmt.Errorf("%w: field descriptor must have 2 or 3 elements, got %d",
			ErrInvalidDescr, len(v.List))
	}

	name := v.List[0]
	if name.Kind != pylit.KindStr {
		return Field{}, fmt.Errorf("%w: field name must be a string, got %s",
			ErrInvalidDescr, name.Kind)
	}

	switch ty := v.List[1]; ty.Kind {
	case pylit.KindStr:
		ts, err := ParseTypeStr(ty.Str)
		if err != nil {
			return Field{}, fmt.Errorf("%w: field %q: %v", ErrInvalidDescr, name.Str, err)
		}
		if len(v.List) == 2 {
			return Field{Name: name.Str, DType: NewScalar(ts)}, nil
		}

		shape, err := shapeFromValue(v.List[2])
		if err != nil {
			return Field{}, fmt.Errorf("%w: field %q: %v", ErrInvalidDescr, name.Str, err)
		}
		return Field{Name: name.Str, DType: NewArray(ts, shape...)}, nil

	case pylit.KindList:
		if len(v.List) == 3 {
			return Field{}, fmt.Errorf("%w: field %q: arrays of nested records are not supported",
				ErrInvalidDescr, name.Str)
		}
		nested, err := dtypeFromValue(ty)
		if err != nil {
			return Field{}, err
		}
		return Field{Name: name.Str, DType: nested}, nil

	default:
		return Field{}, fmt.Errorf("%w: field %q: type must be a string or a nested list, got %s",
			ErrInvalidDescr, name.Str, ty.Kind)
	}
}

func shapeFromValue(v pylit.Value) ([]int, error) {
	if v.Kind != pylit.KindList {
		return nil, fmt.Errorf("shape must be a tuple of integers, got %s", v.Kind)
	}
	shape := make([]int, 0, len(v.List))
	for _, dim := range v.List {
		if dim.Kind != pylit.KindInt {
			return nil, fmt.Errorf("shape must be a tuple of integers, got %s", dim.Kind)
		}
		if dim.Int <= 0 || dim.Int > math.MaxInt32 {
			return nil, fmt.Errorf("shape dimension %d out of range", dim.Int)
		}
		shape = append(shape, int(dim.Int))
	}
	return shape, nil
}
