package npy

import (
	"io"
	"reflect"
)

// Fixed-size arrays peel the first shape dimension off a plain dtype and
// bind the element type against the rest, so nested arrays consume one
// dimension per nesting level. Records bind structs field by field with
// an exact, order-sensitive name match.

func compileArrayRead(t reflect.Type, dt DType) (readFunc, error) {
	inner, err := dt.arrayInnerDType(t.Len(), t.String())
	if err != nil {
		return nil, err
	}
	elem, err := compileRead(t.Elem(), inner)
	if err != nil {
		return nil, err
	}
	n := t.Len()
	return func(dst reflect.Value, b []byte) []byte {
		for i := 0; i < n; i++ {
			b = elem(dst.Index(i), b)
		}
		return b
	}, nil
}

func compileArrayWrite(t reflect.Type, dt DType) (writeFunc, error) {
	inner, err := dt.arrayInnerDType(t.Len(), t.String())
	if err != nil {
		return nil, err
	}
	elem, err := compileWrite(t.Elem(), inner)
	if err != nil {
		return nil, err
	}
	n := t.Len()
	return func(w io.Writer, src reflect.Value) error {
		for i := 0; i < n; i++ {
			if err := elem(w, src.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

// recordFieldName is the dtype field name a struct field binds to: the
// `npy` tag when present, else the Go field name.
func recordFieldName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("npy"); ok && tag != "" {
		return tag
	}
	return sf.Name
}

// checkRecordFields validates the ordered field-name match between a
// struct type and a record dtype.
func checkRecordFields(t reflect.Type, dt DType) error {
	if !dt.IsRecord() {
		return errExpectedRecord(dt, t.String())
	}

	want := make([]string, t.NumField())
	for i := range want {
		sf := t.Field(i)
		if !sf.IsExported() {
			return DTypeErrorf("record type %s has unexported field %s", t, sf.Name)
		}
		want[i] = recordFieldName(sf)
	}
	got := make([]string, len(dt.Fields))
	for i, f := range dt.Fields {
		got[i] = f.Name
	}

	if len(want) != len(got) {
		return errWrongFields(want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			return errWrongFields(want, got)
		}
	}
	return nil
}

func compileRecordRead(t reflect.Type, dt DType) (readFunc, error) {
	if err := checkRecordFields(t, dt); err != nil {
		return nil, err
	}
	fields := make([]readFunc, t.NumField())
	for i := range fields {
		fn, err := compileRead(t.Field(i).Type, dt.Fields[i].DType)
		if err != nil {
			return nil, err
		}
		fields[i] = fn
	}
	return func(dst reflect.Value, b []byte) []byte {
		for i, fn := range fields {
			b = fn(dst.Field(i), b)
		}
		return b
	}, nil
}

func compileRecordWrite(t reflect.Type, dt DType) (writeFunc, error) {
	if err := checkRecordFields(t, dt); err != nil {
		return nil, err
	}
	fields := make([]writeFunc, t.NumField())
	for i := range fields {
		fn, err := compileWrite(t.Field(i).Type, dt.Fields[i].DType)
		if err != nil {
			return nil, err
		}
		fields[i] = fn
	}
	return func(w io.Writer, src reflect.Value) error {
		for i, fn := range fields {
			if err := fn(w, src.Field(i)); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
