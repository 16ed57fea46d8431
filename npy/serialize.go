package npy

import (
	"io"
	"reflect"
)

// readFunc decodes one element into dst, returning the unconsumed bytes.
// The buffer always holds at least the element's NumBytes; all dtype
// validation happened when the function was compiled.
type readFunc func(dst reflect.Value, b []byte) []byte

// writeFunc encodes one element from src into w.
type writeFunc func(w io.Writer, src reflect.Value) error

// TypeRead reads elements of type T one at a time from a byte buffer.
// A TypeRead is bound to the concrete DType it was compiled against and
// is immutable; it may be shared across goroutines as long as the buffer
// is not mutated during the session.
type TypeRead[T any] struct {
	read readFunc
}

// ReadOne decodes one element from the front of b and returns it together
// with the remaining bytes. b must hold at least one whole element.
func (r TypeRead[T]) ReadOne(b []byte) (T, []byte) {
	var v T
	rest := r.read(reflect.ValueOf(&v).Elem(), b)
	return v, rest
}

// TypeWrite writes elements of type T one at a time to a sink.
type TypeWrite[T any] struct {
	write writeFunc
}

// WriteOne encodes one element to w. It fails only on sink errors and on
// the length checks of the variable-capacity kinds ('S' and 'V').
func (w TypeWrite[T]) WriteOne(dst io.Writer, v T) error {
	return w.write(dst, reflect.ValueOf(&v).Elem())
}

// Reader compiles a TypeRead for T against a concrete dtype. Kind, size,
// shape and field-order compatibility are all checked here, never during
// decoding.
func Reader[T any](dt DType) (TypeRead[T], error) {
	fn, err := compileRead(reflect.TypeFor[T](), dt)
	if err != nil {
		return TypeRead[T]{}, err
	}
	return TypeRead[T]{read: fn}, nil
}

// Writer compiles a TypeWrite for T against a concrete dtype, with the
// same eager validation as Reader.
func Writer[T any](dt DType) (TypeWrite[T], error) {
	fn, err := compileWrite(reflect.TypeFor[T](), dt)
	if err != nil {
		return TypeWrite[T]{}, err
	}
	return TypeWrite[T]{write: fn}, nil
}

// DTypeOf derives the preferred dtype for T: '|' endianness for
// single-byte scalars, machine endianness otherwise, array dimensions for
// fixed-size arrays, and a record for structs (field order preserved,
// names taken from the `npy` struct tag when present).
//
// Types without an inherent size, such as []byte and string, have no
// default dtype and must be bound with an explicit one.
func DTypeOf[T any]() (DType, error) {
	return defaultDType(reflect.TypeFor[T]())
}

func compileRead(t reflect.Type, dt DType) (readFunc, error) {
	switch t.Kind() {
	case reflect.Pointer:
		elem, err := compileRead(t.Elem(), dt)
		if err != nil {
			return nil, err
		}
		et := t.Elem()
		return func(dst reflect.Value, b []byte) []byte {
			if dst.IsNil() {
				dst.Set(reflect.New(et))
			}
			return elem(dst.Elem(), b)
		}, nil

	case reflect.Bool:
		return compileBoolRead(t, dt)

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return compileIntRead(t, dt)

	case reflect.Float32, reflect.Float64:
		return compileFloatRead(t, dt)

	case reflect.Complex64, reflect.Complex128:
		return compileComplexRead(t, dt)

	case reflect.String:
		return compileStringRead(t, dt)

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return compileBytesRead(t, dt)
		}
		return nil, DTypeErrorf("type %s is not supported for npy serialization", t)

	case reflect.Array:
		return compileArrayRead(t, dt)

	case reflect.Struct:
		return compileRecordRead(t, dt)

	default:
		return nil, DTypeErrorf("type %s is not supported for npy serialization", t)
	}
}

func compileWrite(t reflect.Type, dt DType) (writeFunc, error) {
	switch t.Kind() {
	case reflect.Pointer:
		elem, err := compileWrite(t.Elem(), dt)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer, src reflect.Value) error {
			return elem(w, src.Elem())
		}, nil

	case reflect.Bool:
		return compileBoolWrite(t, dt)

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return compileIntWrite(t, dt)

	case reflect.Float32, reflect.Float64:
		return compileFloatWrite(t, dt)

	case reflect.Complex64, reflect.Complex128:
		return compileComplexWrite(t, dt)

	case reflect.String:
		return compileStringWrite(t, dt)

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return compileBytesWrite(t, dt)
		}
		return nil, DTypeErrorf("type %s is not supported for npy serialization", t)

	case reflect.Array:
		return compileArrayWrite(t, dt)

	case reflect.Struct:
		return compileRecordWrite(t, dt)

	default:
		return nil, DTypeErrorf("type %s is not supported for npy serialization", t)
	}
}

func defaultDType(t reflect.Type) (DType, error) {
	switch t.Kind() {
	case reflect.Pointer:
		return defaultDType(t.Elem())

	case reflect.Bool:
		return NewScalar(withAutoEndianness(KindBool, 1, NoUnit)), nil

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewScalar(withAutoEndianness(KindInt, uint64(t.Size()), NoUnit)), nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewScalar(withAutoEndianness(KindUint, uint64(t.Size()), NoUnit)), nil

	case reflect.Float32, reflect.Float64:
		return NewScalar(withAutoEndianness(KindFloat, uint64(t.Size()), NoUnit)), nil

	case reflect.Complex64, reflect.Complex128:
		return NewScalar(withAutoEndianness(KindComplex, uint64(t.Size()), NoUnit)), nil

	case reflect.Array:
		inner, err := defaultDType(t.Elem())
		if err != nil {
			return DType{}, err
		}
		if inner.IsRecord() {
			return DType{}, DTypeErrorf("arrays of record type %s are not supported", t.Elem())
		}
		return DType{Ty: inner.Ty, Shape: append([]int{t.Len()}, inner.Shape...)}, nil

	case reflect.Struct:
		fields := make([]Field, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			inner, err := defaultDType(sf.Type)
			if err != nil {
				return DType{}, err
			}
			fields = append(fields, Field{Name: recordFieldName(sf), DType: inner})
		}
		return NewRecord(fields...), nil

	default:
		return DType{}, DTypeErrorf("type %s has no default dtype", t)
	}
}

// expectScalar unwraps a plain scalar dtype, validating the type-string
// so that hand-built DType values get the same checks as parsed ones.
func expectScalar(dt DType, goType string) (TypeStr, error) {
	ts, ok := dt.asScalar()
	if !ok {
		return TypeStr{}, errExpectedScalar(dt, goType)
	}
	if err := ts.validate(); err != nil {
		return TypeStr{}, err
	}
	return ts, nil
}
