package npy

import (
	"io"
	"math"
	"reflect"
)

// Primitive scalars bind to a type-string of matching kind and exact byte
// size. Signed integers also accept 'm' (timedelta64) and unsigned also
// accept 'M' (datetime64): those are 8-byte values reinterpreted as
// integers. Size-1 reads ignore endianness.

func compileBoolRead(t reflect.Type, dt DType) (readFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindBool {
		return nil, errBadScalar("read", ts, t.String())
	}
	return func(dst reflect.Value, b []byte) []byte {
		dst.SetBool(b[0] != 0)
		return b[1:]
	}, nil
}

func compileBoolWrite(t reflect.Type, dt DType) (writeFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindBool {
		return nil, errBadScalar("write", ts, t.String())
	}
	return func(w io.Writer, src reflect.Value) error {
		buf := [1]byte{0}
		if src.Bool() {
			buf[0] = 1
		}
		_, err := w.Write(buf[:])
		return err
	}, nil
}

// intTypeStrOK checks kind and size compatibility for an integer binding.
func intTypeStrOK(ts TypeStr, size uintptr, signed bool) bool {
	if ts.Size != uint64(size) {
		return false
	}
	if signed {
		return ts.Kind == KindInt || ts.Kind == KindTimeDelta
	}
	return ts.Kind == KindUint || ts.Kind == KindDateTime
}

func isSignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func compileIntRead(t reflect.Type, dt DType) (readFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	signed := isSignedKind(t.Kind())
	if !intTypeStrOK(ts, t.Size(), signed) {
		return nil, errBadScalar("read", ts, t.String())
	}
	order := ts.Endianness.byteOrder()

	if signed {
		switch t.Size() {
		case 1:
			return func(dst reflect.Value, b []byte) []byte {
				dst.SetInt(int64(int8(b[0])))
				return b[1:]
			}, nil
		case 2:
			return func(dst reflect.Value, b []byte) []byte {
				dst.SetInt(int64(int16(order.Uint16(b))))
				return b[2:]
			}, nil
		case 4:
			return func(dst reflect.Value, b []byte) []byte {
				dst.SetInt(int64(int32(order.Uint32(b))))
				return b[4:]
			}, nil
		default:
			return func(dst reflect.Value, b []byte) []byte {
				dst.SetInt(int64(order.Uint64(b)))
				return b[8:]
			}, nil
		}
	}

	switch t.Size() {
	case 1:
		return func(dst reflect.Value, b []byte) []byte {
			dst.SetUint(uint64(b[0]))
			return b[1:]
		}, nil
	case 2:
		return func(dst reflect.Value, b []byte) []byte {
			dst.SetUint(uint64(order.Uint16(b)))
			return b[2:]
		}, nil
	case 4:
		return func(dst reflect.Value, b []byte) []byte {
			dst.SetUint(uint64(order.Uint32(b)))
			return b[4:]
		}, nil
	default:
		return func(dst reflect.Value, b []byte) []byte {
			dst.SetUint(order.Uint64(b))
			return b[8:]
		}, nil
	}
}

func compileIntWrite(t reflect.Type, dt DType) (writeFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	signed := isSignedKind(t.Kind())
	if !intTypeStrOK(ts, t.Size(), signed) {
		return nil, errBadScalar("write", ts, t.String())
	}
	order := ts.Endianness.byteOrder()
	size := int(t.Size())

	return func(w io.Writer, src reflect.Value) error {
		var buf [8]byte
		var v uint64
		if signed {
			v = uint64(src.Int())
		} else {
			v = src.Uint()
		}
		switch size {
		case 1:
			buf[0] = byte(v)
		case 2:
			order.PutUint16(buf[:2], uint16(v))
		case 4:
			order.PutUint32(buf[:4], uint32(v))
		default:
			order.PutUint64(buf[:8], v)
		}
		_, err := w.Write(buf[:size])
		return err
	}, nil
}

func compileFloatRead(t reflect.Type, dt DType) (readFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindFloat || ts.Size != uint64(t.Size()) {
		return nil, errBadScalar("read", ts, t.String())
	}
	order := ts.Endianness.byteOrder()

	if t.Size() == 4 {
		return func(dst reflect.Value, b []byte) []byte {
			dst.SetFloat(float64(math.Float32frombits(order.Uint32(b))))
			return b[4:]
		}, nil
	}
	return func(dst reflect.Value, b []byte) []byte {
		dst.SetFloat(math.Float64frombits(order.Uint64(b)))
		return b[8:]
	}, nil
}

func compileFloatWrite(t reflect.Type, dt DType) (writeFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindFloat || ts.Size != uint64(t.Size()) {
		return nil, errBadScalar("write", ts, t.String())
	}
	order := ts.Endianness.byteOrder()

	if t.Size() == 4 {
		return func(w io.Writer, src reflect.Value) error {
			var buf [4]byte
			order.PutUint32(buf[:], math.Float32bits(float32(src.Float())))
			_, err := w.Write(buf[:])
			return err
		}, nil
	}
	return func(w io.Writer, src reflect.Value) error {
		var buf [8]byte
		order.PutUint64(buf[:], math.Float64bits(src.Float()))
		_, err := w.Write(buf[:])
		return err
	}, nil
}

// Complex values are the real part followed by the imaginary part, each
// a float of half the declared size with the declared endianness.

func compileComplexRead(t reflect.Type, dt DType) (readFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindComplex || ts.Size != uint64(t.Size()) {
		return nil, errBadScalar("read", ts, t.String())
	}
	order := ts.Endianness.byteOrder()

	if t.Size() == 8 {
		return func(dst reflect.Value, b []byte) []byte {
			re := math.Float32frombits(order.Uint32(b))
			im := math.Float32frombits(order.Uint32(b[4:]))
			dst.SetComplex(complex(float64(re), float64(im)))
			return b[8:]
		}, nil
	}
	return func(dst reflect.Value, b []byte) []byte {
		re := math.Float64frombits(order.Uint64(b))
		im := math.Float64frombits(order.Uint64(b[8:]))
		dst.SetComplex(complex(re, im))
		return b[16:]
	}, nil
}

func compileComplexWrite(t reflect.Type, dt DType) (writeFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindComplex || ts.Size != uint64(t.Size()) {
		return nil, errBadScalar("write", ts, t.String())
	}
	order := ts.Endianness.byteOrder()

	if t.Size() == 8 {
		return func(w io.Writer, src reflect.Value) error {
			var buf [8]byte
			v := src.Complex()
			order.PutUint32(buf[:4], math.Float32bits(float32(real(v))))
			order.PutUint32(buf[4:], math.Float32bits(float32(imag(v))))
			_, err := w.Write(buf[:])
			return err
		}, nil
	}
	return func(w io.Writer, src reflect.Value) error {
		var buf [16]byte
		v := src.Complex()
		order.PutUint64(buf[:8], math.Float64bits(real(v)))
		order.PutUint64(buf[8:], math.Float64bits(imag(v)))
		_, err := w.Write(buf[:])
		return err
	}, nil
}
