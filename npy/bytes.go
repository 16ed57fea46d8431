package npy

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"unicode/utf8"
)

// scalarByteLen validates the type-string size against the platform int.
func scalarByteLen(ts TypeStr) (int, error) {
	n := ts.NumBytes()
	if n > math.MaxInt || (ts.Kind == KindUnicode && ts.Size > math.MaxInt/4) {
		return 0, errSizeOverflow(ts.Size)
	}
	return int(n), nil
}

// []byte binds to 'S' (padded byte string) and 'V' (exact-size blob).
//
// Reading an 'S' value copies size bytes and strips every trailing zero,
// scanning back to the last non-zero byte; interior zeros survive.
// Reading a 'V' value copies the bytes untouched. Writing an 'S' value
// shorter than size zero-pads on the right; a 'V' value must match size
// exactly in both directions.

func compileBytesRead(t reflect.Type, dt DType) (readFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindByteStr && ts.Kind != KindRawData {
		return nil, errBadScalar("read", ts, t.String())
	}
	size, err := scalarByteLen(ts)
	if err != nil {
		return nil, err
	}

	trim := ts.Kind == KindByteStr
	return func(dst reflect.Value, b []byte) []byte {
		end := size
		if trim {
			for end > 0 && b[end-1] == 0 {
				end--
			}
		}
		dst.SetBytes(append([]byte(nil), b[:end]...))
		return b[size:]
	}, nil
}

func compileBytesWrite(t reflect.Type, dt DType) (writeFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindByteStr && ts.Kind != KindRawData {
		return nil, errBadScalar("write", ts, t.String())
	}
	size, err := scalarByteLen(ts)
	if err != nil {
		return nil, err
	}

	exact := ts.Kind == KindRawData
	return func(w io.Writer, src reflect.Value) error {
		v := src.Bytes()
		if len(v) > size {
			return fmt.Errorf("byte string of length %d is too long for dtype '%s'", len(v), ts)
		}
		if exact && len(v) != size {
			return fmt.Errorf("raw data of length %d does not match dtype '%s'", len(v), ts)
		}
		if _, err := w.Write(v); err != nil {
			return err
		}
		if len(v) < size {
			_, err := w.Write(make([]byte, size-len(v)))
			return err
		}
		return nil
	}, nil
}

// string binds to 'U': size code points, each stored as a 32-bit integer
// of the declared endianness, zero-padded on the right. Trailing U+0000
// is stripped on read like the trailing zeros of 'S'. Code units outside
// the Unicode range decode as U+FFFD.

func compileStringRead(t reflect.Type, dt DType) (readFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindUnicode {
		return nil, errBadScalar("read", ts, t.String())
	}
	size, err := scalarByteLen(ts)
	if err != nil {
		return nil, err
	}
	order := ts.Endianness.byteOrder()
	points := size / 4

	return func(dst reflect.Value, b []byte) []byte {
		n := points
		for n > 0 && order.Uint32(b[(n-1)*4:]) == 0 {
			n--
		}
		out := make([]byte, 0, n)
		for i := 0; i < n; i++ {
			out = utf8.AppendRune(out, rune(order.Uint32(b[i*4:])))
		}
		dst.SetString(string(out))
		return b[size:]
	}, nil
}

func compileStringWrite(t reflect.Type, dt DType) (writeFunc, error) {
	ts, err := expectScalar(dt, t.String())
	if err != nil {
		return nil, err
	}
	if ts.Kind != KindUnicode {
		return nil, errBadScalar("write", ts, t.String())
	}
	if _, err := scalarByteLen(ts); err != nil {
		return nil, err
	}
	order := ts.Endianness.byteOrder()
	points := int(ts.Size)

	return func(w io.Writer, src reflect.Value) error {
		runes := []rune(src.String())
		if len(runes) > points {
			return fmt.Errorf("string of %d code points is too long for dtype '%s'", len(runes), ts)
		}
		buf := make([]byte, points*4)
		for i, r := range runes {
			order.PutUint32(buf[i*4:], uint32(r))
		}
		_, err := w.Write(buf)
		return err
	}, nil
}
