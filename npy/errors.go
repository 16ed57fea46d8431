package npy

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrNotNPY             = errors.New("not an NPY file")
	ErrUnsupportedVersion = errors.New("unsupported NPY format version")
	ErrInvalidHeader      = errors.New("invalid NPY header")
	ErrInvalidDescr       = errors.New("invalid dtype descr")
	ErrFortranOrder       = errors.New("fortran-order arrays are not supported")
	ErrBadShape           = errors.New("shape is not one-dimensional")
	ErrClosed             = errors.New("file is closed")

	// Type-string validation errors, matched with errors.Is against the
	// error returned by ParseTypeStr.
	ErrTypeStrSyntax     = errors.New("invalid type string")
	ErrInvalidEndianness = errors.New("endianness must be given for this kind and size")
	ErrInvalidSize       = errors.New("invalid size")
	ErrBadTimeUnits      = errors.New("missing or unexpected time units")
)

type dtypeErrKind uint8

const (
	errCustom dtypeErrKind = iota
	errKindExpectedScalar
	errKindExpectedArray
	errKindWrongArrayLen
	errKindExpectedRecord
	errKindWrongFields
	errKindBadScalar
	errKindSizeOverflow
)

// DTypeError reports that a Go type cannot be bound to a given DType for
// reading or writing. It is returned by Reader, Writer and the file-level
// wrappers built on them; binding is validated eagerly, so a successfully
// constructed reader or writer does not produce these during decoding.
type DTypeError struct {
	kind dtypeErrKind

	msg     string  // errCustom
	descr   string  // the offending dtype, rendered
	goType  string  // the Go type being bound
	typeStr TypeStr // errKindBadScalar
	verb    string  // "read" or "write"

	wantLen, gotLen        int      // errKindWrongArrayLen
	wantFields, gotFields  []string // errKindWrongFields
	size                   uint64   // errKindSizeOverflow
}

// DTypeErrorf builds a DTypeError with a custom message. It is intended
// for callers layering their own bindings on top of the protocol.
func DTypeErrorf(format string, args ...any) *DTypeError {
	return &DTypeError{kind: errCustom, msg: fmt.Sprintf(format, args...)}
}

func errExpectedScalar(dt DType, goType string) *DTypeError {
	return &DTypeError{kind: errKindExpectedScalar, descr: dt.Descr(), goType: goType}
}

func errExpectedArray(dt DType, goType string) *DTypeError {
	return &DTypeError{kind: errKindExpectedArray, descr: dt.Descr(), goType: goType}
}

func errWrongArrayLen(want, got int) *DTypeError {
	return &DTypeError{kind: errKindWrongArrayLen, wantLen: want, gotLen: got}
}

func errExpectedRecord(dt DType, goType string) *DTypeError {
	return &DTypeError{kind: errKindExpectedRecord, descr: dt.Descr(), goType: goType}
}

func errWrongFields(want, got []string) *DTypeError {
	return &DTypeError{kind: errKindWrongFields, wantFields: want, gotFields: got}
}

// verb is "read" or "write".
func errBadScalar(verb string, ts TypeStr, goType string) *DTypeError {
	return &DTypeError{kind: errKindBadScalar, verb: verb, typeStr: ts, goType: goType}
}

func errSizeOverflow(size uint64) *DTypeError {
	return &DTypeError{kind: errKindSizeOverflow, size: size}
}

func (e *DTypeError) Error() string {
	switch e.kind {
	case errKindExpectedScalar:
		return fmt.Sprintf("type %s requires a scalar (string) dtype, not %s", e.goType, e.descr)
	case errKindExpectedArray:
		return fmt.Sprintf("type %s requires an array dtype, got %s", e.goType, e.descr)
	case errKindWrongArrayLen:
		return fmt.Sprintf("wrong array dimension: expected %d, got %d", e.wantLen, e.gotLen)
	case errKindExpectedRecord:
		return fmt.Sprintf("type %s requires a record dtype, got %s", e.goType, e.descr)
	case errKindWrongFields:
		return fmt.Sprintf("field names do not match: expected [%s], got [%s]",
			strings.Join(e.wantFields, ", "), strings.Join(e.gotFields, ", "))
	case errKindBadScalar:
		return fmt.Sprintf("cannot %s type %s with type-string '%s'", e.verb, e.goType, e.typeStr)
	case errKindSizeOverflow:
		return fmt.Sprintf("size %d is too large for this platform", e.size)
	default:
		return e.msg
	}
}
