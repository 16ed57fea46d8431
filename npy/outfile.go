package npy

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// OutFile writes an NPY file one record at a time. The record count is
// not known until the file is complete, so the header is written with a
// reserved placeholder that Close patches in place.
type OutFile[T any] struct {
	f        *os.File
	bw       *bufio.Writer
	write    TypeWrite[T]
	countPos int64
	n        int
	closed   bool
}

// Create opens path for writing with T's default dtype.
func Create[T any](path string) (*OutFile[T], error) {
	dt, err := DTypeOf[T]()
	if err != nil {
		return nil, err
	}
	return CreateWithDType[T](path, dt)
}

// CreateWithDType opens path for writing records of the given dtype.
func CreateWithDType[T any](path string, dt DType) (*OutFile[T], error) {
	write, err := Writer[T](dt)
	if err != nil {
		return nil, err
	}
	header, countPos, err := encodeHeader(dt, 0, true)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	if _, err := bw.Write(header); err != nil {
		f.Close()
		return nil, err
	}

	return &OutFile[T]{f: f, bw: bw, write: write, countPos: countPos}, nil
}

// Push appends one record.
func (o *OutFile[T]) Push(v T) error {
	if o.closed {
		return ErrClosed
	}
	if err := o.write.WriteOne(o.bw, v); err != nil {
		return err
	}
	o.n++
	return nil
}

// Close flushes the records, patches the record count into the header,
// and closes the file. It must be called for the file to be valid.
func (o *OutFile[T]) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	if err := o.bw.Flush(); err != nil {
		o.f.Close()
		return err
	}
	if _, err := o.f.WriteAt(encodeCountPatch(o.n), o.countPos); err != nil {
		o.f.Close()
		return err
	}
	return o.f.Close()
}

// ToFile writes all rows to an NPY file using T's default dtype.
func ToFile[T any](path string, rows []T) error {
	of, err := Create[T](path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := of.Push(row); err != nil {
			of.Close()
			return err
		}
	}
	return of.Close()
}

// Write streams a complete NPY file to w using T's default dtype. The
// record count is known up front, so no seeking is needed; this is the
// entry point for non-seekable sinks such as archive members.
func Write[T any](w io.Writer, rows []T) error {
	dt, err := DTypeOf[T]()
	if err != nil {
		return err
	}
	return WriteWithDType(w, dt, rows)
}

// WriteWithDType streams a complete NPY file with an explicit dtype.
func WriteWithDType[T any](w io.Writer, dt DType, rows []T) error {
	write, err := Writer[T](dt)
	if err != nil {
		return err
	}
	header, _, err := encodeHeader(dt, len(rows), false)
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := write.WriteOne(w, row); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
