package npy

import (
	"fmt"
	"io"
	"os"
)

// Data provides random access to the records of an NPY file held in
// memory. It keeps a reference to the byte buffer it was created from;
// the buffer must not be mutated while the Data is in use.
type Data[T any] struct {
	header   Header
	read     TypeRead[T]
	data     []byte
	n        int
	itemSize int
}

// FromBytes parses a complete NPY file (for example an mmapped one) and
// binds its records to T. The dtype compatibility of T is checked here;
// Get never fails afterwards.
func FromBytes[T any](b []byte) (*Data[T], error) {
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

	read, err := Reader[T](h.Descr)
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

	return &Data[T]{header: h, read: read, data: rest, n: n, itemSize: itemSize}, nil
}

// Len is the number of records.
func (d *Data[T]) Len() int { return d.n }

// Header is the parsed file header.
func (d *Data[T]) Header() Header { return d.header }

// DType is the element dtype declared by the file.
func (d *Data[T]) DType() DType { return d.header.Descr }

// Get decodes record i. It panics if i is out of range, like a slice
// index.
func (d *Data[T]) Get(i int) T {
	if i < 0 || i >= d.n {
		panic(fmt.Sprintf("npy: record index %d out of range [0:%d]", i, d.n))
	}
	v, _ := d.read.ReadOne(d.data[i*d.itemSize:])
	return v
}

// ToSlice decodes every record in order.
func (d *Data[T]) ToSlice() []T {
	out := make([]T, d.n)
	b := d.data
	for i := range out {
		out[i], b = d.read.ReadOne(b)
	}
	return out
}

// Read consumes r to the end and decodes all records.
func Read[T any](r io.Reader) ([]T, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d, err := FromBytes[T](b)
	if err != nil {
		return nil, err
	}
	return d.ToSlice(), nil
}

// ReadFile decodes all records of an NPY file on disk.
func ReadFile[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := FromBytes[T](b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d.ToSlice(), nil
}
