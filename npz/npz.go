// Package npz reads and writes NPZ archives: zip files whose members are
// NPY files, one per named array, following numpy's savez_compressed
// convention (each array name gains a ".npy" suffix inside the archive).
//
// Deflate compression is routed through github.com/klauspost/compress,
// which is considerably faster than the standard library at the same
// ratios.
package npz

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/potocpav/npy-rs/npy"
)

const memberSuffix = ".npy"

// Archive is an open NPZ file.
type Archive struct {
	rc *zip.ReadCloser
}

// Open opens an NPZ archive for reading.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open npz %s: %w", path, err)
	}
	rc.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
	return &Archive{rc: rc}, nil
}

// Close releases the archive.
func (a *Archive) Close() error {
	return a.rc.Close()
}

// Names lists the array names in the archive, in file order, with the
// ".npy" member suffix stripped.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.rc.File))
	for _, f := range a.rc.File {
		names = append(names, strings.TrimSuffix(f.Name, memberSuffix))
	}
	return names
}

// member finds the zip entry for an array name.
func (a *Archive) member(name string) (*zip.File, error) {
	for _, f := range a.rc.File {
		if f.Name == name+memberSuffix || f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("npz: no array named %q", name)
}

// Bytes returns the raw NPY content of one array.
func (a *Archive) Bytes(name string) ([]byte, error) {
	f, err := a.member(name)
	if err != nil {
		return nil, err
	}
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Read decodes the named array into records of type T.
func Read[T any](a *Archive, name string) ([]T, error) {
	b, err := a.Bytes(name)
	if err != nil {
		return nil, err
	}
	d, err := npy.FromBytes[T](b)
	if err != nil {
		return nil, fmt.Errorf("npz array %q: %w", name, err)
	}
	return d.ToSlice(), nil
}

// Writer builds an NPZ archive member by member.
type Writer struct {
	zw     *zip.Writer
	closer io.Closer
}

// NewWriter writes an NPZ archive to w. If w is also an io.Closer,
// Close closes it after finalizing the archive.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	closer, _ := w.(io.Closer)
	return &Writer{zw: zw, closer: closer}
}

// Write adds one array under the given name, compressed, using T's
// default dtype.
func Write[T any](w *Writer, name string, rows []T) error {
	dt, err := npy.DTypeOf[T]()
	if err != nil {
		return err
	}
	return WriteWithDType(w, name, dt, rows)
}

// WriteWithDType adds one array under the given name with an explicit
// dtype.
func WriteWithDType[T any](w *Writer, name string, dt npy.DType, rows []T) error {
	entry, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   name + memberSuffix,
		Method: zip.Deflate,
	})
	if err != nil {
		return err
	}
	if err := npy.WriteWithDType(entry, dt, rows); err != nil {
		return fmt.Errorf("npz array %q: %w", name, err)
	}
	return nil
}

// Close finalizes the archive directory and closes the underlying file
// when there is one.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		if w.closer != nil {
			w.closer.Close()
		}
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
