// Package npy reads and writes files in the NumPy NPY data format:
// a fixed preamble, a Python-dict header declaring the element dtype, and
// a flat sequence of fixed-size records.
//
// The dtype model is the core of the package. A [TypeStr] describes one
// scalar (endianness, kind, size, optional time units, e.g. "<i4" or
// ">m8[ns]"); a [DType] is either a plain type-string with optional fixed
// array dimensions or a record of named fields. [ParseTypeStr] and
// [ParseDescr] parse the textual forms, and [TypeStr.String] and
// [DType.Descr] render them back canonically.
//
// Go values bind to dtypes through compiled readers and writers:
//
//	dt, _ := npy.ParseDescr(`[('a', '<u2'), ('b', '<f4')]`)
//	read, err := npy.Reader[MyRow](dt) // validates kind/size/field order
//	row, rest := read.ReadOne(data)
//
// Compatibility is checked when the reader or writer is built, never per
// element. Struct fields bind to record fields in declaration order,
// using the `npy` struct tag for the dtype-side name:
//
//	type MyRow struct {
//		A uint16  `npy:"a"`
//		B float32 `npy:"b"`
//	}
//
// File-level helpers wrap the codec: [FromBytes] gives random access to
// an in-memory file, [Read] and [ReadFile] decode whole files, [OutFile]
// streams records out one at a time (patching the record count on close),
// and [Write] emits a complete file to any io.Writer. Only C-order
// one-dimensional arrays of records are supported; Fortran order is
// rejected at parse time.
package npy
