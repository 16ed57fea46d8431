// Package pylit parses the Python-literal expressions that appear in NPY
// file headers.
//
// An NPY header is a Python dict literal such as
//
//	{'descr': [('a', '<u2'), ('b', '<f4')], 'fortran_order': False, 'shape': (1376,), }
//
// The grammar covers exactly what numpy emits: unsigned decimal integers,
// the booleans True and False, single- or double-quoted strings without
// escape processing, lists delimited by [] or () with optional trailing
// commas, and dicts with string keys. Whitespace between tokens is
// insignificant.
//
// Parsing is a pure function from bytes to a Value tree; no interpretation
// of the values happens here.
package pylit
