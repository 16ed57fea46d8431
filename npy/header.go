package npy

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/potocpav/npy-rs/internal/pylit"
)

// File preamble layout (format version 1.0):
//
//	offset 0:  0x93 "NUMPY"
//	offset 6:  0x01 0x00            major/minor version
//	offset 8:  u16 little-endian    header text length L
//	offset 10: L bytes of header text, space-padded, '\n'-terminated
//	offset 10+L: flat record data
//
// (10 + L) is always a multiple of 16.

var npyMagic = [6]byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

const (
	versionMajor = 1
	versionMinor = 0

	preambleLen = 10
	headerAlign = 16

	// countFiller is the width reserved for the record count when a file
	// is written before its length is known. 19 decimal digits cover
	// every int64, far beyond any practical record count; the field is
	// patched in place when the file is closed.
	countFiller = 19
)

// Header is the parsed contents of an NPY file header.
type Header struct {
	// Descr is the element dtype.
	Descr DType
	// FortranOrder is the declared memory order. Only C order
	// (FortranOrder == false) can be decoded.
	FortranOrder bool
	// Shape holds the declared array dimensions.
	Shape []int
}

// ParseHeader parses the preamble and header text at the start of b,
// returning the header and the record data that follows it.
func ParseHeader(b []byte) (Header, []byte, error) {
	if len(b) < preambleLen {
		return Header{}, nil, fmt.Errorf("%w: shorter than the fixed preamble", ErrNotNPY)
	}
	if !bytes.Equal(b[:6], npyMagic[:]) {
		return Header{}, nil, ErrNotNPY
	}
	if b[6] != versionMajor || b[7] != versionMinor {
		return Header{}, nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, b[6], b[7])
	}

	textLen := int(binary.LittleEndian.Uint16(b[8:10]))
	if len(b) < preambleLen+textLen {
		return Header{}, nil, fmt.Errorf("%w: truncated header text", ErrInvalidHeader)
	}
	text := b[preambleLen : preambleLen+textLen]

	v, err := pylit.Parse(text)
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	h, err := headerFromValue(v)
	if err != nil {
		return Header{}, nil, err
	}
	return h, b[preambleLen+textLen:], nil
}

func headerFromValue(v pylit.Value) (Header, error) {
	if v.Kind != pylit.KindMap {
		return Header{}, fmt.Errorf("%w: header must be a dict, got %s", ErrInvalidHeader, v.Kind)
	}

	descrVal, ok := v.Map["descr"]
	if !ok {
		return Header{}, fmt.Errorf("%w: missing 'descr'", ErrInvalidHeader)
	}
	descr, err := dtypeFromValue(descrVal)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	order, ok := v.Map["fortran_order"]
	if !ok || order.Kind != pylit.KindBool {
		return Header{}, fmt.Errorf("%w: missing or non-boolean 'fortran_order'", ErrInvalidHeader)
	}

	shapeVal, ok := v.Map["shape"]
	if !ok || shapeVal.Kind != pylit.KindList {
		return Header{}, fmt.Errorf("%w: missing or non-tuple 'shape'", ErrInvalidHeader)
	}
	shape := make([]int, 0, len(shapeVal.List))
	for _, dim := range shapeVal.List {
		if dim.Kind != pylit.KindInt || dim.Int < 0 || dim.Int > math.MaxInt32 {
			return Header{}, fmt.Errorf("%w: bad shape entry %s", ErrInvalidHeader, dim)
		}
		shape = append(shape, int(dim.Int))
	}

	return Header{Descr: descr, FortranOrder: order.Bool, Shape: shape}, nil
}

// encodeHeader renders the complete file preamble plus header text for a
// one-dimensional array of n records. When placeholder is true the count
// field is reserved as countFiller asterisks to be patched later, and the
// returned offset points at it; otherwise the offset is -1.
//
// The header text is space-padded and newline-terminated so that the data
// section starts on a 16-byte boundary.
func encodeHeader(descr DType, n int, placeholder bool) ([]byte, int64, error) {
	var text bytes.Buffer
	text.WriteString("{'descr': ")
	text.WriteString(descr.Descr())
	text.WriteString(", 'fortran_order': False, 'shape': (")

	countPos := int64(-1)
	if placeholder {
		countPos = int64(preambleLen + text.Len())
		for i := 0; i < countFiller; i++ {
			text.WriteByte('*')
		}
	} else {
		text.WriteString(strconv.Itoa(n))
	}
	text.WriteString(",), }")

	// At least the trailing '\n', plus spaces up to the alignment.
	pad := headerAlign - (preambleLen+text.Len()+1)%headerAlign
	if pad == headerAlign {
		pad = 0
	}
	for i := 0; i < pad; i++ {
		text.WriteByte(' ')
	}
	text.WriteByte('\n')

	if text.Len() > math.MaxUint16 {
		return nil, 0, fmt.Errorf("%w: header text of %d bytes exceeds the format limit", ErrInvalidHeader, text.Len())
	}

	out := make([]byte, 0, preambleLen+text.Len())
	out = append(out, npyMagic[:]...)
	out = append(out, versionMajor, versionMinor)
	out = binary.LittleEndian.AppendUint16(out, uint16(text.Len()))
	out = append(out, text.Bytes()...)
	return out, countPos, nil
}

// encodeCountPatch renders the bytes written over the placeholder region
// on close: the final count, the closing text, and spaces covering the
// rest of the reserved width.
func encodeCountPatch(n int) []byte {
	digits := strconv.Itoa(n)
	out := make([]byte, 0, countFiller+5)
	out = append(out, digits...)
	out = append(out, ",), }"...)
	for len(out) < countFiller+5 {
		out = append(out, ' ')
	}
	return out
}
