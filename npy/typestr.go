package npy

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Endianness is the first character of a type-string.
type Endianness byte

const (
	// LittleEndian is code '<'.
	LittleEndian Endianness = '<'
	// BigEndian is code '>'.
	BigEndian Endianness = '>'
	// IrrelevantEndian is code '|', used when byte order does not matter:
	// single-byte values and raw byte kinds.
	IrrelevantEndian Endianness = '|'
)

func (e Endianness) String() string { return string(byte(e)) }

// byteOrder maps the endianness to an encoding/binary order. Irrelevant
// endianness reads and writes in machine order; for the sizes where it is
// legal the choice cannot be observed.
func (e Endianness) byteOrder() binary.ByteOrder {
	switch e {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

// nativeEndianness reports the machine byte order as a type-string code.
func nativeEndianness() Endianness {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

// TypeKind is the second character of a type-string.
type TypeKind byte

const (
	// KindBool is code 'b'. Size must be 1; legal values are 0x00 and 0x01.
	KindBool TypeKind = 'b'
	// KindInt is code 'i'. Sizes 1, 2, 4 and 8; numpy has no 128-bit ints.
	KindInt TypeKind = 'i'
	// KindUint is code 'u'. Sizes 1, 2, 4 and 8.
	KindUint TypeKind = 'u'
	// KindFloat is code 'f'. Sizes 2, 4, 8 and 16.
	KindFloat TypeKind = 'f'
	// KindComplex is code 'c'. The real part followed by the imaginary
	// part, size bytes total between the two of them.
	KindComplex TypeKind = 'c'
	// KindTimeDelta is code 'm', a numpy.timedelta64. Serializes as a
	// signed 64-bit integer; carries time units.
	KindTimeDelta TypeKind = 'm'
	// KindDateTime is code 'M', a numpy.datetime64. Serializes as an
	// unsigned 64-bit integer; carries time units.
	KindDateTime TypeKind = 'M'
	// KindByteStr is code 'S', a byte string of at most size bytes.
	// Shorter values are zero-padded on the right, so values cannot carry
	// trailing NULs (interior NULs are fine). Use KindRawData to preserve
	// trailing NULs.
	KindByteStr TypeKind = 'S'
	// KindUnicode is code 'U', a string of size code points (not bytes).
	// Each code unit is a 32-bit integer of the given endianness, with
	// zero padding on the right.
	KindUnicode TypeKind = 'U'
	// KindRawData is code 'V', an opaque blob of exactly size bytes.
	KindRawData TypeKind = 'V'
)

func (k TypeKind) String() string { return string(byte(k)) }

func typeKindValid(k TypeKind) bool {
	switch k {
	case KindBool, KindInt, KindUint, KindFloat, KindComplex,
		KindTimeDelta, KindDateTime, KindByteStr, KindUnicode, KindRawData:
		return true
	}
	return false
}

// validSizes returns the sizes a kind accepts, or nil when any size
// (including zero) is legal.
func (k TypeKind) validSizes() []uint64 {
	switch k {
	case KindBool:
		return []uint64{1}
	case KindInt, KindUint:
		return []uint64{1, 2, 4, 8}
	case KindFloat:
		return []uint64{2, 4, 8, 16}
	case KindComplex:
		return []uint64{8, 16, 32}
	case KindTimeDelta, KindDateTime:
		return []uint64{8}
	default:
		return nil
	}
}

// requiresEndianness reports whether '|' endianness is illegal for the
// kind at the given size.
func (k TypeKind) requiresEndianness(size uint64) bool {
	switch k {
	case KindBool, KindInt, KindUint, KindFloat, KindComplex, KindTimeDelta, KindDateTime:
		return size != 1
	case KindUnicode:
		return true
	default: // ByteStr, RawData
		return false
	}
}

// hasUnits reports whether the kind carries a bracketed time-unit suffix.
func (k TypeKind) hasUnits() bool {
	return k == KindTimeDelta || k == KindDateTime
}

// TimeUnit is the bracketed suffix of the 'm' and 'M' kinds. The zero
// value means no units.
type TimeUnit uint8

const (
	NoUnit TimeUnit = iota
	UnitYear
	UnitMonth
	UnitWeek
	UnitDay
	UnitHour
	UnitMinute
	UnitSecond
	UnitMillisecond
	UnitMicrosecond
	UnitNanosecond
	UnitPicosecond
	UnitFemtosecond
	UnitAttosecond
)

var timeUnitCodes = [...]string{
	UnitYear:        "Y",
	UnitMonth:       "M",
	UnitWeek:        "W",
	UnitDay:         "D",
	UnitHour:        "h",
	UnitMinute:      "m",
	UnitSecond:      "s",
	UnitMillisecond: "ms",
	UnitMicrosecond: "us",
	UnitNanosecond:  "ns",
	UnitPicosecond:  "ps",
	UnitFemtosecond: "fs",
	UnitAttosecond:  "as",
}

func (u TimeUnit) String() string {
	if u == NoUnit || int(u) >= len(timeUnitCodes) {
		return ""
	}
	return timeUnitCodes[u]
}

func timeUnitFromCode(code string) (TimeUnit, bool) {
	for u, c := range timeUnitCodes {
		if u != 0 && c == code {
			return TimeUnit(u), true
		}
	}
	return NoUnit, false
}

// TypeStr is an Array Interface type-string: the scalar type descriptor
// embedded in a dtype descr, e.g. "<i4" or ">m8[ns]".
//
// Size counts bytes, except for KindUnicode where it counts 32-bit code
// points. Units is NoUnit except for the 'm' and 'M' kinds, which require
// it. A TypeStr built by ParseTypeStr or Parse is always valid; hand-built
// values are validated when a reader or writer is constructed from them.
type TypeStr struct {
	Endianness Endianness
	Kind       TypeKind
	Size       uint64
	Units      TimeUnit
}

// String renders the canonical text. ParseTypeStr(ts.String()) returns ts
// for every valid TypeStr.
func (t TypeStr) String() string {
	var sb strings.Builder
	sb.WriteByte(byte(t.Endianness))
	sb.WriteByte(byte(t.Kind))
	sb.WriteString(strconv.FormatUint(t.Size, 10))
	if t.Units != NoUnit {
		sb.WriteByte('[')
		sb.WriteString(t.Units.String())
		sb.WriteByte(']')
	}
	return sb.String()
}

// NumBytes is the number of bytes one scalar value occupies.
func (t TypeStr) NumBytes() uint64 {
	if t.Kind == KindUnicode {
		return t.Size * 4
	}
	return t.Size
}

// withAutoEndianness builds a TypeStr for a primitive's preferred format:
// '|' where endianness is irrelevant, otherwise the machine order.
func withAutoEndianness(kind TypeKind, size uint64, units TimeUnit) TypeStr {
	e := IrrelevantEndian
	if kind.requiresEndianness(size) {
		e = nativeEndianness()
	}
	return TypeStr{Endianness: e, Kind: kind, Size: size, Units: units}
}

// validate checks the invariants that relate endianness, kind, size and
// units. It is called after parsing and before binding readers/writers.
func (t TypeStr) validate() error {
	if t.Kind.requiresEndianness(t.Size) && t.Endianness == IrrelevantEndian {
		return fmt.Errorf("type string %q: %w", t.String(), ErrInvalidEndianness)
	}
	if valid := t.Kind.validSizes(); valid != nil {
		ok := false
		for _, s := range valid {
			if s == t.Size {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("type string %q: %w (valid sizes for %q are %v)",
				t.String(), ErrInvalidSize, t.Kind.String(), valid)
		}
	}
	if t.Kind.hasUnits() != (t.Units != NoUnit) {
		return fmt.Errorf("type string %q: %w", t.String(), ErrBadTimeUnits)
	}
	return nil
}

// ParseTypeStr parses a type-string such as "<i4", "|S7" or ">m8[ns]".
//
// The syntax is <endian><kind><size>[<units>]: one of '<', '>' or '|',
// one kind character, an unsigned decimal size, and a bracketed time-unit
// code required exactly for the 'm' and 'M' kinds.
func ParseTypeStr(s string) (TypeStr, error) {
	syntax := func() (TypeStr, error) {
		return TypeStr{}, fmt.Errorf("type string %q: %w", s, ErrTypeStrSyntax)
	}

	if len(s) < 3 {
		return syntax()
	}

	e := Endianness(s[0])
	if e != LittleEndian && e != BigEndian && e != IrrelevantEndian {
		return syntax()
	}
	k := TypeKind(s[1])
	if !typeKindValid(k) {
		return syntax()
	}

	rest := s[2:]
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return syntax()
	}
	size, err := strconv.ParseUint(rest[:digits], 10, 64)
	if err != nil {
		return TypeStr{}, fmt.Errorf("type string %q: %w: %v", s, ErrTypeStrSyntax, err)
	}
	rest = rest[digits:]

	units := NoUnit
	if rest != "" {
		if len(rest) < 3 || rest[0] != '[' || rest[len(rest)-1] != ']' {
			return syntax()
		}
		u, ok := timeUnitFromCode(rest[1 : len(rest)-1])
		if !ok {
			return syntax()
		}
		units = u
	}

	ts := TypeStr{Endianness: e, Kind: k, Size: size, Units: units}
	if err := ts.validate(); err != nil {
		return TypeStr{}, err
	}
	return ts, nil
}
