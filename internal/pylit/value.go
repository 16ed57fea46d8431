package pylit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindStr Kind = iota
	KindInt
	KindBool
	KindList
	KindMap
)

// String returns the kind name as it appears in error messages.
func (k Kind) String() string {
	switch k {
	case KindStr:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one node of a parsed header expression. Exactly the field
// selected by Kind is meaningful. Values are immutable once parsed and
// compare by structure.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Bool bool
	List []Value
	Map  map[string]Value
}

// Str makes a string value.
func Str(s string) Value { return Value{Kind: KindStr, Str: s} }

// Int makes an integer value.
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// Bool makes a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List makes a list value. A nil slice is normalized to an empty list.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, List: items}
}

// Map makes a map value. A nil map is normalized to an empty map.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Kind: KindMap, Map: m}
}

// String renders the value as a Python literal. Map keys are emitted in
// sorted order so the output is deterministic; it is used for diagnostics,
// not for writing file headers.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.Kind {
	case KindStr:
		sb.WriteByte('\'')
		sb.WriteString(v.Str)
		sb.WriteByte('\'')
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindBool:
		if v.Bool {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case KindList:
		sb.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.render(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('\'')
			sb.WriteString(k)
			sb.WriteString("': ")
			v.Map[k].render(sb)
		}
		sb.WriteByte('}')
	}
}
