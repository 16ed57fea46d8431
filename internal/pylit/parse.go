package pylit

import (
	"fmt"
	"strconv"
)

// SyntaxError reports a grammar mismatch, with the byte offset at which
// parsing failed. An offset equal to the input length indicates truncated
// input.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("header syntax error at byte %d: %s", e.Offset, e.Msg)
}

// Parse parses a single item and requires that nothing but whitespace
// follows it.
func Parse(b []byte) (Value, error) {
	v, rest, err := ParseItem(b)
	if err != nil {
		return Value{}, err
	}
	p := &parser{in: b, pos: len(b) - len(rest)}
	p.skipSpace()
	if p.pos != len(b) {
		return Value{}, p.errorf("trailing data after value")
	}
	return v, nil
}

// ParseItem parses one item from the front of b, returning the value and
// the unconsumed remainder.
func ParseItem(b []byte) (Value, []byte, error) {
	p := &parser{in: b}
	v, err := p.item()
	if err != nil {
		return Value{}, nil, err
	}
	return v, b[p.pos:], nil
}

type parser struct {
	in  []byte
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.in) {
		switch p.in[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// peek returns the next non-space byte without consuming it, or 0 at end
// of input.
func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.in) {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		if p.pos >= len(p.in) {
			return p.errorf("unexpected end of input, want %q", c)
		}
		return p.errorf("unexpected %q, want %q", p.in[p.pos], c)
	}
	p.pos++
	return nil
}

// item := integer | boolean | string | list | map
func (p *parser) item() (Value, error) {
	switch c := p.peek(); {
	case c == 0:
		return Value{}, p.errorf("unexpected end of input")
	case c == '\'' || c == '"':
		return p.string()
	case c == '[' || c == '(':
		return p.list()
	case c == '{':
		return p.dict()
	case c == 'T' || c == 'F':
		return p.boolean()
	case c >= '0' && c <= '9':
		return p.integer()
	default:
		return Value{}, p.errorf("unexpected %q", c)
	}
}

func (p *parser) integer() (Value, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.in) && p.in[p.pos] >= '0' && p.in[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.ParseInt(string(p.in[start:p.pos]), 10, 64)
	if err != nil {
		return Value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("bad integer: %v", err)}
	}
	return Int(n), nil
}

func (p *parser) boolean() (Value, error) {
	p.skipSpace()
	if p.hasPrefix("True") {
		p.pos += len("True")
		return Bool(true), nil
	}
	if p.hasPrefix("False") {
		p.pos += len("False")
		return Bool(false), nil
	}
	return Value{}, p.errorf("expected True or False")
}

func (p *parser) hasPrefix(s string) bool {
	return p.pos+len(s) <= len(p.in) && string(p.in[p.pos:p.pos+len(s)]) == s
}

// string := '...' | "..."
//
// There is no escape processing: the payload is the literal bytes between
// the matching quotes, so a string cannot contain its own quote character.
func (p *parser) string() (Value, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return Value{}, p.errorf("expected string")
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.in) {
		if p.in[p.pos] == quote {
			s := string(p.in[start:p.pos])
			p.pos++
			return Str(s), nil
		}
		p.pos++
	}
	return Value{}, p.errorf("unterminated string")
}

// list := ('[' | '(') item (',' item)* [','] (']' | ')')
//
// Both bracket styles parse to the same list value; an empty list and a
// parenthesized single item are accepted, matching what numpy emits for
// shape tuples.
func (p *parser) list() (Value, error) {
	var close byte
	switch p.peek() {
	case '[':
		close = ']'
	case '(':
		close = ')'
	default:
		return Value{}, p.errorf("expected list")
	}
	p.pos++

	items := []Value{}
	for {
		if p.peek() == close {
			p.pos++
			return List(items...), nil
		}
		v, err := p.item()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)

		switch p.peek() {
		case ',':
			p.pos++
		case close:
			p.pos++
			return List(items...), nil
		default:
			if p.pos >= len(p.in) {
				return Value{}, p.errorf("unexpected end of input in list")
			}
			return Value{}, p.errorf("unexpected %q in list", p.in[p.pos])
		}
	}
}

// map := '{' (string ':' item (',' string ':' item)*)? [','] '}'
func (p *parser) dict() (Value, error) {
	if err := p.expect('{'); err != nil {
		return Value{}, err
	}
	m := map[string]Value{}
	for {
		if p.peek() == '}' {
			p.pos++
			return Map(m), nil
		}
		key, err := p.string()
		if err != nil {
			return Value{}, err
		}
		if err := p.expect(':'); err != nil {
			return Value{}, err
		}
		v, err := p.item()
		if err != nil {
			return Value{}, err
		}
		m[key.Str] = v

		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Map(m), nil
		default:
			if p.pos >= len(p.in) {
				return Value{}, p.errorf("unexpected end of input in map")
			}
			return Value{}, p.errorf("unexpected %q in map", p.in[p.pos])
		}
	}
}
