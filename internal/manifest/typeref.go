package manifest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"sift/internal/types"
)

// ParseRef parses a type reference string from a manifest into a
// Definition. The grammar mirrors the detail renderer:
//
//	[]T  [N]T  map[K]V  *T  chan T  func(a T, b? T, rest ...T) R  T?
//
// plus the primitive names and, for anything unrecognized, a defined
// type resolved later against the [types] section.
func ParseRef(ref string) (*types.Definition, error) {
	p := &refParser{src: strings.TrimSpace(ref)}
	def, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("type %q: trailing input at offset %d", ref, p.pos)
	}
	return def, nil
}

var primitives = map[string]*types.Definition{
	"any":     types.Any,
	"nil":     types.Nil,
	"bool":    types.Bool,
	"string":  types.String,
	"byte":    types.Byte,
	"rune":    types.Rune,
	"number":  types.Number,
	"int":     types.Int,
	"int8":    types.Int8,
	"int16":   types.Int16,
	"int32":   types.Int32,
	"int64":   types.Int64,
	"uint":    types.Uint,
	"uint8":   types.Uint8,
	"uint16":  types.Uint16,
	"uint32":  types.Uint32,
	"uint64":  types.Uint64,
	"float":   types.Float,
	"float32": types.Float32,
	"float64": types.Float64,
}

type refParser struct {
	src string
	pos int
}

func (p *refParser) parse() (*types.Definition, error) {
	def, err := p.parseCore()
	if err != nil {
		return nil, err
	}
	// Optional marker binds tighter than nothing else follows: T?.
	for p.peek() == '?' {
		p.pos++
		def = types.NewOptional(def)
	}
	return def, nil
}

func (p *refParser) parseCore() (*types.Definition, error) {
	p.skipSpace()
	switch {
	case p.peek() == '[':
		return p.parseBracket()
	case p.peek() == '*':
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return types.NewPointer(elem), nil
	case p.eatWord("map"):
		return p.parseMap()
	case p.eatWord("chan"):
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return types.NewChan(elem), nil
	case p.eatWord("func"):
		return p.parseFunc()
	default:
		return p.parseName()
	}
}

// parseBracket handles []T and [N]T.
func (p *refParser) parseBracket() (*types.Definition, error) {
	p.pos++ // '['
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return types.NewSlice(elem), nil
	}
	start := p.pos
	for p.pos < len(p.src) && unicode.IsDigit(rune(p.src[p.pos])) {
		p.pos++
	}
	count, err := strconv.ParseUint(p.src[start:p.pos], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("type %q: bad array length at offset %d", p.src, start)
	}
	p.skipSpace()
	if p.peek() != ']' {
		return nil, fmt.Errorf("type %q: expected ] at offset %d", p.src, p.pos)
	}
	p.pos++
	elem, err := p.parse()
	if err != nil {
		return nil, err
	}
	return types.NewArray(elem, uint32(count)), nil
}

func (p *refParser) parseMap() (*types.Definition, error) {
	p.skipSpace()
	if p.peek() != '[' {
		return nil, fmt.Errorf("type %q: expected [ after map at offset %d", p.src, p.pos)
	}
	p.pos++
	key, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != ']' {
		return nil, fmt.Errorf("type %q: expected ] in map at offset %d", p.src, p.pos)
	}
	p.pos++
	value, err := p.parse()
	if err != nil {
		return nil, err
	}
	return types.NewMap(key, value), nil
}

func (p *refParser) parseFunc() (*types.Definition, error) {
	p.skipSpace()
	if p.peek() != '(' {
		return nil, fmt.Errorf("type %q: expected ( after func at offset %d", p.src, p.pos)
	}
	p.pos++

	var args []types.Argument
	p.skipSpace()
	for p.peek() != ')' {
		arg, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		break
	}
	p.skipSpace()
	if p.peek() != ')' {
		return nil, fmt.Errorf("type %q: expected ) at offset %d", p.src, p.pos)
	}
	p.pos++

	returns, err := p.parseReturns()
	if err != nil {
		return nil, err
	}
	return types.NewFunc(args, returns), nil
}

// parseParam accepts `T`, `name T`, `name? T` and `...T` / `name ...T`.
func (p *refParser) parseParam() (types.Argument, error) {
	var arg types.Argument
	p.skipSpace()

	save := p.pos
	if name := p.word(); name != "" {
		optional := false
		if p.peek() == '?' {
			p.pos++
			optional = true
		}
		p.skipSpace()
		// A name must be followed by more of the parameter; otherwise
		// the word was the type itself.
		if c := p.peek(); c == ',' || c == ')' || c == '?' || c == 0 {
			p.pos = save
		} else {
			arg.Name = name
			arg.Optional = optional
		}
	}

	p.skipSpace()
	// Variadic parameters record their per-argument type.
	if strings.HasPrefix(p.src[p.pos:], "...") {
		p.pos += 3
		elem, err := p.parse()
		if err != nil {
			return arg, err
		}
		arg.Variadic = true
		arg.Type = elem
		return arg, nil
	}
	ty, err := p.parse()
	if err != nil {
		return arg, err
	}
	arg.Type = ty
	return arg, nil
}

func (p *refParser) parseReturns() ([]*types.Definition, error) {
	p.skipSpace()
	if c := p.peek(); c == 0 || c == ',' || c == ')' || c == ']' || c == '?' {
		return nil, nil
	}
	if p.peek() == '(' {
		p.pos++
		var out []*types.Definition
		for {
			ret, err := p.parse()
			if err != nil {
				return nil, err
			}
			out = append(out, ret)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("type %q: expected ) in returns at offset %d", p.src, p.pos)
		}
		p.pos++
		return out, nil
	}
	ret, err := p.parse()
	if err != nil {
		return nil, err
	}
	return []*types.Definition{ret}, nil
}

func (p *refParser) parseName() (*types.Definition, error) {
	name := p.word()
	if name == "" {
		return nil, fmt.Errorf("type %q: expected type at offset %d", p.src, p.pos)
	}
	if def, ok := primitives[name]; ok {
		return def, nil
	}
	return types.NewDefined(name), nil
}

func (p *refParser) word() string {
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '_' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// eatWord consumes word only when it stands alone, not as a prefix of
// a longer identifier.
func (p *refParser) eatWord(word string) bool {
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], word) {
		return false
	}
	end := p.pos + len(word)
	if end < len(p.src) {
		r := rune(p.src[end])
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	p.pos = end
	return true
}

func (p *refParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
