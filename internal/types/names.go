package types

import (
	"fmt"
	"strconv"
	"strings"
)

// FriendlyName renders a type the way diagnostics spell it:
// vec3<f32>, mat2x3<f16>, array<i32, 4>, array<u32>, or the struct name.
func (in *Interner) FriendlyName(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindVector:
		return fmt.Sprintf("vec%d<%s>", tt.Count, in.FriendlyName(tt.Elem))
	case KindMatrix:
		return fmt.Sprintf("mat%dx%d<%s>", tt.Count, tt.Rows, in.FriendlyName(tt.Elem))
	case KindArray:
		if tt.Count == ArrayRuntimeLength {
			return fmt.Sprintf("array<%s>", in.FriendlyName(tt.Elem))
		}
		return fmt.Sprintf("array<%s, %d>", in.FriendlyName(tt.Elem), tt.Count)
	case KindStruct:
		info := in.structInfo(id)
		if info == nil {
			return "<struct>"
		}
		return in.strings.MustLookup(info.Name)
	}
	return tt.Kind.String()
}

var shorthandScalars = map[byte]string{
	'f': "f32",
	'h': "f16",
	'i': "i32",
	'u': "u32",
}

// Parse resolves a type name written in FriendlyName syntax. The vecNf /
// matCxRh style shorthands are accepted as well.
func (in *Interner) Parse(name string) (TypeID, error) {
	p := typeParser{in: in, src: name}
	id, err := p.parseType()
	if err != nil {
		return NoTypeID, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return NoTypeID, fmt.Errorf("unexpected %q after type in %q", p.src[p.pos:], name)
	}
	return id, nil
}

type typeParser struct {
	in  *Interner
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '<' || c == '>' || c == ',' || c == ' ' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d in %q", c, p.pos, p.src)
	}
	p.pos++
	return nil
}

func (p *typeParser) peek(c byte) bool {
	p.skipSpace()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *typeParser) parseType() (TypeID, error) {
	name := p.ident()
	if name == "" {
		return NoTypeID, fmt.Errorf("expected type name in %q", p.src)
	}
	if id, ok := p.scalar(name); ok {
		return id, nil
	}
	switch {
	case name == "array":
		return p.parseArray()
	case strings.HasPrefix(name, "vec"):
		return p.parseVector(name)
	case strings.HasPrefix(name, "mat"):
		return p.parseMatrix(name)
	}
	if id, ok := p.in.StructByName(name); ok {
		return id, nil
	}
	return NoTypeID, fmt.Errorf("unknown type %q", name)
}

func (p *typeParser) scalar(name string) (TypeID, bool) {
	b := p.in.builtins
	switch name {
	case "bool":
		return b.Bool, true
	case "abstract-int":
		return b.AbstractInt, true
	case "abstract-float":
		return b.AbstractFloat, true
	case "i32":
		return b.I32, true
	case "u32":
		return b.U32, true
	case "f32":
		return b.F32, true
	case "f16":
		return b.F16, true
	}
	return NoTypeID, false
}

// elemSuffix parses either a shorthand suffix (f, h, i, u) or <T>.
func (p *typeParser) elemSuffix(suffix string) (TypeID, error) {
	if suffix != "" {
		full, ok := shorthandScalars[suffix[0]]
		if len(suffix) != 1 || !ok {
			return NoTypeID, fmt.Errorf("unknown shorthand suffix %q in %q", suffix, p.src)
		}
		id, _ := p.scalar(full)
		return id, nil
	}
	if err := p.expect('<'); err != nil {
		return NoTypeID, err
	}
	elem, err := p.parseType()
	if err != nil {
		return NoTypeID, err
	}
	if !p.in.IsScalar(elem) {
		return NoTypeID, fmt.Errorf("element of %q must be a scalar", p.src)
	}
	if err := p.expect('>'); err != nil {
		return NoTypeID, err
	}
	return elem, nil
}

func (p *typeParser) parseVector(name string) (TypeID, error) {
	rest := strings.TrimPrefix(name, "vec")
	if rest == "" || rest[0] < '2' || rest[0] > '4' {
		return NoTypeID, fmt.Errorf("invalid vector type %q", name)
	}
	width := uint32(rest[0] - '0')
	elem, err := p.elemSuffix(rest[1:])
	if err != nil {
		return NoTypeID, err
	}
	return p.in.Vector(elem, width), nil
}

func (p *typeParser) parseMatrix(name string) (TypeID, error) {
	rest := strings.TrimPrefix(name, "mat")
	if len(rest) < 3 || rest[1] != 'x' ||
		rest[0] < '2' || rest[0] > '4' || rest[2] < '2' || rest[2] > '4' {
		return NoTypeID, fmt.Errorf("invalid matrix type %q", name)
	}
	cols, rows := uint32(rest[0]-'0'), uint32(rest[2]-'0')
	elem, err := p.elemSuffix(rest[3:])
	if err != nil {
		return NoTypeID, err
	}
	kind := p.in.ScalarKind(elem)
	if !kind.IsFloat() {
		return NoTypeID, fmt.Errorf("matrix element must be a floating type, got %s", kind)
	}
	return p.in.Matrix(elem, cols, rows), nil
}

func (p *typeParser) parseArray() (TypeID, error) {
	if err := p.expect('<'); err != nil {
		return NoTypeID, err
	}
	elem, err := p.parseType()
	if err != nil {
		return NoTypeID, err
	}
	count := ArrayRuntimeLength
	if p.peek(',') {
		p.pos++
		text := p.ident()
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil || n == 0 {
			return NoTypeID, fmt.Errorf("invalid array count %q in %q", text, p.src)
		}
		count = uint32(n)
	}
	if err := p.expect('>'); err != nil {
		return NoTypeID, err
	}
	return p.in.Array(elem, count), nil
}
