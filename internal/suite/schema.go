package suite

import (
	"fmt"
	"slices"
)

// Suite is the decoded content of one suite file.
type Suite struct {
	Name    string       `toml:"name" yaml:"name"`
	Structs []StructDecl `toml:"struct" yaml:"struct"`
	Cases   []Case       `toml:"case" yaml:"case"`
}

// StructDecl declares a struct type usable by operand and case types.
type StructDecl struct {
	Name    string       `toml:"name" yaml:"name"`
	Members []MemberDecl `toml:"members" yaml:"members"`
}

// MemberDecl is one member of a StructDecl.
type MemberDecl struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type"`
}

// Operand is an already typed operand. Value is a scalar for scalar types
// and a (nested) list for composites; matrices list columns. A struct value
// may also be a table keyed by member name. Runtime marks an operand whose
// value is not known at compile time.
type Operand struct {
	Type    string `toml:"type" yaml:"type"`
	Value   any    `toml:"value" yaml:"value"`
	Runtime bool   `toml:"runtime" yaml:"runtime"`
}

// Case is one expression to evaluate with its expectation.
type Case struct {
	Name    string    `toml:"name" yaml:"name"`
	Kind    string    `toml:"kind" yaml:"kind"`
	Op      string    `toml:"op" yaml:"op"`
	Fn      string    `toml:"fn" yaml:"fn"`
	Type    string    `toml:"type" yaml:"type"`
	Index   *int64    `toml:"index" yaml:"index"`
	Member  string    `toml:"member" yaml:"member"`
	Swizzle string    `toml:"swizzle" yaml:"swizzle"`
	Args    []Operand `toml:"args" yaml:"args"`

	// Ровно одно из ожиданий.
	Expect   *string `toml:"expect" yaml:"expect"`
	Error    string  `toml:"error" yaml:"error"`
	NotConst bool    `toml:"not_const" yaml:"not_const"`
	// Note is a substring one of the error's notes must contain.
	Note string `toml:"note" yaml:"note"`
}

// Case kinds.
const (
	KindLiteral   = "literal"
	KindZero      = "zero"
	KindConvert   = "convert"
	KindConstruct = "construct"
	KindIdentity  = "identity"
	KindIndex     = "index"
	KindMember    = "member"
	KindSwizzle   = "swizzle"
	KindUnary     = "unary"
	KindBinary    = "binary"
	KindBuiltin   = "builtin"
)

// Kinds lists the case kinds in documentation order.
var Kinds = []string{
	KindLiteral, KindZero, KindConvert, KindConstruct, KindIdentity,
	KindIndex, KindMember, KindSwizzle, KindUnary, KindBinary, KindBuiltin,
}

type arity struct{ min, max int }

var kindArity = map[string]arity{
	KindLiteral:   {1, 1},
	KindZero:      {0, 0},
	KindConvert:   {1, 1},
	KindConstruct: {0, -1},
	KindIdentity:  {1, 1},
	KindIndex:     {1, 2},
	KindMember:    {1, 1},
	KindSwizzle:   {1, 1},
	KindUnary:     {1, 1},
	KindBinary:    {2, 2},
	KindBuiltin:   {0, -1},
}

// validate checks the shape of a case. Types and operand values are checked
// when the case is decoded.
func (c *Case) validate() error {
	if !slices.Contains(Kinds, c.Kind) {
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	a := kindArity[c.Kind]
	if len(c.Args) < a.min || (a.max >= 0 && len(c.Args) > a.max) {
		return fmt.Errorf("%s case takes %s, got %d", c.Kind, a, len(c.Args))
	}

	expectations := 0
	if c.Expect != nil {
		expectations++
	}
	if c.Error != "" {
		expectations++
	}
	if c.NotConst {
		expectations++
	}
	if expectations != 1 {
		return fmt.Errorf("exactly one of expect, error, not_const is required")
	}
	if c.Note != "" && c.Error == "" {
		return fmt.Errorf("note needs an error expectation")
	}

	switch c.Kind {
	case KindLiteral, KindZero, KindConvert, KindConstruct:
		if c.Type == "" {
			return fmt.Errorf("%s case needs a type", c.Kind)
		}
	case KindIndex:
		if (c.Index == nil) == (len(c.Args) == 1) {
			return fmt.Errorf("index case needs either index or a second operand")
		}
	case KindMember:
		if c.Member == "" {
			return fmt.Errorf("member case needs a member")
		}
	case KindSwizzle:
		if c.Swizzle == "" {
			return fmt.Errorf("swizzle case needs a swizzle")
		}
	case KindUnary, KindBinary:
		if c.Op == "" {
			return fmt.Errorf("%s case needs an op", c.Kind)
		}
	case KindBuiltin:
		if c.Fn == "" {
			return fmt.Errorf("builtin case needs a fn")
		}
	}
	return nil
}

func (a arity) String() string {
	switch {
	case a.max < 0:
		return fmt.Sprintf("at least %d operand(s)", a.min)
	case a.min == a.max:
		return fmt.Sprintf("%d operand(s)", a.min)
	default:
		return fmt.Sprintf("%d to %d operands", a.min, a.max)
	}
}
