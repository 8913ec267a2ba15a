package suite

import (
	"fmt"
	"strings"

	"lumen/internal/constant"
	"lumen/internal/consteval"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/project"
	"lumen/internal/source"
	"lumen/internal/trace"
	"lumen/internal/types"
)

// Session evaluates the cases of one suite file. It owns its FileSet, type
// interner and constant arena; sessions share nothing mutable.
type Session struct {
	path      string
	fs        *source.FileSet
	types     *types.Interner
	arena     *constant.Arena
	dec       decoder
	tracer    trace.Tracer
	span      uint64
	suiteFile source.FileID
	exprFile  source.FileID
	records   []Record
	maxDiags  int
}

// NewSession creates an empty session for the suite at path.
func NewSession(path string, tracer trace.Tracer, maxDiagnostics int) *Session {
	if tracer == nil {
		tracer = trace.Nop
	}
	in := types.NewInterner()
	arena := constant.NewArena(in)
	return &Session{
		path:     path,
		fs:       source.NewFileSet(),
		types:    in,
		arena:    arena,
		dec:      decoder{in: in, arena: arena},
		tracer:   tracer,
		maxDiags: maxDiagnostics,
	}
}

// Types returns the session's type interner.
func (s *Session) Types() *types.Interner { return s.types }

// record keeps d unless the diagnostics limit is reached.
func (s *Session) record(d diag.Diagnostic) {
	if s.maxDiags > 0 && len(s.records) >= s.maxDiags {
		return
	}
	s.records = append(s.records, recordOf(d, s.suiteFile))
}

// prepared is a decoded case ready for evaluation.
type prepared struct {
	c       *Case
	ty      types.TypeID
	argTys  []types.TypeID
	args    []constant.ID
	idx     constant.ID
	member  int
	swizzle []uint32
	fn      consteval.Func
	builtin *consteval.Builtin
	// explicit is set for builtins whose result type is named, bitcast<T>
	explicit bool
	text     string

	// code != 0 marks a malformed case
	code diag.Code
	err  error
}

func (p *prepared) malformed(code diag.Code, format string, args ...any) *prepared {
	p.code = code
	p.err = fmt.Errorf(format, args...)
	return p
}

// declare registers the struct declarations of the suite in order, so a
// struct may use the structs declared before it.
func (s *Session) declare(decls []StructDecl) {
	at := source.Span{File: s.suiteFile}
	for _, sd := range decls {
		members := make([]types.StructMember, 0, len(sd.Members))
		ok := true
		for _, m := range sd.Members {
			ty, err := s.types.Parse(m.Type)
			if err != nil {
				s.record(diag.NewError(diag.SuiteUnknownType, at, fmt.Sprintf("struct %s, member %s: %v", sd.Name, m.Name, err)))
				ok = false
				break
			}
			members = append(members, s.types.Member(m.Name, ty))
		}
		if !ok {
			continue
		}
		if sd.Name == "" || len(members) == 0 {
			s.record(diag.NewError(diag.SuiteBadCase, at, fmt.Sprintf("struct %q needs a name and members", sd.Name)))
			continue
		}
		if _, fresh := s.types.RegisterStruct(sd.Name, members); !fresh {
			s.record(diag.NewError(diag.SuiteDuplicateStruct, at, fmt.Sprintf("struct %s declared twice", sd.Name)))
		}
	}
}

// prepare decodes operands, infers the result type and renders the
// expression text of c.
func (s *Session) prepare(c *Case) *prepared {
	p := &prepared{c: c, idx: constant.NoID}
	p.text = fmt.Sprintf("case %q", c.Name)
	if err := c.validate(); err != nil {
		return p.malformed(diag.SuiteBadCase, "case %q: %v", c.Name, err)
	}

	p.argTys = make([]types.TypeID, len(c.Args))
	p.args = make([]constant.ID, len(c.Args))
	for i, op := range c.Args {
		ty, err := s.types.Parse(op.Type)
		if err != nil {
			return p.malformed(diag.SuiteUnknownType, "case %q, operand %d: %v", c.Name, i, err)
		}
		id, err := s.dec.operand(ty, op)
		if err != nil {
			return p.malformed(diag.SuiteBadOperand, "case %q, operand %d: %v", c.Name, i, err)
		}
		p.argTys[i], p.args[i] = ty, id
	}

	if c.Type != "" {
		ty, err := s.types.Parse(c.Type)
		if err != nil {
			return p.malformed(diag.SuiteUnknownType, "case %q: %v", c.Name, err)
		}
		p.ty = ty
	}
	if err := s.resolve(p); err != nil {
		return p
	}
	p.text = s.render(p)
	return p
}

// resolve picks the evaluator entry point and, without an explicit type,
// the result type.
func (s *Session) resolve(p *prepared) error {
	c := p.c
	fail := func(code diag.Code, format string, args ...any) error {
		p.malformed(code, format, args...)
		return p.err
	}
	inferred := types.NoTypeID
	switch c.Kind {
	case KindLiteral:
		if p.args[0] == constant.NoID || !s.types.IsScalar(p.argTys[0]) {
			return fail(diag.SuiteBadOperand, "case %q: literal needs a constant scalar", c.Name)
		}
	case KindIdentity:
		inferred = p.argTys[0]
	case KindIndex:
		obj := s.types.MustLookup(p.argTys[0])
		if obj.Kind != types.KindVector && obj.Kind != types.KindMatrix && obj.Kind != types.KindArray {
			return fail(diag.SuiteBadOperand, "case %q: cannot index %s", c.Name, s.types.FriendlyName(p.argTys[0]))
		}
		inferred, _ = s.types.ElementOf(p.argTys[0])
		if c.Index != nil {
			p.idx = s.arena.Element(s.types.Builtins().AbstractInt, number.AInt(*c.Index))
		} else {
			if !s.types.IsScalar(p.argTys[1]) || s.types.Family(p.argTys[1])&types.FamilyIntegral == 0 {
				return fail(diag.SuiteBadOperand, "case %q: index must be an integer", c.Name)
			}
			p.idx = p.args[1]
		}
	case KindMember:
		if s.types.MustLookup(p.argTys[0]).Kind != types.KindStruct {
			return fail(diag.SuiteBadOperand, "case %q: %s has no members", c.Name, s.types.FriendlyName(p.argTys[0]))
		}
		i, ok := s.types.MemberIndex(p.argTys[0], c.Member)
		if !ok {
			return fail(diag.SuiteBadOperand, "case %q: %s has no member %s", c.Name, s.types.FriendlyName(p.argTys[0]), c.Member)
		}
		p.member = i
		inferred = s.types.MemberType(p.argTys[0], i)
	case KindSwizzle:
		if s.types.MustLookup(p.argTys[0]).Kind != types.KindVector {
			return fail(diag.SuiteBadOperand, "case %q: cannot swizzle %s", c.Name, s.types.FriendlyName(p.argTys[0]))
		}
		idx, err := parseSwizzle(c.Swizzle)
		if err != nil {
			return fail(diag.SuiteBadCase, "case %q: %v", c.Name, err)
		}
		p.swizzle = idx
		inferred = swizzleResult(s.types, p.argTys[0], len(idx))
	case KindUnary:
		fn, ok := consteval.LookupUnary(c.Op)
		if !ok {
			return fail(diag.SuiteUnknownOperator, "case %q: unknown unary operator %q", c.Name, c.Op)
		}
		p.fn = fn
		inferred = p.argTys[0]
	case KindBinary:
		fn, ok := consteval.LookupBinary(s.types, c.Op, p.argTys[0], p.argTys[1])
		if !ok {
			return fail(diag.SuiteUnknownOperator, "case %q: unknown binary operator %q", c.Name, c.Op)
		}
		p.fn = fn
		inferred = binaryResult(s.types, c.Op, p.argTys[0], p.argTys[1])
	case KindBuiltin:
		b, ok := consteval.LookupBuiltin(c.Fn)
		if !ok {
			return fail(diag.SuiteUnknownBuiltin, "case %q: unknown builtin %q", c.Name, c.Fn)
		}
		p.builtin = b
		if len(p.args) != b.Arity {
			// арность проверит сам вычислитель
			break
		}
		inferred = b.Result(s.types, p.argTys)
		if inferred == types.NoTypeID {
			p.explicit = true
			if p.ty == types.NoTypeID {
				return fail(diag.SuiteBadCase, "case %q: %s needs a type", c.Name, c.Fn)
			}
		}
	}
	if p.ty == types.NoTypeID {
		p.ty = inferred
	}
	return nil
}

// operandText renders an operand; runtime operands show as T(runtime).
func (s *Session) operandText(ty types.TypeID, id constant.ID) string {
	if id == constant.NoID {
		return s.types.FriendlyName(ty) + "(runtime)"
	}
	return s.arena.Format(id)
}

func (s *Session) argList(p *prepared) string {
	parts := make([]string, len(p.args))
	for i := range p.args {
		parts[i] = s.operandText(p.argTys[i], p.args[i])
	}
	return strings.Join(parts, ", ")
}

// render builds the one-line pseudo expression of a prepared case.
func (s *Session) render(p *prepared) string {
	c := p.c
	switch c.Kind {
	case KindLiteral:
		return s.operandText(p.argTys[0], p.args[0])
	case KindZero:
		return s.types.FriendlyName(p.ty) + "()"
	case KindConvert, KindConstruct, KindIdentity:
		return s.types.FriendlyName(p.ty) + "(" + s.argList(p) + ")"
	case KindIndex:
		idx := ""
		if c.Index != nil {
			idx = fmt.Sprint(*c.Index)
		} else {
			idx = s.operandText(p.argTys[1], p.args[1])
		}
		return s.operandText(p.argTys[0], p.args[0]) + "[" + idx + "]"
	case KindMember:
		return s.operandText(p.argTys[0], p.args[0]) + "." + c.Member
	case KindSwizzle:
		return s.operandText(p.argTys[0], p.args[0]) + "." + c.Swizzle
	case KindUnary:
		return c.Op + s.operandText(p.argTys[0], p.args[0])
	case KindBinary:
		return s.operandText(p.argTys[0], p.args[0]) + " " + c.Op + " " + s.operandText(p.argTys[1], p.args[1])
	case KindBuiltin:
		if p.explicit {
			return c.Fn + "<" + s.types.FriendlyName(p.ty) + ">(" + s.argList(p) + ")"
		}
		return c.Fn + "(" + s.argList(p) + ")"
	}
	return fmt.Sprintf("case %q", c.Name)
}

// Digest loads the suite file and returns the hash of its normalized content.
func (s *Session) Digest() (project.Digest, error) {
	id, ok := s.fs.GetLatest(s.path)
	if !ok {
		var err error
		if id, err = s.fs.Load(s.path); err != nil {
			return project.Digest{}, err
		}
	}
	return project.Digest(s.fs.Get(id).Hash), nil
}
