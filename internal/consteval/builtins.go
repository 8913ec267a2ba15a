package consteval

import (
	"slices"
	"strings"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/types"
)

// ResultRule derives the result type of a builtin call from its argument
// types. NoTypeID means the caller names the type, as for bitcast<T>.
type ResultRule func(in *types.Interner, args []types.TypeID) types.TypeID

// Builtin is one entry of the builtin table.
type Builtin struct {
	Name  string
	Arity int
	// Families lists the leaf kinds accepted by the first argument; the
	// other arguments are assumed to match after overload resolution.
	Families types.FamilyMask
	Result   ResultRule
	eval     Func
}

// Eval evaluates the builtin with result type ty.
func (b *Builtin) Eval(e *Evaluator, ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard(b.Name, args, b.Arity, b.Families, sp, func() (constant.ID, bool) {
		return b.eval(e, ty, args, sp)
	})
}

func sameAsFirst(_ *types.Interner, args []types.TypeID) types.TypeID { return args[0] }

func leafOfFirst(in *types.Interner, args []types.TypeID) types.TypeID {
	return in.DeepestElementOf(args[0])
}

func boolResult(in *types.Interner, _ []types.TypeID) types.TypeID { return in.Builtins().Bool }

func u32Result(in *types.Interner, _ []types.TypeID) types.TypeID { return in.Builtins().U32 }

func explicitResult(*types.Interner, []types.TypeID) types.TypeID { return types.NoTypeID }

func vecF32(n uint32) ResultRule {
	return func(in *types.Interner, _ []types.TypeID) types.TypeID {
		return in.Vector(in.Builtins().F32, n)
	}
}

func transposed(in *types.Interner, args []types.TypeID) types.TypeID {
	tt := in.MustLookup(args[0])
	return in.Matrix(tt.Elem, tt.Rows, tt.Count)
}

func frexpRule(in *types.Interner, args []types.TypeID) types.TypeID {
	return FrexpResultType(in, args[0])
}

func modfRule(in *types.Interner, args []types.TypeID) types.TypeID {
	return ModfResultType(in, args[0])
}

func def(name string, arity int, fam types.FamilyMask, result ResultRule, eval Func) *Builtin {
	return &Builtin{Name: name, Arity: arity, Families: fam, Result: result, eval: eval}
}

var builtinTable = indexBuiltins(
	def("abs", 1, types.FamilyNumeric, sameAsFirst, (*Evaluator).abs),
	def("acos", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).acos),
	def("acosh", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).acosh),
	def("all", 1, types.FamilyBool, boolResult, (*Evaluator).all),
	def("any", 1, types.FamilyBool, boolResult, (*Evaluator).any),
	def("asin", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).asin),
	def("asinh", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).asinh),
	def("atan", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).atan),
	def("atan2", 2, types.FamilyFloat, sameAsFirst, (*Evaluator).atan2),
	def("atanh", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).atanh),
	def("bitcast", 1, types.FamilyConcreteInt|types.FamilyF32, explicitResult, (*Evaluator).bitcast),
	def("ceil", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).ceil),
	def("clamp", 3, types.FamilyNumeric, sameAsFirst, (*Evaluator).clamp),
	def("cos", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).cos),
	def("cosh", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).cosh),
	def("countLeadingZeros", 1, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).countLeadingZeros),
	def("countOneBits", 1, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).countOneBits),
	def("countTrailingZeros", 1, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).countTrailingZeros),
	def("cross", 2, types.FamilyFloat, sameAsFirst, (*Evaluator).cross),
	def("degrees", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).degrees),
	def("determinant", 1, types.FamilyFloat, leafOfFirst, (*Evaluator).determinant),
	def("distance", 2, types.FamilyFloat, leafOfFirst, (*Evaluator).distance),
	def("dot", 2, types.FamilyNumeric, leafOfFirst, (*Evaluator).dotOf),
	def("exp", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).exp),
	def("exp2", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).exp2),
	def("extractBits", 3, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).extractBits),
	def("faceForward", 3, types.FamilyFloat, sameAsFirst, (*Evaluator).faceForward),
	def("firstLeadingBit", 1, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).firstLeadingBit),
	def("firstTrailingBit", 1, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).firstTrailingBit),
	def("floor", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).floor),
	def("fma", 3, types.FamilyFloat, sameAsFirst, (*Evaluator).fma),
	def("fract", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).fract),
	def("frexp", 1, types.FamilyFloat, frexpRule, (*Evaluator).frexp),
	def("insertBits", 4, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).insertBits),
	def("inverseSqrt", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).inverseSqrt),
	def("ldexp", 2, types.FamilyFloat, sameAsFirst, (*Evaluator).ldexp),
	def("length", 1, types.FamilyFloat, leafOfFirst, (*Evaluator).length),
	def("log", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).log),
	def("log2", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).log2),
	def("max", 2, types.FamilyNumeric, sameAsFirst, (*Evaluator).max),
	def("min", 2, types.FamilyNumeric, sameAsFirst, (*Evaluator).min),
	def("mix", 3, types.FamilyFloat, sameAsFirst, (*Evaluator).mix),
	def("modf", 1, types.FamilyFloat, modfRule, (*Evaluator).modf),
	def("normalize", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).normalize),
	def("pack2x16float", 1, types.FamilyF32, u32Result, (*Evaluator).pack2x16float),
	def("pack2x16snorm", 1, types.FamilyF32, u32Result, (*Evaluator).pack2x16snorm),
	def("pack2x16unorm", 1, types.FamilyF32, u32Result, (*Evaluator).pack2x16unorm),
	def("pack4x8snorm", 1, types.FamilyF32, u32Result, (*Evaluator).pack4x8snorm),
	def("pack4x8unorm", 1, types.FamilyF32, u32Result, (*Evaluator).pack4x8unorm),
	def("pow", 2, types.FamilyFloat, sameAsFirst, (*Evaluator).pow),
	def("quantizeToF16", 1, types.FamilyF32, sameAsFirst, (*Evaluator).quantizeToF16),
	def("radians", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).radians),
	def("reflect", 2, types.FamilyFloat, sameAsFirst, (*Evaluator).reflect),
	def("refract", 3, types.FamilyFloat, sameAsFirst, (*Evaluator).refract),
	def("reverseBits", 1, types.FamilyConcreteInt, sameAsFirst, (*Evaluator).reverseBits),
	def("round", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).round),
	def("saturate", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).saturate),
	def("select", 3, types.FamilyScalar, sameAsFirst, (*Evaluator).sel),
	def("sign", 1, types.FamilySigned, sameAsFirst, (*Evaluator).sign),
	def("sin", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).sin),
	def("sinh", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).sinh),
	def("smoothstep", 3, types.FamilyFloat, sameAsFirst, (*Evaluator).smoothstep),
	def("sqrt", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).sqrt),
	def("step", 2, types.FamilyFloat, sameAsFirst, (*Evaluator).step),
	def("tan", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).tan),
	def("tanh", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).tanh),
	def("transpose", 1, types.FamilyFloat, transposed, (*Evaluator).transpose),
	def("trunc", 1, types.FamilyFloat, sameAsFirst, (*Evaluator).trunc),
	def("unpack2x16float", 1, types.FamilyU32, vecF32(2), (*Evaluator).unpack2x16float),
	def("unpack2x16snorm", 1, types.FamilyU32, vecF32(2), (*Evaluator).unpack2x16snorm),
	def("unpack2x16unorm", 1, types.FamilyU32, vecF32(2), (*Evaluator).unpack2x16unorm),
	def("unpack4x8snorm", 1, types.FamilyU32, vecF32(4), (*Evaluator).unpack4x8snorm),
	def("unpack4x8unorm", 1, types.FamilyU32, vecF32(4), (*Evaluator).unpack4x8unorm),
)

func indexBuiltins(bs ...*Builtin) map[string]*Builtin {
	m := make(map[string]*Builtin, len(bs))
	for _, b := range bs {
		m[b.Name] = b
	}
	return m
}

// LookupBuiltin finds a builtin by name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtinTable[name]
	return b, ok
}

// Builtins returns the table sorted by name.
func Builtins() []*Builtin {
	out := make([]*Builtin, 0, len(builtinTable))
	for _, b := range builtinTable {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *Builtin) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// CallBuiltin evaluates the builtin called name.
func (e *Evaluator) CallBuiltin(name string, ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	b, ok := LookupBuiltin(name)
	if !ok {
		return e.fail(diag.ConstInvalidOperand, sp, "unknown builtin '%s'", name)
	}
	return b.Eval(e, ty, args, sp)
}
