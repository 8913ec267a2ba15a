package consteval

import (
	"fmt"
	"math"

	"lumen/internal/constant"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// FrexpResultType returns the struct type frexp yields for an argument of
// type arg, registering it on first use. The struct holds fract with the
// argument's type and exp with i32 leaves (abstract-int for abstract-float).
func FrexpResultType(in *types.Interner, arg types.TypeID) types.TypeID {
	expLeaf := in.Builtins().I32
	if in.ScalarKind(in.DeepestElementOf(arg)) == number.KindAbstractFloat {
		expLeaf = in.Builtins().AbstractInt
	}
	return resultStruct(in, "__frexp_result", arg, "fract", arg, "exp", in.WithScalar(arg, expLeaf))
}

// ModfResultType returns the struct type modf yields: fract and whole, both
// of the argument's type.
func ModfResultType(in *types.Interner, arg types.TypeID) types.TypeID {
	return resultStruct(in, "__modf_result", arg, "fract", arg, "whole", arg)
}

func resultStruct(in *types.Interner, prefix string, arg types.TypeID, m0 string, t0 types.TypeID, m1 string, t1 types.TypeID) types.TypeID {
	leaf := in.DeepestElementOf(arg)
	suffix := in.FriendlyName(leaf)
	if in.ScalarKind(leaf) == number.KindAbstractFloat {
		suffix = "abstract"
	}
	name := prefix + "_" + suffix
	if tt := in.MustLookup(arg); tt.Kind == types.KindVector {
		name = fmt.Sprintf("%s_vec%d_%s", prefix, tt.Count, suffix)
	}
	id, _ := in.RegisterStruct(name, []types.StructMember{in.Member(m0, t0), in.Member(m1, t1)})
	return id
}

// pair splits a two member result struct into its member types.
func (e *Evaluator) pair(ty types.TypeID) (types.TypeID, types.TypeID, bool) {
	ms := e.types.Members(ty)
	if len(ms) != 2 {
		return types.NoTypeID, types.NoTypeID, false
	}
	return ms[0].Type, ms[1].Type, true
}

// frexp splits leaves into a fraction in [0.5, 1) and a power of two.
func (e *Evaluator) frexp(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	fractTy, expTy, ok := e.pair(ty)
	if !ok {
		return e.invalid(sp, "frexp", ty)
	}
	fract, ok := e.leafwise(fractTy, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		f, _ := math.Frexp(vs[0].Float())
		return number.Float(k, f), true
	}, args[0])
	if !ok {
		return constant.NoID, false
	}
	exp, ok := e.transform(expTy, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
		_, x := math.Frexp(vs[0].Float())
		return e.element(sp, lt, number.Int(e.kindOf(lt), int64(x)))
	}, args[0])
	if !ok {
		return constant.NoID, false
	}
	return e.arena.CreateComposite(ty, []constant.ID{fract, exp}), true
}

// modf splits leaves into fractional and whole parts, both carrying the
// sign of the argument.
func (e *Evaluator) modf(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	fractTy, wholeTy, ok := e.pair(ty)
	if !ok {
		return e.invalid(sp, "modf", ty)
	}
	fract, ok := e.leafwise(fractTy, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		x := vs[0].Float()
		return number.Float(k, x-math.Trunc(x)), true
	}, args[0])
	if !ok {
		return constant.NoID, false
	}
	whole, ok := e.leafwise(wholeTy, sp, float1(math.Trunc), args[0])
	if !ok {
		return constant.NoID, false
	}
	return e.arena.CreateComposite(ty, []constant.ID{fract, whole}), true
}

// sel is select(f, t, cond). A bool condition picks whole operands, a
// vector condition picks per component.
func (e *Evaluator) sel(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	cond := args[2]
	var conds []number.Value
	if e.arena.Shape(cond) != constant.ShapeElement {
		conds = e.values(cond)
	}
	return e.transform(ty, func(leaf int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
		c := conds == nil && e.value(cond).Bool()
		if conds != nil {
			c = conds[leaf].Bool()
		}
		if c {
			return e.element(sp, lt, vs[1])
		}
		return e.element(sp, lt, vs[0])
	}, args[0], args[1])
}

// bitcast reinterprets the 32-bit pattern of every leaf as the leaf kind
// of ty. Patterns that are not finite f32 values fail.
func (e *Evaluator) bitcast(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	to := e.leafKind(ty)
	if to != number.KindI32 && to != number.KindU32 && to != number.KindF32 {
		return e.invalid(sp, "bitcast", ty)
	}
	return e.transform(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
		b := vs[0].Bits32()
		if to == number.KindF32 {
			return e.element(sp, lt, number.F32(math.Float32frombits(b)))
		}
		return e.element(sp, lt, fromBits(to, b))
	}, args[0])
}
