package consteval

import (
	"lumen/internal/constant"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// OpUnaryMinus negates every leaf. The most negative signed integer negates
// to itself.
func (e *Evaluator) OpUnaryMinus(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("-", args, 1, types.FamilySigned, sp, func() (constant.ID, bool) {
		return e.negate(ty, args[0], sp)
	})
}

func (e *Evaluator) negate(ty types.TypeID, v constant.ID, sp source.Span) (constant.ID, bool) {
	return e.transform(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
		return e.element(sp, lt, number.Neg(vs[0]))
	}, v)
}

// OpNot is logical negation of bool leaves.
func (e *Evaluator) OpNot(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("!", args, 1, types.FamilyBool, sp, func() (constant.ID, bool) {
		return e.transform(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
			return e.element(sp, lt, number.Bool(!vs[0].Bool()))
		}, args[0])
	})
}

// OpComplement flips every bit of integer leaves.
func (e *Evaluator) OpComplement(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("~", args, 1, types.FamilyIntegral, sp, func() (constant.ID, bool) {
		return e.transform(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
			return e.element(sp, lt, number.Int(vs[0].Kind(), ^vs[0].Int()))
		}, args[0])
	})
}
