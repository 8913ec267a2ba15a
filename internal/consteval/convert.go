package consteval

import (
	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Convert converts v to ty, which has the same shape as v's type. Struct
// members convert positionally.
func (e *Evaluator) Convert(ty types.TypeID, v constant.ID, sp source.Span) (constant.ID, bool) {
	if v == constant.NoID {
		return constant.NoID, true
	}
	if e.arena.Type(v) == ty {
		return v, true
	}
	return e.call("convert", sp, func() (constant.ID, bool) {
		return e.convert(ty, v, sp)
	})
}

func (e *Evaluator) convert(ty types.TypeID, v constant.ID, sp source.Span) (constant.ID, bool) {
	if e.arena.Type(v) == ty {
		return v, true
	}
	switch shape := e.arena.Shape(v); {
	case shape == constant.ShapeElement:
		return e.convertElement(ty, e.arena.Value(v), sp)
	case shape == constant.ShapeSplat && e.splatTarget(ty):
		el, ok := e.convert(e.types.ElementAt(ty, 0), e.arena.Index(v, 0), sp)
		if !ok {
			return constant.NoID, false
		}
		return e.arena.Splat(ty, el, e.arena.Len(v)), true
	}
	n := e.arena.Len(v)
	els := make([]constant.ID, n)
	for i := range n {
		el, ok := e.convert(e.types.ElementAt(ty, int(i)), e.arena.Index(v, i), sp)
		if !ok {
			return constant.NoID, false
		}
		els[i] = el
	}
	return e.arena.CreateComposite(ty, els), true
}

// splatTarget reports whether every position of ty has one element type,
// so a converted splat child fits all of them.
func (e *Evaluator) splatTarget(ty types.TypeID) bool {
	if t, ok := e.types.Lookup(ty); ok && t.Kind == types.KindStruct {
		return e.types.UniformMembers(ty)
	}
	return true
}

func (e *Evaluator) convertElement(ty types.TypeID, v number.Value, sp source.Span) (constant.ID, bool) {
	to := e.kindOf(ty)
	if to == number.KindInvalid {
		return e.invalid(sp, "conversion", ty)
	}
	switch {
	case to == v.Kind():
		return e.element(sp, ty, v)
	case to == number.KindBool:
		return e.element(sp, ty, number.Bool(!v.IsPositiveZero()))
	case v.Kind() == number.KindBool:
		return e.element(sp, ty, number.Int(to, v.Int()))
	}

	r, status := number.CheckedConvert(v, to)
	if status == number.ConvOK {
		return e.element(sp, ty, r)
	}
	switch {
	case v.Kind().IsAbstract():
		return e.fail(diag.ConstMaterialization, sp, "value %s cannot be represented as '%s'", v, e.name(ty))
	case to.IsFloat():
		return e.fail(diag.ConstOverflow, sp, "value %s cannot be represented as '%s'", v, e.name(ty))
	case v.Kind().IsFloat():
		// float -> integer saturates
		if status == number.ConvTooSmall {
			return e.element(sp, ty, number.Lowest(to))
		}
		return e.element(sp, ty, number.Highest(to))
	}
	// integer -> integer truncates
	return e.element(sp, ty, number.Int(to, v.Int()))
}
