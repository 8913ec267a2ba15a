package consteval

import (
	"lumen/internal/constant"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Literal builds the constant of a literal token already parsed into v. A
// v whose kind differs from ty is converted first.
func (e *Evaluator) Literal(ty types.TypeID, v number.Value, sp source.Span) (constant.ID, bool) {
	return e.call("literal", sp, func() (constant.ID, bool) {
		if !e.types.IsScalar(ty) {
			return e.invalid(sp, "literal", ty)
		}
		if e.kindOf(ty) != v.Kind() {
			return e.convertElement(ty, v, sp)
		}
		return e.element(sp, ty, v)
	})
}

// Zero is the zero value constructor T().
func (e *Evaluator) Zero(ty types.TypeID, _ []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.call("zero", sp, func() (constant.ID, bool) {
		return e.arena.ZeroValue(ty), true
	})
}

// Identity is T(e) where e already has type T.
func (e *Evaluator) Identity(_ types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("identity", args, 1, types.FamilyNone, sp, func() (constant.ID, bool) {
		return args[0], true
	})
}

// VecSplat is vecN<T>(e).
func (e *Evaluator) VecSplat(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("vector splat", args, 1, types.FamilyNone, sp, func() (constant.ID, bool) {
		_, n := e.types.ElementOf(ty)
		return e.arena.Splat(ty, args[0], n), true
	})
}

// VecInitScalars is vecN<T>(e1, ..., eN).
func (e *Evaluator) VecInitScalars(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("vector constructor", args, -1, types.FamilyNone, sp, func() (constant.ID, bool) {
		return e.arena.CreateComposite(ty, args), true
	})
}

// VecInitMixed is a vector constructor mixing scalars and vectors, e.g.
// vec4(v2, x, y). Vector operands are flattened.
func (e *Evaluator) VecInitMixed(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("vector constructor", args, -1, types.FamilyNone, sp, func() (constant.ID, bool) {
		_, n := e.types.ElementOf(ty)
		els := make([]constant.ID, 0, n)
		for _, a := range args {
			if e.arena.Shape(a) == constant.ShapeElement {
				els = append(els, a)
				continue
			}
			for i := range e.arena.Len(a) {
				els = append(els, e.arena.Index(a, i))
			}
		}
		return e.arena.CreateComposite(ty, els), true
	})
}

// MatInitScalars is matCxR<T>(e1, ..., eC*R) with scalars in column-major
// order.
func (e *Evaluator) MatInitScalars(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("matrix constructor", args, -1, types.FamilyNone, sp, func() (constant.ID, bool) {
		tt, _ := e.types.Lookup(ty)
		colTy := e.types.ColumnType(ty)
		if int(tt.Count*tt.Rows) != len(args) {
			return e.invalid(sp, "matrix constructor", ty)
		}
		cols := make([]constant.ID, tt.Count)
		for c := range tt.Count {
			cols[c] = e.arena.CreateComposite(colTy, args[c*tt.Rows:(c+1)*tt.Rows])
		}
		return e.arena.CreateComposite(ty, cols), true
	})
}

// MatInitColumns is matCxR<T>(c1, ..., cC) from column vectors.
func (e *Evaluator) MatInitColumns(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("matrix constructor", args, -1, types.FamilyNone, sp, func() (constant.ID, bool) {
		return e.arena.CreateComposite(ty, args), true
	})
}

// ArrayOrStructInit constructs an array or struct. No operands give the zero
// value; a single operand of type ty is returned as is.
func (e *Evaluator) ArrayOrStructInit(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("constructor", args, -1, types.FamilyNone, sp, func() (constant.ID, bool) {
		switch {
		case len(args) == 0:
			return e.arena.ZeroValue(ty), true
		case len(args) == 1 && e.arena.Type(args[0]) == ty:
			return args[0], true
		}
		return e.arena.CreateComposite(ty, args), true
	})
}

// Conv is the value conversion constructor T(e).
func (e *Evaluator) Conv(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	if len(args) != 1 {
		return e.guard("conversion", args, 1, types.FamilyNone, sp, nil)
	}
	return e.Convert(ty, args[0], sp)
}
