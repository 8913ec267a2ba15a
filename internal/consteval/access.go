package consteval

import (
	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Index evaluates obj[idx]. objTy is the type of the object expression,
// which is known even when obj is not a constant. A constant index is
// bounds checked before the object is looked at.
func (e *Evaluator) Index(objTy types.TypeID, obj, idx constant.ID, sp source.Span) (constant.ID, bool) {
	return e.call("index", sp, func() (constant.ID, bool) {
		if idx == constant.NoID {
			return constant.NoID, true
		}
		i := e.value(idx).Int()
		_, n := e.types.ElementOf(objTy)
		if i < 0 || (n > 0 && i >= int64(n)) {
			if n > 0 {
				return e.fail(diag.ConstIndexOutOfRange, sp, "index %d out of bounds [0..%d]", i, n-1)
			}
			return e.fail(diag.ConstIndexOutOfRange, sp, "index %d out of bounds", i)
		}
		if obj == constant.NoID {
			return constant.NoID, true
		}
		return e.arena.Index(obj, uint32(i)), true //nolint:gosec // G115: i is within [0, n).
	})
}

// MemberAccess returns member i of a struct constant.
func (e *Evaluator) MemberAccess(obj constant.ID, member int, sp source.Span) (constant.ID, bool) {
	return e.call("member", sp, func() (constant.ID, bool) {
		if obj == constant.NoID {
			return constant.NoID, true
		}
		if member < 0 || member >= int(e.arena.Len(obj)) {
			return e.invalid(sp, "member access", e.arena.Type(obj))
		}
		return e.arena.Index(obj, uint32(member)), true //nolint:gosec // G115: member is within [0, Len).
	})
}

// Swizzle selects vector components. A single index yields a scalar, more
// indices build a vector of type ty.
func (e *Evaluator) Swizzle(ty types.TypeID, obj constant.ID, indices []uint32, sp source.Span) (constant.ID, bool) {
	return e.call("swizzle", sp, func() (constant.ID, bool) {
		if obj == constant.NoID {
			return constant.NoID, true
		}
		n := e.arena.Len(obj)
		if n == 0 || len(indices) == 0 {
			return e.invalid(sp, "swizzle", e.arena.Type(obj))
		}
		for _, i := range indices {
			if i >= n {
				return e.fail(diag.ConstIndexOutOfRange, sp, "index %d out of bounds [0..%d]", i, n-1)
			}
		}
		if len(indices) == 1 {
			return e.arena.Index(obj, indices[0]), true
		}
		els := make([]constant.ID, len(indices))
		for k, i := range indices {
			els[k] = e.arena.Index(obj, i)
		}
		return e.arena.CreateComposite(ty, els), true
	})
}
