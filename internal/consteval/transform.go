package consteval

import (
	"lumen/internal/constant"
	"lumen/internal/number"
	"lumen/internal/types"
)

// leafFunc computes the scalar at flattened position leaf. ty is the scalar
// type of that position in the result; vs holds one scalar per operand.
type leafFunc func(leaf int, ty types.TypeID, vs []number.Value) (constant.ID, bool)

// transform applies fn to every leaf of args, which share one shape, and
// rebuilds the shape of ty around the results. The first failure stops the
// walk.
func (e *Evaluator) transform(ty types.TypeID, fn leafFunc, args ...constant.ID) (constant.ID, bool) {
	leaf := 0
	return e.transformLevel(ty, fn, &leaf, args)
}

func (e *Evaluator) transformLevel(ty types.TypeID, fn leafFunc, leaf *int, args []constant.ID) (constant.ID, bool) {
	if e.arena.Shape(args[0]) == constant.ShapeElement {
		vs := make([]number.Value, len(args))
		for i, a := range args {
			vs[i] = e.arena.Value(a)
		}
		id, ok := fn(*leaf, ty, vs)
		*leaf++
		return id, ok
	}
	n := e.arena.Len(args[0])
	els := make([]constant.ID, 0, n)
	sub := make([]constant.ID, len(args))
	for i := range n {
		for j, a := range args {
			sub[j] = e.arena.Index(a, i)
		}
		el, ok := e.transformLevel(e.types.ElementAt(ty, int(i)), fn, leaf, sub)
		if !ok {
			return constant.NoID, false
		}
		els = append(els, el)
	}
	return e.arena.CreateComposite(ty, els), true
}

// transformBinary is transform for two operands where either side may be a
// scalar broadcast against the other side's composite.
func (e *Evaluator) transformBinary(ty types.TypeID, fn leafFunc, a, b constant.ID) (constant.ID, bool) {
	leaf := 0
	return e.transformBinaryLevel(ty, fn, &leaf, a, b)
}

func (e *Evaluator) transformBinaryLevel(ty types.TypeID, fn leafFunc, leaf *int, a, b constant.ID) (constant.ID, bool) {
	if e.types.IsScalar(ty) {
		id, ok := fn(*leaf, ty, []number.Value{e.arena.Value(a), e.arena.Value(b)})
		*leaf++
		return id, ok
	}
	_, n := e.types.ElementOf(ty)
	els := make([]constant.ID, 0, n)
	for i := range n {
		el, ok := e.transformBinaryLevel(e.types.ElementAt(ty, int(i)), fn, leaf, e.broadcast(a, i), e.broadcast(b, i))
		if !ok {
			return constant.NoID, false
		}
		els = append(els, el)
	}
	return e.arena.CreateComposite(ty, els), true
}

// broadcast returns position i of id, or id itself when it is a scalar.
func (e *Evaluator) broadcast(id constant.ID, i uint32) constant.ID {
	if e.arena.Shape(id) == constant.ShapeElement {
		return id
	}
	return e.arena.Index(id, i)
}
