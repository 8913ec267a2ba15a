package consteval

import (
	"math"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// vectorOf stores scalars as a vector of type ty.
func (e *Evaluator) vectorOf(ty types.TypeID, sp source.Span, vs []number.Value) (constant.ID, bool) {
	elem := e.types.DeepestElementOf(ty)
	els := make([]constant.ID, len(vs))
	for i, v := range vs {
		el, ok := e.element(sp, elem, v)
		if !ok {
			return constant.NoID, false
		}
		els[i] = el
	}
	return e.arena.CreateComposite(ty, els), true
}

func (e *Evaluator) dotOf(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	id, ok := e.dotElement(sp, ty, e.values(args[0]), e.values(args[1]))
	return e.noteOnFail(id, ok, sp, "dot")
}

// lengthOf is abs for scalars and sqrt(dot(v, v)) for vectors.
func (e *Evaluator) lengthOf(ty types.TypeID, arg constant.ID, sp source.Span) (constant.ID, bool) {
	if e.arena.Shape(arg) == constant.ShapeElement {
		return e.abs(ty, []constant.ID{arg}, sp)
	}
	vs := e.values(arg)
	d, ok := e.dot(sp, vs, vs)
	if !ok {
		return e.noteOnFail(constant.NoID, false, sp, "length")
	}
	return e.element(sp, ty, number.Float(d.Kind(), math.Sqrt(d.Float())))
}

func (e *Evaluator) length(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.lengthOf(ty, args[0], sp)
}

func (e *Evaluator) distance(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	diff, ok := e.arithmetic(e.arena.Type(args[0]), e.sub, args[0], args[1], sp)
	if ok {
		diff, ok = e.lengthOf(ty, diff, sp)
	}
	return e.noteOnFail(diff, ok, sp, "distance")
}

func (e *Evaluator) normalize(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	l, ok := e.lengthOf(e.types.DeepestElementOf(ty), args[0], sp)
	if !ok {
		return e.noteOnFail(l, ok, sp, "normalize")
	}
	if e.arena.AllZero(l) {
		return e.fail(diag.ConstDomain, sp, "zero length vector can not be normalized")
	}
	return e.arithmetic(ty, e.div, args[0], l, sp)
}

func (e *Evaluator) cross(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	u, v := e.values(args[0]), e.values(args[1])
	var out [3]number.Value
	for i, m := range [3][4]number.Value{
		{u[1], u[2], v[1], v[2]},
		{v[0], v[2], u[0], u[2]},
		{u[0], u[1], v[0], v[1]},
	} {
		var ok bool
		if out[i], ok = e.det2(sp, m[0], m[1], m[2], m[3]); !ok {
			return constant.NoID, false
		}
	}
	return e.vectorOf(ty, sp, out[:])
}

func (e *Evaluator) determinant(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	m := e.matrixOf(args[0])
	flat := make([]number.Value, 0, m.cols*m.rows)
	for _, col := range m.m {
		flat = append(flat, col...)
	}
	var (
		r  number.Value
		ok bool
	)
	switch m.cols {
	case 2:
		r, ok = e.det2(sp, flat[0], flat[1], flat[2], flat[3])
	case 3:
		r, ok = e.det3(sp, flat)
	case 4:
		r, ok = e.det4(sp, flat)
	default:
		return e.invalid(sp, "determinant", e.arena.Type(args[0]))
	}
	if !ok {
		return e.noteOnFail(constant.NoID, false, sp, "determinant")
	}
	return e.element(sp, ty, r)
}

// faceForward is e1 when dot(e2, e3) < 0 and -e1 otherwise.
func (e *Evaluator) faceForward(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	d, ok := e.dot(sp, e.values(args[1]), e.values(args[2]))
	if !ok {
		return e.noteOnFail(constant.NoID, false, sp, "faceForward")
	}
	if compare(d, number.Zero(d.Kind())) < 0 {
		return args[0], true
	}
	return e.negate(ty, args[0], sp)
}

// reflect is e1 - 2 * dot(e2, e1) * e2.
func (e *Evaluator) reflect(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	e1, e2 := e.values(args[0]), e.values(args[1])
	fail := func() (constant.ID, bool) { return e.noteOnFail(constant.NoID, false, sp, "reflect") }

	d, ok := e.dot(sp, e2, e1)
	if !ok {
		return fail()
	}
	scale, ok := e.mul(sp, number.Float(d.Kind(), 2), d)
	if !ok {
		return fail()
	}
	out := make([]number.Value, len(e1))
	for i := range e1 {
		s, ok := e.mul(sp, scale, e2[i])
		if !ok {
			return fail()
		}
		if out[i], ok = e.sub(sp, e1[i], s); !ok {
			return fail()
		}
	}
	id, ok := e.vectorOf(ty, sp, out)
	return e.noteOnFail(id, ok, sp, "reflect")
}

// refract bends e1 through a surface with normal e2 and eta e3. Total
// internal reflection yields the zero vector.
func (e *Evaluator) refract(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	e1, e2 := e.values(args[0]), e.values(args[1])
	eta := e.value(args[2])
	k := eta.Kind()
	fail := func() (constant.ID, bool) { return e.noteOnFail(constant.NoID, false, sp, "refract") }

	d, ok := e.dot(sp, e2, e1)
	if !ok {
		return fail()
	}
	// k = 1 - eta * eta * (1 - dot * dot)
	dd, ok := e.mul(sp, d, d)
	if !ok {
		return fail()
	}
	oneMinusDD, ok := e.sub(sp, number.Float(k, 1), dd)
	if !ok {
		return fail()
	}
	etaSq, ok := e.mul(sp, eta, eta)
	if !ok {
		return fail()
	}
	r, ok := e.mul(sp, etaSq, oneMinusDD)
	if !ok {
		return fail()
	}
	kk, ok := e.sub(sp, number.Float(k, 1), r)
	if !ok {
		return fail()
	}
	if kk.Float() < 0 {
		return e.arena.ZeroValue(ty), true
	}

	// eta * e1 - (eta * dot + sqrt(k)) * e2
	etaDot, ok := e.mul(sp, eta, d)
	if !ok {
		return fail()
	}
	scale, ok := e.add(sp, etaDot, number.Float(k, math.Sqrt(kk.Float())))
	if !ok {
		return fail()
	}
	out := make([]number.Value, len(e1))
	for i := range e1 {
		a, ok := e.mul(sp, eta, e1[i])
		if !ok {
			return fail()
		}
		b, ok := e.mul(sp, scale, e2[i])
		if !ok {
			return fail()
		}
		if out[i], ok = e.sub(sp, a, b); !ok {
			return fail()
		}
	}
	id, ok := e.vectorOf(ty, sp, out)
	return e.noteOnFail(id, ok, sp, "refract")
}

// transpose turns column r of the result into row r of the operand.
func (e *Evaluator) transpose(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	m := e.matrixOf(args[0])
	colTy := e.types.ColumnType(ty)
	cols := make([]constant.ID, m.rows)
	for r := range m.rows {
		col, ok := e.vectorOf(colTy, sp, m.row(r))
		if !ok {
			return constant.NoID, false
		}
		cols[r] = col
	}
	return e.arena.CreateComposite(ty, cols), true
}

func (e *Evaluator) all(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.element(sp, ty, number.Bool(!e.arena.AnyZero(args[0])))
}

func (e *Evaluator) any(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.element(sp, ty, number.Bool(!e.arena.AllZero(args[0])))
}
