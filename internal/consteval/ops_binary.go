package consteval

import (
	"lumen/internal/constant"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

type scalarOp func(sp source.Span, a, b number.Value) (number.Value, bool)

// arithmetic applies op leafwise with scalar broadcasting.
func (e *Evaluator) arithmetic(ty types.TypeID, op scalarOp, a, b constant.ID, sp source.Span) (constant.ID, bool) {
	return e.transformBinary(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
		r, ok := op(sp, vs[0], vs[1])
		if !ok {
			return constant.NoID, false
		}
		return e.element(sp, lt, r)
	}, a, b)
}

// OpPlus adds scalars, vectors and matrices. Concrete integers wrap.
func (e *Evaluator) OpPlus(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("+", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		return e.arithmetic(ty, e.add, args[0], args[1], sp)
	})
}

// OpMinus subtracts scalars, vectors and matrices.
func (e *Evaluator) OpMinus(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("-", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		return e.arithmetic(ty, e.sub, args[0], args[1], sp)
	})
}

// OpMultiply is the componentwise product, including scalar*matrix.
func (e *Evaluator) OpMultiply(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("*", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		return e.arithmetic(ty, e.mul, args[0], args[1], sp)
	})
}

// OpDivide divides leafwise. Division by zero fails for every kind.
func (e *Evaluator) OpDivide(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("/", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		return e.arithmetic(ty, e.div, args[0], args[1], sp)
	})
}

// OpModulo is the truncated remainder.
func (e *Evaluator) OpModulo(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("%", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		return e.arithmetic(ty, e.mod, args[0], args[1], sp)
	})
}

// compare orders two scalars of one kind. Floats compare numerically, so
// -0 and 0 are equal.
func compare(a, b number.Value) int {
	if a.Kind().IsFloat() {
		x, y := a.Float(), b.Float()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	x, y := a.Int(), b.Int()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (e *Evaluator) comparison(name string, fam types.FamilyMask, pred func(int) bool, ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard(name, args, 2, fam, sp, func() (constant.ID, bool) {
		return e.transformBinary(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
			return e.element(sp, lt, number.Bool(pred(compare(vs[0], vs[1]))))
		}, args[0], args[1])
	})
}

// OpEqual compares leafwise; the result has bool leaves.
func (e *Evaluator) OpEqual(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.comparison("==", types.FamilyScalar, func(c int) bool { return c == 0 }, ty, args, sp)
}

// OpNotEqual compares leafwise.
func (e *Evaluator) OpNotEqual(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.comparison("!=", types.FamilyScalar, func(c int) bool { return c != 0 }, ty, args, sp)
}

// OpLessThan compares leafwise.
func (e *Evaluator) OpLessThan(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.comparison("<", types.FamilyNumeric, func(c int) bool { return c < 0 }, ty, args, sp)
}

// OpLessThanEqual compares leafwise.
func (e *Evaluator) OpLessThanEqual(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.comparison("<=", types.FamilyNumeric, func(c int) bool { return c <= 0 }, ty, args, sp)
}

// OpGreaterThan compares leafwise.
func (e *Evaluator) OpGreaterThan(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.comparison(">", types.FamilyNumeric, func(c int) bool { return c > 0 }, ty, args, sp)
}

// OpGreaterThanEqual compares leafwise.
func (e *Evaluator) OpGreaterThanEqual(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.comparison(">=", types.FamilyNumeric, func(c int) bool { return c >= 0 }, ty, args, sp)
}

// OpLogicalAnd is && over bool scalars.
func (e *Evaluator) OpLogicalAnd(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("&&", args, 2, types.FamilyBool, sp, func() (constant.ID, bool) {
		return e.element(sp, ty, number.Bool(e.value(args[0]).Bool() && e.value(args[1]).Bool()))
	})
}

// OpLogicalOr is || over bool scalars.
func (e *Evaluator) OpLogicalOr(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("||", args, 2, types.FamilyBool, sp, func() (constant.ID, bool) {
		return e.element(sp, ty, number.Bool(e.value(args[0]).Bool() || e.value(args[1]).Bool()))
	})
}

type bitwiseOp struct {
	name    string
	fam     types.FamilyMask
	logical func(a, b bool) bool
	bits    func(a, b int64) int64
}

func (e *Evaluator) bitwise(op bitwiseOp, ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard(op.name, args, 2, op.fam, sp, func() (constant.ID, bool) {
		return e.transformBinary(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
			a, b := vs[0], vs[1]
			if a.Kind() == number.KindBool {
				return e.element(sp, lt, number.Bool(op.logical(a.Bool(), b.Bool())))
			}
			return e.element(sp, lt, number.Int(a.Kind(), op.bits(a.Int(), b.Int())))
		}, args[0], args[1])
	})
}

var (
	opAnd = bitwiseOp{"&", types.FamilyIntegral | types.FamilyBool,
		func(a, b bool) bool { return a && b },
		func(a, b int64) int64 { return a & b }}
	opOr = bitwiseOp{"|", types.FamilyIntegral | types.FamilyBool,
		func(a, b bool) bool { return a || b },
		func(a, b int64) int64 { return a | b }}
	opXor = bitwiseOp{"^", types.FamilyIntegral,
		func(a, b bool) bool { return a != b },
		func(a, b int64) int64 { return a ^ b }}
)

// OpAnd is & over integers, or non-short-circuit logical and over bools.
func (e *Evaluator) OpAnd(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.bitwise(opAnd, ty, args, sp)
}

// OpOr is | over integers or bools.
func (e *Evaluator) OpOr(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.bitwise(opOr, ty, args, sp)
}

// OpXor is ^ over integers.
func (e *Evaluator) OpXor(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.bitwise(opXor, ty, args, sp)
}
