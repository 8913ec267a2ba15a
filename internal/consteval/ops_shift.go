package consteval

import (
	"math"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// shiftAmount reads the right operand of a shift as u32. An abstract-int
// operand must fit u32.
func (e *Evaluator) shiftAmount(sp source.Span, v number.Value) (uint64, bool) {
	if v.Kind() == number.KindAbstractInt && (v.Int() < 0 || v.Int() > math.MaxUint32) {
		e.report(diag.ConstOverflow, sp, "'%s' cannot be represented as 'u32'", v)
		return 0, false
	}
	return uint64(uint32(v.Int())), true //nolint:gosec // G115: range checked above for abstract operands, u32 payload otherwise.
}

// shiftRHSValid reports a right operand whose leaves are not u32.
func (e *Evaluator) shiftRHSValid(name string, rhs constant.ID, sp source.Span) bool {
	ty := e.arena.Type(rhs)
	if k := e.leafKind(ty); k != number.KindU32 && k != number.KindAbstractInt {
		e.report(diag.ConstInvalidOperand, sp, "the right operand of %s must be 'u32', got '%s'", name, e.name(ty))
		return false
	}
	return true
}

// OpShiftLeft shifts integer leaves left. Concrete shifts must stay within
// the bit width and may not change the sign (signed) or drop set bits
// (unsigned); abstract shifts must stay representable.
func (e *Evaluator) OpShiftLeft(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("<<", args, 2, types.FamilyIntegral, sp, func() (constant.ID, bool) {
		if !e.shiftRHSValid("<<", args[1], sp) {
			return constant.NoID, false
		}
		return e.transformBinary(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
			return e.shiftLeft(sp, lt, vs[0], vs[1])
		}, args[0], args[1])
	})
}

func (e *Evaluator) shiftLeft(sp source.Span, lt types.TypeID, e1, e2 number.Value) (constant.ID, bool) {
	k := e1.Kind()
	width := uint64(k.BitWidth())
	bits := e1.Bits64() & widthMask(width)
	n, ok := e.shiftAmount(sp, e2)
	if !ok {
		return constant.NoID, false
	}

	switch {
	case k.IsAbstract():
		if n >= width {
			if e1.Int() != 0 {
				return e.fail(diag.ConstOverflow, sp, "'%s << %s' cannot be represented as '%s'", e1, e2, k)
			}
			n = 0
		} else if !topBitsUniform(bits, width, n+1) {
			return e.fail(diag.ConstShiftSignChange, sp, "shift left operation results in sign change")
		}
	case n >= width:
		return e.fail(diag.ConstShiftOutOfRange, sp, "shift left value must be less than the bit width of the lhs, which is %d", width)
	case k.IsSigned():
		if !topBitsUniform(bits, width, n+1) {
			return e.fail(diag.ConstShiftSignChange, sp, "shift left operation results in sign change")
		}
	default:
		if n > 0 && bits&(widthMask(width)<<(width-n))&widthMask(width) != 0 {
			return e.fail(diag.ConstOverflow, sp, "'%s << %s' cannot be represented as '%s'", e1, e2, k)
		}
	}
	return e.element(sp, lt, number.Int(k, int64(bits<<n))) //nolint:gosec // G115: bit-pattern reinterpretation.
}

// OpShiftRight shifts integer leaves right: arithmetic for signed kinds,
// logical for unsigned ones.
func (e *Evaluator) OpShiftRight(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard(">>", args, 2, types.FamilyIntegral, sp, func() (constant.ID, bool) {
		if !e.shiftRHSValid(">>", args[1], sp) {
			return constant.NoID, false
		}
		return e.transformBinary(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
			return e.shiftRight(sp, lt, vs[0], vs[1])
		}, args[0], args[1])
	})
}

func (e *Evaluator) shiftRight(sp source.Span, lt types.TypeID, e1, e2 number.Value) (constant.ID, bool) {
	k := e1.Kind()
	width := uint64(k.BitWidth())
	n, ok := e.shiftAmount(sp, e2)
	if !ok {
		return constant.NoID, false
	}
	if n >= width {
		if k.IsAbstract() {
			return e.element(sp, lt, number.Zero(k))
		}
		return e.fail(diag.ConstShiftOutOfRange, sp, "shift right value must be less than the bit width of the lhs, which is %d", width)
	}
	if k.IsSigned() {
		// payload is sign-extended, so >> on int64 is arithmetic for i32 too
		return e.element(sp, lt, number.Int(k, e1.Int()>>n))
	}
	return e.element(sp, lt, number.Int(k, int64(e1.Bits64()>>n))) //nolint:gosec // G115: u32 payload.
}

func widthMask(width uint64) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (1 << width) - 1
}

// topBitsUniform reports whether the count most significant bits of a
// width-bit pattern are all zeros or all ones.
func topBitsUniform(bits, width, count uint64) bool {
	mask := (widthMask(width) << (width - count)) & widthMask(width)
	top := bits & mask
	return top == 0 || top == mask
}
