package consteval

import (
	"math/bits"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Bit builtins work on the 32-bit pattern of i32 and u32 leaves.

func bits1(f func(x uint32) uint32) leafMath {
	return func(k number.Kind, vs []number.Value) (number.Value, bool) {
		return fromBits(k, f(vs[0].Bits32())), true
	}
}

// fromBits reinterprets a 32-bit pattern as kind k.
func fromBits(k number.Kind, b uint32) number.Value {
	if k == number.KindI32 {
		return number.I32(int32(b)) //nolint:gosec // G115: bit-pattern reinterpretation.
	}
	return number.U32(b)
}

func (e *Evaluator) countLeadingZeros(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, bits1(func(x uint32) uint32 { return uint32(bits.LeadingZeros32(x)) }), args[0]) //nolint:gosec // G115: at most 32.
}

func (e *Evaluator) countTrailingZeros(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, bits1(func(x uint32) uint32 { return uint32(bits.TrailingZeros32(x)) }), args[0]) //nolint:gosec // G115: at most 32.
}

func (e *Evaluator) countOneBits(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, bits1(func(x uint32) uint32 { return uint32(bits.OnesCount32(x)) }), args[0]) //nolint:gosec // G115: at most 32.
}

func (e *Evaluator) reverseBits(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, bits1(bits.Reverse32), args[0])
}

// firstLeadingBit is the index of the most significant bit that differs
// from the sign bit for signed leaves, or the most significant set bit for
// unsigned ones. No such bit gives all ones.
func (e *Evaluator) firstLeadingBit(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		x := vs[0].Bits32()
		if k.IsSigned() && x&(1<<31) != 0 {
			x = ^x
		}
		if x == 0 {
			return fromBits(k, 0xFFFFFFFF), true
		}
		return fromBits(k, uint32(31-bits.LeadingZeros32(x))), true //nolint:gosec // G115: within [0, 31].
	}, args[0])
}

// firstTrailingBit is the index of the least significant set bit, all ones
// for zero.
func (e *Evaluator) firstTrailingBit(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		x := vs[0].Bits32()
		if x == 0 {
			return fromBits(k, 0xFFFFFFFF), true
		}
		return fromBits(k, uint32(bits.TrailingZeros32(x))), true //nolint:gosec // G115: within [0, 31].
	}, args[0])
}

// bitRange reads the u32 offset and count operands and checks that the
// range fits into 32 bits.
func (e *Evaluator) bitRange(offset, count constant.ID, sp source.Span) (o, c uint32, ok bool) {
	const w = 32
	o = e.value(offset).Bits32()
	c = e.value(count).Bits32()
	if o > w || c > w || o+c > w {
		e.report(diag.ConstBitRange, sp, "'offset + 'count' must be less than or equal to the bit width of 'e'")
		return 0, 0, false
	}
	return o, c, true
}

// extractBits reads count bits at offset. Signed leaves sign-extend the
// top extracted bit.
func (e *Evaluator) extractBits(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	o, c, ok := e.bitRange(args[1], args[2], sp)
	if !ok {
		return constant.NoID, false
	}
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		x := vs[0].Bits32()
		switch c {
		case 0:
			return fromBits(k, 0), true
		case 32:
			return vs[0], true
		}
		mask := uint32(1)<<c - 1
		r := (x >> o) & mask
		if k.IsSigned() && r&(1<<(c-1)) != 0 {
			r |= ^mask
		}
		return fromBits(k, r), true
	}, args[0])
}

// insertBits replaces count bits of e at offset with the low bits of
// newbits.
func (e *Evaluator) insertBits(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	o, c, ok := e.bitRange(args[2], args[3], sp)
	if !ok {
		return constant.NoID, false
	}
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		x, nb := vs[0].Bits32(), vs[1].Bits32()
		switch c {
		case 0:
			return vs[0], true
		case 32:
			return vs[1], true
		}
		mask := (uint32(1)<<c - 1) << o
		return fromBits(k, x&^mask|(nb<<o)&mask), true
	}, args[0], args[1])
}
