package consteval

import (
	"math"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// Packing works in single precision on f32 vectors and produces one u32.

func clamp32(x, lo, hi float32) float32 {
	return min(max(x, lo), hi)
}

// norm rounds scale*x to the nearest integer, halves away from zero
// towards +inf.
func norm(x, scale float32) float64 {
	return math.Floor(float64(0.5 + scale*x))
}

func (e *Evaluator) packed(ty types.TypeID, sp source.Span, bits uint32) (constant.ID, bool) {
	return e.element(sp, ty, number.U32(bits))
}

func (e *Evaluator) pack2x16float(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	var out uint32
	for i, v := range e.values(args[0]) {
		h, status := number.CheckedConvert(v, number.KindF16)
		if status != number.ConvOK {
			return e.fail(diag.ConstPackRange, sp, "value %s cannot be represented as 'f16'", v)
		}
		out |= uint32(number.F16Bits(h)) << (16 * i)
	}
	return e.packed(ty, sp, out)
}

func (e *Evaluator) pack2x16snorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	var out uint32
	for i, v := range e.values(args[0]) {
		c := clamp32(float32(v.Float()), -1, 1)
		out |= uint32(uint16(int16(norm(c, 32767)))) << (16 * i)
	}
	return e.packed(ty, sp, out)
}

func (e *Evaluator) pack2x16unorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	var out uint32
	for i, v := range e.values(args[0]) {
		c := clamp32(float32(v.Float()), 0, 1)
		out |= uint32(uint16(norm(c, 65535))) << (16 * i)
	}
	return e.packed(ty, sp, out)
}

func (e *Evaluator) pack4x8snorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	var out uint32
	for i, v := range e.values(args[0]) {
		c := clamp32(float32(v.Float()), -1, 1)
		out |= uint32(uint8(int8(norm(c, 127)))) << (8 * i)
	}
	return e.packed(ty, sp, out)
}

func (e *Evaluator) pack4x8unorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	var out uint32
	for i, v := range e.values(args[0]) {
		c := clamp32(float32(v.Float()), 0, 1)
		out |= uint32(uint8(norm(c, 255))) << (8 * i)
	}
	return e.packed(ty, sp, out)
}

// unpack splits a u32 into n lanes of width bits and maps each lane to f32.
func (e *Evaluator) unpack(ty types.TypeID, arg constant.ID, sp source.Span, n, width int, lane func(b uint32) (number.Value, bool)) (constant.ID, bool) {
	x := e.value(arg).Bits32()
	mask := uint32(1)<<width - 1
	vs := make([]number.Value, n)
	for i := range n {
		v, ok := lane((x >> (width * i)) & mask)
		if !ok {
			return constant.NoID, false
		}
		vs[i] = v
	}
	return e.vectorOf(ty, sp, vs)
}

func f32Lane(f float32) (number.Value, bool) { return number.F32(f), true }

func (e *Evaluator) unpack2x16float(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.unpack(ty, args[0], sp, 2, 16, func(b uint32) (number.Value, bool) {
		h := number.F16FromBits(uint16(b))
		f, status := number.CheckedConvert(h, number.KindF32)
		if status != number.ConvOK || !f.IsFinite() {
			e.report(diag.ConstPackRange, sp, "value %s cannot be represented as 'f32'", h)
			return h, false
		}
		return f, true
	})
}

func (e *Evaluator) unpack2x16snorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.unpack(ty, args[0], sp, 2, 16, func(b uint32) (number.Value, bool) {
		return f32Lane(max(float32(int16(uint16(b)))/32767, -1))
	})
}

func (e *Evaluator) unpack2x16unorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.unpack(ty, args[0], sp, 2, 16, func(b uint32) (number.Value, bool) {
		return f32Lane(float32(uint16(b)) / 65535)
	})
}

func (e *Evaluator) unpack4x8snorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.unpack(ty, args[0], sp, 4, 8, func(b uint32) (number.Value, bool) {
		return f32Lane(max(float32(int8(uint8(b)))/127, -1))
	})
}

func (e *Evaluator) unpack4x8unorm(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.unpack(ty, args[0], sp, 4, 8, func(b uint32) (number.Value, bool) {
		return f32Lane(float32(uint8(b)) / 255)
	})
}
