package consteval

import (
	"math"
	"slices"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// leafMath computes one scalar result from the operand scalars of a leaf.
// A false ok means the failure was already reported.
type leafMath func(k number.Kind, vs []number.Value) (number.Value, bool)

// leafwise applies f to every leaf of args, which share one shape.
func (e *Evaluator) leafwise(ty types.TypeID, sp source.Span, f leafMath, args ...constant.ID) (constant.ID, bool) {
	return e.transform(ty, func(_ int, lt types.TypeID, vs []number.Value) (constant.ID, bool) {
		r, ok := f(vs[0].Kind(), vs)
		if !ok {
			return constant.NoID, false
		}
		return e.element(sp, lt, r)
	}, e.widen(args)...)
}

// widen splats scalar operands to the vector shape of the first operand.
func (e *Evaluator) widen(args []constant.ID) []constant.ID {
	shape := e.arena.Type(args[0])
	if e.types.IsScalar(shape) {
		return args
	}
	var out []constant.ID
	_, n := e.types.ElementOf(shape)
	for i, a := range args[1:] {
		if e.arena.Shape(a) != constant.ShapeElement {
			continue
		}
		if out == nil {
			out = slices.Clone(args)
		}
		out[i+1] = e.arena.Splat(e.types.WithScalar(shape, e.arena.Type(a)), a, n)
	}
	if out == nil {
		return args
	}
	return out
}

// float1 applies a plain float function to every leaf.
func float1(f func(float64) float64) leafMath {
	return func(k number.Kind, vs []number.Value) (number.Value, bool) {
		return number.Float(k, f(vs[0].Float())), true
	}
}

// domain1 is float1 guarded by a precondition on the argument.
func (e *Evaluator) domain1(sp source.Span, valid func(float64) bool, msg string, f func(float64) float64) leafMath {
	return func(k number.Kind, vs []number.Value) (number.Value, bool) {
		x := vs[0].Float()
		if !valid(x) {
			e.report(diag.ConstDomain, sp, "%s", msg)
			return vs[0], false
		}
		return number.Float(k, f(x)), true
	}
}

func (e *Evaluator) abs(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		v := vs[0]
		switch {
		case k == number.KindU32:
			return v, true
		case k.IsInteger():
			if v.Int() >= 0 || v.Equal(number.Lowest(k)) {
				return v, true
			}
			return number.Int(k, -v.Int()), true
		}
		return number.Float(k, math.Abs(v.Float())), true
	}, args[0])
}

func (e *Evaluator) acos(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.domain1(sp, func(x float64) bool { return x >= -1 && x <= 1 },
		"acos must be called with a value in the range [-1 .. 1] (inclusive)", math.Acos), args[0])
}

func (e *Evaluator) acosh(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.domain1(sp, func(x float64) bool { return x >= 1 },
		"acosh must be called with a value >= 1.0", math.Acosh), args[0])
}

func (e *Evaluator) asin(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.domain1(sp, func(x float64) bool { return x >= -1 && x <= 1 },
		"asin must be called with a value in the range [-1 .. 1] (inclusive)", math.Asin), args[0])
}

func (e *Evaluator) asinh(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Asinh), args[0])
}

func (e *Evaluator) atan(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Atan), args[0])
}

func (e *Evaluator) atanh(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.domain1(sp, func(x float64) bool { return x > -1 && x < 1 },
		"atanh must be called with a value in the range (-1 .. 1) (exclusive)", math.Atanh), args[0])
}

func (e *Evaluator) atan2(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		return number.Float(k, math.Atan2(vs[0].Float(), vs[1].Float())), true
	}, args[0], args[1])
}

func (e *Evaluator) ceil(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Ceil), args[0])
}

func (e *Evaluator) cos(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Cos), args[0])
}

func (e *Evaluator) cosh(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Cosh), args[0])
}

func (e *Evaluator) floor(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Floor), args[0])
}

func (e *Evaluator) fract(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(func(x float64) float64 { return x - math.Floor(x) }), args[0])
}

// round rounds half to even.
func (e *Evaluator) round(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.RoundToEven), args[0])
}

func (e *Evaluator) sin(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Sin), args[0])
}

func (e *Evaluator) sinh(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Sinh), args[0])
}

func (e *Evaluator) tan(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Tan), args[0])
}

func (e *Evaluator) tanh(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Tanh), args[0])
}

func (e *Evaluator) trunc(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(math.Trunc), args[0])
}

func (e *Evaluator) saturate(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, float1(func(x float64) float64 { return math.Min(math.Max(x, 0), 1) }), args[0])
}

func (e *Evaluator) sqrt(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.domain1(sp, func(x float64) bool { return x >= 0 },
		"sqrt must be called with a value >= 0", math.Sqrt), args[0])
}

func (e *Evaluator) log(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.domain1(sp, func(x float64) bool { return x > 0 },
		"log must be called with a value > 0", math.Log), args[0])
}

func (e *Evaluator) log2(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.domain1(sp, func(x float64) bool { return x > 0 },
		"log2 must be called with a value > 0", math.Log2), args[0])
}

func (e *Evaluator) inverseSqrt(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		x := vs[0].Float()
		if x <= 0 {
			e.report(diag.ConstDomain, sp, "inverseSqrt must be called with a value > 0")
			return vs[0], false
		}
		r, ok := e.div(sp, number.Float(k, 1), number.Float(k, math.Sqrt(x)))
		if !ok {
			e.note(sp, "when calculating inverseSqrt")
		}
		return r, ok
	}, args[0])
}

// expWith reports a non-finite power as "base^x cannot be represented".
func (e *Evaluator) expWith(base string, sp source.Span, f func(float64) float64) leafMath {
	return func(k number.Kind, vs []number.Value) (number.Value, bool) {
		r := number.Float(k, f(vs[0].Float()))
		if !r.IsFinite() {
			e.report(diag.ConstOverflow, sp, "%s^%s cannot be represented as '%s'", base, vs[0], k)
			return r, false
		}
		return r, true
	}
}

func (e *Evaluator) exp(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.expWith("e", sp, math.Exp), args[0])
}

func (e *Evaluator) exp2(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, e.expWith("2", sp, math.Exp2), args[0])
}

func (e *Evaluator) pow(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		return number.Float(k, math.Pow(vs[0].Float(), vs[1].Float())), true
	}, args[0], args[1])
}

// ldexp is e1 * 2^e2 with an integer exponent.
func (e *Evaluator) ldexp(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		exp := vs[1].Int()
		exp = max(min(exp, 4096), -4096)
		return number.Float(k, math.Ldexp(vs[0].Float(), int(exp))), true
	}, args[0], args[1])
}

// scaled multiplies every leaf by num/den, computed in the leaf's kind.
func (e *Evaluator) scaled(ty types.TypeID, arg constant.ID, sp source.Span, num, den float64, name string) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		scale, ok := e.div(sp, number.Float(k, num), number.Float(k, den))
		if !ok {
			e.note(sp, "when calculating "+name)
			return scale, false
		}
		r, ok := e.mul(sp, vs[0], scale)
		if !ok {
			e.note(sp, "when calculating "+name)
		}
		return r, ok
	}, arg)
}

func (e *Evaluator) degrees(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.scaled(ty, args[0], sp, 180, math.Pi, "degrees")
}

func (e *Evaluator) radians(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.scaled(ty, args[0], sp, math.Pi, 180, "radians")
}

func (e *Evaluator) sign(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		switch c := compare(vs[0], number.Zero(k)); {
		case c < 0:
			return number.Int(k, -1), true
		case c > 0:
			return number.Int(k, 1), true
		}
		return number.Zero(k), true
	}, args[0])
}

func (e *Evaluator) step(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		edge, x := vs[0], vs[1]
		if x.Float() < edge.Float() {
			return number.Float(k, 0), true
		}
		return number.Float(k, 1), true
	}, args[0], args[1])
}

func maxValue(a, b number.Value) number.Value {
	if compare(a, b) < 0 {
		return b
	}
	return a
}

func minValue(a, b number.Value) number.Value {
	if compare(b, a) < 0 {
		return b
	}
	return a
}

func (e *Evaluator) max(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(_ number.Kind, vs []number.Value) (number.Value, bool) {
		return maxValue(vs[0], vs[1]), true
	}, args[0], args[1])
}

func (e *Evaluator) min(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(_ number.Kind, vs []number.Value) (number.Value, bool) {
		return minValue(vs[0], vs[1]), true
	}, args[0], args[1])
}

// clamp is min(max(e, low), high).
func (e *Evaluator) clamp(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(_ number.Kind, vs []number.Value) (number.Value, bool) {
		return minValue(maxValue(vs[0], vs[1]), vs[2]), true
	}, args[0], args[1], args[2])
}

func (e *Evaluator) fma(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(_ number.Kind, vs []number.Value) (number.Value, bool) {
		r, ok := e.mul(sp, vs[0], vs[1])
		if ok {
			r, ok = e.add(sp, r, vs[2])
		}
		if !ok {
			e.note(sp, "when calculating fma")
		}
		return r, ok
	}, args[0], args[1], args[2])
}

// mix is e1 * (1 - e3) + e2 * e3.
func (e *Evaluator) mix(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		a, b, t := vs[0], vs[1], vs[2]
		oneMinusT, ok := e.sub(sp, number.Float(k, 1), t)
		var l, r, out number.Value
		if ok {
			l, ok = e.mul(sp, a, oneMinusT)
		}
		if ok {
			r, ok = e.mul(sp, b, t)
		}
		if ok {
			out, ok = e.add(sp, l, r)
		}
		if !ok {
			e.note(sp, "when calculating mix")
		}
		return out, ok
	}, args[0], args[1], args[2])
}

// smoothstep is t * t * (3 - 2 * t) with t = clamp((x - low) / (high - low), 0, 1).
func (e *Evaluator) smoothstep(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		low, high, x := vs[0], vs[1], vs[2]
		fail := func() (number.Value, bool) {
			e.note(sp, "when calculating smoothstep")
			return x, false
		}
		xMinusLow, ok := e.sub(sp, x, low)
		if !ok {
			return fail()
		}
		highMinusLow, ok := e.sub(sp, high, low)
		if !ok {
			return fail()
		}
		d, ok := e.div(sp, xMinusLow, highMinusLow)
		if !ok {
			return fail()
		}
		t := minValue(maxValue(d, number.Float(k, 0)), number.Float(k, 1))
		tt, ok := e.mul(sp, t, t)
		if !ok {
			return fail()
		}
		t2, ok := e.mul(sp, number.Float(k, 2), t)
		if !ok {
			return fail()
		}
		threeMinus, ok := e.sub(sp, number.Float(k, 3), t2)
		if !ok {
			return fail()
		}
		r, ok := e.mul(sp, tt, threeMinus)
		if !ok {
			return fail()
		}
		return r, true
	}, args[0], args[1], args[2])
}

// quantizeToF16 rounds f32 leaves through half precision.
func (e *Evaluator) quantizeToF16(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.leafwise(ty, sp, func(k number.Kind, vs []number.Value) (number.Value, bool) {
		h, status := number.CheckedConvert(vs[0], number.KindF16)
		if status != number.ConvOK {
			e.report(diag.ConstOverflow, sp, "value %s cannot be represented as 'f16'", vs[0])
			return vs[0], false
		}
		return number.Float(k, h.Float()), true
	}, args[0])
}
