package number

import (
	"math"
	"strconv"
	"strings"
)

// Value is a single scalar of one Kind. Integer kinds (and bool) live in i,
// floating kinds live in f. U32 is stored zero-extended, I32 sign-extended.
type Value struct {
	kind Kind
	i    int64
	f    float64
}

// Bool constructs a bool value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// AInt constructs an abstract-int value.
func AInt(v int64) Value { return Value{kind: KindAbstractInt, i: v} }

// AFloat constructs an abstract-float value.
func AFloat(v float64) Value { return Value{kind: KindAbstractFloat, f: v} }

// I32 constructs an i32 value.
func I32(v int32) Value { return Value{kind: KindI32, i: int64(v)} }

// U32 constructs a u32 value.
func U32(v uint32) Value { return Value{kind: KindU32, i: int64(v)} }

// F32 constructs an f32 value.
func F32(v float32) Value { return Value{kind: KindF32, f: float64(v)} }

// F16 constructs an f16 value, quantizing v to the half-precision grid.
func F16(v float64) Value { return Value{kind: KindF16, f: QuantizeF16(v)} }

// Int builds an integer value of kind k from v, truncating to the kind's width.
func Int(k Kind, v int64) Value {
	switch k {
	case KindI32:
		return I32(int32(v)) //nolint:gosec // G115: truncation is the defined behaviour here.
	case KindU32:
		return U32(uint32(v)) //nolint:gosec // G115: truncation is the defined behaviour here.
	case KindBool:
		return Bool(v != 0)
	case KindAbstractInt:
		return AInt(v)
	}
	return Float(k, float64(v))
}

// Float builds a floating value of kind k from v, rounding to the kind's precision.
func Float(k Kind, v float64) Value {
	switch k {
	case KindF32:
		return F32(float32(v))
	case KindF16:
		return F16(v)
	case KindAbstractFloat:
		return AFloat(v)
	}
	return Int(k, int64(v))
}

// Zero returns the zero value of kind k.
func Zero(k Kind) Value {
	if k.IsFloat() {
		return Float(k, 0)
	}
	return Int(k, 0)
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload. Bool reports 0 or 1.
func (v Value) Int() int64 { return v.i }

// Float returns the floating payload.
func (v Value) Float() float64 { return v.f }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.i != 0 }

// Float64 returns the value widened to float64 regardless of kind.
func (v Value) Float64() float64 {
	if v.kind.IsFloat() {
		return v.f
	}
	return float64(v.i)
}

// Bits32 returns the 32-bit pattern of an i32, u32 or f32 value.
func (v Value) Bits32() uint32 {
	if v.kind == KindF32 {
		return math.Float32bits(float32(v.f))
	}
	return uint32(v.i) //nolint:gosec // G115: bit-pattern reinterpretation.
}

// Bits64 returns the raw 64-bit pattern of the payload.
func (v Value) Bits64() uint64 {
	if v.kind.IsFloat() {
		return math.Float64bits(v.f)
	}
	return uint64(v.i) //nolint:gosec // G115: bit-pattern reinterpretation.
}

// IsPositiveZero reports whether v is zero with a clear sign bit. For bool it
// reports whether v is false.
func (v Value) IsPositiveZero() bool {
	if v.kind.IsFloat() {
		return v.f == 0 && !math.Signbit(v.f)
	}
	return v.i == 0
}

// IsFinite reports whether a floating value is neither infinite nor NaN.
// Integer values are always finite.
func (v Value) IsFinite() bool {
	if !v.kind.IsFloat() {
		return true
	}
	return !math.IsInf(v.f, 0) && !math.IsNaN(v.f)
}

// Equal compares kind and numeric value: +0 and -0 are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind.IsFloat() {
		return v.f == other.f
	}
	return v.i == other.i
}

// Identical compares kind and payload bits, so +0 and -0 are distinct.
func (v Value) Identical(other Value) bool {
	return v.kind == other.kind && v.Bits64() == other.Bits64()
}

// Hash returns a hash of the kind and payload. Both zeroes hash as +0 to
// stay consistent with Equal.
func (v Value) Hash() uint64 {
	if v.kind.IsFloat() && v.f == 0 {
		return Mix(uint64(v.kind), 0)
	}
	return Mix(uint64(v.kind), v.Bits64())
}

// Mix folds b into the running hash a.
func Mix(a, b uint64) uint64 {
	a ^= b + 0x9e3779b97f4a7c15 + (a << 6) + (a >> 2)
	return a
}

// String renders the bare number, as used inside diagnostic messages.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindAbstractInt, KindI32:
		return strconv.FormatInt(v.i, 10)
	case KindU32:
		return strconv.FormatUint(uint64(v.i), 10) //nolint:gosec // G115: u32 payload is non-negative.
	case KindF32, KindF16:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindAbstractFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return "<invalid>"
}

// Literal renders v as a suffixed shader literal (1i, 2u, 0.5f, 1h, 3, 1.5).
func (v Value) Literal() string {
	s := v.String()
	switch v.kind {
	case KindI32:
		return s + "i"
	case KindU32:
		return s + "u"
	case KindF32:
		return s + "f"
	case KindF16:
		return s + "h"
	case KindAbstractFloat:
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	}
	return s
}
