package number

import "math"

const (
	f16Highest       = 65504.0
	f16SmallestNorm  = 6.103515625e-05 // 0x1p-14
	f32MantissaBits  = 23
	f16MantissaBits  = 10
	f32ExponentBias  = 127
	f32SignMask      = 0x80000000
	f32ExponentMask  = 0x7f800000
	f16MinNormalExp  = -14
	f16MinSubnormExp = -24
)

// Highest returns the largest finite value of kind k.
func Highest(k Kind) Value {
	switch k {
	case KindAbstractInt:
		return AInt(math.MaxInt64)
	case KindAbstractFloat:
		return AFloat(math.MaxFloat64)
	case KindI32:
		return I32(math.MaxInt32)
	case KindU32:
		return U32(math.MaxUint32)
	case KindF32:
		return F32(math.MaxFloat32)
	case KindF16:
		return F16(f16Highest)
	case KindBool:
		return Bool(true)
	}
	return Value{}
}

// Lowest returns the most negative finite value of kind k.
func Lowest(k Kind) Value {
	switch k {
	case KindAbstractInt:
		return AInt(math.MinInt64)
	case KindAbstractFloat:
		return AFloat(-math.MaxFloat64)
	case KindI32:
		return I32(math.MinInt32)
	case KindU32:
		return U32(0)
	case KindF32:
		return F32(-math.MaxFloat32)
	case KindF16:
		return F16(-f16Highest)
	case KindBool:
		return Bool(false)
	}
	return Value{}
}

// Smallest returns the smallest positive normal value of a floating kind.
func Smallest(k Kind) Value {
	switch k {
	case KindAbstractFloat:
		return AFloat(0x1p-1022)
	case KindF32:
		return F32(0x1p-126)
	case KindF16:
		return F16(f16SmallestNorm)
	}
	return Zero(k)
}

// Inf returns positive infinity of a floating kind. The result is not a
// storable constant; it is used as a builtin's defined overflow result.
func Inf(k Kind) Value {
	return Value{kind: k, f: math.Inf(1)}
}

// NaN returns a quiet NaN of a floating kind.
func NaN(k Kind) Value {
	return Value{kind: k, f: math.NaN()}
}
