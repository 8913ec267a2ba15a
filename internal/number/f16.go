package number

import (
	"math"

	"github.com/x448/float16"
)

// QuantizeF16 rounds v to float32 and then drops every mantissa bit that an
// IEEE binary16 value cannot hold. Values beyond ±65504 become ±Inf; values
// below the smallest f16 subnormal become a signed zero.
func QuantizeF16(v float64) float64 {
	f := float32(v)
	switch {
	case f > f16Highest:
		return math.Inf(1)
	case f < -f16Highest:
		return math.Inf(-1)
	}
	u := math.Float32bits(f)
	if u&^f32SignMask == 0 {
		return float64(f)
	}
	if u&f32ExponentMask == f32ExponentMask {
		return float64(f)
	}
	exp := int((u&f32ExponentMask)>>f32MantissaBits) - f32ExponentBias
	switch {
	case exp >= f16MinNormalExp:
		u &^= (1 << (f32MantissaBits - f16MantissaBits)) - 1
	case exp < f16MinSubnormExp:
		u &= f32SignMask
	default:
		drop := uint32(-1 - exp) //nolint:gosec // G115: exp is in [-24, -15].
		u &^= (1 << drop) - 1
	}
	return float64(math.Float32frombits(u))
}

// F16Bits returns the binary16 encoding of an f16 value.
func F16Bits(v Value) uint16 {
	return float16.Fromfloat32(float32(v.f)).Bits()
}

// F16FromBits decodes a binary16 pattern into an f16 value.
func F16FromBits(bits uint16) Value {
	return F16(float64(float16.Frombits(bits).Float32()))
}

// FitsF16 reports whether v converts to f16 without overflow.
func FitsF16(v float64) bool {
	return !math.IsInf(QuantizeF16(v), 0) && !math.IsNaN(v)
}
