package number

import (
	"math"
	"testing"
)

func TestConcreteIntegersWrap(t *testing.T) {
	got, ok := Add(Highest(KindI32), I32(1))
	if !ok {
		t.Fatalf("i32 add must never fail")
	}
	if !got.Equal(Lowest(KindI32)) {
		t.Fatalf("expected %v, got %v", Lowest(KindI32), got)
	}

	got, ok = Sub(U32(0), U32(1))
	if !ok || !got.Equal(Highest(KindU32)) {
		t.Fatalf("expected u32 wrap to %v, got %v (ok=%v)", Highest(KindU32), got, ok)
	}

	got, ok = Mul(U32(math.MaxUint32), U32(math.MaxUint32))
	if !ok || got.Int() != 1 {
		t.Fatalf("expected u32 mul wrap to 1, got %v", got)
	}
}

func TestAbstractAndFloatOverflowFails(t *testing.T) {
	if _, ok := Add(Highest(KindAbstractInt), AInt(1)); ok {
		t.Fatalf("abstract-int overflow must fail")
	}
	if _, ok := Mul(AInt(math.MinInt64), AInt(-1)); ok {
		t.Fatalf("abstract-int MIN * -1 must fail")
	}
	if _, ok := Add(Highest(KindF32), Highest(KindF32)); ok {
		t.Fatalf("f32 overflow must fail")
	}
	if _, ok := Mul(F16(300), F16(300)); ok {
		t.Fatalf("f16 overflow must fail")
	}
	if got, ok := Add(AFloat(1.5), AFloat(2)); !ok || got.Float() != 3.5 {
		t.Fatalf("expected 3.5, got %v (ok=%v)", got, ok)
	}
}

func TestDivModByZeroFailsForEveryKind(t *testing.T) {
	kinds := []Kind{KindAbstractInt, KindAbstractFloat, KindI32, KindU32, KindF32, KindF16}
	for _, k := range kinds {
		one, zero := Int(k, 1), Zero(k)
		if k.IsFloat() {
			one = Float(k, 1)
		}
		if _, ok := Div(one, zero); ok {
			t.Errorf("%v: division by zero must fail", k)
		}
		if _, ok := Mod(one, zero); ok {
			t.Errorf("%v: modulo by zero must fail", k)
		}
	}
}

func TestSignedMinByMinusOne(t *testing.T) {
	if _, ok := Div(Lowest(KindI32), I32(-1)); ok {
		t.Fatalf("i32 MIN / -1 must fail")
	}
	if _, ok := Mod(Lowest(KindAbstractInt), AInt(-1)); ok {
		t.Fatalf("abstract-int MIN %% -1 must fail")
	}
	got, ok := Div(I32(-7), I32(2))
	if !ok || got.Int() != -3 {
		t.Fatalf("expected truncating division -3, got %v", got)
	}
	got, ok = Mod(I32(-7), I32(2))
	if !ok || got.Int() != -1 {
		t.Fatalf("expected remainder -1, got %v", got)
	}
}

func TestNegMostNegative(t *testing.T) {
	if got := Neg(Lowest(KindI32)); !got.Equal(Lowest(KindI32)) {
		t.Fatalf("negating i32 MIN should return MIN, got %v", got)
	}
	if got := Neg(AInt(5)); got.Int() != -5 {
		t.Fatalf("expected -5, got %v", got)
	}
	if got := Neg(F32(0)); !math.Signbit(got.Float()) {
		t.Fatalf("expected negative zero")
	}
}

func TestCheckedConvert(t *testing.T) {
	tests := []struct {
		name   string
		in     Value
		to     Kind
		status ConvStatus
		want   Value
	}{
		{"identity", I32(7), KindI32, ConvOK, I32(7)},
		{"abstract int fits i32", AInt(-5), KindI32, ConvOK, I32(-5)},
		{"abstract int too large for i32", AInt(1 << 31), KindI32, ConvTooLarge, Value{}},
		{"negative to u32", AInt(-1), KindU32, ConvTooSmall, Value{}},
		{"float to int truncates", F32(-2.75), KindI32, ConvOK, I32(-2)},
		{"float too large for i32", AFloat(1e30), KindI32, ConvTooLarge, Value{}},
		{"float too small for i32", AFloat(-1e30), KindI32, ConvTooSmall, Value{}},
		{"f32 to f16 too large", F32(70000), KindF16, ConvTooLarge, Value{}},
		{"u32 to abstract int", U32(math.MaxUint32), KindAbstractInt, ConvOK, AInt(math.MaxUint32)},
		{"two pow 63 overflows abstract int", AFloat(9223372036854775808.0), KindAbstractInt, ConvTooLarge, Value{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := CheckedConvert(tt.in, tt.to)
			if status != tt.status {
				t.Fatalf("status: want %v, got %v", tt.status, status)
			}
			if status == ConvOK && !got.Equal(tt.want) {
				t.Fatalf("value: want %v (%v), got %v (%v)", tt.want, tt.want.Kind(), got, got.Kind())
			}
		})
	}
}

func TestQuantizeF16(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{1, 1},
		{-1, -1},
		{0.00006106496, 0.000061035156},
		{1.0004883, 1.0},
		{8196, 8192},
		{-8196, -8192},
		{0x0.034p-14, 0x0.034p-14},
		{0x0.06b7p-14, 0x0.068p-14},
		{-0x0.06b7p-14, -0x0.068p-14},
		{65504, 65504},
	}
	for _, tt := range tests {
		got := QuantizeF16(float64(tt.in))
		if got != float64(tt.want) {
			t.Errorf("QuantizeF16(%g): want %g, got %g", tt.in, tt.want, got)
		}
	}
	if !math.IsInf(QuantizeF16(65504.003), 1) {
		t.Fatalf("values above f16 highest must quantize to +Inf")
	}
	if !math.IsInf(QuantizeF16(-0x4.321p65), -1) {
		t.Fatalf("values below f16 lowest must quantize to -Inf")
	}
}

func TestF16Bits(t *testing.T) {
	if got := F16Bits(F16(1)); got != 0x3c00 {
		t.Fatalf("expected 0x3c00, got %#x", got)
	}
	if got := F16FromBits(0xc000); got.Float() != -2 {
		t.Fatalf("expected -2, got %v", got)
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{AInt(-3), "-3"},
		{AFloat(2), "2.0"},
		{AFloat(0.5), "0.5"},
		{I32(4), "4i"},
		{U32(4), "4u"},
		{F32(1.5), "1.5f"},
		{F16(0.25), "0.25h"},
		{Bool(true), "true"},
	}
	for _, tt := range tests {
		if got := tt.v.Literal(); got != tt.want {
			t.Errorf("Literal(%v): want %q, got %q", tt.v, tt.want, got)
		}
	}
}

func TestSignedZeroEquality(t *testing.T) {
	neg := Neg(F32(0))
	if !F32(0).Equal(neg) || F32(0).Hash() != neg.Hash() {
		t.Fatalf("+0 and -0 must be Equal and hash alike")
	}
	if F32(0).Identical(neg) {
		t.Fatalf("+0 and -0 must not be Identical")
	}
	if !F32(0).IsPositiveZero() || neg.IsPositiveZero() {
		t.Fatalf("IsPositiveZero must look at the sign bit")
	}
	if F32(0).Equal(F16(0)) {
		t.Fatalf("values of different kinds must not be Equal")
	}
}
