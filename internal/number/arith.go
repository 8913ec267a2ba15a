package number

import "math"

// Add returns a+b in a's kind. Concrete integers wrap; abstract and floating
// kinds report ok=false when the result is not representable.
func Add(a, b Value) (Value, bool) {
	switch a.kind {
	case KindAbstractInt:
		r, ok := addInt64Checked(a.i, b.i)
		return AInt(r), ok
	case KindI32, KindU32:
		return Int(a.kind, a.i+b.i), true
	}
	return floatResult(a.kind, a.f+b.f)
}

// Sub returns a-b in a's kind.
func Sub(a, b Value) (Value, bool) {
	switch a.kind {
	case KindAbstractInt:
		r, ok := subInt64Checked(a.i, b.i)
		return AInt(r), ok
	case KindI32, KindU32:
		return Int(a.kind, a.i-b.i), true
	}
	return floatResult(a.kind, a.f-b.f)
}

// Mul returns a*b in a's kind.
func Mul(a, b Value) (Value, bool) {
	switch a.kind {
	case KindAbstractInt:
		r, ok := mulInt64Checked(a.i, b.i)
		return AInt(r), ok
	case KindI32, KindU32:
		return Int(a.kind, a.i*b.i), true
	}
	return floatResult(a.kind, a.f*b.f)
}

// Div returns a/b, truncating toward zero for integers. A zero divisor fails
// for every kind, as does the most negative signed value divided by -1.
func Div(a, b Value) (Value, bool) {
	if a.kind.IsFloat() {
		if b.f == 0 {
			return a, false
		}
		return floatResult(a.kind, a.f/b.f)
	}
	if b.i == 0 || isSignedMinByMinusOne(a, b) {
		return a, false
	}
	return Int(a.kind, a.i/b.i), true
}

// Mod returns the truncated remainder of a/b under the same rules as Div.
func Mod(a, b Value) (Value, bool) {
	if a.kind.IsFloat() {
		if b.f == 0 {
			return a, false
		}
		return floatResult(a.kind, math.Mod(a.f, b.f))
	}
	if b.i == 0 || isSignedMinByMinusOne(a, b) {
		return a, false
	}
	return Int(a.kind, a.i%b.i), true
}

// Neg negates v. The most negative signed integer negates to itself.
func Neg(v Value) Value {
	switch v.kind {
	case KindAbstractInt:
		if v.i == math.MinInt64 {
			return v
		}
		return AInt(-v.i)
	case KindI32:
		if v.i == math.MinInt32 {
			return v
		}
		return I32(int32(-v.i)) //nolint:gosec // G115: -v.i fits i32 after the MIN check.
	case KindU32:
		return Int(KindU32, -v.i)
	}
	return Float(v.kind, -v.f)
}

func isSignedMinByMinusOne(a, b Value) bool {
	if b.i != -1 {
		return false
	}
	switch a.kind {
	case KindAbstractInt:
		return a.i == math.MinInt64
	case KindI32:
		return a.i == math.MinInt32
	}
	return false
}

func floatResult(k Kind, f float64) (Value, bool) {
	v := Float(k, f)
	return v, v.IsFinite()
}

func addInt64Checked(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func subInt64Checked(a, b int64) (int64, bool) {
	if (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b) {
		return 0, false
	}
	return a - b, true
}

func mulInt64Checked(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	res := a * b
	if res/b != a {
		return 0, false
	}
	return res, true
}
