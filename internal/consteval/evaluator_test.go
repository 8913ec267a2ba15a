package consteval

import (
	"math"
	"strings"
	"testing"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/trace"
	"lumen/internal/types"
)

var testSpan = source.Span{Start: 3, End: 9}

type fixture struct {
	t     *testing.T
	in    *types.Interner
	arena *constant.Arena
	bag   *diag.Bag
	ev    *Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	in := types.NewInterner()
	arena := constant.NewArena(in)
	bag := diag.NewBag(32)
	return &fixture{
		t:     t,
		in:    in,
		arena: arena,
		bag:   bag,
		ev:    New(arena, diag.BagReporter{Bag: bag}, nil),
	}
}

func (f *fixture) scalar(v number.Value) constant.ID {
	return f.arena.Element(f.in.Scalar(v.Kind()), v)
}

func (f *fixture) vec(vs ...number.Value) constant.ID {
	ty := f.in.Vector(f.in.Scalar(vs[0].Kind()), uint32(len(vs)))
	els := make([]constant.ID, len(vs))
	for i, v := range vs {
		els[i] = f.scalar(v)
	}
	return f.arena.CreateComposite(ty, els)
}

// mat builds a matrix from column vectors.
func (f *fixture) mat(cols ...constant.ID) constant.ID {
	col := f.in.MustLookup(f.arena.Type(cols[0]))
	ty := f.in.Matrix(col.Elem, uint32(len(cols)), col.Count)
	return f.arena.CreateComposite(ty, cols)
}

func f32s(xs ...float32) []number.Value {
	out := make([]number.Value, len(xs))
	for i, x := range xs {
		out[i] = number.F32(x)
	}
	return out
}

func (f *fixture) typeOf(id constant.ID) types.TypeID { return f.arena.Type(id) }

// ok asserts a computed constant and returns its rendering.
func (f *fixture) ok(id constant.ID, ok bool) string {
	f.t.Helper()
	if !ok {
		f.t.Fatalf("evaluation failed: %v", f.bag.Items())
	}
	if id == constant.NoID {
		f.t.Fatalf("got a runtime value, want a constant")
	}
	if f.bag.Len() != 0 {
		f.t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
	}
	return f.arena.Format(id)
}

// failed asserts a failure with exactly one diagnostic and returns it.
func (f *fixture) failed(id constant.ID, ok bool) diag.Diagnostic {
	f.t.Helper()
	if ok {
		f.t.Fatalf("evaluation succeeded with %s, want failure", f.arena.Format(id))
	}
	if id != constant.NoID {
		f.t.Fatalf("failed evaluation returned id %d", id)
	}
	if f.bag.Len() != 1 {
		f.t.Fatalf("got %d diagnostics, want 1: %v", f.bag.Len(), f.bag.Items())
	}
	d, _ := f.bag.Last()
	return d
}

func TestConcreteIntegerArithmeticWraps(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	got := f.ok(f.ev.OpPlus(b.I32, []constant.ID{f.scalar(number.I32(math.MaxInt32)), f.scalar(number.I32(1))}, testSpan))
	if got != "-2147483648i" {
		t.Fatalf("i32 max + 1 = %s", got)
	}
	got = f.ok(f.ev.OpMinus(b.U32, []constant.ID{f.scalar(number.U32(0)), f.scalar(number.U32(1))}, testSpan))
	if got != "4294967295u" {
		t.Fatalf("0u - 1u = %s", got)
	}
}

func TestAbstractOverflowNamesAbstractType(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	d := f.failed(f.ev.OpPlus(b.AbstractInt, []constant.ID{f.scalar(number.AInt(math.MaxInt64)), f.scalar(number.AInt(1))}, testSpan))
	want := "'9223372036854775807 + 1' cannot be represented as 'abstract-int'"
	if d.Message != want {
		t.Fatalf("message = %q, want %q", d.Message, want)
	}
	if d.Code != diag.ConstOverflow || d.Primary != testSpan {
		t.Fatalf("code = %v span = %v", d.Code, d.Primary)
	}
}

func TestDivisionByZeroFailsForEveryKind(t *testing.T) {
	cases := []struct {
		name string
		a, b number.Value
	}{
		{"abstract-int", number.AInt(1), number.AInt(0)},
		{"abstract-float", number.AFloat(1), number.AFloat(0)},
		{"i32", number.I32(1), number.I32(0)},
		{"u32", number.U32(1), number.U32(0)},
		{"f32", number.F32(1), number.F32(0)},
		{"f16", number.F16(1), number.F16(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ty := f.in.Scalar(tc.a.Kind())
			d := f.failed(f.ev.OpDivide(ty, []constant.ID{f.scalar(tc.a), f.scalar(tc.b)}, testSpan))
			if d.Code != diag.ConstDivideByZero {
				t.Fatalf("code = %v, want ConstDivideByZero", d.Code)
			}
			f.bag = diag.NewBag(32)
			f.ev = New(f.arena, diag.BagReporter{Bag: f.bag}, nil)
			f.failed(f.ev.OpModulo(ty, []constant.ID{f.scalar(tc.a), f.scalar(tc.b)}, testSpan))
		})
	}
}

func TestSignedMinDividedByMinusOne(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	d := f.failed(f.ev.OpDivide(b.I32, []constant.ID{f.scalar(number.I32(math.MinInt32)), f.scalar(number.I32(-1))}, testSpan))
	if d.Code != diag.ConstSignedOverflowDivision {
		t.Fatalf("code = %v", d.Code)
	}
}

func TestNonConstantOperandDefersToRuntime(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	id, ok := f.ev.OpPlus(b.I32, []constant.ID{constant.NoID, f.scalar(number.I32(1))}, testSpan)
	if !ok || id != constant.NoID {
		t.Fatalf("got (%d, %v), want (NoID, true)", id, ok)
	}
	id, ok = f.ev.CallBuiltin("sqrt", b.F32, []constant.ID{constant.NoID}, testSpan)
	if !ok || id != constant.NoID {
		t.Fatalf("builtin got (%d, %v), want (NoID, true)", id, ok)
	}
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
	}
}

func TestVectorArithmeticBroadcastsScalars(t *testing.T) {
	f := newFixture(t)
	v := f.vec(f32s(1, 2, 3)...)
	got := f.ok(f.ev.OpMultiply(f.typeOf(v), []constant.ID{f.scalar(number.F32(2)), v}, testSpan))
	if got != "vec3<f32>(2f, 4f, 6f)" {
		t.Fatalf("2 * v = %s", got)
	}
}

func TestComparisonYieldsBoolVector(t *testing.T) {
	f := newFixture(t)
	a := f.vec(f32s(1, 5)...)
	c := f.vec(f32s(2, 5)...)
	ty := f.in.Vector(f.in.Builtins().Bool, 2)
	got := f.ok(f.ev.OpLessThanEqual(ty, []constant.ID{a, c}, testSpan))
	if got != "vec2<bool>(true, true)" {
		t.Fatalf("a <= c = %s", got)
	}
	got = f.ok(f.ev.OpEqual(ty, []constant.ID{a, c}, testSpan))
	if got != "vec2<bool>(false, true)" {
		t.Fatalf("a == c = %s", got)
	}
}

func TestUnaryOperators(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	if got := f.ok(f.ev.OpUnaryMinus(b.I32, []constant.ID{f.scalar(number.I32(math.MinInt32))}, testSpan)); got != "-2147483648i" {
		t.Fatalf("-i32 min = %s", got)
	}
	if got := f.ok(f.ev.OpComplement(b.U32, []constant.ID{f.scalar(number.U32(0))}, testSpan)); got != "4294967295u" {
		t.Fatalf("~0u = %s", got)
	}
	if got := f.ok(f.ev.OpNot(b.Bool, []constant.ID{f.scalar(number.Bool(false))}, testSpan)); got != "true" {
		t.Fatalf("!false = %s", got)
	}
}

func TestShifts(t *testing.T) {
	cases := []struct {
		name string
		op   string
		a, n number.Value
		want string
		code diag.Code
	}{
		{"i32 left", "<<", number.I32(1), number.U32(4), "16i", 0},
		{"i32 sign change", "<<", number.I32(1), number.U32(31), "", diag.ConstShiftSignChange},
		{"u32 out of range", "<<", number.U32(1), number.U32(32), "", diag.ConstShiftOutOfRange},
		{"u32 drops bits", "<<", number.U32(0x80000000), number.U32(1), "", diag.ConstOverflow},
		{"i32 arithmetic right", ">>", number.I32(-8), number.U32(1), "-4i", 0},
		{"u32 logical right", ">>", number.U32(0x80000000), number.U32(31), "1u", 0},
		{"abstract right past width", ">>", number.AInt(-1), number.AInt(70), "0", 0},
		{"abstract count above u32", "<<", number.AInt(1), number.AInt(1<<32 + 1), "", diag.ConstOverflow},
		{"abstract negative count", ">>", number.AInt(8), number.AInt(-1), "", diag.ConstOverflow},
		{"abstract count at u32 max", ">>", number.AInt(8), number.AInt(math.MaxUint32), "0", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ty := f.in.Scalar(tc.a.Kind())
			fn, ok := LookupBinary(f.in, tc.op, ty, f.in.Scalar(tc.n.Kind()))
			if !ok {
				t.Fatalf("no evaluator for %s", tc.op)
			}
			id, ok := fn(f.ev, ty, []constant.ID{f.scalar(tc.a), f.scalar(tc.n)}, testSpan)
			if tc.code != 0 {
				if d := f.failed(id, ok); d.Code != tc.code {
					t.Fatalf("code = %v, want %v (%s)", d.Code, tc.code, d.Message)
				}
				return
			}
			if got := f.ok(id, ok); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestIndexOutOfBoundsNamesRange(t *testing.T) {
	f := newFixture(t)
	v := f.vec(f32s(1, 2, 3)...)
	d := f.failed(f.ev.Index(f.typeOf(v), v, f.scalar(number.AInt(3)), testSpan))
	if d.Message != "index 3 out of bounds [0..2]" || d.Code != diag.ConstIndexOutOfRange {
		t.Fatalf("got %v %q", d.Code, d.Message)
	}
}

func TestIndexCheckedBeforeObject(t *testing.T) {
	f := newFixture(t)
	ty := f.in.Vector(f.in.Builtins().F32, 2)
	f.failed(f.ev.Index(ty, constant.NoID, f.scalar(number.AInt(-1)), testSpan))
}

func TestIndexAndSwizzle(t *testing.T) {
	f := newFixture(t)
	v := f.vec(f32s(1, 2, 3, 4)...)
	if got := f.ok(f.ev.Index(f.typeOf(v), v, f.scalar(number.I32(2)), testSpan)); got != "3f" {
		t.Fatalf("v[2] = %s", got)
	}
	ty := f.in.Vector(f.in.Builtins().F32, 3)
	if got := f.ok(f.ev.Swizzle(ty, v, []uint32{3, 0, 0}, testSpan)); got != "vec3<f32>(4f, 1f, 1f)" {
		t.Fatalf("v.wxx = %s", got)
	}
	d := f.failed(f.ev.Swizzle(ty, v, []uint32{4}, testSpan))
	if d.Code != diag.ConstIndexOutOfRange {
		t.Fatalf("code = %v", d.Code)
	}
}

func TestFloatToIntConversionSaturates(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	if got := f.ok(f.ev.Convert(b.I32, f.scalar(number.F32(1e30)), testSpan)); got != "2147483647i" {
		t.Fatalf("i32(1e30f) = %s", got)
	}
	if got := f.ok(f.ev.Convert(b.U32, f.scalar(number.F32(-5)), testSpan)); got != "0u" {
		t.Fatalf("u32(-5f) = %s", got)
	}
	if got := f.ok(f.ev.Convert(b.I32, f.scalar(number.F32(-2.75)), testSpan)); got != "-2i" {
		t.Fatalf("i32(-2.75f) = %s", got)
	}
}

func TestAbstractMaterializationFails(t *testing.T) {
	f := newFixture(t)
	d := f.failed(f.ev.Convert(f.in.Builtins().I32, f.scalar(number.AInt(1<<40)), testSpan))
	if d.Code != diag.ConstMaterialization {
		t.Fatalf("code = %v", d.Code)
	}
	if !strings.Contains(d.Message, "'i32'") {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestConvertSameTypeIsIdentity(t *testing.T) {
	f := newFixture(t)
	v := f.vec(f32s(1, 2)...)
	id, ok := f.ev.Convert(f.typeOf(v), v, testSpan)
	if !ok || id != v {
		t.Fatalf("Convert to own type = (%d, %v), want (%d, true)", id, ok, v)
	}
}

func TestConvertVectorAndBool(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	v := f.vec(f32s(1.5, -2.5)...)
	if got := f.ok(f.ev.Convert(f.in.Vector(b.I32, 2), v, testSpan)); got != "vec2<i32>(1i, -2i)" {
		t.Fatalf("vec2<i32>(v) = %s", got)
	}
	if got := f.ok(f.ev.Convert(b.Bool, f.scalar(number.U32(7)), testSpan)); got != "true" {
		t.Fatalf("bool(7u) = %s", got)
	}
	if got := f.ok(f.ev.Convert(b.F32, f.scalar(number.Bool(true)), testSpan)); got != "1f" {
		t.Fatalf("f32(true) = %s", got)
	}
}

func TestConvertRoundTripsThroughWiderKind(t *testing.T) {
	cases := []struct {
		v     number.Value
		wider number.Kind
	}{
		{number.I32(math.MinInt32), number.KindAbstractInt},
		{number.I32(-1), number.KindAbstractInt},
		{number.I32(math.MaxInt32), number.KindAbstractInt},
		{number.U32(math.MaxUint32), number.KindAbstractInt},
		{number.I32(-123456), number.KindAbstractFloat},
		{number.F16(0.1), number.KindF32},
		{number.F16(-65504), number.KindF32},
		{number.F16(6.1e-5), number.KindAbstractFloat},
		{number.F32(0.1), number.KindAbstractFloat},
		{number.F32(-3.4e38), number.KindAbstractFloat},
	}
	for _, tc := range cases {
		f := newFixture(t)
		orig := f.scalar(tc.v)
		wide, ok := f.ev.Convert(f.in.Scalar(tc.wider), orig, testSpan)
		if !ok {
			t.Fatalf("%s to %s failed: %v", tc.v.Literal(), tc.wider, f.bag.Items())
		}
		back, ok := f.ev.Convert(f.typeOf(orig), wide, testSpan)
		if !ok {
			t.Fatalf("%s back from %s failed: %v", tc.v.Literal(), tc.wider, f.bag.Items())
		}
		if !f.arena.Equal(orig, back) || f.bag.Len() != 0 {
			t.Errorf("%s via %s came back as %s", tc.v.Literal(), tc.wider, f.arena.Format(back))
		}
	}
}

func TestConvertIntegerToIntegerTruncates(t *testing.T) {
	cases := []struct {
		v    number.Value
		to   number.Kind
		want string
	}{
		{number.I32(-1), number.KindU32, "4294967295u"},
		{number.I32(math.MinInt32), number.KindU32, "2147483648u"},
		{number.U32(math.MaxUint32), number.KindI32, "-1i"},
		{number.U32(0x80000000), number.KindI32, "-2147483648i"},
		{number.U32(7), number.KindI32, "7i"},
	}
	for _, tc := range cases {
		f := newFixture(t)
		got := f.ok(f.ev.Convert(f.in.Scalar(tc.to), f.scalar(tc.v), testSpan))
		if got != tc.want {
			t.Errorf("%s(%s) = %s, want %s", tc.to, tc.v.Literal(), got, tc.want)
		}
	}
}

func TestConvertSplatStructToMixedMembers(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	src, _ := f.in.RegisterStruct("Src", []types.StructMember{
		f.in.Member("a", b.I32),
		f.in.Member("b", b.I32),
	})
	mixed, _ := f.in.RegisterStruct("Mixed", []types.StructMember{
		f.in.Member("a", b.F32),
		f.in.Member("b", b.U32),
	})
	same, _ := f.in.RegisterStruct("Same", []types.StructMember{
		f.in.Member("a", b.U32),
		f.in.Member("b", b.U32),
	})
	zero := f.arena.ZeroValue(src)
	if f.arena.Shape(zero) != constant.ShapeSplat {
		t.Fatalf("zero of Src is %v, want splat", f.arena.Shape(zero))
	}

	id, ok := f.ev.Convert(mixed, zero, testSpan)
	f.ok(id, ok)
	for i, want := range []types.TypeID{b.F32, b.U32} {
		if got := f.arena.Type(f.arena.Index(id, uint32(i))); got != want {
			t.Fatalf("member %d has type %s, want %s", i, f.in.FriendlyName(got), f.in.FriendlyName(want))
		}
	}

	id, ok = f.ev.Convert(same, zero, testSpan)
	f.ok(id, ok)
	if f.arena.Shape(id) != constant.ShapeSplat || f.arena.Type(f.arena.Index(id, 1)) != b.U32 {
		t.Fatalf("Same(zero) = %s (%v)", f.arena.Format(id), f.arena.Shape(id))
	}
}

func TestConstructors(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	vec4 := f.in.Vector(b.F32, 4)
	two := f.vec(f32s(1, 2)...)
	got := f.ok(f.ev.VecInitMixed(vec4, []constant.ID{two, f.scalar(number.F32(3)), f.scalar(number.F32(4))}, testSpan))
	if got != "vec4<f32>(1f, 2f, 3f, 4f)" {
		t.Fatalf("vec4(v2, 3, 4) = %s", got)
	}

	splat, ok := f.ev.VecSplat(vec4, []constant.ID{f.scalar(number.F32(7))}, testSpan)
	f.ok(splat, ok)
	if f.arena.Shape(splat) != constant.ShapeSplat || f.arena.Len(splat) != 4 {
		t.Fatalf("splat shape = %v len = %d", f.arena.Shape(splat), f.arena.Len(splat))
	}

	mat := f.in.Matrix(b.F32, 2, 2)
	got = f.ok(f.ev.MatInitScalars(mat, f.scalars(f32s(1, 2, 3, 4)...), testSpan))
	if got != "mat2x2<f32>(vec2<f32>(1f, 2f), vec2<f32>(3f, 4f))" {
		t.Fatalf("mat2x2(1, 2, 3, 4) = %s", got)
	}
	f.bag = diag.NewBag(32)
	f.ev = New(f.arena, diag.BagReporter{Bag: f.bag}, nil)
	f.failed(f.ev.MatInitScalars(mat, f.scalars(f32s(1, 2, 3)...), testSpan))
}

func (f *fixture) scalars(vs ...number.Value) []constant.ID {
	out := make([]constant.ID, len(vs))
	for i, v := range vs {
		out[i] = f.scalar(v)
	}
	return out
}

func TestZeroValueAndStructInit(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	light, _ := f.in.RegisterStruct("Light", []types.StructMember{
		f.in.Member("pos", f.in.Vector(b.F32, 3)),
		f.in.Member("on", b.Bool),
	})
	zero, ok := f.ev.ArrayOrStructInit(light, nil, testSpan)
	f.ok(zero, ok)
	if !f.arena.AllZero(zero) || !f.arena.AnyZero(zero) {
		t.Fatalf("zero Light is not all zero")
	}
	pos := f.vec(f32s(1, 2, 3)...)
	l, ok := f.ev.ArrayOrStructInit(light, []constant.ID{pos, f.scalar(number.Bool(true))}, testSpan)
	f.ok(l, ok)
	if f.arena.AllZero(l) || f.arena.AnyZero(l) {
		t.Fatalf("Light(pos, true): AllZero=%v AnyZero=%v", f.arena.AllZero(l), f.arena.AnyZero(l))
	}
	if got := f.ok(f.ev.MemberAccess(l, 0, testSpan)); got != "vec3<f32>(1f, 2f, 3f)" {
		t.Fatalf("l.pos = %s", got)
	}
}

func TestLiteralMaterializes(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	if got := f.ok(f.ev.Literal(b.F32, number.AFloat(0.5), testSpan)); got != "0.5f" {
		t.Fatalf("literal = %s", got)
	}
	d := f.failed(f.ev.Literal(b.U32, number.AInt(-1), testSpan))
	if d.Code != diag.ConstMaterialization {
		t.Fatalf("code = %v", d.Code)
	}
}

func TestMatrixProducts(t *testing.T) {
	f := newFixture(t)
	m := f.mat(f.vec(f32s(1, 2)...), f.vec(f32s(3, 4)...))
	v := f.vec(f32s(1, 1)...)
	vec2 := f.typeOf(v)

	fn, ok := LookupBinary(f.in, "*", f.typeOf(m), vec2)
	if !ok {
		t.Fatal("no mat * vec evaluator")
	}
	if got := f.ok(fn(f.ev, vec2, []constant.ID{m, v}, testSpan)); got != "vec2<f32>(4f, 6f)" {
		t.Fatalf("m * v = %s", got)
	}
	if got := f.ok(f.ev.OpMultiplyVecMat(vec2, []constant.ID{v, m}, testSpan)); got != "vec2<f32>(3f, 7f)" {
		t.Fatalf("v * m = %s", got)
	}
	id := f.mat(f.vec(f32s(1, 0)...), f.vec(f32s(0, 1)...))
	prod, ok := f.ev.OpMultiplyMatMat(f.typeOf(m), []constant.ID{id, m}, testSpan)
	f.ok(prod, ok)
	if !f.arena.Equal(prod, m) {
		t.Fatalf("I * m = %s", f.arena.Format(prod))
	}
}

func TestMatrixProductOverflowAddsNote(t *testing.T) {
	f := newFixture(t)
	big := number.AFloat(math.MaxFloat64)
	m := f.mat(f.vec(big, big), f.vec(big, big))
	v := f.vec(big, big)
	d := f.failed(f.ev.OpMultiplyMatVec(f.typeOf(v), []constant.ID{m, v}, testSpan))
	if len(d.Notes) != 1 || d.Notes[0].Msg != "when calculating matrix-vector multiplication" {
		t.Fatalf("notes = %v", d.Notes)
	}
}

func TestLogicalAndBitwise(t *testing.T) {
	f := newFixture(t)
	b := f.in.Builtins()
	if got := f.ok(f.ev.OpLogicalAnd(b.Bool, f.scalars(number.Bool(true), number.Bool(false)), testSpan)); got != "false" {
		t.Fatalf("true && false = %s", got)
	}
	if got := f.ok(f.ev.OpXor(b.U32, f.scalars(number.U32(0b1100), number.U32(0b1010)), testSpan)); got != "6u" {
		t.Fatalf("12u ^ 10u = %s", got)
	}
	if got := f.ok(f.ev.OpOr(b.Bool, f.scalars(number.Bool(false), number.Bool(true)), testSpan)); got != "true" {
		t.Fatalf("false | true = %s", got)
	}
}

func TestOperatorTables(t *testing.T) {
	if _, ok := LookupUnary("-"); !ok {
		t.Fatal("unary minus missing")
	}
	ops := BinaryOps()
	for i := 1; i < len(ops); i++ {
		if ops[i-1] >= ops[i] {
			t.Fatalf("BinaryOps not sorted: %v", ops)
		}
	}
	if len(ops) != 18 {
		t.Fatalf("got %d binary operators", len(ops))
	}
}

func TestTracerRecordsNodeSpans(t *testing.T) {
	in := types.NewInterner()
	arena := constant.NewArena(in)
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ev := New(arena, nil, ring)
	b := in.Builtins()
	one := arena.Element(b.F32, number.F32(1))
	if _, ok := ev.CallBuiltin("sqrt", b.F32, []constant.ID{one}, testSpan); !ok {
		t.Fatal("sqrt(1) failed")
	}
	var ends []trace.Event
	for _, e := range ring.Snapshot() {
		if e.Kind == trace.KindSpanEnd {
			ends = append(ends, e)
		}
	}
	if len(ends) != 1 {
		t.Fatalf("got %d span ends, want 1", len(ends))
	}
	if ends[0].Name != "sqrt" || ends[0].Detail != "ok" || ends[0].Extra["value"] != "1f" {
		t.Fatalf("span end = %+v", ends[0])
	}
}
