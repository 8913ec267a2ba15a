package types

import (
	"testing"

	"lumen/internal/number"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Bool == NoTypeID || b.F16 == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if got := in.ScalarKind(b.AbstractInt); got != number.KindAbstractInt {
		t.Fatalf("expected abstract-int kind, got %v", got)
	}
	if in.Scalar(number.KindU32) != b.U32 {
		t.Fatalf("Scalar(u32) should return the builtin id")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	f32 := in.Builtins().F32
	if in.Vector(f32, 3) != in.Vector(f32, 3) {
		t.Fatalf("vector types should be deduplicated")
	}
	if in.Matrix(f32, 2, 3) == in.Matrix(f32, 3, 2) {
		t.Fatalf("mat2x3 and mat3x2 must differ")
	}
	if in.Array(f32, 4) == in.Array(f32, ArrayRuntimeLength) {
		t.Fatalf("sized and runtime arrays must differ")
	}
}

func TestElementOf(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	mat := in.Matrix(b.F32, 3, 2)

	col, n := in.ElementOf(mat)
	if n != 3 || col != in.Vector(b.F32, 2) {
		t.Fatalf("mat3x2 should have 3 columns of vec2<f32>, got %s x%d", in.FriendlyName(col), n)
	}
	if el, n := in.ElementOf(b.I32); el != b.I32 || n != 1 {
		t.Fatalf("scalar should report itself with arity 1")
	}
	if _, n := in.ElementOf(in.Array(b.I32, ArrayRuntimeLength)); n != 0 {
		t.Fatalf("runtime arrays have arity 0, got %d", n)
	}
	if got := in.DeepestElementOf(in.Array(mat, 2)); got != b.F32 {
		t.Fatalf("expected f32 leaf, got %s", in.FriendlyName(got))
	}
}

func TestStructs(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	light, ok := in.RegisterStruct("Light", []StructMember{
		in.Member("pos", in.Vector(b.F32, 3)),
		in.Member("on", b.Bool),
	})
	if !ok {
		t.Fatalf("first registration should succeed")
	}
	if again, ok := in.RegisterStruct("Light", nil); ok || again != light {
		t.Fatalf("duplicate registration should return the existing type")
	}
	if _, n := in.ElementOf(light); n != 2 {
		t.Fatalf("expected 2 members, got %d", n)
	}
	if idx, ok := in.MemberIndex(light, "on"); !ok || idx != 1 {
		t.Fatalf("expected member 'on' at 1, got %d", idx)
	}
	if in.ElementAt(light, 1) != b.Bool {
		t.Fatalf("member 1 should be bool")
	}
	if in.UniformMembers(light) {
		t.Fatalf("Light members differ in type")
	}
	pair, _ := in.RegisterStruct("Pair", []StructMember{in.Member("a", b.I32), in.Member("b", b.I32)})
	if !in.UniformMembers(pair) || in.UniformMembers(b.I32) {
		t.Fatalf("UniformMembers: Pair=%v i32=%v", in.UniformMembers(pair), in.UniformMembers(b.I32))
	}
	if in.DeepestElementOf(light) != NoTypeID {
		t.Fatalf("structs have no leaf type")
	}
}

func TestParseAndFriendlyName(t *testing.T) {
	in := NewInterner()
	in.RegisterStruct("S", []StructMember{in.Member("a", in.Builtins().I32)})
	tests := []struct {
		in, want string
	}{
		{"f32", "f32"},
		{"abstract-float", "abstract-float"},
		{"vec3<f32>", "vec3<f32>"},
		{"vec2h", "vec2<f16>"},
		{"vec4u", "vec4<u32>"},
		{"mat2x3<f32>", "mat2x3<f32>"},
		{"mat4x4h", "mat4x4<f16>"},
		{"array<i32, 4>", "array<i32, 4>"},
		{"array<vec2<f32>,2>", "array<vec2<f32>, 2>"},
		{"array<u32>", "array<u32>"},
		{"S", "S"},
	}
	for _, tt := range tests {
		id, err := in.Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got := in.FriendlyName(id); got != tt.want {
			t.Errorf("Parse(%q): want %q, got %q", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"", "vec5<f32>", "mat2x3<i32>", "array<i32, 0>", "vec3<f32", "T", "vec3<vec2<f32>>"} {
		if _, err := in.Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestWithScalarAndFamilies(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	v := in.Vector(b.F32, 3)
	if got := in.WithScalar(v, b.Bool); got != in.Vector(b.Bool, 3) {
		t.Fatalf("expected vec3<bool>, got %s", in.FriendlyName(got))
	}
	if in.Family(v) != FamilyF32 {
		t.Fatalf("vec3<f32> should be in the f32 family")
	}
	if !FamilyFloat.Accepts(number.KindF16) || FamilyIntegral.Accepts(number.KindF32) {
		t.Fatalf("family masks are wrong")
	}
}

func TestFamilyMaskString(t *testing.T) {
	if got := FamilyConcreteInt.String(); got != "i32|u32" {
		t.Fatalf("FamilyConcreteInt = %q", got)
	}
	if got := FamilyNone.String(); got != "none" {
		t.Fatalf("FamilyNone = %q", got)
	}
}
