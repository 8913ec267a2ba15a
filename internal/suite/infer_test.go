package suite

import (
	"reflect"
	"testing"

	"lumen/internal/types"
)

func TestBinaryResult(t *testing.T) {
	in := types.NewInterner()
	tests := []struct {
		op, lhs, rhs, want string
	}{
		{"+", "i32", "i32", "i32"},
		{"*", "f32", "vec3<f32>", "vec3<f32>"},
		{"<", "vec2<u32>", "vec2<u32>", "vec2<bool>"},
		{"==", "f32", "f32", "bool"},
		{"*", "mat3x2<f32>", "vec3<f32>", "vec2<f32>"},
		{"*", "vec2<f32>", "mat3x2<f32>", "vec3<f32>"},
		{"*", "mat3x2<f32>", "mat4x3<f32>", "mat4x2<f32>"},
	}
	for _, tt := range tests {
		l, err := in.Parse(tt.lhs)
		if err != nil {
			t.Fatal(err)
		}
		r, err := in.Parse(tt.rhs)
		if err != nil {
			t.Fatal(err)
		}
		if got := in.FriendlyName(binaryResult(in, tt.op, l, r)); got != tt.want {
			t.Errorf("%s %s %s = %s, want %s", tt.lhs, tt.op, tt.rhs, got, tt.want)
		}
	}
}

func TestParseSwizzle(t *testing.T) {
	got, err := parseSwizzle("zyx")
	if err != nil || !reflect.DeepEqual(got, []uint32{2, 1, 0}) {
		t.Fatalf("zyx = %v, %v", got, err)
	}
	got, err = parseSwizzle("ra")
	if err != nil || !reflect.DeepEqual(got, []uint32{0, 3}) {
		t.Fatalf("ra = %v, %v", got, err)
	}
	for _, bad := range []string{"", "xyzwx", "xr", "q"} {
		if _, err := parseSwizzle(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}
