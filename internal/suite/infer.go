package suite

import (
	"fmt"
	"strings"

	"lumen/internal/types"
)

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// binaryResult derives the result type of lhs op rhs the way an overload
// resolver would for well-typed operands.
func binaryResult(in *types.Interner, op string, lhs, rhs types.TypeID) types.TypeID {
	l := in.MustLookup(lhs)
	r := in.MustLookup(rhs)
	if op == "*" {
		switch {
		case l.Kind == types.KindMatrix && r.Kind == types.KindVector:
			return in.Vector(l.Elem, l.Rows)
		case l.Kind == types.KindVector && r.Kind == types.KindMatrix:
			return in.Vector(r.Elem, r.Count)
		case l.Kind == types.KindMatrix && r.Kind == types.KindMatrix:
			return in.Matrix(l.Elem, r.Count, l.Rows)
		}
	}
	// скаляр расширяется до формы второго операнда
	shape := lhs
	if in.IsScalar(lhs) && !in.IsScalar(rhs) {
		shape = in.WithScalar(rhs, in.DeepestElementOf(lhs))
	}
	if comparisonOps[op] {
		return in.WithScalar(shape, in.Builtins().Bool)
	}
	return shape
}

const swizzleSets = "xyzw" + "rgba"

// parseSwizzle maps "xzy" or "rgb" to component indices. Sets do not mix.
func parseSwizzle(s string) ([]uint32, error) {
	if len(s) == 0 || len(s) > 4 {
		return nil, fmt.Errorf("swizzle %q must have 1 to 4 components", s)
	}
	set := ""
	for _, candidate := range []string{swizzleSets[:4], swizzleSets[4:]} {
		if strings.IndexByte(candidate, s[0]) >= 0 {
			set = candidate
		}
	}
	if set == "" {
		return nil, fmt.Errorf("bad swizzle %q", s)
	}
	out := make([]uint32, len(s))
	for i := range len(s) {
		idx := strings.IndexByte(set, s[i])
		if idx < 0 {
			return nil, fmt.Errorf("bad swizzle %q", s)
		}
		out[i] = uint32(idx) //nolint:gosec // G115: idx < 4.
	}
	return out, nil
}

// swizzleResult is the scalar element for one component, else a vector.
func swizzleResult(in *types.Interner, obj types.TypeID, n int) types.TypeID {
	elem := in.DeepestElementOf(obj)
	if n == 1 {
		return elem
	}
	return in.Vector(elem, uint32(n)) //nolint:gosec // G115: n <= 4.
}
