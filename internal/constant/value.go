package constant

import (
	"strings"

	"lumen/internal/number"
	"lumen/internal/types"
)

// Type returns the type of id.
func (a *Arena) Type(id ID) types.TypeID { return a.get(id).typ }

// Shape returns the representation of id.
func (a *Arena) Shape(id ID) Shape { return a.get(id).shape }

// Value returns the scalar payload of an Element.
func (a *Arena) Value(id ID) number.Value {
	v := a.get(id)
	if v.shape != ShapeElement {
		panic("constant: Value on a composite")
	}
	return v.num
}

// Len returns the arity of a composite, 0 for an Element.
func (a *Arena) Len(id ID) uint32 {
	v := a.get(id)
	switch v.shape {
	case ShapeSplat:
		return v.count
	case ShapeComposite:
		return uint32(len(v.children)) //nolint:gosec // G115: arity came from a uint32.
	}
	return 0
}

// Index returns child i. A Splat returns the same child for every i. Index
// on an Element or out of range returns NoID.
func (a *Arena) Index(id ID, i uint32) ID {
	v := a.get(id)
	switch v.shape {
	case ShapeSplat:
		if i < v.count {
			return v.child
		}
	case ShapeComposite:
		if int(i) < len(v.children) {
			return v.children[i]
		}
	}
	return NoID
}

// AllZero reports whether every leaf is a positive zero (or false).
func (a *Arena) AllZero(id ID) bool { return a.get(id).allZero }

// AnyZero reports whether some leaf is a positive zero (or false).
func (a *Arena) AnyZero(id ID) bool { return a.get(id).anyZero }

// AllEqual reports whether every position holds an equal child.
func (a *Arena) AllEqual(id ID) bool { return a.get(id).allEqual }

// Hash returns the structural hash. Equal values hash equal regardless of
// their representation.
func (a *Arena) Hash(id ID) uint64 { return a.get(id).hash }

// Equal compares type, hash and then every child. Scalars compare by
// value, so 0.0 and -0.0 are equal.
func (a *Arena) Equal(x, y ID) bool {
	if x == y {
		return true
	}
	if x == NoID || y == NoID {
		return false
	}
	vx, vy := a.get(x), a.get(y)
	if vx.typ != vy.typ || vx.hash != vy.hash {
		return false
	}
	if vx.shape == ShapeElement || vy.shape == ShapeElement {
		return vx.shape == vy.shape && vx.num.Equal(vy.num)
	}
	if vx.shape == ShapeSplat && vy.shape == ShapeSplat {
		return vx.count == vy.count && a.Equal(vx.child, vy.child)
	}
	n := a.Len(x)
	if n != a.Len(y) {
		return false
	}
	for i := range n {
		if !a.Equal(a.Index(x, i), a.Index(y, i)) {
			return false
		}
	}
	return true
}

// Format renders id as a shader expression, e.g. vec3<f32>(1f, 2f, 3f).
// Splats are expanded so output does not depend on representation.
func (a *Arena) Format(id ID) string {
	if id == NoID {
		return "<not constant>"
	}
	var b strings.Builder
	a.format(&b, id)
	return b.String()
}

func (a *Arena) format(b *strings.Builder, id ID) {
	v := a.get(id)
	if v.shape == ShapeElement {
		b.WriteString(v.num.Literal())
		return
	}
	b.WriteString(a.types.FriendlyName(v.typ))
	b.WriteByte('(')
	n := a.Len(id)
	for i := range n {
		if i > 0 {
			b.WriteString(", ")
		}
		a.format(b, a.Index(id, i))
	}
	b.WriteByte(')')
}
