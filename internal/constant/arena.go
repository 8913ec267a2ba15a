// Package constant holds immutable compile-time values. Every value lives in
// an Arena and is addressed by ID; children of composites are IDs too, so a
// Splat shares its element and composites share their children.
package constant

import (
	"fmt"

	"fortio.org/safecast"

	"lumen/internal/number"
	"lumen/internal/types"
)

// ID addresses a value inside an Arena.
type ID uint32

// NoID is the "not a constant" result. It is not an error.
const NoID ID = 0

// Shape is the closed set of value representations.
type Shape uint8

const (
	ShapeInvalid Shape = iota
	// ShapeElement is a scalar leaf.
	ShapeElement
	// ShapeSplat repeats one child Count times.
	ShapeSplat
	// ShapeComposite holds one child per position.
	ShapeComposite
)

func (s Shape) String() string {
	switch s {
	case ShapeElement:
		return "element"
	case ShapeSplat:
		return "splat"
	case ShapeComposite:
		return "composite"
	}
	return "invalid"
}

type value struct {
	typ      types.TypeID
	shape    Shape
	num      number.Value // ShapeElement
	child    ID           // ShapeSplat
	count    uint32       // ShapeSplat
	children []ID         // ShapeComposite
	allZero  bool
	anyZero  bool
	allEqual bool
	hash     uint64
}

// Arena owns the values of one evaluation session. It is not safe for
// concurrent use.
type Arena struct {
	types  *types.Interner
	values []value
}

// NewArena creates an arena whose values are typed by in.
func NewArena(in *types.Interner) *Arena {
	a := &Arena{
		types:  in,
		values: make([]value, 1, 256),
	}
	return a
}

// Types returns the interner the arena's values are typed by.
func (a *Arena) Types() *types.Interner {
	return a.types
}

// Size returns how many values were allocated.
func (a *Arena) Size() int {
	return len(a.values) - 1
}

func (a *Arena) alloc(v value) ID {
	n, err := safecast.Conv[uint32](len(a.values))
	if err != nil {
		panic(fmt.Errorf("constant arena overflow: %w", err))
	}
	a.values = append(a.values, v)
	return ID(n)
}

func (a *Arena) get(id ID) *value {
	if id == NoID || int(id) >= len(a.values) {
		panic(fmt.Sprintf("constant: invalid ID %d", id))
	}
	return &a.values[id]
}

// Element allocates a scalar leaf of type ty.
func (a *Arena) Element(ty types.TypeID, v number.Value) ID {
	zero := v.IsPositiveZero()
	return a.alloc(value{
		typ:      ty,
		shape:    ShapeElement,
		num:      v,
		allZero:  zero,
		anyZero:  zero,
		allEqual: true,
		hash:     number.Mix(uint64(ty), v.Hash()),
	})
}

// Splat allocates a composite of type ty whose count positions all hold child.
func (a *Arena) Splat(ty types.TypeID, child ID, count uint32) ID {
	c := a.get(child)
	h := uint64(ty)
	for range count {
		h = number.Mix(h, c.hash)
	}
	return a.alloc(value{
		typ:      ty,
		shape:    ShapeSplat,
		child:    child,
		count:    count,
		allZero:  c.allZero,
		anyZero:  c.anyZero,
		allEqual: true,
		hash:     h,
	})
}

// Composite allocates a composite holding children verbatim. Callers that
// want Splat detection use CreateComposite.
func (a *Arena) Composite(ty types.TypeID, children []ID) ID {
	v := value{
		typ:      ty,
		shape:    ShapeComposite,
		children: append([]ID(nil), children...),
		allZero:  true,
		allEqual: true,
		hash:     uint64(ty),
	}
	for i, id := range children {
		c := a.get(id)
		v.allZero = v.allZero && c.allZero
		v.anyZero = v.anyZero || c.anyZero
		if i > 0 && v.allEqual {
			v.allEqual = a.Equal(children[0], id)
		}
		v.hash = number.Mix(v.hash, c.hash)
	}
	return a.alloc(v)
}

// CreateComposite builds a value of type ty from already evaluated children.
// An empty list or any NoID child yields NoID. Structurally equal children
// collapse into a Splat of the first child.
func (a *Arena) CreateComposite(ty types.TypeID, children []ID) ID {
	if len(children) == 0 {
		return NoID
	}
	for _, c := range children {
		if c == NoID {
			return NoID
		}
	}
	first := children[0]
	allEqual := true
	for _, c := range children[1:] {
		if !a.Equal(first, c) {
			allEqual = false
			break
		}
	}
	if allEqual {
		n, err := safecast.Conv[uint32](len(children))
		if err != nil {
			panic(fmt.Errorf("composite arity overflow: %w", err))
		}
		return a.Splat(ty, first, n)
	}
	return a.Composite(ty, children)
}

// ZeroValue builds the zero of any type. Runtime-sized arrays have no zero
// value and yield NoID.
func (a *Arena) ZeroValue(ty types.TypeID) ID {
	return a.zeroValue(ty, make(map[types.TypeID]ID))
}

func (a *Arena) zeroValue(ty types.TypeID, memo map[types.TypeID]ID) ID {
	if id, ok := memo[ty]; ok {
		return id
	}
	tt, ok := a.types.Lookup(ty)
	if !ok {
		return NoID
	}
	var id ID
	switch tt.Kind {
	case types.KindVector, types.KindMatrix, types.KindArray:
		elem, n := a.types.ElementOf(ty)
		if n == 0 {
			return NoID
		}
		child := a.zeroValue(elem, memo)
		if child == NoID {
			return NoID
		}
		id = a.Splat(ty, child, n)
	case types.KindStruct:
		members := a.types.Members(ty)
		if len(members) == 0 {
			return NoID
		}
		children := make([]ID, len(members))
		for i, m := range members {
			children[i] = a.zeroValue(m.Type, memo)
			if children[i] == NoID {
				return NoID
			}
		}
		if a.types.UniformMembers(ty) {
			id = a.Splat(ty, children[0], uint32(len(children))) //nolint:gosec // G115: member lists are small.
		} else {
			id = a.Composite(ty, children)
		}
	default:
		k := a.types.ScalarKind(ty)
		if k == number.KindInvalid {
			return NoID
		}
		id = a.Element(ty, number.Zero(k))
	}
	memo[ty] = id
	return id
}
