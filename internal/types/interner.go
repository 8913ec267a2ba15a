package types

import (
	"fmt"

	"fortio.org/safecast"

	"lumen/internal/number"
	"lumen/internal/source"
)

// Builtins stores TypeIDs for the scalar types.
type Builtins struct {
	Invalid       TypeID
	Bool          TypeID
	AbstractInt   TypeID
	AbstractFloat TypeID
	I32           TypeID
	U32           TypeID
	F32           TypeID
	F16           TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Struct types are nominal and get a fresh TypeID on registration.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	structs  []StructInfo
	byName   map[string]TypeID
	strings  *source.Interner
}

// NewInterner constructs an interner seeded with the scalar types.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[typeKey]TypeID, 64),
		byName:  make(map[string]TypeID),
		strings: source.NewInterner(),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.AbstractInt = in.Intern(Type{Kind: KindAbstractInt})
	in.builtins.AbstractFloat = in.Intern(Type{Kind: KindAbstractFloat})
	in.builtins.I32 = in.Intern(Type{Kind: KindI32})
	in.builtins.U32 = in.Intern(Type{Kind: KindU32})
	in.builtins.F32 = in.Intern(Type{Kind: KindF32})
	in.builtins.F16 = in.Intern(Type{Kind: KindF16})
	return in
}

// Builtins returns TypeIDs for scalar types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Strings exposes the interner used for struct and member names.
func (in *Interner) Strings() *source.Interner {
	return in.strings
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid || t.Kind == KindStruct {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Scalar returns the TypeID of the scalar type carrying numeric kind k.
func (in *Interner) Scalar(k number.Kind) TypeID {
	return in.Intern(Type{Kind: kindOfNumber(k)})
}

// Vector returns vecN<elem>.
func (in *Interner) Vector(elem TypeID, width uint32) TypeID {
	return in.Intern(MakeVector(elem, width))
}

// Matrix returns matCxR<elem>.
func (in *Interner) Matrix(elem TypeID, columns, rows uint32) TypeID {
	return in.Intern(MakeMatrix(elem, columns, rows))
}

// Array returns array<elem, count>.
func (in *Interner) Array(elem TypeID, count uint32) TypeID {
	return in.Intern(MakeArray(elem, count))
}

// ScalarKind returns the numeric kind of a scalar type, or KindInvalid for
// composites.
func (in *Interner) ScalarKind(id TypeID) number.Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return number.KindInvalid
	}
	return numberOfKind(tt.Kind)
}

// IsScalar reports whether id names a bool or numeric type.
func (in *Interner) IsScalar(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind.IsScalar()
}

// ElementOf returns the element type and arity of one composite level.
// Scalars report themselves with arity 1. Matrices report their column type.
// Structs report NoTypeID and the member count; use ElementAt for members.
// Runtime-sized arrays report arity 0.
func (in *Interner) ElementOf(id TypeID) (TypeID, uint32) {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID, 0
	}
	switch tt.Kind {
	case KindVector:
		return tt.Elem, tt.Count
	case KindMatrix:
		return in.Vector(tt.Elem, tt.Rows), tt.Count
	case KindArray:
		if tt.Count == ArrayRuntimeLength {
			return tt.Elem, 0
		}
		return tt.Elem, tt.Count
	case KindStruct:
		return NoTypeID, uint32(len(in.structs[tt.Payload].Members)) //nolint:gosec // G115: member lists are small.
	}
	return id, 1
}

// ElementAt returns the type of position i of a composite type.
func (in *Interner) ElementAt(id TypeID, i int) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	if tt.Kind == KindStruct {
		return in.MemberType(id, i)
	}
	elem, _ := in.ElementOf(id)
	return elem
}

// DeepestElementOf returns the scalar type at the leaves of vectors,
// matrices and arrays. Structs have no single leaf type.
func (in *Interner) DeepestElementOf(id TypeID) TypeID {
	for {
		tt, ok := in.Lookup(id)
		if !ok || tt.Kind == KindStruct {
			return NoTypeID
		}
		if tt.Kind.IsScalar() {
			return id
		}
		id = tt.Elem
	}
}

// ColumnType returns vecR<T> for matCxR<T>.
func (in *Interner) ColumnType(mat TypeID) TypeID {
	tt, ok := in.Lookup(mat)
	if !ok || tt.Kind != KindMatrix {
		return NoTypeID
	}
	return in.Vector(tt.Elem, tt.Rows)
}

// WithScalar rebuilds the shape of id around a different leaf scalar type:
// WithScalar(vec3<f32>, bool) is vec3<bool>.
func (in *Interner) WithScalar(id, scalar TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	switch tt.Kind {
	case KindVector:
		return in.Vector(scalar, tt.Count)
	case KindMatrix:
		return in.Matrix(scalar, tt.Count, tt.Rows)
	case KindArray:
		return in.Array(in.WithScalar(tt.Elem, scalar), tt.Count)
	case KindStruct:
		return NoTypeID
	}
	return scalar
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32
	Rows    uint32
	Payload uint32
}
