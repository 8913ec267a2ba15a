package types

import (
	"fmt"

	"lumen/internal/number"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindAbstractInt
	KindAbstractFloat
	KindI32
	KindU32
	KindF32
	KindF16
	KindVector
	KindMatrix
	KindArray
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindAbstractInt:
		return "abstract-int"
	case KindAbstractFloat:
		return "abstract-float"
	case KindI32:
		return "i32"
	case KindU32:
		return "u32"
	case KindF32:
		return "f32"
	case KindF16:
		return "f16"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsScalar reports whether the kind is a leaf (bool or numeric) kind.
func (k Kind) IsScalar() bool {
	return k >= KindBool && k <= KindF16
}

// ArrayRuntimeLength marks arrays whose element count is not known at compile time.
const ArrayRuntimeLength = ^uint32(0)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // scalar of vectors and matrices, element of arrays
	Count   uint32 // vector width, matrix columns, array length
	Rows    uint32 // matrix rows
	Payload uint32 // struct info slot
}

// Descriptor helpers ---------------------------------------------------------

// MakeVector describes vecN<elem>.
func MakeVector(elem TypeID, width uint32) Type {
	return Type{Kind: KindVector, Elem: elem, Count: width}
}

// MakeMatrix describes matCxR<elem>; elem is the scalar type.
func MakeMatrix(elem TypeID, columns, rows uint32) Type {
	return Type{Kind: KindMatrix, Elem: elem, Count: columns, Rows: rows}
}

// MakeArray describes array<elem, count>. Use ArrayRuntimeLength for array<elem>.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

func kindOfNumber(k number.Kind) Kind {
	switch k {
	case number.KindBool:
		return KindBool
	case number.KindAbstractInt:
		return KindAbstractInt
	case number.KindAbstractFloat:
		return KindAbstractFloat
	case number.KindI32:
		return KindI32
	case number.KindU32:
		return KindU32
	case number.KindF32:
		return KindF32
	case number.KindF16:
		return KindF16
	}
	return KindInvalid
}

func numberOfKind(k Kind) number.Kind {
	switch k {
	case KindBool:
		return number.KindBool
	case KindAbstractInt:
		return number.KindAbstractInt
	case KindAbstractFloat:
		return number.KindAbstractFloat
	case KindI32:
		return number.KindI32
	case KindU32:
		return number.KindU32
	case KindF32:
		return number.KindF32
	case KindF16:
		return number.KindF16
	}
	return number.KindInvalid
}
