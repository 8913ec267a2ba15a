package types

import (
	"strings"

	"lumen/internal/number"
)

// FamilyMask describes broad categories of scalar kinds an operator or
// builtin accepts at its leaves.
type FamilyMask uint32

const (
	FamilyNone FamilyMask = 0
	FamilyBool FamilyMask = 1 << iota
	FamilyAbstractInt
	FamilyAbstractFloat
	FamilyI32
	FamilyU32
	FamilyF32
	FamilyF16
)

const (
	FamilySignedInt   = FamilyAbstractInt | FamilyI32
	FamilyConcreteInt = FamilyI32 | FamilyU32
	FamilyIntegral    = FamilyAbstractInt | FamilyConcreteInt
	FamilyFloat       = FamilyAbstractFloat | FamilyF32 | FamilyF16
	FamilyNumeric     = FamilyIntegral | FamilyFloat
	FamilySigned      = FamilySignedInt | FamilyFloat
	FamilyScalar      = FamilyNumeric | FamilyBool
)

// FamilyOf maps a numeric kind to its family bit.
func FamilyOf(k number.Kind) FamilyMask {
	switch k {
	case number.KindBool:
		return FamilyBool
	case number.KindAbstractInt:
		return FamilyAbstractInt
	case number.KindAbstractFloat:
		return FamilyAbstractFloat
	case number.KindI32:
		return FamilyI32
	case number.KindU32:
		return FamilyU32
	case number.KindF32:
		return FamilyF32
	case number.KindF16:
		return FamilyF16
	}
	return FamilyNone
}

var familyKinds = []number.Kind{
	number.KindBool, number.KindAbstractInt, number.KindAbstractFloat,
	number.KindI32, number.KindU32, number.KindF32, number.KindF16,
}

// String lists the kinds of the mask, e.g. "i32|u32".
func (m FamilyMask) String() string {
	var parts []string
	for _, k := range familyKinds {
		if m.Accepts(k) {
			parts = append(parts, k.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Accepts reports whether kind k belongs to the mask.
func (m FamilyMask) Accepts(k number.Kind) bool {
	return m&FamilyOf(k) != 0
}

// Family returns the family bit of the leaf scalar of id. Struct types have
// no leaf family.
func (in *Interner) Family(id TypeID) FamilyMask {
	leaf := in.DeepestElementOf(id)
	if leaf == NoTypeID {
		return FamilyNone
	}
	return FamilyOf(in.ScalarKind(leaf))
}
