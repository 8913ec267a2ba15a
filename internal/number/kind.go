package number

import "fmt"

// Kind enumerates the numeric kinds a constant scalar can carry.
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
)

// String returns the friendly name used in diagnostics.
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
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsAbstract reports whether k is one of the 64-bit literal kinds.
func (k Kind) IsAbstract() bool {
	return k == KindAbstractInt || k == KindAbstractFloat
}

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool {
	return k == KindAbstractFloat || k == KindF32 || k == KindF16
}

// IsInteger reports whether k is an integer kind.
func (k Kind) IsInteger() bool {
	return k == KindAbstractInt || k == KindI32 || k == KindU32
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	return k == KindAbstractInt || k == KindI32
}

// IsNumeric reports whether k is a non-bool numeric kind.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// BitWidth returns the storage width of the kind in bits.
func (k Kind) BitWidth() uint32 {
	switch k {
	case KindBool:
		return 1
	case KindAbstractInt, KindAbstractFloat:
		return 64
	case KindI32, KindU32, KindF32:
		return 32
	case KindF16:
		return 16
	default:
		return 0
	}
}

// ParseKind maps a friendly name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "bool":
		return KindBool, true
	case "abstract-int":
		return KindAbstractInt, true
	case "abstract-float":
		return KindAbstractFloat, true
	case "i32":
		return KindI32, true
	case "u32":
		return KindU32, true
	case "f32":
		return KindF32, true
	case "f16":
		return KindF16, true
	}
	return KindInvalid, false
}
