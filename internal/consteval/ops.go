package consteval

import (
	"maps"
	"slices"

	"lumen/internal/types"
)

var unaryOps = map[string]Func{
	"-": (*Evaluator).OpUnaryMinus,
	"!": (*Evaluator).OpNot,
	"~": (*Evaluator).OpComplement,
}

var binaryOps = map[string]Func{
	"+":  (*Evaluator).OpPlus,
	"-":  (*Evaluator).OpMinus,
	"*":  (*Evaluator).OpMultiply,
	"/":  (*Evaluator).OpDivide,
	"%":  (*Evaluator).OpModulo,
	"==": (*Evaluator).OpEqual,
	"!=": (*Evaluator).OpNotEqual,
	"<":  (*Evaluator).OpLessThan,
	"<=": (*Evaluator).OpLessThanEqual,
	">":  (*Evaluator).OpGreaterThan,
	">=": (*Evaluator).OpGreaterThanEqual,
	"&&": (*Evaluator).OpLogicalAnd,
	"||": (*Evaluator).OpLogicalOr,
	"&":  (*Evaluator).OpAnd,
	"|":  (*Evaluator).OpOr,
	"^":  (*Evaluator).OpXor,
	"<<": (*Evaluator).OpShiftLeft,
	">>": (*Evaluator).OpShiftRight,
}

// LookupUnary returns the evaluator of a unary operator.
func LookupUnary(op string) (Func, bool) {
	fn, ok := unaryOps[op]
	return fn, ok
}

// LookupBinary returns the evaluator of a binary operator for the given
// operand types. Products involving matrices and vectors pick the linear
// algebra forms.
func LookupBinary(in *types.Interner, op string, lhs, rhs types.TypeID) (Func, bool) {
	if op == "*" {
		l, _ := in.Lookup(lhs)
		r, _ := in.Lookup(rhs)
		switch {
		case l.Kind == types.KindMatrix && r.Kind == types.KindVector:
			return (*Evaluator).OpMultiplyMatVec, true
		case l.Kind == types.KindVector && r.Kind == types.KindMatrix:
			return (*Evaluator).OpMultiplyVecMat, true
		case l.Kind == types.KindMatrix && r.Kind == types.KindMatrix:
			return (*Evaluator).OpMultiplyMatMat, true
		}
	}
	fn, ok := binaryOps[op]
	return fn, ok
}

// UnaryOps lists the supported unary operators.
func UnaryOps() []string { return sortedKeys(unaryOps) }

// BinaryOps lists the supported binary operators.
func BinaryOps() []string { return sortedKeys(binaryOps) }

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
