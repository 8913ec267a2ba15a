// Package consteval computes compile-time values of already type-checked
// shader expressions. Every entry point returns a pair:
//
//	(id, true)             the value was computed
//	(constant.NoID, true)  an operand is not a constant; defer to runtime
//	(constant.NoID, false) evaluation failed and a diagnostic was reported
//
// Operands are values of the evaluator's arena. The result type is supplied
// by the caller, which has already done overload resolution.
package consteval

import (
	"fmt"

	"lumen/internal/constant"
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/trace"
	"lumen/internal/types"
)

// Func is the signature shared by operator and builtin evaluators.
type Func func(e *Evaluator, ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool)

// Evaluator is bound to one arena and one diagnostics sink. It is not safe
// for concurrent use; independent sessions use independent evaluators.
type Evaluator struct {
	types    *types.Interner
	arena    *constant.Arena
	reporter diag.Reporter
	tracer   trace.Tracer

	// pending is the diagnostic of the failing expression. Notes are added
	// while the failure unwinds and it is emitted when the outermost call
	// returns.
	pending *diag.ReportBuilder
	depth   int
	spanID  uint64
}

// New creates an evaluator over arena. reporter may be nil, in which case
// diagnostics are dropped; tracer may be nil.
func New(arena *constant.Arena, reporter diag.Reporter, tracer trace.Tracer) *Evaluator {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Evaluator{
		types:    arena.Types(),
		arena:    arena,
		reporter: reporter,
		tracer:   tracer,
	}
}

// Arena returns the arena values are allocated in.
func (e *Evaluator) Arena() *constant.Arena { return e.arena }

// Types returns the type interner of the arena.
func (e *Evaluator) Types() *types.Interner { return e.types }

// SetTraceParent sets the span that node spans are nested under.
func (e *Evaluator) SetTraceParent(id uint64) { e.spanID = id }

// call runs fn as one traced evaluation step.
func (e *Evaluator) call(name string, sp source.Span, fn func() (constant.ID, bool)) (constant.ID, bool) {
	span := trace.Begin(e.tracer, trace.ScopeNode, name, e.spanID)
	parent := e.spanID
	if span.ID() != 0 {
		e.spanID = span.ID()
	}
	e.depth++
	id, ok := fn()
	e.depth--
	e.spanID = parent

	if span.ID() != 0 {
		span.WithExtra("span", sp.String())
		switch {
		case !ok:
			span.End("fail")
		case id == constant.NoID:
			span.End("runtime")
		default:
			span.WithExtra("value", e.arena.Format(id)).End("ok")
		}
	}
	if e.depth == 0 {
		e.flush()
	}
	return id, ok
}

// flush emits the pending diagnostic.
func (e *Evaluator) flush() {
	if e.pending != nil {
		e.pending.Emit()
		e.pending = nil
	}
}

// report opens the diagnostic of a failure. A still pending diagnostic is
// emitted first.
func (e *Evaluator) report(code diag.Code, sp source.Span, format string, args ...any) {
	e.flush()
	e.pending = diag.ReportError(e.reporter, code, sp, fmt.Sprintf(format, args...))
	if e.depth == 0 {
		e.flush()
	}
}

// fail reports and returns the failure result.
func (e *Evaluator) fail(code diag.Code, sp source.Span, format string, args ...any) (constant.ID, bool) {
	e.report(code, sp, format, args...)
	return constant.NoID, false
}

// note attaches context to the pending diagnostic.
func (e *Evaluator) note(sp source.Span, msg string) {
	e.pending.WithNote(sp, msg)
}

// noteOnFail adds "when calculating name" to a failed result.
func (e *Evaluator) noteOnFail(id constant.ID, ok bool, sp source.Span, name string) (constant.ID, bool) {
	if !ok {
		e.note(sp, "when calculating "+name)
	}
	return id, ok
}

// element stores v as a leaf of type ty. Non-finite floats are rejected.
func (e *Evaluator) element(sp source.Span, ty types.TypeID, v number.Value) (constant.ID, bool) {
	if !v.IsFinite() {
		return e.fail(diag.ConstOverflow, sp, "value %s cannot be represented as '%s'", v, e.name(ty))
	}
	return e.arena.Element(ty, v), true
}

func (e *Evaluator) name(ty types.TypeID) string {
	return e.types.FriendlyName(ty)
}

// kindOf returns the numeric kind of the scalar type ty.
func (e *Evaluator) kindOf(ty types.TypeID) number.Kind {
	return e.types.ScalarKind(ty)
}

// leafKind returns the numeric kind at the leaves of ty.
func (e *Evaluator) leafKind(ty types.TypeID) number.Kind {
	return e.types.ScalarKind(e.types.DeepestElementOf(ty))
}

// value returns the payload of a scalar constant.
func (e *Evaluator) value(id constant.ID) number.Value {
	return e.arena.Value(id)
}

// values flattens a vector constant into its scalars.
func (e *Evaluator) values(id constant.ID) []number.Value {
	n := e.arena.Len(id)
	out := make([]number.Value, n)
	for i := range n {
		out[i] = e.arena.Value(e.arena.Index(id, i))
	}
	return out
}

func notConstant(args []constant.ID) bool {
	for _, a := range args {
		if a == constant.NoID {
			return true
		}
	}
	return false
}

// invalid reports an operand the evaluator has no overload for. Callers
// that pick overloads correctly never see it.
func (e *Evaluator) invalid(sp source.Span, what string, ty types.TypeID) (constant.ID, bool) {
	return e.fail(diag.ConstInvalidOperand, sp, "no constant overload of %s for '%s'", what, e.name(ty))
}

// guard runs fn as entry point what once the operand count (n < 0 means
// any) and the leaf kind of the first operand are validated. Any operand
// that is not a constant makes the result not a constant.
func (e *Evaluator) guard(what string, args []constant.ID, n int, fam types.FamilyMask, sp source.Span, fn func() (constant.ID, bool)) (constant.ID, bool) {
	return e.call(what, sp, func() (constant.ID, bool) {
		if n >= 0 && len(args) != n {
			return e.fail(diag.ConstInvalidOperand, sp, "%s expects %d operand(s), got %d", what, n, len(args))
		}
		if notConstant(args) {
			return constant.NoID, true
		}
		if fam != types.FamilyNone && len(args) > 0 {
			ty := e.arena.Type(args[0])
			if !fam.Accepts(e.leafKind(ty)) {
				return e.invalid(sp, what, ty)
			}
		}
		return fn()
	})
}
