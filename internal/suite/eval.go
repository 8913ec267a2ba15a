package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lumen/internal/constant"
	"lumen/internal/consteval"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/trace"
	"lumen/internal/types"
)

// Run loads the suite and evaluates every case. A failing case does not stop
// the later ones; only cancellation of ctx does.
func (s *Session) Run(ctx context.Context, sink ProgressSink) (*Result, error) {
	span := trace.Begin(s.tracer, trace.ScopeSuite, s.path, trace.CurrentSpan(ctx))
	s.span = span.ID()
	res := &Result{Path: s.path}

	emit(sink, Event{File: s.path, Stage: StageLoad, Status: StatusWorking})
	st, id, err := Load(s.fs, s.path)
	s.suiteFile = id
	if err != nil {
		res.LoadErr = err.Error()
		at := source.Span{File: id}
		var le *LoadError
		if errors.As(err, &le) {
			at = le.Span
		}
		s.record(diag.NewError(diag.IOLoadFileError, at, err.Error()))
		res.Diags = s.records
		span.End("load error")
		return res, nil
	}
	res.Suite = st.Name
	s.declare(st.Structs)

	cases := make([]*prepared, len(st.Cases))
	lines := make([]string, len(st.Cases))
	for i := range st.Cases {
		cases[i] = s.prepare(&st.Cases[i])
		lines[i] = cases[i].text
	}
	res.Source = strings.Join(lines, "\n") + "\n"
	s.exprFile = s.fs.AddVirtual(ExprFileName(s.path), []byte(res.Source))

	emit(sink, Event{File: s.path, Stage: StageEvaluate, Status: StatusWorking, Total: len(cases)})
	var offset uint32
	for i, p := range cases {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return nil, err
		}
		sp := source.Span{File: s.exprFile, Start: offset, End: offset + uint32(len(p.text))} //nolint:gosec // G115: line length fits.
		offset = sp.End + 1
		res.Cases = append(res.Cases, s.runCase(p, sp))
		emit(sink, Event{File: s.path, Stage: StageEvaluate, Status: StatusWorking, Done: i + 1, Total: len(cases)})
	}
	res.Diags = s.records

	pass, fail, errs := res.Counts()
	span.WithExtra("pass", fmt.Sprint(pass)).WithExtra("fail", fmt.Sprint(fail+errs)).End(string(res.Status()))
	return res, nil
}

func (s *Session) runCase(p *prepared, sp source.Span) CaseResult {
	out := CaseResult{Name: p.c.Name, Expr: p.text}
	if p.err != nil {
		out.Outcome = OutcomeError
		out.Got = FailedValue
		out.Detail = p.err.Error()
		s.record(diag.NewError(p.code, sp, p.err.Error()))
		return out
	}

	span := trace.Begin(s.tracer, trace.ScopeCase, p.c.Name, s.span)
	bag := diag.NewBag(0)
	ev := consteval.New(s.arena, diag.NewDedupReporter(diag.BagReporter{Bag: bag}), s.tracer)
	ev.SetTraceParent(span.ID())
	start := time.Now()
	id, ok := s.evaluate(ev, p, sp)

	switch {
	case !ok:
		out.Got = FailedValue
	case id == constant.NoID:
		out.Got = RuntimeValue
	default:
		out.Got = s.arena.Format(id)
	}
	out.Outcome, out.Detail = s.check(p.c, id, ok, bag)
	span.WithExtra("got", out.Got).WithExtra("elapsed", time.Since(start).String()).End(out.Outcome.String())

	if out.Outcome == OutcomePass && p.c.Error != "" {
		// ожидаемая ошибка не попадает в отчёт
		return out
	}
	for _, d := range bag.Items() {
		s.record(d)
	}
	if out.Outcome != OutcomePass {
		s.record(diag.NewError(diag.SuiteExpectMismatch, sp, fmt.Sprintf("case %q: %s", p.c.Name, out.Detail)))
	}
	return out
}

// evaluate dispatches a prepared case to the evaluator.
func (s *Session) evaluate(ev *consteval.Evaluator, p *prepared, sp source.Span) (constant.ID, bool) {
	args := p.args
	switch p.c.Kind {
	case KindLiteral:
		return ev.Literal(p.ty, s.arena.Value(args[0]), sp)
	case KindZero:
		return ev.Zero(p.ty, nil, sp)
	case KindConvert:
		return ev.Convert(p.ty, args[0], sp)
	case KindConstruct:
		return s.construct(ev, p, sp)
	case KindIdentity:
		return ev.Identity(p.ty, args, sp)
	case KindIndex:
		return ev.Index(p.argTys[0], args[0], p.idx, sp)
	case KindMember:
		return ev.MemberAccess(args[0], p.member, sp)
	case KindSwizzle:
		return ev.Swizzle(p.ty, args[0], p.swizzle, sp)
	case KindUnary, KindBinary:
		return p.fn(ev, p.ty, args, sp)
	case KindBuiltin:
		return p.builtin.Eval(ev, p.ty, args, sp)
	}
	return constant.NoID, true
}

// construct picks the constructor form T(args...) the way a resolver would
// from the operand types.
func (s *Session) construct(ev *consteval.Evaluator, p *prepared, sp source.Span) (constant.ID, bool) {
	ty, args, argTys := p.ty, p.args, p.argTys
	tt := s.types.MustLookup(ty)
	allScalars := true
	for _, a := range argTys {
		allScalars = allScalars && s.types.IsScalar(a)
	}

	switch {
	case len(args) == 0:
		return ev.Zero(ty, nil, sp)
	case len(args) == 1 && argTys[0] == ty:
		return ev.Identity(ty, args, sp)
	}
	switch tt.Kind {
	case types.KindVector:
		switch {
		case len(args) == 1 && allScalars:
			return ev.VecSplat(ty, args, sp)
		case len(args) == 1:
			return ev.Conv(ty, args, sp)
		case allScalars && len(args) == int(tt.Count):
			return ev.VecInitScalars(ty, args, sp)
		}
		return ev.VecInitMixed(ty, args, sp)
	case types.KindMatrix:
		switch {
		case len(args) == 1:
			return ev.Conv(ty, args, sp)
		case allScalars:
			return ev.MatInitScalars(ty, args, sp)
		}
		return ev.MatInitColumns(ty, args, sp)
	case types.KindArray, types.KindStruct:
		return ev.ArrayOrStructInit(ty, args, sp)
	}
	return ev.Conv(ty, args, sp)
}

// check compares the evaluation with the expectation of c.
func (s *Session) check(c *Case, id constant.ID, ok bool, bag *diag.Bag) (Outcome, string) {
	var first *diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			first = &d
			break
		}
	}

	switch {
	case c.NotConst:
		if ok && id == constant.NoID {
			return OutcomePass, ""
		}
		return OutcomeFail, "expected a runtime value, " + describe(s.arena, id, ok, first)
	case c.Expect != nil:
		if ok && id != constant.NoID && s.arena.Format(id) == *c.Expect {
			return OutcomePass, ""
		}
		return OutcomeFail, fmt.Sprintf("expected %s, %s", *c.Expect, describe(s.arena, id, ok, first))
	}

	if ok || first == nil {
		return OutcomeFail, fmt.Sprintf("expected error %q, %s", c.Error, describe(s.arena, id, ok, first))
	}
	if !strings.Contains(first.Message, c.Error) {
		return OutcomeFail, fmt.Sprintf("expected error %q, %s", c.Error, describe(s.arena, id, ok, first))
	}
	if c.Note != "" {
		for _, n := range first.Notes {
			if strings.Contains(n.Msg, c.Note) {
				return OutcomePass, ""
			}
		}
		return OutcomeFail, fmt.Sprintf("expected note %q, got %d note(s)", c.Note, len(first.Notes))
	}
	return OutcomePass, ""
}

func describe(arena *constant.Arena, id constant.ID, ok bool, first *diag.Diagnostic) string {
	switch {
	case !ok && first != nil:
		return fmt.Sprintf("got error %q", first.Message)
	case !ok:
		return "got an error"
	case id == constant.NoID:
		return "got a runtime value"
	}
	return "got " + arena.Format(id)
}
