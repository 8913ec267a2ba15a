package observ

import (
	"errors"
	"strings"
	"testing"
	"time"

	"lumen/internal/diag"
	"lumen/internal/source"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 files")
	tm.Add("evaluate", 2*time.Millisecond, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "3 files" {
		t.Errorf("unexpected first phase %+v", r.Phases[0])
	}
	if r.Phases[1].DurationMS != 2 {
		t.Errorf("evaluate = %v ms, want 2", r.Phases[1].DurationMS)
	}
	if r.TotalMS < 2 {
		t.Errorf("total %v below evaluate phase", r.TotalMS)
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 3 files", "evaluate", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary lacks %q:\n%s", want, s)
		}
	}
}

func TestMeasureRecordsFailure(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Measure("render", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure returned %v", err)
	}
	if note := tm.Report().Phases[0].Note; note != "failed: boom" {
		t.Errorf("note = %q", note)
	}
}

func TestMergeSumsEqualPhases(t *testing.T) {
	a := NewTimer()
	a.Add("evaluate", time.Millisecond, "")
	b := NewTimer()
	b.Add("evaluate", 3*time.Millisecond, "")
	b.Add("render", time.Millisecond, "")

	a.Merge(b)
	a.Merge(a)
	r := a.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases after merge, got %+v", r.Phases)
	}
	if r.Phases[0].DurationMS != 4 || r.TotalMS != 5 {
		t.Errorf("unexpected merged report %+v", r)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("empty timer report = %+v", r)
	}
}

func TestTimerDiagnostic(t *testing.T) {
	tm := NewTimer()
	tm.Add("load", time.Millisecond, "")
	tm.Add("evaluate", time.Millisecond, "")

	d := tm.Diagnostic(source.Span{})
	if d.Code != diag.ObsTimings || d.Severity != diag.SevInfo {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Message != "total 2.00 ms" || len(d.Notes) != 2 || d.Notes[1].Msg != "evaluate: 1.00 ms" {
		t.Errorf("unexpected content %+v", d)
	}
}
