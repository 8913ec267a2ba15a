package diag

import (
	"strings"
	"testing"

	"lumen/internal/source"
)

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{ConstOverflow, "CEV4002"},
		{SuiteBadCase, "SUI2002"},
		{IOLoadFileError, "IO1001"},
		{ObsTimings, "OBS6001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if got := ConstDivideByZero.String(); got != "[CEV4004]: Division or modulo by zero" {
		t.Errorf("String() = %q", got)
	}
	if got := Code(4999).Title(); got != "Unknown error" {
		t.Errorf("unknown title = %q", got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(ConstOverflow, source.Span{File: 0, Start: 5, End: 6}, "b")) {
		t.Fatal("first add rejected")
	}
	b.Add(New(SevWarning, ConstDomain, source.Span{File: 0, Start: 1, End: 2}, "a"))
	if b.Add(NewError(ConstDomain, source.Span{}, "c")) {
		t.Fatal("add over limit accepted")
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("expected errors and warnings")
	}
	b.Sort()
	if b.Items()[0].Message != "a" {
		t.Fatalf("sort order: %+v", b.Items())
	}
	last, ok := b.Last()
	if !ok || last.Message != "b" {
		t.Fatalf("Last = %+v, %v", last, ok)
	}
}

func TestBagMergeAndDedup(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(ConstOverflow, source.Span{}, "x"))
	other := NewBag(4)
	other.Add(NewError(ConstOverflow, source.Span{}, "x"))
	other.Add(NewError(ConstOverflow, source.Span{}, "y"))
	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("Len after merge = %d", a.Len())
	}
	a.Dedup()
	if a.Len() != 2 {
		t.Fatalf("Len after dedup = %d", a.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(8)
	rep := NewDedupReporter(BagReporter{Bag: bag})
	b := ReportError(rep, ConstDomain, source.Span{}, "sqrt must be called with a value >= 0").
		WithNote(source.Span{}, "when calculating length")
	b.Emit()
	b.Emit()
	ReportError(rep, ConstDomain, source.Span{}, "sqrt must be called with a value >= 0").Emit()
	if bag.Len() != 1 {
		t.Fatalf("bag has %d diagnostics, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "when calculating length" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(source.Span{}, "x").Emit()
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("suite.toml#2", []byte("normalize(vec3<f32>(0f, 0f, 0f))\nlength(x)"))
	diags := []Diagnostic{
		NewError(ConstOverflow, source.Span{File: id, Start: 33, End: 39}, "second"),
		NewError(ConstDomain, source.Span{File: id, Start: 0, End: 9}, "zero length vector can not be normalized").
			WithNote(source.Span{File: id, Start: 10, End: 31}, "when calculating normalize"),
	}
	got := FormatGoldenDiagnostics(diags, fs, true)
	want := strings.Join([]string{
		"error CEV4003 suite.toml#2:1:1 zero length vector can not be normalized",
		"note CEV4003 suite.toml#2:1:11 when calculating normalize",
		"error CEV4002 suite.toml#2:2:1 second",
	}, "\n")
	if got != want {
		t.Fatalf("golden mismatch:\n got: %s\nwant: %s", got, want)
	}
	if FormatGoldenDiagnostics(nil, fs, true) != "" {
		t.Fatal("expected empty output")
	}
}
