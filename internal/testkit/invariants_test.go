package testkit

import (
	"testing"

	"lumen/internal/diag"
	"lumen/internal/source"
)

func TestCheckSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("expr", []byte("1i + 2i\n"))
	good := diag.NewError(diag.ConstOverflow, source.Span{File: id, Start: 0, End: 7}, "m").
		WithNote(source.Span{File: id, Start: 5, End: 7}, "n")
	if err := CheckSpanInvariants(fs, []diag.Diagnostic{good}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []source.Span{
		{File: id + 1, Start: 0, End: 1},
		{File: id, Start: 4, End: 2},
		{File: id, Start: 0, End: 40},
	}
	for _, sp := range tests {
		d := diag.NewError(diag.ConstOverflow, sp, "m")
		if err := CheckSpanInvariants(fs, []diag.Diagnostic{d}); err == nil {
			t.Errorf("span %v: expected an error", sp)
		}
	}
	bad := diag.NewError(diag.ConstOverflow, source.Span{File: id}, "m").
		WithNote(source.Span{File: id, Start: 0, End: 99}, "n")
	if err := CheckSpanInvariants(fs, []diag.Diagnostic{bad}); err == nil {
		t.Error("note span: expected an error")
	}
}
