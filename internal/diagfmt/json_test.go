package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/source"
)

func overflowBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("suites/mix.toml#4", []byte("a\nmix(1e38f, 2f, 3f)\n"))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.ConstOverflow, source.Span{File: fileID, Start: 6, End: 11},
		"'1e+38 * -2' cannot be represented as 'f32'")
	d = d.WithNote(source.Span{File: fileID, Start: 2, End: 20}, "when calculating mix")
	bag.Add(d)
	bag.Add(diag.New(diag.SevInfo, diag.ConstNotConstant, source.Span{File: fileID, Start: 2, End: 5}, "operand is not a constant"))
	return bag, fs
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := overflowBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got count=%d len=%d", output.Count, len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "CEV4002" {
		t.Errorf("unexpected severity/code: %s %s", d.Severity, d.Code)
	}
	if d.Title != diag.ConstOverflow.Title() {
		t.Errorf("unexpected title %q", d.Title)
	}
	loc := d.Location
	if loc.File != "suites/mix.toml#4" || loc.StartByte != 6 || loc.EndByte != 11 {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.StartLine != 2 || loc.StartCol != 5 || loc.EndLine != 2 || loc.EndCol != 10 {
		t.Errorf("unexpected positions %+v", loc)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "when calculating mix" {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
	if d.Notes[0].Location.StartLine != 2 || d.Notes[0].Location.StartCol != 1 {
		t.Errorf("unexpected note location %+v", d.Notes[0].Location)
	}
	if output.Diagnostics[1].Severity != "INFO" || output.Diagnostics[1].Code != "CEV4011" {
		t.Errorf("unexpected second diagnostic %+v", output.Diagnostics[1])
	}
}

func TestJSONWithoutPositionsOrNotes(t *testing.T) {
	bag, fs := overflowBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Location.StartCol != 0 {
		t.Errorf("positions present without IncludePositions: %+v", d.Location)
	}
	if len(d.Notes) != 0 {
		t.Errorf("notes present without IncludeNotes: %+v", d.Notes)
	}
}

func TestJSONTimingsKeepNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("timings", []byte("x"))
	bag := diag.NewBag(4)
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "timings")
	bag.Add(d.WithNote(source.Span{File: fileID}, "evaluate: 1.00ms"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing notes dropped: %+v", out.Diagnostics[0])
	}
}

func TestJSONMaxLimit(t *testing.T) {
	bag, fs := overflowBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Code != "CEV4002" {
		t.Fatalf("unexpected truncated output %+v", out)
	}
}

func TestParsePathMode(t *testing.T) {
	for _, s := range []string{"auto", "absolute", "relative", "basename"} {
		m, err := ParsePathMode(s)
		if err != nil {
			t.Fatalf("ParsePathMode(%q): %v", s, err)
		}
		if m.String() != s {
			t.Errorf("round trip %q -> %q", s, m.String())
		}
	}
	if _, err := ParsePathMode("home"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestSarif(t *testing.T) {
	bag, fs := overflowBag(t)

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "lumen", ToolVersion: "0.1.0", InvocationArgs: []string{"eval", "suites"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "lumen" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected driver %+v", run.Tool.Driver)
	}
	if run.Tool.Driver.Rules[0].ID != "CEV4002" || run.Tool.Driver.Rules[1].ID != "CEV4011" {
		t.Errorf("rules not sorted: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	r := run.Results[0]
	if r.Level != "error" || r.Locations[0].Physical.Region.StartLine != 2 {
		t.Errorf("unexpected result %+v", r)
	}
	if len(r.RelatedLocations) != 1 || r.RelatedLocations[0].Message.Text != "when calculating mix" {
		t.Errorf("unexpected related locations %+v", r.RelatedLocations)
	}
	if run.Results[1].Level != "note" {
		t.Errorf("info should map to note, got %q", run.Results[1].Level)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("unexpected invocation %+v", run.Invocations)
	}
}
