package suite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/testkit"
)

const basicSuite = `
name = "basics"

[[struct]]
name = "Pair"
members = [{ name = "a", type = "i32" }, { name = "b", type = "f32" }]

[[case]]
name = "add"
kind = "binary"
op = "+"
args = [{ type = "i32", value = 1 }, { type = "i32", value = 2 }]
expect = "3i"

[[case]]
name = "wrap"
kind = "binary"
op = "+"
args = [{ type = "i32", value = 2147483647 }, { type = "i32", value = 1 }]
expect = "-2147483648i"

[[case]]
name = "div zero"
kind = "binary"
op = "/"
args = [{ type = "i32", value = 1 }, { type = "i32", value = 0 }]
error = "cannot be represented as 'i32'"

[[case]]
name = "runtime"
kind = "binary"
op = "*"
args = [{ type = "f32", value = 2.0 }, { type = "f32", runtime = true }]
not_const = true

[[case]]
name = "member"
kind = "member"
member = "a"
args = [{ type = "Pair", value = { a = 4, b = 1.5 } }]
expect = "4i"

[[case]]
name = "splat"
kind = "construct"
type = "vec3<f32>"
args = [{ type = "f32", value = 1.5 }]
expect = "vec3<f32>(1.5f, 1.5f, 1.5f)"

[[case]]
name = "wrong"
kind = "binary"
op = "-"
args = [{ type = "u32", value = 5 }, { type = "u32", value = 2 }]
expect = "4u"

[[case]]
name = "bogus"
kind = "teleport"
expect = "1"
`

func writeSuite(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func runSuite(t *testing.T, path string) *Result {
	t.Helper()
	res, err := NewSession(path, nil, 0).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestSessionRun(t *testing.T) {
	res := runSuite(t, writeSuite(t, "basics.toml", basicSuite))
	if res.Suite != "basics" || res.LoadErr != "" {
		t.Fatalf("suite = %q, load error = %q", res.Suite, res.LoadErr)
	}
	want := map[string]struct {
		outcome Outcome
		got     string
	}{
		"add":      {OutcomePass, "3i"},
		"wrap":     {OutcomePass, "-2147483648i"},
		"div zero": {OutcomePass, FailedValue},
		"runtime":  {OutcomePass, RuntimeValue},
		"member":   {OutcomePass, "4i"},
		"splat":    {OutcomePass, "vec3<f32>(1.5f, 1.5f, 1.5f)"},
		"wrong":    {OutcomeFail, "3u"},
		"bogus":    {OutcomeError, FailedValue},
	}
	if len(res.Cases) != len(want) {
		t.Fatalf("got %d cases, want %d", len(res.Cases), len(want))
	}
	for _, c := range res.Cases {
		w, ok := want[c.Name]
		if !ok {
			t.Errorf("unexpected case %q", c.Name)
			continue
		}
		if c.Outcome != w.outcome || c.Got != w.got {
			t.Errorf("%s: outcome=%s got=%q (%s), want %s %q", c.Name, c.Outcome, c.Got, c.Detail, w.outcome, w.got)
		}
	}
	pass, fail, errs := res.Counts()
	if pass != 6 || fail != 1 || errs != 1 {
		t.Fatalf("counts = %d/%d/%d", pass, fail, errs)
	}
	if res.OK() || res.Status() != StatusFailed {
		t.Fatalf("status = %s", res.Status())
	}
}

func TestSessionRendersExpressions(t *testing.T) {
	res := runSuite(t, writeSuite(t, "basics.toml", basicSuite))
	lines := strings.Split(strings.TrimSuffix(res.Source, "\n"), "\n")
	if len(lines) != len(res.Cases) {
		t.Fatalf("source has %d lines for %d cases", len(lines), len(res.Cases))
	}
	want := []string{
		"1i + 2i",
		"2147483647i + 1i",
		"1i / 0i",
		"2f * f32(runtime)",
	}
	for i, w := range want {
		if lines[i] != w || res.Cases[i].Expr != w {
			t.Errorf("line %d = %q (expr %q), want %q", i, lines[i], res.Cases[i].Expr, w)
		}
	}
}

func TestSessionRecordsMismatchAndMalformed(t *testing.T) {
	res := runSuite(t, writeSuite(t, "basics.toml", basicSuite))
	codes := map[diag.Code]int{}
	for _, r := range res.Diags {
		codes[diag.Code(r.Code)]++
	}
	if codes[diag.SuiteExpectMismatch] != 1 {
		t.Errorf("mismatch records = %d", codes[diag.SuiteExpectMismatch])
	}
	if codes[diag.SuiteBadCase] != 1 {
		t.Errorf("bad case records = %d", codes[diag.SuiteBadCase])
	}
	// ожидаемая ошибка деления не попадает в отчёт
	if codes[diag.ConstDivideByZero] != 0 {
		t.Errorf("expected error was recorded")
	}
}

func TestSessionLoadError(t *testing.T) {
	path := writeSuite(t, "broken.toml", "name = \"x\"\n[[case]\n")
	res := runSuite(t, path)
	if res.LoadErr == "" {
		t.Fatal("expected a load error")
	}
	if res.Status() != StatusError {
		t.Fatalf("status = %s", res.Status())
	}
	if len(res.Diags) != 1 || diag.Code(res.Diags[0].Code) != diag.IOLoadFileError || !res.Diags[0].InSuite {
		t.Fatalf("diags = %+v", res.Diags)
	}
}

func TestSessionUnknownStructMemberType(t *testing.T) {
	path := writeSuite(t, "structs.yaml", `
struct:
  - name: Bad
    members:
      - {name: a, type: quaternion}
case:
  - name: ok
    kind: literal
    type: bool
    args: [{type: bool, value: true}]
    expect: "true"
`)
	res := runSuite(t, path)
	if !res.OK() {
		t.Fatalf("cases = %+v", res.Cases)
	}
	if len(res.Diags) != 1 || diag.Code(res.Diags[0].Code) != diag.SuiteUnknownType {
		t.Fatalf("diags = %+v", res.Diags)
	}
}

func TestAttach(t *testing.T) {
	res := runSuite(t, writeSuite(t, "basics.toml", basicSuite))
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	res.Attach(fs, bag)
	if bag.Len() != len(res.Diags) {
		t.Fatalf("bag has %d items, want %d", bag.Len(), len(res.Diags))
	}
	if err := testkit.CheckSpanInvariants(fs, bag.Items()); err != nil {
		t.Fatal(err)
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SuiteExpectMismatch {
			continue
		}
		f := fs.Get(d.Primary.File)
		if f.Path != ExprFileName(res.Path) {
			t.Fatalf("mismatch points to %q", f.Path)
		}
		got := string(f.Content[d.Primary.Start:d.Primary.End])
		if got != "5u - 2u" {
			t.Fatalf("span text = %q", got)
		}
		return
	}
	t.Fatal("no mismatch diagnostic")
}

func TestDigestIgnoresLineEndings(t *testing.T) {
	a := writeSuite(t, "a.toml", "name = \"x\"\n")
	b := writeSuite(t, "b.toml", "name = \"x\"\r\n")
	da, err := NewSession(a, nil, 0).Digest()
	if err != nil {
		t.Fatal(err)
	}
	db, err := NewSession(b, nil, 0).Digest()
	if err != nil {
		t.Fatal(err)
	}
	if da != db {
		t.Fatal("digests differ")
	}
}

func TestAttachLoadErrorPointsIntoSuite(t *testing.T) {
	res := runSuite(t, writeSuite(t, "broken.toml", "name = \"x\"\n[[case]\n"))
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	res.Attach(fs, bag)
	if err := testkit.CheckSpanInvariants(fs, bag.Items()); err != nil {
		t.Fatal(err)
	}
	d, ok := bag.Last()
	if !ok || fs.Get(d.Primary.File).Path == ExprFileName(res.Path) {
		t.Fatalf("load error not in the suite file: %+v", d)
	}
}
