package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/source"
)

func divisionBag(fs *source.FileSet, path string) *diag.Bag {
	fileID := fs.Add(path, []byte("1i / 0i\n"), 0)
	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.ConstDivideByZero,
		source.Span{File: fileID, Start: 0, End: 7},
		"integer division by zero is invalid",
	))
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	bag := divisionBag(fs, "/home/user/project/suites/div.lumen")

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/suites/div.lumen"},
		{"Relative path", PathModeRelative, "suites/div.lumen"},
		{"Basename only", PathModeBasename, "div.lumen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.HasPrefix(output, tt.want+":1:1: ") {
				t.Errorf("expected output to start with %q, got:\n%s", tt.want, output)
			}
			for _, s := range []string{"ERROR", "CEV4004", "integer division by zero is invalid"} {
				if !strings.Contains(output, s) {
					t.Errorf("expected %q in output:\n%s", s, output)
				}
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "div.lumen", "div.lumen:1:1"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/div.lumen", "div.lumen:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			bag := divisionBag(fs, tt.path)

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			if !strings.HasPrefix(buf.String(), tt.expected) {
				t.Errorf("expected output to start with %q, got:\n%s", tt.expected, buf.String())
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag := divisionBag(fs, "div.lumen")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	want := "div.lumen:1:1: ERROR CEV4004: integer division by zero is invalid\n" +
		" 1 | 1i / 0i\n" +
		"   | ^~~~~~~\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("ctx.lumen", []byte("a\nsqrt(-1f)\nc\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.ConstDomain, source.Span{File: fileID, Start: 7, End: 10}, "sqrt must be called with a value >= 0"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()
	for _, s := range []string{" 1 | a\n", " 2 | sqrt(-1f)\n", "   |      ^~~\n", " 3 | c\n"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output:\n%s", s, out)
		}
	}
}

func TestPrettyCaretUnderWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("世 + 1i")
	fileID := fs.AddVirtual("wide.lumen", content)
	bag := diag.NewBag(4)
	// "+" стоит после трёх байт руны и пробела
	bag.Add(diag.New(diag.SevWarning, diag.ConstInvalidOperand, source.Span{File: fileID, Start: 4, End: 5}, "odd operand"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "   |    ^\n") {
		t.Fatalf("caret misaligned:\n%s", buf.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("note.lumen", []byte("max(1e39, 0f)\n"))
	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.ConstOverflow, source.Span{File: fileID, Start: 4, End: 8}, "value 1e+39 cannot be represented as 'f32'")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 13}, "when calculating max")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(buf.String(), "  note: note.lumen:1:1: when calculating max\n") {
		t.Fatalf("note missing:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	bag := divisionBag(fs, "div.lumen")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{Color: false})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}
