package suite

import (
	"lumen/internal/diag"
	"lumen/internal/source"
)

// Record is a diagnostic whose spans are offsets into either the suite file
// or the rendered expression file of the same Result.
type Record struct {
	InSuite  bool         `msgpack:"in_suite"`
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Start    uint32       `msgpack:"start"`
	End      uint32       `msgpack:"end"`
	Message  string       `msgpack:"msg"`
	Notes    []RecordNote `msgpack:"notes,omitempty"`
}

// RecordNote is a note of a Record.
type RecordNote struct {
	InSuite bool   `msgpack:"in_suite"`
	Start   uint32 `msgpack:"start"`
	End     uint32 `msgpack:"end"`
	Message string `msgpack:"msg"`
}

func recordOf(d diag.Diagnostic, suiteFile source.FileID) Record {
	r := Record{
		InSuite:  d.Primary.File == suiteFile,
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Start:    d.Primary.Start,
		End:      d.Primary.End,
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		r.Notes = append(r.Notes, RecordNote{
			InSuite: n.Span.File == suiteFile,
			Start:   n.Span.Start,
			End:     n.Span.End,
			Message: n.Msg,
		})
	}
	return r
}

func pick(inSuite bool, suiteFile, exprFile source.FileID) source.FileID {
	if inSuite {
		return suiteFile
	}
	return exprFile
}

// Diagnostic rebinds the record to files of a FileSet.
func (r Record) Diagnostic(suiteFile, exprFile source.FileID) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.Severity(r.Severity),
		Code:     diag.Code(r.Code),
		Message:  r.Message,
		Primary:  source.Span{File: pick(r.InSuite, suiteFile, exprFile), Start: r.Start, End: r.End},
	}
	for _, n := range r.Notes {
		d.Notes = append(d.Notes, diag.Note{
			Span: source.Span{File: pick(n.InSuite, suiteFile, exprFile), Start: n.Start, End: n.End},
			Msg:  n.Message,
		})
	}
	return d
}

// ExprFileName is the name of the rendered expression file of a suite.
func ExprFileName(path string) string {
	return path + "#eval"
}

// Attach registers the files of r in fs and adds its diagnostics to bag.
// The suite file itself is loaded only when a diagnostic points into it.
func (r *Result) Attach(fs *source.FileSet, bag *diag.Bag) {
	suiteFile := source.FileID(0)
	needSuite := false
	for _, rec := range r.Diags {
		needSuite = needSuite || rec.InSuite
		for _, n := range rec.Notes {
			needSuite = needSuite || n.InSuite
		}
	}
	if needSuite {
		id, err := fs.Load(r.Path)
		if err != nil {
			id = fs.AddVirtual(r.Path, nil)
		}
		suiteFile = id
	}
	exprFile := fs.AddVirtual(ExprFileName(r.Path), []byte(r.Source))
	for _, rec := range r.Diags {
		bag.Add(rec.Diagnostic(suiteFile, exprFile))
	}
}
