package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lumen/internal/diag"
	"lumen/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on diagnostics:
// 1) every primary and note span points to a file of fs
// 2) spans are not inverted
// 3) spans lie within the file content
func CheckSpanInvariants(fs *source.FileSet, items []diag.Diagnostic) error {
	if fs == nil {
		return fmt.Errorf("nil file set")
	}
	for i, d := range items {
		if err := checkSpan(fs, d.Primary); err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Code.ID(), err)
		}
		for j, n := range d.Notes {
			if err := checkSpan(fs, n.Span); err != nil {
				return fmt.Errorf("diagnostic %d (%s), note %d: %w", i, d.Code.ID(), j, err)
			}
		}
	}
	return nil
}

func checkSpan(fs *source.FileSet, sp source.Span) error {
	f := fs.Get(sp.File)
	if f == nil {
		return fmt.Errorf("span %v points to unknown file %d", sp, sp.File)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > lenContent {
		return fmt.Errorf("span end beyond content of %s: %d > %d", f.Path, sp.End, lenContent)
	}
	return nil
}
