package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"lumen/internal/source"
)

// Extensions recognised as suite files.
var Extensions = []string{".toml", ".yaml", ".yml"}

// IsSuiteFile reports whether path has a suite extension.
func IsSuiteFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadError is a decoding failure positioned in the suite file.
type LoadError struct {
	Path string
	Span source.Span
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the suite file at path into fset, unless it is there already,
// and decodes it by extension.
func Load(fset *source.FileSet, path string) (*Suite, source.FileID, error) {
	id, ok := fset.GetLatest(path)
	if !ok {
		var err error
		if id, err = fset.Load(path); err != nil {
			return nil, 0, fmt.Errorf("failed to read suite: %w", err)
		}
	}
	f := fset.Get(id)
	s, err := Decode(path, f.Content)
	if err != nil {
		le := &LoadError{Path: path, Span: source.Span{File: id}, Err: err}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			// смещения взяты из файла в памяти
			start := uint32(max(perr.Position.Start, 0))    //nolint:gosec
			end := start + uint32(max(perr.Position.Len, 0)) //nolint:gosec
			le.Span = source.Span{File: id, Start: start, End: end}
		}
		return nil, id, le
	}
	return s, id, nil
}

// Decode parses suite content; the format follows the extension of path.
func Decode(path string, content []byte) (*Suite, error) {
	var s Suite
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(content), &s)
		if err != nil {
			return nil, err
		}
		if keys := unknownKeys(meta.Undecoded()); len(keys) > 0 {
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported suite format %q", filepath.Ext(path))
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}

// unknownKeys drops keys inside operand values: a struct value written as a
// table is decoded into an interface and its keys are never marked.
func unknownKeys(undecoded []toml.Key) []string {
	var out []string
	for _, k := range undecoded {
		if len(k) > 0 && slices.Contains(k[1:], "value") {
			continue
		}
		out = append(out, k.String())
	}
	return out
}

// Discover expands files and directories into a sorted list of suite files.
func Discover(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path == p || IsSuiteFile(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return slices.Compact(out), nil
}
