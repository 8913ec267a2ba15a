package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the content of lumen.toml. Every field is a default that CLI
// flags override.
type Config struct {
	Eval EvalConfig `toml:"eval"`
}

// EvalConfig holds the [eval] section.
type EvalConfig struct {
	Suites   []string `toml:"suites"`    // пути относительно корня проекта
	Jobs     int      `toml:"jobs"`      // 0 - GOMAXPROCS
	Format   string   `toml:"format"`    // pretty|json|sarif
	Cache    *bool    `toml:"cache"`     // nil - включён
	CacheDir string   `toml:"cache_dir"` // пусто - $XDG_CACHE_HOME/lumen
	Notes    bool     `toml:"notes"`
}

// Manifest is a loaded lumen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

var knownFormats = map[string]bool{"": true, "pretty": true, "json": true, "sarif": true}

// LoadConfig parses and validates lumen.toml at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("eval", "jobs") && cfg.Eval.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [eval].jobs must not be negative", path)
	}
	if !knownFormats[cfg.Eval.Format] {
		return Config{}, fmt.Errorf("%s: [eval].format must be pretty, json or sarif, got %q", path, cfg.Eval.Format)
	}
	return cfg, nil
}

// LoadManifest finds lumen.toml from startDir upwards and loads it.
// ok is false when there is no manifest.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// SuitePaths resolves [eval].suites against the project root.
func (m *Manifest) SuitePaths() []string {
	out := make([]string, 0, len(m.Config.Eval.Suites))
	for _, s := range m.Config.Eval.Suites {
		if filepath.IsAbs(s) {
			out = append(out, s)
			continue
		}
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(s)))
	}
	return out
}

// CacheEnabled reports [eval].cache, defaulting to true.
func (c EvalConfig) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}
