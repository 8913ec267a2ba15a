package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lumen/internal/diag"
	"lumen/internal/diagfmt"
	"lumen/internal/observ"
	"lumen/internal/project"
	"lumen/internal/source"
	"lumen/internal/suite"
	"lumen/internal/trace"
	"lumen/internal/version"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] [file|directory]...",
	Short: "Evaluate constant-expression suites",
	Long: `Evaluate the cases of suite files (*.toml, *.yaml, *.yml) and compare them with the expected results.
Without arguments the suites listed in lumen.toml are used.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	evalCmd.Flags().Int("jobs", 0, "max parallel suites (0=auto)")
	evalCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	evalCmd.Flags().String("cache-dir", "", "result cache directory (default $XDG_CACHE_HOME/lumen)")
	evalCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	evalCmd.Flags().Bool("clear-cache", false, "drop cached results before evaluating")
	evalCmd.Flags().Bool("notes", false, "include diagnostic notes in output")
	evalCmd.Flags().String("path-mode", "auto", "file paths in output (auto|absolute|relative|basename)")
}

// evalSettings are the eval flags merged with the [eval] table of lumen.toml.
type evalSettings struct {
	format     string
	jobs       int
	ui         uiMode
	cacheDir   string
	noCache    bool
	clearCache bool
	notes      bool
	pathMode   diagfmt.PathMode
	maxDiags   int
	quiet      bool
	timings    bool
	paths      []string
	baseDir    string // корень проекта или рабочий каталог
}

func readEvalSettings(cmd *cobra.Command, args []string) (*evalSettings, error) {
	s := &evalSettings{paths: args}
	var err error
	flags := cmd.Flags()
	if s.format, err = flags.GetString("format"); err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	if s.cacheDir, err = flags.GetString("cache-dir"); err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if s.noCache, err = flags.GetBool("no-cache"); err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if s.clearCache, err = flags.GetBool("clear-cache"); err != nil {
		return nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if s.notes, err = flags.GetBool("notes"); err != nil {
		return nil, fmt.Errorf("failed to get notes flag: %w", err)
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if s.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return nil, err
	}

	root := cmd.Root().PersistentFlags()
	if s.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	// lumen.toml задаёт значения по умолчанию, флаги важнее
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, found, err := project.LoadManifest(cwd)
	if err != nil {
		return nil, err
	}
	s.baseDir = cwd
	if found {
		s.baseDir = manifest.Root
		cfg := manifest.Config.Eval
		if !flags.Changed("format") && cfg.Format != "" {
			s.format = cfg.Format
		}
		if !flags.Changed("jobs") && cfg.Jobs > 0 {
			s.jobs = cfg.Jobs
		}
		if !flags.Changed("cache-dir") && cfg.CacheDir != "" {
			s.cacheDir = cfg.CacheDir
			if !filepath.IsAbs(s.cacheDir) {
				s.cacheDir = filepath.Join(manifest.Root, s.cacheDir)
			}
		}
		if !flags.Changed("no-cache") && !cfg.CacheEnabled() {
			s.noCache = true
		}
		if !flags.Changed("notes") {
			s.notes = cfg.Notes
		}
		if len(s.paths) == 0 {
			s.paths = manifest.SuitePaths()
		}
	}

	switch s.format {
	case "pretty", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown format: %s", s.format)
	}
	if s.jobs < 0 {
		return nil, fmt.Errorf("--jobs must not be negative")
	}
	if len(s.paths) == 0 {
		return nil, errors.New("no suites given and no lumen.toml with [eval].suites found")
	}
	return s, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	settings, err := readEvalSettings(cmd, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)

	files, err := suite.Discover(settings.paths)
	if err != nil {
		return fmt.Errorf("failed to find suites: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no suite files under %v", settings.paths)
	}

	timer := observ.NewTimer()
	opts := suite.Options{
		Jobs:           settings.jobs,
		MaxDiagnostics: settings.maxDiags,
		Tracer:         tracer,
		Timer:          timer,
	}
	if !settings.noCache {
		cache, err := suite.OpenCache(settings.cacheDir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if settings.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		opts.Cache = cache
	}

	var results []*suite.Result
	if settings.format == "pretty" && !settings.quiet && shouldUseTUI(settings.ui) {
		results, err = runSuitesWithUI(ctx, "lumen eval", files, opts)
	} else {
		results, err = suite.Run(ctx, files, opts)
	}
	if err != nil {
		dumpTraceRing(tracer)
		return err
	}

	out := cmd.OutOrStdout()
	idx := timer.Begin("render")
	switch settings.format {
	case "pretty":
		renderEvalPretty(out, results, settings)
	case "json":
		err = renderEvalJSON(out, results, settings, timer)
	case "sarif":
		err = renderEvalSarif(out, results, settings, timer)
	}
	timer.End(idx, "")
	if err != nil {
		return err
	}
	if settings.timings && settings.format == "pretty" {
		printTimings(cmd.ErrOrStderr(), timer)
	}

	for _, r := range results {
		if !r.OK() {
			dumpTraceRing(tracer)
			return exitCodeError{code: 1}
		}
	}
	return nil
}

// attachAll rebinds every result into one FileSet and Bag.
func attachAll(results []*suite.Result, baseDir string) (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSetWithBase(baseDir)
	bag := diag.NewBag(0)
	for _, r := range results {
		r.Attach(fs, bag)
	}
	bag.Sort()
	return fs, bag
}

func renderEvalPretty(out io.Writer, results []*suite.Result, s *evalSettings) {
	fs, bag := attachAll(results, s.baseDir)
	diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		PathMode:  s.pathMode,
		ShowNotes: s.notes,
	})
	if s.quiet {
		return
	}

	var pass, fail, errs int
	for _, r := range results {
		p, f, e := r.Counts()
		pass, fail, errs = pass+p, fail+f, errs+e
		fmt.Fprintf(out, "%s %s%s\n", statusBadge(r), r.Path, suiteDetail(r, p, f, e))
	}
	summary := color.New(color.Bold)
	fmt.Fprintf(out, "%s %d passed, %d failed, %d malformed in %d suite(s)\n",
		summary.Sprint("total:"), pass, fail, errs, len(results))
}

func statusBadge(r *suite.Result) string {
	switch r.Status() {
	case suite.StatusDone:
		return color.New(color.FgGreen, color.Bold).Sprint("PASS ")
	case suite.StatusFailed:
		return color.New(color.FgRed, color.Bold).Sprint("FAIL ")
	}
	return color.New(color.FgRed, color.Bold).Sprint("ERROR")
}

func suiteDetail(r *suite.Result, pass, fail, errs int) string {
	if r.LoadErr != "" {
		return ""
	}
	detail := fmt.Sprintf(" (%d/%d", pass, pass+fail+errs)
	if r.Cached {
		detail += ", cached"
	}
	return detail + ")"
}

// evalReport is the JSON output of eval.
type evalReport struct {
	Tool    string         `json:"tool"`
	Version string         `json:"version"`
	Suites  []suiteReport  `json:"suites"`
	OK      bool           `json:"ok"`
	Timings *observ.Report `json:"timings,omitempty"`
}

type suiteReport struct {
	*suite.Result
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
}

func renderEvalJSON(out io.Writer, results []*suite.Result, s *evalSettings, timer *observ.Timer) error {
	report := evalReport{Tool: "lumen", Version: version.Version, OK: true}
	fs := source.NewFileSetWithBase(s.baseDir)
	opts := diagfmt.JSONOpts{IncludePositions: true, PathMode: s.pathMode, IncludeNotes: s.notes}
	for _, r := range results {
		bag := diag.NewBag(0)
		r.Attach(fs, bag)
		report.Suites = append(report.Suites, suiteReport{
			Result:      r,
			Diagnostics: diagfmt.BuildDiagnostics(bag.Items(), fs, opts),
		})
		report.OK = report.OK && r.OK()
	}
	if s.timings {
		t := timer.Report()
		report.Timings = &t
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func renderEvalSarif(out io.Writer, results []*suite.Result, s *evalSettings, timer *observ.Timer) error {
	fs, bag := attachAll(results, s.baseDir)
	if s.timings {
		id := fs.AddVirtual("<timings>", nil)
		bag.Add(timer.Diagnostic(source.Span{File: id}))
	}
	return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
		ToolName:       "lumen",
		ToolVersion:    version.Version,
		InvocationArgs: os.Args,
	})
}
