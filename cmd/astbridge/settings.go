package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"astbridge/internal/diag"
	"astbridge/internal/diagfmt"
	"astbridge/internal/driver"
	"astbridge/internal/ir"
	"astbridge/internal/project"
	"astbridge/internal/source"
)

// lowerSettings is the manifest merged with command-line flags; flags win.
type lowerSettings struct {
	manifest *project.Manifest

	roots    []string
	exclude  []string
	format   ir.Format
	outDir   string
	xrefPath string

	jobs           int
	maxDepth       int
	maxDiagnostics int
	werror         bool
	timings        bool
	quiet          bool

	useCache bool
	cacheDir string

	diagFormat string
	ui         uiMode
}

// addLowerFlags registers the flags shared by lower and watch.
func addLowerFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "text", "IR output format (text|json|yaml|msgpack)")
	cmd.Flags().String("out", "", "directory for IR output (stdout when empty)")
	cmd.Flags().String("xref", "", "record symbols in this SQLite cross-reference index")
	cmd.Flags().Int("jobs", 0, "max parallel units (0=auto)")
	cmd.Flags().Int("max-depth", 0, "maximum nesting depth per unit (0=default)")
	cmd.Flags().Bool("no-cache", false, "disable the decoded-dump disk cache")
	cmd.Flags().String("cache-dir", "", "decoded-dump cache directory")
	cmd.Flags().Bool("werror", false, "treat lowering warnings as errors")
	cmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|json|short)")
	cmd.Flags().StringSlice("exclude", nil, "glob patterns of dumps or directories to skip")
}

func loadSettings(cmd *cobra.Command, args []string) (*lowerSettings, error) {
	s := &lowerSettings{useCache: true}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, found, err := project.Load(wd)
	if err != nil {
		var merr *project.ManifestError
		if errors.As(err, &merr) {
			reportManifestError(cmd, merr)
		}
		return nil, err
	}
	if found {
		s.manifest = m
		cfg := m.Config
		s.roots = m.DumpRoots()
		s.exclude = append(s.exclude, cfg.Inputs.Exclude...)
		s.jobs = cfg.Lower.Jobs
		s.maxDepth = cfg.Lower.MaxDepth
		s.werror = cfg.Lower.Werror
		s.outDir = m.Resolve(cfg.Output.Dir)
		s.xrefPath = m.Resolve(cfg.Output.Xref)
		s.useCache = cfg.Cache.Enabled
		s.cacheDir = m.Resolve(cfg.Cache.Dir)
		if s.format, err = ir.ParseFormat(cfg.Output.Format); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		s.roots = args
	}
	if len(s.roots) == 0 {
		return nil, fmt.Errorf("no inputs: pass dump files or directories, or run inside a project (see \"astbridge init\")")
	}
	if flags.Changed("format") || !found {
		value, _ := flags.GetString("format")
		if s.format, err = ir.ParseFormat(value); err != nil {
			return nil, err
		}
	}
	if flags.Changed("out") {
		s.outDir, _ = flags.GetString("out")
	}
	if flags.Changed("xref") {
		s.xrefPath, _ = flags.GetString("xref")
	}
	if flags.Changed("jobs") {
		s.jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("max-depth") {
		s.maxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("werror") {
		s.werror, _ = flags.GetBool("werror")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		s.useCache = false
	}
	if flags.Changed("cache-dir") {
		s.cacheDir, _ = flags.GetString("cache-dir")
	}
	extra, _ := flags.GetStringSlice("exclude")
	s.exclude = append(s.exclude, extra...)
	if s.outDir != "" {
		// our own output must never be picked up as input
		if abs, err := filepath.Abs(s.outDir); err == nil {
			s.exclude = append(s.exclude, abs)
		}
	}

	s.diagFormat, _ = flags.GetString("diag-format")
	switch s.diagFormat {
	case "pretty", "json", "short":
	default:
		return nil, fmt.Errorf("unknown --diag-format %q (expected pretty|json|short)", s.diagFormat)
	}
	if s.jobs < 0 || s.maxDepth < 0 {
		return nil, fmt.Errorf("--jobs and --max-depth must not be negative")
	}

	root := cmd.Root().PersistentFlags()
	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	s.quiet = quiet(cmd)

	if s.outDir == "" && s.format == ir.FormatMsgpack {
		return nil, fmt.Errorf("msgpack output needs --out")
	}
	return s, nil
}

// discover lists the unit dumps named by the settings.
func (s *lowerSettings) discover() ([]string, error) {
	paths, err := driver.Discover(s.roots, s.exclude)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no unit dumps found under %v", s.roots)
	}
	return paths, nil
}

func reportManifestError(cmd *cobra.Command, merr *project.ManifestError) {
	bag := diag.NewBag(1)
	b := diag.ReportError(diag.BagReporter{Bag: bag}, diag.ProjManifestError, source.Span{}, merr.Msg)
	if merr.Err != nil {
		b = b.WithNote(source.Span{}, merr.Err.Error())
	}
	b.Emit()
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, nil, diagfmt.PrettyOpts{
		Color:     colorEnabled(),
		ShowNotes: true,
		Unit:      merr.Path,
	})
}
