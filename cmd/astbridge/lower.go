package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"astbridge/internal/driver"
	"astbridge/internal/ir"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [dump|dir]...",
	Short: "Lower unit dumps into IR",
	Long: `Lower every unit dump named on the command line (directories are searched
recursively). Without arguments the inputs of astbridge.toml are used. Units
are independent: a failing unit is reported and the others still lower.`,
	RunE: runLower,
}

func init() {
	addLowerFlags(lowerCmd)
	lowerCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runLower(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return err
	}
	paths, err := s.discover()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ss, err := openSession(ctx, s)
	if err != nil {
		return err
	}
	defer ss.Close()

	started := time.Now()
	opts := ss.options(s)
	run := func(ctx context.Context, sink driver.ProgressSink) ([]driver.UnitResult, error) {
		opts.Progress = sink
		return lowerAndWrite(ctx, paths, opts, s)
	}
	var results []driver.UnitResult
	if shouldUseTUI(s.ui, len(paths), s.quiet) {
		results, err = runWithUI(ctx, "lowering", paths, run)
	} else {
		results, err = run(ctx, nil)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.outDir == "" {
		if err := printModules(out, results, s.format); err != nil {
			return err
		}
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), results, s); err != nil {
		return err
	}
	sum := summarize(results)
	if !s.quiet {
		sum.print(cmd.ErrOrStderr(), time.Since(started))
	}
	return sum.err()
}

// lowerAndWrite lowers paths and, when an output directory is set, writes
// one IR file per successful unit. A write failure fails only that unit.
func lowerAndWrite(ctx context.Context, paths []string, opts driver.Options, s *lowerSettings) ([]driver.UnitResult, error) {
	results, err := driver.LowerUnits(ctx, paths, opts)
	if err != nil || s.outDir == "" {
		return results, err
	}
	owners := make(map[string]string, len(results))
	for i := range results {
		r := &results[i]
		if r.Failed() {
			continue
		}
		notify(opts.Progress, driver.Event{Unit: r.Path, Stage: driver.StageWrite, Status: driver.StatusWorking})
		started := time.Now()
		name := driver.OutputName(r.Path, s.format)
		if prev, dup := owners[name]; dup {
			r.Err = fmt.Errorf("output %s of %s collides with %s", name, r.Path, prev)
		} else {
			owners[name] = r.Path
			_, r.Err = driver.WriteOutput(s.outDir, r, s.format)
		}
		status := driver.StatusDone
		if r.Err != nil {
			status = driver.StatusError
		}
		notify(opts.Progress, driver.Event{Unit: r.Path, Stage: driver.StageWrite, Status: status, Err: r.Err, Elapsed: time.Since(started)})
	}
	return results, nil
}

func notify(sink driver.ProgressSink, ev driver.Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// printModules writes the IR of every successful unit to w.
func printModules(w io.Writer, results []driver.UnitResult, format ir.Format) error {
	for i := range results {
		r := &results[i]
		if r.Failed() {
			continue
		}
		data, err := ir.Encode(r.Result.Module, format, r.Files)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.Path, err)
		}
		if len(results) > 1 && format == ir.FormatText {
			fmt.Fprintf(w, "== %s\n", r.Path)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
