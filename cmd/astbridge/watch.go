package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"astbridge/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]...",
	Short: "Re-lower unit dumps whenever they change",
	Long: `Lower all unit dumps once, then watch their directories and lower again
each time dumps are written. Diagnostics are printed for the changed units
only. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	addLowerFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "quiet period before re-lowering")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	ctx := cmd.Context()
	ss, err := openSession(ctx, s)
	if err != nil {
		return err
	}
	defer ss.Close()

	stderr := cmd.ErrOrStderr()
	rebuild := func(changed []string) {
		paths, err := s.discover()
		if err != nil {
			fmt.Fprintf(stderr, "watch: %v\n", err)
			return
		}
		// the first pass records under the run opened with the session
		if changed != nil {
			if err := ss.newRun(ctx); err != nil {
				fmt.Fprintf(stderr, "watch: %v\n", err)
				return
			}
		}
		started := time.Now()
		results, err := lowerAndWrite(ctx, paths, ss.options(s), s)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				fmt.Fprintf(stderr, "watch: %v\n", err)
			}
			return
		}
		shown := results
		if changed != nil {
			shown = selectUnits(results, changed)
		}
		if err := printDiagnostics(stderr, shown, s); err != nil {
			fmt.Fprintf(stderr, "watch: %v\n", err)
		}
		if !s.quiet {
			if changed != nil {
				fmt.Fprintf(stderr, "changed: %d dump(s)\n", len(changed))
			}
			summarize(results).print(stderr, time.Since(started))
		}
	}

	rebuild(nil)

	dirs, err := watchDirs(s.roots)
	if err != nil {
		return err
	}
	watcher, err := driver.NewWatcher(dirs, s.exclude, debounce)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	if !s.quiet {
		fmt.Fprintf(stderr, "watching %d director(ies), Ctrl-C to stop\n", len(dirs))
	}
	err = watcher.Run(ctx, rebuild)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchDirs maps input roots to directories: a dump file is watched
// through its parent.
func watchDirs(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		dir := root
		if !info.IsDir() {
			dir = filepath.Dir(root)
		}
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	return out, nil
}

func selectUnits(results []driver.UnitResult, paths []string) []driver.UnitResult {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			want[abs] = true
		}
	}
	var out []driver.UnitResult
	for _, r := range results {
		if abs, err := filepath.Abs(r.Path); err == nil && want[abs] {
			out = append(out, r)
		}
	}
	return out
}
