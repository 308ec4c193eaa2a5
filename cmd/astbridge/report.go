package main

import (
	"fmt"
	"io"
	"time"

	"astbridge/internal/diag"
	"astbridge/internal/diagfmt"
	"astbridge/internal/driver"
	"astbridge/internal/source"
)

// summary counts the outcome of a batch of units.
type summary struct {
	units    int
	failed   int
	degraded int
	cached   int
	errors   int
	warnings int
}

func summarize(results []driver.UnitResult) summary {
	var s summary
	s.units = len(results)
	for i := range results {
		r := &results[i]
		if r.Failed() {
			s.failed++
		} else if r.Result.Degraded {
			s.degraded++
		}
		if r.Cached {
			s.cached++
		}
		s.errors += r.Bag.Count(diag.SevError)
		s.warnings += r.Bag.Count(diag.SevWarning)
	}
	return s
}

func (s summary) err() error {
	switch {
	case s.failed > 0:
		return fmt.Errorf("%d of %d unit(s) failed", s.failed, s.units)
	case s.errors > 0:
		return fmt.Errorf("lowering reported %d error(s)", s.errors)
	}
	return nil
}

func (s summary) print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintf(w, "lowered %d unit(s): %d failed, %d degraded, %d error(s), %d warning(s)",
		s.units, s.failed, s.degraded, s.errors, s.warnings)
	if s.cached > 0 {
		fmt.Fprintf(w, ", %d from cache", s.cached)
	}
	fmt.Fprintf(w, " in %.1f ms\n", float64(elapsed.Microseconds())/1000)
}

// printDiagnostics renders the diagnostics of every unit. Quiet mode hides
// informational entries unless timings were asked for.
func printDiagnostics(w io.Writer, results []driver.UnitResult, s *lowerSettings) error {
	switch s.diagFormat {
	case "json":
		units := make([]diagfmt.DiagnosticsOutput, 0, len(results))
		for i := range results {
			r := &results[i]
			out := diagfmt.BuildDiagnosticsOutput(visibleBag(r.Bag, s), r.Files, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			})
			out.Unit = r.Path
			units = append(units, out)
		}
		return diagfmt.JSONUnits(w, units)
	case "short":
		for i := range results {
			r := &results[i]
			bag := visibleBag(r.Bag, s)
			if text := diag.FormatShortDiagnostics(bag.Items(), r.Files, false); text != "" {
				fmt.Fprintln(w, text)
			}
			// entries without a location are not part of the short form
			for _, d := range bag.Items() {
				if d.Primary.File == source.NoFileID {
					fmt.Fprintf(w, "%s %s %s: %s\n", d.Severity, d.Code.ID(), r.Path, d.Message)
				}
			}
		}
		return nil
	default:
		for i := range results {
			r := &results[i]
			bag := visibleBag(r.Bag, s)
			if bag.Len() == 0 {
				continue
			}
			diagfmt.Pretty(w, bag, r.Files, diagfmt.PrettyOpts{
				Color:     colorEnabled(),
				Context:   1,
				ShowNotes: true,
				Unit:      r.Path,
			})
		}
		return nil
	}
}

func visibleBag(bag *diag.Bag, s *lowerSettings) *diag.Bag {
	if bag == nil {
		return diag.NewBag(0)
	}
	bag.Dedup()
	bag.Sort()
	return bag.Without(func(d *diag.Diagnostic) bool {
		return s.quiet && d.Severity == diag.SevInfo && d.Code != diag.ObsTimings
	})
}
