package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"astbridge/internal/diag"
	"astbridge/internal/driver"
	"astbridge/internal/ir"
	"astbridge/internal/lower"
	"astbridge/internal/project"
	"astbridge/internal/source"
	"astbridge/internal/trace"
	"astbridge/internal/version"
)

const unitJSON = `{
  "schema": "1.0.0",
  "unit": "%[1]s",
  "files": [{"id": 1, "path": "%[1]s", "content": "int x = 1;\n"}],
  "types": [{"id": 1, "kind": "BuiltinType", "name": "Int"}],
  "decls": [{"id": 1, "kind": "VarDecl", "name": "x", "range": {"file": 1, "begin": 4, "end": 5},
             "type": {"type": 1}, "init": 1}],
  "stmts": [{"id": 1, "kind": "IntegerLiteral", "value": "1", "type": {"type": 1}}],
  "top": [1]
}`

func writeDump(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	body := fmt.Sprintf(unitJSON, strings.TrimSuffix(filepath.Base(path), ".json")+".c")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if shouldUseTUI(uiModeAuto, 5, true) {
		t.Fatalf("quiet runs must not use the progress view")
	}
	if !shouldUseTUI(uiModeOn, 1, true) || shouldUseTUI(uiModeOff, 10, false) {
		t.Fatalf("explicit modes must win")
	}
}

func TestSummaryError(t *testing.T) {
	okBag := diag.NewBag(0)
	errBag := diag.NewBag(0)
	errBag.Add(diag.New(diag.SevError, diag.LowUnimplementedStmt, source.Span{}, "unsupported"))
	results := []driver.UnitResult{
		{Path: "a.json", Bag: okBag, Result: &lower.Result{Degraded: true}},
		{Path: "b.json", Bag: errBag, Err: errors.New("decode failed")},
		{Path: "c.json", Bag: diag.NewBag(0), Result: &lower.Result{}, Cached: true},
	}
	sum := summarize(results)
	if sum.units != 3 || sum.failed != 1 || sum.degraded != 1 || sum.cached != 1 || sum.errors != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if err := sum.err(); err == nil || err.Error() != "1 of 3 unit(s) failed" {
		t.Fatalf("err = %v", err)
	}
	if err := summarize(results[2:]).err(); err != nil {
		t.Fatalf("clean batch reported %v", err)
	}

	var buf bytes.Buffer
	sum.print(&buf, 0)
	if !strings.Contains(buf.String(), "lowered 3 unit(s): 1 failed, 1 degraded") ||
		!strings.Contains(buf.String(), "1 from cache") {
		t.Fatalf("unexpected summary line %q", buf.String())
	}
}

func TestVisibleBagQuietKeepsTimings(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.LowDependentName, source.Span{}, "dependent"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings"))
	bag.Add(diag.New(diag.SevWarning, diag.LowDependentName, source.Span{}, "warn"))

	got := visibleBag(bag, &lowerSettings{quiet: true})
	if got.Len() != 2 {
		t.Fatalf("quiet bag has %d entries, want 2", got.Len())
	}
	if visibleBag(bag, &lowerSettings{}).Len() != 3 {
		t.Fatalf("non-quiet bag must keep everything")
	}
}

func TestLowerAndWriteDetectsCollisions(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "unit.json")
	second := filepath.Join(dir, "b", "unit.json")
	writeDump(t, first)
	writeDump(t, second)
	out := filepath.Join(dir, "out")

	s := &lowerSettings{outDir: out, format: ir.FormatJSON}
	results, err := lowerAndWrite(context.Background(), []string{first, second}, driver.Options{Jobs: 2}, s)
	if err != nil {
		t.Fatalf("lowerAndWrite: %v", err)
	}
	if results[0].Failed() {
		t.Fatalf("first unit failed: %v", results[0].Err)
	}
	if results[1].Err == nil || !strings.Contains(results[1].Err.Error(), "collides with") {
		t.Fatalf("expected collision, got %v", results[1].Err)
	}
	if _, err := os.Stat(filepath.Join(out, driver.OutputName(first, ir.FormatJSON))); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestPrintModulesHeaders(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeDump(t, a)
	writeDump(t, b)
	results, err := driver.LowerUnits(context.Background(), []string{a, b}, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := printModules(&buf, results, ir.FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "== "+a) || !strings.Contains(buf.String(), "== "+b) {
		t.Fatalf("missing unit headers:\n%s", buf.String())
	}
}

func TestWatchHelpers(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "sub", "u.json")
	writeDump(t, dump)

	dirs, err := watchDirs([]string{dir, dump, filepath.Join(dir, "sub")})
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 2 || dirs[0] != filepath.Clean(dir) || dirs[1] != filepath.Join(dir, "sub") {
		t.Fatalf("unexpected watch dirs %v", dirs)
	}
	if _, err := watchDirs([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected error for a missing root")
	}

	results := []driver.UnitResult{{Path: dump}, {Path: filepath.Join(dir, "other.json")}}
	got := selectUnits(results, []string{dump})
	if len(got) != 1 || got[0].Path != dump {
		t.Fatalf("selectUnits = %+v", got)
	}
}

func TestRunInitCreatesManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	var out bytes.Buffer
	initCmd.SetOut(&out)
	defer initCmd.SetOut(nil)

	if err := runInit(initCmd, []string{dir}); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	m, found, err := project.Load(dir)
	if err != nil || !found {
		t.Fatalf("manifest not loadable: found=%v err=%v", found, err)
	}
	if m.Config.Project.Name != "demo" {
		t.Fatalf("project name = %q", m.Config.Project.Name)
	}
	if st, err := os.Stat(filepath.Join(dir, "dumps")); err != nil || !st.IsDir() {
		t.Fatalf("dumps directory missing")
	}
	if err := runInit(initCmd, []string{dir}); err == nil {
		t.Fatalf("second init must fail")
	}
}

func TestVersionJSON(t *testing.T) {
	origVersion, origCommit := version.Version, version.GitCommit
	defer func() { version.Version, version.GitCommit = origVersion, origCommit }()
	version.Version, version.GitCommit = "1.2.3", " abc "

	var buf bytes.Buffer
	if err := writeVersionJSON(&buf, newVersionReport(buildFields{hash: true})); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{`"version": "1.2.3"`, `"git_commit": "abc"`, `"dump_schema": "1.0.0"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, "build_date") {
		t.Fatalf("unrequested field in %s", s)
	}
}

func TestTraceFlagsOutputEnablesPhaseLevel(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	t.Cleanup(func() {
		_ = flags.Set("trace", "")
		_ = flags.Set("trace-mode", "ring")
	})
	if err := flags.Set("trace", "run.ndjson"); err != nil {
		t.Fatal(err)
	}
	cfg, err := traceFlags(versionCmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != trace.LevelPhase || cfg.OutputPath != "run.ndjson" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if err := flags.Set("trace-mode", "tape"); err != nil {
		t.Fatal(err)
	}
	if _, err := traceFlags(versionCmd); err == nil {
		t.Fatalf("unknown trace mode must fail")
	}
}
