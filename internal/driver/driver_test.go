package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/xref"
)

const unitJSON = `{
  "schema": "1.0.0",
  "unit": "%s",
  "files": [{"id": 1, "path": "%s", "content": "int x = 1;\n"}],
  "types": [{"id": 1, "kind": "BuiltinType", "name": "Int"}],
  "decls": [{"id": 1, "kind": "VarDecl", "name": "x", "range": {"file": 1, "begin": 4, "end": 5},
             "type": {"type": 1}, "init": 1}],
  "stmts": [{"id": 1, "kind": "IntegerLiteral", "value": "1", "type": {"type": 1}}],
  "top": [1]
}`

func writeUnit(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	src := name[:len(name)-len(filepath.Ext(name))] + ".c"
	body := []byte(fmt.Sprintf(unitJSON, src, src))
	require.NoError(t, os.WriteFile(path, body, 0o600))
	return path
}

func TestDiscoverSortsAndExcludes(t *testing.T) {
	dir := t.TempDir()
	b := writeUnit(t, dir, "b.json")
	a := writeUnit(t, dir, "sub/a.json")
	writeUnit(t, dir, "gen/skip.json")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	got, err := Discover([]string{dir, b}, []string{"gen"})
	require.NoError(t, err)
	require.Equal(t, []string{b, a}, got)

	got, err = Discover([]string{dir}, []string{filepath.Join(dir, "sub"), "gen"})
	require.NoError(t, err)
	require.Equal(t, []string{b}, got)

	_, err = Discover([]string{filepath.Join(dir, "notes.txt")}, nil)
	require.ErrorIs(t, err, foreign.ErrFormat)
}

func TestLowerUnitsKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"u1.json", "u2.json", "u3.json", "u4.json"} {
		paths = append(paths, writeUnit(t, dir, name))
	}
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	paths = append(paths[:2], append([]string{bad}, paths[2:]...)...)

	var (
		mu     sync.Mutex
		events []Event
	)
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	results, err := LowerUnits(context.Background(), paths, Options{Jobs: 3, Progress: sink})
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, res := range results {
		require.Equal(t, paths[i], res.Path)
		if res.Path == bad {
			require.True(t, res.Failed())
			require.Len(t, res.Bag.Filter(diag.DumpDecodeError), 1)
			continue
		}
		require.False(t, res.Failed(), "%s: %v", res.Path, res.Err)
		require.Len(t, res.Result.Module.Decls, 1)
	}

	done := 0
	for _, ev := range events {
		if ev.Status == StatusDone || ev.Status == StatusError {
			done++
		}
	}
	require.Equal(t, len(paths), done)
}

func TestDecodeErrorCodes(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		body string
		code diag.Code
	}{
		{"schema.json", `{"schema": "3.0.0", "unit": "a.c", "top": []}`, diag.DumpSchemaMismatch},
		{"dangling.json", `{"schema": "1.0.0", "unit": "a.c", "top": [7]}`, diag.DumpDanglingRef},
		{"kind.json", `{"schema": "1.0.0", "unit": "a.c", "types": [{"id": 1, "kind": "WeirdType"}], "top": []}`, diag.DumpUnknownKind},
		{"syntax.yaml", "schema: [", diag.DumpDecodeError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o600))
			res := LowerFile(context.Background(), path, Options{})
			require.Error(t, res.Err)
			require.Len(t, res.Bag.Filter(tc.code), 1, "%v", res.Err)
		})
	}

	res := LowerFile(context.Background(), filepath.Join(dir, "missing.json"), Options{})
	require.Len(t, res.Bag.Filter(diag.DumpReadError), 1)
}

func TestDiskCacheServesSecondRun(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "cached.json")
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"), "astbridge")
	require.NoError(t, err)

	first := LowerFile(context.Background(), path, Options{Cache: cache})
	require.NoError(t, first.Err)
	require.False(t, first.Cached)

	second := LowerFile(context.Background(), path, Options{Cache: cache})
	require.NoError(t, second.Err)
	require.True(t, second.Cached)
	require.Len(t, second.Result.Module.Decls, 1)

	require.NoError(t, cache.DropAll())
	third := LowerFile(context.Background(), path, Options{Cache: cache})
	require.False(t, third.Cached)
}

func TestDiskCacheKeyTracksFormat(t *testing.T) {
	data := []byte("{}")
	require.NotEqual(t, CacheKey(data, foreign.FormatJSON), CacheKey(data, foreign.FormatYAML))
	require.Equal(t, CacheKey(data, foreign.FormatJSON), CacheKey(data, foreign.FormatJSON))
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "w.json")
	res := LowerFile(context.Background(), path, Options{})
	require.NoError(t, res.Err)

	out, err := WriteOutput(filepath.Join(dir, "out"), &res, ir.FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "w"+ir.FormatJSON.Ext(), filepath.Base(out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"x"`)

	_, err = WriteOutput(dir, &UnitResult{Path: "none.json"}, ir.FormatText)
	require.Error(t, err)
}

func TestIndexRecordsUnits(t *testing.T) {
	dir := t.TempDir()
	store, err := xref.Open(filepath.Join(dir, "xref.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	runID, err := store.BeginRun(ctx, "test")
	require.NoError(t, err)

	paths := []string{writeUnit(t, dir, "i1.json"), writeUnit(t, dir, "i2.json")}
	results, err := LowerUnits(ctx, paths, Options{Jobs: 2, Index: store, RunID: runID})
	require.NoError(t, err)
	for _, res := range results {
		require.NoError(t, res.Err)
	}

	found, err := store.FindSymbols(ctx, runID, "x")
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestTimingsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "t.json")
	res := LowerFile(context.Background(), path, Options{Timings: true})
	require.NoError(t, res.Err)
	timings := res.Bag.Filter(diag.ObsTimings)
	require.Len(t, timings, 1)
	require.Equal(t, diag.SevInfo, timings[0].Severity)
	require.Len(t, timings[0].Notes, 1)

	var payload unitTimings
	require.NoError(t, json.Unmarshal([]byte(timings[0].Notes[0].Msg), &payload))
	require.Equal(t, "unit", payload.Kind)
	require.Equal(t, path, payload.Path)
	require.Positive(t, payload.Dispatches)
	require.Contains(t, timings[0].Message, "lower")
}

func TestTimingsSurviveFullBag(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.LowDependentName, source.Span{}, "dependent"))
	addTimings(bag, &UnitResult{Path: "u.json"})
	require.Len(t, bag.Items(), 2)
	require.Zero(t, bag.Dropped())
}
