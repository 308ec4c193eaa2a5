package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"astbridge/internal/diag"
	"astbridge/internal/source"
)

func decodeOutput(t *testing.T, buf *bytes.Buffer) DiagnosticsOutput {
	t.Helper()
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	return out
}

func TestJSONBasic(t *testing.T) {
	bag, fs := unresolvedBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := decodeOutput(t, &buf)
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Severity != "WARNING" || d.Code != "LOW2001" || d.Title != "Unresolved symbol" {
		t.Fatalf("unexpected header: %+v", d)
	}
	if d.Location == nil || d.Location.File != "main.c" {
		t.Fatalf("unexpected location: %+v", d.Location)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 9 || d.Location.EndCol != 15 {
		t.Fatalf("unexpected positions: %+v", d.Location)
	}
	if len(d.Notes) != 0 {
		t.Fatalf("notes should be omitted: %+v", d.Notes)
	}
}

func TestJSONNotesAndMissingLocation(t *testing.T) {
	bag, fs := unresolvedBag(t)
	bag.Add(diag.New(diag.SevError, diag.DumpDecodeError, source.Span{}, "unexpected end of input"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := decodeOutput(t, &buf)
	if len(out.Diagnostics[0].Notes) != 1 || out.Diagnostics[0].Notes[0].Message != "inside 'main'" {
		t.Fatalf("unexpected notes: %+v", out.Diagnostics[0].Notes)
	}
	if out.Diagnostics[1].Location != nil {
		t.Fatalf("span without file must have no location")
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("positions were not requested")
	}
}

func TestJSONMaxLimit(t *testing.T) {
	bag := diag.NewBag(0)
	for range 5 {
		bag.Add(diag.New(diag.SevWarning, diag.LowDependentName, source.Span{}, "dependent"))
	}
	out := BuildDiagnosticsOutput(bag, source.NewFileSet(), JSONOpts{Max: 2})
	if out.Count != 2 || out.Dropped != 3 {
		t.Fatalf("count = %d dropped = %d", out.Count, out.Dropped)
	}
}

func TestJSONTimingsKeepPayload(t *testing.T) {
	bag := diag.NewBag(0)
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings (unit): total 1.00 ms")
	d.Notes = []diag.Note{{Msg: `{"kind":"unit"}`}}
	bag.Add(d)
	out := BuildDiagnosticsOutput(bag, nil, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing payload dropped")
	}
}

func TestJSONUnits(t *testing.T) {
	bag, fs := unresolvedBag(t)
	first := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	first.Unit = "a.json"
	var buf bytes.Buffer
	if err := JSONUnits(&buf, []DiagnosticsOutput{first}); err != nil {
		t.Fatalf("JSONUnits: %v", err)
	}
	var doc struct {
		Units []DiagnosticsOutput `json:"units"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Units) != 1 || doc.Units[0].Unit != "a.json" || doc.Units[0].Count != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
