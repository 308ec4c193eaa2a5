package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"astbridge/internal/diag"
	"astbridge/internal/source"
)

func unresolvedBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("int main() {\n\treturn helper(1);\n}\n")
	fileID := fs.AddVirtual("/home/user/project/src/main.c", content)

	bag := diag.NewBag(10)
	start := uint32(strings.Index(string(content), "helper"))
	d := diag.New(diag.SevWarning, diag.LowUnresolvedSymbol,
		source.Span{File: fileID, Start: start, End: start + 6},
		"unresolved reference to 'helper'")
	d.Notes = append(d.Notes, diag.Note{Span: source.Span{File: fileID, Start: 4, End: 8}, Msg: "inside 'main'"})
	bag.Add(d)
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := unresolvedBag(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/main.c:2:9"},
		{"relative", PathModeRelative, "src/main.c:2:9"},
		{"basename", PathModeBasename, "main.c:2:9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Fatalf("expected %q in:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, "WARNING LOW2001: unresolved reference to 'helper'") {
				t.Fatalf("missing header in:\n%s", out)
			}
		})
	}
}

func TestPrettyUnderlinesSpanAfterTab(t *testing.T) {
	bag, fs := unresolvedBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	src, marks := lines[1], lines[2]
	if !strings.Contains(src, "    return helper(1);") {
		t.Fatalf("tab not expanded: %q", src)
	}
	col := strings.Index(src, "helper")
	if got := strings.Index(marks, "^~~~~~"); got != col {
		t.Fatalf("caret at %d, want %d\n%s\n%s", got, col, src, marks)
	}
}

func TestPrettyNotesAndUnitLabel(t *testing.T) {
	bag, fs := unresolvedBag(t)
	bag.Add(diag.New(diag.SevError, diag.DumpSchemaMismatch, source.Span{}, "schema 9.0.0 not supported"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, Unit: "dumps/main.json"})
	out := buf.String()
	if !strings.Contains(out, "note: main.c:1:5: inside 'main'") {
		t.Fatalf("note missing:\n%s", out)
	}
	if !strings.Contains(out, "main.json: ERROR DMP4003: schema 9.0.0 not supported") {
		t.Fatalf("unit label missing:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := unresolvedBag(t)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes")
	}
}

func TestPrettyReportsDropped(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.LowDependentName, source.Span{}, "first"))
	bag.Add(diag.New(diag.SevWarning, diag.LowDependentName, source.Span{}, "second"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "1 more diagnostic(s) not shown") {
		t.Fatalf("dropped count missing:\n%s", buf.String())
	}
}
