package diag

import (
	"testing"

	"astbridge/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	user := fs.AddVirtual("src/main.cpp", []byte("int x;\nint y = z;\n"))
	sys := fs.AddVirtual("/usr/include/stdio.h", []byte("int printf(const char*, ...);\n"))

	diags := []*Diagnostic{
		NewError(LowUnresolvedSymbol, source.Span{File: user, Start: 15, End: 16}, "no symbol for\n'z'"),
		New(SevWarning, LowCategoryMismatch, source.Span{File: user, Start: 0, End: 3}, "expected statement"),
		NewError(LowUnknownType, source.Span{File: sys, Start: 0, End: 3}, "ignored"),
	}

	got := FormatGoldenDiagnostics(diags, fs, false)
	want := "warning LOW3001 src/main.cpp:1:1 expected statement\n" +
		"error LOW2001 src/main.cpp:2:9 no symbol for 'z'"
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}

	short := FormatShortDiagnostics(diags, fs, false)
	if short == got {
		t.Fatalf("short output should keep system header entries")
	}
}

func TestFormatGoldenDiagnosticsNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cpp", []byte("void f();\nvoid g() { f(); }\n"))
	d := NewError(LowNoMember, source.Span{File: id, Start: 21, End: 22}, "missing").
		WithNote(source.Span{File: id, Start: 5, End: 6}, "declared here")

	got := FormatGoldenDiagnostics([]*Diagnostic{&d}, fs, true)
	want := "note LOW2009 a.cpp:1:6 declared here\n" +
		"error LOW2009 a.cpp:2:12 missing"
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}
