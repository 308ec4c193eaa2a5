package source

import "testing"

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.c", []byte("int x;\nint main() {\n  return x;\n}\n"))
	if id == NoFileID {
		t.Fatalf("expected a real file id")
	}

	// "return" starts at line 3, col 3
	off := uint32(len("int x;\nint main() {\n  "))
	start, _ := fs.Resolve(Span{File: id, Start: off, End: off + 6})
	if start.Line != 3 || start.Col != 3 {
		t.Fatalf("expected 3:3, got %d:%d", start.Line, start.Col)
	}

	pos := fs.Position(Span{File: id, Start: 0, End: 3})
	if pos.Path != "a.c" || pos.Line != 1 || pos.Col != 1 {
		t.Fatalf("unexpected position %+v", pos)
	}
}

func TestFileSetText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("p.c", []byte("#pragma omp parallel for\nfor(;;);\n"))

	if got := fs.Text(Span{File: id, Start: 0, End: 24}); got != "#pragma omp parallel for" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := fs.Text(Span{File: id, Start: 30, End: 400}); got != ";);\n" {
		t.Fatalf("expected clamped text, got %q", got)
	}
	if got := fs.Text(Span{File: NoFileID}); got != "" {
		t.Fatalf("expected empty text for sentinel, got %q", got)
	}
}

func TestFileGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("l.c", []byte("one\ntwo\nthree"))
	f := fs.Get(id)
	for i, want := range []string{"one", "two", "three", ""} {
		if got := f.GetLine(uint32(i + 1)); got != want {
			t.Errorf("line %d: want %q, got %q", i+1, want, got)
		}
	}
}

func TestCRLFContentKeepsOffsets(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("w.c", []byte("int a;\r\nint b;\r\n"))
	if got := fs.Get(id).GetLine(2); got != "int b;" {
		t.Fatalf("line 2 = %q", got)
	}
	pos := fs.Position(Span{File: id, Start: 12, End: 13})
	if pos.Line != 2 || pos.Col != 5 {
		t.Fatalf("position = %+v", pos)
	}
	if got := fs.Text(Span{File: id, Start: 12, End: 13}); got != "b" {
		t.Fatalf("text = %q", got)
	}
	if h := fs.AddVirtual("h.h", nil); fs.Get(h).GetLine(1) != "" {
		t.Fatalf("content-less file must have no lines")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("unexpected cover %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("cross-file cover must keep receiver, got %v", got)
	}
	if got := (Span{}).Cover(b); got != b {
		t.Fatalf("invalid receiver must adopt other, got %v", got)
	}
}
