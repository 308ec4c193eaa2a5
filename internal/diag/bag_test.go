package diag

import (
	"testing"

	"astbridge/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(2)
	sp := func(start uint32) source.Span { return source.Span{File: 1, Start: start, End: start + 1} }

	b.Add(New(SevWarning, LowUnresolvedSymbol, sp(10), "b"))
	b.Add(New(SevError, LowUnimplementedExpr, sp(2), "a"))
	if b.Add(New(SevError, LowInvariant, sp(0), "c")) {
		t.Fatalf("expected third diagnostic to be dropped")
	}
	if b.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", b.Dropped())
	}
	b.Sort()
	if b.Items()[0].Message != "a" {
		t.Fatalf("sort order wrong: %q first", b.Items()[0].Message)
	}
	if !b.HasErrors() || b.Count(SevWarning) != 1 {
		t.Fatalf("unexpected counts")
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(0)
	r := BagReporter{Bag: b}
	sp := source.Span{File: 1, Start: 4, End: 8}
	for range 3 {
		ReportWarning(r, LowDependentName, sp, "dependent name 'T::x'").Emit()
	}
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	sp := source.Span{File: 1, Start: 0, End: 1}
	r.Report(LowRecoveryExpr, SevWarning, sp, "x", nil)
	r.Report(LowRecoveryExpr, SevWarning, sp, "x", nil)
	r.Report(LowRecoveryExpr, SevWarning, sp, "y", nil)
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
}

func TestPromoteReporter(t *testing.T) {
	b := NewBag(0)
	r := PromoteReporter{Next: BagReporter{Bag: b}}
	ReportWarning(r, LowFloatSemantics, source.Span{}, "x87").Emit()
	if !b.HasErrors() {
		t.Fatalf("warning should be promoted to error")
	}
}

func TestBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rb := ReportError(BagReporter{Bag: b}, LowNoMember, source.Span{}, "m")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LowUnimplementedStmt: "LOW1001",
		LowCategoryMismatch:  "LOW3001",
		DumpSchemaMismatch:   "DMP4003",
		ProjManifestError:    "PRJ5001",
		ObsTimings:           "OBS6001",
		LowInvariant:         "LOW9001",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", c, got, want)
		}
	}
	if !LowUnimplementedExpr.Fatal() || LowUnresolvedSymbol.Fatal() || !LowDepthExceeded.Fatal() {
		t.Fatalf("unexpected Fatal classification")
	}
}

func TestBagWithoutKeepsDropped(t *testing.T) {
	b := NewBag(2)
	b.Add(New(SevInfo, LowInfo, source.Span{}, "info"))
	b.Add(New(SevWarning, LowDependentName, source.Span{}, "warn"))
	b.Add(New(SevWarning, LowDependentName, source.Span{}, "dropped"))

	out := b.Without(func(d *Diagnostic) bool { return d.Severity == SevInfo })
	if out.Len() != 1 || out.Items()[0].Message != "warn" {
		t.Fatalf("unexpected items: %d", out.Len())
	}
	if out.Dropped() != 1 || out.Cap() != 2 {
		t.Fatalf("dropped = %d cap = %d", out.Dropped(), out.Cap())
	}
	if b.Len() != 2 {
		t.Fatalf("source bag modified")
	}
}
