package diag

import "astbridge/internal/source"

// Reporter is the minimal contract for receiving diagnostics from a phase.
// Implementations: BagReporter, NopReporter, MultiReporter, DedupReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(&Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// MultiReporter fans a diagnostic out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	for _, r := range m {
		if r != nil {
			r.Report(code, sev, primary, msg, notes)
		}
	}
}

// PromoteReporter raises warnings to errors (--werror).
type PromoteReporter struct{ Next Reporter }

func (p PromoteReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if p.Next == nil {
		return
	}
	if sev == SevWarning {
		sev = SevError
	}
	p.Next.Report(code, sev, primary, msg, notes)
}

// DedupReporter forwards each distinct diagnostic once. A placeholder
// reached from many references reports its unresolved name only once.
type DedupReporter struct {
	Next Reporter
	seen map[identity]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{Next: next, seen: make(map[identity]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.Next == nil {
		return
	}
	key := identity{code: code, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.Next.Report(code, sev, primary, msg, notes)
}
