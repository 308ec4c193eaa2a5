package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"astbridge/internal/source"
)

// line is one rendered row of the one-line formats.
type line struct {
	sev  string
	code string
	path string
	ln   uint32
	col  uint32
	msg  string
}

func (l line) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.ln, l.col, l.msg)
}

// FormatGoldenDiagnostics renders one line per located diagnostic, sorted by
// position, for comparison in tests. Entries inside system headers are left
// out since they depend on the machine that produced the dump.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return join(collectLines(diags, fs, includeNotes, true))
}

// FormatShortDiagnostics is the CLI form of FormatGoldenDiagnostics; it keeps
// system header entries. Diagnostics without a location are skipped.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return join(collectLines(diags, fs, includeNotes, false))
}

func collectLines(diags []*Diagnostic, fs *source.FileSet, includeNotes, skipSystem bool) []line {
	if fs == nil {
		return nil
	}
	var out []line
	add := func(sev string, code Code, sp source.Span, msg string) {
		pos := fs.Position(sp)
		if !pos.IsValid() {
			return
		}
		path := cleanPath(pos.Path)
		if skipSystem && isSystemHeader(path) {
			return
		}
		out = append(out, line{sev: sev, code: code.ID(), path: path, ln: pos.Line, col: pos.Col, msg: oneLine(msg)})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b line) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.ln, b.ln),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	return out
}

func join(lines []line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

func cleanPath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

var systemPrefixes = []string{"/usr/include/", "/usr/lib/", "/usr/local/include/", "/Library/Developer/"}

func isSystemHeader(path string) bool {
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return strings.Contains(path, "/include/c++/")
}

// oneLine folds line breaks so every entry stays on one row.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
