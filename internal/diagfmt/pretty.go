package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"astbridge/internal/diag"
	"astbridge/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics in human-readable form, in bag order (callers
// sort first). Each entry is
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with the span underlined, then notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n%s %d more diagnostic(s) not shown\n", pal.note.Sprint("note:"), n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	loc := locationLabel(d.Primary, fs, opts)
	sev := pal.severity(d.Severity).Sprint(d.Severity.String())
	fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev, pal.code.Sprint(d.Code.ID()), d.Message)
	writeExcerpt(w, d.Primary, fs, opts, pal)

	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		label := pal.note.Sprint("note:")
		if f := fileOf(fs, n.Span); f != nil {
			fmt.Fprintf(w, "  %s %s: %s\n", label, locationLabel(n.Span, fs, opts), n.Msg)
			writeExcerpt(w, n.Span, fs, PrettyOpts{Width: opts.Width, Color: opts.Color}, pal)
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", label, n.Msg)
	}
}

func fileOf(fs *source.FileSet, span source.Span) *source.File {
	if fs == nil {
		return nil
	}
	return fs.Get(span.File)
}

func locationLabel(span source.Span, fs *source.FileSet, opts PrettyOpts) string {
	f := fileOf(fs, span)
	if f == nil {
		if opts.Unit != "" {
			return displayPath(opts.Unit, opts.PathMode, opts.BaseDir)
		}
		return "<unit>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", displayPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

func writeExcerpt(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fileOf(fs, span)
	if f == nil || f.Flags&source.FileNoContent != 0 || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if opts.Context > 0 {
		if c := uint32(opts.Context); c < first {
			first -= c
		} else {
			first = 1
		}
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for line := first; line <= start.Line; line++ {
		text := expandTabs(f.GetLine(line))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, opts.Width, "...")
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, line), text)
	}

	raw := f.GetLine(start.Line)
	lead := runewidth.StringWidth(expandTabs(prefixCols(raw, start.Col)))
	var width int
	if end.Line == start.Line && end.Col > start.Col {
		width = runewidth.StringWidth(expandTabs(prefixCols(raw, end.Col))) - lead
	} else {
		width = runewidth.StringWidth(expandTabs(raw)) - lead
	}
	width = max(width, 1)
	if opts.Width > 0 {
		if lead >= opts.Width {
			return
		}
		width = min(width, opts.Width-lead)
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", lead), pal.caret.Sprint(underline))
}

// prefixCols returns the bytes of line before 1-based byte column col.
func prefixCols(line string, col uint32) string {
	if col <= 1 {
		return ""
	}
	n := int(col - 1)
	if n > len(line) {
		n = len(line)
	}
	return line[:n]
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	cells := 0
	for _, r := range s {
		if r == '\t' {
			pad := tabWidth - cells%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			cells += pad
			continue
		}
		b.WriteRune(r)
		cells += runewidth.RuneWidth(r)
	}
	return b.String()
}
