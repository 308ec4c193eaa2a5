package lower

import (
	"strings"
	"unicode"

	"astbridge/internal/foreign"
	"astbridge/internal/ir"
)

// lowerDirective lowers the associated statement of an OpenMP directive and
// attaches the directive text to it. A directive without one becomes a null
// statement carrying the pragma.
func (c *Context) lowerDirective(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	st := c.optBody(s.Child(0), s.Range, "associated statement", &ok)
	if st == nil {
		st = ir.NewStmt(ir.StmtNull, s.Range, nil)
	}
	p := ir.Pragma{Text: "#pragma " + c.directiveText(s)}
	if c.files != nil {
		if pos := c.files.Position(s.Range); pos.IsValid() {
			p.Path = pos.Path
			p.Line = pos.Line
			p.Column = pos.Col
		}
	}
	st.AddPragma(p)
	c.stats.Inc("pragma")
	return st, ok
}

// directiveText returns the directive without "#pragma": the recorded text,
// else the source text of the first line of the range, else a spelling
// derived from the kind name.
func (c *Context) directiveText(s *foreign.Stmt) string {
	if text := trimPragma(s.Directive); text != "" {
		return text
	}
	if c.files != nil && s.Range.IsValid() {
		src := c.files.Text(s.Range)
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			src = src[:i]
		}
		if text := trimPragma(src); strings.HasPrefix(text, "omp") {
			return text
		}
	}
	return directiveFromKind(s.Kind.String())
}

func trimPragma(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "#")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "pragma")
	return strings.Join(strings.Fields(text), " ")
}

// directiveFromKind spells "OMPParallelForDirective" as "omp parallel for".
func directiveFromKind(kind string) string {
	name := strings.TrimSuffix(strings.TrimPrefix(kind, "OMP"), "Directive")
	var b strings.Builder
	b.WriteString("omp")
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
