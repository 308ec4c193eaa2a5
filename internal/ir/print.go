package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/types"
)

// DumpOptions configures the text dump.
type DumpOptions struct {
	// Files resolves spans to path:line:col; nil omits locations.
	Files *source.FileSet
	// Implicit includes synthesized declarations.
	Implicit bool
	// SymbolIDs appends sym=N to declarations and references.
	SymbolIDs bool
}

// Printer writes an indented text form of the IR.
type Printer struct {
	w      io.Writer
	types  *types.Interner
	syms   *symbols.Table
	opts   DumpOptions
	indent int
	err    error
}

// NewPrinter creates a printer; in and table may be nil.
func NewPrinter(w io.Writer, in *types.Interner, table *symbols.Table, opts DumpOptions) *Printer {
	return &Printer{w: w, types: in, syms: table, opts: opts}
}

// Dump writes m to w.
func Dump(w io.Writer, m *Module, opts DumpOptions) error {
	p := NewPrinter(w, m.Types, m.Symbols, opts)
	return p.PrintModule(m)
}

// PrintModule prints every root declaration, then implicit ones if requested.
func (p *Printer) PrintModule(m *Module) error {
	p.printf("module %s\n", m.Name)
	for _, s := range m.Decls {
		p.PrintNode(s)
	}
	if p.opts.Implicit && len(m.Implicit) > 0 {
		p.printf("implicit\n")
		p.indent++
		for _, s := range m.Implicit {
			p.PrintNode(s)
		}
		p.indent--
	}
	return p.err
}

// PrintNode prints n and its subtree.
func (p *Printer) PrintNode(n Node) {
	if IsNil(n) {
		return
	}
	p.printIndent()
	p.printf("%s", p.header(n))
	if loc := p.location(n.NodeSpan()); loc != "" {
		p.printf(" @%s", loc)
	}
	p.printf("\n")
	if s, ok := n.(*Stmt); ok {
		for _, pr := range s.Pragmas {
			p.printIndent()
			p.printf("  %s\n", pr.Text)
		}
	}
	p.indent++
	for _, c := range Children(n) {
		p.PrintNode(c)
	}
	p.indent--
}

func (p *Printer) header(n Node) string {
	var b strings.Builder
	b.WriteString(n.NodeKind())
	switch v := n.(type) {
	case *Stmt:
		p.stmtDetail(&b, v)
	case *Expr:
		p.exprDetail(&b, v)
		if v.Type != types.NoTypeID {
			b.WriteString(" : ")
			b.WriteString(p.typeStr(v.Type))
		}
	}
	return b.String()
}

func (p *Printer) stmtDetail(b *strings.Builder, s *Stmt) {
	switch d := s.Data.(type) {
	case VarDeclData:
		if d.Param {
			b.WriteString(" param")
		}
		if d.Storage != "" {
			b.WriteString(" " + d.Storage)
		}
		fmt.Fprintf(b, " %s : %s", d.Name, p.typeStr(d.Type))
		p.symID(b, d.Symbol)
	case FuncDeclData:
		fmt.Fprintf(b, " %s : %s", d.Name, p.typeStr(d.Type))
		if d.Body == nil {
			b.WriteString(" prototype")
		}
		p.symID(b, d.Symbol)
	case RecordDeclData:
		fmt.Fprintf(b, " %s %s", d.Tag, d.Name)
		if !d.Complete {
			b.WriteString(" incomplete")
		}
		p.symID(b, d.Symbol)
	case FieldDeclData:
		fmt.Fprintf(b, " %s : %s", d.Name, p.typeStr(d.Type))
		p.symID(b, d.Symbol)
	case EnumDeclData:
		fmt.Fprintf(b, " %s : %s", d.Name, p.typeStr(d.Underlying))
		p.symID(b, d.Symbol)
	case EnumeratorData:
		b.WriteString(" " + d.Name)
		p.symID(b, d.Symbol)
	case TypedefData:
		fmt.Fprintf(b, " %s = %s", d.Name, p.typeStr(d.Target))
		p.symID(b, d.Symbol)
	case NamespaceData:
		b.WriteString(" " + d.Name)
		p.symID(b, d.Symbol)
	case TemplateDeclData:
		b.WriteString(" " + d.Name + "<")
		for i, tp := range d.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			if tp.Kind == TemplateNonTypeParam {
				fmt.Fprintf(b, "%s %s", p.typeStr(tp.Type), tp.Name)
				continue
			}
			fmt.Fprintf(b, "%s %s", tp.Kind, tp.Name)
		}
		b.WriteString(">")
		p.symID(b, d.Symbol)
	case InstantiationData:
		b.WriteString(" " + d.Name)
		p.symID(b, d.Symbol)
	case LabelData:
		b.WriteString(" " + d.Name)
		p.symID(b, d.Symbol)
	case GotoData:
		b.WriteString(" " + d.Label)
		p.symID(b, d.Symbol)
	}
}

func (p *Printer) exprDetail(b *strings.Builder, e *Expr) {
	switch d := e.Data.(type) {
	case IntValData:
		b.WriteString(" " + d.Text)
	case FloatValData:
		fmt.Fprintf(b, " %s %s", d.Precision, d.Text)
	case CharValData:
		fmt.Fprintf(b, " %d", d.Value)
	case BoolValData:
		b.WriteString(" " + strconv.FormatBool(d.Value))
	case StringValData:
		b.WriteString(" " + strconv.Quote(strings.TrimSuffix(d.Value, "\x00")))
	case RefData:
		b.WriteString(" " + d.Name)
		p.symID(b, d.Symbol)
	case BinaryData:
		b.WriteString(" " + d.Op.String())
	case UnaryData:
		b.WriteString(" " + d.Op.String())
	case MemberData:
		if d.Arrow {
			b.WriteString(" ->" + d.Name)
		} else {
			b.WriteString(" ." + d.Name)
		}
		p.symID(b, d.Field)
	case CastData:
		b.WriteString(" " + d.Style.String())
	case SizeOfData:
		if d.ArgType != types.NoTypeID {
			b.WriteString(" type " + p.typeStr(d.ArgType))
		}
	case NewData:
		b.WriteString(" " + p.typeStr(d.Allocated))
	case OpaqueRefData:
		b.WriteString(" " + d.Name)
	case OffsetOfData:
		b.WriteString(" " + p.typeStr(d.Of))
	}
}

func (p *Printer) symID(b *strings.Builder, id symbols.SymbolID) {
	if p.opts.SymbolIDs && id.IsValid() {
		fmt.Fprintf(b, " sym=%d", id)
	}
}

func (p *Printer) location(sp source.Span) string {
	if p.opts.Files == nil || !sp.IsValid() {
		return ""
	}
	pos := p.opts.Files.Position(sp)
	if !pos.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", pos.Path, pos.Line, pos.Col)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) typeStr(id types.TypeID) string {
	if p.types == nil {
		return fmt.Sprintf("type#%d", id)
	}
	return p.types.String(id)
}

// String renders a single subtree without locations.
func String(n Node, in *types.Interner) string {
	var b strings.Builder
	p := NewPrinter(&b, in, nil, DumpOptions{})
	p.PrintNode(n)
	return b.String()
}
