package lower

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/types"
)

// TemplateRecord is the stand-in declaration synthesized for a class
// template that is only known through its specializations.
type TemplateRecord struct {
	Name   string // qualified template name without a leading "::"
	Params []ir.TemplateParam
	Decl   *ir.Stmt
	Symbol symbols.SymbolID
}

// InstantiationRecord is one synthesized (template, arguments) class.
type InstantiationRecord struct {
	Name     string // mangled name; the symbol is filed under it
	Display  string // e.g. "Array<double, 1024>"
	Template *TemplateRecord
	Args     []ir.TemplateArg
	Decl     *ir.Stmt
	Symbol   symbols.SymbolID
	Type     types.TypeID
	Scope    symbols.ScopeID
}

// Templates returns the synthesized template records by qualified name.
func (c *Context) Templates() map[string]*TemplateRecord { return c.templates }

// Instances returns the instantiation records by mangled name.
func (c *Context) Instances() map[string]*InstantiationRecord { return c.instances }

// instantiate returns the record of name applied to args, building it and
// the template record on first use.
func (c *Context) instantiate(name string, args []foreign.TemplateArg, sp source.Span) *InstantiationRecord {
	canonical := strings.TrimPrefix(name, "::")
	flat := c.dropPacks(canonical, args, sp)

	rendered := make([]ir.TemplateArg, len(flat))
	texts := make([]string, len(flat))
	shown := make([]string, len(flat))
	for i, a := range flat {
		rendered[i], shown[i] = c.renderArg(a, sp)
		texts[i] = rendered[i].Text
	}
	mangled := mangle(canonical, texts)
	if rec, ok := c.instances[mangled]; ok {
		return rec
	}

	tmpl := c.templateRecord(canonical, flat, sp)
	ns, scope := c.namespaceFor(canonical, sp)
	display := baseName(canonical) + "<" + strings.Join(shown, ", ") + ">"

	ty := c.types.RegisterNamed(mangled, types.TagInstantiation, sp)
	st := ir.NewStmt(ir.StmtInstantiation, sp, nil)
	class := c.table.Scopes.New(symbols.ScopeClass, scope, st, sp)
	c.table.Scopes.Get(class).Name = display
	st.Scope = class
	sym := c.table.Insert(scope, symbols.Symbol{
		Name:  display,
		Key:   mangled,
		Kind:  symbols.SymbolInstantiation,
		Type:  ty,
		Span:  sp,
		Flags: symbols.SymbolFlagImplicit | symbols.SymbolFlagDefinition,
		Decl:  st,
	})
	st.Data = ir.InstantiationData{
		Name:      mangled,
		Template:  tmpl.Decl,
		Namespace: ns,
		Args:      rendered,
		Symbol:    sym,
		Type:      ty,
	}
	c.module.AddImplicit(st)

	rec := &InstantiationRecord{
		Name:     mangled,
		Display:  display,
		Template: tmpl,
		Args:     rendered,
		Decl:     st,
		Symbol:   sym,
		Type:     ty,
		Scope:    class,
	}
	c.instances[mangled] = rec
	c.stats.Inc("instantiation")
	return rec
}

func (c *Context) dropPacks(name string, args []foreign.TemplateArg, sp source.Span) []foreign.TemplateArg {
	out := make([]foreign.TemplateArg, 0, len(args))
	for _, a := range args {
		if a.Kind == foreign.ArgPack {
			c.warnOnce("pack:"+name, diag.LowTemplatePackDropped, sp,
				fmt.Sprintf("parameter pack of %s dropped from its instantiation", name))
			continue
		}
		if a.Kind == foreign.ArgNull {
			continue
		}
		out = append(out, a)
	}
	return out
}

// templateRecord infers a parameter list from the first argument list seen.
func (c *Context) templateRecord(name string, args []foreign.TemplateArg, sp source.Span) *TemplateRecord {
	if rec, ok := c.templates[name]; ok {
		return rec
	}
	params := make([]ir.TemplateParam, 0, len(args))
	for i, a := range args {
		switch a.Kind {
		case foreign.ArgType:
			params = append(params, ir.TemplateParam{Kind: ir.TemplateTypeParam, Name: fmt.Sprintf("T%d", i)})
		case foreign.ArgIntegral:
			ty := c.lowerQualType(a.Type, sp)
			if ty == types.NoTypeID {
				ty = c.types.Builtins().Int
			}
			params = append(params, ir.TemplateParam{Kind: ir.TemplateNonTypeParam, Name: fmt.Sprintf("V%d", i), Type: ty})
		case foreign.ArgTemplate, foreign.ArgTemplateExpansion:
			params = append(params, ir.TemplateParam{Kind: ir.TemplateTemplateParam, Name: fmt.Sprintf("Template%d", i)})
		default:
			params = append(params, ir.TemplateParam{Kind: ir.TemplateNonTypeParam, Name: fmt.Sprintf("V%d", i), Type: c.types.Builtins().Int})
		}
	}

	_, scope := c.namespaceFor(name, sp)
	st := ir.NewStmt(ir.StmtTemplateDecl, sp, nil)
	sym := c.table.Insert(scope, symbols.Symbol{
		Name:  baseName(name),
		Kind:  symbols.SymbolTemplate,
		Span:  sp,
		Flags: symbols.SymbolFlagImplicit,
		Decl:  st,
	})
	st.Data = ir.TemplateDeclData{Name: name, Symbol: sym, Params: params}
	c.module.AddImplicit(st)

	rec := &TemplateRecord{Name: name, Params: params, Decl: st, Symbol: sym}
	c.templates[name] = rec
	return rec
}

// renderArg returns the argument with its mangling text, plus the spelling
// used in the display name.
func (c *Context) renderArg(a foreign.TemplateArg, sp source.Span) (ir.TemplateArg, string) {
	var out ir.TemplateArg
	var shown string
	switch a.Kind {
	case foreign.ArgType:
		out.Kind = ir.TemplateTypeParam
		out.Type = c.lowerQualType(a.Type, sp)
		shown = c.types.String(out.Type)
	case foreign.ArgIntegral:
		out.Kind = ir.TemplateNonTypeParam
		out.Type = c.lowerQualType(a.Type, sp)
		out.Value = a.Value
		shown = a.Value
	case foreign.ArgTemplate, foreign.ArgTemplateExpansion:
		out.Kind = ir.TemplateTemplateParam
		out.Value = strings.TrimPrefix(a.Template, "::")
		shown = out.Value
	case foreign.ArgExpression:
		out.Kind = ir.TemplateNonTypeParam
		out.Value = exprText(a.Expr)
		shown = out.Value
		if shown == "" {
			shown = "expr"
		}
	case foreign.ArgNullPtr:
		out.Kind = ir.TemplateNonTypeParam
		shown = "nullptr"
	case foreign.ArgDeclaration:
		out.Kind = ir.TemplateNonTypeParam
		if a.Decl != nil {
			out.Value = strings.TrimPrefix(a.Decl.QualifiedName(), "::")
		} else {
			out.Value = a.Value
		}
		shown = out.Value
		if shown == "" {
			shown = "decl"
		}
	}
	out.Text = argReplacer.Replace(shown)
	return out, shown
}

// exprText spells an expression argument the way it was written: literal
// values, referenced names and operators, with implicit wrappers removed.
func exprText(s *foreign.Stmt) string {
	var b strings.Builder
	writeExpr(&b, s)
	return b.String()
}

func writeExpr(b *strings.Builder, s *foreign.Stmt) {
	if s == nil {
		return
	}
	switch s.Kind {
	case foreign.IntegerLiteral, foreign.CharacterLiteral, foreign.CXXBoolLiteralExpr,
		foreign.FloatingLiteral:
		b.WriteString(s.Value)
	case foreign.StringLiteral:
		b.WriteString(strconv.Quote(s.Value))
	case foreign.CXXNullPtrLiteralExpr:
		b.WriteString("nullptr")
	case foreign.DeclRefExpr:
		if s.Decl != nil {
			b.WriteString(strings.TrimPrefix(s.Decl.QualifiedName(), "::"))
		} else {
			b.WriteString(s.Name)
		}
	case foreign.ImplicitCastExpr, foreign.ConstantExpr, foreign.SubstNonTypeTemplateParmExpr,
		foreign.MaterializeTemporaryExpr, foreign.ExprWithCleanups:
		writeExpr(b, s.Child(0))
	case foreign.ParenExpr:
		b.WriteByte('(')
		writeExpr(b, s.Child(0))
		b.WriteByte(')')
	case foreign.BinaryOperator, foreign.CompoundAssignOperator:
		writeExpr(b, s.Child(0))
		b.WriteString(s.Opcode)
		writeExpr(b, s.Child(1))
	case foreign.UnaryOperator:
		if s.Postfix {
			writeExpr(b, s.Child(0))
			b.WriteString(s.Opcode)
			return
		}
		b.WriteString(s.Opcode)
		writeExpr(b, s.Child(0))
	case foreign.ConditionalOperator:
		writeExpr(b, s.Child(0))
		b.WriteByte('?')
		writeExpr(b, s.Child(1))
		b.WriteByte(':')
		writeExpr(b, s.Child(2))
	case foreign.MemberExpr:
		writeExpr(b, s.Child(0))
		if s.Arrow {
			b.WriteString("->")
		} else {
			b.WriteByte('.')
		}
		if s.Decl != nil {
			b.WriteString(s.Decl.Name)
		} else {
			b.WriteString(s.Name)
		}
	case foreign.CallExpr:
		writeExpr(b, s.Child(0))
		writeArgs(b, s.Inner[min(1, len(s.Inner)):])
	default:
		// name the node and keep its operands so distinct trees stay distinct
		b.WriteString(s.Kind.String())
		if s.Name != "" {
			b.WriteByte('.')
			b.WriteString(s.Name)
		}
		writeArgs(b, s.Inner)
	}
}

func writeArgs(b *strings.Builder, list []*foreign.Stmt) {
	b.WriteByte('(')
	for i, a := range list {
		if i > 0 {
			b.WriteByte(',')
		}
		writeExpr(b, a)
	}
	b.WriteByte(')')
}

var argReplacer = strings.NewReplacer("<", "_", ">", "_", ",", "_", " ", "_", ":", "_", "*", "_", "&", "_")

// mangle builds the instantiation name: the qualified template name with
// ':' replaced, then the rendered arguments, all joined by '_'.
func mangle(name string, args []string) string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(name, ":", "_"))
	for _, a := range args {
		b.WriteByte('_')
		b.WriteString(a)
	}
	return norm.NFC.String(b.String())
}

func baseName(qualified string) string {
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		return qualified[i+2:]
	}
	return qualified
}

// namespaceFor finds or creates the namespace scopes named by the "::"
// prefix of a qualified name, starting at the global scope. It returns the
// innermost namespace declaration (nil at global scope) and its scope.
func (c *Context) namespaceFor(qualified string, sp source.Span) (*ir.Stmt, symbols.ScopeID) {
	parts := strings.Split(qualified, "::")
	scope := c.table.Global()
	var ns *ir.Stmt
	for _, part := range parts[:len(parts)-1] {
		child, ok := c.table.ChildNamed(scope, symbols.ScopeNamespace, part)
		if !ok {
			st := ir.NewStmt(ir.StmtNamespace, sp, nil)
			child = c.table.Scopes.New(symbols.ScopeNamespace, scope, st, sp)
			c.table.Scopes.Get(child).Name = part
			sym := c.table.Insert(scope, symbols.Symbol{
				Name:  part,
				Kind:  symbols.SymbolNamespace,
				Span:  sp,
				Flags: symbols.SymbolFlagImplicit,
				Decl:  st,
			})
			st.Scope = child
			st.Data = ir.NamespaceData{Name: part, Symbol: sym}
			c.namespaces[child] = st
			c.module.AddImplicit(st)
		}
		ns = c.namespaces[child]
		scope = child
	}
	return ns, scope
}
