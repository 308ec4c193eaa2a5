package lower

import (
	"fmt"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/symbols"
)

// resolveReference implements the resolution protocol: the registered
// symbol, else the symbol registered by lowering the declaration, else a
// fallback symbol named after the declaration.
func (c *Context) resolveReference(d *foreign.Decl, sp source.Span) symbols.SymbolID {
	if d == nil {
		c.invariant(sp, nil, "reference to a nil declaration")
	}
	if id, ok := c.syms[d]; ok {
		return id
	}
	if lowerable(d.Kind) {
		c.lowerDeclAt(d)
		if id, ok := c.syms[d]; ok {
			return id
		}
	}
	return c.fallbackSymbol(d, sp)
}

func lowerable(k foreign.DeclKind) bool {
	switch k {
	case foreign.VarDecl, foreign.ParmVarDecl, foreign.FieldDecl,
		foreign.RecordDecl, foreign.CXXRecordDecl,
		foreign.EnumDecl, foreign.EnumConstantDecl,
		foreign.TypedefDecl, foreign.TypeAliasDecl,
		foreign.NamespaceDecl, foreign.LabelDecl,
		foreign.ClassTemplateSpecializationDecl:
		return true
	}
	return k.IsFunction()
}

func (c *Context) fallbackSymbol(d *foreign.Decl, sp source.Span) symbols.SymbolID {
	name := d.DisplayName()
	if !sp.IsValid() {
		sp = d.Range
	}
	var id symbols.SymbolID
	switch {
	case d.Kind.IsFunction():
		id = c.table.Insert(c.table.Global(), symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolFunction,
			Type:  c.lowerQualType(d.Type, sp),
			Span:  d.Range,
			Flags: symbols.SymbolFlagImplicit,
		})
	case d.Kind.IsValue() || !d.Type.IsNull():
		id = c.stack.Insert(symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolVariable,
			Type:  c.lowerQualType(d.Type, sp),
			Span:  d.Range,
			Flags: symbols.SymbolFlagImplicit,
		})
	default:
		diag.ReportWarning(c.rep, diag.LowUnresolvedSymbol, sp, fmt.Sprintf("no symbol for '%s'", name)).
			WithNote(d.Range, "declared here as "+d.Kind.String()).
			Emit()
		id = c.stack.Insert(symbols.Symbol{
			Name:  name,
			Kind:  symbols.SymbolVariable,
			Type:  c.types.Opaque(name + "_type"),
			Span:  d.Range,
			Flags: symbols.SymbolFlagPlaceholder,
		})
	}
	c.syms[d] = id
	return id
}

// lowerDeclAt lowers a declaration first reached through a reference. Members
// are lowered with their record or enum; file and namespace scope
// declarations are lowered in their home scope; everything else in the
// current scope.
func (c *Context) lowerDeclAt(d *foreign.Decl) *ir.Stmt {
	if st, ok := c.decls[d]; ok {
		return st
	}
	if p := d.Parent; p != nil && d.Kind != foreign.ParmVarDecl && d.Kind != foreign.LabelDecl {
		switch p.Kind {
		case foreign.RecordDecl, foreign.CXXRecordDecl, foreign.EnumDecl, foreign.ClassTemplateSpecializationDecl:
			c.lowerDeclAt(p)
			if st, ok := c.decls[d]; ok {
				return st
			}
		}
	}
	if d.Kind == foreign.ParmVarDecl || d.Kind == foreign.LabelDecl {
		return c.lowerDecl(d)
	}
	var st *ir.Stmt
	if scope, ok := c.homeScope(d); ok {
		st = c.lowerIn(scope, d)
	} else {
		st = c.lowerDecl(d)
	}
	if st != nil {
		c.lazy = append(c.lazy, st)
	}
	return st
}

func (c *Context) lowerIn(scope symbols.ScopeID, d *foreign.Decl) *ir.Stmt {
	c.stack.Push(scope)
	defer c.leave(scope)
	return c.lowerDecl(d)
}

// homeScope returns the file or namespace scope d belongs to. Out-of-line
// members live where their record does.
func (c *Context) homeScope(d *foreign.Decl) (symbols.ScopeID, bool) {
	p := d.Parent
	for p != nil && (p.Kind == foreign.LinkageSpecDecl || p.Kind == foreign.RecordDecl || p.Kind == foreign.CXXRecordDecl) {
		p = p.Parent
	}
	switch {
	case p == nil:
		return c.table.Global(), true
	case p.Kind == foreign.NamespaceDecl:
		_, scope := c.ensureNamespace(p)
		return scope, true
	}
	return symbols.NoScopeID, false
}

// flushLazy files declarations lowered out of order that never found a place
// in the tree.
func (c *Context) flushLazy() {
	for _, st := range c.lazy {
		if st.Parent != nil || c.rooted[st] {
			continue
		}
		if st.Kind == ir.StmtInstantiation || st.Kind == ir.StmtTemplateDecl || st.Kind == ir.StmtNamespace {
			continue
		}
		c.rooted[st] = true
		c.module.AddImplicit(st)
	}
	c.lazy = nil
}
