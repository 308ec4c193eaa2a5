package lower

import (
	"fmt"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/symbols"
	"astbridge/internal/trace"
	"astbridge/internal/types"
)

// skippedDecl reports declarations that produce no IR of their own.
func skippedDecl(k foreign.DeclKind) bool {
	switch k {
	case foreign.EmptyDecl, foreign.AccessSpecDecl, foreign.StaticAssertDecl,
		foreign.UsingDirectiveDecl, foreign.UsingDecl, foreign.UsingShadowDecl,
		foreign.ClassTemplateDecl, foreign.FunctionTemplateDecl, foreign.FriendDecl,
		foreign.TemplateTypeParmDecl, foreign.NonTypeTemplateParmDecl, foreign.IndirectFieldDecl:
		return true
	}
	return false
}

// lowerMember lowers one file or namespace level declaration and hands the
// result to add unless it already has a place in the tree. Linkage
// specifications are transparent.
func (c *Context) lowerMember(d *foreign.Decl, parentSpan uint64, add func(*ir.Stmt)) {
	if d == nil || skippedDecl(d.Kind) {
		return
	}
	if d.Kind == foreign.LinkageSpecDecl {
		for _, m := range d.Members {
			c.lowerMember(m, parentSpan, add)
		}
		return
	}
	span := trace.Begin(c.tracer, trace.ScopeNode, d.Kind.String()+" "+d.DisplayName(), parentSpan)
	st := c.lowerDecl(d)
	span.End("")
	if st == nil || st.Parent != nil || c.rooted[st] || st.Kind == ir.StmtInstantiation {
		return
	}
	c.rooted[st] = true
	add(st)
}

// lowerDecl lowers d in the current top scope. Every handled kind registers
// its symbol before lowering anything that may refer back to it.
func (c *Context) lowerDecl(d *foreign.Decl) *ir.Stmt {
	if d == nil {
		return nil
	}
	if st, ok := c.decls[d]; ok {
		return st
	}
	if c.lowering[d] {
		return nil
	}
	c.lowering[d] = true
	defer delete(c.lowering, d)
	c.descend(d.Range, d.Kind.String())
	defer c.ascend()
	c.stats.Inc("decl:" + d.Kind.String())

	switch d.Kind {
	case foreign.VarDecl, foreign.ParmVarDecl:
		return c.lowerVar(d)
	case foreign.FunctionDecl, foreign.CXXMethodDecl, foreign.CXXConstructorDecl,
		foreign.CXXDestructorDecl, foreign.CXXConversionDecl:
		return c.lowerFunction(d)
	case foreign.RecordDecl, foreign.CXXRecordDecl:
		return c.lowerRecord(d)
	case foreign.FieldDecl:
		return c.lowerField(d)
	case foreign.EnumDecl:
		return c.lowerEnum(d)
	case foreign.EnumConstantDecl:
		return c.lowerEnumerator(d, types.NoTypeID)
	case foreign.TypedefDecl, foreign.TypeAliasDecl:
		return c.lowerTypedef(d)
	case foreign.NamespaceDecl:
		return c.lowerNamespace(d)
	case foreign.LabelDecl:
		c.lowerLabelDecl(d)
		return nil
	case foreign.ClassTemplateSpecializationDecl:
		rec := c.instantiate(d.Template, d.Args, d.Range)
		c.syms[d] = rec.Symbol
		c.decls[d] = rec.Decl
		return rec.Decl
	case foreign.LinkageSpecDecl:
		for _, m := range d.Members {
			if !skippedDecl(m.Kind) {
				c.lowerDecl(m)
			}
		}
		return nil
	}
	if skippedDecl(d.Kind) {
		return nil
	}
	c.unimplemented(CategoryDecl, d.Kind.String(), d.Range, d.DisplayName())
	return nil
}

func (c *Context) declare(d *foreign.Decl, st *ir.Stmt, sym symbols.Symbol) symbols.SymbolID {
	sym.Name = d.Name
	sym.Span = d.Range
	sym.Decl = st
	if d.Implicit {
		sym.Flags |= symbols.SymbolFlagImplicit
	}
	id := c.stack.Insert(sym)
	c.syms[d] = id
	c.decls[d] = st
	return id
}

func (c *Context) lowerVar(d *foreign.Decl) *ir.Stmt {
	ty := c.lowerQualType(d.Type, d.Range)
	st := ir.NewStmt(ir.StmtVarDecl, d.Range, nil)
	kind := symbols.SymbolVariable
	if d.Kind == foreign.ParmVarDecl {
		kind = symbols.SymbolParameter
	}
	var flags symbols.SymbolFlags
	if d.Init != nil {
		flags |= symbols.SymbolFlagDefinition
	}
	sym := c.declare(d, st, symbols.Symbol{Kind: kind, Type: ty, Flags: flags})
	data := ir.VarDeclData{
		Name:    d.Name,
		Symbol:  sym,
		Type:    ty,
		Storage: d.Storage,
		Param:   d.Kind == foreign.ParmVarDecl,
	}
	if d.Init != nil {
		ok := true
		data.Init = c.expr(d.Init, "initializer", &ok)
		ir.Attach(st, data.Init)
	}
	st.Data = data
	return st
}

func (c *Context) lowerFunction(d *foreign.Decl) *ir.Stmt {
	ty := c.lowerQualType(d.Type, d.Range)
	data := ir.FuncDeclData{
		Name:   d.Name,
		Type:   ty,
		Method: d.Kind != foreign.FunctionDecl,
	}
	if info, ok := c.types.FnInfo(ty); ok {
		data.Result = info.Result
		data.Variadic = c.types.Variadic(info)
	}
	st := ir.NewStmt(ir.StmtFuncDecl, d.Range, nil)

	// Redeclarations share one symbol; the definition becomes its declaring node.
	sym, seen := symbols.NoSymbolID, false
	if prev, ok := c.table.LookupLocal(c.stack.Top(), d.Name); ok {
		if ps := c.table.Symbols.Get(prev); ps != nil && ps.Kind == symbols.SymbolFunction && ps.Type == ty {
			sym, seen = prev, true
			if d.Defined {
				ps.Decl = st
				ps.Span = d.Range
				ps.Flags |= symbols.SymbolFlagDefinition
			}
			c.syms[d] = sym
			c.decls[d] = st
		}
	}
	if !seen {
		var flags symbols.SymbolFlags
		if d.Defined {
			flags |= symbols.SymbolFlagDefinition
		}
		sym = c.declare(d, st, symbols.Symbol{Kind: symbols.SymbolFunction, Type: ty, Flags: flags})
	}
	data.Symbol = sym

	if len(d.Params) > 0 || d.Body != nil {
		scope := c.enter(symbols.ScopeFunction, st, d.Range)
		defer c.leave(scope)
		st.Scope = scope
		for _, p := range d.Params {
			if ps := c.lowerDecl(p); ps != nil {
				data.Params = append(data.Params, ps)
			}
		}
		if d.Body != nil {
			ok := true
			data.Body = c.stmt(d.Body, "function body", &ok)
		}
	}
	for _, p := range data.Params {
		ir.Attach(st, p)
	}
	ir.Attach(st, data.Body)
	st.Data = data
	return st
}

func (c *Context) lowerRecord(d *foreign.Decl) *ir.Stmt {
	ty := c.namedType(d)
	tag := namedTag(d)
	st := ir.NewStmt(ir.StmtRecordDecl, d.Range, nil)
	data := ir.RecordDeclData{Name: d.Name, Type: ty, Tag: tag, Complete: d.Defined}

	if prev, ok := c.recordSyms[ty]; ok {
		data.Symbol = prev
		c.syms[d] = prev
		c.decls[d] = st
		if d.Defined {
			if ps := c.table.Symbols.Get(prev); ps != nil {
				ps.Decl = st
				ps.Span = d.Range
				ps.Flags |= symbols.SymbolFlagDefinition
			}
		}
	} else {
		var flags symbols.SymbolFlags
		if d.Defined {
			flags |= symbols.SymbolFlagDefinition
		}
		data.Symbol = c.declare(d, st, symbols.Symbol{Kind: symbols.SymbolClass, Type: ty, Flags: flags})
		c.recordSyms[ty] = data.Symbol
	}

	if d.Defined || len(d.Members) > 0 {
		scope := c.enter(symbols.ScopeClass, st, d.Range)
		defer c.leave(scope)
		st.Scope = scope
		c.table.Scopes.Get(scope).Name = d.Name

		// Fields first, so method bodies see every field.
		lowered := make(map[*foreign.Decl]*ir.Stmt, len(d.Members))
		for _, pass := range []bool{true, false} {
			for _, m := range d.Members {
				if m == nil || skippedDecl(m.Kind) || (m.Kind == foreign.FieldDecl) != pass {
					continue
				}
				if ms := c.lowerDecl(m); ms != nil {
					lowered[m] = ms
				}
			}
		}
		for _, m := range d.Members {
			if ms, ok := lowered[m]; ok && ms.Parent == nil {
				data.Members = append(data.Members, ms)
				ir.Attach(st, ms)
			}
		}
	}
	st.Data = data
	return st
}

func (c *Context) lowerField(d *foreign.Decl) *ir.Stmt {
	ty := c.lowerQualType(d.Type, d.Range)
	st := ir.NewStmt(ir.StmtFieldDecl, d.Range, nil)
	data := ir.FieldDeclData{Name: d.Name, Type: ty}
	data.Symbol = c.declare(d, st, symbols.Symbol{Kind: symbols.SymbolField, Type: ty})
	if d.Init != nil {
		ok := true
		data.BitWidth = c.expr(d.Init, "bit-field width", &ok)
		ir.Attach(st, data.BitWidth)
	}
	st.Data = data
	return st
}

// lowerEnum registers the enum and lowers its enumerators into the enclosing
// scope, where C and unscoped C++ enumerators live.
func (c *Context) lowerEnum(d *foreign.Decl) *ir.Stmt {
	ty := c.namedType(d)
	st := ir.NewStmt(ir.StmtEnumDecl, d.Range, nil)
	data := ir.EnumDeclData{Name: d.Name, Type: ty, Underlying: c.types.Builtins().Int}
	if info, ok := c.types.NamedInfo(ty); ok && info.Target != types.NoTypeID {
		data.Underlying = info.Target
	}
	var flags symbols.SymbolFlags
	if d.Defined || len(d.Members) > 0 {
		flags |= symbols.SymbolFlagDefinition
	}
	data.Symbol = c.declare(d, st, symbols.Symbol{Kind: symbols.SymbolEnum, Type: ty, Flags: flags})
	for _, m := range d.Members {
		if m == nil || m.Kind != foreign.EnumConstantDecl {
			continue
		}
		es, ok := c.decls[m]
		if !ok {
			es = c.lowerEnumerator(m, ty)
		}
		if es != nil && es.Parent == nil {
			data.Enumerators = append(data.Enumerators, es)
			ir.Attach(st, es)
		}
	}
	st.Data = data
	return st
}

func (c *Context) lowerEnumerator(d *foreign.Decl, enum types.TypeID) *ir.Stmt {
	ty := c.lowerQualType(d.Type, d.Range)
	if ty == types.NoTypeID {
		ty = enum
	}
	st := ir.NewStmt(ir.StmtEnumerator, d.Range, nil)
	data := ir.EnumeratorData{Name: d.Name, Type: ty}
	data.Symbol = c.declare(d, st, symbols.Symbol{Kind: symbols.SymbolEnumerator, Type: ty})
	if d.Init != nil {
		ok := true
		data.Value = c.expr(d.Init, "enumerator value", &ok)
		ir.Attach(st, data.Value)
	}
	st.Data = data
	return st
}

func (c *Context) lowerTypedef(d *foreign.Decl) *ir.Stmt {
	ty := c.namedType(d)
	st := ir.NewStmt(ir.StmtTypedef, d.Range, nil)
	data := ir.TypedefData{Name: d.Name, Type: ty}
	if info, ok := c.types.NamedInfo(ty); ok {
		data.Target = info.Target
	}
	data.Symbol = c.declare(d, st, symbols.Symbol{Kind: symbols.SymbolTypedef, Type: ty, Flags: symbols.SymbolFlagDefinition})
	st.Data = data
	return st
}

// ensureNamespace returns the IR node and scope of a namespace declaration.
// Reopened namespaces share the scope and the symbol of the first opening.
func (c *Context) ensureNamespace(d *foreign.Decl) (*ir.Stmt, symbols.ScopeID) {
	if st, ok := c.nsDecls[d]; ok {
		return st, st.Scope
	}
	parent, ok := c.homeScope(d)
	if !ok {
		parent = c.stack.Top()
	}
	st := ir.NewStmt(ir.StmtNamespace, d.Range, nil)
	scope, ok := c.table.ChildNamed(parent, symbols.ScopeNamespace, d.Name)
	if !ok {
		scope = c.table.Scopes.New(symbols.ScopeNamespace, parent, st, d.Range)
		c.table.Scopes.Get(scope).Name = d.Name
	}
	var sym symbols.SymbolID
	if first, seen := c.namespaces[scope]; seen {
		_, sym, _ = ir.DeclName(first)
	} else {
		sym = c.table.Insert(parent, symbols.Symbol{
			Name:  d.Name,
			Kind:  symbols.SymbolNamespace,
			Span:  d.Range,
			Flags: symbols.SymbolFlagDefinition,
			Decl:  st,
		})
		c.namespaces[scope] = st
	}
	st.Scope = scope
	st.Data = ir.NamespaceData{Name: d.Name, Symbol: sym}
	c.nsDecls[d] = st
	c.syms[d] = sym
	return st, scope
}

func (c *Context) lowerNamespace(d *foreign.Decl) *ir.Stmt {
	st, scope := c.ensureNamespace(d)
	c.stack.Push(scope)
	defer c.leave(scope)
	data, _ := st.Data.(ir.NamespaceData)
	for _, m := range d.Members {
		c.lowerMember(m, 0, func(ms *ir.Stmt) {
			data.Decls = append(data.Decls, ms)
			ir.Attach(st, ms)
		})
	}
	st.Data = data
	c.decls[d] = st
	return st
}

// lowerLabelDecl binds a label to the nearest enclosing function definition.
func (c *Context) lowerLabelDecl(d *foreign.Decl) {
	if _, ok := c.syms[d]; ok {
		return
	}
	sym := symbols.Symbol{Name: d.Name, Kind: symbols.SymbolLabel, Span: d.Range}
	fn, ok := c.stack.FindEnclosing(symbols.ScopeFunction)
	if !ok {
		diag.ReportWarning(c.rep, diag.LowLabelOutsideFunction, d.Range,
			fmt.Sprintf("label '%s' is not inside a function definition", d.Name)).Emit()
		c.mismatch(d.Range, "label "+d.Name, nil)
		sym.Flags |= symbols.SymbolFlagPlaceholder
		c.syms[d] = c.stack.Insert(sym)
		return
	}
	c.syms[d] = c.table.Insert(fn, sym)
}
