package lower

import (
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/symbols"
)

func (c *Context) enter(kind symbols.ScopeKind, owner *ir.Stmt, sp source.Span) symbols.ScopeID {
	return c.stack.Enter(kind, owner, sp)
}

// leave pops id; any other top is an engine bug.
func (c *Context) leave(id symbols.ScopeID) {
	if err := c.stack.Pop(id); err != nil {
		var sp source.Span
		if sc := c.table.Scopes.Get(id); sc != nil {
			sp = sc.Span
		}
		c.invariant(sp, err, "unbalanced scope stack")
	}
}

// takePending returns the declarations emitted into scope by declaration
// groups and clears them.
func (c *Context) takePending(scope symbols.ScopeID) []*ir.Stmt {
	out := c.pending[scope]
	delete(c.pending, scope)
	return out
}

// withPending prepends pending declarations of scope to st, grouping them in
// a block when there are any.
func (c *Context) withPending(scope symbols.ScopeID, st *ir.Stmt, sp source.Span) *ir.Stmt {
	extra := c.takePending(scope)
	if len(extra) == 0 {
		return st
	}
	if st != nil {
		extra = append(extra, st)
	}
	block := ir.NewStmt(ir.StmtBlock, sp, ir.BlockData{Stmts: extra})
	attachStmts(block, extra)
	return block
}

// body lowers a sub-statement that is not a block item of its own. The
// leading declarators of an unbraced declaration group are emitted into the
// current scope and are grouped with it here.
func (c *Context) body(s *foreign.Stmt, sp source.Span, what string, ok *bool) *ir.Stmt {
	return c.withPending(c.stack.Top(), c.stmtOrNull(s, sp, what, ok), sp)
}

// optBody is body for an optional sub-statement; an absent one stays nil.
func (c *Context) optBody(s *foreign.Stmt, sp source.Span, what string, ok *bool) *ir.Stmt {
	return c.withPending(c.stack.Top(), c.stmt(s, what, ok), sp)
}

func (c *Context) lowerCompound(s *foreign.Stmt) (ir.Node, bool) {
	st := ir.NewStmt(ir.StmtBlock, s.Range, nil)
	c.remember(s, st)
	scope := c.enter(symbols.ScopeBlock, st, s.Range)
	defer c.leave(scope)
	st.Scope = scope

	ok := true
	list := make([]*ir.Stmt, 0, len(s.Inner))
	for _, child := range s.Inner {
		if child == nil {
			continue
		}
		n := c.stmt(child, "block item", &ok)
		list = append(list, c.takePending(scope)...)
		if n != nil {
			list = append(list, n)
		}
	}
	st.Data = ir.BlockData{Stmts: list}
	attachStmts(st, list)
	return st, ok
}

// lowerDeclStmt lowers a declaration group. Every declarator but the last is
// emitted into the current scope ahead of the group; the last one is the
// group's result.
func (c *Context) lowerDeclStmt(s *foreign.Stmt) (ir.Node, bool) {
	out := make([]*ir.Stmt, 0, len(s.Decls))
	for _, d := range s.Decls {
		if d == nil || skippedDecl(d.Kind) {
			continue
		}
		if d.Name == "" && (d.Kind == foreign.RecordDecl || d.Kind == foreign.CXXRecordDecl || d.Kind == foreign.EnumDecl) {
			continue
		}
		if st := c.lowerDecl(d); st != nil && st.Parent == nil {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return nil, true
	}
	if len(out) > 1 {
		top := c.stack.Top()
		c.pending[top] = append(c.pending[top], out[:len(out)-1]...)
	}
	return out[len(out)-1], true
}

func (c *Context) lowerFor(s *foreign.Stmt) (ir.Node, bool) {
	st := ir.NewStmt(ir.StmtFor, s.Range, nil)
	c.remember(s, st)
	scope := c.enter(symbols.ScopeFor, st, s.Range)
	defer c.leave(scope)
	st.Scope = scope

	ok := true
	init := c.withPending(scope, c.stmt(s.Child(0), "for init", &ok), s.Range)
	if init == nil {
		init = ir.NewStmt(ir.StmtNull, s.Range, nil)
	}
	cond := c.exprOrNull(s.Child(1), s.Range, "for condition", &ok)
	post := c.exprOrNull(s.Child(2), s.Range, "for increment", &ok)
	body := c.body(s.Child(3), s.Range, "for body", &ok)
	cond = c.canonicalCond(s.Child(1), cond)

	ir.Attach(st, init, cond, post, body)
	st.Data = ir.ForData{Init: init, Cond: cond, Post: post, Body: body}
	return st, ok
}

// canonicalCond rewrites a loop test of the shape "a < b", with each side a
// variable or an integer literal once explicit casts are stripped, into a
// fresh comparison of those operands. Other shapes are left alone.
func (c *Context) canonicalCond(src *foreign.Stmt, cond *ir.Expr) *ir.Expr {
	b, isBin := cond.Data.(ir.BinaryData)
	if src == nil || cond.Kind != ir.ExprBinary || !isBin || b.Op != ir.OpLt {
		return cond
	}
	l, r := stripCasts(b.Left), stripCasts(b.Right)
	if !simpleOperand(l) || !simpleOperand(r) {
		return cond
	}
	lc, lok := ir.CloneExpr(l)
	rc, rok := ir.CloneExpr(r)
	if !lok || !rok {
		return cond
	}
	out := ir.NewExpr(ir.ExprBinary, cond.Type, cond.Span, ir.BinaryData{Op: ir.OpLt, Left: lc, Right: rc})
	ir.Attach(out, lc, rc)
	for n := src; n != nil && c.stmts[n] == cond; n = n.Child(0) {
		c.stmts[n] = out
		if !passThroughKind(n.Kind) {
			break
		}
	}
	c.stats.Inc("canonical-loop")
	return out
}

func stripCasts(e *ir.Expr) *ir.Expr {
	for e != nil && e.Kind == ir.ExprCast {
		d, _ := e.Data.(ir.CastData)
		e = d.Value
	}
	return e
}

func simpleOperand(e *ir.Expr) bool {
	return e != nil && (e.Kind == ir.ExprVarRef || e.Kind == ir.ExprIntVal)
}

func (c *Context) lowerIf(s *foreign.Stmt) (ir.Node, bool) {
	st := ir.NewStmt(ir.StmtIf, s.Range, nil)
	c.remember(s, st)
	scope := c.enter(symbols.ScopeIf, st, s.Range)
	defer c.leave(scope)
	st.Scope = scope

	ok := true
	init := c.withPending(scope, c.stmt(s.Child(0), "if init", &ok), s.Range)
	cond := c.exprOrNull(s.Child(1), s.Range, "if condition", &ok)
	then := c.body(s.Child(2), s.Range, "then branch", &ok)
	els := c.optBody(s.Child(3), s.Range, "else branch", &ok)

	ir.Attach(st, init, cond, then, els)
	st.Data = ir.IfData{Init: init, Cond: cond, Then: then, Else: els}
	return st, ok
}

func (c *Context) lowerWhile(s *foreign.Stmt) (ir.Node, bool) {
	st := ir.NewStmt(ir.StmtWhile, s.Range, nil)
	c.remember(s, st)
	scope := c.enter(symbols.ScopeWhile, st, s.Range)
	defer c.leave(scope)
	st.Scope = scope

	ok := true
	cond := c.exprOrNull(s.Child(0), s.Range, "while condition", &ok)
	body := c.body(s.Child(1), s.Range, "while body", &ok)
	ir.Attach(st, cond, body)
	st.Data = ir.WhileData{Cond: cond, Body: body}
	return st, ok
}

func (c *Context) lowerDo(s *foreign.Stmt) (ir.Node, bool) {
	st := ir.NewStmt(ir.StmtDo, s.Range, nil)
	c.remember(s, st)
	scope := c.enter(symbols.ScopeDo, st, s.Range)
	defer c.leave(scope)
	st.Scope = scope

	ok := true
	body := c.body(s.Child(0), s.Range, "do body", &ok)
	cond := c.exprOrNull(s.Child(1), s.Range, "do condition", &ok)
	ir.Attach(st, body, cond)
	st.Data = ir.DoData{Body: body, Cond: cond}
	return st, ok
}

func (c *Context) lowerSwitch(s *foreign.Stmt) (ir.Node, bool) {
	st := ir.NewStmt(ir.StmtSwitch, s.Range, nil)
	c.remember(s, st)
	scope := c.enter(symbols.ScopeSwitch, st, s.Range)
	defer c.leave(scope)
	st.Scope = scope

	ok := true
	init := c.withPending(scope, c.stmt(s.Child(0), "switch init", &ok), s.Range)
	cond := c.exprOrNull(s.Child(1), s.Range, "switch condition", &ok)
	body := c.body(s.Child(2), s.Range, "switch body", &ok)
	ir.Attach(st, init, cond, body)
	st.Data = ir.SwitchData{Init: init, Cond: cond, Body: body}
	return st, ok
}

func (c *Context) lowerCase(s *foreign.Stmt) (ir.Node, bool) {
	if s.Child(1) != nil {
		c.unimplemented(CategoryStmt, s.Kind.String(), s.Range, "GNU case range")
	}
	ok := true
	value := c.exprOrNull(s.Child(0), s.Range, "case value", &ok)
	body := c.body(s.Child(2), s.Range, "case body", &ok)
	st := ir.NewStmt(ir.StmtCase, s.Range, ir.CaseData{Value: value, Body: body})
	ir.Attach(st, value, body)
	return st, ok
}

func (c *Context) lowerDefault(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	body := c.body(s.Child(0), s.Range, "default body", &ok)
	st := ir.NewStmt(ir.StmtDefault, s.Range, ir.DefaultData{Body: body})
	ir.Attach(st, body)
	return st, ok
}

func (c *Context) lowerReturn(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	value := c.expr(s.Child(0), "return value", &ok)
	st := ir.NewStmt(ir.StmtReturn, s.Range, ir.ReturnData{Value: value})
	ir.Attach(st, value)
	return st, ok
}

func (c *Context) lowerLabel(s *foreign.Stmt) (ir.Node, bool) {
	if s.Decl == nil {
		c.invariant(s.Range, nil, "label statement without a label declaration")
	}
	sym := c.resolveReference(s.Decl, s.Range)
	st := ir.NewStmt(ir.StmtLabel, s.Range, nil)
	c.remember(s, st)
	ok := true
	body := c.body(s.Child(0), s.Range, "label body", &ok)
	ir.Attach(st, body)
	st.Data = ir.LabelData{Name: s.Decl.Name, Symbol: sym, Body: body}
	if ls := c.table.Symbols.Get(sym); ls != nil && ls.Kind == symbols.SymbolLabel {
		ls.Decl = st
	}
	return st, ok
}

func (c *Context) lowerGoto(s *foreign.Stmt) (ir.Node, bool) {
	if s.Decl == nil {
		c.invariant(s.Range, nil, "goto without a label declaration")
	}
	sym := c.resolveReference(s.Decl, s.Range)
	return ir.NewStmt(ir.StmtGoto, s.Range, ir.GotoData{Label: s.Decl.Name, Symbol: sym}), true
}
