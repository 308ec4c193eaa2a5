package lower

import (
	"fmt"
	"strconv"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/types"
)

func passThroughKind(k foreign.StmtKind) bool {
	switch k {
	case foreign.ImplicitCastExpr, foreign.ParenExpr, foreign.ConstantExpr, foreign.ExprWithCleanups,
		foreign.MaterializeTemporaryExpr, foreign.CXXBindTemporaryExpr, foreign.CXXDefaultArgExpr,
		foreign.SubstNonTypeTemplateParmExpr, foreign.PackExpansionExpr:
		return true
	}
	return false
}

// passThrough lowers s to the node of its only child.
func (c *Context) passThrough(s *foreign.Stmt) (ir.Node, bool) {
	child := s.Child(0)
	if child == nil {
		ok := true
		c.mismatch(s.Range, s.Kind.String()+" without an operand", &ok)
		return nullExpr(s.Range), ok
	}
	return c.translate(child)
}

func (c *Context) lowerBinary(s *foreign.Stmt) (ir.Node, bool) {
	op, known := ir.ParseBinaryOp(s.Opcode)
	if !known {
		c.unimplemented(CategoryOperator, s.Opcode, s.Range, "binary operator")
	}
	ok := true
	l := c.exprOrNull(s.Child(0), s.Range, "left operand", &ok)
	r := c.exprOrNull(s.Child(1), s.Range, "right operand", &ok)
	e := ir.NewExpr(ir.ExprBinary, c.exprType(s), s.Range, ir.BinaryData{Op: op, Left: l, Right: r})
	ir.Attach(e, l, r)
	return e, ok
}

func (c *Context) lowerUnary(s *foreign.Stmt) (ir.Node, bool) {
	switch s.Opcode {
	case "__extension__":
		return c.passThrough(s)
	case "co_await":
		c.unimplemented(CategoryOperator, s.Opcode, s.Range, "unary operator")
	}
	op, known := ir.ParseUnaryOp(s.Opcode, s.Postfix)
	if !known {
		c.unimplemented(CategoryOperator, s.Opcode, s.Range, "unary operator")
	}
	ok := true
	operand := c.exprOrNull(s.Child(0), s.Range, "operand", &ok)
	e := ir.NewExpr(ir.ExprUnary, c.exprType(s), s.Range, ir.UnaryData{Op: op, Operand: operand})
	ir.Attach(e, operand)
	return e, ok
}

func (c *Context) lowerCall(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	callee := c.exprOrNull(s.Child(0), s.Range, "callee", &ok)
	var rest []*foreign.Stmt
	if len(s.Inner) > 1 {
		rest = s.Inner[1:]
	}
	args := c.exprList(rest, s.Range, "call argument", &ok)
	e := ir.NewExpr(ir.ExprCall, c.exprType(s), s.Range, ir.CallData{
		Callee: callee,
		Args:   args,
		Method: s.Kind == foreign.CXXMemberCallExpr,
	})
	ir.Attach(e, callee, args)
	return e, ok
}

func (c *Context) lowerMemberExpr(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	base := c.exprOrNull(s.Child(0), s.Range, "member base", &ok)
	ty := c.exprType(s)
	name, field := c.memberSymbol(s.Decl, s.Name, ty, s.Range)
	e := ir.NewExpr(ir.ExprMember, ty, s.Range, ir.MemberData{Base: base, Name: name, Field: field, Arrow: s.Arrow})
	ir.Attach(e, base)
	return e, ok
}

// memberSymbol resolves a member by declaration. A member with none gets a
// placeholder field symbol in the current scope.
func (c *Context) memberSymbol(d *foreign.Decl, name string, ty types.TypeID, sp source.Span) (string, symbols.SymbolID) {
	if d != nil {
		if name == "" {
			name = d.Name
		}
		return name, c.resolveReference(d, sp)
	}
	c.warnOnce("member:"+name, diag.LowNoMember, sp, fmt.Sprintf("member '%s' has no declaration", name))
	return name, c.stack.Insert(symbols.Symbol{
		Name:  name,
		Kind:  symbols.SymbolField,
		Type:  ty,
		Span:  sp,
		Flags: symbols.SymbolFlagPlaceholder,
	})
}

// lowerVectorElement lowers v.xy as a member access whose name is the
// accessor; it has no field symbol.
func (c *Context) lowerVectorElement(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	base := c.exprOrNull(s.Child(0), s.Range, "vector base", &ok)
	e := ir.NewExpr(ir.ExprMember, c.exprType(s), s.Range, ir.MemberData{Base: base, Name: s.Name, Arrow: s.Arrow})
	ir.Attach(e, base)
	return e, ok
}

func (c *Context) lowerIndex(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	base := c.exprOrNull(s.Child(0), s.Range, "subscript base", &ok)
	index := c.exprOrNull(s.Child(1), s.Range, "subscript index", &ok)
	e := ir.NewExpr(ir.ExprIndex, c.exprType(s), s.Range, ir.IndexData{Base: base, Index: index})
	ir.Attach(e, base, index)
	return e, ok
}

func (c *Context) lowerConditional(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	cond := c.exprOrNull(s.Child(0), s.Range, "condition", &ok)
	then := c.exprOrNull(s.Child(1), s.Range, "true operand", &ok)
	els := c.exprOrNull(s.Child(2), s.Range, "false operand", &ok)
	e := ir.NewExpr(ir.ExprCond, c.exprType(s), s.Range, ir.CondData{Cond: cond, Then: then, Else: els})
	ir.Attach(e, cond, then, els)
	return e, ok
}

func (c *Context) lowerDeclRef(s *foreign.Stmt) (ir.Node, bool) {
	ty := c.exprType(s)
	if s.Decl == nil {
		diag.ReportWarning(c.rep, diag.LowUnresolvedSymbol, s.Range,
			fmt.Sprintf("reference to '%s' has no declaration", s.Name)).Emit()
		return ir.NewExpr(ir.ExprOpaqueRef, ty, s.Range, ir.OpaqueRefData{Name: s.Name}), true
	}
	id := c.resolveReference(s.Decl, s.Range)
	sym := c.table.Symbols.Get(id)
	kind := ir.ExprVarRef
	switch sym.Kind {
	case symbols.SymbolFunction:
		kind = ir.ExprFuncRef
	case symbols.SymbolEnumerator:
		kind = ir.ExprEnumRef
	}
	if ty == types.NoTypeID {
		ty = sym.Type
	}
	return ir.NewExpr(kind, ty, s.Range, ir.RefData{Name: sym.Name, Symbol: id}), true
}

func castStyle(k foreign.StmtKind) ir.CastStyle {
	switch k {
	case foreign.CXXFunctionalCastExpr:
		return ir.CastFunctional
	case foreign.CXXStaticCastExpr:
		return ir.CastStatic
	case foreign.CXXDynamicCastExpr:
		return ir.CastDynamic
	case foreign.CXXReinterpretCastExpr:
		return ir.CastReinterpret
	case foreign.CXXConstCastExpr:
		return ir.CastConst
	}
	return ir.CastC
}

// writtenType prefers the spelled type of s over its expression type.
func (c *Context) writtenType(s *foreign.Stmt) types.TypeID {
	if !s.WrittenType.IsNull() {
		return c.lowerQualType(s.WrittenType, s.Range)
	}
	return c.exprType(s)
}

func (c *Context) lowerCast(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	value := c.exprOrNull(s.Child(0), s.Range, "cast operand", &ok)
	e := ir.NewExpr(ir.ExprCast, c.writtenType(s), s.Range, ir.CastData{Value: value, Style: castStyle(s.Kind)})
	ir.Attach(e, value)
	return e, ok
}

// lowerInitList lowers the outermost list to an ExprList and nested lists to
// aggregate initializers.
func (c *Context) lowerInitList(s *foreign.Stmt) (ir.Node, bool) {
	kind := ir.ExprList
	if c.initDepth > 0 {
		kind = ir.ExprAggregateInit
	}
	c.initDepth++
	defer func() { c.initDepth-- }()

	ok := true
	items := make([]*ir.Expr, 0, len(s.Inner))
	for _, ch := range s.Inner {
		if ch != nil {
			items = append(items, c.expr(ch, "initializer", &ok))
		}
	}
	e := ir.NewExpr(kind, c.exprType(s), s.Range, ir.ListData{Items: items})
	for _, it := range items {
		ir.Attach(e, it)
	}
	return e, ok
}

func (c *Context) lowerSizeOf(s *foreign.Stmt) (ir.Node, bool) {
	var kind ir.ExprKind
	switch s.Name {
	case "sizeof", "":
		kind = ir.ExprSizeOf
	case "alignof", "_Alignof", "__alignof", "__alignof__", "preferred_alignof":
		kind = ir.ExprAlignOf
	default:
		c.unimplemented(CategoryExpr, s.Kind.String(), s.Range, s.Name)
	}
	ok := true
	var data ir.SizeOfData
	if s.ArgIsType {
		data.ArgType = c.lowerQualType(s.WrittenType, s.Range)
	} else {
		data.Arg = c.exprOrNull(s.Child(0), s.Range, s.Name+" operand", &ok)
	}
	e := ir.NewExpr(kind, c.exprType(s), s.Range, data)
	ir.Attach(e, data.Arg)
	return e, ok
}

func (c *Context) lowerIntLiteral(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	v, err := strconv.ParseUint(s.Value, 10, 64)
	if err != nil {
		c.mismatch(s.Range, fmt.Sprintf("integer literal %q does not fit 64 bits", s.Value), &ok)
	}
	return ir.NewExpr(ir.ExprIntVal, c.exprType(s), s.Range, ir.IntValData{Value: v, Text: s.Value}), ok
}

func (c *Context) lowerCharLiteral(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	v, err := strconv.ParseUint(s.Value, 10, 32)
	if err != nil {
		c.mismatch(s.Range, fmt.Sprintf("character literal %q is not a code point", s.Value), &ok)
	}
	return ir.NewExpr(ir.ExprCharVal, c.exprType(s), s.Range, ir.CharValData{Value: uint32(v)}), ok //nolint:gosec // parsed with bitSize 32
}

func (c *Context) lowerImaginary(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	value := c.exprOrNull(s.Child(0), s.Range, "imaginary value", &ok)
	e := ir.NewExpr(ir.ExprImaginary, c.exprType(s), s.Range, ir.ImaginaryData{Value: value})
	ir.Attach(e, value)
	return e, ok
}

// functionScope returns the innermost function definition scope, or the top
// scope outside functions.
func (c *Context) functionScope() symbols.ScopeID {
	if fn, ok := c.stack.FindEnclosing(symbols.ScopeFunction); ok {
		return fn
	}
	return c.stack.Top()
}

// implicitVar returns the implicit variable name of the enclosing function,
// creating it on first use.
func (c *Context) implicitVar(name string, ty types.TypeID, flags symbols.SymbolFlags) symbols.SymbolID {
	scope := c.functionScope()
	if id, ok := c.table.LookupLocal(scope, name); ok {
		return id
	}
	return c.table.Insert(scope, symbols.Symbol{
		Name:  name,
		Kind:  symbols.SymbolVariable,
		Type:  ty,
		Flags: flags | symbols.SymbolFlagImplicit,
	})
}

func (c *Context) lowerPredefined(s *foreign.Stmt) (ir.Node, bool) {
	name := s.Name
	if name == "" {
		name = "__func__"
	}
	ty := c.types.Intern(types.MakePointer(c.types.Builtins().Char))
	id := c.implicitVar(name, ty, symbols.SymbolFlagPredefined)
	return ir.NewExpr(ir.ExprVarRef, ty, s.Range, ir.RefData{Name: name, Symbol: id}), true
}

func (c *Context) lowerThis(s *foreign.Stmt) (ir.Node, bool) {
	ty := c.exprType(s)
	id := c.implicitVar("this", ty, 0)
	return ir.NewExpr(ir.ExprVarRef, ty, s.Range, ir.RefData{Name: "this", Symbol: id}), true
}

func (c *Context) lowerCompoundLiteral(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	init := c.exprOrNull(s.Child(0), s.Range, "compound literal initializer", &ok)
	e := ir.NewExpr(ir.ExprCompoundLiteral, c.writtenType(s), s.Range, ir.CompoundLiteralData{Init: init})
	ir.Attach(e, init)
	return e, ok
}

func (c *Context) lowerStmtExpr(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	body := c.stmtOrNull(s.Child(0), s.Range, "statement expression body", &ok)
	e := ir.NewExpr(ir.ExprStmtExpr, c.exprType(s), s.Range, ir.StmtExprData{Body: body})
	ir.Attach(e, body)
	return e, ok
}

func (c *Context) lowerVAArg(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	list := c.exprOrNull(s.Child(0), s.Range, "va_list operand", &ok)
	e := ir.NewExpr(ir.ExprVAArg, c.writtenType(s), s.Range, ir.VAArgData{List: list})
	ir.Attach(e, list)
	return e, ok
}

func (c *Context) lowerConstruct(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	args := c.exprList(s.Inner, s.Range, "constructor argument", &ok)
	e := ir.NewExpr(ir.ExprConstructorInit, c.exprType(s), s.Range, ir.ConstructorInitData{Args: args})
	ir.Attach(e, args)
	return e, ok
}

// lowerUnresolvedConstruct lowers T(args) with a dependent T: the written
// type carries the construction.
func (c *Context) lowerUnresolvedConstruct(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	args := c.exprList(s.Inner, s.Range, "constructor argument", &ok)
	e := ir.NewExpr(ir.ExprConstructorInit, c.writtenType(s), s.Range, ir.ConstructorInitData{Args: args})
	ir.Attach(e, args)
	return e, ok
}

func (c *Context) lowerNew(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	data := ir.NewData{
		Allocated: c.lowerQualType(s.WrittenType, s.Range),
		ArraySize: c.expr(s.Child(0), "array size", &ok),
		Init:      c.expr(s.Child(1), "new initializer", &ok),
	}
	if len(s.Inner) > 2 {
		data.Placement = c.exprList(s.Inner[2:], s.Range, "placement argument", &ok)
	}
	e := ir.NewExpr(ir.ExprNew, c.exprType(s), s.Range, data)
	ir.Attach(e, data.ArraySize, data.Init, data.Placement)
	return e, ok
}

func (c *Context) lowerThrow(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	value := c.expr(s.Child(0), "thrown value", &ok)
	e := ir.NewExpr(ir.ExprThrow, c.exprType(s), s.Range, ir.ThrowData{Value: value})
	ir.Attach(e, value)
	return e, ok
}

func (c *Context) lowerTypeTrait(s *foreign.Stmt) (ir.Node, bool) {
	if s.Dependent {
		return c.lowerDependentRef(s)
	}
	return ir.NewExpr(ir.ExprBoolVal, c.exprType(s), s.Range, ir.BoolValData{Value: s.Value == "true" || s.Value == "1"}), true
}

// lowerSizeOfPack yields the pack length, or an opaque reference while the
// length still depends on a template parameter.
func (c *Context) lowerSizeOfPack(s *foreign.Stmt) (ir.Node, bool) {
	ty := c.exprType(s)
	if ty == types.NoTypeID {
		ty = c.types.Builtins().UInt
	}
	if s.Dependent {
		return ir.NewExpr(ir.ExprOpaqueRef, ty, s.Range, ir.OpaqueRefData{Name: "__sizeof_pack_dependent"}), true
	}
	ok := true
	n, err := strconv.ParseUint(s.Value, 10, 64)
	if err != nil {
		c.mismatch(s.Range, fmt.Sprintf("pack length %q is not a count", s.Value), &ok)
	}
	return ir.NewExpr(ir.ExprIntVal, ty, s.Range, ir.IntValData{Value: n, Text: strconv.FormatUint(n, 10)}), ok
}

// lowerDependentRef keeps a name that only a template instantiation could
// resolve as an opaque reference.
func (c *Context) lowerDependentRef(s *foreign.Stmt) (ir.Node, bool) {
	name := s.Name
	if name == "" && s.Decl != nil {
		name = s.Decl.Name
	}
	c.warnOnce("dependent:"+name, diag.LowDependentName, s.Range,
		fmt.Sprintf("dependent name '%s' left unresolved", name))
	return ir.NewExpr(ir.ExprOpaqueRef, c.exprType(s), s.Range, ir.OpaqueRefData{Name: name}), true
}

// lowerRecovery stands in for an expression the front end could not parse.
func (c *Context) lowerRecovery(s *foreign.Stmt) (ir.Node, bool) {
	diag.ReportWarning(c.rep, diag.LowRecoveryExpr, s.Range, "recovery expression replaced by the constant 42").Emit()
	ty := c.exprType(s)
	if ty == types.NoTypeID {
		ty = c.types.Builtins().Int
	}
	return ir.NewExpr(ir.ExprIntVal, ty, s.Range, ir.IntValData{Value: 42, Text: "42"}), true
}
