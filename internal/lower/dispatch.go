package lower

import (
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/types"
)

// translate is the statement half of the translation cache: a hit returns
// the cached node without dispatching. The flag is false when some required
// child had to be replaced by a stand-in.
func (c *Context) translate(s *foreign.Stmt) (ir.Node, bool) {
	if s == nil {
		return nil, true
	}
	if n, ok := c.stmts[s]; ok {
		return n, true
	}
	c.descend(s.Range, s.Kind.String())
	defer c.ascend()
	c.stats.Inc("stmt:" + s.Kind.String())
	n, ok := c.dispatch(s)
	if !ir.IsNil(n) {
		c.stmts[s] = n
	}
	return n, ok
}

// remember caches n before its children are lowered, so references back to
// s from inside resolve to the node under construction.
func (c *Context) remember(s *foreign.Stmt, n ir.Node) {
	c.stmts[s] = n
}

func (c *Context) dispatch(s *foreign.Stmt) (ir.Node, bool) {
	switch s.Kind {
	// statements
	case foreign.CompoundStmt:
		return c.lowerCompound(s)
	case foreign.DeclStmt:
		return c.lowerDeclStmt(s)
	case foreign.NullStmt:
		return ir.NewStmt(ir.StmtNull, s.Range, nil), true
	case foreign.ForStmt:
		return c.lowerFor(s)
	case foreign.IfStmt:
		return c.lowerIf(s)
	case foreign.WhileStmt:
		return c.lowerWhile(s)
	case foreign.DoStmt:
		return c.lowerDo(s)
	case foreign.SwitchStmt:
		return c.lowerSwitch(s)
	case foreign.CaseStmt:
		return c.lowerCase(s)
	case foreign.DefaultStmt:
		return c.lowerDefault(s)
	case foreign.ReturnStmt:
		return c.lowerReturn(s)
	case foreign.BreakStmt:
		return ir.NewStmt(ir.StmtBreak, s.Range, nil), true
	case foreign.ContinueStmt:
		return ir.NewStmt(ir.StmtContinue, s.Range, nil), true
	case foreign.LabelStmt:
		return c.lowerLabel(s)
	case foreign.GotoStmt:
		return c.lowerGoto(s)
	case foreign.CapturedStmt:
		ok := true
		return c.body(s.Child(0), s.Range, "captured body", &ok), ok
	case foreign.GCCAsmStmt, foreign.MSAsmStmt, foreign.AttributedStmt, foreign.IndirectGotoStmt,
		foreign.CXXTryStmt, foreign.CXXCatchStmt, foreign.CXXForRangeStmt,
		foreign.CoroutineBodyStmt, foreign.CoreturnStmt,
		foreign.SEHTryStmt, foreign.SEHExceptStmt, foreign.SEHFinallyStmt, foreign.SEHLeaveStmt,
		foreign.MSDependentExistsStmt:
		c.unimplemented(CategoryStmt, s.Kind.String(), s.Range, "")

	case foreign.OMPParallelDirective, foreign.OMPForDirective, foreign.OMPParallelForDirective,
		foreign.OMPSimdDirective, foreign.OMPForSimdDirective, foreign.OMPParallelForSimdDirective,
		foreign.OMPSectionsDirective, foreign.OMPSectionDirective, foreign.OMPSingleDirective,
		foreign.OMPMasterDirective, foreign.OMPCriticalDirective, foreign.OMPBarrierDirective,
		foreign.OMPTaskDirective, foreign.OMPTaskwaitDirective, foreign.OMPTaskyieldDirective,
		foreign.OMPAtomicDirective, foreign.OMPFlushDirective, foreign.OMPOrderedDirective,
		foreign.OMPTargetDirective, foreign.OMPTeamsDirective, foreign.OMPDistributeDirective:
		return c.lowerDirective(s)
	case foreign.OMPParallelSectionsDirective, foreign.OMPTaskLoopDirective, foreign.OMPTaskLoopSimdDirective,
		foreign.OMPTaskgroupDirective, foreign.OMPCancelDirective, foreign.OMPCancellationPointDirective,
		foreign.OMPDistributeParallelForDirective, foreign.OMPDistributeParallelForSimdDirective,
		foreign.OMPDistributeSimdDirective, foreign.OMPTargetDataDirective, foreign.OMPTargetEnterDataDirective,
		foreign.OMPTargetExitDataDirective, foreign.OMPTargetUpdateDirective, foreign.OMPTargetParallelDirective,
		foreign.OMPTargetParallelForDirective, foreign.OMPTargetParallelForSimdDirective, foreign.OMPTargetSimdDirective,
		foreign.OMPTargetTeamsDirective, foreign.OMPTargetTeamsDistributeDirective,
		foreign.OMPTargetTeamsDistributeSimdDirective, foreign.OMPTeamsDistributeDirective,
		foreign.OMPTeamsDistributeSimdDirective:
		c.unimplemented(CategoryStmt, s.Kind.String(), s.Range, s.Directive)

	// operators
	case foreign.BinaryOperator, foreign.CompoundAssignOperator:
		return c.lowerBinary(s)
	case foreign.UnaryOperator:
		return c.lowerUnary(s)
	case foreign.CallExpr, foreign.CXXMemberCallExpr, foreign.CXXOperatorCallExpr:
		return c.lowerCall(s)
	case foreign.MemberExpr:
		return c.lowerMemberExpr(s)
	case foreign.ExtVectorElementExpr:
		return c.lowerVectorElement(s)
	case foreign.ArraySubscriptExpr:
		return c.lowerIndex(s)
	case foreign.ConditionalOperator:
		return c.lowerConditional(s)
	case foreign.DeclRefExpr:
		return c.lowerDeclRef(s)

	// casts and wrappers
	case foreign.ImplicitCastExpr, foreign.ParenExpr,
		foreign.ConstantExpr, foreign.ExprWithCleanups, foreign.MaterializeTemporaryExpr,
		foreign.CXXBindTemporaryExpr, foreign.CXXDefaultArgExpr, foreign.SubstNonTypeTemplateParmExpr:
		return c.passThrough(s)
	case foreign.CStyleCastExpr, foreign.CXXFunctionalCastExpr, foreign.CXXStaticCastExpr,
		foreign.CXXDynamicCastExpr, foreign.CXXReinterpretCastExpr, foreign.CXXConstCastExpr:
		return c.lowerCast(s)
	case foreign.InitListExpr:
		return c.lowerInitList(s)
	case foreign.UnaryExprOrTypeTraitExpr:
		return c.lowerSizeOf(s)
	case foreign.OffsetOfExpr:
		return c.lowerOffsetOf(s)
	case foreign.DesignatedInitExpr:
		return c.lowerDesignatedInit(s)

	// literals
	case foreign.IntegerLiteral:
		return c.lowerIntLiteral(s)
	case foreign.FloatingLiteral:
		return c.lowerFloatLiteral(s)
	case foreign.CharacterLiteral:
		return c.lowerCharLiteral(s)
	case foreign.CXXBoolLiteralExpr:
		return ir.NewExpr(ir.ExprBoolVal, c.exprType(s), s.Range, ir.BoolValData{Value: s.Value == "true" || s.Value == "1"}), true
	case foreign.CXXNullPtrLiteralExpr:
		return ir.NewExpr(ir.ExprNullPtrVal, c.exprType(s), s.Range, nil), true
	case foreign.GNUNullExpr:
		return ir.NewExpr(ir.ExprIntVal, c.exprType(s), s.Range, ir.IntValData{Value: 0, Text: "0"}), true
	case foreign.StringLiteral:
		return ir.NewExpr(ir.ExprStringVal, c.exprType(s), s.Range, ir.StringValData{Value: Escape(s.Value)}), true
	case foreign.ImaginaryLiteral:
		return c.lowerImaginary(s)
	case foreign.PredefinedExpr:
		return c.lowerPredefined(s)

	// other expressions
	case foreign.CompoundLiteralExpr:
		return c.lowerCompoundLiteral(s)
	case foreign.StmtExpr:
		return c.lowerStmtExpr(s)
	case foreign.VAArgExpr:
		return c.lowerVAArg(s)
	case foreign.CXXConstructExpr, foreign.CXXTemporaryObjectExpr:
		return c.lowerConstruct(s)
	case foreign.CXXUnresolvedConstructExpr:
		return c.lowerUnresolvedConstruct(s)
	case foreign.CXXNewExpr:
		return c.lowerNew(s)
	case foreign.CXXThisExpr:
		return c.lowerThis(s)
	case foreign.CXXThrowExpr:
		return c.lowerThrow(s)
	case foreign.TypeTraitExpr, foreign.CXXNoexceptExpr:
		return c.lowerTypeTrait(s)
	case foreign.SizeOfPackExpr:
		return c.lowerSizeOfPack(s)
	case foreign.UnresolvedLookupExpr, foreign.DependentScopeDeclRefExpr, foreign.CXXDependentScopeMemberExpr:
		return c.lowerDependentRef(s)
	case foreign.PackExpansionExpr:
		return c.passThrough(s)
	case foreign.RecoveryExpr:
		return c.lowerRecovery(s)
	case foreign.CXXDeleteExpr, foreign.CXXTypeidExpr, foreign.LambdaExpr, foreign.ChooseExpr,
		foreign.AddrLabelExpr, foreign.OpaqueValueExpr, foreign.ImplicitValueInitExpr,
		foreign.CXXScalarValueInitExpr, foreign.ParenListExpr, foreign.BinaryConditionalOperator,
		foreign.CoawaitExpr, foreign.CoyieldExpr, foreign.CXXFoldExpr, foreign.RequiresExpr:
		c.unimplemented(CategoryExpr, s.Kind.String(), s.Range, "")

	case foreign.InvalidStmt:
		c.invariant(s.Range, nil, "invalid statement kind in input")
	default:
		c.invariant(s.Range, nil, "unhandled statement kind "+s.Kind.String())
	}
	return nil, false
}

// Child helpers. Each takes the handler's ok flag and clears it when the
// child does not lower into the expected category.

// expr lowers an optional expression child; nil stays nil.
func (c *Context) expr(s *foreign.Stmt, what string, ok *bool) *ir.Expr {
	if s == nil {
		return nil
	}
	n, cok := c.translate(s)
	if !cok {
		*ok = false
	}
	if e, isExpr := ir.AsExpr(n); isExpr {
		return e
	}
	c.mismatch(s.Range, what+" ("+s.Kind.String()+") is not an expression", ok)
	return nullExpr(s.Range)
}

// exprOrNull lowers a child that must be present in the IR; an absent one
// becomes a null expression.
func (c *Context) exprOrNull(s *foreign.Stmt, sp source.Span, what string, ok *bool) *ir.Expr {
	if s == nil {
		return nullExpr(sp)
	}
	return c.expr(s, what, ok)
}

// stmt lowers an optional statement child. Expressions are wrapped in an
// ExprStatement.
func (c *Context) stmt(s *foreign.Stmt, what string, ok *bool) *ir.Stmt {
	if s == nil {
		return nil
	}
	n, cok := c.translate(s)
	if !cok {
		*ok = false
	}
	switch v := n.(type) {
	case *ir.Stmt:
		return v
	case *ir.Expr:
		if v == nil {
			return nil
		}
		st := ir.NewStmt(ir.StmtExpr, v.Span, ir.ExprStmtData{Expr: v})
		ir.Attach(st, v)
		return st
	}
	return nil
}

func (c *Context) stmtOrNull(s *foreign.Stmt, sp source.Span, what string, ok *bool) *ir.Stmt {
	if st := c.stmt(s, what, ok); st != nil {
		return st
	}
	if s != nil {
		sp = s.Range
	}
	return ir.NewStmt(ir.StmtNull, sp, nil)
}

// exprList lowers children into one ExprList node.
func (c *Context) exprList(children []*foreign.Stmt, sp source.Span, what string, ok *bool) *ir.Expr {
	items := make([]*ir.Expr, 0, len(children))
	for _, ch := range children {
		if ch == nil {
			continue
		}
		items = append(items, c.expr(ch, what, ok))
	}
	list := ir.NewExpr(ir.ExprList, types.NoTypeID, sp, ir.ListData{Items: items})
	for _, it := range items {
		ir.Attach(list, it)
	}
	return list
}

func nullExpr(sp source.Span) *ir.Expr {
	return ir.NewExpr(ir.ExprNull, types.NoTypeID, sp, nil)
}

func attachStmts(parent ir.Node, list []*ir.Stmt) {
	for _, s := range list {
		ir.Attach(parent, s)
	}
}

// exprType lowers the type of an expression node.
func (c *Context) exprType(s *foreign.Stmt) types.TypeID {
	return c.lowerQualType(s.Type, s.Range)
}
