package lower

import (
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/types"
)

// lowerDesignatedInit lowers `.a[2].b = v` inside a braced initializer into
// the designator chain plus the initializer value.
func (c *Context) lowerDesignatedInit(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	chain := c.designators(s, "designator", &ok)
	init := c.exprOrNull(s.Child(0), s.Range, "designated initializer", &ok)
	e := ir.NewExpr(ir.ExprDesignatedInit, c.exprType(s), s.Range, ir.DesignatedInitData{Designators: chain, Init: init})
	for _, d := range chain {
		ir.Attach(e, d)
	}
	ir.Attach(e, init)
	return e, ok
}

// lowerOffsetOf lowers __builtin_offsetof(T, a.b[i]).
func (c *Context) lowerOffsetOf(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	of := c.lowerQualType(s.WrittenType, s.Range)
	path := c.designators(s, "offsetof component", &ok)
	ty := c.exprType(s)
	if ty == types.NoTypeID {
		ty = c.types.Builtins().ULong
	}
	e := ir.NewExpr(ir.ExprOffsetOf, ty, s.Range, ir.OffsetOfData{Of: of, Path: path})
	for _, d := range path {
		ir.Attach(e, d)
	}
	return e, ok
}

func (c *Context) designators(s *foreign.Stmt, what string, ok *bool) []*ir.Expr {
	if len(s.Designators) == 0 {
		c.mismatch(s.Range, s.Kind.String()+" has no "+what, ok)
		return nil
	}
	out := make([]*ir.Expr, 0, len(s.Designators))
	for _, d := range s.Designators {
		out = append(out, c.designator(d, s.Range, what, ok))
	}
	return out
}

func (c *Context) designator(d foreign.Designator, sp source.Span, what string, ok *bool) *ir.Expr {
	if d.IsField() {
		var ty types.TypeID
		if d.Field != nil {
			ty = c.lowerQualType(d.Field.Type, sp)
		}
		name, field := c.memberSymbol(d.Field, d.Name, ty, sp)
		return ir.NewExpr(ir.ExprMember, ty, sp, ir.MemberData{Name: name, Field: field})
	}
	if d.RangeEnd != nil {
		c.unimplemented(CategoryExpr, "DesignatedInitExpr", d.Index.Range, "array range designator")
	}
	index := c.expr(d.Index, what, ok)
	e := ir.NewExpr(ir.ExprIndex, types.NoTypeID, d.Index.Range, ir.IndexData{Index: index})
	ir.Attach(e, index)
	return e
}
