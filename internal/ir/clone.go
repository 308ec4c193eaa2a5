package ir

// CloneExpr returns a deep copy of e with no parent. Expressions that own
// statements (statement expressions) cannot be cloned and report false.
func CloneExpr(e *Expr) (*Expr, bool) {
	if e == nil {
		return nil, true
	}
	out := &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span}
	ok := true
	sub := func(x *Expr) *Expr {
		c, cok := CloneExpr(x)
		if !cok {
			ok = false
		}
		return c
	}
	subs := func(xs []*Expr) []*Expr {
		if xs == nil {
			return nil
		}
		res := make([]*Expr, len(xs))
		for i, x := range xs {
			res[i] = sub(x)
		}
		return res
	}
	switch d := e.Data.(type) {
	case ImaginaryData:
		d.Value = sub(d.Value)
		out.Data = d
	case BinaryData:
		d.Left, d.Right = sub(d.Left), sub(d.Right)
		out.Data = d
	case UnaryData:
		d.Operand = sub(d.Operand)
		out.Data = d
	case CallData:
		d.Callee, d.Args = sub(d.Callee), sub(d.Args)
		out.Data = d
	case ListData:
		d.Items = subs(d.Items)
		out.Data = d
	case MemberData:
		d.Base = sub(d.Base)
		out.Data = d
	case IndexData:
		d.Base, d.Index = sub(d.Base), sub(d.Index)
		out.Data = d
	case CondData:
		d.Cond, d.Then, d.Else = sub(d.Cond), sub(d.Then), sub(d.Else)
		out.Data = d
	case CastData:
		d.Value = sub(d.Value)
		out.Data = d
	case SizeOfData:
		d.Arg = sub(d.Arg)
		out.Data = d
	case CompoundLiteralData:
		d.Init = sub(d.Init)
		out.Data = d
	case VAArgData:
		d.List = sub(d.List)
		out.Data = d
	case ConstructorInitData:
		d.Args = sub(d.Args)
		out.Data = d
	case NewData:
		d.ArraySize, d.Init, d.Placement = sub(d.ArraySize), sub(d.Init), sub(d.Placement)
		out.Data = d
	case ThrowData:
		d.Value = sub(d.Value)
		out.Data = d
	case DesignatedInitData:
		d.Designators, d.Init = subs(d.Designators), sub(d.Init)
		out.Data = d
	case OffsetOfData:
		d.Path = subs(d.Path)
		out.Data = d
	case StmtExprData:
		return nil, false
	default:
		// leaves carry only values
		out.Data = e.Data
	}
	if !ok {
		return nil, false
	}
	for _, c := range Children(out) {
		Attach(out, c)
	}
	return out, true
}
