package ir

// Children returns the owned children of n in source order. Nil children
// are skipped; non-owning links (InstantiationData.Template) are not followed.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !IsNil(c) {
				out = append(out, c)
			}
		}
	}
	addStmts := func(list []*Stmt) {
		for _, s := range list {
			add(s)
		}
	}
	addExprs := func(list []*Expr) {
		for _, e := range list {
			add(e)
		}
	}
	switch v := n.(type) {
	case *Stmt:
		if v == nil {
			return nil
		}
		switch d := v.Data.(type) {
		case BlockData:
			addStmts(d.Stmts)
		case ExprStmtData:
			add(d.Expr)
		case VarDeclData:
			add(d.Init)
		case FuncDeclData:
			addStmts(d.Params)
			add(d.Body)
		case RecordDeclData:
			addStmts(d.Members)
		case FieldDeclData:
			add(d.BitWidth)
		case EnumDeclData:
			addStmts(d.Enumerators)
		case EnumeratorData:
			add(d.Value)
		case NamespaceData:
			addStmts(d.Decls)
		case ForData:
			add(d.Init, d.Cond, d.Post, d.Body)
		case IfData:
			add(d.Init, d.Cond, d.Then, d.Else)
		case WhileData:
			add(d.Cond, d.Body)
		case DoData:
			add(d.Body, d.Cond)
		case SwitchData:
			add(d.Init, d.Cond, d.Body)
		case CaseData:
			add(d.Value, d.Body)
		case DefaultData:
			add(d.Body)
		case ReturnData:
			add(d.Value)
		case LabelData:
			add(d.Body)
		}
	case *Expr:
		if v == nil {
			return nil
		}
		switch d := v.Data.(type) {
		case ImaginaryData:
			add(d.Value)
		case BinaryData:
			add(d.Left, d.Right)
		case UnaryData:
			add(d.Operand)
		case CallData:
			add(d.Callee, d.Args)
		case ListData:
			addExprs(d.Items)
		case MemberData:
			add(d.Base)
		case IndexData:
			add(d.Base, d.Index)
		case CondData:
			add(d.Cond, d.Then, d.Else)
		case CastData:
			add(d.Value)
		case SizeOfData:
			add(d.Arg)
		case CompoundLiteralData:
			add(d.Init)
		case StmtExprData:
			add(d.Body)
		case VAArgData:
			add(d.List)
		case ConstructorInitData:
			add(d.Args)
		case NewData:
			add(d.ArraySize, d.Init, d.Placement)
		case ThrowData:
			add(d.Value)
		case DesignatedInitData:
			addExprs(d.Designators)
			add(d.Init)
		case OffsetOfData:
			addExprs(d.Path)
		}
	}
	return out
}

// Walk visits n and its descendants in pre-order; returning false from fn
// skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// WalkModule walks every root and implicit declaration of m.
func WalkModule(m *Module, fn func(Node) bool) {
	for _, s := range m.Decls {
		Walk(s, fn)
	}
	for _, s := range m.Implicit {
		Walk(s, fn)
	}
}
