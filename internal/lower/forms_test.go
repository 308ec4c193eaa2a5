package lower

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/testkit"
	"astbridge/internal/types"
)

func varNames(n ir.Node) []string {
	var names []string
	ir.Walk(n, func(n ir.Node) bool {
		if st, ok := n.(*ir.Stmt); ok {
			if d, ok := st.Data.(ir.VarDeclData); ok && !d.Param {
				names = append(names, d.Name)
			}
		}
		return true
	})
	return names
}

func exprOf(t *testing.T, c *Context, s *foreign.Stmt) *ir.Expr {
	t.Helper()
	n, err := c.Translate(s)
	require.NoError(t, err)
	e, ok := ir.AsExpr(n)
	require.True(t, ok, "%s did not lower to an expression", s.Kind)
	return e
}

func TestInstantiationDistinguishesArguments(t *testing.T) {
	b := foreign.NewBuilder("args.cc")
	i32 := b.Builtin("Int")
	n := b.Var("n", i32, nil)
	x := b.Var("x", i32, nil)
	y := b.Var("y", i32, nil)
	addr := func(d *foreign.Decl) *foreign.Stmt {
		return b.Unary("&", false, b.Pointer(i32), b.Ref(d))
	}
	c, _ := newContext(t, b.Unit())

	cases := []struct {
		name     string
		template string
		a, b     foreign.TemplateArg
		shownA   string
		shownB   string
	}{
		{
			name:     "expression operators",
			template: "Buf",
			a:        foreign.TemplateArg{Kind: foreign.ArgExpression, Expr: b.Binary("+", i32, b.RValue(b.Ref(n)), b.IntLit(1))},
			b:        foreign.TemplateArg{Kind: foreign.ArgExpression, Expr: b.Binary("*", i32, b.RValue(b.Ref(n)), b.IntLit(7))},
			shownA:   "Buf<n+1>",
			shownB:   "Buf<n*7>",
		},
		{
			name:     "address expressions",
			template: "P",
			a:        foreign.TemplateArg{Kind: foreign.ArgExpression, Expr: addr(x)},
			b:        foreign.TemplateArg{Kind: foreign.ArgExpression, Expr: addr(y)},
			shownA:   "P<&x>",
			shownB:   "P<&y>",
		},
		{
			name:     "declarations",
			template: "Q",
			a:        foreign.TemplateArg{Kind: foreign.ArgDeclaration, Decl: x},
			b:        foreign.TemplateArg{Kind: foreign.ArgDeclaration, Decl: y},
			shownA:   "Q<x>",
			shownB:   "Q<y>",
		},
		{
			name:     "integral values",
			template: "Arr",
			a:        foreign.TemplateArg{Kind: foreign.ArgIntegral, Type: i32, Value: "3"},
			b:        foreign.TemplateArg{Kind: foreign.ArgIntegral, Type: i32, Value: "4"},
			shownA:   "Arr<3>",
			shownB:   "Arr<4>",
		},
		{
			name:     "types",
			template: "Box",
			a:        foreign.TemplateArg{Kind: foreign.ArgType, Type: i32},
			b:        foreign.TemplateArg{Kind: foreign.ArgType, Type: b.Builtin("Double")},
			shownA:   "Box<int>",
			shownB:   "Box<double>",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ra, err := c.Instantiate(tc.template, []foreign.TemplateArg{tc.a})
			require.NoError(t, err)
			rb, err := c.Instantiate(tc.template, []foreign.TemplateArg{tc.b})
			require.NoError(t, err)

			require.NotSame(t, ra, rb)
			require.NotEqual(t, ra.Name, rb.Name)
			require.NotEqual(t, ra.Type, rb.Type)
			require.NotEqual(t, ra.Symbol, rb.Symbol)
			require.Same(t, ra.Template, rb.Template)
			require.Equal(t, tc.shownA, ra.Display)
			require.Equal(t, tc.shownB, rb.Display)

			again, err := c.Instantiate(tc.template, []foreign.TemplateArg{tc.a})
			require.NoError(t, err)
			require.Same(t, ra, again)
		})
	}
}

func TestUnbracedDeclGroupsKeepEveryDeclarator(t *testing.T) {
	b := foreign.NewBuilder("unbraced.c")
	i32 := b.Builtin("Int")
	group := func(names ...string) *foreign.Stmt {
		decls := make([]*foreign.Decl, len(names))
		for i, name := range names {
			decls[i] = b.Var(name, i32, b.IntLit(int64(i+1)))
		}
		return b.DeclStmt(decls...)
	}
	ifStmt := b.If(b.IntLit(1), group("a", "b"), group("e1", "e2"))
	while := b.Stmt(foreign.WhileStmt, foreign.QualType{}, b.IntLit(1), group("w1", "w2"))
	do := b.Stmt(foreign.DoStmt, foreign.QualType{}, group("d1", "d2"), b.IntLit(0))
	loop := b.For(nil, nil, nil, group("f1", "f2", "f3"))
	caseStmt := b.Stmt(foreign.CaseStmt, foreign.QualType{}, b.IntLit(1), nil, group("c1", "c2"))
	def := b.Stmt(foreign.DefaultStmt, foreign.QualType{}, group("z1", "z2"))
	sw := b.Stmt(foreign.SwitchStmt, foreign.QualType{}, nil, b.IntLit(1), b.Compound(caseStmt, def))
	label := b.Stmt(foreign.LabelStmt, foreign.QualType{}, group("l1", "l2"))
	label.Decl = b.Decl(foreign.LabelDecl, "here", foreign.QualType{})
	fn := b.Func("f", b.FuncType(b.Builtin("Void"), false), b.Compound(ifStmt, while, do, loop, sw, label))
	b.AddTop(fn)
	c, _ := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)
	require.NoError(t, testkit.CheckModuleInvariants(res.Module, nil))
	require.Empty(t, c.pending)

	body := funcBody(t, res.Module, "f")
	require.Len(t, body, 6)

	cases := []struct {
		name   string
		branch *ir.Stmt
		want   []string
	}{
		{"then", body[0].Data.(ir.IfData).Then, []string{"a", "b"}},
		{"else", body[0].Data.(ir.IfData).Else, []string{"e1", "e2"}},
		{"while", body[1].Data.(ir.WhileData).Body, []string{"w1", "w2"}},
		{"do", body[2].Data.(ir.DoData).Body, []string{"d1", "d2"}},
		{"for", body[3].Data.(ir.ForData).Body, []string{"f1", "f2", "f3"}},
		{"label", body[5].Data.(ir.LabelData).Body, []string{"l1", "l2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, ir.StmtBlock, tc.branch.Kind)
			require.Equal(t, tc.want, varNames(tc.branch))
		})
	}

	arms := blockStmts(t, body[4].Data.(ir.SwitchData).Body)
	require.Len(t, arms, 2)
	require.Equal(t, []string{"c1", "c2"}, varNames(arms[0].Data.(ir.CaseData).Body))
	require.Equal(t, []string{"z1", "z2"}, varNames(arms[1].Data.(ir.DefaultData).Body))

	// nothing leaked into the function block ahead of the statements
	require.Equal(t, ir.StmtIf, body[0].Kind)
	require.Equal(t, []string{"a", "b", "e1", "e2", "w1", "w2", "d1", "d2", "f1", "f2", "f3", "c1", "c2", "z1", "z2", "l1", "l2"},
		varNames(res.Module.FindDecl("f")))
}

func TestDesignatedInitializer(t *testing.T) {
	b := foreign.NewBuilder("desig.c")
	i32 := b.Builtin("Int")
	rec := b.Decl(foreign.RecordDecl, "P", foreign.QualType{})
	rec.Tag = "struct"
	rec.Defined = true
	fx := b.Decl(foreign.FieldDecl, "x", i32)
	fy := b.Decl(foreign.FieldDecl, "y", b.ConstArray(i32, 4))
	rec.Members = []*foreign.Decl{fx, fy}
	fx.Parent, fy.Parent = rec, rec

	first := b.Stmt(foreign.DesignatedInitExpr, i32, b.IntLit(1))
	first.Designators = []foreign.Designator{{Field: fx}}
	second := b.Stmt(foreign.DesignatedInitExpr, i32, b.IntLit(5))
	second.Designators = []foreign.Designator{{Field: fy}, {Index: b.IntLit(2)}}
	init := b.Stmt(foreign.InitListExpr, b.Record(rec), first, second)
	p := b.Var("p", b.Record(rec), init)

	off := b.Stmt(foreign.OffsetOfExpr, b.Builtin("ULong"))
	off.WrittenType = b.Record(rec)
	off.Designators = []foreign.Designator{{Field: fy}, {Index: b.IntLit(1)}}
	b.AddTop(rec, p)
	c, _ := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)
	require.NoError(t, testkit.CheckModuleInvariants(res.Module, nil))

	items := res.Module.FindDecl("p").Data.(ir.VarDeclData).Init.Data.(ir.ListData).Items
	require.Len(t, items, 2)

	d0 := items[0].Data.(ir.DesignatedInitData)
	require.Equal(t, ir.ExprDesignatedInit, items[0].Kind)
	require.Len(t, d0.Designators, 1)
	field := d0.Designators[0].Data.(ir.MemberData)
	require.Equal(t, "x", field.Name)
	require.Equal(t, c.syms[fx], field.Field)
	require.Nil(t, field.Base)
	require.Equal(t, "1", d0.Init.Data.(ir.IntValData).Text)

	d1 := items[1].Data.(ir.DesignatedInitData)
	require.Len(t, d1.Designators, 2)
	require.Equal(t, ir.ExprMember, d1.Designators[0].Kind)
	require.Equal(t, ir.ExprIndex, d1.Designators[1].Kind)
	require.Equal(t, "2", d1.Designators[1].Data.(ir.IndexData).Index.Data.(ir.IntValData).Text)
	require.Equal(t, "5", d1.Init.Data.(ir.IntValData).Text)
	require.Len(t, ir.Children(items[1]), 3)

	e := exprOf(t, c, off)
	require.Equal(t, ir.ExprOffsetOf, e.Kind)
	od := e.Data.(ir.OffsetOfData)
	require.Equal(t, res.Module.FindDecl("P").Data.(ir.RecordDeclData).Type, od.Of)
	require.Len(t, od.Path, 2)
	require.Equal(t, c.syms[fy], od.Path[0].Data.(ir.MemberData).Field)
	require.Equal(t, c.Types().Builtins().ULong, e.Type)
}

func TestExpressionForms(t *testing.T) {
	b := foreign.NewBuilder("forms.cc")
	ulong := b.Builtin("ULong")
	boolean := b.Builtin("Bool")
	vec := b.Type(foreign.ExtVectorType)
	vec.Elem = b.Builtin("Float")
	vec.VectorSize = 4
	v := b.Var("v", foreign.QualType{Type: vec}, nil)
	c, _ := newContext(t, b.Unit())

	t.Run("vector element", func(t *testing.T) {
		swizzle := b.Stmt(foreign.ExtVectorElementExpr, b.Builtin("Float"), b.Ref(v))
		swizzle.Name = "xy"
		e := exprOf(t, c, swizzle)
		require.Equal(t, ir.ExprMember, e.Kind)
		d := e.Data.(ir.MemberData)
		require.Equal(t, "xy", d.Name)
		require.Equal(t, symbols.NoSymbolID, d.Field)
		require.Equal(t, ir.ExprVarRef, d.Base.Kind)
	})

	t.Run("unresolved construct", func(t *testing.T) {
		param := b.Type(foreign.TemplateTypeParmType)
		ctor := b.Stmt(foreign.CXXUnresolvedConstructExpr, foreign.QualType{Type: param}, b.IntLit(1), b.IntLit(2))
		ctor.WrittenType = foreign.QualType{Type: param}
		e := exprOf(t, c, ctor)
		require.Equal(t, ir.ExprConstructorInit, e.Kind)
		name, ok := c.Types().OpaqueName(e.Type)
		require.True(t, ok)
		require.Equal(t, "template_type_param", name)
		require.Len(t, e.Data.(ir.ConstructorInitData).Args.Data.(ir.ListData).Items, 2)
	})

	t.Run("sizeof pack", func(t *testing.T) {
		known := b.Stmt(foreign.SizeOfPackExpr, ulong)
		known.Value = "3"
		e := exprOf(t, c, known)
		require.Equal(t, ir.ExprIntVal, e.Kind)
		require.Equal(t, uint64(3), e.Data.(ir.IntValData).Value)

		dependent := b.Stmt(foreign.SizeOfPackExpr, ulong)
		dependent.Dependent = true
		e = exprOf(t, c, dependent)
		require.Equal(t, ir.ExprOpaqueRef, e.Kind)
		require.Equal(t, "__sizeof_pack_dependent", e.Data.(ir.OpaqueRefData).Name)
	})

	t.Run("noexcept", func(t *testing.T) {
		ne := b.Stmt(foreign.CXXNoexceptExpr, boolean, b.IntLit(0))
		ne.Value = "true"
		e := exprOf(t, c, ne)
		require.Equal(t, ir.ExprBoolVal, e.Kind)
		require.True(t, e.Data.(ir.BoolValData).Value)
	})
}

func TestUnhandledDirectiveNamesKind(t *testing.T) {
	for _, kind := range []foreign.StmtKind{
		foreign.OMPTaskLoopDirective,
		foreign.OMPParallelSectionsDirective,
		foreign.OMPTargetTeamsDistributeDirective,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			b := foreign.NewBuilder("omp.c")
			loop := b.For(nil, nil, nil, b.Compound())
			dir := b.Stmt(kind, foreign.QualType{}, loop)
			fn := b.Func("f", b.FuncType(b.Builtin("Void"), false), b.Compound(dir))
			b.AddTop(fn)
			c, bag := newContext(t, b.Unit())

			_, err := c.Lower()
			require.Error(t, err)
			var ue *UnimplementedError
			require.True(t, errors.As(err, &ue))
			require.Equal(t, kind.String(), ue.Kind)
			require.Len(t, bag.Filter(diag.LowUnimplementedStmt), 1)
			require.Equal(t, 0, c.Stack().Depth())
		})
	}
}

func TestUnknownTypeFallsBackToOpaque(t *testing.T) {
	b := foreign.NewBuilder("unknown.cc")
	using := b.Type(foreign.UnknownType)
	using.Class = "UnresolvedUsingType"
	again := b.Type(foreign.UnknownType)
	again.Class = "UnresolvedUsingType"
	deduced := b.Type(foreign.UnknownType)
	deduced.Class = "DeducedTemplateSpecializationType"
	c, bag := newContext(t, b.Unit())

	cases := []struct {
		ty   *foreign.Type
		want string
	}{
		{using, "UnresolvedUsingType"},
		{again, "UnresolvedUsingType"},
		{deduced, "DeducedTemplateSpecializationType"},
	}
	ids := make([]types.TypeID, len(cases))
	for i, tc := range cases {
		id, err := c.LowerQualType(foreign.QualType{Type: tc.ty})
		require.NoError(t, err)
		name, ok := c.Types().OpaqueName(id)
		require.True(t, ok)
		require.Equal(t, tc.want, name)
		ids[i] = id
	}
	require.Equal(t, ids[0], ids[1])
	require.NotEqual(t, ids[0], ids[2])

	// one warning per class name
	warnings := bag.Filter(diag.LowUnknownType)
	require.Len(t, warnings, 2)
	require.Equal(t, diag.SevWarning, warnings[0].Severity)
}

func TestArrayExtents(t *testing.T) {
	b := foreign.NewBuilder("arrays.c")
	i32 := b.Builtin("Int")
	n := b.Var("n", i32, nil)
	vla := func() *foreign.Type {
		ty := b.Type(foreign.VariableArrayType)
		ty.Elem = i32
		ty.SizeExpr = b.RValue(b.Ref(n))
		return ty
	}
	star := b.Type(foreign.VariableArrayType)
	star.Elem = i32
	star.Star = true
	dep := b.Type(foreign.DependentSizedArrayType)
	dep.Elem = i32
	dep.SizeExpr = b.Stmt(foreign.DependentScopeDeclRefExpr, i32)
	c, _ := newContext(t, b.Unit())

	lower := func(t *testing.T, ty *foreign.Type) (types.TypeID, types.Type) {
		t.Helper()
		id, err := c.LowerQualType(foreign.QualType{Type: ty})
		require.NoError(t, err)
		tt, ok := c.Types().Lookup(id)
		require.True(t, ok)
		require.Equal(t, types.KindArray, tt.Kind)
		require.Equal(t, c.Types().Builtins().Int, tt.Elem)
		return id, tt
	}

	t.Run("variable", func(t *testing.T) {
		a, at := lower(t, vla())
		bb, _ := lower(t, vla())
		require.Equal(t, types.ArrayVariable, at.Shape)
		require.NotEqual(t, a, bb, "variable-length arrays are never shared")
		ext := c.Module().Extents[a]
		require.NotNil(t, ext)
		require.Equal(t, ir.ExprVarRef, ext.Kind)
		require.Equal(t, "n", ext.Data.(ir.RefData).Name)
	})

	t.Run("star", func(t *testing.T) {
		id, tt := lower(t, star)
		require.Equal(t, types.ArrayStar, tt.Shape)
		require.Equal(t, "int[*]", c.Types().String(id))
		require.True(t, c.Module().Extents[id].IsNull())
	})

	t.Run("dependent", func(t *testing.T) {
		id, tt := lower(t, dep)
		require.Equal(t, types.ArrayDependent, tt.Shape)
		_, recorded := c.Module().Extents[id]
		require.False(t, recorded)
	})
}

func TestVectorModifiers(t *testing.T) {
	b := foreign.NewBuilder("vec.c")
	flt := b.Builtin("Float")
	vec := func(kind foreign.TypeKind, elem foreign.QualType, width uint64) *foreign.Type {
		ty := b.Type(kind)
		ty.Elem = elem
		ty.VectorSize = width
		return ty
	}
	c, _ := newContext(t, b.Unit())
	in := c.Types()

	plain, err := c.LowerQualType(foreign.QualType{Type: vec(foreign.VectorType, flt, 4)})
	require.NoError(t, err)
	tt := in.MustLookup(plain)
	require.Equal(t, types.KindModifier, tt.Kind)
	require.NotZero(t, tt.Qual&types.QualVector)
	require.Equal(t, uint64(4), tt.Count)
	require.Equal(t, in.Builtins().Float, tt.Elem)
	require.Equal(t, "float __vector(4)", in.String(plain))

	ext, err := c.LowerQualType(foreign.QualType{Type: vec(foreign.ExtVectorType, flt, 4)})
	require.NoError(t, err)
	require.Equal(t, plain, ext)

	wide, err := c.LowerQualType(foreign.QualType{Type: vec(foreign.VectorType, flt, 8)})
	require.NoError(t, err)
	require.NotEqual(t, plain, wide)

	// const outside the vector stays a separate layer
	cv, err := c.LowerQualType(foreign.QualType{Type: vec(foreign.VectorType, flt, 4), Const: true})
	require.NoError(t, err)
	outer := in.MustLookup(cv)
	require.Equal(t, types.QualConst, outer.Qual)
	require.Equal(t, plain, outer.Elem)

	// const on the element sits under the vector
	ce, err := c.LowerQualType(foreign.QualType{Type: vec(foreign.VectorType, foreign.QualType{Type: flt.Type, Const: true}, 4)})
	require.NoError(t, err)
	inner := in.MustLookup(ce)
	require.NotZero(t, inner.Qual&types.QualVector)
	require.NotEqual(t, cv, ce)
	require.Equal(t, types.QualConst, in.MustLookup(inner.Elem).Qual)
}

func TestPredefinedIdentifiersShareSymbol(t *testing.T) {
	b := foreign.NewBuilder("predef.c")
	predef := func(name string) *foreign.Stmt {
		s := b.Stmt(foreign.PredefinedExpr, b.Pointer(b.Builtin("Char_S")))
		s.Name = name
		return s
	}
	fn := b.Func("f", b.FuncType(b.Builtin("Void"), false), b.Compound(
		predef("__func__"),
		b.Compound(predef("__func__")),
		predef("__FUNCTION__"),
		predef("__PRETTY_FUNCTION__"),
	))
	g := b.Func("g", b.FuncType(b.Builtin("Void"), false), b.Compound(predef("__func__")))
	b.AddTop(fn, g)
	c, _ := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)

	refs := func(name string) map[string][]symbols.SymbolID {
		out := map[string][]symbols.SymbolID{}
		ir.Walk(res.Module.FindDecl(name), func(n ir.Node) bool {
			if e, ok := n.(*ir.Expr); ok && e.Kind == ir.ExprVarRef {
				d := e.Data.(ir.RefData)
				out[d.Name] = append(out[d.Name], d.Symbol)
			}
			return true
		})
		return out
	}
	inF := refs("f")
	require.Len(t, inF["__func__"], 2)
	require.Equal(t, inF["__func__"][0], inF["__func__"][1])
	require.NotEqual(t, inF["__func__"][0], inF["__FUNCTION__"][0])
	require.NotEqual(t, inF["__FUNCTION__"][0], inF["__PRETTY_FUNCTION__"][0])

	for _, name := range []string{"__func__", "__FUNCTION__", "__PRETTY_FUNCTION__"} {
		sym := res.Module.Symbol(inF[name][0])
		require.NotNil(t, sym, name)
		require.Equal(t, name, sym.Name)
		require.Equal(t, symbols.ScopeFunction, c.Symbols().Scopes.Get(sym.Scope).Kind, name)
		require.NotZero(t, sym.Flags&symbols.SymbolFlagPredefined, name)
		require.NotZero(t, sym.Flags&symbols.SymbolFlagImplicit, name)
	}

	inG := refs("g")
	require.NotEqual(t, inF["__func__"][0], inG["__func__"][0])
}

func TestFallbackSymbolForFunction(t *testing.T) {
	b := foreign.NewBuilder("fallback_fn.c")
	i32 := b.Builtin("Int")
	ft := b.FuncType(i32, false, i32)
	fn := b.Func("late", ft, nil, b.Param("x", i32))
	method := b.Decl(foreign.CXXMethodDecl, "", ft)
	method.QualName = "W::run"
	c, _ := newContext(t, b.Unit())

	cases := []struct {
		decl *foreign.Decl
		name string
	}{
		{fn, "late"},
		{method, "W::run"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := c.fallbackSymbol(tc.decl, source.Span{})
			sym := c.Symbols().Symbols.Get(id)
			require.NotNil(t, sym)
			require.Equal(t, tc.name, sym.Name)
			require.Equal(t, symbols.SymbolFunction, sym.Kind)
			require.Equal(t, c.Symbols().Global(), sym.Scope)
			require.NotZero(t, sym.Flags&symbols.SymbolFlagImplicit)
			require.Zero(t, sym.Flags&symbols.SymbolFlagPlaceholder)

			info, ok := c.Types().FnInfo(sym.Type)
			require.True(t, ok)
			require.Equal(t, c.Types().Builtins().Int, info.Result)
			require.Equal(t, []types.TypeID{c.Types().Builtins().Int}, info.Params)

			same, err := c.ResolveReference(tc.decl)
			require.NoError(t, err)
			require.Equal(t, id, same)
		})
	}
}

func TestAnonymousLocalRecordStaysInTree(t *testing.T) {
	b := foreign.NewBuilder("anon.c")
	i32 := b.Builtin("Int")
	rec := b.Decl(foreign.RecordDecl, "", foreign.QualType{})
	rec.Tag = "struct"
	rec.Defined = true
	field := b.Decl(foreign.FieldDecl, "v", i32)
	field.Parent = rec
	rec.Members = []*foreign.Decl{field}
	s := b.Var("s", b.Record(rec), nil)
	member := b.Stmt(foreign.MemberExpr, i32, b.Ref(s))
	member.Decl = field
	member.Name = "v"
	fn := b.Func("f", b.FuncType(b.Builtin("Void"), false), b.Compound(b.DeclStmt(rec, s), member))
	rec.Parent, s.Parent = fn, fn
	b.AddTop(fn)
	c, _ := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)
	require.NoError(t, testkit.CheckModuleInvariants(res.Module, nil))

	body := funcBody(t, res.Module, "f")
	md := body[len(body)-1].Data.(ir.ExprStmtData).Expr.Data.(ir.MemberData)
	sym := res.Module.Symbol(md.Field)
	require.NotNil(t, sym)
	require.Equal(t, symbols.SymbolField, sym.Kind)

	reachable := false
	ir.WalkModule(res.Module, func(n ir.Node) bool {
		if any(n) == any(sym.Decl) {
			reachable = true
		}
		return !reachable
	})
	require.True(t, reachable, "field declaration is not part of the module")
}
