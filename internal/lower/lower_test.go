package lower

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/symbols"
	"astbridge/internal/testkit"
	"astbridge/internal/types"
)

func newContext(t *testing.T, u *foreign.Unit) (*Context, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	return New(u, Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func blockStmts(t *testing.T, s *ir.Stmt) []*ir.Stmt {
	t.Helper()
	d, ok := s.Data.(ir.BlockData)
	if !ok {
		t.Fatalf("expected a block, got %s", s.Kind)
	}
	return d.Stmts
}

func funcBody(t *testing.T, m *ir.Module, name string) []*ir.Stmt {
	t.Helper()
	fn := m.FindDecl(name)
	if fn == nil {
		t.Fatalf("function %s not lowered", name)
	}
	d, ok := fn.Data.(ir.FuncDeclData)
	if !ok || d.Body == nil {
		t.Fatalf("%s has no body", name)
	}
	return blockStmts(t, d.Body)
}

func TestTranslateIsIdempotent(t *testing.T) {
	b := foreign.NewBuilder("idem.c")
	i := b.Builtin("Int")
	sum := b.Binary("+", i, b.IntLit(1), b.IntLit(2))
	c, _ := newContext(t, b.Unit())

	first, err := c.Translate(sum)
	require.NoError(t, err)
	second, err := c.Translate(sum)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, c.Stats().Get("stmt:BinaryOperator"))
	require.Equal(t, 2, c.Stats().Get("stmt:IntegerLiteral"))
	require.Equal(t, 0, c.Stack().Depth())

	none, err := c.Translate(nil)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestQualifiedTypesCanonicalize(t *testing.T) {
	b := foreign.NewBuilder("qual.c")
	i := b.Builtin("Int")
	c, _ := newContext(t, b.Unit())

	a, err := c.LowerQualType(foreign.QualType{Type: i.Type, Const: true, Volatile: true})
	require.NoError(t, err)

	// volatile (paren (const int)) carries the same qualifier set
	inner := b.Type(foreign.ParenType)
	inner.Elem = foreign.QualType{Type: i.Type, Const: true}
	bb, err := c.LowerQualType(foreign.QualType{Type: inner, Volatile: true})
	require.NoError(t, err)
	require.Equal(t, a, bb)

	plain, err := c.LowerQualType(i)
	require.NoError(t, err)
	require.Equal(t, c.Types().Builtins().Int, plain)
	require.Equal(t, "const volatile int", c.Types().String(a))

	null, err := c.LowerQualType(foreign.QualType{})
	require.NoError(t, err)
	require.Equal(t, types.NoTypeID, null)
}

func TestEscapeRoundTrip(t *testing.T) {
	cases := []struct {
		raw     string
		escapes int
	}{
		{"", 0},
		{"plain", 0},
		{"a\\b", 1},
		{"line\nbreak\r\n", 3},
		{`say "hi"`, 2},
		{"\\\"\n\r", 4},
		{"tab\tstays", 0},
	}
	for _, tc := range cases {
		esc := Escape(tc.raw)
		if len(esc) != len(tc.raw)+tc.escapes+1 {
			t.Fatalf("Escape(%q) = %q: length %d, want %d", tc.raw, esc, len(esc), len(tc.raw)+tc.escapes+1)
		}
		back, err := Unescape(esc)
		if err != nil {
			t.Fatalf("Unescape(%q): %v", esc, err)
		}
		if back != tc.raw {
			t.Fatalf("round trip of %q gave %q", tc.raw, back)
		}
	}
	if _, err := Unescape(`\q` + "\x00"); !errors.Is(err, ErrBadEscape) {
		t.Fatalf("expected ErrBadEscape, got %v", err)
	}
	if _, err := Unescape("no terminator"); !errors.Is(err, ErrBadEscape) {
		t.Fatalf("expected ErrBadEscape for a missing NUL, got %v", err)
	}
}

// buildLoop builds: int main() { int sum = 0; for (int i = 0; i < 10; ++i) { sum = sum + i; } return sum; }
func buildLoop(b *foreign.Builder) (*foreign.Decl, *foreign.Stmt) {
	i32 := b.Builtin("Int")
	iv := b.Var("i", i32, b.IntLit(0))
	sum := b.Var("sum", i32, b.IntLit(0))
	cond := b.Binary("<", b.Builtin("Bool"), b.RValue(b.Ref(iv)), b.IntLit(10))
	inc := b.Unary("++", false, i32, b.Ref(iv))
	body := b.Compound(b.Binary("=", i32, b.Ref(sum), b.Binary("+", i32, b.RValue(b.Ref(sum)), b.RValue(b.Ref(iv)))))
	loop := b.For(b.DeclStmt(iv), cond, inc, body)
	fn := b.Func("main", b.FuncType(i32, false), b.Compound(b.DeclStmt(sum), loop, b.Return(b.RValue(b.Ref(sum)))))
	b.AddTop(fn)
	return fn, loop
}

func TestCanonicalLoop(t *testing.T) {
	b := foreign.NewBuilder("loop.c")
	_, loop := buildLoop(b)
	c, bag := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Zero(t, bag.Len())
	require.NoError(t, testkit.CheckModuleInvariants(res.Module, nil))

	stmts := funcBody(t, res.Module, "main")
	require.Len(t, stmts, 3)
	forStmt := stmts[1]
	require.Equal(t, ir.StmtFor, forStmt.Kind)
	cached, err := c.Translate(loop)
	require.NoError(t, err)
	require.Same(t, forStmt, cached)

	d := forStmt.Data.(ir.ForData)
	require.Equal(t, ir.StmtVarDecl, d.Init.Kind)
	require.False(t, d.Cond.IsNull())
	require.False(t, d.Post.IsNull())
	require.Equal(t, ir.StmtBlock, d.Body.Kind)

	bin := d.Cond.Data.(ir.BinaryData)
	require.Equal(t, ir.OpLt, bin.Op)
	require.Equal(t, ir.ExprVarRef, bin.Left.Kind)
	require.Equal(t, "i", bin.Left.Data.(ir.RefData).Name)
	require.Equal(t, ir.ExprIntVal, bin.Right.Kind)
	require.Equal(t, uint64(10), bin.Right.Data.(ir.IntValData).Value)
	require.Same(t, forStmt, d.Cond.Parent)
	require.Same(t, d.Cond, bin.Left.Parent)

	post := d.Post.Data.(ir.UnaryData)
	require.Equal(t, ir.UnaryPreInc, post.Op)

	// i lives in the loop scope, sum in the function body block
	loopVar := res.Module.Symbol(d.Init.Data.(ir.VarDeclData).Symbol)
	require.Equal(t, forStmt.Scope, loopVar.Scope)
	require.Equal(t, 1, res.Stats["canonical-loop"])
}

func TestInstantiationShared(t *testing.T) {
	b := foreign.NewBuilder("inst.cc")
	dbl := b.Builtin("Double")
	ulong := b.Builtin("ULong")
	args := []foreign.TemplateArg{
		{Kind: foreign.ArgType, Type: dbl},
		{Kind: foreign.ArgIntegral, Type: ulong, Value: "1024"},
	}
	spec1 := b.Type(foreign.TemplateSpecializationType)
	spec1.Name = "std::array"
	spec1.Args = args
	spec2 := b.Type(foreign.TemplateSpecializationType)
	spec2.Name = "::std::array"
	spec2.Args = args
	c, _ := newContext(t, b.Unit())

	r1, err := c.Instantiate("std::array", args)
	require.NoError(t, err)
	r2, err := c.Instantiate("std::array", args)
	require.NoError(t, err)
	require.Same(t, r1, r2)
	require.Equal(t, "std__array_double_1024", r1.Name)
	require.Equal(t, "array<double, 1024>", r1.Display)

	t1, err := c.LowerQualType(foreign.QualType{Type: spec1})
	require.NoError(t, err)
	t2, err := c.LowerQualType(foreign.QualType{Type: spec2})
	require.NoError(t, err)
	require.Equal(t, r1.Type, t1)
	require.Equal(t, t1, t2)

	var insts, tmpls, namespaces int
	for _, s := range c.Module().Implicit {
		switch s.Kind {
		case ir.StmtInstantiation:
			insts++
		case ir.StmtTemplateDecl:
			tmpls++
		case ir.StmtNamespace:
			namespaces++
		}
	}
	require.Equal(t, 1, insts)
	require.Equal(t, 1, tmpls)
	require.Equal(t, 1, namespaces)

	tmpl := r1.Template
	require.Len(t, tmpl.Params, 2)
	require.Equal(t, ir.TemplateTypeParam, tmpl.Params[0].Kind)
	require.Equal(t, "T0", tmpl.Params[0].Name)
	require.Equal(t, ir.TemplateNonTypeParam, tmpl.Params[1].Kind)
	require.Equal(t, c.Types().Builtins().ULong, tmpl.Params[1].Type)

	// filed under the mangled name in namespace std
	std, ok := c.Symbols().ChildNamed(c.Symbols().Global(), symbols.ScopeNamespace, "std")
	require.True(t, ok)
	id, ok := c.Symbols().LookupLocal(std, r1.Name)
	require.True(t, ok)
	require.Equal(t, r1.Symbol, id)
}

func TestFloatPrecision(t *testing.T) {
	b := foreign.NewBuilder("float.c")
	d64 := b.FloatLit("0.1", b.Builtin("Double"), 53)
	f32 := b.FloatLit("0.1f", b.Builtin("Float"), 24)
	ext := b.FloatLit("0.1L", b.Builtin("LongDouble"), 64)
	odd := b.FloatLit("0.1", b.Builtin("Double"), 99)
	c, bag := newContext(t, b.Unit())

	value := func(s *foreign.Stmt) ir.FloatValData {
		t.Helper()
		n, err := c.Translate(s)
		require.NoError(t, err)
		e, ok := ir.AsExpr(n)
		require.True(t, ok)
		require.Equal(t, ir.ExprFloatVal, e.Kind)
		return e.Data.(ir.FloatValData)
	}

	v := value(d64)
	require.Equal(t, ir.PrecisionDouble, v.Precision)
	require.Equal(t, math.Float64bits(0.1), math.Float64bits(v.Value))

	v = value(f32)
	require.Equal(t, ir.PrecisionSingle, v.Precision)
	require.Equal(t, math.Float32bits(0.1), math.Float32bits(float32(v.Value)))

	v = value(ext)
	require.Equal(t, ir.PrecisionExtended, v.Precision)
	require.NotEmpty(t, v.Text)

	v = value(odd)
	require.Equal(t, ir.PrecisionDouble, v.Precision)
	require.Len(t, bag.Filter(diag.LowFloatSemantics), 1)
}

func TestScopeSymmetryOnMismatch(t *testing.T) {
	b := foreign.NewBuilder("mismatch.c")
	i32 := b.Builtin("Int")
	// a statement where the loop condition must be an expression
	loop := b.For(nil, b.Compound(), nil, b.Compound(b.Return(b.IntLit(1))))
	fn := b.Func("f", b.FuncType(i32, false), b.Compound(loop))
	b.AddTop(fn)
	c, bag := newContext(t, b.Unit())

	before := c.Stack().Depth()
	n, err := c.Translate(loop)
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, before, c.Stack().Depth())
	require.True(t, c.Degraded())

	d := n.(*ir.Stmt).Data.(ir.ForData)
	require.True(t, d.Cond.IsNull())
	require.True(t, d.Init.IsNull())

	res, err := c.Lower()
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.Equal(t, 0, c.Stack().Depth())
	require.Len(t, bag.Filter(diag.LowCategoryMismatch), 1)
}

func TestFallbackSymbolKeepsName(t *testing.T) {
	b := foreign.NewBuilder("fallback.cc")
	using := b.Decl(foreign.UsingDecl, "widget", foreign.QualType{})
	param := b.Decl(foreign.NonTypeTemplateParmDecl, "N", b.Builtin("Int"))
	c, bag := newContext(t, b.Unit())

	id, err := c.ResolveReference(using)
	require.NoError(t, err)
	require.True(t, id.IsValid())
	sym := c.Symbols().Symbols.Get(id)
	require.Equal(t, "widget", sym.Name)
	require.NotZero(t, sym.Flags&symbols.SymbolFlagPlaceholder)
	name, ok := c.Types().OpaqueName(sym.Type)
	require.True(t, ok)
	require.Equal(t, "widget_type", name)
	require.Len(t, bag.Filter(diag.LowUnresolvedSymbol), 1)

	again, err := c.ResolveReference(using)
	require.NoError(t, err)
	require.Equal(t, id, again)

	pid, err := c.ResolveReference(param)
	require.NoError(t, err)
	psym := c.Symbols().Symbols.Get(pid)
	require.Equal(t, "N", psym.Name)
	require.Equal(t, symbols.SymbolVariable, psym.Kind)
	require.Equal(t, c.Types().Builtins().Int, psym.Type)
}

func TestUnimplementedAbortsUnit(t *testing.T) {
	b := foreign.NewBuilder("try.cc")
	try := b.Stmt(foreign.CXXTryStmt, foreign.QualType{}, b.Compound())
	fn := b.Func("f", b.FuncType(b.Builtin("Void"), false), b.Compound(b.Compound(try)))
	b.AddTop(fn)
	c, bag := newContext(t, b.Unit())

	res, err := c.Lower()
	require.Nil(t, res)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnimplemented))
	var ue *UnimplementedError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, "CXXTryStmt", ue.Kind)
	require.Contains(t, err.Error(), "CXXTryStmt")
	require.Equal(t, 0, c.Stack().Depth())
	require.Len(t, bag.Filter(diag.LowUnimplementedStmt), 1)
}

func TestDeclGroupReturnsLastDeclarator(t *testing.T) {
	b := foreign.NewBuilder("group.c")
	i32 := b.Builtin("Int")
	x := b.Var("x", i32, nil)
	y := b.Var("y", i32, b.IntLit(3))
	group := b.DeclStmt(x, y)
	fn := b.Func("f", b.FuncType(b.Builtin("Void"), false), b.Compound(group))
	b.AddTop(fn)
	c, _ := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)
	stmts := funcBody(t, res.Module, "f")
	require.Len(t, stmts, 2)
	require.Equal(t, "x", stmts[0].Data.(ir.VarDeclData).Name)
	require.Equal(t, "y", stmts[1].Data.(ir.VarDeclData).Name)

	n, err := c.Translate(group)
	require.NoError(t, err)
	require.Same(t, stmts[1], n)
}

func TestDirectiveAttachesPragma(t *testing.T) {
	b := foreign.NewBuilder("omp.c")
	_, loop := buildLoop(b)
	omp := b.Stmt(foreign.OMPParallelForDirective, foreign.QualType{}, loop)
	bare := b.Stmt(foreign.OMPBarrierDirective, foreign.QualType{})
	c, _ := newContext(t, b.Unit())

	n, err := c.Translate(omp)
	require.NoError(t, err)
	st := n.(*ir.Stmt)
	require.Equal(t, ir.StmtFor, st.Kind)
	require.Len(t, st.Pragmas, 1)
	require.Equal(t, "#pragma omp parallel for", st.Pragmas[0].Text)

	n, err = c.Translate(bare)
	require.NoError(t, err)
	st = n.(*ir.Stmt)
	require.Equal(t, ir.StmtNull, st.Kind)
	require.Equal(t, "#pragma omp barrier", st.Pragmas[0].Text)
}

func TestDepthGuard(t *testing.T) {
	b := foreign.NewBuilder("deep.c")
	e := b.IntLit(1)
	for i := 0; i < 50; i++ {
		e = b.Stmt(foreign.ParenExpr, b.Builtin("Int"), e)
	}
	bag := diag.NewBag(0)
	c := New(b.Unit(), Options{Reporter: diag.BagReporter{Bag: bag}, MaxDepth: 10})

	_, err := c.Translate(e)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvariant))
	require.Equal(t, 0, c.Stack().Depth())
	require.Len(t, bag.Filter(diag.LowDepthExceeded), 1)
}

func TestLabelAndGotoShareSymbol(t *testing.T) {
	b := foreign.NewBuilder("goto.c")
	label := b.Decl(foreign.LabelDecl, "out", foreign.QualType{})
	jump := b.Stmt(foreign.GotoStmt, foreign.QualType{})
	jump.Decl = label
	target := b.Stmt(foreign.LabelStmt, foreign.QualType{}, b.Stmt(foreign.NullStmt, foreign.QualType{}))
	target.Decl = label
	fn := b.Func("f", b.FuncType(b.Builtin("Void"), false), b.Compound(jump, target))
	b.AddTop(fn)
	c, _ := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)
	stmts := funcBody(t, res.Module, "f")
	require.Len(t, stmts, 2)
	g := stmts[0].Data.(ir.GotoData)
	l := stmts[1].Data.(ir.LabelData)
	require.Equal(t, g.Symbol, l.Symbol)

	sym := res.Module.Symbol(l.Symbol)
	require.Equal(t, symbols.SymbolLabel, sym.Kind)
	require.Equal(t, symbols.ScopeFunction, c.Symbols().Scopes.Get(sym.Scope).Kind)
	require.Same(t, stmts[1], sym.Decl)
}

func TestRedeclaredFunctionSharesSymbol(t *testing.T) {
	b := foreign.NewBuilder("redecl.c")
	i32 := b.Builtin("Int")
	ft := b.FuncType(i32, false, i32)
	proto := b.Func("sq", ft, nil, b.Param("x", i32))
	x := b.Param("x", i32)
	def := b.Func("sq", ft, b.Compound(b.Return(b.Binary("*", i32, b.RValue(b.Ref(x)), b.RValue(b.Ref(x))))), x)
	call := b.Call(i32, b.Ref(proto), b.IntLit(3))
	user := b.Func("use", b.FuncType(i32, false), b.Compound(b.Return(call)))
	b.AddTop(proto, def, user)
	c, _ := newContext(t, b.Unit())

	res, err := c.Lower()
	require.NoError(t, err)
	require.Len(t, res.Module.Decls, 3)
	_, p, _ := ir.DeclName(res.Module.Decls[0])
	_, d, _ := ir.DeclName(res.Module.Decls[1])
	require.Equal(t, p, d)
	sym := res.Module.Symbol(d)
	require.Same(t, res.Module.Decls[1], sym.Decl)
	require.NotZero(t, sym.Flags&symbols.SymbolFlagDefinition)

	ret := funcBody(t, res.Module, "use")[0].Data.(ir.ReturnData)
	callData := ret.Value.Data.(ir.CallData)
	require.Equal(t, ir.ExprFuncRef, callData.Callee.Kind)
	require.Equal(t, d, callData.Callee.Data.(ir.RefData).Symbol)
	require.Len(t, callData.Args.Data.(ir.ListData).Items, 1)
}

func TestStringLiteralEscaped(t *testing.T) {
	b := foreign.NewBuilder("str.c")
	lit := b.StringLit("a\"b\n")
	c, _ := newContext(t, b.Unit())

	n, err := c.Translate(lit)
	require.NoError(t, err)
	e := n.(*ir.Expr)
	require.Equal(t, ir.ExprStringVal, e.Kind)
	require.Equal(t, "a\\\"b\\n\x00", e.Data.(ir.StringValData).Value)
	require.Equal(t, "char[5]", c.Types().String(e.Type))
	ext, ok := c.Module().Extents[e.Type]
	require.True(t, ok)
	require.Equal(t, uint64(5), ext.Data.(ir.IntValData).Value)
}
