package foreign

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"astbridge/internal/source"
)

const sampleJSON = `{
  "schema": "1.0.0",
  "unit": "main.c",
  "files": [{"id": 1, "path": "main.c", "content": "int x = 1;\n"}],
  "types": [{"id": 1, "kind": "BuiltinType", "name": "Int"}],
  "decls": [{"id": 1, "kind": "VarDecl", "name": "x", "range": {"file": 1, "begin": 4, "end": 5},
             "type": {"type": 1}, "init": 2}],
  "stmts": [
    {"id": 1, "kind": "DeclRefExpr", "decl": 1, "type": {"type": 1}},
    {"id": 2, "kind": "IntegerLiteral", "value": "1", "type": {"type": 1}},
    {"id": 3, "kind": "BinaryOperator", "opcode": "+", "inner": [1, 2], "type": {"type": 1}},
    {"id": 4, "kind": "ForStmt", "inner": [0, 3, 0, 0]}
  ],
  "top": [1]
}`

func TestDecodeJSONLinksSharedNodes(t *testing.T) {
	fs := source.NewFileSet()
	u, err := Decode("main.json", []byte(sampleJSON), fs)
	require.NoError(t, err)
	require.Len(t, u.Top, 1)

	x := u.Top[0]
	require.Equal(t, VarDecl, x.Kind)
	require.Equal(t, "x", x.Name)
	require.Equal(t, "x", fs.Text(x.Range))

	stmts := u.Stmts()
	require.Len(t, stmts, 4)
	sum := stmts[2]
	require.Equal(t, BinaryOperator, sum.Kind)
	require.Same(t, x, sum.Child(0).Decl)
	require.Same(t, x.Init, sum.Child(1))
	require.Same(t, x.Type.Type, sum.Type.Type)

	loop := stmts[3]
	require.Len(t, loop.Inner, 4)
	require.Nil(t, loop.Child(0))
	require.Same(t, sum, loop.Child(1))
	require.Nil(t, loop.Child(3))
}

func TestDecodeYAML(t *testing.T) {
	src := `
schema: "1.2.0"
unit: a.c
types:
  - {id: 7, kind: BuiltinType, name: Double}
  - {id: 8, kind: PointerType, elem: {type: 7, const: true}}
decls:
  - {id: 3, kind: VarDecl, name: p, type: {type: 8}}
top: [3]
`
	u, err := Decode("a.yaml", []byte(src), nil)
	require.NoError(t, err)
	p := u.Top[0]
	require.Equal(t, PointerType, p.Type.Type.Kind)
	require.True(t, p.Type.Type.Elem.Const)
	require.Equal(t, "Double", p.Type.Type.Elem.Type.Name)
}

func TestMsgpackDumpMatchesJSON(t *testing.T) {
	d, err := DecodeDump(FormatJSON, []byte(sampleJSON))
	require.NoError(t, err)
	data, err := EncodeDump(FormatMsgpack, d)
	require.NoError(t, err)

	u, err := Decode("main.mpk", data, source.NewFileSet())
	require.NoError(t, err)
	s, ty, dc := u.Counts()
	require.Equal(t, 4, s)
	require.Equal(t, 1, ty)
	require.Equal(t, 1, dc)
	require.Equal(t, "1", u.Top[0].Init.Value)
}

func TestLinkRejectsSchema(t *testing.T) {
	for _, version := range []string{"2.0.0", "0.9.0", "not-a-version"} {
		_, err := Link(&Dump{Schema: version}, nil)
		require.Error(t, err, version)
		require.True(t, errors.Is(err, ErrSchema), "%s: %v", version, err)
	}
	_, err := Link(&Dump{Schema: "1.4.2"}, nil)
	require.NoError(t, err)
}

func TestLinkMalformed(t *testing.T) {
	cases := []struct {
		name string
		dump Dump
		want any
	}{
		{
			name: "dangling inner",
			dump: Dump{Schema: SchemaVersion, Stmts: []DumpStmt{{ID: 1, Kind: "ParenExpr", Inner: []int{9}}}},
			want: &RefError{},
		},
		{
			name: "dangling top",
			dump: Dump{Schema: SchemaVersion, Top: []int{4}},
			want: &RefError{},
		},
		{
			name: "unknown kind",
			dump: Dump{Schema: SchemaVersion, Stmts: []DumpStmt{{ID: 1, Kind: "FancyExpr"}}},
			want: &KindError{},
		},
		{
			name: "type without kind",
			dump: Dump{Schema: SchemaVersion, Types: []DumpType{{ID: 1}}},
			want: &KindError{},
		},
		{
			name: "duplicate id",
			dump: Dump{Schema: SchemaVersion, Decls: []DumpDecl{{ID: 2, Kind: "VarDecl"}, {ID: 2, Kind: "VarDecl"}}},
			want: &IDError{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Link(&tc.dump, nil)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformed)
			switch tc.want.(type) {
			case *RefError:
				var target *RefError
				require.ErrorAs(t, err, &target)
			case *KindError:
				var target *KindError
				require.ErrorAs(t, err, &target)
			case *IDError:
				var target *IDError
				require.ErrorAs(t, err, &target)
				require.True(t, target.Dup)
			}
		})
	}
}

func TestDecodeKeepsUnknownTypeClass(t *testing.T) {
	src := `{
  "schema": "1.0.0",
  "types": [
    {"id": 1, "kind": "UnresolvedUsingType", "name": "T"},
    {"id": 2, "kind": "DeducedTemplateSpecializationType"},
    {"id": 3, "kind": "DependentVectorType", "elem": {"type": 4}},
    {"id": 4, "kind": "BuiltinType", "name": "Float"}
  ],
  "decls": [{"id": 1, "kind": "VarDecl", "name": "v", "type": {"type": 3}}],
  "top": [1]
}`
	u, err := Decode("unknown.json", []byte(src), nil)
	require.NoError(t, err)

	vec := u.Top[0].Type.Type
	require.Equal(t, UnknownType, vec.Kind)
	require.Equal(t, "DependentVectorType", vec.Class)
	require.Equal(t, "Float", vec.Elem.Type.Name)

	classes := map[string]string{}
	for _, ty := range u.Types() {
		if ty.Kind == UnknownType {
			classes[ty.Class] = ty.Name
		}
	}
	require.Equal(t, map[string]string{
		"UnresolvedUsingType":               "T",
		"DeducedTemplateSpecializationType": "",
		"DependentVectorType":               "",
	}, classes)
}

func TestDecodeDesignators(t *testing.T) {
	src := `{
  "schema": "1.0.0",
  "types": [{"id": 1, "kind": "BuiltinType", "name": "Int"}],
  "decls": [{"id": 1, "kind": "FieldDecl", "name": "y", "type": {"type": 1}}],
  "stmts": [
    {"id": 1, "kind": "IntegerLiteral", "value": "2", "type": {"type": 1}},
    {"id": 2, "kind": "IntegerLiteral", "value": "7", "type": {"type": 1}},
    {"id": 3, "kind": "DesignatedInitExpr", "inner": [2], "type": {"type": 1},
     "designators": [{"field": 1}, {"index": 1}, {"name": "z"}]}
  ]
}`
	u, err := Decode("desig.json", []byte(src), nil)
	require.NoError(t, err)
	init := u.Stmts()[2]
	require.Equal(t, DesignatedInitExpr, init.Kind)
	require.Len(t, init.Designators, 3)
	require.True(t, init.Designators[0].IsField())
	require.Equal(t, "y", init.Designators[0].Field.Name)
	require.False(t, init.Designators[1].IsField())
	require.Equal(t, "2", init.Designators[1].Index.Value)
	require.Equal(t, "z", init.Designators[2].Name)
	require.Equal(t, "7", init.Child(0).Value)
}

func TestParseStmtKindKnowsTaskLoop(t *testing.T) {
	for _, name := range []string{"OMPTaskLoopDirective", "OMPParallelSectionsDirective", "OMPTargetTeamsDistributeSimdDirective"} {
		k, ok := ParseStmtKind(name)
		require.True(t, ok, name)
		require.True(t, k.IsOMPDirective(), name)
		require.False(t, k.IsExpr(), name)
	}
	for _, name := range []string{"OffsetOfExpr", "SizeOfPackExpr", "CXXNoexceptExpr", "ExtVectorElementExpr", "CXXUnresolvedConstructExpr"} {
		k, ok := ParseStmtKind(name)
		require.True(t, ok, name)
		require.True(t, k.IsExpr(), name)
		require.Equal(t, name, k.String())
	}
}

func TestBuilderSharesBuiltins(t *testing.T) {
	b := NewBuilder("t.c")
	i1 := b.Builtin("Int")
	i2 := b.Builtin("Int")
	require.Same(t, i1.Type, i2.Type)

	x := b.Var("x", i1, b.IntLit(3))
	ref := b.Ref(x)
	require.Same(t, x, ref.Decl)
	require.Equal(t, "3", x.Init.Value)
}

func TestWalkSkipsChildren(t *testing.T) {
	b := NewBuilder("t.c")
	inner := b.IntLit(1)
	paren := b.Stmt(ParenExpr, inner.Type, inner)
	root := b.Compound(paren, b.IntLit(2))

	var seen []StmtKind
	Walk(root, func(s *Stmt) bool {
		seen = append(seen, s.Kind)
		return s.Kind != ParenExpr
	})
	require.Equal(t, []StmtKind{CompoundStmt, ParenExpr, IntegerLiteral}, seen)
}
