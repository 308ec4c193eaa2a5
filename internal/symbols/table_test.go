package symbols

import (
	"errors"
	"strings"
	"testing"

	"astbridge/internal/source"
)

type fakeNode string

func (n fakeNode) NodeKind() string { return string(n) }

func TestTableInsertLookup(t *testing.T) {
	table := NewTable(Hints{})
	global := table.Global()
	fn := table.Scopes.New(ScopeFunction, global, fakeNode("FunctionDecl"), source.Span{})

	outer := table.Insert(global, Symbol{Name: "x", Kind: SymbolVariable})
	inner := table.Insert(fn, Symbol{Name: "x", Kind: SymbolParameter})

	if got, _ := table.Lookup(fn, "x"); got != inner {
		t.Fatalf("inner x should shadow outer")
	}
	if got, _ := table.Lookup(global, "x"); got != outer {
		t.Fatalf("global lookup should find outer x")
	}
	if _, ok := table.LookupLocal(fn, "y"); ok {
		t.Fatalf("unexpected symbol y")
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestInsertUnderMangledKey(t *testing.T) {
	table := NewTable(Hints{})
	ns := table.Scopes.New(ScopeNamespace, table.Global(), nil, source.Span{})
	table.Scopes.Get(ns).Name = "std"
	id := table.Insert(ns, Symbol{Name: "array", Key: "std__array_double_1024", Kind: SymbolInstantiation})

	if _, ok := table.LookupLocal(ns, "array"); ok {
		t.Fatalf("instantiations are indexed by mangled name only")
	}
	if got, ok := table.LookupLocal(ns, "std__array_double_1024"); !ok || got != id {
		t.Fatalf("mangled lookup failed")
	}
	if q := table.QualifiedName(id); q != "std::array" {
		t.Fatalf("QualifiedName = %q", q)
	}
	if child, ok := table.ChildNamed(table.Global(), ScopeNamespace, "std"); !ok || child != ns {
		t.Fatalf("ChildNamed failed")
	}
}

func TestStackDiscipline(t *testing.T) {
	table := NewTable(Hints{})
	st := NewStack(table)
	if err := st.Pop(NoScopeID); err == nil {
		t.Fatalf("pop on empty stack must fail")
	}
	st.Push(table.Global())
	fn := st.Enter(ScopeFunction, fakeNode("FunctionDecl"), source.Span{})
	blk := st.Enter(ScopeBlock, nil, source.Span{})

	if got, ok := st.FindEnclosing(ScopeFunction); !ok || got != fn {
		t.Fatalf("FindEnclosing(function) = %d, want %d", got, fn)
	}
	var serr *ScopeError
	if err := st.Pop(fn); !errors.As(err, &serr) || serr.Got != blk {
		t.Fatalf("pop of wrong scope must report the real top, got %v", err)
	}
	for _, id := range []ScopeID{blk, fn, table.Global()} {
		if err := st.Pop(id); err != nil {
			t.Fatalf("pop %d: %v", id, err)
		}
	}
	if st.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", st.Depth())
	}
}

func TestValidateReportsDomainViolations(t *testing.T) {
	table := NewTable(Hints{})
	block := table.Scopes.New(ScopeBlock, table.Global(), nil, source.Span{})
	table.Insert(block, Symbol{Name: "done", Kind: SymbolLabel})
	table.Insert(table.Global(), Symbol{Name: "x", Key: "x_int", Kind: SymbolVariable})
	table.Scopes.New(ScopeBlock, NoScopeID, nil, source.Span{})

	err := table.Validate()
	if err == nil {
		t.Fatalf("expected violations")
	}
	for _, want := range []string{"label done is bound in a block scope", `variable x is filed under foreign key "x_int"`, "detached"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("missing %q in %v", want, err)
		}
	}
}

func TestScopesAllVisitsInOrder(t *testing.T) {
	table := NewTable(Hints{Scopes: 2})
	ns := table.Scopes.New(ScopeNamespace, table.Global(), nil, source.Span{})
	var seen []ScopeID
	for id := range table.Scopes.All {
		seen = append(seen, id)
	}
	if len(seen) != 2 || seen[0] != table.Global() || seen[1] != ns || table.Scopes.Len() != 2 {
		t.Fatalf("unexpected scopes %v", seen)
	}
	if table.Scopes.Get(NoScopeID) != nil || table.Symbols.Get(SymbolID(42)) != nil {
		t.Fatalf("out-of-range ids must not resolve")
	}
}
