package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"astbridge/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the scope and symbol arenas of one translation unit.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	global  ScopeID
}

// NewTable builds a fresh table with a global scope already allocated.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
	}
	t.global = t.Scopes.New(ScopeGlobal, NoScopeID, nil, source.Span{})
	return t
}

// Global returns the translation-unit scope.
func (t *Table) Global() ScopeID {
	return t.global
}

// Insert files sym into scope under sym.IndexName(). Names may repeat
// (overloads, redeclarations); lookups return the most recent.
func (t *Table) Insert(scope ScopeID, sym Symbol) SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		panic(fmt.Errorf("symbols: insert into invalid scope %d", scope))
	}
	sym.Scope = scope
	id := t.Symbols.New(&sym)
	name := sym.IndexName()
	sc.NameIndex[name] = append(sc.NameIndex[name], id)
	sc.Symbols = append(sc.Symbols, id)
	return id
}

// LookupLocal finds name in scope only.
func (t *Table) LookupLocal(scope ScopeID, name string) (SymbolID, bool) {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	bucket := sc.NameIndex[name]
	if len(bucket) == 0 {
		return NoSymbolID, false
	}
	return bucket[len(bucket)-1], true
}

// Lookup walks from scope outwards to the global scope.
func (t *Table) Lookup(scope ScopeID, name string) (SymbolID, bool) {
	for id := scope; id.IsValid(); {
		if sym, ok := t.LookupLocal(id, name); ok {
			return sym, true
		}
		sc := t.Scopes.Get(id)
		if sc == nil {
			break
		}
		id = sc.Parent
	}
	return NoSymbolID, false
}

// ChildNamed returns the child scope of parent with the given kind and name.
func (t *Table) ChildNamed(parent ScopeID, kind ScopeKind, name string) (ScopeID, bool) {
	sc := t.Scopes.Get(parent)
	if sc == nil {
		return NoScopeID, false
	}
	for _, child := range sc.Children {
		if c := t.Scopes.Get(child); c != nil && c.Kind == kind && c.Name == name {
			return child, true
		}
	}
	return NoScopeID, false
}

// QualifiedName joins the names of the enclosing named scopes with "::".
func (t *Table) QualifiedName(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	name := sym.Name
	for sc := t.Scopes.Get(sym.Scope); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		if sc.Name != "" && (sc.Kind == ScopeNamespace || sc.Kind == ScopeClass) {
			name = sc.Name + "::" + name
		}
	}
	return name
}
