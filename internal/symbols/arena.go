package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"astbridge/internal/source"
)

// ScopeID indexes the scope arena; NoScopeID is the reserved slot 0.
type ScopeID uint32

// SymbolID indexes the symbol arena; NoSymbolID is the reserved slot 0.
type SymbolID uint32

const (
	NoScopeID  ScopeID  = 0
	NoSymbolID SymbolID = 0
)

func (id ScopeID) IsValid() bool  { return id != NoScopeID }
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// arena is a slice whose slot 0 is a sentinel, so the zero id never
// resolves.
type arena[T any, ID ~uint32] struct {
	data []T
	what string
}

func newArena[T any, ID ~uint32](what string, capacity, fallback uint32) arena[T, ID] {
	if capacity == 0 {
		capacity = fallback
	}
	return arena[T, ID]{data: make([]T, 1, capacity+1), what: what}
}

func (a *arena[T, ID]) push(v T) ID {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("%s arena overflow: %w", a.what, err))
	}
	a.data = append(a.data, v)
	return ID(n)
}

func (a *arena[T, ID]) get(id ID) *T {
	if id == 0 || uint64(id) >= uint64(len(a.data)) {
		return nil
	}
	return &a.data[id]
}

func (a *arena[T, ID]) len() int { return len(a.data) - 1 }

// each visits live slots in allocation order until yield returns false.
func (a *arena[T, ID]) each(yield func(ID, *T) bool) {
	for i := 1; i < len(a.data); i++ {
		if !yield(ID(i), &a.data[i]) { //nolint:gosec // bounded by push
			return
		}
	}
}

// Scopes is the scope arena of one table.
type Scopes struct{ arena[Scope, ScopeID] }

func NewScopes(capacity uint32) *Scopes {
	return &Scopes{newArena[Scope, ScopeID]("scopes", capacity, 32)}
}

// New allocates a scope and links it under parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner Node, span source.Span) ScopeID {
	id := s.push(Scope{
		Kind:      kind,
		Parent:    parent,
		Owner:     owner,
		Span:      span,
		NameIndex: make(map[string][]SymbolID),
	})
	if p := s.get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get returns the scope, or nil for an unknown id.
func (s *Scopes) Get(id ScopeID) *Scope { return s.get(id) }

func (s *Scopes) Len() int { return s.len() }

// All yields every scope in allocation order.
func (s *Scopes) All(yield func(ScopeID, *Scope) bool) { s.each(yield) }

// Symbols is the symbol arena of one table.
type Symbols struct{ arena[Symbol, SymbolID] }

func NewSymbols(capacity uint32) *Symbols {
	return &Symbols{newArena[Symbol, SymbolID]("symbols", capacity, 64)}
}

// New stores a copy of sym.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	return s.push(*sym)
}

// Get returns the symbol, or nil for an unknown id.
func (s *Symbols) Get(id SymbolID) *Symbol { return s.get(id) }

func (s *Symbols) Len() int { return s.len() }

// All yields every symbol in allocation order.
func (s *Symbols) All(yield func(SymbolID, *Symbol) bool) { s.each(yield) }
