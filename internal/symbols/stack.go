package symbols

import (
	"fmt"

	"astbridge/internal/source"
)

// ScopeError describes a scope stack discipline violation.
type ScopeError struct {
	Op       string
	Expected ScopeID
	Got      ScopeID
}

func (e *ScopeError) Error() string {
	if e.Got == NoScopeID {
		return fmt.Sprintf("scope stack: %s on empty stack (expected %d)", e.Op, e.Expected)
	}
	return fmt.Sprintf("scope stack: %s expected scope %d, top is %d", e.Op, e.Expected, e.Got)
}

// Stack is the chain of currently open scopes; the top is the innermost.
// It starts empty; callers push the global scope explicitly.
type Stack struct {
	table *Table
	ids   []ScopeID
}

func NewStack(table *Table) *Stack {
	return &Stack{table: table, ids: make([]ScopeID, 0, 16)}
}

// Depth reports the number of open scopes.
func (s *Stack) Depth() int { return len(s.ids) }

// Push opens an existing scope.
func (s *Stack) Push(id ScopeID) {
	s.ids = append(s.ids, id)
}

// Enter allocates a child of the current top scope and pushes it.
func (s *Stack) Enter(kind ScopeKind, owner Node, span source.Span) ScopeID {
	id := s.table.Scopes.New(kind, s.Top(), owner, span)
	s.Push(id)
	return id
}

// Pop closes the top scope, which must be expected.
func (s *Stack) Pop(expected ScopeID) error {
	if len(s.ids) == 0 {
		return &ScopeError{Op: "pop", Expected: expected}
	}
	top := s.ids[len(s.ids)-1]
	if expected.IsValid() && top != expected {
		return &ScopeError{Op: "pop", Expected: expected, Got: top}
	}
	s.ids = s.ids[:len(s.ids)-1]
	return nil
}

// Top returns the innermost open scope, or NoScopeID.
func (s *Stack) Top() ScopeID {
	if len(s.ids) == 0 {
		return NoScopeID
	}
	return s.ids[len(s.ids)-1]
}

// FindEnclosing returns the innermost open scope of kind.
func (s *Stack) FindEnclosing(kind ScopeKind) (ScopeID, bool) {
	for i := len(s.ids) - 1; i >= 0; i-- {
		if sc := s.table.Scopes.Get(s.ids[i]); sc != nil && sc.Kind == kind {
			return s.ids[i], true
		}
	}
	return NoScopeID, false
}

// Lookup resolves name from the top scope outwards.
func (s *Stack) Lookup(name string) (SymbolID, bool) {
	return s.table.Lookup(s.Top(), name)
}

// Insert files sym into the top scope.
func (s *Stack) Insert(sym Symbol) SymbolID {
	return s.table.Insert(s.Top(), sym)
}
