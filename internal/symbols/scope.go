package symbols

import (
	"astbridge/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid   ScopeKind = iota
	ScopeGlobal              // translation unit
	ScopeNamespace           // namespace body
	ScopeFunction            // function definition (parameters, labels, __func__)
	ScopeBlock               // compound statement
	ScopeFor
	ScopeIf
	ScopeWhile
	ScopeDo
	ScopeSwitch
	ScopeClass // record or template instantiation body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeNamespace:
		return "namespace"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeFor:
		return "for"
	case ScopeIf:
		return "if"
	case ScopeWhile:
		return "while"
	case ScopeDo:
		return "do"
	case ScopeSwitch:
		return "switch"
	case ScopeClass:
		return "class"
	default:
		return "invalid"
	}
}

// Node is the IR construct owning a scope or declaring a symbol. It is an
// interface so the table does not depend on the IR package.
type Node interface {
	NodeKind() string
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind      ScopeKind
	Name      string // namespace or class name; empty for anonymous scopes
	Parent    ScopeID
	Owner     Node
	Span      source.Span
	NameIndex map[string][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
