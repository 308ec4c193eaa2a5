package symbols

import (
	"astbridge/internal/source"
	"astbridge/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolParameter
	SymbolField
	SymbolFunction
	SymbolClass
	SymbolEnum
	SymbolEnumerator
	SymbolTypedef
	SymbolLabel
	SymbolNamespace
	SymbolTemplate
	SymbolInstantiation
)

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	// SymbolFlagPlaceholder marks a stand-in for a declaration that could not be resolved.
	SymbolFlagPlaceholder SymbolFlags = 1 << iota
	// SymbolFlagImplicit marks symbols synthesized without a foreign declaration.
	SymbolFlagImplicit
	// SymbolFlagPredefined marks __func__ and friends.
	SymbolFlagPredefined
	SymbolFlagDefinition
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	case SymbolField:
		return "field"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolEnum:
		return "enum"
	case SymbolEnumerator:
		return "enumerator"
	case SymbolTypedef:
		return "typedef"
	case SymbolLabel:
		return "label"
	case SymbolNamespace:
		return "namespace"
	case SymbolTemplate:
		return "template"
	case SymbolInstantiation:
		return "instantiation"
	default:
		return "invalid"
	}
}

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagPlaceholder != 0 {
		labels = append(labels, "placeholder")
	}
	if f&SymbolFlagImplicit != 0 {
		labels = append(labels, "implicit")
	}
	if f&SymbolFlagPredefined != 0 {
		labels = append(labels, "predefined")
	}
	if f&SymbolFlagDefinition != 0 {
		labels = append(labels, "definition")
	}
	return labels
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Type  types.TypeID
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Decl  Node // declaring IR node; nil for placeholders
	// Key is the name the symbol is indexed under when it differs from Name
	// (mangled instantiation names).
	Key string
}

// IndexName returns the name the symbol is filed under in its scope.
func (s *Symbol) IndexName() string {
	if s.Key != "" {
		return s.Key
	}
	return s.Name
}
