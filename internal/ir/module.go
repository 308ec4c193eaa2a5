package ir

import (
	"astbridge/internal/symbols"
	"astbridge/internal/types"
)

// Module is the lowered form of one translation unit.
type Module struct {
	Name string
	Path string
	// Decls are the lowered root declarations in source order.
	Decls []*Stmt
	// Implicit holds declarations synthesized during lowering: template
	// stand-ins, instantiations, namespaces created for them and
	// declarations first reached through a reference.
	Implicit []*Stmt
	// Extents maps constant-size array types to their IntVal extent.
	Extents map[types.TypeID]*Expr

	Types   *types.Interner
	Symbols *symbols.Table
}

// NewModule returns an empty module bound to the given tables.
func NewModule(name string, in *types.Interner, table *symbols.Table) *Module {
	return &Module{
		Name:    name,
		Extents: make(map[types.TypeID]*Expr),
		Types:   in,
		Symbols: table,
	}
}

// AddDecl appends a root declaration.
func (m *Module) AddDecl(s *Stmt) {
	if s != nil {
		m.Decls = append(m.Decls, s)
	}
}

// AddImplicit appends a synthesized declaration.
func (m *Module) AddImplicit(s *Stmt) {
	if s != nil {
		m.Implicit = append(m.Implicit, s)
	}
}

// Symbol returns the symbol table entry for id, or nil.
func (m *Module) Symbol(id symbols.SymbolID) *symbols.Symbol {
	if m.Symbols == nil {
		return nil
	}
	return m.Symbols.Symbols.Get(id)
}

// FindDecl returns the first root or implicit declaration named name.
func (m *Module) FindDecl(name string) *Stmt {
	for _, list := range [][]*Stmt{m.Decls, m.Implicit} {
		for _, s := range list {
			if n, _, ok := DeclName(s); ok && n == name {
				return s
			}
		}
	}
	return nil
}
