package foreign

import (
	"astbridge/internal/source"
)

// Unit is one decoded translation unit: the root declarations plus every
// node reachable from them. Nodes are shared, never copied.
type Unit struct {
	Schema string
	Path   string // unit name as recorded by the producer
	Files  []source.FileID
	Top    []*Decl

	stmts []*Stmt
	types []*Type
	decls []*Decl
}

// Counts reports the number of nodes per table.
func (u *Unit) Counts() (stmts, types, decls int) {
	return len(u.stmts), len(u.types), len(u.decls)
}

// Decls returns every declaration of the unit in table order.
func (u *Unit) Decls() []*Decl { return u.decls }

// Stmts returns every statement and expression of the unit in table order.
func (u *Unit) Stmts() []*Stmt { return u.stmts }

// Types returns every type of the unit in table order.
func (u *Unit) Types() []*Type { return u.types }

// Walk visits s and its descendants in pre-order; returning false from fn
// skips the children of that node.
func Walk(s *Stmt, fn func(*Stmt) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, c := range s.Inner {
		Walk(c, fn)
	}
}
