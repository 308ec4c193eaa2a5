package ir

import (
	"astbridge/internal/source"
)

// Node is implemented by *Stmt and *Expr.
type Node interface {
	NodeKind() string
	NodeSpan() source.Span
	ParentNode() Node
	setParent(Node)
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Stmt:
		return v == nil
	case *Expr:
		return v == nil
	}
	return false
}

// Attach sets parent as the Parent of every non-nil child.
func Attach(parent Node, children ...Node) {
	for _, c := range children {
		if IsNil(c) {
			continue
		}
		c.setParent(parent)
	}
}

// AsExpr returns n as an expression, or nil when n is not one.
func AsExpr(n Node) (*Expr, bool) {
	e, ok := n.(*Expr)
	return e, ok && e != nil
}

// AsStmt returns n as a statement, or nil when n is not one.
func AsStmt(n Node) (*Stmt, bool) {
	s, ok := n.(*Stmt)
	return s, ok && s != nil
}

// Enclosing returns the nearest strict ancestor of n that is a statement of kind.
func Enclosing(n Node, kind StmtKind) (*Stmt, bool) {
	if IsNil(n) {
		return nil, false
	}
	for cur := n.ParentNode(); !IsNil(cur); cur = cur.ParentNode() {
		if s, ok := cur.(*Stmt); ok && s.Kind == kind {
			return s, true
		}
	}
	return nil, false
}
