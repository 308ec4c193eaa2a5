package lower

import (
	"errors"
	"fmt"

	"astbridge/internal/source"
)

var (
	// ErrUnimplemented matches every *UnimplementedError.
	ErrUnimplemented = errors.New("unimplemented construct")
	// ErrInvariant matches every *InvariantError.
	ErrInvariant = errors.New("lowering invariant violated")
)

// Category names the node family an error refers to.
type Category uint8

const (
	CategoryStmt Category = iota + 1
	CategoryExpr
	CategoryType
	CategoryDecl
	CategoryOperator
)

func (c Category) String() string {
	switch c {
	case CategoryStmt:
		return "statement"
	case CategoryExpr:
		return "expression"
	case CategoryType:
		return "type"
	case CategoryDecl:
		return "declaration"
	case CategoryOperator:
		return "operator"
	}
	return "node"
}

// UnimplementedError reports a foreign construct that is deliberately not
// supported. Lowering of the unit stops.
type UnimplementedError struct {
	Category Category
	Kind     string // foreign kind name or operator spelling
	Detail   string
	Span     source.Span
}

func (e *UnimplementedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unimplemented %s kind %s: %s", e.Category, e.Kind, e.Detail)
	}
	return fmt.Sprintf("unimplemented %s kind %s", e.Category, e.Kind)
}

func (e *UnimplementedError) Is(target error) bool { return target == ErrUnimplemented }

// InvariantError reports a bug in the lowering engine itself.
type InvariantError struct {
	Msg  string
	Span source.Span
	Err  error // underlying cause, e.g. a *symbols.ScopeError
}

func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lowering invariant violated: %s: %v", e.Msg, e.Err)
	}
	return "lowering invariant violated: " + e.Msg
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

func (e *InvariantError) Unwrap() error { return e.Err }

// bailout carries a fatal error up to Lower or Translate.
type bailout struct{ err error }

func (c *Context) recoverBailout(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	*errp = b.err
}
