package foreign

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema reports a dump whose schema version is not supported.
	ErrSchema = errors.New("unsupported dump schema")
	// ErrFormat reports a dump file extension with no decoder.
	ErrFormat = errors.New("unknown dump format")
	// ErrMalformed covers dangling references, duplicate ids and unknown kinds.
	ErrMalformed = errors.New("malformed dump")
)

// SchemaError is returned when the schema version fails the constraint.
type SchemaError struct {
	Version    string
	Constraint string
	Err        error // parse error of Version, if any
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dump schema %q: %v", e.Version, e.Err)
	}
	return fmt.Sprintf("dump schema %s does not satisfy %s", e.Version, e.Constraint)
}

func (e *SchemaError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSchema, e.Err}
	}
	return []error{ErrSchema}
}

// RefError is a reference to an id that does not exist in its table.
type RefError struct {
	Table string // "stmts", "types", "decls", "files"
	From  string // e.g. "stmt 12 inner[1]"
	Ref   int
}

func (e *RefError) Error() string {
	return fmt.Sprintf("%s: dangling reference to %s id %d", e.From, e.Table, e.Ref)
}

func (e *RefError) Unwrap() error { return ErrMalformed }

// KindError is a node whose kind name is not known.
type KindError struct {
	Table string
	ID    int
	Kind  string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s id %d: unknown kind %q", e.Table, e.ID, e.Kind)
}

func (e *KindError) Unwrap() error { return ErrMalformed }

// IDError is a non-positive or duplicate id.
type IDError struct {
	Table string
	ID    int
	Dup   bool
}

func (e *IDError) Error() string {
	if e.Dup {
		return fmt.Sprintf("%s: duplicate id %d", e.Table, e.ID)
	}
	return fmt.Sprintf("%s: invalid id %d", e.Table, e.ID)
}

func (e *IDError) Unwrap() error { return ErrMalformed }
