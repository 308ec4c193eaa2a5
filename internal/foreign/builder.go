package foreign

import (
	"strconv"

	"astbridge/internal/source"
)

// Builder assembles a Unit in memory. Ids are assigned in creation order;
// it is used by tests and by tools that synthesize small units.
type Builder struct {
	unit     *Unit
	nextStmt int
	nextType int
	nextDecl int
	builtins map[string]*Type
}

func NewBuilder(path string) *Builder {
	return &Builder{
		unit:     &Unit{Schema: SchemaVersion, Path: path},
		builtins: make(map[string]*Type),
	}
}

// Unit returns the unit built so far.
func (b *Builder) Unit() *Unit { return b.unit }

// AddTop appends d to the unit's root declarations.
func (b *Builder) AddTop(d ...*Decl) { b.unit.Top = append(b.unit.Top, d...) }

// Type registers a new type node.
func (b *Builder) Type(kind TypeKind) *Type {
	b.nextType++
	t := &Type{ID: b.nextType, Kind: kind}
	b.unit.types = append(b.unit.types, t)
	return t
}

// Builtin returns the shared builtin type node for name ("Int", "Double"...).
func (b *Builder) Builtin(name string) QualType {
	if t, ok := b.builtins[name]; ok {
		return QualType{Type: t}
	}
	t := b.Type(BuiltinType)
	t.Name = name
	b.builtins[name] = t
	return QualType{Type: t}
}

func (b *Builder) Pointer(elem QualType) QualType {
	t := b.Type(PointerType)
	t.Elem = elem
	return QualType{Type: t}
}

func (b *Builder) ConstArray(elem QualType, n uint64) QualType {
	t := b.Type(ConstantArrayType)
	t.Elem = elem
	t.Size = n
	return QualType{Type: t}
}

func (b *Builder) FuncType(result QualType, variadic bool, params ...QualType) QualType {
	t := b.Type(FunctionProtoType)
	t.Elem = result
	t.Params = params
	t.Variadic = variadic
	return QualType{Type: t}
}

// Record returns the RecordType of d.
func (b *Builder) Record(d *Decl) QualType {
	t := b.Type(RecordType)
	t.Decl = d
	return QualType{Type: t}
}

// Decl registers a new declaration node.
func (b *Builder) Decl(kind DeclKind, name string, qt QualType) *Decl {
	b.nextDecl++
	d := &Decl{ID: b.nextDecl, Kind: kind, Name: name, QualName: name, Type: qt}
	b.unit.decls = append(b.unit.decls, d)
	return d
}

func (b *Builder) Var(name string, qt QualType, init *Stmt) *Decl {
	d := b.Decl(VarDecl, name, qt)
	d.Init = init
	return d
}

func (b *Builder) Param(name string, qt QualType) *Decl {
	return b.Decl(ParmVarDecl, name, qt)
}

// Func declares a function; a non-nil body makes it a definition.
func (b *Builder) Func(name string, qt QualType, body *Stmt, params ...*Decl) *Decl {
	d := b.Decl(FunctionDecl, name, qt)
	d.Params = params
	d.Body = body
	d.Defined = body != nil
	for _, p := range params {
		p.Parent = d
	}
	return d
}

// Stmt registers a new statement or expression node.
func (b *Builder) Stmt(kind StmtKind, qt QualType, inner ...*Stmt) *Stmt {
	b.nextStmt++
	s := &Stmt{ID: b.nextStmt, Kind: kind, Type: qt, Inner: inner}
	b.unit.stmts = append(b.unit.stmts, s)
	return s
}

func (b *Builder) Compound(stmts ...*Stmt) *Stmt {
	return b.Stmt(CompoundStmt, QualType{}, stmts...)
}

func (b *Builder) DeclStmt(decls ...*Decl) *Stmt {
	s := b.Stmt(DeclStmt, QualType{})
	s.Decls = decls
	return s
}

func (b *Builder) Return(value *Stmt) *Stmt {
	return b.Stmt(ReturnStmt, QualType{}, value)
}

func (b *Builder) IntLit(v int64) *Stmt {
	s := b.Stmt(IntegerLiteral, b.Builtin("Int"))
	s.Value = strconv.FormatInt(v, 10)
	return s
}

// FloatLit builds a literal with the given mantissa precision (24, 53...).
func (b *Builder) FloatLit(text string, qt QualType, precision int) *Stmt {
	s := b.Stmt(FloatingLiteral, qt)
	s.Value = text
	s.Precision = precision
	return s
}

func (b *Builder) StringLit(raw string) *Stmt {
	s := b.Stmt(StringLiteral, b.ConstArray(b.Builtin("Char_S"), uint64(len(raw)+1)))
	s.Value = raw
	return s
}

// Ref builds a DeclRefExpr to d typed as d.
func (b *Builder) Ref(d *Decl) *Stmt {
	s := b.Stmt(DeclRefExpr, d.Type)
	s.Decl = d
	s.Name = d.Name
	return s
}

// RValue wraps e in an lvalue-to-rvalue ImplicitCastExpr.
func (b *Builder) RValue(e *Stmt) *Stmt {
	s := b.Stmt(ImplicitCastExpr, e.Type.Unqualified(), e)
	s.CastKind = "LValueToRValue"
	return s
}

func (b *Builder) Binary(op string, qt QualType, lhs, rhs *Stmt) *Stmt {
	s := b.Stmt(BinaryOperator, qt, lhs, rhs)
	s.Opcode = op
	return s
}

func (b *Builder) Unary(op string, postfix bool, qt QualType, sub *Stmt) *Stmt {
	s := b.Stmt(UnaryOperator, qt, sub)
	s.Opcode = op
	s.Postfix = postfix
	return s
}

func (b *Builder) Call(qt QualType, callee *Stmt, args ...*Stmt) *Stmt {
	return b.Stmt(CallExpr, qt, append([]*Stmt{callee}, args...)...)
}

// For builds a ForStmt; nil parts stay absent.
func (b *Builder) For(init, cond, inc, body *Stmt) *Stmt {
	return b.Stmt(ForStmt, QualType{}, init, cond, inc, body)
}

func (b *Builder) If(cond, then, els *Stmt) *Stmt {
	return b.Stmt(IfStmt, QualType{}, nil, cond, then, els)
}

// At sets the source range of s and returns it.
func (b *Builder) At(s *Stmt, span source.Span) *Stmt {
	s.Range = span
	return s
}
