package foreign

import (
	"astbridge/internal/source"
)

// QualType pairs a type with its qualifiers.
type QualType struct {
	Type         *Type
	Const        bool
	Volatile     bool
	Restrict     bool
	AddressSpace uint32 // 0 is the default space
}

// IsNull reports whether q refers to no type.
func (q QualType) IsNull() bool { return q.Type == nil }

// HasQualifiers reports whether any qualifier is set.
func (q QualType) HasQualifiers() bool {
	return q.Const || q.Volatile || q.Restrict || q.AddressSpace != 0
}

// Unqualified drops the qualifiers.
func (q QualType) Unqualified() QualType { return QualType{Type: q.Type} }

// Stmt is a foreign statement or expression node. Pointer identity is the
// node's identity for the whole run.
type Stmt struct {
	ID    int
	Kind  StmtKind
	Range source.Span
	Type  QualType // expressions only
	Inner []*Stmt

	Decl  *Decl   // referenced declaration (DeclRefExpr, MemberExpr, LabelStmt, GotoStmt, CXXConstructExpr)
	Decls []*Decl // DeclStmt declarators in source order

	Opcode      string   // operator spelling for operator nodes
	Postfix     bool     // UnaryOperator: x++ rather than ++x
	Arrow       bool     // MemberExpr: p->m rather than s.m
	Name        string   // member, trait, predefined or unresolved name
	Value       string   // literal payload: decimal integer, float text, raw string bytes, "true"/"false"
	Precision   int      // FloatingLiteral mantissa bits (24, 53, 64, 113, 11)
	CastKind    string   // front-end cast kind for casts
	WrittenType QualType // explicit cast target, sizeof(type), compound literal, new, va_arg
	ArgIsType   bool     // UnaryExprOrTypeTraitExpr applied to WrittenType
	Dependent   bool     // TypeTraitExpr whose value depends on a template parameter
	Directive   string   // OMP directive source text without "#pragma"

	// Designators is the designator chain of a DesignatedInitExpr or the
	// component path of an OffsetOfExpr.
	Designators []Designator
}

// Designator is one step of a designator chain: a field (.x) or an array
// element ([i], or the GNU range [i ... j]).
type Designator struct {
	Field    *Decl
	Name     string // field name when Field is absent
	Index    *Stmt
	RangeEnd *Stmt
}

// IsField reports whether d selects a field rather than an element.
func (d Designator) IsField() bool { return d.Index == nil }

// Child returns Inner[i] or nil when out of range.
func (s *Stmt) Child(i int) *Stmt {
	if s == nil || i < 0 || i >= len(s.Inner) {
		return nil
	}
	return s.Inner[i]
}

// Type is a foreign type node.
type Type struct {
	ID   int
	Kind TypeKind
	// Name is the builtin name ("Int", "Double"...), the qualified template
	// name of a specialization, or the spelled name of a dependent type.
	Name       string
	Elem       QualType // pointee, element, result, sugar target, deduced type
	Params     []QualType
	Variadic   bool
	Size       uint64 // ConstantArrayType extent
	SizeExpr   *Stmt  // VariableArrayType / DependentSizedArrayType extent
	Star       bool   // VariableArrayType spelled [*]
	VectorSize uint64
	Decl       *Decl // TypedefType, RecordType, EnumType, InjectedClassNameType
	Args       []TemplateArg
	Class      string // front-end class name of an UnknownType
}

// Decl is a foreign declaration node.
type Decl struct {
	ID       int
	Kind     DeclKind
	Name     string
	QualName string // fully qualified, "::"-separated
	Range    source.Span
	Type     QualType // value type, function type, typedef target, enum underlying type
	Init     *Stmt    // initializer, enumerator value, field bit width
	Body     *Stmt    // function body
	Params   []*Decl
	Members  []*Decl // record fields and methods, enumerators, namespace or linkage members
	Parent   *Decl   // semantic context; nil at translation-unit level
	Tag      string  // struct, class, union, enum
	Storage  string  // static, extern, register, auto
	Defined  bool    // has a definition (function body, complete record)
	Implicit bool
	Template string // ClassTemplateSpecializationDecl: qualified template name
	Args     []TemplateArg
}

// DisplayName returns Name, falling back to QualName.
func (d *Decl) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.QualName
}

// QualifiedName returns QualName, falling back to Name.
func (d *Decl) QualifiedName() string {
	if d.QualName != "" {
		return d.QualName
	}
	return d.Name
}

// TemplateArg is one argument of a template specialization.
type TemplateArg struct {
	Kind     TemplateArgKind
	Type     QualType
	Value    string // integral value in decimal
	Template string // template name for ArgTemplate
	Expr     *Stmt
	Decl     *Decl // ArgDeclaration: the referenced entity
	Pack     []TemplateArg
}
