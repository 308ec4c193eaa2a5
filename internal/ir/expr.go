package ir

import (
	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/types"
)

// ExprKind enumerates IR expression kinds.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIntVal
	ExprFloatVal
	ExprCharVal
	ExprBoolVal
	ExprStringVal
	ExprNullPtrVal
	// ExprImaginary is the imaginary part literal of a complex number.
	ExprImaginary
	ExprVarRef
	ExprFuncRef
	ExprEnumRef
	ExprBinary
	ExprUnary
	ExprCall
	// ExprList is an ordered list: call arguments or an initializer list.
	ExprList
	ExprMember
	ExprIndex
	ExprCond
	ExprCast
	ExprSizeOf
	ExprAlignOf
	// ExprAggregateInit is a nested braced initializer.
	ExprAggregateInit
	ExprCompoundLiteral
	// ExprStmtExpr is a GNU statement expression.
	ExprStmtExpr
	ExprVAArg
	// ExprConstructorInit is a constructor call used as an initializer.
	ExprConstructorInit
	ExprNew
	ExprThrow
	// ExprNull stands in for an absent expression.
	ExprNull
	// ExprOpaqueRef names something that could not be resolved.
	ExprOpaqueRef
	// ExprDesignatedInit is one designated element of a braced initializer.
	ExprDesignatedInit
	ExprOffsetOf
)

var exprKindNames = [...]string{
	ExprInvalid:         "Invalid",
	ExprIntVal:          "IntVal",
	ExprFloatVal:        "FloatVal",
	ExprCharVal:         "CharVal",
	ExprBoolVal:         "BoolVal",
	ExprStringVal:       "StringVal",
	ExprNullPtrVal:      "NullPtrVal",
	ExprImaginary:       "Imaginary",
	ExprVarRef:          "VarRef",
	ExprFuncRef:         "FuncRef",
	ExprEnumRef:         "EnumRef",
	ExprBinary:          "Binary",
	ExprUnary:           "Unary",
	ExprCall:            "Call",
	ExprList:            "ExprList",
	ExprMember:          "Member",
	ExprIndex:           "Index",
	ExprCond:            "Cond",
	ExprCast:            "Cast",
	ExprSizeOf:          "SizeOf",
	ExprAlignOf:         "AlignOf",
	ExprAggregateInit:   "AggregateInit",
	ExprCompoundLiteral: "CompoundLiteral",
	ExprStmtExpr:        "StmtExpr",
	ExprVAArg:           "VAArg",
	ExprConstructorInit: "ConstructorInit",
	ExprNew:             "New",
	ExprThrow:           "Throw",
	ExprNull:            "NullExpr",
	ExprOpaqueRef:       "OpaqueRef",
	ExprDesignatedInit:  "DesignatedInit",
	ExprOffsetOf:        "OffsetOf",
}

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// IsRef reports whether k refers to a symbol.
func (k ExprKind) IsRef() bool {
	return k == ExprVarRef || k == ExprFuncRef || k == ExprEnumRef
}

// Expr is an IR expression with a resolved type.
type Expr struct {
	Kind   ExprKind
	Type   types.TypeID
	Span   source.Span
	Parent Node
	Data   ExprData
}

func (e *Expr) NodeKind() string      { return e.Kind.String() }
func (e *Expr) NodeSpan() source.Span { return e.Span }
func (e *Expr) ParentNode() Node      { return e.Parent }
func (e *Expr) setParent(parent Node) { e.Parent = parent }

// IsNull reports whether e is absent or a Null expression.
func (e *Expr) IsNull() bool { return e == nil || e.Kind == ExprNull }

// NewExpr allocates an expression with no parent.
func NewExpr(kind ExprKind, ty types.TypeID, span source.Span, data ExprData) *Expr {
	return &Expr{Kind: kind, Type: ty, Span: span, Data: data}
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// IntValData holds data for ExprIntVal.
type IntValData struct {
	Value uint64
	Text  string // decimal spelling
}

func (IntValData) exprData() {}

// FloatPrecision is the target precision of a floating literal.
type FloatPrecision uint8

const (
	PrecisionSingle FloatPrecision = iota + 1
	PrecisionDouble
	PrecisionExtended
)

func (p FloatPrecision) String() string {
	switch p {
	case PrecisionSingle:
		return "float"
	case PrecisionDouble:
		return "double"
	case PrecisionExtended:
		return "long double"
	}
	return "unknown"
}

// FloatValData holds data for ExprFloatVal. Value is exact for single and
// double precision; extended values keep their exact digits in Text.
type FloatValData struct {
	Precision FloatPrecision
	Value     float64
	Text      string
}

func (FloatValData) exprData() {}

// CharValData holds data for ExprCharVal.
type CharValData struct {
	Value uint32
}

func (CharValData) exprData() {}

// BoolValData holds data for ExprBoolVal.
type BoolValData struct {
	Value bool
}

func (BoolValData) exprData() {}

// StringValData holds data for ExprStringVal. Value is the escaped form
// including the terminating NUL.
type StringValData struct {
	Value string
}

func (StringValData) exprData() {}

// ImaginaryData holds data for ExprImaginary.
type ImaginaryData struct {
	Value *Expr
}

func (ImaginaryData) exprData() {}

// RefData holds data for ExprVarRef, ExprFuncRef and ExprEnumRef.
type RefData struct {
	Name   string
	Symbol symbols.SymbolID
}

func (RefData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// CallData holds data for ExprCall. Args is always an ExprList.
type CallData struct {
	Callee *Expr
	Args   *Expr
	Method bool
}

func (CallData) exprData() {}

// ListData holds data for ExprList and ExprAggregateInit.
type ListData struct {
	Items []*Expr
}

func (ListData) exprData() {}

// MemberData holds data for ExprMember.
type MemberData struct {
	Base  *Expr
	Name  string
	Field symbols.SymbolID
	Arrow bool
}

func (MemberData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Base  *Expr
	Index *Expr
}

func (IndexData) exprData() {}

// CondData holds data for ExprCond.
type CondData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (CondData) exprData() {}

// CastData holds data for ExprCast; the expression type is the target type.
type CastData struct {
	Value *Expr
	Style CastStyle
}

func (CastData) exprData() {}

// SizeOfData holds data for ExprSizeOf and ExprAlignOf. Exactly one of
// Arg and ArgType is set.
type SizeOfData struct {
	Arg     *Expr
	ArgType types.TypeID
}

func (SizeOfData) exprData() {}

// CompoundLiteralData holds data for ExprCompoundLiteral.
type CompoundLiteralData struct {
	Init *Expr
}

func (CompoundLiteralData) exprData() {}

// StmtExprData holds data for ExprStmtExpr.
type StmtExprData struct {
	Body *Stmt
}

func (StmtExprData) exprData() {}

// VAArgData holds data for ExprVAArg.
type VAArgData struct {
	List *Expr
}

func (VAArgData) exprData() {}

// ConstructorInitData holds data for ExprConstructorInit.
type ConstructorInitData struct {
	Args *Expr // ExprList
}

func (ConstructorInitData) exprData() {}

// NewData holds data for ExprNew.
type NewData struct {
	Allocated types.TypeID
	ArraySize *Expr // nil unless new[]
	Init      *Expr // nil if none
	Placement *Expr // ExprList, nil if none
}

func (NewData) exprData() {}

// ThrowData holds data for ExprThrow.
type ThrowData struct {
	Value *Expr // nil for rethrow
}

func (ThrowData) exprData() {}

// OpaqueRefData holds data for ExprOpaqueRef.
type OpaqueRefData struct {
	Name string
}

func (OpaqueRefData) exprData() {}

// DesignatedInitData holds data for ExprDesignatedInit. Each designator is
// an ExprMember with no base (.field) or an ExprIndex with no base ([i]).
type DesignatedInitData struct {
	Designators []*Expr
	Init        *Expr
}

func (DesignatedInitData) exprData() {}

// OffsetOfData holds data for ExprOffsetOf. Path uses the designator forms
// of DesignatedInitData.
type OffsetOfData struct {
	Of   types.TypeID
	Path []*Expr
}

func (OffsetOfData) exprData() {}
