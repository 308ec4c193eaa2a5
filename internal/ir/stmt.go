package ir

import (
	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/types"
)

// StmtKind enumerates IR statement kinds. Declarations are statements.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	// StmtBlock is a compound statement with its own scope.
	StmtBlock
	// StmtExpr wraps an expression used as a statement.
	StmtExpr
	StmtNull
	StmtVarDecl
	StmtFuncDecl
	StmtRecordDecl
	StmtFieldDecl
	StmtEnumDecl
	StmtEnumerator
	StmtTypedef
	StmtNamespace
	// StmtTemplateDecl is a synthesized stand-in for a template whose
	// definition is not part of the unit.
	StmtTemplateDecl
	// StmtInstantiation is a synthesized class for one template argument list.
	StmtInstantiation
	StmtFor
	StmtIf
	StmtWhile
	StmtDo
	StmtSwitch
	StmtCase
	StmtDefault
	StmtReturn
	StmtBreak
	StmtContinue
	StmtLabel
	StmtGoto
)

var stmtKindNames = [...]string{
	StmtInvalid:       "Invalid",
	StmtBlock:         "Block",
	StmtExpr:          "ExprStatement",
	StmtNull:          "Null",
	StmtVarDecl:       "VarDecl",
	StmtFuncDecl:      "FuncDecl",
	StmtRecordDecl:    "RecordDecl",
	StmtFieldDecl:     "FieldDecl",
	StmtEnumDecl:      "EnumDecl",
	StmtEnumerator:    "Enumerator",
	StmtTypedef:       "Typedef",
	StmtNamespace:     "Namespace",
	StmtTemplateDecl:  "TemplateDecl",
	StmtInstantiation: "Instantiation",
	StmtFor:           "For",
	StmtIf:            "If",
	StmtWhile:         "While",
	StmtDo:            "Do",
	StmtSwitch:        "Switch",
	StmtCase:          "Case",
	StmtDefault:       "Default",
	StmtReturn:        "Return",
	StmtBreak:         "Break",
	StmtContinue:      "Continue",
	StmtLabel:         "Label",
	StmtGoto:          "Goto",
}

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

// IsDecl reports whether k declares a named entity.
func (k StmtKind) IsDecl() bool {
	return k >= StmtVarDecl && k <= StmtInstantiation
}

// Pragma is compiler-directive text preserved verbatim on a statement.
type Pragma struct {
	Text   string // "#pragma omp parallel for"
	Path   string
	Line   uint32
	Column uint32
}

// Stmt is an IR statement or declaration.
type Stmt struct {
	Kind   StmtKind
	Span   source.Span
	Parent Node
	// Scope is the scope the statement opens, for blocks, loops, conditionals,
	// switches, functions, namespaces and classes.
	Scope   symbols.ScopeID
	Data    StmtData
	Pragmas []Pragma
}

func (s *Stmt) NodeKind() string      { return s.Kind.String() }
func (s *Stmt) NodeSpan() source.Span { return s.Span }
func (s *Stmt) ParentNode() Node      { return s.Parent }
func (s *Stmt) setParent(parent Node) { s.Parent = parent }

// AddPragma attaches directive text to s.
func (s *Stmt) AddPragma(p Pragma) { s.Pragmas = append(s.Pragmas, p) }

// IsNull reports whether s is absent or a Null statement.
func (s *Stmt) IsNull() bool { return s == nil || s.Kind == StmtNull }

// NewStmt allocates a statement with no parent.
func NewStmt(kind StmtKind, span source.Span, data StmtData) *Stmt {
	return &Stmt{Kind: kind, Span: span, Data: data}
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// BlockData holds data for StmtBlock.
type BlockData struct {
	Stmts []*Stmt
}

func (BlockData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// VarDeclData holds data for StmtVarDecl; parameters are VarDecls too.
type VarDeclData struct {
	Name    string
	Symbol  symbols.SymbolID
	Type    types.TypeID
	Init    *Expr // nil if none
	Storage string
	Param   bool
}

func (VarDeclData) stmtData() {}

// FuncDeclData holds data for StmtFuncDecl.
type FuncDeclData struct {
	Name     string
	Symbol   symbols.SymbolID
	Type     types.TypeID // function type
	Result   types.TypeID
	Params   []*Stmt // VarDecl statements
	Body     *Stmt   // nil for prototypes
	Variadic bool
	Method   bool
}

func (FuncDeclData) stmtData() {}

// RecordDeclData holds data for StmtRecordDecl.
type RecordDeclData struct {
	Name     string
	Symbol   symbols.SymbolID
	Type     types.TypeID
	Tag      types.Tag
	Members  []*Stmt // fields, methods, nested records
	Complete bool
}

func (RecordDeclData) stmtData() {}

// FieldDeclData holds data for StmtFieldDecl.
type FieldDeclData struct {
	Name     string
	Symbol   symbols.SymbolID
	Type     types.TypeID
	BitWidth *Expr // nil unless a bit-field
}

func (FieldDeclData) stmtData() {}

// EnumDeclData holds data for StmtEnumDecl.
type EnumDeclData struct {
	Name        string
	Symbol      symbols.SymbolID
	Type        types.TypeID
	Underlying  types.TypeID
	Enumerators []*Stmt
}

func (EnumDeclData) stmtData() {}

// EnumeratorData holds data for StmtEnumerator.
type EnumeratorData struct {
	Name   string
	Symbol symbols.SymbolID
	Type   types.TypeID
	Value  *Expr // nil when implicit
}

func (EnumeratorData) stmtData() {}

// TypedefData holds data for StmtTypedef.
type TypedefData struct {
	Name   string
	Symbol symbols.SymbolID
	Type   types.TypeID // the named alias type
	Target types.TypeID
}

func (TypedefData) stmtData() {}

// NamespaceData holds data for StmtNamespace.
type NamespaceData struct {
	Name   string
	Symbol symbols.SymbolID
	Decls  []*Stmt
}

func (NamespaceData) stmtData() {}

// TemplateParamKind classifies a synthesized template parameter.
type TemplateParamKind uint8

const (
	TemplateTypeParam TemplateParamKind = iota
	TemplateNonTypeParam
	TemplateTemplateParam
)

func (k TemplateParamKind) String() string {
	switch k {
	case TemplateTypeParam:
		return "type"
	case TemplateNonTypeParam:
		return "value"
	case TemplateTemplateParam:
		return "template"
	}
	return "unknown"
}

// TemplateParam is one inferred template parameter.
type TemplateParam struct {
	Kind TemplateParamKind
	Name string
	Type types.TypeID // non-type parameters only
}

// TemplateDeclData holds data for StmtTemplateDecl.
type TemplateDeclData struct {
	Name   string // qualified template name
	Symbol symbols.SymbolID
	Params []TemplateParam
}

func (TemplateDeclData) stmtData() {}

// TemplateArg is one rendered instantiation argument.
type TemplateArg struct {
	Kind  TemplateParamKind
	Type  types.TypeID
	Value string // integral value or template name
	Text  string // rendering used in the mangled name
}

// InstantiationData holds data for StmtInstantiation.
type InstantiationData struct {
	Name      string // mangled name
	Template  *Stmt  // TemplateDecl, not owned
	Namespace *Stmt  // enclosing Namespace, not owned; nil at global scope
	Args      []TemplateArg
	Symbol    symbols.SymbolID
	Type      types.TypeID
}

func (InstantiationData) stmtData() {}

// ForData holds data for StmtFor. Absent parts are Null stand-ins.
type ForData struct {
	Init *Stmt
	Cond *Expr
	Post *Expr
	Body *Stmt
}

func (ForData) stmtData() {}

// IfData holds data for StmtIf.
type IfData struct {
	Init *Stmt // nil if none
	Cond *Expr
	Then *Stmt
	Else *Stmt // nil if no else branch
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body *Stmt
}

func (WhileData) stmtData() {}

// DoData holds data for StmtDo.
type DoData struct {
	Body *Stmt
	Cond *Expr
}

func (DoData) stmtData() {}

// SwitchData holds data for StmtSwitch.
type SwitchData struct {
	Init *Stmt
	Cond *Expr
	Body *Stmt
}

func (SwitchData) stmtData() {}

// CaseData holds data for StmtCase.
type CaseData struct {
	Value *Expr
	Body  *Stmt
}

func (CaseData) stmtData() {}

// DefaultData holds data for StmtDefault.
type DefaultData struct {
	Body *Stmt
}

func (DefaultData) stmtData() {}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare return
}

func (ReturnData) stmtData() {}

// LabelData holds data for StmtLabel.
type LabelData struct {
	Name   string
	Symbol symbols.SymbolID
	Body   *Stmt
}

func (LabelData) stmtData() {}

// GotoData holds data for StmtGoto.
type GotoData struct {
	Label  string
	Symbol symbols.SymbolID
}

func (GotoData) stmtData() {}

// DeclName returns the declared name and symbol of a declaration statement.
func DeclName(s *Stmt) (string, symbols.SymbolID, bool) {
	if s == nil {
		return "", symbols.NoSymbolID, false
	}
	switch d := s.Data.(type) {
	case VarDeclData:
		return d.Name, d.Symbol, true
	case FuncDeclData:
		return d.Name, d.Symbol, true
	case RecordDeclData:
		return d.Name, d.Symbol, true
	case FieldDeclData:
		return d.Name, d.Symbol, true
	case EnumDeclData:
		return d.Name, d.Symbol, true
	case EnumeratorData:
		return d.Name, d.Symbol, true
	case TypedefData:
		return d.Name, d.Symbol, true
	case NamespaceData:
		return d.Name, d.Symbol, true
	case TemplateDeclData:
		return d.Name, d.Symbol, true
	case InstantiationData:
		return d.Name, d.Symbol, true
	case LabelData:
		return d.Name, d.Symbol, true
	}
	return "", symbols.NoSymbolID, false
}
