package foreign

import "fmt"

// StmtKind is the closed set of foreign statement and expression classes.
// Names follow the producing front end so dumps can spell them verbatim.
//
// Children live in Stmt.Inner at fixed positions; a nil entry is an absent
// optional child:
//
//	ForStmt            [init, cond, inc, body]
//	IfStmt             [init, cond, then, else]
//	WhileStmt          [cond, body]
//	DoStmt             [body, cond]
//	SwitchStmt         [init, cond, body]
//	CaseStmt           [lhs, rhs, sub]      rhs set only for GNU case ranges
//	DefaultStmt        [sub]
//	LabelStmt          [sub]                Decl is the LabelDecl
//	ReturnStmt         [value]
//	OMP*Directive      [associated]         Directive holds the pragma text
//	BinaryOperator     [lhs, rhs]           Opcode "+", "<", "=", ","...
//	UnaryOperator      [sub]                Opcode "++", "&", "!"... Postfix
//	CallExpr           [callee, args...]
//	MemberExpr         [base]               Decl is the member, Arrow
//	ConditionalOperator [cond, then, else]
//	CXXNewExpr         [arraySize, init, placement...]
//	*CastExpr          [sub]                WrittenType for explicit casts
//	DesignatedInitExpr [init]               Designators hold the chain
//	OffsetOfExpr       []                   WrittenType, Designators hold the path
type StmtKind uint16

const (
	InvalidStmt StmtKind = iota

	// statements
	CompoundStmt
	DeclStmt
	NullStmt
	ForStmt
	IfStmt
	WhileStmt
	DoStmt
	SwitchStmt
	CaseStmt
	DefaultStmt
	ReturnStmt
	BreakStmt
	ContinueStmt
	LabelStmt
	GotoStmt
	IndirectGotoStmt
	GCCAsmStmt
	MSAsmStmt
	AttributedStmt
	CXXTryStmt
	CXXCatchStmt
	CXXForRangeStmt
	CoroutineBodyStmt
	CoreturnStmt
	SEHTryStmt
	SEHExceptStmt
	SEHFinallyStmt
	SEHLeaveStmt
	MSDependentExistsStmt
	CapturedStmt

	// OpenMP executable directives
	OMPParallelDirective
	OMPForDirective
	OMPParallelForDirective
	OMPSimdDirective
	OMPForSimdDirective
	OMPParallelForSimdDirective
	OMPSectionsDirective
	OMPSectionDirective
	OMPSingleDirective
	OMPMasterDirective
	OMPCriticalDirective
	OMPBarrierDirective
	OMPTaskDirective
	OMPTaskwaitDirective
	OMPTaskyieldDirective
	OMPAtomicDirective
	OMPFlushDirective
	OMPOrderedDirective
	OMPTargetDirective
	OMPTeamsDirective
	OMPDistributeDirective
	OMPParallelSectionsDirective
	OMPTaskLoopDirective
	OMPTaskLoopSimdDirective
	OMPTaskgroupDirective
	OMPCancelDirective
	OMPCancellationPointDirective
	OMPDistributeParallelForDirective
	OMPDistributeParallelForSimdDirective
	OMPDistributeSimdDirective
	OMPTargetDataDirective
	OMPTargetEnterDataDirective
	OMPTargetExitDataDirective
	OMPTargetUpdateDirective
	OMPTargetParallelDirective
	OMPTargetParallelForDirective
	OMPTargetParallelForSimdDirective
	OMPTargetSimdDirective
	OMPTargetTeamsDirective
	OMPTargetTeamsDistributeDirective
	OMPTargetTeamsDistributeSimdDirective
	OMPTeamsDistributeDirective
	OMPTeamsDistributeSimdDirective

	// expressions
	BinaryOperator
	CompoundAssignOperator
	UnaryOperator
	CallExpr
	CXXMemberCallExpr
	CXXOperatorCallExpr
	MemberExpr
	ArraySubscriptExpr
	ConditionalOperator
	BinaryConditionalOperator
	DeclRefExpr
	ImplicitCastExpr
	CStyleCastExpr
	CXXFunctionalCastExpr
	CXXStaticCastExpr
	CXXDynamicCastExpr
	CXXReinterpretCastExpr
	CXXConstCastExpr
	ParenExpr
	InitListExpr
	UnaryExprOrTypeTraitExpr
	IntegerLiteral
	FloatingLiteral
	CharacterLiteral
	CXXBoolLiteralExpr
	CXXNullPtrLiteralExpr
	GNUNullExpr
	StringLiteral
	ImaginaryLiteral
	PredefinedExpr
	CompoundLiteralExpr
	StmtExpr
	VAArgExpr
	ConstantExpr
	ExprWithCleanups
	MaterializeTemporaryExpr
	CXXBindTemporaryExpr
	CXXDefaultArgExpr
	SubstNonTypeTemplateParmExpr
	CXXConstructExpr
	CXXTemporaryObjectExpr
	CXXNewExpr
	CXXDeleteExpr
	CXXThisExpr
	CXXThrowExpr
	CXXTypeidExpr
	TypeTraitExpr
	UnresolvedLookupExpr
	DependentScopeDeclRefExpr
	CXXDependentScopeMemberExpr
	PackExpansionExpr
	RecoveryExpr
	LambdaExpr
	ChooseExpr
	AddrLabelExpr
	OpaqueValueExpr
	ImplicitValueInitExpr
	CXXScalarValueInitExpr
	ParenListExpr
	CoawaitExpr
	CoyieldExpr
	CXXFoldExpr
	RequiresExpr
	DesignatedInitExpr
	OffsetOfExpr
	ExtVectorElementExpr
	CXXUnresolvedConstructExpr
	SizeOfPackExpr
	CXXNoexceptExpr

	stmtKindCount
)

var stmtKindNames = [...]string{
	InvalidStmt:                           "<invalid>",
	CompoundStmt:                          "CompoundStmt",
	DeclStmt:                              "DeclStmt",
	NullStmt:                              "NullStmt",
	ForStmt:                               "ForStmt",
	IfStmt:                                "IfStmt",
	WhileStmt:                             "WhileStmt",
	DoStmt:                                "DoStmt",
	SwitchStmt:                            "SwitchStmt",
	CaseStmt:                              "CaseStmt",
	DefaultStmt:                           "DefaultStmt",
	ReturnStmt:                            "ReturnStmt",
	BreakStmt:                             "BreakStmt",
	ContinueStmt:                          "ContinueStmt",
	LabelStmt:                             "LabelStmt",
	GotoStmt:                              "GotoStmt",
	IndirectGotoStmt:                      "IndirectGotoStmt",
	GCCAsmStmt:                            "GCCAsmStmt",
	MSAsmStmt:                             "MSAsmStmt",
	AttributedStmt:                        "AttributedStmt",
	CXXTryStmt:                            "CXXTryStmt",
	CXXCatchStmt:                          "CXXCatchStmt",
	CXXForRangeStmt:                       "CXXForRangeStmt",
	CoroutineBodyStmt:                     "CoroutineBodyStmt",
	CoreturnStmt:                          "CoreturnStmt",
	SEHTryStmt:                            "SEHTryStmt",
	SEHExceptStmt:                         "SEHExceptStmt",
	SEHFinallyStmt:                        "SEHFinallyStmt",
	SEHLeaveStmt:                          "SEHLeaveStmt",
	MSDependentExistsStmt:                 "MSDependentExistsStmt",
	CapturedStmt:                          "CapturedStmt",
	OMPParallelDirective:                  "OMPParallelDirective",
	OMPForDirective:                       "OMPForDirective",
	OMPParallelForDirective:               "OMPParallelForDirective",
	OMPSimdDirective:                      "OMPSimdDirective",
	OMPForSimdDirective:                   "OMPForSimdDirective",
	OMPParallelForSimdDirective:           "OMPParallelForSimdDirective",
	OMPSectionsDirective:                  "OMPSectionsDirective",
	OMPSectionDirective:                   "OMPSectionDirective",
	OMPSingleDirective:                    "OMPSingleDirective",
	OMPMasterDirective:                    "OMPMasterDirective",
	OMPCriticalDirective:                  "OMPCriticalDirective",
	OMPBarrierDirective:                   "OMPBarrierDirective",
	OMPTaskDirective:                      "OMPTaskDirective",
	OMPTaskwaitDirective:                  "OMPTaskwaitDirective",
	OMPTaskyieldDirective:                 "OMPTaskyieldDirective",
	OMPAtomicDirective:                    "OMPAtomicDirective",
	OMPFlushDirective:                     "OMPFlushDirective",
	OMPOrderedDirective:                   "OMPOrderedDirective",
	OMPTargetDirective:                    "OMPTargetDirective",
	OMPTeamsDirective:                     "OMPTeamsDirective",
	OMPDistributeDirective:                "OMPDistributeDirective",
	OMPParallelSectionsDirective:          "OMPParallelSectionsDirective",
	OMPTaskLoopDirective:                  "OMPTaskLoopDirective",
	OMPTaskLoopSimdDirective:              "OMPTaskLoopSimdDirective",
	OMPTaskgroupDirective:                 "OMPTaskgroupDirective",
	OMPCancelDirective:                    "OMPCancelDirective",
	OMPCancellationPointDirective:         "OMPCancellationPointDirective",
	OMPDistributeParallelForDirective:     "OMPDistributeParallelForDirective",
	OMPDistributeParallelForSimdDirective: "OMPDistributeParallelForSimdDirective",
	OMPDistributeSimdDirective:            "OMPDistributeSimdDirective",
	OMPTargetDataDirective:                "OMPTargetDataDirective",
	OMPTargetEnterDataDirective:           "OMPTargetEnterDataDirective",
	OMPTargetExitDataDirective:            "OMPTargetExitDataDirective",
	OMPTargetUpdateDirective:              "OMPTargetUpdateDirective",
	OMPTargetParallelDirective:            "OMPTargetParallelDirective",
	OMPTargetParallelForDirective:         "OMPTargetParallelForDirective",
	OMPTargetParallelForSimdDirective:     "OMPTargetParallelForSimdDirective",
	OMPTargetSimdDirective:                "OMPTargetSimdDirective",
	OMPTargetTeamsDirective:               "OMPTargetTeamsDirective",
	OMPTargetTeamsDistributeDirective:     "OMPTargetTeamsDistributeDirective",
	OMPTargetTeamsDistributeSimdDirective: "OMPTargetTeamsDistributeSimdDirective",
	OMPTeamsDistributeDirective:           "OMPTeamsDistributeDirective",
	OMPTeamsDistributeSimdDirective:       "OMPTeamsDistributeSimdDirective",
	BinaryOperator:                        "BinaryOperator",
	CompoundAssignOperator:                "CompoundAssignOperator",
	UnaryOperator:                         "UnaryOperator",
	CallExpr:                              "CallExpr",
	CXXMemberCallExpr:                     "CXXMemberCallExpr",
	CXXOperatorCallExpr:                   "CXXOperatorCallExpr",
	MemberExpr:                            "MemberExpr",
	ArraySubscriptExpr:                    "ArraySubscriptExpr",
	ConditionalOperator:                   "ConditionalOperator",
	BinaryConditionalOperator:             "BinaryConditionalOperator",
	DeclRefExpr:                           "DeclRefExpr",
	ImplicitCastExpr:                      "ImplicitCastExpr",
	CStyleCastExpr:                        "CStyleCastExpr",
	CXXFunctionalCastExpr:                 "CXXFunctionalCastExpr",
	CXXStaticCastExpr:                     "CXXStaticCastExpr",
	CXXDynamicCastExpr:                    "CXXDynamicCastExpr",
	CXXReinterpretCastExpr:                "CXXReinterpretCastExpr",
	CXXConstCastExpr:                      "CXXConstCastExpr",
	ParenExpr:                             "ParenExpr",
	InitListExpr:                          "InitListExpr",
	UnaryExprOrTypeTraitExpr:              "UnaryExprOrTypeTraitExpr",
	IntegerLiteral:                        "IntegerLiteral",
	FloatingLiteral:                       "FloatingLiteral",
	CharacterLiteral:                      "CharacterLiteral",
	CXXBoolLiteralExpr:                    "CXXBoolLiteralExpr",
	CXXNullPtrLiteralExpr:                 "CXXNullPtrLiteralExpr",
	GNUNullExpr:                           "GNUNullExpr",
	StringLiteral:                         "StringLiteral",
	ImaginaryLiteral:                      "ImaginaryLiteral",
	PredefinedExpr:                        "PredefinedExpr",
	CompoundLiteralExpr:                   "CompoundLiteralExpr",
	StmtExpr:                              "StmtExpr",
	VAArgExpr:                             "VAArgExpr",
	ConstantExpr:                          "ConstantExpr",
	ExprWithCleanups:                      "ExprWithCleanups",
	MaterializeTemporaryExpr:              "MaterializeTemporaryExpr",
	CXXBindTemporaryExpr:                  "CXXBindTemporaryExpr",
	CXXDefaultArgExpr:                     "CXXDefaultArgExpr",
	SubstNonTypeTemplateParmExpr:          "SubstNonTypeTemplateParmExpr",
	CXXConstructExpr:                      "CXXConstructExpr",
	CXXTemporaryObjectExpr:                "CXXTemporaryObjectExpr",
	CXXNewExpr:                            "CXXNewExpr",
	CXXDeleteExpr:                         "CXXDeleteExpr",
	CXXThisExpr:                           "CXXThisExpr",
	CXXThrowExpr:                          "CXXThrowExpr",
	CXXTypeidExpr:                         "CXXTypeidExpr",
	TypeTraitExpr:                         "TypeTraitExpr",
	UnresolvedLookupExpr:                  "UnresolvedLookupExpr",
	DependentScopeDeclRefExpr:             "DependentScopeDeclRefExpr",
	CXXDependentScopeMemberExpr:           "CXXDependentScopeMemberExpr",
	PackExpansionExpr:                     "PackExpansionExpr",
	RecoveryExpr:                          "RecoveryExpr",
	LambdaExpr:                            "LambdaExpr",
	ChooseExpr:                            "ChooseExpr",
	AddrLabelExpr:                         "AddrLabelExpr",
	OpaqueValueExpr:                       "OpaqueValueExpr",
	ImplicitValueInitExpr:                 "ImplicitValueInitExpr",
	CXXScalarValueInitExpr:                "CXXScalarValueInitExpr",
	ParenListExpr:                         "ParenListExpr",
	CoawaitExpr:                           "CoawaitExpr",
	CoyieldExpr:                           "CoyieldExpr",
	CXXFoldExpr:                           "CXXFoldExpr",
	RequiresExpr:                          "RequiresExpr",
	DesignatedInitExpr:                    "DesignatedInitExpr",
	OffsetOfExpr:                          "OffsetOfExpr",
	ExtVectorElementExpr:                  "ExtVectorElementExpr",
	CXXUnresolvedConstructExpr:            "CXXUnresolvedConstructExpr",
	SizeOfPackExpr:                        "SizeOfPackExpr",
	CXXNoexceptExpr:                       "CXXNoexceptExpr",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) && stmtKindNames[k] != "" {
		return stmtKindNames[k]
	}
	return fmt.Sprintf("StmtKind(%d)", k)
}

// IsExpr reports whether k is an expression class.
func (k StmtKind) IsExpr() bool {
	return k >= BinaryOperator && k < stmtKindCount
}

// IsOMPDirective reports whether k is an OpenMP executable directive.
func (k StmtKind) IsOMPDirective() bool {
	return k >= OMPParallelDirective && k <= OMPTeamsDistributeSimdDirective
}

// TypeKind is the closed set of foreign type classes.
type TypeKind uint8

const (
	InvalidType TypeKind = iota
	BuiltinType
	PointerType
	LValueReferenceType
	RValueReferenceType
	ConstantArrayType
	IncompleteArrayType
	VariableArrayType
	DependentSizedArrayType
	FunctionProtoType
	FunctionNoProtoType
	ParenType
	ElaboratedType
	UsingType
	TypedefType
	RecordType
	EnumType
	SubstTemplateTypeParmType
	AttributedType
	MacroQualifiedType
	AdjustedType
	DecayedType
	InjectedClassNameType
	TemplateSpecializationType
	MemberPointerType
	DecltypeType
	AutoType
	TemplateTypeParmType
	DependentNameType
	PackExpansionType
	ExtVectorType
	VectorType
	DependentTemplateSpecializationType
	AtomicType
	PipeType
	BlockPointerType
	ObjCObjectType
	ObjCObjectPointerType
	ObjCInterfaceType
	ComplexType
	TypeOfExprType
	TypeOfType
	UnaryTransformType
	// UnknownType is any class the front end emits that this table does
	// not name; Type.Class keeps the spelling.
	UnknownType

	typeKindCount
)

var typeKindNames = [...]string{
	InvalidType:                         "<invalid>",
	BuiltinType:                         "BuiltinType",
	PointerType:                         "PointerType",
	LValueReferenceType:                 "LValueReferenceType",
	RValueReferenceType:                 "RValueReferenceType",
	ConstantArrayType:                   "ConstantArrayType",
	IncompleteArrayType:                 "IncompleteArrayType",
	VariableArrayType:                   "VariableArrayType",
	DependentSizedArrayType:             "DependentSizedArrayType",
	FunctionProtoType:                   "FunctionProtoType",
	FunctionNoProtoType:                 "FunctionNoProtoType",
	ParenType:                           "ParenType",
	ElaboratedType:                      "ElaboratedType",
	UsingType:                           "UsingType",
	TypedefType:                         "TypedefType",
	RecordType:                          "RecordType",
	EnumType:                            "EnumType",
	SubstTemplateTypeParmType:           "SubstTemplateTypeParmType",
	AttributedType:                      "AttributedType",
	MacroQualifiedType:                  "MacroQualifiedType",
	AdjustedType:                        "AdjustedType",
	DecayedType:                         "DecayedType",
	InjectedClassNameType:               "InjectedClassNameType",
	TemplateSpecializationType:          "TemplateSpecializationType",
	MemberPointerType:                   "MemberPointerType",
	DecltypeType:                        "DecltypeType",
	AutoType:                            "AutoType",
	TemplateTypeParmType:                "TemplateTypeParmType",
	DependentNameType:                   "DependentNameType",
	PackExpansionType:                   "PackExpansionType",
	ExtVectorType:                       "ExtVectorType",
	VectorType:                          "VectorType",
	DependentTemplateSpecializationType: "DependentTemplateSpecializationType",
	AtomicType:                          "AtomicType",
	PipeType:                            "PipeType",
	BlockPointerType:                    "BlockPointerType",
	ObjCObjectType:                      "ObjCObjectType",
	ObjCObjectPointerType:               "ObjCObjectPointerType",
	ObjCInterfaceType:                   "ObjCInterfaceType",
	ComplexType:                         "ComplexType",
	TypeOfExprType:                      "TypeOfExprType",
	TypeOfType:                          "TypeOfType",
	UnaryTransformType:                  "UnaryTransformType",
	UnknownType:                         "UnknownType",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) && typeKindNames[k] != "" {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// DeclKind is the closed set of foreign declaration classes.
type DeclKind uint8

const (
	InvalidDecl DeclKind = iota
	VarDecl
	ParmVarDecl
	FunctionDecl
	CXXMethodDecl
	CXXConstructorDecl
	CXXDestructorDecl
	CXXConversionDecl
	RecordDecl
	CXXRecordDecl
	FieldDecl
	EnumDecl
	EnumConstantDecl
	TypedefDecl
	TypeAliasDecl
	NamespaceDecl
	LabelDecl
	ClassTemplateSpecializationDecl
	ClassTemplateDecl
	FunctionTemplateDecl
	NonTypeTemplateParmDecl
	TemplateTypeParmDecl
	UsingDecl
	UsingDirectiveDecl
	UsingShadowDecl
	StaticAssertDecl
	AccessSpecDecl
	FriendDecl
	LinkageSpecDecl
	EmptyDecl
	IndirectFieldDecl

	declKindCount
)

var declKindNames = [...]string{
	InvalidDecl:                     "<invalid>",
	VarDecl:                         "VarDecl",
	ParmVarDecl:                     "ParmVarDecl",
	FunctionDecl:                    "FunctionDecl",
	CXXMethodDecl:                   "CXXMethodDecl",
	CXXConstructorDecl:              "CXXConstructorDecl",
	CXXDestructorDecl:               "CXXDestructorDecl",
	CXXConversionDecl:               "CXXConversionDecl",
	RecordDecl:                      "RecordDecl",
	CXXRecordDecl:                   "CXXRecordDecl",
	FieldDecl:                       "FieldDecl",
	EnumDecl:                        "EnumDecl",
	EnumConstantDecl:                "EnumConstantDecl",
	TypedefDecl:                     "TypedefDecl",
	TypeAliasDecl:                   "TypeAliasDecl",
	NamespaceDecl:                   "NamespaceDecl",
	LabelDecl:                       "LabelDecl",
	ClassTemplateSpecializationDecl: "ClassTemplateSpecializationDecl",
	ClassTemplateDecl:               "ClassTemplateDecl",
	FunctionTemplateDecl:            "FunctionTemplateDecl",
	NonTypeTemplateParmDecl:         "NonTypeTemplateParmDecl",
	TemplateTypeParmDecl:            "TemplateTypeParmDecl",
	UsingDecl:                       "UsingDecl",
	UsingDirectiveDecl:              "UsingDirectiveDecl",
	UsingShadowDecl:                 "UsingShadowDecl",
	StaticAssertDecl:                "StaticAssertDecl",
	AccessSpecDecl:                  "AccessSpecDecl",
	FriendDecl:                      "FriendDecl",
	LinkageSpecDecl:                 "LinkageSpecDecl",
	EmptyDecl:                       "EmptyDecl",
	IndirectFieldDecl:               "IndirectFieldDecl",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) && declKindNames[k] != "" {
		return declKindNames[k]
	}
	return fmt.Sprintf("DeclKind(%d)", k)
}

// IsFunction reports whether k declares a function or method.
func (k DeclKind) IsFunction() bool {
	switch k {
	case FunctionDecl, CXXMethodDecl, CXXConstructorDecl, CXXDestructorDecl, CXXConversionDecl:
		return true
	}
	return false
}

// IsValue reports whether k declares a named value with a type.
func (k DeclKind) IsValue() bool {
	switch k {
	case VarDecl, ParmVarDecl, FieldDecl, EnumConstantDecl, NonTypeTemplateParmDecl, IndirectFieldDecl:
		return true
	}
	return k.IsFunction()
}

// TemplateArgKind classifies a template argument.
type TemplateArgKind uint8

const (
	ArgNull TemplateArgKind = iota
	ArgType
	ArgIntegral
	ArgTemplate
	ArgTemplateExpansion
	ArgExpression
	ArgNullPtr
	ArgDeclaration
	ArgPack
)

var templateArgKindNames = [...]string{
	ArgNull:              "Null",
	ArgType:              "Type",
	ArgIntegral:          "Integral",
	ArgTemplate:          "Template",
	ArgTemplateExpansion: "TemplateExpansion",
	ArgExpression:        "Expression",
	ArgNullPtr:           "NullPtr",
	ArgDeclaration:       "Declaration",
	ArgPack:              "Pack",
}

func (k TemplateArgKind) String() string {
	if int(k) < len(templateArgKindNames) {
		return templateArgKindNames[k]
	}
	return fmt.Sprintf("TemplateArgKind(%d)", k)
}

var (
	stmtKindByName        = indexNames(stmtKindNames[:])
	typeKindByName        = indexNames(typeKindNames[:])
	declKindByName        = indexNames(declKindNames[:])
	templateArgKindByName = indexNames(templateArgKindNames[:])
)

func indexNames(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		if i == 0 || n == "" {
			continue
		}
		m[n] = i
	}
	return m
}

// ParseStmtKind maps a class name onto StmtKind.
func ParseStmtKind(name string) (StmtKind, bool) {
	i, ok := stmtKindByName[name]
	return StmtKind(i), ok //nolint:gosec // bounded by the name table
}

// ParseTypeKind maps a class name onto TypeKind.
func ParseTypeKind(name string) (TypeKind, bool) {
	i, ok := typeKindByName[name]
	return TypeKind(i), ok //nolint:gosec // bounded by the name table
}

// ParseDeclKind maps a class name onto DeclKind.
func ParseDeclKind(name string) (DeclKind, bool) {
	i, ok := declKindByName[name]
	return DeclKind(i), ok //nolint:gosec // bounded by the name table
}

// ParseTemplateArgKind maps a kind name onto TemplateArgKind. "Null" is accepted.
func ParseTemplateArgKind(name string) (TemplateArgKind, bool) {
	if name == "Null" || name == "" {
		return ArgNull, true
	}
	i, ok := templateArgKindByName[name]
	return TemplateArgKind(i), ok //nolint:gosec // bounded by the name table
}
