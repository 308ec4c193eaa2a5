package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Unimplemented foreign constructs; lowering of the unit aborts.
	LowInfo                  Code = 1000
	LowUnimplementedStmt     Code = 1001
	LowUnimplementedExpr     Code = 1002
	LowUnimplementedType     Code = 1003
	LowUnimplementedDecl     Code = 1004
	LowUnimplementedOperator Code = 1005

	// Recoverable reference problems; a placeholder node is produced.
	LowUnresolvedSymbol     Code = 2001
	LowDependentName        Code = 2002
	LowFloatSemantics       Code = 2003
	LowUnknownType          Code = 2004
	LowUnknownBuiltin       Code = 2005
	LowRecoveryExpr         Code = 2006
	LowLabelOutsideFunction Code = 2007
	LowTemplatePackDropped  Code = 2008
	LowNoMember             Code = 2009

	// Degraded lowering.
	LowCategoryMismatch Code = 3001

	// Unit dump loading.
	DumpInfo           Code = 4000
	DumpReadError      Code = 4001
	DumpDecodeError    Code = 4002
	DumpSchemaMismatch Code = 4003
	DumpDanglingRef    Code = 4004
	DumpUnknownKind    Code = 4005

	// Project manifest.
	ProjInfo          Code = 5000
	ProjManifestError Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Internal invariants.
	LowInvariant      Code = 9001
	LowDepthExceeded  Code = 9002
	LowScopeImbalance Code = 9003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		LowInfo:                  "Lowering information",
		LowUnimplementedStmt:     "Unimplemented statement kind",
		LowUnimplementedExpr:     "Unimplemented expression kind",
		LowUnimplementedType:     "Unimplemented type kind",
		LowUnimplementedDecl:     "Unimplemented declaration kind",
		LowUnimplementedOperator: "Unimplemented operator",
		LowUnresolvedSymbol:      "Unresolved symbol",
		LowDependentName:         "Dependent name left unresolved",
		LowFloatSemantics:        "Unsupported floating-point semantics",
		LowUnknownType:           "Unknown type",
		LowUnknownBuiltin:        "Unknown builtin type",
		LowRecoveryExpr:          "Recovery expression in input",
		LowLabelOutsideFunction:  "Label outside of a function",
		LowTemplatePackDropped:   "Template parameter pack dropped",
		LowNoMember:              "Member not found",
		LowCategoryMismatch:      "Node category mismatch",
		DumpInfo:                 "Dump information",
		DumpReadError:            "Cannot read unit dump",
		DumpDecodeError:          "Cannot decode unit dump",
		DumpSchemaMismatch:       "Unsupported dump schema version",
		DumpDanglingRef:          "Dangling node reference in dump",
		DumpUnknownKind:          "Unknown node kind in dump",
		ProjInfo:                 "Project information",
		ProjManifestError:        "Invalid project manifest",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
		LowInvariant:             "Lowering invariant violated",
		LowDepthExceeded:         "Maximum nesting depth exceeded",
		LowScopeImbalance:        "Scope stack imbalance",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DMP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("LOW%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Fatal reports whether diagnostics with this code abort lowering of the unit.
func (c Code) Fatal() bool {
	ic := int(c)
	return (ic > 1000 && ic < 2000) || ic >= 9000
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
