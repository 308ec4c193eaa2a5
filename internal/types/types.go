package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar
	KindSChar
	KindUChar
	KindWChar
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindLongLong
	KindULongLong
	KindFloat
	KindDouble
	KindLongDouble
	KindNullPtr
	KindEllipsis
	KindPointer
	KindLValueRef
	KindRValueRef
	KindArray
	KindFunction
	// KindModifier wraps Elem with qualifiers, an address space or a vector width.
	KindModifier
	// KindNamed is a nominal type: record, enum, typedef, template instantiation.
	KindNamed
	// KindOpaque stands in for anything that cannot be modeled; identified by name.
	KindOpaque
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindVoid:       "void",
	KindBool:       "bool",
	KindChar:       "char",
	KindSChar:      "signed char",
	KindUChar:      "unsigned char",
	KindWChar:      "wchar_t",
	KindShort:      "short",
	KindUShort:     "unsigned short",
	KindInt:        "int",
	KindUInt:       "unsigned int",
	KindLong:       "long",
	KindULong:      "unsigned long",
	KindLongLong:   "long long",
	KindULongLong:  "unsigned long long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindLongDouble: "long double",
	KindNullPtr:    "nullptr_t",
	KindEllipsis:   "...",
	KindPointer:    "pointer",
	KindLValueRef:  "lvalue-ref",
	KindRValueRef:  "rvalue-ref",
	KindArray:      "array",
	KindFunction:   "function",
	KindModifier:   "modifier",
	KindNamed:      "named",
	KindOpaque:     "opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsBuiltin reports whether k is a scalar builtin (void..nullptr_t).
func (k Kind) IsBuiltin() bool {
	return k >= KindVoid && k <= KindNullPtr
}

// IsInteger reports whether k is an integral builtin (bool excluded).
func (k Kind) IsInteger() bool {
	return k >= KindChar && k <= KindULongLong
}

// Qual is the qualifier set carried by a modifier type.
type Qual uint8

const (
	QualConst Qual = 1 << iota
	QualVolatile
	QualRestrict
	// QualVector marks a vector of Count elements.
	QualVector
	// QualAddrSpace marks a non-default address space stored in Space.
	QualAddrSpace
)

func (q Qual) String() string {
	if q == 0 {
		return ""
	}
	out := ""
	add := func(s string) {
		if out != "" {
			out += " "
		}
		out += s
	}
	if q&QualConst != 0 {
		add("const")
	}
	if q&QualVolatile != 0 {
		add("volatile")
	}
	if q&QualRestrict != 0 {
		add("restrict")
	}
	if q&QualVector != 0 {
		add("vector")
	}
	if q&QualAddrSpace != 0 {
		add("addrspace")
	}
	return out
}

// Address spaces with names; other values are target-specific numbers.
const (
	SpaceDefault  uint32 = 0
	SpaceGlobal   uint32 = 1
	SpaceLocal    uint32 = 2
	SpaceConstant uint32 = 3
)

// ArrayShape tells how the extent of an array type is known.
type ArrayShape uint8

const (
	ArrayConstant   ArrayShape = iota // Count holds the extent
	ArrayIncomplete                   // T[]
	ArrayDependent                    // extent depends on a template parameter
	ArrayVariable                     // VLA; never deduplicated
	ArrayStar                         // T[*]; never deduplicated
)

func (s ArrayShape) String() string {
	switch s {
	case ArrayConstant:
		return "constant"
	case ArrayIncomplete:
		return "incomplete"
	case ArrayDependent:
		return "dependent"
	case ArrayVariable:
		return "variable"
	case ArrayStar:
		return "star"
	}
	return "unknown"
}

// Type is a compact descriptor for any supported type. Every field takes
// part in interning, so two descriptors that compare equal share one TypeID.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Qual    Qual
	Shape   ArrayShape
	Count   uint64 // array extent or vector width
	Space   uint32 // address space for QualAddrSpace
	Payload uint32 // slot in the fn/named/opaque side tables, serial for VLAs
}

// Descriptor helpers ---------------------------------------------------------

func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeReference describes T& (rvalue=false) or T&& (rvalue=true).
func MakeReference(elem TypeID, rvalue bool) Type {
	if rvalue {
		return Type{Kind: KindRValueRef, Elem: elem}
	}
	return Type{Kind: KindLValueRef, Elem: elem}
}

// MakeArray describes T[count].
func MakeArray(elem TypeID, count uint64) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count, Shape: ArrayConstant}
}

// MakeModifier describes base wrapped with qualifiers. Space is used only
// when QualAddrSpace is set, width only when QualVector is set.
func MakeModifier(base TypeID, q Qual, space uint32, width uint64) Type {
	t := Type{Kind: KindModifier, Elem: base, Qual: q}
	if q&QualAddrSpace != 0 {
		t.Space = space
	}
	if q&QualVector != 0 {
		t.Count = width
	}
	return t
}
