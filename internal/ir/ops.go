package ir

// BinaryOp enumerates binary operators, assignments and the comma operator.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpShl
	OpShr
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpBitAnd
	OpBitXor
	OpBitOr
	OpLogAnd
	OpLogOr
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpRemAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign
	OpXorAssign
	OpOrAssign
	OpComma
)

var binaryOpSpelling = [...]string{
	OpInvalid:   "<invalid>",
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpRem:       "%",
	OpShl:       "<<",
	OpShr:       ">>",
	OpLt:        "<",
	OpGt:        ">",
	OpLe:        "<=",
	OpGe:        ">=",
	OpEq:        "==",
	OpNe:        "!=",
	OpBitAnd:    "&",
	OpBitXor:    "^",
	OpBitOr:     "|",
	OpLogAnd:    "&&",
	OpLogOr:     "||",
	OpAssign:    "=",
	OpAddAssign: "+=",
	OpSubAssign: "-=",
	OpMulAssign: "*=",
	OpDivAssign: "/=",
	OpRemAssign: "%=",
	OpShlAssign: "<<=",
	OpShrAssign: ">>=",
	OpAndAssign: "&=",
	OpXorAssign: "^=",
	OpOrAssign:  "|=",
	OpComma:     ",",
}

var binaryOpBySpelling = func() map[string]BinaryOp {
	m := make(map[string]BinaryOp, len(binaryOpSpelling))
	for op, s := range binaryOpSpelling {
		if op == int(OpInvalid) {
			continue
		}
		m[s] = BinaryOp(op) //nolint:gosec // bounded by the table
	}
	return m
}()

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpSpelling) {
		return binaryOpSpelling[op]
	}
	return "<invalid>"
}

// IsAssign reports whether op stores into its left operand.
func (op BinaryOp) IsAssign() bool {
	return op >= OpAssign && op <= OpOrAssign
}

// IsComparison reports whether op yields a truth value from two operands.
func (op BinaryOp) IsComparison() bool {
	return op >= OpLt && op <= OpNe
}

// ParseBinaryOp maps an operator spelling onto BinaryOp. Pointer-to-member
// operators and the three-way comparison are not modeled.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	op, ok := binaryOpBySpelling[s]
	return op, ok
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryInvalid UnaryOp = iota
	UnaryPostInc
	UnaryPostDec
	UnaryPreInc
	UnaryPreDec
	UnaryAddrOf
	UnaryDeref
	UnaryPlus
	UnaryMinus
	UnaryBitNot
	UnaryLogNot
	UnaryReal
	UnaryImag
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPostInc:
		return "x++"
	case UnaryPostDec:
		return "x--"
	case UnaryPreInc:
		return "++x"
	case UnaryPreDec:
		return "--x"
	case UnaryAddrOf:
		return "&"
	case UnaryDeref:
		return "*"
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryBitNot:
		return "~"
	case UnaryLogNot:
		return "!"
	case UnaryReal:
		return "__real"
	case UnaryImag:
		return "__imag"
	}
	return "<invalid>"
}

// ParseUnaryOp maps an operator spelling onto UnaryOp; postfix selects
// between the two increment and decrement forms. "__extension__" and
// "co_await" are handled by the caller.
func ParseUnaryOp(s string, postfix bool) (UnaryOp, bool) {
	switch s {
	case "++":
		if postfix {
			return UnaryPostInc, true
		}
		return UnaryPreInc, true
	case "--":
		if postfix {
			return UnaryPostDec, true
		}
		return UnaryPreDec, true
	case "&":
		return UnaryAddrOf, true
	case "*":
		return UnaryDeref, true
	case "+":
		return UnaryPlus, true
	case "-":
		return UnaryMinus, true
	case "~":
		return UnaryBitNot, true
	case "!":
		return UnaryLogNot, true
	case "__real":
		return UnaryReal, true
	case "__imag":
		return UnaryImag, true
	}
	return UnaryInvalid, false
}

// CastStyle records how an explicit cast was spelled.
type CastStyle uint8

const (
	CastC CastStyle = iota
	CastFunctional
	CastStatic
	CastDynamic
	CastReinterpret
	CastConst
)

func (c CastStyle) String() string {
	switch c {
	case CastC:
		return "c"
	case CastFunctional:
		return "functional"
	case CastStatic:
		return "static_cast"
	case CastDynamic:
		return "dynamic_cast"
	case CastReinterpret:
		return "reinterpret_cast"
	case CastConst:
		return "const_cast"
	}
	return "unknown"
}
