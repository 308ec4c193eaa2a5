package types

import (
	"strconv"
	"strings"
)

// String renders id in C-like spelling, e.g. "const int*", "double[1024]".
func (in *Interner) String(id TypeID) string {
	var sb strings.Builder
	in.write(&sb, id, 0)
	return sb.String()
}

const maxFormatDepth = 64

func (in *Interner) write(sb *strings.Builder, id TypeID, depth int) {
	if depth > maxFormatDepth {
		sb.WriteString("...")
		return
	}
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindPointer:
		in.write(sb, tt.Elem, depth+1)
		sb.WriteByte('*')
	case KindLValueRef:
		in.write(sb, tt.Elem, depth+1)
		sb.WriteByte('&')
	case KindRValueRef:
		in.write(sb, tt.Elem, depth+1)
		sb.WriteString("&&")
	case KindArray:
		in.write(sb, tt.Elem, depth+1)
		sb.WriteByte('[')
		switch tt.Shape {
		case ArrayConstant:
			sb.WriteString(strconv.FormatUint(tt.Count, 10))
		case ArrayVariable:
			sb.WriteString("vla")
		case ArrayStar:
			sb.WriteByte('*')
		}
		sb.WriteByte(']')
	case KindFunction:
		info, _ := in.FnInfo(id)
		if info == nil {
			sb.WriteString("fn")
			return
		}
		in.write(sb, info.Result, depth+1)
		sb.WriteByte('(')
		for i, p := range info.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.write(sb, p, depth+1)
		}
		sb.WriteByte(')')
	case KindModifier:
		if q := tt.Qual &^ (QualVector | QualAddrSpace); q != 0 {
			sb.WriteString(q.String())
			sb.WriteByte(' ')
		}
		if tt.Qual&QualAddrSpace != 0 {
			sb.WriteString("__attribute__((address_space(")
			sb.WriteString(strconv.FormatUint(uint64(tt.Space), 10))
			sb.WriteString("))) ")
		}
		in.write(sb, tt.Elem, depth+1)
		if tt.Qual&QualVector != 0 {
			sb.WriteString(" __vector(")
			sb.WriteString(strconv.FormatUint(tt.Count, 10))
			sb.WriteByte(')')
		}
	case KindNamed:
		if info, ok := in.NamedInfo(id); ok {
			sb.WriteString(info.Name)
			return
		}
		sb.WriteString("<named>")
	case KindOpaque:
		name, _ := in.OpaqueName(id)
		sb.WriteString(name)
	default:
		sb.WriteString(tt.Kind.String())
	}
}
