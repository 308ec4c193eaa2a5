package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"astbridge/internal/source"
	"astbridge/internal/types"
)

// SnapshotNode is the serializable form of one IR node.
type SnapshotNode struct {
	Kind     string         `json:"kind" yaml:"kind" msgpack:"kind"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type     string         `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Op       string         `json:"op,omitempty" yaml:"op,omitempty" msgpack:"op,omitempty"`
	Value    string         `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Symbol   uint32         `json:"symbol,omitempty" yaml:"symbol,omitempty" msgpack:"symbol,omitempty"`
	Loc      string         `json:"loc,omitempty" yaml:"loc,omitempty" msgpack:"loc,omitempty"`
	Pragmas  []string       `json:"pragmas,omitempty" yaml:"pragmas,omitempty" msgpack:"pragmas,omitempty"`
	Children []SnapshotNode `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// Snapshot is the serializable form of a module.
type Snapshot struct {
	Module   string         `json:"module" yaml:"module" msgpack:"module"`
	Decls    []SnapshotNode `json:"decls" yaml:"decls" msgpack:"decls"`
	Implicit []SnapshotNode `json:"implicit,omitempty" yaml:"implicit,omitempty" msgpack:"implicit,omitempty"`
}

// Format selects a snapshot encoding.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// Ext returns the file extension used for outputs in format f.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".ir.json"
	case FormatYAML:
		return ".ir.yaml"
	case FormatMsgpack:
		return ".ir.mpk"
	}
	return ".ir.txt"
}

// ParseFormat maps a --format flag value onto Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	}
	return FormatText, fmt.Errorf("unknown IR format %q", s)
}

// TakeSnapshot converts m into its serializable form.
func TakeSnapshot(m *Module, fs *source.FileSet) *Snapshot {
	sb := snapshotBuilder{types: m.Types, fs: fs}
	snap := &Snapshot{Module: m.Name, Decls: make([]SnapshotNode, 0, len(m.Decls))}
	for _, s := range m.Decls {
		snap.Decls = append(snap.Decls, sb.node(s))
	}
	for _, s := range m.Implicit {
		snap.Implicit = append(snap.Implicit, sb.node(s))
	}
	return snap
}

// Encode writes m in the given format. FormatText uses the printer.
func Encode(m *Module, format Format, fs *source.FileSet) ([]byte, error) {
	if format == FormatText {
		var buf bytes.Buffer
		if err := Dump(&buf, m, DumpOptions{Files: fs, Implicit: true, SymbolIDs: true}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	snap := TakeSnapshot(m, fs)
	switch format {
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		return yaml.Marshal(snap)
	case FormatMsgpack:
		return msgpack.Marshal(snap)
	}
	return nil, fmt.Errorf("unknown IR format %d", format)
}

type snapshotBuilder struct {
	types *types.Interner
	fs    *source.FileSet
}

func (sb snapshotBuilder) node(n Node) SnapshotNode {
	out := SnapshotNode{Kind: n.NodeKind()}
	if sb.fs != nil && n.NodeSpan().IsValid() {
		if pos := sb.fs.Position(n.NodeSpan()); pos.IsValid() {
			out.Loc = fmt.Sprintf("%s:%d:%d", pos.Path, pos.Line, pos.Col)
		}
	}
	switch v := n.(type) {
	case *Stmt:
		if name, sym, ok := DeclName(v); ok {
			out.Name = name
			out.Symbol = uint32(sym)
		}
		switch d := v.Data.(type) {
		case VarDeclData:
			out.Type = sb.typeStr(d.Type)
		case FuncDeclData:
			out.Type = sb.typeStr(d.Type)
		case RecordDeclData:
			out.Type = sb.typeStr(d.Type)
			out.Value = d.Tag.String()
		case FieldDeclData:
			out.Type = sb.typeStr(d.Type)
		case EnumDeclData:
			out.Type = sb.typeStr(d.Underlying)
		case TypedefData:
			out.Type = sb.typeStr(d.Target)
		case InstantiationData:
			out.Type = sb.typeStr(d.Type)
		case GotoData:
			out.Name = d.Label
			out.Symbol = uint32(d.Symbol)
		}
		for _, pr := range v.Pragmas {
			out.Pragmas = append(out.Pragmas, pr.Text)
		}
	case *Expr:
		out.Type = sb.typeStr(v.Type)
		switch d := v.Data.(type) {
		case IntValData:
			out.Value = d.Text
		case FloatValData:
			out.Value = d.Text
			out.Op = d.Precision.String()
		case CharValData:
			out.Value = strconv.FormatUint(uint64(d.Value), 10)
		case BoolValData:
			out.Value = strconv.FormatBool(d.Value)
		case StringValData:
			out.Value = d.Value
		case RefData:
			out.Name = d.Name
			out.Symbol = uint32(d.Symbol)
		case BinaryData:
			out.Op = d.Op.String()
		case UnaryData:
			out.Op = d.Op.String()
		case MemberData:
			out.Name = d.Name
			out.Symbol = uint32(d.Field)
			if d.Arrow {
				out.Op = "->"
			} else {
				out.Op = "."
			}
		case CastData:
			out.Op = d.Style.String()
		case SizeOfData:
			if d.ArgType != types.NoTypeID {
				out.Value = sb.typeStr(d.ArgType)
			}
		case NewData:
			out.Value = sb.typeStr(d.Allocated)
		case OpaqueRefData:
			out.Name = d.Name
		case OffsetOfData:
			out.Value = sb.typeStr(d.Of)
		}
	}
	for _, c := range Children(n) {
		out.Children = append(out.Children, sb.node(c))
	}
	return out
}

func (sb snapshotBuilder) typeStr(id types.TypeID) string {
	if id == types.NoTypeID {
		return ""
	}
	if sb.types == nil {
		return fmt.Sprintf("type#%d", id)
	}
	return sb.types.String(id)
}
