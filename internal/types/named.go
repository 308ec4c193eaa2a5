package types

import (
	"fmt"

	"fortio.org/safecast"

	"astbridge/internal/source"
)

// Tag tells what kind of declaration introduced a named type.
type Tag uint8

const (
	TagStruct Tag = iota + 1
	TagClass
	TagUnion
	TagEnum
	TagTypedef
	// TagInstantiation marks a class synthesized for a template instantiation.
	TagInstantiation
)

func (t Tag) String() string {
	switch t {
	case TagStruct:
		return "struct"
	case TagClass:
		return "class"
	case TagUnion:
		return "union"
	case TagEnum:
		return "enum"
	case TagTypedef:
		return "typedef"
	case TagInstantiation:
		return "instantiation"
	}
	return "unknown"
}

// ParseTag maps a foreign tag spelling onto Tag.
func ParseTag(s string) (Tag, bool) {
	switch s {
	case "struct":
		return TagStruct, true
	case "class":
		return TagClass, true
	case "union":
		return TagUnion, true
	case "enum":
		return TagEnum, true
	case "typedef", "using":
		return TagTypedef, true
	}
	return 0, false
}

// NamedInfo stores metadata for a nominal type.
type NamedInfo struct {
	Name   string // qualified name
	Tag    Tag
	Decl   source.Span
	Target TypeID // aliased type (typedef) or underlying integer type (enum)
}

// RegisterNamed allocates a nominal type slot; nominal types are never merged.
func (in *Interner) RegisterNamed(name string, tag Tag, decl source.Span) TypeID {
	in.named = append(in.named, NamedInfo{Name: name, Tag: tag, Decl: decl})
	slot, err := safecast.Conv[uint32](len(in.named) - 1)
	if err != nil {
		panic(fmt.Errorf("named info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindNamed, Payload: slot})
}

// SetTarget records the aliased or underlying type of a named type.
func (in *Interner) SetTarget(id, target TypeID) {
	if info := in.namedInfo(id); info != nil {
		info.Target = target
	}
}

// NamedInfo returns metadata for a named TypeID.
func (in *Interner) NamedInfo(id TypeID) (*NamedInfo, bool) {
	info := in.namedInfo(id)
	return info, info != nil
}

func (in *Interner) namedInfo(id TypeID) *NamedInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.named) {
		return nil
	}
	return &in.named[tt.Payload]
}
