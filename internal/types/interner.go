package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the scalar builtin types.
type Builtins struct {
	Invalid    TypeID
	Void       TypeID
	Bool       TypeID
	Char       TypeID
	SChar      TypeID
	UChar      TypeID
	WChar      TypeID
	Short      TypeID
	UShort     TypeID
	Int        TypeID
	UInt       TypeID
	Long       TypeID
	ULong      TypeID
	LongLong   TypeID
	ULongLong  TypeID
	Float      TypeID
	Double     TypeID
	LongDouble TypeID
	NullPtr    TypeID
	Ellipsis   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// One interner serves one translation unit.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	fns      []FnInfo
	fnBy     map[string]TypeID
	named    []NamedInfo
	opaque   []string
	opaqueBy map[string]TypeID
	serial   uint32
}

// NewInterner constructs an interner seeded with built-in scalars.
func NewInterner() *Interner {
	in := &Interner{
		index:    make(map[Type]TypeID, 64),
		opaqueBy: make(map[string]TypeID, 16),
		fnBy:     make(map[string]TypeID, 16),
	}
	in.named = append(in.named, NamedInfo{}) // reserve 0 as invalid sentinel
	in.opaque = append(in.opaque, "")
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	b := &in.builtins
	for _, slot := range []struct {
		dst  *TypeID
		kind Kind
	}{
		{&b.Void, KindVoid}, {&b.Bool, KindBool},
		{&b.Char, KindChar}, {&b.SChar, KindSChar}, {&b.UChar, KindUChar}, {&b.WChar, KindWChar},
		{&b.Short, KindShort}, {&b.UShort, KindUShort},
		{&b.Int, KindInt}, {&b.UInt, KindUInt},
		{&b.Long, KindLong}, {&b.ULong, KindULong},
		{&b.LongLong, KindLongLong}, {&b.ULongLong, KindULongLong},
		{&b.Float, KindFloat}, {&b.Double, KindDouble}, {&b.LongDouble, KindLongDouble},
		{&b.NullPtr, KindNullPtr}, {&b.Ellipsis, KindEllipsis},
	} {
		*slot.dst = in.Intern(Type{Kind: slot.kind})
	}
	return in
}

// Builtins returns TypeIDs for scalar types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Builtin returns the TypeID of a builtin kind, or NoTypeID for other kinds.
func (in *Interner) Builtin(k Kind) TypeID {
	if !k.IsBuiltin() && k != KindEllipsis {
		return NoTypeID
	}
	return in.index[Type{Kind: k}]
}

// Intern ensures the provided descriptor has a stable TypeID.
// Variable-length and [*] arrays are always fresh.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if t.Kind == KindArray && (t.Shape == ArrayVariable || t.Shape == ArrayStar) {
		in.serial++
		t.Payload = in.serial
		return in.internRaw(t)
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports the number of interned types excluding the sentinel.
func (in *Interner) Len() int {
	return len(in.types) - 1
}

// Qualify interns base with the qualifier set; q == 0 returns base unchanged.
func (in *Interner) Qualify(base TypeID, q Qual, space uint32, width uint64) TypeID {
	if q == 0 {
		return base
	}
	return in.Intern(MakeModifier(base, q, space, width))
}

// Opaque returns the global opaque type with the given name, creating it once.
func (in *Interner) Opaque(name string) TypeID {
	if id, ok := in.opaqueBy[name]; ok {
		return id
	}
	in.opaque = append(in.opaque, name)
	slot, err := safecast.Conv[uint32](len(in.opaque) - 1)
	if err != nil {
		panic(fmt.Errorf("opaque slot overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindOpaque, Payload: slot})
	in.opaqueBy[name] = id
	return id
}

// OpaqueName returns the name of an opaque type.
func (in *Interner) OpaqueName(id TypeID) (string, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindOpaque || int(tt.Payload) >= len(in.opaque) {
		return "", false
	}
	return in.opaque[tt.Payload], true
}

// Unqualified strips modifier layers.
func (in *Interner) Unqualified(id TypeID) TypeID {
	for {
		tt, ok := in.Lookup(id)
		if !ok || tt.Kind != KindModifier {
			return id
		}
		id = tt.Elem
	}
}
