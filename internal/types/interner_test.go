package types

import (
	"testing"

	"astbridge/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Double == NoTypeID || b.Ellipsis == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if got := in.Builtin(KindDouble); got != b.Double {
		t.Fatalf("Builtin(double) = %d, want %d", got, b.Double)
	}
	if in.Builtin(KindPointer) != NoTypeID {
		t.Fatalf("pointer is not a builtin")
	}
}

func TestModifierCanonicalization(t *testing.T) {
	in := NewInterner()
	base := in.Builtins().Int
	a := in.Qualify(base, QualConst|QualVolatile, 0, 0)
	b := in.Qualify(base, QualVolatile|QualConst, 7, 9) // space/width ignored without their bits
	if a != b {
		t.Fatalf("equal qualifier sets must share one modifier: %d vs %d", a, b)
	}
	if c := in.Qualify(base, QualConst, 0, 0); c == a {
		t.Fatalf("different qualifier sets must differ")
	}
	if in.Qualify(base, 0, 0, 0) != base {
		t.Fatalf("empty qualifier set must return base")
	}
	if in.Unqualified(a) != base {
		t.Fatalf("Unqualified should strip the modifier")
	}
}

func TestAddressSpaceAndVectorAreKeyed(t *testing.T) {
	in := NewInterner()
	f := in.Builtins().Float
	g1 := in.Qualify(f, QualAddrSpace, SpaceGlobal, 0)
	g2 := in.Qualify(f, QualAddrSpace, SpaceGlobal, 0)
	l := in.Qualify(f, QualAddrSpace, SpaceLocal, 0)
	if g1 != g2 || g1 == l {
		t.Fatalf("address space must be part of the key")
	}
	v4 := in.Qualify(f, QualVector, 0, 4)
	v8 := in.Qualify(f, QualVector, 0, 8)
	if v4 == v8 {
		t.Fatalf("vector width must be part of the key")
	}
}

func TestArraysDedupExceptVLA(t *testing.T) {
	in := NewInterner()
	d := in.Builtins().Double
	if in.Intern(MakeArray(d, 1024)) != in.Intern(MakeArray(d, 1024)) {
		t.Fatalf("constant arrays should be deduplicated")
	}
	vla := Type{Kind: KindArray, Elem: d, Shape: ArrayVariable}
	if in.Intern(vla) == in.Intern(vla) {
		t.Fatalf("variable-length arrays must never be deduplicated")
	}
	inc := Type{Kind: KindArray, Elem: d, Shape: ArrayIncomplete}
	if in.Intern(inc) != in.Intern(inc) {
		t.Fatalf("incomplete arrays should be deduplicated")
	}
}

func TestFunctionTypes(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.RegisterFn([]TypeID{b.Int, b.Ellipsis}, b.Int)
	f2 := in.RegisterFn([]TypeID{b.Int, b.Ellipsis}, b.Int)
	if f1 != f2 {
		t.Fatalf("function types should be deduplicated")
	}
	info, ok := in.FnInfo(f1)
	if !ok || !in.Variadic(info) {
		t.Fatalf("expected variadic function info")
	}
	if got := in.String(f1); got != "int(int, ...)" {
		t.Fatalf("String = %q", got)
	}
}

func TestOpaqueAndNamed(t *testing.T) {
	in := NewInterner()
	if in.Opaque("x_type") != in.Opaque("x_type") {
		t.Fatalf("opaque types are interned by name")
	}
	s1 := in.RegisterNamed("S", TagStruct, source.Span{})
	s2 := in.RegisterNamed("S", TagStruct, source.Span{})
	if s1 == s2 {
		t.Fatalf("nominal types must not merge")
	}
	p := in.Intern(MakePointer(in.Qualify(s1, QualConst, 0, 0)))
	if got := in.String(p); got != "const S*" {
		t.Fatalf("String = %q", got)
	}
}
