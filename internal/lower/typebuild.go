package lower

import (
	"fmt"
	"strconv"
	"strings"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/types"
)

// lowerQualType lowers the base type through the type cache and applies the
// qualifiers. Nested modifier layers are merged, so equal qualifier sets on
// the same base always intern to one TypeID.
func (c *Context) lowerQualType(qt foreign.QualType, sp source.Span) types.TypeID {
	if qt.IsNull() {
		return types.NoTypeID
	}
	base := c.lowerType(qt.Type, sp)
	var q types.Qual
	if qt.Const {
		q |= types.QualConst
	}
	if qt.Volatile {
		q |= types.QualVolatile
	}
	if qt.Restrict {
		q |= types.QualRestrict
	}
	if qt.AddressSpace != 0 {
		q |= types.QualAddrSpace
	}
	return c.qualify(base, q, qt.AddressSpace)
}

func (c *Context) qualify(base types.TypeID, q types.Qual, space uint32) types.TypeID {
	if q == 0 || base == types.NoTypeID {
		return base
	}
	if tt, ok := c.types.Lookup(base); ok && tt.Kind == types.KindModifier && tt.Qual&types.QualVector == 0 {
		if q&types.QualAddrSpace == 0 {
			space = tt.Space
		}
		return c.types.Qualify(tt.Elem, tt.Qual|q, space, 0)
	}
	return c.types.Qualify(base, q, space, 0)
}

// lowerType is the type half of the translation cache.
func (c *Context) lowerType(t *foreign.Type, sp source.Span) types.TypeID {
	if t == nil {
		return types.NoTypeID
	}
	if id, ok := c.typeMap[t]; ok {
		return id
	}
	c.descend(sp, t.Kind.String())
	defer c.ascend()
	c.stats.Inc("type:" + t.Kind.String())
	id := c.buildType(t, sp)
	c.typeMap[t] = id
	return id
}

func (c *Context) buildType(t *foreign.Type, sp source.Span) types.TypeID {
	switch t.Kind {
	case foreign.BuiltinType:
		return c.builtinType(t.Name, sp)

	case foreign.PointerType:
		return c.types.Intern(types.MakePointer(c.lowerQualType(t.Elem, sp)))
	case foreign.LValueReferenceType:
		return c.types.Intern(types.MakeReference(c.lowerQualType(t.Elem, sp), false))
	case foreign.RValueReferenceType:
		return c.types.Intern(types.MakeReference(c.lowerQualType(t.Elem, sp), true))

	case foreign.ConstantArrayType:
		id := c.types.Intern(types.MakeArray(c.lowerQualType(t.Elem, sp), t.Size))
		if _, ok := c.module.Extents[id]; !ok {
			c.module.Extents[id] = ir.NewExpr(ir.ExprIntVal, c.types.Builtins().ULong, sp, ir.IntValData{
				Value: t.Size,
				Text:  strconv.FormatUint(t.Size, 10),
			})
		}
		return id
	case foreign.IncompleteArrayType:
		return c.types.Intern(types.Type{Kind: types.KindArray, Elem: c.lowerQualType(t.Elem, sp), Shape: types.ArrayIncomplete})
	case foreign.DependentSizedArrayType:
		return c.types.Intern(types.Type{Kind: types.KindArray, Elem: c.lowerQualType(t.Elem, sp), Shape: types.ArrayDependent})
	case foreign.VariableArrayType:
		elem := c.lowerQualType(t.Elem, sp)
		if t.Star || t.SizeExpr == nil {
			id := c.types.Intern(types.Type{Kind: types.KindArray, Elem: elem, Shape: types.ArrayStar})
			c.module.Extents[id] = ir.NewExpr(ir.ExprNull, types.NoTypeID, sp, nil)
			return id
		}
		id := c.types.Intern(types.Type{Kind: types.KindArray, Elem: elem, Shape: types.ArrayVariable})
		ok := true
		c.module.Extents[id] = c.exprOrNull(t.SizeExpr, sp, "array extent", &ok)
		return id

	case foreign.FunctionProtoType:
		result := c.lowerQualType(t.Elem, sp)
		params := make([]types.TypeID, 0, len(t.Params)+1)
		for _, p := range t.Params {
			params = append(params, c.lowerQualType(p, sp))
		}
		if t.Variadic {
			params = append(params, c.types.Builtins().Ellipsis)
		}
		return c.types.RegisterFn(params, result)
	case foreign.FunctionNoProtoType:
		return c.types.RegisterFn(nil, c.lowerQualType(t.Elem, sp))

	case foreign.ParenType, foreign.ElaboratedType, foreign.UsingType, foreign.SubstTemplateTypeParmType,
		foreign.AttributedType, foreign.MacroQualifiedType, foreign.AdjustedType, foreign.DecayedType:
		return c.lowerQualType(t.Elem, sp)

	case foreign.TypedefType, foreign.RecordType, foreign.EnumType:
		if t.Decl == nil {
			return c.unknownType(t.Kind.String(), sp)
		}
		return c.namedType(t.Decl)
	case foreign.InjectedClassNameType:
		if !t.Elem.IsNull() {
			return c.lowerQualType(t.Elem, sp)
		}
		if t.Decl != nil {
			return c.namedType(t.Decl)
		}
		return c.unknownType(t.Kind.String(), sp)
	case foreign.TemplateSpecializationType:
		return c.instantiate(t.Name, t.Args, sp).Type

	case foreign.MemberPointerType:
		return c.types.Opaque("member_pointer")
	case foreign.DecltypeType:
		return c.types.Opaque("decltype")
	case foreign.AutoType:
		if !t.Elem.IsNull() {
			return c.lowerQualType(t.Elem, sp)
		}
		return c.types.Opaque("auto")
	case foreign.TemplateTypeParmType:
		return c.types.Opaque("template_type_param")
	case foreign.DependentNameType:
		return c.types.Opaque("dependent_name")
	case foreign.PackExpansionType:
		return c.types.Opaque("pack_expansion")
	case foreign.DependentTemplateSpecializationType:
		return c.types.Opaque(dependentReplacer.Replace(t.Name))

	case foreign.VectorType, foreign.ExtVectorType:
		return c.types.Qualify(c.lowerQualType(t.Elem, sp), types.QualVector, 0, t.VectorSize)

	case foreign.TypeOfExprType, foreign.TypeOfType, foreign.UnaryTransformType:
		if !t.Elem.IsNull() {
			return c.lowerQualType(t.Elem, sp)
		}
		return c.unknownType(t.Kind.String(), sp)

	case foreign.AtomicType, foreign.PipeType, foreign.BlockPointerType,
		foreign.ObjCObjectType, foreign.ObjCObjectPointerType, foreign.ObjCInterfaceType:
		c.unimplemented(CategoryType, t.Kind.String(), sp, "")
		return types.NoTypeID

	case foreign.ComplexType, foreign.InvalidType:
		return c.unknownType(t.Kind.String(), sp)
	case foreign.UnknownType:
		if t.Class == "" {
			return c.unknownType(t.Kind.String(), sp)
		}
		return c.unknownType(t.Class, sp)
	}
	return c.unknownType(t.Kind.String(), sp)
}

var dependentReplacer = strings.NewReplacer(
	":", "_", "<", "_", ">", "_", ",", "_", " ", "_",
	"*", "_", "&", "_", "(", "_", ")", "_",
)

func (c *Context) unknownType(name string, sp source.Span) types.TypeID {
	c.warnOnce("type:"+name, diag.LowUnknownType, sp, fmt.Sprintf("type kind %s is not modeled; using an opaque type", name))
	return c.types.Opaque(name)
}

func (c *Context) builtinType(name string, sp source.Span) types.TypeID {
	b := c.types.Builtins()
	switch name {
	case "Void":
		return b.Void
	case "Bool":
		return b.Bool
	case "Char_S", "Char_U":
		return b.Char
	case "SChar":
		return b.SChar
	case "UChar", "Char8":
		return b.UChar
	case "WChar_S", "WChar_U":
		return b.WChar
	case "Short":
		return b.Short
	case "UShort", "Char16":
		return b.UShort
	case "Int":
		return b.Int
	case "UInt", "Char32":
		return b.UInt
	case "Long":
		return b.Long
	case "ULong":
		return b.ULong
	case "LongLong", "Int128":
		return b.LongLong
	case "ULongLong", "UInt128":
		return b.ULongLong
	case "Float", "Half", "Float16":
		return b.Float
	case "Double":
		return b.Double
	case "LongDouble":
		return b.LongDouble
	case "NullPtr":
		return b.NullPtr
	case "Dependent":
		return c.types.Opaque("dependent")
	}
	c.warnOnce("builtin:"+name, diag.LowUnknownBuiltin, sp, fmt.Sprintf("builtin type %q is not modeled; using an opaque type", name))
	return c.types.Opaque(name)
}

func namedTag(d *foreign.Decl) types.Tag {
	switch d.Kind {
	case foreign.EnumDecl:
		return types.TagEnum
	case foreign.TypedefDecl, foreign.TypeAliasDecl:
		return types.TagTypedef
	}
	if tag, ok := types.ParseTag(d.Tag); ok && tag != types.TagTypedef {
		return tag
	}
	return types.TagStruct
}

// namedType returns the nominal type declared by d. Redeclarations share the
// type through the qualified name; anonymous declarations are keyed by node.
func (c *Context) namedType(d *foreign.Decl) types.TypeID {
	if d.Kind == foreign.ClassTemplateSpecializationDecl {
		return c.instantiate(d.Template, d.Args, d.Range).Type
	}
	tag := namedTag(d)
	name := d.QualifiedName()
	if name == "" {
		if id, ok := c.anonNamed[d]; ok {
			return id
		}
		id := c.types.RegisterNamed(fmt.Sprintf("(anonymous %s#%d)", tag, d.ID), tag, d.Range)
		c.anonNamed[d] = id
		c.completeNamed(d, id, tag)
		return id
	}
	key := tag.String() + " " + name
	if id, ok := c.named[key]; ok {
		return id
	}
	id := c.types.RegisterNamed(name, tag, d.Range)
	c.named[key] = id
	c.completeNamed(d, id, tag)
	return id
}

func (c *Context) completeNamed(d *foreign.Decl, id types.TypeID, tag types.Tag) {
	switch tag {
	case types.TagTypedef:
		c.types.SetTarget(id, c.lowerQualType(d.Type, d.Range))
	case types.TagEnum:
		underlying := c.lowerQualType(d.Type, d.Range)
		if underlying == types.NoTypeID {
			underlying = c.types.Builtins().Int
		}
		c.types.SetTarget(id, underlying)
	}
}
