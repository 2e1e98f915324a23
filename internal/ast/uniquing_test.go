package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-lang/lumina/internal/position"
)

// testExpr is a stand-in for the opaque expression collaborator.
type testExpr struct {
	span position.Span
}

func (e *testExpr) Span() position.Span { return e.span }

func TestBuiltinIntegerUniquing(t *testing.T) {
	ctx := newTestContext(t)

	i32 := ctx.GetBuiltinIntegerType(32)
	assert.Same(t, i32, ctx.GetBuiltinIntegerType(32))
	assert.NotSame(t, i32, ctx.GetBuiltinIntegerType(64))

	assert.Equal(t, uint32(32), i32.BitWidth())
	assert.True(t, i32.IsCanonical())
	assert.False(t, i32.HasTypeVariable())
}

func TestTupleUniquing(t *testing.T) {
	ctx := newTestContext(t)
	intTy := ctx.GetBuiltinIntegerType(32)
	floatTy := ctx.TheIEEE64Type
	x := ctx.GetIdentifier("x")
	y := ctx.GetIdentifier("y")

	t.Run("Identity", func(t *testing.T) {
		a := ctx.GetTupleType([]TupleField{{Type: intTy, Name: x}, {Type: floatTy, Name: y}})
		b := ctx.GetTupleType([]TupleField{{Type: intTy, Name: x}, {Type: floatTy, Name: y}})
		assert.Same(t, a, b)

		// Different labels are a different structural profile.
		c := ctx.GetTupleType([]TupleField{{Type: intTy, Name: y}, {Type: floatTy, Name: x}})
		assert.NotSame(t, a, c)
	})

	t.Run("ParenCollapse", func(t *testing.T) {
		// A single unnamed, non-vararg element is a ParenType, not a
		// one-element tuple.
		collapsed := ctx.GetTupleType([]TupleField{{Type: intTy}})
		paren := ctx.GetParenType(intTy)

		assert.Same(t, paren, collapsed)
		assert.Equal(t, KindParen, collapsed.Kind())
	})

	t.Run("NamedSingleDoesNotCollapse", func(t *testing.T) {
		single := ctx.GetTupleType([]TupleField{{Type: intTy, Name: x}})
		assert.Equal(t, KindTuple, single.Kind())
	})

	t.Run("VarargSingleDoesNotCollapse", func(t *testing.T) {
		slice := ctx.GetArraySliceType(intTy)
		single := ctx.GetTupleType([]TupleField{{Type: slice, VarargBase: intTy}})
		assert.Equal(t, KindTuple, single.Kind())
	})

	t.Run("DefaultsAreNeverUniqued", func(t *testing.T) {
		mk := func() Type {
			dflt := ctx.NewExprHandle(&testExpr{})

			return ctx.GetTupleType([]TupleField{{Type: intTy, Name: x, Default: dflt}})
		}

		a := mk()
		b := mk()
		assert.NotSame(t, a, b, "default-bearing tuples must allocate fresh nodes")

		// Shape-identical requests still agree on flags.
		assert.True(t, a.IsCanonical())
		assert.True(t, b.IsCanonical())
	})

	t.Run("EmptyTuple", func(t *testing.T) {
		assert.Same(t, ctx.TheEmptyTupleType, ctx.GetTupleType([]TupleField{}))
	})
}

func TestNominalUniquing(t *testing.T) {
	ctx := newTestContext(t)

	structDecl := NewStructDecl(ctx.GetIdentifier("Point"), nil)
	classDecl := NewClassDecl(ctx.GetIdentifier("Window"), nil)
	oneOfDecl := NewOneOfDecl(ctx.GetIdentifier("Shape"), nil)
	protoDecl := NewProtocolDecl(ctx.GetIdentifier("Drawable"))

	t.Run("PerKindTables", func(t *testing.T) {
		assert.Same(t, ctx.GetStructType(structDecl, nil), ctx.GetStructType(structDecl, nil))
		assert.Same(t, ctx.GetClassType(classDecl, nil), ctx.GetClassType(classDecl, nil))
		assert.Same(t, ctx.GetOneOfType(oneOfDecl, nil), ctx.GetOneOfType(oneOfDecl, nil))
		assert.Same(t, ctx.GetProtocolType(protoDecl, nil), ctx.GetProtocolType(protoDecl, nil))
	})

	t.Run("DeclIdentityIsTheKey", func(t *testing.T) {
		// Same name, different declaration: distinct identity.
		other := NewStructDecl(ctx.GetIdentifier("Point"), nil)
		assert.NotSame(t, ctx.GetStructType(structDecl, nil), ctx.GetStructType(other, nil))
	})

	t.Run("ParentIsPartOfTheKey", func(t *testing.T) {
		outer := ctx.GetClassType(classDecl, nil)
		nested := ctx.GetStructType(structDecl, outer)
		assert.NotSame(t, ctx.GetStructType(structDecl, nil), nested)
		assert.Same(t, nested, ctx.GetStructType(structDecl, outer))
		assert.Same(t, outer, nested.Parent())
	})

	t.Run("KindDispatch", func(t *testing.T) {
		assert.Equal(t, KindStruct, ctx.GetNominalType(structDecl, nil).Kind())
		assert.Equal(t, KindClass, ctx.GetNominalType(classDecl, nil).Kind())
		assert.Equal(t, KindOneOf, ctx.GetNominalType(oneOfDecl, nil).Kind())
		assert.Equal(t, KindProtocol, ctx.GetNominalType(protoDecl, nil).Kind())

		// Dispatch lands in the same tables as the direct factories.
		assert.Same(t, Type(ctx.GetStructType(structDecl, nil)), ctx.GetNominalType(structDecl, nil))
	})
}

func TestGenericUniquing(t *testing.T) {
	ctx := newTestContext(t)
	intTy := ctx.GetBuiltinIntegerType(32)
	floatTy := ctx.TheIEEE64Type

	tParam := &GenericParamList{Params: []Identifier{ctx.GetIdentifier("T")}}
	listDecl := NewStructDecl(ctx.GetIdentifier("List"), tParam)
	boxDecl := NewClassDecl(ctx.GetIdentifier("Box"), tParam)
	optDecl := NewOneOfDecl(ctx.GetIdentifier("Optional"), tParam)

	t.Run("Unbound", func(t *testing.T) {
		a := ctx.GetUnboundGenericType(listDecl, nil)
		assert.Same(t, a, ctx.GetUnboundGenericType(listDecl, nil))
		assert.NotSame(t, a, ctx.GetUnboundGenericType(boxDecl, nil))
	})

	t.Run("BoundIdentity", func(t *testing.T) {
		a := ctx.GetBoundGenericType(listDecl, nil, []Type{intTy})
		b := ctx.GetBoundGenericType(listDecl, nil, []Type{intTy})
		assert.Same(t, a, b)

		// Argument list is part of the profile.
		c := ctx.GetBoundGenericType(listDecl, nil, []Type{floatTy})
		assert.NotSame(t, a, c)

		// So is the declaration.
		d := ctx.GetBoundGenericType(optDecl, nil, []Type{intTy})
		assert.NotSame(t, a, d)
	})

	t.Run("SubtypeDispatch", func(t *testing.T) {
		assert.Equal(t, KindBoundGenericStruct,
			ctx.GetBoundGenericType(listDecl, nil, []Type{intTy}).Kind())
		assert.Equal(t, KindBoundGenericClass,
			ctx.GetBoundGenericType(boxDecl, nil, []Type{intTy}).Kind())
		assert.Equal(t, KindBoundGenericOneOf,
			ctx.GetBoundGenericType(optDecl, nil, []Type{intTy}).Kind())
	})

	t.Run("ProtocolCannotBeBound", func(t *testing.T) {
		protoDecl := NewProtocolDecl(ctx.GetIdentifier("Sequence"))
		assertViolation(t, "BOUND_GENERIC_DECL_KIND", func() {
			ctx.GetBoundGenericType(protoDecl, nil, []Type{intTy})
		})
	})

	t.Run("ArgsAreCopied", func(t *testing.T) {
		args := []Type{intTy}
		bound := ctx.GetBoundGenericType(listDecl, nil, args)

		args[0] = floatTy // caller scribbles over its slice

		require.Len(t, bound.GenericArgs(), 1)
		assert.Same(t, Type(intTy), bound.GenericArgs()[0])
	})
}

func TestFunctionUniquing(t *testing.T) {
	ctx := newTestContext(t)
	intTy := ctx.GetBuiltinIntegerType(32)
	floatTy := ctx.TheIEEE64Type

	t.Run("Identity", func(t *testing.T) {
		a := ctx.GetFunctionType(intTy, floatTy, false)
		assert.Same(t, a, ctx.GetFunctionType(intTy, floatTy, false))
		assert.NotSame(t, a, ctx.GetFunctionType(floatTy, intTy, false))
	})

	t.Run("AutoClosureIsIdentity", func(t *testing.T) {
		plain := ctx.GetFunctionType(ctx.TheEmptyTupleType, intTy, false)
		auto := ctx.GetFunctionType(ctx.TheEmptyTupleType, intTy, true)
		assert.NotSame(t, plain, auto)
		assert.True(t, auto.IsAutoClosure())
	})

	t.Run("PolymorphicNeverUniqued", func(t *testing.T) {
		params := &GenericParamList{Params: []Identifier{ctx.GetIdentifier("T")}}

		a := ctx.NewPolymorphicFunctionType(intTy, intTy, params)
		b := ctx.NewPolymorphicFunctionType(intTy, intTy, params)
		assert.NotSame(t, a, b, "polymorphic function types must allocate fresh nodes")
		assert.True(t, a.IsCanonical())

		// Both function variants share the AnyFunctionType surface.
		var fn AnyFunctionType = a
		assert.Same(t, Type(intTy), fn.Input())
		assert.Same(t, Type(intTy), fn.Result())
	})

	t.Run("PolymorphicRejectsTypeVariables", func(t *testing.T) {
		params := &GenericParamList{Params: []Identifier{ctx.GetIdentifier("T")}}
		tv := ctx.NewTypeVariable()

		assertViolation(t, "POLYMORPHIC_OPERAND_TYPE_VARIABLE", func() {
			ctx.NewPolymorphicFunctionType(tv, intTy, params)
		})
	})
}

func TestArrayUniquing(t *testing.T) {
	ctx := newTestContext(t)
	intTy := ctx.GetBuiltinIntegerType(8)

	t.Run("FixedSize", func(t *testing.T) {
		a := ctx.GetArrayType(intTy, 16)
		assert.Same(t, a, ctx.GetArrayType(intTy, 16))
		assert.NotSame(t, a, ctx.GetArrayType(intTy, 32))
		assert.Equal(t, uint64(16), a.Size())
	})

	t.Run("ZeroSizeViolation", func(t *testing.T) {
		assertViolation(t, "ARRAY_SIZE_NONZERO", func() {
			ctx.GetArrayType(intTy, 0)
		})
	})

	t.Run("Slice", func(t *testing.T) {
		s := ctx.GetArraySliceType(intTy)
		assert.Same(t, s, ctx.GetArraySliceType(intTy))
		assert.NotSame(t, Type(s), Type(ctx.GetArrayType(intTy, 1)))
	})
}

func TestLValueUniquing(t *testing.T) {
	ctx := newTestContext(t)
	intTy := ctx.GetBuiltinIntegerType(32)

	plain := ctx.GetLValueType(intTy, 0)
	assert.Same(t, plain, ctx.GetLValueType(intTy, 0))

	// Qualifier bits are part of the identity.
	frozen := ctx.GetLValueType(intTy, QualNonSettable)
	assert.NotSame(t, plain, frozen)
	assert.False(t, frozen.Quals().IsSettable())

	assert.Same(t, frozen, ctx.GetLValueType(intTy, QualNonSettable))
}

func TestSubstitutedUniquing(t *testing.T) {
	ctx := newTestContext(t)
	intTy := ctx.GetBuiltinIntegerType(32)
	floatTy := ctx.TheIEEE64Type

	written := ctx.NewIdentifierType([]IdentifierTypeComponent{{Name: ctx.GetIdentifier("T")}})

	a := ctx.GetSubstitutedType(written, intTy)
	assert.Same(t, a, ctx.GetSubstitutedType(written, intTy))
	assert.NotSame(t, a, ctx.GetSubstitutedType(written, floatTy))

	// Canonicality follows the replacement, not the original.
	assert.True(t, a.IsCanonical())
}

func TestProtocolCompositionUniquing(t *testing.T) {
	ctx := newTestContext(t)

	p1 := ctx.GetProtocolType(NewProtocolDecl(ctx.GetIdentifier("Hashable")), nil)
	p2 := ctx.GetProtocolType(NewProtocolDecl(ctx.GetIdentifier("Codable")), nil)

	a := ctx.GetProtocolComposition([]Type{p1, p2})
	assert.Same(t, a, ctx.GetProtocolComposition([]Type{p1, p2}))

	// The profile is the ordered member list: reordering the same set
	// produces a distinct node.
	reordered := ctx.GetProtocolComposition([]Type{p2, p1})
	assert.NotSame(t, a, reordered)

	assert.True(t, a.IsCanonical())
	assert.Len(t, a.Protocols(), 2)
}

func TestMetaTypeUniquing(t *testing.T) {
	ctx := newTestContext(t)
	intTy := ctx.GetBuiltinIntegerType(32)

	mt := ctx.GetMetaTypeType(intTy)
	assert.Same(t, mt, ctx.GetMetaTypeType(intTy))
	assert.NotSame(t, mt, ctx.GetMetaTypeType(ctx.TheIEEE64Type))
	assert.Same(t, Type(intTy), mt.Instance())
}

func TestIdentifierTypeNeverUniqued(t *testing.T) {
	ctx := newTestContext(t)

	comps := []IdentifierTypeComponent{{Name: ctx.GetIdentifier("Std")}, {Name: ctx.GetIdentifier("Map")}}

	a := ctx.NewIdentifierType(comps)
	b := ctx.NewIdentifierType(comps)

	assert.NotSame(t, a, b)
	assert.False(t, a.IsCanonical())
	assert.Equal(t, "Std.Map", a.String())
}
