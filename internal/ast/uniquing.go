// Per-kind uniquing factories.
//
// Every factory computes the structural profile of its arguments, probes
// the matching table, and either returns the existing node or constructs
// one and inserts it at the probed slot. Find and insert are one logical
// step under the context's single-writer discipline, so a given profile
// is never constructed twice.
//
// Fixed-arity profiles are comparable key structs; variable-arity
// profiles (tuples, bound generics, protocol compositions) are encoded
// byte strings over per-context node ordinals. Pointer-bearing payload
// copies (field lists, argument lists) are context-owned slices rather
// than raw arena bytes, because the garbage collector must be able to see
// the type pointers they contain; identifier text, which is pointer-free,
// lives in the arena proper.

package ast

import (
	"encoding/binary"
)

// profile builds an order-sensitive structural key for the
// variable-arity uniquing tables.
type profile struct {
	buf []byte
}

func (p *profile) addUint(v uint64) {
	p.buf = binary.AppendUvarint(p.buf, v)
}

func (p *profile) addType(t Type) {
	p.addUint(typeID(t))
}

func (p *profile) addName(id Identifier) {
	p.addUint(id.profileOrdinal())
}

func (p *profile) key() string {
	return string(p.buf)
}

// declOrdinal returns a stable per-context ordinal for a declaration
// identity, assigning one on first use.
func (c *Context) declOrdinal(decl NominalTypeDecl) uint64 {
	if id, ok := c.impl.declIDs[decl]; ok {
		return id
	}

	c.impl.nextDeclID++
	c.impl.declIDs[decl] = c.impl.nextDeclID

	return c.impl.nextDeclID
}

// copyTypes copies a caller-supplied type list into context-owned memory.
func copyTypes(list []Type) []Type {
	if len(list) == 0 {
		return nil
	}

	owned := make([]Type, len(list))
	copy(owned, list)

	return owned
}

// GetEmptyTupleType returns the pre-built empty tuple singleton.
func (c *Context) GetEmptyTupleType() Type {
	return c.TheEmptyTupleType
}

// GetTupleType returns the uniqued tuple type with the given fields.
//
// Two normalization rules apply. A single unnamed, non-vararg field
// collapses to the corresponding ParenType, so the two spellings share
// one identity. And a field list carrying any default-value expression is
// never uniqued: default expressions are call-site specific even when the
// static shape matches, so every such request allocates a fresh node.
func (c *Context) GetTupleType(fields []TupleField) Type {
	c.assertOpen()

	if len(fields) == 1 && !fields[0].IsVararg() && !fields[0].HasName() {
		return c.GetParenType(fields[0].Type)
	}

	hasDefault := false
	hasTypeVariable := false

	for _, f := range fields {
		if f.HasDefault() {
			hasDefault = true
			if hasTypeVariable {
				break
			}
		}

		if hasTypeVariableOrNil(f.Type) {
			hasTypeVariable = true
			if hasDefault {
				break
			}
		}
	}

	var key string
	if !hasDefault {
		var p profile

		p.addUint(uint64(len(fields)))
		for _, f := range fields {
			p.addType(f.Type)
			p.addName(f.Name)
			p.addType(f.VarargBase)
		}

		key = p.key()
		if tt, ok := c.impl.tupleTypes[key]; ok {
			return tt
		}

		if c.LangOpts.DebugTypeInterning {
			c.logger.Debug("tuple table miss", "fields", len(fields))
		}
	}

	canonical := true
	unresolved := false

	for _, f := range fields {
		if f.Type == nil || !f.Type.IsCanonical() {
			canonical = false
		}

		if isUnresolvedOrNil(f.Type) {
			unresolved = true
		}
	}

	owned := make([]TupleField, len(fields))
	copy(owned, fields)

	tt := &TupleType{
		typeBase: c.newTypeBase(KindTuple, canonical, unresolved, hasTypeVariable),
		fields:   owned,
	}

	if !hasDefault {
		c.impl.tupleTypes[key] = tt
	}

	return tt
}

// GetParenType returns the uniqued 1:1 wrapper around underlying.
func (c *Context) GetParenType(underlying Type) *ParenType {
	c.assertOpen()

	if pt, ok := c.impl.parenTypes[underlying]; ok {
		return pt
	}

	pt := &ParenType{
		typeBase: c.newTypeBase(KindParen,
			underlying.IsCanonical(), underlying.IsUnresolved(), underlying.HasTypeVariable()),
		underlying: underlying,
	}
	c.impl.parenTypes[underlying] = pt

	return pt
}

// GetNominalType returns the uniqued nominal type for a declaration,
// dispatching on the declaration's own kind. Every declaration kind is
// handled; an unknown kind is a contract violation.
func (c *Context) GetNominalType(decl NominalTypeDecl, parent Type) Type {
	switch d := decl.(type) {
	case *StructDecl:
		return c.GetStructType(d, parent)
	case *ClassDecl:
		return c.GetClassType(d, parent)
	case *OneOfDecl:
		return c.GetOneOfType(d, parent)
	case *ProtocolDecl:
		return c.GetProtocolType(d, parent)
	default:
		panic(violation("NOMINAL_DECL_KIND", "not a nominal declaration: %T", decl))
	}
}

// nominalFlags computes the shared canonicality/propagation flags for the
// fixed-arity nominal variants, whose only structural child is the
// optional parent type.
func nominalFlags(parent Type) (canonical, unresolved, typeVariable bool) {
	return isCanonicalOrNil(parent), isUnresolvedOrNil(parent), hasTypeVariableOrNil(parent)
}

// GetStructType returns the uniqued struct type for decl inside parent.
func (c *Context) GetStructType(decl *StructDecl, parent Type) *StructType {
	c.assertOpen()

	key := nominalKey{decl: decl, parent: parent}
	if st, ok := c.impl.structTypes[key]; ok {
		return st
	}

	canonical, unresolved, typeVariable := nominalFlags(parent)
	st := &StructType{nominalType{
		typeBase: c.newTypeBase(KindStruct, canonical, unresolved, typeVariable),
		decl:     decl,
		parent:   parent,
	}}
	c.impl.structTypes[key] = st

	return st
}

// GetClassType returns the uniqued class type for decl inside parent.
func (c *Context) GetClassType(decl *ClassDecl, parent Type) *ClassType {
	c.assertOpen()

	key := nominalKey{decl: decl, parent: parent}
	if ct, ok := c.impl.classTypes[key]; ok {
		return ct
	}

	canonical, unresolved, typeVariable := nominalFlags(parent)
	ct := &ClassType{nominalType{
		typeBase: c.newTypeBase(KindClass, canonical, unresolved, typeVariable),
		decl:     decl,
		parent:   parent,
	}}
	c.impl.classTypes[key] = ct

	return ct
}

// GetOneOfType returns the uniqued oneof type for decl inside parent.
func (c *Context) GetOneOfType(decl *OneOfDecl, parent Type) *OneOfType {
	c.assertOpen()

	key := nominalKey{decl: decl, parent: parent}
	if ot, ok := c.impl.oneOfTypes[key]; ok {
		return ot
	}

	canonical, unresolved, typeVariable := nominalFlags(parent)
	ot := &OneOfType{nominalType{
		typeBase: c.newTypeBase(KindOneOf, canonical, unresolved, typeVariable),
		decl:     decl,
		parent:   parent,
	}}
	c.impl.oneOfTypes[key] = ot

	return ot
}

// GetProtocolType returns the uniqued protocol type for decl inside
// parent.
func (c *Context) GetProtocolType(decl *ProtocolDecl, parent Type) *ProtocolType {
	c.assertOpen()

	key := nominalKey{decl: decl, parent: parent}
	if pt, ok := c.impl.protocolTypes[key]; ok {
		return pt
	}

	canonical, unresolved, typeVariable := nominalFlags(parent)
	pt := &ProtocolType{nominalType{
		typeBase: c.newTypeBase(KindProtocol, canonical, unresolved, typeVariable),
		decl:     decl,
		parent:   parent,
	}}
	c.impl.protocolTypes[key] = pt

	return pt
}

// GetUnboundGenericType returns the uniqued type naming a generic
// declaration with no arguments bound yet.
func (c *Context) GetUnboundGenericType(decl NominalTypeDecl, parent Type) *UnboundGenericType {
	c.assertOpen()

	key := nominalKey{decl: decl, parent: parent}
	if ut, ok := c.impl.unboundGenericTypes[key]; ok {
		return ut
	}

	canonical, unresolved, typeVariable := nominalFlags(parent)
	ut := &UnboundGenericType{
		typeBase: c.newTypeBase(KindUnboundGeneric, canonical, unresolved, typeVariable),
		decl:     decl,
		parent:   parent,
	}
	c.impl.unboundGenericTypes[key] = ut

	return ut
}

// GetBoundGenericType returns the uniqued bound generic type for decl
// with the given arguments. The concrete subtype is chosen by the
// declaration's own kind; protocols cannot be bound and are a contract
// violation. The profile and table are shared across the three subtypes.
func (c *Context) GetBoundGenericType(decl NominalTypeDecl, parent Type, args []Type) BoundGenericType {
	c.assertOpen()

	var p profile

	p.addUint(c.declOrdinal(decl))
	p.addType(parent)
	p.addUint(uint64(len(args)))
	for _, arg := range args {
		p.addType(arg)
	}

	key := p.key()
	if bgt, ok := c.impl.boundGenericTypes[key]; ok {
		return bgt
	}

	if c.LangOpts.DebugTypeInterning {
		c.logger.Debug("bound generic table miss",
			"decl", decl.DeclName().String(), "args", len(args))
	}

	canonical := isCanonicalOrNil(parent)
	unresolved := isUnresolvedOrNil(parent)
	typeVariable := hasTypeVariableOrNil(parent)

	for _, arg := range args {
		if !arg.IsCanonical() {
			canonical = false
		}

		if arg.IsUnresolved() {
			unresolved = true
		}

		if arg.HasTypeVariable() {
			typeVariable = true
		}
	}

	base := func(kind TypeKind) boundGenericBase {
		return boundGenericBase{
			typeBase: c.newTypeBase(kind, canonical, unresolved, typeVariable),
			decl:     decl,
			parent:   parent,
			args:     copyTypes(args),
		}
	}

	var bgt BoundGenericType

	switch decl.(type) {
	case *ClassDecl:
		bgt = &BoundGenericClassType{base(KindBoundGenericClass)}
	case *StructDecl:
		bgt = &BoundGenericStructType{base(KindBoundGenericStruct)}
	case *OneOfDecl:
		bgt = &BoundGenericOneOfType{base(KindBoundGenericOneOf)}
	default:
		panic(violation("BOUND_GENERIC_DECL_KIND",
			"declaration %s (%s) cannot take generic arguments",
			decl.DeclName(), decl.DeclKind()))
	}

	c.impl.boundGenericTypes[key] = bgt

	return bgt
}

// GetFunctionType returns the uniqued monomorphic function type. The
// auto-closure flag is part of the identity. The node is canonical iff
// both input and result are canonical.
func (c *Context) GetFunctionType(input, result Type, autoClosure bool) *FunctionType {
	c.assertOpen()

	key := functionKey{input: input, result: result, autoClosure: autoClosure}
	if ft, ok := c.impl.functionTypes[key]; ok {
		return ft
	}

	ft := &FunctionType{
		typeBase: c.newTypeBase(KindFunction,
			input.IsCanonical() && result.IsCanonical(),
			input.IsUnresolved() || result.IsUnresolved(),
			input.HasTypeVariable() || result.HasTypeVariable()),
		input:       input,
		result:      result,
		autoClosure: autoClosure,
	}
	c.impl.functionTypes[key] = ft

	return ft
}

// NewPolymorphicFunctionType allocates a generic-parameterized function
// type. These are deliberately excluded from uniquing — identity for
// generic functions is undefined until canonicalization supports them —
// so every call returns a fresh node. Operands carrying inference type
// variables are a contract violation.
func (c *Context) NewPolymorphicFunctionType(input, result Type, params *GenericParamList) *PolymorphicFunctionType {
	c.assertOpen()

	if input.HasTypeVariable() || result.HasTypeVariable() {
		panic(violation("POLYMORPHIC_OPERAND_TYPE_VARIABLE",
			"polymorphic function over unresolved inference placeholders: %s -> %s", input, result))
	}

	return &PolymorphicFunctionType{
		typeBase: c.newTypeBase(KindPolymorphicFunction,
			input.IsCanonical() && result.IsCanonical(),
			input.IsUnresolved() || result.IsUnresolved(),
			false),
		input:  input,
		result: result,
		params: params,
	}
}

// GetArrayType returns the uniqued fixed-size array type. Size zero is a
// contract violation.
func (c *Context) GetArrayType(base Type, size uint64) *ArrayType {
	c.assertOpen()

	if size == 0 {
		panic(violation("ARRAY_SIZE_NONZERO", "fixed-size array of %s with size 0", base))
	}

	key := arrayKey{base: base, size: size}
	if at, ok := c.impl.arrayTypes[key]; ok {
		return at
	}

	at := &ArrayType{
		typeBase: c.newTypeBase(KindArray,
			base.IsCanonical(), base.IsUnresolved(), base.HasTypeVariable()),
		baseType: base,
		size:     size,
	}
	c.impl.arrayTypes[key] = at

	return at
}

// GetArraySliceType returns the uniqued unsized array type over base.
func (c *Context) GetArraySliceType(base Type) *ArraySliceType {
	c.assertOpen()

	if st, ok := c.impl.arraySliceTypes[base]; ok {
		return st
	}

	st := &ArraySliceType{
		typeBase: c.newTypeBase(KindArraySlice,
			base.IsCanonical(), base.IsUnresolved(), base.HasTypeVariable()),
		baseType: base,
	}
	c.impl.arraySliceTypes[base] = st

	return st
}

// GetBuiltinIntegerType returns the uniqued builtin integer type of the
// given bit width.
func (c *Context) GetBuiltinIntegerType(width uint32) *BuiltinIntegerType {
	c.assertOpen()

	if it, ok := c.impl.integerTypes[width]; ok {
		return it
	}

	it := &BuiltinIntegerType{
		typeBase: c.newTypeBase(KindBuiltinInteger, true, false, false),
		width:    width,
	}
	c.impl.integerTypes[width] = it

	return it
}

// GetBuiltinFloatType returns the pre-built singleton for the given
// floating-point format.
func (c *Context) GetBuiltinFloatType(sem FloatSemantics) *BuiltinFloatType {
	switch sem {
	case FloatIEEE16:
		return c.TheIEEE16Type
	case FloatIEEE32:
		return c.TheIEEE32Type
	case FloatIEEE64:
		return c.TheIEEE64Type
	case FloatIEEE80:
		return c.TheIEEE80Type
	case FloatIEEE128:
		return c.TheIEEE128Type
	case FloatPPC128:
		return c.ThePPC128Type
	default:
		panic(violation("FLOAT_SEMANTICS", "unknown floating-point format %d", sem))
	}
}

// GetLValueType returns the uniqued lvalue type over the object type with
// the given qualifier bits.
func (c *Context) GetLValueType(object Type, quals LValueQuals) *LValueType {
	c.assertOpen()

	key := lvalueKey{object: object, quals: quals}
	if lt, ok := c.impl.lvalueTypes[key]; ok {
		return lt
	}

	lt := &LValueType{
		typeBase: c.newTypeBase(KindLValue,
			object.IsCanonical(), object.IsUnresolved(), object.HasTypeVariable()),
		object: object,
		quals:  quals,
	}
	c.impl.lvalueTypes[key] = lt

	return lt
}

// GetSubstitutedType returns the uniqued record that original was
// replaced by replacement during generic substitution.
func (c *Context) GetSubstitutedType(original, replacement Type) *SubstitutedType {
	c.assertOpen()

	key := substitutedKey{original: original, replacement: replacement}
	if st, ok := c.impl.substitutedTypes[key]; ok {
		return st
	}

	st := &SubstitutedType{
		typeBase: c.newTypeBase(KindSubstituted,
			replacement.IsCanonical(), replacement.IsUnresolved(), replacement.HasTypeVariable()),
		original:    original,
		replacement: replacement,
	}
	c.impl.substitutedTypes[key] = st

	return st
}

// GetProtocolComposition returns the uniqued composition of the given
// protocol types. The profile is the ordered member list: reordering the
// same set yields a distinct node.
func (c *Context) GetProtocolComposition(protocols []Type) *ProtocolCompositionType {
	c.assertOpen()

	var p profile

	p.addUint(uint64(len(protocols)))
	for _, proto := range protocols {
		p.addType(proto)
	}

	key := p.key()
	if pct, ok := c.impl.protocolCompositions[key]; ok {
		return pct
	}

	canonical := true
	unresolved := false
	typeVariable := false

	for _, proto := range protocols {
		if !proto.IsCanonical() {
			canonical = false
		}

		if proto.IsUnresolved() {
			unresolved = true
		}

		if proto.HasTypeVariable() {
			typeVariable = true
		}
	}

	pct := &ProtocolCompositionType{
		typeBase:  c.newTypeBase(KindProtocolComposition, canonical, unresolved, typeVariable),
		protocols: copyTypes(protocols),
	}
	c.impl.protocolCompositions[key] = pct

	return pct
}

// GetModuleType returns the uniqued type of a module reference. The
// module must belong to this context.
func (c *Context) GetModuleType(m *Module) *ModuleType {
	c.assertOpen()

	if m.Context() != c {
		panic(violation("MODULE_CONTEXT", "module %s belongs to a different context", m))
	}

	if mt, ok := c.impl.moduleTypes[m]; ok {
		return mt
	}

	mt := &ModuleType{
		typeBase: c.newTypeBase(KindModule, true, false, false),
		module:   m,
	}
	c.impl.moduleTypes[m] = mt

	return mt
}

// GetMetaTypeType returns the uniqued metatype of the instance type.
func (c *Context) GetMetaTypeType(instance Type) *MetaTypeType {
	c.assertOpen()

	if mt, ok := c.impl.metaTypes[instance]; ok {
		return mt
	}

	mt := &MetaTypeType{
		typeBase: c.newTypeBase(KindMetaType,
			instance.IsCanonical(), instance.IsUnresolved(), instance.HasTypeVariable()),
		instance: instance,
	}
	c.impl.metaTypes[instance] = mt

	return mt
}

// NewIdentifierType allocates a written multi-component type reference.
// Identifier types are never uniqued and never canonical; name resolution
// rewrites them before canonical types are required.
func (c *Context) NewIdentifierType(components []IdentifierTypeComponent) *IdentifierType {
	c.assertOpen()

	owned := make([]IdentifierTypeComponent, len(components))
	copy(owned, components)

	return &IdentifierType{
		typeBase:   c.newTypeBase(KindIdentifier, false, false, false),
		components: owned,
	}
}

// NewTypeVariable allocates a fresh inference placeholder. Type variables
// are never uniqued: each one is a distinct unknown.
func (c *Context) NewTypeVariable() *TypeVariableType {
	c.assertOpen()

	c.impl.nextTypeVariable++

	return &TypeVariableType{
		typeBase: c.newTypeBase(KindTypeVariable, true, false, true),
		ordinal:  c.impl.nextTypeVariable,
	}
}
