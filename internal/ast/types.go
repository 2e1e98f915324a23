// Type node definitions for the Lumina semantic model.
//
// Every node is immutable after construction and owned by its compilation
// context. A node is canonical iff it carries a non-nil context
// back-reference; composite nodes compute that, together with the
// has-type-variable and unresolved flags, bottom-up from their structural
// children at construction time.

package ast

import (
	"fmt"
	"strings"

	"github.com/lumina-lang/lumina/internal/position"
)

// Type is the abstract type node family.
type Type interface {
	// Kind returns the concrete variant tag.
	Kind() TypeKind
	// IsCanonical reports whether every type this node structurally
	// contains is itself canonical.
	IsCanonical() bool
	// HasTypeVariable reports whether this node or any structural child
	// contains an unresolved inference placeholder.
	HasTypeVariable() bool
	// IsUnresolved reports whether this node or any structural child is
	// an unresolved component.
	IsUnresolved() bool

	String() string

	base() *typeBase
}

// typeBase carries the state shared by every type node. The context
// back-reference doubles as the canonicality tag: nil means
// non-canonical.
type typeBase struct {
	kind         TypeKind
	ctx          *Context
	id           uint64 // per-context ordinal used in uniquing profiles
	unresolved   bool
	typeVariable bool
}

func (t *typeBase) Kind() TypeKind        { return t.kind }
func (t *typeBase) IsCanonical() bool     { return t.ctx != nil }
func (t *typeBase) HasTypeVariable() bool { return t.typeVariable }
func (t *typeBase) IsUnresolved() bool    { return t.unresolved }
func (t *typeBase) base() *typeBase       { return t }

// typeID returns the profile ordinal of t, or 0 for a nil type.
func typeID(t Type) uint64 {
	if t == nil {
		return 0
	}

	return t.base().id
}

// isCanonicalOrNil treats an absent optional child as canonical.
func isCanonicalOrNil(t Type) bool {
	return t == nil || t.IsCanonical()
}

// hasTypeVariableOrNil treats an absent optional child as variable-free.
func hasTypeVariableOrNil(t Type) bool {
	return t != nil && t.HasTypeVariable()
}

// isUnresolvedOrNil treats an absent optional child as resolved.
func isUnresolvedOrNil(t Type) bool {
	return t != nil && t.IsUnresolved()
}

// ErrorType is the singleton placeholder for invalid types. Upstream
// semantic errors are represented with it; it is canonical and
// participates in uniquing like any other node.
type ErrorType struct{ typeBase }

func (t *ErrorType) String() string { return "<<error type>>" }

// UnresolvedType is the singleton placeholder for a dependent component
// that has not been resolved yet. It is canonical but flagged unresolved.
type UnresolvedType struct{ typeBase }

func (t *UnresolvedType) String() string { return "<<unresolved>>" }

// BuiltinRawPointerType is the singleton raw pointer placeholder.
type BuiltinRawPointerType struct{ typeBase }

func (t *BuiltinRawPointerType) String() string { return "Builtin.RawPointer" }

// BuiltinObjectPointerType is the singleton managed object pointer
// placeholder.
type BuiltinObjectPointerType struct{ typeBase }

func (t *BuiltinObjectPointerType) String() string { return "Builtin.ObjectPointer" }

// BuiltinForeignPointerType is the singleton placeholder for pointers to
// foreign-runtime objects.
type BuiltinForeignPointerType struct{ typeBase }

func (t *BuiltinForeignPointerType) String() string { return "Builtin.ForeignPointer" }

// BuiltinIntegerType is an arbitrary-width builtin integer type, uniqued
// by bit width.
type BuiltinIntegerType struct {
	typeBase
	width uint32
}

// BitWidth returns the width of the integer type in bits.
func (t *BuiltinIntegerType) BitWidth() uint32 { return t.width }

func (t *BuiltinIntegerType) String() string { return fmt.Sprintf("Builtin.Int%d", t.width) }

// BuiltinFloatType is one member of the fixed builtin floating-point
// family, constructed once at context creation.
type BuiltinFloatType struct {
	typeBase
	semantics FloatSemantics
}

// Semantics returns the floating-point format tag.
func (t *BuiltinFloatType) Semantics() FloatSemantics { return t.semantics }

func (t *BuiltinFloatType) String() string { return "Builtin.Float" + t.semantics.String() }

// TupleField is one element of a tuple type: a type with an optional
// name, an optional default-value expression, and an optional vararg base
// type.
type TupleField struct {
	Type       Type
	Name       Identifier
	Default    *ExprHandle
	VarargBase Type
}

// HasName reports whether the field is labeled.
func (f TupleField) HasName() bool { return !f.Name.IsEmpty() }

// HasDefault reports whether the field carries a default-value
// expression.
func (f TupleField) HasDefault() bool { return f.Default != nil }

// IsVararg reports whether the field is a variadic tail.
func (f TupleField) IsVararg() bool { return f.VarargBase != nil }

// TupleType is an ordered list of tuple fields. Tuples whose fields carry
// default values are never uniqued; all others are.
type TupleType struct {
	typeBase
	fields []TupleField
}

// Fields returns the ordered field list. Callers must not mutate it.
func (t *TupleType) Fields() []TupleField { return t.fields }

func (t *TupleType) String() string {
	var sb strings.Builder

	sb.WriteByte('(')

	for i, f := range t.fields {
		if i > 0 {
			sb.WriteString(", ")
		}

		if f.HasName() {
			sb.WriteString(f.Name.String())
			sb.WriteString(": ")
		}

		sb.WriteString(f.Type.String())

		if f.IsVararg() {
			sb.WriteString("...")
		}
	}

	sb.WriteByte(')')

	return sb.String()
}

// ParenType wraps exactly one type. Single-element unnamed non-vararg
// tuples normalize to it.
type ParenType struct {
	typeBase
	underlying Type
}

// Underlying returns the wrapped type.
func (t *ParenType) Underlying() Type { return t.underlying }

func (t *ParenType) String() string { return "(" + t.underlying.String() + ")" }

// nominalType carries the fields shared by the nominal type variants:
// the declaration identity and an optional enclosing parent type.
type nominalType struct {
	typeBase
	decl   NominalTypeDecl
	parent Type
}

// Decl returns the declaration this nominal type names.
func (t *nominalType) Decl() NominalTypeDecl { return t.decl }

// Parent returns the enclosing type, or nil at file scope.
func (t *nominalType) Parent() Type { return t.parent }

func (t *nominalType) String() string {
	if t.parent != nil {
		return t.parent.String() + "." + t.decl.DeclName().String()
	}

	return t.decl.DeclName().String()
}

// StructType is the type of a struct declaration.
type StructType struct{ nominalType }

// ClassType is the type of a class declaration.
type ClassType struct{ nominalType }

// OneOfType is the type of a oneof declaration.
type OneOfType struct{ nominalType }

// ProtocolType is the type of a protocol declaration.
type ProtocolType struct{ nominalType }

// UnboundGenericType names a generic declaration with no arguments bound
// yet.
type UnboundGenericType struct {
	typeBase
	decl   NominalTypeDecl
	parent Type
}

// Decl returns the generic declaration.
func (t *UnboundGenericType) Decl() NominalTypeDecl { return t.decl }

// Parent returns the enclosing type, or nil at file scope.
func (t *UnboundGenericType) Parent() Type { return t.parent }

func (t *UnboundGenericType) String() string { return t.decl.DeclName().String() + "<...>" }

// BoundGenericType is a generic declaration with concrete arguments
// bound. The concrete node is one of the class/struct/oneof subtypes,
// chosen by the declaration's own kind; all three share one uniquing
// table.
type BoundGenericType interface {
	Type

	// BoundDecl returns the generic declaration.
	BoundDecl() NominalTypeDecl
	// Parent returns the enclosing type, or nil at file scope.
	Parent() Type
	// GenericArgs returns the ordered bound argument types. Callers must
	// not mutate the slice.
	GenericArgs() []Type

	boundGeneric()
}

// boundGenericBase carries the fields shared by the bound-generic
// subtypes.
type boundGenericBase struct {
	typeBase
	decl   NominalTypeDecl
	parent Type
	args   []Type
}

func (t *boundGenericBase) BoundDecl() NominalTypeDecl { return t.decl }
func (t *boundGenericBase) Parent() Type               { return t.parent }
func (t *boundGenericBase) GenericArgs() []Type        { return t.args }
func (t *boundGenericBase) boundGeneric()              {}

func (t *boundGenericBase) String() string {
	var sb strings.Builder

	sb.WriteString(t.decl.DeclName().String())
	sb.WriteByte('<')

	for i, arg := range t.args {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(arg.String())
	}

	sb.WriteByte('>')

	return sb.String()
}

// BoundGenericStructType is a struct declaration with bound arguments.
type BoundGenericStructType struct{ boundGenericBase }

// BoundGenericClassType is a class declaration with bound arguments.
type BoundGenericClassType struct{ boundGenericBase }

// BoundGenericOneOfType is a oneof declaration with bound arguments.
type BoundGenericOneOfType struct{ boundGenericBase }

// AnyFunctionType is implemented by both function type variants.
type AnyFunctionType interface {
	Type

	// Input returns the parameter type.
	Input() Type
	// Result returns the result type.
	Result() Type
}

// FunctionType is a monomorphic function type, uniqued by input, result,
// and the auto-closure flag.
type FunctionType struct {
	typeBase
	input       Type
	result      Type
	autoClosure bool
}

func (t *FunctionType) Input() Type  { return t.input }
func (t *FunctionType) Result() Type { return t.result }

// IsAutoClosure reports whether the function implicitly closes over its
// argument expression. The flag is part of the uniquing identity.
func (t *FunctionType) IsAutoClosure() bool { return t.autoClosure }

func (t *FunctionType) String() string {
	return t.input.String() + " -> " + t.result.String()
}

// PolymorphicFunctionType is a generic-parameterized function type.
// Identity for generic functions is not defined without full
// canonicalization support, so these nodes are never uniqued: every
// request allocates a fresh node.
type PolymorphicFunctionType struct {
	typeBase
	input  Type
	result Type
	params *GenericParamList
}

func (t *PolymorphicFunctionType) Input() Type  { return t.input }
func (t *PolymorphicFunctionType) Result() Type { return t.result }

// Params returns the generic parameter list.
func (t *PolymorphicFunctionType) Params() *GenericParamList { return t.params }

func (t *PolymorphicFunctionType) String() string {
	return fmt.Sprintf("<%d params> %s -> %s", len(t.params.Params), t.input, t.result)
}

// ArrayType is a fixed-size array type. Size zero is a contract
// violation at construction.
type ArrayType struct {
	typeBase
	baseType Type
	size     uint64
}

// Base returns the element type.
func (t *ArrayType) Base() Type { return t.baseType }

// Size returns the non-zero element count.
func (t *ArrayType) Size() uint64 { return t.size }

func (t *ArrayType) String() string {
	return fmt.Sprintf("%s[%d]", t.baseType.String(), t.size)
}

// ArraySliceType is an unsized array type, uniqued by base type.
type ArraySliceType struct {
	typeBase
	baseType Type
}

// Base returns the element type.
func (t *ArraySliceType) Base() Type { return t.baseType }

func (t *ArraySliceType) String() string { return t.baseType.String() + "[]" }

// LValueType is a reference to storage of the object type, qualified by
// packed qualifier bits that participate in the uniquing identity.
type LValueType struct {
	typeBase
	object Type
	quals  LValueQuals
}

// Object returns the referenced storage type.
func (t *LValueType) Object() Type { return t.object }

// Quals returns the packed qualifier bits.
func (t *LValueType) Quals() LValueQuals { return t.quals }

func (t *LValueType) String() string { return "[byref] " + t.object.String() }

// SubstitutedType remembers that an original type was replaced during
// generic substitution, uniqued by the (original, replacement) pair.
type SubstitutedType struct {
	typeBase
	original    Type
	replacement Type
}

// Original returns the type before substitution.
func (t *SubstitutedType) Original() Type { return t.original }

// Replacement returns the type substituted in.
func (t *SubstitutedType) Replacement() Type { return t.replacement }

func (t *SubstitutedType) String() string { return t.replacement.String() }

// ProtocolCompositionType is an ordered list of protocol types. The
// profile is order-sensitive: reordering the same member set produces a
// distinct node.
type ProtocolCompositionType struct {
	typeBase
	protocols []Type
}

// Protocols returns the ordered member protocol types. Callers must not
// mutate the slice.
func (t *ProtocolCompositionType) Protocols() []Type { return t.protocols }

func (t *ProtocolCompositionType) String() string {
	members := make([]string, len(t.protocols))
	for i, p := range t.protocols {
		members[i] = p.String()
	}

	return "protocol<" + strings.Join(members, ", ") + ">"
}

// ModuleType is the type of a module reference, uniqued by module
// identity.
type ModuleType struct {
	typeBase
	module *Module
}

// Module returns the owning module identity.
func (t *ModuleType) Module() *Module { return t.module }

func (t *ModuleType) String() string { return "module<" + t.module.String() + ">" }

// MetaTypeType is the type of a type value, uniqued by instance type.
type MetaTypeType struct {
	typeBase
	instance Type
}

// Instance returns the instance type.
func (t *MetaTypeType) Instance() Type { return t.instance }

func (t *MetaTypeType) String() string { return t.instance.String() + ".metatype" }

// IdentifierTypeComponent is one dotted component of a written type
// reference, optionally with written generic arguments.
type IdentifierTypeComponent struct {
	Name        Identifier
	GenericArgs []Type
}

// IdentifierType is a written, unresolved multi-component type reference.
// It is never uniqued and never canonical; name resolution rewrites it
// before canonical types are needed.
type IdentifierType struct {
	typeBase
	components []IdentifierTypeComponent
}

// Components returns the written components. Callers must not mutate the
// slice.
func (t *IdentifierType) Components() []IdentifierTypeComponent { return t.components }

func (t *IdentifierType) String() string {
	parts := make([]string, len(t.components))
	for i, comp := range t.components {
		parts[i] = comp.Name.String()
	}

	return strings.Join(parts, ".")
}

// TypeVariableType is an inference placeholder owned by the constraint
// solver. It is canonical on its own but poisons the has-type-variable
// flag of everything built from it. Never uniqued: each variable is a
// fresh unknown.
type TypeVariableType struct {
	typeBase
	ordinal uint64
}

// Ordinal returns the solver-assigned variable number.
func (t *TypeVariableType) Ordinal() uint64 { return t.ordinal }

func (t *TypeVariableType) String() string { return fmt.Sprintf("$T%d", t.ordinal) }

// TypeLoc pairs a type with the source range it was written in.
type TypeLoc struct {
	T    Type
	Span position.Span
}

// SetInvalidType rewrites the location's type to the context's error
// singleton.
func (l *TypeLoc) SetInvalidType(c *Context) {
	l.T = c.TheErrorType
}
