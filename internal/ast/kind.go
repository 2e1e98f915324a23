package ast

// TypeKind discriminates the concrete variants of the type node family.
type TypeKind int

const (
	KindError TypeKind = iota
	KindUnresolved
	KindBuiltinInteger
	KindBuiltinFloat
	KindBuiltinRawPointer
	KindBuiltinObjectPointer
	KindBuiltinForeignPointer
	KindTuple
	KindParen
	KindStruct
	KindClass
	KindOneOf
	KindProtocol
	KindUnboundGeneric
	KindBoundGenericStruct
	KindBoundGenericClass
	KindBoundGenericOneOf
	KindFunction
	KindPolymorphicFunction
	KindArray
	KindArraySlice
	KindLValue
	KindSubstituted
	KindProtocolComposition
	KindModule
	KindMetaType
	KindIdentifier
	KindTypeVariable
)

func (k TypeKind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindUnresolved:
		return "unresolved"
	case KindBuiltinInteger:
		return "builtin-integer"
	case KindBuiltinFloat:
		return "builtin-float"
	case KindBuiltinRawPointer:
		return "builtin-rawpointer"
	case KindBuiltinObjectPointer:
		return "builtin-objectpointer"
	case KindBuiltinForeignPointer:
		return "builtin-foreignpointer"
	case KindTuple:
		return "tuple"
	case KindParen:
		return "paren"
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	case KindOneOf:
		return "oneof"
	case KindProtocol:
		return "protocol"
	case KindUnboundGeneric:
		return "unbound-generic"
	case KindBoundGenericStruct:
		return "bound-generic-struct"
	case KindBoundGenericClass:
		return "bound-generic-class"
	case KindBoundGenericOneOf:
		return "bound-generic-oneof"
	case KindFunction:
		return "function"
	case KindPolymorphicFunction:
		return "polymorphic-function"
	case KindArray:
		return "array"
	case KindArraySlice:
		return "array-slice"
	case KindLValue:
		return "lvalue"
	case KindSubstituted:
		return "substituted"
	case KindProtocolComposition:
		return "protocol-composition"
	case KindModule:
		return "module"
	case KindMetaType:
		return "metatype"
	case KindIdentifier:
		return "identifier"
	case KindTypeVariable:
		return "type-variable"
	default:
		return "unknown"
	}
}

// FloatSemantics selects one member of the builtin floating-point family.
type FloatSemantics int

const (
	FloatIEEE16 FloatSemantics = iota
	FloatIEEE32
	FloatIEEE64
	FloatIEEE80
	FloatIEEE128
	FloatPPC128 // PowerPC double-double
)

func (f FloatSemantics) String() string {
	switch f {
	case FloatIEEE16:
		return "IEEE16"
	case FloatIEEE32:
		return "IEEE32"
	case FloatIEEE64:
		return "IEEE64"
	case FloatIEEE80:
		return "IEEE80"
	case FloatIEEE128:
		return "IEEE128"
	case FloatPPC128:
		return "PPC128"
	default:
		return "unknown"
	}
}

// BitWidth returns the storage width of the format in bits.
func (f FloatSemantics) BitWidth() int {
	switch f {
	case FloatIEEE16:
		return 16
	case FloatIEEE32:
		return 32
	case FloatIEEE64:
		return 64
	case FloatIEEE80:
		return 80
	case FloatIEEE128, FloatPPC128:
		return 128
	default:
		return 0
	}
}

// LValueQuals packs lvalue qualifier bits into one opaque scalar so the
// qualifier set can participate in uniquing keys directly.
type LValueQuals uint8

const (
	// QualImplicit marks lvalues materialized by the compiler rather than
	// written by the user.
	QualImplicit LValueQuals = 1 << iota
	// QualNonSettable marks lvalues that may be read but not assigned.
	QualNonSettable
)

// IsSettable reports whether assignment through the lvalue is permitted.
func (q LValueQuals) IsSettable() bool {
	return q&QualNonSettable == 0
}
