package ast

import (
	"github.com/Masterminds/semver/v3"

	"github.com/lumina-lang/lumina/internal/position"
)

// DeclKind tags the concrete kind of a nominal type declaration. The
// interning engine reads the tag for factory dispatch and nothing else.
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclClass
	DeclOneOf
	DeclProtocol
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclClass:
		return "class"
	case DeclOneOf:
		return "oneof"
	case DeclProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// NominalTypeDecl is the opaque declaration collaborator. Declarations are
// inputs the interning engine uses purely as identity keys; their semantic
// content belongs to the declaration subsystem.
type NominalTypeDecl interface {
	DeclName() Identifier
	DeclKind() DeclKind
	GenericParams() *GenericParamList
	nominalDecl()
}

// declBase carries the fields shared by every nominal declaration.
type declBase struct {
	name    Identifier
	generic *GenericParamList
	span    position.Span
}

func (d *declBase) DeclName() Identifier             { return d.name }
func (d *declBase) GenericParams() *GenericParamList { return d.generic }
func (d *declBase) DeclSpan() position.Span          { return d.span }
func (d *declBase) nominalDecl()                     {}

// IsGeneric reports whether the declaration introduces type parameters.
func (d *declBase) IsGeneric() bool { return d.generic != nil }

// StructDecl declares a struct nominal type.
type StructDecl struct{ declBase }

func (d *StructDecl) DeclKind() DeclKind { return DeclStruct }

// ClassDecl declares a class nominal type.
type ClassDecl struct{ declBase }

func (d *ClassDecl) DeclKind() DeclKind { return DeclClass }

// OneOfDecl declares a discriminated-union nominal type.
type OneOfDecl struct{ declBase }

func (d *OneOfDecl) DeclKind() DeclKind { return DeclOneOf }

// ProtocolDecl declares a protocol nominal type.
type ProtocolDecl struct{ declBase }

func (d *ProtocolDecl) DeclKind() DeclKind { return DeclProtocol }

// NewStructDecl creates a struct declaration keyed by name.
func NewStructDecl(name Identifier, generic *GenericParamList) *StructDecl {
	return &StructDecl{declBase{name: name, generic: generic}}
}

// NewClassDecl creates a class declaration keyed by name.
func NewClassDecl(name Identifier, generic *GenericParamList) *ClassDecl {
	return &ClassDecl{declBase{name: name, generic: generic}}
}

// NewOneOfDecl creates a oneof declaration keyed by name.
func NewOneOfDecl(name Identifier, generic *GenericParamList) *OneOfDecl {
	return &OneOfDecl{declBase{name: name, generic: generic}}
}

// NewProtocolDecl creates a protocol declaration keyed by name.
func NewProtocolDecl(name Identifier) *ProtocolDecl {
	return &ProtocolDecl{declBase{name: name}}
}

// GenericParamList lists the type parameters a generic declaration
// introduces. The interning engine stores it uninspected.
type GenericParamList struct {
	Params []Identifier
}

// Module identifies a module for module-type uniquing. Modules carry an
// optional semantic version so diagnostics agree with the package
// manager's versioned view of the dependency graph.
type Module struct {
	name    Identifier
	version *semver.Version
	ctx     *Context
}

// NewModule registers a module identity with this context.
func (c *Context) NewModule(name Identifier, version *semver.Version) *Module {
	return &Module{name: name, version: version, ctx: c}
}

// Name returns the module's name.
func (m *Module) Name() Identifier { return m.name }

// Version returns the module's semantic version, or nil if unversioned.
func (m *Module) Version() *semver.Version { return m.version }

// Context returns the compilation context that owns this module identity.
func (m *Module) Context() *Context { return m.ctx }

func (m *Module) String() string {
	if m.version != nil {
		return m.name.String() + "@" + m.version.String()
	}

	return m.name.String()
}

// Expr is the opaque expression collaborator. The interning engine stores
// and copies expression handles but never evaluates them.
type Expr interface {
	Span() position.Span
}

// ExprHandle wraps an expression so a type node can reference it by
// identity. Distinct handles are never equal, even when they wrap the
// same expression; tuple default values rely on this.
type ExprHandle struct {
	expr Expr
}

// NewExprHandle wraps an expression in a context-owned handle.
func (c *Context) NewExprHandle(e Expr) *ExprHandle {
	return &ExprHandle{expr: e}
}

// Expr returns the wrapped expression.
func (h *ExprHandle) Expr() Expr { return h.expr }

// Substitution binds one generic type parameter to a concrete argument
// type.
type Substitution struct {
	Param       Identifier
	Replacement Type
}
