// Package ast implements the semantic-model core of the Lumina compiler:
// the compilation context that allocates, uniques, and canonicalizes every
// type and identifier node used during compilation.
//
// Structurally identical types are represented by exactly one node for the
// lifetime of a context, so type equality downstream is identity
// comparison. The context is single-writer: one logical thread of control
// per context, no internal synchronization, and everything a factory
// returns is immutable thereafter.
package ast

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/google/uuid"

	"github.com/lumina-lang/lumina/internal/allocator"
	"github.com/lumina-lang/lumina/internal/diagnostics"
	"github.com/lumina-lang/lumina/internal/position"
)

// LangOptions carries language-level configuration. The semantic model
// stores it for the lifetime of the context without interpreting it;
// surrounding phases read it back through the context.
type LangOptions struct {
	Target               string // target triple
	EnableForeignInterop bool
	DebugTypeInterning   bool // emit debug logs for table misses
}

// ContractViolation is the panic payload for internal invariant breaches:
// non-canonical substitution keys, double-set substitutions, zero-size
// arrays, use after teardown. These are compiler bugs, not user errors,
// and are never recoverable.
type ContractViolation struct {
	Invariant string
	Details   string
	Caller    string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("[CONTRACT:%s] %s (caller: %s)", e.Invariant, e.Details, e.Caller)
}

// violation builds a ContractViolation naming the invariant that was
// breached and the function that breached it.
func violation(invariant, format string, args ...any) *ContractViolation {
	caller := "unknown"

	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &ContractViolation{
		Invariant: invariant,
		Details:   fmt.Sprintf(format, args...),
		Caller:    caller,
	}
}

// nominalKey is the uniquing profile of the fixed-arity nominal variants.
type nominalKey struct {
	decl   NominalTypeDecl
	parent Type
}

// functionKey is the uniquing profile of monomorphic function types.
type functionKey struct {
	input       Type
	result      Type
	autoClosure bool
}

// arrayKey is the uniquing profile of fixed-size array types.
type arrayKey struct {
	base Type
	size uint64
}

// lvalueKey is the uniquing profile of lvalue types.
type lvalueKey struct {
	object Type
	quals  LValueQuals
}

// substitutedKey is the uniquing profile of substituted types.
type substitutedKey struct {
	original    Type
	replacement Type
}

// contextImpl holds the context's mutable guts: the arena, the identifier
// table, one uniquing table per node variant, and the bound-generic
// substitution store. Variable-arity profiles (tuples, bound generics,
// protocol compositions) are encoded byte strings; fixed-arity profiles
// are comparable key structs.
type contextImpl struct {
	arena *allocator.Arena

	identifiers map[string]*internedName
	nextNameID  uint64
	nextTypeID  uint64

	declIDs    map[NominalTypeDecl]uint64
	nextDeclID uint64

	tupleTypes           map[string]*TupleType
	parenTypes           map[Type]*ParenType
	structTypes          map[nominalKey]*StructType
	classTypes           map[nominalKey]*ClassType
	oneOfTypes           map[nominalKey]*OneOfType
	protocolTypes        map[nominalKey]*ProtocolType
	unboundGenericTypes  map[nominalKey]*UnboundGenericType
	boundGenericTypes    map[string]BoundGenericType
	functionTypes        map[functionKey]*FunctionType
	arrayTypes           map[arrayKey]*ArrayType
	arraySliceTypes      map[Type]*ArraySliceType
	integerTypes         map[uint32]*BuiltinIntegerType
	lvalueTypes          map[lvalueKey]*LValueType
	substitutedTypes     map[substitutedKey]*SubstitutedType
	protocolCompositions map[string]*ProtocolCompositionType
	moduleTypes          map[*Module]*ModuleType
	metaTypes            map[Type]*MetaTypeType

	boundGenericSubstitutions map[BoundGenericType][]Substitution

	nextTypeVariable uint64
}

// Context owns every node of one compilation unit's semantic model. It is
// created once per compilation unit and torn down once; teardown
// invalidates every node and handle it ever issued.
type Context struct {
	// ID tags this compilation unit in logs and debug output.
	ID uuid.UUID

	// LangOpts is stored at creation and never interpreted here.
	LangOpts LangOptions

	// Sources is the source-location collaborator, stored uninspected.
	Sources *position.SourceManager

	// Diags is the diagnostics collaborator; HadError forwards to it.
	Diags *diagnostics.Engine

	// TheBuiltinModule owns the builtin declarations.
	TheBuiltinModule *Module

	// Well-known singleton types, constructed exactly once at creation.
	TheErrorType          *ErrorType
	TheUnresolvedType     *UnresolvedType
	TheEmptyTupleType     Type
	TheRawPointerType     *BuiltinRawPointerType
	TheObjectPointerType  *BuiltinObjectPointerType
	TheForeignPointerType *BuiltinForeignPointerType
	TheIEEE16Type         *BuiltinFloatType
	TheIEEE32Type         *BuiltinFloatType
	TheIEEE64Type         *BuiltinFloatType
	TheIEEE80Type         *BuiltinFloatType
	TheIEEE128Type        *BuiltinFloatType
	ThePPC128Type         *BuiltinFloatType

	logger *slog.Logger
	impl   contextImpl
	closed bool
}

// NewContext creates a compilation context, pre-building the builtin
// singleton types. Sources and diags may not be nil; a nil logger
// discards all log output.
func NewContext(opts LangOptions, sources *position.SourceManager, diags *diagnostics.Engine, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Context{
		ID:       uuid.New(),
		LangOpts: opts,
		Sources:  sources,
		Diags:    diags,
	}
	c.logger = logger.With("section", "ast.context", "unit", c.ID)

	c.impl = contextImpl{
		arena:                     allocator.NewArena(nil),
		identifiers:               make(map[string]*internedName),
		declIDs:                   make(map[NominalTypeDecl]uint64),
		tupleTypes:                make(map[string]*TupleType),
		parenTypes:                make(map[Type]*ParenType),
		structTypes:               make(map[nominalKey]*StructType),
		classTypes:                make(map[nominalKey]*ClassType),
		oneOfTypes:                make(map[nominalKey]*OneOfType),
		protocolTypes:             make(map[nominalKey]*ProtocolType),
		unboundGenericTypes:       make(map[nominalKey]*UnboundGenericType),
		boundGenericTypes:         make(map[string]BoundGenericType),
		functionTypes:             make(map[functionKey]*FunctionType),
		arrayTypes:                make(map[arrayKey]*ArrayType),
		arraySliceTypes:           make(map[Type]*ArraySliceType),
		integerTypes:              make(map[uint32]*BuiltinIntegerType),
		lvalueTypes:               make(map[lvalueKey]*LValueType),
		substitutedTypes:          make(map[substitutedKey]*SubstitutedType),
		protocolCompositions:      make(map[string]*ProtocolCompositionType),
		moduleTypes:               make(map[*Module]*ModuleType),
		metaTypes:                 make(map[Type]*MetaTypeType),
		boundGenericSubstitutions: make(map[BoundGenericType][]Substitution),
	}

	c.TheBuiltinModule = c.NewModule(c.GetIdentifier("Builtin"), nil)

	c.TheErrorType = &ErrorType{c.newTypeBase(KindError, true, false, false)}
	c.TheUnresolvedType = &UnresolvedType{c.newTypeBase(KindUnresolved, true, true, false)}
	c.TheRawPointerType = &BuiltinRawPointerType{c.newTypeBase(KindBuiltinRawPointer, true, false, false)}
	c.TheObjectPointerType = &BuiltinObjectPointerType{c.newTypeBase(KindBuiltinObjectPointer, true, false, false)}
	c.TheForeignPointerType = &BuiltinForeignPointerType{c.newTypeBase(KindBuiltinForeignPointer, true, false, false)}

	c.TheIEEE16Type = c.newBuiltinFloat(FloatIEEE16)
	c.TheIEEE32Type = c.newBuiltinFloat(FloatIEEE32)
	c.TheIEEE64Type = c.newBuiltinFloat(FloatIEEE64)
	c.TheIEEE80Type = c.newBuiltinFloat(FloatIEEE80)
	c.TheIEEE128Type = c.newBuiltinFloat(FloatIEEE128)
	c.ThePPC128Type = c.newBuiltinFloat(FloatPPC128)

	c.TheEmptyTupleType = c.GetTupleType(nil)

	c.logger.Debug("context created", "target", opts.Target)

	return c
}

// newTypeBase assigns the next node ordinal and records the canonicality
// and propagation flags. The context back-reference is set iff canonical.
func (c *Context) newTypeBase(kind TypeKind, canonical, unresolved, typeVariable bool) typeBase {
	c.assertOpen()

	c.impl.nextTypeID++

	tb := typeBase{
		kind:         kind,
		id:           c.impl.nextTypeID,
		unresolved:   unresolved,
		typeVariable: typeVariable,
	}
	if canonical {
		tb.ctx = c
	}

	return tb
}

func (c *Context) newBuiltinFloat(sem FloatSemantics) *BuiltinFloatType {
	return &BuiltinFloatType{
		typeBase:  c.newTypeBase(KindBuiltinFloat, true, false, false),
		semantics: sem,
	}
}

// assertOpen panics if the context has been torn down. No node or handle
// may be requested after Close.
func (c *Context) assertOpen() {
	if c.closed {
		panic(violation("CONTEXT_CLOSED", "context %s used after Close", c.ID))
	}
}

// Allocate hands out raw arena memory tied to the context's lifetime.
// It never fails; out-of-memory is fatal to the process.
func (c *Context) Allocate(size, alignment uintptr) unsafe.Pointer {
	c.assertOpen()

	return c.impl.arena.AllocAligned(size, alignment)
}

// ArenaStats reports the context's arena usage.
func (c *Context) ArenaStats() allocator.Stats {
	c.assertOpen()

	return c.impl.arena.Stats()
}

// HadError reports whether the diagnostics collaborator has recorded any
// error. Pure query; forwarded verbatim.
func (c *Context) HadError() bool {
	return c.Diags.HadAnyError()
}

// Substitutions returns the substitution list recorded for a canonical
// bound generic type, or ok=false if none was ever set. Passing a
// non-canonical key is a contract violation.
func (c *Context) Substitutions(bound BoundGenericType) ([]Substitution, bool) {
	c.assertOpen()

	if !bound.IsCanonical() {
		panic(violation("SUBSTITUTION_KEY_CANONICAL",
			"substitution lookup on non-canonical type %s", bound))
	}

	subs, ok := c.impl.boundGenericSubstitutions[bound]

	return subs, ok
}

// SetSubstitutions records the substitution list for a canonical bound
// generic type. Each key may be set at most once; re-setting it or
// passing a non-canonical key is a contract violation.
func (c *Context) SetSubstitutions(bound BoundGenericType, subs []Substitution) {
	c.assertOpen()

	if !bound.IsCanonical() {
		panic(violation("SUBSTITUTION_KEY_CANONICAL",
			"substitutions set on non-canonical type %s", bound))
	}

	if _, exists := c.impl.boundGenericSubstitutions[bound]; exists {
		panic(violation("SUBSTITUTION_SET_ONCE",
			"substitutions already recorded for %s", bound))
	}

	owned := make([]Substitution, len(subs))
	copy(owned, subs)
	c.impl.boundGenericSubstitutions[bound] = owned

	c.logger.Debug("substitutions recorded", "type", bound.String(), "count", len(owned))
}

// Close tears the context down atomically: the substitution store and
// every uniquing table are discarded and the arena is released. Every
// node and handle issued by this context is invalid afterwards. Close is
// idempotent.
func (c *Context) Close() {
	if c.closed {
		return
	}

	stats := c.impl.arena.Stats()
	c.logger.Debug("context closing",
		"types", c.impl.nextTypeID,
		"identifiers", len(c.impl.identifiers),
		"arena_bytes", stats.TotalAllocated)

	c.impl.arena.Reset()
	c.impl = contextImpl{}
	c.closed = true
}
