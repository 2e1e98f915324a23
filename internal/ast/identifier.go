package ast

// internedName is the context-owned record backing one interned
// identifier. Its text aliases arena storage; the record itself is the
// identity the Identifier handle compares by.
type internedName struct {
	text string
	id   uint64 // stable ordinal used when encoding uniquing profiles
}

// Identifier is an opaque handle to an interned string. Two identifiers
// are equal iff their handles are equal; no string comparison is ever
// needed. The zero value is the null identifier, produced by interning
// the empty string and distinct from every interned name.
type Identifier struct {
	name *internedName
}

// IsEmpty reports whether this is the null identifier.
func (id Identifier) IsEmpty() bool {
	return id.name == nil
}

// String returns the identifier text, or "" for the null identifier.
func (id Identifier) String() string {
	if id.name == nil {
		return ""
	}

	return id.name.text
}

// profileOrdinal returns a stable non-zero ordinal for profile encoding,
// or 0 for the null identifier.
func (id Identifier) profileOrdinal() uint64 {
	if id.name == nil {
		return 0
	}

	return id.name.id
}

// GetIdentifier returns the uniqued, context-owned handle for text.
// The empty string yields the null identifier without touching the table.
func (c *Context) GetIdentifier(text string) Identifier {
	if text == "" {
		return Identifier{}
	}

	c.assertOpen()

	if name, ok := c.impl.identifiers[text]; ok {
		return Identifier{name: name}
	}

	c.impl.nextNameID++
	name := &internedName{
		text: c.impl.arena.AllocString(text),
		id:   c.impl.nextNameID,
	}
	c.impl.identifiers[name.text] = name

	return Identifier{name: name}
}
