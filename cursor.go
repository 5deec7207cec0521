package clixon

// SchemaCursor walks a YangSpec following named path elements taken from
// a split XmlKey, resolving list keys along the way (spec.md §4.2).
//
// The cursor only moves across *name* segments. A list or leaf-list's
// key-value segments are consumed by the caller (TreeAssembler,
// MutationEngine) while the cursor's current schema node stays put — see
// ValueArity.
type SchemaCursor struct {
	spec    *YangSpec
	current *SchemaNode
}

// NewSchemaCursor creates a cursor rooted at spec.
func NewSchemaCursor(spec *YangSpec) *SchemaCursor {
	return &SchemaCursor{spec: spec, current: spec}
}

// Current returns the schema node the cursor is presently at.
func (c *SchemaCursor) Current() *SchemaNode {
	return c.current
}

// Top resolves the first key element against the top-level modules
// (find_top), per spec.md §4.3 step 2.
func (c *SchemaCursor) Top(name string) (*SchemaNode, error) {
	n := c.spec.FindTop(name)
	if n == nil {
		return nil, NewErrorf(ETagUnknownNode, "unknown top-level node %q", name)
	}
	c.current = n
	return n, nil
}

// Descend resolves the next named element under the cursor's current
// node (find_child), per spec.md §4.2: container/other and list/leaf-list
// all resolve their own schema node the same way — only the number of
// value tokens consumed afterwards (ValueArity) differs by kind.
func (c *SchemaCursor) Descend(name string) (*SchemaNode, error) {
	n := c.current.FindChild(name)
	if n == nil {
		return nil, NewErrorf(ETagUnknownNode, "unknown node %q under %q", name, c.current.Name)
	}
	c.current = n
	return n, nil
}

// ValueArity returns the number of XmlKey value segments that follow a
// name segment for schema: the key-leaf count for a list, 1 for a
// leaf-list, 0 otherwise (spec.md §4.2, I4).
func ValueArity(schema *SchemaNode) int {
	switch {
	case schema.IsList():
		return len(schema.Keyname)
	case schema.IsLeafList():
		return 1
	default:
		return 0
	}
}
