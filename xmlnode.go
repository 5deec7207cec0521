package clixon

import "sort"

// XmlNode is the tagged tree node of spec.md §3: either an element
// (Children non-nil, Body absent) such as a container or list entry, or
// a leaf holding text (Body set, no Children) — a leaf or a single
// leaf-list value. An element has at most one body "child" by I1/§3; this
// implementation folds that body directly onto the element rather than
// nesting a separate body node, which is the same shape the spec
// describes with one fewer allocation per leaf.
type XmlNode struct {
	Name     string
	Schema   *SchemaNode
	Parent   *XmlNode
	Children []*XmlNode
	Body     string
	HasBody  bool
	Marked   bool // MARK bit, spec.md §3 I5 — transient, cleared per read

	// Op, when non-nil, is the "operation" attribute of an edit-tree node
	// (spec.md §4.5, §6): merge/replace/create/delete/remove/none. A nil
	// Op means the node inherits its parent's effective operation.
	Op *Operation
}

// IsLeaf reports whether the node holds a body value rather than children.
func (n *XmlNode) IsLeaf() bool { return n.HasBody || (n.Schema != nil && n.Schema.IsLeaf()) }

// ID returns a human-readable identifier (NODE or NODE[KEY=VALUE]) used in
// error messages, the way the reference's DataNode.ID() is used throughout
// its error paths (see SPEC_FULL.md §4 "Supplemented features").
func (n *XmlNode) ID() string {
	if n.Schema == nil || !n.Schema.IsList() || len(n.Schema.Keyname) == 0 {
		return n.Name
	}
	id := n.Name
	for _, k := range n.Schema.Keyname {
		if kn := n.child(k); kn != nil {
			id += "[" + k + "=" + kn.Body + "]"
		}
	}
	return id
}

// child returns the first direct child named name, or nil.
func (n *XmlNode) child(name string) *XmlNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// keyValues returns the body values of this element's key-leaf children,
// in schema-declared key order.
func (n *XmlNode) keyValues() []string {
	vals := make([]string, len(n.Schema.Keyname))
	for i, k := range n.Schema.Keyname {
		if c := n.child(k); c != nil {
			vals[i] = c.Body
		}
	}
	return vals
}

func sameKeyTuple(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// findListEntry locates an existing list entry among parent's children
// whose schema matches listSchema and whose key tuple matches keyValues
// (spec.md §4.3 "Ordering & tie-breaks": equality is byte-wise compare).
func (n *XmlNode) findListEntry(listSchema *SchemaNode, keyValues []string) *XmlNode {
	for _, c := range n.Children {
		if c.Schema == listSchema && sameKeyTuple(c.keyValues(), keyValues) {
			return c
		}
	}
	return nil
}

// findLeafListValue locates an existing leaf-list sibling holding value.
func (n *XmlNode) findLeafListValue(llSchema *SchemaNode, value string) *XmlNode {
	for _, c := range n.Children {
		if c.Schema == llSchema && c.Body == value {
			return c
		}
	}
	return nil
}

// newChild appends and returns a new, empty child element bound to
// schema.
func (n *XmlNode) newChild(schema *SchemaNode) *XmlNode {
	c := &XmlNode{Name: schema.Name, Schema: schema, Parent: n}
	n.Children = append(n.Children, c)
	return c
}

// setBody attaches value as the element's body if it does not already
// have one (spec.md §4.3 step 4, §4.3 "Ordering & tie-breaks": creation is
// idempotent; §8 P7: an explicit value is never overwritten by a default,
// and by the same idempotence this applies to re-integration of the same
// pair too).
func (n *XmlNode) setBody(value string) {
	if !n.HasBody {
		n.Body = value
		n.HasBody = true
	}
}

// sortChildren orders children deterministically, independent of the
// enumeration order pairs arrived in (spec.md §8 P1): first by name, then
// — for repeated list/leaf-list siblings — by key tuple / value using a
// byte-wise compare.
func sortChildren(n *XmlNode) {
	for _, c := range n.Children {
		sortChildren(c)
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Schema != nil && a.Schema.IsList() {
			ak, bk := a.keyValues(), b.keyValues()
			for x := 0; x < len(ak) && x < len(bk); x++ {
				if ak[x] != bk[x] {
					return ak[x] < bk[x]
				}
			}
			return false
		}
		if a.Schema != nil && a.Schema.IsLeafList() {
			return a.Body < b.Body
		}
		return false
	})
}

// ClearMarks recursively clears the MARK bit, per spec.md §3 I5 ("MARK
// bits are transient — cleared at the start of each read operation").
func ClearMarks(n *XmlNode) {
	n.Marked = false
	for _, c := range n.Children {
		ClearMarks(c)
	}
}

// TreeAssembler materializes KV pairs into an XML tree guided by a
// SchemaCursor (spec.md §4.3, component C3).
type TreeAssembler struct {
	spec *YangSpec
	root *XmlNode
}

// NewTreeAssembler allocates a fresh synthetic root and returns an
// assembler ready to Integrate pairs against spec.
func NewTreeAssembler(spec *YangSpec) *TreeAssembler {
	return &TreeAssembler{spec: spec, root: &XmlNode{Name: "root"}}
}

// Root returns the tree assembled so far.
func (a *TreeAssembler) Root() *XmlNode { return a.root }

// resolveStep locates or creates, under parent, the node for schema given
// the tokens starting at *i (which has already been advanced past
// schema's own name token, if any), consuming whatever key/leaf-list
// value tokens schema's kind requires (spec.md §4.2 "three behaviors").
func resolveStep(parent *XmlNode, schema *SchemaNode, tokens []string, i *int, key XmlKey) (*XmlNode, error) {
	switch {
	case schema.IsList():
		if len(schema.Keyname) == 0 {
			return nil, NewErrorf(ETagListWithoutKey, "list %q has no key statement", schema.Name)
		}
		keyValues := make([]string, len(schema.Keyname))
		for j := range schema.Keyname {
			if *i >= len(tokens) {
				return nil, NewErrorf(ETagMalformedKey, "key %q is missing a key value for list %q", key, schema.Name)
			}
			keyValues[j] = tokens[*i]
			*i++
		}
		entry := parent.findListEntry(schema, keyValues)
		if entry == nil {
			entry = parent.newChild(schema)
			for j, kname := range schema.Keyname {
				keySchema := schema.FindChild(kname)
				if keySchema == nil {
					return nil, NewErrorf(ETagSchemaMismatch, "list %q key %q has no matching leaf", schema.Name, kname)
				}
				kc := entry.newChild(keySchema)
				kc.setBody(keyValues[j])
			}
		}
		return entry, nil
	case schema.IsLeafList():
		if *i >= len(tokens) {
			return nil, NewErrorf(ETagMalformedKey, "key %q is missing a leaf-list value", key)
		}
		v := tokens[*i]
		*i++
		entry := parent.findLeafListValue(schema, v)
		if entry == nil {
			entry = parent.newChild(schema)
			entry.setBody(v)
		}
		return entry, nil
	default:
		child := parent.child(schema.Name)
		if child == nil || child.Schema != schema {
			child = parent.newChild(schema)
		}
		return child, nil
	}
}

// Integrate folds one (XmlKey, value) pair into the tree, per spec.md
// §4.3. value is empty ("") for a pair with no associated leaf value
// (e.g. a list-entry marker key).
func (a *TreeAssembler) Integrate(key XmlKey, value string) error {
	tokens, err := SplitKey(key)
	if err != nil {
		return err
	}

	cursor := NewSchemaCursor(a.spec)
	topSchema, err := cursor.Top(tokens[0])
	if err != nil {
		return err
	}
	i := 1
	current, err := resolveStep(a.root, topSchema, tokens, &i, key)
	if err != nil {
		return err
	}

	for i < len(tokens) {
		name := tokens[i]
		i++
		childSchema, err := cursor.Descend(name)
		if err != nil {
			return err
		}
		current, err = resolveStep(current, childSchema, tokens, &i, key)
		if err != nil {
			return err
		}
	}
	if value != "" {
		current.setBody(value)
	}
	return nil
}

// Sort finalizes the assembled tree into its deterministic presentation
// order (spec.md §8 P1). The facade calls this once after all pairs have
// been integrated.
func (a *TreeAssembler) Sort() { sortChildren(a.root) }
