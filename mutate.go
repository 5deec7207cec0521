package clixon

import "regexp"

// Operation is a NETCONF edit-config operation (spec.md §3, §4.5, §6).
type Operation int

const (
	OpMerge Operation = iota
	OpReplace
	OpCreate
	OpDelete
	OpRemove
	OpNone
)

func (op Operation) String() string {
	switch op {
	case OpMerge:
		return "merge"
	case OpReplace:
		return "replace"
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpRemove:
		return "remove"
	case OpNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseOperation resolves the edit tree's "operation" attribute literal
// (spec.md §6); an unrecognized value raises BadOperation.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "merge":
		return OpMerge, nil
	case "replace":
		return OpReplace, nil
	case "create":
		return OpCreate, nil
	case "delete":
		return OpDelete, nil
	case "remove":
		return OpRemove, nil
	case "none":
		return OpNone, nil
	default:
		return 0, NewErrorf(ETagBadOperation, "unrecognized operation %q", s)
	}
}

// MutationEngine walks an edit tree or a single keyed edit, emitting KV
// writes/deletes under NETCONF operation semantics (spec.md §4.5,
// component C6).
type MutationEngine struct {
	KV   KV
	Spec *YangSpec
	DB   string
}

// NewMutationEngine builds an engine bound to db within kv, guided by spec.
func NewMutationEngine(kv KV, spec *YangSpec, db string) *MutationEngine {
	return &MutationEngine{KV: kv, Spec: spec, DB: db}
}

// WalkTree applies an edit tree rooted at a top-level element whose
// schema has already been resolved against the YangSpec (spec.md §4.5
// "Tree walk"). parentOp is the operation in effect before considering
// edit.Op (at the outermost call, the op Facade.Put was given).
// Writes are applied parent before child, siblings left to right, per the
// ordering guarantee in spec.md §5.
//
// A plain container never gets a literal KV entry of its own — the
// TreeAssembler reconstructs it purely from its descendants' keys (a bare
// "/name" key has fewer than 2 path elements and is rejected outright,
// spec.md §4.3 step 1). So "set value" at a container node is a no-op,
// and its existence is judged by whether anything exists under its key
// prefix rather than by a literal KV entry.
func (m *MutationEngine) WalkTree(edit *XmlNode, schema *SchemaNode, parentKey XmlKey, parentOp Operation) error {
	op := parentOp
	if edit.Op != nil {
		op = *edit.Op
	}

	key, err := composeKey(parentKey, edit, schema)
	if err != nil {
		return err
	}
	leaf := schema.IsLeaf() || schema.IsList() || schema.IsLeafList()

	switch op {
	case OpCreate:
		exists, err := m.existsNode(schema, key)
		if err != nil {
			return err
		}
		if exists {
			return NewErrorf(ETagCreateExists, "key %q already exists", key)
		}
		if leaf {
			if err := m.set(key, edit); err != nil {
				return err
			}
		}
	case OpMerge, OpReplace:
		if leaf {
			if err := m.set(key, edit); err != nil {
				return err
			}
		}
	case OpDelete:
		exists, err := m.existsNode(schema, key)
		if err != nil {
			return err
		}
		if !exists {
			return NewErrorf(ETagDeleteMissing, "key %q does not exist", key)
		}
		if err := m.deletePrefix(key); err != nil {
			return err
		}
	case OpRemove:
		if err := m.deletePrefix(key); err != nil {
			return err
		}
	case OpNone:
		// no KV write at this node; children still carry their own ops.
	default:
		return NewErrorf(ETagBadOperation, "unsupported operation %v", op)
	}

	for _, child := range edit.Children {
		childSchema := schema.FindChild(child.Name)
		if childSchema == nil {
			return NewErrorf(ETagUnknownNode, "unknown node %q under %q", child.Name, schema.Name)
		}
		if err := m.WalkTree(child, childSchema, key, op); err != nil {
			return err
		}
	}
	return nil
}

// composeKey appends /name(x) to parentKey, then — for list and
// leaf-list nodes — the key-leaf bodies or the leaf-list body, per
// spec.md §4.5 "Tree walk".
func composeKey(parentKey XmlKey, x *XmlNode, schema *SchemaNode) (XmlKey, error) {
	key := XmlKey(string(parentKey) + "/" + x.Name)
	switch {
	case schema.IsList():
		for _, kname := range schema.Keyname {
			kc := x.child(kname)
			if kc == nil {
				return "", NewErrorf(ETagMalformedKey,
					"list entry %q is missing its key leaf %q", x.ID(), kname)
			}
			key = XmlKey(string(key) + "/" + kc.Body)
		}
	case schema.IsLeafList():
		key = XmlKey(string(key) + "/" + x.Body)
	}
	return key, nil
}

func (m *MutationEngine) exists(key XmlKey) (bool, error) {
	ok, err := m.KV.Exists(m.DB, key)
	if err != nil {
		return false, NewErrorf(ETagKVScanFailed, "exists(%q): %v", key, err)
	}
	return ok, nil
}

// existsNode judges a node's existence the way it is written: leaves,
// list entries and leaf-list entries each carry a literal KV entry, so
// exact lookup suffices; a plain container never does, so its existence
// is judged by whether any entry exists under its key prefix instead.
func (m *MutationEngine) existsNode(schema *SchemaNode, key XmlKey) (bool, error) {
	if schema.IsLeaf() || schema.IsList() || schema.IsLeafList() {
		return m.exists(key)
	}
	pattern := "^" + regexp.QuoteMeta(string(key)) + ".*$"
	pairs, err := m.KV.Scan(m.DB, pattern)
	if err != nil {
		return false, NewErrorf(ETagKVScanFailed, "scan(%q): %v", pattern, err)
	}
	return len(pairs) > 0, nil
}

// set writes the node's body at key. A list entry's edit node has no body
// of its own, so it is written as an empty-bodied marker — "set value
// (empty body allowed)" per the create row of spec.md §4.5's table; a
// leaf-list entry is written with its value as the body. Plain containers
// never reach set (see WalkTree).
func (m *MutationEngine) set(key XmlKey, x *XmlNode) error {
	if err := m.KV.Set(m.DB, key, x.Body, x.HasBody); err != nil {
		return NewErrorf(ETagKVWriteFailed, "set(%q): %v", key, err)
	}
	return nil
}

func (m *MutationEngine) deletePrefix(key XmlKey) error {
	pattern := "^" + regexp.QuoteMeta(string(key)) + ".*$"
	pairs, err := m.KV.Scan(m.DB, pattern)
	if err != nil {
		return NewErrorf(ETagKVScanFailed, "scan(%q): %v", pattern, err)
	}
	for _, p := range pairs {
		if err := m.KV.Delete(m.DB, p.Key); err != nil {
			return NewErrorf(ETagKVWriteFailed, "delete(%q): %v", p.Key, err)
		}
	}
	return nil
}

// pathStep is one resolved step along a key walked by PutKey: the key at
// that point, the schema it resolves to, and — for a list step — the
// full sub-key and consumed value of each declared key leaf, needed to
// reconstruct the entry on a subsequent read (spec.md §4.5 "Key edit").
type pathStep struct {
	key         XmlKey
	schema      *SchemaNode
	keyLeafKeys []XmlKey
	keyLeafVals []string
	llValue     string
}

// buildStep resolves schema's own key, given that its name (and, for a
// nested step, the preceding name token) has already been matched by the
// caller's SchemaCursor; it consumes whatever key/leaf-list value tokens
// schema's kind additionally requires.
func buildStep(parentKey XmlKey, schema *SchemaNode, tokens []string, i *int, key XmlKey) (pathStep, error) {
	base := string(parentKey) + "/" + schema.Name
	step := pathStep{schema: schema}
	switch {
	case schema.IsList():
		if len(schema.Keyname) == 0 {
			return step, NewErrorf(ETagListWithoutKey, "list %q has no key statement", schema.Name)
		}
		step.keyLeafVals = make([]string, len(schema.Keyname))
		for j := range schema.Keyname {
			if *i >= len(tokens) {
				return step, NewErrorf(ETagMalformedKey, "key %q is missing a key value for list %q", key, schema.Name)
			}
			v := tokens[*i]
			*i++
			base += "/" + v
			step.keyLeafVals[j] = v
		}
		step.keyLeafKeys = make([]XmlKey, len(schema.Keyname))
		for j, kname := range schema.Keyname {
			step.keyLeafKeys[j] = XmlKey(base + "/" + kname)
		}
	case schema.IsLeafList():
		if *i >= len(tokens) {
			return step, NewErrorf(ETagMalformedKey, "key %q is missing a leaf-list value", key)
		}
		v := tokens[*i]
		*i++
		base += "/" + v
		step.llValue = v
	}
	step.key = XmlKey(base)
	return step, nil
}

// walkKeySteps resolves every path-segment step of key against spec,
// mirroring TreeAssembler.Integrate's walk but without building an
// XmlNode tree (spec.md §4.5 "Key edit").
func walkKeySteps(spec *YangSpec, key XmlKey) ([]pathStep, error) {
	tokens, err := SplitKey(key)
	if err != nil {
		return nil, err
	}
	cursor := NewSchemaCursor(spec)
	topSchema, err := cursor.Top(tokens[0])
	if err != nil {
		return nil, err
	}
	i := 1
	first, err := buildStep("", topSchema, tokens, &i, key)
	if err != nil {
		return nil, err
	}
	steps := []pathStep{first}

	for i < len(tokens) {
		name := tokens[i]
		i++
		childSchema, err := cursor.Descend(name)
		if err != nil {
			return nil, err
		}
		next, err := buildStep(steps[len(steps)-1].key, childSchema, tokens, &i, key)
		if err != nil {
			return nil, err
		}
		steps = append(steps, next)
	}
	return steps, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// writeIntermediates idempotently materializes every list-entry marker
// and leaf-list entry on the path, plus each list step's key-leaf
// values, so that a subsequent TreeAssembler read reconstructs the path
// correctly (spec.md §4.5 "Key edit"). Callers pass the full step chain,
// including the terminal step: a list/leaf-list step's own identity
// (its key-leaf values, or its leaf-list value) must be written whether
// or not it happens to be the terminal target of this edit — e.g.
// PutKey("/x/1/aa", ..., OpMerge) targets the entry marker itself as
// its terminal, but the entry's k1/k2 key-leaf values still need to be
// materialized here, since nothing else would ever write them.
func (m *MutationEngine) writeIntermediates(steps []pathStep) error {
	for _, s := range steps {
		switch {
		case s.schema.IsList():
			if err := m.KV.Set(m.DB, s.key, "", false); err != nil {
				return NewErrorf(ETagKVWriteFailed, "set(%q): %v", s.key, err)
			}
			for j, kkey := range s.keyLeafKeys {
				if err := m.KV.Set(m.DB, kkey, s.keyLeafVals[j], true); err != nil {
					return NewErrorf(ETagKVWriteFailed, "set(%q): %v", kkey, err)
				}
			}
		case s.schema.IsLeafList():
			if err := m.KV.Set(m.DB, s.key, s.llValue, true); err != nil {
				return NewErrorf(ETagKVWriteFailed, "set(%q): %v", s.key, err)
			}
		}
	}
	return nil
}

// PutKey performs a single keyed edit without an XML edit tree (spec.md
// §4.5 "Key edit", §4.6 put_key). For delete/remove, a terminal segment
// naming one of its enclosing list's own key leaves is lifted to the
// whole list-entry key: deleting a key leaf in isolation would desynchronize
// it from the sibling key leaves making up the entry's identity, so the
// spec requires the whole entry be removed instead (spec.md §9 (a)).
func (m *MutationEngine) PutKey(key XmlKey, value string, hasValue bool, op Operation) error {
	steps, err := walkKeySteps(m.Spec, key)
	if err != nil {
		return err
	}
	terminal := steps[len(steps)-1]

	// The lift to the whole list-entry key applies only to delete/remove
	// (spec.md §9 (a)): removing a key leaf in isolation would
	// desynchronize it from its sibling key leaves, so the whole entry
	// goes instead. create/merge/replace always target the terminal
	// segment itself — lifting there would make writing a key leaf in
	// isolation silently overwrite the entry's own marker value instead
	// (and would make OpCreate reject on the entry's existence rather
	// than the leaf's).
	deleteTarget := terminal.key
	if len(steps) >= 2 {
		parent := steps[len(steps)-2]
		if terminal.schema.IsLeaf() && parent.schema.IsList() && containsName(parent.schema.Keyname, terminal.schema.Name) {
			deleteTarget = parent.key
		}
	}

	switch op {
	case OpCreate:
		// Existence is checked before any write: writeIntermediates
		// would otherwise materialize the terminal's own key-leaf value
		// (when the terminal is itself a list entry's key leaf) moments
		// before the check ran, making every such create falsely report
		// CreateExists.
		exists, err := m.exists(terminal.key)
		if err != nil {
			return err
		}
		if exists {
			return NewErrorf(ETagCreateExists, "key %q already exists", terminal.key)
		}
		if err := m.writeIntermediates(steps); err != nil {
			return err
		}
		return m.setRaw(terminal.key, value, hasValue)
	case OpMerge, OpReplace:
		if err := m.writeIntermediates(steps); err != nil {
			return err
		}
		return m.setRaw(terminal.key, value, hasValue)
	case OpDelete:
		exists, err := m.exists(deleteTarget)
		if err != nil {
			return err
		}
		if !exists {
			return NewErrorf(ETagDeleteMissing, "key %q does not exist", deleteTarget)
		}
		return m.deletePrefix(deleteTarget)
	case OpRemove:
		return m.deletePrefix(deleteTarget)
	case OpNone:
		return nil
	default:
		return NewErrorf(ETagBadOperation, "unsupported operation %v", op)
	}
}

func (m *MutationEngine) setRaw(key XmlKey, value string, hasValue bool) error {
	if err := m.KV.Set(m.DB, key, value, hasValue); err != nil {
		return NewErrorf(ETagKVWriteFailed, "set(%q): %v", key, err)
	}
	return nil
}
