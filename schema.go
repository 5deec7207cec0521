package clixon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// SchemaNode wraps a goyang *yang.Entry with the bookkeeping SchemaCursor
// and the path compiler need: a typed parent pointer, an ordered child
// slice (goyang's Dir is a map and carries no declaration order), a
// by-name lookup directory, and the list of key-leaf names for list
// nodes (spec.md §3 YangStmt / §4.2 SchemaCursor).
type SchemaNode struct {
	*yang.Entry
	Parent    *SchemaNode
	Module    *yang.Module
	Children  []*SchemaNode
	Directory map[string]*SchemaNode
	Keyname   []string // key leaf names, in schema-declared order (list only)
	IsRoot    bool
}

func (schema *SchemaNode) String() string {
	if schema == nil {
		return "<nil>"
	}
	return schema.Name
}

// Keyword returns the YANG statement keyword of the schema node, the way
// spec.md §3 describes YangStmt.keyword.
func (schema *SchemaNode) Keyword() string {
	if schema.Node == nil {
		return ""
	}
	return schema.Node.Kind()
}

func (schema *SchemaNode) IsChoice() bool { return schema.Kind == yang.ChoiceEntry }
func (schema *SchemaNode) IsCase() bool   { return schema.Kind == yang.CaseEntry }

// IsList reports whether the schema node is a YANG list: a directory
// entry (it has children) carrying list attributes.
func (schema *SchemaNode) IsList() bool {
	return schema.Kind == yang.DirectoryEntry && schema.Entry.ListAttr != nil
}

// IsLeafList reports whether the schema node is a YANG leaf-list: a leaf
// entry (no children) carrying list attributes.
func (schema *SchemaNode) IsLeafList() bool {
	return schema.Kind == yang.LeafEntry && schema.Entry.ListAttr != nil
}

func (schema *SchemaNode) IsLeaf() bool {
	return schema.Kind == yang.LeafEntry && schema.Entry.ListAttr == nil
}

func (schema *SchemaNode) IsContainer() bool {
	return schema.Kind == yang.DirectoryEntry && schema.Entry.ListAttr == nil
}

// IsSchemaOnly reports whether the node is invisible on the data path
// (choice/case), per spec.md §4.1 schema_to_format.
func (schema *SchemaNode) IsSchemaOnly() bool {
	return schema.IsChoice() || schema.IsCase()
}

// HasDefault reports whether the leaf carries a schema default value.
func (schema *SchemaNode) HasDefault() bool {
	return schema.DefaultValue() != ""
}

// GetRootSchema walks up to the synthetic root schema node.
func (schema *SchemaNode) GetRootSchema() *SchemaNode {
	for schema != nil {
		if schema.IsRoot {
			return schema
		}
		schema = schema.Parent
	}
	return nil
}

// FindChild resolves a direct child by its unqualified name, skipping
// through choice/case layers the way YANG data-path resolution must
// (spec.md §4.1/§4.2 find_child).
func (schema *SchemaNode) FindChild(name string) *SchemaNode {
	if schema == nil {
		return nil
	}
	if child, ok := schema.Directory[name]; ok {
		return child
	}
	for _, c := range schema.Children {
		if c.IsSchemaOnly() {
			if found := c.FindChild(name); found != nil {
				return found
			}
		}
	}
	return nil
}

func buildSchemaNode(e *yang.Entry, module *yang.Module, parent *SchemaNode) *SchemaNode {
	n := &SchemaNode{
		Entry:     e,
		Parent:    parent,
		Module:    module,
		Directory: map[string]*SchemaNode{},
	}
	if e.Key != "" {
		n.Keyname = strings.Split(e.Key, " ")
	}
	if parent != nil {
		parent.Directory[e.Name] = n
		parent.Children = append(parent.Children, n)
	}
	// goyang iterates Dir as a map; sort by name so schema-declared
	// ordering is at least deterministic. List key leaves are still
	// emitted in Keyname order by the path codec, independent of this.
	names := make([]string, 0, len(e.Dir))
	for name := range e.Dir {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		buildSchemaNode(e.Dir[name], module, n)
	}
	return n
}

// YangSpec is the set of top-level modules loaded from YANG source, per
// spec.md §3. It is a SchemaNode: a synthetic root whose children are the
// top-level container/list/leaf statements of every loaded module.
type YangSpec = SchemaNode

// FindTop resolves a top-level statement by name (module-rooted), per
// spec.md §4.2 find_top.
func (schema *SchemaNode) FindTop(name string) *SchemaNode {
	root := schema.GetRootSchema()
	if root == nil {
		root = schema
	}
	return root.FindChild(name)
}

func findYangFiles(paths []string) ([]string, error) {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if fi.IsDir() {
			err := filepath.Walk(p, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(path) == ".yang" {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		if filepath.Ext(p) == ".yang" {
			files = append(files, p)
		}
	}
	return files, nil
}

// Load parses the given YANG files (searching dir for imports/includes,
// skipping modules named in excluded) and returns the synthetic root of
// the resulting schema tree.
func Load(files, dirs, excluded []string) (*YangSpec, error) {
	yfiles, err := findYangFiles(files)
	if err != nil {
		return nil, err
	}
	if len(yfiles) == 0 {
		return nil, fmt.Errorf("clixon: no yang file given")
	}
	yang.AddPath(dirs...)
	ms := yang.NewModules()
	for _, name := range yfiles {
		if err := ms.Read(name); err != nil {
			return nil, err
		}
	}
	if errs := ms.Process(); len(errs) > 0 {
		var b strings.Builder
		for _, e := range errs {
			fmt.Fprintf(&b, "%v\n", e)
		}
		return nil, fmt.Errorf("clixon: yang loading failed: %s", b.String())
	}

	root := &SchemaNode{
		Entry:     &yang.Entry{Name: "root", Kind: yang.DirectoryEntry, Dir: map[string]*yang.Entry{}},
		Directory: map[string]*SchemaNode{},
		IsRoot:    true,
	}

	modnames := make([]string, 0, len(ms.Modules))
	for modname := range ms.Modules {
		if strings.Contains(modname, "@") {
			continue // revision-qualified alias of a module already listed
		}
		modnames = append(modnames, modname)
	}
	sort.Strings(modnames)

	for _, modname := range modnames {
		skip := false
		for _, ex := range excluded {
			if modname == ex {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		module := ms.Modules[modname]
		entry := yang.ToEntry(module)
		names := make([]string, 0, len(entry.Dir))
		for name := range entry.Dir {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := entry.Dir[name]
			if _, exists := root.Entry.Dir[child.Name]; exists {
				return nil, fmt.Errorf("clixon: duplicated top-level schema node %q", child.Name)
			}
			child.Parent = root.Entry
			root.Entry.Dir[child.Name] = child
			buildSchemaNode(child, module, root)
		}
	}
	return root, nil
}
