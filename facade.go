package clixon

import "github.com/sirupsen/logrus"

// Facade is the public DatastoreFacade (spec.md §4.6, component C7): the
// single entry point get/get_vec/put/put_key orchestrate over, binding a
// YangSpec and a KV backend together the way the reference's handle
// threads logging, session state and YANG spec through every call.
type Facade struct {
	KV   KV
	Spec *YangSpec
	Log  *logrus.Entry
}

// NewFacade builds a facade over kv guided by spec, logging through log
// (a nil log falls back to a standard logrus entry at Info level).
func NewFacade(kv KV, spec *YangSpec, log *logrus.Entry) *Facade {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Facade{KV: kv, Spec: spec, Log: log}
}

// Get loads every pair from db, assembles a tree, optionally prunes it to
// xpath's matches, fills schema defaults, and validates (spec.md §4.6
// get). An empty xpath skips pruning.
func (f *Facade) Get(db, xpath string) (*XmlNode, error) {
	root, err := f.assemble(db)
	if err != nil {
		return nil, err
	}
	if xpath != "" {
		matches, err := Evaluate(root, xpath)
		if err != nil {
			return nil, err
		}
		Mark(matches)
		Prune(root)
	}
	FillDefaults(root, f.Spec)
	if errs := Sanity(root); len(errs) > 0 {
		f.Log.WithField("violations", len(errs)).Warn("sanity check found violations")
		return root, errs[0]
	}
	return root, nil
}

// GetVec is Get, additionally returning the unpruned match vector xpath
// selected (spec.md §4.6 get_vec).
func (f *Facade) GetVec(db, xpath string) (*XmlNode, []*XmlNode, error) {
	root, err := f.assemble(db)
	if err != nil {
		return nil, nil, err
	}
	matches, err := Evaluate(root, xpath)
	if err != nil {
		return nil, nil, err
	}
	if xpath != "" {
		Mark(matches)
		Prune(root)
	}
	FillDefaults(root, f.Spec)
	if errs := Sanity(root); len(errs) > 0 {
		f.Log.WithField("violations", len(errs)).Warn("sanity check found violations")
		return root, matches, errs[0]
	}
	return root, matches, nil
}

func (f *Facade) assemble(db string) (*XmlNode, error) {
	pairs, err := f.KV.Scan(db, "")
	if err != nil {
		return nil, NewErrorf(ETagKVScanFailed, "scan(%q): %v", db, err)
	}
	asm := NewTreeAssembler(f.Spec)
	for _, p := range pairs {
		value := ""
		if p.HasValue {
			value = p.Value
		}
		if err := asm.Integrate(p.Key, value); err != nil {
			return nil, err
		}
	}
	asm.Sort()
	return asm.Root(), nil
}

// Put applies edit, a tree whose top-level elements are bound to schema
// via find_top, under op (spec.md §4.6 put). A top-level "replace"
// discards db's prior contents first.
func (f *Facade) Put(db string, edit *XmlNode, op Operation) error {
	if op == OpReplace {
		if err := f.KV.Unlink(db); err != nil {
			return NewErrorf(ETagKVInitFailed, "unlink(%q): %v", db, err)
		}
		if err := f.KV.Init(db); err != nil {
			return NewErrorf(ETagKVInitFailed, "init(%q): %v", db, err)
		}
	}
	eng := NewMutationEngine(f.KV, f.Spec, db)
	for _, top := range edit.Children {
		schema := f.Spec.FindTop(top.Name)
		if schema == nil {
			return NewErrorf(ETagUnknownNode, "unknown top-level node %q", top.Name)
		}
		if err := eng.WalkTree(top, schema, "", op); err != nil {
			return err
		}
	}
	return nil
}

// PutKey applies a single keyed edit without constructing a tree
// (spec.md §4.6 put_key).
func (f *Facade) PutKey(db string, key XmlKey, value string, hasValue bool, op Operation) error {
	eng := NewMutationEngine(f.KV, f.Spec, db)
	return eng.PutKey(key, value, hasValue, op)
}
