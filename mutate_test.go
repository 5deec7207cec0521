package clixon

import "testing"

func TestParseOperation(t *testing.T) {
	cases := map[string]Operation{
		"merge": OpMerge, "replace": OpReplace, "create": OpCreate,
		"delete": OpDelete, "remove": OpRemove, "none": OpNone,
	}
	for s, want := range cases {
		got, err := ParseOperation(s)
		if err != nil {
			t.Fatalf("ParseOperation(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("ParseOperation(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParseOperation("bogus"); !IsTag(err, ETagBadOperation) {
		t.Fatalf("expected BadOperation, got %v", err)
	}
}

func TestPutKeyCreateWritesKeyLeaves(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	eng := NewMutationEngine(kv, spec, "running")

	if err := eng.PutKey("/x/1/aa", "", false, OpCreate); err != nil {
		t.Fatalf("PutKey: %v", err)
	}

	for _, want := range []struct {
		key   XmlKey
		value string
	}{
		{"/x/1/aa/k1", "1"},
		{"/x/1/aa/k2", "aa"},
	} {
		value, hasValue, found, err := kv.Get("running", want.key)
		if err != nil {
			t.Fatalf("Get(%q): %v", want.key, err)
		}
		if !found || !hasValue || value != want.value {
			t.Errorf("Get(%q) = (%q, %v, %v), want (%q, true, true)", want.key, value, hasValue, found, want.value)
		}
	}
}

// TestPutKeyCreateConflict covers scenario 7.
func TestPutKeyCreateConflict(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	kv.Set("running", "/a/b", "7", true)
	eng := NewMutationEngine(kv, spec, "running")

	err := eng.PutKey("/a/b", "8", true, OpCreate)
	if !IsTag(err, ETagCreateExists) {
		t.Fatalf("expected CreateExists, got %v", err)
	}
	value, _, _, _ := kv.Get("running", "/a/b")
	if value != "7" {
		t.Errorf("expected value to remain 7, got %q", value)
	}
}

func TestPutKeyDeleteMissing(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	eng := NewMutationEngine(kv, spec, "running")

	err := eng.PutKey("/a/b", "", false, OpDelete)
	if !IsTag(err, ETagDeleteMissing) {
		t.Fatalf("expected DeleteMissing, got %v", err)
	}
}

// TestPutKeyDeleteLiftsToListEntry covers the §9 (a) resolution: deleting
// a list's own key leaf removes the whole entry.
func TestPutKeyDeleteLiftsToListEntry(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	eng := NewMutationEngine(kv, spec, "running")
	for _, p := range []struct {
		key   XmlKey
		value string
	}{
		{"/x/1/aa", ""}, {"/x/1/aa/k1", "1"}, {"/x/1/aa/k2", "aa"}, {"/x/1/aa/v", "hello"},
	} {
		if err := eng.PutKey(p.key, p.value, p.value != "", OpMerge); err != nil {
			t.Fatalf("PutKey(%q): %v", p.key, err)
		}
	}

	if err := eng.PutKey("/x/1/aa/k1", "1", true, OpDelete); err != nil {
		t.Fatalf("PutKey delete: %v", err)
	}

	for _, key := range []XmlKey{"/x/1/aa", "/x/1/aa/k1", "/x/1/aa/k2", "/x/1/aa/v"} {
		if found, _ := kv.Exists("running", key); found {
			t.Errorf("expected %q to be removed along with its entry", key)
		}
	}
}

// TestPutKeyMergeOnKeyLeafDoesNotCorruptMarker guards against lifting
// the write target to the whole list-entry key on merge/create (the
// lift is delete/remove only, spec.md §9 (a)): writing a key leaf in
// isolation must leave the entry's own marker empty, not give it the
// key leaf's value, or the entry would serialize as a leaf and lose its
// other children on the next Get.
func TestPutKeyMergeOnKeyLeafDoesNotCorruptMarker(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	eng := NewMutationEngine(kv, spec, "running")

	if err := eng.PutKey("/x/1/aa/k1", "1", true, OpMerge); err != nil {
		t.Fatalf("PutKey: %v", err)
	}

	value, hasValue, found, err := kv.Get("running", "/x/1/aa")
	if err != nil {
		t.Fatalf("Get(marker): %v", err)
	}
	if !found || hasValue {
		t.Fatalf("entry marker = (value=%q, hasValue=%v, found=%v), want (\"\", false, true)", value, hasValue, found)
	}
	value, hasValue, found, err = kv.Get("running", "/x/1/aa/k1")
	if err != nil {
		t.Fatalf("Get(k1): %v", err)
	}
	if !found || !hasValue || value != "1" {
		t.Fatalf("k1 = (%q, %v, %v), want (1, true, true)", value, hasValue, found)
	}
}

// TestPutKeyCreateKeyLeafChecksLeafNotEntry guards against the create
// existence check being lifted to the whole entry: creating a key leaf
// directly (e.g. "/x/1/aa/k1") must check the leaf's own existence, not
// the entry's — the entry already exists the moment its marker is
// written, so lifting the check there would make every such create
// falsely report CreateExists.
func TestPutKeyCreateKeyLeafChecksLeafNotEntry(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	kv.Set("running", "/x/1/aa", "", false)
	eng := NewMutationEngine(kv, spec, "running")

	if err := eng.PutKey("/x/1/aa/k1", "1", true, OpCreate); err != nil {
		t.Fatalf("PutKey create on key leaf under existing entry: %v", err)
	}
	value, hasValue, found, err := kv.Get("running", "/x/1/aa/k1")
	if err != nil {
		t.Fatalf("Get(k1): %v", err)
	}
	if !found || !hasValue || value != "1" {
		t.Fatalf("k1 = (%q, %v, %v), want (1, true, true)", value, hasValue, found)
	}
}

// TestWalkTreeRejectsIncompleteListEntry guards against composeKey
// silently dropping a missing key-leaf segment: an edit-tree list entry
// that is missing one of its declared key leaves must be rejected at
// Put time, not accepted and written under a truncated key.
func TestWalkTreeRejectsIncompleteListEntry(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	eng := NewMutationEngine(kv, spec, "running")

	xSchema := spec.FindTop("x")
	entry := &XmlNode{Name: "x", Schema: xSchema}
	entry.newChild(xSchema.FindChild("k1")).setBody("1")
	// k2 intentionally omitted.

	err := eng.WalkTree(entry, xSchema, "", OpMerge)
	if !IsTag(err, ETagMalformedKey) {
		t.Fatalf("expected MalformedKey for an entry missing a key leaf, got %v", err)
	}
}

func TestWalkTreeCreatePrecondition(t *testing.T) {
	spec := loadSample(t)
	kv := newMemKV()
	kv.Init("running")
	eng := NewMutationEngine(kv, spec, "running")

	edit := &XmlNode{Name: "a", Schema: spec.FindTop("a")}
	b := edit.newChild(spec.FindTop("a").FindChild("b"))
	b.setBody("7")

	if err := eng.WalkTree(edit, spec.FindTop("a"), "", OpCreate); err != nil {
		t.Fatalf("WalkTree: %v", err)
	}
	if err := eng.WalkTree(edit, spec.FindTop("a"), "", OpCreate); !IsTag(err, ETagCreateExists) {
		t.Fatalf("expected CreateExists on second create, got %v", err)
	}
}
