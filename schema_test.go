package clixon

import "testing"

func loadSample(t *testing.T) *YangSpec {
	t.Helper()
	spec, err := Load([]string{"testdata/sample.yang"}, nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return spec
}

func TestLoad(t *testing.T) {
	spec := loadSample(t)
	if spec.FindTop("a") == nil {
		t.Fatalf("expected top-level container a")
	}
	if spec.FindTop("x") == nil {
		t.Fatalf("expected top-level list x")
	}
}

func TestSchemaNodeKinds(t *testing.T) {
	spec := loadSample(t)

	a := spec.FindTop("a")
	if !a.IsContainer() {
		t.Errorf("a: expected container")
	}
	b := a.FindChild("b")
	if b == nil || !b.IsLeaf() {
		t.Errorf("a/b: expected leaf")
	}

	x := spec.FindTop("x")
	if !x.IsList() {
		t.Errorf("x: expected list")
	}
	if got := x.Keyname; len(got) != 2 || got[0] != "k1" || got[1] != "k2" {
		t.Errorf("x: unexpected key names %v", got)
	}

	ll := spec.FindTop("ll")
	if !ll.IsLeafList() {
		t.Errorf("ll: expected leaf-list")
	}

	c := spec.FindTop("c")
	n := c.FindChild("n")
	if n == nil || !n.HasDefault() || n.DefaultValue() != "42" {
		t.Errorf("c/n: expected default \"42\"")
	}
}

func TestFindChildUnknown(t *testing.T) {
	spec := loadSample(t)
	a := spec.FindTop("a")
	if a.FindChild("nope") != nil {
		t.Errorf("expected nil for unknown child")
	}
}
