package clixon

import (
	"bytes"
	"strings"
	"testing"
)

func TestSerializeLeafAndContainer(t *testing.T) {
	spec := loadSample(t)
	root := &XmlNode{Name: "root"}
	a := root.newChild(spec.FindTop("a"))
	a.newChild(spec.FindTop("a").FindChild("b")).setBody("7")

	var buf bytes.Buffer
	if err := Serialize(&buf, root); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<a>") || !strings.Contains(out, "<b>7</b>") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSerializeListEntry(t *testing.T) {
	spec := loadSample(t)
	root := &XmlNode{Name: "root"}
	x := root.newChild(spec.FindTop("x"))
	x.newChild(spec.FindTop("x").FindChild("k1")).setBody("1")
	x.newChild(spec.FindTop("x").FindChild("k2")).setBody("aa")

	var buf bytes.Buffer
	if err := Serialize(&buf, root); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<x>") || !strings.Contains(out, "<k1>1</k1>") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSerializeSkipsSyntheticRoot(t *testing.T) {
	root := &XmlNode{Name: "root"}
	var buf bytes.Buffer
	if err := Serialize(&buf, root); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for an empty tree, got %q", buf.String())
	}
}
