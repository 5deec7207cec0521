package clixon

import "testing"

// TestFillDefaults covers scenario 4: default injection onto an already
// present container.
func TestFillDefaults(t *testing.T) {
	spec := loadSample(t)
	asm := NewTreeAssembler(spec)
	asm.Root().newChild(spec.FindTop("c"))
	FillDefaults(asm.Root(), spec)

	cNode := asm.Root().child("c")
	if cNode == nil {
		t.Fatalf("expected c to remain")
	}
	n := cNode.child("n")
	if n == nil || n.Body != "42" {
		t.Fatalf("expected c/n default 42, got %+v", n)
	}
}

// TestFillDefaultsSynthesizesAbsentContainer covers scenario 4 in full:
// an empty datastore, where "c" never appears in the instance tree at
// all, must still surface "c/n"'s schema default end-to-end through
// Facade.Get.
func TestFillDefaultsSynthesizesAbsentContainer(t *testing.T) {
	facade, _ := newTestFacade(t)

	tree, err := facade.Get("running", "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	cNode := tree.child("c")
	if cNode == nil {
		t.Fatalf("expected c to be synthesized from an empty datastore")
	}
	n := cNode.child("n")
	if n == nil || n.Body != "42" {
		t.Fatalf("expected synthesized c/n default 42, got %+v", n)
	}
}

// TestFillDefaultsDoesNotShadow covers P7: an explicit value is never
// overwritten by a default.
func TestFillDefaultsDoesNotShadow(t *testing.T) {
	spec := loadSample(t)
	asm := NewTreeAssembler(spec)
	if err := asm.Integrate("/c/n", "99"); err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	FillDefaults(asm.Root(), spec)

	n := asm.Root().child("c").child("n")
	if n.Body != "99" {
		t.Errorf("expected explicit value 99 preserved, got %q", n.Body)
	}
}

func TestSanityDetectsNameSchemaMismatch(t *testing.T) {
	spec := loadSample(t)
	asm := NewTreeAssembler(spec)
	if err := asm.Integrate("/a/b", "7"); err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	root := asm.Root()
	root.child("a").Name = "mismatched"

	errs := Sanity(root)
	if len(errs) == 0 {
		t.Fatalf("expected at least one violation")
	}
	for _, err := range errs {
		if !IsTag(err, ETagSchemaMismatch) {
			t.Errorf("unexpected error kind: %v", err)
		}
	}
}

func TestSanityCollectsAllViolations(t *testing.T) {
	spec := loadSample(t)
	asm := NewTreeAssembler(spec)
	if err := asm.Integrate("/a/b", "7"); err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if err := asm.Integrate("/ll/red", ""); err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	root := asm.Root()
	root.child("a").Name = "bad1"
	root.child("ll").Name = "bad2"

	errs := Sanity(root)
	if len(errs) != 2 {
		t.Fatalf("expected 2 violations collected, got %d: %v", len(errs), errs)
	}
}
