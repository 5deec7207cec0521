package clixon

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// xmlNodeCmpOpts lets cmp.Diff compare *XmlNode trees structurally: the
// Parent back-pointer is ignored (it would otherwise make every tree
// cyclic), and *SchemaNode is compared by identity rather than
// recursively, since both sides of any comparison here are built from
// the same loaded YangSpec and a schema node's own Parent/Directory
// fields are themselves cyclic.
var xmlNodeCmpOpts = cmp.Options{
	cmpopts.IgnoreFields(XmlNode{}, "Parent"),
	cmp.Comparer(func(a, b *SchemaNode) bool { return a == b }),
}

// kvPairCmpOpts lets cmp.Diff compare []KVPair as sets: KV.Scan makes no
// ordering guarantee (spec.md §6), so pairs are sorted by key before
// comparison.
var kvPairCmpOpts = cmp.Options{
	cmpopts.SortSlices(func(a, b KVPair) bool { return a.Key < b.Key }),
}
