package clixon

// KV is the external, ordered on-disk key-value store contract
// (spec.md §1, §6): any sorted embedded store satisfying it suffices. The
// core (this package) depends only on this interface — a concrete binding
// lives in the kvstore subpackage (SPEC_FULL.md §3).
type KV interface {
	// Init prepares db for use, creating backing storage if necessary.
	Init(db string) error
	// Unlink removes db's backing storage entirely (used by top-level
	// "replace", spec.md §4.5).
	Unlink(db string) error

	// Get returns the value stored at key and whether it was present.
	Get(db string, key XmlKey) (value string, hasValue bool, found bool, err error)
	// Set stores value at key, creating or overwriting it. hasValue false
	// stores an empty-bodied (marker) entry.
	Set(db string, key XmlKey, value string, hasValue bool) error
	// Delete removes key. It is not an error to delete a missing key.
	Delete(db string, key XmlKey) error
	// Exists reports whether key is present.
	Exists(db string, key XmlKey) (bool, error)

	// Scan returns every pair whose key matches the regular expression
	// pattern. Ordering is not required (spec.md §6).
	Scan(db string, pattern string) ([]KVPair, error)
}

// KVPair is one entry returned by KV.Scan.
type KVPair struct {
	Key      XmlKey
	Value    string
	HasValue bool
}
