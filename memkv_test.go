package clixon

import "regexp"

// memKV is a minimal in-memory KV used by this package's tests, grounded
// on the same contract kvstore.Bolt implements (spec.md §6).
type memKV struct {
	dbs map[string]map[XmlKey]memEntry
}

type memEntry struct {
	value    string
	hasValue bool
}

func newMemKV() *memKV {
	return &memKV{dbs: map[string]map[XmlKey]memEntry{}}
}

func (m *memKV) bucket(db string) map[XmlKey]memEntry {
	b, ok := m.dbs[db]
	if !ok {
		b = map[XmlKey]memEntry{}
		m.dbs[db] = b
	}
	return b
}

func (m *memKV) Init(db string) error {
	m.bucket(db)
	return nil
}

func (m *memKV) Unlink(db string) error {
	delete(m.dbs, db)
	return nil
}

func (m *memKV) Get(db string, key XmlKey) (string, bool, bool, error) {
	e, found := m.bucket(db)[key]
	return e.value, e.hasValue, found, nil
}

func (m *memKV) Set(db string, key XmlKey, value string, hasValue bool) error {
	m.bucket(db)[key] = memEntry{value: value, hasValue: hasValue}
	return nil
}

func (m *memKV) Delete(db string, key XmlKey) error {
	delete(m.bucket(db), key)
	return nil
}

func (m *memKV) Exists(db string, key XmlKey) (bool, error) {
	_, found := m.bucket(db)[key]
	return found, nil
}

func (m *memKV) Scan(db string, pattern string) ([]KVPair, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var pairs []KVPair
	for k, e := range m.bucket(db) {
		if !re.MatchString(string(k)) {
			continue
		}
		pairs = append(pairs, KVPair{Key: k, Value: e.value, HasValue: e.hasValue})
	}
	return pairs, nil
}
