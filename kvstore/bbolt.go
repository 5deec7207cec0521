// Package kvstore provides a concrete, ordered embedded-store binding
// for the clixon.KV contract (spec.md §6), backed by bbolt. The core
// package never imports this package directly — it depends only on the
// KV interface — so a different backend can be substituted without
// touching the datastore logic (SPEC_FULL.md §3).
package kvstore

import (
	"regexp"

	"github.com/askorichenko/clixon"
	bolt "go.etcd.io/bbolt"
)

const hasValueMarker = 0x01
const noValueMarker = 0x00

// Bolt is a clixon.KV implementation backed by a single bbolt file; each
// named datastore gets its own top-level bucket within it.
type Bolt struct {
	path string
	db   *bolt.DB
}

// Open opens (creating if necessary) the bbolt file at path.
func Open(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &Bolt{path: path, db: db}, nil
}

// Close releases the underlying file handle.
func (b *Bolt) Close() error { return b.db.Close() }

func (b *Bolt) Init(db string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(db))
		return err
	})
}

func (b *Bolt) Unlink(db string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(db)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(db))
	})
}

func (b *Bolt) Get(db string, key clixon.XmlKey) (string, bool, bool, error) {
	var value string
	var hasValue, found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(db))
		if bucket == nil {
			return nil
		}
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		hasValue, value = decode(raw)
		return nil
	})
	return value, hasValue, found, err
}

func (b *Bolt) Set(db string, key clixon.XmlKey, value string, hasValue bool) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(db))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), encode(hasValue, value))
	})
}

func (b *Bolt) Delete(db string, key clixon.XmlKey) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(db))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

func (b *Bolt) Exists(db string, key clixon.XmlKey) (bool, error) {
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(db))
		if bucket == nil {
			return nil
		}
		found = bucket.Get([]byte(key)) != nil
		return nil
	})
	return found, err
}

// Scan returns every pair under db whose key matches pattern, walking
// bbolt's sorted cursor in full — the store guarantees ordered keys, but
// this contract (spec.md §6) does not require ordered results, so no
// further use is made of that ordering here.
func (b *Bolt) Scan(db string, pattern string) ([]clixon.KVPair, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var pairs []clixon.KVPair
	err = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(db))
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		for k, raw := c.First(); k != nil; k, raw = c.Next() {
			if !re.Match(k) {
				continue
			}
			hasValue, value := decode(raw)
			pairs = append(pairs, clixon.KVPair{
				Key:      clixon.XmlKey(k),
				Value:    value,
				HasValue: hasValue,
			})
		}
		return nil
	})
	return pairs, err
}

// encode/decode prepend a one-byte has-value marker so an empty-bodied
// entry (hasValue=false, e.g. a list-entry marker) is distinguishable
// from one whose value happens to be the empty string.
func encode(hasValue bool, value string) []byte {
	marker := byte(noValueMarker)
	if hasValue {
		marker = hasValueMarker
	}
	return append([]byte{marker}, []byte(value)...)
}

func decode(raw []byte) (hasValue bool, value string) {
	if len(raw) == 0 {
		return false, ""
	}
	return raw[0] == hasValueMarker, string(raw[1:])
}
