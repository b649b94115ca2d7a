// Package abicache persists extracted contract interface metadata between pipeline
// runs, so downstream emission stages can skip re-extraction when the program's
// semantic index is unchanged. Entries are keyed by the index snapshot's content hash
// and the contract's name.
package abicache

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// bucketName is the bucket all cached entries live in.
var bucketName = []byte("contracts")

// Entry is the cached interface metadata of one contract.
type Entry struct {
	// Contract is the contract module's simple name.
	Contract string `json:"contract"`

	// Functions are the external function names, in declaration order.
	Functions []string `json:"functions"`

	// Selectors are the hex-encoded entry point selectors, parallel to Functions.
	Selectors []string `json:"selectors"`

	// ABITrait is the name of the contract's ABI trait.
	ABITrait string `json:"abiTrait"`
}

// Cache is a bbolt-backed store of extraction results.
type Cache struct {
	db *bbolt.DB
}

// Open opens the cache database at the given path, creating it if needed.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.WithMessagef(err, "could not open metadata cache %s", path)
	}

	// Create the default bucket if it doesn't exist.
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}
	return &Cache{db: db}, nil
}

// entryKey builds the storage key for one contract's entry under a content hash.
func entryKey(contentHash string, contract string) []byte {
	return []byte(contentHash + ":" + contract)
}

// Put stores the entry under the given snapshot content hash, replacing any previous
// entry for the same contract.
func (c *Cache) Put(contentHash string, entry Entry) error {
	serialized, err := json.Marshal(entry)
	if err != nil {
		return errors.WithStack(err)
	}
	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(entryKey(contentHash, entry.Contract), serialized)
	})
	return errors.WithStack(err)
}

// Get retrieves the entry cached for the given contract under the given content
// hash. The second return value reports whether an entry was found.
func (c *Cache) Get(contentHash string, contract string) (*Entry, bool, error) {
	var entry *Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketName).Get(entryKey(contentHash, contract))
		if data == nil {
			return nil
		}
		decoded := Entry{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			return err
		}
		entry = &decoded
		return nil
	})
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	return entry, entry != nil, nil
}

// List returns every entry cached under the given content hash, keyed by contract
// name.
func (c *Cache) List(contentHash string) (map[string]Entry, error) {
	entries := make(map[string]Entry)
	prefix := []byte(contentHash + ":")
	err := c.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(bucketName).Cursor()
		for key, value := cursor.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, value = cursor.Next() {
			entry := Entry{}
			if err := json.Unmarshal(value, &entry); err != nil {
				return err
			}
			entries[string(key[len(prefix):])] = entry
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return errors.WithStack(c.db.Close())
}
