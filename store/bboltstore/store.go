// Package bboltstore provides a BBolt-backed credential store.
package bboltstore

import (
	"fmt"

	"github.com/safaltravel/marketctl/store"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("auth")

// Store implements store.Repo backed by a BBolt database file.
type Store struct {
	db *bbolt.DB
}

var _ store.Repo = (*Store)(nil)

// New returns a Store backed by the given BBolt database.
func New(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// NewFromFile opens a BBolt database at the given path and returns a new Store.
func NewFromFile(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return New(db), nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return fmt.Errorf("%s: %w", key, store.ErrNotFound)
		}
		data := b.Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s: %w", key, store.ErrNotFound)
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
