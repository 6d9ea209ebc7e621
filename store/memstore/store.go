// Package memstore provides an in-memory credential store for tests and
// ephemeral sessions.
package memstore

import (
	"fmt"
	"sync"

	"github.com/safaltravel/marketctl/store"
)

// Store implements store.Repo with a mutex-guarded map.
type Store struct {
	values map[string]string
	lock   sync.RWMutex
}

var _ store.Repo = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(key string) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, store.ErrNotFound)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Store) Close() error {
	return nil
}
