package bboltstore_test

import (
	"path/filepath"
	"testing"

	"github.com/safaltravel/marketctl/store"
	"github.com/safaltravel/marketctl/store/bboltstore"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *bboltstore.Store {
	t.Helper()
	s, err := bboltstore.NewFromFile(filepath.Join(t.TempDir(), "session.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(store.KeyAccessToken)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(store.KeyAccessToken, "A1"))
	value, err := s.Get(store.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "A1", value)

	require.NoError(t, s.Set(store.KeyAccessToken, "A2"))
	value, err = s.Get(store.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "A2", value)

	require.NoError(t, s.Delete(store.KeyAccessToken))
	_, err = s.Get(store.KeyAccessToken)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(store.KeyAccessToken))
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := bboltstore.NewFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(store.KeyRefreshToken, "R1"))
	require.NoError(t, s.Close())

	s, err = bboltstore.NewFromFile(path, nil)
	require.NoError(t, err)
	defer s.Close()

	value, err := s.Get(store.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "R1", value)
}
