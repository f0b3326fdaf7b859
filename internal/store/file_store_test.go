package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ceylonhub/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {

	t.Run("Success - Set then Get", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "state.json")
		s := store.NewFileStore(path)

		// Act
		err := s.Set(store.TokenKey, "abc123")

		// Assert
		require.NoError(t, err)
		value, ok := s.Get(store.TokenKey)
		assert.True(t, ok)
		assert.Equal(t, "abc123", value)
	})

	t.Run("Success - Values survive a new instance", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")

		require.NoError(t, store.NewFileStore(path).Set(store.TokenKey, "abc123"))

		value, ok := store.NewFileStore(path).Get(store.TokenKey)
		assert.True(t, ok)
		assert.Equal(t, "abc123", value)
	})

	t.Run("Success - Remove deletes the key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		s := store.NewFileStore(path)
		require.NoError(t, s.Set(store.TokenKey, "abc123"))

		require.NoError(t, s.Remove(store.TokenKey))

		_, ok := s.Get(store.TokenKey)
		assert.False(t, ok)
	})

	t.Run("Success - Get on missing file", func(t *testing.T) {
		s := store.NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

		_, ok := s.Get(store.TokenKey)
		assert.False(t, ok)
	})

	t.Run("Success - Keys are independent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		s := store.NewFileStore(path)
		require.NoError(t, s.Set(store.TokenKey, "abc123"))
		require.NoError(t, s.Set(store.CartKey, `[{"productId":"p1"}]`))

		require.NoError(t, s.Remove(store.TokenKey))

		value, ok := s.Get(store.CartKey)
		assert.True(t, ok)
		assert.Equal(t, `[{"productId":"p1"}]`, value)
	})

	t.Run("Success - State file is private", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, store.NewFileStore(path).Set(store.TokenKey, "abc123"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("Success - Parent directory is created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

		err := store.NewFileStore(path).Set(store.TokenKey, "abc123")

		require.NoError(t, err)
	})
}
