package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore creates a temporary slot store.
func testStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("Failed to close test store: %v", err)
		}
	})

	return s
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "lorakeep.db")

	s, err := New(DefaultConfig(dbPath))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, dbPath, s.Path())
	assert.FileExists(t, dbPath)
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)

	value, ok, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestPutGet(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Put("cache", `{"a":1}`))

	value, ok, err := s.Get("cache")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, value)
}

func TestPutOverwrites(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Put("cache", "old"))
	require.NoError(t, s.Put("cache", "new"))

	value, ok, err := s.Get("cache")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Put("cache", "x"))
	require.NoError(t, s.Delete("cache"))

	_, ok, err := s.Get("cache")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing slot is fine
	require.NoError(t, s.Delete("cache"))
}

func TestSlotsAreIndependent(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Put("lora_models_cache", "models"))
	require.NoError(t, s.Put("prompt_manager_cache", "prompts"))

	require.NoError(t, s.Delete("lora_models_cache"))

	value, ok, err := s.Get("prompt_manager_cache")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "prompts", value)
}
