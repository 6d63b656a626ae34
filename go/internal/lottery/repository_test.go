package lottery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_LoadMissing(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "backup.json"))
	usernames, found, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, usernames)
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "backup.json"))
	r := NewRegistry("bob99", "alice123", "carol")

	require.NoError(t, repo.Save(r.Members()))

	usernames, found, err := repo.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.ElementsMatch(t, r.Members(), usernames)

	restored := NewRegistry(usernames...)
	assert.Equal(t, r.Members(), restored.Members())
}

func TestRepository_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(filepath.Join(dir, "backup.json"))

	require.NoError(t, repo.Save([]string{"alice123", "bob99", "carol"}))
	require.NoError(t, repo.Save([]string{"dave7"}))

	usernames, _, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"dave7"}, usernames)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestRepository_SaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, NewRepository(path).Save(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRepository_LoadsPlainJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(`["alice123", "bob99"]`), 0o644))

	usernames, found, err := NewRepository(path).Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.ElementsMatch(t, []string{"alice123", "bob99"}, usernames)
}

func TestRepository_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644))

	_, _, err := NewRepository(path).Load()
	assert.Error(t, err)
}

func TestRepository_SaveIntoMissingDirectory(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "nope", "backup.json"))
	assert.Error(t, repo.Save([]string{"alice123"}))
}
