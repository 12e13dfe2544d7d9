package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemory_SaveLoad_RoundTrip verifies the contract against the
// ephemeral engine.
func TestMemory_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	engine := NewMemory()

	require.NoError(t, engine.Save(map[string][]byte{"a": []byte(`"1"`)}))

	loaded, err := engine.Load()
	require.NoError(t, err)
	requireRecord(t, loaded, "a", `"1"`)
}

// TestMemory_CopiesOnBothSides verifies that neither the saved map nor
// the loaded map aliases the engine's internal state.
func TestMemory_CopiesOnBothSides(t *testing.T) {
	t.Parallel()

	engine := NewMemory()

	input := map[string][]byte{"k": []byte(`"original"`)}
	require.NoError(t, engine.Save(input))

	// Mutating the caller's map after Save must not leak in.
	input["k"][2] = 'X'
	input["extra"] = []byte(`1`)

	loaded, err := engine.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	requireRecord(t, loaded, "k", `"original"`)

	// Mutating a loaded value must not leak back.
	loaded["k"][2] = 'Y'

	again, err := engine.Load()
	require.NoError(t, err)
	requireRecord(t, again, "k", `"original"`)
}

// TestMemory_BackupsAreVacuous verifies the no-backup behavior: empty
// listing, no-op prune, failing restore.
func TestMemory_BackupsAreVacuous(t *testing.T) {
	t.Parallel()

	engine := NewMemory()

	backups, err := engine.Backups()
	require.NoError(t, err)
	assert.Empty(t, backups)

	require.NoError(t, engine.Prune())

	err = engine.Restore("2024-01-01T00:00:00Z")
	require.ErrorIs(t, err, ErrBackupNotFound)
}

// TestMemory_Stat verifies entry and payload accounting.
func TestMemory_Stat(t *testing.T) {
	t.Parallel()

	engine := NewMemory()
	require.NoError(t, engine.Save(map[string][]byte{"ab": []byte(`12`)}))

	stat, err := engine.Stat()
	require.NoError(t, err)
	assert.Empty(t, stat.Path)
	assert.Equal(t, 1, stat.Entries)
	assert.Equal(t, int64(4), stat.Bytes)
	assert.Zero(t, stat.Digest)
}
