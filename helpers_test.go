package memorydb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/southvictor/memory-db/store"
)

// openStringDB opens a flat-file DB[string] in a fresh temp root and returns
// both the DB and the root for direct file inspection.
func openStringDB(t *testing.T) (*DB[string], string) {
	t.Helper()

	root := t.TempDir()

	db, err := Open[string](Options{Root: root})
	require.NoError(t, err, "Open() must succeed for a fresh temp root")

	return db, root
}

// livePath returns the default flat-file live path under root.
func livePath(root string) string {
	return filepath.Join(root, store.DefaultFileName)
}

// readLiveFile reads the default flat-file live file under root.
func readLiveFile(t *testing.T, root string) string {
	t.Helper()

	raw, err := os.ReadFile(livePath(root))
	require.NoError(t, err, "the live file must exist")

	return string(raw)
}

// writeLiveFile writes raw contents to the default flat-file live path,
// bypassing the facade so tests can shape corrupt or foreign state.
func writeLiveFile(t *testing.T, root, contents string) {
	t.Helper()

	require.NoError(t, os.WriteFile(livePath(root), []byte(contents), 0o644))
}

// requireErrorName verifies that err is a classified *Error with the
// expected name.
func requireErrorName(t *testing.T, err error, name ErrorName) {
	t.Helper()

	require.Error(t, err)

	var dbErr *Error
	require.ErrorAsf(t, err, &dbErr, "every API failure must be a classified *Error, got %T", err)
	require.Equal(t, name, dbErr.Name)
}
