package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFlatFile creates a flat-file engine rooted in a fresh temp
// directory with the given retention cap.
func newTestFlatFile(t *testing.T, maxBackups int) *FlatFile {
	t.Helper()

	engine, err := NewFlatFile(t.TempDir(), "", maxBackups)
	require.NoError(t, err, "NewFlatFile() must succeed for a fresh temp root")

	return engine
}

// newTestBolt creates a bolt engine rooted in a fresh temp directory and
// registers cleanup for its handle.
func newTestBolt(t *testing.T, maxBackups int) *Bolt {
	t.Helper()

	engine, err := NewBolt(t.TempDir(), "", maxBackups)
	require.NoError(t, err, "NewBolt() must succeed for a fresh temp root")

	t.Cleanup(func() {
		_ = engine.Close()
	})

	return engine
}

// requireRecord verifies that records holds the expected fragment under key.
func requireRecord(t *testing.T, records map[string][]byte, key, expected string) {
	t.Helper()

	fragment, ok := records[key]
	require.Truef(t, ok, "expected key %q to be present", key)

	assert.Equal(t, expected, string(fragment))
}

// seedBackupFile writes a file with the given name and contents into the
// engine's backups directory, creating the directory if needed.
func seedBackupFile(t *testing.T, backupsDir, name, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(backupsDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(backupsDir, name), []byte(contents), 0o644))
}

// backupNames extracts the Name field from a backup listing, in order.
func backupNames(backups []Backup) []string {
	names := make([]string, 0, len(backups))
	for _, backup := range backups {
		names = append(names, backup.Name)
	}

	return names
}
