package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// resetFlagState returns every flag variable to its zero value so one
// test's flags cannot leak into the next run. The commands treat zero
// values as "defer to the config file".
func resetFlagState() {
	flagConfig = ""
	flagRoot = ""
	flagBackend = ""
	flagFileName = ""
	flagMaxBackups = 0
	flagLogLevel = ""
	flagLogFormat = ""
	setString = false
	backupsAll = false
	migrateTo = ""
	migrateToRoot = ""
}

// writeConfigFile writes a TOML config into a fresh temp directory and
// returns its path.
func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "memdb.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

// runCLI executes the root command against a config file that points the
// default root at a scratch directory, so neither a developer's real
// ~/.memdb.toml nor their home directory can influence a test.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath := writeConfigFile(t, fmt.Sprintf("root = %q\n", t.TempDir()))

	return runCLIWithConfig(t, configPath, args...)
}

// runCLIWithConfig executes the root command with the given config file and
// returns the combined output.
func runCLIWithConfig(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	resetFlagState()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))

	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()

	return buf.String(), err
}
