package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/southvictor/memory-db/store"
)

func TestConfigFile_ProvidesDefaults(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfigFile(t, fmt.Sprintf("root = %q\n", root))

	_, err := runCLIWithConfig(t, configPath, "set", "alpha", `"1"`)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, store.DefaultFileName))
	require.NoError(t, err, "the database must land in the configured root")
}

func TestFlags_OverrideConfigFile(t *testing.T) {
	configRoot := t.TempDir()
	flagRootDir := t.TempDir()
	configPath := writeConfigFile(t, fmt.Sprintf("root = %q\n", configRoot))

	_, err := runCLIWithConfig(t, configPath, "set", "alpha", `"1"`, "--root", flagRootDir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(flagRootDir, store.DefaultFileName))
	require.NoError(t, err, "the flag root must win over the config root")

	_, err = os.Stat(filepath.Join(configRoot, store.DefaultFileName))
	assert.True(t, os.IsNotExist(err), "the config root must stay untouched")
}

func TestConfigFile_SelectsBackend(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfigFile(t, fmt.Sprintf("root = %q\nbackend = \"bolt\"\n", root))

	_, err := runCLIWithConfig(t, configPath, "set", "alpha", `"1"`)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, store.DefaultBoltFileName))
	require.NoError(t, err, "the bolt engine must create its own live file")
}

func TestUnknownBackend_FailsFast(t *testing.T) {
	_, err := runCLI(t, "keys", "--root", t.TempDir(), "--backend", "cloud")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestMissingConfigFile_Fails(t *testing.T) {
	resetFlagState()

	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := runCLIWithConfig(t, missing, "keys")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
