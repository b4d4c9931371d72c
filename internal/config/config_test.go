package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.lfvrc.json"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".lfvrc.json")
	body := `{"recursionLimit": 50, "hostVersion": "5.3", "logPath": "out.log", "diagnostics": true}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		RecursionLimit: 50,
		HostVersion:    "5.3",
		LogPath:        "out.log",
		Diagnostics:    true,
	}, cfg)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".lfvrc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"recurssionLimit": 50}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsOutOfRangeRecursionLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".lfvrc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"recursionLimit": 0}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestKnownKeys(t *testing.T) {
	assert.ElementsMatch(t, []string{"recursionLimit", "hostVersion", "logPath", "diagnostics"}, KnownKeys())
}
