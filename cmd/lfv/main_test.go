package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCLIExpandsAndWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(in, []byte("local v2pos = 1\n"), 0o644))
	out := filepath.Join(dir, "script_out.lua")

	code := runCLI([]string{"-i", in, "-f", "-o", out})
	assert.Equal(t, ExitSuccess, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "xpos")
}

func TestRunCLIDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(in, []byte("local v2pos = 1\n"), 0o644))

	code := runCLI([]string{"-i", in, "-f"})
	assert.Equal(t, ExitSuccess, code)

	_, err := os.Stat(filepath.Join(dir, "script_expanded.lua"))
	require.NoError(t, err)
}

func TestRunCLINoInputIsInvalidArguments(t *testing.T) {
	code := runCLI([]string{})
	assert.Equal(t, ExitInvalidArguments, code)
}

func TestRunCLISameInputOutputIsInvalidArguments(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(in, []byte("local x = 1\n"), 0o644))

	code := runCLI([]string{"-i", in, "-o", in})
	assert.Equal(t, ExitInvalidArguments, code)
}

func TestSuggestFlagHintExtractsTypoedFlag(t *testing.T) {
	err := fakeUnknownFlagError("--forc")
	hint := suggestFlagHint(err)
	assert.Contains(t, hint, "--force")
}

type fakeUnknownFlagError string

func (e fakeUnknownFlagError) Error() string {
	return "unknown flag: " + string(e)
}
