package lfv

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mceicys/lfv-go/internal/reader"
)

func TestExpandStringForce(t *testing.T) {
	out, err := ExpandString("local v2pos = 1\n", "t", true, "")
	require.NoError(t, err)
	assert.Contains(t, string(out), "xpos")
	assert.Contains(t, string(out), "ypos")
}

func TestExpandStringPassthroughWithoutSentinel(t *testing.T) {
	src := "local v2pos = 1\n"
	out, err := ExpandString(src, "t", false, "")
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestExpandFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.lua")
	require.NoError(t, os.WriteFile(path, []byte("local v2pos = 1\n"), 0o644))

	out, err := ExpandFile(path, true, "")
	require.NoError(t, err)
	assert.Contains(t, string(out), "xpos")
}

func TestExpandFileMissing(t *testing.T) {
	_, err := ExpandFile(filepath.Join(t.TempDir(), "missing.lua"), true, "")
	require.Error(t, err)

	var expandErr *reader.ExpandError
	require.ErrorAs(t, err, &expandErr)
	assert.Equal(t, reader.ErrFile, expandErr.Class)
}

func TestExpandFileWritesLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.lua")
	require.NoError(t, os.WriteFile(path, []byte("local v2pos = 1\n"), 0o644))
	logPath := filepath.Join(dir, "run.log")

	_, err := ExpandFile(path, true, logPath)
	require.NoError(t, err)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "vector expansion of")

	_, err = os.Stat(logPath + ".cbor")
	require.NoError(t, err)
}

func TestReaderStreamsExpandedOutput(t *testing.T) {
	src := strings.NewReader("local v2pos = 1\n")
	r, err := NewReader(src, "t", true, false, "")
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "xpos")
	assert.Contains(t, string(out), "ypos")
}

func TestReaderResolveNameFallsBackToSourceName(t *testing.T) {
	src := strings.NewReader("local x = 1\n")
	r, err := NewReader(src, "myfile.lua", false, false, "")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "myfile.lua", r.ResolveName())
}
