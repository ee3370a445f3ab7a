package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReindent(t *testing.T) {
	t.Parallel()

	got, err := reindent(`{"b": 1, "a": [1, 2]}`)
	require.NoError(t, err)

	// Keys stay in document order; a decode into a map would lose it.
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    1,\n    2\n  ]\n}", got)
}

func TestReindentEmptyContainers(t *testing.T) {
	t.Parallel()

	got, err := reindent("{}")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	got, err = reindent("[]")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestReindentScalar(t *testing.T) {
	t.Parallel()

	got, err := reindent("  42  \n")
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<stdin>", displayName("-"))
	assert.Equal(t, "data.json", displayName("data.json"))
}

func TestCopyFilePreservesMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := dir + "/src.json"
	require.NoError(t, os.WriteFile(src, []byte("[1]"), 0o600))

	dst := dir + "/src.json.bak"
	require.NoError(t, copyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
