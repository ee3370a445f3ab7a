package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errBuf bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errBuf.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCLI_FixesFileInPlace(t *testing.T) {
	path := writeTemp(t, "messy.json", "{name: 'Ada', age: 36,}")

	stdout, _, err := runCLI(t, "", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Ada\",\n  \"age\": 36\n}\n", string(data))
}

func TestCLI_StdinToStdout(t *testing.T) {
	stdout, _, err := runCLI(t, "[1, 2,]")
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]", stdout)
}

func TestCLI_OutputFlag(t *testing.T) {
	src := writeTemp(t, "in.json", "[1,]")
	dest := filepath.Join(t.TempDir(), "out.json")

	_, _, err := runCLI(t, "", "-o", dest, src)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]\n", string(data))

	// The source is left alone.
	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "[1,]", string(original))
}

func TestCLI_OutputToStdout(t *testing.T) {
	src := writeTemp(t, "in.json", "[1,]")

	stdout, _, err := runCLI(t, "", "-o", "-", src)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]", stdout)

	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "[1,]", string(original))
}

func TestCLI_OutputRejectsMultipleInputs(t *testing.T) {
	a := writeTemp(t, "a.json", "[1]")
	b := writeTemp(t, "b.json", "[2]")

	_, _, err := runCLI(t, "", "-o", "out.json", a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output can only be used with a single input file")
}

func TestCLI_Verbose(t *testing.T) {
	path := writeTemp(t, "messy.json", "{name: 'Ada', age: 36,}")

	_, stderr, err := runCLI(t, "", "-v", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Fixed 4 issue(s) in "+path)
	assert.Contains(t, stderr, "Line 1: Added quotes around unquoted key 'name'")
	assert.Contains(t, stderr, "Line 1: Removed trailing comma")
}

func TestCLI_VerboseNoChanges(t *testing.T) {
	path := writeTemp(t, "clean.json", "{\n  \"a\": 1\n}\n")

	_, stderr, err := runCLI(t, "", "-v", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "No changes needed in "+path)
}

func TestCLI_DryRun(t *testing.T) {
	path := writeTemp(t, "messy.json", "{name: 'Ada', age: 36,}")

	_, stderr, err := runCLI(t, "", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Would fix 4 issue(s) in "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{name: 'Ada', age: 36,}", string(data))
}

func TestCLI_Backup(t *testing.T) {
	path := writeTemp(t, "messy.json", "[1,]")

	_, _, err := runCLI(t, "", "-b", path)
	require.NoError(t, err)

	fixed, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]\n", string(fixed))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "[1,]", string(backup))
}

func TestCLI_UnchangedFileNotRewritten(t *testing.T) {
	path := writeTemp(t, "clean.json", "{\n  \"a\": 1\n}\n")
	past := time.Unix(1500000000, 0)
	require.NoError(t, os.Chtimes(path, past, past))

	_, _, err := runCLI(t, "", path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "file was rewritten without changes")
}

func TestCLI_ContinuesAcrossFailures(t *testing.T) {
	bad := writeTemp(t, "bad.json", "{\"a\": b}")
	good := writeTemp(t, "good.json", "[1,]")

	_, stderr, err := runCLI(t, "", bad, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 input(s) failed")
	assert.Contains(t, stderr, "unrepairable JSON syntax")

	// The good file was still fixed.
	data, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]\n", string(data))
}

func TestCLI_MissingFile(t *testing.T) {
	_, stderr, err := runCLI(t, "", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, stderr, "absent.json")
}

func TestCLI_OnRepairError(t *testing.T) {
	path := writeTemp(t, "messy.json", "[1,]")

	_, stderr, err := runCLI(t, "", "--on-repair", "error", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "repair rejected")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "[1,]", string(data))
}

func TestCLI_OnRepairUnknown(t *testing.T) {
	_, _, err := runCLI(t, "[1,]", "--on-repair", "explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown repair policy")
}

func TestCLI_Strict(t *testing.T) {
	messy := writeTemp(t, "messy.json", "[1,]")
	_, _, err := runCLI(t, "", "--strict", messy)
	require.Error(t, err)

	clean := writeTemp(t, "clean.json", "[1]")
	_, _, err = runCLI(t, "", "--strict", clean)
	require.NoError(t, err)
}

func TestCLI_FeatureFlagOff(t *testing.T) {
	path := writeTemp(t, "commented.json", "[1] // x")

	_, _, err := runCLI(t, "", "--comments=false", path)
	require.Error(t, err)

	_, _, err = runCLI(t, "", path)
	require.NoError(t, err)
}

func TestCLI_SchemaValidation(t *testing.T) {
	schema := writeTemp(t, "schema.json", `{
		"type": "object",
		"properties": {"age": {"type": "integer"}},
		"required": ["age"]
	}`)

	good := writeTemp(t, "good.json", "{age: 36,}")
	_, _, err := runCLI(t, "", "--schema", schema, good)
	require.NoError(t, err)

	bad := writeTemp(t, "bad.json", "{age: 'old',}")
	_, stderr, err := runCLI(t, "", "--schema", schema, bad)
	require.Error(t, err)
	assert.Contains(t, stderr, "schema validation failed")
}

func TestCLI_ConfigFile(t *testing.T) {
	cfg := writeTemp(t, "jsonfix.yaml", "comments: false\n")
	path := writeTemp(t, "commented.json", "[1] // x")

	_, _, err := runCLI(t, "", "--config", cfg, path)
	require.Error(t, err)

	// Explicit flag wins over the config file.
	_, _, err = runCLI(t, "", "--config", cfg, "--comments=true", path)
	require.NoError(t, err)
}

func TestCLI_EnvOverride(t *testing.T) {
	t.Setenv("JSONFIX_COMMENTS", "false")

	path := writeTemp(t, "commented.json", "[1] // x")
	_, _, err := runCLI(t, "", path)
	require.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "jsonfix version")
}
