package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes snapshotctl with args and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(stdout.String()), err
}

const stateJSON = `{"accounts": {"0x01": {"balance": 5}}}`

func TestPutGetRm(t *testing.T) {
	dir := t.TempDir()

	key, err := run(t, stateJSON, "put", "--dir", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "0x"))

	keyOnly, err := run(t, stateJSON, "key")
	require.NoError(t, err)
	assert.Equal(t, key, keyOnly)

	out, err := run(t, "", "get", key, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"balance": 5`)

	path, err := run(t, "", "path", key, "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, key+".msgpack.zst"), path)

	_, err = run(t, "", "rm", key, "--dir", dir)
	require.NoError(t, err)

	_, err = run(t, "", "get", key, "--dir", dir)
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := "cache:\n  folder: " + dir + "\n  extension: .bin\n  compression: fastest\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	key, err := run(t, stateJSON, "put", "--config", configFile)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, key+".bin"))
	assert.NoError(t, err)
}

func TestDisabled(t *testing.T) {
	_, err := run(t, stateJSON, "put")
	assert.ErrorIs(t, err, errDisabled)

	_, err = run(t, "", "get", "0x"+strings.Repeat("0", 64))
	assert.Error(t, err)
}

func TestInvalidInput(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "not json", "put", "--dir", dir)
	assert.Error(t, err)

	_, err = run(t, "", "get", "0x1234", "--dir", dir)
	assert.Error(t, err)

	_, err = run(t, "", "get", "0x"+strings.Repeat("0", 64), "--dir", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
