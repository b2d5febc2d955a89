package jsonfile

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "catalog.json")

	require.NoError(t, WriteRaw(path, []byte(`{"a":1}`)))
	require.NoError(t, WriteRaw(path, []byte(`{"b":2}`)))

	data, err := ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data), "last write should win")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestReadMissing(t *testing.T) {
	_, err := ReadRaw(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")

	created, err := EnsureFile(path, []any{})
	require.NoError(t, err)
	assert.True(t, created, "missing file should be created")

	require.NoError(t, Write(path, []string{"kept"}))
	created, err = EnsureFile(path, []any{})
	require.NoError(t, err)
	assert.False(t, created, "existing file should be left alone")

	actual := []string{}
	require.NoError(t, Read(path, &actual))
	assert.Equal(t, []string{"kept"}, actual)
}
