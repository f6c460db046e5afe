package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.pdb")
	want := []byte{0, 0, 0, 0, 0, 0x10, 0, 0}
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, release, err := readAll(path)
	require.NoError(t, err)
	assert.Equal(t, want, data)
	require.NoError(t, release())
	require.NoError(t, release())
}

func TestReadAllEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.DAT")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, release, err := readAll(path)
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
	require.NoError(t, release())
}

func TestReadAllMissingNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ANLZ0000.EXT")
	data, release, err := readAll(path)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, data)
	assert.Nil(t, release)
	assert.Contains(t, err.Error(), "mmfile: read")
	assert.Contains(t, err.Error(), path)
}
