package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptionalMissingFile(t *testing.T) {
	t.Parallel()

	data, found, err := ReadOptional(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestReadOptionalReportsOtherFailures(t *testing.T) {
	t.Parallel()

	_, _, err := ReadOptional(t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, "read state file")
}

func TestWriteAtomicCreatesDirectoryAndEnforcesPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	require.NoError(t, WriteAtomic(path, []byte("first"), ".state-*.tmp"))
	require.NoError(t, WriteAtomic(path, []byte("second"), ".state-*.tmp"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FileMode), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(DirMode), dirInfo.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLockForPathIsSharedPerPath(t *testing.T) {
	t.Parallel()

	first := LockForPath("/tmp/punch-lock-a")
	assert.Same(t, first, LockForPath("/tmp/punch-lock-a"))
	assert.NotSame(t, first, LockForPath("/tmp/punch-lock-b"))
}

func TestNormalizePathRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := NormalizePath("")
	require.Error(t, err)

	got, err := NormalizePath("relative/../state.json")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "state.json", filepath.Base(got))
}
