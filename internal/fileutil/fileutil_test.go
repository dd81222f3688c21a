package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb\n"))
}

func TestSliceRange(t *testing.T) {
	lines := []string{"one", "two", "three", "four"}

	assert.Equal(t, "two\nthree", SliceRange(lines, 2, 3))
	assert.Equal(t, "one", SliceRange(lines, 1, 1))
	// out-of-bounds values clamp instead of failing
	assert.Equal(t, "one\ntwo\nthree\nfour", SliceRange(lines, 0, 99))
	assert.Equal(t, "", SliceRange(lines, 3, 2))
}

func TestReadRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\ngamma\n"), 0o644))

	text, err := ReadRange(path, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "beta\ngamma", text)

	_, err = ReadRange(filepath.Join(t.TempDir(), "absent.txt"), 1, 1)
	assert.Error(t, err)
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	first, err := HashFile(path)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	same, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, same)

	require.NoError(t, os.WriteFile(path, []byte("hello!"), 0o644))
	changed, err := HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestWriteAtomicCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "out.json")
	require.NoError(t, WriteAtomic(path, []byte("{}")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, WriteIfChanged(path, []byte("v1")))
	info1, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, WriteIfChanged(path, []byte("v1")))
	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())

	require.NoError(t, WriteIfChanged(path, []byte("v2")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestEncodeJSONTrailingNewline(t *testing.T) {
	data, err := EncodeJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}
