package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestShouldReindexChangeSensitivity(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "schema.sql", "CREATE TABLE tasks ();")
	tablePath := filepath.Join(dir, HashesFile)

	table, err := Load(tablePath)
	require.NoError(t, err)

	assert.True(t, table.ShouldReindex("schema.sql", src), "unknown file must be indexed")
	assert.False(t, table.ShouldReindex("schema.sql", src), "unchanged file must be skipped")

	require.NoError(t, os.WriteFile(src, []byte("CREATE TABLE projects ();"), 0o644))
	assert.True(t, table.ShouldReindex("schema.sql", src), "changed content must re-index")
}

func TestShouldReindexMissingFile(t *testing.T) {
	dir := t.TempDir()
	table, err := Load(filepath.Join(dir, HashesFile))
	require.NoError(t, err)

	assert.False(t, table.ShouldReindex("ghost.sql", filepath.Join(dir, "ghost.sql")))
}

func TestFlushPersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "query.sql", "-- name: GetTask :one")
	tablePath := filepath.Join(dir, HashesFile)

	table, err := Load(tablePath)
	require.NoError(t, err)
	require.True(t, table.ShouldReindex("query.sql", src))
	require.NoError(t, table.Flush())

	reloaded, err := Load(tablePath)
	require.NoError(t, err)
	assert.False(t, reloaded.ShouldReindex("query.sql", src), "digest must survive flush and reload")

	digest, ok := reloaded.Digest("query.sql")
	assert.True(t, ok)
	assert.Len(t, digest, 64)
}

func TestForgetUnstagesDigest(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "schema.sql", "CREATE TABLE tasks ();")
	tablePath := filepath.Join(dir, HashesFile)

	table, err := Load(tablePath)
	require.NoError(t, err)
	require.True(t, table.ShouldReindex("schema.sql", src))

	table.Forget("schema.sql")
	assert.True(t, table.ShouldReindex("schema.sql", src), "forgotten key must re-index")

	table.Forget("schema.sql")
	require.NoError(t, table.Flush())

	reloaded, err := Load(tablePath)
	require.NoError(t, err)
	assert.True(t, reloaded.ShouldReindex("schema.sql", src), "forget must survive flush")

	// unknown key is a no-op
	reloaded.Forget("never-staged")
}

func TestWouldReindexDoesNotMutate(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "gen.go", "package db")

	table, err := Load(filepath.Join(dir, HashesFile))
	require.NoError(t, err)

	assert.True(t, table.WouldReindex("gen.go", src))
	assert.True(t, table.WouldReindex("gen.go", src), "peek must not stage the digest")
	assert.True(t, table.ShouldReindex("gen.go", src))
	assert.False(t, table.WouldReindex("gen.go", src))
}

func TestLoadLegacyFlatLayout(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, HashesFile)
	require.NoError(t, os.WriteFile(tablePath, []byte(`{"schema.sql": "abc123"}`), 0o644))

	table, err := Load(tablePath)
	require.NoError(t, err)

	digest, ok := table.Digest("schema.sql")
	assert.True(t, ok)
	assert.Equal(t, "abc123", digest)
}

func TestLoadCorruptTable(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, HashesFile)
	require.NoError(t, os.WriteFile(tablePath, []byte("{not json"), 0o644))

	_, err := Load(tablePath)
	assert.Error(t, err)
}
