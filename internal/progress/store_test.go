package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mintin/pkg/models"
)

func TestFileStoreMissingFileStartsFresh(t *testing.T) {
	store := &FileStore{InPath: filepath.Join(t.TempDir(), "progress.json")}
	catalog := catalogOf("a", "1", "b", "2")

	_, err := store.Load(catalog)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	table, err := Open(store, catalog, args)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 2, table.FailedCount())
}

func TestFileStoreSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	catalog := catalogOf("a", "1", "b", "2")

	table := New(len(catalog), args)
	table.Set(1, true)
	table.Step()

	require.NoError(t, (&FileStore{InPath: in}).Save(table, catalog))
	loaded, err := Open(&FileStore{InPath: in, OutPath: out}, catalog, args)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressEntry{Distrust: 5000, Pass: true}, loaded.Entry(1))
	assert.Equal(t, 1, loaded.Age())

	store := &FileStore{InPath: in, OutPath: out}
	loaded.Set(0, true)
	require.NoError(t, store.Save(loaded, catalog))

	_, err = os.Stat(out)
	require.NoError(t, err)
	again, err := (&FileStore{InPath: out}).Load(catalog)
	require.NoError(t, err)
	assert.True(t, again.Entry(0).Pass)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := Open(&FileStore{InPath: path}, catalogOf("a", "1"), args)
	assert.ErrorIs(t, err, ErrSnapshotFormat)
}

func TestOpenWithoutStore(t *testing.T) {
	table, err := Open(nil, catalogOf("a", "1"), args)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}
