package progress

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/example/mintin/pkg/models"
)

// Store persists tables between sessions
type Store interface {
	// Load returns ErrNoSnapshot when nothing was saved yet
	Load(catalog []models.Item) (*Table, error)
	Save(t *Table, catalog []models.Item) error
}

// Open loads the table kept in store, or creates a fresh one when the store is empty
func Open(store Store, catalog []models.Item, args models.ScoreArgs) (*Table, error) {
	if store == nil {
		return New(len(catalog), args), nil
	}
	t, err := store.Load(catalog)
	if errors.Is(err, ErrNoSnapshot) {
		return New(len(catalog), args), nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FileStore keeps a snapshot in a JSON file
type FileStore struct {
	InPath  string // Snapshot to read; a missing file means a fresh start
	OutPath string // Where to write; defaults to InPath
}

// Load implements Store.
func (s *FileStore) Load(catalog []models.Item) (*Table, error) {
	if s.InPath == "" {
		return nil, ErrNoSnapshot
	}
	f, err := os.Open(s.InPath)
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open progress file")
	}
	defer f.Close()

	t, err := Decode(f, catalog)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.InPath)
	}
	return t, nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(t *Table, catalog []models.Item) error {
	path := s.OutPath
	if path == "" {
		path = s.InPath
	}
	if path == "" {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create progress file")
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, t, catalog); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to write progress file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "failed to replace progress file")
}
