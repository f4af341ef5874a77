package database

import (
	"bytes"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/mintin/internal/progress"
	"github.com/example/mintin/pkg/models"
)

// SnapshotRepository stores the progress table of one deck.
// It implements progress.Store.
type SnapshotRepository struct {
	db   *sqlx.DB
	deck string
}

// NewSnapshotRepository creates a new repository instance for deck
func NewSnapshotRepository(db *sqlx.DB, deck string) *SnapshotRepository {
	return &SnapshotRepository{db: db, deck: deck}
}

// Load decodes the stored snapshot against catalog.
// It returns progress.ErrNoSnapshot when the deck has never been saved.
func (r *SnapshotRepository) Load(catalog []models.Item) (*progress.Table, error) {
	var data string
	err := r.db.Get(&data, r.db.Rebind("SELECT data FROM progress_snapshots WHERE deck = ?"), r.deck)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrNoSnapshot
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get progress snapshot")
	}
	return progress.Decode(bytes.NewBufferString(data), catalog)
}

// Save writes the snapshot, replacing the previous one
func (r *SnapshotRepository) Save(t *progress.Table, catalog []models.Item) error {
	var buf bytes.Buffer
	if err := progress.Encode(&buf, t, catalog); err != nil {
		return err
	}

	query := `
		INSERT INTO progress_snapshots (deck, data, age, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (deck) DO UPDATE SET
			data = excluded.data,
			age = excluded.age,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(r.db.Rebind(query), r.deck, buf.String(), t.Age(), time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "failed to save progress snapshot")
	}
	return nil
}

// Delete forgets the stored snapshot
func (r *SnapshotRepository) Delete() error {
	_, err := r.db.Exec(r.db.Rebind("DELETE FROM progress_snapshots WHERE deck = ?"), r.deck)
	if err != nil {
		return errors.Wrap(err, "failed to delete progress snapshot")
	}
	return nil
}
