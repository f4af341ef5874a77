package progress

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	sr "github.com/example/mintin/internal/spaced_repetition"
	"github.com/example/mintin/pkg/models"
)

// snapshot is the on-disk form of a table.
// Legacy snapshots carry a single "stp" scalar instead of age and score_args.
type snapshot struct {
	Entries   []snapshotRow     `json:"entries"`
	Age       *int              `json:"age,omitempty"`
	ScoreArgs *models.ScoreArgs `json:"score_args,omitempty"`
	Stp       *float64          `json:"stp,omitempty"`
}

// snapshotRow is serialised as a two element array [entry, item]
type snapshotRow struct {
	Entry models.ProgressEntry
	Item  models.Item
}

// MarshalJSON implements json.Marshaler.
func (r snapshotRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{r.Entry, r.Item})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *snapshotRow) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.Errorf("snapshot row has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Entry); err != nil {
		return errors.Wrap(err, "progress entry")
	}
	if err := json.Unmarshal(pair[1], &r.Item); err != nil {
		return errors.Wrap(err, "catalog item")
	}
	return nil
}

// Encode writes the table together with the catalog pairs its entries belong to
func Encode(w io.Writer, t *Table, catalog []models.Item) error {
	if len(catalog) < t.Len() {
		return errors.Errorf("progress: catalog has %d items, table has %d entries", len(catalog), t.Len())
	}
	age, args := t.age, t.args
	s := snapshot{
		Entries:   make([]snapshotRow, t.Len()),
		Age:       &age,
		ScoreArgs: &args,
	}
	for i, e := range t.entries {
		s.Entries[i] = snapshotRow{Entry: e, Item: catalog[i]}
	}
	return errors.Wrap(json.NewEncoder(w).Encode(&s), "failed to encode snapshot")
}

// Decode reads a snapshot and reconciles it against the current catalog.
// Items are matched by their (prompt, answer) pair; catalog items missing from
// the snapshot start unseen at the snapshot's age. Legacy snapshots are migrated.
func Decode(r io.Reader, catalog []models.Item) (*Table, error) {
	var s snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrapf(ErrSnapshotFormat, "%v", err)
	}

	var (
		age  int
		args models.ScoreArgs
	)
	switch {
	case s.Age != nil && s.ScoreArgs != nil:
		age, args = *s.Age, *s.ScoreArgs
	case s.Stp != nil:
		var err error
		if age, err = migrateAge(*s.Stp, len(s.Entries)); err != nil {
			return nil, err
		}
		args = models.DefaultScoreArgs
	default:
		return nil, errors.Wrap(ErrSnapshotFormat, "neither age nor stp present")
	}
	if err := sr.ValidateScoreArgs(args); err != nil {
		return nil, errors.Wrapf(ErrSnapshotFormat, "%v", err)
	}

	saved := make(map[models.Item]models.ProgressEntry, len(s.Entries))
	for i, row := range s.Entries {
		if row.Entry.Distrust < 0 || row.Entry.Distrust > models.Unit {
			return nil, errors.Wrapf(ErrSnapshotFormat, "entry %d distrust %d out of range", i, row.Entry.Distrust)
		}
		saved[row.Item] = row.Entry
	}

	unseen := models.ProgressEntry{
		Distrust: sr.ToScore(sr.ScoreAt(age, float64(len(catalog)), args)),
	}
	entries := make([]models.ProgressEntry, len(catalog))
	for i, item := range catalog {
		if e, ok := saved[item]; ok {
			entries[i] = e
		} else {
			entries[i] = unseen
		}
	}
	return fromEntries(entries, age, args), nil
}

// migrateAge recovers the age whose unit score equals the legacy scalar.
// The age is truncated toward zero.
func migrateAge(stp float64, n int) (int, error) {
	age, ok := sr.Inverse(stp, float64(n), models.DefaultScoreArgs)
	if !ok {
		return 0, errors.Wrapf(ErrNoEquivalentAge, "stp %f", stp)
	}
	return int(age), nil
}
