// Package progress owns the per-item distrust scores of a drill session.
//
// A Table keeps one ProgressEntry per catalog index and two weighted index
// trees, one over the passed pool and one over the failed pool. For every
// index i the passed tree holds entries[i].Distrust when the entry passed and
// 0 otherwise, and the failed tree holds the complement.
package progress

import (
	"github.com/pkg/errors"

	"github.com/example/mintin/internal/ostree"
	sr "github.com/example/mintin/internal/spaced_repetition"
	"github.com/example/mintin/pkg/models"
)

// Sentinel errors of the progress package
var (
	ErrCapacity        = errors.New("progress: table capacity exceeded")
	ErrDistrustRange   = errors.New("progress: distrust out of range")
	ErrInvariant       = errors.New("progress: pool trees out of sync")
	ErrSnapshotFormat  = errors.New("progress: unrecognised snapshot format")
	ErrNoEquivalentAge = errors.New("progress: legacy score has no equivalent age")
	ErrNoSnapshot      = errors.New("progress: no snapshot stored")
)

// Table is the aggregate owner of all progress entries of a catalog
type Table struct {
	entries    []models.ProgressEntry
	capacity   int
	failed     int
	passedTree *ostree.Tree
	failedTree *ostree.Tree
	age        int
	args       models.ScoreArgs
}

// New creates a table for n unseen items
func New(n int, args models.ScoreArgs) *Table {
	return NewPartial(n, n, 0, args)
}

// NewEmpty creates a table without entries that can later be supplied up to capacity
func NewEmpty(capacity int, age int, args models.ScoreArgs) *Table {
	return &Table{
		entries:    make([]models.ProgressEntry, 0, capacity),
		capacity:   capacity,
		passedTree: ostree.New(capacity),
		failedTree: ostree.New(capacity),
		age:        age,
		args:       args,
	}
}

// NewPartial creates a table of n unseen items that can grow up to capacity.
// Unseen items start at the unit score of the given age.
func NewPartial(n, capacity, age int, args models.ScoreArgs) *Table {
	if capacity < n {
		capacity = n
	}
	t := NewEmpty(capacity, age, args)
	unit := sr.ToScore(sr.ScoreAt(age, float64(n), args))
	for i := 0; i < n; i++ {
		t.push(models.ProgressEntry{Distrust: unit})
	}
	return t
}

// fromEntries builds a table whose capacity equals the number of entries
func fromEntries(entries []models.ProgressEntry, age int, args models.ScoreArgs) *Table {
	t := NewEmpty(len(entries), age, args)
	for _, e := range entries {
		t.push(e)
	}
	return t
}

// Supply appends newly revealed entries.
// The table is left unchanged when they do not fit into its capacity or a
// distrust lies outside [0, Unit].
func (t *Table) Supply(chunk []models.ProgressEntry) error {
	if len(t.entries)+len(chunk) > t.capacity {
		return errors.Wrapf(ErrCapacity, "%d entries + %d supplied > capacity %d",
			len(t.entries), len(chunk), t.capacity)
	}
	for i, e := range chunk {
		if e.Distrust < 0 || e.Distrust > models.Unit {
			return errors.Wrapf(ErrDistrustRange, "supplied entry %d has distrust %d", i, e.Distrust)
		}
	}
	for _, e := range chunk {
		t.push(e)
	}
	return nil
}

// push appends an entry and puts its weight into its pool
func (t *Table) push(entry models.ProgressEntry) {
	t.entries = append(t.entries, models.ProgressEntry{Pass: true})
	t.place(len(t.entries)-1, entry)
}

// place stores entry at index and moves its weight between the pools.
// It is the only writer of the pool trees.
func (t *Table) place(index int, entry models.ProgressEntry) {
	if t.entries[index].Pass && !entry.Pass {
		t.failed++
	} else if !t.entries[index].Pass && entry.Pass {
		t.failed--
	}
	t.entries[index] = entry
	if entry.Pass {
		t.passedTree.Assign(index, int64(entry.Distrust))
		t.failedTree.Assign(index, 0)
	} else {
		t.passedTree.Assign(index, 0)
		t.failedTree.Assign(index, int64(entry.Distrust))
	}
}

// Set records the outcome of an assessment of the entry at index and returns
// its new distrust.
func (t *Table) Set(index int, pass bool) models.Score {
	d := sr.UpdateOnOutcome(t.entries[index].Distrust, pass, t.UnitScore())
	t.place(index, models.ProgressEntry{Distrust: d, Pass: pass})
	return d
}

// Step advances the table age by one assessment
func (t *Table) Step() {
	t.age++
}

// UnitScore is the distrust failures are pulled toward at the current age
func (t *Table) UnitScore() models.Score {
	return sr.ToScore(sr.ScoreAt(t.age, float64(len(t.entries)), t.args))
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Capacity returns the maximum number of entries
func (t *Table) Capacity() int {
	return t.capacity
}

// IsPartial reports whether more entries can still be supplied
func (t *Table) IsPartial() bool {
	return len(t.entries) < t.capacity
}

// Entry returns the entry at index
func (t *Table) Entry(index int) models.ProgressEntry {
	return t.entries[index]
}

// FailedCount returns the number of entries in the failed pool
func (t *Table) FailedCount() int {
	return t.failed
}

// Age returns the number of assessments recorded so far
func (t *Table) Age() int {
	return t.age
}

// Args returns the decay parameters of the table
func (t *Table) Args() models.ScoreArgs {
	return t.args
}

// PoolSum returns the total distrust of the passed or failed pool
func (t *Table) PoolSum(pass bool) int64 {
	return t.pool(pass).Sum()
}

func (t *Table) pool(pass bool) *ostree.Tree {
	if pass {
		return t.passedTree
	}
	return t.failedTree
}

// Verify checks that both pool trees and the failed count match the entries
func (t *Table) Verify() error {
	failed := 0
	for i, e := range t.entries {
		want := int64(e.Distrust)
		passed, fail := t.passedTree.ValueAt(i), t.failedTree.ValueAt(i)
		if !e.Pass {
			failed++
			if passed != 0 || fail != want {
				return errors.Wrapf(ErrInvariant, "entry %d failed with distrust %d, trees hold %d/%d", i, want, passed, fail)
			}
		} else if passed != want || fail != 0 {
			return errors.Wrapf(ErrInvariant, "entry %d passed with distrust %d, trees hold %d/%d", i, want, passed, fail)
		}
	}
	for i := len(t.entries); i < t.passedTree.Capacity(); i++ {
		if t.passedTree.ValueAt(i) != 0 || t.failedTree.ValueAt(i) != 0 {
			return errors.Wrapf(ErrInvariant, "unused slot %d holds weight", i)
		}
	}
	if failed != t.failed {
		return errors.Wrapf(ErrInvariant, "failed count %d, want %d", t.failed, failed)
	}
	return nil
}
