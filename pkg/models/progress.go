package models

// Score is the inverse confidence ("distrust") of an item, from 0 to Unit
type Score int64

// Unit is the distrust of an item that was never answered correctly
const Unit Score = 10000

// ProgressEntry tracks a single catalog item inside a progress table
type ProgressEntry struct {
	Distrust Score `json:"distrust" db:"distrust"`
	Pass     bool  `json:"pass" db:"pass"` // Whether the item sits in the passed pool
}

// ScoreArgs are the static parameters of the unit score decay curve
type ScoreArgs struct {
	DegradeFactor float64 `json:"degrade_factor"`
	Origin        Score   `json:"origin"`
	Target        Score   `json:"target"`
}

// DefaultScoreArgs decays the unit score from Unit down to 100.
// Legacy snapshots are migrated with these arguments as well.
var DefaultScoreArgs = ScoreArgs{
	DegradeFactor: 0.8,
	Origin:        Unit,
	Target:        100,
}
