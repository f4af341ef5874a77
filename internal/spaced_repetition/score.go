package spaced_repetition

import (
	"math"

	"github.com/pkg/errors"

	"github.com/example/mintin/pkg/models"
)

// Parameters of the legacy global-scalar decay
const (
	LegacyDegradeFactor = 0.8
	LegacyMinPrecision  = 100
	LegacyRescale       = int64(models.Unit) / LegacyMinPrecision
)

// smoothFactor controls how strongly a failure pulls distrust toward the unit score
const smoothFactor = 0.5

// ErrInvalidScoreArgs is returned for decay parameters the score function cannot use
var ErrInvalidScoreArgs = errors.New("spaced_repetition: invalid score arguments")

// ValidateScoreArgs checks that the decay curve is well defined
func ValidateScoreArgs(args models.ScoreArgs) error {
	if args.Origin <= 0 || args.Origin > models.Unit {
		return errors.Wrapf(ErrInvalidScoreArgs, "origin %d out of range (0, %d]", args.Origin, models.Unit)
	}
	if args.Target <= 0 || args.Target > models.Unit {
		return errors.Wrapf(ErrInvalidScoreArgs, "target %d out of range (0, %d]", args.Target, models.Unit)
	}
	if args.DegradeFactor <= 0 || args.DegradeFactor >= 1 {
		return errors.Wrapf(ErrInvalidScoreArgs, "degrade factor %f out of range (0, 1)", args.DegradeFactor)
	}
	return nil
}

// ScoreAt finds the unit score for the given age.
// The curve decays exponentially from Origin toward Target and starts over
// once a full epoch has elapsed. Inertia controls how slowly it degrades and
// is usually the size of the table.
func ScoreAt(age int, inertia float64, args models.ScoreArgs) float64 {
	if args.Origin == args.Target {
		return float64(args.Origin)
	}
	u := math.Log(float64(args.Origin))
	v := math.Log(float64(args.Target))
	phi := math.Log(args.DegradeFactor)
	a := float64(age)
	epoch := (-(u - v) / phi) * inertia
	mage := epoch * (a/epoch - math.Floor(a/epoch))
	if mage == 0 {
		// exp(ln(x)) does not always round-trip exactly
		return float64(args.Origin)
	}
	return math.Exp(u + mage*phi/inertia)
}

// Inverse finds the age producing the given unit score.
// The second result is false when score lies outside [Target, Origin].
// The age is not rounded.
func Inverse(score float64, inertia float64, args models.ScoreArgs) (float64, bool) {
	u := float64(args.Origin)
	v := float64(args.Target)
	if score < math.Min(u, v) || score > math.Max(u, v) {
		return 0, false
	}
	return inertia * math.Log(score/u) / math.Log(args.DegradeFactor), true
}

// ToScore truncates toward zero and clamps to [0, Unit]
func ToScore(f float64) models.Score {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= float64(models.Unit):
		return models.Unit
	}
	return models.Score(f)
}

// UpdateOnOutcome computes the distrust of an item after an assessment.
// A pass halves the distrust; a fail pulls it toward the current unit score.
func UpdateOnOutcome(distrust models.Score, pass bool, unit models.Score) models.Score {
	if pass {
		return (distrust + 1) / 2
	}
	if unit <= 0 {
		return 0
	}
	us := float64(unit)
	a := math.Pow(float64(distrust)/us, smoothFactor)
	return ToScore(us * a)
}

// LegacyStep degrades the legacy global scalar of an n-entry table by one tick.
// When the second result is true the caller must multiply every stored weight
// by LegacyRescale, since the scalar fell below the precision floor.
func LegacyStep(stp float64, n int) (float64, bool) {
	if n < 1 {
		n = 1
	}
	smult := math.Pow(LegacyDegradeFactor, 1/float64(n))
	stp *= smult
	if stp < LegacyMinPrecision {
		return stp * smult, true
	}
	return stp, false
}
