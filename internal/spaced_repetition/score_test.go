package spaced_repetition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mintin/pkg/models"
)

var args = models.DefaultScoreArgs

func TestScoreAtOrigin(t *testing.T) {
	assert.Equal(t, float64(models.Unit), ScoreAt(0, 5, args))
	assert.Equal(t, models.Unit, ToScore(ScoreAt(0, 5, args)))
}

func TestScoreAtDegenerate(t *testing.T) {
	flat := models.ScoreArgs{DegradeFactor: 0.8, Origin: 500, Target: 500}
	for _, age := range []int{0, 1, 10, 1000} {
		assert.Equal(t, 500.0, ScoreAt(age, 3, flat))
	}
}

func TestScoreAtDecaysByFactorPerInertia(t *testing.T) {
	// One full inertia of age multiplies the score by the degrade factor.
	got := ScoreAt(10, 10, args)
	assert.InDelta(t, 8000.0, got, 1e-6)
	got = ScoreAt(20, 10, args)
	assert.InDelta(t, 6400.0, got, 1e-6)
}

func TestScoreAtBounded(t *testing.T) {
	for age := 0; age < 2000; age++ {
		s := ScoreAt(age, 7, args)
		require.GreaterOrEqual(t, s, float64(args.Target)-1e-9, "age %d", age)
		require.LessOrEqual(t, s, float64(args.Origin)+1e-9, "age %d", age)
	}
}

func TestScoreAtResetsAfterEpoch(t *testing.T) {
	inertia := 4.0
	epoch := inertia * (math.Log(10000) - math.Log(100)) / -math.Log(0.8)
	before := ScoreAt(int(math.Floor(epoch)), inertia, args)
	after := ScoreAt(int(math.Ceil(epoch)), inertia, args)
	assert.Less(t, before, 110.0)
	assert.Greater(t, after, 9000.0)
}

func TestInverseRoundTrip(t *testing.T) {
	for _, age := range []int{0, 1, 5, 17, 60} {
		s := ScoreAt(age, 9, args)
		got, ok := Inverse(s, 9, args)
		require.True(t, ok, "age %d", age)
		assert.InDelta(t, float64(age), got, 1e-6)
	}
}

func TestInverseOutOfRange(t *testing.T) {
	_, ok := Inverse(99.9, 3, args)
	assert.False(t, ok)
	_, ok = Inverse(10000.1, 3, args)
	assert.False(t, ok)
	age, ok := Inverse(100, 3, args)
	assert.True(t, ok)
	assert.Greater(t, age, 0.0)
}

func TestUpdateOnOutcomePass(t *testing.T) {
	assert.Equal(t, models.Score(5000), UpdateOnOutcome(models.Unit, true, models.Unit))
	assert.Equal(t, models.Score(1), UpdateOnOutcome(1, true, models.Unit))
	assert.Equal(t, models.Score(0), UpdateOnOutcome(0, true, models.Unit))
}

func TestUpdateOnOutcomeFail(t *testing.T) {
	assert.Equal(t, models.Unit, UpdateOnOutcome(models.Unit, false, models.Unit))
	// 10000 * sqrt(0.5) = 7071.07
	assert.Equal(t, models.Score(7071), UpdateOnOutcome(5000, false, models.Unit))
	// sqrt(10000 * 2500) = 5000
	assert.Equal(t, models.Score(5000), UpdateOnOutcome(models.Unit, false, 2500))
	assert.Equal(t, models.Score(0), UpdateOnOutcome(300, false, 0))
}

func TestUpdateOnOutcomeStaysInRange(t *testing.T) {
	for d := models.Score(0); d <= models.Unit; d += 37 {
		for _, unit := range []models.Score{100, 2500, models.Unit} {
			for _, pass := range []bool{true, false} {
				got := UpdateOnOutcome(d, pass, unit)
				require.GreaterOrEqual(t, got, models.Score(0))
				require.LessOrEqual(t, got, models.Unit)
			}
		}
	}
}

func TestToScore(t *testing.T) {
	assert.Equal(t, models.Score(0), ToScore(-3))
	assert.Equal(t, models.Score(0), ToScore(math.NaN()))
	assert.Equal(t, models.Score(41), ToScore(41.99))
	assert.Equal(t, models.Unit, ToScore(10000.5))
}

func TestValidateScoreArgs(t *testing.T) {
	require.NoError(t, ValidateScoreArgs(args))

	bad := []models.ScoreArgs{
		{DegradeFactor: 0.8, Origin: 0, Target: 100},
		{DegradeFactor: 0.8, Origin: 10000, Target: 10001},
		{DegradeFactor: 1, Origin: 10000, Target: 100},
		{DegradeFactor: 0, Origin: 10000, Target: 100},
	}
	for _, a := range bad {
		err := ValidateScoreArgs(a)
		assert.ErrorIs(t, err, ErrInvalidScoreArgs, "%+v", a)
	}
}

func TestLegacyStep(t *testing.T) {
	stp := float64(models.Unit)
	stp, rescale := LegacyStep(stp, 1)
	assert.False(t, rescale)
	assert.InDelta(t, 8000.0, stp, 1e-9)

	stp, rescale = LegacyStep(110, 1)
	assert.True(t, rescale)
	assert.InDelta(t, 110*0.8*0.8, stp, 1e-9)
}

func TestLegacyStepMatchesScoreCurve(t *testing.T) {
	// Before the precision floor the legacy scalar follows the exponential curve.
	n := 6
	stp := float64(models.Unit)
	for age := 1; age <= 40; age++ {
		stp, _ = LegacyStep(stp, n)
		assert.InDelta(t, ScoreAt(age, float64(n), args), stp, 1e-6, "age %d", age)
	}
}
