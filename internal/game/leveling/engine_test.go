package leveling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/leveling"
)

func newRecord() *character.Record {
	return character.NewRecord("Hero", character.StartingValues{
		Health: 100, Mana: 100, Energy: 100, Currency: 100,
	}, time.Now())
}

// TestApplyExperience_NoLevelUp verifies experience short of the threshold
// accumulates without side effects.
func TestApplyExperience_NoLevelUp(t *testing.T) {
	e := leveling.NewEngine(leveling.DefaultCurve)
	rec := newRecord()

	res := e.ApplyExperience(rec, 99)
	assert.Equal(t, 0, res.LevelsGained)
	assert.Equal(t, 1, rec.Level)
	assert.Equal(t, 99, rec.Experience)
	assert.Equal(t, 100, rec.Health.Max)
}

// TestApplyExperience_SingleLevelUp verifies one level-up: threshold
// consumed, maxima raised, vitals fully restored.
func TestApplyExperience_SingleLevelUp(t *testing.T) {
	e := leveling.NewEngine(leveling.DefaultCurve)
	rec := newRecord()
	rec.Health.Current = 3
	rec.Mana.Current = 0
	rec.Energy.Current = 12

	res := e.ApplyExperience(rec, 130)

	assert.Equal(t, 1, res.LevelsGained)
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, 2, rec.Level)
	assert.Equal(t, 30, rec.Experience, "threshold is subtracted, not reset")

	assert.Equal(t, character.Vital{Current: 120, Max: 120}, rec.Health)
	assert.Equal(t, character.Vital{Current: 110, Max: 110}, rec.Mana)
	assert.Equal(t, character.Vital{Current: 110, Max: 110}, rec.Energy)
}

// TestApplyExperience_MultiLevelUp verifies one large grant crosses several
// thresholds in a single pass.
func TestApplyExperience_MultiLevelUp(t *testing.T) {
	e := leveling.NewEngine(leveling.DefaultCurve)
	rec := newRecord()

	// 100 + 200 + 300 = 600 to reach level 4.
	res := e.ApplyExperience(rec, 650)

	assert.Equal(t, 3, res.LevelsGained)
	assert.Equal(t, 4, rec.Level)
	assert.Equal(t, 50, rec.Experience)
	assert.Equal(t, 160, rec.Health.Max)
	assert.Equal(t, 130, rec.Mana.Max)
	assert.Equal(t, 130, rec.Energy.Max)
}

// TestApplyExperience_SplitEqualsWhole_Property verifies one large grant
// leaves the record identical to the equivalent sequence of smaller grants.
func TestApplyExperience_SplitEqualsWhole_Property(t *testing.T) {
	e := leveling.NewEngine(leveling.DefaultCurve)
	rapid.Check(t, func(rt *rapid.T) {
		grants := rapid.SliceOfN(rapid.IntRange(0, 400), 1, 10).Draw(rt, "grants")

		split := newRecord()
		total := 0
		for _, g := range grants {
			total += g
			e.ApplyExperience(split, g)
		}

		whole := newRecord()
		e.ApplyExperience(whole, total)

		assert.Equal(rt, whole.Level, split.Level)
		assert.Equal(rt, whole.Experience, split.Experience)
		assert.Equal(rt, whole.Health.Max, split.Health.Max)
		assert.Equal(rt, whole.Mana.Max, split.Mana.Max)
		assert.Equal(rt, whole.Energy.Max, split.Energy.Max)
	})
}

// TestValidateCurve accepts the stock curve and rejects broken ones.
func TestValidateCurve(t *testing.T) {
	require.NoError(t, leveling.ValidateCurve(leveling.DefaultCurve, 1000))

	err := leveling.ValidateCurve(func(level int) int { return 100 }, 10)
	assert.Error(t, err, "a flat curve is not strictly increasing")

	err = leveling.ValidateCurve(func(level int) int { return 500 - level*100 }, 10)
	assert.Error(t, err, "thresholds must stay positive")
}

// TestThreshold exposes the configured curve.
func TestThreshold(t *testing.T) {
	e := leveling.NewEngine(leveling.DefaultCurve)
	assert.Equal(t, 100, e.Threshold(1))
	assert.Equal(t, 700, e.Threshold(7))
}
