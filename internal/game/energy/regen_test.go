package energy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/energy"
)

const interval = 15 * time.Minute

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newRecord(t0 time.Time) *character.Record {
	rec := character.NewRecord("Hero", character.StartingValues{
		Health: 100, Mana: 100, Energy: 100, Currency: 100,
	}, t0)
	return rec
}

// TestApplyAt_UnderOneInterval verifies nothing happens before a full
// interval elapses, including the timestamp.
func TestApplyAt_UnderOneInterval(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRecord(t0)
	rec.Energy.Current = 40

	g := energy.NewRegenerator(interval, 5, energy.SystemClock{})
	gained := g.ApplyAt(rec, t0.Add(14*time.Minute+59*time.Second))

	assert.Equal(t, 0, gained)
	assert.Equal(t, 40, rec.Energy.Current)
	assert.Equal(t, t0, rec.LastEnergyUpdate, "timestamp must not move under one interval")
}

// TestApplyAt_WholeIntervals verifies gained = floor(elapsed/interval) * amount.
func TestApplyAt_WholeIntervals(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRecord(t0)
	rec.Energy.Current = 10

	g := energy.NewRegenerator(interval, 5, energy.SystemClock{})
	// 47 minutes: 3 whole intervals, 2 minutes left over.
	gained := g.ApplyAt(rec, t0.Add(47*time.Minute))

	assert.Equal(t, 15, gained)
	assert.Equal(t, 25, rec.Energy.Current)
	assert.Equal(t, t0.Add(45*time.Minute), rec.LastEnergyUpdate,
		"timestamp advances by consumed intervals only, preserving fractional progress")
}

// TestApplyAt_ClampsAtMax verifies regeneration never exceeds max energy but
// the timestamp still consumes the elapsed intervals.
func TestApplyAt_ClampsAtMax(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRecord(t0)
	rec.Energy.Current = 95

	g := energy.NewRegenerator(interval, 5, energy.SystemClock{})
	gained := g.ApplyAt(rec, t0.Add(10*interval))

	assert.Equal(t, 5, gained, "gain reported is the applied delta, not the raw amount")
	assert.Equal(t, 100, rec.Energy.Current)
	assert.Equal(t, t0.Add(10*interval), rec.LastEnergyUpdate)
}

// TestApplyAt_Idempotent verifies a second application at the same instant
// is a no-op.
func TestApplyAt_Idempotent(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRecord(t0)
	rec.Energy.Current = 10

	g := energy.NewRegenerator(interval, 5, energy.SystemClock{})
	now := t0.Add(31 * time.Minute)

	first := g.ApplyAt(rec, now)
	require.Equal(t, 10, first)
	after := *rec

	second := g.ApplyAt(rec, now)
	assert.Equal(t, 0, second)
	assert.Equal(t, after, *rec, "re-applying at the same instant must change nothing")
}

// TestApply_UsesInjectedClock verifies Apply reads time from the clock.
func TestApply_UsesInjectedClock(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRecord(t0)
	rec.Energy.Current = 0

	clock := &fakeClock{now: t0.Add(2 * interval)}
	g := energy.NewRegenerator(interval, 5, clock)

	assert.Equal(t, 10, g.Apply(rec))
}

// TestApplyAt_SplitEqualsWhole_Property verifies that applying regeneration
// at intermediate instants ends in the same state as one application at the
// final instant.
func TestApplyAt_SplitEqualsWhole_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		start := rapid.IntRange(0, 100).Draw(rt, "startEnergy")

		whole := newRecord(t0)
		whole.Energy.Current = start
		split := newRecord(t0)
		split.Energy.Current = start

		g := energy.NewRegenerator(interval, 5, energy.SystemClock{})

		// Random increasing instants over a few hours.
		offsets := rapid.SliceOfN(rapid.IntRange(0, 300), 1, 8).Draw(rt, "offsetsMinutes")
		elapsed := 0
		for _, step := range offsets {
			elapsed += step
			g.ApplyAt(split, t0.Add(time.Duration(elapsed)*time.Minute))
		}
		g.ApplyAt(whole, t0.Add(time.Duration(elapsed)*time.Minute))

		assert.Equal(rt, whole.Energy.Current, split.Energy.Current,
			"pull-based regeneration must not depend on how often it is applied")
		assert.Equal(rt, whole.LastEnergyUpdate, split.LastEnergyUpdate)
	})
}
