// Package energy derives current energy from wall-clock time. Regeneration
// is pull-based: there is no background ticker, energy is recomputed at the
// moment the record is read.
package energy

import (
	"time"

	"github.com/cory-johannsen/wizardry/internal/game/character"
)

// Clock supplies the current wall-clock time. Injecting it keeps the
// regenerator testable without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Regenerator applies interval-based energy regeneration to a record.
type Regenerator struct {
	// Interval is the wall-clock duration of one regeneration tick.
	Interval time.Duration
	// Amount is the energy gained per full tick.
	Amount int

	clock Clock
}

// NewRegenerator creates a Regenerator with the given tick interval and
// per-tick amount.
//
// Precondition: interval > 0, amount > 0, clock non-nil.
func NewRegenerator(interval time.Duration, amount int, clock Clock) *Regenerator {
	return &Regenerator{Interval: interval, Amount: amount, clock: clock}
}

// Apply regenerates rec using the injected clock's current time.
//
// Postcondition: Returns the energy gained (possibly 0).
func (g *Regenerator) Apply(rec *character.Record) int {
	return g.ApplyAt(rec, g.clock.Now())
}

// ApplyAt regenerates rec as of the given instant.
//
// gained = floor(elapsed / Interval) * Amount, clamped so current energy
// never exceeds max. The stored timestamp advances by exactly the consumed
// whole intervals, never to now, so fractional progress toward the next tick
// is preserved and the operation is idempotent for a fixed now.
//
// Postcondition: 0 <= rec.Energy.Current <= rec.Energy.Max; if elapsed is
// under one interval the record is untouched and 0 is returned.
func (g *Regenerator) ApplyAt(rec *character.Record, now time.Time) int {
	elapsed := now.Sub(rec.LastEnergyUpdate)
	if elapsed < g.Interval {
		return 0
	}

	intervals := int(elapsed / g.Interval)
	gained := intervals * g.Amount

	before := rec.Energy.Current
	rec.Energy.Current += gained
	if rec.Energy.Current > rec.Energy.Max {
		rec.Energy.Current = rec.Energy.Max
	}
	rec.LastEnergyUpdate = rec.LastEnergyUpdate.Add(time.Duration(intervals) * g.Interval)

	return rec.Energy.Current - before
}
