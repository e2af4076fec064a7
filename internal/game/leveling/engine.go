// Package leveling owns every mutation of level, experience, and vital
// maxima. No other package may touch those fields directly.
package leveling

import (
	"fmt"

	"github.com/cory-johannsen/wizardry/internal/game/character"
)

// Per-level max-stat increases.
const (
	MaxHealthPerLevel = 20
	MaxManaPerLevel   = 10
	MaxEnergyPerLevel = 10
)

// Curve maps a level to the experience threshold required to leave it.
//
// Invariant: thresholds must be positive and strictly increasing in level;
// a curve that is not is a configuration error, caught by ValidateCurve.
type Curve func(level int) int

// DefaultCurve is the stock threshold curve: level * 100.
func DefaultCurve(level int) int { return level * 100 }

// ValidateCurve checks that curve is positive and strictly increasing over
// levels [1, through]. Configured curves (including scripted ones) must pass
// this before being handed to an Engine.
//
// Precondition: through >= 1.
// Postcondition: Returns nil iff curve(l) > 0 for all l and
// curve(l+1) > curve(l) for all l in range.
func ValidateCurve(curve Curve, through int) error {
	prev := 0
	for level := 1; level <= through; level++ {
		t := curve(level)
		if t <= 0 {
			return fmt.Errorf("level curve: threshold for level %d is %d, must be positive", level, t)
		}
		if t <= prev {
			return fmt.Errorf("level curve: threshold for level %d (%d) does not exceed level %d (%d)", level, t, level-1, prev)
		}
		prev = t
	}
	return nil
}

// Result summarizes one ApplyExperience call.
type Result struct {
	// LevelsGained is how many level-ups the grant triggered (0 for none).
	LevelsGained int
	// Level is the character's level after the grant.
	Level int
}

// Engine evaluates experience thresholds and performs level-ups.
type Engine struct {
	curve Curve
}

// NewEngine creates a leveling Engine with the given threshold curve.
//
// Precondition: curve must have passed ValidateCurve.
func NewEngine(curve Curve) *Engine {
	return &Engine{curve: curve}
}

// Threshold returns the experience needed to leave the given level.
func (e *Engine) Threshold(level int) int {
	return e.curve(level)
}

// ApplyExperience grants amount experience and performs as many level-ups
// as the total supports in one pass. Each level-up consumes the current
// level's threshold, raises the vital maxima, and fully restores current
// health, mana, and energy to the new maxima.
//
// Precondition: rec non-nil, amount >= 0.
// Postcondition: A single large grant leaves the record in the same state as
// the equivalent sequence of smaller grants.
func (e *Engine) ApplyExperience(rec *character.Record, amount int) Result {
	rec.Experience += amount

	res := Result{Level: rec.Level}
	for rec.Experience >= e.curve(rec.Level) {
		rec.Experience -= e.curve(rec.Level)
		rec.Level++

		rec.Health.Max += MaxHealthPerLevel
		rec.Mana.Max += MaxManaPerLevel
		rec.Energy.Max += MaxEnergyPerLevel
		rec.Health.Current = rec.Health.Max
		rec.Mana.Current = rec.Mana.Max
		rec.Energy.Current = rec.Energy.Max

		res.LevelsGained++
	}
	res.Level = rec.Level
	return res
}
