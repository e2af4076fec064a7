// Package training applies gym training actions to a character record.
// Gains scale with the happiness-derived training multiplier.
package training

import (
	"fmt"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/stats"
)

// Mode selects what a training action improves.
type Mode string

const (
	// ModeStrength trains strength only.
	ModeStrength Mode = "strength"
	// ModeAgility trains agility only.
	ModeAgility Mode = "agility"
	// ModeVitality trains vitality only.
	ModeVitality Mode = "vitality"
	// ModeIntensive trains all three stats in one action.
	ModeIntensive Mode = "intensive"
)

// Costs holds the currency prices of training actions, in pennies.
type Costs struct {
	Single    int
	Intensive int
}

// Gains holds the base stat gains before the training multiplier.
type Gains struct {
	Single    int
	Intensive int
}

// Result reports what one training action changed.
type Result struct {
	Mode Mode
	// Cost is the currency actually deducted.
	Cost int
	// Multiplier is the happiness multiplier that was in effect.
	Multiplier float64
	// Strength, Agility, and Vitality are the points gained per stat.
	Strength int
	Agility  int
	Vitality int
}

// Engine applies training actions.
type Engine struct {
	costs Costs
	gains Gains
}

// NewEngine creates a training Engine with the given prices and base gains.
//
// Precondition: all cost and gain values must be positive.
func NewEngine(costs Costs, gains Gains) *Engine {
	return &Engine{costs: costs, gains: gains}
}

// Train performs one training action on rec.
//
// The gain for each affected stat is floor(base * multiplier), rounded
// independently per stat: intensive training at multiplier 1.5 with base 2
// yields +3 to each stat, not a single combined rounding. Training never
// decreases a stat.
//
// Precondition: rec and cat must be non-nil.
// Postcondition: On character.ErrInsufficientResource or an unknown mode the
// record is unchanged; otherwise currency is deducted and stats raised.
func (e *Engine) Train(rec *character.Record, cat *catalog.Catalog, mode Mode) (Result, error) {
	bundle, err := stats.Resolve(rec, cat)
	if err != nil {
		return Result{}, fmt.Errorf("resolving stats before training: %w", err)
	}

	var cost, base int
	switch mode {
	case ModeStrength, ModeAgility, ModeVitality:
		cost, base = e.costs.Single, e.gains.Single
	case ModeIntensive:
		cost, base = e.costs.Intensive, e.gains.Intensive
	default:
		return Result{}, fmt.Errorf("unknown training mode %q", mode)
	}

	if err := rec.SpendCurrency(cost); err != nil {
		return Result{}, fmt.Errorf("training (%s) costs %d: %w", mode, cost, err)
	}

	gain := int(float64(base) * bundle.TrainingMultiplier)
	res := Result{Mode: mode, Cost: cost, Multiplier: bundle.TrainingMultiplier}

	switch mode {
	case ModeStrength:
		rec.Strength += gain
		res.Strength = gain
	case ModeAgility:
		rec.Agility += gain
		res.Agility = gain
	case ModeVitality:
		rec.Vitality += gain
		res.Vitality = gain
	case ModeIntensive:
		rec.Strength += gain
		rec.Agility += gain
		rec.Vitality += gain
		res.Strength, res.Agility, res.Vitality = gain, gain, gain
	}

	return res, nil
}
