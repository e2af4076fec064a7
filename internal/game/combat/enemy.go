// Package combat runs one encounter to completion as a turn-based state
// machine: the player acts, then the enemy acts, until one side drops or the
// player flees. All randomness comes from an injected dice.Source so a fixed
// seed fully reproduces an encounter.
package combat

import (
	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/dice"
)

// Enemy is one spawned opponent, scaled to the player's level at spawn time.
type Enemy struct {
	// DefID references the catalog enemy definition this was spawned from.
	DefID string
	Name  string

	CurrentHealth int
	MaxHealth     int

	// Damage is dealt per enemy turn before the player's defense.
	Damage int
	// Defense is flat reduction applied to the player's hits.
	Defense int

	ExperienceReward int
	CurrencyReward   int
}

// NewEnemy spawns an enemy from def scaled to the given player level.
//
// Precondition: def non-nil, level >= 1.
// Postcondition: The enemy starts at full health.
func NewEnemy(def *catalog.EnemyDef, level int) *Enemy {
	st := def.ForLevel(level)
	return &Enemy{
		DefID:            def.ID,
		Name:             def.Name,
		CurrentHealth:    st.Health,
		MaxHealth:        st.Health,
		Damage:           st.Damage,
		Defense:          st.Defense,
		ExperienceReward: def.ExperienceReward,
		CurrencyReward:   def.CurrencyReward,
	}
}

// ApplyDamage reduces the enemy's health by dmg, floored at 0.
//
// Precondition: dmg >= 0.
func (e *Enemy) ApplyDamage(dmg int) {
	e.CurrentHealth -= dmg
	if e.CurrentHealth < 0 {
		e.CurrentHealth = 0
	}
}

// IsDead reports whether the enemy has no health left.
func (e *Enemy) IsDead() bool {
	return e.CurrentHealth <= 0
}

// SelectEnemy picks an enemy definition uniformly from the catalog and spawns
// it at the given level. Catalog order is stable, so a fixed seed always
// selects the same enemy.
//
// Precondition: cat must hold at least one enemy; level >= 1; src non-nil.
func SelectEnemy(cat *catalog.Catalog, level int, src dice.Source) *Enemy {
	defs := cat.Enemies()
	def := defs[src.Intn(len(defs))]
	return NewEnemy(def, level)
}
