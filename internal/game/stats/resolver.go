// Package stats computes effective combat stats from a character record and
// the catalog. Resolution is pure and recomputed on demand: equipment swaps,
// training, and property upgrades all change the inputs between calls.
package stats

import (
	"fmt"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
)

// Per-point stat contributions and caps.
const (
	// DamagePerStrength is the flat damage added per strength point.
	DamagePerStrength = 3
	// DefensePerVitality is the flat defense added per vitality point.
	DefensePerVitality = 2
	// DodgePerAgility is the dodge probability added per agility point.
	DodgePerAgility = 0.02
	// DodgeCap is the hard ceiling on dodge chance.
	DodgeCap = 0.50
	// HappinessCap bounds the derived happiness value.
	HappinessCap = 100
)

// Bundle holds a character's resolved combat stats.
type Bundle struct {
	// AttackDamage is weapon damage (0 if unarmed) + strength bonus.
	AttackDamage int
	// MagicDamage is the damage of the equipped weapon's magic attack;
	// meaningful only when MagicAvailable is true.
	MagicDamage int
	// MagicAvailable reports whether the equipped weapon can cast at all.
	// Whether the character currently has the mana is checked at use time.
	MagicAvailable bool
	// MagicManaCost is the mana cost of one magic attack.
	MagicManaCost int
	// Defense is armor defense (0 if none) + vitality bonus.
	Defense int
	// DodgeChance is the probability of fully negating an incoming attack,
	// capped at DodgeCap.
	DodgeChance float64
	// Happiness is the derived 0-100 property happiness total.
	Happiness int
	// TrainingMultiplier scales training gains: 1.0 + Happiness/200.
	TrainingMultiplier float64
}

// Resolve computes the effective stat bundle for rec against cat.
//
// Precondition: rec and cat must be non-nil; equipped ids, owned property
// types, and applied upgrades must all resolve in the catalog.
// Postcondition: Returns a fully populated Bundle without mutating rec, or
// a catalog.ErrNotFound-wrapping error for a dangling reference.
func Resolve(rec *character.Record, cat *catalog.Catalog) (Bundle, error) {
	var b Bundle

	if rec.WeaponID != "" {
		w, err := cat.Weapon(rec.WeaponID)
		if err != nil {
			return Bundle{}, fmt.Errorf("resolving equipped weapon: %w", err)
		}
		b.AttackDamage = w.Damage
		if w.SupportsMagic() {
			b.MagicAvailable = true
			b.MagicManaCost = w.ManaCost
		}
	}
	b.AttackDamage += rec.Strength * DamagePerStrength

	// Magic hits half again as hard as a regular attack, rounded down.
	if b.MagicAvailable {
		b.MagicDamage = b.AttackDamage * 3 / 2
	}

	if rec.ArmorID != "" {
		a, err := cat.Armor(rec.ArmorID)
		if err != nil {
			return Bundle{}, fmt.Errorf("resolving equipped armor: %w", err)
		}
		b.Defense = a.Defense
	}
	b.Defense += rec.Vitality * DefensePerVitality

	b.DodgeChance = float64(rec.Agility) * DodgePerAgility
	if b.DodgeChance > DodgeCap {
		b.DodgeChance = DodgeCap
	}

	happiness, err := Happiness(rec, cat)
	if err != nil {
		return Bundle{}, err
	}
	b.Happiness = happiness
	b.TrainingMultiplier = 1.0 + float64(happiness)/200.0

	return b, nil
}

// Happiness derives the 0-100 happiness total from owned properties: each
// instance contributes its type's base happiness plus the bonuses of its
// applied upgrades. Happiness is never stored on the record; it is always
// recomputed here.
//
// Postcondition: Returns a value in [0, HappinessCap] or a
// catalog.ErrNotFound-wrapping error for a dangling reference.
func Happiness(rec *character.Record, cat *catalog.Catalog) (int, error) {
	total := 0
	for _, p := range rec.Properties {
		pt, err := cat.PropertyType(p.TypeID)
		if err != nil {
			return 0, fmt.Errorf("resolving property %s: %w", p.ID, err)
		}
		total += pt.Happiness
		for _, uid := range p.UpgradeIDs {
			u, err := cat.Upgrade(uid)
			if err != nil {
				return 0, fmt.Errorf("resolving upgrade on property %s: %w", p.ID, err)
			}
			total += u.Happiness
		}
	}
	if total < 0 {
		total = 0
	}
	if total > HappinessCap {
		total = HappinessCap
	}
	return total, nil
}
