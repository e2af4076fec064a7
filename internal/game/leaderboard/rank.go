// Package leaderboard ranks saved characters. Ranking is a pure function;
// loading and storing the entries is the persistence layer's job.
package leaderboard

import (
	"sort"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
)

// PodiumSize is how many top entries get presentation medals.
const PodiumSize = 3

// Entry is one character's leaderboard snapshot, taken at save time.
type Entry struct {
	Name       string
	Level      int
	Experience int
	Currency   int
	MaxHealth  int
	// Weapon and Armor are display names; empty when nothing is equipped.
	Weapon string
	Armor  string
}

// Ranked is an Entry with its assigned position.
type Ranked struct {
	Entry
	// Rank is 1-based; ties in (level, experience) still receive distinct
	// ranks in stable input order.
	Rank int
	// Podium is true for the top three entries.
	Podium bool
}

// Snapshot builds a leaderboard entry from a record, resolving equipment
// display names through the catalog.
//
// Postcondition: Returns a catalog.ErrNotFound-wrapping error for a
// dangling equipment reference.
func Snapshot(rec *character.Record, cat *catalog.Catalog) (Entry, error) {
	e := Entry{
		Name:       rec.Name,
		Level:      rec.Level,
		Experience: rec.Experience,
		Currency:   rec.Currency,
		MaxHealth:  rec.Health.Max,
	}
	if rec.WeaponID != "" {
		w, err := cat.Weapon(rec.WeaponID)
		if err != nil {
			return Entry{}, err
		}
		e.Weapon = w.Name
	}
	if rec.ArmorID != "" {
		a, err := cat.Armor(rec.ArmorID)
		if err != nil {
			return Entry{}, err
		}
		e.Armor = a.Name
	}
	return e, nil
}

// Rank orders entries by level descending, then experience descending.
// The sort is stable: entries with identical keys keep their relative input
// order, so rankings are deterministic.
//
// Postcondition: Returns a new slice; the input is not modified.
func Rank(entries []Entry) []Ranked {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level > sorted[j].Level
		}
		return sorted[i].Experience > sorted[j].Experience
	})

	ranked := make([]Ranked, len(sorted))
	for i, e := range sorted {
		ranked[i] = Ranked{
			Entry:  e,
			Rank:   i + 1,
			Podium: i < PodiumSize,
		}
	}
	return ranked
}
