package main

import (
	"fmt"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/leaderboard"
)

var podiumMedals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// printLeaderboard ranks the saved records and renders them, medals first.
func printLeaderboard(cat *catalog.Catalog, recs []*character.Record) {
	entries := make([]leaderboard.Entry, 0, len(recs))
	for _, rec := range recs {
		e, err := leaderboard.Snapshot(rec, cat)
		if err != nil {
			fmt.Printf("  (skipping %s: %v)\n", rec.Name, err)
			continue
		}
		entries = append(entries, e)
	}

	for _, r := range leaderboard.Rank(entries) {
		marker := fmt.Sprintf("%2d.", r.Rank)
		if r.Podium {
			marker = podiumMedals[r.Rank]
		}
		gear := ""
		if r.Weapon != "" {
			gear = " " + r.Weapon
		}
		if r.Armor != "" {
			gear += ", " + r.Armor
		}
		fmt.Printf("%s %-16s Level %-3d (exp %d, health %d, %s)%s\n",
			marker, r.Name, r.Level, r.Experience, r.MaxHealth, formatMoney(r.Currency), gear)
	}
}
