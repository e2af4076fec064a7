// Package main provides the interactive single-player game binary. All game
// rules live in the internal engine packages; this binary is menus and
// formatting around them.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wizardry/internal/config"
	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/combat"
	"github.com/cory-johannsen/wizardry/internal/game/dice"
	"github.com/cory-johannsen/wizardry/internal/game/energy"
	"github.com/cory-johannsen/wizardry/internal/game/leveling"
	"github.com/cory-johannsen/wizardry/internal/game/property"
	"github.com/cory-johannsen/wizardry/internal/game/session"
	"github.com/cory-johannsen/wizardry/internal/game/shop"
	"github.com/cory-johannsen/wizardry/internal/game/training"
	"github.com/cory-johannsen/wizardry/internal/observability"
	"github.com/cory-johannsen/wizardry/internal/scripting"
	"github.com/cory-johannsen/wizardry/internal/storage"
	"github.com/cory-johannsen/wizardry/internal/storage/postgres"
	"github.com/cory-johannsen/wizardry/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	cat, err := catalog.LoadFromDir(cfg.Content.CatalogDir)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	curve := leveling.DefaultCurve
	if cfg.Content.LevelCurveScript != "" {
		curve, err = scripting.LoadCurveFromFile(cfg.Content.LevelCurveScript)
		if err != nil {
			logger.Fatal("loading level curve script", zap.Error(err))
		}
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("opening store", zap.Error(err))
	}
	defer store.Close()

	src := dice.NewDrawer(dice.NewCryptoSource(), logger)
	leveler := leveling.NewEngine(curve)
	regen := energy.NewRegenerator(cfg.Game.RegenInterval, cfg.Game.RegenAmount, energy.SystemClock{})
	combatEngine := combat.NewEngine(cat, leveler, cfg.Game.CombatEnergyCost)
	trainer := training.NewEngine(
		training.Costs{Single: cfg.Game.TrainingCost, Intensive: cfg.Game.IntensiveCost},
		training.Gains{Single: cfg.Game.TrainingGain, Intensive: cfg.Game.IntensiveGain},
	)
	mgr := session.NewManager(
		regen, combatEngine, trainer,
		shop.New(cat), property.NewMarket(cat), cat, src,
		session.RestConfig{Health: cfg.Game.RestHealth, Mana: cfg.Game.RestMana},
		logger,
	)

	g := &game{
		cfg:    cfg,
		cat:    cat,
		mgr:    mgr,
		store:  store,
		logger: logger,
		in:     bufio.NewScanner(os.Stdin),
	}
	g.run()
}

// openStore selects the persistence backend from configuration.
func openStore(cfg config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		logger.Info("using sqlite save store", zap.String("path", cfg.Storage.SQLitePath))
		return sqlite.Open(cfg.Storage.SQLitePath)
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres store", zap.String("host", cfg.Database.Host))
		return &pooledRepo{CharacterRepository: postgres.NewCharacterRepository(pool.DB()), pool: pool}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// pooledRepo ties the repository's lifetime to its pool.
type pooledRepo struct {
	*postgres.CharacterRepository
	pool *postgres.Pool
}

func (p *pooledRepo) Close() error {
	p.pool.Close()
	return nil
}

type game struct {
	cfg    config.Config
	cat    *catalog.Catalog
	mgr    *session.Manager
	store  storage.Store
	logger *zap.Logger
	in     *bufio.Scanner

	name string
}

// prompt prints msg and returns one trimmed input line.
func (g *game) prompt(msg string) string {
	fmt.Print(msg)
	if !g.in.Scan() {
		fmt.Println()
		os.Exit(0)
	}
	return strings.TrimSpace(g.in.Text())
}

// formatMoney renders pennies as shillings and pennies (12p to the shilling).
func formatMoney(pennies int) string {
	if pennies < 12 {
		return fmt.Sprintf("%dp", pennies)
	}
	return fmt.Sprintf("%ds %dp", pennies/12, pennies%12)
}

func (g *game) run() {
	fmt.Println("==================================================")
	fmt.Println("                 HIGH WIZARDRY")
	fmt.Println("==================================================")

	if !g.startMenu() {
		return
	}

	for {
		g.showStatus()
		fmt.Println("\n--- MAIN MENU ---")
		fmt.Println("1. Weapon Shop")
		fmt.Println("2. Armor Shop")
		fmt.Printf("3. Combat (costs %d energy)\n", g.cfg.Game.CombatEnergyCost)
		fmt.Println("4. Rest")
		fmt.Println("5. Training Gym")
		fmt.Println("6. Property Market")
		fmt.Println("7. Leaderboard")
		fmt.Println("8. Save Game")
		fmt.Println("9. Exit")

		switch g.prompt("\nWhat would you like to do? ") {
		case "1":
			g.weaponShop()
		case "2":
			g.armorShop()
		case "3":
			g.combat()
		case "4":
			g.restAction()
		case "5":
			g.gym()
		case "6":
			g.propertyMarket()
		case "7":
			g.showLeaderboard()
		case "8":
			g.save()
		case "9":
			if strings.EqualFold(g.prompt("Save before exit? (y/n): "), "y") {
				g.save()
			}
			fmt.Println("Thanks for playing High Wizardry!")
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

// startMenu handles new game / load game. Returns false to quit.
func (g *game) startMenu() bool {
	fmt.Println("\n1. New Game")
	fmt.Println("2. Load Game")
	fmt.Println("3. Exit")

	switch g.prompt("\nSelect option: ") {
	case "1":
		name := g.prompt("\nEnter your character name: ")
		if name == "" {
			name = "Hero"
		}
		rec := character.NewRecord(name, character.StartingValues{
			Health:   g.cfg.Game.StartingHealth,
			Mana:     g.cfg.Game.StartingMana,
			Energy:   g.cfg.Game.StartingEnergy,
			Currency: g.cfg.Game.StartingCurrency,
		}, energy.SystemClock{}.Now())
		if err := g.mgr.Attach(rec); err != nil {
			fmt.Println("Error:", err)
			return false
		}
		g.name = name
		fmt.Printf("\nWelcome, %s!\n", name)
		return true
	case "2":
		name := g.prompt("\nCharacter name to load: ")
		rec, err := g.store.LoadCharacter(context.Background(), name)
		if err != nil {
			fmt.Println("Could not load:", err)
			return false
		}
		if err := g.mgr.Attach(rec); err != nil {
			fmt.Println("Error:", err)
			return false
		}
		g.name = name
		fmt.Printf("\nWelcome back, %s!\n", name)
		return true
	default:
		return false
	}
}

func (g *game) showStatus() {
	if gained, err := g.mgr.RegenerateEnergy(g.name); err == nil && gained > 0 {
		fmt.Printf("\nRegenerated %d energy.\n", gained)
	}

	rec, err := g.mgr.Record(g.name)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	bundle, err := g.mgr.StatBundle(g.name)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("\n==================================================")
	fmt.Printf("%s - Level %d (exp %d)\n", rec.Name, rec.Level, rec.Experience)
	fmt.Printf("Health: %d/%d  Mana: %d/%d  Energy: %d/%d\n",
		rec.Health.Current, rec.Health.Max,
		rec.Mana.Current, rec.Mana.Max,
		rec.Energy.Current, rec.Energy.Max,
	)
	fmt.Printf("Purse: %s\n", formatMoney(rec.Currency))

	weaponName := "None (fists)"
	if rec.WeaponID != "" {
		if w, err := g.cat.Weapon(rec.WeaponID); err == nil {
			weaponName = fmt.Sprintf("%s (damage %d)", w.Name, w.Damage)
		}
	}
	armorName := "None"
	if rec.ArmorID != "" {
		if a, err := g.cat.Armor(rec.ArmorID); err == nil {
			armorName = fmt.Sprintf("%s (defense %d)", a.Name, a.Defense)
		}
	}
	fmt.Printf("Weapon: %s  Armor: %s\n", weaponName, armorName)
	fmt.Printf("STR %d  AGI %d (dodge %.0f%%)  VIT %d\n",
		rec.Strength, rec.Agility, bundle.DodgeChance*100, rec.Vitality)
	fmt.Printf("Happiness: %d (training x%.2f)\n", bundle.Happiness, bundle.TrainingMultiplier)
	fmt.Println("==================================================")
}

func (g *game) weaponShop() {
	fmt.Println("\n--- WEAPON SHOP ---")
	weapons := g.cat.Weapons()
	for _, w := range weapons {
		magic := ""
		if w.SupportsMagic() {
			magic = fmt.Sprintf(", mana cost %d", w.ManaCost)
		}
		fmt.Printf("  %-18s %8s (damage %d%s)\n", w.ID, formatMoney(w.Price), w.Damage, magic)
	}
	id := g.prompt("\nWeapon id to buy (blank to cancel): ")
	if id == "" {
		return
	}
	receipt, err := g.mgr.BuyWeapon(g.name, id)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Purchased and equipped %s for %s.\n", receipt.ItemName, formatMoney(receipt.Paid))
	if receipt.TradeIn > 0 {
		fmt.Printf("Traded in %s for %s.\n", receipt.ReplacedName, formatMoney(receipt.TradeIn))
	}
}

func (g *game) armorShop() {
	fmt.Println("\n--- ARMOR SHOP ---")
	for _, a := range g.cat.ArmorSets() {
		fmt.Printf("  %-18s %8s (defense %d)\n", a.ID, formatMoney(a.Price), a.Defense)
	}
	id := g.prompt("\nArmor id to buy (blank to cancel): ")
	if id == "" {
		return
	}
	receipt, err := g.mgr.BuyArmor(g.name, id)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Purchased and equipped %s for %s.\n", receipt.ItemName, formatMoney(receipt.Paid))
	if receipt.TradeIn > 0 {
		fmt.Printf("Traded in %s for %s.\n", receipt.ReplacedName, formatMoney(receipt.TradeIn))
	}
}

func (g *game) combat() {
	enemy, err := g.mgr.StartCombat(g.name)
	if err != nil {
		fmt.Println("Cannot fight:", err)
		return
	}
	fmt.Printf("\nA wild %s appears! (health %d, damage %d)\n",
		enemy.Name, enemy.MaxHealth, enemy.Damage)

	for {
		sess, err := g.mgr.ActiveCombat(g.name)
		if err != nil {
			return
		}
		rec, _ := g.mgr.Record(g.name)
		fmt.Printf("\nYou: %d/%d health, %d/%d mana. %s: %d/%d health.\n",
			rec.Health.Current, rec.Health.Max,
			rec.Mana.Current, rec.Mana.Max,
			enemy.Name, enemy.CurrentHealth, enemy.MaxHealth,
		)
		fmt.Println("1. Attack")
		if sess.CanCast() {
			fmt.Println("2. Cast Magic")
		}
		fmt.Println("3. Flee")

		var action combat.Action
		switch g.prompt("\nYour action: ") {
		case "1":
			action = combat.ActionAttack
		case "2":
			action = combat.ActionMagic
		case "3":
			action = combat.ActionFlee
		default:
			fmt.Println("Invalid choice.")
			continue
		}

		events, state, err := g.mgr.AdvanceCombat(g.name, action)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		for _, ev := range events {
			fmt.Println(ev.Narrative)
		}
		if state != combat.StatePlayerTurn {
			return
		}
	}
}

func (g *game) restAction() {
	restored, err := g.mgr.Rest(g.name)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("You rest, restoring up to %d health and %d mana.\n", restored.Health, restored.Mana)
}

func (g *game) gym() {
	fmt.Println("\n--- TRAINING GYM ---")
	fmt.Printf("1. Train Strength (%s)\n", formatMoney(g.cfg.Game.TrainingCost))
	fmt.Printf("2. Train Agility (%s)\n", formatMoney(g.cfg.Game.TrainingCost))
	fmt.Printf("3. Train Vitality (%s)\n", formatMoney(g.cfg.Game.TrainingCost))
	fmt.Printf("4. Intensive Training (%s, all stats)\n", formatMoney(g.cfg.Game.IntensiveCost))

	var mode training.Mode
	switch g.prompt("\nWhat would you like to train? ") {
	case "1":
		mode = training.ModeStrength
	case "2":
		mode = training.ModeAgility
	case "3":
		mode = training.ModeVitality
	case "4":
		mode = training.ModeIntensive
	default:
		return
	}

	res, err := g.mgr.Train(g.name, mode)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Training complete (x%.2f): +%d STR, +%d AGI, +%d VIT.\n",
		res.Multiplier, res.Strength, res.Agility, res.Vitality)
}

func (g *game) propertyMarket() {
	fmt.Println("\n--- PROPERTY MARKET ---")
	for _, pt := range g.cat.PropertyTypes() {
		fmt.Printf("  %-12s %10s (happiness +%d)\n", pt.ID, formatMoney(pt.Price), pt.Happiness)
	}
	rec, _ := g.mgr.Record(g.name)
	if len(rec.Properties) > 0 {
		fmt.Println("\nOwned:")
		for _, p := range rec.Properties {
			fmt.Printf("  %s  %s  upgrades=%v  listing=%s\n", p.ID, p.TypeID, p.UpgradeIDs, p.Listing)
		}
	}

	fmt.Println("\n1. Buy property")
	fmt.Println("2. Apply upgrade")
	fmt.Println("3. List for sale")
	fmt.Println("4. List for rent")
	fmt.Println("5. Delist")

	choice := g.prompt("\nChoice (blank to cancel): ")
	switch choice {
	case "1":
		id := g.prompt("Property type id: ")
		p, err := g.mgr.BuyProperty(g.name, id)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Printf("Purchased %s (%s).\n", p.TypeID, p.ID)
	case "2":
		fmt.Println("Available upgrades:")
		for _, u := range g.cat.Upgrades() {
			fmt.Printf("  %-10s %8s (happiness +%d)\n", u.ID, formatMoney(u.Price), u.Happiness)
		}
		pid := g.prompt("Property instance id: ")
		uid := g.prompt("Upgrade id: ")
		if err := g.mgr.UpgradeProperty(g.name, pid, uid); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Upgrade applied.")
	case "3", "4":
		pid := g.prompt("Property instance id: ")
		var price int
		if _, err := fmt.Sscanf(g.prompt("Asking price (pennies): "), "%d", &price); err != nil {
			fmt.Println("Invalid price.")
			return
		}
		state := character.ListingForSale
		if choice == "4" {
			state = character.ListingForRent
		}
		if err := g.mgr.ListProperty(g.name, pid, state, price); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Listed.")
	case "5":
		pid := g.prompt("Property instance id: ")
		if err := g.mgr.ListProperty(g.name, pid, character.ListingNone, 0); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Delisted.")
	}
}

func (g *game) showLeaderboard() {
	fmt.Println("\n--- LEADERBOARD ---")
	recs, err := g.store.ListCharacters(context.Background())
	if err != nil {
		fmt.Println("Could not load leaderboard:", err)
		return
	}
	if len(recs) == 0 {
		fmt.Println("Leaderboard is empty. Save a game to appear on it.")
		return
	}
	printLeaderboard(g.cat, recs)
}

func (g *game) save() {
	rec, err := g.mgr.Record(g.name)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if err := g.store.SaveCharacter(context.Background(), rec); err != nil {
		fmt.Println("Failed to save:", err)
		g.logger.Warn("save failed", zap.Error(err))
		return
	}
	fmt.Println("Game saved.")
}
