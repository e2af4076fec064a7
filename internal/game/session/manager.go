// Package session serializes all mutating gameplay operations per character:
// one combat action or training action completes fully before the next is
// accepted, which is what keeps the record's invariants intact when the
// engine is exposed beyond a single goroutine.
package session

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/combat"
	"github.com/cory-johannsen/wizardry/internal/game/dice"
	"github.com/cory-johannsen/wizardry/internal/game/energy"
	"github.com/cory-johannsen/wizardry/internal/game/property"
	"github.com/cory-johannsen/wizardry/internal/game/shop"
	"github.com/cory-johannsen/wizardry/internal/game/stats"
	"github.com/cory-johannsen/wizardry/internal/game/training"
)

// ErrNoActiveCombat is returned when a combat action arrives without a
// started encounter.
var ErrNoActiveCombat = errors.New("no active combat")

// ErrCombatActive is returned when starting an encounter while one is still
// unresolved.
var ErrCombatActive = errors.New("combat already in progress")

// ErrNotAttached is returned for operations on a character name with no
// attached session.
var ErrNotAttached = errors.New("character not attached")

// RestConfig holds the fixed restore amounts of one rest action.
type RestConfig struct {
	Health int
	Mana   int
}

// playerSession is one attached character and their in-flight combat.
// The mutex serializes every mutating operation on the record.
type playerSession struct {
	mu     sync.Mutex
	rec    *character.Record
	combat *combat.Session
}

// Manager tracks attached characters and routes gameplay operations to the
// engines. All methods are safe for concurrent use; operations on the same
// character are serialized.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*playerSession

	regen    *energy.Regenerator
	combat   *combat.Engine
	training *training.Engine
	shop     *shop.Shop
	market   *property.Market
	cat      *catalog.Catalog
	src      dice.Source
	rest     RestConfig
	logger   *zap.Logger
}

// NewManager creates a Manager wired to the given engines.
//
// Precondition: all dependencies must be non-nil.
func NewManager(regen *energy.Regenerator, cbt *combat.Engine, trn *training.Engine, shp *shop.Shop, mkt *property.Market, cat *catalog.Catalog, src dice.Source, rest RestConfig, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*playerSession),
		regen:    regen,
		combat:   cbt,
		training: trn,
		shop:     shp,
		market:   mkt,
		cat:      cat,
		src:      src,
		rest:     rest,
		logger:   logger,
	}
}

// Attach registers a character record with the manager.
//
// Postcondition: Returns an error if the name is already attached.
func (m *Manager) Attach(rec *character.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[rec.Name]; exists {
		return fmt.Errorf("character %q already attached", rec.Name)
	}
	m.sessions[rec.Name] = &playerSession{rec: rec}
	m.logger.Info("character attached",
		zap.String("name", rec.Name),
		zap.Int("level", rec.Level),
	)
	return nil
}

// Detach removes the character's session. Any unresolved combat is abandoned
// (the energy cost stays spent).
func (m *Manager) Detach(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; !exists {
		return fmt.Errorf("character %q: %w", name, ErrNotAttached)
	}
	delete(m.sessions, name)
	m.logger.Info("character detached", zap.String("name", name))
	return nil
}

// get returns the session for name.
func (m *Manager) get(name string) (*playerSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ps, ok := m.sessions[name]
	if !ok {
		return nil, fmt.Errorf("character %q: %w", name, ErrNotAttached)
	}
	return ps, nil
}

// Record returns the attached character record for persistence reads.
// Callers must not mutate it while other operations may be running.
func (m *Manager) Record(name string) (*character.Record, error) {
	ps, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return ps.rec, nil
}

// RegenerateEnergy applies wall-clock energy regeneration and returns the
// energy gained.
func (m *Manager) RegenerateEnergy(name string) (int, error) {
	ps, err := m.get(name)
	if err != nil {
		return 0, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	gained := m.regen.Apply(ps.rec)
	if gained > 0 {
		m.logger.Debug("energy regenerated",
			zap.String("name", name),
			zap.Int("gained", gained),
			zap.Int("energy", ps.rec.Energy.Current),
		)
	}
	return gained, nil
}

// StatBundle resolves the character's current effective stats.
func (m *Manager) StatBundle(name string) (stats.Bundle, error) {
	ps, err := m.get(name)
	if err != nil {
		return stats.Bundle{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return stats.Resolve(ps.rec, m.cat)
}

// StartCombat regenerates energy, selects a level-scaled enemy, and starts
// an encounter. The combat energy cost is deducted up front.
//
// Postcondition: Returns ErrCombatActive if an encounter is unresolved;
// rejections (insufficient energy, downed) leave the record unchanged.
func (m *Manager) StartCombat(name string) (*combat.Enemy, error) {
	ps, err := m.get(name)
	if err != nil {
		return nil, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.combat != nil && !ps.combat.Done() {
		return nil, ErrCombatActive
	}

	m.regen.Apply(ps.rec)

	enemy := combat.SelectEnemy(m.cat, ps.rec.Level, m.src)
	sess, err := m.combat.Start(ps.rec, enemy, m.src)
	if err != nil {
		return nil, err
	}
	ps.combat = sess

	m.logger.Info("combat started",
		zap.String("name", name),
		zap.String("enemy", enemy.Name),
		zap.Int("enemy_health", enemy.MaxHealth),
	)
	return enemy, nil
}

// AdvanceCombat applies one player action to the active encounter.
//
// Postcondition: Returns ErrNoActiveCombat when no encounter is in flight;
// the terminal state clears the active session.
func (m *Manager) AdvanceCombat(name string, action combat.Action) ([]combat.Event, combat.State, error) {
	ps, err := m.get(name)
	if err != nil {
		return nil, "", err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.combat == nil || ps.combat.Done() {
		return nil, "", ErrNoActiveCombat
	}

	events, err := ps.combat.Advance(action)
	if err != nil {
		return nil, ps.combat.State(), err
	}

	state := ps.combat.State()
	if ps.combat.Done() {
		m.logger.Info("combat resolved",
			zap.String("name", name),
			zap.String("state", string(state)),
			zap.Int("turns", ps.combat.Turns()),
		)
		ps.combat = nil
	}
	return events, state, nil
}

// ActiveCombat returns the in-flight combat session for display, or
// ErrNoActiveCombat.
func (m *Manager) ActiveCombat(name string) (*combat.Session, error) {
	ps, err := m.get(name)
	if err != nil {
		return nil, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.combat == nil || ps.combat.Done() {
		return nil, ErrNoActiveCombat
	}
	return ps.combat, nil
}

// Train performs one gym action.
func (m *Manager) Train(name string, mode training.Mode) (training.Result, error) {
	ps, err := m.get(name)
	if err != nil {
		return training.Result{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.combat != nil && !ps.combat.Done() {
		return training.Result{}, ErrCombatActive
	}

	res, err := m.training.Train(ps.rec, m.cat, mode)
	if err != nil {
		return training.Result{}, err
	}
	m.logger.Info("training complete",
		zap.String("name", name),
		zap.String("mode", string(res.Mode)),
		zap.Float64("multiplier", res.Multiplier),
	)
	return res, nil
}

// Rest restores the configured health and mana amounts, clamped at max.
// This is the recovery path after a combat defeat.
func (m *Manager) Rest(name string) (RestConfig, error) {
	ps, err := m.get(name)
	if err != nil {
		return RestConfig{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.combat != nil && !ps.combat.Done() {
		return RestConfig{}, ErrCombatActive
	}

	ps.rec.Heal(m.rest.Health)
	ps.rec.RestoreMana(m.rest.Mana)
	return m.rest, nil
}

// BuyWeapon purchases and equips a weapon through the shop.
func (m *Manager) BuyWeapon(name, weaponID string) (shop.Receipt, error) {
	ps, err := m.get(name)
	if err != nil {
		return shop.Receipt{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return m.shop.BuyWeapon(ps.rec, weaponID)
}

// BuyArmor purchases and equips armor through the shop.
func (m *Manager) BuyArmor(name, armorID string) (shop.Receipt, error) {
	ps, err := m.get(name)
	if err != nil {
		return shop.Receipt{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return m.shop.BuyArmor(ps.rec, armorID)
}

// BuyProperty purchases a new property instance.
func (m *Manager) BuyProperty(name, typeID string) (*character.Property, error) {
	ps, err := m.get(name)
	if err != nil {
		return nil, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return m.market.Buy(ps.rec, typeID)
}

// UpgradeProperty buys and applies an upgrade to an owned property.
func (m *Manager) UpgradeProperty(name, propertyID, upgradeID string) error {
	ps, err := m.get(name)
	if err != nil {
		return err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return m.market.ApplyUpgrade(ps.rec, propertyID, upgradeID)
}

// ListProperty moves an owned property into a marketplace listing state.
func (m *Manager) ListProperty(name, propertyID string, state character.ListingState, price int) error {
	ps, err := m.get(name)
	if err != nil {
		return err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	switch state {
	case character.ListingForSale:
		return m.market.ListForSale(ps.rec, propertyID, price)
	case character.ListingForRent:
		return m.market.ListForRent(ps.rec, propertyID, price)
	case character.ListingNone:
		return m.market.Delist(ps.rec, propertyID)
	default:
		return fmt.Errorf("unknown listing state %q", state)
	}
}
