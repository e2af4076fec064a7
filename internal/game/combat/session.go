package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/dice"
	"github.com/cory-johannsen/wizardry/internal/game/leveling"
	"github.com/cory-johannsen/wizardry/internal/game/stats"
)

// DefaultEnergyCost is the stock energy price of starting an encounter.
const DefaultEnergyCost = 25

// ErrDowned is returned when combat is started at 0 health; the character
// needs a rest action first.
var ErrDowned = errors.New("character is downed and must rest before fighting")

// ErrCombatOver is returned when advancing a session that already reached a
// terminal state.
var ErrCombatOver = errors.New("combat already resolved")

// ErrMagicUnavailable is returned for a magic action when the equipped
// weapon cannot cast (or nothing is equipped).
var ErrMagicUnavailable = errors.New("equipped weapon cannot cast")

// State is the session's position in the encounter state machine.
type State string

const (
	// StatePlayerTurn waits for a player action.
	StatePlayerTurn State = "player_turn"
	// StateVictory is terminal: the enemy is dead and rewards were granted.
	StateVictory State = "victory"
	// StateDefeat is terminal: the player is at 0 health. Defeat is a game
	// state, not an error; recovery happens outside the encounter.
	StateDefeat State = "defeat"
	// StateFled is terminal: the player left with no rewards.
	StateFled State = "fled"
)

// Engine builds combat sessions against a fixed catalog, leveling engine,
// and energy cost.
type Engine struct {
	cat        *catalog.Catalog
	leveler    *leveling.Engine
	energyCost int
}

// NewEngine creates a combat Engine.
//
// Precondition: cat and leveler non-nil; energyCost > 0.
func NewEngine(cat *catalog.Catalog, leveler *leveling.Engine, energyCost int) *Engine {
	return &Engine{cat: cat, leveler: leveler, energyCost: energyCost}
}

// EnergyCost returns the energy price of one encounter.
func (e *Engine) EnergyCost() int { return e.energyCost }

// Session is one live encounter between rec and enemy.
//
// A Session mutates the record it was started with; callers must not run two
// sessions against the same record concurrently.
type Session struct {
	rec    *character.Record
	enemy  *Enemy
	bundle stats.Bundle
	src    dice.Source

	engine *Engine
	state  State
	turns  int
}

// Start begins an encounter: stats are resolved once, the energy cost is
// deducted up front (paid regardless of outcome), and the session enters
// the player's turn.
//
// Precondition: rec, enemy, and src must be non-nil; energy regeneration
// should already have been applied to rec.
// Postcondition: On error (downed, dangling equipment reference, or
// character.ErrInsufficientResource for energy) the record is unchanged and
// no session exists.
func (e *Engine) Start(rec *character.Record, enemy *Enemy, src dice.Source) (*Session, error) {
	if rec.IsDowned() {
		return nil, ErrDowned
	}

	bundle, err := stats.Resolve(rec, e.cat)
	if err != nil {
		return nil, fmt.Errorf("resolving stats for combat: %w", err)
	}

	if err := rec.SpendEnergy(e.energyCost); err != nil {
		return nil, fmt.Errorf("combat costs %d energy: %w", e.energyCost, err)
	}

	return &Session{
		rec:    rec,
		enemy:  enemy,
		bundle: bundle,
		src:    src,
		engine: e,
		state:  StatePlayerTurn,
	}, nil
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool { return s.state != StatePlayerTurn }

// Turns returns how many player turns have been taken.
func (s *Session) Turns() int { return s.turns }

// Enemy returns the opponent for display.
func (s *Session) Enemy() *Enemy { return s.enemy }

// Stats returns the stat bundle resolved at session start.
func (s *Session) Stats() stats.Bundle { return s.bundle }

// CanCast reports whether the magic action is currently available: the
// weapon must support it and the character must have the mana.
func (s *Session) CanCast() bool {
	return s.bundle.MagicAvailable && s.rec.Mana.Current >= s.bundle.MagicManaCost
}

// Advance processes one player action and, unless the encounter ended, the
// enemy's answering turn.
//
// Precondition: the session must not be Done.
// Postcondition: Returns the ordered events of the exchange. A rejected
// action (ErrMagicUnavailable, character.ErrInsufficientResource for mana)
// leaves the session and record unchanged; the turn is not consumed.
func (s *Session) Advance(action Action) ([]Event, error) {
	if s.Done() {
		return nil, ErrCombatOver
	}

	var events []Event

	switch action {
	case ActionAttack:
		dmg := floorDamage(s.bundle.AttackDamage - s.enemy.Defense)
		s.enemy.ApplyDamage(dmg)
		events = append(events, Event{
			Kind:      EventPlayerHit,
			Damage:    dmg,
			Narrative: fmt.Sprintf("%s attacks %s for %d damage.", s.rec.Name, s.enemy.Name, dmg),
		})

	case ActionMagic:
		if !s.bundle.MagicAvailable {
			return nil, ErrMagicUnavailable
		}
		if err := s.rec.SpendMana(s.bundle.MagicManaCost); err != nil {
			return nil, fmt.Errorf("casting costs %d mana: %w", s.bundle.MagicManaCost, err)
		}
		dmg := floorDamage(s.bundle.MagicDamage - s.enemy.Defense)
		s.enemy.ApplyDamage(dmg)
		events = append(events, Event{
			Kind:      EventPlayerHit,
			Damage:    dmg,
			Magic:     true,
			Narrative: fmt.Sprintf("%s casts a spell at %s for %d damage.", s.rec.Name, s.enemy.Name, dmg),
		})

	case ActionFlee:
		s.state = StateFled
		s.turns++
		return append(events, Event{
			Kind:      EventFlee,
			Narrative: fmt.Sprintf("%s flees from %s.", s.rec.Name, s.enemy.Name),
		}), nil

	default:
		return nil, fmt.Errorf("unknown combat action %q", action)
	}

	s.turns++

	if s.enemy.IsDead() {
		events = append(events, s.resolveVictory()...)
		return events, nil
	}

	events = append(events, s.enemyTurn()...)
	return events, nil
}

// enemyTurn runs the enemy's attack: a dodge draw against the resolved dodge
// chance negates the whole hit; otherwise damage lands after defense.
func (s *Session) enemyTurn() []Event {
	if dice.Chance(s.src, s.bundle.DodgeChance) {
		return []Event{{
			Kind:      EventDodge,
			Narrative: fmt.Sprintf("%s dodges %s's attack.", s.rec.Name, s.enemy.Name),
		}}
	}

	dmg := floorDamage(s.enemy.Damage - s.bundle.Defense)
	s.rec.ApplyDamage(dmg)
	events := []Event{{
		Kind:      EventEnemyHit,
		Damage:    dmg,
		Narrative: fmt.Sprintf("%s hits %s for %d damage.", s.enemy.Name, s.rec.Name, dmg),
	}}

	if s.rec.IsDowned() {
		s.state = StateDefeat
		events = append(events, Event{
			Kind:      EventDefeat,
			Narrative: fmt.Sprintf("%s has been defeated by %s.", s.rec.Name, s.enemy.Name),
		})
	}
	return events
}

// resolveVictory grants the enemy's currency and experience rewards and runs
// the leveling engine.
func (s *Session) resolveVictory() []Event {
	s.state = StateVictory
	s.rec.Currency += s.enemy.CurrencyReward
	res := s.engine.leveler.ApplyExperience(s.rec, s.enemy.ExperienceReward)

	events := []Event{{
		Kind: EventVictory,
		Narrative: fmt.Sprintf("%s defeats %s, gaining %dp and %d experience.",
			s.rec.Name, s.enemy.Name, s.enemy.CurrencyReward, s.enemy.ExperienceReward),
	}}
	if res.LevelsGained > 0 {
		events = append(events, Event{
			Kind:      EventLevelUp,
			Narrative: fmt.Sprintf("%s reaches level %d.", s.rec.Name, res.Level),
		})
	}
	return events
}

// floorDamage clamps post-defense damage at 0; defense can nullify a hit but
// never heal.
func floorDamage(dmg int) int {
	if dmg < 0 {
		return 0
	}
	return dmg
}
