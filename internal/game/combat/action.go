package combat

// Action is a player's choice on their turn.
type Action string

const (
	// ActionAttack is a regular weapon (or unarmed) attack.
	ActionAttack Action = "attack"
	// ActionMagic casts the equipped weapon's spell, spending its mana cost.
	ActionMagic Action = "magic"
	// ActionFlee ends the encounter immediately with no rewards.
	ActionFlee Action = "flee"
)

// EventKind classifies a combat event.
type EventKind string

const (
	// EventPlayerHit is the player damaging the enemy.
	EventPlayerHit EventKind = "player_hit"
	// EventEnemyHit is the enemy damaging the player.
	EventEnemyHit EventKind = "enemy_hit"
	// EventDodge is the player fully negating the enemy's attack.
	EventDodge EventKind = "dodge"
	// EventFlee is the player leaving the encounter.
	EventFlee EventKind = "flee"
	// EventVictory is the enemy dropping to 0 health.
	EventVictory EventKind = "victory"
	// EventDefeat is the player dropping to 0 health.
	EventDefeat EventKind = "defeat"
	// EventLevelUp is a level gained from the victory rewards.
	EventLevelUp EventKind = "level_up"
)

// Event records one thing that happened while advancing the encounter.
type Event struct {
	Kind EventKind
	// Damage is the damage applied, after defense; 0 for non-damage events.
	Damage int
	// Magic is true when the player's hit was a spell.
	Magic bool
	// Narrative is a human-readable account for the presentation layer.
	Narrative string
}
