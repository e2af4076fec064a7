// Package storage defines the persistence contract shared by the SQLite and
// PostgreSQL backends. A store round-trips the full character record,
// including owned properties and their upgrades, losslessly.
package storage

import (
	"context"
	"errors"

	"github.com/cory-johannsen/wizardry/internal/game/character"
)

// ErrNotFound is returned when loading a character that was never saved.
var ErrNotFound = errors.New("character not found")

// ErrUnavailable is returned when the backing store cannot be reached.
// Core game state is unaffected; the caller decides whether to retry.
var ErrUnavailable = errors.New("persistence unavailable")

// Store is the character persistence interface.
type Store interface {
	// SaveCharacter persists rec wholesale, replacing any previous save
	// under the same name.
	SaveCharacter(ctx context.Context, rec *character.Record) error
	// LoadCharacter returns the saved record for name, or ErrNotFound.
	LoadCharacter(ctx context.Context, name string) (*character.Record, error)
	// ListCharacters returns every saved record in save order; the
	// leaderboard ranks these.
	ListCharacters(ctx context.Context) ([]*character.Record, error)
	// Close releases store resources.
	Close() error
}
