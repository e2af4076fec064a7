// Package sqlite provides the local single-player save store, a file-backed
// SQLite database using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/storage"
)

// schema is applied on open; saves are wholesale replacements, so the layout
// mirrors the record directly.
const schema = `
CREATE TABLE IF NOT EXISTS characters (
	name               TEXT PRIMARY KEY,
	health             INTEGER NOT NULL,
	max_health         INTEGER NOT NULL,
	mana               INTEGER NOT NULL,
	max_mana           INTEGER NOT NULL,
	energy             INTEGER NOT NULL,
	max_energy         INTEGER NOT NULL,
	currency           INTEGER NOT NULL,
	level              INTEGER NOT NULL,
	experience         INTEGER NOT NULL,
	strength           INTEGER NOT NULL,
	agility            INTEGER NOT NULL,
	vitality           INTEGER NOT NULL,
	weapon_id          TEXT NOT NULL DEFAULT '',
	armor_id           TEXT NOT NULL DEFAULT '',
	last_energy_update TEXT NOT NULL,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS character_properties (
	id             TEXT PRIMARY KEY,
	character_name TEXT NOT NULL REFERENCES characters(name) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	type_id        TEXT NOT NULL,
	listing        TEXT NOT NULL,
	listing_price  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS property_upgrades (
	property_id TEXT NOT NULL REFERENCES character_properties(id) ON DELETE CASCADE,
	upgrade_id  TEXT NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (property_id, upgrade_id)
);
`

// Store is a SQLite-backed character save store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the save database at path and applies the schema.
//
// Precondition: path must be a writable file path; parent directories are
// created as needed.
// Postcondition: Returns an open Store, or an error wrapping
// storage.ErrUnavailable when the file cannot be opened.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating save directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening save database %s: %w: %w", path, storage.ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging save database %s: %w: %w", path, storage.ErrUnavailable, err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying save schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveCharacter persists rec wholesale, replacing any previous save in a
// single transaction.
func (s *Store) SaveCharacter(ctx context.Context, rec *character.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO characters
			(name, health, max_health, mana, max_mana, energy, max_energy,
			 currency, level, experience, strength, agility, vitality,
			 weapon_id, armor_id, last_energy_update, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (name) DO UPDATE SET
			health = excluded.health, max_health = excluded.max_health,
			mana = excluded.mana, max_mana = excluded.max_mana,
			energy = excluded.energy, max_energy = excluded.max_energy,
			currency = excluded.currency, level = excluded.level,
			experience = excluded.experience, strength = excluded.strength,
			agility = excluded.agility, vitality = excluded.vitality,
			weapon_id = excluded.weapon_id, armor_id = excluded.armor_id,
			last_energy_update = excluded.last_energy_update,
			updated_at = excluded.updated_at`,
		rec.Name,
		rec.Health.Current, rec.Health.Max,
		rec.Mana.Current, rec.Mana.Max,
		rec.Energy.Current, rec.Energy.Max,
		rec.Currency, rec.Level, rec.Experience,
		rec.Strength, rec.Agility, rec.Vitality,
		rec.WeaponID, rec.ArmorID,
		rec.LastEnergyUpdate.UTC().Format(time.RFC3339Nano),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting character: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM character_properties WHERE character_name = ?`, rec.Name); err != nil {
		return fmt.Errorf("clearing properties: %w", err)
	}
	for i, p := range rec.Properties {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO character_properties
				(id, character_name, position, type_id, listing, listing_price)
			VALUES (?,?,?,?,?,?)`,
			p.ID, rec.Name, i, p.TypeID, string(p.Listing), p.ListingPrice,
		)
		if err != nil {
			return fmt.Errorf("inserting property %s: %w", p.ID, err)
		}
		for j, uid := range p.UpgradeIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO property_upgrades (property_id, upgrade_id, position)
				VALUES (?,?,?)`,
				p.ID, uid, j,
			)
			if err != nil {
				return fmt.Errorf("inserting upgrade %s on property %s: %w", uid, p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// LoadCharacter returns the saved record for name, or storage.ErrNotFound.
func (s *Store) LoadCharacter(ctx context.Context, name string) (*character.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, health, max_health, mana, max_mana, energy, max_energy,
		       currency, level, experience, strength, agility, vitality,
		       weapon_id, armor_id, last_energy_update, created_at, updated_at
		FROM characters WHERE name = ?`,
		name,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if err := s.loadProperties(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListCharacters returns every saved record ordered by creation time.
func (s *Store) ListCharacters(ctx context.Context) ([]*character.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, health, max_health, mana, max_mana, energy, max_energy,
		       currency, level, experience, strength, agility, vitality,
		       weapon_id, armor_id, last_energy_update, created_at, updated_at
		FROM characters ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	recs := make([]*character.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range recs {
		if err := s.loadProperties(ctx, rec); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*character.Record, error) {
	var rec character.Record
	var lastUpdate, createdAt, updatedAt string
	if err := sc.Scan(
		&rec.Name,
		&rec.Health.Current, &rec.Health.Max,
		&rec.Mana.Current, &rec.Mana.Max,
		&rec.Energy.Current, &rec.Energy.Max,
		&rec.Currency, &rec.Level, &rec.Experience,
		&rec.Strength, &rec.Agility, &rec.Vitality,
		&rec.WeaponID, &rec.ArmorID,
		&lastUpdate, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if rec.LastEnergyUpdate, err = time.Parse(time.RFC3339Nano, lastUpdate); err != nil {
		return nil, fmt.Errorf("parsing last_energy_update: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &rec, nil
}

func (s *Store) loadProperties(ctx context.Context, rec *character.Record) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type_id, listing, listing_price
		FROM character_properties
		WHERE character_name = ? ORDER BY position ASC`,
		rec.Name,
	)
	if err != nil {
		return fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	rec.Properties = nil
	for rows.Next() {
		var p character.Property
		var listing string
		if err := rows.Scan(&p.ID, &p.TypeID, &listing, &p.ListingPrice); err != nil {
			return fmt.Errorf("scanning property row: %w", err)
		}
		p.Listing = character.ListingState(listing)
		rec.Properties = append(rec.Properties, &p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range rec.Properties {
		urows, err := s.db.QueryContext(ctx, `
			SELECT upgrade_id FROM property_upgrades
			WHERE property_id = ? ORDER BY position ASC`,
			p.ID,
		)
		if err != nil {
			return fmt.Errorf("querying upgrades: %w", err)
		}
		for urows.Next() {
			var uid string
			if err := urows.Scan(&uid); err != nil {
				urows.Close()
				return fmt.Errorf("scanning upgrade row: %w", err)
			}
			p.UpgradeIDs = append(p.UpgradeIDs, uid)
		}
		if err := urows.Err(); err != nil {
			urows.Close()
			return err
		}
		urows.Close()
	}
	return nil
}
