package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/storage"
)

// CharacterRepository persists full character records, including owned
// properties and applied upgrades, in PostgreSQL.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// SaveCharacter upserts the record and replaces its property rows in a
// single transaction, so a failed save never leaves a partial state.
//
// Precondition: rec.Name must be non-empty.
func (r *CharacterRepository) SaveCharacter(ctx context.Context, rec *character.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO characters
			(name, health, max_health, mana, max_mana, energy, max_energy,
			 currency, level, experience, strength, agility, vitality,
			 weapon_id, armor_id, last_energy_update, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW())
		ON CONFLICT (name) DO UPDATE SET
			health = EXCLUDED.health, max_health = EXCLUDED.max_health,
			mana = EXCLUDED.mana, max_mana = EXCLUDED.max_mana,
			energy = EXCLUDED.energy, max_energy = EXCLUDED.max_energy,
			currency = EXCLUDED.currency, level = EXCLUDED.level,
			experience = EXCLUDED.experience, strength = EXCLUDED.strength,
			agility = EXCLUDED.agility, vitality = EXCLUDED.vitality,
			weapon_id = EXCLUDED.weapon_id, armor_id = EXCLUDED.armor_id,
			last_energy_update = EXCLUDED.last_energy_update,
			updated_at = NOW()`,
		rec.Name,
		rec.Health.Current, rec.Health.Max,
		rec.Mana.Current, rec.Mana.Max,
		rec.Energy.Current, rec.Energy.Max,
		rec.Currency, rec.Level, rec.Experience,
		rec.Strength, rec.Agility, rec.Vitality,
		rec.WeaponID, rec.ArmorID,
		rec.LastEnergyUpdate, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting character: %w", err)
	}

	// Property rows are replaced wholesale; position preserves owner order.
	_, err = tx.Exec(ctx, `DELETE FROM character_properties WHERE character_name = $1`, rec.Name)
	if err != nil {
		return fmt.Errorf("clearing properties: %w", err)
	}
	for i, p := range rec.Properties {
		_, err = tx.Exec(ctx, `
			INSERT INTO character_properties
				(id, character_name, position, type_id, listing, listing_price)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			p.ID, rec.Name, i, p.TypeID, string(p.Listing), p.ListingPrice,
		)
		if err != nil {
			return fmt.Errorf("inserting property %s: %w", p.ID, err)
		}
		for j, uid := range p.UpgradeIDs {
			_, err = tx.Exec(ctx, `
				INSERT INTO property_upgrades (property_id, upgrade_id, position)
				VALUES ($1,$2,$3)`,
				p.ID, uid, j,
			)
			if err != nil {
				return fmt.Errorf("inserting upgrade %s on property %s: %w", uid, p.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// LoadCharacter returns the saved record for name, or storage.ErrNotFound.
func (r *CharacterRepository) LoadCharacter(ctx context.Context, name string) (*character.Record, error) {
	var rec character.Record
	err := r.db.QueryRow(ctx, `
		SELECT name, health, max_health, mana, max_mana, energy, max_energy,
		       currency, level, experience, strength, agility, vitality,
		       weapon_id, armor_id, last_energy_update, created_at, updated_at
		FROM characters WHERE name = $1`,
		name,
	).Scan(
		&rec.Name,
		&rec.Health.Current, &rec.Health.Max,
		&rec.Mana.Current, &rec.Mana.Max,
		&rec.Energy.Current, &rec.Energy.Max,
		&rec.Currency, &rec.Level, &rec.Experience,
		&rec.Strength, &rec.Agility, &rec.Vitality,
		&rec.WeaponID, &rec.ArmorID,
		&rec.LastEnergyUpdate, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}

	if err := r.loadProperties(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListCharacters returns every saved record ordered by creation time.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListCharacters(ctx context.Context) ([]*character.Record, error) {
	rows, err := r.db.Query(ctx, `
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
		var rec character.Record
		if err := rows.Scan(
			&rec.Name,
			&rec.Health.Current, &rec.Health.Max,
			&rec.Mana.Current, &rec.Mana.Max,
			&rec.Energy.Current, &rec.Energy.Max,
			&rec.Currency, &rec.Level, &rec.Experience,
			&rec.Strength, &rec.Agility, &rec.Vitality,
			&rec.WeaponID, &rec.ArmorID,
			&rec.LastEnergyUpdate, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range recs {
		if err := r.loadProperties(ctx, rec); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// Close is a no-op; the underlying pool is owned by the caller.
func (r *CharacterRepository) Close() error { return nil }

// loadProperties populates rec.Properties and their upgrade lists.
func (r *CharacterRepository) loadProperties(ctx context.Context, rec *character.Record) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, type_id, listing, listing_price
		FROM character_properties
		WHERE character_name = $1 ORDER BY position ASC`,
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
		urows, err := r.db.Query(ctx, `
			SELECT upgrade_id FROM property_upgrades
			WHERE property_id = $1 ORDER BY position ASC`,
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
