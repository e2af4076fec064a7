// Package character defines the character record: the single mutable entity
// that every gameplay action reads from and writes back into.
package character

import (
	"errors"
	"time"
)

// ErrInsufficientResource is returned when an action costs more energy,
// currency, or mana than the character currently has. The record is never
// mutated on this error.
var ErrInsufficientResource = errors.New("insufficient resource")

// Vital is a bounded resource pair.
//
// Invariant: 0 <= Current <= Max after every record operation.
type Vital struct {
	Current int
	Max     int
}

// clamp bounds v.Current into [0, v.Max].
func (v *Vital) clamp() {
	if v.Current < 0 {
		v.Current = 0
	}
	if v.Current > v.Max {
		v.Current = v.Max
	}
}

// ListingState is the marketplace state of an owned property instance.
type ListingState string

const (
	// ListingNone means the property is not on the market.
	ListingNone ListingState = "unlisted"
	// ListingForSale means the property is listed for a one-time sale.
	ListingForSale ListingState = "for_sale"
	// ListingForRent means the property is listed for rent. Rental matching
	// happens outside the engine; only the listing state lives here.
	ListingForRent ListingState = "for_rent"
)

// Property is one owned property instance. The same property type may be
// owned multiple times; each instance tracks its own upgrades and listing.
type Property struct {
	// ID is the unique instance identifier (UUID).
	ID string
	// TypeID references a catalog property type.
	TypeID string
	// UpgradeIDs are the applied upgrade ids, in application order.
	// Each upgrade may be applied at most once per instance.
	UpgradeIDs []string
	// Listing is the current marketplace state.
	Listing ListingState
	// ListingPrice is the asking price in pennies; meaningful only when
	// Listing is not ListingNone.
	ListingPrice int
}

// HasUpgrade reports whether the upgrade id is already applied to p.
func (p *Property) HasUpgrade(upgradeID string) bool {
	for _, id := range p.UpgradeIDs {
		if id == upgradeID {
			return true
		}
	}
	return false
}

// Record is a player character's full persistent state.
//
// A Record has a single owner: the running session. Core operations receive
// it explicitly; there is no ambient "current character".
type Record struct {
	Name string

	Health Vital
	Mana   Vital
	Energy Vital

	// Currency is held in pennies, the smallest denomination.
	// Shillings/pennies display conversion is a presentation concern.
	Currency int

	Level      int
	Experience int

	Strength int
	Agility  int
	Vitality int

	// WeaponID and ArmorID reference catalog entries; empty means unequipped.
	WeaponID string
	ArmorID  string

	// Properties is the ordered set of owned property instances.
	Properties []*Property

	// LastEnergyUpdate is consumed only by the energy regenerator.
	LastEnergyUpdate time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartingValues holds the fixed values a new character is created with.
type StartingValues struct {
	Health   int
	Mana     int
	Energy   int
	Currency int
}

// NewRecord creates a fresh level-1 character with full vitals.
//
// Precondition: name must be non-empty; sv fields must be > 0 except Currency >= 0.
// Postcondition: All vitals are at their maxima and LastEnergyUpdate == now.
func NewRecord(name string, sv StartingValues, now time.Time) *Record {
	return &Record{
		Name:             name,
		Health:           Vital{Current: sv.Health, Max: sv.Health},
		Mana:             Vital{Current: sv.Mana, Max: sv.Mana},
		Energy:           Vital{Current: sv.Energy, Max: sv.Energy},
		Currency:         sv.Currency,
		Level:            1,
		Experience:       0,
		LastEnergyUpdate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// SpendEnergy deducts amount from current energy.
//
// Precondition: amount >= 0.
// Postcondition: Returns ErrInsufficientResource and leaves the record
// unchanged when current energy < amount; otherwise energy is reduced.
func (r *Record) SpendEnergy(amount int) error {
	if r.Energy.Current < amount {
		return ErrInsufficientResource
	}
	r.Energy.Current -= amount
	return nil
}

// SpendMana deducts amount from current mana.
//
// Postcondition: Returns ErrInsufficientResource with no mutation when
// current mana < amount.
func (r *Record) SpendMana(amount int) error {
	if r.Mana.Current < amount {
		return ErrInsufficientResource
	}
	r.Mana.Current -= amount
	return nil
}

// SpendCurrency deducts amount pennies.
//
// Postcondition: Returns ErrInsufficientResource with no mutation when
// currency < amount; currency never goes negative.
func (r *Record) SpendCurrency(amount int) error {
	if r.Currency < amount {
		return ErrInsufficientResource
	}
	r.Currency -= amount
	return nil
}

// Heal restores up to amount health, clamped at max.
func (r *Record) Heal(amount int) {
	r.Health.Current += amount
	r.Health.clamp()
}

// RestoreMana restores up to amount mana, clamped at max.
func (r *Record) RestoreMana(amount int) {
	r.Mana.Current += amount
	r.Mana.clamp()
}

// ApplyDamage reduces current health by dmg, floored at 0.
//
// Precondition: dmg >= 0.
func (r *Record) ApplyDamage(dmg int) {
	r.Health.Current -= dmg
	r.Health.clamp()
}

// IsDowned reports whether the character is at 0 health and needs an
// external rest/recovery action before fighting again.
func (r *Record) IsDowned() bool {
	return r.Health.Current <= 0
}

// PropertyByID returns the owned property instance with the given id.
//
// Postcondition: Returns (property, true) if found, or (nil, false) otherwise.
func (r *Record) PropertyByID(id string) (*Property, bool) {
	for _, p := range r.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
