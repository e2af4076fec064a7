// Package property implements property ownership: buying instances,
// applying upgrades, and moving listings between marketplace states.
// Matching buyers and renters to listings happens outside the engine.
package property

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
)

// ErrUpgradeApplied is returned when an upgrade is applied to an instance
// that already has it. Each upgrade applies at most once per instance.
var ErrUpgradeApplied = errors.New("upgrade already applied to this property")

// ErrNotOwned is returned when an operation names a property instance the
// character does not own.
var ErrNotOwned = errors.New("property not owned")

// Market handles property purchases and listing state changes.
type Market struct {
	cat *catalog.Catalog
}

// NewMarket creates a Market backed by the given catalog.
//
// Precondition: cat must be non-nil.
func NewMarket(cat *catalog.Catalog) *Market {
	return &Market{cat: cat}
}

// Buy purchases a new instance of the given property type and appends it to
// the record's owned properties. The same type may be owned multiple times.
//
// Postcondition: On catalog.ErrNotFound or character.ErrInsufficientResource
// the record is unchanged; otherwise the new unlisted instance is returned.
func (m *Market) Buy(rec *character.Record, typeID string) (*character.Property, error) {
	pt, err := m.cat.PropertyType(typeID)
	if err != nil {
		return nil, err
	}
	if err := rec.SpendCurrency(pt.Price); err != nil {
		return nil, fmt.Errorf("%s costs %d: %w", pt.Name, pt.Price, err)
	}

	p := &character.Property{
		ID:      uuid.NewString(),
		TypeID:  pt.ID,
		Listing: character.ListingNone,
	}
	rec.Properties = append(rec.Properties, p)
	return p, nil
}

// ApplyUpgrade buys and applies an upgrade to the owned property instance.
//
// Postcondition: Rejections (unknown ids, ErrNotOwned, ErrUpgradeApplied,
// character.ErrInsufficientResource) leave the record unchanged.
func (m *Market) ApplyUpgrade(rec *character.Record, propertyID, upgradeID string) error {
	p, ok := rec.PropertyByID(propertyID)
	if !ok {
		return fmt.Errorf("property %q: %w", propertyID, ErrNotOwned)
	}
	u, err := m.cat.Upgrade(upgradeID)
	if err != nil {
		return err
	}
	if p.HasUpgrade(u.ID) {
		return fmt.Errorf("upgrade %q: %w", u.ID, ErrUpgradeApplied)
	}
	if err := rec.SpendCurrency(u.Price); err != nil {
		return fmt.Errorf("%s costs %d: %w", u.Name, u.Price, err)
	}
	p.UpgradeIDs = append(p.UpgradeIDs, u.ID)
	return nil
}

// ListForSale puts the owned property on the market at the given price.
//
// Precondition: price > 0.
func (m *Market) ListForSale(rec *character.Record, propertyID string, price int) error {
	return m.list(rec, propertyID, character.ListingForSale, price)
}

// ListForRent offers the owned property for rent at the given price.
// Rental matching and payment happen in the external marketplace.
//
// Precondition: price > 0.
func (m *Market) ListForRent(rec *character.Record, propertyID string, price int) error {
	return m.list(rec, propertyID, character.ListingForRent, price)
}

// Delist takes the owned property off the market.
func (m *Market) Delist(rec *character.Record, propertyID string) error {
	p, ok := rec.PropertyByID(propertyID)
	if !ok {
		return fmt.Errorf("property %q: %w", propertyID, ErrNotOwned)
	}
	p.Listing = character.ListingNone
	p.ListingPrice = 0
	return nil
}

func (m *Market) list(rec *character.Record, propertyID string, state character.ListingState, price int) error {
	if price <= 0 {
		return fmt.Errorf("listing price must be positive, got %d", price)
	}
	p, ok := rec.PropertyByID(propertyID)
	if !ok {
		return fmt.Errorf("property %q: %w", propertyID, ErrNotOwned)
	}
	p.Listing = state
	p.ListingPrice = price
	return nil
}
