// Package shop implements the weapon and armor purchase flows. Buying
// equips immediately; the replaced item is traded in for half its catalog
// price.
package shop

import (
	"fmt"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
)

// Receipt reports the money movement of one purchase.
type Receipt struct {
	// ItemID and ItemName identify what was bought and equipped.
	ItemID   string
	ItemName string
	// Paid is the catalog price deducted, in pennies.
	Paid int
	// TradeIn is the half-price refund for the replaced item (0 if nothing
	// was replaced).
	TradeIn int
	// ReplacedName is the display name of the traded-in item, if any.
	ReplacedName string
}

// Shop sells catalog equipment to characters.
type Shop struct {
	cat *catalog.Catalog
}

// New creates a Shop backed by the given catalog.
//
// Precondition: cat must be non-nil.
func New(cat *catalog.Catalog) *Shop {
	return &Shop{cat: cat}
}

// BuyWeapon purchases and equips the weapon with the given id. Any currently
// equipped weapon is sold back at half price. Equipping replaces; weapons
// never stack.
//
// Postcondition: On catalog.ErrNotFound or character.ErrInsufficientResource
// the record is unchanged.
func (s *Shop) BuyWeapon(rec *character.Record, weaponID string) (Receipt, error) {
	w, err := s.cat.Weapon(weaponID)
	if err != nil {
		return Receipt{}, err
	}

	var tradeIn int
	var replacedName string
	if rec.WeaponID != "" {
		old, err := s.cat.Weapon(rec.WeaponID)
		if err != nil {
			return Receipt{}, fmt.Errorf("resolving equipped weapon: %w", err)
		}
		tradeIn = old.Price / 2
		replacedName = old.Name
	}

	// The gate is on the full price; the trade-in refund lands after.
	if err := rec.SpendCurrency(w.Price); err != nil {
		return Receipt{}, fmt.Errorf("%s costs %d: %w", w.Name, w.Price, err)
	}
	rec.Currency += tradeIn
	rec.WeaponID = w.ID

	return Receipt{
		ItemID:       w.ID,
		ItemName:     w.Name,
		Paid:         w.Price,
		TradeIn:      tradeIn,
		ReplacedName: replacedName,
	}, nil
}

// BuyArmor purchases and equips the armor with the given id, trading in any
// currently equipped armor at half price.
//
// Postcondition: On catalog.ErrNotFound or character.ErrInsufficientResource
// the record is unchanged.
func (s *Shop) BuyArmor(rec *character.Record, armorID string) (Receipt, error) {
	a, err := s.cat.Armor(armorID)
	if err != nil {
		return Receipt{}, err
	}

	var tradeIn int
	var replacedName string
	if rec.ArmorID != "" {
		old, err := s.cat.Armor(rec.ArmorID)
		if err != nil {
			return Receipt{}, fmt.Errorf("resolving equipped armor: %w", err)
		}
		tradeIn = old.Price / 2
		replacedName = old.Name
	}

	if err := rec.SpendCurrency(a.Price); err != nil {
		return Receipt{}, fmt.Errorf("%s costs %d: %w", a.Name, a.Price, err)
	}
	rec.Currency += tradeIn
	rec.ArmorID = a.ID

	return Receipt{
		ItemID:       a.ID,
		ItemName:     a.Name,
		Paid:         a.Price,
		TradeIn:      tradeIn,
		ReplacedName: replacedName,
	}, nil
}
