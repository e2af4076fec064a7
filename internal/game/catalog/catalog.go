// Package catalog provides the immutable id-keyed definitions for weapons,
// armor, property types, property upgrades, and enemies. Definitions are
// loaded once from YAML content files and never mutated afterwards.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a catalog lookup references an unknown id.
var ErrNotFound = errors.New("catalog entry not found")

// Catalog is the full set of static game definitions, looked up by id.
//
// Invariant: once built, a Catalog is read-only; all lookups are safe for
// concurrent use.
type Catalog struct {
	weapons       map[string]*WeaponDef
	armor         map[string]*ArmorDef
	propertyTypes map[string]*PropertyTypeDef
	upgrades      map[string]*UpgradeDef
	enemies       map[string]*EnemyDef

	// enemyOrder preserves content-file order so seeded enemy selection is
	// stable across runs.
	enemyOrder []string
}

// New builds a Catalog from validated definitions.
//
// Precondition: all definitions must pass Validate.
// Postcondition: Returns a Catalog or an error naming the first duplicate or
// invalid entry.
func New(weapons []*WeaponDef, armor []*ArmorDef, propertyTypes []*PropertyTypeDef, upgrades []*UpgradeDef, enemies []*EnemyDef) (*Catalog, error) {
	c := &Catalog{
		weapons:       make(map[string]*WeaponDef, len(weapons)),
		armor:         make(map[string]*ArmorDef, len(armor)),
		propertyTypes: make(map[string]*PropertyTypeDef, len(propertyTypes)),
		upgrades:      make(map[string]*UpgradeDef, len(upgrades)),
		enemies:       make(map[string]*EnemyDef, len(enemies)),
	}

	for _, w := range weapons {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("weapon %q: %w", w.ID, err)
		}
		if _, dup := c.weapons[w.ID]; dup {
			return nil, fmt.Errorf("duplicate weapon id %q", w.ID)
		}
		c.weapons[w.ID] = w
	}
	for _, a := range armor {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("armor %q: %w", a.ID, err)
		}
		if _, dup := c.armor[a.ID]; dup {
			return nil, fmt.Errorf("duplicate armor id %q", a.ID)
		}
		c.armor[a.ID] = a
	}
	for _, p := range propertyTypes {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("property type %q: %w", p.ID, err)
		}
		if _, dup := c.propertyTypes[p.ID]; dup {
			return nil, fmt.Errorf("duplicate property type id %q", p.ID)
		}
		c.propertyTypes[p.ID] = p
	}
	for _, u := range upgrades {
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("upgrade %q: %w", u.ID, err)
		}
		if _, dup := c.upgrades[u.ID]; dup {
			return nil, fmt.Errorf("duplicate upgrade id %q", u.ID)
		}
		c.upgrades[u.ID] = u
	}
	for _, e := range enemies {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("enemy %q: %w", e.ID, err)
		}
		if _, dup := c.enemies[e.ID]; dup {
			return nil, fmt.Errorf("duplicate enemy id %q", e.ID)
		}
		c.enemies[e.ID] = e
		c.enemyOrder = append(c.enemyOrder, e.ID)
	}

	return c, nil
}

// Weapon returns the weapon definition for id.
//
// Postcondition: Returns ErrNotFound (wrapped with the id) for unknown ids.
func (c *Catalog) Weapon(id string) (*WeaponDef, error) {
	w, ok := c.weapons[id]
	if !ok {
		return nil, fmt.Errorf("weapon %q: %w", id, ErrNotFound)
	}
	return w, nil
}

// Armor returns the armor definition for id.
func (c *Catalog) Armor(id string) (*ArmorDef, error) {
	a, ok := c.armor[id]
	if !ok {
		return nil, fmt.Errorf("armor %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// PropertyType returns the property type definition for id.
func (c *Catalog) PropertyType(id string) (*PropertyTypeDef, error) {
	p, ok := c.propertyTypes[id]
	if !ok {
		return nil, fmt.Errorf("property type %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// Upgrade returns the property upgrade definition for id.
func (c *Catalog) Upgrade(id string) (*UpgradeDef, error) {
	u, ok := c.upgrades[id]
	if !ok {
		return nil, fmt.Errorf("upgrade %q: %w", id, ErrNotFound)
	}
	return u, nil
}

// Enemy returns the enemy definition for id.
func (c *Catalog) Enemy(id string) (*EnemyDef, error) {
	e, ok := c.enemies[id]
	if !ok {
		return nil, fmt.Errorf("enemy %q: %w", id, ErrNotFound)
	}
	return e, nil
}

// Enemies returns all enemy definitions in content-file order.
//
// Postcondition: The returned slice is a copy; mutating it does not affect
// the catalog.
func (c *Catalog) Enemies() []*EnemyDef {
	out := make([]*EnemyDef, 0, len(c.enemyOrder))
	for _, id := range c.enemyOrder {
		out = append(out, c.enemies[id])
	}
	return out
}

// Weapons returns all weapon definitions; order is unspecified.
func (c *Catalog) Weapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(c.weapons))
	for _, w := range c.weapons {
		out = append(out, w)
	}
	return out
}

// ArmorSets returns all armor definitions; order is unspecified.
func (c *Catalog) ArmorSets() []*ArmorDef {
	out := make([]*ArmorDef, 0, len(c.armor))
	for _, a := range c.armor {
		out = append(out, a)
	}
	return out
}

// PropertyTypes returns all property type definitions; order is unspecified.
func (c *Catalog) PropertyTypes() []*PropertyTypeDef {
	out := make([]*PropertyTypeDef, 0, len(c.propertyTypes))
	for _, p := range c.propertyTypes {
		out = append(out, p)
	}
	return out
}

// Upgrades returns all upgrade definitions; order is unspecified.
func (c *Catalog) Upgrades() []*UpgradeDef {
	out := make([]*UpgradeDef, 0, len(c.upgrades))
	for _, u := range c.upgrades {
		out = append(out, u)
	}
	return out
}
