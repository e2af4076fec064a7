package catalog

import "errors"

// WeaponDef defines the static properties of a weapon.
type WeaponDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Price is the purchase price in pennies.
	Price int `yaml:"price"`
	// Damage is the flat damage contribution to attack damage.
	Damage int `yaml:"damage"`
	// ManaCost is the mana cost of the weapon's magic attack; 0 means the
	// weapon cannot cast.
	ManaCost int `yaml:"mana_cost"`
}

// SupportsMagic reports whether the weapon has a magic attack.
func (w *WeaponDef) SupportsMagic() bool {
	return w.ManaCost > 0
}

// Validate checks that the WeaponDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	switch {
	case w.ID == "":
		return errors.New("id must not be empty")
	case w.Name == "":
		return errors.New("name must not be empty")
	case w.Price < 0:
		return errors.New("price must not be negative")
	case w.Damage < 0:
		return errors.New("damage must not be negative")
	case w.ManaCost < 0:
		return errors.New("mana_cost must not be negative")
	}
	return nil
}

// ArmorDef defines the static properties of an armor set.
type ArmorDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int    `yaml:"price"`
	// Defense is the flat damage reduction contribution.
	Defense int `yaml:"defense"`
}

// Validate checks that the ArmorDef satisfies its invariants.
func (a *ArmorDef) Validate() error {
	switch {
	case a.ID == "":
		return errors.New("id must not be empty")
	case a.Name == "":
		return errors.New("name must not be empty")
	case a.Price < 0:
		return errors.New("price must not be negative")
	case a.Defense < 0:
		return errors.New("defense must not be negative")
	}
	return nil
}

// PropertyTypeDef defines a purchasable property type.
type PropertyTypeDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int    `yaml:"price"`
	// Happiness is the base happiness contributed by owning one instance.
	Happiness int `yaml:"happiness"`
}

// Validate checks that the PropertyTypeDef satisfies its invariants.
func (p *PropertyTypeDef) Validate() error {
	switch {
	case p.ID == "":
		return errors.New("id must not be empty")
	case p.Name == "":
		return errors.New("name must not be empty")
	case p.Price < 0:
		return errors.New("price must not be negative")
	case p.Happiness < 0:
		return errors.New("happiness must not be negative")
	}
	return nil
}

// UpgradeDef defines a property upgrade, applicable at most once per
// property instance.
type UpgradeDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int    `yaml:"price"`
	// Happiness is the happiness bonus added to the owning property.
	Happiness int `yaml:"happiness"`
}

// Validate checks that the UpgradeDef satisfies its invariants.
func (u *UpgradeDef) Validate() error {
	switch {
	case u.ID == "":
		return errors.New("id must not be empty")
	case u.Name == "":
		return errors.New("name must not be empty")
	case u.Price < 0:
		return errors.New("price must not be negative")
	case u.Happiness < 0:
		return errors.New("happiness must not be negative")
	}
	return nil
}

// EnemyDef is a level-scalable enemy template. Concrete enemy stats for an
// encounter come from ForLevel, so a level-5 goblin is tougher than a
// level-1 goblin.
type EnemyDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// BaseHealth and HealthPerLevel scale health: base + level*per_level.
	BaseHealth     int `yaml:"base_health"`
	HealthPerLevel int `yaml:"health_per_level"`
	// BaseDamage and DamagePerLevel scale attack damage the same way.
	BaseDamage     int `yaml:"base_damage"`
	DamagePerLevel int `yaml:"damage_per_level"`
	// Defense is flat damage reduction applied to incoming hits.
	Defense int `yaml:"defense"`
	// ExperienceReward and CurrencyReward are granted on victory.
	ExperienceReward int `yaml:"experience_reward"`
	CurrencyReward   int `yaml:"currency_reward"`
}

// EnemyStats are the concrete stats of one spawned enemy.
type EnemyStats struct {
	Health  int
	Damage  int
	Defense int
}

// ForLevel returns the enemy's concrete stats scaled to the given player level.
//
// Precondition: level >= 1.
func (e *EnemyDef) ForLevel(level int) EnemyStats {
	return EnemyStats{
		Health:  e.BaseHealth + level*e.HealthPerLevel,
		Damage:  e.BaseDamage + level*e.DamagePerLevel,
		Defense: e.Defense,
	}
}

// Validate checks that the EnemyDef satisfies its invariants.
func (e *EnemyDef) Validate() error {
	switch {
	case e.ID == "":
		return errors.New("id must not be empty")
	case e.Name == "":
		return errors.New("name must not be empty")
	case e.BaseHealth <= 0:
		return errors.New("base_health must be positive")
	case e.HealthPerLevel < 0:
		return errors.New("health_per_level must not be negative")
	case e.BaseDamage < 0:
		return errors.New("base_damage must not be negative")
	case e.DamagePerLevel < 0:
		return errors.New("damage_per_level must not be negative")
	case e.Defense < 0:
		return errors.New("defense must not be negative")
	case e.ExperienceReward < 0:
		return errors.New("experience_reward must not be negative")
	case e.CurrencyReward < 0:
		return errors.New("currency_reward must not be negative")
	}
	return nil
}
