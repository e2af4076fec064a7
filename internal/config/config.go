// Package config provides Viper-based configuration loading for the game.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds PostgreSQL connection settings for the shared
// character and leaderboard store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Driver is "sqlite" (local single-player saves) or "postgres".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the save database file path when Driver is "sqlite".
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ContentConfig holds paths to game content files.
type ContentConfig struct {
	// CatalogDir is the directory of YAML catalog files.
	CatalogDir string `mapstructure:"catalog_dir"`
	// LevelCurveScript is an optional Lua script defining the experience
	// threshold curve; empty uses the built-in curve.
	LevelCurveScript string `mapstructure:"level_curve_script"`
}

// GameConfig holds gameplay tuning values.
type GameConfig struct {
	// RegenInterval is the wall-clock duration of one energy tick.
	RegenInterval time.Duration `mapstructure:"regen_interval"`
	// RegenAmount is the energy gained per full tick.
	RegenAmount int `mapstructure:"regen_amount"`
	// CombatEnergyCost is the energy price of starting an encounter.
	CombatEnergyCost int `mapstructure:"combat_energy_cost"`
	// TrainingCost and IntensiveCost are gym prices in pennies.
	TrainingCost  int `mapstructure:"training_cost"`
	IntensiveCost int `mapstructure:"intensive_cost"`
	// TrainingGain and IntensiveGain are base stat gains before the
	// happiness multiplier.
	TrainingGain  int `mapstructure:"training_gain"`
	IntensiveGain int `mapstructure:"intensive_gain"`
	// RestHealth and RestMana are the restore amounts of one rest action.
	RestHealth int `mapstructure:"rest_health"`
	RestMana   int `mapstructure:"rest_mana"`
	// Starting vitals and currency for a new character.
	StartingHealth   int `mapstructure:"starting_health"`
	StartingMana     int `mapstructure:"starting_mana"`
	StartingEnergy   int `mapstructure:"starting_energy"`
	StartingCurrency int `mapstructure:"starting_currency"`
}

// Config is the full application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Content  ContentConfig  `mapstructure:"content"`
	Game     GameConfig     `mapstructure:"game"`
}

// Load reads configuration from the given YAML file, applying defaults and
// WIZ_-prefixed environment variable overrides.
//
// Precondition: path must point to a readable YAML file.
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with WIZ_ prefix
	v.SetEnvPrefix("WIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration, the same values setDefaults
// seeds Viper with.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always unmarshal and validate cleanly.
	if err := v.Unmarshal(&cfg); err != nil {
		panic("config: unmarshalling defaults: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "wizardry")
	v.SetDefault("database.password", "wizardry")
	v.SetDefault("database.name", "wizardry")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "wizardry.sqlite")

	v.SetDefault("content.catalog_dir", "content/catalog")
	v.SetDefault("content.level_curve_script", "")

	v.SetDefault("game.regen_interval", "15m")
	v.SetDefault("game.regen_amount", 5)
	v.SetDefault("game.combat_energy_cost", 25)
	v.SetDefault("game.training_cost", 50)
	v.SetDefault("game.intensive_cost", 200)
	v.SetDefault("game.training_gain", 1)
	v.SetDefault("game.intensive_gain", 2)
	v.SetDefault("game.rest_health", 50)
	v.SetDefault("game.rest_mana", 50)
	v.SetDefault("game.starting_health", 100)
	v.SetDefault("game.starting_mana", 100)
	v.SetDefault("game.starting_energy", 100)
	v.SetDefault("game.starting_currency", 100)
}

// Validate checks the configuration for consistency.
//
// Postcondition: Returns nil iff every section is valid; the error message
// names every failing field.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Driver == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	if l.Format != "json" && l.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", l.Format)
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Driver {
	case "sqlite":
		if s.SQLitePath == "" {
			return errors.New("storage.sqlite_path must not be empty")
		}
	case "postgres":
	default:
		return fmt.Errorf("storage.driver must be sqlite or postgres, got %q", s.Driver)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port <= 0 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be in (0, 65535], got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.RegenInterval <= 0 {
		errs = append(errs, "game.regen_interval must be positive")
	}
	if g.RegenAmount <= 0 {
		errs = append(errs, "game.regen_amount must be positive")
	}
	if g.CombatEnergyCost <= 0 {
		errs = append(errs, "game.combat_energy_cost must be positive")
	}
	if g.TrainingCost <= 0 || g.IntensiveCost <= 0 {
		errs = append(errs, "training costs must be positive")
	}
	if g.TrainingGain <= 0 || g.IntensiveGain <= 0 {
		errs = append(errs, "training gains must be positive")
	}
	if g.RestHealth < 0 || g.RestMana < 0 {
		errs = append(errs, "rest amounts must not be negative")
	}
	if g.StartingHealth <= 0 || g.StartingMana <= 0 || g.StartingEnergy <= 0 {
		errs = append(errs, "starting vitals must be positive")
	}
	if g.StartingCurrency < 0 {
		errs = append(errs, "game.starting_currency must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
