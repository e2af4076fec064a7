package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog content files.
// A file may carry any subset of the sections; files in a directory are
// merged into one catalog.
type yamlCatalogFile struct {
	Weapons       []*WeaponDef       `yaml:"weapons"`
	Armor         []*ArmorDef        `yaml:"armor"`
	PropertyTypes []*PropertyTypeDef `yaml:"property_types"`
	Upgrades      []*UpgradeDef      `yaml:"upgrades"`
	Enemies       []*EnemyDef        `yaml:"enemies"`
}

// LoadFromBytes parses and validates a catalog from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the catalog schema.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return New(file.Weapons, file.Armor, file.PropertyTypes, file.Upgrades, file.Enemies)
}

// LoadFromDir loads and merges all YAML files in a directory into a catalog.
//
// Precondition: dir must be a valid directory path containing at least one
// YAML catalog file.
// Postcondition: Returns the merged, validated Catalog or the first error.
func LoadFromDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	var merged yamlCatalogFile
	var found bool
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading catalog file %s: %w", name, err)
		}
		var file yamlCatalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing catalog file %s: %w", name, err)
		}
		merged.Weapons = append(merged.Weapons, file.Weapons...)
		merged.Armor = append(merged.Armor, file.Armor...)
		merged.PropertyTypes = append(merged.PropertyTypes, file.PropertyTypes...)
		merged.Upgrades = append(merged.Upgrades, file.Upgrades...)
		merged.Enemies = append(merged.Enemies, file.Enemies...)
		found = true
	}

	if !found {
		return nil, fmt.Errorf("no catalog files found in %s", dir)
	}

	return New(merged.Weapons, merged.Armor, merged.PropertyTypes, merged.Upgrades, merged.Enemies)
}
