// Package inventory provides weapon definitions, their YAML loader and
// registry, and the simple item inventory carried on a character sheet.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/keeper/internal/game/dice"
	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// Era tags catalog weapons for filtering.
type Era string

const (
	EraClassic Era = "classic1920s"
	EraPulp    Era = "pulp1940s"
)

// RangeBands holds a ranged weapon's short, medium and long ranges in yards.
// A zero band is undefined.
type RangeBands struct {
	Short  int `yaml:"short" json:"short,omitempty"`
	Medium int `yaml:"medium" json:"medium,omitempty"`
	Long   int `yaml:"long" json:"long,omitempty"`
}

// WeaponDef defines the static properties of a weapon loaded from YAML.
//
// Damage expressions may reference the {DB} damage-bonus placeholder.
type WeaponDef struct {
	ID              string      `yaml:"id" json:"id"`
	Name            string      `yaml:"name" json:"name"`
	Era             Era         `yaml:"era" json:"era,omitempty"`
	Skill           string      `yaml:"skill" json:"skill,omitempty"`                 // skill display name, e.g. "Fighting (Brawl)"
	Damage          string      `yaml:"damage" json:"damage"`                         // primary damage expression
	ImpaleDamage    string      `yaml:"impale_damage" json:"impale_damage,omitempty"` // used on an impaling extreme success
	Impaling        bool        `yaml:"impaling" json:"impaling,omitempty"`
	Range           *RangeBands `yaml:"range" json:"range,omitempty"` // nil = melee / no bands
	AttacksPerRound string      `yaml:"attacks_per_round" json:"attacks_per_round,omitempty"`
	Ammo            int         `yaml:"ammo" json:"ammo,omitempty"`               // 0 = not a firearm
	Malfunction     int         `yaml:"malfunction" json:"malfunction,omitempty"` // 0 = never malfunctions
	Notes           string      `yaml:"notes" json:"notes,omitempty"`
}

// IsMelee reports whether the weapon has no range bands.
func (w *WeaponDef) IsMelee() bool {
	return w.Range == nil
}

// IsFirearm reports whether the weapon uses ammunition.
func (w *WeaponDef) IsFirearm() bool {
	return w.Ammo > 0
}

// DamageExpr returns the damage template to roll. The impale expression is
// used only when impale is set and the weapon defines one.
func (w *WeaponDef) DamageExpr(impale bool) string {
	if impale && w.ImpaleDamage != "" {
		return w.ImpaleDamage
	}
	return w.Damage
}

// Malfunctions reports whether an attack roll jams the weapon.
func (w *WeaponDef) Malfunctions(roll int) bool {
	return w.Malfunction > 0 && roll >= w.Malfunction
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if w.Damage == "" {
		errs = append(errs, errors.New("Damage must not be empty"))
	} else if _, err := dice.Parse(rules.Resolve(w.Damage, nil)); err != nil {
		errs = append(errs, fmt.Errorf("Damage %q: %w", w.Damage, err))
	}
	if w.ImpaleDamage != "" {
		if _, err := dice.Parse(rules.Resolve(w.ImpaleDamage, nil)); err != nil {
			errs = append(errs, fmt.Errorf("ImpaleDamage %q: %w", w.ImpaleDamage, err))
		}
	}
	if w.Era != "" && w.Era != EraClassic && w.Era != EraPulp {
		errs = append(errs, fmt.Errorf("Era must be %s or %s; got %q", EraClassic, EraPulp, w.Era))
	}
	if r := w.Range; r != nil {
		if r.Short < 0 || r.Medium < 0 || r.Long < 0 {
			errs = append(errs, errors.New("Range bands must not be negative"))
		}
		if r.Medium > 0 && r.Medium < r.Short {
			errs = append(errs, errors.New("Range medium must be >= short"))
		}
		if r.Long > 0 && r.Long < r.Medium {
			errs = append(errs, errors.New("Range long must be >= medium"))
		}
	}
	if w.Ammo < 0 {
		errs = append(errs, errors.New("Ammo must be >= 0"))
	}
	if w.Malfunction < 0 || w.Malfunction > 100 {
		errs = append(errs, errors.New("Malfunction must be 0-100"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice sorted by ID.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	var weapons []*WeaponDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w WeaponDef
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	sort.Slice(weapons, func(i, j int) bool { return weapons[i].ID < weapons[j].ID })
	return weapons, nil
}
