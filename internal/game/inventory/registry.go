package inventory

import (
	"fmt"
	"sort"
)

// Registry holds all loaded weapon definitions indexed by ID.
type Registry struct {
	weapons map[string]*WeaponDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]*WeaponDef),
	}
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterAll adds every weapon in ws, stopping at the first duplicate.
func (r *Registry) RegisterAll(ws []*WeaponDef) error {
	for _, w := range ws {
		if err := r.RegisterWeapon(w); err != nil {
			return err
		}
	}
	return nil
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// AllWeapons returns all registered WeaponDefs sorted by ID.
//
// Postcondition: len(result) == number of registered weapons.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByEra returns the registered weapons tagged with era, sorted by ID.
func (r *Registry) ByEra(era Era) []*WeaponDef {
	var out []*WeaponDef
	for _, w := range r.AllWeapons() {
		if w.Era == era {
			out = append(out, w)
		}
	}
	return out
}

// NewCatalogRegistry returns a Registry holding the built-in classic weapons
// with each entry of overrides added or replacing the built-in of the same ID.
//
// Precondition: overrides must not contain duplicate IDs.
func NewCatalogRegistry(overrides []*WeaponDef) (*Registry, error) {
	r := NewRegistry()
	for _, w := range ClassicWeapons() {
		r.weapons[w.ID] = w
	}
	seen := make(map[string]bool, len(overrides))
	for _, w := range overrides {
		if seen[w.ID] {
			return nil, fmt.Errorf("inventory: NewCatalogRegistry: duplicate weapon ID %q", w.ID)
		}
		seen[w.ID] = true
		r.weapons[w.ID] = w
	}
	return r, nil
}
