package inventory_test

import (
	"testing"

	"github.com/cory-johannsen/keeper/internal/game/inventory"
)

func pistolDef() *inventory.WeaponDef {
	return &inventory.WeaponDef{
		ID: "test_pistol", Name: "Test Pistol", Era: inventory.EraClassic,
		Skill: "Firearms (Handgun)", Damage: "1d10",
		Range: &inventory.RangeBands{Short: 15, Medium: 30, Long: 60},
		Ammo:  6, Malfunction: 100,
	}
}

// TestRegistry_RegisterWeapon_Lookup verifies that a registered WeaponDef can
// be retrieved by ID.
func TestRegistry_RegisterWeapon_Lookup(t *testing.T) {
	r := inventory.NewRegistry()
	def := pistolDef()
	if err := r.RegisterWeapon(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.Weapon(def.ID)
	if got == nil {
		t.Fatal("expected non-nil WeaponDef, got nil")
	}
	if got.ID != def.ID {
		t.Fatalf("expected ID=%q, got %q", def.ID, got.ID)
	}
}

// TestRegistry_RegisterWeapon_CollisionError verifies that registering two
// WeaponDefs with the same ID returns an error on the second registration.
func TestRegistry_RegisterWeapon_CollisionError(t *testing.T) {
	r := inventory.NewRegistry()
	def := pistolDef()
	if err := r.RegisterWeapon(def); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if err := r.RegisterWeapon(def); err == nil {
		t.Fatal("expected collision error on second register, got nil")
	}
}

func TestRegistry_Weapon_NotFound_ReturnsNil(t *testing.T) {
	r := inventory.NewRegistry()
	if got := r.Weapon("does-not-exist"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

// TestRegistry_AllWeapons_Sorted verifies that AllWeapons returns every
// registered weapon ordered by ID.
func TestRegistry_AllWeapons_Sorted(t *testing.T) {
	r := inventory.NewRegistry()
	if err := r.RegisterAll(inventory.ClassicWeapons()); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	all := r.AllWeapons()
	if len(all) != len(inventory.ClassicWeapons()) {
		t.Fatalf("expected %d weapons, got %d", len(inventory.ClassicWeapons()), len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("weapons not sorted at %d: %q >= %q", i, all[i-1].ID, all[i].ID)
		}
	}
}

func TestRegistry_RegisterAll_StopsOnDuplicate(t *testing.T) {
	r := inventory.NewRegistry()
	err := r.RegisterAll([]*inventory.WeaponDef{inventory.Knife, inventory.Club, inventory.Knife})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if len(r.AllWeapons()) != 2 {
		t.Fatalf("expected 2 weapons registered before the duplicate, got %d", len(r.AllWeapons()))
	}
}

func TestRegistry_ByEra(t *testing.T) {
	r := inventory.NewRegistry()
	if err := r.RegisterAll(inventory.ClassicWeapons()); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	pulp := r.ByEra(inventory.EraPulp)
	if len(pulp) != 1 || pulp[0].ID != inventory.TommyGun.ID {
		t.Fatalf("expected only the tommy gun in the pulp era, got %+v", pulp)
	}
	if got := r.ByEra("modern"); len(got) != 0 {
		t.Fatalf("expected no weapons for unknown era, got %d", len(got))
	}
}

func TestNewCatalogRegistry_OverridesAndExtends(t *testing.T) {
	knife := *inventory.Knife
	knife.Damage = "1d6+{DB}"
	r, err := inventory.NewCatalogRegistry([]*inventory.WeaponDef{&knife, pistolDef()})
	if err != nil {
		t.Fatalf("NewCatalogRegistry: %v", err)
	}
	if got := r.Weapon("knife"); got == nil || got.Damage != "1d6+{DB}" {
		t.Fatalf("expected overridden knife, got %+v", got)
	}
	if r.Weapon("test_pistol") == nil {
		t.Fatal("expected added test_pistol")
	}
	if got, want := len(r.AllWeapons()), len(inventory.ClassicWeapons())+1; got != want {
		t.Fatalf("expected %d weapons, got %d", want, got)
	}
	if inventory.Knife.Damage != "1d4+{DB}" {
		t.Fatalf("built-in knife mutated: %q", inventory.Knife.Damage)
	}
}

func TestNewCatalogRegistry_DuplicateOverride(t *testing.T) {
	if _, err := inventory.NewCatalogRegistry([]*inventory.WeaponDef{pistolDef(), pistolDef()}); err == nil {
		t.Fatal("expected error for duplicate override IDs")
	}
}
