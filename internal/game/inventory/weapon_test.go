package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"pgregory.net/rapid"
)

func TestWeaponDef_Validate_RejectsEmpty(t *testing.T) {
	w := &inventory.WeaponDef{}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for empty WeaponDef, got nil")
	}
}

func TestWeaponDef_Validate_AcceptsMinimal(t *testing.T) {
	w := &inventory.WeaponDef{
		ID:     "test_knife",
		Name:   "Test Knife",
		Damage: "1d4+{DB}",
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("expected no error for minimal melee WeaponDef, got: %v", err)
	}
}

func TestWeaponDef_Validate_RejectsBadDamage(t *testing.T) {
	for _, expr := range []string{"1d", "2d6+", "x"} {
		w := &inventory.WeaponDef{ID: "bad", Name: "Bad", Damage: expr}
		if err := w.Validate(); err == nil {
			t.Fatalf("expected error for damage %q", expr)
		}
	}
	w := &inventory.WeaponDef{ID: "bad", Name: "Bad", Damage: "1d4", ImpaleDamage: "(1d4"}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for malformed impale damage")
	}
}

func TestWeaponDef_Validate_RangeOrdering(t *testing.T) {
	w := &inventory.WeaponDef{
		ID: "rifle", Name: "Rifle", Damage: "2d6+4",
		Range: &inventory.RangeBands{Short: 200, Medium: 100, Long: 400},
	}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for medium < short")
	}
}

func TestWeaponDef_Validate_Era(t *testing.T) {
	w := &inventory.WeaponDef{ID: "w", Name: "W", Damage: "1d6", Era: "modern"}
	if err := w.Validate(); err == nil {
		t.Fatal("expected error for unknown era")
	}
}

func TestWeaponDef_DamageExpr(t *testing.T) {
	if got := inventory.Knife.DamageExpr(true); got != "4+1d4+{DB}" {
		t.Fatalf("impale expr = %q", got)
	}
	if got := inventory.Knife.DamageExpr(false); got != "1d4+{DB}" {
		t.Fatalf("primary expr = %q", got)
	}
	if got := inventory.Shotgun12.DamageExpr(true); got != "4d6" {
		t.Fatalf("shotgun without impale expr = %q", got)
	}
}

func TestWeaponDef_Malfunctions(t *testing.T) {
	if !inventory.TommyGun.Malfunctions(96) {
		t.Fatal("tommy gun should jam on 96")
	}
	if inventory.TommyGun.Malfunctions(95) {
		t.Fatal("tommy gun should not jam on 95")
	}
	if inventory.Knife.Malfunctions(100) {
		t.Fatal("knife never malfunctions")
	}
}

func TestClassicWeapons_AllValid(t *testing.T) {
	seen := map[string]bool{}
	prev := ""
	for _, w := range inventory.ClassicWeapons() {
		if err := w.Validate(); err != nil {
			t.Fatalf("classic weapon %q invalid: %v", w.ID, err)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate classic weapon %q", w.ID)
		}
		if w.ID < prev {
			t.Fatalf("classic weapons not sorted: %q after %q", w.ID, prev)
		}
		seen[w.ID] = true
		prev = w.ID
	}
	if r := inventory.Rifle303.Range; r == nil || r.Short != 110 || r.Medium != 220 || r.Long != 440 {
		t.Fatalf("unexpected .303 range bands: %+v", r)
	}
}

func TestLoadWeapons_LoadsYAML(t *testing.T) {
	dir := t.TempDir()
	content := `id: test_rifle
name: Test Rifle
era: classic1920s
skill: Firearms (Rifle/Shotgun)
damage: 2d6+4
impale_damage: 16+2d6+4
impaling: true
range:
  short: 110
  medium: 220
  long: 440
attacks_per_round: "1"
ammo: 5
malfunction: 100
`
	if err := os.WriteFile(filepath.Join(dir, "test_rifle.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	weapons, err := inventory.LoadWeapons(dir)
	if err != nil {
		t.Fatalf("LoadWeapons: %v", err)
	}
	if len(weapons) != 1 {
		t.Fatalf("expected 1 weapon, got %d", len(weapons))
	}
	w := weapons[0]
	if w.ID != "test_rifle" || !w.Impaling || w.ImpaleDamage != "16+2d6+4" {
		t.Fatalf("unexpected weapon: %+v", w)
	}
	if w.Range == nil || w.Range.Medium != 220 {
		t.Fatalf("unexpected range: %+v", w.Range)
	}
	if !w.IsFirearm() || w.IsMelee() {
		t.Fatal("expected ranged firearm")
	}
}

func TestLoadWeapons_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nname: Bad\ndamage: 1d\n"), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}
	if _, err := inventory.LoadWeapons(dir); err == nil {
		t.Fatal("expected error for invalid weapon")
	}
}

func TestLoadWeapons_MissingDir(t *testing.T) {
	if _, err := inventory.LoadWeapons(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadWeapons_ContentDir(t *testing.T) {
	weapons, err := inventory.LoadWeapons("../../../content/weapons")
	if err != nil {
		t.Fatalf("LoadWeapons(content/weapons): %v", err)
	}
	if len(weapons) == 0 {
		t.Fatal("expected shipped weapon content")
	}
}

// TestWeaponDef_DamageExpr_Property verifies the primary expression is used
// whenever impale is not requested or no impale expression exists.
func TestWeaponDef_DamageExpr_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		impaleExpr := rapid.SampledFrom([]string{"", "4+1d4+{DB}", "10+1d10"}).Draw(rt, "impale_expr")
		impale := rapid.Bool().Draw(rt, "impale")
		w := &inventory.WeaponDef{ID: "w", Name: "W", Damage: "1d6", ImpaleDamage: impaleExpr}
		got := w.DamageExpr(impale)
		if impale && impaleExpr != "" {
			if got != impaleExpr {
				rt.Fatalf("expected impale expr %q, got %q", impaleExpr, got)
			}
		} else if got != "1d6" {
			rt.Fatalf("expected primary expr, got %q", got)
		}
	})
}
