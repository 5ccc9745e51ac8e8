package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/keeper/internal/game/inventory"
)

func TestInventory_Add_IgnoresInvalid(t *testing.T) {
	var inv inventory.Inventory
	inv.Add(inventory.Item{Name: "", Quantity: 1})
	inv.Add(inventory.Item{Name: "Rope", Quantity: 0})
	inv.Add(inventory.Item{Name: "Rope", Quantity: -3})
	assert.Empty(t, inv.Items)

	inv.Add(inventory.NewItem("Lantern"))
	assert.Equal(t, 1, inv.Count("Lantern"))
}

func TestInventory_Remove_WholeStacksOnly(t *testing.T) {
	var inv inventory.Inventory
	inv.Add(inventory.Item{Name: "Bullets", Quantity: 6})
	inv.Add(inventory.Item{Name: "Bullets", Quantity: 6})
	inv.Add(inventory.NewItem("Flashlight"))

	assert.Equal(t, 6, inv.Remove("Bullets", 8))
	assert.Equal(t, 6, inv.Count("Bullets"))
	assert.Equal(t, 1, inv.Count("Flashlight"))

	assert.Equal(t, 0, inv.Remove("Bullets", 5), "a stack larger than the request stays intact")
	assert.Equal(t, 0, inv.Remove("Bullets", 0))
}

func TestInventory_RemoveAll(t *testing.T) {
	var inv inventory.Inventory
	inv.Add(inventory.Item{Name: "Matches", Quantity: 3})
	inv.Add(inventory.NewItem("Notebook"))
	inv.Add(inventory.Item{Name: "Matches", Quantity: 2})

	assert.Equal(t, 5, inv.RemoveAll("Matches"))
	assert.Equal(t, 0, inv.Count("Matches"))
	assert.Len(t, inv.Items, 1)
}

// TestInventory_Remove_Property verifies that Remove never removes more than
// requested and that the total count drops by exactly the reported amount.
func TestInventory_Remove_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var inv inventory.Inventory
		stacks := rapid.SliceOfN(rapid.IntRange(1, 10), 0, 8).Draw(rt, "stacks")
		for _, q := range stacks {
			inv.Add(inventory.Item{Name: "Ammo", Quantity: q})
		}
		before := inv.Count("Ammo")
		req := rapid.IntRange(0, 40).Draw(rt, "req")
		removed := inv.Remove("Ammo", req)
		if removed > req {
			rt.Fatalf("removed %d > requested %d", removed, req)
		}
		if inv.Count("Ammo") != before-removed {
			rt.Fatalf("count %d != %d-%d", inv.Count("Ammo"), before, removed)
		}
	})
}
