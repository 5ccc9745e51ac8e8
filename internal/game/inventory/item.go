package inventory

// Item is a single stack of gear carried by an investigator.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// NewItem returns a single-quantity item.
func NewItem(name string) Item {
	return Item{Name: name, Quantity: 1}
}

// Inventory is the ordered list of item stacks on a sheet.
type Inventory struct {
	Items []Item `json:"items"`
}

// Add appends item. Items with an empty name or a non-positive quantity are ignored.
func (inv *Inventory) Add(item Item) {
	if item.Name == "" || item.Quantity <= 0 {
		return
	}
	inv.Items = append(inv.Items, item)
}

// Remove removes stacks named name, in order, while quantity covers the
// whole stack. A stack larger than the remaining quantity is kept intact.
//
// Postcondition: returns the number of units removed.
func (inv *Inventory) Remove(name string, quantity int) int {
	if quantity <= 0 {
		return 0
	}
	remaining := quantity
	removed := 0
	kept := inv.Items[:0]
	for _, it := range inv.Items {
		if it.Name == name && remaining >= it.Quantity {
			remaining -= it.Quantity
			removed += it.Quantity
			continue
		}
		kept = append(kept, it)
	}
	inv.Items = kept
	return removed
}

// RemoveAll removes every stack named name.
func (inv *Inventory) RemoveAll(name string) int {
	total := 0
	for _, it := range inv.Items {
		if it.Name == name {
			total += it.Quantity
		}
	}
	return inv.Remove(name, total)
}

// Count returns the total quantity held under name.
func (inv *Inventory) Count(name string) int {
	n := 0
	for _, it := range inv.Items {
		if it.Name == name {
			n += it.Quantity
		}
	}
	return n
}
