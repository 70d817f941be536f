package state

import "slices"

// Inventory is the set of ephemeral item ids held for one session. When
// disabled the slot exists but every mutation is a no-op.
type Inventory struct {
	enabled bool
	ids     []int
}

func NewInventory(enabled bool) Inventory {
	return Inventory{enabled: enabled, ids: make([]int, 0)}
}

// Enabled reports whether the subsystem accepts items.
func (inv *Inventory) Enabled() bool {
	return inv.enabled
}

// Add inserts a positive id not already held.
func (inv *Inventory) Add(id int) bool {
	if !inv.enabled || id <= 0 || inv.Has(id) {
		return false
	}
	inv.ids = append(inv.ids, id)
	return true
}

// Remove deletes id if held.
func (inv *Inventory) Remove(id int) bool {
	idx := slices.Index(inv.ids, id)
	if idx < 0 {
		return false
	}
	inv.ids = slices.Delete(inv.ids, idx, idx+1)
	return true
}

func (inv *Inventory) Has(id int) bool {
	return slices.Contains(inv.ids, id)
}

func (inv *Inventory) Count() int {
	return len(inv.ids)
}

// IDs returns a copy in insertion order.
func (inv *Inventory) IDs() []int {
	out := make([]int, len(inv.ids))
	copy(out, inv.ids)
	return out
}

func (inv *Inventory) clear() {
	inv.ids = make([]int, 0)
}
