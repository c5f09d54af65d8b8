// Package grid implements the fixed-capacity slot store that owns every item
// in play.
//
// Mutators that report a bool are all-or-nothing: on false the grid is
// exactly as it was before the call.
package grid

import (
	"sort"

	"github.com/xtding233/idle-forge/internal/item"
)

// Capacity is the number of slots in every grid.
const Capacity = 25

// Grid is an ordered set of Capacity slots. The zero value is an empty grid.
type Grid struct {
	slots [Capacity]*item.Item
}

// New returns an empty grid.
func New() *Grid { return &Grid{} }

func inRange(i int) bool { return i >= 0 && i < Capacity }

// Get returns the item at index, or nil when the slot is empty or the index
// is out of range.
func (g *Grid) Get(index int) *item.Item {
	if !inRange(index) {
		return nil
	}
	return g.slots[index]
}

// Add stores it at index. It fails when the item is nil or invalid, the index
// is out of range, the slot is occupied, or the item already sits in another
// slot.
func (g *Grid) Add(it *item.Item, index int) bool {
	if !it.Valid() || !inRange(index) || g.slots[index] != nil {
		return false
	}
	if g.contains(it) {
		return false
	}
	g.slots[index] = it
	return true
}

// Place stores it in the lowest empty slot and returns that index.
// It is FindEmptySlot followed by Add.
func (g *Grid) Place(it *item.Item) (int, bool) {
	idx, ok := g.FindEmptySlot()
	if !ok {
		return -1, false
	}
	if !g.Add(it, idx) {
		return -1, false
	}
	return idx, true
}

// Remove empties the slot at index and returns what it held.
func (g *Grid) Remove(index int) *item.Item {
	if !inRange(index) {
		return nil
	}
	it := g.slots[index]
	g.slots[index] = nil
	return it
}

// Move transfers the item at from into the empty slot to.
func (g *Grid) Move(from, to int) bool {
	if !inRange(from) || !inRange(to) {
		return false
	}
	if g.slots[from] == nil || g.slots[to] != nil {
		return false
	}
	g.slots[to], g.slots[from] = g.slots[from], nil
	return true
}

// Swap exchanges the items in two distinct occupied slots.
func (g *Grid) Swap(a, b int) bool {
	if a == b || !inRange(a) || !inRange(b) {
		return false
	}
	if g.slots[a] == nil || g.slots[b] == nil {
		return false
	}
	g.slots[a], g.slots[b] = g.slots[b], g.slots[a]
	return true
}

// FindEmptySlot returns the lowest empty index; ok is false when the grid is full.
func (g *Grid) FindEmptySlot() (index int, ok bool) {
	for i, it := range g.slots {
		if it == nil {
			return i, true
		}
	}
	return -1, false
}

// IsFull reports whether every slot is occupied.
func (g *Grid) IsFull() bool {
	_, ok := g.FindEmptySlot()
	return !ok
}

// AllItems returns the occupied slots' items in slot order.
// The returned slice is a snapshot; later mutations do not affect it.
func (g *Grid) AllItems() []*item.Item {
	out := make([]*item.Item, 0, Capacity)
	for _, it := range g.slots {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// TotalWorth sums the worth of every stored item.
func (g *Grid) TotalWorth() int {
	total := 0
	for _, it := range g.slots {
		if it != nil {
			total += it.Worth
		}
	}
	return total
}

// Count returns the number of occupied slots.
func (g *Grid) Count() int {
	n := 0
	for _, it := range g.slots {
		if it != nil {
			n++
		}
	}
	return n
}

// SortDescendingByTier packs all items into the lowest slots ordered by tier,
// highest first. Items of equal tier keep their relative order.
func (g *Grid) SortDescendingByTier() {
	items := g.AllItems()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Tier > items[j].Tier
	})
	g.slots = [Capacity]*item.Item{}
	copy(g.slots[:], items)
}

// Clear empties every slot.
func (g *Grid) Clear() {
	g.slots = [Capacity]*item.Item{}
}

// Slots returns a copy of the slot array, empties included.
func (g *Grid) Slots() [Capacity]*item.Item {
	return g.slots
}

// IndexOf returns the slot holding it, by identity.
func (g *Grid) IndexOf(it *item.Item) (int, bool) {
	if it == nil {
		return -1, false
	}
	for i, s := range g.slots {
		if s == it {
			return i, true
		}
	}
	return -1, false
}

func (g *Grid) contains(it *item.Item) bool {
	_, ok := g.IndexOf(it)
	return ok
}
