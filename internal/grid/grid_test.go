package grid

import (
	"testing"

	"github.com/xtding233/idle-forge/internal/item"
)

func fill(t *testing.T, g *Grid) {
	t.Helper()
	for i := 0; i < Capacity; i++ {
		if !g.Add(item.New(1, 0), i) {
			t.Fatalf("add at %d failed", i)
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	g := New()
	if g.Get(-1) != nil || g.Get(Capacity) != nil {
		t.Fatalf("out of range get must return nil")
	}
}

func TestAddRejects(t *testing.T) {
	g := New()
	it := item.New(1, 0)
	if g.Add(nil, 0) {
		t.Fatalf("nil item accepted")
	}
	if g.Add(&item.Item{ID: "x", Tier: 0}, 0) {
		t.Fatalf("tier 0 accepted")
	}
	if g.Add(&item.Item{ID: "x", Tier: 1, UpgradeLevel: -1}, 0) {
		t.Fatalf("negative level accepted")
	}
	if g.Add(it, -1) || g.Add(it, Capacity) {
		t.Fatalf("out of range index accepted")
	}
	if !g.Add(it, 3) {
		t.Fatalf("valid add failed")
	}
	if g.Add(item.New(1, 0), 3) {
		t.Fatalf("occupied slot accepted")
	}
	if g.Add(it, 4) {
		t.Fatalf("same item accepted in two slots")
	}
	if g.Count() != 1 {
		t.Fatalf("count=%d, want 1", g.Count())
	}
}

func TestAddToFullGrid(t *testing.T) {
	g := New()
	fill(t, g)
	if !g.IsFull() {
		t.Fatalf("expected full grid")
	}
	if _, ok := g.Place(item.New(1, 0)); ok {
		t.Fatalf("place into full grid succeeded")
	}
	if g.Count() != Capacity {
		t.Fatalf("count=%d, want %d", g.Count(), Capacity)
	}
}

func TestPlaceUsesLowestEmpty(t *testing.T) {
	g := New()
	g.Add(item.New(1, 0), 0)
	g.Add(item.New(1, 0), 2)
	idx, ok := g.Place(item.New(2, 0))
	if !ok || idx != 1 {
		t.Fatalf("place got idx=%d ok=%v, want 1", idx, ok)
	}
}

func TestRemove(t *testing.T) {
	g := New()
	it := item.New(2, 1)
	g.Add(it, 7)
	if g.Remove(Capacity) != nil || g.Remove(6) != nil {
		t.Fatalf("expected nil from out of range or empty remove")
	}
	if got := g.Remove(7); got != it {
		t.Fatalf("removed %v, want %v", got, it)
	}
	if g.Count() != 0 {
		t.Fatalf("grid not empty after remove")
	}
}

func TestMove(t *testing.T) {
	g := New()
	a, b := item.New(1, 0), item.New(2, 0)
	g.Add(a, 0)
	g.Add(b, 1)
	if g.Move(0, 1) {
		t.Fatalf("move onto occupied slot succeeded")
	}
	if g.Move(5, 6) {
		t.Fatalf("move from empty slot succeeded")
	}
	if g.Move(0, Capacity) || g.Move(-1, 3) {
		t.Fatalf("move with bad index succeeded")
	}
	if g.Get(0) != a || g.Get(1) != b {
		t.Fatalf("failed moves mutated the grid")
	}
	if !g.Move(0, 10) || g.Get(10) != a || g.Get(0) != nil {
		t.Fatalf("valid move did not transfer the item")
	}
}

func TestSwap(t *testing.T) {
	g := New()
	a, b := item.New(1, 0), item.New(2, 0)
	g.Add(a, 0)
	g.Add(b, 4)
	if g.Swap(0, 0) {
		t.Fatalf("self swap succeeded")
	}
	if g.Swap(0, 1) {
		t.Fatalf("swap with empty slot succeeded")
	}
	if g.Swap(0, Capacity) {
		t.Fatalf("swap out of range succeeded")
	}
	if !g.Swap(0, 4) || g.Get(0) != b || g.Get(4) != a {
		t.Fatalf("swap did not exchange items")
	}
}

func TestTotalWorthAndAllItems(t *testing.T) {
	g := New()
	g.Add(item.New(1, 0), 9)
	g.Add(item.New(5, 3), 2)
	if got := g.TotalWorth(); got != 410 {
		t.Fatalf("total worth=%d, want 410", got)
	}
	items := g.AllItems()
	if len(items) != 2 || items[0].Tier != 5 || items[1].Tier != 1 {
		t.Fatalf("AllItems not in slot order: %+v", items)
	}
	g.Clear()
	if len(items) != 2 {
		t.Fatalf("snapshot changed after clear")
	}
}

func TestSortDescendingByTier(t *testing.T) {
	g := New()
	one, five, three := item.New(1, 0), item.New(5, 2), item.New(3, 0)
	g.Add(one, 20)
	g.Add(five, 4)
	g.Add(three, 11)
	before := []int{five.Worth, three.Worth, one.Worth}

	g.SortDescendingByTier()

	want := []*item.Item{five, three, one}
	for i, it := range want {
		if g.Get(i) != it {
			t.Fatalf("slot %d holds %+v, want %+v", i, g.Get(i), it)
		}
		if it.Worth != before[i] {
			t.Fatalf("worth changed for slot %d", i)
		}
	}
	for i := 3; i < Capacity; i++ {
		if g.Get(i) != nil {
			t.Fatalf("slot %d should be empty", i)
		}
	}
}

func TestSortIsStable(t *testing.T) {
	g := New()
	a, b, c := item.New(2, 0), item.New(2, 1), item.New(4, 0)
	g.Add(a, 3)
	g.Add(b, 8)
	g.Add(c, 15)
	g.SortDescendingByTier()
	if g.Get(0) != c || g.Get(1) != a || g.Get(2) != b {
		t.Fatalf("equal tiers reordered")
	}
}

func TestCountNeverExceedsCapacity(t *testing.T) {
	g := New()
	fill(t, g)
	g.Remove(3)
	g.Move(4, 3)
	g.Swap(0, 1)
	g.SortDescendingByTier()
	if n := g.Count(); n > Capacity || n != Capacity-1 {
		t.Fatalf("count=%d after mixed ops", n)
	}
}
