package item

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestWorthScenarios(t *testing.T) {
	if got := Worth(1, 0); got != 10 {
		t.Fatalf("Worth(1,0)=%d, want 10", got)
	}
	if got := Worth(5, 3); got != 400 {
		t.Fatalf("Worth(5,3)=%d, want 400", got)
	}
	if got := Worth(6, 0); got != 320 {
		t.Fatalf("Worth(6,0)=%d, want 320", got)
	}
	// odd upgrade level exercises the half bonus
	if got := Worth(1, 1); got != 15 {
		t.Fatalf("Worth(1,1)=%d, want 15", got)
	}
}

func TestWorthMonotonic(t *testing.T) {
	for tier := 1; tier <= 20; tier++ {
		if Worth(tier+1, 0) != 2*Worth(tier, 0) {
			t.Fatalf("tier %d: next tier worth %d is not double %d", tier, Worth(tier+1, 0), Worth(tier, 0))
		}
		for lvl := 0; lvl < 15; lvl++ {
			for hi := lvl + 1; hi <= 15; hi++ {
				if Worth(tier, hi) <= Worth(tier, lvl) {
					t.Fatalf("Worth(%d,%d)=%d not above Worth(%d,%d)=%d", tier, hi, Worth(tier, hi), tier, lvl, Worth(tier, lvl))
				}
			}
		}
	}
}

func TestNewAssignsIDAndWorth(t *testing.T) {
	a := New(3, 2)
	b := New(3, 2)
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %q", a.ID)
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Fatalf("id %q is not a uuid: %v", a.ID, err)
	}
	if a.Worth != Worth(3, 2) {
		t.Fatalf("worth=%d, want %d", a.Worth, Worth(3, 2))
	}
}

func TestLevelUpRecomputesWorth(t *testing.T) {
	it := New(2, 0)
	it.LevelUp()
	if it.UpgradeLevel != 1 || it.Worth != Worth(2, 1) {
		t.Fatalf("after LevelUp got level=%d worth=%d", it.UpgradeLevel, it.Worth)
	}
}

func TestValid(t *testing.T) {
	var nilItem *Item
	if nilItem.Valid() {
		t.Fatalf("nil item must be invalid")
	}
	if (&Item{Tier: 0}).Valid() {
		t.Fatalf("tier 0 must be invalid")
	}
	if (&Item{Tier: 1, UpgradeLevel: -1}).Valid() {
		t.Fatalf("negative level must be invalid")
	}
	if !New(1, 0).Valid() {
		t.Fatalf("fresh item must be valid")
	}
}

func TestFactoryDoesNotValidate(t *testing.T) {
	it := New(0, 0)
	if it.Tier != 0 || it.Valid() {
		t.Fatalf("factory should build tier 0 as asked and report it invalid: %+v", it)
	}
}

func TestWorthAtLimits(t *testing.T) {
	top := Worth(MaxTier, MaxUpgradeLevel)
	if top <= 0 || top >= 1<<53 {
		t.Fatalf("Worth(MaxTier, MaxUpgradeLevel)=%d, want positive and exact in a float64", top)
	}
	if want := (1 << (MaxTier - 1)) * BaseWorth * (2 + MaxUpgradeLevel) / 2; top != want {
		t.Fatalf("Worth(MaxTier, MaxUpgradeLevel)=%d, want %d", top, want)
	}
	// far past the limits the formula would leave the int range
	for _, tier := range []int{64, 65, 200, 5000} {
		if got := Worth(tier, 0); got != math.MaxInt {
			t.Fatalf("Worth(%d,0)=%d, want saturation at MaxInt", tier, got)
		}
	}
}

func TestValidBounds(t *testing.T) {
	if !New(MaxTier, MaxUpgradeLevel).Valid() {
		t.Fatalf("item at both limits must be valid")
	}
	if New(MaxTier+1, 0).Valid() {
		t.Fatalf("tier above MaxTier must be invalid")
	}
	if New(1, MaxUpgradeLevel+1).Valid() {
		t.Fatalf("level above MaxUpgradeLevel must be invalid")
	}
}
