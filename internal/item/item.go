// Package item defines the collectible item, its worth formula and the
// factory that mints new items.
package item

import (
	"math"

	"github.com/google/uuid"
)

const (
	// BaseWorth is the worth of a tier-1 item with no upgrades.
	BaseWorth = 10
	// UpgradeBonus is the fraction of tier worth added per upgrade level.
	UpgradeBonus = 0.5

	// MaxTier and MaxUpgradeLevel bound what a grid may hold. At both limits
	// Worth is about 2.8e14, exact in a float64 and far from int overflow.
	MaxTier         = 40
	MaxUpgradeLevel = 100
)

// Item is one collectible in the grid.
// Worth is derived from Tier and UpgradeLevel and must only change through
// the methods below, which recompute it.
type Item struct {
	ID           string `json:"id"`
	Tier         int    `json:"tier"`
	UpgradeLevel int    `json:"upgradeLevel"`
	Worth        int    `json:"worth"`
}

// Worth returns floor(2^(tier-1) * BaseWorth * (1 + upgradeLevel*UpgradeBonus)).
// Callers must pass tier >= 1 and upgradeLevel >= 0; nothing is validated here.
// Results past the int range saturate at math.MaxInt.
func Worth(tier, upgradeLevel int) int {
	// Ldexp scales by an exact power of two, so no rounding creeps in
	// before the floor.
	w := math.Floor(math.Ldexp(BaseWorth*(1+float64(upgradeLevel)*UpgradeBonus), tier-1))
	if w >= math.MaxInt64 {
		return math.MaxInt
	}
	return int(w)
}

// New mints an item with a fresh random identifier.
// It never fails and does not validate tier or upgradeLevel.
func New(tier, upgradeLevel int) *Item {
	return NewWithID(uuid.NewString(), tier, upgradeLevel)
}

// NewWithID rebuilds an item whose identifier is already known, e.g. when
// restoring a snapshot.
func NewWithID(id string, tier, upgradeLevel int) *Item {
	return &Item{
		ID:           id,
		Tier:         tier,
		UpgradeLevel: upgradeLevel,
		Worth:        Worth(tier, upgradeLevel),
	}
}

// Valid reports whether the item can live in a grid.
func (it *Item) Valid() bool {
	return it != nil &&
		it.Tier >= 1 && it.Tier <= MaxTier &&
		it.UpgradeLevel >= 0 && it.UpgradeLevel <= MaxUpgradeLevel
}

// LevelUp applies a successful upgrade.
func (it *Item) LevelUp() {
	it.UpgradeLevel++
	it.Worth = Worth(it.Tier, it.UpgradeLevel)
}

// Clone returns a detached copy.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}
