// Package upgrade rolls risk-weighted upgrade attempts.
//
// The odds depend only on an item's current upgrade level. The package never
// touches storage: callers apply the returned Outcome themselves
// (Success -> item.LevelUp, Maintain -> nothing, Destroy -> remove from the grid).
package upgrade

import (
	"math"

	"github.com/xtding233/idle-forge/internal/item"
)

const (
	baseSuccess  = 0.9
	minSuccess   = 0.3
	maxDestroy   = 0.5
	stepPerLevel = 0.1
)

// Distribution holds the odds of each outcome for one attempt.
type Distribution struct {
	Success  float64 `json:"success"`
	Maintain float64 `json:"maintain"`
	Destroy  float64 `json:"destroy"`
}

// OutcomeDistribution returns the odds at upgradeLevel:
//
//	success  = max(0.3, 0.9 - 0.1*level)
//	destroy  = min(0.5, 0.1*level)
//	maintain = 1 - success - destroy
//
// Negative levels are treated as 0.
// From level 6 on both clamps are active and maintain stays at 0.2.
func OutcomeDistribution(upgradeLevel int) Distribution {
	if upgradeLevel < 0 {
		upgradeLevel = 0
	}
	lvl := float64(upgradeLevel)
	s := math.Max(minSuccess, baseSuccess-stepPerLevel*lvl)
	d := math.Min(maxDestroy, stepPerLevel*lvl)
	return Distribution{
		Success:  s,
		Maintain: 1 - s - d,
		Destroy:  d,
	}
}

// Pick maps a sample in [0,1) onto the outcome ranges in the order
// success, maintain, destroy.
func (d Distribution) Pick(sample float64) Outcome {
	if sample < d.Success {
		return Success
	}
	// rounding can leave Success+Maintain a hair under 1; with no destroy
	// mass the tail still belongs to Maintain
	if sample < d.Success+d.Maintain || d.Destroy <= 0 {
		return Maintain
	}
	return Destroy
}

// Attempt draws one sample and returns the outcome for an item at upgradeLevel.
// A nil rng uses DefaultRNG.
func Attempt(upgradeLevel int, rng RandomSource) Outcome {
	if rng == nil {
		rng = DefaultRNG()
	}
	return OutcomeDistribution(upgradeLevel).Pick(rng.Float64())
}

// AttemptItem rolls an attempt for it without modifying it.
// The bool is false when it is nil, invalid or already at item.MaxUpgradeLevel.
func AttemptItem(it *item.Item, rng RandomSource) (Outcome, bool) {
	if !it.Valid() || it.UpgradeLevel >= item.MaxUpgradeLevel {
		return 0, false
	}
	return Attempt(it.UpgradeLevel, rng), true
}

// Apply performs the in-place effect of o on it and reports whether the item
// survives. Removing a destroyed item from storage remains the caller's job.
func Apply(it *item.Item, o Outcome) bool {
	switch o {
	case Success:
		it.LevelUp()
		return true
	case Destroy:
		return false
	default:
		return true
	}
}
