package engine

import (
	"context"
	"math"

	"github.com/xtding233/idle-forge/internal/combine"
	"github.com/xtding233/idle-forge/internal/events"
	"github.com/xtding233/idle-forge/internal/grid"
	"github.com/xtding233/idle-forge/internal/item"
	"github.com/xtding233/idle-forge/internal/save"
	"github.com/xtding233/idle-forge/internal/upgrade"
)

// Placed reports where an item ended up. Item is a detached copy.
type Placed struct {
	Slot int        `json:"slot"`
	Item *item.Item `json:"item"`
}

// UpgradeResult is the outcome of one attempt. Item is nil when destroyed.
type UpgradeResult struct {
	Slot    int             `json:"slot"`
	Outcome upgrade.Outcome `json:"outcome"`
	Item    *item.Item      `json:"item"`
}

// Acquire mints an item of tier into the lowest empty slot.
// Charging for it is the caller's business.
func (e *Engine) Acquire(ctx context.Context, tier int) (Placed, error) {
	if tier < 1 || tier > item.MaxTier {
		return Placed{}, ErrInvalidTier
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	it := item.New(tier, 0)
	slot, ok := e.state.Grid.Place(it)
	if !ok {
		return Placed{}, ErrGridFull
	}
	e.state.Stats.ItemsAcquired++
	e.noteTier(it)
	e.persist(ctx, "acquire")
	return Placed{Slot: slot, Item: it.Clone()}, nil
}

// Combine merges the item in slot from into the item in slot into. Both
// sources are removed and the result takes slot into.
func (e *Engine) Combine(ctx context.Context, from, into int) (Placed, error) {
	e.mu.Lock()
	res, err := e.combineLocked(ctx, from, into)
	e.mu.Unlock()
	if err != nil {
		return Placed{}, err
	}
	e.publish(events.KindCombine)
	return res, nil
}

func (e *Engine) combineLocked(ctx context.Context, from, into int) (Placed, error) {
	if from == into {
		return Placed{}, ErrSameSlot
	}
	a, err := e.occupied(from)
	if err != nil {
		return Placed{}, err
	}
	b, err := e.occupied(into)
	if err != nil {
		return Placed{}, err
	}
	if combine.CanCombine(a, b) && a.Tier >= item.MaxTier {
		return Placed{}, ErrMaxTier
	}
	result, err := combine.Combine(a, b)
	if err != nil {
		return Placed{}, err
	}
	// remove both sources before placing the result
	e.state.Grid.Remove(from)
	e.state.Grid.Remove(into)
	if !e.state.Grid.Add(result, into) {
		// unreachable: into was just vacated; restore the sources
		e.state.Grid.Add(a, from)
		e.state.Grid.Add(b, into)
		return Placed{}, ErrInvalidSlot
	}
	e.state.Stats.Combines++
	e.noteTier(result)
	e.logger.Debug("combined", "from", from, "into", into, "tier", result.Tier)
	e.persist(ctx, "combine")
	return Placed{Slot: into, Item: result.Clone()}, nil
}

// Upgrade rolls one attempt on the item in slot and applies the outcome.
func (e *Engine) Upgrade(ctx context.Context, slot int) (UpgradeResult, error) {
	e.mu.Lock()
	res, err := e.upgradeLocked(ctx, slot)
	e.mu.Unlock()
	if err != nil {
		return UpgradeResult{}, err
	}
	e.publish(events.KindUpgrade)
	return res, nil
}

func (e *Engine) upgradeLocked(ctx context.Context, slot int) (UpgradeResult, error) {
	it, err := e.occupied(slot)
	if err != nil {
		return UpgradeResult{}, err
	}
	outcome, ok := upgrade.AttemptItem(it, e.rng)
	if !ok {
		return UpgradeResult{}, ErrMaxLevel
	}
	e.state.Stats.UpgradeAttempts++
	switch outcome {
	case upgrade.Success:
		e.state.Stats.UpgradeSuccesses++
	case upgrade.Maintain:
		e.state.Stats.UpgradeMaintains++
	case upgrade.Destroy:
		e.state.Stats.UpgradeDestroys++
	}
	res := UpgradeResult{Slot: slot, Outcome: outcome}
	if upgrade.Apply(it, outcome) {
		e.noteTier(it)
		res.Item = it.Clone()
	} else {
		e.state.Grid.Remove(slot)
	}
	e.logger.Debug("upgrade attempt", "slot", slot, "outcome", outcome.String())
	e.persist(ctx, "upgrade")
	return res, nil
}

// Sell removes the item in slot and credits its worth.
func (e *Engine) Sell(ctx context.Context, slot int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, err := e.occupied(slot)
	if err != nil {
		return 0, err
	}
	if it.Worth > math.MaxInt-e.state.Currency || it.Worth > math.MaxInt-e.state.Stats.CurrencyEarned {
		return 0, ErrCurrencyOverflow
	}
	e.state.Grid.Remove(slot)
	e.state.Currency += it.Worth
	e.state.Stats.ItemsSold++
	e.state.Stats.CurrencyEarned += it.Worth
	e.persist(ctx, "sell")
	return it.Worth, nil
}

// Move relocates an item into an empty slot.
func (e *Engine) Move(ctx context.Context, from, to int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Grid.Move(from, to) {
		return false
	}
	e.persist(ctx, "move")
	return true
}

// Swap exchanges two occupied slots.
func (e *Engine) Swap(ctx context.Context, a, b int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Grid.Swap(a, b) {
		return false
	}
	e.persist(ctx, "swap")
	return true
}

// Sort packs items by tier, highest first.
func (e *Engine) Sort(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Grid.SortDescendingByTier()
	e.persist(ctx, "sort")
}

// Reset discards everything and starts a fresh game.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.fresh()
	e.persist(ctx, "reset")
}

// View is a read-only copy of the engine state.
type View struct {
	Currency   int                       `json:"currency"`
	Slots      [grid.Capacity]*item.Item `json:"slots"`
	Count      int                       `json:"count"`
	TotalWorth int                       `json:"totalWorth"`
	Stats      save.Stats                `json:"stats"`
}

// View returns a copy of the current state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := View{
		Currency:   e.state.Currency,
		Count:      e.state.Grid.Count(),
		TotalWorth: e.state.Grid.TotalWorth(),
		Stats:      e.state.Stats,
	}
	for i, it := range e.state.Grid.Slots() {
		v.Slots[i] = it.Clone()
	}
	return v
}
