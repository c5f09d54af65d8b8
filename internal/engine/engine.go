// Package engine composes the grid, the combination and upgrade rules, the
// progress event bus and write-through persistence into one game instance.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xtding233/idle-forge/internal/events"
	"github.com/xtding233/idle-forge/internal/grid"
	"github.com/xtding233/idle-forge/internal/item"
	"github.com/xtding233/idle-forge/internal/save"
	"github.com/xtding233/idle-forge/internal/upgrade"
)

var (
	ErrInvalidSlot = errors.New("slot index out of range")
	ErrEmptySlot   = errors.New("slot is empty")
	ErrSameSlot    = errors.New("an item cannot be combined with itself")
	ErrGridFull    = errors.New("grid is full")
	ErrInvalidTier = fmt.Errorf("tier must be in [1, %d]", item.MaxTier)
	ErrMaxTier     = errors.New("items at the top tier cannot be combined")
	ErrMaxLevel    = errors.New("item is at the top upgrade level")
	// ErrCurrencyOverflow rejects a sale whose proceeds do not fit in an int.
	ErrCurrencyOverflow = errors.New("currency would overflow")
	// ErrNoHistory is returned by Rollback when the store keeps no history.
	ErrNoHistory = errors.New("store keeps no snapshot history")
)

// Engine owns one player's state. All methods are safe for concurrent use;
// each runs to completion under the engine lock.
type Engine struct {
	mu       sync.Mutex
	state    save.State
	rng      upgrade.RandomSource
	store    save.Store
	bus      events.Bus
	logger   *slog.Logger
	starting int
}

// Option configures engine construction.
type Option func(*Engine)

// WithStore enables write-through persistence to store.
func WithStore(store save.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithRNG sets the upgrade random source.
func WithRNG(rng upgrade.RandomSource) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithBus sets where progress events are published.
func WithBus(bus events.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithLogger sets the engine logger. Nil keeps slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithStartingCurrency sets the grant of fresh states.
func WithStartingCurrency(c int) Option {
	return func(e *Engine) { e.starting = c }
}

// New returns an engine holding a fresh state.
func New(opts ...Option) *Engine {
	e := &Engine{starting: save.StartingCurrency}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.rng == nil {
		e.rng = upgrade.DefaultRNG()
	}
	if e.bus == nil {
		e.bus = events.NullBus{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.state = e.fresh()
	return e
}

func (e *Engine) fresh() save.State {
	return save.FreshWithCurrency(e.starting)
}

// Load replaces the current state with the stored snapshot. When there is no
// store, no snapshot, or the snapshot is rejected, the engine starts fresh and
// the reason is returned; the engine is usable either way.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, err := save.Load(ctx, e.store, e.fresh())
	e.state = st
	switch {
	case err == nil:
		e.logger.Info("state restored", "items", st.Grid.Count(), "currency", st.Currency)
	case errors.Is(err, save.ErrNotFound):
		e.logger.Info("no saved state, starting fresh")
	default:
		e.logger.Warn("saved state unusable, starting fresh", "err", err)
	}
	return err
}

// Rollback steps a history-keeping store back one snapshot and reloads the
// engine from it. The current state is kept when anything fails.
func (e *Engine) Rollback(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rw, ok := e.store.(save.Rewinder)
	if !ok {
		return ErrNoHistory
	}
	if err := rw.Rollback(ctx); err != nil {
		return err
	}
	st, err := save.Load(ctx, e.store, e.fresh())
	if err != nil {
		return err
	}
	e.state = st
	e.logger.Info("rolled back", "items", st.Grid.Count(), "currency", st.Currency)
	return nil
}

// Save writes the current state to the store.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return nil
	}
	return save.Persist(ctx, e.store, e.state)
}

// persist is the write-through after every mutation. A failed write keeps the
// in-memory state and is logged; the next successful write catches up.
func (e *Engine) persist(ctx context.Context, op string) {
	if e.store == nil {
		return
	}
	if err := save.Persist(ctx, e.store, e.state); err != nil {
		e.logger.Warn("write-through failed", "op", op, "err", err)
	}
}

func (e *Engine) publish(kind events.Kind) {
	e.bus.Publish(events.Event{Kind: kind, Count: 1})
}

func (e *Engine) occupied(slot int) (*item.Item, error) {
	if slot < 0 || slot >= grid.Capacity {
		return nil, ErrInvalidSlot
	}
	it := e.state.Grid.Get(slot)
	if it == nil {
		return nil, ErrEmptySlot
	}
	return it, nil
}

func (e *Engine) noteTier(it *item.Item) {
	if it.Tier > e.state.Stats.HighestTier {
		e.state.Stats.HighestTier = it.Tier
	}
	if it.UpgradeLevel > e.state.Stats.HighestUpgradeLevel {
		e.state.Stats.HighestUpgradeLevel = it.UpgradeLevel
	}
}
