package save

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound means the store holds no snapshot yet.
var ErrNotFound = errors.New("no snapshot stored")

// Store is durable storage for one serialized snapshot.
// Write must be atomic: a reader sees the previous or the new payload, never a mix.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Rewinder is a Store that keeps older snapshots and can make the previous
// one current again.
type Rewinder interface {
	Store
	Rollback(ctx context.Context) error
}

// Load reads and restores the stored snapshot. On any failure, a missing
// snapshot included, it returns fresh along with the reason.
func Load(ctx context.Context, store Store, fresh State) (State, error) {
	if store == nil {
		return fresh, fmt.Errorf("load snapshot: %w", ErrNotFound)
	}
	data, err := store.Read(ctx)
	if err != nil {
		return fresh, fmt.Errorf("load snapshot: %w", err)
	}
	st, err := Restore(data)
	if err != nil {
		return fresh, fmt.Errorf("load snapshot: %w", err)
	}
	return st, nil
}

// Persist snapshots st and writes it to store.
func Persist(ctx context.Context, store Store, st State) error {
	data, err := Snapshot(st)
	if err != nil {
		return err
	}
	if err := store.Write(ctx, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// MemoryStore keeps the latest snapshot in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
	// Fail, when set, is returned by every Write.
	Fail error
}

func (m *MemoryStore) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStore) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.data = append([]byte(nil), data...)
	return nil
}
