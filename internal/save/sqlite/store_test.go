package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xtding233/idle-forge/internal/item"
	"github.com/xtding233/idle-forge/internal/save"
)

func openTestStore(t *testing.T, history int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "forge.db"), history)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReadEmpty(t *testing.T) {
	s := openTestStore(t, 0)
	if _, err := s.Read(context.Background()); !errors.Is(err, save.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestRoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	st := save.Fresh()
	st.Currency = 900
	st.Stats.Combines = 4
	st.Grid.Add(item.New(6, 0), 0)
	st.Grid.Add(item.New(2, 5), 13)
	if err := save.Persist(ctx, s, st); err != nil {
		t.Fatalf("persist: %v", err)
	}

	got, err := save.Load(ctx, s, save.Fresh())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Currency != 900 || got.Stats.Combines != 4 {
		t.Fatalf("unexpected state %+v", got)
	}
	if *got.Grid.Get(13) != *st.Grid.Get(13) {
		t.Fatalf("slot 13 differs: %+v vs %+v", got.Grid.Get(13), st.Grid.Get(13))
	}
}

func TestHistoryRetention(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 3)
	for i := 0; i < 5; i++ {
		st := save.Fresh()
		st.Currency = i
		if err := save.Persist(ctx, s, st); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := s.History(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("history len=%d, want 3", len(entries))
	}
	newest, err := save.Restore([]byte(entries[0].Payload))
	if err != nil {
		t.Fatal(err)
	}
	if newest.Currency != 4 {
		t.Fatalf("newest currency=%d, want 4", newest.Currency)
	}
}

func TestRollback(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 5)
	if err := s.Rollback(ctx); !errors.Is(err, save.ErrNotFound) {
		t.Fatalf("rollback on empty store: %v", err)
	}
	for _, c := range []int{10, 20} {
		st := save.Fresh()
		st.Currency = c
		if err := save.Persist(ctx, s, st); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	got, err := save.Load(ctx, s, save.Fresh())
	if err != nil {
		t.Fatal(err)
	}
	if got.Currency != 10 {
		t.Fatalf("currency=%d after rollback, want 10", got.Currency)
	}
}

func TestRollbackWalksBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 5)
	for _, c := range []int{1, 2, 3} {
		st := save.Fresh()
		st.Currency = c
		if err := save.Persist(ctx, s, st); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []int{2, 1} {
		if err := s.Rollback(ctx); err != nil {
			t.Fatalf("rollback to %d: %v", want, err)
		}
		got, err := save.Load(ctx, s, save.Fresh())
		if err != nil {
			t.Fatal(err)
		}
		if got.Currency != want {
			t.Fatalf("currency=%d after rollback, want %d", got.Currency, want)
		}
	}
	if err := s.Rollback(ctx); !errors.Is(err, save.ErrNotFound) {
		t.Fatalf("rollback past the oldest entry: err=%v", err)
	}
	entries, err := s.History(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("history len=%d after two rollbacks, want 1", len(entries))
	}

	// a write after rollback continues from the restored state
	st := save.Fresh()
	st.Currency = 7
	if err := save.Persist(ctx, s, st); err != nil {
		t.Fatal(err)
	}
	if err := s.Rollback(ctx); err != nil {
		t.Fatal(err)
	}
	got, err := save.Load(ctx, s, save.Fresh())
	if err != nil {
		t.Fatal(err)
	}
	if got.Currency != 1 {
		t.Fatalf("currency=%d, want 1", got.Currency)
	}
}

func TestStoreIsRewinder(t *testing.T) {
	var _ save.Rewinder = openTestStore(t, 0)
}
