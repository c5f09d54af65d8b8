package save

import (
	"encoding/json"
	"fmt"

	"github.com/xtding233/idle-forge/internal/grid"
	"github.com/xtding233/idle-forge/internal/item"
)

// Snapshot serializes st. A nil grid is written as an empty one.
func Snapshot(st State) ([]byte, error) {
	doc := Document{
		Version:  Version,
		Currency: st.Currency,
		Grid:     make([]SlotDocument, grid.Capacity),
		Stats:    st.Stats,
	}
	var slots [grid.Capacity]*item.Item
	if st.Grid != nil {
		slots = st.Grid.Slots()
	}
	for i, it := range slots {
		doc.Grid[i] = SlotDocument{Position: i, Item: it.Clone()}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Restore parses and validates data and rebuilds the state it describes.
// Every failure wraps ErrRejected and returns a zero State.
func Restore(data []byte) (State, error) {
	if err := Validate(data); err != nil {
		return State{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("%w: decode: %v", ErrRejected, err)
	}
	g := grid.New()
	for _, s := range doc.Grid {
		if s.Item == nil {
			continue
		}
		it := item.NewWithID(s.Item.ID, s.Item.Tier, s.Item.UpgradeLevel)
		if !g.Add(it, s.Position) {
			return State{}, fmt.Errorf("%w: grid[%d] could not be placed", ErrRejected, s.Position)
		}
	}
	return State{Currency: doc.Currency, Grid: g, Stats: doc.Stats}, nil
}
