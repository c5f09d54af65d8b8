// Package combine promotes two items of the same tier into one item of the
// next tier.
package combine

import (
	"errors"

	"github.com/xtding233/idle-forge/internal/item"
)

// ErrIneligible is returned by Combine when the tiers differ.
var ErrIneligible = errors.New("items cannot be combined; tiers must match")

// CanCombine reports whether a and b may be combined. Upgrade levels are ignored.
func CanCombine(a, b *item.Item) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Tier == b.Tier
}

// Combine returns a new item one tier above the sources, at upgrade level 0.
// The sources are not modified; removing them from storage and placing the
// result is up to the caller.
func Combine(a, b *item.Item) (*item.Item, error) {
	if !CanCombine(a, b) {
		return nil, ErrIneligible
	}
	return item.New(a.Tier+1, 0), nil
}
