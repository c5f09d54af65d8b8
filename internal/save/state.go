// Package save turns engine state into durable snapshots and back.
//
// A snapshot is accepted whole or not at all: Restore validates the full
// document before building any state, and Load degrades every failure to a
// fresh state.
package save

import (
	"github.com/xtding233/idle-forge/internal/grid"
	"github.com/xtding233/idle-forge/internal/item"
)

// Version tags the snapshot layout written by this package.
const Version = "1"

// StartingCurrency is the grant a fresh state begins with.
const StartingCurrency = 100

// recognized lists every layout version Restore accepts.
var recognized = map[string]bool{Version: true}

// Stats are the aggregate counters persisted with the grid.
type Stats struct {
	ItemsAcquired       int `json:"itemsAcquired"`
	ItemsSold           int `json:"itemsSold"`
	Combines            int `json:"combines"`
	UpgradeAttempts     int `json:"upgradeAttempts"`
	UpgradeSuccesses    int `json:"upgradeSuccesses"`
	UpgradeMaintains    int `json:"upgradeMaintains"`
	UpgradeDestroys     int `json:"upgradeDestroys"`
	HighestTier         int `json:"highestTier"`
	HighestUpgradeLevel int `json:"highestUpgradeLevel"`
	CurrencyEarned      int `json:"currencyEarned"`
}

// statFields must list every json name of Stats.
var statFields = []string{
	"itemsAcquired",
	"itemsSold",
	"combines",
	"upgradeAttempts",
	"upgradeSuccesses",
	"upgradeMaintains",
	"upgradeDestroys",
	"highestTier",
	"highestUpgradeLevel",
	"currencyEarned",
}

// State is everything the engine persists.
type State struct {
	Currency int
	Grid     *grid.Grid
	Stats    Stats
}

// Fresh returns the state of a brand new game.
func Fresh() State {
	return FreshWithCurrency(StartingCurrency)
}

// FreshWithCurrency is Fresh with a custom starting grant.
func FreshWithCurrency(currency int) State {
	return State{Currency: currency, Grid: grid.New()}
}

// Document is the serialized layout of a snapshot.
type Document struct {
	Version  string         `json:"version" jsonschema:"enum=1"`
	Currency int            `json:"currency" jsonschema:"minimum=0"`
	Grid     []SlotDocument `json:"grid" jsonschema:"minItems=25,maxItems=25"`
	Stats    Stats          `json:"stats"`
}

// SlotDocument is one grid entry. Item is null for an empty slot.
type SlotDocument struct {
	Position int        `json:"position" jsonschema:"minimum=0,maximum=24"`
	Item     *item.Item `json:"item"`
}
