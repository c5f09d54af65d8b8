package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xtding233/idle-forge/internal/grid"
	"github.com/xtding233/idle-forge/internal/item"
)

// ErrRejected marks a snapshot that failed to parse or validate.
var ErrRejected = errors.New("snapshot rejected")

// Validate parses data and checks it against the snapshot layout.
func Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: parse: %v", ErrRejected, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after snapshot", ErrRejected)
	}
	return ValidateDocument(doc)
}

// ValidateDocument checks a decoded snapshot. Numbers must be json.Number
// (decode with UseNumber) or float64. All violations are reported together.
func ValidateDocument(doc map[string]any) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrRejected)
	}
	var errs []string

	// version
	switch v := doc["version"].(type) {
	case nil:
		errs = append(errs, "version is required")
	case string:
		if !recognized[v] {
			errs = append(errs, fmt.Sprintf("version %q is not recognized", v))
		}
	default:
		errs = append(errs, "version must be a string")
	}

	// currency
	if c, ok := integer(doc["currency"]); !ok {
		errs = append(errs, "currency must be an integer")
	} else if c < 0 {
		errs = append(errs, "currency must be >= 0")
	}

	// grid
	if g, ok := doc["grid"].([]any); !ok {
		errs = append(errs, "grid must be an array")
	} else if len(g) != grid.Capacity {
		errs = append(errs, fmt.Sprintf("grid must have %d entries, got %d", grid.Capacity, len(g)))
	} else {
		errs = append(errs, validateSlots(g)...)
	}

	// stats
	if s, ok := doc["stats"].(map[string]any); !ok {
		errs = append(errs, "stats must be an object")
	} else {
		for _, f := range statFields {
			if _, ok := integer(s[f]); !ok {
				errs = append(errs, fmt.Sprintf("stats.%s must be an integer", f))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(errs, "; "))
	}
	return nil
}

func validateSlots(slots []any) []string {
	var errs []string
	seen := make(map[string]int)
	for i, raw := range slots {
		slot, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("grid[%d] must be an object", i))
			continue
		}
		if pos, ok := integer(slot["position"]); !ok {
			errs = append(errs, fmt.Sprintf("grid[%d].position must be an integer", i))
		} else if pos != int64(i) {
			errs = append(errs, fmt.Sprintf("grid[%d].position is %d", i, pos))
		}

		rawItem, present := slot["item"]
		if !present || rawItem == nil {
			continue
		}
		it, ok := rawItem.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("grid[%d].item must be an object or null", i))
			continue
		}

		id, ok := it["id"].(string)
		if !ok || id == "" {
			errs = append(errs, fmt.Sprintf("grid[%d].item.id must be a non-empty string", i))
		} else if prev, dup := seen[id]; dup {
			errs = append(errs, fmt.Sprintf("grid[%d].item.id duplicates grid[%d]", i, prev))
		} else {
			seen[id] = i
		}

		tier, tierOK := integer(it["tier"])
		if tierOK && (tier < 1 || tier > item.MaxTier) {
			tierOK = false
		}
		if !tierOK {
			errs = append(errs, fmt.Sprintf("grid[%d].item.tier must be an integer in [1, %d]", i, item.MaxTier))
		}
		level, levelOK := integer(it["upgradeLevel"])
		if levelOK && (level < 0 || level > item.MaxUpgradeLevel) {
			levelOK = false
		}
		if !levelOK {
			errs = append(errs, fmt.Sprintf("grid[%d].item.upgradeLevel must be an integer in [0, %d]", i, item.MaxUpgradeLevel))
		}
		worth, worthOK := number(it["worth"])
		if worthOK && worth < 0 {
			worthOK = false
			errs = append(errs, fmt.Sprintf("grid[%d].item.worth must be >= 0", i))
		} else if !worthOK {
			errs = append(errs, fmt.Sprintf("grid[%d].item.worth must be a number", i))
		}
		if tierOK && levelOK && worthOK {
			if want := item.Worth(int(tier), int(level)); worth != float64(want) {
				errs = append(errs, fmt.Sprintf("grid[%d].item.worth is %v, want %d", i, worth, want))
			}
		}
	}
	return errs
}

// number accepts json.Number and float64 values that are finite.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// integer accepts numbers with no fractional part that fit in an int64.
func integer(v any) (int64, bool) {
	if n, ok := v.(json.Number); ok {
		// "3.0" decodes as a number but not into an int field
		i, err := n.Int64()
		return i, err == nil
	}
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}
