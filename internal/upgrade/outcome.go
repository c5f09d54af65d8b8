package upgrade

import "fmt"

// Outcome is the result of one upgrade attempt.
type Outcome int

const (
	// Success raises the item's upgrade level by one.
	Success Outcome = iota + 1
	// Maintain leaves the item unchanged.
	Maintain
	// Destroy removes the item from play.
	Destroy
)

// String returns the wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Maintain:
		return "maintain"
	case Destroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name, e.g. "success".
func (o Outcome) MarshalText() ([]byte, error) {
	switch o {
	case Success, Maintain, Destroy:
		return []byte(o.String()), nil
	}
	return nil, fmt.Errorf("invalid outcome %d", int(o))
}
