package upgrade

import (
	"errors"
	"math"
)

var ErrInvalidDistribution = errors.New("invalid outcome distribution")

// SumTolerance bounds how far the three probabilities may drift from 1.
const SumTolerance = 1e-9

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidDistribution
	}
	if p < 0 || p > 1 {
		return ErrInvalidDistribution
	}
	return nil
}

// Validate checks every probability lies in [0,1] and that they sum to 1.
func (d Distribution) Validate() error {
	for _, p := range []float64{d.Success, d.Maintain, d.Destroy} {
		if err := validateProb(p); err != nil {
			return err
		}
	}
	if math.Abs(d.Success+d.Maintain+d.Destroy-1) > SumTolerance {
		return ErrInvalidDistribution
	}
	return nil
}
