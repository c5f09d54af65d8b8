package upgrade

import (
	"errors"
	"math"
	"sort"

	"github.com/xtding233/idle-forge/internal/item"
)

// ErrSimParams rejects negative, inverted or out-of-range levels.
var ErrSimParams = errors.New("invalid simulation params")

// SimParams describes one upgrade-run simulation: start an item at
// StartLevel and keep attempting until it reaches TargetLevel, is destroyed,
// or MaxAttempts is spent.
type SimParams struct {
	StartLevel  int
	TargetLevel int
	MaxAttempts int // <=0 means 10000
}

// Stats summarizes simulation results.
type Stats struct {
	Trials      int     `json:"trials"`
	Mean        float64 `json:"mean"` // attempts per trial
	Var         float64 `json:"var"`
	StdDev      float64 `json:"stdDev"`
	P50         float64 `json:"p50"`
	P90         float64 `json:"p90"`
	P99         float64 `json:"p99"`
	ReachRate   float64 `json:"reachRate"`   // share of trials that reached TargetLevel
	DestroyRate float64 `json:"destroyRate"` // share of trials that ended in Destroy
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Trials:  n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// simulateOne runs one item from StartLevel and returns the attempts spent
// and how the run ended.
func simulateOne(p SimParams, rng RandomSource) (attempts int, reached, destroyed bool) {
	level := p.StartLevel
	for level < p.TargetLevel {
		if attempts >= p.MaxAttempts {
			return attempts, false, false
		}
		attempts++
		switch Attempt(level, rng) {
		case Success:
			level++
		case Destroy:
			return attempts, false, true
		}
	}
	return attempts, true, false
}

// RunMonteCarlo repeats upgrade runs and summarizes attempts per run along
// with how often runs reach the target or are destroyed.
func RunMonteCarlo(p SimParams, trials int, rng RandomSource) (Stats, error) {
	if p.StartLevel < 0 || p.TargetLevel < p.StartLevel || p.TargetLevel > item.MaxUpgradeLevel {
		return Stats{}, ErrSimParams
	}
	if trials <= 0 {
		return Stats{}, nil
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 10000
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, trials)
	var reached, destroyed int
	for i := 0; i < trials; i++ {
		n, ok, lost := simulateOne(p, rng)
		samples[i] = n
		if ok {
			reached++
		}
		if lost {
			destroyed++
		}
	}
	st := calcStats(samples)
	st.ReachRate = float64(reached) / float64(trials)
	st.DestroyRate = float64(destroyed) / float64(trials)
	return st, nil
}
