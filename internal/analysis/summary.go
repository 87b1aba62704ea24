package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Runs     int
	Min      int
	Max      int
	MinIndex int
	MaxIndex int
	Mean     float64
	StdDev   float64
	Median   float64
}

// Summarize computes statistics over elapsed times indexed by direction
// combination. Ties keep the lowest index.
func Summarize(elapsed []int) Summary {
	s := Summary{Runs: len(elapsed)}
	if len(elapsed) == 0 {
		return s
	}

	xs := make([]float64, len(elapsed))
	s.Min, s.Max = elapsed[0], elapsed[0]
	for i, e := range elapsed {
		xs[i] = float64(e)
		if e < s.Min {
			s.Min, s.MinIndex = e, i
		}
		if e > s.Max {
			s.Max, s.MaxIndex = e, i
		}
	}

	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		s.StdDev = 0
	}
	sort.Float64s(xs)
	s.Median = stat.Quantile(0.5, stat.Empirical, xs, nil)
	return s
}

// Metrics flattens the summary for run metadata.
func (s Summary) Metrics() map[string]float64 {
	return map[string]float64{
		"runs":   float64(s.Runs),
		"min":    float64(s.Min),
		"max":    float64(s.Max),
		"mean":   s.Mean,
		"stddev": s.StdDev,
		"median": s.Median,
	}
}

// Histogram counts how many runs finished at each elapsed time from min to
// max inclusive, one bucket per step of width inc.
func Histogram(elapsed []int, inc int) (start int, counts []float64) {
	if len(elapsed) == 0 || inc <= 0 {
		return 0, nil
	}
	lo, hi := elapsed[0], elapsed[0]
	for _, e := range elapsed {
		if e < lo {
			lo = e
		}
		if e > hi {
			hi = e
		}
	}
	counts = make([]float64, (hi-lo)/inc+1)
	for _, e := range elapsed {
		counts[(e-lo)/inc]++
	}
	return lo, counts
}
