package experiments

import (
	"fmt"
	"sort"

	"pursuit/experiments/metrics"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the steps taken over a set of trials.
type Summary struct {
	Trials      int
	Captures    int
	CaptureRate float64
	Mean        float64
	Median      float64
	StdDev      float64 // Population standard deviation
	Min         float64
	Max         float64
}

func Summarize(trials []metrics.TrialRecord) Summary {
	summary := Summary{Trials: len(trials)}
	if len(trials) == 0 {
		return summary
	}

	steps := make([]float64, len(trials))
	for i, t := range trials {
		steps[i] = float64(t.Steps)
		if t.Captured {
			summary.Captures++
		}
	}
	sort.Float64s(steps)

	summary.CaptureRate = float64(summary.Captures) / float64(len(trials))
	summary.Mean = stat.Mean(steps, nil)
	summary.Median = median(steps)
	if len(steps) > 1 {
		summary.StdDev = stat.PopStdDev(steps, nil)
	}
	summary.Min = floats.Min(steps)
	summary.Max = floats.Max(steps)
	return summary
}

func (s Summary) String() string {
	return fmt.Sprintf("%d trials, %d captured (%.0f%%), steps mean=%.2f median=%.1f sd=%.2f min=%.0f max=%.0f",
		s.Trials, s.Captures, 100*s.CaptureRate, s.Mean, s.Median, s.StdDev, s.Min, s.Max)
}

// median expects sorted values and averages the middle pair for even counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
