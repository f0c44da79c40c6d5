package runner

import (
	"slices"
	"time"
)

// LatencyStats summarizes how long individual evaluations took.
type LatencyStats struct {
	Min         time.Duration `json:"min"`
	Max         time.Duration `json:"max"`
	Mean        time.Duration `json:"mean"`
	Median      time.Duration `json:"median"`
	P90         time.Duration `json:"p90"`
	P95         time.Duration `json:"p95"`
	SampleCount int           `json:"sample_count"`
}

func ComputeLatencyStats(results []ItemResult) LatencyStats {
	durations := make([]time.Duration, 0, len(results))
	for _, r := range results {
		durations = append(durations, r.Duration)
	}
	if len(durations) == 0 {
		return LatencyStats{}
	}
	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return LatencyStats{
		Min:         durations[0],
		Max:         durations[len(durations)-1],
		Mean:        sum / time.Duration(len(durations)),
		Median:      percentile(durations, 50),
		P90:         percentile(durations, 90),
		P95:         percentile(durations, 95),
		SampleCount: len(durations),
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := rank - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[lower+1])*weight)
}

func (s LatencyStats) IsZero() bool {
	return s.SampleCount == 0
}
