package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withDurations(ds ...time.Duration) []ItemResult {
	out := make([]ItemResult, len(ds))
	for i, d := range ds {
		out[i] = ItemResult{Index: i, Duration: d}
	}
	return out
}

func TestComputeLatencyStats_Empty(t *testing.T) {
	stats := ComputeLatencyStats(nil)
	assert.True(t, stats.IsZero())
	assert.Zero(t, stats.Mean)
}

func TestComputeLatencyStats_SingleValue(t *testing.T) {
	stats := ComputeLatencyStats(withDurations(10 * time.Millisecond))

	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 10*time.Millisecond, stats.Max)
	assert.Equal(t, 10*time.Millisecond, stats.Median)
	assert.Equal(t, 10*time.Millisecond, stats.P95)
	assert.Equal(t, 1, stats.SampleCount)
}

func TestComputeLatencyStats_Unsorted(t *testing.T) {
	stats := ComputeLatencyStats(withDurations(
		50*time.Millisecond,
		10*time.Millisecond,
		30*time.Millisecond,
		20*time.Millisecond,
		40*time.Millisecond,
	))

	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 50*time.Millisecond, stats.Max)
	assert.Equal(t, 30*time.Millisecond, stats.Mean)
	assert.Equal(t, 30*time.Millisecond, stats.Median)
	assert.Equal(t, 5, stats.SampleCount)
}

func TestComputeLatencyStats_Percentiles(t *testing.T) {
	ds := make([]time.Duration, 100)
	for i := range ds {
		ds[i] = time.Duration(i+1) * time.Millisecond
	}
	stats := ComputeLatencyStats(withDurations(ds...))

	assert.InDelta(t, float64(90*time.Millisecond), float64(stats.P90), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(stats.P95), float64(time.Millisecond))
}
