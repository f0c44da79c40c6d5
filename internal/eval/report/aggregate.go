package report

import (
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/utils"
)

const meanDecimals = 2

// Aggregate averages every integer rubric field, Overall included, over the
// scored items only. Fields with no contributing item are absent.
func Aggregate(results []runner.ItemResult) Aggregated {
	sums := make(map[rubric.Key]int)
	counts := make(map[rubric.Key]int)

	for _, r := range results {
		if !r.IsScored() {
			continue
		}
		r.Evaluation.Each(func(k rubric.Key, v int) {
			sums[k] += v
			counts[k]++
		})
	}

	agg := make(Aggregated, len(sums))
	for k, sum := range sums {
		agg[k] = utils.RoundDecimal(float64(sum)/float64(counts[k]), meanDecimals)
	}
	return agg
}

// Entries lists the aggregated means in canonical rubric order.
func (a Aggregated) Entries() []ScoreEntry {
	var entries []ScoreEntry
	for _, k := range rubric.Keys() {
		if v, ok := a[k]; ok {
			entries = append(entries, ScoreEntry{Section: k.Section, Field: k.Field, Mean: v})
		}
	}
	return entries
}

func Summarize(results []runner.ItemResult) Summary {
	s := Summary{
		TotalEvaluated:     len(results),
		PurityDistribution: make(map[int]int),
	}
	for _, r := range results {
		if !r.IsScored() {
			s.Failed++
			continue
		}
		s.Scored++
		s.PurityDistribution[r.Evaluation.Arabic.ArabicPurity]++
	}
	return s
}

func Generate(info RunInfo, results []runner.ItemResult) *Report {
	if info.Timestamp.IsZero() {
		info.Timestamp = time.Now()
	}
	info.Environment = NewEnvironmentInfo()

	r := &Report{
		Meta:    info,
		Summary: Summarize(results),
		Scores:  Aggregate(results).Entries(),
		Latency: runner.ComputeLatencyStats(results),
	}
	for _, item := range results {
		if !item.IsScored() {
			r.Failures = append(r.Failures, Failure{Index: item.Index, Question: item.Question, Error: item.Error})
		}
	}
	return r
}
