package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/dataset"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

type fakeEvaluator struct {
	failOn map[string]bool
	calls  []string
	onCall func(n int)
}

func (f *fakeEvaluator) Evaluate(_ context.Context, question, _ string) (*rubric.Score, error) {
	f.calls = append(f.calls, question)
	if f.onCall != nil {
		f.onCall(len(f.calls))
	}
	if f.failOn[question] {
		return nil, fmt.Errorf("judge unavailable for %s", question)
	}
	s := rubric.Uniform(4)
	return &s, nil
}

func pairs(n int) []dataset.QAPair {
	out := make([]dataset.QAPair, n)
	for i := range out {
		out[i] = dataset.QAPair{Question: fmt.Sprintf("q%d", i), Answer: "a"}
	}
	return out
}

func TestRunner_Run(t *testing.T) {
	t.Run("isolates failures and keeps order", func(t *testing.T) {
		ev := &fakeEvaluator{failOn: map[string]bool{"q1": true, "q3": true}}
		r := New(ev, DefaultConfig())

		results, err := r.Run(context.Background(), pairs(5))
		require.NoError(t, err)
		require.Len(t, results, 5)

		for i, res := range results {
			assert.Equal(t, i, res.Index)
			assert.Equal(t, fmt.Sprintf("q%d", i), res.Question)
		}
		assert.False(t, results[1].IsScored())
		assert.Contains(t, results[1].Error, "judge unavailable for q1")
		assert.Nil(t, results[1].Evaluation)
		assert.True(t, results[2].IsScored())
		assert.Empty(t, results[2].Error)
		assert.Equal(t, []string{"q0", "q1", "q2", "q3", "q4"}, ev.calls)
	})

	t.Run("fail fast stops at the first failure", func(t *testing.T) {
		ev := &fakeEvaluator{failOn: map[string]bool{"q2": true}}
		r := New(ev, Config{FailFast: true})

		results, err := r.Run(context.Background(), pairs(5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "evaluate item 2")
		assert.Len(t, results, 2)
		assert.Equal(t, []string{"q0", "q1", "q2"}, ev.calls)
	})

	t.Run("limit caps processed items", func(t *testing.T) {
		ev := &fakeEvaluator{}
		r := New(ev, Config{Limit: 3})

		results, err := r.Run(context.Background(), pairs(10))
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Len(t, ev.calls, 3)
	})

	t.Run("limit above input size is ignored", func(t *testing.T) {
		r := New(&fakeEvaluator{}, Config{Limit: 50})
		results, err := r.Run(context.Background(), pairs(4))
		require.NoError(t, err)
		assert.Len(t, results, 4)
	})

	t.Run("empty input", func(t *testing.T) {
		r := New(&fakeEvaluator{}, DefaultConfig())
		results, err := r.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("reports progress for every item", func(t *testing.T) {
		var seen []Progress
		var failed int
		obs := ObserverFunc(func(p Progress, item ItemResult) {
			seen = append(seen, p)
			if !item.IsScored() {
				failed++
			}
		})
		ev := &fakeEvaluator{failOn: map[string]bool{"q0": true}}
		r := New(ev, Config{Limit: 3}, WithObserver(obs), WithObserver(LogObserver{Every: 1}))

		_, err := r.Run(context.Background(), pairs(6))
		require.NoError(t, err)
		require.Len(t, seen, 3)
		for i, p := range seen {
			assert.Equal(t, i+1, p.Current)
			assert.Equal(t, 3, p.Total)
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("cancellation stops before the next item", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ev := &fakeEvaluator{onCall: func(n int) {
			if n == 2 {
				cancel()
			}
		}}
		r := New(ev, DefaultConfig())

		results, err := r.Run(ctx, pairs(5))
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Len(t, results, 2)
		assert.Len(t, ev.calls, 2)
	})
}
