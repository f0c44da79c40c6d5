package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/dataset"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string) (*rubric.Score, error)
}

type Option func(*Runner)

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

// Runner drives an Evaluator over a batch strictly one pair at a time.
type Runner struct {
	evaluator Evaluator
	config    Config
	observers []Observer
}

func New(ev Evaluator, cfg Config, opts ...Option) *Runner {
	r := &Runner{evaluator: ev, config: cfg}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates pairs in input order and returns one result per processed
// pair, with Index set to the pair's position in the input. With FailFast,
// the first failure stops the batch and is returned alongside the results
// gathered before it. A cancelled context stops the batch before the next pair.
func (r *Runner) Run(ctx context.Context, pairs []dataset.QAPair) ([]ItemResult, error) {
	total := len(pairs)
	if r.config.Limit > 0 && r.config.Limit < total {
		total = r.config.Limit
	}

	results := make([]ItemResult, 0, total)
	start := time.Now()

	for i, pair := range pairs[:total] {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("batch stopped after %d of %d items: %w", len(results), total, err)
		}

		itemStart := time.Now()
		score, err := r.evaluator.Evaluate(ctx, pair.Question, pair.Answer)

		var item ItemResult
		if err != nil {
			item = Failed(i, pair.Question, err)
		} else {
			item = Scored(i, pair.Question, score)
		}
		item.Duration = time.Since(itemStart)

		progress := Progress{Current: i + 1, Total: total, Elapsed: time.Since(start)}
		if err != nil && r.config.FailFast {
			r.notify(progress, item)
			return results, fmt.Errorf("evaluate item %d: %w", i, err)
		}

		results = append(results, item)
		r.notify(progress, item)
	}

	return results, nil
}

func (r *Runner) notify(p Progress, item ItemResult) {
	for _, o := range r.observers {
		o.ItemDone(p, item)
	}
}
