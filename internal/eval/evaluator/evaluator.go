package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/judge"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

// Evaluator scores one question/answer pair: a single judge call followed by
// rubric normalization. It never retries.
type Evaluator struct {
	judge    judge.Judge
	enforcer *rubric.Enforcer
}

func New(j judge.Judge, enforcer *rubric.Enforcer) *Evaluator {
	if enforcer == nil {
		enforcer = rubric.NewEnforcer(nil)
	}
	return &Evaluator{judge: j, enforcer: enforcer}
}

// Evaluate returns a fully normalized score, or a *judge.CallError when the
// judge fails or its output is not a valid rubric object.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer string) (*rubric.Score, error) {
	raw, err := e.judge.Grade(ctx, question, answer)
	if err != nil {
		return nil, &judge.CallError{Question: question, Err: err}
	}

	parsed, err := rubric.ParseRaw(raw)
	if err != nil {
		return nil, &judge.CallError{Question: question, Err: fmt.Errorf("parse judge output: %w", err)}
	}

	score := e.enforcer.Normalize(parsed, answer)
	slog.Debug("answer evaluated",
		"adherence", score.Adherence.Overall,
		"purity_pct", score.Arabic.PurityPct,
	)
	return &score, nil
}
