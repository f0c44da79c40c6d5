package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/apperr"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/judge"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/labstack/echo/v4"
)

// Evaluator scores one question/answer pair end to end.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string) (*rubric.Score, error)
}

type ScoreRouterOption func(*ScoreRouter)

func WithEvaluator(ev Evaluator) ScoreRouterOption {
	return func(r *ScoreRouter) {
		r.evaluator = ev
	}
}

// WithObserver reports every /evaluate outcome as a single-item batch.
func WithObserver(o runner.Observer) ScoreRouterOption {
	return func(r *ScoreRouter) {
		r.observer = o
	}
}

type ScoreRouter struct {
	e         *echo.Echo
	enforcer  *rubric.Enforcer
	evaluator Evaluator
	observer  runner.Observer
}

func NewScoreRouter(e *echo.Echo, enforcer *rubric.Enforcer, opts ...ScoreRouterOption) *ScoreRouter {
	r := &ScoreRouter{
		e:        e,
		enforcer: enforcer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ScoreRouter) Bind() {
	r.e.POST("/normalize", r.normalizeHandler)
	r.e.POST("/evaluate", r.evaluateHandler)
}

func (r *ScoreRouter) normalizeHandler(c echo.Context) error {
	var req NormalizeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if len(req.Raw) == 0 {
		return apperr.NewValidation("raw rubric is required")
	}

	raw, err := rubric.ParseRaw(req.Raw)
	if err != nil {
		return apperr.NewValidationWrap("invalid raw rubric", err)
	}

	score := r.enforcer.Normalize(raw, req.Answer)
	return c.JSON(http.StatusOK, ScoreResponse{Score: score, PolicyVersion: r.enforcer.Policy().Version})
}

func (r *ScoreRouter) evaluateHandler(c echo.Context) error {
	if r.evaluator == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no judge configured")
	}

	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if strings.TrimSpace(req.Question) == "" {
		return apperr.NewValidation("question is required")
	}

	start := time.Now()
	score, err := r.evaluator.Evaluate(c.Request().Context(), req.Question, req.Answer)
	r.observe(req.Question, score, err, time.Since(start))
	if err != nil {
		var callErr *judge.CallError
		if errors.As(err, &callErr) {
			return echo.NewHTTPError(http.StatusBadGateway, callErr.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, ScoreResponse{Score: *score, PolicyVersion: r.enforcer.Policy().Version})
}

func (r *ScoreRouter) observe(question string, score *rubric.Score, err error, d time.Duration) {
	if r.observer == nil {
		return
	}
	item := runner.Scored(0, question, score)
	if err != nil {
		item = runner.Failed(0, question, err)
	}
	item.Duration = d
	r.observer.ItemDone(runner.Progress{Current: 1, Total: 1, Elapsed: d}, item)
}
