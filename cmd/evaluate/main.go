package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/apperr"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/dataset"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/comparison"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/evaluator"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/judge"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/ledger"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/plan"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/report"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/generate"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/llm"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/metrics"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/config/env"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), ".env", "cmd/evaluate/.env"); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		slog.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}

	var runErr error
	if cfg.PlanFile != "" {
		runErr = runPlan(ctx, cfg, m)
	} else if err := cfg.validate(); err != nil {
		slog.Error("Invalid arguments", "error", err)
		os.Exit(2)
	} else {
		runErr = runEvaluation(ctx, cfg, m)
	}

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, registry); err != nil {
			slog.Error("Failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		logFailure(runErr)
		os.Exit(1)
	}
}

func runPlan(ctx context.Context, cfg cliConfig, m *metrics.Metrics) error {
	p, err := plan.LoadFromFile(cfg.PlanFile)
	if err != nil {
		return err
	}

	var failed []string
	for _, job := range p.Jobs {
		jobCfg := cfg.withJob(job)
		if err := jobCfg.validate(); err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}
		slog.Info("Starting plan job", "job", job.Name, "mode", jobCfg.Mode)
		if err := runEvaluation(ctx, jobCfg, m); err != nil {
			if ctx.Err() != nil {
				return err
			}
			logFailure(fmt.Errorf("job %q: %w", job.Name, err))
			failed = append(failed, job.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d plan jobs failed: %s", len(failed), len(p.Jobs), strings.Join(failed, ", "))
	}
	return nil
}

// runEvaluation checks every precondition before the first judge call, then
// scores the pairs, appends the ledger and updates the comparison table.
func runEvaluation(ctx context.Context, cfg cliConfig, m *metrics.Metrics) error {
	paths := cfg.resolvePaths()

	enforcer, err := loadEnforcer(cfg)
	if err != nil {
		return err
	}
	systemPrompt := loadSystemPrompt(cfg)

	questions, err := dataset.LoadQuestions(paths.Questions)
	if err != nil {
		return fmt.Errorf("load evaluation questions: %w", err)
	}
	if err := dataset.RequireQuestionCount(questions, dataset.RequiredQuestions); err != nil {
		return err
	}

	answersLabel := cfg.AnswersLabel
	if cfg.generating() {
		if answersLabel == "" {
			answersLabel = cfg.GenModel
		}
	} else {
		if _, err := os.Stat(paths.Dataset); err != nil {
			return apperr.NewMissingRequiredData("dataset not found", paths.Dataset)
		}
		if answersLabel == "" {
			inferred, err := dataset.InferAnswersLabel(paths.Dataset)
			if err != nil || inferred == "" {
				return apperr.NewMissingRequiredData("provide -answers-label (could not infer from dataset)")
			}
			answersLabel = inferred
			slog.Info("Using inferred answers label", "answers_label", answersLabel)
		}
	}

	judgeCfg, err := llm.LoadConfigFromEnv(llm.ProviderOpenAI)
	if err != nil {
		return fmt.Errorf("configure judge: %w", err)
	}

	if cfg.generating() {
		if err := generateDataset(ctx, cfg, questions, systemPrompt, paths.Dataset); err != nil {
			return err
		}
	}

	pairs, err := dataset.LoadPairs(paths.Dataset)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	evalPairs, err := dataset.SelectEvalPairs(questions, pairs)
	if err != nil {
		return err
	}
	slog.Info("Filtered evaluation pairs", "pairs", len(evalPairs), "dataset", paths.Dataset)

	j := judge.NewOpenAIJudge(llm.NewClient(judgeCfg), judge.WithModel(cfg.JudgeModel))
	slog.Info("Judge ready", "model", j.Model(), "policy", enforcer.Policy().Version)

	opts := []runner.Option{runner.WithObserver(m)}
	if !cfg.NoProgress {
		opts = append(opts, runner.WithObserver(runner.LogObserver{Every: runner.DefaultProgressEvery}))
	}
	r := runner.New(evaluator.New(j, enforcer), runner.Config{Limit: cfg.Limit, FailFast: cfg.FailFast}, opts...)

	slog.Info("Running evaluation", "answers_label", answersLabel, "judge_model", cfg.JudgeModel)
	results, runErr := r.Run(ctx, evalPairs)
	m.RunDone(runErr)

	rep := report.Generate(report.RunInfo{
		AnswersLabel:  answersLabel,
		JudgeModel:    cfg.JudgeModel,
		PolicyVersion: enforcer.Policy().Version,
	}, results)
	report.WriteTable(rep, os.Stdout)

	meta := ledger.NewRunMeta(answersLabel, cfg.JudgeModel)
	meta.GenModel = cfg.GenModel
	meta.Dataset = paths.Dataset
	meta.QuestionsFile = paths.Questions
	meta.Language = cfg.Language
	meta.Mode = cfg.Mode
	meta.ComparisonCSV = paths.ComparisonCSV
	if err := appendLedger(ctx, cfg.resultsPath(answersLabel), results, meta); err != nil {
		return err
	}

	if cfg.ReportJSON != "" {
		if err := report.WriteJSON(rep, cfg.ReportJSON); err != nil {
			slog.Error("Failed to write report", "path", cfg.ReportJSON, "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("evaluation aborted after %d items, comparison table left unchanged: %w", len(results), runErr)
	}

	column, err := comparison.NewStore(paths.ComparisonCSV).Upsert(answersLabel, report.Aggregate(results), cfg.Overwrite)
	if err != nil {
		return fmt.Errorf("update comparison table: %w", err)
	}
	slog.Info("Completed", "column", column, "comparison_csv", paths.ComparisonCSV)
	return nil
}

func loadEnforcer(cfg cliConfig) (*rubric.Enforcer, error) {
	if cfg.PolicyFile == "" {
		return rubric.NewEnforcer(nil), nil
	}
	policy, err := rubric.LoadPolicyFile(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	return rubric.NewEnforcer(policy), nil
}

func loadSystemPrompt(cfg cliConfig) string {
	if cfg.SystemPromptFile == "" {
		return ""
	}
	data, err := os.ReadFile(cfg.SystemPromptFile)
	if err != nil {
		slog.Warn("System prompt file not readable", "path", cfg.SystemPromptFile, "error", err)
		return ""
	}
	return strings.TrimSpace(string(data))
}

func generateDataset(ctx context.Context, cfg cliConfig, questions []string, systemPrompt, out string) error {
	llmCfg, err := llm.LoadConfigFromEnv(cfg.provider())
	if err != nil {
		return fmt.Errorf("configure %s provider: %w", cfg.provider(), err)
	}
	gen, err := generate.NewChatGenerator(llm.NewClient(llmCfg), cfg.provider(), cfg.GenModel, generate.WithSystemPrompt(systemPrompt))
	if err != nil {
		return err
	}

	every := runner.DefaultProgressEvery
	if cfg.NoProgress {
		every = 0
	}
	generated, err := generate.GenerateAll(ctx, gen, questions, every)
	if err != nil {
		return fmt.Errorf("generation stopped after %d answers: %w", len(generated), err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}
	if _, err := os.Stat(out); err == nil {
		slog.Info("Appending to dataset", "path", out)
	} else {
		slog.Info("Creating dataset", "path", out)
	}
	return dataset.AppendGenerated(out, systemPrompt, generated)
}

// appendLedger records results even when ctx was cancelled mid-run, so items
// already judged before an interrupt are not lost.
func appendLedger(ctx context.Context, path string, results []runner.ItemResult, meta ledger.RunMeta) error {
	ctx = context.WithoutCancel(ctx)
	sinkCfg, err := ledger.LoadSinkConfigFromEnv()
	if err != nil {
		return err
	}
	sinks, err := ledger.NewSinks(ctx, sinkCfg, path)
	if err != nil {
		return err
	}

	appendErr := sinks.Sink().Append(ctx, results, meta)
	if err := sinks.Close(); err != nil {
		slog.Warn("Failed to close ledger mirrors", "error", err)
	}
	if appendErr != nil {
		return fmt.Errorf("append results to %s: %w", path, appendErr)
	}
	return nil
}

func logFailure(err error) {
	var me *apperr.MissingRequiredDataError
	if errors.As(err, &me) {
		slog.Error("Cannot start evaluation", "error", err, "missing", me.Listing())
		return
	}
	slog.Error("Evaluation failed", "error", err)
}
