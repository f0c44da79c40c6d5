package main

import (
	"log/slog"
	"os"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/api/router"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/api/server"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/comparison"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/evaluator"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/judge"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/ledger"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/llm"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/metrics"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/config/env"
	pkgserver "github.com/Jegama/cp-multilingual-qa-lab/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), ".env", "cmd/eval_api/.env"); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appCfg, err := LoadAppConfig()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	enforcer := rubric.NewEnforcer(nil)
	if appCfg.PolicyFile != "" {
		policy, err := rubric.LoadPolicyFile(appCfg.PolicyFile)
		if err != nil {
			slog.Error("Failed to load policy", "path", appCfg.PolicyFile, "error", err)
			os.Exit(1)
		}
		enforcer = rubric.NewEnforcer(policy)
	}

	sinkCfg, err := ledger.LoadSinkConfigFromEnv()
	if err != nil {
		slog.Error("Invalid ledger configuration", "error", err)
		os.Exit(1)
	}

	checkers := map[string]pkgserver.HealthChecker{"app": pkgserver.Static(true)}
	s := server.New(sCfg, checkers)

	sinks, err := ledger.NewSinks(s.Context(), sinkCfg, appCfg.ResultsJSONL)
	if err != nil {
		slog.Error("Failed to open ledger", "error", err)
		os.Exit(1)
	}
	for name, hc := range sinks.HealthCheckers() {
		checkers[name] = hc
	}

	s.SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "QA evaluation API is running")
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		slog.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}
	router.BindMetrics(s.Echo, "/metrics", registry)

	scoreOpts := []router.ScoreRouterOption{router.WithObserver(m)}
	if llmCfg, err := llm.LoadConfigFromEnv(llm.ProviderOpenAI); err == nil {
		j := judge.NewOpenAIJudge(llm.NewClient(llmCfg), judge.WithModel(appCfg.JudgeModel))
		scoreOpts = append(scoreOpts, router.WithEvaluator(evaluator.New(j, enforcer)))
		slog.Info("Judge enabled", "model", j.Model())
	} else {
		slog.Info("Judge disabled, /evaluate will answer 503", "reason", err)
	}

	router.NewComparisonRouter(s.Echo, comparison.NewStore(appCfg.ComparisonCSV)).Bind()
	router.NewResultsRouter(s.Echo, sinks.Reader()).Bind()
	router.NewScoreRouter(s.Echo, enforcer, scoreOpts...).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	startErr := s.Start()
	if err := sinks.Close(); err != nil {
		slog.Warn("Failed to close ledger mirrors", "error", err)
	}
	if startErr != nil {
		slog.Error("Failed to start server", "error", startErr)
		os.Exit(1)
	}
}
