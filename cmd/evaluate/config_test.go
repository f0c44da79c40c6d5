package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseArgs(t *testing.T, args ...string) cliConfig {
	t.Helper()
	return parseFlagSet(flag.NewFlagSet("evaluate", flag.ContinueOnError), args)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "dataset mode", args: []string{"-dataset", "d.jsonl"}},
		{name: "dataset mode without dataset", args: nil, wantErr: "-dataset is required"},
		{name: "generation without model", args: []string{"-mode", "generate-together"}, wantErr: "-gen-model is required"},
		{name: "generation", args: []string{"-mode", "generate-openai", "-gen-model", "gpt-4o-mini"}},
		{name: "bad mode", args: []string{"-mode", "bogus"}, wantErr: "unsupported mode"},
		{name: "bad language", args: []string{"-language", "latin", "-dataset", "d.jsonl"}, wantErr: "unsupported language"},
		{name: "negative limit", args: []string{"-dataset", "d.jsonl", "-limit", "-1"}, wantErr: "-limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseArgs(t, tt.args...).validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	t.Run("dataset mode defaults", func(t *testing.T) {
		cfg := parseArgs(t, "-dataset", "answers.jsonl")
		p := cfg.resolvePaths()

		evals := filepath.Join("data", "arabic", "training_datasets", "evals")
		assert.Equal(t, filepath.Join("data", "arabic", "ar_eval_questions.txt"), p.Questions)
		assert.Equal(t, filepath.Join(evals, "answers.jsonl"), p.Dataset)
		assert.Equal(t, filepath.Join(evals, "evaluation_comparison.csv"), p.ComparisonCSV)
		assert.Equal(t,
			filepath.Join(evals, "eval_results_meta-llama_Llama_3__judged_by_gpt-5-mini.jsonl"),
			cfg.resultsPath("meta-llama/Llama 3"))
	})

	t.Run("generation mode defaults", func(t *testing.T) {
		cfg := parseArgs(t, "-language", "english", "-mode", "generate-together", "-gen-model", "openai/gpt-oss-120b")
		p := cfg.resolvePaths()

		ft := filepath.Join("data", "english", "ft_evals")
		assert.Equal(t, filepath.Join("data", "english", "en_eval_questions.txt"), p.Questions)
		assert.Equal(t, filepath.Join(ft, "generated_together_openai_gpt-oss-120b.jsonl"), p.Dataset)
		assert.Equal(t, filepath.Join(ft, "evaluation_comparison.csv"), p.ComparisonCSV)
	})

	t.Run("paths with directories are kept", func(t *testing.T) {
		cfg := parseArgs(t,
			"-dataset", "elsewhere/answers.jsonl",
			"-comparison-csv", "/tmp/cmp.csv",
			"-results-jsonl", "out/results.jsonl",
			"-questions-file", "q.txt",
		)
		p := cfg.resolvePaths()

		assert.Equal(t, "elsewhere/answers.jsonl", p.Dataset)
		assert.Equal(t, "/tmp/cmp.csv", p.ComparisonCSV)
		assert.Equal(t, "q.txt", p.Questions)
		assert.Equal(t, "out/results.jsonl", cfg.resultsPath("x"))
	})
}

func TestWithJob(t *testing.T) {
	base := parseArgs(t, "-judge-model", "gpt-4o", "-results-jsonl", "out.jsonl", "-report-json", "r.json", "-plan", "plan.yaml")

	cfg := base.withJob(plan.Job{
		Name:     "llama",
		Mode:     modeGenerateTogether,
		GenModel: "meta-llama/Llama-3",
		Limit:    5,
	})

	require.NoError(t, cfg.validate())
	assert.Equal(t, modeGenerateTogether, cfg.Mode)
	assert.Equal(t, "meta-llama/Llama-3", cfg.GenModel)
	assert.Equal(t, "gpt-4o", cfg.JudgeModel)
	assert.Equal(t, 5, cfg.Limit)
	assert.Empty(t, cfg.ResultsJSONL)
	assert.Empty(t, cfg.ReportJSON)
	assert.Empty(t, cfg.PlanFile)
	assert.Equal(t, "out.jsonl", base.ResultsJSONL)
}
