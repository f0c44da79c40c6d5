package main

import (
	"fmt"
	"os"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/judge"
)

type AppConfig struct {
	ComparisonCSV string
	ResultsJSONL  string
	JudgeModel    string
	PolicyFile    string
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		ComparisonCSV: os.Getenv("COMPARISON_CSV"),
		ResultsJSONL:  os.Getenv("RESULTS_JSONL"),
		JudgeModel:    os.Getenv("JUDGE_MODEL"),
		PolicyFile:    os.Getenv("POLICY_FILE"),
	}
	if cfg.ComparisonCSV == "" {
		return nil, fmt.Errorf("COMPARISON_CSV environment variable is not set")
	}
	if cfg.ResultsJSONL == "" {
		return nil, fmt.Errorf("RESULTS_JSONL environment variable is not set")
	}
	if cfg.JudgeModel == "" {
		cfg.JudgeModel = judge.DefaultModel
	}
	return cfg, nil
}
