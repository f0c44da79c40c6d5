package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/judge"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/plan"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/llm"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/utils"
)

const (
	modeDataset          = "dataset"
	modeGenerateOpenAI   = "generate-openai"
	modeGenerateTogether = "generate-together"

	dataRoot             = "data"
	defaultComparisonCSV = "evaluation_comparison.csv"
)

var languagePrefixes = map[string]string{
	"arabic":  "ar_",
	"english": "en_",
}

type cliConfig struct {
	Language         string
	Mode             string
	Dataset          string
	QuestionsFile    string
	GenModel         string
	AnswersLabel     string
	JudgeModel       string
	SystemPromptFile string
	PolicyFile       string
	ComparisonCSV    string
	ResultsJSONL     string
	OutputDataset    string
	ReportJSON       string
	MetricsTextfile  string
	PlanFile         string
	Overwrite        bool
	Limit            int
	FailFast         bool
	NoProgress       bool
}

func parseFlags() cliConfig {
	return parseFlagSet(flag.CommandLine, os.Args[1:])
}

func parseFlagSet(fs *flag.FlagSet, args []string) cliConfig {
	cfg := cliConfig{}

	fs.StringVar(&cfg.Language, "language", "arabic", "Language directory under data/: arabic or english")
	fs.StringVar(&cfg.Mode, "mode", modeDataset, "dataset, generate-openai or generate-together")
	fs.StringVar(&cfg.Dataset, "dataset", "", "Existing dataset JSONL to evaluate (dataset mode)")
	fs.StringVar(&cfg.QuestionsFile, "questions-file", "", "Evaluation questions file (default data/<language>/<prefix>eval_questions.txt)")
	fs.StringVar(&cfg.GenModel, "gen-model", "", "Provider model used to generate answers (generation modes)")
	fs.StringVar(&cfg.AnswersLabel, "answers-label", "", "Column label for the answers (default: gen-model or inferred from dataset)")
	fs.StringVar(&cfg.JudgeModel, "judge-model", judge.DefaultModel, "Model used as evaluator")
	fs.StringVar(&cfg.SystemPromptFile, "system-prompt-file", "", "Optional system prompt for generation backends")
	fs.StringVar(&cfg.PolicyFile, "policy", "", "Enforcement policy YAML (default: built-in arabic-v1)")
	fs.StringVar(&cfg.ComparisonCSV, "comparison-csv", defaultComparisonCSV, "Comparison table CSV")
	fs.StringVar(&cfg.ResultsJSONL, "results-jsonl", "", "Results ledger JSONL (default auto)")
	fs.StringVar(&cfg.OutputDataset, "output-dataset", "", "Dataset JSONL written when generating (default auto)")
	fs.StringVar(&cfg.ReportJSON, "report-json", "", "Optional path for a JSON run report")
	fs.StringVar(&cfg.MetricsTextfile, "metrics-textfile", "", "Optional path for a Prometheus textfile with run metrics")
	fs.StringVar(&cfg.PlanFile, "plan", "", "YAML plan running several evaluation jobs in order")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite the column if answers-label already exists")
	fs.IntVar(&cfg.Limit, "limit", 0, "Evaluate at most this many pairs (0 = all)")
	fs.BoolVar(&cfg.FailFast, "fail-fast", false, "Stop at the first judge failure")
	fs.BoolVar(&cfg.NoProgress, "no-progress", false, "Silence progress ticks")

	_ = fs.Parse(args)
	return cfg
}

func (c cliConfig) validate() error {
	if _, ok := languagePrefixes[c.Language]; !ok {
		return fmt.Errorf("unsupported language %q (expected arabic or english)", c.Language)
	}
	switch c.Mode {
	case modeDataset:
		if c.Dataset == "" {
			return fmt.Errorf("-dataset is required in dataset mode")
		}
	case modeGenerateOpenAI, modeGenerateTogether:
		if c.GenModel == "" {
			return fmt.Errorf("-gen-model is required for generation modes")
		}
	default:
		return fmt.Errorf("unsupported mode %q", c.Mode)
	}
	if c.Limit < 0 {
		return fmt.Errorf("-limit must not be negative")
	}
	return nil
}

// withJob overlays the fields a plan job sets onto the command line config.
func (c cliConfig) withJob(j plan.Job) cliConfig {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&c.Language, j.Language)
	override(&c.Mode, j.Mode)
	override(&c.Dataset, j.Dataset)
	override(&c.GenModel, j.GenModel)
	override(&c.AnswersLabel, j.AnswersLabel)
	override(&c.JudgeModel, j.JudgeModel)
	override(&c.ComparisonCSV, j.ComparisonCSV)
	if j.Overwrite {
		c.Overwrite = true
	}
	if j.Limit > 0 {
		c.Limit = j.Limit
	}
	// Per-job artifacts always use their default names.
	c.OutputDataset = ""
	c.ResultsJSONL = ""
	c.ReportJSON = ""
	c.PlanFile = ""
	return c
}

func (c cliConfig) generating() bool {
	return c.Mode == modeGenerateOpenAI || c.Mode == modeGenerateTogether
}

func (c cliConfig) provider() llm.Provider {
	if c.Mode == modeGenerateTogether {
		return llm.ProviderTogether
	}
	return llm.ProviderOpenAI
}

// modeDir is where a mode reads and writes its artifacts.
func (c cliConfig) modeDir() string {
	if c.generating() {
		return filepath.Join(dataRoot, c.Language, "ft_evals")
	}
	return filepath.Join(dataRoot, c.Language, "training_datasets", "evals")
}

type runPaths struct {
	Questions     string
	Dataset       string
	ComparisonCSV string
	ResultsJSONL  string
}

// resolvePaths applies the directory conventions. Bare file names are placed
// inside the mode directory; paths with a directory component are kept.
// The results ledger name needs the answers label, so it is resolved separately.
func (c cliConfig) resolvePaths() runPaths {
	dir := c.modeDir()

	p := runPaths{
		Questions:     c.QuestionsFile,
		ComparisonCSV: inDir(dir, c.ComparisonCSV),
	}
	if p.Questions == "" {
		p.Questions = filepath.Join(dataRoot, c.Language, languagePrefixes[c.Language]+"eval_questions.txt")
	}

	if c.generating() {
		out := c.OutputDataset
		if out == "" {
			out = fmt.Sprintf("generated_%s_%s.jsonl", c.provider(), utils.SanitizeFilename(c.GenModel))
		}
		p.Dataset = inDir(dir, out)
	} else {
		p.Dataset = inDir(dir, c.Dataset)
	}
	return p
}

func (c cliConfig) resultsPath(answersLabel string) string {
	name := c.ResultsJSONL
	if name == "" {
		name = fmt.Sprintf("eval_results_%s__judged_by_%s.jsonl",
			utils.SanitizeFilename(answersLabel),
			utils.SanitizeFilename(c.JudgeModel))
	}
	return inDir(c.modeDir(), name)
}

func inDir(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || filepath.Dir(p) != "." {
		return p
	}
	return filepath.Join(dir, p)
}
