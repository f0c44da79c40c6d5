package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid plan", func(t *testing.T) {
		yaml := `
defaults:
  language: arabic
  judge_model: gpt-5-mini
  comparison_csv: evaluation_comparison.csv

jobs:
  - name: baseline
    dataset: baseline.jsonl
    answers_label: baseline
  - name: llama
    mode: generate-together
    gen_model: meta-llama/Meta-Llama-3-8B-Instruct
    judge_model: gpt-5
`
		p, err := Parse([]byte(yaml))
		require.NoError(t, err)
		require.Len(t, p.Jobs, 2)

		base := p.Jobs[0]
		assert.Equal(t, "dataset", base.Mode)
		assert.Equal(t, "arabic", base.Language)
		assert.Equal(t, "gpt-5-mini", base.JudgeModel)
		assert.Equal(t, "evaluation_comparison.csv", base.ComparisonCSV)

		llama := p.Jobs[1]
		assert.Equal(t, "generate-together", llama.Mode)
		assert.Equal(t, "gpt-5", llama.JudgeModel)
	})

	t.Run("no jobs", func(t *testing.T) {
		_, err := Parse([]byte("jobs: []\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no jobs")
	})

	t.Run("job without name", func(t *testing.T) {
		_, err := Parse([]byte("jobs:\n  - dataset: a.jsonl\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no name")
	})

	t.Run("duplicate names", func(t *testing.T) {
		yaml := `
jobs:
  - name: a
    dataset: a.jsonl
  - name: a
    dataset: b.jsonl
`
		_, err := Parse([]byte(yaml))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("dataset job without dataset", func(t *testing.T) {
		_, err := Parse([]byte("jobs:\n  - name: a\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no dataset")
	})

	t.Run("generation job without model", func(t *testing.T) {
		_, err := Parse([]byte("jobs:\n  - name: a\n    mode: generate-openai\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no gen_model")
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := Parse([]byte("jobs:\n  - name: a\n    mode: scrape\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mode")
	})

	t.Run("defaults dataset and overwrite", func(t *testing.T) {
		yaml := `
defaults:
  dataset: shared.jsonl
  overwrite: true
  limit: 5
jobs:
  - name: a
    answers_label: a
`
		p, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, "shared.jsonl", p.Jobs[0].Dataset)
		assert.True(t, p.Jobs[0].Overwrite)
		assert.Equal(t, 5, p.Jobs[0].Limit)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("jobs: [\n"))
		assert.Error(t, err)
	})
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs:\n  - name: a\n    dataset: a.jsonl\n"), 0o644))

	p, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", p.Jobs[0].Name)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
