package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []runner.ItemResult {
	score := rubric.Uniform(4)
	return []runner.ItemResult{
		runner.Scored(0, "ما هو الإنجيل؟", &score),
		runner.Failed(1, "Who is Christ?", errors.New("judge call failed: timeout")),
	}
}

func sampleMeta(label string) RunMeta {
	m := NewRunMeta(label, "gpt-5-mini")
	m.Language = "arabic"
	m.Mode = "dataset"
	m.QuestionsFile = "data/arabic/ar_eval_questions.txt"
	m.ComparisonCSV = "data/arabic/training_datasets/evals/comparison.csv"
	return m
}

func TestFileSink_Append(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "results.jsonl")
	sink := NewFileSink(path)

	t.Run("writes one flattened line per item", func(t *testing.T) {
		meta := sampleMeta("model-a")
		require.NoError(t, sink.Append(ctx, sampleItems(), meta))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)

		assert.Contains(t, lines[0], "ما هو الإنجيل؟")

		var obj map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &obj))
		assert.Equal(t, meta.RunID.String(), obj["run_id"])
		assert.Equal(t, "model-a", obj["answers_label"])
		assert.Equal(t, "judge call failed: timeout", obj["error"])
		assert.NotContains(t, obj, "evaluation")
		assert.NotContains(t, obj, "RunMeta")
		assert.Contains(t, obj, "gen_model")
		assert.Contains(t, obj, "dataset")
		assert.Equal(t, "", obj["gen_model"])
	})

	t.Run("appends without deduplicating", func(t *testing.T) {
		require.NoError(t, sink.Append(ctx, sampleItems(), sampleMeta("model-a")))

		records, err := ReadFile(path)
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, records[0].Question, records[2].Question)
		assert.NotEqual(t, records[0].RunID, records[2].RunID)
		require.NotNil(t, records[0].Evaluation)
		assert.Equal(t, 4, records[0].Evaluation.Adherence.Overall)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		other := NewFileSink(filepath.Join(t.TempDir(), "empty.jsonl"))
		require.NoError(t, other.Append(ctx, nil, sampleMeta("x")))
		_, err := os.Stat(other.Path())
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestReadFile_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	content := `{"index":0,"question":"q","answers_label":"a"}
not json

{"index":1,"question":"q2","answers_label":"a"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[1].Index)
}

func TestFileSink_List(t *testing.T) {
	ctx := context.Background()
	sink := NewFileSink(filepath.Join(t.TempDir(), "results.jsonl"))

	t.Run("missing file lists nothing", func(t *testing.T) {
		res, err := sink.List(ctx, "", pagination.OffsetRequest{})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.Equal(t, int64(0), res.Total)
		assert.Equal(t, 1, res.Page)
	})

	require.NoError(t, sink.Append(ctx, sampleItems(), sampleMeta("model-a")))
	require.NoError(t, sink.Append(ctx, sampleItems(), sampleMeta("model-b")))
	require.NoError(t, sink.Append(ctx, sampleItems(), sampleMeta("model-a")))

	tests := []struct {
		name      string
		label     string
		page      pagination.OffsetRequest
		wantItems int
		wantTotal int64
		wantMore  bool
	}{
		{name: "all records", page: pagination.OffsetRequest{}, wantItems: 6, wantTotal: 6},
		{name: "filtered by label", label: "model-a", wantItems: 4, wantTotal: 4},
		{name: "first page", label: "model-a", page: pagination.OffsetRequest{Page: 1, Size: 3}, wantItems: 3, wantTotal: 4, wantMore: true},
		{name: "last page", label: "model-a", page: pagination.OffsetRequest{Page: 2, Size: 3}, wantItems: 1, wantTotal: 4},
		{name: "past the end", page: pagination.OffsetRequest{Page: 9, Size: 5}, wantItems: 0, wantTotal: 6},
		{name: "unknown label", label: "nope", wantItems: 0, wantTotal: 0},
		{name: "oversized page", page: pagination.OffsetRequest{Page: math.MaxInt64 / 100, Size: 1_000}, wantItems: 0, wantTotal: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sink.List(ctx, tt.label, tt.page)
			require.NoError(t, err)
			assert.Len(t, res.Items, tt.wantItems)
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Equal(t, tt.wantMore, res.HasMore)
			for _, r := range res.Items {
				if tt.label != "" {
					assert.Equal(t, tt.label, r.AnswersLabel)
				}
			}
		})
	}
}

type stubSink struct {
	name  string
	err   error
	calls int
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Append(context.Context, []runner.ItemResult, RunMeta) error {
	s.calls++
	return s.err
}

func TestMulti(t *testing.T) {
	t.Run("fans out in order", func(t *testing.T) {
		a, b := &stubSink{name: "a"}, &stubSink{name: "b"}
		require.NoError(t, Multi(a, b).Append(context.Background(), sampleItems(), sampleMeta("x")))
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("stops on first error", func(t *testing.T) {
		boom := errors.New("boom")
		a, b := &stubSink{name: "a", err: boom}, &stubSink{name: "b"}
		err := Multi(a, b).Append(context.Background(), sampleItems(), sampleMeta("x"))
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "a sink")
		assert.Equal(t, 0, b.calls)
	})
}

func TestRecord_DocumentID(t *testing.T) {
	meta := sampleMeta("x")
	r := NewRecord(sampleItems()[1], meta)
	assert.Equal(t, meta.RunID.String()+"-1", r.DocumentID())
}

func TestLoadSinkConfigFromEnv(t *testing.T) {
	t.Setenv("LEDGER_PG_MIGRATE", "")

	t.Run("no mirrors", func(t *testing.T) {
		t.Setenv("LEDGER_PG_CONNECTION_STRING", "")
		t.Setenv("LEDGER_ES_ADDRESSES", "")
		cfg, err := LoadSinkConfigFromEnv()
		require.NoError(t, err)
		assert.Nil(t, cfg.Pg)
		assert.Nil(t, cfg.Es)
	})

	t.Run("both mirrors", func(t *testing.T) {
		t.Setenv("LEDGER_PG_CONNECTION_STRING", "postgres://u:p@localhost/db")
		t.Setenv("LEDGER_ES_ADDRESSES", "http://a:9200, http://b:9200")
		t.Setenv("LEDGER_ES_INDEX", "")
		cfg, err := LoadSinkConfigFromEnv()
		require.NoError(t, err)
		require.NotNil(t, cfg.Pg)
		assert.Equal(t, "postgres://u:p@localhost/db", cfg.Pg.ConnStr)
		require.NotNil(t, cfg.Es)
		assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Es.Addresses)
		assert.Equal(t, DefaultESIndex, cfg.Es.IndexName)
	})

	t.Run("pg migrations", func(t *testing.T) {
		t.Setenv("LEDGER_PG_CONNECTION_STRING", "postgres://u:p@localhost/db")
		t.Setenv("LEDGER_ES_ADDRESSES", "")
		t.Setenv("LEDGER_PG_MIGRATE", "true")
		cfg, err := LoadSinkConfigFromEnv()
		require.NoError(t, err)
		assert.True(t, cfg.PgMigrate)

		t.Setenv("LEDGER_PG_MIGRATE", "sometimes")
		_, err = LoadSinkConfigFromEnv()
		assert.ErrorContains(t, err, "LEDGER_PG_MIGRATE")
	})

	t.Run("blank addresses", func(t *testing.T) {
		t.Setenv("LEDGER_PG_CONNECTION_STRING", "")
		t.Setenv("LEDGER_ES_ADDRESSES", " , ")
		_, err := LoadSinkConfigFromEnv()
		assert.Error(t, err)
	})
}

func TestNewSinks_FileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	sinks, err := NewSinks(context.Background(), &SinkConfig{}, path)
	require.NoError(t, err)
	defer sinks.Close()

	assert.Same(t, sinks.File, sinks.Reader())
	assert.Empty(t, sinks.HealthCheckers())

	require.NoError(t, sinks.Sink().Append(context.Background(), sampleItems(), sampleMeta("x")))
	records, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
