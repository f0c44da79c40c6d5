package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/storage/es"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const DefaultESIndex = "eval-records"

// ESSink mirrors ledger records into an Elasticsearch index.
type ESSink struct {
	client    *elasticsearch.TypedClient
	indexName string
	refresh   bool
}

func NewESSink(ctx context.Context, config es.ClientConfig) (*ESSink, error) {
	client, err := es.NewClient(config)
	if err != nil {
		return nil, err
	}
	if config.IndexName == "" {
		config.IndexName = DefaultESIndex
	}
	sink := &ESSink{client: client, indexName: config.IndexName}
	if err := es.EnsureIndex(ctx, client, sink.indexName, recordMapping()); err != nil {
		return nil, fmt.Errorf("ensure ledger index: %w", err)
	}
	return sink, nil
}

func (s *ESSink) Name() string {
	return "elasticsearch"
}

func (s *ESSink) IndexName() string {
	return s.indexName
}

// WithRefresh makes every append visible to searches before it returns.
func (s *ESSink) WithRefresh() *ESSink {
	s.refresh = true
	return s
}

func (s *ESSink) Append(ctx context.Context, items []runner.ItemResult, meta RunMeta) error {
	if len(items) == 0 {
		return nil
	}

	cfg := esutil.BulkIndexerConfig{
		Index:         s.indexName,
		Client:        s.client,
		NumWorkers:    2,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
	}
	if s.refresh {
		cfg.Refresh = "wait_for"
	}
	bi, err := esutil.NewBulkIndexer(cfg)
	if err != nil {
		return fmt.Errorf("create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	for _, it := range items {
		rec := NewRecord(it, meta)
		body, err := json.Marshal(rec)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to marshal record", "error", err, "id", rec.DocumentID())
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: rec.DocumentID(),
			Body:       bytes.NewReader(body),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add record to bulk indexer", "error", err, "id", rec.DocumentID())
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("close bulk indexer: %w", err)
	}

	slog.Info("ledger appended",
		"sink", s.Name(),
		"successful", successful.Load(),
		"failed", failed.Load(),
		"index", s.indexName,
		"run_id", meta.RunID)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d records", n, len(items))
	}
	return nil
}

// Count returns the number of records stored for a label, or all records
// when label is empty.
func (s *ESSink) Count(ctx context.Context, label string) (int64, error) {
	req := s.client.Count().Index(s.indexName)
	if label != "" {
		req = req.Query(&types.Query{
			Term: map[string]types.TermQuery{
				"answers_label": {Value: label},
			},
		})
	}
	res, err := req.Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("count ledger records: %w", err)
	}
	return res.Count, nil
}

func recordMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"run_id":         types.NewKeywordProperty(),
			"index":          types.NewIntegerNumberProperty(),
			"question":       types.NewTextProperty(),
			"evaluation":     types.NewObjectProperty(),
			"error":          types.NewTextProperty(),
			"answers_label":  types.NewKeywordProperty(),
			"judge_model":    types.NewKeywordProperty(),
			"gen_model":      types.NewKeywordProperty(),
			"dataset":        types.NewKeywordProperty(),
			"questions_file": types.NewKeywordProperty(),
			"language":       types.NewKeywordProperty(),
			"mode":           types.NewKeywordProperty(),
			"comparison_csv": types.NewKeywordProperty(),
			"timestamp":      types.NewDateProperty(),
		},
	}
}
