package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/storage/pg"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const pgTable = "eval_records"

var pgColumns = []string{
	"run_id", "item_index", "question", "evaluation", "error",
	"answers_label", "judge_model", "gen_model", "dataset", "questions_file",
	"language", "mode", "comparison_csv", "created_at",
}

// PGSink mirrors ledger records into Postgres.
type PGSink struct {
	pool *pg.ConnectionPool
}

func NewPGSink(pool *pg.ConnectionPool) *PGSink {
	return &PGSink{pool: pool}
}

func (s *PGSink) Name() string {
	return "postgres"
}

func (s *PGSink) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGSink) Append(ctx context.Context, items []runner.ItemResult, meta RunMeta) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, len(items))
	for i, it := range items {
		var evaluation any
		if it.Evaluation != nil {
			data, err := json.Marshal(it.Evaluation)
			if err != nil {
				return fmt.Errorf("marshal evaluation for item %d: %w", it.Index, err)
			}
			evaluation = data
		}
		rows[i] = []any{
			meta.RunID,
			it.Index,
			it.Question,
			evaluation,
			nullable(it.Error),
			meta.AnswersLabel,
			meta.JudgeModel,
			nullable(meta.GenModel),
			nullable(meta.Dataset),
			nullable(meta.QuestionsFile),
			nullable(meta.Language),
			nullable(meta.Mode),
			nullable(meta.ComparisonCSV),
			meta.Timestamp,
		}
	}

	n, err := s.pool.GetConn().CopyFrom(
		ctx,
		pgx.Identifier{pgTable},
		pgColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("bulk insert eval records: %w", err)
	}

	slog.Info("ledger appended", "sink", s.Name(), "records", n, "run_id", meta.RunID)
	return nil
}

func (s *PGSink) List(ctx context.Context, label string, page pagination.OffsetRequest) (*pagination.OffsetResult[Record], error) {
	page.Normalize()
	conn := s.pool.GetConn()

	var total int64
	err := conn.QueryRow(ctx,
		`SELECT count(*) FROM eval_records WHERE $1 = '' OR answers_label = $1`,
		label,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count eval records: %w", err)
	}

	rows, err := conn.Query(ctx, `
		SELECT run_id, item_index, question, evaluation, error,
		       answers_label, judge_model, gen_model, dataset, questions_file,
		       language, mode, comparison_csv, created_at
		FROM eval_records
		WHERE $1 = '' OR answers_label = $1
		ORDER BY created_at, run_id, item_index
		LIMIT $2 OFFSET $3`,
		label, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("query eval records: %w", err)
	}
	defer rows.Close()

	items := make([]Record, 0, page.Size)
	for rows.Next() {
		var (
			r          Record
			evaluation []byte
			errText    *string
			genModel   *string
			dataset    *string
			questions  *string
			language   *string
			mode       *string
			csvPath    *string
		)
		if err := rows.Scan(
			&r.RunID, &r.Index, &r.Question, &evaluation, &errText,
			&r.AnswersLabel, &r.JudgeModel, &genModel, &dataset, &questions,
			&language, &mode, &csvPath, &r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan eval record: %w", err)
		}
		if evaluation != nil {
			var score rubric.Score
			if err := json.Unmarshal(evaluation, &score); err != nil {
				return nil, fmt.Errorf("decode evaluation of %s: %w", r.DocumentID(), err)
			}
			r.Evaluation = &score
		}
		r.Error = deref(errText)
		r.GenModel = deref(genModel)
		r.Dataset = deref(dataset)
		r.QuestionsFile = deref(questions)
		r.Language = deref(language)
		r.Mode = deref(mode)
		r.ComparisonCSV = deref(csvPath)
		r.Timestamp = r.Timestamp.UTC()
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate eval records: %w", err)
	}

	return pagination.NewOffsetResult(items, total, page), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
