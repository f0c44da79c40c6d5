package ledger

import (
	"strconv"
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/google/uuid"
)

// RunMeta describes the run an item belongs to. It is repeated on every
// ledger line so a single line is self-describing.
type RunMeta struct {
	RunID         uuid.UUID `json:"run_id"`
	AnswersLabel  string    `json:"answers_label"`
	JudgeModel    string    `json:"judge_model"`
	GenModel      string    `json:"gen_model"`
	Dataset       string    `json:"dataset"`
	QuestionsFile string    `json:"questions_file"`
	Language      string    `json:"language"`
	Mode          string    `json:"mode"`
	ComparisonCSV string    `json:"comparison_csv"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewRunMeta stamps a fresh run id and the current time.
func NewRunMeta(answersLabel, judgeModel string) RunMeta {
	return RunMeta{
		RunID:        uuid.New(),
		AnswersLabel: answersLabel,
		JudgeModel:   judgeModel,
		Timestamp:    time.Now().UTC(),
	}
}

// Record is one ledger line: the item outcome flattened together with its run metadata.
type Record struct {
	Index      int           `json:"index"`
	Question   string        `json:"question"`
	Evaluation *rubric.Score `json:"evaluation,omitempty"`
	Error      string        `json:"error,omitempty"`

	RunMeta
}

func NewRecord(item runner.ItemResult, meta RunMeta) Record {
	return Record{
		Index:      item.Index,
		Question:   item.Question,
		Evaluation: item.Evaluation,
		Error:      item.Error,
		RunMeta:    meta,
	}
}

func NewRecords(items []runner.ItemResult, meta RunMeta) []Record {
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, NewRecord(it, meta))
	}
	return out
}

// DocumentID is the identifier used by sinks that key records.
func (r Record) DocumentID() string {
	return r.RunID.String() + "-" + strconv.Itoa(r.Index)
}
