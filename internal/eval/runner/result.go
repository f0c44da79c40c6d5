package runner

import (
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

// ItemResult is the outcome for one input pair: exactly one of Evaluation
// and Error is set.
type ItemResult struct {
	Index      int           `json:"index"`
	Question   string        `json:"question"`
	Evaluation *rubric.Score `json:"evaluation,omitempty"`
	Error      string        `json:"error,omitempty"`

	Duration time.Duration `json:"-"`
}

func Scored(index int, question string, score *rubric.Score) ItemResult {
	return ItemResult{Index: index, Question: question, Evaluation: score}
}

func Failed(index int, question string, err error) ItemResult {
	return ItemResult{Index: index, Question: question, Error: err.Error()}
}

func (r ItemResult) IsScored() bool {
	return r.Evaluation != nil
}
