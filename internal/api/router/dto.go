package router

import (
	"encoding/json"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

type NormalizeRequest struct {
	Answer string          `json:"answer"`
	Raw    json.RawMessage `json:"raw"`
}

type EvaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ScoreResponse struct {
	Score         rubric.Score `json:"score"`
	PolicyVersion string       `json:"policy_version"`
}

type ColumnResponse struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
