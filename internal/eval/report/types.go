package report

import (
	"runtime"
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

// Aggregated holds the mean of every rubric field over the scored items of a batch.
type Aggregated map[rubric.Key]float64

type Report struct {
	Meta     RunInfo             `json:"meta"`
	Summary  Summary             `json:"summary"`
	Scores   []ScoreEntry        `json:"scores"`
	Latency  runner.LatencyStats `json:"latency"`
	Failures []Failure           `json:"failures,omitempty"`
}

type RunInfo struct {
	AnswersLabel  string          `json:"answers_label"`
	JudgeModel    string          `json:"judge_model"`
	PolicyVersion string          `json:"policy_version,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Environment   EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

type Summary struct {
	TotalEvaluated     int         `json:"total_evaluated"`
	Scored             int         `json:"scored"`
	Failed             int         `json:"failed"`
	PurityDistribution map[int]int `json:"arabic_purity_distribution"`
}

type ScoreEntry struct {
	Section string  `json:"section"`
	Field   string  `json:"field"`
	Mean    float64 `json:"mean"`
}

type Failure struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Error    string `json:"error"`
}
