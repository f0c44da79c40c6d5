package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/apperr"
)

const maxLineSize = 16 * 1024 * 1024

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Record is one line of a chat-format dataset.
type Record struct {
	Messages  []Message `json:"messages"`
	GenModel  string    `json:"gen_model,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
}

// Pair returns the first user message and the first assistant message after it.
func (r Record) Pair() (QAPair, bool) {
	var p QAPair
	for _, m := range r.Messages {
		switch {
		case p.Question == "" && m.Role == RoleUser:
			p.Question = m.Content
		case p.Question != "" && m.Role == RoleAssistant:
			p.Answer = m.Content
			return p, p.Answer != ""
		}
	}
	return p, false
}

// LoadPairs reads every usable pair from a JSONL dataset in file order.
// Blank lines, "//" comment lines and malformed JSON lines are skipped.
func LoadPairs(path string) ([]QAPair, error) {
	var pairs []QAPair
	skipped := 0
	err := scanRecords(path, func(rec Record, ok bool) bool {
		if !ok {
			skipped++
			return true
		}
		if p, ok := rec.Pair(); ok {
			pairs = append(pairs, p)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.Warn("skipped malformed dataset lines", "path", path, "count", skipped)
	}
	return pairs, nil
}

// SelectEvalPairs maps each required question to the first dataset answer for
// it and returns the pairs in question order. Any question without an answer
// is a fatal precondition failure.
func SelectEvalPairs(questions []string, pairs []QAPair) ([]QAPair, error) {
	answers := make(map[string]string, len(questions))
	for _, p := range pairs {
		if _, seen := answers[p.Question]; !seen {
			answers[p.Question] = p.Answer
		}
	}

	selected := make([]QAPair, 0, len(questions))
	var missing []string
	for _, q := range questions {
		a, ok := answers[q]
		if !ok {
			missing = append(missing, q)
			continue
		}
		selected = append(selected, QAPair{Question: q, Answer: a})
	}
	if len(missing) > 0 {
		return nil, apperr.NewMissingRequiredData("dataset missing required questions", missing...)
	}
	return selected, nil
}

// InferAnswersLabel returns the gen_model of the first parseable record.
func InferAnswersLabel(path string) (string, error) {
	var label string
	err := scanRecords(path, func(rec Record, ok bool) bool {
		if !ok {
			return true
		}
		label = rec.GenModel
		return false
	})
	return label, err
}

func scanRecords(path string, fn func(rec Record, ok bool) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var rec Record
		err := json.Unmarshal([]byte(line), &rec)
		if !fn(rec, err == nil) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}
	return nil
}
