package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/apperr"
)

// RequiredQuestions is the size of the fixed evaluation question set.
const RequiredQuestions = 100

// LoadQuestions reads one question per line, trimmed, skipping blank lines.
func LoadQuestions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer f.Close()

	var questions []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if q := strings.TrimSpace(sc.Text()); q != "" {
			questions = append(questions, q)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return questions, nil
}

// RequireQuestionCount fails unless exactly n questions were loaded.
func RequireQuestionCount(questions []string, n int) error {
	if len(questions) != n {
		return apperr.NewMissingRequiredData(
			fmt.Sprintf("evaluation questions file must contain %d questions (got %d)", n, len(questions)))
	}
	return nil
}
