package comparison

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/report"
)

// Store owns one comparison table file. It assumes a single writer.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the table file has been written yet.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *Store) Load() (*Table, error) {
	return Load(s.path)
}

// Upsert loads the table, merges one subject column and saves it back. It
// returns the column name the values were stored under.
func (s *Store) Upsert(label string, agg report.Aggregated, overwrite bool) (string, error) {
	if label == "" {
		return "", fmt.Errorf("upsert comparison: empty label")
	}
	t, err := Load(s.path)
	if err != nil {
		return "", err
	}

	name := t.Upsert(label, agg, overwrite)
	if name != label {
		slog.Info("answers label exists, using suffixed column", "label", label, "column", name)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create comparison dir: %w", err)
		}
	}
	if err := t.Save(s.path); err != nil {
		return "", err
	}
	slog.Info("comparison table updated", "path", s.path, "column", name)
	return name, nil
}
