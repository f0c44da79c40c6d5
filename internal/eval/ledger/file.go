package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/pagination"
)

const maxRecordLine = 4 * 1024 * 1024

// FileSink appends records as JSON lines to a local file.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Name() string {
	return "file"
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Append(ctx context.Context, items []runner.ItemResult, meta RunMeta) error {
	if len(items) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", s.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(NewRecord(it, meta)); err != nil {
			return fmt.Errorf("encode record %d: %w", it.Index, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write ledger %s: %w", s.path, err)
	}

	slog.Info("ledger appended", "sink", s.Name(), "path", s.path, "records", len(items), "run_id", meta.RunID)
	return nil
}

func (s *FileSink) List(ctx context.Context, label string, page pagination.OffsetRequest) (*pagination.OffsetResult[Record], error) {
	page.Normalize()
	records, err := ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pagination.NewOffsetResult[Record](nil, 0, page), nil
		}
		return nil, err
	}
	if label != "" {
		filtered := records[:0]
		for _, r := range records {
			if r.AnswersLabel == label {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	start, end := page.Window(len(records))
	items := make([]Record, end-start)
	copy(items, records[start:end])
	return pagination.NewOffsetResult(items, int64(len(records)), page), nil
}

// ReadFile returns every well-formed record of a ledger file in file order.
// Malformed lines are skipped with a warning.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordLine)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			slog.Warn("skipping malformed ledger line", "path", path, "line", line, "error", err)
			continue
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	return records, nil
}
