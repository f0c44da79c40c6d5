package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Generated is one answer produced by a generation provider.
type Generated struct {
	Question string
	Answer   string
	Model    string
	Provider string
	At       time.Time
}

// AppendGenerated writes generated answers as chat-format records, creating
// the file if needed and appending otherwise.
func AppendGenerated(path, systemPrompt string, items []Generated) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open generated dataset: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, g := range items {
		rec := Record{
			Messages: []Message{
				{Role: RoleSystem, Content: systemPrompt},
				{Role: RoleUser, Content: g.Question},
				{Role: RoleAssistant, Content: g.Answer},
			},
			GenModel:  g.Model,
			Provider:  g.Provider,
			Timestamp: g.At.Format(time.RFC3339Nano),
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write generated record: %w", err)
		}
	}
	return f.Close()
}
