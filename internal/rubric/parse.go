package rubric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ParseRaw decodes a judge's rubric object. Unknown sections and fields are
// rejected. Missing or non-integer scores decode to 0, which the range clamp
// later turns into 1.
func ParseRaw(data []byte) (Score, error) {
	var s Score

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return s, fmt.Errorf("rubric payload is empty")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return s, fmt.Errorf("decode rubric object: %w", err)
	}

	byName := make(map[string]section, 4)
	for _, sec := range s.sections() {
		byName[sec.name] = sec
	}

	for name, body := range raw {
		sec, ok := byName[name]
		if !ok {
			return s, fmt.Errorf("unknown rubric section %q", name)
		}
		if err := decodeSection(&s, sec, body); err != nil {
			return s, fmt.Errorf("decode section %s: %w", name, err)
		}
	}

	return s, nil
}

func decodeSection(s *Score, sec section, body json.RawMessage) error {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}

	ints := make(map[string]*int, len(sec.components)+1)
	for _, f := range sec.components {
		ints[f.name] = f.v
	}
	ints[FieldOverall] = sec.overall

	for name, value := range fields {
		if ptr, ok := ints[name]; ok {
			*ptr = decodeScore(value)
			continue
		}
		if sec.name == SectionArabic {
			switch name {
			case FieldPenaltyReason:
				var reason *string
				if err := json.Unmarshal(value, &reason); err != nil {
					return fmt.Errorf("field %s: %w", name, err)
				}
				if reason != nil {
					s.Arabic.PenaltyReason = *reason
				}
				continue
			case FieldPurityPct:
				// recomputed from the answer text during normalization
				continue
			}
		}
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

func decodeScore(value json.RawMessage) int {
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return 0
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0
	}
	// Out-of-range integers saturate so the range clamp still sees their sign.
	switch {
	case f > maxScore:
		return maxScore
	case f < minScore:
		return minScore
	}
	return int(f)
}
