package judge

import (
	"context"
	"encoding/json"
	"fmt"
)

// Judge grades one answer and returns its raw rubric object.
type Judge interface {
	Grade(ctx context.Context, question, answer string) (json.RawMessage, error)
}

// Func adapts a plain function to Judge.
type Func func(ctx context.Context, question, answer string) (json.RawMessage, error)

func (f Func) Grade(ctx context.Context, question, answer string) (json.RawMessage, error) {
	return f(ctx, question, answer)
}

// CallError reports that the judge produced no usable structured score for a question.
type CallError struct {
	Question string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("judge call failed: %v", e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
