package judge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
)

type capturedRequest struct {
	Model          string `json:"model"`
	Seed           *int   `json:"seed"`
	ResponseFormat struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string          `json:"name"`
			Strict bool            `json:"strict"`
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestJudge(t *testing.T, status int, content string, captured *capturedRequest) *OpenAIJudge {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		body, _ := json.Marshal(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "gpt-5-mini",
			"choices": []map[string]any{{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": content}}},
			"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL
	return NewOpenAIJudge(openai.NewClientWithConfig(cfg))
}

func TestOpenAIJudge_Grade(t *testing.T) {
	raw, err := json.Marshal(rubric.Uniform(4))
	require.NoError(t, err)

	t.Run("sends the rubric request", func(t *testing.T) {
		var captured capturedRequest
		j := newTestJudge(t, http.StatusOK, string(raw), &captured)

		got, err := j.Grade(context.Background(), "من هو يسوع؟", "يسوع هو ابن الله")
		require.NoError(t, err)
		assert.JSONEq(t, string(raw), string(got))

		assert.Equal(t, DefaultModel, captured.Model)
		require.NotNil(t, captured.Seed)
		assert.Equal(t, 7, *captured.Seed)
		assert.Equal(t, "json_schema", captured.ResponseFormat.Type)
		assert.Equal(t, schemaName, captured.ResponseFormat.JSONSchema.Name)
		assert.True(t, captured.ResponseFormat.JSONSchema.Strict)

		require.Len(t, captured.Messages, 3)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Contains(t, captured.Messages[2].Content, "السؤال:\nمن هو يسوع؟")
		assert.Contains(t, captured.Messages[2].Content, "الإجابة:\nيسوع هو ابن الله")
	})

	t.Run("empty content is an error", func(t *testing.T) {
		j := newTestJudge(t, http.StatusOK, "  ", nil)
		_, err := j.Grade(context.Background(), "q", "a")
		assert.ErrorContains(t, err, "empty content")
	})

	t.Run("provider errors keep their status", func(t *testing.T) {
		j := newTestJudge(t, http.StatusBadGateway, "", nil)
		_, err := j.Grade(context.Background(), "q", "a")
		require.Error(t, err)

		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		assert.True(t, errors.As(err, &apiErr) || errors.As(err, &reqErr))
	})
}

func TestRubricSchema(t *testing.T) {
	schema := rubricSchema()

	require.Len(t, schema.Required, 4)
	assert.Equal(t, rubric.SectionAdherence, schema.Required[0])

	arabic := schema.Properties[rubric.SectionArabic]
	assert.Contains(t, arabic.Required, rubric.FieldPenaltyReason)
	assert.Contains(t, arabic.Required, "Arabic_Purity")
	assert.NotContains(t, arabic.Required, rubric.FieldPurityPct)
	assert.Len(t, schema.Properties[rubric.SectionInterfaith].Required, 5)

	data, err := json.Marshal(&schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"additionalProperties":false`)
}

func TestFunc(t *testing.T) {
	var j Judge = Func(func(_ context.Context, q, a string) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	})
	got, err := j.Grade(context.Background(), "q", "a")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))

	inner := errors.New("timeout")
	ce := &CallError{Question: "q", Err: inner}
	assert.ErrorIs(t, ce, inner)
	assert.Equal(t, "judge call failed: timeout", ce.Error())
}
