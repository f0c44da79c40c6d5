package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = "gpt-5-mini"
	defaultSeed  = 7
)

type OpenAIOption func(*OpenAIJudge)

// OpenAIJudge grades answers with a chat completion constrained to the rubric schema.
type OpenAIJudge struct {
	client  *openai.Client
	model   string
	seed    int
	prompts Prompts
}

func NewOpenAIJudge(client *openai.Client, opts ...OpenAIOption) *OpenAIJudge {
	j := &OpenAIJudge{
		client:  client,
		model:   DefaultModel,
		seed:    defaultSeed,
		prompts: DefaultPrompts(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func WithModel(model string) OpenAIOption {
	return func(j *OpenAIJudge) {
		if model != "" {
			j.model = model
		}
	}
}

func WithSeed(seed int) OpenAIOption {
	return func(j *OpenAIJudge) {
		j.seed = seed
	}
}

func WithSystemPrompt(system string) OpenAIOption {
	return func(j *OpenAIJudge) {
		if system != "" {
			j.prompts.System = system
		}
	}
}

func (j *OpenAIJudge) Model() string {
	return j.model
}

func (j *OpenAIJudge) Grade(ctx context.Context, question, answer string) (json.RawMessage, error) {
	schema := rubricSchema()
	seed := j.seed

	req := openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: j.prompts.System},
			{Role: openai.ChatMessageRoleUser, Content: j.prompts.Instructions},
			{Role: openai.ChatMessageRoleUser, Content: j.prompts.userContent(question, answer)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: &schema,
				Strict: true,
			},
		},
		Seed: &seed,
	}

	resp, err := j.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("judge returned no choices")
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, fmt.Errorf("judge refused: %s", msg.Refusal)
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil, errors.New("judge returned empty content")
	}

	slog.Debug("judge graded answer",
		"model", j.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return json.RawMessage(content), nil
}
