package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/dataset"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/llm"
	openai "github.com/sashabaranov/go-openai"
)

// Generator produces an answer for one question.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
	Model() string
	Provider() llm.Provider
}

type Option func(*ChatGenerator)

// ChatGenerator answers through an OpenAI-compatible chat completion endpoint.
type ChatGenerator struct {
	client       *openai.Client
	provider     llm.Provider
	model        string
	systemPrompt string
	retry        RetryPolicy
}

func NewChatGenerator(client *openai.Client, provider llm.Provider, model string, opts ...Option) (*ChatGenerator, error) {
	if model == "" {
		return nil, fmt.Errorf("generation model is required for provider %s", provider)
	}
	g := &ChatGenerator{
		client:   client,
		provider: provider,
		model:    model,
		retry:    DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func WithSystemPrompt(prompt string) Option {
	return func(g *ChatGenerator) {
		g.systemPrompt = prompt
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *ChatGenerator) {
		g.retry = p
	}
}

func (g *ChatGenerator) Model() string {
	return g.model
}

func (g *ChatGenerator) Provider() llm.Provider {
	return g.provider
}

func (g *ChatGenerator) SystemPrompt() string {
	return g.systemPrompt
}

func (g *ChatGenerator) Generate(ctx context.Context, question string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if g.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: g.systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question})

	var answer string
	err := g.retry.Do(ctx, func(ctx context.Context) error {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    g.model,
			Messages: messages,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			answer = ""
			return nil
		}
		answer = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", g.provider, err)
	}
	if answer == "" {
		slog.Warn("provider returned an empty answer", "provider", g.provider, "model", g.model)
	}
	return answer, nil
}

// GenerateAll answers questions in order. On failure it returns the answers
// produced so far together with the error.
func GenerateAll(ctx context.Context, gen Generator, questions []string, progressEvery int) ([]dataset.Generated, error) {
	out := make([]dataset.Generated, 0, len(questions))
	start := time.Now()
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		answer, err := gen.Generate(ctx, q)
		if err != nil {
			return out, fmt.Errorf("generate answer %d: %w", i, err)
		}
		out = append(out, dataset.Generated{
			Question: q,
			Answer:   answer,
			Model:    gen.Model(),
			Provider: string(gen.Provider()),
			At:       time.Now(),
		})
		if progressEvery > 0 && ((i+1)%progressEvery == 0 || i+1 == len(questions)) {
			slog.Info("generating", "current", i+1, "total", len(questions), "elapsed", time.Since(start).Round(time.Millisecond))
		}
	}
	return out, nil
}
