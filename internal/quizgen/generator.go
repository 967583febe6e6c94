package quizgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/grammarquiz/internal/llm"
)

// Generator produces grammar question batches.
type Generator interface {
	// Generate makes exactly one provider call and returns the validated
	// batch. On a validation failure the returned Batch is non-nil and
	// carries Raw, Model and Usage for diagnostics, alongside the error.
	Generate(ctx context.Context, input GenerateInput) (*Batch, error)
}

// LLMGenerator implements Generator using an llm.Provider.
type LLMGenerator struct {
	provider  llm.Provider
	config    Config
	validator *Validator
}

// New creates a new LLMGenerator with the given provider and config.
// A nil logger falls back to slog.Default().
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *LLMGenerator {
	return &LLMGenerator{
		provider:  provider,
		config:    cfg,
		validator: NewValidator(logger),
	}
}

// Generate builds the prompt, calls the provider once and validates the reply.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Batch, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(input.Difficulty, input.Hint),
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	start := time.Now()
	resp, err := g.provider.Generate(ctx, req)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	batch := &Batch{
		Raw:     resp.Text,
		Model:   resp.Model,
		Usage:   resp.Usage,
		Latency: latency,
	}

	res, err := g.validator.ParseBatch(resp.Text)
	if err != nil {
		return batch, fmt.Errorf("failed to validate LLM response: %w", err)
	}

	batch.Questions = res.Questions
	batch.SizeMismatch = res.SizeMismatch
	return batch, nil
}
