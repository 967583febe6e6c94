package quizgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammarquiz/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerate_FullBatch(t *testing.T) {
	raw := "```json\n" + batchJSON(t, validRecords(BatchSize)...) + "\n```"
	mock := llm.NewMockProvider(llm.MockResponse{
		Text:  raw,
		Usage: llm.Usage{InputTokens: 300, OutputTokens: 900, TotalTokens: 1200},
	})
	gen := New(mock, DefaultConfig(), discardLogger())

	batch, err := gen.Generate(context.Background(), GenerateInput{Difficulty: Advanced, Hint: "phrasal verbs"})
	require.NoError(t, err)
	assert.Len(t, batch.Questions, BatchSize)
	assert.False(t, batch.SizeMismatch)
	assert.Equal(t, raw, batch.Raw)
	assert.Equal(t, "mock", batch.Model)
	assert.Equal(t, 1200, batch.Usage.TotalTokens)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, SystemPrompt, req.System)
	assert.Contains(t, req.Prompt, "CEFR B2")
	assert.Contains(t, req.Prompt, "phrasal verbs")
	assert.Same(t, BatchSchema, req.Schema)
	assert.Equal(t, DefaultConfig().MaxTokens, req.MaxTokens)
}

func TestGenerate_ShortBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: batchJSON(t, validRecords(4)...)})
	gen := New(mock, DefaultConfig(), discardLogger())

	batch, err := gen.Generate(context.Background(), GenerateInput{Difficulty: Beginner})
	require.NoError(t, err)
	assert.Len(t, batch.Questions, 4)
	assert.True(t, batch.SizeMismatch)
}

func TestGenerate_ProviderErrorPassesThrough(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.TransportError{Provider: "mock", StatusCode: 401, Err: errors.New("unauthorized")},
	})
	gen := New(mock, DefaultConfig(), discardLogger())

	batch, err := gen.Generate(context.Background(), GenerateInput{})
	assert.Nil(t, batch)
	var tErr *llm.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, 401, tErr.StatusCode)
	assert.Equal(t, 1, mock.CallCount(), "no retry")
}

func TestGenerate_InvalidReplyKeepsRaw(t *testing.T) {
	records := validRecords(BatchSize)
	records[9]["answer"] = 7
	raw := batchJSON(t, records...)
	mock := llm.NewMockProvider(llm.MockResponse{Text: raw})
	gen := New(mock, DefaultConfig(), discardLogger())

	batch, err := gen.Generate(context.Background(), GenerateInput{})
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 9, fe.Index)
	require.NotNil(t, batch)
	assert.Empty(t, batch.Questions)
	assert.Equal(t, raw, batch.Raw)
}

func TestGenerate_ProseReplyIsRejected(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Sure! Here are your questions: [1,2,3]"})
	gen := New(mock, DefaultConfig(), discardLogger())

	_, err := gen.Generate(context.Background(), GenerateInput{})
	var fe *FieldError
	require.True(t, errors.As(err, &fe), "got %v", err)
}

// blockingProvider waits for its context to end.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, &llm.TransportError{Provider: "blocking", Err: ctx.Err()}
}
func (blockingProvider) Name() string    { return "blocking" }
func (blockingProvider) ModelID() string { return "blocking" }

func TestGenerate_TimeoutIsTransportError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	gen := New(blockingProvider{}, cfg, discardLogger())

	_, err := gen.Generate(context.Background(), GenerateInput{})
	var tErr *llm.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, strings.Contains(err.Error(), "LLM generation failed"))
}
