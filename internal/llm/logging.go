package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider is a decorator that logs every LLM request.
type LoggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging wraps a Provider with structured request logging.
// A nil logger falls back to slog.Default().
func WithLogging(p Provider, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		"provider", l.inner.Name(),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
		"prompt_chars", len(req.Prompt),
	}

	if err != nil {
		l.logger.WarnContext(ctx, "llm request failed", append(attrs, "error", err)...)
		return nil, err
	}

	attrs = append(attrs,
		"served_by", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
		"response_chars", len(resp.Text),
	)
	if resp.StopReason == "max_tokens" {
		l.logger.WarnContext(ctx, "llm response truncated at max tokens", attrs...)
	} else {
		l.logger.InfoContext(ctx, "llm request", attrs...)
	}

	return resp, nil
}

func (l *LoggingProvider) Name() string {
	return l.inner.Name()
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
