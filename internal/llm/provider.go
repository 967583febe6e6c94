package llm

import (
	"context"
)

// Provider is one remote text-generation backend.
// Implementations only deal with their wire envelope: they send the prompt
// and return the raw generated text. Parsing that text is the caller's job.
type Provider interface {
	// Generate performs exactly one request against the backend and returns
	// the text the model produced. Transport failures are reported as
	// *TransportError, responses without usable text as *EnvelopeError.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider identifier, e.g. "openrouter" or "gemini".
	Name() string

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the model's role.
	System string

	// Prompt is the single user message.
	Prompt string

	// Schema optionally describes the JSON shape of the expected output.
	// Providers with a native structured-output mechanism pass it along as a
	// hint; the others ignore it. It is never used to validate the reply.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, e.g. "grammar-question-batch".
	Name string

	// Description is a human-readable description of the schema.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Text is the raw generated text, exactly as the backend returned it.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
