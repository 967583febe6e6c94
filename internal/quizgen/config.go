package quizgen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response. Ten questions with
	// explanations need a few thousand tokens.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Timeout bounds the single provider call. Expiry surfaces as a
	// transport error.
	Timeout time.Duration
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		Timeout:     90 * time.Second,
	}
}
