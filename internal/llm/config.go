package llm

import (
	"fmt"
)

// Provider identifiers accepted in Config.Provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openrouter", "gemini", "anthropic", "openai"
	Provider string

	OpenRouter OpenRouterConfig
	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "mistralai/mistral-7b-instruct"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-1.5-flash-latest"
	BaseURL string // Optional. Override for tests or proxies.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenRouter,
		OpenRouter: OpenRouterConfig{
			Model:   "mistralai/mistral-7b-instruct",
			BaseURL: defaultOpenRouterBaseURL,
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash-latest",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// SetModel overrides the model of the selected provider. Empty is a no-op.
func (c *Config) SetModel(model string) {
	if model == "" {
		return
	}
	switch c.Provider {
	case ProviderOpenRouter:
		c.OpenRouter.Model = model
	case ProviderGemini:
		c.Gemini.Model = model
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderOpenAI:
		c.OpenAI.Model = model
	}
}

// Model returns the configured model of the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	case ProviderGemini:
		return c.Gemini.Model
	case ProviderAnthropic:
		return c.Anthropic.Model
	case ProviderOpenAI:
		return c.OpenAI.Model
	}
	return ""
}

// Validate checks that the selected provider is known and has its API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("API_PROVIDER is %q but OPENROUTER_API_KEY is not set", c.Provider)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("API_PROVIDER is %q but GEMINI_API_KEY is not set", c.Provider)
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("API_PROVIDER is %q but ANTHROPIC_API_KEY is not set", c.Provider)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("API_PROVIDER is %q but OPENAI_API_KEY is not set", c.Provider)
		}
	default:
		return fmt.Errorf("invalid API_PROVIDER %q: use openrouter, gemini, anthropic or openai", c.Provider)
	}
	if c.Model() == "" {
		return fmt.Errorf("no model configured for provider %q", c.Provider)
	}
	return nil
}
