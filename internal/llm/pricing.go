package llm

import "strings"

// ModelCost is per-million-token pricing in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a recorded model id, or nil if unknown.
// OpenRouter ids carry a vendor prefix ("openai/gpt-4o-mini") and Gemini
// aliases a "-latest" suffix; both are stripped before a second lookup.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	id := modelID
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	id = strings.TrimSuffix(id, "-latest")
	if c, ok := modelCosts[id]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the default and common override models of each
// provider. Prices from models.dev, 2026-02-15.
var modelCosts = map[string]ModelCost{
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-3-haiku-20240307":    {0.25, 1.25},
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	"gpt-3.5-turbo": {0.5, 1.5},
	"gpt-4.1":       {2, 8},
	"gpt-4.1-mini":  {0.4, 1.6},
	"gpt-4.1-nano":  {0.1, 0.4},
	"gpt-4o":        {2.5, 10},
	"gpt-4o-mini":   {0.15, 0.6},
	"gpt-5-mini":    {0.25, 2},
	"gpt-5-nano":    {0.05, 0.4},

	"gemini-1.5-flash":      {0.075, 0.3},
	"gemini-1.5-flash-8b":   {0.0375, 0.15},
	"gemini-1.5-pro":        {1.25, 5},
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
