package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"openai/gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gemini-1.5-flash-latest", &ModelCost{0.075, 0.3}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"mistralai/mistral-7b-instruct", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupCost(tt.model))
		})
	}
}

func TestModelCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.00075, c.Cost(1000, 1000), 1e-9)
}
