package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/discovery-cli/internal/config"
)

func TestClaude_DefaultRates(t *testing.T) {
	c := NewCalculator(config.PricingConfig{})

	// 1M in at $3 + 1M out at $15
	assert.InDelta(t, 18.0, c.Claude("claude-sonnet-4-5-20250929", 1_000_000, 1_000_000, 0, 0), 1e-9)

	// cache write 1.25x input, cache read 0.1x input
	got := c.Claude("claude-haiku-4-5-20251001", 0, 0, 1_000_000, 1_000_000)
	assert.InDelta(t, 0.80*1.25+0.80*0.1, got, 1e-9)
}

func TestClaude_UnknownModel(t *testing.T) {
	c := NewCalculator(config.PricingConfig{})
	assert.Zero(t, c.Claude("some-other-model", 1000, 1000, 0, 0))
	assert.False(t, c.Known("some-other-model"))
}

func TestNewCalculator_ConfigOverrides(t *testing.T) {
	c := NewCalculator(config.PricingConfig{Anthropic: map[string]config.ModelPricing{
		"claude-sonnet-4-5-20250929": {Input: 1, Output: 2},
		"claude-custom":              {Input: 10, Output: 20},
	}})

	assert.InDelta(t, 3.0, c.Claude("claude-sonnet-4-5-20250929", 1_000_000, 1_000_000, 0, 0), 1e-9)
	assert.True(t, c.Known("claude-custom"))
	assert.InDelta(t, 10*0.1, c.Claude("claude-custom", 0, 0, 0, 1_000_000), 1e-9)
}
