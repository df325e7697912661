// Package cost prices LLM token usage for report generation.
package cost

import "github.com/sells-group/discovery-cli/internal/config"

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input         float64
	Output        float64
	CacheWriteMul float64
	CacheReadMul  float64
}

// Calculator computes costs for Claude usage.
type Calculator struct {
	rates map[string]ModelRate
}

// NewCalculator returns a Calculator seeded with DefaultRates and overridden
// by any models present in the pricing config.
func NewCalculator(pricing config.PricingConfig) *Calculator {
	rates := DefaultRates()
	for model, p := range pricing.Anthropic {
		r := rates[model]
		r.Input, r.Output = p.Input, p.Output
		if r.CacheWriteMul == 0 {
			r.CacheWriteMul = 1.25
		}
		if r.CacheReadMul == 0 {
			r.CacheReadMul = 0.1
		}
		rates[model] = r
	}
	return &Calculator{rates: rates}
}

// Claude computes the cost of one Messages API call. Unknown models cost 0.
func (c *Calculator) Claude(model string, input, output, cacheWrite, cacheRead int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}

	inCost := (float64(input) / 1e6) * rate.Input
	outCost := (float64(output) / 1e6) * rate.Output
	cwCost := (float64(cacheWrite) / 1e6) * rate.Input * rate.CacheWriteMul
	crCost := (float64(cacheRead) / 1e6) * rate.Input * rate.CacheReadMul

	return inCost + outCost + cwCost + crCost
}

// Known reports whether the calculator has a rate for model.
func (c *Calculator) Known(model string) bool {
	_, ok := c.rates[model]
	return ok
}

// DefaultRates returns list pricing for the models the report passes use.
func DefaultRates() map[string]ModelRate {
	return map[string]ModelRate{
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00, CacheWriteMul: 1.25, CacheReadMul: 0.1},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00, CacheWriteMul: 1.25, CacheReadMul: 0.1},
		"claude-opus-4-6":            {Input: 15.00, Output: 75.00, CacheWriteMul: 1.25, CacheReadMul: 0.1},
	}
}
