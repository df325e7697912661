// Package report turns scored engagements into persisted reports: a
// deterministic first pass and an LLM-written narrative second pass.
package report

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-cli/internal/config"
)

// Config holds report generation settings drawn from the report and
// anthropic config sections.
type Config struct {
	PrimaryLimit       int
	MinScore           int
	GoodScore          int
	Pass1PromptVersion string
	Pass2PromptVersion string

	Model       string
	MaxTokens   int64
	Temperature float64
	MaxRetries  int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		PrimaryLimit:       3,
		MinScore:           50,
		GoodScore:          70,
		Pass1PromptVersion: "v2.0-pass1",
		Pass2PromptVersion: "v2.0-pass2",
		Model:              "claude-sonnet-4-5-20250929",
		MaxTokens:          8000,
		Temperature:        0.4,
		MaxRetries:         3,
	}
}

// NewConfig overlays cfg onto DefaultConfig. Zero values keep the default.
func NewConfig(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	r, a := cfg.Report, cfg.Anthropic
	if r.PrimaryLimit > 0 {
		c.PrimaryLimit = r.PrimaryLimit
	}
	if r.CompletenessMinScore > 0 {
		c.MinScore = r.CompletenessMinScore
	}
	if r.CompletenessGoodScore > 0 {
		c.GoodScore = r.CompletenessGoodScore
	}
	if r.Pass1PromptVersion != "" {
		c.Pass1PromptVersion = r.Pass1PromptVersion
	}
	if r.Pass2PromptVersion != "" {
		c.Pass2PromptVersion = r.Pass2PromptVersion
	}
	if a.Model != "" {
		c.Model = a.Model
	}
	if a.MaxTokens > 0 {
		c.MaxTokens = a.MaxTokens
	}
	if a.Temperature > 0 {
		c.Temperature = a.Temperature
	}
	if a.MaxRetries > 0 {
		c.MaxRetries = a.MaxRetries
	}
	return c
}

// ValidateConfig reports every invalid setting at once.
func ValidateConfig(c Config) error {
	var errs []string
	if c.PrimaryLimit < 1 {
		errs = append(errs, "primary limit must be >= 1")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		errs = append(errs, fmt.Sprintf("min score %d out of range 0-100", c.MinScore))
	}
	if c.GoodScore < c.MinScore || c.GoodScore > 100 {
		errs = append(errs, fmt.Sprintf("good score %d must be between min score and 100", c.GoodScore))
	}
	if c.Model == "" {
		errs = append(errs, "model is required")
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, "max tokens must be > 0")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		errs = append(errs, "temperature must be between 0 and 1")
	}
	if len(errs) > 0 {
		return eris.Errorf("report: invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
