package report

import (
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
)

// Build scores responses and assembles the deterministic Pass1 report
// without touching a store.
func (c Config) Build(engagementID string, responses scorer.Responses) *model.Report {
	result := scorer.Score(responses)
	primary, secondary := SplitRecommendations(result.Recommendations, c.PrimaryLimit)

	return &model.Report{
		EngagementID:      engagementID,
		Status:            model.EngagementStatusPass1Complete,
		ServiceScores:     result.Scores,
		Patterns:          result.Patterns,
		EmotionalAnchors:  result.EmotionalAnchors,
		UrgencyMultiplier: result.Patterns.UrgencyMultiplier,
		ChangeReadiness:   scorer.ChangeReadiness(responses),
		Primary:           primary,
		Secondary:         secondary,
		Completeness:      c.AssessCompleteness(result.EmotionalAnchors),
		PromptVersion:     c.Pass1PromptVersion,
		RulesetHash:       scorer.RulesetHash(),
	}
}
