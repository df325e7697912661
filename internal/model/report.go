package model

import (
	"time"

	"github.com/sells-group/discovery-cli/internal/scorer"
)

// CompletenessStatus grades how much narrative material an assessment holds.
type CompletenessStatus string

const (
	CompletenessComplete     CompletenessStatus = "complete"
	CompletenessPartial      CompletenessStatus = "partial"
	CompletenessInsufficient CompletenessStatus = "insufficient"
)

// Completeness is the data-completeness verdict for an engagement.
type Completeness struct {
	Score                   int                `json:"score"`
	Status                  CompletenessStatus `json:"status"`
	MissingCritical         []string           `json:"missing_critical"`
	MissingImportant        []string           `json:"missing_important"`
	MissingNiceToHave       []string           `json:"missing_nice_to_have"`
	CanGenerateClientReport bool               `json:"can_generate_client_report"`
	AdminActionRequired     []string           `json:"admin_action_required"`
}

// TokenUsage tracks LLM consumption for one generated narrative.
type TokenUsage struct {
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Report is the persisted outcome of the report passes for an engagement.
type Report struct {
	EngagementID      string                                      `json:"engagement_id"`
	Status            EngagementStatus                            `json:"status"`
	ServiceScores     map[scorer.ServiceCode]*scorer.ServiceScore `json:"service_scores"`
	Patterns          scorer.DetectionPatterns                    `json:"detection_patterns"`
	EmotionalAnchors  map[string]string                           `json:"emotional_anchors"`
	UrgencyMultiplier float64                                     `json:"urgency_multiplier"`
	ChangeReadiness   string                                      `json:"change_readiness"`
	Primary           []*scorer.ServiceScore                      `json:"primary_recommendations"`
	Secondary         []*scorer.ServiceScore                      `json:"secondary_recommendations"`
	Completeness      Completeness                                `json:"completeness"`
	PromptVersion     string                                      `json:"prompt_version"`
	RulesetHash       string                                      `json:"ruleset_hash"`
	GenerationTimeMs  int64                                       `json:"generation_time_ms"`
	Narrative         string                                      `json:"narrative,omitempty"`
	LLMModel          string                                      `json:"llm_model,omitempty"`
	TokenUsage        TokenUsage                                  `json:"token_usage"`
	CreatedAt         time.Time                                   `json:"created_at"`
	UpdatedAt         time.Time                                   `json:"updated_at"`
}

// TriggerRecord is one audit row explaining a point award or boost.
type TriggerRecord struct {
	EngagementID string             `json:"engagement_id"`
	ServiceCode  scorer.ServiceCode `json:"service_code"`
	Description  string             `json:"description"`
	Position     int                `json:"position"`
}

// TriggerRecords flattens service triggers into audit rows in catalogue
// order.
func TriggerRecords(engagementID string, scores map[scorer.ServiceCode]*scorer.ServiceScore) []TriggerRecord {
	var out []TriggerRecord
	for _, def := range scorer.Services() {
		s, ok := scores[def.Code]
		if !ok {
			continue
		}
		for i, trig := range s.Triggers {
			out = append(out, TriggerRecord{
				EngagementID: engagementID,
				ServiceCode:  def.Code,
				Description:  trig,
				Position:     i,
			})
		}
	}
	return out
}
