package report

import (
	"strings"
	"unicode/utf16"

	"github.com/sells-group/discovery-cli/internal/model"
)

type anchorField struct {
	key   string
	label string
}

var (
	criticalAnchors = []anchorField{
		{"tuesdayTest", "Tuesday Vision (5-year picture)"},
		{"coreFrustration", "Core Frustration"},
	}

	importantAnchors = []anchorField{
		{"emergencyLog", "Emergency Log (recent disruptions)"},
		{"relationshipMirror", "Business Relationship Metaphor"},
		{"sacrificeList", "Sacrifice List (what they've given up)"},
		{"suspectedTruth", "Suspected Truth (financial gut feeling)"},
	}

	niceToHaveAnchors = []anchorField{
		{"magicFix", "Magic Fix (first change)"},
		{"hardTruth", "Hard Truth (avoided conversation)"},
		{"operationalFrustration", "Operational Frustration"},
		{"finalInsight", "Final Insight"},
		{"hiddenFromTeam", "Hidden From Team"},
		{"avoidedConversation", "Avoided Conversation"},
		{"unlimitedChange", "If Unlimited Funds"},
	}
)

// AssessCompleteness grades the emotional anchors with the default
// thresholds.
func AssessCompleteness(anchors map[string]string) model.Completeness {
	def := DefaultConfig()
	return assess(anchors, def.MinScore, def.GoodScore)
}

// AssessCompleteness grades the emotional anchors with c's thresholds.
func (c Config) AssessCompleteness(anchors map[string]string) model.Completeness {
	return assess(anchors, c.MinScore, c.GoodScore)
}

func assess(anchors map[string]string, minScore, goodScore int) model.Completeness {
	missingCritical := missing(anchors, criticalAnchors)
	missingImportant := missing(anchors, importantAnchors)
	missingNice := missing(anchors, niceToHaveAnchors)

	weighted := func(group []anchorField, miss []string, weight float64) float64 {
		return float64(len(group)-len(miss)) / float64(len(group)) * weight
	}
	raw := weighted(criticalAnchors, missingCritical, 50) +
		weighted(importantAnchors, missingImportant, 30) +
		weighted(niceToHaveAnchors, missingNice, 20)
	score := int(raw + 0.5)

	c := model.Completeness{
		Score:               score,
		Status:              model.CompletenessComplete,
		MissingCritical:     missingCritical,
		MissingImportant:    missingImportant,
		MissingNiceToHave:   missingNice,
		AdminActionRequired: []string{},
	}

	switch {
	case len(missingCritical) > 0:
		c.Status = model.CompletenessInsufficient
	case len(missingImportant) > 2, score < goodScore:
		c.Status = model.CompletenessPartial
	}

	if len(missingCritical) > 0 {
		c.AdminActionRequired = append(c.AdminActionRequired,
			"Schedule discovery call to gather: "+strings.Join(missingCritical, ", "))
	}
	if len(missingImportant) > 2 {
		c.AdminActionRequired = append(c.AdminActionRequired,
			"Follow up to understand: "+strings.Join(missingImportant, ", "))
	}

	c.CanGenerateClientReport = len(missingCritical) == 0 && score >= minScore
	return c
}

func missing(anchors map[string]string, group []anchorField) []string {
	out := []string{}
	for _, f := range group {
		if !provided(anchors[f.key]) {
			out = append(out, f.label)
		}
	}
	return out
}

// provided requires more than ten characters of real text.
func provided(v string) bool {
	if strings.TrimSpace(v) == "" || strings.ToLower(v) == "not provided" {
		return false
	}
	return len(utf16.Encode([]rune(v))) > 10
}
