package scorer

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// RulesetVersion names the current questionnaire and weighting tables.
// Bump it whenever an option string, point value or threshold changes.
const RulesetVersion = "v2"

type rulesetSnapshot struct {
	Version   string              `json:"version"`
	Catalogue []ServiceDefinition `json:"catalogue"`
	Rules     []rule              `json:"rules"`
	Keywords  map[string][]string `json:"keywords"`
	Urgency   map[string]float64  `json:"urgency"`
	Patterns  map[string][]string `json:"patterns"`
}

// RulesetHash returns a short SHA-256 digest of every table that affects
// scoring, so stored reports can be tied to the rules that produced them.
func RulesetHash() string {
	data, err := json.Marshal(rulesetSnapshot{
		Version:   RulesetVersion,
		Catalogue: catalogue[:],
		Rules:     questionnaire,
		Keywords:  keywordSets,
		Urgency:   urgencyTable,
		Patterns: map[string][]string{
			"burnout_hours":        burnoutHours,
			"burnout_breaks":       burnoutBreaks,
			"burnout_external":     burnoutExternal,
			"burnout_firefighting": burnoutFirefighting,
			"near_term_exit":       nearTermExit,
			"lifestyle_success":    lifestyleSuccess,
		},
	})
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:16]) // 32 hex chars
}
