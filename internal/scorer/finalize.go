package scorer

import "sort"

const (
	combinedThreshold   = 40
	combinedTriggerTake = 3
	scoreCap            = 100
	recommendThreshold  = 50
)

// combine overwrites the combined advisory score when both fractional
// services clear the threshold after urgency scaling.
func combine(t *tally) {
	cfo, coo := t.byCode[sCFO], t.byCode[sCOO]
	if cfo.Score < combinedThreshold || coo.Score < combinedThreshold {
		return
	}
	combined := t.byCode[ServiceCombinedAdvisory]
	combined.Score = scale(cfo.Score+coo.Score, 0.5)

	triggers := make([]string, 0, 2*combinedTriggerTake+1)
	triggers = append(triggers, head(cfo.Triggers, combinedTriggerTake)...)
	triggers = append(triggers, head(coo.Triggers, combinedTriggerTake)...)
	combined.Triggers = append(triggers, "Combined: Both CFO and COO needs detected")
}

func head(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// finalize caps scores, derives confidence and priority, and returns the
// non-zero scores ranked highest first. Ties keep catalogue order.
func finalize(t *tally) []*ServiceScore {
	for _, s := range t.ordered {
		s.Score = min(scoreCap, s.Score)
		s.Confidence = min(100, len(s.Triggers)*20)
		s.Priority, s.Recommended = tier(s.Score)
	}

	recs := make([]*ServiceScore, 0, len(t.ordered))
	for _, s := range t.ordered {
		if s.Score > 0 {
			recs = append(recs, s)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	rank := 1
	for _, s := range recs {
		if s.Score >= recommendThreshold {
			s.Priority = rank
			rank++
		}
	}
	return recs
}

func tier(score int) (priority int, recommended bool) {
	switch {
	case score >= 70:
		return 1, true
	case score >= 50:
		return 2, true
	case score >= 30:
		return 3, false
	default:
		return 4, false
	}
}

// anchorFields maps emotional anchor names to the free-text questions they
// quote.
var anchorFields = []struct {
	Name string
	Key  string
}{
	{"tuesdayTest", keyFiveYearVision},
	{"unlimitedChange", keyUnlimitedChange},
	{"emergencyLog", "dd_emergency_log"},
	{"coreFrustration", "dd_core_frustration"},
	{"hiddenFromTeam", "dd_hidden_from_team"},
	{"avoidedConversation", "dd_avoided_conversation"},
	{"hardTruth", "dd_hard_truth"},
	{"relationshipMirror", keyRelationshipMirror},
	{"sacrificeList", "dd_sacrifice_list"},
	{"suspectedTruth", "dd_suspected_truth"},
	{"magicFix", "dd_magic_fix"},
	{"operationalFrustration", "sd_operational_frustration"},
	{"finalInsight", "dd_final_insight"},
}

// AnchorNames returns the emotional anchor keys in report order.
func AnchorNames() []string {
	names := make([]string, len(anchorFields))
	for i, f := range anchorFields {
		names[i] = f.Name
	}
	return names
}

func emotionalAnchors(r Responses) map[string]string {
	out := make(map[string]string, len(anchorFields))
	for _, f := range anchorFields {
		out[f.Name] = text(r[f.Key])
	}
	return out
}

// ChangeReadiness returns the owner's stated readiness for change, "" when
// unanswered.
func ChangeReadiness(r Responses) string {
	return text(r[keyChangeReadiness])
}
