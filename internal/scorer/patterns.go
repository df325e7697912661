package scorer

import "slices"

const (
	burnoutThreshold   = 3
	capitalThreshold   = 2
	lifestyleThreshold = 3
)

var (
	burnoutHours = []string{"60-70 hours", "70+ hours", "I've stopped counting"}

	burnoutBreaks = []string{
		"More than 2 years ago",
		"I honestly can't remember",
		"I've never done that",
	}
	burnoutExternal = []string{
		"They've given up complaining",
		"It's a significant source of tension",
		"They'd say I'm married to my business",
	}
	burnoutFirefighting = []string{
		"90% firefighting / 10% strategic",
		"70% firefighting / 30% strategic",
	}
	nearTermExit = []string{"Already exploring options", "1-3 years - actively preparing"}

	lifestyleSuccess = []string{
		"Creating a business that runs profitably without me",
		"Building a legacy that outlasts me",
		"Having complete control over my time and income",
	}
)

var urgencyTable = map[string]float64{
	"Completely ready - I'll do whatever it takes": 1.3,
	"Ready - as long as I understand the why":      1.2,
	"Open - but I'll need convincing":              1.0,
	"Hesitant - change feels risky":                0.9,
	"Resistant - I prefer how things are":          0.7,
}

// detectBurnout counts five independent burnout indicators and boosts the
// goal alignment programme when at least three are present.
func detectBurnout(r Responses, t *tally, p *DetectionPatterns) {
	checks := []struct {
		hit   bool
		label string
	}{
		{slices.Contains(burnoutHours, choice(r[keyWeeklyHours])), "Excessive hours"},
		{slices.Contains(burnoutBreaks, choice(r[keyLastRealBreak])), "No real breaks"},
		{slices.Contains(burnoutExternal, choice(r[keyExternalView])), "Relationship strain"},
		{slices.Contains(burnoutFirefighting, choice(r[keyTimeAllocation])), "High firefighting"},
		{choice(r[keySleepThief]) == "My own health or burnout", "Health/burnout concerns"},
	}
	for _, c := range checks {
		if c.hit {
			p.BurnoutFlags++
			p.BurnoutIndicators = append(p.BurnoutIndicators, c.label)
		}
	}
	if p.BurnoutFlags >= burnoutThreshold {
		p.BurnoutDetected = true
		t.boost(s365, 1.4, "Burnout pattern detected (3+ indicators)")
	}
}

// detectCapitalRaising looks for funding or near-term exit intent.
func detectCapitalRaising(r Responses, t *tally, p *DetectionPatterns) {
	if choice(r[keyGrowthBlocker]) == "Don't have the capital" {
		p.CapitalSignals = append(p.CapitalSignals, "Growth blocker: capital")
	}
	if containsAny(lower(r[keyUnlimitedChange]), kwCapital) {
		p.CapitalSignals = append(p.CapitalSignals, "Unlimited change: capital mention")
	}
	if slices.Contains(nearTermExit, choice(r[keyExitTimeline])) {
		p.CapitalSignals = append(p.CapitalSignals, "Exit timeline: near-term")
	}
	if containsAny(lower(r[keyFiveYearVision]), kwCapital) {
		p.CapitalSignals = append(p.CapitalSignals, "Vision: capital/investment")
	}
	if len(p.CapitalSignals) >= capitalThreshold {
		p.CapitalRaisingDetected = true
		const trigger = "Capital raising pattern detected"
		t.boost(sCFO, 1.5, trigger)
		t.boost(sMA, 1.3, trigger)
		t.boost(sBA, 1.3, trigger)
	}
}

// detectLifestyleTransformation looks for an owner wanting out of the
// operator role.
func detectLifestyleTransformation(r Responses, t *tally, p *DetectionPatterns) {
	vision := lower(r[keyFiveYearVision])
	relationship := lower(r[keyRelationshipMirror])

	if containsAny(vision, kwLifestyleRole) {
		p.LifestyleSignals = append(p.LifestyleSignals, "Vision: role change")
	}
	if containsAny(vision, kwLifestylePersonal) {
		p.LifestyleSignals = append(p.LifestyleSignals, "Vision: lifestyle priorities")
	}
	if slices.Contains(lifestyleSuccess, choice(r[keySuccessDefinition])) {
		p.LifestyleSignals = append(p.LifestyleSignals, "Success: lifestyle-focused")
	}
	if containsAny(relationship, kwTrapped) || containsAny(relationship, kwExhausted) {
		p.LifestyleSignals = append(p.LifestyleSignals, "Relationship: negative sentiment")
	}
	if len(p.LifestyleSignals) >= lifestyleThreshold {
		p.LifestyleTransformationDetected = true
		const trigger = "Lifestyle transformation pattern detected"
		t.boost(s365, 1.5, trigger)
		t.boost(sCOO, 1.3, trigger)
		t.boost(sSA, 1.2, trigger)
	}
}

// urgencyMultiplier maps the change-readiness answer to a global scale.
func urgencyMultiplier(r Responses) float64 {
	if m, ok := urgencyTable[choice(r[keyChangeReadiness])]; ok {
		return m
	}
	return 1.0
}
