package scorer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heavyResponses answers nearly every question with its strongest option.
func heavyResponses() Responses {
	return Responses{
		"dd_five_year_vision":         "I'd be chairman with a portfolio, travel with family and the team runs it without me. Maybe sell or raise capital.",
		"dd_success_definition":       "Creating a business that runs profitably without me",
		"dd_non_negotiables":          []any{"More time with family/loved ones", "Less day-to-day stress", "Building wealth beyond the business"},
		"dd_unlimited_change":         "Hire a team, fix broken systems, get the numbers right and raise investor funding",
		"dd_exit_mindset":             "The thought terrifies me",
		"dd_weekly_hours":             "I've stopped counting",
		"dd_time_allocation":          "90% firefighting / 10% strategic",
		"dd_last_real_break":          "I've never done that",
		"dd_emergency_log":            "Phone call at 2am on a weekend because the server crashed and only I could fix it for the customer",
		"dd_scaling_constraint":       "Cash flow would be squeezed",
		"dd_sleep_thief":              "My own health or burnout",
		"dd_core_frustration":         "I'm exhausted, stuck on a plateau, staff problems and competitors catching up",
		"dd_key_person_dependency":    "Disaster - the business would struggle badly",
		"dd_people_challenge":         "Letting go of the wrong people",
		"dd_delegation_ability":       "Terrible - I end up doing everything myself",
		"dd_hidden_from_team":         "We are losing money, the overdraft is maxed and I'm scared",
		"dd_external_perspective":     "They'd say I'm married to my business",
		"dd_avoided_conversation":     "Telling my partner I want to sell",
		"dd_hard_truth":               "The business is too dependent on me and we are bleeding money",
		"dd_relationship_mirror":      "A bad marriage I can't leave, exhausting and draining",
		"dd_sacrifice_list":           "Everything. Family holidays, my health, friends, savings and my pension have all gone into this business over the years.",
		"dd_suspected_truth":          "We are undercharging and wasting time compared to competitors",
		"dd_magic_fix":                "A dashboard of numbers, a manager to delegate to, automated systems and time off",
		"dd_final_insight":            "Honestly the cash and the team keep me awake, I need a plan",
		"dd_change_readiness":         "Completely ready - I'll do whatever it takes",
		"sd_financial_confidence":     "I avoid financial decisions because I don't trust the data",
		"sd_numbers_action_frequency": "Never - I don't get meaningful management information",
		"sd_benchmark_awareness":      "No - I'd love to know but don't have access",
		"sd_founder_dependency":       "Chaos - I'm essential to everything",
		"sd_manual_work_percentage":   "Too much - over half our effort is manual",
		"sd_manual_tasks":             []string{"Data entry between systems", "Reconciling data between systems"},
		"sd_problem_awareness_speed":  "We're often blindsided",
		"sd_plan_clarity":             "I'm too busy to plan",
		"sd_accountability_source":    "No one - just me",
		"sd_growth_blocker":           "Don't have the capital",
		"sd_documentation_readiness":  "I don't know where I'd even start",
		"sd_valuation_understanding":  "I try not to think about it",
		"sd_exit_timeline":            "Already exploring options",
		"sd_competitive_position":     "We're losing ground to competitors",
		"sd_operational_frustration":  "Manual data entry into spreadsheets, slow clunky process",
	}
}

func assertInvariants(t *testing.T, res *Result) {
	t.Helper()
	require.Len(t, res.Scores, len(catalogue))

	positive := 0
	for code, s := range res.Scores {
		assert.Equal(t, code, s.Code)
		assert.GreaterOrEqual(t, s.Score, 0, code)
		assert.LessOrEqual(t, s.Score, 100, code)
		assert.Equal(t, min(100, 20*len(s.Triggers)), s.Confidence, code)
		assert.Equal(t, s.Score >= 50, s.Recommended, code)
		if s.Score > 0 {
			positive++
		}
	}

	require.Len(t, res.Recommendations, positive)
	for i, s := range res.Recommendations {
		assert.Greater(t, s.Score, 0)
		assert.Same(t, res.Scores[s.Code], s)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Recommendations[i-1].Score, s.Score)
		}
	}
}

func TestScore_EmptyInput(t *testing.T) {
	for _, in := range []Responses{nil, {}} {
		res := Score(in)
		assertInvariants(t, res)

		for _, s := range res.Scores {
			assert.Zero(t, s.Score)
			assert.Empty(t, s.Triggers)
			assert.Equal(t, 4, s.Priority)
		}
		assert.Empty(t, res.Recommendations)
		assert.False(t, res.Patterns.BurnoutDetected)
		assert.False(t, res.Patterns.CapitalRaisingDetected)
		assert.False(t, res.Patterns.LifestyleTransformationDetected)
		assert.Equal(t, 1.0, res.Patterns.UrgencyMultiplier)
		assert.Len(t, res.EmotionalAnchors, 13)
		for _, v := range res.EmotionalAnchors {
			assert.Empty(t, v)
		}
	}
}

func TestScore_BurnoutExample(t *testing.T) {
	res := Score(Responses{
		"dd_weekly_hours":         "70+ hours",
		"dd_last_real_break":      "I've never done that",
		"dd_external_perspective": "It's a significant source of tension",
	})
	assertInvariants(t, res)

	p := res.Patterns
	assert.True(t, p.BurnoutDetected)
	assert.Equal(t, 3, p.BurnoutFlags)
	assert.Equal(t, []string{"Excessive hours", "No real breaks", "Relationship strain"}, p.BurnoutIndicators)

	method := res.Scores[Service365Method]
	assert.Equal(t, 91, method.Score)
	assert.Equal(t, []string{
		`Hours: "70+ hours"`,
		`Last break: "I've never done that"`,
		`External view: "It's a significant source of tension"`,
		"Burnout pattern detected (3+ indicators)",
	}, method.Triggers)
	assert.Equal(t, 80, method.Confidence)
	assert.Equal(t, 1, method.Priority)

	audit := res.Scores[ServiceSystemsAudit]
	assert.Equal(t, 35, audit.Score)
	assert.Equal(t, 3, audit.Priority)
	assert.False(t, audit.Recommended)

	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, Service365Method, res.Recommendations[0].Code)
	assert.Equal(t, ServiceSystemsAudit, res.Recommendations[1].Code)
}

func TestScore_BurnoutNeedsThreeIndicators(t *testing.T) {
	res := Score(Responses{
		"dd_weekly_hours":    "70+ hours",
		"dd_last_real_break": "I've never done that",
	})
	assert.False(t, res.Patterns.BurnoutDetected)
	assert.Equal(t, 2, res.Patterns.BurnoutFlags)
	assert.Equal(t, 45, res.Scores[Service365Method].Score)
}

func TestScore_KeywordNonExclusivity(t *testing.T) {
	res := Score(Responses{"dd_unlimited_change": "Better team and better systems"})

	assert.Equal(t, 15, res.Scores[ServiceFractionalCOO].Score)
	assert.Equal(t, 15, res.Scores[ServiceSystemsAudit].Score)
	assert.Equal(t, 15, res.Scores[ServiceAutomation].Score)
	assert.Equal(t, []string{"Unlimited change: team/people focus"}, res.Scores[ServiceFractionalCOO].Triggers)
	assert.Equal(t, []string{"Unlimited change: automation opportunity"}, res.Scores[ServiceAutomation].Triggers)
}

func TestScore_ChoiceIsVerbatim(t *testing.T) {
	tests := []struct {
		name   string
		answer any
		want   int
	}{
		{"exact", "Not knowing my numbers", 30},
		{"lower case", "not knowing my numbers", 0},
		{"trailing space", "Not knowing my numbers ", 0},
		{"unknown option", "Something new", 0},
		{"non-string", []string{"Not knowing my numbers"}, 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(Responses{"dd_sleep_thief": tt.answer})
			assert.Equal(t, tt.want, res.Scores[ServiceManagementAccounts].Score)
		})
	}
}

func TestScore_MultiSelect(t *testing.T) {
	t.Run("cumulative", func(t *testing.T) {
		res := Score(Responses{"sd_manual_tasks": []string{
			"Data entry between systems",
			"Processing invoices",
			"Reconciling data between systems",
		}})
		assert.Equal(t, 60, res.Scores[ServiceAutomation].Score)
		assert.Equal(t, 15, res.Scores[ServiceManagementAccounts].Score)
		assert.Equal(t, []string{"Manual task: reconciliation"}, res.Scores[ServiceManagementAccounts].Triggers)
	})

	t.Run("scalar wraps", func(t *testing.T) {
		res := Score(Responses{"dd_non_negotiables": "Better health and energy"})
		assert.Equal(t, 10, res.Scores[Service365Method].Score)
		assert.Equal(t, []string{`Non-negotiable: "Better health and energy"`}, res.Scores[Service365Method].Triggers)
	})

	t.Run("decoded json array", func(t *testing.T) {
		res := Score(Responses{"dd_non_negotiables": []any{"Building wealth beyond the business", 7.0, "Unknown"}})
		assert.Equal(t, 10, res.Scores[ServiceFractionalCFO].Score)
		assert.Equal(t, 10, res.Scores[ServiceBusinessAdvisory].Score)
		assert.Equal(t, []string{"Non-negotiable: wealth building"}, res.Scores[ServiceFractionalCFO].Triggers)
	})
}

func TestScore_LengthBonus(t *testing.T) {
	short := Score(Responses{"dd_emergency_log": "A quiet month"})
	assert.Zero(t, short.Scores[ServiceSystemsAudit].Score)

	long := Score(Responses{"dd_emergency_log": "A quiet month, apart from a supplier delay that pushed us out a week"})
	assert.Equal(t, 10, long.Scores[ServiceSystemsAudit].Score)
	assert.Equal(t, []string{"Emergency log: significant chaos indicated"}, long.Scores[ServiceSystemsAudit].Triggers)
}

func TestScore_SacrificeLengthBonus(t *testing.T) {
	atLimit := Score(Responses{"dd_sacrifice_list": strings.Repeat("z", 100)})
	assert.Zero(t, atLimit.Scores[Service365Method].Score)
	assert.Empty(t, atLimit.Scores[Service365Method].Triggers)

	over := Score(Responses{"dd_sacrifice_list": strings.Repeat("z", 101)})
	assert.Equal(t, 10, over.Scores[Service365Method].Score)
	assert.Equal(t, []string{"Sacrificed: significant personal cost"}, over.Scores[Service365Method].Triggers)

	withKeyword := Score(Responses{"dd_sacrifice_list": "My health. " + strings.Repeat("z", 95)})
	assert.Equal(t, 30, withKeyword.Scores[Service365Method].Score)
	assert.Equal(t, []string{
		"Sacrificed: health",
		"Sacrificed: significant personal cost",
	}, withKeyword.Scores[Service365Method].Triggers)
}

func TestScore_FinalInsightMinimumLength(t *testing.T) {
	res := Score(Responses{"dd_final_insight": "cash and team"})
	assert.Zero(t, res.Scores[ServiceManagementAccounts].Score)
	assert.Zero(t, res.Scores[ServiceFractionalCOO].Score)

	res = Score(Responses{"dd_final_insight": "cash and team worries mostly"})
	assert.Equal(t, 10, res.Scores[ServiceManagementAccounts].Score)
	assert.Equal(t, 10, res.Scores[ServiceFractionalCOO].Score)
}

func TestScore_CapitalRaising(t *testing.T) {
	res := Score(Responses{
		"sd_growth_blocker": "Don't have the capital",
		"sd_exit_timeline":  "Already exploring options",
	})
	assertInvariants(t, res)

	p := res.Patterns
	assert.True(t, p.CapitalRaisingDetected)
	assert.Equal(t, []string{"Growth blocker: capital", "Exit timeline: near-term"}, p.CapitalSignals)
	assert.Equal(t, 38, res.Scores[ServiceFractionalCFO].Score)    // round(25 * 1.5)
	assert.Equal(t, 46, res.Scores[ServiceBusinessAdvisory].Score) // round(35 * 1.3)
	assert.Zero(t, res.Scores[ServiceManagementAccounts].Score)
	assert.Equal(t, []string{"Capital raising pattern detected"}, res.Scores[ServiceManagementAccounts].Triggers)
}

func TestScore_LifestyleTransformation(t *testing.T) {
	res := Score(Responses{
		"dd_five_year_vision":   "Chairman role, more time with my family",
		"dd_success_definition": "Having complete control over my time and income",
	})
	assertInvariants(t, res)

	p := res.Patterns
	assert.True(t, p.LifestyleTransformationDetected)
	assert.Equal(t, []string{"Vision: role change", "Vision: lifestyle priorities", "Success: lifestyle-focused"}, p.LifestyleSignals)
	assert.Equal(t, 75, res.Scores[Service365Method].Score) // round(50 * 1.5)
	assert.Contains(t, res.Scores[ServiceFractionalCOO].Triggers, "Lifestyle transformation pattern detected")
	assert.Contains(t, res.Scores[ServiceSystemsAudit].Triggers, "Lifestyle transformation pattern detected")
}

func TestScore_UrgencyScaling(t *testing.T) {
	base := Responses{
		"dd_sleep_thief":             "Not knowing my numbers",
		"sd_benchmark_awareness":     "No - I'd love to know but don't have access",
		"dd_people_challenge":        "Finding good people to hire",
		"sd_documentation_readiness": "Months - things are scattered everywhere",
	}
	tests := []struct {
		readiness string
		want      float64
	}{
		{"Completely ready - I'll do whatever it takes", 1.3},
		{"Ready - as long as I understand the why", 1.2},
		{"Open - but I'll need convincing", 1.0},
		{"Hesitant - change feels risky", 0.9},
		{"Resistant - I prefer how things are", 0.7},
		{"Something else", 1.0},
	}

	plain := Score(base)
	for _, tt := range tests {
		t.Run(tt.readiness, func(t *testing.T) {
			in := Responses{"dd_change_readiness": tt.readiness}
			for k, v := range base {
				in[k] = v
			}
			res := Score(in)
			assert.Equal(t, tt.want, res.Patterns.UrgencyMultiplier)
			for code, s := range plain.Scores {
				if s.Score == 0 {
					assert.Zero(t, res.Scores[code].Score)
					continue
				}
				// scaled scores round half up, so compare against the
				// rounded product rather than the raw ratio
				assert.Equal(t, scale(s.Score, tt.want), res.Scores[code].Score, code)
			}
		})
	}
}

func TestScore_CombinedAdvisory(t *testing.T) {
	cfoAndCOO := Responses{
		"dd_scaling_constraint":    "Cash flow would be squeezed",
		"sd_growth_blocker":        "Don't have the capital",
		"dd_key_person_dependency": "Disaster - the business would struggle badly",
		"dd_people_challenge":      "Letting go of the wrong people",
	}
	res := Score(cfoAndCOO)
	assertInvariants(t, res)

	require.Equal(t, 50, res.Scores[ServiceFractionalCFO].Score)
	require.Equal(t, 45, res.Scores[ServiceFractionalCOO].Score)
	combined := res.Scores[ServiceCombinedAdvisory]
	assert.Equal(t, 48, combined.Score)
	assert.Equal(t, []string{
		`Scaling constraint: "Cash flow would be squeezed"`,
		`Growth blocker: "Don't have the capital"`,
		`Key person risk: "Disaster - the business would struggle badly"`,
		`People challenge: "Letting go of the wrong people"`,
		"Combined: Both CFO and COO needs detected",
	}, combined.Triggers)
	assert.Equal(t, 100, combined.Confidence)

	t.Run("below threshold after urgency", func(t *testing.T) {
		in := Responses{"dd_change_readiness": "Resistant - I prefer how things are"}
		for k, v := range cfoAndCOO {
			in[k] = v
		}
		res := Score(in)
		assert.Equal(t, 35, res.Scores[ServiceFractionalCFO].Score)
		assert.Zero(t, res.Scores[ServiceCombinedAdvisory].Score)
		assert.Empty(t, res.Scores[ServiceCombinedAdvisory].Triggers)
	})
}

func TestScore_HeavyResponsesClamp(t *testing.T) {
	res := Score(heavyResponses())
	assertInvariants(t, res)

	p := res.Patterns
	assert.True(t, p.BurnoutDetected)
	assert.Equal(t, 5, p.BurnoutFlags)
	assert.True(t, p.CapitalRaisingDetected)
	assert.Len(t, p.CapitalSignals, 4)
	assert.True(t, p.LifestyleTransformationDetected)
	assert.Equal(t, 1.3, p.UrgencyMultiplier)

	assert.Equal(t, 100, res.Scores[Service365Method].Score)
	assert.Equal(t, 100, res.Scores[ServiceCombinedAdvisory].Score)

	rank := 0
	for _, s := range res.Recommendations {
		if s.Score >= 50 {
			rank++
			assert.Equal(t, rank, s.Priority, s.Code)
		}
	}
	assert.Positive(t, rank)
}

func TestScore_TiesKeepCatalogueOrder(t *testing.T) {
	// benchmarking 30, systems_audit 25, management_accounts 20,
	// fractional_coo 20, fractional_cfo 10.
	res := Score(Responses{
		"dd_sleep_thief":              "Competition or market changes",
		"dd_delegation_ability":       "Terrible - I end up doing everything myself",
		"sd_competitive_position":     "We're competitive - holding our own",
		"dd_five_year_vision":         "steady growth",
		"sd_numbers_action_frequency": "Quarterly - when accounts come through",
	})
	var codes []ServiceCode
	for _, s := range res.Recommendations {
		codes = append(codes, s.Code)
	}
	assert.Equal(t, []ServiceCode{
		ServiceBenchmarking,
		ServiceSystemsAudit,
		ServiceManagementAccounts,
		ServiceFractionalCOO,
		ServiceFractionalCFO,
	}, codes)
}

func TestScore_Deterministic(t *testing.T) {
	first, err := json.Marshal(Score(heavyResponses()))
	require.NoError(t, err)
	for range 5 {
		again, err := json.Marshal(Score(heavyResponses()))
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(again))
	}
}

func TestScore_AdditiveAwardsAreMonotonic(t *testing.T) {
	base := Responses{"dd_sleep_thief": "Cash flow and paying bills"}
	extended := Responses{
		"dd_sleep_thief":      "Cash flow and paying bills",
		"dd_people_challenge": "Team culture and morale",
	}
	before, after := Score(base), Score(extended)
	for code, s := range before.Scores {
		assert.GreaterOrEqual(t, after.Scores[code].Score, s.Score, code)
	}
}

func TestScore_EmotionalAnchors(t *testing.T) {
	res := Score(Responses{
		"dd_five_year_vision":        "Sailing on a Tuesday",
		"sd_operational_frustration": "Rekeying invoices",
		"dd_magic_fix":               false,
	})
	assert.Equal(t, "Sailing on a Tuesday", res.EmotionalAnchors["tuesdayTest"])
	assert.Equal(t, "Rekeying invoices", res.EmotionalAnchors["operationalFrustration"])
	assert.Equal(t, "", res.EmotionalAnchors["magicFix"])
	assert.Equal(t, "tuesdayTest", AnchorNames()[0])
}

func TestScore_JSONShape(t *testing.T) {
	data, err := json.Marshal(Score(nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "scores")
	assert.Contains(t, decoded, "emotionalAnchors")
	assert.Equal(t, []any{}, decoded["recommendations"])

	patterns := decoded["patterns"].(map[string]any)
	assert.Equal(t, []any{}, patterns["burnoutIndicators"])
	assert.Equal(t, 1.0, patterns["urgencyMultiplier"])
}

func TestScoredQuestions(t *testing.T) {
	keys := ScoredQuestions()
	assert.Len(t, keys, 39)
	assert.Equal(t, "dd_five_year_vision", keys[0])
	assert.Equal(t, "sd_operational_frustration", keys[len(keys)-1])

	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate rule for %s", k)
		seen[k] = true
	}
}

func TestRulesetHash(t *testing.T) {
	h := RulesetHash()
	assert.Len(t, h, 32)
	assert.Equal(t, h, RulesetHash())
}

func TestServices(t *testing.T) {
	svcs := Services()
	require.Len(t, svcs, 9)
	svcs[0].Name = "mutated"
	assert.Equal(t, "Goal Alignment Programme", Services()[0].Name)

	def, ok := LookupService(ServiceBenchmarking)
	require.True(t, ok)
	assert.Equal(t, "Benchmarking Services", def.Name)

	_, ok = LookupService("nope")
	assert.False(t, ok)
}
