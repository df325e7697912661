package scorer

// award grants points to one service. An empty Trigger on a choice or
// multi-select award means the rule's default `Label: "answer"` text.
type award struct {
	Service ServiceCode `json:"service"`
	Points  int         `json:"points"`
	Trigger string      `json:"trigger,omitempty"`
}

// keywordCheck fires its awards when the answer contains any keyword.
type keywordCheck struct {
	Keywords []string `json:"keywords"`
	Awards   []award  `json:"awards"`
}

// lengthBonus fires when the lower-cased answer is longer than Over.
type lengthBonus struct {
	Over  int   `json:"over"`
	Award award `json:"award"`
}

// rule is one scored question. Rules are applied in questionnaire order so
// trigger lists come out in the same order the owner answered.
type rule interface {
	key() string
	apply(r Responses, t *tally)
}

// choiceRule looks the verbatim answer up in an option table.
type choiceRule struct {
	Key     string             `json:"key"`
	Label   string             `json:"label"`
	Options map[string][]award `json:"options"`
}

func (c choiceRule) key() string { return c.Key }

func (c choiceRule) apply(r Responses, t *tally) {
	answer := choice(r[c.Key])
	if answer == "" {
		return
	}
	for _, a := range c.Options[answer] {
		t.add(a.Service, a.Points, quoted(c.Label, answer))
	}
}

// textRule scans a free-text answer against independent keyword checks.
type textRule struct {
	Key       string         `json:"key"`
	MinLength int            `json:"min_length,omitempty"`
	Checks    []keywordCheck `json:"checks"`
	Bonus     *lengthBonus   `json:"bonus,omitempty"`
}

func (c textRule) key() string { return c.Key }

func (c textRule) apply(r Responses, t *tally) {
	answer := lower(r[c.Key])
	if answer == "" {
		return
	}
	if c.MinLength > 0 && textLength(answer) <= c.MinLength {
		return
	}
	for _, check := range c.Checks {
		if !containsAny(answer, check.Keywords) {
			continue
		}
		for _, a := range check.Awards {
			t.add(a.Service, a.Points, a.Trigger)
		}
	}
	if c.Bonus != nil && textLength(answer) > c.Bonus.Over {
		t.add(c.Bonus.Award.Service, c.Bonus.Award.Points, c.Bonus.Award.Trigger)
	}
}

// multiRule awards points per selected option, cumulatively.
type multiRule struct {
	Key     string             `json:"key"`
	Label   string             `json:"label"`
	Options map[string][]award `json:"options"`
}

func (c multiRule) key() string { return c.Key }

func (c multiRule) apply(r Responses, t *tally) {
	for _, item := range multiSelect(r[c.Key]) {
		for _, a := range c.Options[item] {
			trigger := a.Trigger
			if trigger == "" {
				trigger = quoted(c.Label, item)
			}
			t.add(a.Service, a.Points, trigger)
		}
	}
}

func quoted(label, answer string) string {
	return label + `: "` + answer + `"`
}

func pts(pairs ...any) []award {
	out := make([]award, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, award{Service: pairs[i].(ServiceCode), Points: pairs[i+1].(int)})
	}
	return out
}

func check(keywords []string, awards ...award) keywordCheck {
	return keywordCheck{Keywords: keywords, Awards: awards}
}

func give(svc ServiceCode, points int, trigger string) award {
	return award{Service: svc, Points: points, Trigger: trigger}
}

const (
	s365  = Service365Method
	sMA   = ServiceManagementAccounts
	sSA   = ServiceSystemsAudit
	sAuto = ServiceAutomation
	sCFO  = ServiceFractionalCFO
	sCOO  = ServiceFractionalCOO
	sBA   = ServiceBusinessAdvisory
	sBM   = ServiceBenchmarking
)

// Question keys read by more than one stage.
const (
	keyFiveYearVision     = "dd_five_year_vision"
	keySuccessDefinition  = "dd_success_definition"
	keyUnlimitedChange    = "dd_unlimited_change"
	keyWeeklyHours        = "dd_weekly_hours"
	keyTimeAllocation     = "dd_time_allocation"
	keyLastRealBreak      = "dd_last_real_break"
	keySleepThief         = "dd_sleep_thief"
	keyExternalView       = "dd_external_perspective"
	keyRelationshipMirror = "dd_relationship_mirror"
	keyGrowthBlocker      = "sd_growth_blocker"
	keyExitTimeline       = "sd_exit_timeline"
	keyChangeReadiness    = "dd_change_readiness"
)

// questionnaire lists every scored question in survey order.
var questionnaire = []rule{
	// Part 1: destination discovery.
	textRule{Key: keyFiveYearVision, Checks: []keywordCheck{
		check(kwLifestyleRole, give(s365, 20, "Vision: operator-to-investor language")),
		check([]string{"sell", "exit", "legacy", "succession", "sold"}, give(sBA, 15, "Vision: exit/legacy language")),
		check(kwLifestylePersonal, give(s365, 10, "Vision: lifestyle priorities")),
		check([]string{"team runs", "without me", "optional", "freedom", "don't need to"}, give(sSA, 15, "Vision: business running without founder")),
		check([]string{"ceo", "strategic", "growth", "expand"}, give(sCFO, 10, "Vision: growth leadership")),
	}},
	choiceRule{Key: keySuccessDefinition, Label: "Success", Options: map[string][]award{
		"Building something I can sell for a life-changing amount": pts(sBA, 25),
		"Creating a business that runs profitably without me":      pts(sSA, 20, sCOO, 15),
		"Growing to dominate my market/niche":                      pts(sBM, 15),
		"Having complete control over my time and income":          pts(s365, 20),
		"Building a legacy that outlasts me":                       pts(sBA, 20),
	}},
	multiRule{Key: "dd_non_negotiables", Label: "Non-negotiable", Options: map[string][]award{
		"More time with family/loved ones":        pts(s365, 10),
		"Better health and energy":                pts(s365, 10),
		"Doing work that excites me":              pts(s365, 10),
		"Making a real difference / impact":       pts(s365, 10),
		"Less day-to-day stress":                  pts(sSA, 10),
		"Geographic freedom / work from anywhere": pts(sSA, 10),
		"Financial security for retirement":       pts(sBA, 10),
		"Building wealth beyond the business": {
			give(sCFO, 10, "Non-negotiable: wealth building"),
			give(sBA, 10, "Non-negotiable: wealth building"),
		},
	}},
	textRule{Key: keyUnlimitedChange, Checks: []keywordCheck{
		check(kwTeam, give(sCOO, 15, "Unlimited change: team/people focus")),
		check(kwSystems,
			give(sSA, 15, "Unlimited change: systems/process focus"),
			give(sAuto, 15, "Unlimited change: automation opportunity")),
		check(kwFinancial, give(sMA, 15, "Unlimited change: financial focus")),
		check(kwStrategy, give(s365, 15, "Unlimited change: strategy/clarity focus")),
		check(kwExit, give(sBA, 15, "Unlimited change: exit/value focus")),
	}},
	choiceRule{Key: "dd_exit_mindset", Label: "Exit mindset", Options: map[string][]award{
		"I think about it but haven't planned": pts(sBA, 15),
		"I'd love to but can't see how":        pts(sBA, 20, s365, 10),
		"The thought terrifies me":             pts(sBA, 25, s365, 15),
		"I've never really considered it":      pts(sBA, 10),
	}},

	// Part 1: reality check.
	choiceRule{Key: keyWeeklyHours, Label: "Hours", Options: map[string][]award{
		"50-60 hours":           pts(s365, 5),
		"60-70 hours":           pts(s365, 15, sSA, 10),
		"70+ hours":             pts(s365, 20, sSA, 15),
		"I've stopped counting": pts(s365, 25, sSA, 15),
	}},
	choiceRule{Key: keyTimeAllocation, Label: "Firefighting", Options: map[string][]award{
		"90% firefighting / 10% strategic": pts(sSA, 25, s365, 20),
		"70% firefighting / 30% strategic": pts(sSA, 20, s365, 15),
		"50% firefighting / 50% strategic": pts(sSA, 10),
	}},
	choiceRule{Key: keyLastRealBreak, Label: "Last break", Options: map[string][]award{
		"1-2 years ago":             pts(s365, 10),
		"More than 2 years ago":     pts(s365, 15, sSA, 10),
		"I honestly can't remember": pts(s365, 20, sSA, 15),
		"I've never done that":      pts(s365, 25, sSA, 20),
	}},
	textRule{Key: "dd_emergency_log",
		Checks: []keywordCheck{
			check([]string{"call", "phone", "night", "weekend", "2am", "emergency"}, give(sSA, 20, "Emergency log: after-hours emergencies")),
			check([]string{"only i", "only me", "no one else", "had to"},
				give(sSA, 20, "Emergency log: founder dependency"),
				give(sCOO, 15, "Emergency log: founder dependency")),
			check([]string{"client", "customer", "complaint"}, give(sSA, 10, "Emergency log: client issues")),
			check([]string{"staff", "team", "employee", "called in sick"}, give(sCOO, 15, "Emergency log: people issues")),
			check([]string{"broke", "failed", "crashed", "stopped working"},
				give(sSA, 15, "Emergency log: system failures"),
				give(sAuto, 10, "Emergency log: system failures")),
			check([]string{"cash", "payment", "invoice", "bank"}, give(sMA, 15, "Emergency log: financial emergencies")),
		},
		Bonus: &lengthBonus{Over: 50, Award: give(sSA, 10, "Emergency log: significant chaos indicated")},
	},
	choiceRule{Key: "dd_scaling_constraint", Label: "Scaling constraint", Options: map[string][]award{
		"My personal capacity - I'm already maxed": pts(sCOO, 20, sSA, 15),
		"My team - we're stretched thin":           pts(sCOO, 25),
		"Our systems and processes":                pts(sSA, 25, sAuto, 20),
		"Quality would suffer":                     pts(sSA, 15),
		"Cash flow would be squeezed":              pts(sCFO, 25, sMA, 20),
	}},
	choiceRule{Key: keySleepThief, Label: "Sleep thief", Options: map[string][]award{
		"Cash flow and paying bills":                            pts(sMA, 25, sCFO, 15),
		"A specific client or project problem":                  pts(sSA, 10),
		"A team member situation":                               pts(sCOO, 25),
		"Not knowing my numbers":                                pts(sMA, 30),
		"Fear of something going wrong that I can't see coming": pts(sSA, 20),
		"Competition or market changes":                         pts(sBM, 20),
		"My own health or burnout":                              pts(s365, 25),
	}},
	textRule{Key: "dd_core_frustration", Checks: []keywordCheck{
		check(kwTeam, give(sCOO, 15, "Core frustration: people issues")),
		check(kwSystems,
			give(sSA, 15, "Core frustration: systems/process issues"),
			give(sAuto, 10, "Core frustration: manual work")),
		check(kwFinancial, give(sMA, 15, "Core frustration: financial issues")),
		check(kwBurnout, give(s365, 15, "Core frustration: burnout indicators")),
		check([]string{"grow", "scale", "stuck", "plateau", "stagnant"},
			give(s365, 10, "Core frustration: growth plateau"),
			give(sBM, 10, "Core frustration: growth plateau")),
		check(kwCompetition, give(sBM, 15, "Core frustration: competitive concerns")),
	}},

	// Part 1: people and relationships.
	choiceRule{Key: "dd_key_person_dependency", Label: "Key person risk", Options: map[string][]award{
		"Disaster - the business would struggle badly": pts(sSA, 25, sCOO, 20),
		"Major disruption for 6+ months":               pts(sSA, 20, sCOO, 15),
		"Significant pain but we'd cope":               pts(sSA, 10),
		"N/A - it's just me":                           pts(sCOO, 15, sSA, 15),
	}},
	choiceRule{Key: "dd_people_challenge", Label: "People challenge", Options: map[string][]award{
		"Finding good people to hire":        pts(sCOO, 20),
		"Getting the best from current team": pts(sCOO, 20),
		"Letting go of the wrong people":     pts(sCOO, 25),
		"Developing future leaders":          pts(sCOO, 20),
		"Managing performance consistently":  pts(sCOO, 20),
		"Team culture and morale":            pts(sCOO, 15),
	}},
	choiceRule{Key: "dd_delegation_ability", Label: "Delegation", Options: map[string][]award{
		"Good - but I sometimes take things back":     pts(sSA, 5),
		"Average - I delegate but then micromanage":   pts(sSA, 15, sCOO, 10),
		"Poor - I struggle to let go":                 pts(sSA, 20, sCOO, 15),
		"Terrible - I end up doing everything myself": pts(sSA, 25, sCOO, 20),
	}},
	textRule{Key: "dd_hidden_from_team", Checks: []keywordCheck{
		check([]string{"profit", "loss", "margin", "losing money", "not profitable"}, give(sMA, 20, "Hidden: profitability concerns")),
		check([]string{"cash", "runway", "debt", "owe", "overdraft", "loan"},
			give(sMA, 20, "Hidden: cash/debt concerns"),
			give(sCFO, 15, "Hidden: financial stress")),
		check([]string{"sell", "exit", "close", "quit", "give up"}, give(sBA, 20, "Hidden: exit thoughts")),
		check([]string{"stress", "burnout", "overwhelm", "struggle", "breaking"}, give(s365, 15, "Hidden: personal struggles")),
		check([]string{"worried", "scared", "afraid", "terrified"}, give(s365, 15, "Hidden: fear/worry")),
	}},
	choiceRule{Key: keyExternalView, Label: "External view", Options: map[string][]award{
		"They worry about me sometimes":         pts(s365, 10),
		"They've given up complaining":          pts(s365, 15),
		"It's a significant source of tension":  pts(s365, 20),
		"They'd say I'm married to my business": pts(s365, 25),
	}},

	// Part 1: hard truths.
	textRule{Key: "dd_avoided_conversation", Checks: []keywordCheck{
		check([]string{"team", "employee", "fire", "performance", "let go"}, give(sCOO, 15, "Avoided: people conversation")),
		check([]string{"partner", "shareholder", "split", "buyout"}, give(sBA, 15, "Avoided: partnership conversation")),
		check([]string{"money", "price", "raise", "fees", "charge"}, give(sMA, 10, "Avoided: pricing conversation")),
		check([]string{"exit", "sell", "future", "retire"}, give(sBA, 15, "Avoided: exit conversation")),
		check([]string{"myself", "burnout", "health", "stop"}, give(s365, 15, "Avoided: personal conversation")),
	}},
	textRule{Key: "dd_hard_truth", Checks: []keywordCheck{
		check([]string{"profitable", "margin", "losing", "money", "bleeding"}, give(sMA, 20, "Hard truth: profitability")),
		check([]string{"scale", "grow", "stuck", "plateau", "ceiling"},
			give(s365, 15, "Hard truth: growth plateau"),
			give(sSA, 10, "Hard truth: scaling issues")),
		check([]string{"me", "founder", "dependent", "essential", "can't leave"},
			give(sSA, 20, "Hard truth: founder dependency"),
			give(sCOO, 15, "Hard truth: founder dependency")),
		check([]string{"team", "people", "wrong", "hire", "fire"}, give(sCOO, 20, "Hard truth: team issues")),
		check([]string{"worth", "value", "sellable", "buyer"}, give(sBA, 20, "Hard truth: business value")),
	}},
	textRule{Key: keyRelationshipMirror, Checks: []keywordCheck{
		check(kwTrapped,
			give(s365, 25, "Relationship: feels trapped"),
			give(sBA, 15, "Relationship: trapped/exit consideration")),
		check(kwExhausted,
			give(s365, 20, "Relationship: exhausted"),
			give(sSA, 15, "Relationship: demanding systems")),
		check([]string{"love affair gone stale", "lost spark", "bored"}, give(s365, 15, "Relationship: disengaged")),
	}},
	textRule{Key: "dd_sacrifice_list",
		Checks: []keywordCheck{
			check([]string{"family", "children", "kids", "wife", "husband", "marriage"}, give(s365, 20, "Sacrificed: family time")),
			check([]string{"health", "fitness", "weight", "sleep", "exercise"}, give(s365, 20, "Sacrificed: health")),
			check([]string{"holiday", "vacation", "travel", "break", "time off"},
				give(s365, 15, "Sacrificed: breaks"),
				give(sSA, 10, "Sacrificed: unable to step away")),
			check([]string{"friends", "social", "relationships", "hobbies"}, give(s365, 15, "Sacrificed: social life")),
			check([]string{"money", "savings", "pension", "security"}, give(sCFO, 15, "Sacrificed: financial security")),
			check([]string{"everything", "all of it", "too much"}, give(s365, 25, "Sacrificed: everything")),
		},
		Bonus: &lengthBonus{Over: 100, Award: give(s365, 10, "Sacrificed: significant personal cost")},
	},
	textRule{Key: "dd_suspected_truth", Checks: []keywordCheck{
		check([]string{"margin", "profit", "losing", "cost", "pricing", "undercharging"}, give(sMA, 25, "Suspects: margin/profit issues")),
		check([]string{"underperform", "behind", "compared", "competitor", "industry"}, give(sBM, 20, "Suspects: underperformance")),
		check([]string{"waste", "inefficient", "time", "money", "leak"}, give(sSA, 15, "Suspects: inefficiency")),
		check([]string{"worth", "value", "sell", "less than"}, give(sBA, 15, "Suspects: value concerns")),
		check([]string{"staff", "team", "productivity", "carrying"}, give(sCOO, 15, "Suspects: team productivity")),
	}},
	textRule{Key: "dd_magic_fix", Checks: []keywordCheck{
		check([]string{"numbers", "accounts", "financial", "visibility", "dashboard"}, give(sMA, 25, "Magic fix: financial visibility")),
		check([]string{"team", "hire", "people", "manager", "delegate"}, give(sCOO, 25, "Magic fix: team/people")),
		check([]string{"systems", "process", "automate", "efficient"},
			give(sSA, 25, "Magic fix: systems/processes"),
			give(sAuto, 20, "Magic fix: automation")),
		check([]string{"plan", "strategy", "direction", "clarity", "focus"}, give(s365, 25, "Magic fix: clarity/strategy")),
		check([]string{"sell", "exit", "value", "buyer"}, give(sBA, 25, "Magic fix: exit/sale")),
		check([]string{"grow", "scale", "revenue", "clients"}, give(sBM, 15, "Magic fix: growth")),
		check([]string{"time", "freedom", "step back", "holiday"},
			give(s365, 20, "Magic fix: freedom"),
			give(sSA, 15, "Magic fix: ability to step back")),
	}},
	textRule{Key: "dd_final_insight", MinLength: 20, Checks: []keywordCheck{
		check(kwFinancial, give(sMA, 10, "Final insight: financial focus")),
		check(kwTeam, give(sCOO, 10, "Final insight: team focus")),
		check(kwSystems, give(sSA, 10, "Final insight: systems focus")),
		check(kwStrategy, give(s365, 10, "Final insight: strategy focus")),
		check(kwExit, give(sBA, 10, "Final insight: exit focus")),
	}},

	// Part 2: service diagnostics.
	choiceRule{Key: "sd_financial_confidence", Label: "Financial confidence", Options: map[string][]award{
		"Uncertain - I'm often surprised":                            pts(sMA, 25),
		"Not confident - I mostly guess":                             pts(sMA, 30),
		"I avoid financial decisions because I don't trust the data": pts(sMA, 30, sCFO, 15),
	}},
	choiceRule{Key: "sd_numbers_action_frequency", Label: "Numbers action", Options: map[string][]award{
		"Quarterly - when accounts come through":                pts(sMA, 20),
		"Rarely - I don't find them useful":                     pts(sMA, 25),
		"Never - I don't get meaningful management information": pts(sMA, 30),
	}},
	choiceRule{Key: "sd_benchmark_awareness", Label: "Benchmark awareness", Options: map[string][]award{
		"Roughly - I have a general sense":            pts(sBM, 15),
		"No - I'd love to know but don't have access": pts(sBM, 30),
		"Never considered it":                         pts(sBM, 25),
	}},
	choiceRule{Key: "sd_founder_dependency", Label: "Founder dependency", Options: map[string][]award{
		"Significant problems - but wouldn't collapse": pts(sSA, 15),
		"Chaos - I'm essential to everything":          pts(sSA, 30, sCOO, 20),
		"I honestly don't know - never tested it":      pts(sSA, 20),
	}},
	choiceRule{Key: "sd_manual_work_percentage", Label: "Manual work", Options: map[string][]award{
		"Some - maybe 10-20%":                       pts(sAuto, 10),
		"Significant - probably 30-50%":             pts(sSA, 20, sAuto, 30),
		"Too much - over half our effort is manual": pts(sSA, 25, sAuto, 35),
		"I don't know - never measured it":          pts(sSA, 15),
	}},
	multiRule{Key: "sd_manual_tasks", Label: "Manual task", Options: map[string][]award{
		"Data entry between systems": {give(sAuto, 20, "Manual task: data entry")},
		"Generating reports manually": {
			give(sAuto, 15, "Manual task: report generation"),
			give(sMA, 10, "Manual task: report generation"),
		},
		"Processing invoices":                 {give(sAuto, 20, "Manual task: invoice processing")},
		"Chasing people (emails, follow-ups)": {give(sAuto, 15, "Manual task: follow-ups")},
		"Creating documents from scratch":     {give(sAuto, 15, "Manual task: document creation")},
		"Approval workflows (getting sign-offs)": {
			give(sAuto, 15, "Manual task: approvals"),
			give(sSA, 10, "Manual task: approvals"),
		},
		"Reconciling data between systems": {
			give(sAuto, 20, "Manual task: reconciliation"),
			give(sMA, 15, "Manual task: reconciliation"),
		},
	}},
	choiceRule{Key: "sd_problem_awareness_speed", Label: "Problem awareness", Options: map[string][]award{
		"Days later - when problems compound":      pts(sSA, 20),
		"Often too late - when customers complain": pts(sSA, 25),
		"We're often blindsided":                   pts(sSA, 30, sMA, 15),
	}},
	choiceRule{Key: "sd_plan_clarity", Label: "Plan clarity", Options: map[string][]award{
		"Sort of - I know what I want to achieve":          pts(s365, 10),
		"I have goals but not a real plan":                 pts(s365, 20),
		"I'm too busy to plan":                             pts(s365, 25),
		"I've given up on planning - things always change": pts(s365, 25),
	}},
	choiceRule{Key: "sd_accountability_source", Label: "Accountability", Options: map[string][]award{
		"My spouse/family (informally)": pts(s365, 15),
		"No one - just me":              pts(s365, 20),
	}},
	choiceRule{Key: keyGrowthBlocker, Label: "Growth blocker", Options: map[string][]award{
		"Lack of clarity on where to focus":          pts(s365, 25),
		"Not enough leads or customers":              pts(sBM, 10),
		"Can't deliver more without breaking things": pts(sSA, 25, sAuto, 15),
		"Don't have the right people":                pts(sCOO, 25),
		"Don't have the capital":                     pts(sCFO, 25),
		"Market conditions / external factors":       pts(sBM, 15),
	}},
	choiceRule{Key: "sd_documentation_readiness", Label: "Documentation", Options: map[string][]award{
		"Probably - most things are documented":    pts(sBA, 10),
		"It would take weeks to pull together":     pts(sBA, 20),
		"Months - things are scattered everywhere": pts(sBA, 25),
		"I don't know where I'd even start":        pts(sBA, 30),
	}},
	choiceRule{Key: "sd_valuation_understanding", Label: "Valuation", Options: map[string][]award{
		"Roughly - I have a sense of the multiple": pts(sBM, 10),
		"No idea - it's never come up":             pts(sBM, 20, sBA, 15),
		"I try not to think about it":              pts(sBM, 25, sBA, 20),
	}},
	choiceRule{Key: keyExitTimeline, Label: "Exit timeline", Options: map[string][]award{
		"Already exploring options":               pts(sBA, 35),
		"1-3 years - actively preparing":          pts(sBA, 30),
		"3-5 years - need to start thinking":      pts(sBA, 20),
		"5-10 years - distant horizon":            pts(sBA, 10),
		"No exit plan - haven't thought about it": pts(sBA, 15),
	}},
	choiceRule{Key: "sd_competitive_position", Label: "Competitive position", Options: map[string][]award{
		"We're competitive - holding our own": pts(sBM, 10),
		"We're losing ground to competitors":  pts(sBM, 30),
		"I don't really know how we compare":  pts(sBM, 25),
	}},
	textRule{Key: "sd_operational_frustration", Checks: []keywordCheck{
		check([]string{"manual", "repetitive", "data entry", "copy", "paste"}, give(sAuto, 25, "Operational frustration: manual work")),
		check([]string{"systems", "process", "broken", "inefficient", "clunky"}, give(sSA, 20, "Operational frustration: systems issues")),
		check([]string{"team", "people", "staff", "hire", "training"}, give(sCOO, 15, "Operational frustration: people issues")),
		check([]string{"time", "hours", "slow", "waiting", "bottleneck"},
			give(sAuto, 15, "Operational frustration: time/bottlenecks"),
			give(sSA, 15, "Operational frustration: time/bottlenecks")),
		check([]string{"reports", "numbers", "data", "spreadsheet"},
			give(sMA, 15, "Operational frustration: reporting"),
			give(sAuto, 10, "Operational frustration: reporting")),
	}},
}

// ScoredQuestions returns the response keys the rule tables read, in survey
// order.
func ScoredQuestions() []string {
	keys := make([]string, len(questionnaire))
	for i, q := range questionnaire {
		keys[i] = q.key()
	}
	return keys
}
