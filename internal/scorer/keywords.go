package scorer

// Named keyword sets shared by several free-text questions and the pattern
// detector. Matching is case-insensitive substring containment.
var (
	kwTeam              = []string{"team", "people", "staff", "hire", "employee", "manager", "delegate"}
	kwSystems           = []string{"systems", "process", "automate", "efficient", "streamline", "manual", "broken"}
	kwFinancial         = []string{"numbers", "finance", "cash", "profit", "margin", "accounts", "money"}
	kwStrategy          = []string{"strategy", "direction", "plan", "focus", "clarity", "goals"}
	kwExit              = []string{"sell", "exit", "value", "worth", "buyer", "succession", "legacy"}
	kwBurnout           = []string{"tired", "exhaust", "burn", "stress", "overwhelm", "breaking"}
	kwCompetition       = []string{"compete", "competitor", "market", "behind", "losing ground"}
	kwCapital           = []string{"capital", "raise", "invest", "funding", "investor"}
	kwLifestyleRole     = []string{"invest", "portfolio", "ceo", "advisory", "board", "chairman", "non-exec", "step back"}
	kwLifestylePersonal = []string{"family", "children", "wife", "husband", "holiday", "travel", "health"}
	kwTrapped           = []string{"bad marriage", "can't leave", "trapped", "divorce", "ball and chain", "prison", "stuck"}
	kwExhausted         = []string{"needy child", "exhausting", "demanding", "draining"}
)

var keywordSets = map[string][]string{
	"team":               kwTeam,
	"systems":            kwSystems,
	"financial":          kwFinancial,
	"strategy":           kwStrategy,
	"exit":               kwExit,
	"burnout":            kwBurnout,
	"competition":        kwCompetition,
	"capital":            kwCapital,
	"lifestyle_role":     kwLifestyleRole,
	"lifestyle_personal": kwLifestylePersonal,
	"trapped":            kwTrapped,
	"exhausted":          kwExhausted,
}

// KeywordSet returns a copy of the named keyword set, or nil if unknown.
func KeywordSet(name string) []string {
	kws, ok := keywordSets[name]
	if !ok {
		return nil
	}
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}
