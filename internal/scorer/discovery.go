package scorer

import "math"

// Responses maps question keys to raw answers: strings, string slices,
// decoded JSON arrays, or nil.
type Responses map[string]any

// ServiceScore is the per-service accumulator and final verdict.
type ServiceScore struct {
	Code        ServiceCode `json:"code"`
	Name        string      `json:"name"`
	Score       int         `json:"score"`
	Confidence  int         `json:"confidence"`
	Triggers    []string    `json:"triggers"`
	Priority    int         `json:"priority"`
	Recommended bool        `json:"recommended"`
}

// DetectionPatterns records the cross-question patterns found in a response
// set and the evidence behind each.
type DetectionPatterns struct {
	BurnoutDetected                 bool     `json:"burnoutDetected"`
	BurnoutFlags                    int      `json:"burnoutFlags"`
	BurnoutIndicators               []string `json:"burnoutIndicators"`
	CapitalRaisingDetected          bool     `json:"capitalRaisingDetected"`
	CapitalSignals                  []string `json:"capitalSignals"`
	LifestyleTransformationDetected bool     `json:"lifestyleTransformationDetected"`
	LifestyleSignals                []string `json:"lifestyleSignals"`
	UrgencyMultiplier               float64  `json:"urgencyMultiplier"`
}

// Result is everything Score produces. Recommendations shares pointers with
// Scores.
type Result struct {
	Scores           map[ServiceCode]*ServiceScore `json:"scores"`
	Patterns         DetectionPatterns             `json:"patterns"`
	EmotionalAnchors map[string]string             `json:"emotionalAnchors"`
	Recommendations  []*ServiceScore               `json:"recommendations"`
}

// Score runs the full scoring pipeline over one response set. It is
// deterministic and total: any input, including nil, yields a Result.
func Score(responses Responses) *Result {
	t := newTally()
	for _, q := range questionnaire {
		q.apply(responses, t)
	}

	patterns := DetectionPatterns{
		BurnoutIndicators: []string{},
		CapitalSignals:    []string{},
		LifestyleSignals:  []string{},
		UrgencyMultiplier: 1.0,
	}
	detectBurnout(responses, t, &patterns)
	detectCapitalRaising(responses, t, &patterns)
	detectLifestyleTransformation(responses, t, &patterns)

	patterns.UrgencyMultiplier = urgencyMultiplier(responses)
	for _, s := range t.ordered {
		s.Score = scale(s.Score, patterns.UrgencyMultiplier)
	}

	combine(t)
	recs := finalize(t)

	return &Result{
		Scores:           t.byCode,
		Patterns:         patterns,
		EmotionalAnchors: emotionalAnchors(responses),
		Recommendations:  recs,
	}
}

// tally holds one ServiceScore per catalogue entry for a single invocation.
type tally struct {
	byCode  map[ServiceCode]*ServiceScore
	ordered []*ServiceScore
}

func newTally() *tally {
	t := &tally{
		byCode:  make(map[ServiceCode]*ServiceScore, len(catalogue)),
		ordered: make([]*ServiceScore, 0, len(catalogue)),
	}
	for _, def := range catalogue {
		s := &ServiceScore{
			Code:     def.Code,
			Name:     def.Name,
			Triggers: []string{},
			Priority: 4,
		}
		t.byCode[def.Code] = s
		t.ordered = append(t.ordered, s)
	}
	return t
}

func (t *tally) add(code ServiceCode, points int, trigger string) {
	s := t.byCode[code]
	s.Score += points
	s.Triggers = append(s.Triggers, trigger)
}

// boost multiplies one service's score and records why.
func (t *tally) boost(code ServiceCode, factor float64, trigger string) {
	s := t.byCode[code]
	s.Score = scale(s.Score, factor)
	s.Triggers = append(s.Triggers, trigger)
}

// scale multiplies and rounds half up, matching the survey front end.
func scale(score int, factor float64) int {
	return int(math.Floor(float64(score)*factor + 0.5))
}
