package report

import "github.com/sells-group/discovery-cli/internal/scorer"

// SplitRecommendations takes the first limit recommended services as
// primary and the remaining recommended services as secondary. recs is
// expected in ranked order.
func SplitRecommendations(recs []*scorer.ServiceScore, limit int) (primary, secondary []*scorer.ServiceScore) {
	primary, secondary = []*scorer.ServiceScore{}, []*scorer.ServiceScore{}
	for _, s := range recs {
		if !s.Recommended {
			continue
		}
		if len(primary) < limit {
			primary = append(primary, s)
		} else {
			secondary = append(secondary, s)
		}
	}
	return primary, secondary
}
