// Package export writes engagement results to CSV, XLSX and Notion.
package export

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
	"github.com/sells-group/discovery-cli/internal/store"
)

// Row pairs an engagement with its report. Report is nil before Pass1.
type Row struct {
	Engagement model.Engagement
	Report     *model.Report
}

// Collect loads the engagements matching filter along with their reports.
func Collect(ctx context.Context, st store.Store, filter model.EngagementFilter) ([]Row, error) {
	engagements, err := st.ListEngagements(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "export: list engagements")
	}

	rows := make([]Row, 0, len(engagements))
	for _, e := range engagements {
		r, err := st.GetReport(ctx, e.ID)
		switch {
		case err == nil:
		case eris.Is(err, store.ErrNotFound):
			r = nil
		default:
			return nil, eris.Wrapf(err, "export: load report %s", e.ID)
		}
		rows = append(rows, Row{Engagement: e, Report: r})
	}
	return rows, nil
}

// Header returns the column names used by the tabular exports.
func Header() []string {
	h := []string{"engagement_id", "client", "company", "email", "status", "created_at"}
	for _, def := range scorer.Services() {
		h = append(h, string(def.Code))
	}
	return append(h,
		"primary",
		"secondary",
		"burnout",
		"capital_raising",
		"lifestyle_transformation",
		"urgency_multiplier",
		"completeness_score",
		"completeness_status",
		"ruleset_hash",
	)
}

// Record flattens a row into Header order. Report columns are blank when
// the report is missing.
func Record(row Row) []string {
	e := row.Engagement
	rec := []string{
		e.ID,
		e.Client.Name,
		e.Client.Company,
		e.Client.Email,
		string(e.Status),
		e.CreatedAt.UTC().Format(time.RFC3339),
	}

	r := row.Report
	for _, def := range scorer.Services() {
		v := ""
		if r != nil {
			if s, ok := r.ServiceScores[def.Code]; ok {
				v = strconv.Itoa(s.Score)
			}
		}
		rec = append(rec, v)
	}

	if r == nil {
		return append(rec, make([]string, 9)...)
	}
	return append(rec,
		joinCodes(r.Primary),
		joinCodes(r.Secondary),
		strconv.FormatBool(r.Patterns.BurnoutDetected),
		strconv.FormatBool(r.Patterns.CapitalRaisingDetected),
		strconv.FormatBool(r.Patterns.LifestyleTransformationDetected),
		strconv.FormatFloat(r.UrgencyMultiplier, 'f', -1, 64),
		strconv.Itoa(r.Completeness.Score),
		string(r.Completeness.Status),
		r.RulesetHash,
	)
}

func joinCodes(services []*scorer.ServiceScore) string {
	codes := make([]string, len(services))
	for i, s := range services {
		codes[i] = string(s.Code)
	}
	return strings.Join(codes, ";")
}
