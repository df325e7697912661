package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-cli/internal/export"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
)

// Output formats accepted by score, batch and export.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatXLSX  = "xlsx"
)

// writeRows renders rows in format to path, or to stdout when path is empty.
// XLSX always needs a path.
func writeRows(rows []export.Row, format, path string) error {
	if format == formatXLSX {
		if path == "" {
			return eris.New("xlsx output requires --output")
		}
		return export.WriteXLSX(path, rows)
	}

	switch format {
	case formatJSON, formatCSV, formatTable, "":
	default:
		return eris.Errorf("unsupported format %q (want table, json, csv or xlsx)", format)
	}
	if path == "" {
		return encodeRows(os.Stdout, rows, format)
	}
	return writeFile(path, func(w io.Writer) error {
		return encodeRows(w, rows, format)
	})
}

// writeFile creates path and hands it to write. A failed close is reported
// when the write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(f)
}

func encodeRows(out io.Writer, rows []export.Row, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(out, reportsOf(rows))
	case formatCSV:
		return export.WriteCSV(out, rows)
	default:
		formatRowsTable(out, rows)
		return nil
	}
}

// scoredOutput is the JSON shape for a scored respondent.
type scoredOutput struct {
	ID     string        `json:"id,omitempty"`
	Client model.Client  `json:"client"`
	Report *model.Report `json:"report"`
}

func reportsOf(rows []export.Row) []scoredOutput {
	out := make([]scoredOutput, len(rows))
	for i, r := range rows {
		out[i] = scoredOutput{ID: r.Engagement.ID, Client: r.Engagement.Client, Report: r.Report}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatRowsTable writes one line per respondent with its recommendations.
func formatRowsTable(out io.Writer, rows []export.Row) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCLIENT\tPRIMARY\tSECONDARY\tURGENCY\tCOMPLETENESS")
	for _, row := range rows {
		name := row.Engagement.Client.Name
		if name == "" {
			name = row.Engagement.Client.Company
		}
		r := row.Report
		if r == nil {
			_, _ = fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t-\n", row.Engagement.ID, name)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fx\t%d (%s)\n",
			row.Engagement.ID,
			name,
			serviceList(r.Primary),
			serviceList(r.Secondary),
			r.UrgencyMultiplier,
			r.Completeness.Score,
			r.Completeness.Status,
		)
	}
	_ = w.Flush()
}

func serviceList(services []*scorer.ServiceScore) string {
	if len(services) == 0 {
		return "-"
	}
	parts := make([]string, len(services))
	for i, s := range services {
		parts[i] = fmt.Sprintf("%s (%d)", s.Code, s.Score)
	}
	return strings.Join(parts, ", ")
}

// formatScoreDetail writes every service score for a single report.
func formatScoreDetail(out io.Writer, r *model.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERVICE\tSCORE\tCONFIDENCE\tPRIORITY\tRECOMMENDED\tTRIGGERS")
	for _, s := range sortedScores(r) {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d%%\t%d\t%t\t%d\n",
			s.Name, s.Score, s.Confidence, s.Priority, s.Recommended, len(s.Triggers))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nUrgency: %.1fx  Burnout: %t  Capital raising: %t  Lifestyle: %t\n",
		r.UrgencyMultiplier,
		r.Patterns.BurnoutDetected,
		r.Patterns.CapitalRaisingDetected,
		r.Patterns.LifestyleTransformationDetected,
	)
	_, _ = fmt.Fprintf(out, "Completeness: %d (%s)\n", r.Completeness.Score, r.Completeness.Status)
	for _, action := range r.Completeness.AdminActionRequired {
		_, _ = fmt.Fprintf(out, "  - %s\n", action)
	}
}

// sortedScores returns the report's service scores highest first, ties in
// catalogue order.
func sortedScores(r *model.Report) []*scorer.ServiceScore {
	out := make([]*scorer.ServiceScore, 0, len(r.ServiceScores))
	for _, def := range scorer.Services() {
		if s, ok := r.ServiceScores[def.Code]; ok {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b *scorer.ServiceScore) int {
		return b.Score - a.Score
	})
	return out
}
