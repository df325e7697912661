package intake

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/discovery-cli/internal/scorer"
)

// MultiSelectSeparator splits multi-choice cells in tabular input.
const MultiSelectSeparator = ";"

var multiSelectKeys = map[string]bool{
	"dd_non_negotiables": true,
	"sd_manual_tasks":    true,
}

// LoadCSV reads respondents from a CSV with a header row of question keys.
// UTF-8 with or without BOM and BOM-marked UTF-16 are accepted.
func LoadCSV(r io.Reader) ([]Respondent, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "intake: read csv")
	}
	return fromTable(records)
}

// LoadXLSX reads respondents from a workbook sheet laid out like the CSV
// form. An empty sheet name selects the first sheet.
func LoadXLSX(path, sheetName string) ([]Respondent, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "intake: open xlsx")
	}

	var sheet *xlsx.Sheet
	switch {
	case sheetName != "":
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("intake: sheet %q not found", sheetName)
		}
		sheet = s
	case len(f.Sheets) == 0:
		return nil, eris.New("intake: workbook has no sheets")
	default:
		sheet = f.Sheets[0]
	}

	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		records = append(records, cells)
	}
	return fromTable(records)
}

func fromTable(records [][]string) ([]Respondent, error) {
	if len(records) == 0 {
		return nil, eris.New("intake: missing header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]Respondent, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		r := Respondent{Responses: scorer.Responses{}}
		for i, cell := range rec {
			if i >= len(header) || header[i] == "" {
				continue
			}
			key := header[i]
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}

			switch {
			case key == "id":
				r.ID = cell
			case key == "client" || key == "client_name":
				r.Client.Name = cell
			case key == "company":
				r.Client.Company = cell
			case key == "email":
				r.Client.Email = cell
			case multiSelectKeys[key]:
				r.Responses[key] = splitMulti(cell)
			default:
				r.Responses[key] = cell
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func splitMulti(cell string) []any {
	parts := strings.Split(cell, MultiSelectSeparator)
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
