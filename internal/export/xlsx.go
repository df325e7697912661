package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/discovery-cli/internal/model"
)

// Sheet names in the XLSX workbook.
const (
	ScoresSheet   = "Scores"
	TriggersSheet = "Triggers"
)

// WriteXLSX saves a workbook with a Scores sheet (Header/Record layout) and
// a Triggers sheet listing every trigger behind each score.
func WriteXLSX(path string, rows []Row) error {
	f := xlsx.NewFile()

	scores, err := f.AddSheet(ScoresSheet)
	if err != nil {
		return eris.Wrap(err, "export: add scores sheet")
	}
	addRow(scores, Header())
	for _, row := range rows {
		addRow(scores, Record(row))
	}

	triggers, err := f.AddSheet(TriggersSheet)
	if err != nil {
		return eris.Wrap(err, "export: add triggers sheet")
	}
	addRow(triggers, []string{"engagement_id", "service_code", "position", "description"})
	for _, row := range rows {
		if row.Report == nil {
			continue
		}
		for _, t := range model.TriggerRecords(row.Engagement.ID, row.Report.ServiceScores) {
			r := triggers.AddRow()
			r.AddCell().SetString(t.EngagementID)
			r.AddCell().SetString(string(t.ServiceCode))
			r.AddCell().SetInt(t.Position)
			r.AddCell().SetString(t.Description)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	r := sheet.AddRow()
	for _, v := range values {
		r.AddCell().SetString(v)
	}
}
