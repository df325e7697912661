package intake

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"

	"github.com/sells-group/discovery-cli/internal/scorer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "r.json", `{"dd_weekly_hours":"70+","dd_non_negotiables":["Family time","Health"]}`)

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "70+", r["dd_weekly_hours"])
	assert.Equal(t, []any{"Family time", "Health"}, r["dd_non_negotiables"])
}

func TestLoadFile_YAMLEnvelope(t *testing.T) {
	path := writeFile(t, "r.yaml", `
id: acme-1
client:
  name: Sam Owner
  company: Acme
responses:
  dd_weekly_hours: "60-70"
  sd_manual_tasks:
    - Invoicing
`)

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "60-70", r["dd_weekly_hours"])
	assert.Equal(t, []any{"Invoicing"}, r["sd_manual_tasks"])
	assert.NotContains(t, r, "client")
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(writeFile(t, "r.txt", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")

	_, err = LoadFile(writeFile(t, "r.json", "{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intake: parse")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadRespondents_JSONList(t *testing.T) {
	path := writeFile(t, "batch.json", `[
		{"id":"a","client":"Alex","responses":{"dd_weekly_hours":"70+"}},
		{"dd_weekly_hours":"<40"}
	]`)

	got, err := LoadRespondents(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "Alex", got[0].Client.Name)
	assert.Equal(t, "<40", got[1].Responses["dd_weekly_hours"])
}

func TestLoadRespondents_SingleDocument(t *testing.T) {
	got, err := LoadRespondents(writeFile(t, "one.yml", "dd_weekly_hours: 70+\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "70+", got[0].Responses["dd_weekly_hours"])
}

func TestLoadCSV(t *testing.T) {
	in := "id,client,email,dd_weekly_hours,dd_non_negotiables,dd_sleep_thief\n" +
		"r1,Sam,sam@acme.test,70+,Family time; Health ;,Cash flow\n" +
		"r2,Jo,,<40,,\n" +
		",,,,,\n"

	got, err := LoadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "Sam", got[0].Client.Name)
	assert.Equal(t, "sam@acme.test", got[0].Client.Email)
	assert.Equal(t, "70+", got[0].Responses["dd_weekly_hours"])
	assert.Equal(t, []any{"Family time", "Health"}, got[0].Responses["dd_non_negotiables"])
	assert.Equal(t, "Cash flow", got[0].Responses["dd_sleep_thief"])

	assert.NotContains(t, got[1].Responses, "dd_non_negotiables")
	assert.Len(t, got[1].Responses, 1)
}

func TestLoadCSV_UTF8BOM(t *testing.T) {
	in := "\xef\xbb\xbfdd_weekly_hours\n70+\n"
	got, err := LoadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "70+", got[0].Responses["dd_weekly_hours"])
}

func TestLoadCSV_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("dd_weekly_hours,dd_sleep_thief\n60-70,Café costs\n"))
	require.NoError(t, err)

	got, err := LoadCSV(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "60-70", got[0].Responses["dd_weekly_hours"])
	assert.Equal(t, "Café costs", got[0].Responses["dd_sleep_thief"])
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
}

func TestLoadXLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Responses")
	require.NoError(t, err)
	for _, rec := range [][]string{
		{"id", "company", "sd_manual_tasks", "dd_weekly_hours"},
		{"x1", "Acme", "Invoicing;Payroll", "70+"},
	} {
		row := sheet.AddRow()
		for _, v := range rec {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, f.Save(path))

	got, err := LoadXLSX(path, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Client.Company)
	assert.Equal(t, []any{"Invoicing", "Payroll"}, got[0].Responses["sd_manual_tasks"])

	_, err = LoadXLSX(path, "Nope")
	assert.Error(t, err)

	viaExt, err := LoadRespondents(path)
	require.NoError(t, err)
	assert.Len(t, viaExt, 1)
}

func TestLoadedResponsesScore(t *testing.T) {
	got, err := LoadCSV(strings.NewReader("dd_non_negotiables\nFamily time;Health\n"))
	require.NoError(t, err)
	result := scorer.Score(got[0].Responses)
	assert.NotNil(t, result)
}

func TestDecode(t *testing.T) {
	r, err := Decode(strings.NewReader(`{"client":{"name":"Sam","company":"Acme"},"responses":{"dd_core_frustration":"cash"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Sam", r.Client.Name)
	assert.Equal(t, "Acme", r.Client.Company)
	assert.Equal(t, "cash", r.Responses["dd_core_frustration"])

	r, err = Decode(strings.NewReader(`{"dd_core_frustration":"cash"}`))
	require.NoError(t, err)
	assert.Equal(t, "cash", r.Responses["dd_core_frustration"])

	_, err = Decode(strings.NewReader(`{not json`))
	assert.Error(t, err)
}
