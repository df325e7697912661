// Package intake loads assessment response sets from JSON, YAML, CSV and
// XLSX files.
package intake

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
)

// Respondent is one completed assessment read from a tabular source.
type Respondent struct {
	ID        string           `json:"id,omitempty" yaml:"id,omitempty"`
	Client    model.Client     `json:"client" yaml:"client"`
	Responses scorer.Responses `json:"responses" yaml:"responses"`
}

// LoadFile reads a single response set from a .json, .yaml or .yml file.
// The document is either a bare question-key map or a respondent envelope
// with a "responses" object.
func LoadFile(path string) (scorer.Responses, error) {
	r, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	return r.Responses, nil
}

// LoadRespondents reads every respondent in path, choosing the decoder by
// file extension. JSON and YAML files may hold one document or a list.
func LoadRespondents(path string) ([]Respondent, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "intake: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(path, "")
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "intake: read %s", path)
		}
		var list []map[string]any
		if err := unmarshal(ext, data, &list); err == nil {
			out := make([]Respondent, 0, len(list))
			for _, doc := range list {
				out = append(out, fromDocument(doc))
			}
			return out, nil
		}
		r, err := loadDocument(path)
		if err != nil {
			return nil, err
		}
		return []Respondent{*r}, nil
	default:
		return nil, eris.Errorf("intake: unsupported file type %q", ext)
	}
}

// Decode reads one JSON respondent document, bare or enveloped, from r.
func Decode(r io.Reader) (Respondent, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Respondent{}, eris.Wrap(err, "intake: decode")
	}
	return fromDocument(doc), nil
}

func loadDocument(path string) (*Respondent, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, eris.Errorf("intake: unsupported file type %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "intake: read %s", path)
	}

	var doc map[string]any
	if err := unmarshal(ext, data, &doc); err != nil {
		return nil, eris.Wrapf(err, "intake: parse %s", path)
	}
	r := fromDocument(doc)
	return &r, nil
}

func unmarshal(ext string, data []byte, v any) error {
	if ext == ".json" {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// fromDocument accepts both a bare responses map and the envelope form.
func fromDocument(doc map[string]any) Respondent {
	inner, ok := doc["responses"].(map[string]any)
	if !ok {
		if doc == nil {
			doc = map[string]any{}
		}
		return Respondent{Responses: scorer.Responses(doc)}
	}

	r := Respondent{Responses: scorer.Responses(inner)}
	r.ID, _ = doc["id"].(string)
	switch c := doc["client"].(type) {
	case string:
		r.Client.Name = c
	case map[string]any:
		r.Client.Name, _ = c["name"].(string)
		r.Client.Company, _ = c["company"].(string)
		r.Client.Email, _ = c["email"].(string)
	}
	return r
}
