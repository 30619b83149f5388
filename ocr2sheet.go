// Package ocr2sheet converts photos of tables into code that recreates the
// table in a spreadsheet. Every image goes through the same steps: OCR,
// splitting the text into a ragged grid and emitting VBA or Apps Script code.
package ocr2sheet

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/opengs/ocr2sheet/emit"
	"github.com/opengs/ocr2sheet/scripting"
	"github.com/opengs/ocr2sheet/table"
)

// Conversion result of one image
type Result struct {
	ID uuid.UUID
	// Position of the image in the batch. Starts from 1
	Index    int
	Path     string
	MimeType string
	// Raw OCR output
	Text    string
	Grid    table.Grid
	Dialect emit.Dialect
	Code    string
	// Only set for Apps Script code when script check is enabled
	Check *ScriptCheck
	// Not empty if the image failed. Other fields are filled up to the failed step.
	Err error
}

// Outcome of running generated Apps Script against an in-memory sheet
type ScriptCheck struct {
	Writes []scripting.Write
	// Every grid cell was written to its address with its value and nothing else was written
	Matches bool
	Err     error
}

type resultJSON struct {
	ID       string       `json:"id"`
	Index    int          `json:"index"`
	Path     string       `json:"path"`
	MimeType string       `json:"mimeType,omitempty"`
	Text     string       `json:"text"`
	Grid     table.Grid   `json:"grid"`
	Dialect  emit.Dialect `json:"dialect"`
	Code     string       `json:"code"`
	Check    *checkJSON   `json:"check,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type checkJSON struct {
	Writes  []scripting.Write `json:"writes"`
	Matches bool              `json:"matches"`
	Error   string            `json:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		ID:       r.ID.String(),
		Index:    r.Index,
		Path:     r.Path,
		MimeType: r.MimeType,
		Text:     r.Text,
		Grid:     r.Grid,
		Dialect:  r.Dialect,
		Code:     r.Code,
		Error:    errorString(r.Err),
	}
	if out.Grid == nil {
		out.Grid = table.Grid{}
	}
	if r.Check != nil {
		out.Check = &checkJSON{
			Writes:  r.Check.Writes,
			Matches: r.Check.Matches,
			Error:   errorString(r.Check.Err),
		}
		if out.Check.Writes == nil {
			out.Check.Writes = []scripting.Write{}
		}
	}
	return json.Marshal(out)
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
