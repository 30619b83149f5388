// Package emit generates spreadsheet code that writes a grid into a sheet.
//
// Cell values are placed between double quotes exactly as they are. A value
// containing a double quote produces an unterminated string literal in the
// generated code.
package emit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opengs/ocr2sheet/table"
)

// Dialect selects the language of the generated code.
type Dialect string

// No dialect chosen yet
const DialectUnset Dialect = ""

// Excel VBA macro
const DialectVBA Dialect = "VBA"

// Google Sheets Apps Script (JavaScript)
const DialectAppsScript Dialect = "APPS_SCRIPT"

// Name of the generated VBA procedure
const VBAProcedure = "LoadDataIntoExcel"

// Name of the generated Apps Script function
const AppsScriptFunction = "loadDataToGoogleSheet"

var ErrDialectNotSelected = errors.New("code dialect is not selected")
var ErrUnknownDialect = errors.New("unknown code dialect")

// Func converts a grid into code.
type Func func(g table.Grid) string

// Dialects lists the supported dialects in display order.
func Dialects() []Dialect {
	return []Dialect{DialectVBA, DialectAppsScript}
}

// ParseDialect accepts the dialect constants and the common names people type
// for them. An empty string means the dialect has not been chosen.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DialectUnset, nil
	case "vba", "excel", "vba for excel", "macro":
		return DialectVBA, nil
	case "apps_script", "apps-script", "appsscript", "gas", "js", "javascript", "javascript for google sheets", "google-sheets":
		return DialectAppsScript, nil
	}
	return DialectUnset, fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// For returns the emitter of the dialect.
func For(d Dialect) (Func, error) {
	switch d {
	case DialectVBA:
		return VBA, nil
	case DialectAppsScript:
		return AppsScript, nil
	case DialectUnset:
		return nil, ErrDialectNotSelected
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, string(d))
}

// Label is a human readable name of the dialect.
func (d Dialect) Label() string {
	switch d {
	case DialectVBA:
		return "VBA for Excel"
	case DialectAppsScript:
		return "JavaScript for Google Sheets"
	}
	return string(d)
}

// Language is the syntax highlighting hint for code blocks.
func (d Dialect) Language() string {
	switch d {
	case DialectVBA:
		return "vbscript"
	case DialectAppsScript:
		return "javascript"
	}
	return ""
}

// EntryPoint is the name of the procedure the generated code defines.
func (d Dialect) EntryPoint() string {
	switch d {
	case DialectVBA:
		return VBAProcedure
	case DialectAppsScript:
		return AppsScriptFunction
	}
	return ""
}
