package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/opengs/ocr2sheet"
	"github.com/opengs/ocr2sheet/emit"
	"github.com/opengs/ocr2sheet/report"
	"github.com/opengs/ocr2sheet/workbook"
)

const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"
	formatCode     = "code"
)

func writeResults(w io.Writer, format string, results []ocr2sheet.Result) error {
	switch format {
	case formatMarkdown:
		_, err := io.WriteString(w, report.Markdown(results))
		return err
	case formatHTML:
		html, err := report.HTML(results)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case formatCode:
		for _, result := range results {
			if result.Err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s Image %d: %s\n%s\n\n", commentPrefix(result.Dialect), result.Index, result.Path, result.Code); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("output format %q is not supported", format)
}

func commentPrefix(dialect emit.Dialect) string {
	if dialect == emit.DialectVBA {
		return "'"
	}
	return "//"
}

// One worksheet per image named after the image file
func workbookSheets(results []ocr2sheet.Result) []workbook.Sheet {
	sheets := make([]workbook.Sheet, 0, len(results))
	for _, result := range results {
		name := path.Base(result.Path)
		if result.Path == "" {
			name = fmt.Sprintf("Image %d", result.Index)
		}
		sheets = append(sheets, workbook.Sheet{Name: name, Grid: result.Grid})
	}
	return sheets
}

func countFailed(results []ocr2sheet.Result) int {
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}
