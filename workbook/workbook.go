// Package workbook exports grids as an Excel workbook, one worksheet per grid.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opengs/ocr2sheet/table"
	"github.com/xuri/excelize/v2"
)

// Excel limit for worksheet names
const maxSheetNameLength = 31

type Sheet struct {
	Name string
	Grid table.Grid
}

// Write stores every cell as text at its 1-based address. Sheet names are made
// valid and unique. At least one worksheet is always written.
func Write(w io.Writer, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(sheets) == 0 {
		sheets = []Sheet{{Name: "Sheet1"}}
	}

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool, len(sheets))
	for i, sheet := range sheets {
		name := uniqueSheetName(sanitizeSheetName(sheet.Name, i+1), used)

		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return errors.Join(fmt.Errorf("failed to rename default worksheet to [%s]", name), err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return errors.Join(fmt.Errorf("failed to create worksheet [%s]", name), err)
		}

		if err := writeGrid(f, name, sheet.Grid); err != nil {
			return errors.Join(fmt.Errorf("failed to fill worksheet [%s]", name), err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return errors.Join(errors.New("failed to write workbook"), err)
	}
	return nil
}

func writeGrid(f *excelize.File, sheetName string, grid table.Grid) error {
	for i, row := range grid {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheetName, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

var sheetNameReplacer = strings.NewReplacer(
	"[", "(",
	"]", ")",
	":", "-",
	"*", "-",
	"?", "-",
	"/", "-",
	`\`, "-",
)

// Quotes are trimmed after truncation: a name may not start or end with one.
func sanitizeSheetName(name string, index int) string {
	name = trimSheetName(truncate(trimSheetName(sheetNameReplacer.Replace(name)), maxSheetNameLength))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index)
	}
	return name
}

func trimSheetName(name string) string {
	return strings.TrimFunc(name, func(r rune) bool {
		return r == '\'' || unicode.IsSpace(r)
	})
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = trimSheetName(truncate(name, maxSheetNameLength-len(suffix))) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, runes int) string {
	if utf8.RuneCountInString(s) <= runes {
		return s
	}
	return string([]rune(s)[:runes])
}
