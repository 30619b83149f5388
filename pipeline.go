package ocr2sheet

import (
	"context"
	"errors"

	"github.com/opengs/ocr2sheet/emit"
	"github.com/opengs/ocr2sheet/scripting"
	"github.com/opengs/ocr2sheet/table"
)

// Pipeline builds the grid from OCR text and emits code in the dialect.
// Only an unset or unknown dialect fails.
func Pipeline(text string, dialect emit.Dialect) (table.Grid, string, error) {
	emitter, err := emit.For(dialect)
	if err != nil {
		return nil, "", err
	}

	grid := table.Build(text)
	return grid, emitter(grid), nil
}

// CheckScript runs Apps Script code and compares what it writes with the grid.
func CheckScript(ctx context.Context, grid table.Grid, code string) *ScriptCheck {
	sheet, err := scripting.DryRun(ctx, code, emit.DialectAppsScript.EntryPoint())
	if err != nil {
		return &ScriptCheck{Err: errors.Join(errors.New("generated script failed"), err)}
	}

	writes := sheet.Writes()
	check := &ScriptCheck{Writes: writes, Matches: len(writes) == grid.Cells()}
	for _, write := range writes {
		row, column := write.Cell.Row-1, write.Cell.Column-1
		if row >= len(grid) || column >= len(grid[row]) || grid[row][column] != write.Value {
			check.Matches = false
			break
		}
	}
	return check
}
