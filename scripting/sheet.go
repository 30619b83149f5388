// Package scripting runs generated Google Sheets code against an in-memory
// sheet so the cells it would write can be inspected without a spreadsheet.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dop251/goja"
)

// Cell address, 1-based as in the spreadsheet API.
type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Write is a single setValue call.
type Write struct {
	Cell  Cell   `json:"cell"`
	Value string `json:"value"`
}

// Sheet records the writes a script performs.
type Sheet struct {
	writes []Write
	values map[Cell]string
}

func NewSheet() *Sheet {
	return &Sheet{values: make(map[Cell]string)}
}

func (s *Sheet) SetValue(row int, column int, value string) {
	cell := Cell{Row: row, Column: column}
	s.writes = append(s.writes, Write{Cell: cell, Value: value})
	s.values[cell] = value
}

// Writes returns every write in call order.
func (s *Sheet) Writes() []Write {
	return append([]Write(nil), s.writes...)
}

// Value returns the last value written to the cell.
func (s *Sheet) Value(row int, column int) (string, bool) {
	v, ok := s.values[Cell{Row: row, Column: column}]
	return v, ok
}

// Grid returns the written cells as rows. Every row ends at its last written
// column, gaps inside a row are empty strings. Rows above the last written row
// with no writes are empty.
func (s *Sheet) Grid() [][]string {
	lastColumn := make(map[int]int)
	lastRow := 0
	for cell := range s.values {
		lastRow = max(lastRow, cell.Row)
		lastColumn[cell.Row] = max(lastColumn[cell.Row], cell.Column)
	}

	rows := make([][]string, lastRow)
	for r := 1; r <= lastRow; r++ {
		row := make([]string, lastColumn[r])
		for c := range row {
			row[c] = s.values[Cell{Row: r, Column: c + 1}]
		}
		rows[r-1] = row
	}
	return rows
}

// Cells returns the written cells sorted by row and column.
func (s *Sheet) Cells() []Cell {
	cells := make([]Cell, 0, len(s.values))
	for cell := range s.values {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Column < cells[j].Column
	})
	return cells
}

// RegisterSpreadsheetApp exposes a minimal SpreadsheetApp global backed by
// the sheet: getActiveSpreadsheet().getActiveSheet().getRange(row, col).setValue(v).
func (e *GojaEngine) RegisterSpreadsheetApp(sheet *Sheet) error {
	vm := e.vm

	sheetObj := vm.NewObject()
	if err := sheetObj.Set("getRange", func(call goja.FunctionCall) goja.Value {
		row := int(call.Argument(0).ToInteger())
		column := int(call.Argument(1).ToInteger())
		if row < 1 || column < 1 {
			panic(vm.NewGoError(fmt.Errorf("range (%d, %d) is out of bounds", row, column)))
		}

		rangeObj := vm.NewObject()
		rangeObj.Set("setValue", func(call goja.FunctionCall) goja.Value {
			sheet.SetValue(row, column, call.Argument(0).String())
			return rangeObj
		})
		rangeObj.Set("getRow", func(goja.FunctionCall) goja.Value { return vm.ToValue(row) })
		rangeObj.Set("getColumn", func(goja.FunctionCall) goja.Value { return vm.ToValue(column) })
		return rangeObj
	}); err != nil {
		return err
	}

	spreadsheetObj := vm.NewObject()
	if err := spreadsheetObj.Set("getActiveSheet", func(goja.FunctionCall) goja.Value { return sheetObj }); err != nil {
		return err
	}

	appObj := vm.NewObject()
	if err := appObj.Set("getActiveSpreadsheet", func(goja.FunctionCall) goja.Value { return spreadsheetObj }); err != nil {
		return err
	}

	return vm.Set("SpreadsheetApp", appObj)
}

// DryRun defines the generated code in a fresh engine, calls entryPoint and
// returns the sheet with everything the code wrote.
func DryRun(ctx context.Context, code string, entryPoint string) (*Sheet, error) {
	engine := NewEngine()
	sheet := NewSheet()
	if err := engine.RegisterSpreadsheetApp(sheet); err != nil {
		return nil, errors.Join(errors.New("failed to register SpreadsheetApp"), err)
	}

	if _, err := engine.Execute(ctx, code); err != nil {
		return nil, errors.Join(errors.New("failed to load script"), err)
	}
	if _, err := engine.Execute(ctx, entryPoint+"();"); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to run %s", entryPoint), err)
	}

	return sheet, nil
}
