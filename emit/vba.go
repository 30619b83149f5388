package emit

import (
	"strconv"
	"strings"

	"github.com/opengs/ocr2sheet/table"
)

// VBA generates an Excel macro that writes every cell of the grid into the
// first sheet of the workbook. Missing cells of short rows are not written.
func VBA(g table.Grid) string {
	var b strings.Builder
	b.WriteString("Sub " + VBAProcedure + "()\n")
	b.WriteString("    Dim ws As Worksheet\n")
	b.WriteString("    Set ws = ThisWorkbook.Sheets(1)\n")
	for i, row := range g {
		for j, cell := range row {
			b.WriteString("    ws.Cells(")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(", ")
			b.WriteString(strconv.Itoa(j + 1))
			b.WriteString(`).Value = "`)
			b.WriteString(cell)
			b.WriteString("\"\n")
		}
	}
	b.WriteString("End Sub")
	return b.String()
}
