package emit

import (
	"strings"

	"github.com/opengs/ocr2sheet/table"
)

const appsScriptLoop = `
  for (var i = 0; i < data.length; i++) {
    for (var j = 0; j < data[i].length; j++) {
      sheet.getRange(i + 1, j + 1).setValue(data[i][j]);
    }
  }
}
`

// AppsScript generates a Google Sheets function that copies the grid into a
// nested array literal and writes it cell by cell into the active sheet.
func AppsScript(g table.Grid) string {
	var b strings.Builder
	b.WriteString("function " + AppsScriptFunction + "() {\n")
	b.WriteString("  var sheet = SpreadsheetApp.getActiveSpreadsheet().getActiveSheet();\n")
	b.WriteString("  var data = [\n")
	for i, row := range g {
		b.WriteString("    [")
		for j, cell := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(`"`)
			b.WriteString(cell)
			b.WriteString(`"`)
		}
		b.WriteString("]")
		if i < len(g)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  ];\n")
	b.WriteString(appsScriptLoop)
	return b.String()
}
