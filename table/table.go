// Package table turns OCR output into a ragged grid of string cells.
package table

import (
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"
)

// Grid is an ordered list of rows, each an ordered list of cells.
// Rows may have different lengths.
type Grid [][]string

// Build splits text into lines, drops lines that are blank after trimming and
// splits every remaining line on runs of whitespace.
//
// Build never fails. Text without any non-blank line gives an empty grid.
func Build(text string) Grid {
	grid := Grid{}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		grid = append(grid, strings.Fields(line))
	}
	return grid
}

// Cells returns the number of cells across all rows.
func (g Grid) Cells() int {
	cells := 0
	for _, row := range g {
		cells += len(row)
	}
	return cells
}

// Width returns the length of the longest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		width = max(width, len(row))
	}
	return width
}

// String renders the grid as tab aligned columns.
func (g Grid) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, row := range g {
		w.Write([]byte(strings.Join(row, "\t") + "\n"))
	}
	w.Flush()
	return b.String()
}

// Markdown renders the grid as a GitHub flavoured markdown table. Short rows
// are padded with empty cells for display. The header row holds spreadsheet
// column letters so that the first data row is not promoted to a header.
func (g Grid) Markdown() string {
	width := g.Width()
	if width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("|")
	for col := 1; col <= width; col++ {
		b.WriteString(" ")
		label, _ := excelize.ColumnNumberToName(col)
		b.WriteString(label)
		b.WriteString(" |")
	}
	b.WriteString("\n|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range g {
		b.WriteString("|")
		for col := 0; col < width; col++ {
			b.WriteString(" ")
			if col < len(row) {
				b.WriteString(markdownEscaper.Replace(row[col]))
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
	"~", `\~`,
)
