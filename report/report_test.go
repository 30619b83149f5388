package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/opengs/ocr2sheet"
	"github.com/opengs/ocr2sheet/emit"
	"github.com/opengs/ocr2sheet/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []ocr2sheet.Result {
	grid := table.Build("Item Qty\nApple 3")
	return []ocr2sheet.Result{
		{
			Index:   1,
			Path:    "receipt.png",
			Text:    "Item Qty\nApple 3",
			Grid:    grid,
			Dialect: emit.DialectVBA,
			Code:    emit.VBA(grid),
		},
		{
			Index:   2,
			Path:    "blurred.png",
			Dialect: emit.DialectVBA,
			Err:     errors.New("failed to extract text from image\nbackend is down"),
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResults())

	assert.True(t, strings.HasPrefix(md, "## Image 1: receipt.png\n\n### Extracted text\n\n```text\nItem Qty\nApple 3\n```\n\n"))
	assert.Contains(t, md, "### Table\n\n| A | B |\n| --- | --- |\n| Item | Qty |\n| Apple | 3 |\n")
	assert.Contains(t, md, "### Generated code (VBA for Excel)\n\n```vbscript\nSub LoadDataIntoExcel()\n")
	assert.Contains(t, md, "End Sub\n```\n\n---\n\n## Image 2: blurred.png\n\n")
	assert.Contains(t, md, "**Error:** failed to extract text from image backend is down\n")
	assert.Contains(t, md, "_No rows._")
	assert.Equal(t, 1, strings.Count(md, "\n---\n"))
	assert.NotContains(t, strings.SplitN(md, "## Image 2", 2)[1], "Generated code")
}

func TestMarkdownEmpty(t *testing.T) {
	assert.Empty(t, Markdown(nil))
}

func TestMarkdownFenceLongerThanContent(t *testing.T) {
	md := Markdown([]ocr2sheet.Result{{Index: 1, Text: "a ```` b", Grid: table.Grid{}}})
	assert.Contains(t, md, "`````text\na ```` b\n`````\n")
}

func TestMarkdownScriptCheck(t *testing.T) {
	results := []ocr2sheet.Result{
		{Index: 1, Grid: table.Grid{{"a"}}, Dialect: emit.DialectAppsScript, Code: "x", Check: &ocr2sheet.ScriptCheck{Matches: true}},
		{Index: 2, Grid: table.Grid{{"a"}}, Dialect: emit.DialectAppsScript, Code: "x", Check: &ocr2sheet.ScriptCheck{Err: errors.New("SyntaxError")}},
	}
	md := Markdown(results)
	assert.Contains(t, md, "```javascript\nx\n```")
	assert.Contains(t, md, "Script check: 0 cells written as expected.")
	assert.Contains(t, md, "**Script check failed:** SyntaxError")
}

func TestHTML(t *testing.T) {
	results := sampleResults()
	results[0].Text = "<script>alert(1)</script>\nItem Qty"
	results[0].Grid = table.Grid{{"<b>Item</b>", "Qty"}}

	html, err := HTML(results)
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>Image 1: receipt.png</h2>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `<code class="language-vbscript">`)
	assert.Contains(t, html, "<hr>")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>Item</b>")
}
