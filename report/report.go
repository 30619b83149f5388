// Package report renders conversion results for people.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/opengs/ocr2sheet"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders every result as its own section separated by horizontal rules.
func Markdown(results []ocr2sheet.Result) string {
	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("---\n\n")
		}
		writeResult(&sb, result)
	}
	return sb.String()
}

func writeResult(sb *strings.Builder, result ocr2sheet.Result) {
	fmt.Fprintf(sb, "## Image %d", result.Index)
	if result.Path != "" {
		fmt.Fprintf(sb, ": %s", result.Path)
	}
	sb.WriteString("\n\n")

	if result.Err != nil {
		fmt.Fprintf(sb, "**Error:** %s\n\n", strings.ReplaceAll(result.Err.Error(), "\n", " "))
	}

	sb.WriteString("### Extracted text\n\n")
	writeFenced(sb, "text", result.Text)

	sb.WriteString("### Table\n\n")
	if tableMarkdown := result.Grid.Markdown(); tableMarkdown != "" {
		sb.WriteString(tableMarkdown)
		sb.WriteString("\n")
	} else {
		sb.WriteString("_No rows._\n\n")
	}

	if result.Code != "" {
		fmt.Fprintf(sb, "### Generated code (%s)\n\n", result.Dialect.Label())
		writeFenced(sb, result.Dialect.Language(), result.Code)
	}

	if result.Check != nil {
		switch {
		case result.Check.Err != nil:
			fmt.Fprintf(sb, "**Script check failed:** %s\n\n", strings.ReplaceAll(result.Check.Err.Error(), "\n", " "))
		case result.Check.Matches:
			fmt.Fprintf(sb, "Script check: %d cells written as expected.\n\n", len(result.Check.Writes))
		default:
			fmt.Fprintf(sb, "**Script check:** %d cells written, they differ from the table.\n\n", len(result.Check.Writes))
		}
	}
}

// Fence is always longer than any backtick run inside the content.
func writeFenced(sb *strings.Builder, language string, content string) {
	fence := strings.Repeat("`", max(3, longestRun(content, '`')+1))
	sb.WriteString(fence)
	sb.WriteString(language)
	sb.WriteString("\n")
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n\n")
}

func longestRun(s string, c rune) int {
	longest, current := 0, 0
	for _, r := range s {
		if r == c {
			current++
			longest = max(longest, current)
		} else {
			current = 0
		}
	}
	return longest
}

// HTML renders [Markdown] output as an HTML fragment. Raw HTML from OCR text is not passed through.
func HTML(results []ocr2sheet.Result) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(results)), &buf); err != nil {
		return "", errors.Join(errors.New("failed to render markdown"), err)
	}
	return buf.String(), nil
}
