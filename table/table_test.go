package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Grid
	}{
		{
			name:  "blank line dropped",
			input: "a b\nc\n\nd e f",
			want:  Grid{{"a", "b"}, {"c"}, {"d", "e", "f"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  Grid{},
		},
		{
			name:  "whitespace only",
			input: " \t\n\n   \r\n",
			want:  Grid{},
		},
		{
			name:  "runs of whitespace collapse",
			input: "  name \t\t qty   price  ",
			want:  Grid{{"name", "qty", "price"}},
		},
		{
			name:  "windows line endings",
			input: "a b\r\nc d\r\n",
			want:  Grid{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "unicode whitespace",
			input: "x y z\n　\nw",
			want:  Grid{{"x", "y", "z"}, {"w"}},
		},
		{
			name:  "quotes kept verbatim",
			input: `say "hi"`,
			want:  Grid{{"say", `"hi"`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildIdempotent(t *testing.T) {
	input := "Item Qty\nApple 3\n\n  Pear 10 extra\n"
	assert.Equal(t, Build(input), Build(input))
}

func TestGridCellsAndWidth(t *testing.T) {
	g := Grid{{"a", "b"}, {"c"}, {"d", "e", "f"}}
	assert.Equal(t, 6, g.Cells())
	assert.Equal(t, 3, g.Width())

	assert.Equal(t, 0, Grid{}.Cells())
	assert.Equal(t, 0, Grid{}.Width())
}

func TestGridString(t *testing.T) {
	g := Grid{{"name", "qty"}, {"apple", "3"}, {"x"}}
	assert.Equal(t, "name   qty\napple  3\nx\n", g.String())
	assert.Equal(t, "", Grid{}.String())
}

func TestGridMarkdown(t *testing.T) {
	g := Grid{{"a", "b|c"}, {"*d*"}}
	want := "| A | B |\n" +
		"| --- | --- |\n" +
		"| a | b\\|c |\n" +
		"| \\*d\\* |  |\n"
	assert.Equal(t, want, g.Markdown())
	assert.Equal(t, "", Grid{}.Markdown())
}

func FuzzBuild(f *testing.F) {
	f.Add("a b\nc\n\nd e f")
	f.Add("")
	f.Add(" \u0085\r\n\t")
	f.Add("\xff\xfe broken utf8")
	f.Fuzz(func(t *testing.T, input string) {
		grid := Build(input)
		if grid == nil {
			t.Fatal("grid must not be nil")
		}
		for _, row := range grid {
			if len(row) == 0 {
				t.Fatalf("empty row in %q", input)
			}
			for _, cell := range row {
				if cell == "" {
					t.Fatalf("empty cell in %q", input)
				}
			}
		}
	})
}
