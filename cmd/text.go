package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/opengs/ocr2sheet"
	"github.com/opengs/ocr2sheet/emit"
	"github.com/spf13/cobra"
)

var textCMD = &cobra.Command{
	Use:   "text [file]",
	Short: "Generate spreadsheet code from already recognized text",
	Long:  "Reads text from the file or stdin, splits it into rows and cells and prints the generated code. No OCR is involved.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dialectName, _ := cmd.Flags().GetString("dialect")
		dialect, err := emit.ParseDialect(dialectName)
		if err != nil {
			return err
		}

		input := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Join(errors.New("failed to open input file"), err)
			}
			defer f.Close()
			input = f
		}

		text, err := io.ReadAll(input)
		if err != nil {
			return errors.Join(errors.New("failed to read input"), err)
		}

		grid, code, err := ocr2sheet.Pipeline(string(text), dialect)
		if err != nil {
			return err
		}

		if showGrid, _ := cmd.Flags().GetBool("grid"); showGrid {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d rows, %d cells\n%s\n", len(grid), grid.Cells(), grid.String())
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
		return err
	},
}

func init() {
	textCMD.Flags().String("dialect", "", "Language of the generated code. Possible values are VBA, APPS_SCRIPT. Has to be selected explicitly")
	textCMD.Flags().Bool("grid", false, "Print recognized table to stderr")
}
