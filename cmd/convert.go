package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/opengs/ocr2sheet"
	"github.com/opengs/ocr2sheet/emit"
	"github.com/opengs/ocr2sheet/extract"
	"github.com/opengs/ocr2sheet/source"
	"github.com/opengs/ocr2sheet/source/eml"
	sourcefs "github.com/opengs/ocr2sheet/source/fs"
	"github.com/opengs/ocr2sheet/workbook"
	"github.com/spf13/cobra"
)

var convertCMD = &cobra.Command{
	Use:   "convert [paths...]",
	Short: "Convert images to spreadsheet code",
	Long: "Converts image files, directories with images and .eml messages with attached images. " +
		"Every image is processed separately and gets its own section in the output.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dialectName, _ := cmd.Flags().GetString("dialect")
		dialect, err := emit.ParseDialect(dialectName)
		if err != nil {
			return err
		}
		if dialect == emit.DialectUnset {
			return errors.Join(emit.ErrDialectNotSelected, errors.New("use --dialect VBA or --dialect APPS_SCRIPT"))
		}
		format, _ := cmd.Flags().GetString("format")
		if !slices.Contains([]string{formatMarkdown, formatHTML, formatJSON, formatCode}, format) {
			return fmt.Errorf("output format %q is not supported", format)
		}

		sources, closeSources, err := openSources(args)
		if err != nil {
			return err
		}
		defer closeSources()

		ocrProvider, destroyProvider, err := newOCRProvider(cmd.Context(), cmd.Flags())
		if err != nil {
			return err
		}
		defer destroyProvider()

		check, _ := cmd.Flags().GetBool("check")
		engine := ocr2sheet.NewEngine(extract.New(ocrProvider), ocr2sheet.WithLogger(slog.Default()), ocr2sheet.WithScriptCheck(check))

		results, processErr := engine.Process(cmd.Context(), dialect, sources...)

		var out io.Writer = cmd.OutOrStdout()
		if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
			outputFile, err := os.Create(outputPath)
			if err != nil {
				return errors.Join(errors.New("failed to create output file"), err)
			}
			defer outputFile.Close()
			out = outputFile
		}
		if err := writeResults(out, format, results); err != nil {
			return errors.Join(errors.New("failed to write results"), err)
		}

		if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
			if err := writeWorkbookFile(xlsxPath, results); err != nil {
				return err
			}
			slog.Info("workbook written", slog.String("path", xlsxPath))
		}

		if processErr != nil {
			return processErr
		}
		if failed := countFailed(results); failed > 0 {
			return fmt.Errorf("%d of %d images failed", failed, len(results))
		}
		return nil
	},
}

// Files are read relative to the working directory when possible so that paths in the output stay as given
func openSources(paths []string) ([]source.Source, func(), error) {
	var sources []source.Source
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			closeAll()
			return nil, nil, errors.Join(fmt.Errorf("failed to read %s", p), err)
		}

		if strings.EqualFold(filepath.Ext(p), ".eml") && !info.IsDir() {
			f, err := os.Open(p)
			if err != nil {
				closeAll()
				return nil, nil, errors.Join(fmt.Errorf("failed to open %s", p), err)
			}
			closers = append(closers, f)
			sources = append(sources, eml.New(filepath.ToSlash(p), f))
			continue
		}

		fsys, name := os.DirFS("."), filepath.ToSlash(filepath.Clean(p))
		if !filepath.IsLocal(p) {
			fsys, name = os.DirFS(filepath.Dir(p)), filepath.Base(p)
			if info.IsDir() {
				fsys, name = os.DirFS(p), "."
			}
		}

		if info.IsDir() {
			sources = append(sources, sourcefs.New(fsys, name))
		} else {
			sources = append(sources, sourcefs.NewFiles(fsys, name))
		}
	}

	return sources, closeAll, nil
}

func writeWorkbookFile(path string, results []ocr2sheet.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Join(errors.New("failed to create workbook file"), err)
	}
	if err := workbook.Write(f, workbookSheets(results)...); err != nil {
		f.Close()
		return errors.Join(errors.New("failed to write workbook"), err)
	}
	return f.Close()
}

func init() {
	convertCMD.Flags().String("dialect", "", "Language of the generated code. Possible values are VBA, APPS_SCRIPT. Has to be selected explicitly")
	convertCMD.Flags().String("format", formatMarkdown, "Output format. Possible values are markdown, html, json, code")
	convertCMD.Flags().StringP("output", "o", "", "Write output to the file instead of stdout")
	convertCMD.Flags().String("xlsx", "", "Also write recognized tables to the XLSX workbook, one sheet per image")
	convertCMD.Flags().Bool("check", false, "Run generated Apps Script against an in-memory sheet and report if it writes the table")
	addOCRFlags(convertCMD.Flags())
}
