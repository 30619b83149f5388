package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "OCR2SHEET_"

var mainCMD = &cobra.Command{
	Use:   "ocr2sheet",
	Short: "Convert photos of tables to spreadsheet code",
	Long: "Recognizes text on images, splits it into rows and cells and generates " +
		"VBA for Excel or Apps Script for Google Sheets that writes the cells into a sheet.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && (cmd.Flags().Changed("env-file") || !errors.Is(err, fs.ErrNotExist)) {
			return errors.Join(fmt.Errorf("failed to load environment file %s", envFile), err)
		}
		if err := bindEnv(cmd.Flags()); err != nil {
			return err
		}

		logger, level, err := newLogger(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		if level <= slog.LevelDebug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Flags that were not given on the command line are taken from OCR2SHEET_<FLAG_NAME> environment variables
func bindEnv(flags *pflag.FlagSet) error {
	var bindErrors []error
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Changed {
			return
		}
		name := envPrefix + strings.ToUpper(strings.ReplaceAll(flag.Name, "-", "_"))
		value, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		if err := flags.Set(flag.Name, value); err != nil {
			bindErrors = append(bindErrors, fmt.Errorf("bad value of %s environment variable: %w", name, err))
		}
	})
	return errors.Join(bindErrors...)
}

func newLogger(cmd *cobra.Command) (*slog.Logger, slog.Level, error) {
	var level slog.Level
	levelName, _ := cmd.Flags().GetString("log-level")
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, level, errors.Join(errors.New("bad log level"), err)
	}

	options := &slog.HandlerOptions{Level: level}
	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), options)), level, nil
	case "json":
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), options)), level, nil
	}
	return nil, level, fmt.Errorf("log format %q is not supported", format)
}

func init() {
	mainCMD.PersistentFlags().String("log-level", "info", "Log level. Possible values are debug, info, warn, error")
	mainCMD.PersistentFlags().String("log-format", "text", "Log format. Possible values are text, json")
	mainCMD.PersistentFlags().String("env-file", ".env", "File with environment variables loaded on startup")

	mainCMD.AddCommand(convertCMD)
	mainCMD.AddCommand(textCMD)
	mainCMD.AddCommand(serveCMD)
}

func main() {
	if err := mainCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
