package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/opengs/ocr2sheet/ocr"
	"github.com/spf13/pflag"
)

func addOCRFlags(flags *pflag.FlagSet) {
	flags.String("ocr-provider", string(ocr.ProviderNameTesseract), "OCR provider to use. Possible values are TESSERACT, TESSERACT_SERVER, PADDLE, GEMINI")

	flags.StringSlice("ocr-tesseract-languages", []string{"eng"}, "List of languages that will be used. Those languages must be preloaded and installed on the target machine")
	flags.Bool("ocr-tesseract-load-custom-models", false, "Load custom OCR models for tesseract during runtime")
	flags.String("ocr-tesseract-model", string(ocr.TesseractModelNormal), "Model type to use. Supported values are FAST, NORMAL, BEST_QUALITY. Only works when custom models are loaded")
	flags.String("ocr-tesseract-models-folder", "./data/ocr/tesseract", "Location on the disk where to load custom tesseract models")
	flags.StringSlice("ocr-tesseract-supported-mime-types", ocr.DefaultTesseractConfig().SupportedImageFormats, "List of mime types supported by tesseract. Other images are transcoded to PNG")
	flags.Int("ocr-tesseract-page-seg-mode", ocr.TesseractPageSegModeSingleBlock, "Tesseract page segmentation mode. 0 keeps tesseract default")
	flags.Uint32("ocr-tesseract-pool-size", 1, "Maximum number of tesseract instances running at the same time")

	flags.String("ocr-tesseract-server-url", ocr.DefaultTesseractServerConfig().BaseURL, "Base URL of the tesseract OCR server")
	flags.String("ocr-paddle-url", ocr.DefaultPaddleConfig().BaseURL, "Base URL of the PaddleOCR server")

	flags.String("ocr-gemini-api-key", "", "Gemini API key")
	flags.String("ocr-gemini-model", ocr.DefaultGeminiConfig().Model, "Gemini model used for text recognition")
}

// Builds and initializes OCR provider selected by flags. Returned function releases provider resources.
func newOCRProvider(ctx context.Context, flags *pflag.FlagSet) (ocr.Provider, func(), error) {
	providerName, _ := flags.GetString("ocr-provider")
	languages, _ := flags.GetStringSlice("ocr-tesseract-languages")
	logger := slog.Default().With(slog.String("ocrProvider", providerName))

	switch ocr.ProviderName(providerName) {
	case ocr.ProviderNameTesseract:
		config := ocr.DefaultTesseractConfig()
		config.Languages = languages
		config.LoadCustomModels, _ = flags.GetBool("ocr-tesseract-load-custom-models")
		tesseractModelType, _ := flags.GetString("ocr-tesseract-model")
		if !slices.Contains([]ocr.TesseractModelType{ocr.TesseractModelFast, ocr.TesseractModelNormal, ocr.TesseractModelBestQuality}, ocr.TesseractModelType(tesseractModelType)) {
			return nil, nil, errors.New("tesseract model type is not supported")
		}
		config.ModelType = ocr.TesseractModelType(tesseractModelType)
		config.ModelsFolder, _ = flags.GetString("ocr-tesseract-models-folder")
		config.SupportedImageFormats, _ = flags.GetStringSlice("ocr-tesseract-supported-mime-types")
		config.PageSegMode, _ = flags.GetInt("ocr-tesseract-page-seg-mode")

		tesseractPoolSize, _ := flags.GetUint32("ocr-tesseract-pool-size")

		tesseract := ocr.NewTesseractPool(tesseractPoolSize, config)
		if err := tesseract.Init(ctx); err != nil {
			return nil, nil, errors.Join(errors.New("failed to initialize tesseract OCR provider"), err)
		}
		logger.Info("tesseract initialized", slog.Any("languages", languages), slog.Uint64("poolSize", uint64(tesseractPoolSize)))
		return tesseract, func() { tesseract.Destroy(context.Background()) }, nil

	case ocr.ProviderNameTesseractServer:
		config := ocr.DefaultTesseractServerConfig()
		config.BaseURL, _ = flags.GetString("ocr-tesseract-server-url")
		config.Languages = languages
		logger.Info("using tesseract server", slog.String("url", config.BaseURL))
		return ocr.NewTesseractServer(config), func() {}, nil

	case ocr.ProviderNamePaddle:
		config := ocr.DefaultPaddleConfig()
		config.BaseURL, _ = flags.GetString("ocr-paddle-url")
		config.Languages = languages
		logger.Info("using paddle server", slog.String("url", config.BaseURL))
		return ocr.NewPaddle(config), func() {}, nil

	case ocr.ProviderNameGemini:
		config := ocr.DefaultGeminiConfig()
		config.APIKey, _ = flags.GetString("ocr-gemini-api-key")
		config.Model, _ = flags.GetString("ocr-gemini-model")

		gemini := ocr.NewGemini(config)
		if err := gemini.Init(ctx); err != nil {
			return nil, nil, errors.Join(errors.New("failed to initialize gemini OCR provider"), err)
		}
		logger.Info("using gemini", slog.String("model", config.Model))
		return gemini, func() { gemini.Destroy() }, nil
	}

	return nil, nil, fmt.Errorf("unsupported ocr provider %q", providerName)
}
