package ocr

import (
	"errors"
	"path"
)

var ErrOCRNotCompiled = errors.New("OCR is not possible because binary wasnt compiled with internal tesseract OCR provider")

// Model type used by Tesseract
type TesseractModelType string

// The fastest available model with low accuracy
const TesseractModelFast TesseractModelType = "FAST"

// Model that runs by default in tesseract instances
const TesseractModelNormal TesseractModelType = "NORMAL"

// Model with best quality. Requires more processing power
const TesseractModelBestQuality TesseractModelType = "BEST_QUALITY"

// Page segmentation mode that treats the image as a single uniform block of text.
// Keeps rows of a table on separate lines.
const TesseractPageSegModeSingleBlock = 6

// Configuration for initializing Tesseract OCR provider
type TesseractConfig struct {
	// List of language codes that should be recognized. More languages - more processing time. Order matters. Primary language has to go first as it will act as fallback. By default it will be ["eng"]
	Languages []string `json:"languages"`
	// Model to use while running tesseract. Default is `TesseractModelNormal`. Works only if `LoadCustomModels` option is set to True.
	ModelType TesseractModelType `json:"modelType"`
	// Load latest models from internet. If this is not selected, you have to manually install additional tesseract packages with models for specified languages.
	LoadCustomModels bool `json:"loadCustomModels"`
	// On startup, tesseract will download models from the internet and save them to specified location. Default is `./data/ocr/tesseract`
	ModelsFolder string `json:"modelsFolder"`
	// Tesseract page segmentation mode. Zero keeps tesseract default (fully automatic).
	PageSegMode int `json:"pageSegMode"`
	// Variables to pass on tesseract initialization. Dictionaries are disabled by default because table cells are mostly numbers and codes, not words.
	Variables map[string]string `json:"variables"`
	// Image formats passed to tesseract without transcoding. Everything else is converted to PNG first.
	//
	// Default value is ["image/png", "image/jpeg", "image/tiff", "image/gif", "image/webp"]. Check supported formats here `https://tesseract-ocr.github.io/tessdoc/InputFormats.html`
	SupportedImageFormats []string `json:"supportedImageFormats"`
}

func DefaultTesseractConfig() TesseractConfig {
	return TesseractConfig{
		Languages:        []string{"eng"},
		ModelType:        TesseractModelNormal,
		LoadCustomModels: false,
		ModelsFolder:     path.Join("data", "ocr", "tesseract"),
		PageSegMode:      TesseractPageSegModeSingleBlock,
		Variables: map[string]string{
			"load_system_dawg":          "0",
			"load_freq_dawg":            "0",
			"preserve_interword_spaces": "1",
		},
		SupportedImageFormats: []string{"image/png", "image/jpeg", "image/tiff", "image/gif", "image/webp"},
	}
}

func (c TesseractConfig) modelDownloadLink(language string) string {
	var ocrModelLinkByType = map[TesseractModelType]string{
		TesseractModelFast:        "https://github.com/tesseract-ocr/tessdata_fast/raw/refs/heads/main/",
		TesseractModelNormal:      "https://github.com/tesseract-ocr/tessdata/raw/refs/heads/main/",
		TesseractModelBestQuality: "https://github.com/tesseract-ocr/tessdata_best/raw/refs/heads/main/",
	}
	return ocrModelLinkByType[c.ModelType] + language + ".traineddata"
}

func (c TesseractConfig) modelsFolder() string {
	return path.Join(c.ModelsFolder, string(c.ModelType))
}

func (c TesseractConfig) modelPath(language string) string {
	return path.Join(c.modelsFolder(), language+".traineddata")
}
