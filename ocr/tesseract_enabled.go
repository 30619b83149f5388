//go:build ocr2sheet_feature_ocr_tesseract

package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

const FeatureTesseractEnabled = true

// Local tesseract instance. Calls are serialized, use [TesseractPool] to run several of them.
type Tesseract struct {
	client *gosseract.Client
	lock   sync.Mutex
	config TesseractConfig
}

func NewTesseract(config TesseractConfig) *Tesseract {
	return &Tesseract{
		config: config,
	}
}

func (p *Tesseract) OCR(ctx context.Context, image io.Reader) (string, error) {
	imageData, err := io.ReadAll(image)
	if err != nil {
		return "", errors.Join(errors.New("failed to read image"), err)
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if p.client == nil {
		return "", errors.New("tesseract is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := p.client.SetImageFromBytes(imageData); err != nil {
		return "", errors.Join(errors.New("failed to prepare image for OCR"), err)
	}
	result, err := p.client.Text()
	if err != nil {
		return "", errors.Join(errors.New("OCR process failed"), err)
	}

	return result, nil
}

func (p *Tesseract) Init(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	client := gosseract.NewClient()
	if err := p.configure(ctx, client); err != nil {
		client.Close()
		return err
	}
	p.client = client
	return nil
}

func (p *Tesseract) configure(ctx context.Context, client *gosseract.Client) error {
	if err := client.SetLanguage(p.config.Languages...); err != nil {
		return errors.Join(errors.New("failed to set languages"), err)
	}
	if err := client.DisableOutput(); err != nil {
		return errors.Join(errors.New("failed to disable logs"), err)
	}
	if p.config.PageSegMode != 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(p.config.PageSegMode)); err != nil {
			return errors.Join(errors.New("failed to set page segmentation mode"), err)
		}
	}
	for key, val := range p.config.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(key), val); err != nil {
			return errors.Join(fmt.Errorf("failed to set variable [%s]", key), err)
		}
	}
	if p.config.LoadCustomModels {
		if err := p.loadModels(ctx); err != nil {
			return errors.Join(errors.New("failed to load language models"), err)
		}
		if err := client.SetTessdataPrefix(p.config.modelsFolder()); err != nil {
			return errors.Join(errors.New("failed to set custom models folder"), err)
		}
	}
	return nil
}

func (p *Tesseract) Destroy() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *Tesseract) loadModels(ctx context.Context) error {
	if err := os.MkdirAll(p.config.modelsFolder(), 0700); err != nil {
		return errors.Join(errors.New("failed to create folder for models"), err)
	}

	for _, language := range p.config.Languages {
		if _, err := os.Stat(p.config.modelPath(language)); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return errors.Join(errors.New("unexpected error while checking if model exists"), err)
			}
			if downloadErr := p.downloadModel(ctx, language); downloadErr != nil {
				return errors.Join(errors.New("failed to download language model "+language), downloadErr)
			}
		}
	}

	return nil
}

func (p *Tesseract) downloadModel(ctx context.Context, language string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.modelDownloadLink(language), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(p.config.modelPath(language)), "*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpFile.Name(), p.config.modelPath(language))
}

func (p *Tesseract) IsMimeTypeSupported(mimeType string) bool {
	return slices.Contains(p.config.SupportedImageFormats, mimeType)
}
