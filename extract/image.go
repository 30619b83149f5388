package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/opengs/ocr2sheet/ocr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

type decodeFunc func(r io.Reader) (image.Image, error)

// Runs OCR on images of one mime type. Images that OCR provider can not read directly are transcoded to PNG.
type ImageExtractor struct {
	ocrProvider ocr.Provider
	mimeType    string
	decode      decodeFunc
}

func NewImageExtractor(ocrProvider ocr.Provider, mimeType string, decode func(r io.Reader) (image.Image, error)) *ImageExtractor {
	return &ImageExtractor{
		ocrProvider: ocrProvider,
		mimeType:    mimeType,
		decode:      decode,
	}
}

// Parses `image/png` files
func NewPNGExtractor(ocrProvider ocr.Provider) *ImageExtractor {
	return NewImageExtractor(ocrProvider, "image/png", png.Decode)
}

// Parses `image/jpeg` files
func NewJPEGExtractor(ocrProvider ocr.Provider) *ImageExtractor {
	return NewImageExtractor(ocrProvider, "image/jpeg", jpeg.Decode)
}

// Parses `image/bmp` files
func NewBMPExtractor(ocrProvider ocr.Provider) *ImageExtractor {
	return NewImageExtractor(ocrProvider, "image/bmp", bmp.Decode)
}

// Parses `image/gif` files. Only first frame is used.
func NewGIFExtractor(ocrProvider ocr.Provider) *ImageExtractor {
	return NewImageExtractor(ocrProvider, "image/gif", gif.Decode)
}

// Parses `image/tiff` files
func NewTIFFExtractor(ocrProvider ocr.Provider) *ImageExtractor {
	return NewImageExtractor(ocrProvider, "image/tiff", tiff.Decode)
}

// Parses `image/webp` files
func NewWebPExtractor(ocrProvider ocr.Provider) *ImageExtractor {
	return NewImageExtractor(ocrProvider, "image/webp", webp.Decode)
}

func (p *ImageExtractor) SupportedMimeTypes() []string {
	return []string{p.mimeType}
}

func (p *ImageExtractor) prepareData(file io.Reader) (io.Reader, error) {
	if ocr.SupportsMimeType(p.ocrProvider, p.mimeType) {
		return file, nil
	}

	img, err := p.decode(file)
	if err != nil {
		return nil, errors.Join(ErrBadFile, fmt.Errorf("failed to decode %s image for transcoding", p.mimeType), err)
	}

	var outBuf bytes.Buffer
	if err := png.Encode(&outBuf, img); err != nil {
		return nil, errors.Join(errors.New("failed to transcode image to PNG"), err)
	}
	return &outBuf, nil
}

func (p *ImageExtractor) Extract(ctx context.Context, file io.Reader, path string) Result {
	result := Result{Path: path, MimeType: p.mimeType}

	imageData, err := p.prepareData(file)
	if err != nil {
		result.Err = errors.Join(errors.New("failed to prepare image data"), err)
		return result
	}

	text, err := p.ocrProvider.OCR(ctx, imageData)
	if err != nil {
		result.Err = errors.Join(errors.New("errors while running OCR"), err)
		return result
	}

	result.Text = text
	return result
}
