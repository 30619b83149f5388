package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

// Picks extractor by the sniffed mime type of the file
type Composite struct {
	mimeToExtractor map[string]Extractor
}

func NewComposite(extractors ...Extractor) *Composite {
	composite := &Composite{
		mimeToExtractor: make(map[string]Extractor, 8),
	}
	composite.AddExtractors(extractors...)
	return composite
}

func (c *Composite) AddExtractors(extractors ...Extractor) {
	for _, extractor := range extractors {
		for _, mt := range extractor.SupportedMimeTypes() {
			c.mimeToExtractor[mt] = extractor
		}
	}
}

func (c *Composite) SupportedMimeTypes() []string {
	mimeTypes := make([]string, 0, len(c.mimeToExtractor))
	for k := range c.mimeToExtractor {
		mimeTypes = append(mimeTypes, k)
	}
	slices.Sort(mimeTypes)
	return mimeTypes
}

func (c *Composite) Extract(ctx context.Context, file io.Reader, path string) Result {
	mimeBlock := make([]byte, 1024)
	readed, err := io.ReadFull(file, mimeBlock)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Result{Path: path, Err: errors.Join(errors.New("failed to read file to determine mime type"), err)}
	}

	mime := mimetype.Detect(mimeBlock[:readed])
	extractor, ok := c.mimeToExtractor[mime.String()]
	if !ok {
		return Result{Path: path, MimeType: mime.String(), Err: &ErrMimeTypeNotSupported{MimeType: mime}}
	}

	result := extractor.Extract(ctx, io.MultiReader(bytes.NewReader(mimeBlock[:readed]), file), path)
	result.MimeType = mime.String()
	return result
}
