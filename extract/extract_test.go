package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/opengs/ocr2sheet/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 0, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, enc func(w io.Writer, img image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, testImage()))
	return buf.Bytes()
}

// Reports mime type of the received image instead of the text
func mimeEchoProvider() ocr.Func {
	return func(ctx context.Context, image io.Reader) (string, error) {
		data, err := io.ReadAll(image)
		if err != nil {
			return "", err
		}
		return mimetype.Detect(data).String(), nil
	}
}

type checkingProvider struct {
	ocr.Func
	supported []string
}

func (p checkingProvider) IsMimeTypeSupported(mimeType string) bool {
	for _, mt := range p.supported {
		if mt == mimeType {
			return true
		}
	}
	return false
}

func TestExtractTranscodes(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		mimeType string
	}{
		{"png", encode(t, png.Encode), "image/png"},
		{"jpeg", encode(t, func(w io.Writer, img image.Image) error { return jpeg.Encode(w, img, nil) }), "image/jpeg"},
		{"gif", encode(t, func(w io.Writer, img image.Image) error { return gif.Encode(w, img, nil) }), "image/gif"},
		{"bmp", encode(t, bmp.Encode), "image/bmp"},
		{"tiff", encode(t, func(w io.Writer, img image.Image) error { return tiff.Encode(w, img, nil) }), "image/tiff"},
	}

	extractor := New(mimeEchoProvider())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := extractor.Extract(context.Background(), bytes.NewReader(tc.data), "scan."+tc.name)
			require.NoError(t, result.Err)
			assert.Equal(t, "scan."+tc.name, result.Path)
			assert.Equal(t, tc.mimeType, result.MimeType)
			assert.Equal(t, "image/png", result.Text, "provider without format checker must receive PNG")
		})
	}
}

func TestExtractPassesSupportedFormats(t *testing.T) {
	provider := checkingProvider{Func: mimeEchoProvider(), supported: []string{"image/jpeg"}}
	extractor := New(provider)

	jpegData := encode(t, func(w io.Writer, img image.Image) error { return jpeg.Encode(w, img, nil) })
	result := extractor.Extract(context.Background(), bytes.NewReader(jpegData), "a.jpg")
	require.NoError(t, result.Err)
	assert.Equal(t, "image/jpeg", result.Text)

	bmpData := encode(t, bmp.Encode)
	result = extractor.Extract(context.Background(), bytes.NewReader(bmpData), "a.bmp")
	require.NoError(t, result.Err)
	assert.Equal(t, "image/png", result.Text)
}

func TestExtractUnsupportedMimeType(t *testing.T) {
	result := New(mimeEchoProvider()).Extract(context.Background(), strings.NewReader("just some text"), "notes.txt")

	var mimeErr *ErrMimeTypeNotSupported
	require.ErrorAs(t, result.Err, &mimeErr)
	assert.Equal(t, "notes.txt", result.Path)
	assert.True(t, strings.HasPrefix(result.MimeType, "text/plain"))
	assert.Empty(t, result.Text)
}

func TestExtractBadFile(t *testing.T) {
	// valid BMP signature with truncated header
	data := []byte("BM\x00\x00\x00\x00\x00\x00\x00\x00")
	result := NewBMPExtractor(mimeEchoProvider()).Extract(context.Background(), bytes.NewReader(data), "broken.bmp")
	assert.ErrorIs(t, result.Err, ErrBadFile)
}

func TestExtractOCRError(t *testing.T) {
	ocrErr := errors.New("backend is down")
	provider := ocr.Func(func(ctx context.Context, image io.Reader) (string, error) {
		return "", ocrErr
	})

	result := New(provider).Extract(context.Background(), bytes.NewReader(encode(t, png.Encode)), "a.png")
	assert.ErrorIs(t, result.Err, ocrErr)
	assert.Equal(t, "image/png", result.MimeType)
}

func TestCompositeSupportedMimeTypes(t *testing.T) {
	assert.Equal(t,
		[]string{"image/bmp", "image/gif", "image/jpeg", "image/png", "image/tiff", "image/webp"},
		New(mimeEchoProvider()).SupportedMimeTypes(),
	)
}
