package ocr2sheet

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/opengs/ocr2sheet/emit"
	"github.com/opengs/ocr2sheet/extract"
	"github.com/opengs/ocr2sheet/source"
)

type Engine struct {
	extractor   extract.Extractor
	logger      *slog.Logger
	scriptCheck bool
}

type Option func(e *Engine)

// Logger for pipeline progress. Default is [slog.Default]
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Run generated Apps Script code against an in-memory sheet and attach the outcome to the result
func WithScriptCheck(enabled bool) Option {
	return func(e *Engine) {
		e.scriptCheck = enabled
	}
}

func NewEngine(extractor extract.Extractor, opts ...Option) *Engine {
	e := &Engine{
		extractor: extractor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Convert runs the whole pipeline on one image. Failures are reported in [Result.Err].
func (e *Engine) Convert(ctx context.Context, dialect emit.Dialect, image io.Reader, path string) Result {
	result := Result{
		ID:      uuid.New(),
		Index:   1,
		Path:    path,
		Dialect: dialect,
	}
	if _, err := emit.For(dialect); err != nil {
		result.Err = err
		return result
	}

	e.convert(ctx, &result, image)
	return result
}

func (e *Engine) convert(ctx context.Context, result *Result, image io.Reader) {
	logger := e.logger.With(slog.Int("image", result.Index), slog.String("path", result.Path))

	logger.InfoContext(ctx, "extracting text")
	extracted := e.extractor.Extract(ctx, image, result.Path)
	result.MimeType = extracted.MimeType
	result.Text = extracted.Text
	if extracted.Err != nil {
		result.Err = errors.Join(errors.New("failed to extract text from image"), extracted.Err)
		logger.WarnContext(ctx, "text extraction failed", slog.Any("error", extracted.Err))
		return
	}

	logger.InfoContext(ctx, "building table and generating code", slog.String("dialect", string(result.Dialect)))
	grid, code, err := Pipeline(result.Text, result.Dialect)
	if err != nil {
		result.Err = err
		return
	}
	result.Grid = grid
	result.Code = code
	logger.DebugContext(ctx, "code generated", slog.Int("rows", len(grid)), slog.Int("cells", grid.Cells()))

	if e.scriptCheck && result.Dialect == emit.DialectAppsScript {
		result.Check = CheckScript(ctx, grid, code)
		if result.Check.Err != nil {
			logger.WarnContext(ctx, "generated script failed", slog.Any("error", result.Check.Err))
		} else if !result.Check.Matches {
			logger.WarnContext(ctx, "generated script writes differ from the table")
		}
	}
}

// Process converts every image of every source one after another. Results keep input order and are numbered from 1.
//
// Dialect is validated before any image is read. Failed images do not stop the batch.
// Returned error means that the batch was interrupted. Results collected so far are returned with it.
func (e *Engine) Process(ctx context.Context, dialect emit.Dialect, sources ...source.Source) ([]Result, error) {
	if _, err := emit.For(dialect); err != nil {
		return nil, err
	}

	var results []Result
	for _, src := range sources {
		sourceIterator, err := src.Open()
		if err != nil {
			return results, errors.Join(errors.New("failed to open source "+src.Name()), err)
		}

		results, err = e.processSource(ctx, dialect, sourceIterator, results)
		sourceIterator.Close()

		if err != nil {
			return results, errors.Join(errors.New("failed to process source "+src.Name()), err)
		}
	}

	e.logger.InfoContext(ctx, "batch processed", slog.Int("images", len(results)))
	return results, nil
}

func (e *Engine) processSource(ctx context.Context, dialect emit.Dialect, sourceIterator source.Iterator, results []Result) ([]Result, error) {
	for {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		f, err := sourceIterator.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return results, nil
			}
			return results, errors.Join(errors.New("error while iterating over source files"), err)
		}

		result := Result{
			ID:      uuid.New(),
			Index:   len(results) + 1,
			Path:    f.Path(),
			Dialect: dialect,
		}
		e.convert(ctx, &result, f)
		results = append(results, result)

		if closeErr := f.Close(); closeErr != nil {
			return results, errors.Join(errors.New("error during closing processed file"), closeErr)
		}
	}
}
