// Package source describes places where images for the conversion come from.
package source

import (
	"context"
	"io"
)

// Place where images are located
type Source interface {
	// Human readable name of the source. Used in logs.
	Name() string
	// Open data source for iteration
	Open() (Iterator, error)
}

// Opened data source
type Iterator interface {
	io.Closer

	// Get and open next file. Thread safe. If there are no files left, returns [io.EOF] error
	Next(ctx context.Context) (FileHandler, error)
}

type FileHandler interface {
	io.ReadCloser

	// Path to the file in the data source
	Path() string
}
