// Package eml reads images attached to an email message (.eml).
package eml

import (
	"context"
	"errors"
	"fmt"
	"io"
	pathlib "path"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/opengs/ocr2sheet/source"
)

var ErrAlreadyOpened = errors.New("email source can be opened only once")

// Yields every `image/*` part of the RFC 822 message, inline or attached
type EML struct {
	name   string
	reader io.Reader

	opened bool
	lock   sync.Mutex
}

func New(name string, r io.Reader) *EML {
	return &EML{
		name:   name,
		reader: r,
	}
}

func (e *EML) Name() string {
	return e.name
}

func (e *EML) Open() (source.Iterator, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.opened {
		return nil, ErrAlreadyOpened
	}
	e.opened = true

	mailReader, err := mail.CreateReader(e.reader)
	if err != nil {
		return nil, errors.Join(errors.New("failed to read email message"), err)
	}

	return &emlIterator{name: e.name, reader: mailReader}, nil
}

// Parts are streamed. Previous file becomes unreadable after the next call to Next.
type emlIterator struct {
	name   string
	reader *mail.Reader
	partID int
	lock   sync.Mutex
}

func (i *emlIterator) Next(ctx context.Context) (source.FileHandler, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		part, err := i.reader.NextPart()
		if err == io.EOF {
			return nil, io.EOF
		} else if err != nil {
			return nil, errors.Join(errors.New("error while reading email part"), err)
		}
		i.partID++

		var contentType string
		var params map[string]string
		var filename string
		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, params, _ = h.ContentType()
		case *mail.AttachmentHeader:
			contentType, params, _ = h.ContentType()
			filename, _ = h.Filename()
		}

		if !strings.HasPrefix(contentType, "image/") {
			continue
		}

		if filename == "" {
			filename = params["name"]
		}
		if filename == "" {
			filename = fmt.Sprintf("part_%d", i.partID)
		}

		return &emlFileHandler{
			body: part.Body,
			path: pathlib.Join(i.name, filepath.Base(filename)),
		}, nil
	}
}

func (i *emlIterator) Close() error {
	return nil
}

type emlFileHandler struct {
	body io.Reader
	path string
}

func (h *emlFileHandler) Read(p []byte) (int, error) {
	return h.body.Read(p)
}

func (h *emlFileHandler) Close() error {
	return nil
}

func (h *emlFileHandler) Path() string {
	return h.path
}
