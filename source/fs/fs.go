package fs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/opengs/ocr2sheet/source"
)

// Reads files from [fs.FS]
type FS struct {
	fs    fs.FS
	root  string
	paths []string
	// paths were given explicitly
	files bool
}

// Walks the directory tree under `root` in lexical order. Hidden files and directories are skipped.
func New(fsys fs.FS, root string) *FS {
	return &FS{
		fs:   fsys,
		root: root,
	}
}

// Yields exactly the given files in the given order
func NewFiles(fsys fs.FS, paths ...string) *FS {
	return &FS{
		fs:    fsys,
		paths: paths,
		files: true,
	}
}

func (f *FS) Name() string {
	if f.files {
		return strings.Join(f.paths, ", ")
	}
	return f.root
}

func (f *FS) Open() (source.Iterator, error) {
	if f.files {
		return &fsIterator{fs: f.fs, paths: f.paths}, nil
	}

	var paths []string
	err := fs.WalkDir(f.fs, f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != f.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to walk directory"), err)
	}

	return &fsIterator{fs: f.fs, paths: paths}, nil
}

type fsIterator struct {
	fs     fs.FS
	paths  []string
	next   int
	locker sync.Mutex
}

func (i *fsIterator) Next(ctx context.Context) (source.FileHandler, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.locker.Lock()
	defer i.locker.Unlock()

	if i.next >= len(i.paths) {
		return nil, io.EOF
	}
	path := i.paths[i.next]
	i.next++

	return &fsFileHandler{fs: i.fs, path: path}, nil
}

func (i *fsIterator) Close() error {
	return nil
}

type fsFileHandler struct {
	fs   fs.FS
	fp   fs.File
	path string
}

func (h *fsFileHandler) Path() string {
	return h.path
}

func (h *fsFileHandler) Close() error {
	if h.fp != nil {
		return h.fp.Close()
	}
	return nil
}

func (h *fsFileHandler) Read(p []byte) (n int, err error) {
	if h.fp == nil {
		fp, err := h.fs.Open(h.path)
		if err != nil {
			return 0, errors.Join(errors.New("failed to open file for reading"), err)
		}
		h.fp = fp
	}

	return h.fp.Read(p)
}
