package fs

import (
	"context"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/opengs/ocr2sheet/source"
	"github.com/psanford/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src source.Source) map[string]string {
	t.Helper()

	iter, err := src.Open()
	require.NoError(t, err)
	defer iter.Close()

	seen := map[string]string{}
	var order []string
	for {
		handler, err := iter.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(handler)
		require.NoError(t, err)
		require.NoError(t, handler.Close())

		seen[handler.Path()] = string(data)
		order = append(order, handler.Path())
	}
	seen["#order"] = strings.Join(order, ",")
	return seen
}

func TestFS_WalkLexicalOrder(t *testing.T) {
	mapFS := fstest.MapFS{
		"b.png":             &fstest.MapFile{Data: []byte("b"), ModTime: time.Now()},
		"a.png":             &fstest.MapFile{Data: []byte("a")},
		"sub/c.png":         &fstest.MapFile{Data: []byte("c")},
		".hidden.png":       &fstest.MapFile{Data: []byte("h")},
		".cache/d.png":      &fstest.MapFile{Data: []byte("d")},
		"empty":             &fstest.MapFile{Mode: fs.ModeDir},
		"sub/.thumbs/e.png": &fstest.MapFile{Data: []byte("e")},
	}

	seen := collect(t, New(mapFS, "."))
	assert.Equal(t, "a.png,b.png,sub/c.png", seen["#order"])
	assert.Equal(t, "c", seen["sub/c.png"])
}

func TestFS_Subdirectory(t *testing.T) {
	mapFS := fstest.MapFS{
		"scans/1.png": &fstest.MapFile{Data: []byte("1")},
		"other/2.png": &fstest.MapFile{Data: []byte("2")},
	}
	seen := collect(t, New(mapFS, "scans"))
	assert.Equal(t, "scans/1.png", seen["#order"])
}

func TestFS_Files(t *testing.T) {
	rootFS := memfs.New()
	require.NoError(t, rootFS.MkdirAll("upload", 0o700))
	require.NoError(t, rootFS.WriteFile("upload/2.png", []byte("second"), 0o600))
	require.NoError(t, rootFS.WriteFile("upload/1.png", []byte("first"), 0o600))

	src := NewFiles(rootFS, "upload/2.png", "upload/1.png")
	assert.Equal(t, "upload/2.png, upload/1.png", src.Name())

	seen := collect(t, src)
	assert.Equal(t, "upload/2.png,upload/1.png", seen["#order"])
	assert.Equal(t, "first", seen["upload/1.png"])
}

func TestFS_MissingFile(t *testing.T) {
	iter, err := NewFiles(fstest.MapFS{}, "missing.png").Open()
	require.NoError(t, err)
	defer iter.Close()

	handler, err := iter.Next(context.Background())
	require.NoError(t, err)
	_, err = io.ReadAll(handler)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFS_EmptyFS(t *testing.T) {
	iter, err := New(fstest.MapFS{}, ".").Open()
	require.NoError(t, err)
	defer iter.Close()

	_, err = iter.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestFS_NoFiles(t *testing.T) {
	iter, err := NewFiles(fstest.MapFS{"a.png": &fstest.MapFile{}}).Open()
	require.NoError(t, err)

	_, err = iter.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestFS_MissingRoot(t *testing.T) {
	_, err := New(fstest.MapFS{}, "nope").Open()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFS_CancelledContext(t *testing.T) {
	iter, err := New(fstest.MapFS{"a.png": &fstest.MapFile{}}, ".").Open()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = iter.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
