// Package export writes the document buffer out as a downloadable file.
//
// A filename ending in .html or .htm is rendered to a standalone HTML
// page; anything else is written verbatim as markdown.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/markpad/internal/storage/vfs"
)

// DefaultFilename is used when no filename is given.
const DefaultFilename = "markdown.md"

// Errors returned by the exporter.
var (
	// ErrInvalidFilename indicates a filename that is not a plain base name.
	ErrInvalidFilename = errors.New("invalid export filename")

	// ErrNoRenderer indicates an HTML export without a renderer.
	ErrNoRenderer = errors.New("no HTML renderer configured")
)

// HTMLRenderer renders markdown text as an HTML fragment.
type HTMLRenderer interface {
	RenderHTML(w io.Writer, text string) error
}

// FileExporter writes exports into a directory.
type FileExporter struct {
	fs       vfs.VFS
	dir      string
	renderer HTMLRenderer
	perm     fs.FileMode
}

// Option configures a FileExporter.
type Option func(*FileExporter)

// WithRenderer enables HTML exports.
func WithRenderer(r HTMLRenderer) Option {
	return func(e *FileExporter) {
		e.renderer = r
	}
}

// WithFileMode sets the permission of exported files.
func WithFileMode(perm fs.FileMode) Option {
	return func(e *FileExporter) {
		e.perm = perm
	}
}

// NewFileExporter creates an exporter writing into dir.
func NewFileExporter(fsys vfs.VFS, dir string, opts ...Option) *FileExporter {
	e := &FileExporter{
		fs:   fsys,
		dir:  dir,
		perm: 0o644,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the export directory.
func (e *FileExporter) Dir() string {
	return e.dir
}

// ExportAsFile writes buffer to filename inside the export directory
// and returns the written path.
func (e *FileExporter) ExportAsFile(buffer, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	data := []byte(buffer)
	if IsHTML(filename) {
		if e.renderer == nil {
			return "", ErrNoRenderer
		}
		var err error
		data, err = e.page(strings.TrimSuffix(filename, filepath.Ext(filename)), buffer)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", filename, err)
		}
	}

	if err := e.fs.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(e.dir, filename)
	if err := e.fs.WriteFile(path, data, e.perm); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// page wraps the rendered fragment in a minimal HTML document.
func (e *FileExporter) page(title, buffer string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	buf.WriteString(html.EscapeString(title))
	buf.WriteString("</title>\n</head>\n<body>\n")
	if err := e.renderer.RenderHTML(&buf, buffer); err != nil {
		return nil, err
	}
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes(), nil
}

// IsHTML reports whether filename asks for an HTML export.
func IsHTML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return true
	}
	return false
}
