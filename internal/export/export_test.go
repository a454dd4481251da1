package export

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/storage/vfs"
)

type failingRenderer struct{}

func (failingRenderer) RenderHTML(io.Writer, string) error { return errors.New("boom") }

func TestExportMarkdown(t *testing.T) {
	memfs := vfs.NewMemFS()
	e := NewFileExporter(memfs, "/out")

	path, err := e.ExportAsFile("# Title\n", "")
	if err != nil {
		t.Fatalf("ExportAsFile() error = %v", err)
	}
	if path != "/out/markdown.md" {
		t.Errorf("ExportAsFile() path = %q, want %q", path, "/out/markdown.md")
	}
	data, _ := memfs.ReadFile(path)
	if string(data) != "# Title\n" {
		t.Errorf("exported content = %q, want %q", data, "# Title\n")
	}
}

func TestExportHTML(t *testing.T) {
	memfs := vfs.NewMemFS()
	e := NewFileExporter(memfs, "/out", WithRenderer(renderer.New(renderer.DefaultOptions())))

	path, err := e.ExportAsFile("# Title", "notes.html")
	if err != nil {
		t.Fatalf("ExportAsFile() error = %v", err)
	}
	data, _ := memfs.ReadFile(path)
	page := string(data)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>notes</title>",
		`<h1 class="text-3xl font-bold mt-6 mb-4">Title</h1>`,
		"</html>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("exported page missing %q:\n%s", want, page)
		}
	}
}

func TestExportErrors(t *testing.T) {
	memfs := vfs.NewMemFS()

	tests := []struct {
		name     string
		exporter *FileExporter
		filename string
		want     error
	}{
		{"path separator", NewFileExporter(memfs, "/out"), "../x.md", ErrInvalidFilename},
		{"dot dot", NewFileExporter(memfs, "/out"), "..", ErrInvalidFilename},
		{"html without renderer", NewFileExporter(memfs, "/out"), "x.html", ErrNoRenderer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.exporter.ExportAsFile("x", tt.filename); !errors.Is(err, tt.want) {
				t.Errorf("ExportAsFile() error = %v, want %v", err, tt.want)
			}
		})
	}

	e := NewFileExporter(memfs, "/out", WithRenderer(failingRenderer{}))
	if _, err := e.ExportAsFile("x", "x.htm"); err == nil {
		t.Error("ExportAsFile() error = nil, want renderer failure")
	}
	if got := memfs.Files(); len(got) != 0 {
		t.Errorf("Files() = %v after failed exports, want none", got)
	}
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.html", true},
		{"a.HTM", true},
		{"a.md", false},
		{"html", false},
	}
	for _, tt := range tests {
		if got := IsHTML(tt.name); got != tt.want {
			t.Errorf("IsHTML(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
