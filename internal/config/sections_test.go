package config

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestSectionDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	c := New(WithEnvPrefix("MARKPAD_TEST_"))

	if got := c.Logging(); got.Level != "info" {
		t.Errorf("Logging().Level = %q, want %q", got.Level, "info")
	}
	if got := c.Editor(); got != (EditorConfig{HistoryLimit: 1000, TabText: "  "}) {
		t.Errorf("Editor() = %+v", got)
	}
	render := c.Render()
	if render.Sanitize || render.HighlightTheme != "monokai" {
		t.Errorf("Render() = %+v", render)
	}
	if !reflect.DeepEqual(render.ExternalSchemes, []string{"http", "https"}) {
		t.Errorf("Render().ExternalSchemes = %v", render.ExternalSchemes)
	}
	want := StorageConfig{Dir: filepath.Join("/data", "markpad"), Key: "markdown"}
	if got := c.Storage(); got != want {
		t.Errorf("Storage() = %+v, want %+v", got, want)
	}
	if got := c.Export(); got != (ExportConfig{Dir: ".", Filename: "markdown.md"}) {
		t.Errorf("Export() = %+v", got)
	}
	if got := c.Clipboard().CopiedTTL; got != 2*time.Second {
		t.Errorf("Clipboard().CopiedTTL = %v, want 2s", got)
	}
	plugins := c.Plugins()
	if len(plugins.Scripts) != 0 || plugins.Timeout != time.Second {
		t.Errorf("Plugins() = %+v", plugins)
	}
}

func TestSectionBadValueFallsBack(t *testing.T) {
	c := New(WithEnvPrefix("MARKPAD_TEST_"))
	_ = c.Set("editor.historyLimit", "lots")

	if got := c.Editor().HistoryLimit; got != 1000 {
		t.Errorf("Editor().HistoryLimit = %d, want fallback 1000", got)
	}
	errs := c.ConfigErrors()
	if _, ok := errs["editor.historyLimit"]; !ok {
		t.Errorf("ConfigErrors() = %v, want entry for editor.historyLimit", errs)
	}

	c.ClearConfigErrors()
	if errs := c.ConfigErrors(); errs != nil {
		t.Errorf("ConfigErrors() after clear = %v, want nil", errs)
	}
}

func TestSectionSnapshot(t *testing.T) {
	c := New(WithEnvPrefix("MARKPAD_TEST_"))
	r := c.Render()
	r.ExternalSchemes[0] = "ftp"

	if got := c.Render().ExternalSchemes[0]; got != "http" {
		t.Errorf("ExternalSchemes[0] = %q after mutating snapshot, want %q", got, "http")
	}
}
