package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// memFS is an in-memory settings file system.
type memFS struct {
	files map[string][]byte
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func newTestConfig(t *testing.T, path, content string) *Config {
	t.Helper()
	fsys := &memFS{files: map[string][]byte{path: []byte(content)}}
	c := New(WithSettingsFile(path), WithFileSystem(fsys), WithEnvPrefix("MARKPAD_TEST_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestDefaults(t *testing.T) {
	c := New(WithEnvPrefix("MARKPAD_TEST_"))

	if got, _ := c.GetString("storage.key"); got != "markdown" {
		t.Errorf("storage.key = %q, want %q", got, "markdown")
	}
	if got, _ := c.GetString("export.filename"); got != "markdown.md" {
		t.Errorf("export.filename = %q, want %q", got, "markdown.md")
	}
	if got, _ := c.GetInt("editor.historyLimit"); got != 1000 {
		t.Errorf("editor.historyLimit = %d, want 1000", got)
	}
	if got, _ := c.GetDuration("clipboard.copiedTTL"); got != 2*time.Second {
		t.Errorf("clipboard.copiedTTL = %v, want 2s", got)
	}
	if got, _ := c.GetStringSlice("render.externalSchemes"); !reflect.DeepEqual(got, []string{"http", "https"}) {
		t.Errorf("render.externalSchemes = %v, want [http https]", got)
	}
}

func TestLoadTOML(t *testing.T) {
	c := newTestConfig(t, "/cfg/settings.toml", `
[editor]
historyLimit = 50

[render]
sanitize = true
highlightTheme = "dracula"
`)

	if got, _ := c.GetInt("editor.historyLimit"); got != 50 {
		t.Errorf("editor.historyLimit = %d, want 50", got)
	}
	if got, _ := c.GetBool("render.sanitize"); !got {
		t.Error("render.sanitize = false, want true")
	}
	// Untouched keys keep their defaults.
	if got, _ := c.GetString("editor.tabText"); got != "  " {
		t.Errorf("editor.tabText = %q, want two spaces", got)
	}
}

func TestLoadYAML(t *testing.T) {
	c := newTestConfig(t, "/cfg/settings.yaml", `
export:
  filename: notes.md
render:
  externalSchemes: [https]
`)

	if got, _ := c.GetString("export.filename"); got != "notes.md" {
		t.Errorf("export.filename = %q, want %q", got, "notes.md")
	}
	if got, _ := c.GetStringSlice("render.externalSchemes"); !reflect.DeepEqual(got, []string{"https"}) {
		t.Errorf("render.externalSchemes = %v, want [https]", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := New(WithSettingsFile("/nope/settings.toml"), WithFileSystem(&memFS{}), WithEnvPrefix("MARKPAD_TEST_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if got, _ := c.GetString("storage.key"); got != "markdown" {
		t.Errorf("storage.key = %q, want default", got)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	c := New(WithSettingsFile("/cfg/settings.ini"), WithFileSystem(&memFS{}))
	err := c.Load(context.Background())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadParseError(t *testing.T) {
	fsys := &memFS{files: map[string][]byte{"/cfg/settings.toml": []byte("[editor\n")}}
	c := New(WithSettingsFile("/cfg/settings.toml"), WithFileSystem(fsys))
	if err := c.Load(context.Background()); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("MARKPAD_TEST_THEME", "github")
	t.Setenv("MARKPAD_TEST_COPIED_TTL", "5s")
	t.Setenv("MARKPAD_TEST_EXPORT_FILENAME", "env.md")

	c := newTestConfig(t, "/cfg/settings.toml", `
[render]
highlightTheme = "dracula"
`)

	if got, _ := c.GetString("render.highlightTheme"); got != "github" {
		t.Errorf("render.highlightTheme = %q, want %q", got, "github")
	}
	if got, _ := c.GetDuration("clipboard.copiedTTL"); got != 5*time.Second {
		t.Errorf("clipboard.copiedTTL = %v, want 5s", got)
	}
	if got, _ := c.GetString("export.filename"); got != "env.md" {
		t.Errorf("export.filename = %q, want %q", got, "env.md")
	}
}

func TestSetOverridesEverything(t *testing.T) {
	t.Setenv("MARKPAD_TEST_THEME", "github")
	c := newTestConfig(t, "/cfg/settings.toml", "")

	if err := c.Set("render.highlightTheme", "vim"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := c.GetString("render.highlightTheme"); got != "vim" {
		t.Errorf("render.highlightTheme = %q, want %q", got, "vim")
	}
	if err := c.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(\"\") error = %v, want ErrInvalidPath", err)
	}
	if err := c.Set("render.highlightTheme.name", "x"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set() through a scalar error = %v, want ErrInvalidPath", err)
	}
}

func TestGettersErrors(t *testing.T) {
	c := New(WithEnvPrefix("MARKPAD_TEST_"))

	if _, err := c.GetString("no.such.key"); err != ErrSettingNotFound {
		t.Errorf("GetString() error = %v, want ErrSettingNotFound", err)
	}
	if _, err := c.GetInt("storage.key"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt() error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.GetBool("editor.historyLimit"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetBool() error = %v, want ErrTypeMismatch", err)
	}

	_ = c.Set("clipboard.copiedTTL", "soon")
	_, err := c.GetDuration("clipboard.copiedTTL")
	var te *TypeError
	if !errors.As(err, &te) || te.Path != "clipboard.copiedTTL" {
		t.Errorf("GetDuration() error = %v, want TypeError for clipboard.copiedTTL", err)
	}
}

func TestMergedIsCopy(t *testing.T) {
	c := New(WithEnvPrefix("MARKPAD_TEST_"))
	m := c.Merged()
	m["storage"].(map[string]any)["key"] = "changed"

	if got, _ := c.GetString("storage.key"); got != "markdown" {
		t.Errorf("storage.key = %q after mutating Merged(), want %q", got, "markdown")
	}
}

func TestReloadNotifiesObservers(t *testing.T) {
	fsys := &memFS{files: map[string][]byte{"/cfg/settings.toml": []byte("[storage]\nkey = \"a\"\n")}}
	c := New(WithSettingsFile("/cfg/settings.toml"), WithFileSystem(fsys), WithEnvPrefix("MARKPAD_TEST_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	calls := 0
	c.OnReload(func() { calls++ })

	fsys.files["/cfg/settings.toml"] = []byte("[storage]\nkey = \"b\"\n")
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got, _ := c.GetString("storage.key"); got != "b" {
		t.Errorf("storage.key = %q, want %q", got, "b")
	}
	if calls != 1 {
		t.Errorf("observer calls = %d, want 1", calls)
	}

	// A broken file keeps the previous values.
	fsys.files["/cfg/settings.toml"] = []byte("[storage\n")
	if err := c.Reload(); err == nil {
		t.Error("Reload() error = nil, want parse error")
	}
	if c.ReloadError() == nil {
		t.Error("ReloadError() = nil after failed reload")
	}
	if got, _ := c.GetString("storage.key"); got != "b" {
		t.Errorf("storage.key = %q after failed reload, want %q", got, "b")
	}
	if calls != 1 {
		t.Errorf("observer calls = %d after failed reload, want 1", calls)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[storage]\nkey = \"first\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(WithSettingsFile(path), WithWatcher(true), WithEnvPrefix("MARKPAD_TEST_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer c.Close()

	reloaded := make(chan struct{}, 4)
	c.OnReload(func() { reloaded <- struct{}{} })

	if err := os.WriteFile(path, []byte("[storage]\nkey = \"second\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("settings were not reloaded")
	}
	if got, _ := c.GetString("storage.key"); got != "second" {
		t.Errorf("storage.key = %q, want %q", got, "second")
	}
}

func TestDefaultSettingsPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	want := filepath.Join("/xdg", "markpad", "settings.toml")
	if got := DefaultSettingsPath(); got != want {
		t.Errorf("DefaultSettingsPath() = %q, want %q", got, want)
	}
}
