package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/markpad/internal/config/loader"
	"github.com/dshills/markpad/internal/config/watcher"
)

// Config is the main configuration system.
// It provides thread-safe access to layered settings.
type Config struct {
	mu sync.RWMutex

	// Layers, lowest priority first
	defaults map[string]any
	file     map[string]any
	env      map[string]any
	runtime  map[string]any
	merged   map[string]any

	settingsPath string
	envPrefix    string
	fs           loader.FileSystem

	enableWatcher bool
	watcher       *watcher.Watcher

	observers    []func()
	reloadErr    error
	configErrors map[string]error
}

// Option configures the Config.
type Option func(*Config)

// WithSettingsFile sets the settings file path. The format is chosen by
// extension (.toml, .yaml, .yml).
func WithSettingsFile(path string) Option {
	return func(c *Config) {
		c.settingsPath = path
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFileSystem sets the file system used to read the settings file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithWatcher enables or disables reloading the settings file on change.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// New creates a new configuration system with defaults loaded.
func New(opts ...Option) *Config {
	c := &Config{
		defaults:  defaultConfig(),
		file:      make(map[string]any),
		env:       make(map[string]any),
		runtime:   make(map[string]any),
		envPrefix: loader.DefaultEnvPrefix,
		fs:        loader.DefaultFS(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rebuild()
	return c
}

// Load loads configuration from the settings file and environment,
// then starts the watcher if enabled.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()

	if err := c.loadSettingsFile(); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.loadEnvironment(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.rebuild()

	startWatcher := c.enableWatcher && c.watcher == nil && c.settingsPath != ""
	path := c.settingsPath
	c.mu.Unlock()

	// Watcher callbacks acquire c.mu, so start it outside the lock.
	if startWatcher {
		w, err := watcher.New()
		if err != nil {
			return fmt.Errorf("starting settings watcher: %w", err)
		}
		if err := w.Watch(path); err != nil {
			_ = w.Close()
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.OnChange(c.handleFileChange)

		c.mu.Lock()
		c.watcher = w
		c.mu.Unlock()
	}

	return nil
}

// Reload re-reads the settings file and notifies observers.
func (c *Config) Reload() error {
	c.mu.Lock()
	err := c.loadSettingsFile()
	if err == nil {
		c.rebuild()
	}
	c.reloadErr = err
	observers := make([]func(), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	for _, fn := range observers {
		fn()
	}
	return nil
}

// ReloadError returns the error of the most recent reload, if any.
// A settings file that fails to parse keeps the previous values.
func (c *Config) ReloadError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reloadErr
}

// OnReload registers fn to run after the settings file is reloaded.
func (c *Config) OnReload(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// SettingsPath returns the settings file path, or "" when none is set.
func (c *Config) SettingsPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settingsPath
}

// Close shuts down the configuration system.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	case string:
		return []string{val}, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Set sets a value at the given path in the runtime layer, which
// overrides every other source.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := setPath(c.runtime, path, value); err != nil {
		return err
	}
	c.rebuild()
	return nil
}

// Merged returns a copy of the merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// rebuild recomputes the merged map. Caller holds c.mu.
func (c *Config) rebuild() {
	merged := loader.Clone(c.defaults)
	merged = loader.DeepMerge(merged, c.file)
	merged = loader.DeepMerge(merged, c.env)
	merged = loader.DeepMerge(merged, c.runtime)
	c.merged = merged
}

// loadSettingsFile replaces the file layer. A missing file yields an
// empty layer. Caller holds c.mu.
func (c *Config) loadSettingsFile() error {
	if c.settingsPath == "" {
		c.file = make(map[string]any)
		return nil
	}

	l := loader.ForPath(c.fs, c.settingsPath)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.settingsPath)
	}
	data, err := l.Load()
	if err != nil {
		return err
	}
	if data == nil {
		data = make(map[string]any)
	}
	c.file = data
	return nil
}

// loadEnvironment replaces the environment layer. Caller holds c.mu.
func (c *Config) loadEnvironment() error {
	data, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return err
	}
	c.env = data
	return nil
}

// handleFileChange handles file change events from the watcher.
func (c *Config) handleFileChange(event watcher.Event) {
	if event.Op == watcher.OpRemove || event.Op == watcher.OpRename {
		// Keep the last good values until the file comes back.
		if _, err := c.fs.Stat(event.Path); err != nil {
			return
		}
	}
	_ = c.Reload()
}

// DefaultSettingsPath returns the default settings file location.
func DefaultSettingsPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "markpad", "settings.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "markpad", "settings.toml")
}

// defaultDataDir returns the default directory for persisted documents.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "markpad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "markpad")
	}
	return filepath.Join(home, ".local", "share", "markpad")
}

// defaultConfig returns the built-in default configuration.
func defaultConfig() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
		},
		"editor": map[string]any{
			"historyLimit": 1000,
			"tabText":      "  ",
		},
		"render": map[string]any{
			"sanitize":        false,
			"highlightTheme":  "monokai",
			"externalSchemes": []any{"http", "https"},
		},
		"storage": map[string]any{
			"dir": defaultDataDir(),
			"key": "markdown",
		},
		"export": map[string]any{
			"dir":      ".",
			"filename": "markdown.md",
		},
		"clipboard": map[string]any{
			"copiedTTL": "2s",
		},
		"plugins": map[string]any{
			"scripts": []any{},
			"timeout": "1s",
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into its non-empty parts.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '.' })
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64, float32:
		return "float"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any, []string:
		return "array"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
