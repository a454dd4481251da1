package config

import "time"

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string
}

// EditorConfig provides type-safe access to editor settings.
type EditorConfig struct {
	// HistoryLimit is the maximum number of undo snapshots kept.
	HistoryLimit int

	// TabText is inserted by the tab action.
	TabText string
}

// RenderConfig provides type-safe access to preview settings.
type RenderConfig struct {
	// Sanitize strips scripts and unsafe URLs from raw HTML.
	Sanitize bool

	// HighlightTheme is the chroma style used for code blocks.
	HighlightTheme string

	// ExternalSchemes lists URL schemes that open in a new tab.
	ExternalSchemes []string
}

// StorageConfig provides type-safe access to persistence settings.
type StorageConfig struct {
	// Dir is the directory holding persisted documents.
	Dir string

	// Key names the persisted document slot.
	Key string
}

// ExportConfig provides type-safe access to download settings.
type ExportConfig struct {
	// Dir is the directory downloads are written to.
	Dir string

	// Filename is the default download filename.
	Filename string
}

// ClipboardConfig provides type-safe access to clipboard settings.
type ClipboardConfig struct {
	// CopiedTTL is how long the copied indicator stays set.
	CopiedTTL time.Duration
}

// PluginsConfig provides type-safe access to Lua formatter settings.
type PluginsConfig struct {
	// Scripts are Lua files that register custom formatting kinds.
	Scripts []string

	// Timeout bounds a single formatter call.
	Timeout time.Duration
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
	}
}

// Editor returns type-safe access to editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		HistoryLimit: c.getIntOr("editor.historyLimit", 1000),
		TabText:      c.getStringOr("editor.tabText", "  "),
	}
}

// Render returns type-safe access to preview settings.
func (c *Config) Render() RenderConfig {
	return RenderConfig{
		Sanitize:        c.getBoolOr("render.sanitize", false),
		HighlightTheme:  c.getStringOr("render.highlightTheme", "monokai"),
		ExternalSchemes: c.getStringSliceOr("render.externalSchemes", []string{"http", "https"}),
	}
}

// Storage returns type-safe access to persistence settings.
func (c *Config) Storage() StorageConfig {
	return StorageConfig{
		Dir: c.getStringOr("storage.dir", defaultDataDir()),
		Key: c.getStringOr("storage.key", "markdown"),
	}
}

// Export returns type-safe access to download settings.
func (c *Config) Export() ExportConfig {
	return ExportConfig{
		Dir:      c.getStringOr("export.dir", "."),
		Filename: c.getStringOr("export.filename", "markdown.md"),
	}
}

// Clipboard returns type-safe access to clipboard settings.
func (c *Config) Clipboard() ClipboardConfig {
	return ClipboardConfig{
		CopiedTTL: c.getDurationOr("clipboard.copiedTTL", 2*time.Second),
	}
}

// Plugins returns type-safe access to Lua formatter settings.
func (c *Config) Plugins() PluginsConfig {
	return PluginsConfig{
		Scripts: c.getStringSliceOr("plugins.scripts", nil),
		Timeout: c.getDurationOr("plugins.timeout", time.Second),
	}
}

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		v = defaultValue
	}
	// Copy to keep the snapshot guarantee.
	result := make([]string, len(v))
	copy(result, v)
	return result
}

// recordConfigError stores the first error seen for path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// ClearConfigErrors clears any stored configuration errors.
func (c *Config) ClearConfigErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configErrors = nil
}
