// Package config provides the configuration system for markpad.
//
// # Architecture
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Runtime (Set)           │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← MARKPAD_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← settings.toml or settings.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: fsnotify file watching for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithSettingsFile("settings.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer cfg.Close()
//
//	limit, err := cfg.GetInt("editor.historyLimit")
//	render := cfg.Render()
//
// # Configuration Files
//
//	# settings.toml
//	[editor]
//	historyLimit = 500
//
//	[render]
//	sanitize = true
//	highlightTheme = "dracula"
//
// # Error Handling
//
//   - ErrSettingNotFound: Setting path doesn't exist
//   - ErrTypeMismatch: Value type doesn't match expected type
//   - ErrInvalidPath: Malformed dotted path
//   - *loader.ParseError: Settings file parsing failed
package config
