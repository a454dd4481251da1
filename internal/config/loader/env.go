package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEnvPrefix is the prefix of markpad environment variables.
const DefaultEnvPrefix = "MARKPAD_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "MARKPAD_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "MARKPAD_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// defaultEnvMapping returns short aliases for common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":   "logging.level",
		prefix + "THEME":       "render.highlightTheme",
		prefix + "SANITIZE":    "render.sanitize",
		prefix + "DATA_DIR":    "storage.dir",
		prefix + "EXPORT_DIR":  "export.dir",
		prefix + "HISTORY":     "editor.historyLimit",
		prefix + "PLUGINS":     "plugins.scripts",
		prefix + "COPIED_TTL":  "clipboard.copiedTTL",
		prefix + "STORAGE_KEY": "storage.key",
	}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			// MARKPAD_EDITOR_HISTORY_LIMIT -> editor.historyLimit
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts MARKPAD_EDITOR_HISTORY_LIMIT to editor.historyLimit.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")
	if len(parts) < 2 || parts[0] == "" {
		return strings.ToLower(name)
	}

	section := strings.ToLower(parts[0])
	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only with a decimal point, to avoid misinterpreting ints.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	// Comma separated lists for list settings.
	if strings.Contains(s, ",") {
		items := strings.Split(s, ",")
		out := make([]any, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
