package app

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/dshills/markpad/internal/clipboard"
	"github.com/dshills/markpad/internal/config"
	"github.com/dshills/markpad/internal/engine/format"
	"github.com/dshills/markpad/internal/export"
	"github.com/dshills/markpad/internal/plugin/lua"
	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/renderer/highlight"
	"github.com/dshills/markpad/internal/storage/filestore"
	"github.com/dshills/markpad/internal/storage/vfs"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty uses config.DefaultSettingsPath.
	ConfigPath string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Terminal receives clipboard escape sequences. Defaults to os.Stdout.
	Terminal io.Writer

	// Watch reloads the settings file when it changes.
	Watch bool

	// Ephemeral runs the session without persistence: nothing is loaded
	// from or saved to storage.dir.
	Ephemeral bool

	// FS is the file system for storage and export. Defaults to the OS.
	FS vfs.VFS
}

// Application owns the configuration and the editing session built
// from it.
type Application struct {
	mu sync.Mutex

	opts       Options
	config     *config.Config
	logger     *Logger
	engine     *format.Engine
	formatters *lua.Formatters
	session    *Session

	initOrder []string
}

// New builds the application from its settings. On failure every
// component started so far is shut down again.
func New(opts Options) (*Application, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultSettingsPath()
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Terminal == nil {
		opts.Terminal = os.Stdout
	}
	if opts.FS == nil {
		opts.FS = vfs.NewOSFS()
	}

	a := &Application{opts: opts}
	if err := a.bootstrap(); err != nil {
		a.cleanup()
		return nil, err
	}
	return a, nil
}

// bootstrap initializes components in dependency order.
func (a *Application) bootstrap() error {
	steps := []func() error{
		a.initConfig,
		a.initLogger,
		a.initPlugins,
		a.initSession,
		a.reportConfigErrors,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	a.config.OnReload(a.reload)
	return nil
}

// initConfig loads the layered configuration.
func (a *Application) initConfig() error {
	a.config = config.New(
		config.WithSettingsFile(a.opts.ConfigPath),
		config.WithWatcher(a.opts.Watch),
	)
	a.initOrder = append(a.initOrder, "config")
	if err := a.config.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	return nil
}

// initLogger creates the logger at the configured level.
func (a *Application) initLogger() error {
	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(a.logLevel())
	cfg.Output = a.opts.LogOutput
	a.logger = NewLogger(cfg)
	return nil
}

// reportConfigErrors reads every settings section and logs the values
// that fell back to their defaults.
func (a *Application) reportConfigErrors() error {
	a.config.Logging()
	a.config.Editor()
	a.config.Render()
	a.config.Storage()
	a.config.Export()
	a.config.Clipboard()
	a.config.Plugins()

	errs := a.config.ConfigErrors()
	log := a.logger.WithComponent(ComponentConfig)
	for _, path := range slices.Sorted(maps.Keys(errs)) {
		log.Warn("ignoring %s: %v", path, errs[path])
	}
	a.config.ClearConfigErrors()
	return nil
}

// initPlugins creates the formatting engine and loads Lua formatter
// scripts into it. A broken script is logged and skipped.
func (a *Application) initPlugins() error {
	a.engine = format.NewEngine()

	pc := a.config.Plugins()
	if len(pc.Scripts) == 0 {
		return nil
	}

	log := a.logger.WithComponent(ComponentPlugin)
	state := lua.NewState(
		lua.WithExecutionTimeout(pc.Timeout),
		lua.WithPrint(func(line string) { log.Info("%s", line) }),
	)
	f, err := lua.LoadFormatters(a.engine, pc.Scripts, state,
		lua.WithErrorHandler(func(kind format.Kind, err error) {
			log.WithField("kind", kind).Warn("formatter failed: %v", err)
		}),
	)
	a.formatters = f
	a.initOrder = append(a.initOrder, "plugins")
	if err != nil {
		log.Warn("loading formatters: %v", err)
	}
	log.Info("registered %d formatter kinds", len(f.Kinds()))
	return nil
}

// initSession wires the collaborators and opens the stored document.
func (a *Application) initSession() error {
	sc := a.config.Storage()
	ec := a.config.Export()
	edc := a.config.Editor()

	pipeline := newPipeline(a.config.Render())
	exporter := export.NewFileExporter(a.opts.FS, ec.Dir, export.WithRenderer(pipeline))
	clip := clipboard.New(a.opts.Terminal, clipboard.WithMode(clipboard.DetectMode()))

	opts := []SessionOption{
		WithEngine(a.engine),
		WithPipeline(pipeline),
		WithExporter(exporter),
		WithClipboard(clip),
		WithLogger(a.logger),
		WithHistoryLimit(edc.HistoryLimit),
		WithTabText(edc.TabText),
		WithFilename(ec.Filename),
		WithCopiedTTL(a.config.Clipboard().CopiedTTL),
	}
	if !a.opts.Ephemeral {
		opts = append(opts, WithPersistence(filestore.New(a.opts.FS, sc.Dir).Slot(sc.Key)))
	}
	a.session = NewSession(opts...)
	a.initOrder = append(a.initOrder, "session")

	// A failed load is already logged; the session starts empty.
	_ = a.session.Open()
	return nil
}

// reload applies settings that can change while running.
func (a *Application) reload() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.logger == nil || a.session == nil {
		return
	}
	a.logger.SetLevel(ParseLogLevel(a.logLevel()))
	a.session.SetPipeline(newPipeline(a.config.Render()))
	a.logger.WithComponent(ComponentConfig).Info("settings reloaded from %s", a.config.SettingsPath())
	_ = a.reportConfigErrors()
}

// logLevel returns the effective log level name.
func (a *Application) logLevel() string {
	if a.opts.LogLevel != "" {
		return a.opts.LogLevel
	}
	return a.config.Logging().Level
}

// newPipeline builds a render pipeline from the render settings.
func newPipeline(rc config.RenderConfig) *renderer.Pipeline {
	opts := renderer.DefaultOptions()
	opts.Sanitize = rc.Sanitize
	opts.ExternalSchemes = rc.ExternalSchemes
	opts.Theme = highlight.ThemeFromChroma(rc.HighlightTheme)
	return renderer.New(opts)
}

// Config returns the configuration.
func (a *Application) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.logger
}

// Session returns the editing session.
func (a *Application) Session() *Session {
	return a.session
}

// Close shuts down all components.
func (a *Application) Close() {
	a.cleanup()
}

// cleanup shuts components down in reverse start order.
func (a *Application) cleanup() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := len(a.initOrder) - 1; i >= 0; i-- {
		switch a.initOrder[i] {
		case "session":
			a.session = nil
		case "plugins":
			if a.formatters != nil {
				_ = a.formatters.Close()
				a.formatters = nil
			}
		case "config":
			if a.config != nil {
				a.config.Close()
			}
		}
	}
	a.initOrder = nil
}
