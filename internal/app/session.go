package app

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/markpad/internal/clipboard"
	"github.com/dshills/markpad/internal/engine/format"
	"github.com/dshills/markpad/internal/engine/history"
	"github.com/dshills/markpad/internal/markdown"
	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/renderer/core"
)

// Persistence keeps the latest buffer across sessions.
type Persistence interface {
	// Load returns the stored buffer; false means nothing is stored.
	Load() (string, bool, error)
	// Save replaces the stored buffer.
	Save(text string) error
	// Clear removes the stored buffer.
	Clear() error
}

// Exporter produces a downloadable file from the buffer.
type Exporter interface {
	ExportAsFile(buffer, filename string) (string, error)
}

// Clipboard receives copied buffers.
type Clipboard interface {
	Copy(buffer string) error
}

// Session is one live editing session: the buffer, its history, the
// formatting engine and the latest render. Every buffer change re-parses
// and re-renders synchronously before returning, and is handed to the
// persistence collaborator.
//
// Collaborator failures never affect the buffer. They are logged and
// kept as LastError; only Open, Copy and Download return them.
type Session struct {
	mu sync.Mutex

	id      uuid.UUID
	buffer  string
	history *history.History

	engine   *format.Engine
	pipeline *renderer.Pipeline

	store     Persistence
	exporter  Exporter
	clipboard Clipboard
	copied    *clipboard.Ack

	logger   *Logger
	tabText  string
	filename string

	tree    *markdown.Node
	view    *core.VisualNode
	lastErr error
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	engine       *format.Engine
	pipeline     *renderer.Pipeline
	store        Persistence
	exporter     Exporter
	clipboard    Clipboard
	logger       *Logger
	historyLimit int
	tabText      string
	filename     string
	copiedTTL    time.Duration
	now          func() time.Time
}

// WithEngine sets the formatting engine.
func WithEngine(e *format.Engine) SessionOption {
	return func(c *sessionConfig) { c.engine = e }
}

// WithPipeline sets the render pipeline.
func WithPipeline(p *renderer.Pipeline) SessionOption {
	return func(c *sessionConfig) { c.pipeline = p }
}

// WithPersistence sets the persistence collaborator.
func WithPersistence(p Persistence) SessionOption {
	return func(c *sessionConfig) { c.store = p }
}

// WithExporter sets the export collaborator.
func WithExporter(e Exporter) SessionOption {
	return func(c *sessionConfig) { c.exporter = e }
}

// WithClipboard sets the clipboard collaborator.
func WithClipboard(cb Clipboard) SessionOption {
	return func(c *sessionConfig) { c.clipboard = cb }
}

// WithLogger sets the session logger.
func WithLogger(l *Logger) SessionOption {
	return func(c *sessionConfig) { c.logger = l }
}

// WithHistoryLimit caps the number of undo snapshots.
func WithHistoryLimit(n int) SessionOption {
	return func(c *sessionConfig) { c.historyLimit = n }
}

// WithTabText sets the text inserted by InsertTab.
func WithTabText(s string) SessionOption {
	return func(c *sessionConfig) { c.tabText = s }
}

// WithFilename sets the Download filename.
func WithFilename(name string) SessionOption {
	return func(c *sessionConfig) { c.filename = name }
}

// WithCopiedTTL sets how long Copied reports true after a copy.
func WithCopiedTTL(d time.Duration) SessionOption {
	return func(c *sessionConfig) { c.copiedTTL = d }
}

// WithClock sets the time source of the copied acknowledgement.
func WithClock(now func() time.Time) SessionOption {
	return func(c *sessionConfig) { c.now = now }
}

// NewSession creates a session with an empty buffer.
func NewSession(opts ...SessionOption) *Session {
	cfg := sessionConfig{
		historyLimit: history.DefaultMaxEntries,
		tabText:      "  ",
		filename:     "markdown.md",
		copiedTTL:    clipboard.DefaultCopiedTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.engine == nil {
		cfg.engine = format.NewEngine()
	}
	if cfg.pipeline == nil {
		cfg.pipeline = renderer.New(renderer.DefaultOptions())
	}
	if cfg.logger == nil {
		cfg.logger = NullLogger
	}

	id := uuid.New()
	s := &Session{
		id:        id,
		history:   history.New("", cfg.historyLimit),
		engine:    cfg.engine,
		pipeline:  cfg.pipeline,
		store:     cfg.store,
		exporter:  cfg.exporter,
		clipboard: cfg.clipboard,
		copied:    clipboard.NewAck(cfg.copiedTTL, cfg.now),
		logger:    cfg.logger.WithField("session", id.String()),
		tabText:   cfg.tabText,
		filename:  cfg.filename,
	}
	s.render()
	return s
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Open loads the persisted buffer, if any, and makes it the initial
// history entry. A load failure leaves the session empty and usable.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	text, ok, err := s.store.Load()
	if err != nil {
		err = NewOperationError("open", "", NewComponentError(ComponentStorage, "load", err))
		s.fail(ComponentStorage, err)
		return err
	}
	if !ok {
		s.logger.Debug("no stored document")
		return nil
	}

	s.buffer = text
	s.history.Reset(text)
	s.render()
	s.logger.Info("opened stored document (%d bytes)", len(text))
	return nil
}

// Text returns the current buffer.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Tree returns the parse of the current buffer.
func (s *Session) Tree() *markdown.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// View returns the render of the current buffer.
func (s *Session) View() *core.VisualNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// HTML returns the current render serialized as HTML.
func (s *Session) HTML() (string, error) {
	view := s.View()
	var b strings.Builder
	if err := renderer.WriteHTML(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SetText replaces the buffer with text as one undoable edit.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(text)
}

// ApplyFormat formats the selection with kind and returns the new buffer.
func (s *Session) ApplyFormat(kind format.Kind, sel format.Selection) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(s.engine.Apply(s.buffer, sel, kind))
	return s.buffer
}

// InsertImage appends an image reference and returns the new buffer.
func (s *Session) InsertImage(url string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(format.InsertImage(s.buffer, url))
	return s.buffer
}

// InsertLink appends a link reference and returns the new buffer.
func (s *Session) InsertLink(url, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(format.InsertLink(s.buffer, url, text))
	return s.buffer
}

// InsertTable appends the table template and returns the new buffer.
func (s *Session) InsertTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(format.InsertTable(s.buffer))
	return s.buffer
}

// InsertTab replaces the selection with the tab text and returns the
// new buffer and caret offset.
func (s *Session) InsertTab(sel format.Selection) (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, caret := format.InsertTab(s.buffer, sel, s.tabText)
	s.commit(text)
	return s.buffer, caret
}

// Undo steps back one edit. It returns false when there is nothing to
// undo.
func (s *Session) Undo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.history.Undo()
	if ok {
		s.move(text)
	}
	return s.buffer, ok
}

// Redo steps forward one edit. It returns false when there is nothing
// to redo.
func (s *Session) Redo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.history.Redo()
	if ok {
		s.move(text)
	}
	return s.buffer, ok
}

// CanUndo reports whether Undo would change the buffer.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the buffer.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Copy sends the buffer to the clipboard and sets the copied
// acknowledgement.
func (s *Session) Copy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clipboard == nil {
		err := NewOperationError("copy", "", NewComponentError(ComponentClipboard, "copy", ErrComponentNotAvailable))
		s.fail(ComponentClipboard, err)
		return err
	}
	if err := s.clipboard.Copy(s.buffer); err != nil {
		err = NewOperationError("copy", "", NewComponentError(ComponentClipboard, "copy", err))
		s.fail(ComponentClipboard, err)
		return err
	}
	s.copied.Mark()
	return nil
}

// Copied reports whether a copy happened within the copied TTL.
func (s *Session) Copied() bool {
	return s.copied.Active()
}

// Clear empties the buffer and removes the stored document. The clear
// is undoable.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buffer != "" {
		s.buffer = ""
		s.history.Record("")
		s.render()
	}

	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			s.fail(ComponentStorage, NewComponentError(ComponentStorage, "clear", err))
		}
	}
}

// Download exports the buffer under the configured filename and returns
// the written path.
func (s *Session) Download() (string, error) {
	s.mu.Lock()
	name := s.filename
	s.mu.Unlock()
	return s.DownloadAs(name)
}

// DownloadAs exports the buffer under filename.
func (s *Session) DownloadAs(filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exporter == nil {
		err := NewOperationError("download", filename, NewComponentError(ComponentExport, "export", ErrComponentNotAvailable))
		s.fail(ComponentExport, err)
		return "", err
	}
	path, err := s.exporter.ExportAsFile(s.buffer, filename)
	if err != nil {
		err = NewOperationError("download", filename, NewComponentError(ComponentExport, "export", err))
		s.fail(ComponentExport, err)
		return "", err
	}
	s.logger.Info("exported %s", path)
	return path, nil
}

// SetPipeline swaps the render pipeline and re-renders.
func (s *Session) SetPipeline(p *renderer.Pipeline) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = p
	s.render()
}

// Pipeline returns the current render pipeline.
func (s *Session) Pipeline() *renderer.Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline
}

// Engine returns the formatting engine.
func (s *Session) Engine() *format.Engine {
	return s.engine
}

// LastError returns the most recent collaborator failure, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// commit records text as a new edit. Caller holds s.mu.
func (s *Session) commit(text string) {
	if text == s.buffer {
		return
	}
	s.buffer = text
	s.history.Record(text)
	s.render()
	s.save()
}

// move sets the buffer from history without recording. Caller holds s.mu.
func (s *Session) move(text string) {
	s.buffer = text
	s.render()
	s.save()
}

// render re-parses and re-renders the buffer. Caller holds s.mu.
func (s *Session) render() {
	s.tree = s.pipeline.Parse(s.buffer)
	s.view = s.pipeline.RenderNode(s.tree)
}

// save hands the buffer to persistence. Caller holds s.mu.
func (s *Session) save() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.buffer); err != nil {
		s.fail(ComponentStorage, NewComponentError(ComponentStorage, "save", err))
	}
}

// fail logs a collaborator failure and keeps it as LastError.
// Caller holds s.mu.
func (s *Session) fail(component string, err error) {
	s.lastErr = err
	s.logger.WithComponent(component).Error("%v", err)
}
