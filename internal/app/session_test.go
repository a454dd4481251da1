package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/markpad/internal/engine/format"
	"github.com/dshills/markpad/internal/markdown"
	"github.com/dshills/markpad/internal/storage/filestore"
	"github.com/dshills/markpad/internal/storage/vfs"
)

// fakeStore is an in-memory persistence collaborator.
type fakeStore struct {
	text    string
	ok      bool
	saves   int
	clears  int
	loadErr error
	saveErr error
}

func (f *fakeStore) Load() (string, bool, error) {
	if f.loadErr != nil {
		return "", false, f.loadErr
	}
	return f.text, f.ok, nil
}

func (f *fakeStore) Save(text string) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.text, f.ok = text, true
	return nil
}

func (f *fakeStore) Clear() error {
	f.clears++
	f.text, f.ok = "", false
	return nil
}

type fakeExporter struct {
	buffer, filename string
	err              error
}

func (f *fakeExporter) ExportAsFile(buffer, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.buffer, f.filename = buffer, filename
	return "/out/" + filename, nil
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(buffer string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, buffer)
	return nil
}

func TestSessionScenarioFormatting(t *testing.T) {
	s := NewSession()
	s.SetText("hello world")

	if got := s.ApplyFormat(format.Bold, format.Selection{Start: 0, End: 5}); got != "**hello** world" {
		t.Errorf("ApplyFormat(Bold) = %q, want %q", got, "**hello** world")
	}

	s.SetText("a\nb")
	if got := s.ApplyFormat(format.UnorderedList, format.Selection{Start: 0, End: 3}); got != "- a\n- b" {
		t.Errorf("ApplyFormat(UnorderedList) = %q, want %q", got, "- a\n- b")
	}
}

func TestSessionUndoRedo(t *testing.T) {
	s := NewSession()
	s.SetText("x")
	s.SetText("xy")
	s.SetText("xyz")

	steps := []struct {
		op   func() (string, bool)
		want string
		ok   bool
	}{
		{s.Undo, "xy", true},
		{s.Undo, "x", true},
		{s.Redo, "xy", true},
		{s.Redo, "xyz", true},
		{s.Redo, "xyz", false},
	}
	for i, st := range steps {
		got, ok := st.op()
		if got != st.want || ok != st.ok {
			t.Errorf("step %d = %q, %v, want %q, %v", i, got, ok, st.want, st.ok)
		}
	}

	// A new edit after undo drops the redo branch.
	s.Undo()
	s.SetText("xw")
	if s.CanRedo() {
		t.Error("CanRedo() = true after editing past an undo")
	}
	if got, ok := s.Redo(); ok || got != "xw" {
		t.Errorf("Redo() = %q, %v, want %q, false", got, ok, "xw")
	}
}

func TestSessionUnchangedEditIsNotRecorded(t *testing.T) {
	s := NewSession()
	s.SetText("same")
	s.ApplyFormat(format.Kind("no-such-kind"), format.Selection{Start: 0, End: 4})

	if got, _ := s.Undo(); got != "" {
		t.Errorf("Undo() = %q, want empty initial buffer", got)
	}
}

func TestSessionInserts(t *testing.T) {
	s := NewSession(WithTabText("\t"))

	if got := s.InsertLink("https://go.dev", "Go"); got != " [Go](https://go.dev)" {
		t.Errorf("InsertLink() = %q", got)
	}
	s.SetText("x")
	if got := s.InsertImage("a.png"); got != "x\n![Alt text](a.png)" {
		t.Errorf("InsertImage() = %q", got)
	}
	s.SetText("")
	want := format.TableTemplate
	if got := s.InsertTable(); got != want {
		t.Errorf("InsertTable() = %q, want %q", got, want)
	}

	s.SetText("ab")
	text, caret := s.InsertTab(format.Selection{Start: 1, End: 1})
	if text != "a\tb" || caret != 2 {
		t.Errorf("InsertTab() = %q, %d, want %q, 2", text, caret, "a\tb")
	}
}

func TestSessionRendersEveryChange(t *testing.T) {
	s := NewSession()
	s.SetText("# Title\n\nSome *text*.")

	want := `Document[Heading(1)[Text("Title")], Paragraph[Text("Some "), Emphasis[Text("text")], Text(".")]]`
	if got := markdown.Dump(s.Tree()); got != want {
		t.Errorf("Tree() = %s, want %s", got, want)
	}
	if h := s.View().Find("h1"); h == nil || h.TextContent() != "Title" {
		t.Error("View() has no h1 element")
	}

	s.Undo()
	if got := markdown.Dump(s.Tree()); got != "Document" {
		t.Errorf("Tree() after Undo = %s, want Document", got)
	}

	html, err := s.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.HasPrefix(html, "<div") {
		t.Errorf("HTML() = %q, want document div", html)
	}
}

func TestSessionOpen(t *testing.T) {
	store := &fakeStore{text: "stored", ok: true}
	s := NewSession(WithPersistence(store))

	if err := s.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := s.Text(); got != "stored" {
		t.Errorf("Text() = %q, want %q", got, "stored")
	}
	if s.CanUndo() {
		t.Error("CanUndo() = true right after Open")
	}
}

func TestSessionOpenFailureKeepsSessionUsable(t *testing.T) {
	var logs bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &logs})
	store := &fakeStore{loadErr: errors.New("disk gone")}
	s := NewSession(WithPersistence(store), WithLogger(logger))

	err := s.Open()
	if err == nil {
		t.Fatal("Open() error = nil, want load failure")
	}
	var ce *ComponentError
	if !errors.As(err, &ce) || ce.Component != ComponentStorage {
		t.Errorf("Open() error = %v, want storage ComponentError", err)
	}
	if s.LastError() == nil {
		t.Error("LastError() = nil after failed Open")
	}
	if !strings.Contains(logs.String(), "component=storage") {
		t.Errorf("log = %q, want component=storage", logs.String())
	}
	if !strings.Contains(logs.String(), "session="+s.ID().String()) {
		t.Errorf("log = %q, want session id", logs.String())
	}

	s.SetText("still works")
	if got := s.Text(); got != "still works" {
		t.Errorf("Text() = %q after failed Open", got)
	}
}

func TestSessionReopensExactBuffer(t *testing.T) {
	memfs := vfs.NewMemFS()
	if err := memfs.MkdirAll("/data", 0o755); err != nil {
		t.Fatal(err)
	}
	store := filestore.New(memfs, "/data")

	tests := []struct {
		name string
		text string
	}{
		{"crlf", "line one\r\nline two"},
		{"lone cr", "a\rb"},
		{"nul byte", "tab\x00nul"},
		{"bom", "\xEF\xBB\xBF# title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewSession(WithPersistence(store.Slot("markdown"))).SetText(tt.text)

			reopened := NewSession(WithPersistence(store.Slot("markdown")))
			if err := reopened.Open(); err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if got := reopened.Text(); got != tt.text {
				t.Errorf("Text() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestSessionSavesEveryChange(t *testing.T) {
	store := &fakeStore{}
	s := NewSession(WithPersistence(store))

	s.SetText("a")
	s.SetText("ab")
	s.Undo()
	if store.saves != 3 || store.text != "a" {
		t.Errorf("store = %d saves, %q, want 3 saves, %q", store.saves, store.text, "a")
	}
}

func TestSessionSaveFailureDoesNotBreakEditing(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("quota exceeded")}
	s := NewSession(WithPersistence(store))

	s.SetText("draft")
	if got := s.Text(); got != "draft" {
		t.Errorf("Text() = %q, want %q", got, "draft")
	}
	if err := s.LastError(); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("LastError() = %v, want save failure", err)
	}
}

func TestSessionClear(t *testing.T) {
	store := &fakeStore{}
	s := NewSession(WithPersistence(store))
	s.SetText("something")

	s.Clear()
	if got := s.Text(); got != "" {
		t.Errorf("Text() after Clear = %q, want empty", got)
	}
	if store.clears != 1 || store.ok {
		t.Errorf("store after Clear = %d clears, ok %v", store.clears, store.ok)
	}
	if got, ok := s.Undo(); !ok || got != "something" {
		t.Errorf("Undo() after Clear = %q, %v, want %q, true", got, ok, "something")
	}
}

func TestSessionCopy(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clip := &fakeClipboard{}
	s := NewSession(WithClipboard(clip), WithCopiedTTL(2*time.Second), WithClock(func() time.Time { return now }))
	s.SetText("copy me")

	if s.Copied() {
		t.Error("Copied() = true before Copy")
	}
	if err := s.Copy(); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if len(clip.copied) != 1 || clip.copied[0] != "copy me" {
		t.Errorf("clipboard = %q, want [%q]", clip.copied, "copy me")
	}
	if !s.Copied() {
		t.Error("Copied() = false right after Copy")
	}
	now = now.Add(2 * time.Second)
	if s.Copied() {
		t.Error("Copied() = true after the TTL")
	}
}

func TestSessionCopyFailure(t *testing.T) {
	tests := []struct {
		name string
		opts []SessionOption
		want error
	}{
		{"no clipboard", nil, ErrComponentNotAvailable},
		{"denied", []SessionOption{WithClipboard(&fakeClipboard{err: errClipboardDenied})}, errClipboardDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.opts...)
			s.SetText("x")
			if err := s.Copy(); !errors.Is(err, tt.want) {
				t.Errorf("Copy() error = %v, want %v", err, tt.want)
			}
			if s.Copied() {
				t.Error("Copied() = true after failed Copy")
			}
			if s.Text() != "x" {
				t.Errorf("Text() = %q after failed Copy", s.Text())
			}
		})
	}
}

var errClipboardDenied = errors.New("clipboard denied")

func TestSessionDownload(t *testing.T) {
	exp := &fakeExporter{}
	s := NewSession(WithExporter(exp))
	s.SetText("# doc")

	path, err := s.Download()
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if path != "/out/markdown.md" || exp.buffer != "# doc" || exp.filename != "markdown.md" {
		t.Errorf("Download() = %q, exporter got %q %q", path, exp.buffer, exp.filename)
	}

	if _, err := s.DownloadAs("notes.html"); err != nil || exp.filename != "notes.html" {
		t.Errorf("DownloadAs() error = %v, filename %q", err, exp.filename)
	}

	failing := NewSession(WithExporter(&fakeExporter{err: errors.New("blocked")}))
	if _, err := failing.Download(); err == nil {
		t.Error("Download() error = nil, want export failure")
	}
	var oe *OperationError
	if err := failing.LastError(); !errors.As(err, &oe) || oe.Op != "download" {
		t.Errorf("LastError() = %v, want download OperationError", err)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	if NewSession().ID() == NewSession().ID() {
		t.Error("two sessions share an id")
	}
}
