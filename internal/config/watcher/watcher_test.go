package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Operation(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Chmod, 0, false},
	}
	for _, tt := range tests {
		got, ok := convertOp(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("convertOp(%v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWatchUnwatch(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("IsWatching() = false after Watch")
	}
	if err := w.Unwatch(path); err != nil {
		t.Errorf("Unwatch() error = %v", err)
	}
	if err := w.Unwatch(path); err != ErrNotWatching {
		t.Errorf("second Unwatch() error = %v, want ErrNotWatching", err)
	}
}

func TestWatchAfterClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x")); err != ErrWatcherClosed {
		t.Errorf("Watch() after Close error = %v, want ErrWatcherClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestChangeIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	other := filepath.Join(dir, "other.md")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	events := make(chan Event, 16)
	w.OnChange(func(e Event) { events <- e })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case e := <-events:
		if e.Path != path {
			t.Errorf("event path = %q, want %q", e.Path, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	// Rapid writes collapse into one event.
	select {
	case e := <-events:
		t.Errorf("unexpected second event %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}
