// Package filestore persists documents as files in a directory.
//
// Each document is stored under a key; the key names a file
// "<key>.md" inside the store directory. Writes go to a temporary file
// that is renamed into place so a crash never leaves a half-written
// document behind.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/markpad/internal/storage/vfs"
)

// Extension is appended to keys to form file names.
const Extension = ".md"

// ErrInvalidKey indicates a key that cannot name a file.
var ErrInvalidKey = errors.New("invalid document key")

// PathError records an error and the operation and key that caused it.
type PathError struct {
	Op   string // load, save, clear
	Key  string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Key, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// Store is a key/value document store over a VFS directory.
type Store struct {
	mu  sync.Mutex
	fs  vfs.VFS
	dir string

	perm    fs.FileMode
	dirPerm fs.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithFileMode sets the permission of written documents.
func WithFileMode(perm fs.FileMode) Option {
	return func(s *Store) {
		s.perm = perm
	}
}

// New creates a store rooted at dir. The directory is created on the
// first save.
func New(fsys vfs.VFS, dir string, opts ...Option) *Store {
	s := &Store{
		fs:      fsys,
		dir:     dir,
		perm:    0o644,
		dirPerm: 0o755,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for key.
func (s *Store) Path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+Extension), nil
}

// Load returns the document stored under key exactly as it was saved.
// The boolean is false when nothing is stored.
func (s *Store) Load(key string) (string, bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return "", false, &PathError{Op: "load", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &PathError{Op: "load", Key: key, Path: path, Err: err}
	}
	return string(data), true, nil
}

// Save stores text under key, replacing any previous document.
func (s *Store) Save(key, text string) error {
	path, err := s.Path(key)
	if err != nil {
		return &PathError{Op: "save", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, s.dirPerm); err != nil {
		return &PathError{Op: "save", Key: key, Path: path, Err: err}
	}

	tmp := filepath.Join(s.dir, "."+key+"-"+uuid.NewString()+".tmp")
	if err := s.fs.WriteFile(tmp, []byte(text), s.perm); err != nil {
		return &PathError{Op: "save", Key: key, Path: tmp, Err: err}
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return &PathError{Op: "save", Key: key, Path: path, Err: err}
	}
	return nil
}

// Clear removes the document stored under key. Clearing a missing
// document is not an error.
func (s *Store) Clear(key string) error {
	path, err := s.Path(key)
	if err != nil {
		return &PathError{Op: "clear", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &PathError{Op: "clear", Key: key, Path: path, Err: err}
	}
	return nil
}

// Slot returns the persistence slot for key.
func (s *Store) Slot(key string) *Slot {
	return &Slot{store: s, key: key}
}

// Slot is a single persisted document.
type Slot struct {
	store *Store
	key   string
}

// Key returns the slot key.
func (s *Slot) Key() string { return s.key }

// Load returns the stored document, if any.
func (s *Slot) Load() (string, bool, error) { return s.store.Load(s.key) }

// Save replaces the stored document.
func (s *Slot) Save(text string) error { return s.store.Save(s.key, text) }

// Clear removes the stored document.
func (s *Slot) Clear() error { return s.store.Clear(s.key) }

// validateKey rejects keys that are empty, hidden or contain path
// separators.
func validateKey(key string) error {
	switch {
	case key == "", key == ".", key == "..":
		return ErrInvalidKey
	case strings.HasPrefix(key, "."):
		return ErrInvalidKey
	case strings.ContainsAny(key, `/\`+"\x00"):
		return ErrInvalidKey
	}
	return nil
}
