package vfs

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Standard error values for MemFS operations.
// These align with POSIX errors for consistency with OSFS.
var (
	errIsDir    = syscall.EISDIR
	errNotDir   = syscall.ENOTDIR
	errNotEmpty = syscall.ENOTEMPTY
)

// MemFS implements VFS using an in-memory file system.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memFile
	dirs  map[string]bool
	now   func() time.Time
}

type memFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates a new in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memFile),
		dirs:  map[string]bool{"/": true},
		now:   time.Now,
	}
}

var _ VFS = (*MemFS)(nil)

// ReadFile reads the entire file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	f, ok := m.files[filePath]
	if !ok {
		if m.dirs[filePath] {
			return nil, &fs.PathError{Op: "read", Path: filePath, Err: errIsDir}
		}
		return nil, &fs.PathError{Op: "read", Path: filePath, Err: fs.ErrNotExist}
	}

	// Return a copy to prevent modification
	content := make([]byte, len(f.content))
	copy(content, f.content)
	return content, nil
}

// WriteFile writes data to a file, creating it if necessary.
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	if m.dirs[filePath] {
		return &fs.PathError{Op: "write", Path: filePath, Err: errIsDir}
	}
	if !m.dirs[path.Dir(filePath)] {
		return &fs.PathError{Op: "write", Path: filePath, Err: fs.ErrNotExist}
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.files[filePath] = &memFile{content: content, mode: perm, modTime: m.now()}
	return nil
}

// Stat returns file information.
func (m *MemFS) Stat(filePath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	if f, ok := m.files[filePath]; ok {
		return NewFileInfo(filePath, int64(len(f.content)), f.mode, f.modTime, false), nil
	}
	if m.dirs[filePath] {
		return NewFileInfo(filePath, 0, fs.ModeDir|0o755, time.Time{}, true), nil
	}
	return FileInfo{}, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
}

// MkdirAll creates a directory and all parent directories.
func (m *MemFS) MkdirAll(dirPath string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dirPath = cleanPath(dirPath)
	current := ""
	for _, part := range strings.Split(strings.Trim(dirPath, "/"), "/") {
		if part == "" {
			continue
		}
		current += "/" + part
		if _, ok := m.files[current]; ok {
			return &fs.PathError{Op: "mkdir", Path: current, Err: errNotDir}
		}
		m.dirs[current] = true
	}
	return nil
}

// Remove removes a file or empty directory.
func (m *MemFS) Remove(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	if _, ok := m.files[filePath]; ok {
		delete(m.files, filePath)
		return nil
	}
	if !m.dirs[filePath] {
		return &fs.PathError{Op: "remove", Path: filePath, Err: fs.ErrNotExist}
	}

	prefix := strings.TrimSuffix(filePath, "/") + "/"
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			return &fs.PathError{Op: "remove", Path: filePath, Err: errNotEmpty}
		}
	}
	for d := range m.dirs {
		if d != filePath && strings.HasPrefix(d, prefix) {
			return &fs.PathError{Op: "remove", Path: filePath, Err: errNotEmpty}
		}
	}
	delete(m.dirs, filePath)
	return nil
}

// Rename renames a file. Directories cannot be renamed.
func (m *MemFS) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldPath = cleanPath(oldPath)
	newPath = cleanPath(newPath)

	f, ok := m.files[oldPath]
	if !ok {
		if m.dirs[oldPath] {
			return &fs.PathError{Op: "rename", Path: oldPath, Err: errIsDir}
		}
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}
	if !m.dirs[path.Dir(newPath)] {
		return &fs.PathError{Op: "rename", Path: newPath, Err: fs.ErrNotExist}
	}
	if m.dirs[newPath] {
		return &fs.PathError{Op: "rename", Path: newPath, Err: errIsDir}
	}

	m.files[newPath] = f
	delete(m.files, oldPath)
	return nil
}

// Exists returns true if the path exists.
func (m *MemFS) Exists(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	_, isFile := m.files[filePath]
	return isFile || m.dirs[filePath]
}

// AddFile is a convenience method for adding files during setup.
func (m *MemFS) AddFile(filePath string, content string) error {
	if err := m.MkdirAll(path.Dir(cleanPath(filePath)), 0o755); err != nil {
		return err
	}
	return m.WriteFile(filePath, []byte(content), 0o644)
}

// Files returns all file paths in sorted order.
func (m *MemFS) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]string, 0, len(m.files))
	for f := range m.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// cleanPath returns an absolute, slash-separated clean path.
func cleanPath(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return p
}
