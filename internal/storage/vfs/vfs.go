// Package vfs provides the file system abstraction used by document
// persistence and export.
//
// OSFS talks to the operating system. MemFS keeps everything in memory
// and backs the tests of every package that writes files.
package vfs

import (
	"io/fs"
	"time"
)

// VFS is a virtual file system abstraction.
type VFS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	// The parent directory must exist.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns file information.
	Stat(path string) (FileInfo, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm fs.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// Rename renames a file, replacing any file at newPath.
	Rename(oldPath, newPath string) error

	// Exists returns true if the path exists.
	Exists(path string) bool
}

// FileInfo describes a file or directory.
type FileInfo struct {
	path    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

// NewFileInfo creates a FileInfo from the given parameters.
func NewFileInfo(path string, size int64, mode fs.FileMode, modTime time.Time, isDir bool) FileInfo {
	return FileInfo{
		path:    path,
		size:    size,
		mode:    mode,
		modTime: modTime,
		isDir:   isDir,
	}
}

// Path returns the full path.
func (fi FileInfo) Path() string { return fi.path }

// Size returns the file size in bytes.
func (fi FileInfo) Size() int64 { return fi.size }

// Mode returns the file mode.
func (fi FileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi FileInfo) ModTime() time.Time { return fi.modTime }

// IsDir returns true if this is a directory.
func (fi FileInfo) IsDir() bool { return fi.isDir }
