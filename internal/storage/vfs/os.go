package vfs

import (
	"io/fs"
	"os"
)

// OSFS implements VFS using the operating system's file system.
type OSFS struct{}

// NewOSFS creates a new OS file system.
func NewOSFS() *OSFS {
	return &OSFS{}
}

var _ VFS = (*OSFS)(nil)

// ReadFile reads the entire file content.
func (f *OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating it if necessary.
func (f *OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Stat returns file information.
func (f *OSFS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return NewFileInfo(path, info.Size(), info.Mode(), info.ModTime(), info.IsDir()), nil
}

// MkdirAll creates a directory and all parent directories.
func (f *OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (f *OSFS) Remove(path string) error {
	return os.Remove(path)
}

// Rename renames a file.
func (f *OSFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Exists returns true if the path exists.
func (f *OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
