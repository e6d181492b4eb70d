// Package filesystem abstracts the file system operations pathsource performs,
// so that components doing real I/O (directory scanning, file previewing,
// update checks) can be exercised in tests without touching the host disk.
package filesystem

import (
	"io/fs"
	"os"
)

// FileSystem is the capability surface the rest of the codebase depends on.
// DefaultFileSystem forwards everything to the os package.
type FileSystem interface {
	Open(name string) (*os.File, error)
	Create(name string) (*os.File, error)
	ReadFile(name string) (string, error)
	WriteFile(name string, content string) error

	// ReadDir returns the directory entries sorted by name, as os.ReadDir
	// does.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Stat follows symbolic links; Lstat does not.
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
}

type DefaultFileSystem struct{}

var _ FileSystem = DefaultFileSystem{}

func (DefaultFileSystem) Open(name string) (*os.File, error) {
	return os.Open(name)
}

func (DefaultFileSystem) Create(name string) (*os.File, error) {
	return os.Create(name)
}

func (DefaultFileSystem) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (DefaultFileSystem) WriteFile(name string, content string) error {
	return os.WriteFile(name, []byte(content), 0644)
}

func (DefaultFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (DefaultFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (DefaultFileSystem) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}
