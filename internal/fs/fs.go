package fs

import (
	"io"
	"os"
)

// File is a writable file created by a FileSystem.
type File interface {
	io.Writer
	io.WriterAt
	io.Closer
	Name() string
	Sync() error
}

// FileSystem abstracts the file operations needed to spill a source to disk.
type FileSystem interface {
	CreateTemp(dir, pattern string) (File, error)
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) CreateTemp(dir, pattern string) (File, error) {
	return os.CreateTemp(dir, pattern)
}

func (LocalFS) Remove(name string) error              { return os.Remove(name) }
func (LocalFS) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

// Default is the default local file system.
var Default FileSystem = LocalFS{}
