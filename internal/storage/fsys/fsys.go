// Package fsys is the filesystem collaborator of the save engine.
//
// The engine never touches the os package directly. Everything goes through
// FS so tests can inject faults, in particular a rename that fails after the
// temporary file has been written.
package fsys

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a writable file handle.
type File interface {
	io.Writer
	Sync() error
	Close() error
}

// FS provides the path primitives the engine needs.
type FS interface {
	MkdirAll(dir string) error
	Create(name string) (File, error)
	ReadFile(name string) ([]byte, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
	Stat(name string) (fs.FileInfo, error)
	ReadDir(dir string) ([]fs.DirEntry, error)
}

// OS is the FS backed by the host filesystem.
type OS struct{}

func (OS) MkdirAll(dir string) error { return os.MkdirAll(dir, 0755) }

func (OS) Create(name string) (File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
}

func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (OS) Remove(name string) error { return os.Remove(name) }

func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OS) ReadDir(dir string) ([]fs.DirEntry, error) { return os.ReadDir(dir) }

// Exists reports whether name exists.
func Exists(fsys FS, name string) (bool, error) {
	_, err := fsys.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RemoveIfExists removes name, ignoring a missing file. It reports whether
// a file was removed.
func RemoveIfExists(fsys FS, name string) (bool, error) {
	err := fsys.Remove(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// WriteFile writes data to name and syncs it to stable storage.
func WriteFile(fsys FS, name string, data []byte) error {
	f, err := fsys.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteAtomic writes data to tmp, syncs it, and renames it over name.
// On failure tmp is left behind and name is untouched.
func WriteAtomic(fsys FS, tmp, name string, data []byte) error {
	if err := WriteFile(fsys, tmp, data); err != nil {
		return err
	}
	return fsys.Rename(tmp, name)
}

// CopySuffix is appended to dst for the temporary file of Copy.
const CopySuffix = ".copy"

// Copy duplicates src to dst through a temporary sibling of dst, so dst is
// either the old content or a full copy. The temporary file is removed when
// the copy fails.
func Copy(fsys FS, src, dst string) error {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	tmp := dst + CopySuffix
	if err := WriteAtomic(fsys, tmp, dst, data); err != nil {
		_, _ = RemoveIfExists(fsys, tmp)
		return err
	}
	return nil
}

// SyncDir flushes directory metadata after a rename. Errors are ignored on
// platforms that cannot sync directories.
func SyncDir(fsys FS, dir string) {
	if _, ok := fsys.(OS); !ok {
		return
	}
	d, err := os.Open(filepath.Clean(dir))
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
