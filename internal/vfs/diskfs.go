package vfs

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/cnosdb/tskv/internal/base"
)

// DiskFS is the OS-backed FS implementation: Open/Create/Remove delegate
// directly to the os package, and Lock takes an advisory flock(2) on a
// lock file (not on the directory itself) so only one process operates on
// a family's files at a time.
type DiskFS struct{}

// NewDiskFS returns the OS-backed filesystem.
func NewDiskFS() *DiskFS {
	return &DiskFS{}
}

func (DiskFS) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, base.NewIoError("open", err)
	}
	return &diskFile{f: f}, nil
}

func (DiskFS) Create(path string) (WritableFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, base.NewIoError("create", err)
	}
	return &diskFile{f: f}, nil
}

func (DiskFS) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return base.NewIoError("remove", err)
	}
	return nil
}

func (DiskFS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return base.NewIoError("mkdirAll", err)
	}
	return nil
}

// Lock takes an advisory exclusive flock(2) on the regular file at path,
// creating it if needed; a directory path fails to open.
// The returned Closer releases the lock and closes the underlying
// descriptor; it must be held for the lifetime of the family's access to
// its directory, mirroring a DB's single per-directory file lock.
func (DiskFS) Lock(path string) (io.Closer, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0o644)
	if err != nil {
		return nil, base.NewIoError("lock", err)
	}
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = unix.Close(fd)
		return nil, base.NewIoError("lock", err)
	}
	return &diskLock{fd: fd, path: path}, nil
}

type diskLock struct {
	fd   int
	path string
}

func (l *diskLock) Close() error {
	_ = unix.Flock(l.fd, unix.LOCK_UN)
	return unix.Close(l.fd)
}

type diskFile struct {
	f *os.File
}

func (d *diskFile) ReadAt(p []byte, off int64) (int, error) {
	return d.f.ReadAt(p, off)
}

func (d *diskFile) Write(p []byte) (int, error) {
	return d.f.Write(p)
}

func (d *diskFile) Len() (int64, error) {
	info, err := d.f.Stat()
	if err != nil {
		return 0, base.NewIoError("stat", err)
	}
	return info.Size(), nil
}

func (d *diskFile) Cursor() (io.ReadSeeker, error) {
	return io.NewSectionReader(d.f, 0, 1<<62), nil
}

func (d *diskFile) Sync() error {
	if err := d.f.Sync(); err != nil {
		return base.NewIoError("sync", err)
	}
	return nil
}

func (d *diskFile) Close() error {
	if err := d.f.Close(); err != nil {
		return base.NewIoError("close", err)
	}
	return nil
}
