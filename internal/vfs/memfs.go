package vfs

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/cnosdb/tskv/internal/base"
)

// MemFS is an in-memory FS for tests: no files ever touch disk, and Lock
// is tracked per path within the process rather than via flock(2).
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	locks map[string]bool
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		locks: make(map[string]bool),
	}
}

func (fs *MemFS) Open(path string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, ok := fs.files[path]
	if !ok {
		return nil, base.NewIoError("open", os.ErrNotExist)
	}
	return &memFile{fs: fs, path: path, data: append([]byte(nil), data...)}, nil
}

func (fs *MemFS) Create(path string) (WritableFile, error) {
	fs.mu.Lock()
	fs.files[path] = nil
	fs.mu.Unlock()
	return &memFile{fs: fs, path: path}, nil
}

func (fs *MemFS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok {
		return base.NewIoError("remove", os.ErrNotExist)
	}
	delete(fs.files, path)
	return nil
}

func (fs *MemFS) MkdirAll(path string) error {
	return nil // the in-memory tree has no directories to create
}

func (fs *MemFS) Lock(path string) (io.Closer, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.locks[path] {
		return nil, base.NewIoError("lock", os.ErrExist)
	}
	fs.locks[path] = true
	return &memLock{fs: fs, path: path}, nil
}

type memLock struct {
	fs   *MemFS
	path string
}

func (l *memLock) Close() error {
	l.fs.mu.Lock()
	delete(l.fs.locks, l.path)
	l.fs.mu.Unlock()
	return nil
}

type memFile struct {
	fs   *MemFS
	path string
	data []byte
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	f.data = append(f.data, p...)
	return len(p), nil
}

func (f *memFile) Len() (int64, error) {
	return int64(len(f.data)), nil
}

func (f *memFile) Cursor() (io.ReadSeeker, error) {
	return bytes.NewReader(f.data), nil
}

func (f *memFile) Sync() error {
	return nil
}

func (f *memFile) Close() error {
	f.fs.mu.Lock()
	f.fs.files[f.path] = append([]byte(nil), f.data...)
	f.fs.mu.Unlock()
	return nil
}
