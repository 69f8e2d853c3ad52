// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package vfs holds the file-manager boundary consumed by the flush and
// read paths: open/len/cursor access to a column file, plus
// Create/Remove/Lock for the manifest and file-placement layer above it.
// Two implementations are provided: an in-memory FS for tests and an
// OS-backed FS that guards the family directory with an advisory lock file.
package vfs

import "io"

// File is the consumed file handle: readable at an offset, with a known
// length, and able to hand out a fresh cursor (a ReadSeeker positioned at
// the start) for sequential codec reads.
type File interface {
	io.ReaderAt
	io.Closer
	Len() (int64, error)
	Cursor() (io.ReadSeeker, error)
}

// WritableFile extends File with the write side used while a column file or
// manifest record is being produced.
type WritableFile interface {
	File
	io.Writer
	Sync() error
}

// FS is the consumed file manager: open a path for reading, create one for
// writing, remove it, and take an advisory lock on a lock-file path so only
// one process operates on a family's files at a time.
type FS interface {
	Open(path string) (File, error)
	Create(path string) (WritableFile, error)
	Remove(path string) error
	MkdirAll(path string) error
	Lock(path string) (io.Closer, error)
}

// ColumnFilePath returns the canonical path for a main (non-delta) column
// file: {tsmDir}/{tfID}/_{fileID:06}.tsm.
func ColumnFilePath(tsmDir string, tfID uint32, fileID uint64) string {
	return formatPath(tsmDir, tfID, fileID, "tsm")
}

// DeltaFilePath returns the canonical path for a delta column file:
// {deltaDir}/{tfID}/_{fileID:06}.delta.
func DeltaFilePath(deltaDir string, tfID uint32, fileID uint64) string {
	return formatPath(deltaDir, tfID, fileID, "delta")
}

// TombstonePath returns the canonical path for a file's tombstone, by the
// same parallel-path convention as the column file itself.
func TombstonePath(dir string, tfID uint32, fileID uint64) string {
	return formatPath(dir, tfID, fileID, "tombstone")
}

func formatPath(dir string, tfID uint32, fileID uint64, ext string) string {
	return joinPath(dir, formatFamilyDir(tfID), formatFileName(fileID, ext))
}
