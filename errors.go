// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tskv

import "github.com/cnosdb/tskv/internal/base"

// Error kinds surfaced across the ingest/rotation/flush path. These alias the
// internal/base definitions so call sites outside this module never need to
// import internal packages to check an error kind.
var (
	ErrUnsupportedType = base.ErrUnsupportedType
	ErrCacheFrozen     = base.ErrCacheFrozen
	ErrDecode          = base.ErrDecode
)

// WriteTsmError wraps a codec-layer encode failure.
type WriteTsmError = base.WriteTsmError

// IoError wraps a file-manager error.
type IoError = base.IoError

// NewWriteTsmError constructs a WriteTsmError carrying reason.
func NewWriteTsmError(reason string) error { return base.NewWriteTsmError(reason) }

// NewIoError wraps err, tagging it with the operation that failed.
func NewIoError(op string, err error) error { return base.NewIoError(op, err) }

// IsUnsupportedType reports whether err is or wraps ErrUnsupportedType.
func IsUnsupportedType(err error) bool { return base.IsUnsupportedType(err) }

// IsCacheFrozen reports whether err is or wraps ErrCacheFrozen.
func IsCacheFrozen(err error) bool { return base.IsCacheFrozen(err) }

// IsDecodeError reports whether err is or wraps ErrDecode.
func IsDecodeError(err error) bool { return base.IsDecodeError(err) }
