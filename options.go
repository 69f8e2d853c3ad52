// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tskv

import (
	"encoding/json"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"

	"github.com/cnosdb/tskv/internal/vfs"
	"github.com/cnosdb/tskv/metrics"
)

// Logger is the logging sink TseriesFamily and its collaborators write
// through. Fatalf must not return: it is reserved for invariant violations
// the design treats as fatal to the family (rotation/flush-enqueue
// failures), matching the opts.Logger.Infof/Fatalf pattern used throughout
// this module's lineage.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// stdLogger adapts the standard library's log package to the Logger
// interface, used when no logger is supplied.
type stdLogger struct {
	*log.Logger
}

func (l *stdLogger) Infof(format string, args ...interface{})  { l.Printf("INFO: "+format, args...) }
func (l *stdLogger) Errorf(format string, args ...interface{}) { l.Printf("ERROR: "+format, args...) }
func (l *stdLogger) Fatalf(format string, args ...interface{}) {
	l.Printf("FATAL: "+format, args...)
	os.Exit(1)
}

// DefaultLogger returns a Logger that writes to stderr via the standard
// library's log package.
func DefaultLogger() Logger {
	return &stdLogger{log.New(os.Stderr, "", log.LstdFlags)}
}

// Options is the configuration consumed by a TseriesFamily: the byte and
// count budgets that gate rotation (MaxMemCacheSize, MaxImMemCacheNum)
// plus the directory convention, file manager, recorder, and logger every
// family needs to actually run.
type Options struct {
	// MaxMemCacheSize is the byte budget that gates mutable rotation.
	MaxMemCacheSize uint64 `json:"max_memcache_size" validate:"required,gt=0"`
	// MaxImMemCacheNum is the immutable-list length that triggers an
	// immutable-batch flush dispatch.
	MaxImMemCacheNum int `json:"max_immemcache_num" validate:"required,gt=0"`

	TSMDir   string `json:"tsm_dir" validate:"required"`
	DeltaDir string `json:"delta_dir" validate:"required"`

	FS       vfs.FS          `json:"-" validate:"-"`
	Recorder metrics.Recorder `json:"-" validate:"-"`
	Logger   Logger          `json:"-" validate:"-"`
}

// EnsureDefaults fills in FS, Recorder, and Logger with their default
// implementations if they were left nil, the way a constructor for an
// embeddable options struct typically does so zero-value Options{} with
// only the two required scalars set is still usable.
func (o *Options) EnsureDefaults() *Options {
	if o.FS == nil {
		o.FS = vfs.NewMemFS()
	}
	if o.Recorder == nil {
		o.Recorder = metrics.Nop{}
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger()
	}
	return o
}

var validate = validator.New()

// Validate checks the struct tags above via go-playground/validator,
// surfacing every violation rather than stopping at the first one.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(err, "tskv: invalid options")
	}
	return nil
}

// LoadOptionsHuJSON reads a HuJSON/JWCC config file (comments and trailing
// commas allowed) at path, standardizes it to plain JSON, and unmarshals it
// into an Options. FS/Recorder/Logger are never set by config; call
// EnsureDefaults (or set them explicitly) afterward.
func LoadOptionsHuJSON(path string) (*Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "tskv: read options file")
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, errors.Wrap(err, "tskv: parse HuJSON options")
	}
	var opts Options
	if err := json.Unmarshal(std, &opts); err != nil {
		return nil, errors.Wrap(err, "tskv: unmarshal options")
	}
	return &opts, nil
}
