package base

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ErrUnsupportedType is returned when an insert carries the Unknown value
// type tag: there is no scalar representation to decode into.
var ErrUnsupportedType = errors.New("tskv: unsupported value type")

// ErrCacheFrozen is returned when an insert is attempted against a MemCache
// that has already been switched to immutable.
var ErrCacheFrozen = errors.New("tskv: cache is frozen (immutable)")

// ErrDecode is returned when a raw byte buffer is shorter than the claimed
// scalar type requires.
var ErrDecode = errors.New("tskv: buffer too short to decode value")

// WriteTsmError wraps a codec-layer encode failure, carrying the reason the
// codec reported. Callers never need to interpret Reason; it is forwarded
// verbatim from the codec boundary.
type WriteTsmError struct {
	Reason string
}

func (e *WriteTsmError) Error() string {
	return errors.Newf("tskv: write tsm failed: %s", redact.SafeString(e.Reason)).Error()
}

// NewWriteTsmError constructs a WriteTsmError carrying reason.
func NewWriteTsmError(reason string) error {
	return errors.WithStack(&WriteTsmError{Reason: reason})
}

// IoError wraps a file-manager error so callers can distinguish I/O failures
// from decode/type failures without inspecting string text.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return errors.Newf("tskv: io error during %s", redact.SafeString(e.Op)).Error()
}

func (e *IoError) Unwrap() error { return e.Err }

// NewIoError wraps err, tagging it with the operation that failed. Returns
// nil if err is nil, so call sites can write `return NewIoError("open", err)`
// unconditionally.
func NewIoError(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&IoError{Op: op, Err: err})
}

// IsUnsupportedType reports whether err is or wraps ErrUnsupportedType.
func IsUnsupportedType(err error) bool { return errors.Is(err, ErrUnsupportedType) }

// IsCacheFrozen reports whether err is or wraps ErrCacheFrozen.
func IsCacheFrozen(err error) bool { return errors.Is(err, ErrCacheFrozen) }

// IsDecodeError reports whether err is or wraps ErrDecode.
func IsDecodeError(err error) bool { return errors.Is(err, ErrDecode) }
