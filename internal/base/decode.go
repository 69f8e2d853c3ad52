package base

import (
	"encoding/binary"
	"math"
)

// DecodeU64 decodes the big-endian uint64 at the front of buf.
func DecodeU64(buf []byte) (uint64, error) {
	if len(buf) < 8 {
		return 0, ErrDecode
	}
	return binary.BigEndian.Uint64(buf), nil
}

// DecodeI64 decodes the big-endian int64 at the front of buf.
func DecodeI64(buf []byte) (int64, error) {
	v, err := DecodeU64(buf)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// DecodeF64 decodes the big-endian IEEE-754 float64 at the front of buf.
func DecodeF64(buf []byte) (float64, error) {
	v, err := DecodeU64(buf)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// DecodeBool decodes a single boolean byte: zero is false, anything else
// is true.
func DecodeBool(buf []byte) (bool, error) {
	if len(buf) < 1 {
		return false, ErrDecode
	}
	return buf[0] != 0, nil
}

// DecodeBytes returns buf unchanged: the string/bytes scalar type carries
// its raw payload verbatim, with no fixed width to validate against.
func DecodeBytes(buf []byte) ([]byte, error) {
	return buf, nil
}
