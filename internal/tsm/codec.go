package tsm

import "github.com/cnosdb/tskv/internal/base"

// Encoder is the consumed boundary with the (out-of-scope) on-disk block
// codec: timestamp::encode plus one {boolean,unsigned,integer,string,float}
// encoder per scalar type. Each writes into a caller-provided destination
// and returns the bytes actually written, or an error the core wraps as
// base.WriteTsmError.
type Encoder interface {
	EncodeTimestamps(ts []base.Timestamp, dst []byte) ([]byte, error)
	EncodeUnsigned(vals []uint64, dst []byte) ([]byte, error)
	EncodeInteger(vals []int64, dst []byte) ([]byte, error)
	EncodeFloat(vals []float64, dst []byte) ([]byte, error)
	EncodeBoolean(vals []bool, dst []byte) ([]byte, error)
	EncodeString(vals [][]byte, dst []byte) ([]byte, error)
}

// IndexReader is the consumed boundary for opening a file's index, by
// field id or by time range, yielding a ColumnReader: a lazy finite
// sequence of DataBlock results.
type IndexReader interface {
	IterField(fieldID base.FieldID) ColumnReader
	IterTimeRange(r base.TimeRange) ColumnReader
}

// ColumnReader lazily yields successive DataBlocks from an on-disk index
// entry. Next returns (nil, false) once exhausted; an error from the
// underlying codec is surfaced through err rather than through a panic.
type ColumnReader interface {
	Next() (blk *DataBlock, ok bool, err error)
}

// Encode delegates the sub-range [start, end) of the block to enc,
// returning the encoded timestamp and value byte streams. An out-of-bounds
// range and every error from enc are returned as a base.WriteTsmError
// carrying the codec's message as its reason.
func (b *DataBlock) Encode(enc Encoder, start, end int) (tsBytes, valBytes []byte, err error) {
	if start < 0 || end > b.Len() || start > end {
		return nil, nil, base.NewWriteTsmError("encode range out of bounds")
	}
	tsBytes, err = enc.EncodeTimestamps(b.Ts[start:end], nil)
	if err != nil {
		return nil, nil, base.NewWriteTsmError(err.Error())
	}
	switch b.Type {
	case base.Unsigned:
		valBytes, err = enc.EncodeUnsigned(b.U64[start:end], nil)
	case base.Integer:
		valBytes, err = enc.EncodeInteger(b.I64[start:end], nil)
	case base.Float:
		valBytes, err = enc.EncodeFloat(b.F64[start:end], nil)
	case base.Boolean:
		valBytes, err = enc.EncodeBoolean(b.Bool[start:end], nil)
	case base.String:
		valBytes, err = enc.EncodeString(b.Bytes[start:end], nil)
	}
	if err != nil {
		return nil, nil, base.NewWriteTsmError(err.Error())
	}
	return tsBytes, valBytes, nil
}
