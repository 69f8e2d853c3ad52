package manifest

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/DataDog/zstd"
	natomic "github.com/natefinch/atomic"
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"

	"github.com/cnosdb/tskv/internal/base"
)

// VersionEdit is one record appended to the manifest journal: the
// CompactMeta delta a flush or compaction contributes to a level, produced
// by the surrounding system and fed into LevelInfo.Apply on replay.
type VersionEdit struct {
	Level uint32
	Delta CompactMeta
}

// versionEditWire is the gob-friendly shape of VersionEdit: ColumnFile
// carries an unexported atomic state and a bloom filter that gob cannot
// encode directly, so the wire record flattens it to plain fields and
// rebuilds a fresh ColumnFile on decode (with an empty bloom filter;
// callers re-populate it from the file's own footer on open).
type versionEditWire struct {
	Level    uint32
	FileID   base.ColumnFileID
	RangeMin base.Timestamp
	RangeMax base.Timestamp
	Size     uint64
	IsDelta  bool
	FileSize uint64
	TsMin    base.Timestamp
	TsMax    base.Timestamp
}

func toWire(e *VersionEdit) versionEditWire {
	return versionEditWire{
		Level:    e.Level,
		FileID:   e.Delta.File.FileID,
		RangeMin: e.Delta.File.Range.MinTS,
		RangeMax: e.Delta.File.Range.MaxTS,
		Size:     e.Delta.File.Size,
		IsDelta:  e.Delta.File.IsDelta,
		FileSize: e.Delta.FileSize,
		TsMin:    e.Delta.TsMin,
		TsMax:    e.Delta.TsMax,
	}
}

func fromWire(w versionEditWire) *VersionEdit {
	f := NewColumnFile(w.FileID, base.NewTimeRange(w.RangeMin, w.RangeMax), w.Size, w.IsDelta)
	return &VersionEdit{
		Level: w.Level,
		Delta: CompactMeta{
			File:     f,
			FileSize: w.FileSize,
			TsMin:    w.TsMin,
			TsMax:    w.TsMax,
		},
	}
}

// Journal is a small append-only log of VersionEdit records, one
// length-prefixed Snappy block per record. ReadAll fails on a torn
// (truncated) record rather than skipping past it. Full Version snapshots
// are written separately, Zstd-compressed, by EncodeSnapshot: two
// compressors for two different access patterns (per-record streaming vs.
// whole-snapshot dump).
type Journal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJournal wraps w, which must be positioned for appending.
func NewJournal(w io.Writer) *Journal {
	return &Journal{w: w}
}

// Append encodes edit, Snappy-compresses it, and writes it as a
// length-prefixed record.
func (j *Journal) Append(edit *VersionEdit) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toWire(edit)); err != nil {
		return errors.Wrap(err, "manifest: encode version edit")
	}
	compressed := snappy.Encode(nil, buf.Bytes())

	j.mu.Lock()
	defer j.mu.Unlock()

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(compressed)))
	if _, err := j.w.Write(lenPrefix[:]); err != nil {
		return base.NewIoError("journal append", err)
	}
	if _, err := j.w.Write(compressed); err != nil {
		return base.NewIoError("journal append", err)
	}
	return nil
}

// ReadAll decodes every record from r until EOF.
func ReadAll(r io.Reader) ([]*VersionEdit, error) {
	var edits []*VersionEdit
	for {
		var lenPrefix [4]byte
		if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return edits, nil
			}
			return nil, base.NewIoError("journal read", err)
		}
		n := binary.BigEndian.Uint32(lenPrefix[:])
		compressed := make([]byte, n)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, base.NewIoError("journal read", err)
		}
		raw, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, errors.Wrap(err, "manifest: decode snappy record")
		}
		var w versionEditWire
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&w); err != nil {
			return nil, errors.Wrap(err, "manifest: decode version edit")
		}
		edits = append(edits, fromWire(w))
	}
}

// versionSnapshot is the gob-friendly full-Version shape Zstd-compresses
// for periodic crash-recovery snapshots, avoiding a full journal replay
// from the beginning of time.
type versionSnapshot struct {
	ID         base.VersionID
	LastSeq    uint64
	MaxLevelTS base.Timestamp
	Name       string
	Levels     []levelSnapshot
}

type levelSnapshot struct {
	Level   uint32
	MaxSize uint64
	CurSize uint64
	TsMin   base.Timestamp
	TsMax   base.Timestamp
	Files   []versionEditWire
}

// EncodeSnapshot serializes v and compresses it with Zstd, for a periodic
// full-state checkpoint distinct from the per-record journal stream.
func EncodeSnapshot(v *Version) ([]byte, error) {
	snap := versionSnapshot{
		ID:         v.ID,
		LastSeq:    v.LastSeq,
		MaxLevelTS: v.MaxLevelTS(),
		Name:       v.Name,
	}
	for _, l := range v.Levels {
		ls := levelSnapshot{
			Level:   l.Level,
			MaxSize: l.MaxSize,
			CurSize: l.CurSize,
			TsMin:   l.TsRange.MinTS,
			TsMax:   l.TsRange.MaxTS,
		}
		for _, f := range l.Files {
			ls.Files = append(ls.Files, versionEditWire{
				Level:    l.Level,
				FileID:   f.FileID,
				RangeMin: f.Range.MinTS,
				RangeMax: f.Range.MaxTS,
				Size:     f.Size,
				IsDelta:  f.IsDelta,
			})
		}
		snap.Levels = append(snap.Levels, ls)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, errors.Wrap(err, "manifest: encode snapshot")
	}
	return zstd.Compress(nil, buf.Bytes())
}

// DecodeSnapshot reverses EncodeSnapshot, rebuilding a Version. ColumnFiles
// recovered this way start with an empty bloom filter: field membership
// filters are rebuilt from each file's own footer on open, not carried in
// the snapshot.
func DecodeSnapshot(compressed []byte) (*Version, error) {
	raw, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, errors.Wrap(err, "manifest: decompress snapshot")
	}
	var snap versionSnapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "manifest: decode snapshot")
	}

	v := &Version{
		ID:         snap.ID,
		LastSeq:    snap.LastSeq,
		maxLevelTS: snap.MaxLevelTS,
		Name:       snap.Name,
	}
	for _, ls := range snap.Levels {
		l := NewLevelInfo(ls.Level, ls.MaxSize)
		l.CurSize = ls.CurSize
		l.TsRange = base.NewTimeRange(ls.TsMin, ls.TsMax)
		for _, fw := range ls.Files {
			l.Files = append(l.Files, NewColumnFile(fw.FileID, base.NewTimeRange(fw.RangeMin, fw.RangeMax), fw.Size, fw.IsDelta))
		}
		v.Levels = append(v.Levels, l)
	}
	return v, nil
}

// WriteCurrent atomically publishes name as the manifest directory's
// CURRENT pointer, mirroring the rename-into-place pattern a version set's
// setCurrentFile step performs: write to a temp file, then rename, so a
// reader never observes a half-written pointer.
func WriteCurrent(dir, name string) error {
	return natomic.WriteFile(filepath.Join(dir, "CURRENT"), bytes.NewReader([]byte(name+"\n")))
}

// ReadCurrent returns the manifest file name the CURRENT pointer in dir
// names.
func ReadCurrent(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "CURRENT"))
	if err != nil {
		return "", base.NewIoError("read CURRENT", err)
	}
	return string(bytes.TrimSpace(data)), nil
}
