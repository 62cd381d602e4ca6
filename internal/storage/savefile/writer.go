package savefile

import (
	"errors"
	"time"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/storage/backup"
	"github.com/yndnr/stellar-save/internal/storage/chunk"
	"github.com/yndnr/stellar-save/internal/storage/fsys"
	"github.com/yndnr/stellar-save/pkg/bytecodec"
	"github.com/yndnr/stellar-save/pkg/checksum"
)

// Options control what a writer puts in a file.
type Options struct {
	// Compression applied to the file. Only CompressionNone is supported.
	Compression chunk.Compression

	// FileChecksum appends a Checksum chunk with a digest of all frames.
	FileChecksum bool

	// Features enables optional chunks. Only FeatureAssets and
	// FeatureCollections have an effect.
	Features Features
}

// Rotator preserves the current save of a slot before it is overwritten.
type Rotator interface {
	Rotate(f backup.Files) error
}

type section struct {
	kind chunk.Kind
	data []byte
}

// Image is a complete file built in memory.
type Image struct {
	Data   []byte
	Header FormatHeader
	Chunks []chunk.Descriptor
}

// Build assembles the file for snap and md. It performs no I/O.
func Build(snap *domain.SimulationSnapshot, md domain.SaveMetadata, opts Options, now time.Time) (*Image, error) {
	if opts.Compression != chunk.CompressionNone {
		return nil, domain.ErrCompressionUnsupported.WithDetails(opts.Compression.String())
	}

	game, err := EncodeGameState(snap)
	if err != nil {
		return nil, domain.ErrSnapshotInvalid.WithCause(err)
	}

	payloads := []section{
		{chunk.KindMetadata, EncodeMetadata(md)},
		{chunk.KindGameState, game},
	}

	var features Features
	if opts.Features.HasAssets() && len(snap.Assets) > 0 {
		features = features.With(FeatureAssets)
		payloads = append(payloads, section{chunk.KindAssets, snap.Assets})
	}
	if opts.Features.HasCollections() && len(snap.Collections) > 0 {
		features = features.With(FeatureCollections)
		payloads = append(payloads, section{chunk.KindCollections, snap.Collections})
	}

	return assemble(payloads, features, snap.Tick, now, opts.FileChecksum)
}

// assemble lays out the header chunk, payloads and optional checksum chunk.
func assemble(payloads []section, features Features, tick uint64, now time.Time, fileChecksum bool) (*Image, error) {
	// Header, payload chunks, optional checksum.
	count := 1 + len(payloads)
	if fileChecksum {
		count++
	}

	total := PreambleSize + count*chunk.EntrySize + chunk.FrameHeaderSize + HeaderSize
	for _, p := range payloads {
		total += chunk.FrameHeaderSize + len(p.data)
	}
	if fileChecksum {
		total += chunk.FrameHeaderSize + checksum.FileDigestSize
	}

	header := FormatHeader{
		FormatVersion: FormatVersion,
		SchemaVersion: SchemaVersion,
		CreationTime:  uint64(now.Unix()),
		Tick:          tick,
		ChunkCount:    uint32(count),
		TotalSize:     uint64(total),
		Compression:   chunk.CompressionNone,
		Features:      features,
	}
	copy(header.Magic[:], Magic)

	descs := make([]chunk.Descriptor, 0, count)
	hd, err := chunk.Encode(chunk.KindHeader, header.Encode(), chunk.CompressionNone)
	if err != nil {
		return nil, err
	}
	descs = append(descs, hd)
	for _, p := range payloads {
		d, err := chunk.Encode(p.kind, p.data, chunk.CompressionNone)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}

	offset := uint64(PreambleSize + count*chunk.EntrySize)
	for i := range descs {
		descs[i].Offset = offset
		offset += uint64(descs[i].FrameSize())
	}

	frames := bytecodec.NewWriter(total)
	for _, d := range descs {
		if err := chunk.AppendFrame(frames, d); err != nil {
			return nil, err
		}
	}
	if fileChecksum {
		digest := checksum.FileDigest(frames.Bytes())
		cd, err := chunk.Encode(chunk.KindChecksum, digest[:], chunk.CompressionNone)
		if err != nil {
			return nil, err
		}
		cd.Offset = offset
		if err := chunk.AppendFrame(frames, cd); err != nil {
			return nil, err
		}
		descs = append(descs, cd)
	}

	w := bytecodec.NewWriter(total)
	encodePreamble(w, Preamble{Version: FormatVersion, Count: uint32(count)})
	for _, d := range descs {
		if err := chunk.AppendEntry(w, d); err != nil {
			return nil, err
		}
	}
	w.PutRaw(frames.Bytes())

	if w.Len() != total {
		return nil, errors.New("savefile: built size does not match header")
	}
	return &Image{Data: w.Bytes(), Header: header, Chunks: descs}, nil
}

// Writer saves files with backup rotation and an atomic replace.
type Writer struct {
	fs      fsys.FS
	rotator Rotator
	opts    Options
}

// NewWriter creates a writer. rotator may be nil to disable backups.
func NewWriter(filesystem fsys.FS, rotator Rotator, opts Options) *Writer {
	return &Writer{fs: filesystem, rotator: rotator, opts: opts}
}

// Write saves snap to the slot files f:
//
//  1. create the directory
//  2. rotate backups
//  3. build the file in memory
//  4. write it to the temp file and sync
//  5. rename the temp file over the primary
//
// If a step after rotation fails, the temp file is left behind and the
// primary is untouched.
func (w *Writer) Write(f backup.Files, snap *domain.SimulationSnapshot, md domain.SaveMetadata, now time.Time) (*Image, error) {
	if err := w.fs.MkdirAll(f.Dir); err != nil {
		return nil, domain.ErrDirectory.WithDetails(f.Dir).WithCause(err)
	}

	if w.rotator != nil {
		if err := w.rotator.Rotate(f); err != nil {
			return nil, domain.ErrIO.WithDetails("rotate backups").WithCause(err)
		}
	}

	img, err := Build(snap, md, w.opts, now)
	if err != nil {
		return nil, err
	}

	if err := fsys.WriteAtomic(w.fs, f.Temp(), f.Primary(), img.Data); err != nil {
		return nil, domain.ErrIO.WithDetails(f.Primary()).WithCause(err)
	}
	fsys.SyncDir(w.fs, f.Dir)
	return img, nil
}
