package savefile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/storage/chunk"
	"github.com/yndnr/stellar-save/internal/storage/fsys"
	"github.com/yndnr/stellar-save/pkg/bytecodec"
	"github.com/yndnr/stellar-save/pkg/checksum"
)

// Result is a decoded save file.
type Result struct {
	Snapshot *domain.SimulationSnapshot
	Metadata domain.SaveMetadata

	// Header and Chunks are zero for legacy files.
	Header FormatHeader
	Chunks []chunk.Kind

	Legacy bool
}

// Reader loads save files.
type Reader struct {
	fs fsys.FS
}

// NewReader creates a reader.
func NewReader(filesystem fsys.FS) *Reader {
	return &Reader{fs: filesystem}
}

// Read loads and fully decodes the file at path.
func (r *Reader) Read(path string) (*Result, error) {
	data, err := r.readFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// ReadMetadata decodes only what is needed to describe the file at path.
// For chunked files that is the header and metadata chunks.
func (r *Reader) ReadMetadata(path string) (domain.SaveMetadata, error) {
	data, err := r.readFile(path)
	if err != nil {
		return domain.SaveMetadata{}, err
	}
	return DecodeMetadataOnly(data)
}

func (r *Reader) readFile(path string) ([]byte, error) {
	data, err := r.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrSaveNotFound.WithDetails(path)
	}
	if err != nil {
		return nil, domain.ErrIO.WithDetails(path).WithCause(err)
	}
	return data, nil
}

// Decode fully decodes a file image, verifying every checksum.
func Decode(data []byte) (*Result, error) {
	if !HasMagic(data) {
		return decodeBareLegacy(data)
	}
	pre, err := ReadPreamble(data)
	if err != nil {
		return nil, domain.ErrFormatNotRecognized.WithCause(err)
	}
	if pre.Version == LegacyVersion {
		return decodeLegacyV1(data, pre)
	}

	f, err := openChunked(data, pre)
	if err != nil {
		return nil, err
	}
	md, err := f.metadata()
	if err != nil {
		return nil, err
	}
	snap, err := f.gameState()
	if err != nil {
		return nil, err
	}
	if snap.Assets, err = f.optional(chunk.KindAssets, f.header.Features.HasAssets()); err != nil {
		return nil, err
	}
	if snap.Collections, err = f.optional(chunk.KindCollections, f.header.Features.HasCollections()); err != nil {
		return nil, err
	}
	if err := f.verifyFileDigest(); err != nil {
		return nil, err
	}

	return &Result{
		Snapshot: snap,
		Metadata: f.describe(md),
		Header:   f.header,
		Chunks:   f.index.Kinds(),
	}, nil
}

// DecodeMetadataOnly decodes the summary of a file image. Game state
// checksums of chunked files are not verified.
func DecodeMetadataOnly(data []byte) (domain.SaveMetadata, error) {
	if !HasMagic(data) {
		res, err := decodeBareLegacy(data)
		if err != nil {
			return domain.SaveMetadata{}, err
		}
		return res.Metadata, nil
	}
	pre, err := ReadPreamble(data)
	if err != nil {
		return domain.SaveMetadata{}, domain.ErrFormatNotRecognized.WithCause(err)
	}
	if pre.Version == LegacyVersion {
		res, err := decodeLegacyV1(data, pre)
		if err != nil {
			return domain.SaveMetadata{}, err
		}
		return res.Metadata, nil
	}

	f, err := openChunked(data, pre)
	if err != nil {
		return domain.SaveMetadata{}, err
	}
	md, err := f.metadata()
	if err != nil {
		return domain.SaveMetadata{}, err
	}
	return f.describe(md), nil
}

// chunkedFile is a version 2 file whose preamble, index and header chunk
// have been validated.
type chunkedFile struct {
	data   []byte
	header FormatHeader
	index  *chunk.Index
}

func openChunked(data []byte, pre Preamble) (*chunkedFile, error) {
	indexEnd := uint64(PreambleSize) + uint64(pre.Count)*chunk.EntrySize
	if indexEnd > uint64(len(data)) {
		return nil, domain.ErrIndexCorrupt.WithDetails(
			fmt.Sprintf("index of %d entries exceeds file of %d bytes", pre.Count, len(data)))
	}

	r := bytecodec.NewReader(data[PreambleSize:indexEnd])
	entries := make([]chunk.Descriptor, 0, pre.Count)
	next := indexEnd
	for i := uint32(0); i < pre.Count; i++ {
		d, err := chunk.ReadEntry(r)
		if err != nil {
			return nil, domain.ErrIndexCorrupt.WithDetails(fmt.Sprintf("entry %d", i)).WithCause(err)
		}
		if d.Compression != chunk.CompressionNone {
			return nil, domain.ErrFormatNotRecognized.WithDetails(
				fmt.Sprintf("entry %d (%s) uses %s compression", i, d.Kind, d.Compression)).
				WithCause(chunk.ErrUnsupportedCompression)
		}
		if d.Offset != next {
			return nil, domain.ErrIndexCorrupt.WithDetails(
				fmt.Sprintf("entry %d (%s) at offset %d, want %d", i, d.Kind, d.Offset, next))
		}
		d, err = chunk.LoadFrame(data, d)
		if errors.Is(err, chunk.ErrFrameMismatch) {
			return nil, domain.ErrChunkCorrupt.WithCause(err)
		}
		if err != nil {
			return nil, domain.ErrIndexCorrupt.WithCause(err)
		}
		next += uint64(d.FrameSize())
		entries = append(entries, d)
	}
	if next != uint64(len(data)) {
		return nil, domain.ErrIndexCorrupt.WithDetails(
			fmt.Sprintf("%d bytes after the last chunk", uint64(len(data))-next))
	}

	index, err := chunk.NewIndex(entries)
	if err != nil {
		return nil, domain.ErrIndexCorrupt.WithCause(err)
	}
	if index.At(0).Kind != chunk.KindHeader {
		return nil, domain.ErrIndexCorrupt.WithDetails("first chunk is " + index.At(0).Kind.String())
	}
	if index.Has(chunk.KindChecksum) && index.At(index.Len()-1).Kind != chunk.KindChecksum {
		return nil, domain.ErrIndexCorrupt.WithDetails("checksum chunk is not last")
	}

	payload, err := chunk.Decode(index.At(0))
	if err != nil {
		return nil, domain.ErrChunkCorrupt.WithCause(err)
	}
	header, err := DecodeHeader(payload)
	if err != nil {
		return nil, domain.ErrFormatNotRecognized.WithCause(err)
	}
	switch {
	case header.FormatVersion != pre.Version:
		return nil, domain.ErrIndexCorrupt.WithDetails(
			fmt.Sprintf("header version %d, preamble %d", header.FormatVersion, pre.Version))
	case header.ChunkCount != pre.Count:
		return nil, domain.ErrIndexCorrupt.WithDetails(
			fmt.Sprintf("header declares %d chunks, index has %d", header.ChunkCount, pre.Count))
	case header.TotalSize != uint64(len(data)):
		return nil, domain.ErrIndexCorrupt.WithDetails(
			fmt.Sprintf("header declares %d bytes, file has %d", header.TotalSize, len(data)))
	}

	return &chunkedFile{data: data, header: header, index: index}, nil
}

// required decodes a chunk that must be present.
func (f *chunkedFile) required(k chunk.Kind) ([]byte, error) {
	d, ok := f.index.Lookup(k)
	if !ok {
		return nil, domain.ErrMissingRequiredChunk.WithDetails(k.String())
	}
	payload, err := chunk.Decode(d)
	if err != nil {
		return nil, domain.ErrChunkCorrupt.WithCause(err)
	}
	return payload, nil
}

// optional decodes a chunk guarded by a feature flag. A missing chunk
// yields nil.
func (f *chunkedFile) optional(k chunk.Kind, enabled bool) ([]byte, error) {
	if !enabled {
		return nil, nil
	}
	d, ok := f.index.Lookup(k)
	if !ok {
		return nil, nil
	}
	payload, err := chunk.Decode(d)
	if err != nil {
		return nil, domain.ErrChunkCorrupt.WithCause(err)
	}
	return bytes.Clone(payload), nil
}

func (f *chunkedFile) metadata() (domain.SaveMetadata, error) {
	payload, err := f.required(chunk.KindMetadata)
	if err != nil {
		return domain.SaveMetadata{}, err
	}
	md, err := DecodeMetadata(payload)
	if err != nil {
		return domain.SaveMetadata{}, domain.ErrChunkCorrupt.WithDetails("metadata").WithCause(err)
	}
	return md, nil
}

func (f *chunkedFile) gameState() (*domain.SimulationSnapshot, error) {
	payload, err := f.required(chunk.KindGameState)
	if err != nil {
		return nil, err
	}
	snap, err := DecodeGameState(payload)
	if err != nil {
		return nil, domain.ErrChunkCorrupt.WithDetails("game_state").WithCause(err)
	}
	return snap, nil
}

// verifyFileDigest checks the Checksum chunk, if any, against every frame
// before it.
func (f *chunkedFile) verifyFileDigest() error {
	d, ok := f.index.Lookup(chunk.KindChecksum)
	if !ok {
		return nil
	}
	want, err := chunk.Decode(d)
	if err != nil {
		return domain.ErrChunkCorrupt.WithCause(err)
	}
	if len(want) != checksum.FileDigestSize {
		return domain.ErrChunkCorrupt.WithDetails(fmt.Sprintf("file digest is %d bytes", len(want)))
	}
	first := f.index.At(0).Offset
	got := checksum.FileDigest(f.data[first:d.Offset])
	if !bytes.Equal(got[:], want) {
		return domain.ErrChunkCorrupt.WithDetails("file digest mismatch")
	}
	return nil
}

func (f *chunkedFile) describe(md domain.SaveMetadata) domain.SaveMetadata {
	md.FormatVersion = f.header.FormatVersion
	md.Size = int64(len(f.data))
	return md
}
