package savefile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yndnr/stellar-save/internal/storage/chunk"
	"github.com/yndnr/stellar-save/pkg/bytecodec"
)

// File format constants.
const (
	// Magic identifies a save file.
	Magic = "STELLAR2"

	// FormatVersion is the version this package writes and the newest it reads.
	FormatVersion uint32 = 2

	// LegacyVersion is the unchunked JSON layout.
	LegacyVersion uint32 = 1

	// SchemaVersion is the version of the GameState chunk schema.
	SchemaVersion uint32 = 1

	// PreambleSize is magic, version and index count.
	PreambleSize = 16

	// HeaderSize is the payload size of the header chunk.
	HeaderSize = 49
)

// Features is the feature-flag bitset stored in the header.
type Features uint32

const (
	FeatureAssets Features = 1 << iota
	FeatureCollections
	FeatureMegastructures
	FeatureUniquePersonnel
	FeatureChunkCompression
	// FeatureDifferentialSaves is reserved. It is never written and a file
	// carrying it is not recognized.
	FeatureDifferentialSaves

	knownFeatures = FeatureDifferentialSaves<<1 - 1
)

var featureNames = []string{
	"assets", "collections", "megastructures", "unique_personnel",
	"chunk_compression", "differential_saves",
}

func (f Features) HasAssets() bool { return f&FeatureAssets != 0 }
func (f Features) HasCollections() bool { return f&FeatureCollections != 0 }
func (f Features) HasMegastructures() bool { return f&FeatureMegastructures != 0 }
func (f Features) HasUniquePersonnel() bool { return f&FeatureUniquePersonnel != 0 }
func (f Features) ChunkCompression() bool { return f&FeatureChunkCompression != 0 }
func (f Features) DifferentialSaves() bool { return f&FeatureDifferentialSaves != 0 }
func (f Features) With(flag Features) Features { return f | flag }

func (f Features) String() string {
	var names []string
	for i, name := range featureNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if unknown := f &^ knownFeatures; unknown != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(unknown)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// FormatHeader describes a whole file. It is stored as the payload of the
// header chunk and cross-checked against the preamble on read.
type FormatHeader struct {
	Magic         [8]byte
	FormatVersion uint32
	SchemaVersion uint32
	CreationTime  uint64 // unix seconds
	Tick          uint64
	ChunkCount    uint32
	TotalSize     uint64
	Compression   chunk.Compression
	Features      Features
}

// Encode serializes h to its fixed HeaderSize layout.
func (h FormatHeader) Encode() []byte {
	w := bytecodec.NewWriter(HeaderSize)
	w.PutRaw(h.Magic[:])
	w.PutUint32(h.FormatVersion)
	w.PutUint32(h.SchemaVersion)
	w.PutUint64(h.CreationTime)
	w.PutUint64(h.Tick)
	w.PutUint32(h.ChunkCount)
	w.PutUint64(h.TotalSize)
	w.PutUint8(uint8(h.Compression))
	w.PutUint32(uint32(h.Features))
	return w.Bytes()
}

// DecodeHeader parses and validates a header chunk payload.
//
// Validation order: magic, version, chunk count, compression, features.
func DecodeHeader(b []byte) (FormatHeader, error) {
	if len(b) != HeaderSize {
		return FormatHeader{}, fmt.Errorf("header is %d bytes, want %d", len(b), HeaderSize)
	}
	r := bytecodec.NewReader(b)
	var h FormatHeader
	magic, _ := r.ReadRaw(len(Magic))
	copy(h.Magic[:], magic)
	h.FormatVersion, _ = r.ReadUint32()
	h.SchemaVersion, _ = r.ReadUint32()
	h.CreationTime, _ = r.ReadUint64()
	h.Tick, _ = r.ReadUint64()
	h.ChunkCount, _ = r.ReadUint32()
	h.TotalSize, _ = r.ReadUint64()
	comp, _ := r.ReadUint8()
	h.Compression = chunk.Compression(comp)
	features, _ := r.ReadUint32()
	h.Features = Features(features)

	if err := checkMagic(h.Magic[:]); err != nil {
		return h, err
	}
	if err := checkVersion(h.FormatVersion); err != nil {
		return h, err
	}
	if h.ChunkCount == 0 {
		return h, fmt.Errorf("chunk count is zero")
	}
	if h.Compression != chunk.CompressionNone {
		return h, fmt.Errorf("file compression %s: %w", h.Compression, chunk.ErrUnsupportedCompression)
	}
	if h.Features.DifferentialSaves() {
		return h, fmt.Errorf("differential saves are not supported")
	}
	if unknown := h.Features &^ knownFeatures; unknown != 0 {
		return h, fmt.Errorf("unknown feature flags 0x%x", uint32(unknown))
	}
	return h, nil
}

// Preamble is the fixed prefix of every magic-prefixed file. For version 2
// Count is the number of index entries, for version 1 it is the JSON length.
type Preamble struct {
	Version uint32
	Count   uint32
}

func encodePreamble(w *bytecodec.Writer, p Preamble) {
	w.PutRaw([]byte(Magic))
	w.PutUint32(p.Version)
	w.PutUint32(p.Count)
}

// ReadPreamble validates the preamble of file. Any error means the file is
// not recognized.
func ReadPreamble(file []byte) (Preamble, error) {
	if len(file) < PreambleSize {
		return Preamble{}, fmt.Errorf("file is %d bytes, shorter than the preamble", len(file))
	}
	if err := checkMagic(file[:len(Magic)]); err != nil {
		return Preamble{}, err
	}
	r := bytecodec.NewReader(file[len(Magic):PreambleSize])
	version, _ := r.ReadUint32()
	count, _ := r.ReadUint32()
	if err := checkVersion(version); err != nil {
		return Preamble{}, err
	}
	if version == FormatVersion && count == 0 {
		return Preamble{}, fmt.Errorf("chunk count is zero")
	}
	return Preamble{Version: version, Count: count}, nil
}

// HasMagic reports whether file starts with the magic bytes.
func HasMagic(file []byte) bool { return bytes.HasPrefix(file, []byte(Magic)) }

func checkMagic(b []byte) error {
	if !bytes.Equal(b, []byte(Magic)) {
		return fmt.Errorf("bad magic %q", b)
	}
	return nil
}

func checkVersion(v uint32) error {
	if v == 0 || v > FormatVersion {
		return fmt.Errorf("format version %d, supported 1..%d", v, FormatVersion)
	}
	return nil
}
