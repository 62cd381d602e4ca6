package chunk

import (
	"errors"
	"fmt"

	"github.com/yndnr/stellar-save/pkg/bytecodec"
	"github.com/yndnr/stellar-save/pkg/checksum"
)

// Errors returned while decoding chunks.
var (
	ErrChecksumMismatch = errors.New("chunk: checksum mismatch")
	ErrLengthMismatch   = errors.New("chunk: length mismatch")
	ErrFrameMismatch    = errors.New("chunk: frame does not match index entry")
)

const (
	// FrameHeaderSize is the size of tag, length and checksum before a payload.
	FrameHeaderSize = 12

	// EntrySize is the size of one index entry.
	EntrySize = 21
)

// Descriptor is one chunk: its identity, its placement in the file and its
// stored payload. Descriptors are built fresh for every save and never
// mutated afterwards.
type Descriptor struct {
	Kind        Kind
	Compression Compression
	Length      uint32 // len(Payload)
	Offset      uint64 // file offset of the frame, set by the writer
	Checksum    uint32 // digest of the logical payload
	Payload     []byte // stored bytes, possibly compressed
}

// Encode builds the descriptor for a logical payload.
func Encode(kind Kind, payload []byte, c Compression) (Descriptor, error) {
	if _, err := kind.Tag(); err != nil {
		return Descriptor{}, err
	}
	stored, err := Compress(c, payload)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Kind:        kind,
		Compression: c,
		Length:      uint32(len(stored)),
		Checksum:    checksum.Digest(payload),
		Payload:     stored,
	}, nil
}

// Decode returns the logical payload of d after verifying its checksum.
func Decode(d Descriptor) ([]byte, error) {
	if int(d.Length) != len(d.Payload) {
		return nil, fmt.Errorf("%w: %s declares %d bytes, has %d", ErrLengthMismatch, d.Kind, d.Length, len(d.Payload))
	}
	logical, err := Decompress(d.Compression, d.Payload)
	if err != nil {
		return nil, err
	}
	if !checksum.Verify(logical, d.Checksum) {
		return nil, fmt.Errorf("%w: %s want 0x%08x, got 0x%08x", ErrChecksumMismatch, d.Kind, d.Checksum, checksum.Digest(logical))
	}
	return logical, nil
}

// FrameSize returns the on-disk size of d's frame.
func (d Descriptor) FrameSize() int { return FrameHeaderSize + len(d.Payload) }

// AppendFrame writes d's frame.
func AppendFrame(w *bytecodec.Writer, d Descriptor) error {
	tag, err := d.Kind.Tag()
	if err != nil {
		return err
	}
	w.PutUint32(tag)
	w.PutUint32(d.Length)
	w.PutUint32(d.Checksum)
	w.PutRaw(d.Payload)
	return nil
}

// AppendEntry writes d's index entry.
func AppendEntry(w *bytecodec.Writer, d Descriptor) error {
	tag, err := d.Kind.Tag()
	if err != nil {
		return err
	}
	w.PutUint32(tag)
	w.PutUint8(uint8(d.Compression))
	w.PutUint32(d.Length)
	w.PutUint64(d.Offset)
	w.PutUint32(d.Checksum)
	return nil
}

// ReadEntry reads one index entry. The payload is not loaded.
func ReadEntry(r *bytecodec.Reader) (Descriptor, error) {
	tag, err := r.ReadUint32()
	if err != nil {
		return Descriptor{}, err
	}
	kind, err := KindOf(tag)
	if err != nil {
		return Descriptor{}, err
	}
	comp, err := r.ReadUint8()
	if err != nil {
		return Descriptor{}, err
	}
	if !Compression(comp).Known() {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnsupportedCompression, comp)
	}
	length, err := r.ReadUint32()
	if err != nil {
		return Descriptor{}, err
	}
	offset, err := r.ReadUint64()
	if err != nil {
		return Descriptor{}, err
	}
	sum, err := r.ReadUint32()
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Kind:        kind,
		Compression: Compression(comp),
		Length:      length,
		Offset:      offset,
		Checksum:    sum,
	}, nil
}

// LoadFrame reads the frame that entry d points at inside file, checks that
// it agrees with the entry and returns d with its payload attached.
func LoadFrame(file []byte, d Descriptor) (Descriptor, error) {
	end := d.Offset + FrameHeaderSize + uint64(d.Length)
	if end < d.Offset || end > uint64(len(file)) {
		return Descriptor{}, fmt.Errorf("%w: %s frame [%d, %d) outside file of %d bytes",
			bytecodec.ErrTruncated, d.Kind, d.Offset, end, len(file))
	}

	r := bytecodec.NewReader(file[d.Offset:end])
	tag, _ := r.ReadUint32()
	length, _ := r.ReadUint32()
	sum, _ := r.ReadUint32()

	want, _ := d.Kind.Tag()
	if tag != want || length != d.Length || sum != d.Checksum {
		return Descriptor{}, fmt.Errorf("%w: %s at offset %d", ErrFrameMismatch, d.Kind, d.Offset)
	}
	d.Payload, _ = r.ReadRaw(int(length))
	return d, nil
}
