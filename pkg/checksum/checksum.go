package checksum

import (
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/blake3"
)

// Seed is the MurmurHash3 seed for chunk digests. Changing it invalidates
// every chunk checksum ever written.
const Seed uint32 = 0x53544c52 // "STLR"

// FileDigestSize is the size of a FileDigest in bytes.
const FileDigestSize = 32

// Digest returns the chunk checksum of b.
func Digest(b []byte) uint32 {
	return murmur3.Sum32WithSeed(b, Seed)
}

// Verify reports whether b matches the expected chunk checksum.
func Verify(b []byte, want uint32) bool {
	return Digest(b) == want
}

// fileDomainKey is the BLAKE3 key for whole-file digests: the ASCII domain
// name zero-padded to 32 bytes.
var fileDomainKey = [32]byte{
	's', 't', 'e', 'l', 'l', 'a', 'r', '.', 's', 'a', 'v', 'e', '.',
	'f', 'i', 'l', 'e',
}

// FileHasher accumulates a whole-file digest across several writes.
type FileHasher struct {
	h *blake3.Hasher
}

// NewFileHasher returns an empty FileHasher.
func NewFileHasher() *FileHasher {
	h, err := blake3.NewKeyed(fileDomainKey[:])
	if err != nil {
		// Only fails for a key that is not 32 bytes.
		panic("checksum: blake3 keyed init: " + err.Error())
	}
	return &FileHasher{h: h}
}

// Write adds b to the digest. It never returns an error.
func (f *FileHasher) Write(b []byte) (int, error) {
	return f.h.Write(b)
}

// Sum returns the digest of everything written so far.
func (f *FileHasher) Sum() [FileDigestSize]byte {
	var out [FileDigestSize]byte
	copy(out[:], f.h.Sum(nil))
	return out
}

// FileDigest returns the whole-file digest of the concatenation of parts.
func FileDigest(parts ...[]byte) [FileDigestSize]byte {
	f := NewFileHasher()
	for _, p := range parts {
		_, _ = f.Write(p)
	}
	return f.Sum()
}
