// Package checksum provides the digests used to protect save files.
//
// Digest is the per-chunk checksum: a 32-bit MurmurHash3 over the chunk's
// uncompressed payload with a fixed seed. It is deterministic and sensitive to
// both byte values and byte order.
//
// FileDigest is the optional whole-file digest: a keyed BLAKE3 hash whose key
// separates it from any other BLAKE3 use of the same bytes.
package checksum
