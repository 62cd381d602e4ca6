// Package chunk encodes the self-describing sections of a save file.
//
// A chunk is a tagged, checksummed payload. On disk every chunk is written
// as a frame:
//
//	tag u32 | length u32 | checksum u32 | payload[length]
//
// and described by a fixed-size index entry:
//
//	tag u32 | compression u8 | length u32 | offset u64 | checksum u32
//
// Tags come from an explicit table; an unknown tag is an error, never a
// silent cast. The checksum covers the logical (uncompressed) payload.
package chunk
