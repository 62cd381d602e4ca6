// Package savefile reads and writes save files.
//
// A version 2 file is laid out as:
//
//	preamble  magic[8]="STELLAR2" | format_version u32 | index_count u32
//	index     index_count x chunk.EntrySize bytes
//	frames    one chunk frame per index entry, in index order
//
// Chunk 0 is always the header chunk carrying the FormatHeader. Metadata and
// GameState follow, then the optional Assets and Collections chunks, then an
// optional Checksum chunk holding a BLAKE3 digest of every preceding frame.
//
// Version 1 files and bare JSON files use the legacy layout and are only
// read, never written.
package savefile
