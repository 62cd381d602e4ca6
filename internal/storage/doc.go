// Package storage groups the on-disk layers of the save engine.
//
// Subpackages:
//
//   - fsys: filesystem abstraction with atomic writes and fault injection
//   - chunk: chunk kinds, frames and the chunk index
//   - backup: slot file naming and backup rotation
//   - savefile: the versioned save format, its legacy reader and writer
//   - savewatch: verification of saves changed on disk
package storage
