package logger

import (
	"log/slog"
	"time"
)

// Attribute keys shared by every component that logs save operations.
const (
	KeySlot     = "slot"
	KeyOpID     = "op_id"
	KeySaveID   = "save_id"
	KeySource   = "source"
	KeyPath     = "path"
	KeyTick     = "tick"
	KeyBytes    = "bytes"
	KeyDuration = "took"
	KeyPlayer   = "player_id"
	KeyError    = "error"
)

// Slot returns the save slot attribute.
func Slot(name string) slog.Attr { return slog.String(KeySlot, name) }

// OpID returns the operation ID attribute.
func OpID(id string) slog.Attr { return slog.String(KeyOpID, id) }

// SaveID returns the attribute for the ULID stamped on a written file.
func SaveID(id string) slog.Attr { return slog.String(KeySaveID, id) }

// Source returns the attribute naming the file of a slot that was read:
// "primary" or "bakN".
func Source(label string) slog.Attr { return slog.String(KeySource, label) }

// Path returns the file path attribute.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// Tick returns the simulation tick attribute.
func Tick(t uint64) slog.Attr { return slog.Uint64(KeyTick, t) }

// Bytes returns the file size attribute.
func Bytes(n int64) slog.Attr { return slog.Int64(KeyBytes, n) }

// Took returns the elapsed time attribute.
func Took(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

// Player returns the player account attribute. Its value is always masked.
func Player(id string) slog.Attr { return slog.String(KeyPlayer, id) }

// Err returns the error attribute. A nil error yields an empty attribute,
// which slog drops.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}
