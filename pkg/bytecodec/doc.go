// Package bytecodec provides the primitive binary encoding used by save files.
//
// All fixed-width values are little-endian. Floats are stored as their IEEE-754
// bit pattern. Strings and blobs are a uint32 length prefix followed by the raw
// bytes. Optional values are a one-byte presence flag (0 or 1) followed by the
// value when present.
//
// Encoding never fails. Decoding fails with ErrTruncated when the buffer is
// shorter than a declared length, ErrInvalidUTF8 when string bytes are not
// valid text, and ErrInvalidFlag when a presence or boolean byte is not 0 or 1.
//
// Usage:
//
//	w := bytecodec.NewWriter(64)
//	w.PutUint64(tick)
//	w.PutString(slot)
//	bytecodec.PutOptional(w, description, (*bytecodec.Writer).PutString)
//
//	r := bytecodec.NewReader(w.Bytes())
//	tick, err := r.ReadUint64()
package bytecodec
