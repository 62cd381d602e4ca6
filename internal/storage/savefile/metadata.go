package savefile

import (
	"fmt"
	"sort"
	"time"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/pkg/bytecodec"
)

// metadataLayout versions the binary layout of the metadata chunk.
const metadataLayout uint8 = 1

// EncodeMetadata serializes md into the metadata chunk payload.
// Properties are written in key order so equal metadata encodes equally.
func EncodeMetadata(md domain.SaveMetadata) []byte {
	w := bytecodec.NewWriter(128)
	w.PutUint8(metadataLayout)
	w.PutString(md.SaveID)
	w.PutString(md.Slot)
	bytecodec.PutOptional(w, optionalString(md.Description), (*bytecodec.Writer).PutString)
	bytecodec.PutOptional(w, optionalString(md.PlayerID), (*bytecodec.Writer).PutString)
	w.PutUint8(uint8(md.Difficulty))
	w.PutUint8(uint8(md.GalaxySize))
	w.PutUint32(md.PlanetCount)
	w.PutUint32(md.ShipCount)
	w.PutUint32(md.FactionCount)
	w.PutUint64(md.Tick)
	w.PutUint64(uint64(md.SavedAt.Unix()))
	w.PutUint64(uint64(md.PlayTime.Milliseconds()))
	bytecodec.PutOptional(w, md.Victory, func(w *bytecodec.Writer, v domain.VictoryType) {
		w.PutUint8(uint8(v))
	})

	keys := make([]string, 0, len(md.Properties))
	for k := range md.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.PutUint32(uint32(len(keys)))
	for _, k := range keys {
		w.PutString(k)
		w.PutString(md.Properties[k])
	}
	return w.Bytes()
}

// DecodeMetadata parses a metadata chunk payload.
func DecodeMetadata(b []byte) (domain.SaveMetadata, error) {
	var md domain.SaveMetadata
	r := bytecodec.NewReader(b)

	layout, err := r.ReadUint8()
	if err != nil {
		return md, err
	}
	if layout != metadataLayout {
		return md, fmt.Errorf("metadata layout %d, want %d", layout, metadataLayout)
	}
	if md.SaveID, err = r.ReadString(); err != nil {
		return md, err
	}
	if md.Slot, err = r.ReadString(); err != nil {
		return md, err
	}
	desc, err := bytecodec.ReadOptional(r, (*bytecodec.Reader).ReadString)
	if err != nil {
		return md, err
	}
	if desc != nil {
		md.Description = *desc
	}
	player, err := bytecodec.ReadOptional(r, (*bytecodec.Reader).ReadString)
	if err != nil {
		return md, err
	}
	if player != nil {
		md.PlayerID = *player
	}

	difficulty, err := r.ReadUint8()
	if err != nil {
		return md, err
	}
	md.Difficulty = domain.Difficulty(difficulty)
	if !md.Difficulty.Valid() {
		return md, fmt.Errorf("difficulty %d", difficulty)
	}
	galaxy, err := r.ReadUint8()
	if err != nil {
		return md, err
	}
	md.GalaxySize = domain.GalaxySize(galaxy)
	if !md.GalaxySize.Valid() {
		return md, fmt.Errorf("galaxy size %d", galaxy)
	}

	if md.PlanetCount, err = r.ReadUint32(); err != nil {
		return md, err
	}
	if md.ShipCount, err = r.ReadUint32(); err != nil {
		return md, err
	}
	if md.FactionCount, err = r.ReadUint32(); err != nil {
		return md, err
	}
	if md.Tick, err = r.ReadUint64(); err != nil {
		return md, err
	}
	savedAt, err := r.ReadUint64()
	if err != nil {
		return md, err
	}
	md.SavedAt = time.Unix(int64(savedAt), 0).UTC()
	playMillis, err := r.ReadUint64()
	if err != nil {
		return md, err
	}
	md.PlayTime = time.Duration(playMillis) * time.Millisecond

	md.Victory, err = bytecodec.ReadOptional(r, func(r *bytecodec.Reader) (domain.VictoryType, error) {
		v, err := r.ReadUint8()
		if err == nil && !domain.VictoryType(v).Valid() {
			err = fmt.Errorf("victory type %d", v)
		}
		return domain.VictoryType(v), err
	})
	if err != nil {
		return md, err
	}

	n, err := r.ReadUint32()
	if err != nil {
		return md, err
	}
	// Each property needs at least two length prefixes.
	if int(n) > r.Remaining()/8 {
		return md, fmt.Errorf("%w: %d properties in %d bytes", bytecodec.ErrTruncated, n, r.Remaining())
	}
	if n > 0 {
		md.Properties = make(map[string]string, n)
	}
	for i := uint32(0); i < n; i++ {
		k, err := r.ReadString()
		if err != nil {
			return md, err
		}
		v, err := r.ReadString()
		if err != nil {
			return md, err
		}
		md.Properties[k] = v
	}

	if r.Remaining() != 0 {
		return md, fmt.Errorf("%d trailing bytes after metadata", r.Remaining())
	}
	return md, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
