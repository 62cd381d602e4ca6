package chunk

import (
	"errors"
	"fmt"
)

// ErrUnknownTag is returned when a tag is not in the kind table.
var ErrUnknownTag = errors.New("chunk: unknown tag")

// Kind identifies what a chunk contains.
type Kind uint8

const (
	KindHeader Kind = iota + 1
	KindMetadata
	KindGameState
	KindPlanets
	KindShips
	KindFactions
	KindAssets
	KindCollections
	KindChecksum
)

// fourCC packs a four letter code into a little-endian u32, so the tag reads
// as text in a hex dump.
func fourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// File format constants. Changing a tag breaks every existing save.
var kindTags = map[Kind]uint32{
	KindHeader:      fourCC("HEAD"),
	KindMetadata:    fourCC("META"),
	KindGameState:   fourCC("GAME"),
	KindPlanets:     fourCC("PLAN"),
	KindShips:       fourCC("SHIP"),
	KindFactions:    fourCC("FACT"),
	KindAssets:      fourCC("ASST"),
	KindCollections: fourCC("COLL"),
	KindChecksum:    fourCC("CSUM"),
}

var tagKinds = func() map[uint32]Kind {
	m := make(map[uint32]Kind, len(kindTags))
	for k, tag := range kindTags {
		m[tag] = k
	}
	return m
}()

var kindNames = map[Kind]string{
	KindHeader:      "header",
	KindMetadata:    "metadata",
	KindGameState:   "game_state",
	KindPlanets:     "planets",
	KindShips:       "ships",
	KindFactions:    "factions",
	KindAssets:      "assets",
	KindCollections: "collections",
	KindChecksum:    "checksum",
}

// Tag returns the on-disk tag of k.
func (k Kind) Tag() (uint32, error) {
	tag, ok := kindTags[k]
	if !ok {
		return 0, fmt.Errorf("%w: kind %d has no tag", ErrUnknownTag, uint8(k))
	}
	return tag, nil
}

// KindOf maps an on-disk tag back to its kind.
func KindOf(tag uint32) (Kind, error) {
	k, ok := tagKinds[tag]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%08x", ErrUnknownTag, tag)
	}
	return k, nil
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}
