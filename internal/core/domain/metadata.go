package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SaveIDPrefix prefixes every generated save ID.
const SaveIDPrefix = "save-"

// SaveMetadata describes a save without loading its game state.
//
// Counts are informational snapshots taken at save time and are never used
// for gameplay.
type SaveMetadata struct {
	// SaveID uniquely identifies one write of a slot.
	// Format: save-{ulid_lowercase}.
	SaveID string `json:"save_id"`

	Slot        string     `json:"slot"`
	Description string     `json:"description,omitempty"`
	PlayerID    string     `json:"player_id,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	GalaxySize  GalaxySize `json:"galaxy_size"`

	PlanetCount  uint32 `json:"planet_count"`
	ShipCount    uint32 `json:"ship_count"`
	FactionCount uint32 `json:"faction_count"`

	Tick     uint64        `json:"tick"`
	SavedAt  time.Time     `json:"saved_at"`
	PlayTime time.Duration `json:"play_time"`

	Victory    *VictoryType      `json:"victory,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`

	// Filled in by the reader, not stored in the metadata chunk.
	FormatVersion uint32 `json:"format_version"`
	Size          int64  `json:"size"`
	Degraded      bool   `json:"degraded,omitempty"`
}

// NewSaveID generates a new save ID.
func NewSaveID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return SaveIDPrefix + strings.ToLower(id.String()), nil
}

// SaveIDTime extracts the creation time encoded in a save ID.
func SaveIDTime(id string) (time.Time, bool) {
	if !strings.HasPrefix(id, SaveIDPrefix) {
		return time.Time{}, false
	}
	parsed, err := ulid.Parse(strings.ToUpper(id[len(SaveIDPrefix):]))
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(parsed.Time()), true
}

// DeriveMetadata computes the metadata of snap as saved to slot at now.
// Play time defaults to the elapsed simulation time.
func DeriveMetadata(slot string, snap *SimulationSnapshot, now time.Time) SaveMetadata {
	return SaveMetadata{
		Slot:         slot,
		PlayerID:     snap.Configuration.PlayerID,
		Difficulty:   snap.Configuration.Difficulty,
		GalaxySize:   snap.Configuration.GalaxySize,
		PlanetCount:  uint32(len(snap.Planets)),
		ShipCount:    uint32(len(snap.Ships)),
		FactionCount: uint32(len(snap.Factions)),
		Tick:         snap.Tick,
		SavedAt:      now.UTC().Truncate(time.Second),
		PlayTime:     time.Duration(snap.Tick) * TickDuration,
	}
}
