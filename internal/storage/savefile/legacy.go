package savefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/pkg/bytecodec"
)

// legacyRecord is the game state record of version 1 and bare JSON saves.
type legacyRecord struct {
	Version           uint32                   `json:"version"`
	SaveName          string                   `json:"save_name"`
	Timestamp         uint64                   `json:"timestamp"`
	Tick              uint64                   `json:"tick"`
	Planets           []domain.Planet          `json:"planets"`
	Ships             []domain.Ship            `json:"ships"`
	Factions          []domain.Faction         `json:"factions"`
	GameConfiguration domain.GameConfiguration `json:"game_configuration"`
}

// legacyRequired are the fields a record must carry to be decoded in full.
var legacyRequired = []string{"tick", "planets", "ships", "factions", "game_configuration"}

// EncodeLegacy produces a version 1 file. Only tests and tooling use it;
// the engine never writes this layout.
func EncodeLegacy(slot string, snap *domain.SimulationSnapshot, savedAt time.Time) ([]byte, error) {
	rec := legacyRecord{
		Version:           LegacyVersion,
		SaveName:          slot,
		Timestamp:         uint64(savedAt.Unix()),
		Tick:              snap.Tick,
		Planets:           snap.Planets,
		Ships:             snap.Ships,
		Factions:          snap.Factions,
		GameConfiguration: snap.Configuration,
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	w := bytecodec.NewWriter(PreambleSize + len(body))
	encodePreamble(w, Preamble{Version: LegacyVersion, Count: uint32(len(body))})
	w.PutRaw(body)
	return w.Bytes(), nil
}

func decodeLegacyV1(data []byte, pre Preamble) (*Result, error) {
	body := data[PreambleSize:]
	if uint64(pre.Count) != uint64(len(body)) {
		return nil, domain.ErrChunkCorrupt.WithDetails(
			fmt.Sprintf("legacy record declares %d bytes, file has %d", pre.Count, len(body)))
	}
	if !gjson.ValidBytes(body) {
		return nil, domain.ErrChunkCorrupt.WithDetails("legacy record is not valid JSON")
	}
	return decodeLegacyRecord(body, int64(len(data)))
}

// decodeBareLegacy reads a file that is a JSON record without any preamble.
// Anything else is not a save file.
func decodeBareLegacy(data []byte) (*Result, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' || !gjson.ValidBytes(trimmed) {
		n := min(len(data), len(Magic))
		return nil, domain.ErrFormatNotRecognized.WithDetails(fmt.Sprintf("bad magic %q", data[:n]))
	}
	return decodeLegacyRecord(trimmed, int64(len(data)))
}

// decodeLegacyRecord decodes the full record when it matches the current
// model, and otherwise falls back to the scalar fields with empty
// collections.
func decodeLegacyRecord(body []byte, size int64) (*Result, error) {
	if res, ok := decodeLegacyFull(body); ok {
		res.Metadata.Size = size
		return res, nil
	}

	tick := gjson.GetBytes(body, "tick")
	if tick.Type != gjson.Number {
		return nil, domain.ErrChunkCorrupt.WithDetails("legacy record has no tick")
	}

	snap := &domain.SimulationSnapshot{Tick: tick.Uint()}
	if cfg := gjson.GetBytes(body, "game_configuration"); cfg.IsObject() {
		// Best effort. Unknown or malformed settings keep their defaults.
		_ = json.Unmarshal([]byte(cfg.Raw), &snap.Configuration)
	}
	snap.Normalize()

	md := domain.DeriveMetadata(gjson.GetBytes(body, "save_name").String(), snap,
		time.Unix(gjson.GetBytes(body, "timestamp").Int(), 0))
	md.PlanetCount = legacyCount(body, "planets", "planet_count")
	md.ShipCount = legacyCount(body, "ships", "ship_count")
	md.FactionCount = legacyCount(body, "factions", "faction_count")
	md.FormatVersion = LegacyVersion
	md.Size = size
	md.Degraded = true

	return &Result{Snapshot: snap, Metadata: md, Legacy: true}, nil
}

func decodeLegacyFull(body []byte) (*Result, bool) {
	for _, field := range legacyRequired {
		if !gjson.GetBytes(body, field).Exists() {
			return nil, false
		}
	}
	var rec legacyRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, false
	}

	snap := &domain.SimulationSnapshot{
		Tick:          rec.Tick,
		Planets:       rec.Planets,
		Ships:         rec.Ships,
		Factions:      rec.Factions,
		Configuration: rec.GameConfiguration,
	}
	snap.Normalize()

	md := domain.DeriveMetadata(rec.SaveName, snap, time.Unix(int64(rec.Timestamp), 0))
	md.FormatVersion = LegacyVersion
	return &Result{Snapshot: snap, Metadata: md, Legacy: true}, true
}

// legacyCount reads an entity count from an array length or, for records
// that only kept summaries, from a scalar field.
func legacyCount(body []byte, array, scalar string) uint32 {
	if v := gjson.GetBytes(body, array); v.IsArray() {
		return uint32(len(v.Array()))
	}
	if v := gjson.GetBytes(body, scalar); v.Type == gjson.Number {
		return uint32(v.Uint())
	}
	return 0
}
