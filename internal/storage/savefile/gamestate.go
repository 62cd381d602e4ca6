package savefile

import (
	"encoding/json"
	"fmt"

	"github.com/yndnr/stellar-save/internal/core/domain"
)

// EncodeGameState serializes the simulation state for the GameState chunk.
// The snapshot model has no maps, so the output is deterministic.
func EncodeGameState(snap *domain.SimulationSnapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	return data, nil
}

// DecodeGameState parses a GameState chunk payload.
func DecodeGameState(b []byte) (*domain.SimulationSnapshot, error) {
	var snap domain.SimulationSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}
