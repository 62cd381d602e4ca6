package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewSaveID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := NewSaveID(now)
	if err != nil {
		t.Fatalf("NewSaveID() error = %v", err)
	}
	if !strings.HasPrefix(id, SaveIDPrefix) {
		t.Errorf("id = %q, want prefix %q", id, SaveIDPrefix)
	}
	if len(id) != len(SaveIDPrefix)+26 {
		t.Errorf("len(id) = %d, want %d", len(id), len(SaveIDPrefix)+26)
	}
	if id != strings.ToLower(id) {
		t.Errorf("id = %q, want lowercase", id)
	}

	ts, ok := SaveIDTime(id)
	if !ok {
		t.Fatalf("SaveIDTime(%q) failed", id)
	}
	if !ts.Equal(now) {
		t.Errorf("SaveIDTime() = %v, want %v", ts, now)
	}

	other, _ := NewSaveID(now)
	if other == id {
		t.Error("two save IDs should differ")
	}
}

func TestSaveIDTime_Invalid(t *testing.T) {
	for _, id := range []string{"", "save-", "tmss-01hqz", "save-not-a-ulid"} {
		if _, ok := SaveIDTime(id); ok {
			t.Errorf("SaveIDTime(%q) ok = true, want false", id)
		}
	}
}

func TestDeriveMetadata(t *testing.T) {
	snap := &SimulationSnapshot{
		Tick:     600,
		Planets:  make([]Planet, 3),
		Ships:    make([]Ship, 5),
		Factions: make([]Faction, 2),
		Configuration: GameConfiguration{
			GalaxySize: GalaxyLarge,
			Difficulty: DifficultyHard,
			PlayerID:   "acct_42",
		},
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 500, time.FixedZone("X", 3600))

	md := DeriveMetadata("alpha", snap, now)

	if md.Slot != "alpha" {
		t.Errorf("Slot = %q, want alpha", md.Slot)
	}
	if md.PlanetCount != 3 || md.ShipCount != 5 || md.FactionCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 3/5/2", md.PlanetCount, md.ShipCount, md.FactionCount)
	}
	if md.PlayTime != time.Minute {
		t.Errorf("PlayTime = %v, want 1m", md.PlayTime)
	}
	if md.GalaxySize != GalaxyLarge || md.Difficulty != DifficultyHard {
		t.Errorf("GalaxySize, Difficulty = %v, %v", md.GalaxySize, md.Difficulty)
	}
	if md.PlayerID != "acct_42" {
		t.Errorf("PlayerID = %q, want acct_42", md.PlayerID)
	}
	if md.SavedAt.Location() != time.UTC || md.SavedAt.Nanosecond() != 0 {
		t.Errorf("SavedAt = %v, want UTC truncated to seconds", md.SavedAt)
	}
}
