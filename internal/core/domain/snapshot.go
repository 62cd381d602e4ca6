package domain

import (
	"fmt"
	"math"
	"time"
)

// Identifier aliases shared with the simulation.
type (
	PlanetID  = uint32
	ShipID    = uint32
	FactionID = uint8
)

// TickDuration is the game time represented by one simulation tick.
const TickDuration = 100 * time.Millisecond

// SimulationSnapshot is the complete simulation state handed to the save
// engine. The engine round-trips every field it knows about.
//
// Assets and Collections are opaque payloads owned by their subsystems; the
// engine stores them in their own chunks when present and returns nil when a
// file carries none.
type SimulationSnapshot struct {
	Tick          uint64            `json:"tick"`
	Planets       []Planet          `json:"planets"`
	Ships         []Ship            `json:"ships"`
	Factions      []Faction         `json:"factions"`
	Configuration GameConfiguration `json:"game_configuration"`

	Assets      []byte `json:"-"`
	Collections []byte `json:"-"`
}

// ResourceBundle is an amount of each resource.
type ResourceBundle struct {
	Minerals   int32 `json:"minerals"`
	Food       int32 `json:"food"`
	Energy     int32 `json:"energy"`
	Alloys     int32 `json:"alloys"`
	Components int32 `json:"components"`
	Fuel       int32 `json:"fuel"`
}

// NonNegative reports whether every resource amount is >= 0.
func (r ResourceBundle) NonNegative() bool {
	return r.Minerals >= 0 && r.Food >= 0 && r.Energy >= 0 &&
		r.Alloys >= 0 && r.Components >= 0 && r.Fuel >= 0
}

// ResourceStorage is a planet's stockpile and its limits.
type ResourceStorage struct {
	Current  ResourceBundle `json:"current"`
	Capacity ResourceBundle `json:"capacity"`
}

// WorkerAllocation splits a population across jobs.
type WorkerAllocation struct {
	Agriculture int32 `json:"agriculture"`
	Mining      int32 `json:"mining"`
	Industry    int32 `json:"industry"`
	Research    int32 `json:"research"`
	Military    int32 `json:"military"`
	Unassigned  int32 `json:"unassigned"`
}

// Sum returns the number of allocated workers including unassigned ones.
func (w WorkerAllocation) Sum() int64 {
	return int64(w.Agriculture) + int64(w.Mining) + int64(w.Industry) +
		int64(w.Research) + int64(w.Military) + int64(w.Unassigned)
}

// Demographics describes a planet's population.
type Demographics struct {
	Total      int32            `json:"total"`
	GrowthRate float32          `json:"growth_rate"`
	Allocation WorkerAllocation `json:"allocation"`
}

// Building is one development on a planet.
type Building struct {
	BuildingType BuildingType `json:"building_type"`
	Tier         uint8        `json:"tier"`
	Operational  bool         `json:"operational"`
}

// OrbitalElements place a planet on its orbit.
type OrbitalElements struct {
	SemiMajorAxis float32 `json:"semi_major_axis"` // AU
	Period        float32 `json:"period"`          // ticks
	Phase         float32 `json:"phase"`           // radians
}

type Vector2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Trajectory is a ship's planned transfer.
type Trajectory struct {
	Origin        Vector2 `json:"origin"`
	Destination   Vector2 `json:"destination"`
	DepartureTime uint64  `json:"departure_time"`
	ArrivalTime   uint64  `json:"arrival_time"`
	FuelCost      float32 `json:"fuel_cost"`
}

// CargoHold is what a ship carries.
type CargoHold struct {
	Resources  ResourceBundle `json:"resources"`
	Population int32          `json:"population"`
	Capacity   int32          `json:"capacity"`
}

type Planet struct {
	ID           PlanetID        `json:"id"`
	Position     OrbitalElements `json:"position"`
	Resources    ResourceStorage `json:"resources"`
	Population   Demographics    `json:"population"`
	Developments []Building      `json:"developments"`
	Controller   *FactionID      `json:"controller"`
}

type Ship struct {
	ID         ShipID      `json:"id"`
	ShipClass  ShipClass   `json:"ship_class"`
	Position   Vector2     `json:"position"`
	Trajectory *Trajectory `json:"trajectory"`
	Cargo      CargoHold   `json:"cargo"`
	Fuel       float32     `json:"fuel"`
	Owner      FactionID   `json:"owner"`
}

type Faction struct {
	ID       FactionID     `json:"id"`
	Name     string        `json:"name"`
	IsPlayer bool          `json:"is_player"`
	AIType   AIPersonality `json:"ai_type"`
	Score    int32         `json:"score"`
}

// GameConfiguration holds the settings a game was started with.
type GameConfiguration struct {
	PlanetCount        uint32         `json:"planet_count"`
	StartingPopulation int32          `json:"starting_population"`
	AIOpponents        uint32         `json:"ai_opponents"`
	GalaxySize         GalaxySize     `json:"galaxy_size"`
	StartingResources  ResourceBundle `json:"starting_resources"`
	Difficulty         Difficulty     `json:"difficulty"`

	// PlayerID identifies the owning player profile, if any.
	PlayerID string `json:"player_id,omitempty"`
}

// DefaultGameConfiguration returns the settings of a new default game.
func DefaultGameConfiguration() GameConfiguration {
	return GameConfiguration{
		PlanetCount:        3,
		StartingPopulation: 1000,
		AIOpponents:        1,
		GalaxySize:         GalaxySmall,
		StartingResources: ResourceBundle{
			Minerals: 500,
			Food:     500,
			Energy:   500,
			Alloys:   100,
			Fuel:     200,
		},
		Difficulty: DifficultyNormal,
	}
}

// Normalize replaces nil collections with empty ones.
func (s *SimulationSnapshot) Normalize() {
	if s.Planets == nil {
		s.Planets = []Planet{}
	}
	if s.Ships == nil {
		s.Ships = []Ship{}
	}
	if s.Factions == nil {
		s.Factions = []Faction{}
	}
	for i := range s.Planets {
		if s.Planets[i].Developments == nil {
			s.Planets[i].Developments = []Building{}
		}
	}
}

// PlayerFaction returns the player's faction, if the snapshot has one.
func (s *SimulationSnapshot) PlayerFaction() (Faction, bool) {
	for _, f := range s.Factions {
		if f.IsPlayer {
			return f, true
		}
	}
	return Faction{}, false
}

// Validate checks the invariants a snapshot must hold before it is written.
// Empty collections are valid.
func (s *SimulationSnapshot) Validate() error {
	if !s.Configuration.GalaxySize.Valid() {
		return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("galaxy size %d", s.Configuration.GalaxySize))
	}
	if !s.Configuration.Difficulty.Valid() {
		return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("difficulty %d", s.Configuration.Difficulty))
	}

	planetIDs := make(map[PlanetID]struct{}, len(s.Planets))
	for _, p := range s.Planets {
		if _, dup := planetIDs[p.ID]; dup {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("duplicate planet id %d", p.ID))
		}
		planetIDs[p.ID] = struct{}{}

		if !p.Resources.Current.NonNegative() || !p.Resources.Capacity.NonNegative() {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("planet %d: negative resources", p.ID))
		}
		if sum := p.Population.Allocation.Sum(); sum != int64(p.Population.Total) {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf(
				"planet %d: worker allocation %d does not match total %d", p.ID, sum, p.Population.Total))
		}
		if !finite(p.Population.GrowthRate, p.Position.SemiMajorAxis, p.Position.Period, p.Position.Phase) {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("planet %d: non-finite value", p.ID))
		}
		for _, b := range p.Developments {
			if !buildingTypeNames.valid(uint8(b.BuildingType)) {
				return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("planet %d: building type %d", p.ID, b.BuildingType))
			}
		}
	}

	shipIDs := make(map[ShipID]struct{}, len(s.Ships))
	for _, sh := range s.Ships {
		if _, dup := shipIDs[sh.ID]; dup {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("duplicate ship id %d", sh.ID))
		}
		shipIDs[sh.ID] = struct{}{}

		if !shipClassNames.valid(uint8(sh.ShipClass)) {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("ship %d: class %d", sh.ID, sh.ShipClass))
		}
		if !finite(sh.Fuel, sh.Position.X, sh.Position.Y) {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("ship %d: non-finite value", sh.ID))
		}
		if t := sh.Trajectory; t != nil && !finite(t.FuelCost, t.Origin.X, t.Origin.Y, t.Destination.X, t.Destination.Y) {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("ship %d: non-finite trajectory", sh.ID))
		}
	}

	factionIDs := make(map[FactionID]struct{}, len(s.Factions))
	for _, f := range s.Factions {
		if _, dup := factionIDs[f.ID]; dup {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("duplicate faction id %d", f.ID))
		}
		factionIDs[f.ID] = struct{}{}

		if !aiPersonalityNames.valid(uint8(f.AIType)) {
			return ErrSnapshotInvalid.WithDetails(fmt.Sprintf("faction %d: ai type %d", f.ID, f.AIType))
		}
	}

	return nil
}

// finite reports whether every value is a finite float. JSON cannot carry
// NaN or infinities.
func finite(values ...float32) bool {
	for _, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
