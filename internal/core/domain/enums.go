package domain

import "fmt"

// enumNames maps an enum ordinal to its wire name. The names are the ones
// legacy JSON saves use.
type enumNames []string

func (n enumNames) name(v uint8) string {
	if int(v) < len(n) {
		return n[v]
	}
	return fmt.Sprintf("Unknown(%d)", v)
}

func (n enumNames) parse(kind string, text []byte) (uint8, error) {
	s := string(text)
	for i, name := range n {
		if name == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("domain: unknown %s %q", kind, s)
}

func (n enumNames) valid(v uint8) bool { return int(v) < len(n) }

// BuildingType identifies a planetary development.
type BuildingType uint8

const (
	BuildingMine BuildingType = iota
	BuildingFarm
	BuildingPowerPlant
	BuildingFactory
	BuildingResearchLab
	BuildingSpaceport
	BuildingDefensePlatform
	BuildingStorageFacility
	BuildingHabitat
)

var buildingTypeNames = enumNames{
	"Mine", "Farm", "PowerPlant", "Factory", "ResearchLab",
	"Spaceport", "DefensePlatform", "StorageFacility", "Habitat",
}

func (b BuildingType) String() string { return buildingTypeNames.name(uint8(b)) }

func (b BuildingType) MarshalText() ([]byte, error) {
	if !buildingTypeNames.valid(uint8(b)) {
		return nil, fmt.Errorf("domain: invalid building type %d", uint8(b))
	}
	return []byte(b.String()), nil
}

func (b *BuildingType) UnmarshalText(text []byte) error {
	v, err := buildingTypeNames.parse("building type", text)
	*b = BuildingType(v)
	return err
}

// ShipClass identifies a ship hull.
type ShipClass uint8

const (
	ShipScout ShipClass = iota
	ShipTransport
	ShipWarship
	ShipColony
)

var shipClassNames = enumNames{"Scout", "Transport", "Warship", "Colony"}

func (c ShipClass) String() string { return shipClassNames.name(uint8(c)) }

func (c ShipClass) MarshalText() ([]byte, error) {
	if !shipClassNames.valid(uint8(c)) {
		return nil, fmt.Errorf("domain: invalid ship class %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *ShipClass) UnmarshalText(text []byte) error {
	v, err := shipClassNames.parse("ship class", text)
	*c = ShipClass(v)
	return err
}

// AIPersonality drives computer-controlled factions.
type AIPersonality uint8

const (
	AIAggressive AIPersonality = iota
	AIBalanced
	AIEconomic
)

var aiPersonalityNames = enumNames{"Aggressive", "Balanced", "Economic"}

func (p AIPersonality) String() string { return aiPersonalityNames.name(uint8(p)) }

func (p AIPersonality) MarshalText() ([]byte, error) {
	if !aiPersonalityNames.valid(uint8(p)) {
		return nil, fmt.Errorf("domain: invalid ai personality %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *AIPersonality) UnmarshalText(text []byte) error {
	v, err := aiPersonalityNames.parse("ai personality", text)
	*p = AIPersonality(v)
	return err
}

// GalaxySize selects the map scale of a game.
type GalaxySize uint8

const (
	GalaxySmall GalaxySize = iota
	GalaxyMedium
	GalaxyLarge
)

var galaxySizeNames = enumNames{"Small", "Medium", "Large"}

func (g GalaxySize) String() string { return galaxySizeNames.name(uint8(g)) }

// Valid reports whether g is a known galaxy size.
func (g GalaxySize) Valid() bool { return galaxySizeNames.valid(uint8(g)) }

func (g GalaxySize) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("domain: invalid galaxy size %d", uint8(g))
	}
	return []byte(g.String()), nil
}

func (g *GalaxySize) UnmarshalText(text []byte) error {
	v, err := galaxySizeNames.parse("galaxy size", text)
	*g = GalaxySize(v)
	return err
}

// Difficulty is the game difficulty level.
type Difficulty uint8

const (
	DifficultyNormal Difficulty = iota
	DifficultyEasy
	DifficultyHard
	DifficultyBrutal
)

var difficultyNames = enumNames{"Normal", "Easy", "Hard", "Brutal"}

func (d Difficulty) String() string { return difficultyNames.name(uint8(d)) }

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool { return difficultyNames.valid(uint8(d)) }

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("domain: invalid difficulty %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := difficultyNames.parse("difficulty", text)
	*d = Difficulty(v)
	return err
}

// VictoryType records how a finished game was won.
type VictoryType uint8

const (
	VictoryEconomic VictoryType = iota
	VictoryPopulation
	VictoryMilitary
	VictoryTimeout
)

var victoryTypeNames = enumNames{"Economic", "Population", "Military", "Timeout"}

func (v VictoryType) String() string { return victoryTypeNames.name(uint8(v)) }

// Valid reports whether v is a known victory type.
func (v VictoryType) Valid() bool { return victoryTypeNames.valid(uint8(v)) }

func (v VictoryType) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("domain: invalid victory type %d", uint8(v))
	}
	return []byte(v.String()), nil
}

func (v *VictoryType) UnmarshalText(text []byte) error {
	n, err := victoryTypeNames.parse("victory type", text)
	*v = VictoryType(n)
	return err
}
