package benchmark

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/stellar-save/internal/core/domain"
)

// PlanetCounts defines the galaxy sizes for benchmarking.
var PlanetCounts = []int{100, 1000, 5000, 20000}

// SmallPlanetCounts for quick benchmarks.
var SmallPlanetCounts = []int{100, 1000}

// createSnapshot builds a snapshot with planets planets and a fleet and
// faction roster scaled to match.
func createSnapshot(planets int) *domain.SimulationSnapshot {
	snap := &domain.SimulationSnapshot{Tick: 1000, Configuration: domain.DefaultGameConfiguration()}
	snap.Configuration.PlayerID = "acct_bench"
	for i := 0; i < planets; i++ {
		snap.Planets = append(snap.Planets, domain.Planet{
			ID:       domain.PlanetID(i + 1),
			Position: domain.OrbitalElements{SemiMajorAxis: float32(i) + 1, Period: 365},
			Population: domain.Demographics{
				Total:      int32(100 * (i % 50)),
				Allocation: domain.WorkerAllocation{Unassigned: int32(100 * (i % 50))},
			},
		})
	}
	for i := 0; i < planets/4; i++ {
		snap.Ships = append(snap.Ships, domain.Ship{
			ID:        domain.ShipID(i + 1),
			ShipClass: domain.ShipScout,
			Fuel:      float32(i % 100),
		})
	}
	for i := 0; i < 8; i++ {
		snap.Factions = append(snap.Factions, domain.Faction{
			ID:       domain.FactionID(i),
			Name:     fmt.Sprintf("Faction %d", i),
			IsPlayer: i == 0,
		})
	}
	return snap
}

// reportMemory reports memory statistics.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithPlanetCounts runs a benchmark function with various galaxy sizes.
func runWithPlanetCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("planets_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
