package benchmark

import (
	"testing"
	"time"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/storage/savefile"
)

// BenchmarkBuild benchmarks in-memory assembly of a save image.
func BenchmarkBuild(b *testing.B) {
	runWithPlanetCounts(b, PlanetCounts, func(b *testing.B, count int) {
		snap := createSnapshot(count)
		now := time.Now()
		md := domain.DeriveMetadata("bench", snap, now)
		opts := savefile.Options{FileChecksum: true}

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			img, err := savefile.Build(snap, md, opts, now)
			if err != nil {
				b.Fatalf("Build failed: %v", err)
			}
			b.SetBytes(int64(len(img.Data)))
		}
	})
}

// BenchmarkDecode benchmarks full verification and decoding of a save image.
func BenchmarkDecode(b *testing.B) {
	runWithPlanetCounts(b, PlanetCounts, func(b *testing.B, count int) {
		snap := createSnapshot(count)
		now := time.Now()
		img, err := savefile.Build(snap, domain.DeriveMetadata("bench", snap, now), savefile.Options{FileChecksum: true}, now)
		if err != nil {
			b.Fatalf("Build failed: %v", err)
		}

		b.SetBytes(int64(len(img.Data)))
		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := savefile.Decode(img.Data); err != nil {
				b.Fatalf("Decode failed: %v", err)
			}
		}
	})
}

// BenchmarkDecodeMetadataOnly benchmarks the metadata fast path used by
// listings.
func BenchmarkDecodeMetadataOnly(b *testing.B) {
	runWithPlanetCounts(b, PlanetCounts, func(b *testing.B, count int) {
		snap := createSnapshot(count)
		now := time.Now()
		img, err := savefile.Build(snap, domain.DeriveMetadata("bench", snap, now), savefile.Options{}, now)
		if err != nil {
			b.Fatalf("Build failed: %v", err)
		}

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := savefile.DecodeMetadataOnly(img.Data); err != nil {
				b.Fatalf("DecodeMetadataOnly failed: %v", err)
			}
		}
	})
}
