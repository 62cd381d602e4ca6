package service

import (
	"time"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/storage/fsys"
	"github.com/yndnr/stellar-save/internal/telemetry/metric"
)

// Option configures a SaveSystem.
type Option func(*SaveSystem)

// WithFS replaces the filesystem. Tests use it to inject faults.
func WithFS(filesystem fsys.FS) Option {
	return func(s *SaveSystem) { s.fs = filesystem }
}

// WithMetrics records engine metrics on r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *SaveSystem) { s.metrics = r }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *SaveSystem) { s.now = now }
}

// SaveOption adjusts the metadata stored with one save.
type SaveOption func(*domain.SaveMetadata)

// WithDescription sets a free-text description.
func WithDescription(desc string) SaveOption {
	return func(md *domain.SaveMetadata) { md.Description = desc }
}

// WithProperty adds a free-form property.
func WithProperty(key, value string) SaveOption {
	return func(md *domain.SaveMetadata) {
		if md.Properties == nil {
			md.Properties = make(map[string]string)
		}
		md.Properties[key] = value
	}
}

// WithVictory marks the save as a finished game.
func WithVictory(v domain.VictoryType) SaveOption {
	return func(md *domain.SaveMetadata) { md.Victory = &v }
}

// WithPlayTime overrides the play time derived from the tick count.
func WithPlayTime(d time.Duration) SaveOption {
	return func(md *domain.SaveMetadata) { md.PlayTime = d }
}
