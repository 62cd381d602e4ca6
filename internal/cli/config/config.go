package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/core/service"
	"github.com/yndnr/stellar-save/internal/storage/backup"
	"github.com/yndnr/stellar-save/internal/storage/chunk"
	"github.com/yndnr/stellar-save/internal/storage/savefile"
	"github.com/yndnr/stellar-save/internal/telemetry/logger"
)

// Config is the complete stellar-save configuration.
type Config struct {
	Save    SaveConfig    `koanf:"save" json:"save"`
	Log     LogConfig     `koanf:"log" json:"log"`
	Metrics MetricsConfig `koanf:"metrics" json:"metrics"`
}

// SaveConfig configures the save engine.
type SaveConfig struct {
	Dir          string         `koanf:"dir" json:"dir"`
	BackupCount  int            `koanf:"backup_count" json:"backup_count"`
	Compression  string         `koanf:"compression" json:"compression"`
	FileChecksum bool           `koanf:"file_checksum" json:"file_checksum"`
	Features     FeaturesConfig `koanf:"features" json:"features"`
}

// FeaturesConfig enables optional chunks.
type FeaturesConfig struct {
	Assets      bool `koanf:"assets" json:"assets"`
	Collections bool `koanf:"collections" json:"collections"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile, if set, receives the Prometheus text exposition after
	// every command.
	Textfile string `koanf:"textfile" json:"textfile"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Save: SaveConfig{
			Dir:          "saves",
			BackupCount:  3,
			Compression:  chunk.CompressionNone.String(),
			FileChecksum: true,
			Features:     FeaturesConfig{Assets: true, Collections: true},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultMap returns Default as dotted koanf keys.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"save.dir":                  d.Save.Dir,
		"save.backup_count":         d.Save.BackupCount,
		"save.compression":          d.Save.Compression,
		"save.file_checksum":        d.Save.FileChecksum,
		"save.features.assets":      d.Save.Features.Assets,
		"save.features.collections": d.Save.Features.Collections,
		"log.level":                 d.Log.Level,
		"log.format":                d.Log.Format,
		"metrics.textfile":          d.Metrics.Textfile,
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stellar-save", "config.yaml")
}

// Verify checks the configuration.
func (c *Config) Verify() error {
	if c.Save.Dir == "" {
		return fmt.Errorf("save.dir must not be empty")
	}
	if c.Save.BackupCount < 0 || c.Save.BackupCount > backup.MaxCount {
		return fmt.Errorf("save.backup_count must be between 0 and %d, got %d", backup.MaxCount, c.Save.BackupCount)
	}
	comp, err := chunk.ParseCompression(c.Save.Compression)
	if err != nil {
		return fmt.Errorf("save.compression: %w", err)
	}
	if comp != chunk.CompressionNone {
		return domain.ErrCompressionUnsupported.WithDetails("save.compression: " + comp.String())
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

// Service returns the engine configuration. Call Verify first.
func (c *Config) Service() service.Config {
	var features savefile.Features
	if c.Save.Features.Assets {
		features |= savefile.FeatureAssets
	}
	if c.Save.Features.Collections {
		features |= savefile.FeatureCollections
	}
	comp, _ := chunk.ParseCompression(c.Save.Compression)
	return service.Config{
		Dir:          c.Save.Dir,
		BackupCount:  c.Save.BackupCount,
		FileChecksum: c.Save.FileChecksum,
		Features:     features,
		Compression:  comp,
	}
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
