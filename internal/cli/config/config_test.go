package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/stellar-save/internal/core/domain"
	"github.com/yndnr/stellar-save/internal/storage/chunk"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Verify(); err != nil {
		t.Fatalf("Default().Verify() error = %v", err)
	}
	if cfg.Save.BackupCount != 3 || !cfg.Save.FileChecksum {
		t.Errorf("Default() = %+v", cfg.Save)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"no backups", func(c *Config) { c.Save.BackupCount = 0 }, true},
		{"empty dir", func(c *Config) { c.Save.Dir = "" }, false},
		{"negative backups", func(c *Config) { c.Save.BackupCount = -1 }, false},
		{"too many backups", func(c *Config) { c.Save.BackupCount = 33 }, false},
		{"unknown compression", func(c *Config) { c.Save.Compression = "gzip" }, false},
		{"lz4", func(c *Config) { c.Save.Compression = "lz4" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Verify(); (err == nil) != tt.ok {
				t.Errorf("Verify() error = %v, want ok %v", err, tt.ok)
			}
		})
	}
}

func TestVerify_CompressionUnsupported(t *testing.T) {
	cfg := Default()
	cfg.Save.Compression = "zstd"
	if err := cfg.Verify(); !errors.Is(err, domain.ErrCompressionUnsupported) {
		t.Errorf("Verify() error = %v, want ErrCompressionUnsupported", err)
	}
}

func TestService(t *testing.T) {
	cfg := Default()
	cfg.Save.Features.Collections = false

	sc := cfg.Service()
	if sc.Dir != "saves" || sc.BackupCount != 3 || sc.Compression != chunk.CompressionNone {
		t.Errorf("Service() = %+v", sc)
	}
	if !sc.Features.HasAssets() || sc.Features.HasCollections() {
		t.Errorf("Features = %v", sc.Features)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("save:\n  dir: /data/saves\n  backup_count: 5\nlog:\n  level: warn\n"), 0644)
	t.Setenv("STELLAR_LOG__LEVEL", "debug")

	cfg, err := Load(path, map[string]any{"save.backup_count": 1})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Save.Dir != "/data/saves" {
		t.Errorf("Dir = %q, want /data/saves", cfg.Save.Dir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug from env", cfg.Log.Level)
	}
	if cfg.Save.BackupCount != 1 {
		t.Errorf("BackupCount = %d, want 1 from flags", cfg.Save.BackupCount)
	}
	if !cfg.Save.FileChecksum {
		t.Error("FileChecksum default lost")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil); err == nil {
		t.Error("Load() should fail for a missing explicit file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load("", map[string]any{"save.backup_count": 99}); err == nil {
		t.Error("Load() should reject backup_count 99")
	}
}
