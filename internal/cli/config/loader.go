package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yndnr/stellar-save/internal/infra/confloader"
)

// Load builds the configuration from defaults, the file at path, the
// environment and flags. A missing file is only an error when path was
// given explicitly. flags holds dotted keys for the flags the user set.
func Load(path string, flags map[string]any) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			path = ""
		}
	}

	l := confloader.NewLoader(confloader.WithConfigFile(path))
	if err := l.LoadMap(DefaultMap()); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		if err := l.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	return cfg, nil
}
