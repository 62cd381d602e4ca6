package command

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/stellar-save/internal/cli/output"
	"github.com/yndnr/stellar-save/internal/core/domain"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readSnapshot reads a snapshot from a JSON or YAML file. YAML is decoded
// generically and converted through JSON so both formats share the json
// field names.
func readSnapshot(path string) (*domain.SimulationSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
	}

	snap := &domain.SimulationSnapshot{Configuration: domain.DefaultGameConfiguration()}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return snap, nil
}

// writeSnapshot writes snap to path as JSON or YAML, chosen by extension.
func writeSnapshot(path string, snap *domain.SimulationSnapshot) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		var generic any
		if generic, err = output.ToGeneric(snap); err == nil {
			data, err = yaml.Marshal(generic)
		}
	} else {
		data, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
