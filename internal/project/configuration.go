package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/piwi3910/CaseForge/internal/model"
)

// FileExtension is appended to configuration files saved from the tools.
const FileExtension = ".caseforge.json"

// ErrNotAConfiguration is returned when a file parses as JSON but carries no
// furniture dimensions.
var ErrNotAConfiguration = errors.New("not a configuration file")

// SaveConfiguration writes cfg to path as indented JSON and refreshes its
// modification time.
func SaveConfiguration(path string, cfg *model.Configuration) error {
	cfg.Touch()
	cfg.Deletions()
	if err := writeJSON(path, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// LoadConfiguration reads a configuration snapshot. A missing zone tree is
// replaced with the default single leaf and a missing deletion list with an
// empty one; structural repairs are left to engine.ResolveConfiguration.
func LoadConfiguration(path string) (*model.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return ParseConfiguration(data)
}

// ParseConfiguration decodes a configuration snapshot from JSON.
func ParseConfiguration(data []byte) (*model.Configuration, error) {
	var cfg model.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.Dimensions == (model.Dimensions{}) {
		return nil, ErrNotAConfiguration
	}
	if cfg.ZoneTree == nil {
		cfg.ZoneTree = model.NewTree()
	}
	cfg.Deletions()
	return &cfg, nil
}
