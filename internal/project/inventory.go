package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/CaseForge/internal/model"
)

// DefaultInventoryPath returns the default file path for the material inventory.
// This is located at ~/.caseforge/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, err
	}
	if inv.Materials == nil {
		inv.Materials = []model.Material{}
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path.
// If the file does not exist, it creates one with default entries.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path := DefaultInventoryPath()
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the materials of a user-specified JSON file into
// existing. Materials whose ID or name (case-insensitive) is already present
// are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}
	return MergeInventory(existing, imported.Materials), nil
}

// MergeInventory appends the materials not already present in existing.
func MergeInventory(existing model.Inventory, materials []model.Material) model.Inventory {
	ids := make(map[string]bool, len(existing.Materials))
	names := make(map[string]bool, len(existing.Materials))
	for _, m := range existing.Materials {
		ids[m.ID] = true
		names[strings.ToLower(m.Name)] = true
	}
	for _, m := range materials {
		key := strings.ToLower(m.Name)
		if (m.ID != "" && ids[m.ID]) || names[key] {
			continue
		}
		existing.Materials = append(existing.Materials, m)
		ids[m.ID] = true
		names[key] = true
	}
	return existing
}
