package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/pricing"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Inventory model.Inventory     `json:"inventory"`
	Templates model.TemplateStore `json:"templates"`
	Rates     *pricing.RateTable  `json:"rates,omitempty"`
}

// ExportAllData writes the app config, material inventory, templates and
// (optionally) the rate table to a single JSON file.
func ExportAllData(exportPath string, backup BackupData) error {
	backup.Version = BackupVersion
	backup.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported values.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentConfigurations == nil {
		backup.Config.RecentConfigurations = []string{}
	}
	if backup.Inventory.Materials == nil {
		backup.Inventory.Materials = []model.Material{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.ConfigurationTemplate{}
	}
	if backup.Rates != nil {
		if err := backup.Rates.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
		}
	}
	return backup, nil
}
