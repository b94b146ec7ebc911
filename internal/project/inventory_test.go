package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CaseForge/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path := DefaultInventoryPath()
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	dir := filepath.Base(filepath.Dir(path))
	if dir != ".caseforge" {
		t.Errorf("expected parent dir .caseforge, got %s", dir)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test_inventory.json")

	inv := model.Inventory{
		Materials: []model.Material{
			model.NewMaterial("Smoked Oak", 95, 260, "#6b4f3a"),
		},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("inventory file was not created")
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}

	if len(loaded.Materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(loaded.Materials))
	}
	m := loaded.Materials[0]
	if m.Name != "Smoked Oak" {
		t.Errorf("expected material name 'Smoked Oak', got %q", m.Name)
	}
	if m.PricePerM2 != 95 || m.SampleRate != 260 {
		t.Errorf("expected prices 95/260, got %f/%f", m.PricePerM2, m.SampleRate)
	}
	if m.ID != inv.Materials[0].ID {
		t.Errorf("expected ID %s to survive, got %s", inv.Materials[0].ID, m.ID)
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nonexistent", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}

	if inv.FindByName(model.DefaultMaterialName) == nil {
		t.Errorf("expected default material %q", model.DefaultMaterialName)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("expected default inventory file to be created")
	}
}

func TestLoadInventoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[[["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportInventory(t *testing.T) {
	tmpDir := t.TempDir()

	existing := model.Inventory{
		Materials: []model.Material{
			{ID: "mat-001", Name: "White Melamine", PricePerM2: 42},
		},
	}

	imported := model.Inventory{
		Materials: []model.Material{
			{ID: "mat-001", Name: "Renamed", PricePerM2: 50},        // same ID, skipped
			{ID: "mat-009", Name: "white melamine", PricePerM2: 41}, // same name, skipped
			{ID: "mat-002", Name: "Oak Veneer", PricePerM2: 88},     // new
		},
	}

	importPath := filepath.Join(tmpDir, "import.json")
	data, _ := json.MarshalIndent(imported, "", "  ")
	if err := os.WriteFile(importPath, data, 0644); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	merged, err := ImportInventory(importPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}

	if len(merged.Materials) != 2 {
		t.Fatalf("expected 2 materials after merge, got %d", len(merged.Materials))
	}
	if merged.Materials[0].PricePerM2 != 42 {
		t.Errorf("existing material must not be overwritten, got %f", merged.Materials[0].PricePerM2)
	}
	if merged.Materials[1].Name != "Oak Veneer" {
		t.Errorf("expected 'Oak Veneer' appended, got %q", merged.Materials[1].Name)
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	got, err := ImportInventory(filepath.Join(t.TempDir(), "missing.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(got.Materials) != len(existing.Materials) {
		t.Error("existing inventory should be returned unchanged")
	}
}
