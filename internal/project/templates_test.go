package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/CaseForge/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")

	cfg := model.NewConfiguration("Cabinet", model.Dimensions{Width: 800, Height: 900, Depth: 500})
	cfg.ZoneTree = &model.Zone{
		ID:          model.RootID,
		Kind:        model.ZoneHorizontal,
		SplitRatios: []float64{50, 50},
		Children:    []*model.Zone{model.NewLeaf("root-0"), model.NewLeaf("root-1")},
	}

	store := model.NewTemplateStore()
	store.Add(model.NewConfigurationTemplate("Cabinet", "Standard cabinet", cfg))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}

	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	if loaded.Templates[0].Name != "Cabinet" {
		t.Errorf("expected 'Cabinet', got %q", loaded.Templates[0].Name)
	}
	if n := len(loaded.Templates[0].Configuration.Tree().Leaves()); n != 2 {
		t.Errorf("expected 2 leaves, got %d", n)
	}
}

func TestLoadTemplates_NotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.json")

	store, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %d templates", len(store.Templates))
	}
}

func TestSaveAndLoadTemplates_Multiple(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")

	dims := model.Dimensions{Width: 600, Height: 600, Depth: 300}
	store := model.NewTemplateStore()
	store.Add(model.NewConfigurationTemplate("T1", "First", model.NewConfiguration("a", dims)))
	store.Add(model.NewConfigurationTemplate("T2", "Second", model.NewConfiguration("b", dims)))
	store.Add(model.NewConfigurationTemplate("T3", "Third", model.NewConfiguration("c", dims)))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(loaded.Templates))
	}
}
