package model

import (
	"time"

	"github.com/google/uuid"
)

// ConfigurationTemplate is a reusable furniture layout: dimensions, zone tree,
// deletions and materials, without identity.
type ConfigurationTemplate struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	Configuration Configuration `json:"configuration"`
}

// NewConfigurationTemplate captures cfg as a template. The tree is deep-copied
// so later edits to cfg do not leak into the template.
func NewConfigurationTemplate(name, description string, cfg Configuration) ConfigurationTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	snapshot := cfg
	snapshot.ID = ""
	snapshot.CreatedAt = ""
	snapshot.UpdatedAt = ""
	snapshot.ZoneTree = cfg.Tree().Clone()
	snapshot.DeletedPanelIDs = cfg.DeletedPanelIDs.Clone()
	if cfg.GlobalDoors != nil {
		gd := *cfg.GlobalDoors
		snapshot.GlobalDoors = &gd
	}
	return ConfigurationTemplate{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Description:   description,
		CreatedAt:     now,
		UpdatedAt:     now,
		Configuration: snapshot,
	}
}

// ToConfiguration creates a new, independent configuration from this template.
func (t ConfigurationTemplate) ToConfiguration(name string) Configuration {
	cfg := NewConfiguration(name, t.Configuration.Dimensions)
	src := t.Configuration
	cfg.Thickness = src.Thickness
	cfg.BackThickness = src.BackThickness
	cfg.Socle = src.Socle
	cfg.MaterialSelection = src.MaterialSelection
	cfg.ZoneTree = src.Tree().Clone()
	cfg.DeletedPanelIDs = src.DeletedPanelIDs.Clone()
	if src.GlobalDoors != nil {
		gd := *src.GlobalDoors
		cfg.GlobalDoors = &gd
	}
	return cfg
}

// TemplateStore holds a collection of configuration templates.
type TemplateStore struct {
	Templates []ConfigurationTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ConfigurationTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t ConfigurationTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ConfigurationTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ConfigurationTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
