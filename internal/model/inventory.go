package model

import "github.com/google/uuid"

// DefaultMaterialName is the structure material of new configurations.
const DefaultMaterialName = "White Melamine"

// Material is a board material with its prices.
type Material struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	PricePerM2 float64 `json:"price_per_m2" yaml:"price_per_m2"` // carcass board, €/m²
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`   // facade finish, €/m²
	Color      string  `json:"color" yaml:"color"`               // hex, e.g. "#f4f4f0"
}

// NewMaterial creates a Material with a generated ID.
func NewMaterial(name string, pricePerM2, sampleRate float64, color string) Material {
	return Material{
		ID:         uuid.New().String()[:8],
		Name:       name,
		PricePerM2: pricePerM2,
		SampleRate: sampleRate,
		Color:      color,
	}
}

// Inventory holds the user's saved materials.
type Inventory struct {
	Materials []Material `json:"materials"`
}

// DefaultInventory returns an inventory populated with common board finishes.
func DefaultInventory() Inventory {
	return Inventory{
		Materials: []Material{
			NewMaterial(DefaultMaterialName, 42, 150, "#f4f4f0"),
			NewMaterial("Black Melamine", 46, 160, "#1e1e1e"),
			NewMaterial("Oak Veneer", 88, 240, "#c8a165"),
			NewMaterial("Walnut Veneer", 112, 290, "#5d4037"),
			NewMaterial("Raw MDF", 30, 120, "#b89b72"),
			NewMaterial("Birch Plywood", 64, 190, "#e3c9a0"),
		},
	}
}

// FindByID returns a pointer to the material with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *Material {
	for i := range inv.Materials {
		if inv.Materials[i].ID == id {
			return &inv.Materials[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first material with the given name, or nil.
func (inv *Inventory) FindByName(name string) *Material {
	for i := range inv.Materials {
		if inv.Materials[i].Name == name {
			return &inv.Materials[i]
		}
	}
	return nil
}

// Names returns the material names for UI dropdowns.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.Materials))
	for i, m := range inv.Materials {
		names[i] = m.Name
	}
	return names
}

// Upsert replaces the material with the same name or appends it.
func (inv *Inventory) Upsert(m Material) {
	if existing := inv.FindByName(m.Name); existing != nil {
		id := existing.ID
		*existing = m
		if existing.ID == "" {
			existing.ID = id
		}
		return
	}
	if m.ID == "" {
		m.ID = uuid.New().String()[:8]
	}
	inv.Materials = append(inv.Materials, m)
}

// Remove deletes the material with the given ID. Returns true if found.
func (inv *Inventory) Remove(id string) bool {
	for i, m := range inv.Materials {
		if m.ID == id {
			inv.Materials = append(inv.Materials[:i], inv.Materials[i+1:]...)
			return true
		}
	}
	return false
}
