package model

import (
	"time"

	"github.com/google/uuid"
)

// MaterialSelection names the catalogue materials used for each part of the
// furniture. Back and Facade are only honoured in multi-colour mode.
type MaterialSelection struct {
	Structure  string `json:"structure"`
	Back       string `json:"back,omitempty"`
	Facade     string `json:"facade,omitempty"`
	MultiColor bool   `json:"multiColor,omitempty"`
}

// BackMaterial returns the material of the back panel.
func (m MaterialSelection) BackMaterial() string {
	if m.MultiColor && m.Back != "" {
		return m.Back
	}
	return m.Structure
}

// FacadeMaterial returns the material of doors and drawer fronts.
func (m MaterialSelection) FacadeMaterial() string {
	if m.MultiColor && m.Facade != "" {
		return m.Facade
	}
	return m.Structure
}

// GlobalDoors are fronts covering the whole envelope rather than one zone.
type GlobalDoors struct {
	Content ContentKind `json:"content"`
	Count   int         `json:"count"`
}

// Configuration is the persisted snapshot of one piece of furniture.
type Configuration struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Dimensions        Dimensions        `json:"dimensions"`
	Thickness         float64           `json:"thickness,omitempty"`
	BackThickness     float64           `json:"backThickness,omitempty"`
	Socle             Socle             `json:"socle"`
	ZoneTree          *Zone             `json:"zoneTree"`
	DeletedPanelIDs   *DeletionSet      `json:"deletedPanelIds"`
	MaterialSelection MaterialSelection `json:"materialSelection"`
	GlobalDoors       *GlobalDoors      `json:"globalDoors,omitempty"`
	CreatedAt         string            `json:"createdAt,omitempty"`
	UpdatedAt         string            `json:"updatedAt,omitempty"`
}

// NewConfiguration returns a configuration with a single empty zone.
func NewConfiguration(name string, dims Dimensions) Configuration {
	now := time.Now().UTC().Format(time.RFC3339)
	return Configuration{
		ID:                uuid.New().String()[:8],
		Name:              name,
		Dimensions:        dims,
		Thickness:         DefaultThickness,
		BackThickness:     DefaultBackThickness,
		Socle:             Socle{Kind: SocleNone},
		ZoneTree:          NewTree(),
		DeletedPanelIDs:   NewDeletionSet(),
		MaterialSelection: MaterialSelection{Structure: DefaultMaterialName},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Envelope returns the geometry inputs, filling default thicknesses.
func (c Configuration) Envelope() Envelope {
	e := Envelope{
		Dimensions:    c.Dimensions,
		Thickness:     c.Thickness,
		BackThickness: c.BackThickness,
		Socle:         c.Socle,
	}
	if e.Thickness == 0 {
		e.Thickness = DefaultThickness
	}
	if e.BackThickness == 0 {
		e.BackThickness = DefaultBackThickness
	}
	if e.Socle.Kind == "" {
		e.Socle.Kind = SocleNone
	}
	return e
}

// Tree returns the zone tree, or the default single leaf when none is stored.
func (c Configuration) Tree() *Zone {
	if c.ZoneTree == nil {
		return NewTree()
	}
	return c.ZoneTree
}

// Deletions returns the deletion set, never nil.
func (c *Configuration) Deletions() *DeletionSet {
	if c.DeletedPanelIDs == nil {
		c.DeletedPanelIDs = NewDeletionSet()
	}
	return c.DeletedPanelIDs
}

// Touch updates the modification timestamp.
func (c *Configuration) Touch() {
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
