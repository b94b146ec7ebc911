package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is wrapped by every geometry validation failure.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// ValidationError names the offending field and value.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %g %s", ErrInvalidDimensions, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDimensions
}

// Dimensions are the overall outside dimensions of the furniture in mm.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Validate rejects zero, negative and non-finite dimensions.
func (d Dimensions) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"width", d.Width}, {"height", d.Height}, {"depth", d.Depth}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ValidationError{Field: f.name, Value: f.v, Reason: "is not a finite number"}
		}
		if f.v <= 0 {
			return &ValidationError{Field: f.name, Value: f.v, Reason: "must be positive"}
		}
	}
	return nil
}

// SocleKind is the base under the carcass.
type SocleKind string

const (
	SocleNone      SocleKind = "none"
	SocleMetalFeet SocleKind = "metalFeet"
	SocleWood      SocleKind = "wood"
)

// Socle describes the base. Height is ignored when Kind is SocleNone.
type Socle struct {
	Kind   SocleKind `json:"kind"`
	Height float64   `json:"height"`
}

// Offset returns the height of the socle plane, where the carcass starts.
func (s Socle) Offset() float64 {
	if s.Kind == "" || s.Kind == SocleNone {
		return 0
	}
	return s.Height
}

const (
	DefaultThickness     = 19.0
	DefaultBackThickness = 8.0
)

// Envelope is everything the panel geometry depends on besides the tree.
type Envelope struct {
	Dimensions    Dimensions `json:"dimensions"`
	Thickness     float64    `json:"thickness"`
	BackThickness float64    `json:"backThickness"`
	Socle         Socle      `json:"socle"`
}

// NewEnvelope returns an envelope with default board thicknesses and no socle.
func NewEnvelope(width, height, depth float64) Envelope {
	return Envelope{
		Dimensions:    Dimensions{Width: width, Height: height, Depth: depth},
		Thickness:     DefaultThickness,
		BackThickness: DefaultBackThickness,
		Socle:         Socle{Kind: SocleNone},
	}
}

// Validate checks the dimensions and that the boards leave room for content.
func (e Envelope) Validate() error {
	if err := e.Dimensions.Validate(); err != nil {
		return err
	}
	if e.Thickness <= 0 || math.IsNaN(e.Thickness) {
		return &ValidationError{Field: "thickness", Value: e.Thickness, Reason: "must be positive"}
	}
	if e.BackThickness < 0 || e.BackThickness >= e.Dimensions.Depth || math.IsNaN(e.BackThickness) {
		return &ValidationError{Field: "backThickness", Value: e.BackThickness, Reason: "must be between 0 and the depth"}
	}
	if s := e.Socle.Offset(); s < 0 {
		return &ValidationError{Field: "socle.height", Value: s, Reason: "must not be negative"}
	}
	c := e.ContentRect()
	if c.Width <= 0 {
		return &ValidationError{Field: "width", Value: e.Dimensions.Width, Reason: "leaves no room between the side panels"}
	}
	if c.Height <= 0 {
		return &ValidationError{Field: "height", Value: e.Dimensions.Height, Reason: "leaves no room between socle, bottom and top panels"}
	}
	return nil
}

// ContentRect is the area inside the four structural panels.
func (e Envelope) ContentRect() Rect {
	t := e.Thickness
	s := e.Socle.Offset()
	return RectFromEdges(t, s+t, e.Dimensions.Width-t, e.Dimensions.Height-t)
}

// CarcassDepth is the depth of the structural boards in front of the back panel.
func (e Envelope) CarcassDepth() float64 {
	return e.Dimensions.Depth - e.BackThickness
}
