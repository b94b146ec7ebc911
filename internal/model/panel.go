package model

import "strings"

// EdgeBanding marks which edges of a cut board get banding tape. Length edges
// run along the board's long side.
type EdgeBanding struct {
	Length1 bool `json:"length1"` // front edge for carcass boards
	Length2 bool `json:"length2"`
	Width1  bool `json:"width1"`
	Width2  bool `json:"width2"`
}

// HasAny reports whether any edge is banded.
func (e EdgeBanding) HasAny() bool {
	return e.Length1 || e.Length2 || e.Width1 || e.Width2
}

// EdgeCount returns the number of banded edges.
func (e EdgeBanding) EdgeCount() int {
	n := 0
	for _, b := range []bool{e.Length1, e.Length2, e.Width1, e.Width2} {
		if b {
			n++
		}
	}
	return n
}

// LinearLength returns the banding length in mm for a board of the given size.
func (e EdgeBanding) LinearLength(length, width float64) float64 {
	var total float64
	if e.Length1 {
		total += length
	}
	if e.Length2 {
		total += length
	}
	if e.Width1 {
		total += width
	}
	if e.Width2 {
		total += width
	}
	return total
}

func (e EdgeBanding) String() string {
	var parts []string
	if e.Length1 {
		parts = append(parts, "L1")
	}
	if e.Length2 {
		parts = append(parts, "L2")
	}
	if e.Width1 {
		parts = append(parts, "W1")
	}
	if e.Width2 {
		parts = append(parts, "W2")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "+")
}

// Panel is a visible segment as a board to cut: the cut-list view of a Segment.
type Panel struct {
	SegmentID   string      `json:"segment_id"`
	Kind        PanelKind   `json:"kind"`
	Label       string      `json:"label"`
	Length      float64     `json:"length"`    // mm
	Width       float64     `json:"width"`     // mm
	Thickness   float64     `json:"thickness"` // mm
	Material    string      `json:"material"`
	EdgeBanding EdgeBanding `json:"edge_banding"`
}

// Area returns the face area in square mm.
func (p Panel) Area() float64 {
	return p.Length * p.Width
}

// PanelsFromSegments builds the cut list for every segment that is not hidden.
// Carcass boards and separators get their front edge banded; backs get none.
func PanelsFromSegments(segments []Segment, deleted *DeletionSet, materials MaterialSelection) []Panel {
	var panels []Panel
	for _, s := range segments {
		if deleted.Hidden(s) {
			continue
		}
		length, width, thickness := s.CutSize()
		p := Panel{
			SegmentID: s.ID,
			Kind:      s.Kind,
			Label:     panelLabel(s),
			Length:    length,
			Width:     width,
			Thickness: thickness,
			Material:  materials.Structure,
		}
		if s.Kind == PanelBack {
			p.Material = materials.BackMaterial()
		} else {
			p.EdgeBanding = EdgeBanding{Length1: true}
		}
		panels = append(panels, p)
	}
	return panels
}

func panelLabel(s Segment) string {
	switch s.Kind {
	case PanelLeft:
		return "Left side"
	case PanelRight:
		return "Right side"
	case PanelTop:
		return "Top"
	case PanelBottom:
		return "Bottom"
	case PanelBack:
		return "Back"
	case PanelSeparator:
		if s.Orientation == OrientationVertical {
			return "Divider"
		}
		return "Shelf"
	}
	return string(s.Kind)
}
