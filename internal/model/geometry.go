package model

import "fmt"

// Rect is an axis-aligned rectangle in the front plane, in mm, with y up.
type Rect struct {
	X      float64 `json:"x"` // left edge
	Y      float64 `json:"y"` // bottom edge
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromEdges builds a rectangle from its four edges.
func RectFromEdges(left, bottom, right, top float64) Rect {
	return Rect{X: left, Y: bottom, Width: right - left, Height: top - bottom}
}

func (r Rect) Left() float64    { return r.X }
func (r Rect) Right() float64   { return r.X + r.Width }
func (r Rect) Bottom() float64  { return r.Y }
func (r Rect) Top() float64     { return r.Y + r.Height }
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Area returns the rectangle area in square mm.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Vec3 is a point or an extent in mm.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GridCell is the resolved rectangle of one leaf.
type GridCell struct {
	ZoneID  string `json:"zoneId"`
	Path    Path   `json:"path"`
	ColPath []int  `json:"colPath"`
	RowPath []int  `json:"rowPath"`

	X      float64 `json:"x"` // centre
	Y      float64 `json:"y"` // centre
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewGridCell builds a cell for the leaf at path occupying r.
func NewGridCell(zoneID string, path Path, r Rect) GridCell {
	return GridCell{
		ZoneID:  zoneID,
		Path:    path,
		ColPath: path.Columns(),
		RowPath: path.Rows(),
		X:       r.CenterX(),
		Y:       r.CenterY(),
		Width:   r.Width,
		Height:  r.Height,
	}
}

func (c GridCell) Left() float64   { return c.X - c.Width/2 }
func (c GridCell) Right() float64  { return c.X + c.Width/2 }
func (c GridCell) Bottom() float64 { return c.Y - c.Height/2 }
func (c GridCell) Top() float64    { return c.Y + c.Height/2 }

// Rect returns the cell as an edge-based rectangle.
func (c GridCell) Rect() Rect {
	return Rect{X: c.Left(), Y: c.Bottom(), Width: c.Width, Height: c.Height}
}

// Orientation of a separator board.
type Orientation string

const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// Separator is the nominal dividing board between two consecutive children of
// a split node, before segmentation.
type Separator struct {
	Key         BoundaryKey `json:"key"`
	ZoneID      string      `json:"zoneId"` // the split node
	Orientation Orientation `json:"orientation"`
	Rect        Rect        `json:"rect"`
	// Cuts are the perpendicular boundaries that meet the board from either
	// side. Boundaries that line up for every envelope share one cut.
	Cuts []Cut `json:"cuts,omitempty"`
	// AutoHidden is set on the boards of a horizontal split whose every row
	// is a drawer leaf; no shelf is fitted between stacked drawer fronts.
	AutoHidden bool `json:"autoHidden,omitempty"`
}

// Cut is where a perpendicular boundary meets a separator: At is the
// boundary's midline along the separator's axis.
type Cut struct {
	Key BoundaryKey `json:"key"`
	At  float64     `json:"at"`
}

// PanelKind classifies a physical board.
type PanelKind string

const (
	PanelLeft      PanelKind = "left"
	PanelRight     PanelKind = "right"
	PanelTop       PanelKind = "top"
	PanelBottom    PanelKind = "bottom"
	PanelBack      PanelKind = "back"
	PanelSeparator PanelKind = "separator"
)

// IsCasing reports whether k is one of the four outer structural boards.
func (k PanelKind) IsCasing() bool {
	switch k {
	case PanelLeft, PanelRight, PanelTop, PanelBottom:
		return true
	}
	return false
}

// Segment is one selectable, priced and rendered board.
type Segment struct {
	ID          string      `json:"id"`
	Kind        PanelKind   `json:"kind"`
	Orientation Orientation `json:"orientation,omitempty"`
	Position    Vec3        `json:"position"` // centre
	Size        Vec3        `json:"size"`     // width (x), height (y), depth (z)
	ZoneID      string      `json:"zoneId,omitempty"`
	AutoHidden  bool        `json:"autoHidden,omitempty"`
}

// Front returns the segment projected on the front plane.
func (s Segment) Front() Rect {
	return Rect{
		X:      s.Position.X - s.Size.X/2,
		Y:      s.Position.Y - s.Size.Y/2,
		Width:  s.Size.X,
		Height: s.Size.Y,
	}
}

// FaceArea returns the area of the board's large face in square metres.
func (s Segment) FaceArea() float64 {
	length, width, _ := s.CutSize()
	return length * width / 1e6
}

// CutSize returns the board dimensions as cut from stock: the two large
// dimensions, longest first, and the thickness.
func (s Segment) CutSize() (length, width, thickness float64) {
	dims := []float64{s.Size.X, s.Size.Y, s.Size.Z}
	// smallest extent is the thickness
	ti := 0
	for i := 1; i < 3; i++ {
		if dims[i] < dims[ti] {
			ti = i
		}
	}
	thickness = dims[ti]
	var rest []float64
	for i, d := range dims {
		if i != ti {
			rest = append(rest, d)
		}
	}
	length, width = rest[0], rest[1]
	if width > length {
		length, width = width, length
	}
	return length, width, thickness
}

// Panel identifiers. They are pure functions of kind, structural path and
// segment index.

func BorderSegmentID(kind PanelKind, index int) string {
	return fmt.Sprintf("panel-%s-s%d", kind, index)
}

func BackSegmentID(colPath, rowPath []int) string {
	return fmt.Sprintf("panel-back-c%s-r%s", JoinIndices(colPath), JoinIndices(rowPath))
}

func SeparatorSegmentID(key BoundaryKey, index int) string {
	return fmt.Sprintf("panel-sep-%s-s%d", key.String(), index)
}
