// Package engine resolves a zone tree into geometry: one grid cell per leaf,
// one separator per boundary between siblings, and the segmented physical
// panels of the carcass. Everything here is a pure function of its inputs;
// renderers, exporters and the pricing engine all consume the same output.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/CaseForge/internal/model"
)

// DefaultTolerance is the distance in mm under which two positions count as
// touching. Ratio rounding leaves sub-millimetre gaps, so exact comparisons
// are never used.
const DefaultTolerance = 0.05

// Options tune the resolve.
type Options struct {
	Tolerance float64
	Logger    *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

func (o Options) tolerance() float64 {
	if o.Tolerance > 0 {
		return o.Tolerance
	}
	return DefaultTolerance
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Frame is one node of the tree with the rectangle it occupies. Containers
// also carry the rectangles of their children, in document order.
type Frame struct {
	Zone     *model.Zone
	Path     model.Path
	Rect     model.Rect
	Children []model.Rect
}

// Walk lays the tree out inside area and calls fn for every node, parents
// before children. At a split with n children the split axis first loses
// (n-1)·t for the separators, then each child gets its ratio of the rest;
// children advance left to right (vertical) or top to bottom (horizontal),
// one thickness apart. A single-child split passes its rectangle through.
//
// The pricing engine walks the tree with this same function so prices never
// drift from geometry.
func Walk(root *model.Zone, area model.Rect, t float64, fn func(Frame)) {
	if root == nil {
		return
	}
	walk(root, nil, area, t, fn)
}

func walk(z *model.Zone, path model.Path, area model.Rect, t float64, fn func(Frame)) {
	if z.IsLeaf() || len(z.Children) == 0 {
		fn(Frame{Zone: z, Path: path, Rect: area})
		return
	}
	rects := childRects(z, area, t)
	fn(Frame{Zone: z, Path: path, Rect: area, Children: rects})
	for i, c := range z.Children {
		walk(c, path.Child(z.Kind, i), rects[i], t, fn)
	}
}

func childRects(z *model.Zone, area model.Rect, t float64) []model.Rect {
	n := len(z.Children)
	rects := make([]model.Rect, n)
	if n == 1 {
		rects[0] = area
		return rects
	}
	ratios := z.Ratios()
	gaps := float64(n-1) * t
	if z.Kind == model.ZoneVertical {
		avail := area.Width - gaps
		cursor := area.Left()
		for i := range rects {
			w := avail * ratios[i] / 100
			if i == n-1 {
				w = area.Right() - cursor
			}
			rects[i] = model.Rect{X: cursor, Y: area.Y, Width: w, Height: area.Height}
			cursor += w + t
		}
		return rects
	}
	avail := area.Height - gaps
	cursor := area.Top()
	for i := range rects {
		h := avail * ratios[i] / 100
		if i == n-1 {
			h = cursor - area.Bottom()
		}
		rects[i] = model.Rect{X: area.X, Y: cursor - h, Width: area.Width, Height: h}
		cursor -= h + t
	}
	return rects
}

// Solve resolves the tree into one grid cell per leaf, in document order.
// area is the content area inside the structural panels and t the board
// thickness. A layout that leaves a leaf without room is rejected.
func Solve(root *model.Zone, area model.Rect, t float64) ([]model.GridCell, error) {
	if !(area.Width > 0) {
		return nil, &model.ValidationError{Field: "content width", Value: area.Width, Reason: "must be positive"}
	}
	if !(area.Height > 0) {
		return nil, &model.ValidationError{Field: "content height", Value: area.Height, Reason: "must be positive"}
	}
	if !(t > 0) {
		return nil, &model.ValidationError{Field: "thickness", Value: t, Reason: "must be positive"}
	}
	var cells []model.GridCell
	var err error
	Walk(root, area, t, func(f Frame) {
		if f.Children != nil || err != nil {
			return
		}
		if !(f.Rect.Width > 0) {
			err = &model.ValidationError{Field: "width", Value: f.Rect.Width, Reason: fmt.Sprintf("leaves no room for zone %s", f.Zone.ID)}
			return
		}
		if !(f.Rect.Height > 0) {
			err = &model.ValidationError{Field: "height", Value: f.Rect.Height, Reason: fmt.Sprintf("leaves no room for zone %s", f.Zone.ID)}
			return
		}
		cells = append(cells, model.NewGridCell(f.Zone.ID, f.Path, f.Rect))
	})
	if err != nil {
		return nil, err
	}
	return cells, nil
}
