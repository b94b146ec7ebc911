package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CaseForge/internal/export"
	"github.com/piwi3910/CaseForge/internal/model"
)

var (
	socleColor   = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	outlineColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	ghostColor   = color.NRGBA{R: 200, G: 0, B: 0, A: 255}
	selectColor  = color.NRGBA{R: 255, G: 152, B: 0, A: 255}
)

// Schematic draws the front view of a resolved configuration. It only maps
// scene shapes to canvas rectangles; all geometry comes from the engine.
type Schematic struct {
	widget.BaseWidget
	scene     export.Scene
	selected  string
	maxWidth  float32
	maxHeight float32

	// OnPanelTapped is called with the id of the topmost panel under a tap.
	OnPanelTapped func(segmentID string)
}

// NewSchematic returns a schematic that fits within maxW × maxH.
func NewSchematic(scene export.Scene, maxW, maxH float32) *Schematic {
	s := &Schematic{
		scene:     scene,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	s.ExtendBaseWidget(s)
	return s
}

// SetScene replaces the drawn scene.
func (s *Schematic) SetScene(scene export.Scene) {
	s.scene = scene
	s.Refresh()
}

// Select highlights one panel; an empty id clears the highlight.
func (s *Schematic) Select(segmentID string) {
	s.selected = segmentID
	s.Refresh()
}

// scale maps millimetres to canvas units.
func (s *Schematic) scale() float32 {
	if s.scene.Width <= 0 || s.scene.Height <= 0 {
		return 1
	}
	sx := s.maxWidth / float32(s.scene.Width)
	sy := s.maxHeight / float32(s.scene.Height)
	if sy < sx {
		return sy
	}
	return sx
}

// toCanvas flips y so the drawing stands upright.
func (s *Schematic) toCanvas(r model.Rect) (fyne.Position, fyne.Size) {
	k := s.scale()
	pos := fyne.NewPos(float32(r.X)*k, float32(s.scene.Height-r.Top())*k)
	return pos, fyne.NewSize(float32(r.Width)*k, float32(r.Height)*k)
}

// PanelAt returns the topmost visible panel under a canvas position.
func (s *Schematic) PanelAt(p fyne.Position) (string, bool) {
	k := s.scale()
	x := float64(p.X / k)
	y := s.scene.Height - float64(p.Y/k)
	for i := len(s.scene.Shapes) - 1; i >= 0; i-- {
		r := s.scene.Shapes[i].Rect
		if x >= r.Left() && x <= r.Right() && y >= r.Bottom() && y <= r.Top() {
			return s.scene.Shapes[i].SegmentID, true
		}
	}
	return "", false
}

// Tapped implements fyne.Tappable.
func (s *Schematic) Tapped(ev *fyne.PointEvent) {
	if s.OnPanelTapped == nil {
		return
	}
	if id, ok := s.PanelAt(ev.Position); ok {
		s.OnPanelTapped(id)
	}
}

func (s *Schematic) CreateRenderer() fyne.WidgetRenderer {
	return newSchematicRenderer(s)
}

type schematicRenderer struct {
	s       *Schematic
	objects []fyne.CanvasObject
}

func newSchematicRenderer(s *Schematic) *schematicRenderer {
	r := &schematicRenderer{s: s}
	r.rebuild()
	return r
}

func (r *schematicRenderer) add(o fyne.CanvasObject, pos fyne.Position, size fyne.Size) {
	o.Resize(size)
	o.Move(pos)
	r.objects = append(r.objects, o)
}

func (r *schematicRenderer) rebuild() {
	r.objects = nil
	sc := r.s.scene
	k := r.s.scale()

	if sc.Socle > 0 {
		pos, size := r.s.toCanvas(model.Rect{Width: sc.Width, Height: sc.Socle})
		r.add(canvas.NewRectangle(socleColor), pos, size)
	}

	for _, shape := range sc.Shapes {
		pos, size := r.s.toCanvas(shape.Rect)
		if shape.Deleted {
			ghost := canvas.NewRectangle(color.Transparent)
			ghost.StrokeColor = ghostColor
			ghost.StrokeWidth = 1
			r.add(ghost, pos, size)
			continue
		}
		cr, cg, cb := export.KindColor(shape.Kind)
		r.add(canvas.NewRectangle(color.NRGBA{R: cr, G: cg, B: cb, A: 230}), pos, size)

		border := canvas.NewRectangle(color.Transparent)
		border.StrokeColor = outlineColor
		border.StrokeWidth = 1
		if shape.SegmentID == r.s.selected {
			border.StrokeColor = selectColor
			border.StrokeWidth = 3
		}
		r.add(border, pos, size)
	}

	for _, l := range sc.Labels {
		pos, size := r.s.toCanvas(l.Rect)
		if size.Width < 40 || size.Height < 16 {
			continue
		}
		text := canvas.NewText(l.Text, color.Black)
		text.TextSize = 10
		text.Move(fyne.NewPos(pos.X+3, pos.Y+size.Height/2-7))
		r.objects = append(r.objects, text)
	}

	dims := canvas.NewText(fmt.Sprintf("%.0f × %.0f mm", sc.Width, sc.Height), color.NRGBA{R: 80, G: 80, B: 80, A: 255})
	dims.TextSize = 10
	dims.Move(fyne.NewPos(0, float32(sc.Height)*k+4))
	r.objects = append(r.objects, dims)
}

func (r *schematicRenderer) Layout(size fyne.Size)        {}
func (r *schematicRenderer) Refresh()                     { r.rebuild() }
func (r *schematicRenderer) Destroy()                     {}
func (r *schematicRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *schematicRenderer) MinSize() fyne.Size {
	k := r.s.scale()
	return fyne.NewSize(float32(r.s.scene.Width)*k, float32(r.s.scene.Height)*k+18)
}
