package export

import (
	"fmt"

	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names. Boards go on one layer per panel kind so a CAM tool can
// toggle them separately.
const (
	LayerOutline   = "OUTLINE"
	LayerCasing    = "CASING"
	LayerBack      = "BACK"
	LayerSeparator = "SEPARATOR"
	LayerSocle     = "SOCLE"
	LayerText      = "TEXT"
)

var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerOutline, color.White},
	{LayerBack, color.Yellow},
	{LayerCasing, color.Red},
	{LayerSeparator, color.Blue},
	{LayerSocle, color.Cyan},
	{LayerText, color.Green},
}

func dxfLayer(kind model.PanelKind) string {
	switch {
	case kind == model.PanelBack:
		return LayerBack
	case kind == model.PanelSeparator:
		return LayerSeparator
	default:
		return LayerCasing
	}
}

// ExportDXF writes the front schematic to a DXF file in millimetres, origin at
// the bottom-left corner of the envelope. Removed panels are left out.
func ExportDXF(path string, doc Document) error {
	if err := doc.validate(); err != nil {
		return err
	}
	sc := doc.Scene()

	d := dxf.NewDrawing()
	d.Header().LtScale = 1
	for _, l := range dxfLayers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	w := &dxfWriter{d: d}
	w.layer(LayerOutline)
	w.rect(model.Rect{Width: sc.Width, Height: sc.Height})
	if sc.Socle > 0 {
		w.layer(LayerSocle)
		w.rect(model.Rect{Width: sc.Width, Height: sc.Socle})
	}
	for _, s := range sc.Shapes {
		if s.Deleted {
			continue
		}
		w.layer(dxfLayer(s.Kind))
		w.rect(s.Rect)
	}

	w.layer(LayerText)
	for _, l := range sc.Labels {
		w.text(l.Text, l.Rect.X+5, l.Rect.CenterY(), textHeight(l.Rect))
	}
	dims := doc.Layout.Envelope.Dimensions
	w.text(fmt.Sprintf("%.0f mm", dims.Width), sc.Width/2, -40, 25)
	w.text(fmt.Sprintf("%.0f mm", dims.Height), -160, sc.Height/2, 25)

	if w.err != nil {
		return fmt.Errorf("failed to build DXF: %w", w.err)
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

// textHeight scales label text to the cell, between 10 and 40 mm.
func textHeight(r model.Rect) float64 {
	h := r.Height / 8
	if w := r.Width / 12; w < h {
		h = w
	}
	switch {
	case h < 10:
		return 10
	case h > 40:
		return 40
	}
	return h
}

// dxfWriter keeps the first error so drawing code stays linear.
type dxfWriter struct {
	d   *drawing.Drawing
	err error
}

func (w *dxfWriter) layer(name string) {
	if w.err == nil {
		w.err = w.d.ChangeLayer(name)
	}
}

func (w *dxfWriter) rect(r model.Rect) {
	corners := [][2]float64{
		{r.Left(), r.Bottom()},
		{r.Right(), r.Bottom()},
		{r.Right(), r.Top()},
		{r.Left(), r.Top()},
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		if w.err != nil {
			return
		}
		_, w.err = w.d.Line(a[0], a[1], 0, b[0], b[1], 0)
	}
}

func (w *dxfWriter) text(s string, x, y, height float64) {
	if w.err == nil {
		_, w.err = w.d.Text(s, x, y, 0, height)
	}
}
