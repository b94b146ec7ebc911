package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"
	"github.com/piwi3910/CaseForge/internal/model"
)

// svgMargin leaves room for the dimension annotations, in SVG units.
const svgMargin = 60

// RenderSVG draws the front schematic as SVG. One SVG unit is one
// millimetre; the y axis is flipped so the drawing stands upright.
func RenderSVG(doc Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	sc := doc.Scene()

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	width := mm(sc.Width) + 2*svgMargin
	height := mm(sc.Height) + 2*svgMargin
	canvas.Start(width, height)
	canvas.Title(doc.title())

	// toSVG maps a front-plane rectangle (y up) to canvas coordinates (y down).
	toSVG := func(r model.Rect) (x, y, w, h int) {
		return svgMargin + mm(r.X), svgMargin + mm(sc.Height-r.Top()), mm(r.Width), mm(r.Height)
	}

	if sc.Socle > 0 {
		x, y, w, h := toSVG(model.Rect{Width: sc.Width, Height: sc.Socle})
		canvas.Rect(x, y, w, h, "fill:#eeeeee;stroke:#777777;stroke-width:1;stroke-dasharray:6,3")
	}

	for _, s := range sc.Shapes {
		x, y, w, h := toSVG(s.Rect)
		canvas.Gid(s.SegmentID)
		if s.Deleted {
			canvas.Rect(x, y, w, h, "fill:none;stroke:#c80000;stroke-width:1;stroke-dasharray:4,4")
		} else {
			canvas.Rect(x, y, w, h, fmt.Sprintf("fill:%s;stroke:#1e1e1e;stroke-width:1", kindColors[s.Kind].hex()))
		}
		canvas.Gend()
	}

	for _, l := range sc.Labels {
		x, y, w, h := toSVG(l.Rect)
		size := int(math.Max(10, math.Min(40, textHeight(l.Rect))))
		canvas.Text(x+w/2, y+h/2, l.Text, fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:#333333", size))
	}

	dims := doc.Layout.Envelope.Dimensions
	left, top := svgMargin, svgMargin
	right, bottom := svgMargin+mm(sc.Width), svgMargin+mm(sc.Height)
	style := "stroke:#333333;stroke-width:1"
	canvas.Line(left, bottom+20, right, bottom+20, style)
	canvas.Line(left, bottom+14, left, bottom+26, style)
	canvas.Line(right, bottom+14, right, bottom+26, style)
	canvas.Text((left+right)/2, bottom+45, fmt.Sprintf("%.0f mm", dims.Width), "text-anchor:middle;font-size:18px;fill:#333333")

	canvas.Line(left-20, top, left-20, bottom, style)
	canvas.Line(left-26, top, left-14, top, style)
	canvas.Line(left-26, bottom, left-14, bottom, style)
	canvas.Gtransform(fmt.Sprintf("rotate(-90 %d %d)", left-30, (top+bottom)/2))
	canvas.Text(left-30, (top+bottom)/2, fmt.Sprintf("%.0f mm", dims.Height), "text-anchor:middle;font-size:18px;fill:#333333")
	canvas.Gend()

	canvas.End()
	return buf.Bytes(), nil
}

// ExportSVG writes the front schematic to an SVG file.
func ExportSVG(path string, doc Document) error {
	data, err := RenderSVG(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}

func mm(v float64) int {
	return int(math.Round(v))
}
