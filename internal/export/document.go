// Package export writes a resolved configuration to files: a PDF with the
// front schematic and the quote, QR-coded panel labels, an Excel bill of
// materials, and DXF and SVG schematics.
package export

import (
	"fmt"
	"sort"

	"github.com/piwi3910/CaseForge/internal/engine"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/pricing"
)

// Document is what every exporter reads: one resolved configuration with its
// optional quote.
type Document struct {
	Name      string
	Layout    *engine.Layout
	Tree      *model.Zone
	Deleted   *model.DeletionSet
	Materials model.MaterialSelection
	Quote     *pricing.Quote     // optional
	Money     *pricing.Formatter // optional, amounts fall back to "%.2f CODE"
	Stock     model.StockSheet   // board format the cut plan nests on
}

// NewDocument bundles a configuration with its layout and quote.
func NewDocument(cfg *model.Configuration, layout *engine.Layout, quote *pricing.Quote, money *pricing.Formatter) Document {
	return Document{
		Name:      cfg.Name,
		Layout:    layout,
		Tree:      cfg.Tree(),
		Deleted:   cfg.Deletions(),
		Materials: cfg.MaterialSelection,
		Quote:     quote,
		Money:     money,
		Stock:     model.DefaultStockSheet(),
	}
}

func (d Document) validate() error {
	if d.Layout == nil {
		return fmt.Errorf("no layout to export")
	}
	return nil
}

// Panels returns the cut list of the visible boards.
func (d Document) Panels() []model.Panel {
	if d.Layout == nil {
		return nil
	}
	return d.Layout.Panels(d.Deleted, d.Materials)
}

// CutPlan nests the visible boards on stock sheets.
func (d Document) CutPlan() engine.CutPlan {
	return engine.Nest(d.Panels(), d.Stock)
}

// title returns the name, or a fallback built from the dimensions.
func (d Document) title() string {
	if d.Name != "" {
		return d.Name
	}
	dims := d.Layout.Envelope.Dimensions
	return fmt.Sprintf("Furniture %.0fx%.0fx%.0f", dims.Width, dims.Height, dims.Depth)
}

func (d Document) money(v float64) string {
	if d.Money != nil {
		return d.Money.Format(v)
	}
	code := ""
	if d.Quote != nil {
		code = " " + d.Quote.Currency
	}
	return fmt.Sprintf("%.2f%s", v, code)
}

// Shape is a board projected on the front plane, in mm with y up.
type Shape struct {
	SegmentID string
	Kind      model.PanelKind
	Rect      model.Rect
	Deleted   bool
}

// CellLabel names the content of a leaf at its centre.
type CellLabel struct {
	ZoneID string
	Text   string
	Rect   model.Rect
}

// Scene is the 2D front view shared by the schematic exporters and the
// viewer widget.
type Scene struct {
	Width  float64
	Height float64
	Socle  float64
	Shapes []Shape
	Labels []CellLabel
}

// drawOrder puts backs behind carcass boards and separators on top.
var drawOrder = map[model.PanelKind]int{
	model.PanelBack:      0,
	model.PanelLeft:      1,
	model.PanelRight:     1,
	model.PanelTop:       1,
	model.PanelBottom:    1,
	model.PanelSeparator: 2,
}

// BuildScene projects the layout's segments. Auto-hidden segments are left
// out; deleted ones are kept and flagged so viewers can ghost them.
func BuildScene(layout *engine.Layout, tree *model.Zone, deleted *model.DeletionSet) Scene {
	dims := layout.Envelope.Dimensions
	sc := Scene{Width: dims.Width, Height: dims.Height, Socle: layout.Envelope.Socle.Offset()}
	for _, s := range layout.Segments {
		if s.AutoHidden {
			continue
		}
		sc.Shapes = append(sc.Shapes, Shape{
			SegmentID: s.ID,
			Kind:      s.Kind,
			Rect:      s.Front(),
			Deleted:   deleted.Has(s.ID),
		})
	}
	sort.SliceStable(sc.Shapes, func(i, j int) bool {
		return drawOrder[sc.Shapes[i].Kind] < drawOrder[sc.Shapes[j].Kind]
	})

	leaves := make(map[string]*model.Zone)
	if tree != nil {
		for _, z := range tree.Leaves() {
			leaves[z.ID] = z
		}
	}
	for _, c := range layout.Cells {
		z := leaves[c.ZoneID]
		if z == nil {
			continue
		}
		if text := contentText(z); text != "" {
			sc.Labels = append(sc.Labels, CellLabel{ZoneID: c.ZoneID, Text: text, Rect: c.Rect()})
		}
	}
	return sc
}

// Scene returns the document's front view.
func (d Document) Scene() Scene {
	return BuildScene(d.Layout, d.Tree, d.Deleted)
}

var contentNames = map[model.ContentKind]string{
	model.ContentDrawer:     "Drawer",
	model.ContentPushDrawer: "Push drawer",
	model.ContentShelf:      "Shelf",
	model.ContentGlassShelf: "Glass shelves",
	model.ContentDressing:   "Hanging rail",
	model.ContentPegboard:   "Pegboard",
	model.ContentDoor:       "Door",
	model.ContentDoorRight:  "Door (right)",
	model.ContentDoorDouble: "Double door",
	model.ContentDoorPush:   "Push door",
	model.ContentDoorFlap:   "Flap",
}

func contentText(z *model.Zone) string {
	if z.IsOpenSpace {
		return "Open"
	}
	kind := z.Content.Effective()
	if z.DoorContent.Effective().IsDoor() {
		kind = z.DoorContent.Effective()
	}
	return contentNames[kind]
}

// rgb is a display colour.
type rgb struct {
	R, G, B int
}

// kindColors is shared by the PDF, SVG and viewer renderings.
var kindColors = map[model.PanelKind]rgb{
	model.PanelBack:      {R: 222, G: 205, B: 170},
	model.PanelLeft:      {R: 121, G: 85, B: 72},
	model.PanelRight:     {R: 121, G: 85, B: 72},
	model.PanelTop:       {R: 141, G: 110, B: 99},
	model.PanelBottom:    {R: 141, G: 110, B: 99},
	model.PanelSeparator: {R: 33, G: 150, B: 243},
}

// KindColor returns the display colour of a panel kind as 8-bit RGB.
func KindColor(kind model.PanelKind) (r, g, b uint8) {
	c, ok := kindColors[kind]
	if !ok {
		c = rgb{R: 158, G: 158, B: 158}
	}
	return uint8(c.R), uint8(c.G), uint8(c.B)
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
