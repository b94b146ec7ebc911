package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/pricing"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0
)

// EdgeBandingWaste is the waste percentage added to edge banding totals.
const EdgeBandingWaste = 10.0

// ExportPDF writes the front schematic, the quote (when the document has
// one) and the cut list to a PDF file.
func ExportPDF(path string, doc Document) error {
	if err := doc.validate(); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	renderSchematicPage(pdf, doc, tr)

	if doc.Quote != nil {
		pdf.AddPage()
		renderQuotePage(pdf, doc, tr)
	}

	pdf.AddPage()
	renderCutListPage(pdf, doc, tr)

	return pdf.OutputFileAndClose(path)
}

// renderSchematicPage draws the front view of the furniture on the current page.
func renderSchematicPage(pdf *fpdf.Fpdf, doc Document, tr func(string) string) {
	sc := doc.Scene()
	dims := doc.Layout.Envelope.Dimensions

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%.0f x %.0f x %.0f mm)", doc.title(), dims.Width, dims.Height, dims.Depth)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")

	panels := doc.Panels()
	var area float64
	for _, p := range panels {
		area += p.Area()
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Panels: %d | Board area: %.2f m2 | Zones: %d", len(panels), area/1e6, len(doc.Layout.Cells))
	if doc.Quote != nil {
		stats += " | Total: " + doc.money(doc.Quote.Total)
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, tr(stats), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/sc.Width, drawHeight/sc.Height)
	canvasW := sc.Width * scale
	canvasH := sc.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// toPage maps a front-plane rectangle (y up) to page coordinates (y down).
	toPage := func(r model.Rect) (x, y, w, h float64) {
		return offsetX + r.X*scale, offsetY + (sc.Height-r.Top())*scale, r.Width * scale, r.Height * scale
	}

	if sc.Socle > 0 {
		x, y, w, h := toPage(model.Rect{Width: sc.Width, Height: sc.Socle})
		pdf.SetFillColor(235, 235, 235)
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.3)
		pdf.Rect(x, y, w, h, "FD")
		drawHatchPattern(pdf, x, y, w, h)
	}

	for _, s := range sc.Shapes {
		x, y, w, h := toPage(s.Rect)
		if s.Deleted {
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.2)
			pdf.SetDashPattern([]float64{1, 1}, 0)
			pdf.Rect(x, y, w, h, "D")
			pdf.SetDashPattern([]float64{}, 0)
			continue
		}
		col := kindColors[s.Kind]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, y, w, h, "FD")
	}

	pdf.SetTextColor(0, 0, 0)
	for _, l := range sc.Labels {
		x, y, w, h := toPage(l.Rect)
		if w < 12 || h < 6 {
			continue
		}
		pdf.SetFont("Helvetica", "", labelFontSize(w, h))
		text := tr(l.Text)
		tw := pdf.GetStringWidth(text)
		if tw > w-2 {
			continue
		}
		pdf.SetXY(x+(w-tw)/2, y+h/2-2)
		pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")

		dimText := fmt.Sprintf("%.0fx%.0f", l.Rect.Width, l.Rect.Height)
		dw := pdf.GetStringWidth(dimText)
		if h > 12 && dw < w-2 {
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetXY(x+(w-pdf.GetStringWidth(dimText))/2, y+h/2+2)
			pdf.CellFormat(pdf.GetStringWidth(dimText), 3, dimText, "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, dims, offsetX, offsetY, canvasW, canvasH)
	drawKindLegend(pdf, sc, offsetY+canvasH+7)
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the overall width below and the height to
// the left of the drawing.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, dims model.Dimensions, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", dims.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", dims.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawKindLegend renders one colour swatch per panel kind present.
func drawKindLegend(pdf *fpdf.Fpdf, sc Scene, startY float64) {
	counts := make(map[model.PanelKind]int)
	deleted := 0
	for _, s := range sc.Shapes {
		if s.Deleted {
			deleted++
			continue
		}
		counts[s.Kind]++
	}
	if len(counts) == 0 && deleted == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Panels:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	kinds := []model.PanelKind{model.PanelLeft, model.PanelRight, model.PanelTop, model.PanelBottom, model.PanelBack, model.PanelSeparator}
	for _, k := range kinds {
		n := counts[k]
		if n == 0 {
			continue
		}
		col := kindColors[k]
		label := fmt.Sprintf("%s (%d)", k, n)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		w := pdf.GetStringWidth(label) + 2
		pdf.CellFormat(w, 4, label, "", 0, "L", false, 0, "")
		xPos += w + 8
	}
	if deleted > 0 {
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(xPos, startY)
		pdf.CellFormat(40, 4, fmt.Sprintf("removed (%d)", deleted), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

// tableCursor writes rows and starts a new page when the current one is full.
type tableCursor struct {
	pdf     *fpdf.Fpdf
	y       float64
	widths  []float64
	aligns  []string
	headers []string
}

func (c *tableCursor) header() {
	c.pdf.SetFont("Helvetica", "B", 9)
	c.pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range c.headers {
		c.pdf.SetXY(x, c.y)
		c.pdf.CellFormat(c.widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		x += c.widths[i]
	}
	c.y += rowHeight
	c.pdf.SetFont("Helvetica", "", 9)
}

func (c *tableCursor) row(i int, cells ...string) {
	if c.y+rowHeight > pageHeight-marginBottom-5 {
		c.pdf.AddPage()
		c.y = marginTop
		c.header()
	}
	if i%2 == 0 {
		c.pdf.SetFillColor(245, 245, 245)
	} else {
		c.pdf.SetFillColor(255, 255, 255)
	}
	x := marginLeft
	for j, cell := range cells {
		c.pdf.SetXY(x, c.y)
		c.pdf.CellFormat(c.widths[j], rowHeight, cell, "1", 0, c.aligns[j], true, 0, "")
		x += c.widths[j]
	}
	c.y += rowHeight
}

func sectionTitle(pdf *fpdf.Fpdf, y float64, text string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(150, 7, text, "", 0, "L", false, 0, "")
	return y + 9
}

var componentNames = []struct {
	c    pricing.Component
	name string
}{
	{pricing.ComponentCasing, "Casing"},
	{pricing.ComponentBack, "Back"},
	{pricing.ComponentSocle, "Socle"},
	{pricing.ComponentSeparators, "Separators"},
	{pricing.ComponentDoors, "Doors"},
	{pricing.ComponentEquipment, "Equipment"},
}

func componentAmount(b pricing.Breakdown, c pricing.Component) float64 {
	switch c {
	case pricing.ComponentCasing:
		return b.Casing
	case pricing.ComponentBack:
		return b.Back
	case pricing.ComponentSocle:
		return b.Socle
	case pricing.ComponentSeparators:
		return b.Separators
	case pricing.ComponentDoors:
		return b.Doors
	case pricing.ComponentEquipment:
		return b.Equipment
	}
	return 0
}

// renderQuotePage draws the price breakdown and the itemized lines.
func renderQuotePage(pdf *fpdf.Fpdf, doc Document, tr func(string) string) {
	q := doc.Quote

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, tr("Quote: "+doc.title()), "", 0, "L", false, 0, "")
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := sectionTitle(pdf, marginTop+18, "Breakdown")
	pdf.SetFont("Helvetica", "", 10)
	for _, cn := range componentNames {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, cn.name+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(doc.money(componentAmount(q.Breakdown, cn.c))), "", 0, "R", false, 0, "")
		y += 6
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft+5, y+1)
	pdf.CellFormat(60, 7, "Total:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, tr(doc.money(q.Total)), "T", 0, "R", false, 0, "")
	y += 12

	if len(q.Anomalies) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: amounts priced as zero", "", 0, "L", false, 0, "")
		y += 8
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, a := range q.Anomalies {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, tr(fmt.Sprintf("- %s %s: %s (%s)", a.Component, a.ZoneID, a.Label, a.Detail)), "", 0, "L", false, 0, "")
			y += 5
		}
		y += 4
	}

	y = sectionTitle(pdf, y, "Lines")
	cur := &tableCursor{
		pdf:     pdf,
		y:       y,
		widths:  []float64{35, 45, 60, 87, 40},
		aligns:  []string{"L", "L", "L", "L", "R"},
		headers: []string{"Component", "Zone", "Panel", "Item", "Amount"},
	}
	cur.header()
	for i, l := range q.Lines {
		cur.row(i, string(l.Component), l.ZoneID, l.SegmentID, tr(l.Label), tr(doc.money(l.Amount)))
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CaseForge", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderCutListPage draws the panel list and the edge banding summary.
func renderCutListPage(pdf *fpdf.Fpdf, doc Document, tr func(string) string) {
	panels := doc.Panels()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, tr("Cut list: "+doc.title()), "", 0, "L", false, 0, "")

	cur := &tableCursor{
		pdf:     pdf,
		y:       marginTop + 14,
		widths:  []float64{62, 30, 30, 30, 25, 60, 30},
		aligns:  []string{"L", "L", "R", "R", "R", "L", "C"},
		headers: []string{"Panel", "Part", "Length", "Width", "Thick.", "Material", "Banding"},
	}
	cur.header()
	for i, p := range panels {
		cur.row(i,
			p.SegmentID,
			p.Label,
			fmt.Sprintf("%.1f", p.Length),
			fmt.Sprintf("%.1f", p.Width),
			fmt.Sprintf("%.0f", p.Thickness),
			tr(p.Material),
			p.EdgeBanding.String(),
		)
	}

	eb := model.CalculateEdgeBanding(panels, EdgeBandingWaste)
	y := cur.y + 8
	if y > pageHeight-marginBottom-30 {
		pdf.AddPage()
		y = marginTop
	}
	y = sectionTitle(pdf, y, "Edge banding")
	items := []struct {
		label string
		value string
	}{
		{"Banded panels", fmt.Sprintf("%d", eb.PanelCount)},
		{"Banded edges", fmt.Sprintf("%d", eb.EdgeCount)},
		{"Length", fmt.Sprintf("%.2f m", eb.TotalLinearM)},
		{fmt.Sprintf("With %.0f%% waste", eb.WastePercent), fmt.Sprintf("%.2f m", eb.TotalWithWasteM)},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
