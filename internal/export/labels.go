package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each panel label's QR code.
type LabelInfo struct {
	Configuration string  `json:"configuration"`
	SegmentID     string  `json:"panel"`
	Part          string  `json:"part"`
	Length        float64 `json:"length_mm"`
	Width         float64 `json:"width_mm"`
	Thickness     float64 `json:"thickness_mm"`
	Material      string  `json:"material"`
	EdgeBanding   string  `json:"edge_banding"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos returns one label per visible panel, in cut-list order.
func CollectLabelInfos(doc Document) []LabelInfo {
	var labels []LabelInfo
	for _, p := range doc.Panels() {
		labels = append(labels, LabelInfo{
			Configuration: doc.Name,
			SegmentID:     p.SegmentID,
			Part:          p.Label,
			Length:        p.Length,
			Width:         p.Width,
			Thickness:     p.Thickness,
			Material:      p.Material,
			EdgeBanding:   p.EdgeBanding.String(),
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per visible panel.
// Each label shows the part name, cut size and panel id, and its QR code
// encodes the LabelInfo as JSON. Labels are laid out on a standard label
// sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, doc Document) error {
	if err := doc.validate(); err != nil {
		return err
	}
	labels := CollectLabelInfos(doc)
	if len(labels) == 0 {
		return fmt.Errorf("no visible panels to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label, tr); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.SegmentID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo, tr func(string) string) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Segment ids are unique within a layout.
	imgName := "qr_" + info.SegmentID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, tr(info.Part), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f mm", info.Length, info.Width, info.Thickness)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+8.5)
	pdf.CellFormat(textW, 3, truncate(pdf, tr(info.Material), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+12)
	pdf.CellFormat(textW, 3, truncate(pdf, info.SegmentID, textW), "", 1, "L", false, 0, "")

	if info.EdgeBanding != "-" {
		pdf.SetXY(textX, y+labelPadding+15)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Banding: "+info.EdgeBanding, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width at the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
