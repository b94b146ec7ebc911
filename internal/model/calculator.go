package model

import "math"

// SheetWastePercent is the extra board bought on top of the nested area.
const SheetWastePercent = 15.0

// StockSheet is the raw board the panels are cut from.
type StockSheet struct {
	Width    float64 `json:"width"`     // mm
	Height   float64 `json:"height"`    // mm
	Kerf     float64 `json:"kerf"`      // saw blade width, mm
	EdgeTrim float64 `json:"edge_trim"` // trimmed off every sheet edge, mm
}

// DefaultStockSheet returns the common 2800 × 2070 mm particle board format.
func DefaultStockSheet() StockSheet {
	return StockSheet{Width: 2800, Height: 2070, Kerf: 4, EdgeTrim: 10}
}

// Usable returns the sheet size left after trimming the edges.
func (s StockSheet) Usable() (width, height float64) {
	return s.Width - 2*s.EdgeTrim, s.Height - 2*s.EdgeTrim
}

// Area returns the full sheet area in square mm.
func (s StockSheet) Area() float64 {
	return s.Width * s.Height
}

// PurchaseEstimate holds the results of a sheet purchasing calculation.
type PurchaseEstimate struct {
	TotalPanelArea    float64 `json:"total_panel_area"`    // Total area of all panels (sq mm)
	SheetArea         float64 `json:"sheet_area"`          // Area of one sheet (sq mm)
	SheetsNeededExact float64 `json:"sheets_needed_exact"` // Exact fractional number of sheets
	SheetsNeededMin   int     `json:"sheets_needed_min"`   // Minimum sheets (ceiling of exact)
	SheetsWithWaste   int     `json:"sheets_with_waste"`   // Recommended sheets including waste factor
	WastePercent      float64 `json:"waste_percent"`
	EstimatedCost     float64 `json:"estimated_cost"`
	PricePerSheet     float64 `json:"price_per_sheet"`
}

// CalculatePurchaseEstimate computes how many stock sheets to buy for a cut
// list from its area alone. Each panel is grown by one kerf in both directions
// and the waste factor is applied on top.
func CalculatePurchaseEstimate(panels []Panel, sheet StockSheet, wastePercent, pricePerSheet float64) PurchaseEstimate {
	var totalArea float64
	for _, p := range panels {
		totalArea += (p.Length + sheet.Kerf) * (p.Width + sheet.Kerf)
	}

	w, h := sheet.Usable()
	sheetArea := w * h
	if w <= 0 || h <= 0 {
		return PurchaseEstimate{
			TotalPanelArea: totalArea,
			WastePercent:   wastePercent,
		}
	}

	exactSheets := totalArea / sheetArea
	minSheets := int(math.Ceil(exactSheets))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	sheetsWithWaste := int(math.Ceil(exactSheets * wasteFactor))
	if sheetsWithWaste < minSheets {
		sheetsWithWaste = minSheets
	}

	return PurchaseEstimate{
		TotalPanelArea:    totalArea,
		SheetArea:         sheetArea,
		SheetsNeededExact: exactSheets,
		SheetsNeededMin:   minSheets,
		SheetsWithWaste:   sheetsWithWaste,
		WastePercent:      wastePercent,
		EstimatedCost:     float64(sheetsWithWaste) * pricePerSheet,
		PricePerSheet:     pricePerSheet,
	}
}
