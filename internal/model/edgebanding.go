package model

import "math"

// EdgeBandingSummary holds the calculated edge banding requirements for a cut list.
type EdgeBandingSummary struct {
	TotalLinearMM    float64 `json:"total_linear_mm"`     // Total banding length in mm (no waste)
	TotalLinearM     float64 `json:"total_linear_m"`      // Total banding length in meters (no waste)
	WastePercent     float64 `json:"waste_percent"`       // Waste percentage applied
	TotalWithWasteMM float64 `json:"total_with_waste_mm"` // Total with waste in mm
	TotalWithWasteM  float64 `json:"total_with_waste_m"`  // Total with waste in meters
	PanelCount       int     `json:"panel_count"`         // Number of boards needing banding
	EdgeCount        int     `json:"edge_count"`          // Total number of edges needing banding
}

// CalculateEdgeBanding computes the total edge banding needed for a list of panels.
// wastePercent is the additional percentage to add for waste (e.g., 10 for 10%).
func CalculateEdgeBanding(panels []Panel, wastePercent float64) EdgeBandingSummary {
	var totalMM float64
	var panelCount, edgeCount int

	for _, p := range panels {
		if !p.EdgeBanding.HasAny() {
			continue
		}
		totalMM += p.EdgeBanding.LinearLength(p.Length, p.Width)
		panelCount++
		edgeCount += p.EdgeBanding.EdgeCount()
	}

	wasteFactor := 1.0 + (wastePercent / 100.0)
	totalWithWaste := totalMM * wasteFactor

	return EdgeBandingSummary{
		TotalLinearMM:    totalMM,
		TotalLinearM:     totalMM / 1000.0,
		WastePercent:     wastePercent,
		TotalWithWasteMM: math.Ceil(totalWithWaste), // Round up
		TotalWithWasteM:  math.Ceil(totalWithWaste) / 1000.0,
		PanelCount:       panelCount,
		EdgeCount:        edgeCount,
	}
}
