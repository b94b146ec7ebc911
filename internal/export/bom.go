package export

import (
	"fmt"

	"github.com/piwi3910/CaseForge/internal/engine"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the bill of materials workbook.
const (
	SheetPanels  = "Panels"
	SheetQuote   = "Quote"
	SheetSummary = "Summary"
	SheetCutPlan = "Cut plan"
)

// ExportBOM writes the bill of materials to an .xlsx workbook: the cut list,
// the quote lines (when the document has a quote) and a summary with totals,
// edge banding, board area per material and sheet counts, and the cut plan
// nesting the boards on stock sheets.
func ExportBOM(path string, doc Document) error {
	if err := doc.validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPanels); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	panels := doc.Panels()
	rows := [][]interface{}{{"Panel", "Part", "Length (mm)", "Width (mm)", "Thickness (mm)", "Material", "Edge banding", "Area (m2)"}}
	for _, p := range panels {
		rows = append(rows, []interface{}{p.SegmentID, p.Label, p.Length, p.Width, p.Thickness, p.Material, p.EdgeBanding.String(), p.Area() / 1e6})
	}
	if err := writeRows(f, SheetPanels, rows, bold); err != nil {
		return err
	}

	if doc.Quote != nil {
		if _, err := f.NewSheet(SheetQuote); err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
		q := doc.Quote
		rows := [][]interface{}{{"Component", "Zone", "Panel", "Item", "Amount (" + q.Currency + ")"}}
		for _, l := range q.Lines {
			rows = append(rows, []interface{}{string(l.Component), l.ZoneID, l.SegmentID, l.Label, l.Amount})
		}
		if err := writeRows(f, SheetQuote, rows, bold); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	plan := doc.CutPlan()
	if err := writeRows(f, SheetSummary, summaryRows(doc, panels, plan), bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetCutPlan); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := writeRows(f, SheetCutPlan, cutPlanRows(plan), bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func summaryRows(doc Document, panels []model.Panel, plan engine.CutPlan) [][]interface{} {
	dims := doc.Layout.Envelope.Dimensions
	rows := [][]interface{}{
		{"Configuration", doc.title()},
		{"Width (mm)", dims.Width},
		{"Height (mm)", dims.Height},
		{"Depth (mm)", dims.Depth},
		{"Panels", len(panels)},
	}

	if q := doc.Quote; q != nil {
		rows = append(rows, []interface{}{})
		for _, cn := range componentNames {
			rows = append(rows, []interface{}{cn.name, componentAmount(q.Breakdown, cn.c)})
		}
		rows = append(rows, []interface{}{"Total (" + q.Currency + ")", q.Total})
	}

	eb := model.CalculateEdgeBanding(panels, EdgeBandingWaste)
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Edge banding (m)", eb.TotalLinearM},
		[]interface{}{fmt.Sprintf("Edge banding +%.0f%% (m)", eb.WastePercent), eb.TotalWithWasteM},
	)

	// board area per material, in first-seen order
	area := make(map[string]float64)
	var order []string
	for _, p := range panels {
		if _, ok := area[p.Material]; !ok {
			order = append(order, p.Material)
		}
		area[p.Material] += p.Area() / 1e6
	}
	if len(order) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Material", "Area (m2)"})
		for _, m := range order {
			rows = append(rows, []interface{}{m, area[m]})
		}
	}

	est := model.CalculatePurchaseEstimate(panels, doc.Stock, model.SheetWastePercent, 0)
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Stock sheet (mm)", fmt.Sprintf("%.0f x %.0f", doc.Stock.Width, doc.Stock.Height)},
		[]interface{}{"Sheets (nested)", len(plan.Sheets)},
		[]interface{}{"Nesting efficiency (%)", plan.Efficiency()},
		[]interface{}{fmt.Sprintf("Sheets by area +%.0f%%", est.WastePercent), est.SheetsWithWaste},
	)
	if len(plan.Unplaced) > 0 {
		rows = append(rows, []interface{}{"Panels larger than a sheet", len(plan.Unplaced)})
	}
	return rows
}

func cutPlanRows(plan engine.CutPlan) [][]interface{} {
	rows := [][]interface{}{{"Sheet", "Material", "Thickness (mm)", "Panel", "Part", "X (mm)", "Y (mm)", "Length (mm)", "Width (mm)", "Rotated"}}
	for i, s := range plan.Sheets {
		for _, p := range s.Placements {
			rows = append(rows, []interface{}{i + 1, s.Material, s.Thickness, p.Panel.SegmentID, p.Panel.Label, p.X, p.Y, p.Panel.Length, p.Panel.Width, p.Rotated})
		}
	}
	for _, p := range plan.Unplaced {
		rows = append(rows, []interface{}{"-", p.Material, p.Thickness, p.SegmentID, p.Label, "", "", p.Length, p.Width, ""})
	}
	return rows
}

// writeRows writes rows from A1, skipping empty rows, and bolds the first row.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, bold int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
	}
	return nil
}
