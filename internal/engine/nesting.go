package engine

import (
	"sort"

	"github.com/piwi3910/CaseForge/internal/model"
)

// Placement is one panel laid on a stock sheet. X and Y are measured from the
// sheet's top-left corner. A rotated panel has its length along the sheet
// height.
type Placement struct {
	Panel   model.Panel `json:"panel"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Rotated bool        `json:"rotated"`
}

// PlacedWidth returns the extent along the sheet width.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Panel.Width
	}
	return p.Panel.Length
}

// PlacedHeight returns the extent along the sheet height.
func (p Placement) PlacedHeight() float64 {
	if p.Rotated {
		return p.Panel.Length
	}
	return p.Panel.Width
}

// SheetPlan is one stock sheet and the panels cut from it. A sheet only
// carries panels of one material and thickness.
type SheetPlan struct {
	Material   string           `json:"material"`
	Thickness  float64          `json:"thickness"`
	Stock      model.StockSheet `json:"stock"`
	Placements []Placement      `json:"placements"`
}

// UsedArea returns the panel area on the sheet in square mm.
func (s SheetPlan) UsedArea() float64 {
	var a float64
	for _, p := range s.Placements {
		a += p.Panel.Area()
	}
	return a
}

// Efficiency returns the used share of the sheet, in percent.
func (s SheetPlan) Efficiency() float64 {
	total := s.Stock.Area()
	if total <= 0 {
		return 0
	}
	return s.UsedArea() / total * 100
}

// CutPlan is the result of nesting a cut list.
type CutPlan struct {
	Sheets []SheetPlan `json:"sheets"`
	// Unplaced panels are larger than a trimmed stock sheet.
	Unplaced []model.Panel `json:"unplaced,omitempty"`
}

// Efficiency returns the used share of all sheets, in percent.
func (c CutPlan) Efficiency() float64 {
	var used, total float64
	for _, s := range c.Sheets {
		used += s.UsedArea()
		total += s.Stock.Area()
	}
	if total <= 0 {
		return 0
	}
	return used / total * 100
}

// Nest lays the cut list out on as few stock sheets as it can, one material
// and thickness at a time. Sheets are taken as needed; panels that do not
// fit an empty sheet in either orientation end up in Unplaced.
func Nest(panels []model.Panel, stock model.StockSheet) CutPlan {
	var plan CutPlan
	for _, g := range groupPanels(panels) {
		remaining := g.panels
		sort.SliceStable(remaining, func(i, j int) bool {
			return remaining[i].Area() > remaining[j].Area()
		})

		for len(remaining) > 0 {
			sheet, rest := packSheetBestStrategy(stock, remaining)
			if len(sheet.Placements) == 0 {
				plan.Unplaced = append(plan.Unplaced, rest...)
				break
			}
			sheet.Material = g.material
			sheet.Thickness = g.thickness
			plan.Sheets = append(plan.Sheets, sheet)
			remaining = rest
		}
	}
	return plan
}

type panelGroup struct {
	material  string
	thickness float64
	panels    []model.Panel
}

// groupPanels splits the cut list by material and thickness, sorted by
// material name then thickness.
func groupPanels(panels []model.Panel) []panelGroup {
	type key struct {
		material  string
		thickness float64
	}
	index := make(map[key]int)
	var groups []panelGroup
	for _, p := range panels {
		k := key{p.Material, p.Thickness}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, panelGroup{material: p.Material, thickness: p.Thickness})
		}
		groups[i].panels = append(groups[i].panels, p)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].material != groups[j].material {
			return groups[i].material < groups[j].material
		}
		return groups[i].thickness < groups[j].thickness
	})
	return groups
}

// rotationStrategy controls how panels are turned during packing.
type rotationStrategy int

const (
	rotBestFit    rotationStrategy = iota // compare both orientations, pick the tighter fit
	rotAllNormal                          // length along the sheet width when it fits
	rotAllRotated                         // length along the sheet height when it fits
)

// packSheetBestStrategy packs one sheet with every strategy and keeps the one
// that places the most panels, then the most area.
func packSheetBestStrategy(stock model.StockSheet, panels []model.Panel) (SheetPlan, []model.Panel) {
	var bestSheet SheetPlan
	var bestRest []model.Panel
	bestPlaced := -1

	for _, strat := range []rotationStrategy{rotBestFit, rotAllNormal, rotAllRotated} {
		sheet, rest := packSheet(stock, panels, strat)
		placed := len(sheet.Placements)
		switch {
		case placed > bestPlaced:
			bestPlaced, bestSheet, bestRest = placed, sheet, rest
		case placed == bestPlaced && placed > 0 && sheet.UsedArea() > bestSheet.UsedArea():
			bestSheet, bestRest = sheet, rest
		}
	}
	return bestSheet, bestRest
}

func packSheet(stock model.StockSheet, panels []model.Panel, strategy rotationStrategy) (SheetPlan, []model.Panel) {
	sheet := SheetPlan{Stock: stock}
	var rest []model.Panel

	w, h := stock.Usable()
	packer := newGuillotinePacker(stock.EdgeTrim, stock.EdgeTrim, w, h, stock.Kerf)

	place := func(p model.Panel, rotated bool) bool {
		pw, ph := p.Length, p.Width
		if rotated {
			pw, ph = ph, pw
		}
		ok, x, y := packer.insert(pw, ph)
		if ok {
			sheet.Placements = append(sheet.Placements, Placement{Panel: p, X: x, Y: y, Rotated: rotated})
		}
		return ok
	}

	for _, p := range panels {
		square := p.Length == p.Width
		placed := false

		switch strategy {
		case rotAllRotated:
			placed = (!square && place(p, true)) || place(p, false)

		case rotBestFit:
			if !square {
				normalFit := packer.bestFit(p.Length, p.Width)
				rotatedFit := packer.bestFit(p.Width, p.Length)
				preferRotated := rotatedFit >= 0 && (normalFit < 0 || rotatedFit < normalFit)
				placed = place(p, preferRotated)
			}
			placed = placed || place(p, false) || (!square && place(p, true))

		default:
			placed = place(p, false) || (!square && place(p, true))
		}

		if !placed {
			rest = append(rest, p)
		}
	}
	return sheet, rest
}

// guillotinePacker keeps the maximal free rectangles of one sheet and
// splits every overlapping one around each placed panel.
type guillotinePacker struct {
	freeRects []freeRect
	kerf      float64
}

type freeRect struct {
	x, y, w, h float64
}

func newGuillotinePacker(x, y, width, height, kerf float64) *guillotinePacker {
	gp := &guillotinePacker{kerf: kerf}
	if width > 0 && height > 0 {
		gp.freeRects = []freeRect{{x, y, width, height}}
	}
	return gp
}

// insert places a w × h piece with the best area fit heuristic and returns
// its position.
func (gp *guillotinePacker) insert(w, h float64) (bool, float64, float64) {
	bestIdx := -1
	bestAreaFit := -1.0
	for i, r := range gp.freeRects {
		if fit, ok := gp.fits(r, w, h); ok && (bestIdx < 0 || fit < bestAreaFit) {
			bestIdx, bestAreaFit = i, fit
		}
	}
	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := gp.freeRects[bestIdx]
	gp.splitAroundPlacement(freeRect{x: chosen.x, y: chosen.y, w: w + gp.kerf, h: h + gp.kerf})
	return true, chosen.x, chosen.y
}

// bestFit returns the area that inserting w × h would waste, or -1 when the
// piece does not fit. The packer is not modified.
func (gp *guillotinePacker) bestFit(w, h float64) float64 {
	best := -1.0
	for _, r := range gp.freeRects {
		if fit, ok := gp.fits(r, w, h); ok && (best < 0 || fit < best) {
			best = fit
		}
	}
	return best
}

// fits reports whether w × h fits r and returns the wasted area. The kerf
// trailing a piece may run off the rectangle.
func (gp *guillotinePacker) fits(r freeRect, w, h float64) (float64, bool) {
	if w > r.w+packEps || h > r.h+packEps {
		return 0, false
	}
	return r.w*r.h - w*h, true
}

const packEps = 0.001

func (gp *guillotinePacker) splitAroundPlacement(placed freeRect) {
	var next []freeRect
	for _, r := range gp.freeRects {
		if !rectsOverlap(r, placed) {
			next = append(next, r)
			continue
		}
		if placed.x > r.x+packEps {
			next = append(next, freeRect{x: r.x, y: r.y, w: placed.x - r.x, h: r.h})
		}
		if placed.x+placed.w < r.x+r.w-packEps {
			next = append(next, freeRect{x: placed.x + placed.w, y: r.y, w: r.x + r.w - placed.x - placed.w, h: r.h})
		}
		if placed.y > r.y+packEps {
			next = append(next, freeRect{x: r.x, y: r.y, w: r.w, h: placed.y - r.y})
		}
		if placed.y+placed.h < r.y+r.h-packEps {
			next = append(next, freeRect{x: r.x, y: placed.y + placed.h, w: r.w, h: r.y + r.h - placed.y - placed.h})
		}
	}
	gp.freeRects = pruneContained(next)
}

func rectsOverlap(a, b freeRect) bool {
	return a.x < b.x+b.w-packEps && a.x+a.w > b.x+packEps &&
		a.y < b.y+b.h-packEps && a.y+a.h > b.y+packEps
}

func pruneContained(rects []freeRect) []freeRect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]freeRect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			// of two identical rects, keep the first
			if i != j && containsRect(b, a) && !(j > i && containsRect(a, b)) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

func containsRect(outer, inner freeRect) bool {
	return outer.x <= inner.x+packEps && outer.y <= inner.y+packEps &&
		outer.x+outer.w >= inner.x+inner.w-packEps &&
		outer.y+outer.h >= inner.y+inner.h-packEps
}
