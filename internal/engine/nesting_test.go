package engine

import (
	"fmt"
	"testing"

	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/zonetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board(id string, length, width float64) model.Panel {
	return model.Panel{SegmentID: id, Label: id, Length: length, Width: width, Thickness: 19, Material: "White Melamine"}
}

func smallSheet() model.StockSheet {
	return model.StockSheet{Width: 1000, Height: 500, Kerf: 4, EdgeTrim: 5}
}

// assertNoOverlap checks every placement stays on the trimmed sheet and that
// no two placements overlap.
func assertNoOverlap(t *testing.T, sheet SheetPlan) {
	t.Helper()
	w, h := sheet.Stock.Usable()
	trim := sheet.Stock.EdgeTrim
	for i, a := range sheet.Placements {
		assert.GreaterOrEqual(t, a.X, trim-packEps, a.Panel.SegmentID)
		assert.GreaterOrEqual(t, a.Y, trim-packEps, a.Panel.SegmentID)
		assert.LessOrEqual(t, a.X+a.PlacedWidth(), trim+w+packEps, a.Panel.SegmentID)
		assert.LessOrEqual(t, a.Y+a.PlacedHeight(), trim+h+packEps, a.Panel.SegmentID)
		for _, b := range sheet.Placements[i+1:] {
			overlap := a.X < b.X+b.PlacedWidth() && b.X < a.X+a.PlacedWidth() &&
				a.Y < b.Y+b.PlacedHeight() && b.Y < a.Y+a.PlacedHeight()
			assert.False(t, overlap, "%s overlaps %s", a.Panel.SegmentID, b.Panel.SegmentID)
		}
	}
}

func TestNest_SinglePanel(t *testing.T) {
	plan := Nest([]model.Panel{board("a", 400, 200)}, smallSheet())

	require.Len(t, plan.Sheets, 1)
	require.Len(t, plan.Sheets[0].Placements, 1)
	p := plan.Sheets[0].Placements[0]
	assert.InDelta(t, 5, p.X, 1e-9)
	assert.InDelta(t, 5, p.Y, 1e-9)
	assert.Empty(t, plan.Unplaced)
	assert.InDelta(t, 16.0, plan.Sheets[0].Efficiency(), 1e-9)
}

func TestNest_FillsSheetsInOrder(t *testing.T) {
	var panels []model.Panel
	for i := range 10 {
		panels = append(panels, board(fmt.Sprintf("p%d", i), 300, 200))
	}
	plan := Nest(panels, smallSheet())

	placed := 0
	for _, s := range plan.Sheets {
		placed += len(s.Placements)
		assertNoOverlap(t, s)
	}
	assert.Equal(t, 10, placed)
	assert.Empty(t, plan.Unplaced)
	// 990 × 490 holds six 300 × 200 boards with kerf
	assert.Len(t, plan.Sheets, 2)
	assert.Len(t, plan.Sheets[0].Placements, 6)
}

func TestNest_RotatesToFit(t *testing.T) {
	stock := model.StockSheet{Width: 500, Height: 1000}
	plan := Nest([]model.Panel{board("side", 900, 400)}, stock)

	require.Len(t, plan.Sheets, 1)
	p := plan.Sheets[0].Placements[0]
	assert.True(t, p.Rotated)
	assert.InDelta(t, 400, p.PlacedWidth(), 1e-9)
	assert.InDelta(t, 900, p.PlacedHeight(), 1e-9)
}

func TestNest_OversizePanelIsUnplaced(t *testing.T) {
	plan := Nest([]model.Panel{board("huge", 1200, 600), board("ok", 200, 100)}, smallSheet())

	require.Len(t, plan.Unplaced, 1)
	assert.Equal(t, "huge", plan.Unplaced[0].SegmentID)
	require.Len(t, plan.Sheets, 1)
	assert.Equal(t, "ok", plan.Sheets[0].Placements[0].Panel.SegmentID)
}

func TestNest_SeparatesMaterialsAndThicknesses(t *testing.T) {
	back := board("back", 300, 200)
	back.Material, back.Thickness = "Raw MDF", 8
	oak := board("oak", 300, 200)
	oak.Material = "Oak Veneer"
	plan := Nest([]model.Panel{board("white", 300, 200), back, oak}, smallSheet())

	require.Len(t, plan.Sheets, 3)
	var got []string
	for _, s := range plan.Sheets {
		require.Len(t, s.Placements, 1)
		got = append(got, fmt.Sprintf("%s/%.0f", s.Material, s.Thickness))
	}
	assert.Equal(t, []string{"Oak Veneer/19", "Raw MDF/8", "White Melamine/19"}, got)
}

func TestNest_EmptyCutList(t *testing.T) {
	plan := Nest(nil, smallSheet())
	assert.Empty(t, plan.Sheets)
	assert.Zero(t, plan.Efficiency())
}

func TestNest_ResolvedCabinet(t *testing.T) {
	tree := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 3)
	tree = zonetree.Split(tree, "root-1", model.ZoneHorizontal, 4)
	layout, err := Resolve(tree, testEnvelope(), DefaultOptions())
	require.NoError(t, err)

	panels := layout.Panels(model.NewDeletionSet(), model.MaterialSelection{Structure: "White Melamine"})
	require.NotEmpty(t, panels)
	plan := Nest(panels, model.DefaultStockSheet())

	placed := len(plan.Unplaced)
	for _, s := range plan.Sheets {
		placed += len(s.Placements)
		assertNoOverlap(t, s)
	}
	assert.Equal(t, len(panels), placed)
	assert.Empty(t, plan.Unplaced)
	assert.Greater(t, plan.Efficiency(), 0.0)
	assert.LessOrEqual(t, plan.Efficiency(), 100.0)
}

func TestPruneContained_KeepsOneOfDuplicates(t *testing.T) {
	r := freeRect{0, 0, 10, 10}
	got := pruneContained([]freeRect{r, {1, 1, 2, 2}, r})
	assert.Equal(t, []freeRect{r}, got)
}
