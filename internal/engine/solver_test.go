package engine

import (
	"testing"

	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/zonetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_SingleLeafFillsArea(t *testing.T) {
	area := model.Rect{X: 19, Y: 19, Width: 1162, Height: 692}

	cells, err := Solve(model.NewTree(), area, 19)
	require.NoError(t, err)

	require.Len(t, cells, 1)
	c := cells[0]
	assert.Equal(t, model.RootID, c.ZoneID)
	assert.InDelta(t, 1162, c.Width, 1e-9)
	assert.InDelta(t, 692, c.Height, 1e-9)
	assert.InDelta(t, 600, c.X, 1e-9)
	assert.InDelta(t, 365, c.Y, 1e-9)
	assert.Empty(t, c.ColPath)
	assert.Empty(t, c.RowPath)
}

func TestSolve_RatioSplitReservesSeparator(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.SetRatios(root, model.RootID, []float64{30, 70})
	area := model.Rect{Width: 1200, Height: 730}

	cells, err := Solve(root, area, 19)
	require.NoError(t, err)

	require.Len(t, cells, 2)
	assert.InDelta(t, (1200-19)*0.30, cells[0].Width, 1e-9)
	assert.InDelta(t, (1200-19)*0.70, cells[1].Width, 1e-9)
	assert.InDelta(t, 19, cells[1].Left()-cells[0].Right(), 1e-9)
	assert.Equal(t, []int{0}, cells[0].ColPath)
	assert.Equal(t, []int{1}, cells[1].ColPath)

	seps := Separators(root, area, 19)
	require.Len(t, seps, 1)
	assert.Equal(t, model.OrientationVertical, seps[0].Orientation)
	assert.InDelta(t, cells[0].Right(), seps[0].Rect.Left(), 1e-9)
	assert.InDelta(t, 19, seps[0].Rect.Width, 1e-9)
	assert.InDelta(t, 730, seps[0].Rect.Height, 1e-9)
	assert.Equal(t, "v0", seps[0].Key.String())
}

func TestSolve_HorizontalSplitRunsTopToBottom(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneHorizontal, 2)
	area := model.Rect{Width: 500, Height: 1019}

	cells, err := Solve(root, area, 19)
	require.NoError(t, err)

	require.Len(t, cells, 2)
	assert.InDelta(t, 1019, cells[0].Top(), 1e-9, "first row is on top")
	assert.InDelta(t, 500, cells[0].Height, 1e-9)
	assert.InDelta(t, 0, cells[1].Bottom(), 1e-9)
	assert.Equal(t, []int{0}, cells[0].RowPath)
	assert.Equal(t, []int{1}, cells[1].RowPath)
}

func TestSolve_AreaConservedUnderSingleSplit(t *testing.T) {
	const t19 = 19.0
	for n := 2; n <= 6; n++ {
		for _, dir := range []model.ZoneKind{model.ZoneVertical, model.ZoneHorizontal} {
			root := zonetree.Split(model.NewTree(), model.RootID, dir, n)
			area := model.Rect{Width: 1162, Height: 692}

			cells, err := Solve(root, area, t19)
			require.NoError(t, err)

			var got float64
			for _, c := range cells {
				got += c.Width * c.Height
			}
			want := (area.Width - float64(n-1)*t19) * area.Height
			if dir == model.ZoneHorizontal {
				want = area.Width * (area.Height - float64(n-1)*t19)
			}
			assert.InDelta(t, want, got, 1e-6, "n=%d dir=%s", n, dir)
		}
	}
}

func TestSolve_NestedPaths(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.Split(root, "root-1", model.ZoneHorizontal, 2)
	root = zonetree.Split(root, "root-1-1", model.ZoneVertical, 2)

	cells, err := Solve(root, model.Rect{Width: 1000, Height: 1000}, 19)
	require.NoError(t, err)

	require.Len(t, cells, 4)
	last := cells[3]
	assert.Equal(t, "root-1-1-1", last.ZoneID)
	assert.Equal(t, "c1-r1-c1", last.Path.String())
	assert.Equal(t, []int{1, 1}, last.ColPath)
	assert.Equal(t, []int{1}, last.RowPath)
}

func TestSolve_SingleChildPassesThrough(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root, err := zonetree.Group(root, []string{"root-0", "root-1"}, "")
	require.NoError(t, err)
	area := model.Rect{Width: 1000, Height: 500}

	cells, err := Solve(root, area, 19)
	require.NoError(t, err)
	assert.Len(t, cells, 2)
	assert.InDelta(t, (1000-19)/2.0, cells[0].Width, 1e-9)

	seps := Separators(root, area, 19)
	require.Len(t, seps, 1, "the single-child root adds no separator")
	assert.Equal(t, "c0-v0", seps[0].Key.String())
}

func TestSolve_RejectsDegenerateInput(t *testing.T) {
	_, err := Solve(model.NewTree(), model.Rect{Width: 0, Height: 100}, 19)
	assert.ErrorIs(t, err, model.ErrInvalidDimensions)

	_, err = Solve(model.NewTree(), model.Rect{Width: 100, Height: 100}, 0)
	assert.ErrorIs(t, err, model.ErrInvalidDimensions)

	crowded := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 10)
	cells, err := Solve(crowded, model.Rect{Width: 62, Height: 100}, 19)
	assert.ErrorIs(t, err, model.ErrInvalidDimensions)
	assert.Nil(t, cells)
}

func TestSeparators_AutoHiddenBetweenDrawers(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneHorizontal, 3)
	for _, id := range []string{"root-0", "root-1", "root-2"} {
		root = zonetree.SetContent(root, id, model.ContentDrawer)
	}
	root = zonetree.SetContent(root, "root-2", model.ContentPushDrawer)

	seps := Separators(root, model.Rect{Width: 600, Height: 700}, 19)
	require.Len(t, seps, 2)
	for _, s := range seps {
		assert.True(t, s.AutoHidden, s.Key.String())
		assert.Equal(t, model.OrientationHorizontal, s.Orientation)
	}

	root = zonetree.SetContent(root, "root-1", model.ContentShelf)
	for _, s := range Separators(root, model.Rect{Width: 600, Height: 700}, 19) {
		assert.False(t, s.AutoHidden, s.Key.String())
	}
}

func TestSeparators_DrawerColumnsKeepTheirDivider(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.SetContent(root, "root-0", model.ContentDrawer)
	root = zonetree.SetContent(root, "root-1", model.ContentPushDrawer)

	seps := Separators(root, model.Rect{Width: 600, Height: 700}, 19)
	require.Len(t, seps, 1)
	assert.False(t, seps[0].AutoHidden)
}

func TestSeparators_CutsFromBothSides(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.Split(root, "root-0", model.ZoneHorizontal, 2)
	root = zonetree.Split(root, "root-1", model.ZoneHorizontal, 3)
	area := model.Rect{X: 19, Y: 19, Width: 1162, Height: 692}

	seps := Separators(root, area, 19)
	require.Len(t, seps, 4)
	v0 := seps[0]
	require.Equal(t, "v0", v0.Key.String())

	var keys []string
	for _, c := range v0.Cuts {
		keys = append(keys, c.Key.String())
	}
	assert.Equal(t, []string{"c0-h0", "c1-h0", "c1-h1"}, keys)

	cells, err := Solve(root, area, 19)
	require.NoError(t, err)
	// the cut sits on the midline of the gap between the two left rows
	assert.InDelta(t, (cells[0].Bottom()+cells[1].Top())/2, v0.Cuts[0].At, 1e-9)

	// shelves between leaves meet no perpendicular boundary
	for _, s := range seps[1:] {
		assert.Len(t, s.Cuts, 0, s.Key.String())
	}
}

func TestSeparators_AlignedRowsShareOneCut(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.Split(root, "root-0", model.ZoneHorizontal, 3)
	root = zonetree.Split(root, "root-1", model.ZoneHorizontal, 3)

	seps := Separators(root, model.Rect{Width: 1162, Height: 692}, 19)
	require.Equal(t, "v0", seps[0].Key.String())
	require.Len(t, seps[0].Cuts, 2)
	for _, c := range seps[0].Cuts {
		assert.Equal(t, model.Path{{Split: model.ZoneVertical, Index: 0}}, c.Key.Parent, "kept from the left column")
	}
}

func TestWalk_VisitsParentsFirst(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.Split(root, "root-0", model.ZoneHorizontal, 2)

	var order []string
	Walk(root, model.Rect{Width: 100, Height: 100}, 2, func(f Frame) {
		order = append(order, f.Zone.ID)
	})
	assert.Equal(t, []string{"root", "root-0", "root-0-0", "root-0-1", "root-1"}, order)
}
