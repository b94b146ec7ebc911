package engine

import (
	"encoding/json"
	"math/rand"
	"sort"
	"testing"

	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/zonetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvelope() model.Envelope {
	return model.NewEnvelope(1200, 730, 400)
}

func resolve(t *testing.T, tree *model.Zone, env model.Envelope) *Layout {
	t.Helper()
	l, err := Resolve(tree, env, DefaultOptions())
	require.NoError(t, err)
	return l
}

func idsOf(segs []model.Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.ID
	}
	sort.Strings(out)
	return out
}

func countKind(segs []model.Segment, kind model.PanelKind) int {
	n := 0
	for _, s := range segs {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func TestSegment_SingleLeaf(t *testing.T) {
	l := resolve(t, model.NewTree(), testEnvelope())

	assert.Equal(t, 1, countKind(l.Segments, model.PanelLeft))
	assert.Equal(t, 1, countKind(l.Segments, model.PanelRight))
	assert.Equal(t, 1, countKind(l.Segments, model.PanelTop))
	assert.Equal(t, 1, countKind(l.Segments, model.PanelBottom))
	assert.Equal(t, 1, countKind(l.Segments, model.PanelBack))
	assert.Len(t, l.Segments, 5)

	back, ok := l.Segment("panel-back-c-r")
	require.True(t, ok)
	assert.InDelta(t, 1200, back.Size.X, 1e-9, "back fills to the outer edges")
	assert.InDelta(t, 730, back.Size.Y, 1e-9)
	assert.InDelta(t, 8, back.Size.Z, 1e-9)

	left, ok := l.Segment("panel-left-s0")
	require.True(t, ok)
	assert.InDelta(t, 730, left.Size.Y, 1e-9, "sides own the corners")
	assert.InDelta(t, 9.5, left.Position.X, 1e-9)
	assert.InDelta(t, 392, left.Size.Z, 1e-9)

	top, ok := l.Segment("panel-top-s0")
	require.True(t, ok)
	assert.InDelta(t, 1162, top.Size.X, 1e-9, "top runs between the sides")
	assert.InDelta(t, 720.5, top.Position.Y, 1e-9)
}

func TestSegment_TwoColumns(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.SetRatios(root, model.RootID, []float64{30, 70})

	l := resolve(t, root, testEnvelope())

	assert.Equal(t, []string{
		"panel-back-c0-r",
		"panel-back-c1-r",
		"panel-bottom-s0",
		"panel-bottom-s1",
		"panel-left-s0",
		"panel-right-s0",
		"panel-sep-v0-s0",
		"panel-top-s0",
		"panel-top-s1",
	}, idsOf(l.Segments))

	sep, ok := l.Segment("panel-sep-v0-s0")
	require.True(t, ok)
	assert.Equal(t, model.OrientationVertical, sep.Orientation)
	assert.InDelta(t, 730, sep.Size.Y, 1e-9, "runs through top and bottom")
	assert.InDelta(t, 19, sep.Size.X, 1e-9)

	b0, _ := l.Segment("panel-back-c0-r")
	b1, _ := l.Segment("panel-back-c1-r")
	assert.InDelta(t, 0, b0.Front().Left(), 1e-9)
	assert.InDelta(t, b0.Front().Right(), b1.Front().Left(), 1e-9, "backs meet at the separator midline")
	assert.InDelta(t, 1200, b1.Front().Right(), 1e-9)
}

func TestSegment_SeparatorCutByStackedRows(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.Split(root, "root-1", model.ZoneHorizontal, 3)

	l := resolve(t, root, testEnvelope())

	var sepIDs []string
	for _, s := range l.Segments {
		if s.Kind == model.PanelSeparator {
			sepIDs = append(sepIDs, s.ID)
		}
	}
	assert.Equal(t, []string{
		"panel-sep-v0-s0",
		"panel-sep-v0-s1",
		"panel-sep-v0-s2",
		"panel-sep-c1-h0-s0",
		"panel-sep-c1-h1-s0",
	}, sepIDs)

	assert.Equal(t, 1, countKind(l.Segments, model.PanelLeft))
	assert.Equal(t, 3, countKind(l.Segments, model.PanelRight))

	// the three pieces of v0 tile its full height, top piece first
	var total float64
	prevBottom := 730.0
	for _, id := range []string{"panel-sep-v0-s0", "panel-sep-v0-s1", "panel-sep-v0-s2"} {
		s, ok := l.Segment(id)
		require.True(t, ok)
		assert.InDelta(t, prevBottom, s.Front().Top(), 1e-9, id)
		prevBottom = s.Front().Bottom()
		total += s.Size.Y
	}
	assert.InDelta(t, 0, prevBottom, 1e-9)
	assert.InDelta(t, 730, total, 1e-9)

	h0, _ := l.Segment("panel-sep-c1-h0-s0")
	c, _ := l.Cell("root-1-0")
	assert.InDelta(t, c.Width, h0.Size.X, 1e-9, "shelves stop at the boards around them")
}

func TestSegment_Socle(t *testing.T) {
	env := testEnvelope()
	env.Socle = model.Socle{Kind: model.SocleWood, Height: 100}

	l := resolve(t, model.NewTree(), env)

	left, _ := l.Segment("panel-left-s0")
	assert.InDelta(t, 100, left.Front().Bottom(), 1e-9)
	assert.InDelta(t, 730, left.Front().Top(), 1e-9)

	bottom, _ := l.Segment("panel-bottom-s0")
	assert.InDelta(t, 100, bottom.Front().Bottom(), 1e-9)

	back, _ := l.Segment("panel-back-c-r")
	assert.InDelta(t, 100, back.Front().Bottom(), 1e-9)
}

func TestSegment_IDsStableAcrossDimensions(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 3)
	root = zonetree.Split(root, "root-1", model.ZoneHorizontal, 2)
	root = zonetree.Split(root, "root-2", model.ZoneHorizontal, 4)

	a := resolve(t, root, testEnvelope())
	again := resolve(t, root, testEnvelope())
	b := resolve(t, root, model.NewEnvelope(2400, 2000, 600))

	assert.Equal(t, idsOf(a.Segments), idsOf(again.Segments))
	assert.Equal(t, a.Segments, again.Segments)
	assert.Equal(t, idsOf(a.Segments), idsOf(b.Segments))
	assert.NotEqual(t, a.Segments, b.Segments)
}

func TestSegment_NearlyAlignedRowsKeepTheirCuts(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.Split(root, "root-0", model.ZoneHorizontal, 2)
	root = zonetree.Split(root, "root-1", model.ZoneHorizontal, 2)
	root = zonetree.SetRatios(root, "root-1", []float64{50.02, 49.98})

	for _, h := range []float64{300, 730, 1500, 2400} {
		l := resolve(t, root, model.NewEnvelope(1200, h, 400))
		var pieces []string
		for _, s := range l.Segments {
			if s.Kind == model.PanelSeparator && s.Orientation == model.OrientationVertical {
				pieces = append(pieces, s.ID)
				assert.Greater(t, s.Size.Y, 0.0, "%s at height %v", s.ID, h)
			}
		}
		assert.Equal(t, []string{"panel-sep-v0-s0", "panel-sep-v0-s1", "panel-sep-v0-s2"}, pieces, "height %v", h)
	}
}

// Segment ids depend on tree shape only, for any tree and any envelope the
// tree fits in.
func TestSegment_IDsStableProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	dirs := []model.ZoneKind{model.ZoneVertical, model.ZoneHorizontal}
	envs := []model.Envelope{
		model.NewEnvelope(1000, 900, 350),
		model.NewEnvelope(1200, 730, 400),
		model.NewEnvelope(1801, 2117, 580),
		model.NewEnvelope(3000, 2600, 650),
	}
	envs[2].Socle = model.Socle{Kind: model.SocleWood, Height: 97}
	envs[3].Thickness = 25

	checked := 0
	for run := 0; run < 60; run++ {
		root := model.NewTree()
		for step := 0; step < 5; step++ {
			var containers []*model.Zone
			zonetree.Visit(root, func(z *model.Zone, _ model.Path) {
				if !z.IsLeaf() {
					containers = append(containers, z)
				}
			})
			if len(containers) > 0 && rng.Intn(3) == 0 {
				z := containers[rng.Intn(len(containers))]
				ratios := make([]float64, len(z.Children))
				for i := range ratios {
					ratios[i] = 25 + rng.Float64()*25
				}
				root = zonetree.SetRatios(root, z.ID, ratios)
				continue
			}
			leaves := root.Leaves()
			leaf := leaves[rng.Intn(len(leaves))]
			root = zonetree.Split(root, leaf.ID, dirs[rng.Intn(2)], 2+rng.Intn(2))
		}

		var ids [][]string
		for _, env := range envs {
			l, err := Resolve(root, env, DefaultOptions())
			if err != nil {
				break
			}
			ids = append(ids, idsOf(l.Segments))
		}
		if len(ids) < len(envs) {
			continue
		}
		checked++
		for i := 1; i < len(ids); i++ {
			assert.Equal(t, ids[0], ids[i], "run %d, envelope %d", run, i)
		}
	}
	assert.Greater(t, checked, 40)
}

func TestSegment_JSONRoundTripKeepsIDs(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneHorizontal, 2)
	root = zonetree.Split(root, "root-0", model.ZoneVertical, 3)
	root = zonetree.SetContent(root, "root-1", model.ContentDrawer)

	data, err := json.Marshal(root)
	require.NoError(t, err)
	var decoded model.Zone
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, idsOf(resolve(t, root, testEnvelope()).Segments), idsOf(resolve(t, &decoded, testEnvelope()).Segments))
}

func TestSegment_DeletionOnlyFiltersVisibility(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	l := resolve(t, root, testEnvelope())
	deleted := model.NewDeletionSet()

	before := l.Visible(deleted)
	deleted.Toggle("panel-sep-v0-s0")
	after := l.Visible(deleted)

	assert.Len(t, after, len(before)-1)
	assert.Equal(t, l.Segments, resolve(t, root, testEnvelope()).Segments, "geometry does not depend on deletions")
	for _, s := range after {
		assert.NotEqual(t, "panel-sep-v0-s0", s.ID)
	}
}

func TestSegment_AutoHiddenDrawerSeparators(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneHorizontal, 3)
	for _, id := range []string{"root-0", "root-1", "root-2"} {
		root = zonetree.SetContent(root, id, model.ContentDrawer)
	}
	l := resolve(t, root, testEnvelope())

	var hidden int
	for _, s := range l.Segments {
		if s.Kind == model.PanelSeparator {
			assert.True(t, s.AutoHidden, s.ID)
			hidden++
		}
	}
	assert.Equal(t, 2, hidden)
	assert.Len(t, l.Visible(nil), len(l.Segments)-2)
}

func TestSegment_DrawerColumnsCloseTheTop(t *testing.T) {
	root := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	root = zonetree.SetContent(root, "root-0", model.ContentDrawer)
	root = zonetree.SetContent(root, "root-1", model.ContentDrawer)
	l := resolve(t, root, testEnvelope())

	sep, ok := l.Segment("panel-sep-v0-s0")
	require.True(t, ok)
	assert.False(t, sep.AutoHidden, "a divider between drawer columns is structural")

	// visible boards along the top span the full width between the sides
	var covered float64
	for _, s := range l.Visible(nil) {
		if s.Kind == model.PanelTop || (s.Kind == model.PanelSeparator && s.Front().Top() >= 730-1e-9) {
			covered += s.Size.X
		}
	}
	assert.InDelta(t, 1162, covered, 1e-9)
}

func TestSegment_NoAdjacentCellsFallsBack(t *testing.T) {
	env := testEnvelope()
	sep := model.Separator{
		Key:         model.BoundaryKey{Split: model.ZoneVertical},
		ZoneID:      "ghost",
		Orientation: model.OrientationVertical,
		Rect:        model.Rect{X: 500, Y: 300, Width: 19, Height: 100},
	}

	segs := Segment(nil, []model.Separator{sep}, env, DefaultOptions())

	var found bool
	for _, s := range segs {
		if s.Kind != model.PanelSeparator {
			continue
		}
		found = true
		assert.Equal(t, "panel-sep-v0-s0", s.ID)
		assert.Equal(t, sep.Rect, s.Front())
	}
	assert.True(t, found)
}

// Sides cover the full carcass height and backs tile the whole rear, for any tree.
func TestSegment_TilingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dirs := []model.ZoneKind{model.ZoneVertical, model.ZoneHorizontal}
	env := model.NewEnvelope(1800, 2100, 600)
	env.Socle = model.Socle{Kind: model.SocleMetalFeet, Height: 80}
	rear := env.Dimensions.Width * (env.Dimensions.Height - 80)

	for run := 0; run < 30; run++ {
		root := model.NewTree()
		for step := 0; step < 4; step++ {
			leaves := root.Leaves()
			leaf := leaves[rng.Intn(len(leaves))]
			root = zonetree.Split(root, leaf.ID, dirs[rng.Intn(2)], 2+rng.Intn(2))
		}
		l := resolve(t, root, env)

		var backArea, leftHeight, rightHeight float64
		seen := map[string]bool{}
		for _, s := range l.Segments {
			assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
			seen[s.ID] = true
			switch s.Kind {
			case model.PanelBack:
				backArea += s.Front().Area()
			case model.PanelLeft:
				leftHeight += s.Size.Y
			case model.PanelRight:
				rightHeight += s.Size.Y
			}
			assert.Greater(t, s.Size.X, 0.0, s.ID)
			assert.Greater(t, s.Size.Y, 0.0, s.ID)
		}
		assert.InDelta(t, rear, backArea, 1e-3)
		assert.InDelta(t, 2020, leftHeight, 1e-6)
		assert.InDelta(t, 2020, rightHeight, 1e-6)
		assert.Equal(t, len(root.Leaves()), countKind(l.Segments, model.PanelBack))
	}
}

func TestResolve_RejectsDegenerateDimensions(t *testing.T) {
	for _, env := range []model.Envelope{
		model.NewEnvelope(0, 730, 400),
		model.NewEnvelope(1200, -1, 400),
		model.NewEnvelope(1200, 730, 0),
		model.NewEnvelope(30, 730, 400),
	} {
		l, err := Resolve(model.NewTree(), env, DefaultOptions())
		assert.ErrorIs(t, err, model.ErrInvalidDimensions)
		assert.Nil(t, l)
	}
}

func TestResolveConfiguration_PrunesAndRepairs(t *testing.T) {
	cfg := model.NewConfiguration("test", model.Dimensions{Width: 1200, Height: 730, Depth: 400})
	cfg.ZoneTree = zonetree.Split(cfg.ZoneTree, model.RootID, model.ZoneVertical, 2)
	cfg.ZoneTree.SplitRatios = []float64{20, 20}
	cfg.Deletions().BulkDelete([]string{"panel-sep-v0-s0", "panel-sep-v1-s0"})

	res, err := ResolveConfiguration(&cfg, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"panel-sep-v1-s0"}, res.Pruned)
	assert.Equal(t, []string{"panel-sep-v0-s0"}, cfg.Deletions().IDs())
	require.Len(t, res.Issues, 1)
	assert.Equal(t, zonetree.IssueRatioSum, res.Issues[0].Code)
	assert.Equal(t, []float64{50, 50}, cfg.ZoneTree.SplitRatios)
	assert.Len(t, res.Cells, 2)
}

func TestLayout_PanelsCutList(t *testing.T) {
	l := resolve(t, model.NewTree(), testEnvelope())
	deleted := model.NewDeletionSet("panel-top-s0")
	materials := model.MaterialSelection{Structure: "Oak Veneer", Back: "Raw MDF", MultiColor: true}

	panels := l.Panels(deleted, materials)
	require.Len(t, panels, 4)

	byID := make(map[string]model.Panel)
	for _, p := range panels {
		byID[p.SegmentID] = p
	}
	assert.NotContains(t, byID, "panel-top-s0")

	left := byID["panel-left-s0"]
	assert.Equal(t, [3]float64{730, 392, 19}, [3]float64{left.Length, left.Width, left.Thickness})
	assert.Equal(t, "Oak Veneer", left.Material)
	assert.True(t, left.EdgeBanding.Length1)

	back := byID["panel-back-c-r"]
	assert.Equal(t, "Raw MDF", back.Material)
	assert.False(t, back.EdgeBanding.HasAny())
}
