package pricing

import (
	"math"
	"testing"

	"github.com/piwi3910/CaseForge/internal/engine"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/zonetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInput(tree *model.Zone, w, h, d float64) Input {
	return Input{
		Tree:      tree,
		Envelope:  model.NewEnvelope(w, h, d),
		Materials: model.MaterialSelection{Structure: model.DefaultMaterialName},
		Deleted:   model.NewDeletionSet(),
	}
}

func price(t *testing.T, in Input) *Quote {
	t.Helper()
	q, err := Price(in, DefaultRateTable(), Options{})
	require.NoError(t, err)
	return q
}

func TestPrice_DrawerFormula(t *testing.T) {
	// 638 wide leaves a 600 mm cell between two 19 mm sides.
	tree := zonetree.SetContent(model.NewTree(), model.RootID, model.ContentDrawer)
	q := price(t, newInput(tree, 638, 730, 400))

	height := (730 - 2*19) / 1000.0
	want := 35 + 0.0001*600*400 + 150*(0.6*height)
	assert.InDelta(t, want, q.Breakdown.Equipment, 1e-9)
	assert.Empty(t, q.Anomalies)
	assert.Equal(t, "EUR", q.Currency)
}

func TestPrice_TotalIsRoundedSum(t *testing.T) {
	tree := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	tree = zonetree.SetContent(tree, "root-0", model.ContentDoor)
	tree = zonetree.SetLight(tree, "root-1", true)
	q := price(t, newInput(tree, 1200, 730, 400))

	assert.Equal(t, math.Round(q.Breakdown.Sum()), q.Total)
	var lines float64
	for _, l := range q.Lines {
		lines += l.Amount
	}
	assert.InDelta(t, q.Breakdown.Sum(), lines, 1e-9)
}

func TestPrice_CasingAndBack(t *testing.T) {
	q := price(t, newInput(model.NewTree(), 1200, 730, 400))

	rate := 42 * 1.3
	sides := 2 * 0.730 * 0.392
	topBottom := 2 * 1.162 * 0.392
	assert.InDelta(t, (sides+topBottom)*rate, q.Breakdown.Casing, 1e-9)
	assert.InDelta(t, 1.2*0.73*rate, q.Breakdown.Back, 1e-9)
	assert.Zero(t, q.Breakdown.Separators)
	assert.Zero(t, q.Breakdown.Socle)
}

func TestPrice_MultiColorBack(t *testing.T) {
	in := newInput(model.NewTree(), 1200, 730, 400)
	in.Materials = model.MaterialSelection{Structure: model.DefaultMaterialName, Back: "Raw MDF", MultiColor: true}
	q := price(t, in)

	assert.InDelta(t, 1.2*0.73*30*1.3, q.Breakdown.Back, 1e-9)
}

func TestPrice_DeletionDropsOnlyThatPanel(t *testing.T) {
	in := newInput(model.NewTree(), 1200, 730, 400)
	full := price(t, in)

	in.Deleted.Toggle("panel-left-s0")
	without := price(t, in)

	assert.InDelta(t, 0.730*0.392*42*1.3, full.Breakdown.Casing-without.Breakdown.Casing, 1e-9)
	assert.Equal(t, full.Breakdown.Back, without.Breakdown.Back)
}

func TestPrice_AutoHiddenDrawerSeparatorsAreFree(t *testing.T) {
	tree := zonetree.Split(model.NewTree(), model.RootID, model.ZoneHorizontal, 3)
	for _, id := range []string{"root-0", "root-1", "root-2"} {
		tree = zonetree.SetContent(tree, id, model.ContentDrawer)
	}
	q := price(t, newInput(tree, 800, 900, 500))
	assert.Zero(t, q.Breakdown.Separators)

	tree = zonetree.SetContent(tree, "root-2", model.ContentEmpty)
	q = price(t, newInput(tree, 800, 900, 500))
	assert.InDelta(t, 2*0.762*0.492*42*1.3, q.Breakdown.Separators, 1e-9)
}

func TestPrice_DividerBetweenDrawerColumnsIsPriced(t *testing.T) {
	tree := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	for _, id := range []string{"root-0", "root-1"} {
		tree = zonetree.SetContent(tree, id, model.ContentDrawer)
	}
	q := price(t, newInput(tree, 800, 900, 500))

	// the divider runs through top and bottom
	assert.InDelta(t, 0.900*0.492*42*1.3, q.Breakdown.Separators, 1e-9)
}

func TestPrice_Socle(t *testing.T) {
	in := newInput(model.NewTree(), 1200, 730, 400)
	in.Envelope.Socle = model.Socle{Kind: model.SocleMetalFeet, Height: 80}
	assert.InDelta(t, 4*4.5, price(t, in).Breakdown.Socle, 1e-9)

	in.Envelope.Socle = model.Socle{Kind: model.SocleWood, Height: 100}
	assert.InDelta(t, 1.2*0.1*0.4*1800, price(t, in).Breakdown.Socle, 1e-9)
}

func TestPrice_Doors(t *testing.T) {
	h := 730.0 - 38
	w := 1200.0 - 38
	area := w * h / 1e6

	tests := []struct {
		name    string
		content model.ContentKind
		handle  model.HandleType
		want    float64
	}{
		{"single", model.ContentDoor, "", 0.00005*w*h + 150*area + 2*6},
		{"double with bar handles", model.ContentDoorDouble, model.HandleBar, 0.00005*w*h + 150*area + 4*6 + 2*12},
		{"push", model.ContentDoorPush, model.HandleBar, 0.00005*w*h + 150*area + 2*6 + 9},
		{"flap", model.ContentDoorFlap, model.HandleKnob, 0.00005*w*h + 150*area + 2*6 + 45 + 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := zonetree.SetContent(model.NewTree(), model.RootID, tt.content)
			tree = zonetree.SetHandle(tree, model.RootID, tt.handle)
			q := price(t, newInput(tree, 1200, 730, 400))
			assert.InDelta(t, tt.want, q.Breakdown.Doors, 1e-9)
		})
	}
}

func TestPrice_GroupDoorUsesGroupRectangle(t *testing.T) {
	tree := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 3)
	tree, err := zonetree.Group(tree, []string{"root-0", "root-1"}, model.ContentDoorDouble)
	require.NoError(t, err)

	in := newInput(tree, 1200, 730, 400)
	q := price(t, in)

	var group model.Rect
	engine.Walk(tree, in.Envelope.ContentRect(), 19, func(f engine.Frame) {
		if f.Zone.ID == "root-g0" {
			group = f.Rect
		}
	})
	require.NotZero(t, group.Width)
	want := 0.00005*group.Area() + 150*group.Area()/1e6 + 4*6
	assert.InDelta(t, want, q.Breakdown.Doors, 1e-9)
}

func TestPrice_GlobalDoorsOnlyWithoutZoneDoors(t *testing.T) {
	in := newInput(model.NewTree(), 1200, 730, 400)
	in.GlobalDoors = &model.GlobalDoors{Content: model.ContentDoor, Count: 2}

	q := price(t, in)
	w, h := 600.0, 730.0
	assert.InDelta(t, 2*(0.00005*w*h+150*w*h/1e6+2*6), q.Breakdown.Doors, 1e-9)

	in.Tree = zonetree.SetContent(in.Tree, model.RootID, model.ContentDoor)
	q = price(t, in)
	w, h = 1162, 692
	assert.InDelta(t, 0.00005*w*h+150*w*h/1e6+2*6, q.Breakdown.Doors, 1e-9)
}

func TestPrice_Equipment(t *testing.T) {
	tree := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	tree = zonetree.SetContent(tree, "root-0", model.ContentDressing)
	tree = zonetree.SetCableHole(tree, "root-0", true)
	tree = zonetree.SetContent(tree, "root-1", model.ContentGlassShelf)
	tree = zonetree.SetGlassShelves(tree, "root-1", 3, nil)
	q := price(t, newInput(tree, 1219, 730, 400))

	w := 581.0
	rod := w / 1000 * 18
	glass := w * 392 / 1e6 * 3 * 120
	assert.InDelta(t, rod+8+glass, q.Breakdown.Equipment, 1e-6)
}

func TestPrice_OpenSpaceCarriesNothing(t *testing.T) {
	tree := zonetree.SetContent(model.NewTree(), model.RootID, model.ContentDrawer)
	tree = zonetree.SetLight(tree, model.RootID, true)
	tree = zonetree.SetOpenSpace(tree, model.RootID, true)

	q := price(t, newInput(tree, 1200, 730, 400))
	assert.Zero(t, q.Breakdown.Equipment)
	assert.Zero(t, q.Breakdown.Doors)
}

func TestPrice_UnknownContentIsFree(t *testing.T) {
	tree := zonetree.SetContent(model.NewTree(), model.RootID, model.ContentKind("hoverboard"))
	q := price(t, newInput(tree, 1200, 730, 400))

	assert.Zero(t, q.Breakdown.Equipment)
	assert.Empty(t, q.Anomalies)
}

func TestPrice_RejectsDegenerateDimensions(t *testing.T) {
	for _, dims := range [][3]float64{{0, 730, 400}, {1200, -5, 400}, {1200, 730, 0}, {math.NaN(), 730, 400}} {
		q, err := Price(newInput(model.NewTree(), dims[0], dims[1], dims[2]), DefaultRateTable(), Options{})
		assert.ErrorIs(t, err, model.ErrInvalidDimensions)
		assert.Nil(t, q)
	}
}

func TestPrice_RejectsInvalidRates(t *testing.T) {
	rates := DefaultRateTable()
	rates.Drawer.Base = math.NaN()

	_, err := Price(newInput(model.NewTree(), 1200, 730, 400), rates, Options{})
	assert.ErrorIs(t, err, ErrInvalidRates)

	var re *RateError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "drawer.base", re.Field)
}

func TestPrice_NonFiniteAmountsBecomeAnomalies(t *testing.T) {
	q := price(t, newInput(model.NewTree(), 1e200, 1e200, 400))

	require.Len(t, q.Anomalies, 1)
	assert.Equal(t, ComponentBack, q.Anomalies[0].Component)
	assert.False(t, math.IsInf(q.Total, 0))
	assert.False(t, math.IsNaN(q.Total))
	assert.Zero(t, q.Breakdown.Back)
}

func TestPrice_UsesResolverCache(t *testing.T) {
	r := engine.NewResolver(4, engine.DefaultOptions())
	in := newInput(model.NewTree(), 1200, 730, 400)

	a, err := Price(in, DefaultRateTable(), Options{Resolver: r})
	require.NoError(t, err)
	b, err := Price(in, DefaultRateTable(), Options{Resolver: r})
	require.NoError(t, err)

	assert.Equal(t, a.Total, b.Total)
	hits, _ := r.Stats()
	assert.Equal(t, 1, hits)
}

func TestHingesPerLeaf(t *testing.T) {
	assert.Equal(t, 2, HingesPerLeaf(700))
	assert.Equal(t, 2, HingesPerLeaf(900))
	assert.Equal(t, 3, HingesPerLeaf(1200))
	assert.Equal(t, 4, HingesPerLeaf(2000))
	assert.Equal(t, 5, HingesPerLeaf(2400))
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("EUR", "en")
	require.NoError(t, err)
	assert.Equal(t, "EUR", f.Code())
	assert.Contains(t, f.Format(1234.5), "1,234.50")
	assert.Contains(t, f.Format(1234.5), "€")
	assert.Equal(t, "1,234.50", f.Number(1234.5))

	_, err = NewFormatter("XXXX", "en")
	assert.Error(t, err)
}
