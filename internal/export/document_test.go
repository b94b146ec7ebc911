package export

import (
	"testing"

	"github.com/piwi3910/CaseForge/internal/engine"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/pricing"
	"github.com/piwi3910/CaseForge/internal/zonetree"
)

// buildTestDocument resolves a two-column cabinet: a drawer on the left and
// a door on the right, with a wooden socle.
func buildTestDocument(t *testing.T) Document {
	t.Helper()
	cfg := model.NewConfiguration("Hall cabinet", model.Dimensions{Width: 1200, Height: 730, Depth: 400})
	cfg.Socle = model.Socle{Kind: model.SocleWood, Height: 80}
	tree := zonetree.Split(model.NewTree(), model.RootID, model.ZoneVertical, 2)
	tree = zonetree.SetContent(tree, "root-0", model.ContentDrawer)
	tree = zonetree.SetContent(tree, "root-1", model.ContentDoor)
	cfg.ZoneTree = tree

	res, err := engine.ResolveConfiguration(&cfg, engine.DefaultOptions())
	if err != nil {
		t.Fatalf("ResolveConfiguration returned error: %v", err)
	}
	quote, err := pricing.PriceConfiguration(&cfg, pricing.DefaultRateTable(), pricing.Options{})
	if err != nil {
		t.Fatalf("PriceConfiguration returned error: %v", err)
	}
	money, err := pricing.NewFormatter(quote.Currency, "en")
	if err != nil {
		t.Fatalf("NewFormatter returned error: %v", err)
	}
	return NewDocument(&cfg, res.Layout, quote, money)
}

func TestBuildScene_OrdersBacksFirst(t *testing.T) {
	doc := buildTestDocument(t)
	sc := doc.Scene()

	if sc.Width != 1200 || sc.Height != 730 {
		t.Errorf("scene size = %vx%v, want 1200x730", sc.Width, sc.Height)
	}
	if sc.Socle != 80 {
		t.Errorf("socle = %v, want 80", sc.Socle)
	}
	if len(sc.Shapes) == 0 {
		t.Fatal("scene has no shapes")
	}
	seenFront := false
	for _, s := range sc.Shapes {
		if s.Kind == model.PanelBack && seenFront {
			t.Errorf("back %s drawn after a carcass board", s.SegmentID)
		}
		if s.Kind != model.PanelBack {
			seenFront = true
		}
	}
	if last := sc.Shapes[len(sc.Shapes)-1]; last.Kind != model.PanelSeparator {
		t.Errorf("last shape kind = %s, want separator on top", last.Kind)
	}
}

func TestBuildScene_SkipsAutoHidden(t *testing.T) {
	doc := buildTestDocument(t)
	doc.Layout.Segments[0].AutoHidden = true
	hidden := doc.Layout.Segments[0].ID

	for _, s := range doc.Scene().Shapes {
		if s.SegmentID == hidden {
			t.Errorf("auto-hidden segment %s is in the scene", hidden)
		}
	}
}

func TestBuildScene_FlagsDeleted(t *testing.T) {
	doc := buildTestDocument(t)
	doc.Deleted = model.NewDeletionSet("panel-top-s0")

	found := false
	for _, s := range doc.Scene().Shapes {
		if s.SegmentID == "panel-top-s0" {
			found = true
			if !s.Deleted {
				t.Error("deleted top is not flagged")
			}
		} else if s.Deleted {
			t.Errorf("%s flagged as deleted", s.SegmentID)
		}
	}
	if !found {
		t.Error("deleted top should stay in the scene")
	}
}

func TestBuildScene_Labels(t *testing.T) {
	doc := buildTestDocument(t)
	doc.Tree = zonetree.SetOpenSpace(doc.Tree, "root-1", true)

	got := make(map[string]string)
	for _, l := range doc.Scene().Labels {
		got[l.ZoneID] = l.Text
	}
	if got["root-0"] != "Drawer" {
		t.Errorf("root-0 label = %q, want Drawer", got["root-0"])
	}
	if got["root-1"] != "Open" {
		t.Errorf("root-1 label = %q, want Open", got["root-1"])
	}
}

func TestDocument_TitleFallback(t *testing.T) {
	doc := buildTestDocument(t)
	doc.Name = ""
	if got := doc.title(); got != "Furniture 1200x730x400" {
		t.Errorf("title() = %q", got)
	}
}

func TestDocument_MoneyWithoutFormatter(t *testing.T) {
	doc := buildTestDocument(t)
	doc.Money = nil
	if got := doc.money(12.5); got != "12.50 EUR" {
		t.Errorf("money(12.5) = %q, want %q", got, "12.50 EUR")
	}
}

func TestKindColor_Unknown(t *testing.T) {
	r, g, b := KindColor(model.PanelKind("bogus"))
	if r != 158 || g != 158 || b != 158 {
		t.Errorf("KindColor(bogus) = %d,%d,%d, want grey", r, g, b)
	}
}
