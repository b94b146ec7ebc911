// Package pricing computes the price of a piece of furniture from its zone
// tree, its envelope, a rate table and the set of deleted panels. Board costs
// come from the same segments the renderers draw; equipment costs re-derive
// each zone's rectangle with the engine's tree walk, so prices never drift
// from geometry.
package pricing

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/piwi3910/CaseForge/internal/engine"
	"github.com/piwi3910/CaseForge/internal/model"
)

// Component groups quote lines.
type Component string

const (
	ComponentCasing     Component = "casing"
	ComponentBack       Component = "back"
	ComponentSocle      Component = "socle"
	ComponentEquipment  Component = "equipment"
	ComponentSeparators Component = "separators"
	ComponentDoors      Component = "doors"
)

// Line is one itemized amount of a quote.
type Line struct {
	Component Component `json:"component"`
	ZoneID    string    `json:"zoneId,omitempty"`
	SegmentID string    `json:"segmentId,omitempty"`
	Label     string    `json:"label"`
	Amount    float64   `json:"amount"`
}

// Breakdown totals the lines per component, unrounded.
type Breakdown struct {
	Casing     float64 `json:"casing"`
	Back       float64 `json:"back"`
	Socle      float64 `json:"socle"`
	Equipment  float64 `json:"equipment"`
	Separators float64 `json:"separators"`
	Doors      float64 `json:"doors"`
}

// Sum returns the unrounded total.
func (b Breakdown) Sum() float64 {
	return b.Casing + b.Back + b.Socle + b.Equipment + b.Separators + b.Doors
}

// Anomaly is an intermediate amount that was not a finite number and was
// priced as zero.
type Anomaly struct {
	Component Component `json:"component"`
	ZoneID    string    `json:"zoneId,omitempty"`
	Label     string    `json:"label"`
	Detail    string    `json:"detail"`
}

// Quote is the result of a price computation.
type Quote struct {
	// Total is rounded to the nearest currency unit.
	Total     float64   `json:"total"`
	Currency  string    `json:"currency"`
	Breakdown Breakdown `json:"breakdown"`
	Lines     []Line    `json:"lines"`
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// Options tune a price computation.
type Options struct {
	Logger *slog.Logger
	// Resolver, when set, memoizes the geometry the price is computed from.
	Resolver *engine.Resolver
	Engine   engine.Options
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Input is everything a price depends on.
type Input struct {
	Tree        *model.Zone
	Envelope    model.Envelope
	Materials   model.MaterialSelection
	Deleted     *model.DeletionSet
	GlobalDoors *model.GlobalDoors
}

// InputFrom collects the pricing input of a configuration.
func InputFrom(cfg *model.Configuration) Input {
	return Input{
		Tree:        cfg.Tree(),
		Envelope:    cfg.Envelope(),
		Materials:   cfg.MaterialSelection,
		Deleted:     cfg.DeletedPanelIDs,
		GlobalDoors: cfg.GlobalDoors,
	}
}

// PriceConfiguration prices a stored configuration.
func PriceConfiguration(cfg *model.Configuration, rates RateTable, opts Options) (*Quote, error) {
	return Price(InputFrom(cfg), rates, opts)
}

// Price computes the quote. Degenerate dimensions and invalid rates are
// rejected before anything is priced. Unknown content kinds and missing
// materials price as zero.
func Price(in Input, rates RateTable, opts Options) (*Quote, error) {
	if err := in.Envelope.Validate(); err != nil {
		return nil, err
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	tree := in.Tree
	if tree == nil {
		tree = model.NewTree()
	}

	var layout *engine.Layout
	var err error
	if opts.Resolver != nil {
		layout, err = opts.Resolver.Resolve(tree, in.Envelope)
	} else {
		layout, err = engine.Resolve(tree, in.Envelope, opts.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving geometry: %w", err)
	}

	p := &pricer{
		in:    in,
		rates: rates,
		log:   opts.logger(),
		quote: &Quote{Currency: rates.Currency},
	}
	p.structure(layout)
	p.socle()
	p.zones(tree)
	p.globalDoors(tree)

	p.quote.Total = math.Round(p.quote.Breakdown.Sum())
	return p.quote, nil
}

type pricer struct {
	in    Input
	rates RateTable
	log   *slog.Logger
	quote *Quote
}

// add records a line. Non-finite amounts are priced as zero and reported.
func (p *pricer) add(l Line) {
	if math.IsNaN(l.Amount) || math.IsInf(l.Amount, 0) {
		p.log.Warn("pricing anomaly, counted as zero",
			"component", l.Component, "zone", l.ZoneID, "label", l.Label, "amount", l.Amount)
		p.quote.Anomalies = append(p.quote.Anomalies, Anomaly{
			Component: l.Component,
			ZoneID:    l.ZoneID,
			Label:     l.Label,
			Detail:    fmt.Sprintf("amount %v", l.Amount),
		})
		l.Amount = 0
	}
	if l.Amount == 0 {
		return
	}
	p.quote.Lines = append(p.quote.Lines, l)
	b := &p.quote.Breakdown
	switch l.Component {
	case ComponentCasing:
		b.Casing += l.Amount
	case ComponentBack:
		b.Back += l.Amount
	case ComponentSocle:
		b.Socle += l.Amount
	case ComponentEquipment:
		b.Equipment += l.Amount
	case ComponentSeparators:
		b.Separators += l.Amount
	case ComponentDoors:
		b.Doors += l.Amount
	}
}

// boardRate is the €/m² of a named material including fabrication.
func (p *pricer) boardRate(name string) float64 {
	m, ok := p.rates.Material(name)
	if !ok {
		p.log.Warn("unknown material, boards priced as zero", "material", name)
		return 0
	}
	return m.PricePerM2 * p.rates.FabricationCoefficient
}

// sampleRate is the facade finish €/m² of a zone.
func (p *pricer) sampleRate(z *model.Zone) float64 {
	if z.ZoneColor != "" {
		if m, ok := p.rates.Material(z.ZoneColor); ok {
			return m.SampleRate
		}
	}
	if m, ok := p.rates.Material(p.in.Materials.FacadeMaterial()); ok {
		return m.SampleRate
	}
	if m, ok := p.rates.Material(p.in.Materials.Structure); ok {
		return m.SampleRate
	}
	return 0
}

// structure prices every visible board: sides, top, bottom and back at
// their material rates, separators at the structure rate.
func (p *pricer) structure(layout *engine.Layout) {
	structRate := p.boardRate(p.in.Materials.Structure)
	backRate := structRate
	if back := p.in.Materials.BackMaterial(); back != p.in.Materials.Structure {
		backRate = p.boardRate(back)
	}
	for _, s := range layout.Segments {
		if p.in.Deleted.Hidden(s) {
			continue
		}
		line := Line{SegmentID: s.ID, ZoneID: s.ZoneID, Label: string(s.Kind)}
		switch {
		case s.Kind.IsCasing():
			line.Component = ComponentCasing
			line.Amount = s.FaceArea() * structRate
		case s.Kind == model.PanelBack:
			line.Component = ComponentBack
			line.Amount = s.FaceArea() * backRate
		case s.Kind == model.PanelSeparator:
			line.Component = ComponentSeparators
			line.Amount = s.FaceArea() * structRate
		default:
			continue
		}
		p.add(line)
	}
}

func (p *pricer) socle() {
	dims := p.in.Envelope.Dimensions
	s := p.in.Envelope.Socle
	switch s.Kind {
	case model.SocleMetalFeet:
		interval := p.rates.Socle.FootInterval
		if interval <= 0 {
			interval = dims.Width
		}
		feet := int(math.Ceil(dims.Width/interval)) * 2
		p.add(Line{
			Component: ComponentSocle,
			Label:     fmt.Sprintf("%d metal feet", feet),
			Amount:    float64(feet) * p.rates.Socle.FootPrice,
		})
	case model.SocleWood:
		volume := dims.Width * s.Height * dims.Depth / 1e9
		p.add(Line{
			Component: ComponentSocle,
			Label:     "wood socle",
			Amount:    volume * p.rates.Socle.WoodPerM3,
		})
	}
}

// zones prices doors and equipment zone by zone, re-deriving each rectangle
// with the same walk as the solver.
func (p *pricer) zones(tree *model.Zone) {
	env := p.in.Envelope
	depth := env.Dimensions.Depth
	carcass := env.CarcassDepth()
	engine.Walk(tree, env.ContentRect(), env.Thickness, func(f engine.Frame) {
		z := f.Zone
		w, h := f.Rect.Width, f.Rect.Height
		if f.Children != nil {
			if z.DoorContent.IsDoor() {
				p.door(z, z.DoorContent, w, h)
			}
			return
		}
		if z.IsOpenSpace {
			return
		}

		door := z.Content
		if z.DoorContent.IsDoor() {
			door = z.DoorContent
		}
		if door.IsDoor() {
			p.door(z, door, w, h)
		}

		switch c := z.Content.Effective(); c {
		case model.ContentDrawer, model.ContentPushDrawer:
			p.drawer(z, c, w, h, depth)
		case model.ContentShelf:
			p.add(Line{
				Component: ComponentSeparators,
				ZoneID:    z.ID,
				Label:     "shelf",
				Amount:    w * carcass / 1e6 * p.boardRate(p.in.Materials.Structure),
			})
		case model.ContentGlassShelf:
			count := z.GlassShelfCount
			if count < 1 {
				count = 1
			}
			p.add(Line{
				Component: ComponentEquipment,
				ZoneID:    z.ID,
				Label:     fmt.Sprintf("%d glass shelves", count),
				Amount:    w * carcass / 1e6 * float64(count) * p.rates.GlassShelfPerM2,
			})
		case model.ContentPegboard:
			p.add(Line{
				Component: ComponentEquipment,
				ZoneID:    z.ID,
				Label:     "pegboard",
				Amount:    w * h / 1e6 * p.rates.PegboardPerM2,
			})
		}

		if z.Content == model.ContentDressing || z.HasDressing {
			p.add(Line{Component: ComponentEquipment, ZoneID: z.ID, Label: "wardrobe rod", Amount: w / 1000 * p.rates.RodPerMeter})
		}
		if z.HasLight {
			p.add(Line{Component: ComponentEquipment, ZoneID: z.ID, Label: "lighting", Amount: w / 1000 * p.rates.LightPerMeter})
		}
		if z.HasCableHole {
			p.add(Line{Component: ComponentEquipment, ZoneID: z.ID, Label: "cable pass-through", Amount: p.rates.CableHole})
		}
	})
}

// drawer prices one drawer box with its front.
func (p *pricer) drawer(z *model.Zone, kind model.ContentKind, w, h, depth float64) {
	p.add(Line{
		Component: ComponentEquipment,
		ZoneID:    z.ID,
		Label:     string(kind),
		Amount:    p.rates.Drawer.Base + p.rates.Drawer.Coefficient*w*depth + p.sampleRate(z)*w*h/1e6,
	})
	p.opening(z, kind, 1, ComponentEquipment)
}

// door prices a door front of w×h mm.
func (p *pricer) door(z *model.Zone, kind model.ContentKind, w, h float64) {
	leaves := kind.DoorLeaves()
	hinges := leaves * HingesPerLeaf(h)
	amount := p.rates.Door.Coefficient*w*h + p.sampleRate(z)*w*h/1e6
	if kind == model.ContentDoorFlap {
		hinges = 2
		amount += p.rates.Door.FlapMechanism
	}
	amount += float64(hinges) * p.rates.Door.HingePrice
	p.add(Line{
		Component: ComponentDoors,
		ZoneID:    z.ID,
		Label:     fmt.Sprintf("%s, %d hinges", kind, hinges),
		Amount:    amount,
	})
	p.opening(z, kind, leaves, ComponentDoors)
}

// opening prices how fronts open: a push latch, or a handle per front.
func (p *pricer) opening(z *model.Zone, kind model.ContentKind, fronts int, comp Component) {
	if kind.IsPush() {
		p.add(Line{Component: comp, ZoneID: z.ID, Label: "push latch", Amount: float64(fronts) * p.rates.PushLatch})
		return
	}
	if z.HandleType.Fitted() {
		p.add(Line{
			Component: comp,
			ZoneID:    z.ID,
			Label:     string(z.HandleType) + " handle",
			Amount:    float64(fronts) * p.rates.Handles[z.HandleType],
		})
	}
}

// globalDoors prices envelope-wide doors, only when no zone has a door.
func (p *pricer) globalDoors(tree *model.Zone) {
	g := p.in.GlobalDoors
	if g == nil || g.Count <= 0 || !g.Content.IsDoor() || hasZoneDoor(tree) {
		return
	}
	env := p.in.Envelope
	w := env.Dimensions.Width / float64(g.Count)
	h := env.Dimensions.Height - env.Socle.Offset()
	front := &model.Zone{ID: "global"}
	for i := 0; i < g.Count; i++ {
		p.door(front, g.Content, w, h)
	}
}

func hasZoneDoor(z *model.Zone) bool {
	if z.DoorContent.IsDoor() || (z.IsLeaf() && z.Content.IsDoor()) {
		return true
	}
	for _, c := range z.Children {
		if hasZoneDoor(c) {
			return true
		}
	}
	return false
}
