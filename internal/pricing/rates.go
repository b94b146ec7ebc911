package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/CaseForge/internal/model"
)

// ErrInvalidRates is wrapped by every rate table validation failure.
var ErrInvalidRates = errors.New("invalid rate table")

// RateError names the offending rate.
type RateError struct {
	Field   string
	Message string
}

func (e *RateError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRates, e.Field, e.Message)
}

func (e *RateError) Unwrap() error {
	return ErrInvalidRates
}

// SocleRates price the base.
type SocleRates struct {
	// FootPrice is the price of one metal foot.
	FootPrice float64 `yaml:"foot-price" json:"foot_price"`
	// FootInterval is the maximum spacing between feet along the width, in mm.
	FootInterval float64 `yaml:"foot-interval" json:"foot_interval"`
	// WoodPerM3 is the price of a solid wood socle per cubic metre.
	WoodPerM3 float64 `yaml:"wood-per-m3" json:"wood_per_m3"`
}

// DrawerRates price one drawer: Base + Coefficient·width·depth (mm) plus the
// facade finish.
type DrawerRates struct {
	Base        float64 `yaml:"base" json:"base"`
	Coefficient float64 `yaml:"coefficient" json:"coefficient"`
}

// DoorRates price one door: Coefficient·width·height (mm) plus hinges plus
// the facade finish.
type DoorRates struct {
	Coefficient float64 `yaml:"coefficient" json:"coefficient"`
	HingePrice  float64 `yaml:"hinge-price" json:"hinge_price"`
	// FlapMechanism is added once per lift-up flap.
	FlapMechanism float64 `yaml:"flap-mechanism" json:"flap_mechanism"`
}

// RateTable holds every price the engine uses. Amounts are in Currency.
type RateTable struct {
	Currency string `yaml:"currency" json:"currency"`

	// FabricationCoefficient multiplies board material cost (casing, back,
	// separators, shelves) to cover cutting and edging.
	FabricationCoefficient float64 `yaml:"fabrication-coefficient" json:"fabrication_coefficient"`

	// Materials are looked up by name from the configuration's material selection.
	Materials []model.Material `yaml:"materials" json:"materials"`

	Socle  SocleRates  `yaml:"socle" json:"socle"`
	Drawer DrawerRates `yaml:"drawer" json:"drawer"`
	Door   DoorRates   `yaml:"door" json:"door"`

	PushLatch       float64 `yaml:"push-latch" json:"push_latch"`
	GlassShelfPerM2 float64 `yaml:"glass-shelf-per-m2" json:"glass_shelf_per_m2"`
	PegboardPerM2   float64 `yaml:"pegboard-per-m2" json:"pegboard_per_m2"`
	RodPerMeter     float64 `yaml:"rod-per-meter" json:"rod_per_meter"`
	LightPerMeter   float64 `yaml:"light-per-meter" json:"light_per_meter"`
	CableHole       float64 `yaml:"cable-hole" json:"cable_hole"`

	// Handles is the flat fee per front, keyed by handle type.
	Handles map[model.HandleType]float64 `yaml:"handles" json:"handles"`
}

// DefaultRateTable returns the built-in rates.
func DefaultRateTable() RateTable {
	return RateTable{
		Currency:               "EUR",
		FabricationCoefficient: 1.3,
		Materials:              model.DefaultInventory().Materials,
		Socle: SocleRates{
			FootPrice:    4.5,
			FootInterval: 600,
			WoodPerM3:    1800,
		},
		Drawer: DrawerRates{
			Base:        35,
			Coefficient: 0.0001,
		},
		Door: DoorRates{
			Coefficient:   0.00005,
			HingePrice:    6,
			FlapMechanism: 45,
		},
		PushLatch:       9,
		GlassShelfPerM2: 120,
		PegboardPerM2:   65,
		RodPerMeter:     18,
		LightPerMeter:   55,
		CableHole:       8,
		Handles: map[model.HandleType]float64{
			model.HandleBar:      12,
			model.HandleKnob:     7,
			model.HandleRecessed: 15,
			model.HandleEdge:     10,
		},
	}
}

// Validate rejects negative and non-finite rates.
func (r RateTable) Validate() error {
	check := func(field string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &RateError{Field: field, Message: "is not a finite number"}
		}
		if v < 0 {
			return &RateError{Field: field, Message: "must not be negative"}
		}
		return nil
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"fabrication-coefficient", r.FabricationCoefficient},
		{"socle.foot-price", r.Socle.FootPrice},
		{"socle.foot-interval", r.Socle.FootInterval},
		{"socle.wood-per-m3", r.Socle.WoodPerM3},
		{"drawer.base", r.Drawer.Base},
		{"drawer.coefficient", r.Drawer.Coefficient},
		{"door.coefficient", r.Door.Coefficient},
		{"door.hinge-price", r.Door.HingePrice},
		{"door.flap-mechanism", r.Door.FlapMechanism},
		{"push-latch", r.PushLatch},
		{"glass-shelf-per-m2", r.GlassShelfPerM2},
		{"pegboard-per-m2", r.PegboardPerM2},
		{"rod-per-meter", r.RodPerMeter},
		{"light-per-meter", r.LightPerMeter},
		{"cable-hole", r.CableHole},
	}
	for _, f := range fields {
		if err := check(f.name, f.v); err != nil {
			return err
		}
	}
	for h, v := range r.Handles {
		if err := check("handles."+string(h), v); err != nil {
			return err
		}
	}
	for _, m := range r.Materials {
		if err := check("materials."+m.Name+".price_per_m2", m.PricePerM2); err != nil {
			return err
		}
		if err := check("materials."+m.Name+".sample_rate", m.SampleRate); err != nil {
			return err
		}
	}
	return nil
}

// Material returns the material with the given name.
func (r RateTable) Material(name string) (model.Material, bool) {
	for _, m := range r.Materials {
		if m.Name == name {
			return m, true
		}
	}
	return model.Material{}, false
}

// WithInventory returns a copy of the table using the inventory's materials.
func (r RateTable) WithInventory(inv model.Inventory) RateTable {
	r.Materials = append([]model.Material(nil), inv.Materials...)
	return r
}

// HingesPerLeaf returns the number of hinges for a door leaf of the given
// height in mm.
func HingesPerLeaf(height float64) int {
	switch {
	case height <= 900:
		return 2
	case height <= 1600:
		return 3
	case height <= 2200:
		return 4
	default:
		return 5
	}
}
