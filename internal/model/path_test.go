package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestPathString(t *testing.T) {
	p := Path{}.Child(ZoneVertical, 1).Child(ZoneHorizontal, 0).Child(ZoneVertical, 2)

	if got := p.String(); got != "c1-r0-c2" {
		t.Errorf("String() = %q, want c1-r0-c2", got)
	}
	if got := JoinIndices(p.Columns()); got != "1_2" {
		t.Errorf("Columns = %q, want 1_2", got)
	}
	if got := JoinIndices(p.Rows()); got != "0" {
		t.Errorf("Rows = %q, want 0", got)
	}
	if Path(nil).String() != "" {
		t.Error("root path should render as empty")
	}
}

func TestPathChildDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = Step{Split: ZoneVertical, Index: 0}
	a := base.Child(ZoneHorizontal, 1)
	b := base.Child(ZoneHorizontal, 2)

	if a.Equal(b) {
		t.Errorf("sibling paths share storage: %s and %s", a, b)
	}
}

func TestBoundaryKeyString(t *testing.T) {
	root := BoundaryKey{Split: ZoneVertical, Index: 0}
	if root.String() != "v0" {
		t.Errorf("root boundary = %q", root.String())
	}
	nested := BoundaryKey{Parent: Path{}.Child(ZoneVertical, 1), Split: ZoneHorizontal, Index: 0}
	if nested.String() != "c1-h0" {
		t.Errorf("nested boundary = %q", nested.String())
	}
}

func TestDeletionSet(t *testing.T) {
	d := NewDeletionSet("b", "a")
	if !d.Has("a") || d.Len() != 2 {
		t.Fatalf("unexpected set %v", d.IDs())
	}
	if d.Toggle("a") {
		t.Error("toggling a deleted id should restore it")
	}
	if !d.Toggle("c") {
		t.Error("toggling a new id should delete it")
	}

	stale := d.Prune(map[string]bool{"c": true})
	if len(stale) != 1 || stale[0] != "b" {
		t.Errorf("Prune returned %v, want [b]", stale)
	}

	clone := d.Clone()
	clone.Toggle("c")
	if !d.Has("c") {
		t.Error("Clone shares state with the original")
	}

	var nilSet *DeletionSet
	if nilSet.Has("x") || nilSet.Len() != 0 {
		t.Error("a nil set should delete nothing")
	}
}

func TestDeletionSetJSON(t *testing.T) {
	data, err := json.Marshal(NewDeletionSet("panel-top-s0", "panel-back-c0-r"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["panel-back-c0-r","panel-top-s0"]` {
		t.Errorf("marshalled %s", data)
	}

	var d DeletionSet
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatal(err)
	}
	if !d.Has("panel-top-s0") || d.Len() != 2 {
		t.Errorf("unmarshalled %v", d.IDs())
	}
}

func TestDimensionsValidate(t *testing.T) {
	tests := []struct {
		name  string
		dims  Dimensions
		field string
	}{
		{"valid", Dimensions{Width: 1200, Height: 730, Depth: 400}, ""},
		{"zero width", Dimensions{Width: 0, Height: 730, Depth: 400}, "width"},
		{"negative depth", Dimensions{Width: 1200, Height: 730, Depth: -1}, "depth"},
		{"NaN height", Dimensions{Width: 1200, Height: math.NaN(), Depth: 400}, "height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dims.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Fatalf("expected ErrInvalidDimensions, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestEnvelopeValidateNoRoom(t *testing.T) {
	env := NewEnvelope(30, 730, 400)
	if err := env.Validate(); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected a too narrow envelope to be refused, got %v", err)
	}
	env = NewEnvelope(600, 100, 400)
	env.Socle = Socle{Kind: SocleWood, Height: 80}
	if err := env.Validate(); err == nil {
		t.Error("expected a socle taller than the room left to be refused")
	}
}

func TestEnvelopeValidateBackThickness(t *testing.T) {
	for _, bt := range []float64{math.NaN(), -1, 400} {
		env := NewEnvelope(1200, 730, 400)
		env.BackThickness = bt
		err := env.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "backThickness" {
			t.Errorf("back thickness %v: expected a backThickness error, got %v", bt, err)
		}
	}
}

func TestSuggestContent(t *testing.T) {
	if got, ok := SuggestContent("drawr"); !ok || got != ContentDrawer {
		t.Errorf("SuggestContent(drawr) = %q, %v", got, ok)
	}
	if _, ok := SuggestContent("xylophone-quartz"); ok {
		t.Error("expected no suggestion for an unrelated word")
	}
}
