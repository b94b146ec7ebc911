package engine

import (
	"log/slog"
	"math"
	"sort"

	"github.com/piwi3910/CaseForge/internal/model"
)

// span is an interval along one axis.
type span struct {
	lo, hi float64
	zoneID string
}

func touches(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func overlap(a0, a1, b0, b1 float64) float64 {
	return math.Min(a1, b1) - math.Max(a0, b0)
}

// mergeSpans sorts spans ascending and merges those that overlap or touch.
func mergeSpans(spans []span, tol float64) []span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	out := []span{spans[0]}
	for _, sp := range spans[1:] {
		last := &out[len(out)-1]
		if sp.lo <= last.hi+tol {
			last.hi = math.Max(last.hi, sp.hi)
			if last.zoneID != sp.zoneID {
				last.zoneID = ""
			}
			continue
		}
		out = append(out, sp)
	}
	return out
}

// tileSpans closes the gaps between consecutive spans at their midlines. The
// first span starts at extLo when it touches lo, the last ends at extHi when
// it touches hi.
func tileSpans(spans []span, lo, hi, extLo, extHi, tol float64) []span {
	out := append([]span(nil), spans...)
	for i := 0; i < len(out)-1; i++ {
		mid := (out[i].hi + out[i+1].lo) / 2
		out[i].hi = mid
		out[i+1].lo = mid
	}
	if n := len(out); n > 0 {
		if touches(out[0].lo, lo, tol) {
			out[0].lo = extLo
		}
		if touches(out[n-1].hi, hi, tol) {
			out[n-1].hi = extHi
		}
	}
	return out
}

// segmenter turns cells and separators into physical boards.
type segmenter struct {
	env     model.Envelope
	content model.Rect
	cells   []model.GridCell
	t       float64
	tol     float64
	socle   float64
	log     *slog.Logger
}

// Segment splits the carcass into boards that can each be selected, deleted
// and priced on their own:
//
//   - left and right sides, one segment per run of cells along the side,
//     running the full carcass height and owning the corners;
//   - top and bottom, one segment per cell along the edge, between the sides;
//   - one back segment per cell, covering the cell plus half of every
//     adjacent gap so the backs tile the whole carcass rear;
//   - every separator cut wherever a perpendicular boundary meets it from
//     either side, boundaries that line up for every envelope sharing a cut.
//
// Vertical separators touching the top or bottom run through to the outer
// face. Segment ids depend on structural paths and indices only, so they
// survive dimension changes. Segments come out in a stable order: sides, top,
// bottom, back, then separators in tree order.
func Segment(cells []model.GridCell, seps []model.Separator, env model.Envelope, opts Options) []model.Segment {
	s := &segmenter{
		env:     env,
		content: env.ContentRect(),
		cells:   cells,
		t:       env.Thickness,
		tol:     opts.tolerance(),
		socle:   env.Socle.Offset(),
		log:     opts.logger(),
	}
	var out []model.Segment
	out = append(out, s.side(model.PanelLeft)...)
	out = append(out, s.side(model.PanelRight)...)
	out = append(out, s.edge(model.PanelTop)...)
	out = append(out, s.edge(model.PanelBottom)...)
	out = append(out, s.backs()...)
	for _, sep := range seps {
		out = append(out, s.separator(sep)...)
	}
	return out
}

// structural builds a board standing in front of the back panel.
func (s *segmenter) structural(front model.Rect) (model.Vec3, model.Vec3) {
	depth := s.env.CarcassDepth()
	pos := model.Vec3{X: front.CenterX(), Y: front.CenterY(), Z: s.env.BackThickness + depth/2}
	size := model.Vec3{X: front.Width, Y: front.Height, Z: depth}
	return pos, size
}

func (s *segmenter) side(kind model.PanelKind) []model.Segment {
	W, H := s.env.Dimensions.Width, s.env.Dimensions.Height
	edge, x0 := s.content.Left(), 0.0
	if kind == model.PanelRight {
		edge, x0 = s.content.Right(), W-s.t
	}
	var spans []span
	for _, c := range s.cells {
		e := c.Left()
		if kind == model.PanelRight {
			e = c.Right()
		}
		if touches(e, edge, s.tol) {
			spans = append(spans, span{lo: c.Bottom(), hi: c.Top(), zoneID: c.ZoneID})
		}
	}
	spans = tileSpans(mergeSpans(spans, s.tol), s.content.Bottom(), s.content.Top(), s.socle, H, s.tol)
	if len(spans) == 0 {
		spans = []span{{lo: s.socle, hi: H}}
	}
	out := make([]model.Segment, 0, len(spans))
	// indexed top to bottom
	for k := range spans {
		sp := spans[len(spans)-1-k]
		pos, size := s.structural(model.RectFromEdges(x0, sp.lo, x0+s.t, sp.hi))
		out = append(out, model.Segment{
			ID:       model.BorderSegmentID(kind, k),
			Kind:     kind,
			Position: pos,
			Size:     size,
			ZoneID:   sp.zoneID,
		})
	}
	return out
}

func (s *segmenter) edge(kind model.PanelKind) []model.Segment {
	edge, y0 := s.content.Top(), s.content.Top()
	if kind == model.PanelBottom {
		edge, y0 = s.content.Bottom(), s.socle
	}
	var spans []span
	for _, c := range s.cells {
		e := c.Top()
		if kind == model.PanelBottom {
			e = c.Bottom()
		}
		if touches(e, edge, s.tol) {
			spans = append(spans, span{lo: c.Left(), hi: c.Right(), zoneID: c.ZoneID})
		}
	}
	spans = mergeSpans(spans, s.tol)
	if len(spans) == 0 {
		spans = []span{{lo: s.content.Left(), hi: s.content.Right()}}
	}
	out := make([]model.Segment, 0, len(spans))
	for k, sp := range spans {
		pos, size := s.structural(model.RectFromEdges(sp.lo, y0, sp.hi, y0+s.t))
		out = append(out, model.Segment{
			ID:       model.BorderSegmentID(kind, k),
			Kind:     kind,
			Position: pos,
			Size:     size,
			ZoneID:   sp.zoneID,
		})
	}
	return out
}

func (s *segmenter) backs() []model.Segment {
	bt := s.env.BackThickness
	if bt <= 0 {
		return nil
	}
	W, H := s.env.Dimensions.Width, s.env.Dimensions.Height
	half := s.t / 2
	out := make([]model.Segment, 0, len(s.cells))
	for _, c := range s.cells {
		left, right := c.Left()-half, c.Right()+half
		bottom, top := c.Bottom()-half, c.Top()+half
		if touches(c.Left(), s.content.Left(), s.tol) {
			left = 0
		}
		if touches(c.Right(), s.content.Right(), s.tol) {
			right = W
		}
		if touches(c.Top(), s.content.Top(), s.tol) {
			top = H
		}
		if touches(c.Bottom(), s.content.Bottom(), s.tol) {
			bottom = s.socle
		}
		front := model.RectFromEdges(left, bottom, right, top)
		out = append(out, model.Segment{
			ID:       model.BackSegmentID(c.ColPath, c.RowPath),
			Kind:     model.PanelBack,
			Position: model.Vec3{X: front.CenterX(), Y: front.CenterY(), Z: bt / 2},
			Size:     model.Vec3{X: front.Width, Y: front.Height, Z: bt},
			ZoneID:   c.ZoneID,
		})
	}
	return out
}

// separator cuts one nominal separator wherever a perpendicular boundary
// meets it. The number of pieces follows from the tree shape alone.
func (s *segmenter) separator(sep model.Separator) []model.Segment {
	r := sep.Rect
	vertical := sep.Orientation == model.OrientationVertical

	lo, hi := r.Left(), r.Right()
	if vertical {
		lo, hi = r.Bottom(), r.Top()
	}
	if !s.adjacent(sep) {
		s.log.Debug("separator has no adjacent cells", "key", sep.Key.String(), "zone", sep.ZoneID)
	}

	bounds := make([]float64, 0, len(sep.Cuts)+2)
	bounds = append(bounds, lo)
	for _, c := range sep.Cuts {
		bounds = append(bounds, c.At)
	}
	sort.Float64s(bounds[1:])
	bounds = append(bounds, hi)
	if vertical {
		if touches(hi, s.content.Top(), s.tol) {
			bounds[len(bounds)-1] = hi + s.t
		}
		if touches(lo, s.content.Bottom(), s.tol) {
			bounds[0] = lo - s.t
		}
	}

	n := len(bounds) - 1
	out := make([]model.Segment, 0, n)
	for k := 0; k < n; k++ {
		var front model.Rect
		if vertical {
			// indexed top to bottom
			i := n - 1 - k
			front = model.RectFromEdges(r.Left(), bounds[i], r.Right(), bounds[i+1])
		} else {
			front = model.RectFromEdges(bounds[k], r.Bottom(), bounds[k+1], r.Top())
		}
		pos, size := s.structural(front)
		out = append(out, model.Segment{
			ID:          model.SeparatorSegmentID(sep.Key, k),
			Kind:        model.PanelSeparator,
			Orientation: sep.Orientation,
			Position:    pos,
			Size:        size,
			ZoneID:      sep.ZoneID,
			AutoHidden:  sep.AutoHidden,
		})
	}
	return out
}

// adjacent reports whether any cell touches either face of the separator.
func (s *segmenter) adjacent(sep model.Separator) bool {
	r := sep.Rect
	for _, c := range s.cells {
		if sep.Orientation == model.OrientationVertical {
			if overlap(c.Bottom(), c.Top(), r.Bottom(), r.Top()) > s.tol &&
				(touches(c.Right(), r.Left(), s.tol) || touches(c.Left(), r.Right(), s.tol)) {
				return true
			}
			continue
		}
		if overlap(c.Left(), c.Right(), r.Left(), r.Right()) > s.tol &&
			(touches(c.Bottom(), r.Top(), s.tol) || touches(c.Top(), r.Bottom(), s.tol)) {
			return true
		}
	}
	return false
}
