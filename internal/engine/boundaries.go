package engine

import (
	"math"

	"github.com/piwi3910/CaseForge/internal/model"
)

// line is a coordinate along one axis written as
// origin·O + length·L + thick·T, where O and L are the start and size of the
// content area on that axis and T the board thickness. Lines depend on the
// tree only: two boundaries with equal lines coincide for every envelope.
type line struct {
	origin, length, thick float64
}

var oneThick = line{thick: 1}

func (a line) plus(b line) line {
	return line{a.origin + b.origin, a.length + b.length, a.thick + b.thick}
}

func (a line) minus(b line) line {
	return line{a.origin - b.origin, a.length - b.length, a.thick - b.thick}
}

func (a line) times(k float64) line {
	return line{a.origin * k, a.length * k, a.thick * k}
}

// equal compares coefficients. Ratio arithmetic leaves rounding noise in the
// last bits, nothing more.
func (a line) equal(b line) bool {
	const eps = 1e-9
	return math.Abs(a.origin-b.origin) <= eps &&
		math.Abs(a.length-b.length) <= eps &&
		math.Abs(a.thick-b.thick) <= eps
}

func (a line) eval(origin, length, t float64) float64 {
	return a.origin*origin + a.length*length + a.thick*t
}

type extent struct{ lo, hi line }

// bounds is a node's rectangle in lines.
type bounds struct{ x, y extent }

func contentBounds() bounds {
	full := extent{lo: line{origin: 1}, hi: line{origin: 1, length: 1}}
	return bounds{x: full, y: full}
}

// childBounds mirrors childRects.
func childBounds(z *model.Zone, b bounds) []bounds {
	n := len(z.Children)
	out := make([]bounds, n)
	if n == 1 {
		out[0] = b
		return out
	}
	ratios := z.Ratios()
	gaps := oneThick.times(float64(n - 1))
	if z.Kind == model.ZoneVertical {
		avail := b.x.hi.minus(b.x.lo).minus(gaps)
		cursor := b.x.lo
		for i := range out {
			end := cursor.plus(avail.times(ratios[i] / 100))
			if i == n-1 {
				end = b.x.hi
			}
			out[i] = bounds{x: extent{lo: cursor, hi: end}, y: b.y}
			cursor = end.plus(oneThick)
		}
		return out
	}
	avail := b.y.hi.minus(b.y.lo).minus(gaps)
	cursor := b.y.hi
	for i := range out {
		end := cursor.minus(avail.times(ratios[i] / 100))
		if i == n-1 {
			end = b.y.lo
		}
		out[i] = bounds{x: b.x, y: extent{lo: end, hi: cursor}}
		cursor = end.minus(oneThick)
	}
	return out
}

type edge int

const (
	edgeLeft edge = iota
	edgeRight
	edgeTop
	edgeBottom
)

// crossing is a boundary inside a subtree that reaches one of its edges.
type crossing struct {
	key model.BoundaryKey
	at  line
}

// crossings collects the boundaries inside z that reach edge e of z, with
// their midlines along that edge. Splits parallel to the edge only reach it
// through their outermost child.
func crossings(z *model.Zone, path model.Path, b bounds, e edge, out []crossing) []crossing {
	if z.IsLeaf() || len(z.Children) == 0 {
		return out
	}
	kids := childBounds(z, b)
	n := len(z.Children)
	if n == 1 {
		return crossings(z.Children[0], path.Child(z.Kind, 0), kids[0], e, out)
	}
	alongY := e == edgeLeft || e == edgeRight
	if (z.Kind == model.ZoneHorizontal) != alongY {
		i := 0
		if e == edgeRight || e == edgeBottom {
			i = n - 1
		}
		return crossings(z.Children[i], path.Child(z.Kind, i), kids[i], e, out)
	}
	for i, c := range z.Children {
		if i < n-1 {
			out = append(out, crossing{
				key: model.BoundaryKey{Parent: path, Split: z.Kind, Index: i},
				at:  midline(z.Kind, kids[i]),
			})
		}
		out = crossings(c, path.Child(z.Kind, i), kids[i], e, out)
	}
	return out
}

// midline of the gap after a child.
func midline(split model.ZoneKind, child bounds) line {
	half := oneThick.times(0.5)
	if split == model.ZoneVertical {
		return child.x.hi.plus(half)
	}
	return child.y.lo.minus(half)
}

// separatorCuts returns the cuts of the boundary between children i and i+1
// of z: every perpendicular boundary reaching it from either side, with
// boundaries of the second child dropped when they line up with one of the
// first.
func separatorCuts(z *model.Zone, path model.Path, kids []bounds, i int, area model.Rect, t float64) []model.Cut {
	near, far := edgeRight, edgeLeft
	origin, length := area.Bottom(), area.Height
	if z.Kind == model.ZoneHorizontal {
		near, far = edgeBottom, edgeTop
		origin, length = area.Left(), area.Width
	}
	before := crossings(z.Children[i], path.Child(z.Kind, i), kids[i], near, nil)
	after := crossings(z.Children[i+1], path.Child(z.Kind, i+1), kids[i+1], far, nil)

	var out []model.Cut
	add := func(c crossing) {
		out = append(out, model.Cut{Key: c.key, At: c.at.eval(origin, length, t)})
	}
	for _, c := range before {
		add(c)
	}
next:
	for _, c := range after {
		for _, b := range before {
			if b.at.equal(c.at) {
				continue next
			}
		}
		add(c)
	}
	return out
}
