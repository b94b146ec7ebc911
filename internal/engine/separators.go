package engine

import "github.com/piwi3910/CaseForge/internal/model"

// Separators returns one nominal board per boundary between consecutive
// children, in document order. A vertical split yields vertical boards
// spanning the split's full height, a horizontal split horizontal boards
// spanning its full width. Each board carries the perpendicular boundaries
// that meet it, found from the tree shape alone. When every row of a
// horizontal split is a drawer leaf its boards are marked AutoHidden.
func Separators(root *model.Zone, area model.Rect, t float64) []model.Separator {
	var out []model.Separator
	shapes := map[string]bounds{"": contentBounds()}
	Walk(root, area, t, func(f Frame) {
		if f.Children == nil {
			return
		}
		kids := childBounds(f.Zone, shapes[f.Path.String()])
		for i := range kids {
			shapes[f.Path.Child(f.Zone.Kind, i).String()] = kids[i]
		}
		n := len(f.Children)
		if n < 2 {
			return
		}
		hidden := f.Zone.Kind == model.ZoneHorizontal && allDrawers(f.Zone)
		for i := 0; i < n-1; i++ {
			a, b := f.Children[i], f.Children[i+1]
			sep := model.Separator{
				Key:        model.BoundaryKey{Parent: f.Path, Split: f.Zone.Kind, Index: i},
				ZoneID:     f.Zone.ID,
				Cuts:       separatorCuts(f.Zone, f.Path, kids, i, area, t),
				AutoHidden: hidden,
			}
			if f.Zone.Kind == model.ZoneVertical {
				sep.Orientation = model.OrientationVertical
				sep.Rect = model.RectFromEdges(a.Right(), f.Rect.Bottom(), b.Left(), f.Rect.Top())
			} else {
				sep.Orientation = model.OrientationHorizontal
				sep.Rect = model.RectFromEdges(f.Rect.Left(), b.Top(), f.Rect.Right(), a.Bottom())
			}
			out = append(out, sep)
		}
	})
	return out
}

func allDrawers(z *model.Zone) bool {
	if len(z.Children) == 0 {
		return false
	}
	for _, c := range z.Children {
		if !c.IsLeaf() || !c.Content.IsDrawer() {
			return false
		}
	}
	return true
}
