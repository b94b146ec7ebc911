package zonetree

import (
	"math"

	"github.com/piwi3910/CaseForge/internal/model"
)

// MinRatio is the smallest share MoveDivider leaves to either neighbour.
const MinRatio = 5.0

// Split turns the leaf with the given id into a container of count empty
// leaves laid out along dir. Ids of the new leaves are "<id>-0" … "<id>-(count-1)".
// Splitting a container, an unknown id, a count below 2 or a leaf kind as
// direction is a no-op.
func Split(root *model.Zone, id string, dir model.ZoneKind, count int) *model.Zone {
	target := Find(root, id)
	if target == nil || !target.IsLeaf() || !dir.IsSplit() || count < 2 {
		return root
	}
	return update(root, id, func(z *model.Zone) *model.Zone {
		children := make([]*model.Zone, count)
		for i := range children {
			children[i] = model.NewLeaf(model.ChildID(z.ID, i))
		}
		return &model.Zone{
			ID:          z.ID,
			Kind:        dir,
			Children:    children,
			SplitRatios: EvenRatios(count),
			DoorContent: z.DoorContent,
		}
	})
}

// EvenRatios returns n equal shares rounded to 1/100 %, the rounding
// remainder going to the last share so the total is exactly 100.
func EvenRatios(n int) []float64 {
	if n <= 0 {
		return nil
	}
	share := math.Round(100/float64(n)*100) / 100
	out := make([]float64, n)
	for i := 0; i < n-1; i++ {
		out[i] = share
	}
	out[n-1] = 100 - share*float64(n-1)
	return out
}

// SetContent sets the content of a leaf. Containers are left unchanged.
func SetContent(root *model.Zone, id string, content model.ContentKind) *model.Zone {
	return updateLeaf(root, id, func(z *model.Zone) {
		z.Content = content
	})
}

// SetDoorContent puts a door on any zone. On a container the door front
// covers the container's whole rectangle. An empty content removes the door.
func SetDoorContent(root *model.Zone, id string, content model.ContentKind) *model.Zone {
	if Find(root, id) == nil {
		return root
	}
	return update(root, id, func(z *model.Zone) *model.Zone {
		if content == model.ContentEmpty {
			content = ""
		}
		z.DoorContent = content
		return z
	})
}

// SetRatios replaces the split ratios of a container. The ratios must match
// the child count and be positive; they are renormalized to sum to 100.
func SetRatios(root *model.Zone, id string, ratios []float64) *model.Zone {
	target := Find(root, id)
	if target == nil || target.IsLeaf() || len(ratios) != len(target.Children) {
		return root
	}
	for _, r := range ratios {
		if !(r > 0) || math.IsInf(r, 0) {
			return root
		}
	}
	normalized, _ := NormalizeRatios(ratios, len(ratios))
	return update(root, id, func(z *model.Zone) *model.Zone {
		z.SplitRatios = normalized
		z.SplitRatio = nil
		return z
	})
}

// MoveDivider moves the divider after child boundary of a container so that
// child boundary gets share percent. The share is taken from or given to
// child boundary+1 only, so all other children keep their size. Both
// neighbours keep at least MinRatio.
func MoveDivider(root *model.Zone, id string, boundary int, share float64) *model.Zone {
	target := Find(root, id)
	if target == nil || target.IsLeaf() || boundary < 0 || boundary >= len(target.Children)-1 || math.IsNaN(share) {
		return root
	}
	ratios := append([]float64(nil), target.Ratios()...)
	pair := ratios[boundary] + ratios[boundary+1]
	lo := math.Min(MinRatio, pair/2)
	share = math.Max(lo, math.Min(pair-lo, share))
	ratios[boundary] = share
	ratios[boundary+1] = pair - share
	normalized, _ := NormalizeRatios(ratios, len(ratios))
	return update(root, id, func(z *model.Zone) *model.Zone {
		z.SplitRatios = normalized
		z.SplitRatio = nil
		return z
	})
}

// ResetZone turns the zone back into an empty leaf, discarding its
// descendants and every leaf attribute.
func ResetZone(root *model.Zone, id string) *model.Zone {
	if Find(root, id) == nil {
		return root
	}
	return update(root, id, func(z *model.Zone) *model.Zone {
		return model.NewLeaf(z.ID)
	})
}

// SetHandle sets the handle fitted to the leaf's front.
func SetHandle(root *model.Zone, id string, handle model.HandleType) *model.Zone {
	return updateLeaf(root, id, func(z *model.Zone) {
		z.HandleType = handle
	})
}

// SetLight switches the leaf's lighting strip.
func SetLight(root *model.Zone, id string, on bool) *model.Zone {
	return updateLeaf(root, id, func(z *model.Zone) {
		z.HasLight = on
	})
}

// SetCableHole switches the leaf's cable pass-through.
func SetCableHole(root *model.Zone, id string, on bool) *model.Zone {
	return updateLeaf(root, id, func(z *model.Zone) {
		z.HasCableHole = on
	})
}

// SetDressing switches the leaf's wardrobe rod.
func SetDressing(root *model.Zone, id string, on bool) *model.Zone {
	return updateLeaf(root, id, func(z *model.Zone) {
		z.HasDressing = on
	})
}

// SetGlassShelves sets the number of glass shelves of a leaf. With nil
// positions the shelves are spread evenly; positions are percentages of the
// zone height, clamped to [0, 100].
func SetGlassShelves(root *model.Zone, id string, count int, positions []float64) *model.Zone {
	if count < 0 {
		count = 0
	}
	if positions == nil || len(positions) != count {
		positions = make([]float64, count)
		for i := range positions {
			positions[i] = float64(i+1) * 100 / float64(count+1)
		}
	} else {
		positions = append([]float64(nil), positions...)
		for i, p := range positions {
			positions[i] = math.Max(0, math.Min(100, p))
		}
	}
	return updateLeaf(root, id, func(z *model.Zone) {
		z.GlassShelfCount = count
		z.GlassShelfPositions = positions
		if count == 0 {
			z.GlassShelfPositions = nil
		}
	})
}

// SetZoneColor overrides the facade material of a leaf. An empty name restores the default.
func SetZoneColor(root *model.Zone, id string, material string) *model.Zone {
	return updateLeaf(root, id, func(z *model.Zone) {
		z.ZoneColor = material
	})
}

// SetOpenSpace marks a leaf as open space: no fronts and no equipment.
func SetOpenSpace(root *model.Zone, id string, open bool) *model.Zone {
	return updateLeaf(root, id, func(z *model.Zone) {
		z.IsOpenSpace = open
	})
}
