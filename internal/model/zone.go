package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ZoneKind tells a leaf from a split container.
type ZoneKind string

const (
	ZoneLeaf       ZoneKind = "leaf"
	ZoneHorizontal ZoneKind = "horizontal" // children stacked top to bottom
	ZoneVertical   ZoneKind = "vertical"   // children side by side, left to right
)

// UnmarshalJSON accepts the long forms "horizontalSplit" and "verticalSplit"
// written by older configurations.
func (k *ZoneKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "", "leaf":
		*k = ZoneLeaf
	case "horizontal", "horizontalSplit":
		*k = ZoneHorizontal
	case "vertical", "verticalSplit":
		*k = ZoneVertical
	default:
		return fmt.Errorf("unknown zone kind %q", s)
	}
	return nil
}

// IsSplit reports whether k is a container kind.
func (k ZoneKind) IsSplit() bool {
	return k == ZoneHorizontal || k == ZoneVertical
}

// RootID is the id of the root zone of every tree.
const RootID = "root"

// Zone is a node of the zone tree. Trees are treated as immutable values:
// zonetree operators return new trees sharing unchanged subtrees, so a Zone
// reachable from a saved snapshot must never be modified in place.
type Zone struct {
	ID       string   `json:"id"`
	Kind     ZoneKind `json:"kind"`
	Children []*Zone  `json:"children,omitempty"`

	// SplitRatios holds one percentage per child, summing to 100.
	SplitRatios []float64 `json:"splitRatios,omitempty"`
	// SplitRatio is the compact form for exactly two children: the first
	// child's share, the second gets the complement.
	SplitRatio *float64 `json:"splitRatio,omitempty"`

	Content     ContentKind `json:"content,omitempty"`
	DoorContent ContentKind `json:"doorContent,omitempty"` // allowed on groups too

	HandleType          HandleType `json:"handleType,omitempty"`
	HasLight            bool       `json:"hasLight,omitempty"`
	HasCableHole        bool       `json:"hasCableHole,omitempty"`
	HasDressing         bool       `json:"hasDressing,omitempty"`
	GlassShelfCount     int        `json:"glassShelfCount,omitempty"`
	GlassShelfPositions []float64  `json:"glassShelfPositions,omitempty"` // % of zone height
	ZoneColor           string     `json:"zoneColor,omitempty"`
	IsOpenSpace         bool       `json:"isOpenSpace,omitempty"`
}

// NewLeaf returns an empty leaf with the given id.
func NewLeaf(id string) *Zone {
	return &Zone{ID: id, Kind: ZoneLeaf, Content: ContentEmpty}
}

// NewTree returns the default tree: a single empty root leaf.
func NewTree() *Zone {
	return NewLeaf(RootID)
}

// ChildID derives the id of the i-th child of the zone with the given id.
func ChildID(parentID string, i int) string {
	return parentID + "-" + strconv.Itoa(i)
}

func (z *Zone) IsLeaf() bool {
	return z.Kind != ZoneHorizontal && z.Kind != ZoneVertical
}

// Ratios returns the split percentages of a container, expanding the compact
// two-child form. Missing or mismatched ratios fall back to an even share;
// zonetree.Normalize repairs and reports those cases.
func (z *Zone) Ratios() []float64 {
	n := len(z.Children)
	if n == 0 {
		return nil
	}
	if len(z.SplitRatios) == n {
		return z.SplitRatios
	}
	if n == 2 && z.SplitRatio != nil {
		r := *z.SplitRatio
		return []float64{r, 100 - r}
	}
	even := make([]float64, n)
	for i := range even {
		even[i] = 100 / float64(n)
	}
	return even
}

// Clone returns a deep copy of the subtree rooted at z.
func (z *Zone) Clone() *Zone {
	if z == nil {
		return nil
	}
	cp := *z
	if z.SplitRatios != nil {
		cp.SplitRatios = append([]float64(nil), z.SplitRatios...)
	}
	if z.SplitRatio != nil {
		r := *z.SplitRatio
		cp.SplitRatio = &r
	}
	if z.GlassShelfPositions != nil {
		cp.GlassShelfPositions = append([]float64(nil), z.GlassShelfPositions...)
	}
	if z.Children != nil {
		cp.Children = make([]*Zone, len(z.Children))
		for i, c := range z.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

// Leaves returns the leaves of the subtree in document order.
func (z *Zone) Leaves() []*Zone {
	if z.IsLeaf() {
		return []*Zone{z}
	}
	var out []*Zone
	for _, c := range z.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Count returns the number of zones in the subtree, z included.
func (z *Zone) Count() int {
	n := 1
	for _, c := range z.Children {
		n += c.Count()
	}
	return n
}
