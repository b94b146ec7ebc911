package model

import (
	"strconv"
	"strings"
)

// Step is one choice on the way from the root to a node: the kind of the split
// that was crossed and the child index taken.
type Step struct {
	Split ZoneKind `json:"split"`
	Index int      `json:"index"`
}

// Path is the structural path of a node. It only depends on tree shape, never
// on dimensions, and is the seed of every panel identifier.
type Path []Step

// Child returns a copy of p extended by one step.
func (p Path) Child(split ZoneKind, index int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Split: split, Index: index})
}

// Columns returns the indices chosen at vertical splits, root first.
func (p Path) Columns() []int {
	return p.indices(ZoneVertical)
}

// Rows returns the indices chosen at horizontal splits, root first.
func (p Path) Rows() []int {
	return p.indices(ZoneHorizontal)
}

func (p Path) indices(kind ZoneKind) []int {
	out := []int{}
	for _, s := range p {
		if s.Split == kind {
			out = append(out, s.Index)
		}
	}
	return out
}

// String renders the path as "c1-r0-c2": c for a column taken at a vertical
// split, r for a row taken at a horizontal split. The root path is "".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = childMarker(s.Split) + strconv.Itoa(s.Index)
	}
	return strings.Join(parts, "-")
}

func childMarker(split ZoneKind) string {
	if split == ZoneVertical {
		return "c"
	}
	return "r"
}

func boundaryMarker(split ZoneKind) string {
	if split == ZoneVertical {
		return "v"
	}
	return "h"
}

// Equal reports whether both paths take the same steps.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// BoundaryKey identifies the boundary between children Index and Index+1 of
// the split node at Parent.
type BoundaryKey struct {
	Parent Path     `json:"parent"`
	Split  ZoneKind `json:"split"`
	Index  int      `json:"index"`
}

// String renders the key as the parent path followed by v<i> or h<i>,
// e.g. "c1-h0".
func (b BoundaryKey) String() string {
	marker := boundaryMarker(b.Split) + strconv.Itoa(b.Index)
	if len(b.Parent) == 0 {
		return marker
	}
	return b.Parent.String() + "-" + marker
}

// JoinIndices renders an index vector as "0_2_1".
func JoinIndices(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "_")
}
