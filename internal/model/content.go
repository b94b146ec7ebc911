package model

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ContentKind is what a zone holds. It is kept as the raw string read from a
// configuration so that kinds this version does not know survive a round trip;
// unknown kinds behave like ContentEmpty.
type ContentKind string

const (
	ContentEmpty      ContentKind = "empty"
	ContentDrawer     ContentKind = "drawer"
	ContentPushDrawer ContentKind = "pushDrawer"
	ContentShelf      ContentKind = "shelf"
	ContentGlassShelf ContentKind = "glassShelf"
	ContentDressing   ContentKind = "dressing"
	ContentPegboard   ContentKind = "pegboard"
	ContentDoor       ContentKind = "door"      // single leaf, hinged left
	ContentDoorRight  ContentKind = "doorRight" // single leaf, hinged right
	ContentDoorDouble ContentKind = "doorDouble"
	ContentDoorPush   ContentKind = "doorPush" // handleless, push latch
	ContentDoorFlap   ContentKind = "doorFlap" // lift-up flap
)

// ContentKinds lists every kind this version understands.
var ContentKinds = []ContentKind{
	ContentEmpty,
	ContentDrawer,
	ContentPushDrawer,
	ContentShelf,
	ContentGlassShelf,
	ContentDressing,
	ContentPegboard,
	ContentDoor,
	ContentDoorRight,
	ContentDoorDouble,
	ContentDoorPush,
	ContentDoorFlap,
}

// Known reports whether c is one of ContentKinds. The zero value counts as empty.
func (c ContentKind) Known() bool {
	if c == "" {
		return true
	}
	for _, k := range ContentKinds {
		if k == c {
			return true
		}
	}
	return false
}

// Effective returns c, or ContentEmpty when c is blank or unknown.
func (c ContentKind) Effective() ContentKind {
	if c == "" || !c.Known() {
		return ContentEmpty
	}
	return c
}

func (c ContentKind) IsEmpty() bool {
	return c.Effective() == ContentEmpty
}

func (c ContentKind) IsDrawer() bool {
	switch c {
	case ContentDrawer, ContentPushDrawer:
		return true
	}
	return false
}

func (c ContentKind) IsDoor() bool {
	switch c {
	case ContentDoor, ContentDoorRight, ContentDoorDouble, ContentDoorPush, ContentDoorFlap:
		return true
	}
	return false
}

// IsPush reports whether the front opens with a push latch instead of a handle.
func (c ContentKind) IsPush() bool {
	return c == ContentPushDrawer || c == ContentDoorPush
}

// HasFront reports whether the content puts a visible front (door or drawer face)
// on the zone.
func (c ContentKind) HasFront() bool {
	return c.IsDoor() || c.IsDrawer()
}

// DoorLeaves returns the number of door leaves, 0 for non-doors.
func (c ContentKind) DoorLeaves() int {
	switch {
	case c == ContentDoorDouble:
		return 2
	case c.IsDoor():
		return 1
	}
	return 0
}

// HandleType is the handle fitted to a door or drawer front.
type HandleType string

const (
	HandleNone     HandleType = "none"
	HandleBar      HandleType = "bar"
	HandleKnob     HandleType = "knob"
	HandleRecessed HandleType = "recessed"
	HandleEdge     HandleType = "edge"
)

// HandleTypes lists every handle type this version understands.
var HandleTypes = []HandleType{HandleNone, HandleBar, HandleKnob, HandleRecessed, HandleEdge}

func (h HandleType) Known() bool {
	if h == "" {
		return true
	}
	for _, k := range HandleTypes {
		if k == h {
			return true
		}
	}
	return false
}

// Fitted reports whether a physical handle is mounted.
func (h HandleType) Fitted() bool {
	return h != "" && h != HandleNone && h.Known()
}

// suggestLimit scales the accepted edit distance with the word length.
func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// closest returns the candidate nearest to s by case-insensitive edit distance.
func closest(s string, candidates []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return "", false
	}
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(cand))
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = cand
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

// SuggestContent returns the known content kind closest to an unknown name,
// e.g. "drawr" -> "drawer".
func SuggestContent(s string) (ContentKind, bool) {
	names := make([]string, len(ContentKinds))
	for i, k := range ContentKinds {
		names[i] = string(k)
	}
	best, ok := closest(s, names)
	return ContentKind(best), ok
}

// SuggestHandle returns the known handle type closest to an unknown name.
func SuggestHandle(s string) (HandleType, bool) {
	names := make([]string, len(HandleTypes))
	for i, h := range HandleTypes {
		names[i] = string(h)
	}
	best, ok := closest(s, names)
	return HandleType(best), ok
}
