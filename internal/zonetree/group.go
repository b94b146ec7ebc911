package zonetree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/CaseForge/internal/model"
)

var (
	ErrEmptySelection = errors.New("no zones selected")
	ErrZoneNotFound   = errors.New("zone not found")
	ErrRootSelected   = errors.New("the root zone cannot be grouped")
	ErrCrossParent    = errors.New("zones do not share a parent")
	ErrNotContiguous  = errors.New("zones are not consecutive siblings")
	ErrDuplicateZone  = errors.New("zone selected twice")
)

// GroupError reports why a group request was refused.
type GroupError struct {
	IDs []string
	Err error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("cannot group [%s]: %v", strings.Join(e.IDs, ", "), e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}

// Group wraps a run of consecutive siblings into a new container that takes
// their place. The container has the parent's direction; it receives the sum
// of the run's ratios in the parent and the run's ratios renormalized to 100
// inside. A non-empty doorContent puts a door across the whole group.
//
// The selection must be consecutive children of one parent, in any order.
// Anything else is refused with a *GroupError and the tree is not modified.
func Group(root *model.Zone, zoneIDs []string, doorContent model.ContentKind) (*model.Zone, error) {
	fail := func(err error) (*model.Zone, error) {
		return root, &GroupError{IDs: zoneIDs, Err: err}
	}
	if len(zoneIDs) == 0 {
		return fail(ErrEmptySelection)
	}

	var parent *model.Zone
	indices := make(map[int]bool, len(zoneIDs))
	first, last := -1, -1
	for _, id := range zoneIDs {
		if root != nil && root.ID == id {
			return fail(ErrRootSelected)
		}
		p, idx := FindParent(root, id)
		if p == nil {
			return fail(fmt.Errorf("%w: %s", ErrZoneNotFound, id))
		}
		if parent == nil {
			parent = p
		} else if p != parent {
			return fail(ErrCrossParent)
		}
		if indices[idx] {
			return fail(fmt.Errorf("%w: %s", ErrDuplicateZone, id))
		}
		indices[idx] = true
		if first < 0 || idx < first {
			first = idx
		}
		if idx > last {
			last = idx
		}
	}
	if last-first+1 != len(zoneIDs) {
		return fail(ErrNotContiguous)
	}

	ratios := parent.Ratios()
	run := ratios[first : last+1]
	var runTotal float64
	for _, r := range run {
		runTotal += r
	}
	inner, _ := NormalizeRatios(run, len(run))

	groupID := uniqueID(root, fmt.Sprintf("%s-g%d", parent.ID, first))
	group := &model.Zone{
		ID:          groupID,
		Kind:        parent.Kind,
		Children:    make([]*model.Zone, 0, len(run)),
		SplitRatios: inner,
	}
	if doorContent != "" && doorContent != model.ContentEmpty {
		group.DoorContent = doorContent
	}
	for i := first; i <= last; i++ {
		group.Children = append(group.Children, renumber(parent.Children[i], model.ChildID(groupID, i-first)))
	}

	out := update(root, parent.ID, func(z *model.Zone) *model.Zone {
		children := make([]*model.Zone, 0, len(z.Children)-len(run)+1)
		children = append(children, z.Children[:first]...)
		children = append(children, group)
		children = append(children, z.Children[last+1:]...)

		newRatios := make([]float64, 0, len(children))
		newRatios = append(newRatios, ratios[:first]...)
		newRatios = append(newRatios, runTotal)
		newRatios = append(newRatios, ratios[last+1:]...)
		newRatios, _ = NormalizeRatios(newRatios, len(children))

		z.Children = children
		z.SplitRatios = newRatios
		z.SplitRatio = nil
		return z
	})
	return out, nil
}

// uniqueID returns id, or id with a numeric suffix when the tree already uses it.
func uniqueID(root *model.Zone, id string) string {
	used := ids(root)
	if !used[id] {
		return id
	}
	for n := 1; ; n++ {
		cand := fmt.Sprintf("%s_%d", id, n)
		if !used[cand] {
			return cand
		}
	}
}
