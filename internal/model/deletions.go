package model

import (
	"encoding/json"
	"sort"
)

// DeletionSet holds the ids of panels the user removed. Membership hides the
// panel and drops its cost; it never changes any geometry. Ids that no longer
// match a panel are harmless and get dropped by Prune.
type DeletionSet struct {
	ids map[string]struct{}
}

// NewDeletionSet returns a set holding ids.
func NewDeletionSet(ids ...string) *DeletionSet {
	d := &DeletionSet{ids: make(map[string]struct{}, len(ids))}
	d.BulkDelete(ids)
	return d
}

// Has reports whether the panel is deleted. A nil set deletes nothing.
func (d *DeletionSet) Has(id string) bool {
	if d == nil || d.ids == nil {
		return false
	}
	_, ok := d.ids[id]
	return ok
}

// Toggle flips membership and returns whether id is now deleted.
func (d *DeletionSet) Toggle(id string) bool {
	if d.Has(id) {
		delete(d.ids, id)
		return false
	}
	d.add(id)
	return true
}

// BulkDelete marks every id as deleted.
func (d *DeletionSet) BulkDelete(ids []string) {
	for _, id := range ids {
		d.add(id)
	}
}

// BulkRestore clears every id.
func (d *DeletionSet) BulkRestore(ids []string) {
	if d.ids == nil {
		return
	}
	for _, id := range ids {
		delete(d.ids, id)
	}
}

func (d *DeletionSet) add(id string) {
	if id == "" {
		return
	}
	if d.ids == nil {
		d.ids = make(map[string]struct{})
	}
	d.ids[id] = struct{}{}
}

// Len returns the number of deleted ids.
func (d *DeletionSet) Len() int {
	if d == nil {
		return 0
	}
	return len(d.ids)
}

// IDs returns the deleted ids in sorted order.
func (d *DeletionSet) IDs() []string {
	out := make([]string, 0, d.Len())
	if d == nil {
		return out
	}
	for id := range d.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (d *DeletionSet) Clone() *DeletionSet {
	return NewDeletionSet(d.IDs()...)
}

// Prune drops ids that are not in valid and returns them, sorted.
func (d *DeletionSet) Prune(valid map[string]bool) []string {
	var stale []string
	for _, id := range d.IDs() {
		if !valid[id] {
			stale = append(stale, id)
			delete(d.ids, id)
		}
	}
	return stale
}

// Hidden reports whether a segment is left out of drawing and pricing, either
// deleted explicitly or auto-hidden between drawers.
func (d *DeletionSet) Hidden(s Segment) bool {
	return s.AutoHidden || d.Has(s.ID)
}

func (d *DeletionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.IDs())
}

func (d *DeletionSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	d.ids = nil
	d.BulkDelete(ids)
	return nil
}
