// Package zonetree implements the edit operators of the zone tree. Every
// operator returns a new tree and leaves its input untouched: nodes on the
// path to the edited zone are copied, every other subtree is shared. Operators
// given an unknown zone id return the input tree unchanged.
package zonetree

import "github.com/piwi3910/CaseForge/internal/model"

// Find returns the zone with the given id, or nil.
func Find(root *model.Zone, id string) *model.Zone {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, c := range root.Children {
		if z := Find(c, id); z != nil {
			return z
		}
	}
	return nil
}

// FindParent returns the parent of the zone with the given id and the zone's
// index among its siblings. The root has no parent: (nil, -1).
func FindParent(root *model.Zone, id string) (*model.Zone, int) {
	if root == nil {
		return nil, -1
	}
	for i, c := range root.Children {
		if c.ID == id {
			return root, i
		}
		if p, idx := FindParent(c, id); p != nil {
			return p, idx
		}
	}
	return nil, -1
}

// Visit calls fn for every zone in document order with its structural path.
func Visit(root *model.Zone, fn func(z *model.Zone, path model.Path)) {
	var walk func(z *model.Zone, path model.Path)
	walk = func(z *model.Zone, path model.Path) {
		fn(z, path)
		if z.IsLeaf() {
			return
		}
		for i, c := range z.Children {
			walk(c, path.Child(z.Kind, i))
		}
	}
	if root != nil {
		walk(root, nil)
	}
}

// update copies the nodes from root down to the zone with the given id and
// replaces that zone with fn's result. fn receives a shallow copy it may
// modify freely. When the id is missing, root is returned as is.
func update(root *model.Zone, id string, fn func(z *model.Zone) *model.Zone) *model.Zone {
	out, _ := rewrite(root, id, fn)
	return out
}

func rewrite(z *model.Zone, id string, fn func(z *model.Zone) *model.Zone) (*model.Zone, bool) {
	if z == nil {
		return nil, false
	}
	if z.ID == id {
		cp := *z
		return fn(&cp), true
	}
	for i, c := range z.Children {
		nc, ok := rewrite(c, id, fn)
		if !ok {
			continue
		}
		cp := *z
		cp.Children = append([]*model.Zone(nil), z.Children...)
		cp.Children[i] = nc
		return &cp, true
	}
	return z, false
}

// updateLeaf is update restricted to leaves; groups are left unchanged.
func updateLeaf(root *model.Zone, id string, fn func(z *model.Zone)) *model.Zone {
	target := Find(root, id)
	if target == nil || !target.IsLeaf() {
		return root
	}
	return update(root, id, func(z *model.Zone) *model.Zone {
		fn(z)
		return z
	})
}

// renumber returns a copy of the subtree with ids derived from id.
func renumber(z *model.Zone, id string) *model.Zone {
	cp := *z
	cp.ID = id
	if len(z.Children) > 0 {
		cp.Children = make([]*model.Zone, len(z.Children))
		for i, c := range z.Children {
			cp.Children[i] = renumber(c, model.ChildID(id, i))
		}
	}
	return &cp
}

// ids collects every zone id in the tree.
func ids(root *model.Zone) map[string]bool {
	out := make(map[string]bool)
	Visit(root, func(z *model.Zone, _ model.Path) {
		out[z.ID] = true
	})
	return out
}
