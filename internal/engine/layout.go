package engine

import (
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/zonetree"
)

// Layout is the full geometric resolution of one tree inside one envelope.
// Layouts may be shared through a Resolver and must not be modified.
type Layout struct {
	Envelope   model.Envelope    `json:"envelope"`
	Content    model.Rect        `json:"content"`
	Cells      []model.GridCell  `json:"cells"`
	Separators []model.Separator `json:"separators"`
	Segments   []model.Segment   `json:"segments"`
}

// Resolve validates the envelope and resolves tree into cells, separators and
// segments. The tree is used as given; see ResolveConfiguration for the
// repairing variant.
func Resolve(tree *model.Zone, env model.Envelope, opts Options) (*Layout, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if tree == nil {
		tree = model.NewTree()
	}
	content := env.ContentRect()
	cells, err := Solve(tree, content, env.Thickness)
	if err != nil {
		return nil, err
	}
	seps := Separators(tree, content, env.Thickness)
	return &Layout{
		Envelope:   env,
		Content:    content,
		Cells:      cells,
		Separators: seps,
		Segments:   Segment(cells, seps, env, opts),
	}, nil
}

// Cell returns the cell of the leaf with the given zone id.
func (l *Layout) Cell(zoneID string) (model.GridCell, bool) {
	for _, c := range l.Cells {
		if c.ZoneID == zoneID {
			return c, true
		}
	}
	return model.GridCell{}, false
}

// Segment returns the segment with the given id.
func (l *Layout) Segment(id string) (model.Segment, bool) {
	for _, s := range l.Segments {
		if s.ID == id {
			return s, true
		}
	}
	return model.Segment{}, false
}

// SegmentIDs returns the set of segment ids.
func (l *Layout) SegmentIDs() map[string]bool {
	out := make(map[string]bool, len(l.Segments))
	for _, s := range l.Segments {
		out[s.ID] = true
	}
	return out
}

// Visible returns the segments that are neither deleted nor auto-hidden.
func (l *Layout) Visible(deleted *model.DeletionSet) []model.Segment {
	out := make([]model.Segment, 0, len(l.Segments))
	for _, s := range l.Segments {
		if !deleted.Hidden(s) {
			out = append(out, s)
		}
	}
	return out
}

// Panels returns the cut list of the visible segments.
func (l *Layout) Panels(deleted *model.DeletionSet, materials model.MaterialSelection) []model.Panel {
	return model.PanelsFromSegments(l.Segments, deleted, materials)
}

// Resolution is the outcome of resolving a stored configuration.
type Resolution struct {
	*Layout
	Issues []zonetree.Issue `json:"issues,omitempty"`
	// Pruned lists deleted panel ids that matched no segment and were dropped.
	Pruned []string `json:"pruned,omitempty"`
}

// ResolveConfiguration normalizes the configuration's tree, resolves it and
// drops deleted ids that no longer match a segment. When normalization
// repaired the tree, the repaired tree replaces the stored one so the caller
// can persist it.
func ResolveConfiguration(cfg *model.Configuration, opts Options) (*Resolution, error) {
	return resolveConfiguration(cfg, opts, func(tree *model.Zone, env model.Envelope) (*Layout, error) {
		return Resolve(tree, env, opts)
	})
}

// ResolveConfiguration is the package-level ResolveConfiguration going
// through the cache.
func (r *Resolver) ResolveConfiguration(cfg *model.Configuration) (*Resolution, error) {
	return resolveConfiguration(cfg, r.opts, r.Resolve)
}

func resolveConfiguration(cfg *model.Configuration, opts Options, resolve func(*model.Zone, model.Envelope) (*Layout, error)) (*Resolution, error) {
	tree, issues := zonetree.Normalize(cfg.Tree())
	for _, is := range issues {
		opts.logger().Warn("zone tree repaired", "configuration", cfg.ID, "zone", is.ZoneID, "code", is.Code, "detail", is.Message)
	}
	layout, err := resolve(tree, cfg.Envelope())
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		if is.NeedsSave() {
			cfg.ZoneTree = tree
			break
		}
	}
	pruned := cfg.Deletions().Prune(layout.SegmentIDs())
	if len(pruned) > 0 {
		opts.logger().Info("dropped stale panel deletions", "configuration", cfg.ID, "ids", pruned)
	}
	return &Resolution{Layout: layout, Issues: issues, Pruned: pruned}, nil
}
