// Package history keeps bounded undo/redo stacks of editor snapshots. Zone
// trees are immutable values, so a snapshot only holds a reference to the
// tree; the deleted panel ids are copied.
package history

import "github.com/piwi3910/CaseForge/internal/model"

// DefaultMaxDepth is the number of undo steps kept when none is configured.
const DefaultMaxDepth = 50

// Snapshot captures the editable state at a point in time.
type Snapshot struct {
	Tree       *model.Zone
	Dimensions model.Dimensions
	Deleted    []string
	Label      string // Human-readable description (e.g. "Split root")
}

// History manages undo/redo stacks of snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// New creates a History keeping at most maxDepth undo steps; zero or
// negative means DefaultMaxDepth.
func New(maxDepth int) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &History{
		maxDepth: maxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo stack.
// It returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recently undone snapshot and pushes current onto the
// undo stack. It returns false when there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Labels returns the undo labels, most recent first.
func (h *History) Labels() []string {
	out := make([]string, 0, len(h.undoStack))
	for i := len(h.undoStack) - 1; i >= 0; i-- {
		out = append(out, h.undoStack[i].Label)
	}
	return out
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// MakeSnapshot captures the state of a configuration with a label.
func MakeSnapshot(cfg *model.Configuration, label string) Snapshot {
	return Snapshot{
		Tree:       cfg.Tree(),
		Dimensions: cfg.Dimensions,
		Deleted:    cfg.Deletions().IDs(),
		Label:      label,
	}
}

// Restore writes the snapshot back into cfg.
func (s Snapshot) Restore(cfg *model.Configuration) {
	cfg.ZoneTree = s.Tree
	cfg.Dimensions = s.Dimensions
	cfg.DeletedPanelIDs = model.NewDeletionSet(s.Deleted...)
}
