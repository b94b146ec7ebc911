package zonetree

import (
	"fmt"
	"math"

	"github.com/piwi3910/CaseForge/internal/model"
)

// ratioTolerance is the drift below which a ratio sum only gets its last entry adjusted.
const ratioTolerance = 1e-6

// IssueCode classifies a repair made by Normalize.
type IssueCode string

const (
	IssueRatioDrift      IssueCode = "ratio-drift"       // sum off by rounding only
	IssueRatioSum        IssueCode = "ratio-sum"         // sum off, ratios rescaled
	IssueRatioMismatch   IssueCode = "ratio-mismatch"    // count differs from children, reset to even
	IssueRatioInvalid    IssueCode = "ratio-invalid"     // zero, negative or NaN entries, reset to even
	IssueEmptyContainer  IssueCode = "empty-container"   // split without children, made a leaf
	IssueLeafChildren    IssueCode = "leaf-children"     // leaf carrying children, dropped
	IssueMissingID       IssueCode = "missing-id"        // id derived from the parent
	IssueDuplicateID     IssueCode = "duplicate-id"      // id made unique
	IssueUnknownContent  IssueCode = "unknown-content"   // treated as empty, kept as written
	IssueUnknownHandle   IssueCode = "unknown-handle"    // treated as none, kept as written
	IssueGlassShelfCount IssueCode = "glass-shelf-count" // negative count reset to 0
)

// Issue is one structural inconsistency found and repaired by Normalize.
type Issue struct {
	ZoneID  string    `json:"zoneId"`
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

// NeedsSave reports whether the repair changed the tree, so the caller should
// persist the corrected tree. Unknown kinds are reported but kept as written.
func (i Issue) NeedsSave() bool {
	return i.Code != IssueUnknownContent && i.Code != IssueUnknownHandle
}

// NormalizeRatios returns ratios for n children that sum to 100. A wrong count
// or a non-positive entry yields even ratios. A sum off by rounding only has
// its last entry adjusted, any other sum is rescaled first. The second result
// reports whether anything changed.
func NormalizeRatios(ratios []float64, n int) ([]float64, bool) {
	out, code := normalizeRatios(ratios, n)
	return out, code != ""
}

func normalizeRatios(ratios []float64, n int) ([]float64, IssueCode) {
	if n <= 0 {
		return nil, ""
	}
	if len(ratios) != n {
		return EvenRatios(n), IssueRatioMismatch
	}
	var sum float64
	for _, r := range ratios {
		if !(r > 0) || math.IsInf(r, 0) {
			return EvenRatios(n), IssueRatioInvalid
		}
		sum += r
	}
	out := append([]float64(nil), ratios...)
	var code IssueCode
	if math.Abs(sum-100) > ratioTolerance {
		for i := range out {
			out[i] = out[i] * 100 / sum
		}
		code = IssueRatioSum
	}
	var head float64
	for _, r := range out[:n-1] {
		head += r
	}
	last := 100 - head
	if last != out[n-1] && code == "" && math.Abs(last-out[n-1]) > 1e-12 {
		code = IssueRatioDrift
	}
	out[n-1] = last
	return out, code
}

// Normalize repairs structural inconsistencies and returns the repaired tree
// with one Issue per repair. It never fails; a nil root yields the default
// tree. The input is not modified.
func Normalize(root *model.Zone) (*model.Zone, []Issue) {
	if root == nil {
		return model.NewTree(), []Issue{{ZoneID: model.RootID, Code: IssueMissingID, Message: "no zone tree, using a single empty zone"}}
	}
	n := &normalizer{seen: make(map[string]bool)}
	out := n.zone(root.Clone(), "")
	return out, n.issues
}

type normalizer struct {
	seen   map[string]bool
	issues []Issue
}

func (n *normalizer) report(id string, code IssueCode, format string, args ...any) {
	n.issues = append(n.issues, Issue{ZoneID: id, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (n *normalizer) zone(z *model.Zone, derivedID string) *model.Zone {
	if z.ID == "" {
		z.ID = derivedID
		if z.ID == "" {
			z.ID = model.RootID
		}
		n.report(z.ID, IssueMissingID, "zone had no id")
	}
	if n.seen[z.ID] {
		old := z.ID
		for k := 1; n.seen[z.ID]; k++ {
			z.ID = fmt.Sprintf("%s_%d", old, k)
		}
		n.report(z.ID, IssueDuplicateID, "id %q already used, renamed", old)
	}
	n.seen[z.ID] = true

	switch {
	case z.Kind.IsSplit() && len(z.Children) == 0:
		n.report(z.ID, IssueEmptyContainer, "%s split without children", z.Kind)
		z.Kind = model.ZoneLeaf
		z.SplitRatios, z.SplitRatio = nil, nil
	case !z.Kind.IsSplit() && len(z.Children) > 0:
		n.report(z.ID, IssueLeafChildren, "leaf carried %d children", len(z.Children))
		z.Children = nil
		z.SplitRatios, z.SplitRatio = nil, nil
	}
	if z.Kind == "" {
		z.Kind = model.ZoneLeaf
	}

	if z.IsLeaf() {
		n.leaf(z)
		n.door(z)
		return z
	}

	ratios, code := normalizeRatios(z.Ratios(), len(z.Children))
	if code != "" {
		n.report(z.ID, code, "split ratios %v corrected to %v", z.Ratios(), ratios)
	}
	z.SplitRatios = ratios
	z.SplitRatio = nil
	n.door(z)
	for i, c := range z.Children {
		z.Children[i] = n.zone(c, model.ChildID(z.ID, i))
	}
	return z
}

func (n *normalizer) leaf(z *model.Zone) {
	if !z.Content.Known() {
		if s, ok := model.SuggestContent(string(z.Content)); ok {
			n.report(z.ID, IssueUnknownContent, "unknown content %q treated as empty (did you mean %q?)", z.Content, s)
		} else {
			n.report(z.ID, IssueUnknownContent, "unknown content %q treated as empty", z.Content)
		}
	}
	if !z.HandleType.Known() {
		if s, ok := model.SuggestHandle(string(z.HandleType)); ok {
			n.report(z.ID, IssueUnknownHandle, "unknown handle %q treated as none (did you mean %q?)", z.HandleType, s)
		} else {
			n.report(z.ID, IssueUnknownHandle, "unknown handle %q treated as none", z.HandleType)
		}
	}
	if z.GlassShelfCount < 0 {
		n.report(z.ID, IssueGlassShelfCount, "glass shelf count %d reset to 0", z.GlassShelfCount)
		z.GlassShelfCount = 0
		z.GlassShelfPositions = nil
	}
}

func (n *normalizer) door(z *model.Zone) {
	if z.DoorContent != "" && !z.DoorContent.Known() {
		n.report(z.ID, IssueUnknownContent, "unknown door content %q ignored", z.DoorContent)
	}
}
