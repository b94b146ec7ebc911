package zonetree

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(issues []Issue) []IssueCode {
	out := make([]IssueCode, len(issues))
	for i, is := range issues {
		out[i] = is.Code
	}
	return out
}

func TestNormalizeRatios(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		n       int
		want    []float64
		changed bool
	}{
		{"already fine", []float64{30, 70}, 2, []float64{30, 70}, false},
		{"rescaled", []float64{1, 1, 2}, 3, []float64{25, 25, 50}, true},
		{"count mismatch", []float64{50, 50}, 4, []float64{25, 25, 25, 25}, true},
		{"negative", []float64{-20, 120}, 2, []float64{50, 50}, true},
		{"nan", []float64{math.NaN(), 50}, 2, []float64{50, 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := NormalizeRatios(tt.in, tt.n)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.changed, changed)
			assert.InDelta(t, 100, sum(got), 1e-12)
		})
	}
}

func TestNormalizeRatios_DriftAdjustsLastEntry(t *testing.T) {
	in := []float64{33.3333333, 33.3333333, 33.3333333}
	got, changed := NormalizeRatios(in, 3)

	assert.True(t, changed)
	assert.Equal(t, in[0], got[0])
	assert.Equal(t, in[1], got[1])
	assert.Equal(t, 100-in[0]-in[1], got[2])
}

func TestNormalize_RepairsTree(t *testing.T) {
	raw := `{
		"id": "root",
		"kind": "verticalSplit",
		"splitRatios": [40, 40],
		"children": [
			{"id": "root-0", "kind": "leaf", "content": "drawr"},
			{"id": "root-0", "kind": "horizontalSplit"},
			{"kind": "leaf", "children": [{"id": "x", "kind": "leaf"}]}
		]
	}`
	var root model.Zone
	require.NoError(t, json.Unmarshal([]byte(raw), &root))

	fixed, issues := Normalize(&root)

	assert.ElementsMatch(t, []IssueCode{
		IssueRatioMismatch,
		IssueUnknownContent,
		IssueDuplicateID,
		IssueEmptyContainer,
		IssueMissingID,
		IssueLeafChildren,
	}, codes(issues))

	assert.InDeltaSlice(t, []float64{33.33, 33.33, 33.34}, fixed.SplitRatios, 1e-9)
	require.Len(t, fixed.Children, 3)
	assert.Equal(t, "root-0_1", fixed.Children[1].ID)
	assert.True(t, fixed.Children[1].IsLeaf())
	assert.Equal(t, "root-2", fixed.Children[2].ID)
	assert.Empty(t, fixed.Children[2].Children)

	// unknown content survives as written
	assert.Equal(t, model.ContentKind("drawr"), fixed.Children[0].Content)
	assert.Contains(t, issues[1].Message, `"drawer"`)

	// input untouched
	assert.Len(t, root.SplitRatios, 2)
	assert.Equal(t, "root-0", root.Children[1].ID)
}

func TestNormalize_CleanTreeHasNoIssues(t *testing.T) {
	root := Split(model.NewTree(), model.RootID, model.ZoneVertical, 3)
	root = Split(root, "root-1", model.ZoneHorizontal, 2)
	root = SetContent(root, "root-1-0", model.ContentDrawer)

	fixed, issues := Normalize(root)

	assert.Empty(t, issues)
	assert.Equal(t, root, fixed)
	assert.NotSame(t, root, fixed)
}

func TestNormalize_NilTree(t *testing.T) {
	fixed, issues := Normalize(nil)

	require.Len(t, issues, 1)
	assert.True(t, fixed.IsLeaf())
	assert.Equal(t, model.RootID, fixed.ID)
}

func TestIssue_NeedsSave(t *testing.T) {
	assert.True(t, Issue{Code: IssueRatioSum}.NeedsSave())
	assert.False(t, Issue{Code: IssueUnknownContent}.NeedsSave())
	assert.False(t, Issue{Code: IssueUnknownHandle}.NeedsSave())
}
