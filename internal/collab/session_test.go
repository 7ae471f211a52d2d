package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenplan/planner/internal/array"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/engine"
	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
)

func testDocument(t *testing.T, planID string) *document.PlanDocument {
	t.Helper()
	doc := document.NewEmptyDocument(planID, "Test", "layer_test", document.Canvas{Width: 1000, Height: 1000})
	for _, it := range []scene.Item{
		&scene.Rectangle{Entity: scene.Entity{EntityID: "a", ObjectType: scene.ObjectTypeBed}, Rect: geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}},
		&scene.Rectangle{Entity: scene.Entity{EntityID: "b", ObjectType: scene.ObjectTypeBed}, Rect: geometry.Rect{X: 100, Y: 20, Width: 10, Height: 10}},
	} {
		o, err := document.Encode(it)
		require.NoError(t, err)
		doc.Objects = append(doc.Objects, o)
	}
	return doc
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testDocument(t, "plan_test"), engine.Options{})
	require.NoError(t, err)
	return s
}

func apply(t *testing.T, s *Session, op Operation) Applied {
	t.Helper()
	var got Applied
	require.NoError(t, s.Apply(op, func(a Applied) { got = a }))
	return got
}

func TestApplyMoveReportsChangedObjects(t *testing.T) {
	s := newSession(t)
	a := apply(t, s, Operation{Type: OpSelectionMove, Selection: []string{"a"}, Delta: &geometry.Point{X: 5, Y: 5}})

	assert.Equal(t, int64(1), a.ServerSeq)
	require.Len(t, a.Changes.Upserted, 1)
	assert.Equal(t, "a", a.Changes.Upserted[0].ID)
	assert.Empty(t, a.Changes.Removed)
	assert.Nil(t, a.Changes.Order)
	assert.True(t, a.History.CanUndo)
	assert.True(t, s.Dirty())
}

func TestApplyAddAssignsID(t *testing.T) {
	s := newSession(t)
	obj, err := document.Encode(&scene.Circle{Circle: geometry.Circle{Center: geometry.Pt(50, 50), Radius: 5}})
	require.NoError(t, err)

	a := apply(t, s, Operation{Type: OpItemAdd, Object: &obj})
	require.Len(t, a.Created, 1)
	assert.NotEmpty(t, a.Created[0])
	assert.Equal(t, []string{"a", "b", a.Created[0]}, a.Changes.Order)
}

func TestApplyDeleteThenUndo(t *testing.T) {
	s := newSession(t)
	a := apply(t, s, Operation{Type: OpSelectionDelete, Selection: []string{"a"}})
	assert.Equal(t, []string{"a"}, a.Changes.Removed)
	assert.Equal(t, []string{"b"}, a.Changes.Order)

	a = apply(t, s, Operation{Type: OpHistoryUndo})
	require.Len(t, a.Changes.Upserted, 1)
	assert.Equal(t, "a", a.Changes.Upserted[0].ID)
	assert.Equal(t, []string{"a", "b"}, a.Changes.Order)
	assert.Equal(t, int64(2), a.ServerSeq)
}

func TestApplyAlignAndArray(t *testing.T) {
	s := newSession(t)
	a := apply(t, s, Operation{Type: OpSelectionAlign, Selection: []string{"a", "b"}, Mode: "top"})
	require.Len(t, a.Changes.Upserted, 1)
	assert.Equal(t, "b", a.Changes.Upserted[0].ID)

	a = apply(t, s, Operation{
		Type:      OpSelectionArray,
		Selection: []string{"a"},
		Array:     &array.Spec{Kind: array.Linear, Count: 3, Step: geometry.Pt(0, 50)},
	})
	assert.Len(t, a.Created, 2)
	assert.Len(t, a.Changes.Upserted, 2)
}

func TestApplyRejects(t *testing.T) {
	s := newSession(t)

	tests := []struct {
		name string
		op   Operation
		want error
	}{
		{"unknown type", Operation{Type: "object.explode"}, ErrUnknownOp},
		{"missing delta", Operation{Type: OpSelectionMove, Selection: []string{"a"}}, ErrBadPayload},
		{"bad mode", Operation{Type: OpSelectionAlign, Selection: []string{"a", "b"}, Mode: "diagonal"}, ErrBadPayload},
		{"bad object type", Operation{Type: OpSelectionType, Selection: []string{"a"}, ObjectType: "volcano"}, ErrBadPayload},
		{"empty selection", Operation{Type: OpSelectionDelete}, ErrNoChange},
		{"nothing to undo", Operation{Type: OpHistoryUndo}, ErrNoChange},
		{"distribute two", Operation{Type: OpSelectionDistribute, Selection: []string{"a", "b"}, Axis: "horizontal"}, ErrNoChange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Apply(tt.op, func(Applied) { t.Fatal("published a rejected operation") })
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, int64(0), s.ServerSeq())
	assert.False(t, s.Dirty())
}

func TestPendingSave(t *testing.T) {
	s := newSession(t)
	_, _, ok, err := s.pendingSave()
	require.NoError(t, err)
	assert.False(t, ok)

	apply(t, s, Operation{Type: OpSelectionStyle, Selection: []string{"a"}, Style: &scene.Style{Fill: "#fff"}})
	data, seq, ok, err := s.pendingSave()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), seq)

	var doc document.PlanDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "#fff", doc.Objects[0].Style.Fill)

	s.markSaved(seq)
	assert.False(t, s.Dirty())
}

func TestSnapQuery(t *testing.T) {
	s := newSession(t)
	res := s.Snap(SnapQueryPayload{Box: geometry.Rect{X: 97, Y: 300, Width: 10, Height: 10}, Exclude: []string{"a"}})
	assert.True(t, res.SnappedX)
	assert.Equal(t, -2.0, res.Offset.X)
}

func TestPresencePrune(t *testing.T) {
	pm := NewPresenceManager()
	pm.Update("c1", &PresencePayload{Selection: []string{"a", "b"}})
	pm.Update("c2", &PresencePayload{Selection: []string{"b"}})

	pm.Prune([]string{"a"})
	all := pm.GetAll()
	assert.Equal(t, []string{"b"}, all["c1"].Selection)
	assert.Equal(t, []string{"b"}, all["c2"].Selection)
}
