package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
)

func TestSampleDocumentBuildsScene(t *testing.T) {
	doc := NewSampleDocument("plan_test")

	s, err := doc.BuildScene()
	require.NoError(t, err)
	assert.Equal(t, len(doc.Objects), s.Len())
	assert.Equal(t, geometry.Rect{Width: 2000, Height: 1200}, s.Canvas)
}

func TestDocumentSurvivesJSON(t *testing.T) {
	doc := NewSampleDocument("plan_test")
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	s, err := parsed.BuildScene()
	require.NoError(t, err)

	original, err := doc.BuildScene()
	require.NoError(t, err)
	require.Equal(t, original.Len(), s.Len())
	for i, it := range original.Items() {
		got := s.Items()[i]
		assert.Equal(t, it.Kind(), got.Kind())
		assert.Equal(t, it.BoundingBox(), got.BoundingBox())
		assert.Equal(t, *it.Base(), *got.Base())
	}
}

func TestSetObjectsFollowsScene(t *testing.T) {
	doc := NewEmptyDocument("plan_1", "Empty", "layer_1", Canvas{Width: 500, Height: 500})
	s, err := doc.BuildScene()
	require.NoError(t, err)

	s.Add(&scene.Circle{
		Entity: scene.Entity{EntityID: "obj_1", ObjectType: scene.ObjectTypeTree},
		Circle: geometry.Circle{Center: geometry.Pt(10, 20), Radius: 5},
	})
	require.NoError(t, doc.SetObjects(s))
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, scene.KindCircle, doc.Objects[0].Kind)
	assert.JSONEq(t, `{"center":{"x":10,"y":20},"radius":5}`, string(doc.Objects[0].Data))
}

func TestDecodeRejectsBadObjects(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
	}{
		{"missing id", Object{Kind: scene.KindCircle, Data: json.RawMessage(`{}`)}},
		{"unknown kind", Object{ID: "o", Kind: "hexagon", Data: json.RawMessage(`{}`)}},
		{"short polygon", Object{ID: "o", Kind: scene.KindPolygon, Data: json.RawMessage(`{"points":[{"x":0,"y":0}]}`)}},
		{"bad data", Object{ID: "o", Kind: scene.KindRectangle, Data: json.RawMessage(`[]`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.obj.Decode()
			assert.ErrorIs(t, err, ErrInvalidObject)
		})
	}
}

func TestDecodeDefaultsObjectType(t *testing.T) {
	it, err := Object{ID: "o", Kind: scene.KindRectangle, Data: json.RawMessage(`{"x":1,"y":2,"width":3,"height":4}`)}.Decode()
	require.NoError(t, err)
	assert.Equal(t, scene.ObjectTypeGeneric, it.Base().ObjectType)
	assert.Equal(t, geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4}, it.BoundingBox())
}
