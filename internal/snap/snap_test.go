package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenplan/planner/internal/geometry"
)

type item struct {
	id         string
	box        geometry.Rect
	background bool
}

func (i item) ID() string                 { return i.id }
func (i item) BoundingBox() geometry.Rect { return i.box }
func (i item) Selectable() bool           { return !i.background }

func TestSnapLeftEdgeToRightEdge(t *testing.T) {
	s := NewSnapper(10)
	other := item{id: "a", box: geometry.Rect{X: 0, Y: 500, Width: 100, Height: 50}}
	canvas := geometry.Rect{X: 0, Y: 0, Width: 2000, Height: 1000}
	dragged := geometry.Rect{X: 104, Y: 0, Width: 40, Height: 40}

	res := s.Snap(dragged, []Target{other}, nil, &canvas, nil, nil)

	assert.True(t, res.SnappedX)
	assert.False(t, res.SnappedY)
	assert.Equal(t, -4.0, res.Offset.X)
	assert.Zero(t, res.Offset.Y)
	require.Len(t, res.Guides, 1)
	g := res.Guides[0]
	assert.False(t, g.Horizontal)
	assert.Equal(t, geometry.Pt(100, 0), g.Start)
	assert.Equal(t, geometry.Pt(100, 1000), g.End)
	assert.Equal(t, other.box.Right(), dragged.Left()+res.Offset.X)
}

func TestSnapBothAxes(t *testing.T) {
	s := NewSnapper(5)
	other := item{id: "a", box: geometry.Rect{X: 100, Y: 100, Width: 100, Height: 100}}
	dragged := geometry.Rect{X: 127, Y: 197, Width: 50, Height: 20}

	res := s.Snap(dragged, []Target{other}, nil, nil, nil, nil)

	assert.True(t, res.SnappedX)
	assert.True(t, res.SnappedY)
	// centers 152 and 150 are the closest pair on X, top 197 vs bottom 200 on Y.
	assert.Equal(t, geometry.Pt(-2, 3), res.Offset)
	require.Len(t, res.Guides, 2)
	assert.Equal(t, geometry.Pt(150, -defaultGuideExtent), res.Guides[0].Start)
	assert.True(t, res.Guides[1].Horizontal)
	assert.Equal(t, geometry.Pt(defaultGuideExtent, 200), res.Guides[1].End)
}

func TestSnapThresholdIsStrict(t *testing.T) {
	s := NewSnapper(10)
	other := item{id: "a", box: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
	dragged := geometry.Rect{X: 110, Y: 300, Width: 20, Height: 20}

	res := s.Snap(dragged, []Target{other}, nil, nil, nil, nil)

	assert.False(t, res.SnappedX)
	assert.False(t, res.SnappedY)
	assert.Equal(t, geometry.Point{}, res.Offset)
	assert.Empty(t, res.Guides)
}

func TestSnapSkipsExcludedAndBackground(t *testing.T) {
	s := NewSnapper(10)
	self := item{id: "self", box: geometry.Rect{X: 0, Y: 0, Width: 50, Height: 50}}
	bg := item{id: "bg", box: geometry.Rect{X: 2, Y: 2, Width: 500, Height: 500}, background: true}
	dragged := geometry.Rect{X: 3, Y: 3, Width: 50, Height: 50}

	res := s.Snap(dragged, []Target{self, bg}, []Target{self}, nil, nil, nil)

	assert.False(t, res.SnappedX)
	assert.False(t, res.SnappedY)
}

func TestSnapExtraTargets(t *testing.T) {
	s := NewSnapper(10)
	dragged := geometry.Rect{X: 95, Y: 0, Width: 10, Height: 10}

	res := s.Snap(dragged, nil, nil, nil, []float64{100}, []float64{-3})

	assert.True(t, res.SnappedX)
	assert.Zero(t, res.Offset.X, "center already on the ruler guide")
	assert.True(t, res.SnappedY)
	assert.Equal(t, -3.0, res.Offset.Y)
}

func TestThresholdClamp(t *testing.T) {
	assert.Equal(t, MinThreshold, NewSnapper(0).Threshold())
	assert.Equal(t, MinThreshold, NewSnapper(-5).Threshold())
	assert.Equal(t, 8.0, NewSnapper(8).Threshold())

	s := NewSnapper(8)
	s.SetThreshold(0.2)
	assert.Equal(t, MinThreshold, s.Threshold())
}

func TestSnapIsRepeatable(t *testing.T) {
	s := NewSnapper(10)
	targets := []Target{item{id: "a", box: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}}}
	dragged := geometry.Rect{X: 103, Y: 50, Width: 10, Height: 10}

	first := s.Snap(dragged, targets, nil, nil, nil, nil)
	second := s.Snap(dragged, targets, nil, nil, nil, nil)
	assert.Equal(t, first, second)
}
