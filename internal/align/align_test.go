package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenplan/planner/internal/geometry"
)

type box geometry.Rect

func (b box) BoundingBox() geometry.Rect { return geometry.Rect(b) }

func centeredAt(x, y float64) box {
	return box{X: x - 5, Y: y - 5, Width: 10, Height: 10}
}

func TestAlignLeft(t *testing.T) {
	items := []box{
		{X: 10, Y: 0, Width: 50, Height: 20},
		{X: 100, Y: 40, Width: 50, Height: 20},
	}

	moves := Align(items, Left)
	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, 10.0, m.Item.BoundingBox().Left()+m.Delta.X)
		assert.Zero(t, m.Delta.Y)
	}
	assert.Equal(t, geometry.Point{}, moves[0].Delta)
	assert.Equal(t, geometry.Pt(-90, 0), moves[1].Delta)
}

func TestAlignModes(t *testing.T) {
	items := []box{
		{X: 0, Y: 0, Width: 20, Height: 10},
		{X: 50, Y: 30, Width: 10, Height: 40},
		{X: 30, Y: 10, Width: 10, Height: 10},
	}

	tests := []struct {
		mode   Mode
		deltas []geometry.Point
	}{
		{Right, []geometry.Point{{X: 40}, {X: 0}, {X: 20}}},
		{Top, []geometry.Point{{Y: 0}, {Y: -30}, {Y: -10}}},
		{Bottom, []geometry.Point{{Y: 60}, {Y: 0}, {Y: 50}}},
		{CenterH, []geometry.Point{{X: 20}, {X: -25}, {X: -5}}},
		{CenterV, []geometry.Point{{Y: 30}, {Y: -15}, {Y: 20}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			moves := Align(items, tt.mode)
			require.Len(t, moves, len(items))
			for i, m := range moves {
				assert.Equal(t, items[i], m.Item, "output keeps input order")
				assert.InDelta(t, tt.deltas[i].X, m.Delta.X, 1e-9)
				assert.InDelta(t, tt.deltas[i].Y, m.Delta.Y, 1e-9)
			}
		})
	}
}

func TestAlignNeedsTwoItems(t *testing.T) {
	assert.Empty(t, Align([]box{{Width: 1, Height: 1}}, Left))
	assert.Empty(t, Align[box](nil, CenterV))
}

func TestDistributeHorizontal(t *testing.T) {
	items := []box{centeredAt(0, 0), centeredAt(50, 0), centeredAt(200, 0)}

	moves := Distribute(items, Horizontal)
	require.Len(t, moves, 3)
	assert.Equal(t, geometry.Point{}, moves[0].Delta)
	assert.Equal(t, geometry.Pt(50, 0), moves[1].Delta)
	assert.Equal(t, geometry.Point{}, moves[2].Delta)
}

func TestDistributeUsesRankNotInputOrder(t *testing.T) {
	items := []box{centeredAt(0, 300), centeredAt(0, 0), centeredAt(0, 20), centeredAt(0, 30)}

	moves := Distribute(items, Vertical)
	require.Len(t, moves, 4)

	got := make([]float64, len(items))
	for i, m := range moves {
		assert.Zero(t, m.Delta.X)
		got[i] = m.Item.BoundingBox().CenterY() + m.Delta.Y
	}
	assert.InDeltaSlice(t, []float64{300, 0, 100, 200}, got, 1e-9)
}

func TestDistributeZeroSpan(t *testing.T) {
	items := []box{centeredAt(10, 0), centeredAt(10, 50), centeredAt(10, 90)}

	moves := Distribute(items, Horizontal)
	require.Len(t, moves, 3)
	for _, m := range moves {
		assert.Equal(t, geometry.Point{}, m.Delta)
	}
}

func TestDistributeNeedsThreeItems(t *testing.T) {
	assert.Empty(t, Distribute([]box{centeredAt(0, 0), centeredAt(10, 0)}, Horizontal))
}

func TestParse(t *testing.T) {
	m, err := ParseMode("centerH")
	require.NoError(t, err)
	assert.Equal(t, CenterH, m)

	_, err = ParseMode("diagonal")
	assert.Error(t, err)

	a, err := ParseAxis("vertical")
	require.NoError(t, err)
	assert.Equal(t, Vertical, a)
}
