package array

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenplan/planner/internal/geometry"
)

func TestLinear(t *testing.T) {
	offsets, err := Offsets(Spec{Kind: Linear, Count: 4, Step: geometry.Pt(50, 10)}, geometry.Point{})
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{{X: 50, Y: 10}, {X: 100, Y: 20}, {X: 150, Y: 30}}, offsets)
}

func TestGrid(t *testing.T) {
	offsets, err := Offsets(Spec{Kind: Grid, Rows: 2, Cols: 3, Spacing: geometry.Pt(100, 80)}, geometry.Point{})
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{
		{X: 100, Y: 0}, {X: 200, Y: 0},
		{X: 0, Y: 80}, {X: 100, Y: 80}, {X: 200, Y: 80},
	}, offsets)
}

func TestCircularFullRing(t *testing.T) {
	origin := geometry.Pt(100, 0)
	offsets, err := Offsets(Spec{Kind: Circular, Count: 4, Center: geometry.Pt(0, 0)}, origin)
	require.NoError(t, err)
	require.Len(t, offsets, 3)

	want := []geometry.Point{{X: 0, Y: 100}, {X: -100, Y: 0}, {X: 0, Y: -100}}
	for i, off := range offsets {
		p := origin.Add(off)
		assert.InDelta(t, want[i].X, p.X, 1e-9)
		assert.InDelta(t, want[i].Y, p.Y, 1e-9)
	}
}

func TestCircularPartialSweepEndsOnSweep(t *testing.T) {
	origin := geometry.Pt(100, 0)
	offsets, err := Offsets(Spec{Kind: Circular, Count: 3, Sweep: 180}, origin)
	require.NoError(t, err)
	require.Len(t, offsets, 2)

	last := origin.Add(offsets[1])
	assert.InDelta(t, -100, last.X, 1e-9)
	assert.InDelta(t, 0, last.Y, 1e-9)
}

func TestDegenerateCounts(t *testing.T) {
	for _, spec := range []Spec{
		{Kind: Linear, Count: 1},
		{Kind: Grid, Rows: 1, Cols: 1},
		{Kind: Grid, Rows: 0, Cols: 5},
		{Kind: Circular, Count: 0},
	} {
		offsets, err := Offsets(spec, geometry.Point{})
		assert.NoError(t, err)
		assert.Empty(t, offsets, "%+v", spec)
	}
}

func TestErrors(t *testing.T) {
	_, err := Offsets(Spec{Kind: "spiral", Count: 3}, geometry.Point{})
	assert.Error(t, err)

	_, err = Offsets(Spec{Kind: Grid, Rows: 100, Cols: 100}, geometry.Point{})
	assert.ErrorIs(t, err, ErrTooManyCopies)

	// 3 * cols wraps around to 5 in int arithmetic.
	_, err = Offsets(Spec{Kind: Grid, Rows: 3, Cols: 6148914691236517207}, geometry.Point{})
	assert.ErrorIs(t, err, ErrTooManyCopies)

	_, err = Offsets(Spec{Kind: Grid, Rows: 1, Cols: math.MaxInt}, geometry.Point{})
	assert.ErrorIs(t, err, ErrTooManyCopies)

	offsets, err := Offsets(Spec{Kind: Grid, Rows: 1, Cols: MaxCopies + 1}, geometry.Point{})
	require.NoError(t, err)
	assert.Len(t, offsets, MaxCopies)
}
