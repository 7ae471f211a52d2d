// Package align computes the per-item moves that align a selection to a
// common edge or center, or spread it evenly along an axis. It never moves
// anything itself; callers apply the returned deltas.
package align

import (
	"fmt"
	"slices"

	"github.com/gardenplan/planner/internal/geometry"
)

// Boxed is anything with a bounding box in scene coordinates.
type Boxed interface {
	BoundingBox() geometry.Rect
}

// Move is the translation computed for one item.
type Move[T Boxed] struct {
	Item  T
	Delta geometry.Point
}

// Mode selects the edge or center to align to.
type Mode string

const (
	Left    Mode = "left"
	Right   Mode = "right"
	Top     Mode = "top"
	Bottom  Mode = "bottom"
	CenterH Mode = "centerH"
	CenterV Mode = "centerV"
)

// Axis selects the direction of a distribution.
type Axis string

const (
	Horizontal Axis = "horizontal"
	Vertical   Axis = "vertical"
)

// ParseMode validates an alignment mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Left, Right, Top, Bottom, CenterH, CenterV:
		return m, nil
	}
	return "", fmt.Errorf("unknown alignment mode %q", s)
}

// ParseAxis validates a distribution axis name.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(s); a {
	case Horizontal, Vertical:
		return a, nil
	}
	return "", fmt.Errorf("unknown distribution axis %q", s)
}

// Align returns one move per item, in input order, that brings the chosen
// edge or center of every item onto a common line. Items already in place
// get a zero delta. Fewer than two items yield nil.
func Align[T Boxed](items []T, mode Mode) []Move[T] {
	if len(items) < 2 {
		return nil
	}

	boxes := make([]geometry.Rect, len(items))
	for i, it := range items {
		boxes[i] = it.BoundingBox()
	}

	minLeft, maxRight := boxes[0].Left(), boxes[0].Right()
	minTop, maxBottom := boxes[0].Top(), boxes[0].Bottom()
	for _, b := range boxes[1:] {
		minLeft = min(minLeft, b.Left())
		maxRight = max(maxRight, b.Right())
		minTop = min(minTop, b.Top())
		maxBottom = max(maxBottom, b.Bottom())
	}

	moves := make([]Move[T], len(items))
	for i, b := range boxes {
		var d geometry.Point
		switch mode {
		case Left:
			d.X = minLeft - b.Left()
		case Right:
			d.X = maxRight - b.Right()
		case Top:
			d.Y = minTop - b.Top()
		case Bottom:
			d.Y = maxBottom - b.Bottom()
		case CenterH:
			d.X = (minLeft+maxRight)/2 - b.CenterX()
		case CenterV:
			d.Y = (minTop+maxBottom)/2 - b.CenterY()
		}
		moves[i] = Move[T]{Item: items[i], Delta: d}
	}
	return moves
}

// Distribute spaces item centers evenly along axis. The items with the
// lowest and highest centers stay put; the others are placed at equal steps
// between them, by rank. Fewer than three items yield nil. When every center
// coincides all deltas are zero.
func Distribute[T Boxed](items []T, axis Axis) []Move[T] {
	if len(items) < 3 {
		return nil
	}

	centers := make([]float64, len(items))
	for i, it := range items {
		b := it.BoundingBox()
		if axis == Vertical {
			centers[i] = b.CenterY()
		} else {
			centers[i] = b.CenterX()
		}
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case centers[a] < centers[b]:
			return -1
		case centers[a] > centers[b]:
			return 1
		}
		return 0
	})

	moves := make([]Move[T], len(items))
	for i, it := range items {
		moves[i] = Move[T]{Item: it}
	}

	first := centers[order[0]]
	span := centers[order[len(order)-1]] - first
	if span == 0 {
		return moves
	}

	step := span / float64(len(items)-1)
	for rank, idx := range order {
		// Anchors keep an exact zero delta.
		if rank == 0 || rank == len(order)-1 {
			continue
		}
		shift := first + step*float64(rank) - centers[idx]
		if axis == Vertical {
			moves[idx].Delta.Y = shift
		} else {
			moves[idx].Delta.X = shift
		}
	}
	return moves
}
