// Package array lays out copies of an item in a row, a grid or a ring.
// It only computes offsets; the editor clones and adds the copies.
package array

import (
	"errors"
	"fmt"
	"math"

	"github.com/gardenplan/planner/internal/geometry"
)

// Kind selects the array layout.
type Kind string

const (
	Linear   Kind = "linear"
	Grid     Kind = "grid"
	Circular Kind = "circular"
)

// MaxCopies bounds a single array operation.
const MaxCopies = 1000

var ErrTooManyCopies = errors.New("array: too many copies")

// Spec describes an array. Count includes the original item.
type Spec struct {
	Kind Kind `json:"kind"`

	// Linear
	Count int            `json:"count,omitempty"`
	Step  geometry.Point `json:"step,omitempty"`

	// Grid
	Rows    int            `json:"rows,omitempty"`
	Cols    int            `json:"cols,omitempty"`
	Spacing geometry.Point `json:"spacing,omitempty"`

	// Circular: copies of the item's center rotated about Center. A sweep of
	// 360 (or 0) spreads Count items over the full circle; any other sweep
	// places the first and last copy at the sweep's ends.
	Center geometry.Point `json:"center,omitempty"`
	Sweep  float64        `json:"sweep,omitempty"`
}

// Offsets returns the translation of every copy relative to the original,
// whose center is origin. The original itself is not included, so a count
// below two yields no offsets.
func Offsets(spec Spec, origin geometry.Point) ([]geometry.Point, error) {
	switch spec.Kind {
	case Linear:
		return linear(spec)
	case Grid:
		return grid(spec)
	case Circular:
		return circular(spec, origin)
	default:
		return nil, fmt.Errorf("array: unknown kind %q", spec.Kind)
	}
}

func linear(spec Spec) ([]geometry.Point, error) {
	if spec.Count < 2 {
		return nil, nil
	}
	if spec.Count-1 > MaxCopies {
		return nil, ErrTooManyCopies
	}
	out := make([]geometry.Point, 0, spec.Count-1)
	for i := 1; i < spec.Count; i++ {
		n := float64(i)
		out = append(out, geometry.Pt(spec.Step.X*n, spec.Step.Y*n))
	}
	return out, nil
}

func grid(spec Spec) ([]geometry.Point, error) {
	if spec.Rows < 1 || spec.Cols < 1 {
		return nil, nil
	}
	// Check each factor first so the product cannot overflow.
	if spec.Rows > MaxCopies+1 || spec.Cols > MaxCopies+1 || spec.Rows*spec.Cols-1 > MaxCopies {
		return nil, ErrTooManyCopies
	}
	if spec.Rows*spec.Cols < 2 {
		return nil, nil
	}
	out := make([]geometry.Point, 0, spec.Rows*spec.Cols-1)
	for r := 0; r < spec.Rows; r++ {
		for c := 0; c < spec.Cols; c++ {
			if r == 0 && c == 0 {
				continue
			}
			out = append(out, geometry.Pt(spec.Spacing.X*float64(c), spec.Spacing.Y*float64(r)))
		}
	}
	return out, nil
}

func circular(spec Spec, origin geometry.Point) ([]geometry.Point, error) {
	if spec.Count < 2 {
		return nil, nil
	}
	if spec.Count-1 > MaxCopies {
		return nil, ErrTooManyCopies
	}

	sweep := spec.Sweep
	var step float64
	if sweep == 0 || math.Abs(sweep) >= 360 {
		step = 360 / float64(spec.Count)
	} else {
		step = sweep / float64(spec.Count-1)
	}

	out := make([]geometry.Point, 0, spec.Count-1)
	for i := 1; i < spec.Count; i++ {
		p := geometry.RotationAbout(spec.Center, step*float64(i)).Apply(origin)
		out = append(out, p.Sub(origin))
	}
	return out, nil
}
