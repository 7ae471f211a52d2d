// Package snap pulls a dragged box onto the edges and centers of nearby
// items and reports guide lines for the targets it snapped to.
package snap

import (
	"math"

	"github.com/gardenplan/planner/internal/geometry"
)

const (
	// MinThreshold is the smallest accepted snap distance.
	MinThreshold = 1.0
	// DefaultThreshold is used by NewSnapper callers that have no setting.
	DefaultThreshold = 10.0

	// defaultGuideExtent is the half-length of guides drawn when no canvas
	// boundary is known.
	defaultGuideExtent = 1e6
)

// Target is a scene item that can be snapped to.
type Target interface {
	ID() string
	BoundingBox() geometry.Rect
	Selectable() bool
}

// Guide is a transient line marking a snap target.
type Guide struct {
	Start      geometry.Point `json:"start"`
	End        geometry.Point `json:"end"`
	Horizontal bool           `json:"horizontal"`
}

// Result is the outcome of one snap query.
type Result struct {
	// Offset is the correction to add to the dragged position.
	Offset   geometry.Point `json:"offset"`
	SnappedX bool           `json:"snappedX"`
	SnappedY bool           `json:"snappedY"`
	Guides   []Guide        `json:"guides"`
}

// Snapper holds the snap distance. It keeps no other state, so one value
// can serve every drag-move event.
type Snapper struct {
	threshold float64
}

// NewSnapper returns a snapper with threshold clamped to MinThreshold.
func NewSnapper(threshold float64) *Snapper {
	s := &Snapper{}
	s.SetThreshold(threshold)
	return s
}

// Threshold returns the current snap distance in scene units.
func (s *Snapper) Threshold() float64 { return s.threshold }

// SetThreshold updates the snap distance, clamped to MinThreshold.
func (s *Snapper) SetThreshold(threshold float64) {
	if math.IsNaN(threshold) || threshold < MinThreshold {
		threshold = MinThreshold
	}
	s.threshold = threshold
}

// Snap computes the offset that brings dragged onto the closest edge or
// center of a candidate, independently per axis. Candidates listed in
// excluded (usually the items being dragged) and non-selectable candidates
// are ignored. extraX and extraY add fixed targets such as ruler guides.
// canvas, when non-nil, bounds the guide lines.
//
// A pair only snaps when its distance is strictly below the threshold. On a
// tie the first pair found wins.
func (s *Snapper) Snap(dragged geometry.Rect, candidates []Target, excluded []Target, canvas *geometry.Rect, extraX, extraY []float64) Result {
	skip := make(map[string]struct{}, len(excluded))
	for _, ex := range excluded {
		skip[ex.ID()] = struct{}{}
	}

	xs := append(make([]float64, 0, len(extraX)+3*len(candidates)), extraX...)
	ys := append(make([]float64, 0, len(extraY)+3*len(candidates)), extraY...)
	for _, c := range candidates {
		if !c.Selectable() {
			continue
		}
		if _, ok := skip[c.ID()]; ok {
			continue
		}
		b := c.BoundingBox()
		xs = append(xs, b.Left(), b.CenterX(), b.Right())
		ys = append(ys, b.Top(), b.CenterY(), b.Bottom())
	}

	var res Result
	probesX := [3]float64{dragged.Left(), dragged.CenterX(), dragged.Right()}
	probesY := [3]float64{dragged.Top(), dragged.CenterY(), dragged.Bottom()}

	if offset, target, ok := s.nearest(probesX, xs); ok {
		res.Offset.X = offset
		res.SnappedX = true
		top, bottom := -defaultGuideExtent, defaultGuideExtent
		if canvas != nil {
			top, bottom = canvas.Top(), canvas.Bottom()
		}
		res.Guides = append(res.Guides, Guide{
			Start: geometry.Pt(target, top),
			End:   geometry.Pt(target, bottom),
		})
	}

	if offset, target, ok := s.nearest(probesY, ys); ok {
		res.Offset.Y = offset
		res.SnappedY = true
		left, right := -defaultGuideExtent, defaultGuideExtent
		if canvas != nil {
			left, right = canvas.Left(), canvas.Right()
		}
		res.Guides = append(res.Guides, Guide{
			Start:      geometry.Pt(left, target),
			End:        geometry.Pt(right, target),
			Horizontal: true,
		})
	}

	return res
}

// nearest finds the probe/target pair with the smallest distance below the
// threshold and returns target-probe and the target value.
func (s *Snapper) nearest(probes [3]float64, targets []float64) (offset, target float64, ok bool) {
	best := s.threshold
	for _, p := range probes {
		for _, t := range targets {
			d := math.Abs(t - p)
			if d < best {
				best = d
				offset, target, ok = t-p, t, true
			}
		}
	}
	return offset, target, ok
}
