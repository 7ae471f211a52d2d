package scene

import (
	"slices"

	"github.com/gardenplan/planner/internal/geometry"
)

// Scene is the ordered set of items of one plan. Order is painter's order:
// later items are drawn on top.
type Scene struct {
	Canvas geometry.Rect
	items  []Item
	byID   map[string]Item
}

// Removed records an item taken out of the scene together with the index it
// occupied, so it can be put back in the same place.
type Removed struct {
	Index int
	Item  Item
}

// New creates an empty scene with the given canvas.
func New(canvas geometry.Rect) *Scene {
	return &Scene{
		Canvas: canvas,
		byID:   make(map[string]Item),
	}
}

// Len returns the number of items.
func (s *Scene) Len() int { return len(s.items) }

// Items returns the items in painter's order. The slice is a copy.
func (s *Scene) Items() []Item {
	return slices.Clone(s.items)
}

// Get looks up an item by id.
func (s *Scene) Get(id string) (Item, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// Lookup resolves ids in order, skipping unknown ones.
func (s *Scene) Lookup(ids []string) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// IndexOf returns the painter's-order index of id, or -1.
func (s *Scene) IndexOf(id string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID() == id })
}

// Add appends items on top of the scene. Items whose id is already present
// are ignored.
func (s *Scene) Add(items ...Item) {
	for _, it := range items {
		if _, dup := s.byID[it.ID()]; dup {
			continue
		}
		s.items = append(s.items, it)
		s.byID[it.ID()] = it
	}
}

// Insert places item at index, clamped to the valid range.
func (s *Scene) Insert(index int, item Item) {
	if _, dup := s.byID[item.ID()]; dup {
		return
	}
	index = max(0, min(index, len(s.items)))
	s.items = slices.Insert(s.items, index, item)
	s.byID[item.ID()] = item
}

// Remove takes the given items out of the scene and returns them sorted by
// their former index. Unknown ids are skipped.
func (s *Scene) Remove(ids ...string) []Removed {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			drop[id] = true
		}
	}
	if len(drop) == 0 {
		return nil
	}

	removed := make([]Removed, 0, len(drop))
	kept := make([]Item, 0, len(s.items)-len(drop))
	for i, it := range s.items {
		if drop[it.ID()] {
			removed = append(removed, Removed{Index: i, Item: it})
			delete(s.byID, it.ID())
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	return removed
}

// Restore reinserts previously removed items at their original indices.
// The entries must be sorted by ascending index, as Remove returns them.
func (s *Scene) Restore(removed []Removed) {
	for _, r := range removed {
		s.Insert(r.Index, r.Item)
	}
}

// Clear drops every item.
func (s *Scene) Clear() {
	s.items = nil
	s.byID = make(map[string]Item)
}

// HitTest returns the topmost selectable item whose bounding box contains
// the point.
func (s *Scene) HitTest(p geometry.Point) (Item, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		it := s.items[i]
		if it.Selectable() && it.BoundingBox().Contains(p.X, p.Y) {
			return it, true
		}
	}
	return nil, false
}

// Bounds returns the combined bounding box of the given items. Unlike
// Rect.Union it keeps zero-width boxes such as straight construction lines.
func Bounds(items []Item) geometry.Rect {
	if len(items) == 0 {
		return geometry.Rect{}
	}
	b := items[0].BoundingBox()
	left, top, right, bottom := b.Left(), b.Top(), b.Right(), b.Bottom()
	for _, it := range items[1:] {
		b = it.BoundingBox()
		left = min(left, b.Left())
		top = min(top, b.Top())
		right = max(right, b.Right())
		bottom = max(bottom, b.Bottom())
	}
	return geometry.RectFromEdges(left, top, right, bottom)
}

// SelectableIDs returns the ids of all selectable items in painter's order.
func (s *Scene) SelectableIDs() []string {
	var ids []string
	for _, it := range s.items {
		if it.Selectable() {
			ids = append(ids, it.ID())
		}
	}
	return ids
}
