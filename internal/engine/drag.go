package engine

import (
	"github.com/gardenplan/planner/internal/command"
	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
	"github.com/gardenplan/planner/internal/snap"
)

// dragSession remembers what is being dragged. Items are not moved until
// the drag ends; the UI draws them at the returned delta in the meantime.
type dragSession struct {
	items   []scene.Item
	start   geometry.Rect
	exclude []snap.Target
}

// DragUpdate is the answer to one drag-move event.
type DragUpdate struct {
	// Delta is the snapped translation from the drag start.
	Delta geometry.Point `json:"delta"`
	Snap  snap.Result    `json:"snap"`
}

// BeginDrag starts dragging the unlocked selected items.
func (e *Editor) BeginDrag() error {
	if e.drag != nil {
		return ErrDragActive
	}
	items := e.movableItems()
	if len(items) == 0 {
		return ErrEmptySelection
	}
	e.drag = &dragSession{
		items:   items,
		start:   scene.Bounds(items),
		exclude: targets(items),
	}
	return nil
}

// Dragging reports whether a drag is in progress.
func (e *Editor) Dragging() bool { return e.drag != nil }

// DragTo snaps the dragged items' box, moved by the raw pointer delta d,
// against the rest of the plan. Nothing is mutated.
func (e *Editor) DragTo(d geometry.Point) (DragUpdate, error) {
	if e.drag == nil {
		return DragUpdate{}, ErrNoDrag
	}
	return e.snapDrag(d), nil
}

// EndDrag commits the drag as one move command using the snapped delta for
// d. It reports whether anything moved.
func (e *Editor) EndDrag(d geometry.Point) (bool, error) {
	if e.drag == nil {
		return false, ErrNoDrag
	}
	upd := e.snapDrag(d)
	items := e.drag.items
	e.drag = nil
	if upd.Delta.IsZero() {
		return false, nil
	}
	e.history.Execute(command.NewMoveAll(items, upd.Delta))
	return true, nil
}

// CancelDrag abandons the drag without moving anything.
func (e *Editor) CancelDrag() {
	e.drag = nil
}

func (e *Editor) snapDrag(d geometry.Point) DragUpdate {
	if !e.snapping {
		return DragUpdate{Delta: d}
	}
	moved := e.drag.start.Translate(d)
	canvas := e.scene.Canvas
	var extraX, extraY []float64
	if e.doc != nil {
		extraX, extraY = e.doc.Guides.X, e.doc.Guides.Y
	}
	res := e.snapper.Snap(moved, targets(e.scene.Items()), e.drag.exclude, &canvas, extraX, extraY)
	return DragUpdate{Delta: d.Add(res.Offset), Snap: res}
}

// SnapBox snaps an arbitrary box, e.g. a shape being drawn or a remote
// client's drag, against the plan minus the excluded ids.
func (e *Editor) SnapBox(box geometry.Rect, exclude ...string) snap.Result {
	if !e.loaded() {
		return snap.Result{}
	}
	canvas := e.scene.Canvas
	var extraX, extraY []float64
	if e.doc != nil {
		extraX, extraY = e.doc.Guides.X, e.doc.Guides.Y
	}
	excluded := targets(e.scene.Lookup(exclude))
	return e.snapper.Snap(box, targets(e.scene.Items()), excluded, &canvas, extraX, extraY)
}

func targets(items []scene.Item) []snap.Target {
	out := make([]snap.Target, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
