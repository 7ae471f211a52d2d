package engine

import (
	"fmt"

	"github.com/gardenplan/planner/internal/align"
	"github.com/gardenplan/planner/internal/array"
	"github.com/gardenplan/planner/internal/command"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
)

// AddItem adds a new item on top of the plan as one undo step and selects
// it. An empty id is replaced by a fresh one.
func (e *Editor) AddItem(it scene.Item) (string, error) {
	if !e.loaded() {
		return "", ErrNoDocument
	}
	if it.ID() == "" {
		it = it.Clone(newObjectID())
	}
	if _, exists := e.scene.Get(it.ID()); exists {
		return "", fmt.Errorf("add item %s: duplicate id", it.ID())
	}
	e.history.Execute(command.NewAddItems(e.scene, it))
	e.SetSelection([]string{it.ID()})
	return it.ID(), nil
}

// AddObject decodes a persisted object and adds it like AddItem. An empty
// id is replaced by a fresh one before decoding.
func (e *Editor) AddObject(obj document.Object) (string, error) {
	if obj.ID == "" {
		obj.ID = newObjectID()
	}
	it, err := obj.Decode()
	if err != nil {
		return "", err
	}
	return e.AddItem(it)
}

// DeleteSelection removes the selected items as one undo step.
func (e *Editor) DeleteSelection() bool {
	items := e.selectedItems()
	if len(items) == 0 {
		return false
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	e.history.Execute(command.NewRemoveItems(e.scene, ids...))
	e.selection = nil
	return true
}

// MoveSelection translates the unlocked selected items by d.
func (e *Editor) MoveSelection(d geometry.Point) bool {
	items := e.movableItems()
	if len(items) == 0 || d.IsZero() {
		return false
	}
	e.history.Execute(command.NewMoveAll(items, d))
	return true
}

// AlignSelection aligns the unlocked selected items. It reports false when
// fewer than two items take part or nothing would move.
func (e *Editor) AlignSelection(mode align.Mode) bool {
	return e.executeMoves(align.Align(e.movableItems(), mode), "Align")
}

// DistributeSelection spaces the unlocked selected items evenly. It reports
// false when fewer than three items take part or nothing would move.
func (e *Editor) DistributeSelection(axis align.Axis) bool {
	return e.executeMoves(align.Distribute(e.movableItems(), axis), "Distribute")
}

func (e *Editor) executeMoves(moves []align.Move[scene.Item], verb string) bool {
	if len(moves) == 0 {
		return false
	}
	cmdMoves := make([]command.Move, len(moves))
	moved := false
	for i, m := range moves {
		cmdMoves[i] = command.Move{Item: m.Item, Delta: m.Delta}
		moved = moved || !m.Delta.IsZero()
	}
	if !moved {
		return false
	}
	e.history.Execute(command.NewArrange(verb, cmdMoves))
	return true
}

// CreateArray copies the selection according to spec. All copies are added
// as one undo step and become the new selection.
func (e *Editor) CreateArray(spec array.Spec) ([]string, error) {
	items := e.selectedItems()
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}
	origin := scene.Bounds(items).Center()
	offsets, err := array.Offsets(spec, origin)
	if err != nil {
		return nil, err
	}
	if len(offsets)*len(items) > array.MaxCopies {
		return nil, array.ErrTooManyCopies
	}
	if len(offsets) == 0 {
		return nil, nil
	}

	copies := make([]scene.Item, 0, len(offsets)*len(items))
	ids := make([]string, 0, cap(copies))
	for _, off := range offsets {
		for _, it := range items {
			c := it.Clone(newObjectID())
			c.MoveBy(off)
			copies = append(copies, c)
			ids = append(ids, c.ID())
		}
	}
	e.history.Execute(command.NewCreateArray(e.scene, copies))
	e.SetSelection(ids)
	return ids, nil
}

// SetStyle applies style to the selection.
func (e *Editor) SetStyle(style scene.Style) bool {
	items := e.selectedItems()
	if len(items) == 0 {
		return false
	}
	e.history.Execute(command.NewChangeStyle(items, style))
	return true
}

// SetObjectType changes the garden object type of the selection.
func (e *Editor) SetObjectType(t scene.ObjectType) bool {
	items := e.selectedItems()
	if len(items) == 0 {
		return false
	}
	e.history.Execute(command.NewChangeObjectType(items, t))
	return true
}

// SetShadow toggles the drop shadow of the selection.
func (e *Editor) SetShadow(enabled bool) bool {
	items := e.selectedItems()
	if len(items) == 0 {
		return false
	}
	e.history.Execute(command.NewSetShadow(items, enabled))
	return true
}
