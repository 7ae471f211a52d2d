package command

import (
	"fmt"

	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
)

func describe(verb string, n int) string {
	if n == 1 {
		return fmt.Sprintf("%s 1 object", verb)
	}
	return fmt.Sprintf("%s %d objects", verb, n)
}

// AddItems puts new items on top of the scene.
type AddItems struct {
	scene *scene.Scene
	items []scene.Item
	verb  string
}

// NewAddItems records the addition of items to s.
func NewAddItems(s *scene.Scene, items ...scene.Item) *AddItems {
	return &AddItems{scene: s, items: items, verb: "Add"}
}

// NewCreateArray is NewAddItems for the copies produced by an array tool.
func NewCreateArray(s *scene.Scene, copies []scene.Item) *AddItems {
	return &AddItems{scene: s, items: copies, verb: "Create array of"}
}

func (c *AddItems) Execute() { c.scene.Add(c.items...) }

func (c *AddItems) Undo() {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID()
	}
	c.scene.Remove(ids...)
}

func (c *AddItems) Description() string { return describe(c.verb, len(c.items)) }

// Items returns the items this command adds.
func (c *AddItems) Items() []scene.Item { return c.items }

// RemoveItems deletes items and restores them at their original depth on
// undo.
type RemoveItems struct {
	scene   *scene.Scene
	ids     []string
	removed []scene.Removed
}

// NewRemoveItems records the removal of the given ids. Unknown and repeated
// ids are dropped up front so the description counts only real items.
func NewRemoveItems(s *scene.Scene, ids ...string) *RemoveItems {
	known := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, it := range s.Lookup(ids) {
		if seen[it.ID()] {
			continue
		}
		seen[it.ID()] = true
		known = append(known, it.ID())
	}
	return &RemoveItems{scene: s, ids: known}
}

func (c *RemoveItems) Execute()            { c.removed = c.scene.Remove(c.ids...) }
func (c *RemoveItems) Undo()               { c.scene.Restore(c.removed) }
func (c *RemoveItems) Description() string { return describe("Delete", len(c.ids)) }

// Move is the translation applied to one item.
type Move struct {
	Item  scene.Item
	Delta geometry.Point
}

// MoveItems translates items, each by its own delta.
type MoveItems struct {
	moves []Move
	verb  string
}

// NewMoveItems records per-item translations. Zero deltas are kept so the
// description matches the selection size.
func NewMoveItems(moves []Move) *MoveItems {
	return &MoveItems{moves: moves, verb: "Move"}
}

// NewArrange is NewMoveItems for align and distribute, described by verb.
func NewArrange(verb string, moves []Move) *MoveItems {
	return &MoveItems{moves: moves, verb: verb}
}

// NewMoveAll moves every item by the same delta.
func NewMoveAll(items []scene.Item, delta geometry.Point) *MoveItems {
	moves := make([]Move, len(items))
	for i, it := range items {
		moves[i] = Move{Item: it, Delta: delta}
	}
	return &MoveItems{moves: moves, verb: "Move"}
}

func (c *MoveItems) Execute() {
	for _, m := range c.moves {
		m.Item.MoveBy(m.Delta)
	}
}

func (c *MoveItems) Undo() {
	for i := len(c.moves) - 1; i >= 0; i-- {
		m := c.moves[i]
		m.Item.MoveBy(geometry.Pt(-m.Delta.X, -m.Delta.Y))
	}
}

func (c *MoveItems) Description() string { return describe(c.verb, len(c.moves)) }

// EditEntities changes shared attributes (style, object type, shadow) of a
// set of items and restores each item's previous attributes on undo.
type EditEntities struct {
	items  []scene.Item
	before []scene.Entity
	apply  func(*scene.Entity)
	verb   string
}

func newEditEntities(items []scene.Item, verb string, apply func(*scene.Entity)) *EditEntities {
	before := make([]scene.Entity, len(items))
	for i, it := range items {
		before[i] = *it.Base()
	}
	return &EditEntities{items: items, before: before, apply: apply, verb: verb}
}

// NewChangeStyle sets the style of every item.
func NewChangeStyle(items []scene.Item, style scene.Style) *EditEntities {
	return newEditEntities(items, "Change style of", func(e *scene.Entity) { e.Style = style })
}

// NewChangeObjectType sets the garden object type of every item.
func NewChangeObjectType(items []scene.Item, t scene.ObjectType) *EditEntities {
	return newEditEntities(items, "Change type of", func(e *scene.Entity) { e.ObjectType = t })
}

// NewSetShadow toggles the drop shadow of every item.
func NewSetShadow(items []scene.Item, enabled bool) *EditEntities {
	return newEditEntities(items, "Change shadow of", func(e *scene.Entity) { e.Shadow = enabled })
}

func (c *EditEntities) Execute() {
	for _, it := range c.items {
		c.apply(it.Base())
	}
}

func (c *EditEntities) Undo() {
	for i, it := range c.items {
		*it.Base() = c.before[i]
	}
}

func (c *EditEntities) Description() string { return describe(c.verb, len(c.items)) }

// Batch groups commands into one undo step. Children run in order and are
// undone in reverse order.
type Batch struct {
	text string
	cmds []Command
}

// NewBatch groups cmds under a single description.
func NewBatch(text string, cmds ...Command) *Batch {
	return &Batch{text: text, cmds: cmds}
}

func (b *Batch) Execute() {
	for _, c := range b.cmds {
		c.Execute()
	}
}

func (b *Batch) Undo() {
	for i := len(b.cmds) - 1; i >= 0; i-- {
		b.cmds[i].Undo()
	}
}

func (b *Batch) Description() string { return b.text }
