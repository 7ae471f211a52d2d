package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gardenplan/planner/internal/command"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/measure"
	"github.com/gardenplan/planner/internal/scene"
	"github.com/gardenplan/planner/internal/snap"
	"github.com/gardenplan/planner/internal/typeid"
)

var (
	ErrNoDocument     = errors.New("no document loaded")
	ErrUnknownItem    = errors.New("unknown item")
	ErrEmptySelection = errors.New("selection is empty")
	ErrDragActive     = errors.New("drag already in progress")
	ErrNoDrag         = errors.New("no drag in progress")
)

// Options configures a new Editor.
type Options struct {
	SnapThreshold float64
	HistoryLimit  int
}

// Editor owns one plan's scene, selection and undo history, and turns UI
// gestures into commands. It is not safe for concurrent use.
type Editor struct {
	doc     *document.PlanDocument
	scene   *scene.Scene
	history *command.Manager
	snapper *snap.Snapper

	snapping  bool
	selection []string
	drag      *dragSession
}

// New creates an editor with no document loaded.
func New(opts Options) *Editor {
	if opts.SnapThreshold == 0 {
		opts.SnapThreshold = snap.DefaultThreshold
	}
	return &Editor{
		history:  command.NewManager(opts.HistoryLimit),
		snapper:  snap.NewSnapper(opts.SnapThreshold),
		snapping: true,
	}
}

// --- Document ---

// LoadDocument replaces the current plan with the JSON document and clears
// the selection and history.
func (e *Editor) LoadDocument(data []byte) error {
	doc, err := document.Parse(data)
	if err != nil {
		return err
	}
	return e.SetDocument(doc)
}

// SetDocument replaces the current plan and clears selection and history.
func (e *Editor) SetDocument(doc *document.PlanDocument) error {
	s, err := doc.BuildScene()
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	e.doc = doc
	e.scene = s
	e.selection = nil
	e.drag = nil
	e.history.Clear()
	slog.Debug("plan loaded", "plan", doc.Project.ID, "objects", s.Len())
	return nil
}

// NewPlan starts a blank plan on the given canvas.
func (e *Editor) NewPlan(planID, name string, canvas document.Canvas) {
	doc := document.NewEmptyDocument(planID, name, typeid.NewLayerID(), canvas)
	now := time.Now().UTC().Format(time.RFC3339)
	doc.Project.CreatedAt = now
	doc.Project.UpdatedAt = now
	// An empty document always builds.
	_ = e.SetDocument(doc)
}

// LoadSampleDocument loads the built-in sample garden.
func (e *Editor) LoadSampleDocument(planID string) {
	// The sample only contains valid objects.
	_ = e.SetDocument(document.NewSampleDocument(planID))
}

// Document returns the current plan with its objects synced from the scene.
func (e *Editor) Document() (*document.PlanDocument, error) {
	if e.doc == nil {
		return nil, ErrNoDocument
	}
	if err := e.doc.SetObjects(e.scene); err != nil {
		return nil, err
	}
	e.doc.Project.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return e.doc, nil
}

// DocumentJSON is Document serialized to JSON.
func (e *Editor) DocumentJSON() ([]byte, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Scene exposes the live scene for read-only queries.
func (e *Editor) Scene() *scene.Scene { return e.scene }

// History exposes the undo manager, e.g. to register a change listener.
func (e *Editor) History() *command.Manager { return e.history }

func (e *Editor) loaded() bool { return e.scene != nil }

// --- Selection ---

// SetSelection selects the given items. Unknown and non-selectable ids are
// dropped; duplicates are collapsed.
func (e *Editor) SetSelection(ids []string) {
	e.selection = e.selection[:0]
	if !e.loaded() {
		return
	}
	for _, id := range ids {
		it, ok := e.scene.Get(id)
		if !ok || !it.Selectable() || slices.Contains(e.selection, id) {
			continue
		}
		e.selection = append(e.selection, id)
	}
}

// Selection returns the selected ids in selection order.
func (e *Editor) Selection() []string {
	return slices.Clone(e.selection)
}

// SelectAll selects every selectable item.
func (e *Editor) SelectAll() {
	if e.loaded() {
		e.selection = e.scene.SelectableIDs()
	}
}

// HitTest returns the id of the topmost selectable item at p, or "".
func (e *Editor) HitTest(p geometry.Point) string {
	if !e.loaded() {
		return ""
	}
	if it, ok := e.scene.HitTest(p); ok {
		return it.ID()
	}
	return ""
}

// SelectionBounds returns the combined bounding box of the selection.
func (e *Editor) SelectionBounds() (geometry.Rect, bool) {
	items := e.selectedItems()
	if len(items) == 0 {
		return geometry.Rect{}, false
	}
	return scene.Bounds(items), true
}

// selectedItems resolves the selection, dropping ids that no longer exist
// after an undo or a delete.
func (e *Editor) selectedItems() []scene.Item {
	if !e.loaded() {
		return nil
	}
	return e.scene.Lookup(e.selection)
}

// movableItems is the selection without locked items.
func (e *Editor) movableItems() []scene.Item {
	items := e.selectedItems()
	return slices.DeleteFunc(items, func(it scene.Item) bool { return it.Base().Locked })
}

// --- Measurement ---

// Measure returns the area and perimeter of an item. The boolean is false
// for unknown ids and for kinds without an area.
func (e *Editor) Measure(id string) (measure.Measurement, bool) {
	if !e.loaded() {
		return measure.Measurement{}, false
	}
	it, ok := e.scene.Get(id)
	if !ok {
		return measure.Measurement{}, false
	}
	return measure.Measure(it)
}

// --- History ---

func (e *Editor) Undo() bool    { return e.history.Undo() }
func (e *Editor) Redo() bool    { return e.history.Redo() }
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// HistoryState summarizes the undo stacks for the UI.
type HistoryState struct {
	CanUndo  bool   `json:"canUndo"`
	CanRedo  bool   `json:"canRedo"`
	UndoText string `json:"undoText,omitempty"`
	RedoText string `json:"redoText,omitempty"`
}

func (e *Editor) HistoryState() HistoryState {
	return HistoryState{
		CanUndo:  e.history.CanUndo(),
		CanRedo:  e.history.CanRedo(),
		UndoText: e.history.UndoText(),
		RedoText: e.history.RedoText(),
	}
}

// --- Snapping settings ---

func (e *Editor) SnapThreshold() float64 { return e.snapper.Threshold() }

func (e *Editor) SetSnapThreshold(v float64) { e.snapper.SetThreshold(v) }

// SetSnapping turns object snapping during drags on or off.
func (e *Editor) SetSnapping(enabled bool) { e.snapping = enabled }

// SetRulerGuides replaces the ruler guide positions, which act as extra
// snap targets.
func (e *Editor) SetRulerGuides(x, y []float64) error {
	if e.doc == nil {
		return ErrNoDocument
	}
	e.doc.Guides = document.Guides{X: slices.Clone(x), Y: slices.Clone(y)}
	return nil
}

func newObjectID() string { return typeid.NewObjectID() }
