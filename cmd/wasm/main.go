//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/gardenplan/planner/internal/align"
	"github.com/gardenplan/planner/internal/array"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/engine"
	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
	"github.com/gardenplan/planner/internal/typeid"
)

var ed *engine.Editor

func main() {
	ed = engine.New(engine.Options{})

	// Create the editor API object
	planner := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	planner.Set("loadDocument", js.FuncOf(loadDocument))
	planner.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	planner.Set("newPlan", js.FuncOf(newPlan))
	planner.Set("setSelection", js.FuncOf(setSelection))
	planner.Set("selectAll", js.FuncOf(selectAll))
	planner.Set("addItem", js.FuncOf(addItem))
	planner.Set("deleteSelection", js.FuncOf(deleteSelection))
	planner.Set("moveSelection", js.FuncOf(moveSelection))
	planner.Set("alignSelection", js.FuncOf(alignSelection))
	planner.Set("distributeSelection", js.FuncOf(distributeSelection))
	planner.Set("createArray", js.FuncOf(createArray))
	planner.Set("setStyle", js.FuncOf(setStyle))
	planner.Set("setObjectType", js.FuncOf(setObjectType))
	planner.Set("setShadow", js.FuncOf(setShadow))
	planner.Set("beginDrag", js.FuncOf(beginDrag))
	planner.Set("dragTo", js.FuncOf(dragTo))
	planner.Set("endDrag", js.FuncOf(endDrag))
	planner.Set("cancelDrag", js.FuncOf(cancelDrag))
	planner.Set("undo", js.FuncOf(undo))
	planner.Set("redo", js.FuncOf(redo))
	planner.Set("setSnapThreshold", js.FuncOf(setSnapThreshold))
	planner.Set("setSnapping", js.FuncOf(setSnapping))
	planner.Set("setRulerGuides", js.FuncOf(setRulerGuides))
	planner.Set("onHistoryChange", js.FuncOf(onHistoryChange))

	// --- Queries (frontend ← editor) ---
	planner.Set("getDocument", js.FuncOf(getDocument))
	planner.Set("getSelection", js.FuncOf(getSelection))
	planner.Set("hitTest", js.FuncOf(hitTest))
	planner.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	planner.Set("snapBox", js.FuncOf(snapBox))
	planner.Set("measure", js.FuncOf(measureItem))
	planner.Set("getHistory", js.FuncOf(getHistory))

	// Register on global scope
	js.Global().Set("gardenPlanner", planner)

	// Signal that WASM is ready
	js.Global().Set("gardenPlannerReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func failText(text string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": text})
}

// toJSON returns v encoded as a JS string, "null" on failure.
func toJSON(v any) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

func stringArg(args []js.Value, i int) (string, bool) {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return "", false
	}
	return args[i].String(), true
}

func pointArgs(args []js.Value) (geometry.Point, bool) {
	if len(args) < 2 {
		return geometry.Point{}, false
	}
	return geometry.Pt(args[0].Float(), args[1].Float()), true
}

func stringSlice(v js.Value) []string {
	if v.Type() != js.TypeObject {
		return nil
	}
	length := v.Length()
	out := make([]string, length)
	for i := 0; i < length; i++ {
		out[i] = v.Index(i).String()
	}
	return out
}

func floatSlice(v js.Value) []float64 {
	if v.Type() != js.TypeObject {
		return nil
	}
	length := v.Length()
	out := make([]float64, length)
	for i := 0; i < length; i++ {
		out[i] = v.Index(i).Float()
	}
	return out
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	data, present := stringArg(args, 0)
	if !present {
		return failText("missing document JSON")
	}
	if err := ed.LoadDocument([]byte(data)); err != nil {
		return fail(err)
	}
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	planID := "plan_sample"
	if id, present := stringArg(args, 0); present {
		planID = id
	}
	ed.LoadSampleDocument(planID)
	return ok()
}

// newPlan(name, width, height) starts a blank plan.
func newPlan(this js.Value, args []js.Value) interface{} {
	name, _ := stringArg(args, 0)
	if name == "" {
		name = "Untitled plan"
	}
	canvas := document.Canvas{Width: 5000, Height: 3000}
	if len(args) >= 3 {
		canvas.Width = args[1].Float()
		canvas.Height = args[2].Float()
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return failText("canvas size must be positive")
	}
	ed.NewPlan(typeid.NewPlanID(), name, canvas)
	return ok()
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		ed.SetSelection(nil)
		return nil
	}
	ed.SetSelection(stringSlice(args[0]))
	return nil
}

func selectAll(this js.Value, args []js.Value) interface{} {
	ed.SelectAll()
	return nil
}

// addItem takes a persisted object as JSON; its id may be empty.
func addItem(this js.Value, args []js.Value) interface{} {
	data, present := stringArg(args, 0)
	if !present {
		return failText("missing object JSON")
	}
	var obj document.Object
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return fail(err)
	}
	id, err := ed.AddObject(obj)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"id": id})
}

func deleteSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.DeleteSelection())
}

func moveSelection(this js.Value, args []js.Value) interface{} {
	d, present := pointArgs(args)
	if !present {
		return js.ValueOf(false)
	}
	return js.ValueOf(ed.MoveSelection(d))
}

func alignSelection(this js.Value, args []js.Value) interface{} {
	s, _ := stringArg(args, 0)
	mode, err := align.ParseMode(s)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"changed": ed.AlignSelection(mode)})
}

func distributeSelection(this js.Value, args []js.Value) interface{} {
	s, _ := stringArg(args, 0)
	axis, err := align.ParseAxis(s)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"changed": ed.DistributeSelection(axis)})
}

func createArray(this js.Value, args []js.Value) interface{} {
	data, present := stringArg(args, 0)
	if !present {
		return failText("missing array spec JSON")
	}
	var spec array.Spec
	if err := json.Unmarshal([]byte(data), &spec); err != nil {
		return fail(err)
	}
	ids, err := ed.CreateArray(spec)
	if err != nil {
		return fail(err)
	}
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return js.ValueOf(map[string]interface{}{"ids": out})
}

func setStyle(this js.Value, args []js.Value) interface{} {
	data, present := stringArg(args, 0)
	if !present {
		return js.ValueOf(false)
	}
	var style scene.Style
	if err := json.Unmarshal([]byte(data), &style); err != nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(ed.SetStyle(style))
}

func setObjectType(this js.Value, args []js.Value) interface{} {
	s, _ := stringArg(args, 0)
	t, err := scene.ParseObjectType(s)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"changed": ed.SetObjectType(t)})
}

func setShadow(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(ed.SetShadow(args[0].Truthy()))
}

func beginDrag(this js.Value, args []js.Value) interface{} {
	if err := ed.BeginDrag(); err != nil {
		return fail(err)
	}
	return ok()
}

// dragTo returns the snapped delta and guides as JSON.
func dragTo(this js.Value, args []js.Value) interface{} {
	d, present := pointArgs(args)
	if !present {
		return js.ValueOf("null")
	}
	upd, err := ed.DragTo(d)
	if err != nil {
		return js.ValueOf("null")
	}
	return toJSON(upd)
}

func endDrag(this js.Value, args []js.Value) interface{} {
	d, _ := pointArgs(args)
	moved, err := ed.EndDrag(d)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"moved": moved})
}

func cancelDrag(this js.Value, args []js.Value) interface{} {
	ed.CancelDrag()
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Redo())
}

func setSnapThreshold(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetSnapThreshold(args[0].Float())
	return js.ValueOf(ed.SnapThreshold())
}

func setSnapping(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetSnapping(args[0].Truthy())
	return nil
}

func setRulerGuides(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return failText("expected x and y guide arrays")
	}
	if err := ed.SetRulerGuides(floatSlice(args[0]), floatSlice(args[1])); err != nil {
		return fail(err)
	}
	return ok()
}

// onHistoryChange registers a callback receiving the history state as JSON.
func onHistoryChange(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	cb := args[0]
	ed.History().OnChange(func() {
		cb.Invoke(toJSON(ed.HistoryState()))
	})
	return nil
}

// --- Query Handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := ed.DocumentJSON()
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return toJSON(ed.Selection())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	p, present := pointArgs(args)
	if !present {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.HitTest(p))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	b, found := ed.SelectionBounds()
	if !found {
		return js.ValueOf("null")
	}
	return toJSON(b)
}

// snapBox snaps a box given as JSON, skipping the ids in the optional
// second argument.
func snapBox(this js.Value, args []js.Value) interface{} {
	data, present := stringArg(args, 0)
	if !present {
		return js.ValueOf("null")
	}
	var box geometry.Rect
	if err := json.Unmarshal([]byte(data), &box); err != nil {
		return js.ValueOf("null")
	}
	var exclude []string
	if len(args) > 1 {
		exclude = stringSlice(args[1])
	}
	return toJSON(ed.SnapBox(box, exclude...))
}

func measureItem(this js.Value, args []js.Value) interface{} {
	id, _ := stringArg(args, 0)
	m, found := ed.Measure(id)
	if !found {
		return js.ValueOf("null")
	}
	return toJSON(m.Format())
}

func getHistory(this js.Value, args []js.Value) interface{} {
	return toJSON(ed.HistoryState())
}
