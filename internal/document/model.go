package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
)

var ErrInvalidObject = errors.New("invalid object")

// PlanDocument is the persisted form of a garden plan.
type PlanDocument struct {
	Project Project  `json:"project"`
	Layers  []Layer  `json:"layers"`
	Objects []Object `json:"objects"` // painter's order, bottom first
	Guides  Guides   `json:"guides"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
	Canvas    Canvas    `json:"canvas"`
	Location  *Location `json:"location,omitempty"`
}

// Canvas is the fixed plan size in centimeters.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c Canvas) Rect() geometry.Rect {
	return geometry.Rect{Width: c.Width, Height: c.Height}
}

// Location is optional site metadata.
type Location struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Layer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

// Guides are ruler guide positions, used as extra snap targets.
type Guides struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

type Object struct {
	ID         string           `json:"id"`
	Kind       scene.Kind       `json:"kind"`
	ObjectType scene.ObjectType `json:"objectType"`
	Layer      string           `json:"layer,omitempty"`
	Style      scene.Style      `json:"style"`
	Shadow     bool             `json:"shadow"`
	Locked     bool             `json:"locked"`
	Data       json.RawMessage  `json:"data"`
}

type rectData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type polygonData struct {
	Points []geometry.Point `json:"points"`
}

type circleData struct {
	Center geometry.Point `json:"center"`
	Radius float64        `json:"radius"`
}

type lineData struct {
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
}

// Decode builds a scene item from the object.
func (o Object) Decode() (scene.Item, error) {
	if o.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidObject)
	}
	base := scene.Entity{
		EntityID:   o.ID,
		ObjectType: o.ObjectType,
		Style:      o.Style,
		Shadow:     o.Shadow,
		Locked:     o.Locked,
		Layer:      o.Layer,
	}
	if base.ObjectType == "" {
		base.ObjectType = scene.ObjectTypeGeneric
	}

	switch o.Kind {
	case scene.KindRectangle, scene.KindBackground:
		var d rectData
		if err := json.Unmarshal(o.Data, &d); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidObject, o.ID, err)
		}
		r := geometry.Rect{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}
		if o.Kind == scene.KindBackground {
			return &scene.Background{Entity: base, Rect: r, ImageURL: d.ImageURL}, nil
		}
		return &scene.Rectangle{Entity: base, Rect: r, Rotation: d.Rotation}, nil

	case scene.KindPolygon:
		var d polygonData
		if err := json.Unmarshal(o.Data, &d); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidObject, o.ID, err)
		}
		if len(d.Points) < 3 {
			return nil, fmt.Errorf("%w %s: polygon needs at least 3 points", ErrInvalidObject, o.ID)
		}
		return &scene.Polygon{Entity: base, Points: geometry.Polygon(d.Points)}, nil

	case scene.KindCircle:
		var d circleData
		if err := json.Unmarshal(o.Data, &d); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidObject, o.ID, err)
		}
		return &scene.Circle{Entity: base, Circle: geometry.Circle{Center: d.Center, Radius: d.Radius}}, nil

	case scene.KindConstructionLine:
		var d lineData
		if err := json.Unmarshal(o.Data, &d); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidObject, o.ID, err)
		}
		return &scene.ConstructionLine{Entity: base, Start: d.Start, End: d.End}, nil

	default:
		return nil, fmt.Errorf("%w %s: unknown kind %q", ErrInvalidObject, o.ID, o.Kind)
	}
}

// Encode converts a scene item into its persisted form.
func Encode(it scene.Item) (Object, error) {
	e := it.Base()
	obj := Object{
		ID:         e.EntityID,
		Kind:       it.Kind(),
		ObjectType: e.ObjectType,
		Layer:      e.Layer,
		Style:      e.Style,
		Shadow:     e.Shadow,
		Locked:     e.Locked,
	}

	var data any
	switch v := it.(type) {
	case *scene.Rectangle:
		data = rectData{X: v.Rect.X, Y: v.Rect.Y, Width: v.Rect.Width, Height: v.Rect.Height, Rotation: v.Rotation}
	case *scene.Background:
		data = rectData{X: v.Rect.X, Y: v.Rect.Y, Width: v.Rect.Width, Height: v.Rect.Height, ImageURL: v.ImageURL}
	case *scene.Polygon:
		data = polygonData{Points: v.Points}
	case *scene.Circle:
		data = circleData{Center: v.Circle.Center, Radius: v.Circle.Radius}
	case *scene.ConstructionLine:
		data = lineData{Start: v.Start, End: v.End}
	default:
		return Object{}, fmt.Errorf("encode %s: unsupported item %T", e.EntityID, it)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Object{}, fmt.Errorf("encode %s: %w", e.EntityID, err)
	}
	obj.Data = raw
	return obj, nil
}

// BuildScene decodes every object into a new scene sized to the canvas.
func (d *PlanDocument) BuildScene() (*scene.Scene, error) {
	s := scene.New(d.Project.Canvas.Rect())
	for _, o := range d.Objects {
		it, err := o.Decode()
		if err != nil {
			return nil, err
		}
		s.Add(it)
	}
	return s, nil
}

// SetObjects replaces the document's objects with the scene's items.
func (d *PlanDocument) SetObjects(s *scene.Scene) error {
	items := s.Items()
	objects := make([]Object, 0, len(items))
	for _, it := range items {
		o, err := Encode(it)
		if err != nil {
			return err
		}
		objects = append(objects, o)
	}
	d.Objects = objects
	return nil
}

// Parse decodes a plan document from JSON and validates its objects.
func Parse(data []byte) (*PlanDocument, error) {
	var doc PlanDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plan document: %w", err)
	}
	for _, o := range doc.Objects {
		if _, err := o.Decode(); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// NewEmptyDocument creates an empty document for a new plan.
func NewEmptyDocument(planID, name, layerID string, canvas Canvas) *PlanDocument {
	return &PlanDocument{
		Project: Project{
			ID:        planID,
			Name:      name,
			Version:   1,
			CreatedAt: "", // Will be set by caller
			UpdatedAt: "",
			Canvas:    canvas,
		},
		Layers: []Layer{
			{ID: layerID, Name: "Layer 1", Visible: true},
		},
		Objects: []Object{},
		Guides:  Guides{X: []float64{}, Y: []float64{}},
	}
}
