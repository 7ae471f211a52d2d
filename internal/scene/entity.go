// Package scene models the items of a garden plan and the ordered container
// that owns them.
package scene

import (
	"fmt"
	"slices"

	"github.com/gardenplan/planner/internal/geometry"
)

// Kind is the geometric shape kind of an item.
type Kind string

const (
	KindRectangle        Kind = "rectangle"
	KindPolygon          Kind = "polygon"
	KindCircle           Kind = "circle"
	KindConstructionLine Kind = "constructionLine"
	KindBackground       Kind = "background"
)

// ObjectType is the garden meaning of an item, independent of its shape.
type ObjectType string

const (
	ObjectTypeGeneric  ObjectType = "generic"
	ObjectTypeBed      ObjectType = "bed"
	ObjectTypeLawn     ObjectType = "lawn"
	ObjectTypePath     ObjectType = "path"
	ObjectTypePatio    ObjectType = "patio"
	ObjectTypePond     ObjectType = "pond"
	ObjectTypeTree     ObjectType = "tree"
	ObjectTypeShrub    ObjectType = "shrub"
	ObjectTypeBuilding ObjectType = "building"
	ObjectTypeFence    ObjectType = "fence"
)

var objectTypes = []ObjectType{
	ObjectTypeGeneric, ObjectTypeBed, ObjectTypeLawn, ObjectTypePath, ObjectTypePatio,
	ObjectTypePond, ObjectTypeTree, ObjectTypeShrub, ObjectTypeBuilding, ObjectTypeFence,
}

func ParseObjectType(s string) (ObjectType, error) {
	if t := ObjectType(s); slices.Contains(objectTypes, t) {
		return t, nil
	}
	return "", fmt.Errorf("unknown object type %q", s)
}

// Style is the visual stroke and fill of an item.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Entity carries the identity and drawing attributes shared by every item
// kind. Concrete shapes embed it.
type Entity struct {
	EntityID   string     `json:"id"`
	ObjectType ObjectType `json:"objectType"`
	Style      Style      `json:"style"`
	Shadow     bool       `json:"shadow"`
	Locked     bool       `json:"locked"`
	Layer      string     `json:"layer,omitempty"`
}

// ID returns the item's unique identifier.
func (e *Entity) ID() string { return e.EntityID }

// Base exposes the shared attributes for in-place edits.
func (e *Entity) Base() *Entity { return e }

// strokeMargin is how far the rendered outline reaches past the geometry.
func (e *Entity) strokeMargin() float64 {
	if e.Style.StrokeWidth <= 0 {
		return 0
	}
	return e.Style.StrokeWidth / 2
}

func (e *Entity) cloneAs(id string) Entity {
	c := *e
	c.EntityID = id
	return c
}

// Item is a movable, identifiable element of a plan.
type Item interface {
	ID() string
	Kind() Kind
	Base() *Entity
	// BoundingBox is the axis-aligned extent in scene coordinates, stroke
	// margin included.
	BoundingBox() geometry.Rect
	MoveBy(d geometry.Point)
	// Selectable is false for reference content such as background images.
	Selectable() bool
	Clone(id string) Item
}
