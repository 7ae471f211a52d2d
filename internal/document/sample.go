package document

import (
	"time"

	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/scene"
	"github.com/gardenplan/planner/internal/typeid"
)

// NewSampleDocument returns a small furnished garden used by the playground
// and by tests.
func NewSampleDocument(planID string) *PlanDocument {
	now := time.Now().UTC().Format(time.RFC3339)
	layerID := typeid.NewLayerID()

	doc := NewEmptyDocument(planID, "Sample garden", layerID, Canvas{Width: 2000, Height: 1200})
	doc.Project.CreatedAt = now
	doc.Project.UpdatedAt = now
	doc.Guides = Guides{X: []float64{1000}, Y: []float64{600}}

	items := []scene.Item{
		&scene.Rectangle{
			Entity: entity(layerID, scene.ObjectTypeBuilding, scene.Style{Fill: "#c8b8a6", Stroke: "#5a4a3a", StrokeWidth: 4}),
			Rect:   geometry.Rect{X: 100, Y: 100, Width: 800, Height: 500},
		},
		&scene.Polygon{
			Entity: entity(layerID, scene.ObjectTypeLawn, scene.Style{Fill: "#7cb342"}),
			Points: geometry.Polygon{{X: 1000, Y: 100}, {X: 1900, Y: 100}, {X: 1900, Y: 1100}, {X: 1300, Y: 1100}, {X: 1000, Y: 800}},
		},
		&scene.Rectangle{
			Entity: entity(layerID, scene.ObjectTypePath, scene.Style{Fill: "#bdbdbd"}),
			Rect:   geometry.Rect{X: 450, Y: 600, Width: 100, Height: 500},
		},
		&scene.Rectangle{
			Entity: entity(layerID, scene.ObjectTypeBed, scene.Style{Fill: "#8d6e63", Stroke: "#4e342e", StrokeWidth: 2}),
			Rect:   geometry.Rect{X: 100, Y: 800, Width: 300, Height: 120},
		},
		&scene.Circle{
			Entity: entity(layerID, scene.ObjectTypeTree, scene.Style{Fill: "#2e7d32"}),
			Circle: geometry.Circle{Center: geometry.Pt(1500, 400), Radius: 150},
		},
		&scene.Circle{
			Entity: entity(layerID, scene.ObjectTypeShrub, scene.Style{Fill: "#558b2f"}),
			Circle: geometry.Circle{Center: geometry.Pt(1750, 900), Radius: 60},
		},
		&scene.ConstructionLine{
			Entity: entity(layerID, scene.ObjectTypeGeneric, scene.Style{Stroke: "#1e88e5", StrokeWidth: 1}),
			Start:  geometry.Pt(0, 1150),
			End:    geometry.Pt(2000, 1150),
		},
	}

	for _, it := range items {
		if o, err := Encode(it); err == nil {
			doc.Objects = append(doc.Objects, o)
		}
	}
	return doc
}

func entity(layerID string, t scene.ObjectType, style scene.Style) scene.Entity {
	return scene.Entity{
		EntityID:   typeid.NewObjectID(),
		ObjectType: t,
		Style:      style,
		Layer:      layerID,
	}
}
