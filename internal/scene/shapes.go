package scene

import (
	"github.com/gardenplan/planner/internal/geometry"
	"github.com/gardenplan/planner/internal/measure"
)

// Rectangle is an axis-aligned rect optionally rotated about its center.
type Rectangle struct {
	Entity
	Rect     geometry.Rect `json:"rect"`
	Rotation float64       `json:"rotation"` // degrees
}

func (r *Rectangle) Kind() Kind       { return KindRectangle }
func (r *Rectangle) Selectable() bool { return true }

// Outline returns the four corners after rotation.
func (r *Rectangle) Outline() geometry.Polygon {
	if r.Rotation == 0 {
		return r.Rect.Corners()
	}
	return geometry.RotationAbout(r.Rect.Center(), r.Rotation).ApplyPolygon(r.Rect.Corners())
}

func (r *Rectangle) BoundingBox() geometry.Rect {
	return r.Outline().Bounds().Expand(r.strokeMargin())
}

func (r *Rectangle) MoveBy(d geometry.Point) {
	r.Rect = r.Rect.Translate(d)
}

func (r *Rectangle) Clone(id string) Item {
	c := *r
	c.Entity = r.cloneAs(id)
	return &c
}

func (r *Rectangle) Measure() measure.Measurement {
	return measure.Measurement{Area: r.Rect.Area(), Perimeter: r.Rect.Perimeter()}
}

// Polygon is a free-form closed outline such as a bed or lawn.
type Polygon struct {
	Entity
	Points geometry.Polygon `json:"points"`
}

func (p *Polygon) Kind() Kind       { return KindPolygon }
func (p *Polygon) Selectable() bool { return true }

func (p *Polygon) BoundingBox() geometry.Rect {
	return p.Points.Bounds().Expand(p.strokeMargin())
}

func (p *Polygon) MoveBy(d geometry.Point) {
	p.Points = p.Points.Translate(d)
}

func (p *Polygon) Clone(id string) Item {
	c := *p
	c.Entity = p.cloneAs(id)
	c.Points = append(geometry.Polygon(nil), p.Points...)
	return &c
}

func (p *Polygon) Measure() measure.Measurement {
	return measure.Measurement{Area: p.Points.Area(), Perimeter: p.Points.Perimeter()}
}

// Circle is used for trees, shrubs and round beds.
type Circle struct {
	Entity
	Circle geometry.Circle `json:"circle"`
}

func (c *Circle) Kind() Kind       { return KindCircle }
func (c *Circle) Selectable() bool { return true }

func (c *Circle) BoundingBox() geometry.Rect {
	return c.Circle.Bounds().Expand(c.strokeMargin())
}

func (c *Circle) MoveBy(d geometry.Point) {
	c.Circle.Center = c.Circle.Center.Add(d)
}

func (c *Circle) Clone(id string) Item {
	cp := *c
	cp.Entity = c.cloneAs(id)
	return &cp
}

func (c *Circle) Measure() measure.Measurement {
	return measure.Measurement{
		Area:          c.Circle.Area(),
		Perimeter:     c.Circle.Circumference(),
		Circumference: true,
	}
}

// ConstructionLine is a drawing aid. It snaps and moves like any other item
// but has no area.
type ConstructionLine struct {
	Entity
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
}

func (l *ConstructionLine) Kind() Kind       { return KindConstructionLine }
func (l *ConstructionLine) Selectable() bool { return true }

func (l *ConstructionLine) BoundingBox() geometry.Rect {
	return geometry.RectFromEdges(l.Start.X, l.Start.Y, l.End.X, l.End.Y).Expand(l.strokeMargin())
}

func (l *ConstructionLine) MoveBy(d geometry.Point) {
	l.Start = l.Start.Add(d)
	l.End = l.End.Add(d)
}

func (l *ConstructionLine) Clone(id string) Item {
	c := *l
	c.Entity = l.cloneAs(id)
	return &c
}

// Length returns the distance between the end points.
func (l *ConstructionLine) Length() float64 {
	return l.Start.Distance(l.End)
}

// Background is reference imagery, such as a site survey, placed under the
// plan. It is never selectable and never a snap target.
type Background struct {
	Entity
	Rect     geometry.Rect `json:"rect"`
	ImageURL string        `json:"imageUrl"`
}

func (b *Background) Kind() Kind                 { return KindBackground }
func (b *Background) Selectable() bool           { return false }
func (b *Background) BoundingBox() geometry.Rect { return b.Rect }
func (b *Background) MoveBy(d geometry.Point)    { b.Rect = b.Rect.Translate(d) }

func (b *Background) Clone(id string) Item {
	c := *b
	c.Entity = b.cloneAs(id)
	return &c
}
