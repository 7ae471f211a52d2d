package geometry

import "math"

// Polygon is a closed vertex loop. Insertion order is the winding order and
// either direction is allowed; the last vertex connects back to the first.
type Polygon []Point

// SignedArea returns the shoelace area. The sign reflects the winding
// direction. Fewer than three vertices yields 0.
func (p Polygon) SignedArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return 0.5 * sum
}

// Area returns the absolute area, independent of winding.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Perimeter returns the length of the closed outline. For degenerate input
// it is the sum of whatever edges exist.
func (p Polygon) Perimeter() float64 {
	n := len(p)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += p[i].Distance(p[(i+1)%n])
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := minX, minY
	for _, v := range p[1:] {
		minX = min(minX, v.X)
		minY = min(minY, v.Y)
		maxX = max(maxX, v.X)
		maxY = max(maxY, v.Y)
	}
	return RectFromEdges(minX, minY, maxX, maxY)
}

// Translate returns a copy of the polygon shifted by d.
func (p Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Add(d)
	}
	return out
}

// Reverse returns a copy with the winding order flipped.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}
