// Package geometry holds the pure path helpers used by shape detection:
// bounding boxes, arc-length resampling, normalization, hulls and areas.
package geometry

import "math"

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is an ordered stroke; index order is drawing order.
type Path []Point

// BoundingBox is the axis-aligned extent of a path. Zero width or height is legal.
type BoundingBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func (b BoundingBox) Width() float64  { return b.MaxX - b.MinX }
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

func (b BoundingBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Area is zero for degenerate boxes.
func (b BoundingBox) Area() float64 { return b.Width() * b.Height() }

// Dist is the euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Bounds returns the bounding box of p. An empty path yields the zero box.
func Bounds(p Path) BoundingBox {
	if len(p) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, pt := range p[1:] {
		b.MinX = math.Min(b.MinX, pt.X)
		b.MinY = math.Min(b.MinY, pt.Y)
		b.MaxX = math.Max(b.MaxX, pt.X)
		b.MaxY = math.Max(b.MaxY, pt.Y)
	}
	return b
}

// Length is the total traversed polyline length.
func Length(p Path) float64 {
	var l float64
	for i := 0; i+1 < len(p); i++ {
		l += Dist(p[i], p[i+1])
	}
	return l
}

// Centroid is the arithmetic mean of the points.
func Centroid(p Path) Point {
	if len(p) == 0 {
		return Point{}
	}
	var c Point
	for _, pt := range p {
		c.X += pt.X
		c.Y += pt.Y
	}
	n := float64(len(p))
	return Point{X: c.X / n, Y: c.Y / n}
}

// ShoelaceArea is the absolute signed area of the polyline, without an implicit
// closing edge from the last point back to the first.
func ShoelaceArea(p Path) float64 {
	var a float64
	for i := 0; i+1 < len(p); i++ {
		a += p[i].X*p[i+1].Y - p[i+1].X*p[i].Y
	}
	return math.Abs(a) / 2
}

// Finite reports whether every coordinate is a real number.
func Finite(p Path) bool {
	for _, pt := range p {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			return false
		}
	}
	return true
}
