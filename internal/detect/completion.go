package detect

import (
	"math"

	"github.com/dkeye/Sketch/internal/geometry"
)

type CompletionKind string

const (
	KindCircle    CompletionKind = "circle"
	KindRectangle CompletionKind = "rectangle"
	KindLine      CompletionKind = "line"
	KindTriangle  CompletionKind = "triangle"
	KindPath      CompletionKind = "path"
)

// CompletionShape is the idealized geometry offered in place of a stroke, in the
// stroke's own canvas coordinates. Every variant serializes with a "type" tag.
type CompletionShape interface {
	Kind() CompletionKind
}

type Circle struct {
	Type   CompletionKind `json:"type"`
	CX     float64        `json:"cx"`
	CY     float64        `json:"cy"`
	R      float64        `json:"r"`
	Stroke string         `json:"stroke,omitempty"`
}

type Rectangle struct {
	Type   CompletionKind `json:"type"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	W      float64        `json:"w"`
	H      float64        `json:"h"`
	Stroke string         `json:"stroke,omitempty"`
}

type Segment struct {
	Type   CompletionKind `json:"type"`
	X1     float64        `json:"x1"`
	Y1     float64        `json:"y1"`
	X2     float64        `json:"x2"`
	Y2     float64        `json:"y2"`
	Stroke string         `json:"stroke,omitempty"`
}

type Triangle struct {
	Type   CompletionKind `json:"type"`
	X1     float64        `json:"x1"`
	Y1     float64        `json:"y1"`
	X2     float64        `json:"x2"`
	Y2     float64        `json:"y2"`
	X3     float64        `json:"x3"`
	Y3     float64        `json:"y3"`
	Stroke string         `json:"stroke,omitempty"`
}

// PolyPath carries star completions as a closed point sequence.
type PolyPath struct {
	Type   CompletionKind `json:"type"`
	Path   geometry.Path  `json:"path"`
	Stroke string         `json:"stroke,omitempty"`
}

func (Circle) Kind() CompletionKind    { return KindCircle }
func (Rectangle) Kind() CompletionKind { return KindRectangle }
func (Segment) Kind() CompletionKind   { return KindLine }
func (Triangle) Kind() CompletionKind  { return KindTriangle }
func (PolyPath) Kind() CompletionKind  { return KindPath }

const (
	starPoints      = 5
	starInnerFactor = 0.4
)

// Complete builds the completion for label inside bounds. Unknown yields nil.
func Complete(label Label, b geometry.BoundingBox, stroke string) CompletionShape {
	c := b.Center()
	w, h := b.Width(), b.Height()
	r := math.Max(w, h) / 2

	switch label {
	case LabelLine:
		// The box diagonal, not a fitted line.
		return Segment{Type: KindLine, X1: b.MinX, Y1: b.MinY, X2: b.MaxX, Y2: b.MaxY, Stroke: stroke}
	case LabelCircle, LabelApple:
		return Circle{Type: KindCircle, CX: c.X, CY: c.Y, R: r, Stroke: stroke}
	case LabelRectangle:
		return Rectangle{Type: KindRectangle, X: b.MinX, Y: b.MinY, W: w, H: h, Stroke: stroke}
	case LabelTriangle:
		return Triangle{
			Type:   KindTriangle,
			X1:     c.X,
			Y1:     b.MinY,
			X2:     b.MinX,
			Y2:     b.MaxY,
			X3:     b.MaxX,
			Y3:     b.MaxY,
			Stroke: stroke,
		}
	case LabelStar:
		return PolyPath{Type: KindPath, Path: StarPath(c, r, starPoints), Stroke: stroke}
	default:
		return nil
	}
}

// StarPath returns a closed star polygon with 2*points vertices alternating between
// r and 0.4r, the first vertex pointing up, followed by the first vertex again.
func StarPath(center geometry.Point, r float64, points int) geometry.Path {
	out := make(geometry.Path, 0, points*2+1)
	for i := 0; i < points*2; i++ {
		radius := r
		if i%2 == 1 {
			radius = r * starInnerFactor
		}
		angle := float64(i)*math.Pi/float64(points) - math.Pi/2
		out = append(out, geometry.Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	return append(out, out[0])
}
