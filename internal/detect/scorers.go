package detect

import (
	"math"

	"github.com/dkeye/Sketch/internal/geometry"
)

const (
	// Radius spread is multiplied by this before it eats into roundness, so that
	// rounded-off polygons do not outscore their own family.
	roundnessGain = 3.0
	// Hull vertices closer than this fraction of the canvas count as one corner.
	cornerMergeFraction = 0.1
	starPeakFraction    = 0.6
)

// unit rescales the absolute guards below, which are tuned for a 64-unit canvas.
func (c *Classifier) unit() float64 { return c.cfg.CanvasSize / DefaultCanvasSize }

func (c *Classifier) hull(p geometry.Path) geometry.Path {
	return geometry.MergeClose(geometry.ConvexHull(p), c.cfg.CanvasSize*cornerMergeFraction)
}

func (c *Classifier) scoreLine(p geometry.Path) float64 {
	n := len(p)
	first, last := p[0], p[n-1]
	dx, dy := last.X-first.X, last.Y-first.Y
	lineLen := math.Hypot(dx, dy)
	if lineLen < 5*c.unit() {
		return 0
	}
	var total float64
	for i, pt := range p {
		t := float64(i) / float64(n-1)
		total += geometry.Dist(pt, geometry.Point{X: first.X + dx*t, Y: first.Y + dy*t})
	}
	avg := total / float64(n)
	straightness := 1 - math.Min(avg/(lineLen*0.3), 1)

	ratio := lineLen / geometry.Length(p)
	score := straightness * 0.7
	if ratio > 0.7 && ratio < 1.4 {
		score += 0.3
	}
	if ratio <= 0.5 {
		score *= 0.5
	}
	return score
}

func (c *Classifier) scoreCircle(p geometry.Path) float64 {
	n := float64(len(p))
	center := geometry.Centroid(p)
	var sum, sumSq float64
	for _, pt := range p {
		r := geometry.Dist(pt, center)
		sum += r
		sumSq += r * r
	}
	mean := sum / n
	std := math.Sqrt(math.Max(0, sumSq/n-mean*mean))
	div := mean
	if div == 0 {
		div = 1
	}
	roundness := 1 - math.Min(roundnessGain*std/div, 1)

	score := roundness * 0.7
	if geometry.Dist(p[0], p[len(p)-1]) < mean*0.5 {
		score += 0.3
	}
	if mean <= 3*c.unit() {
		score *= 0.3
	}
	return score
}

// fillRatio compares the area enclosed by the stroke to its bounding box.
func fillRatio(p geometry.Path) (ratio, boxArea float64) {
	boxArea = geometry.Bounds(p).Area()
	if boxArea == 0 {
		return 0, 0
	}
	return geometry.ShoelaceArea(p) / boxArea, boxArea
}

func (c *Classifier) scoreRectangle(p geometry.Path) float64 {
	hull := c.hull(p)
	if len(hull) < 4 {
		return 0
	}
	fill, area := fillRatio(p)
	if area < 20*c.unit()*c.unit() {
		return 0
	}
	score := 0.2
	if fill > 0.4 && fill < 1.2 {
		score = 0.6
	}
	if len(hull) <= 6 {
		score += 0.3
	}
	return score
}

func (c *Classifier) scoreTriangle(p geometry.Path) float64 {
	hull := c.hull(p)
	if len(hull) < 3 || len(hull) > 5 {
		return 0
	}
	fill, area := fillRatio(p)
	if area < 15*c.unit()*c.unit() {
		return 0
	}
	if fill > 0.3 {
		return 0.7
	}
	return 0.2
}

func (c *Classifier) scoreStar(p geometry.Path) float64 {
	if len(p) < 8 || len(c.hull(p)) < 5 {
		return 0
	}
	b := geometry.Bounds(p)
	center := b.Center()
	limit := math.Max(b.Width(), b.Height()) / 2 * starPeakFraction

	// Peaks are counted per run of consecutive points beyond the limit, not per
	// point: one tip is one peak however many resampled points land on it.
	peaks := 0
	inPeak := false
	for _, pt := range p {
		out := geometry.Dist(pt, center) > limit
		if out && !inPeak {
			peaks++
		}
		inPeak = out
	}
	// A stroke that starts and ends on the same tip splits that peak in two.
	if peaks > 1 && geometry.Dist(p[0], center) > limit && geometry.Dist(p[len(p)-1], center) > limit {
		peaks--
	}
	if peaks >= 4 && peaks <= 8 {
		return 0.6
	}
	return 0.2
}

func (c *Classifier) scoreApple(p geometry.Path) float64 {
	circle := c.scoreCircle(p)
	b := geometry.Bounds(p)
	w, h := b.Width(), b.Height()
	roundish := w > 0 && h/w > 0.6 && h/w < 1.5
	if circle > AdmissionThreshold && roundish {
		return math.Min(circle+0.15, 0.85)
	}
	return 0.2
}
