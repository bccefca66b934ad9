package detect

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Sketch/internal/geometry"
)

func circlePath(cx, cy, r float64, n int) geometry.Path {
	p := make(geometry.Path, n)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = geometry.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return p
}

func linePath(x1, y1, x2, y2 float64, n int) geometry.Path {
	p := make(geometry.Path, n)
	for i := range p {
		t := float64(i) / float64(n-1)
		p[i] = geometry.Point{X: x1 + (x2-x1)*t, Y: y1 + (y2-y1)*t}
	}
	return p
}

func ellipsePath(cx, cy, rx, ry float64, n int) geometry.Path {
	p := make(geometry.Path, n)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = geometry.Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	return p
}

func rectPath(x, y, w, h float64) geometry.Path {
	return geometry.Path{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y}}
}

func transform(p geometry.Path, scale, dx, dy float64) geometry.Path {
	out := make(geometry.Path, len(p))
	for i, pt := range p {
		out[i] = geometry.Point{X: pt.X*scale + dx, Y: pt.Y*scale + dy}
	}
	return out
}

func TestClassify_ShortPathsAreUnknown(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	for _, p := range []geometry.Path{
		nil,
		{{X: 1, Y: 1}},
		{{X: 0, Y: 0}, {X: 100, Y: 0}},
	} {
		res := c.Classify(p)
		assert.Equal(t, LabelUnknown, res.Label)
		assert.Zero(t, res.Confidence)
		assert.Nil(t, res.Completion)
	}
}

func TestClassify_Circle(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	res := c.Classify(circlePath(100, 100, 50, 64))

	require.Equal(t, LabelCircle, res.Label)
	assert.Greater(t, res.Confidence, 0.8)
	require.NotNil(t, res.Completion)

	circle, ok := res.Completion.(Circle)
	require.True(t, ok)
	assert.InDelta(t, 100, circle.CX, 0.5)
	assert.InDelta(t, 100, circle.CY, 0.5)
	assert.InDelta(t, 50, circle.R, 0.5)
}

func TestClassify_Line(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	res := c.Classify(linePath(0, 0, 100, 0, 50))

	require.Equal(t, LabelLine, res.Label)
	assert.Greater(t, res.Confidence, 0.8)
	assert.Equal(t, Segment{Type: KindLine, X1: 0, Y1: 0, X2: 100, Y2: 0, Stroke: DefaultStroke}, res.Completion)
}

func TestClassify_Rectangle(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	cases := map[string]geometry.Path{
		"square":   rectPath(10, 10, 100, 100),
		"wide":     rectPath(0, 0, 200, 120),
		"tall":     rectPath(50, 20, 80, 130),
		"reversed": {{X: 0, Y: 0}, {X: 0, Y: 90}, {X: 150, Y: 90}, {X: 150, Y: 0}, {X: 0, Y: 0}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			res := c.Classify(p)
			require.Equal(t, LabelRectangle, res.Label, "scores: %v", c.Scores(p))
			b := geometry.Bounds(p)
			assert.Equal(t, Rectangle{
				Type: KindRectangle, X: b.MinX, Y: b.MinY, W: b.Width(), H: b.Height(), Stroke: DefaultStroke,
			}, res.Completion)
		})
	}
}

func TestClassify_Triangle(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	p := geometry.Path{{X: 50, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 50, Y: 0}}

	res := c.Classify(p)
	require.Equal(t, LabelTriangle, res.Label, "scores: %v", c.Scores(p))
	assert.InDelta(t, 0.7, res.Confidence, 1e-9)
	assert.Equal(t, Triangle{
		Type: KindTriangle, X1: 50, Y1: 0, X2: 0, Y2: 100, X3: 100, Y3: 100, Stroke: DefaultStroke,
	}, res.Completion)
}

func TestClassify_Apple(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	p := ellipsePath(200, 150, 60, 45, 64)

	scores := c.Scores(p)
	assert.Greater(t, scores[LabelCircle], AdmissionThreshold)
	assert.Less(t, scores[LabelCircle], 0.85)
	assert.InDelta(t, 0.2, scores[LabelStar], 1e-9, "a single outer run is not a star")

	res := c.Classify(p)
	require.Equal(t, LabelApple, res.Label, "scores: %v", scores)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9, "apple is capped")
	circle, ok := res.Completion.(Circle)
	require.True(t, ok)
	assert.InDelta(t, 200, circle.CX, 0.5)
	assert.InDelta(t, 150, circle.CY, 0.5)
	assert.InDelta(t, 60, circle.R, 0.5)
}

func TestClassify_Star(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	center := geometry.Point{X: 100, Y: 100}

	tests := []struct {
		name   string
		points int
		want   Label
		conf   float64
	}{
		{name: "six lobes", points: 6, want: LabelStar, conf: 0.6},
		{name: "eight lobes", points: 8, want: LabelStar, conf: 0.6},
		// Triangle is scored before star and wins on its higher fixed score.
		{name: "five lobes", points: 5, want: LabelTriangle, conf: 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := StarPath(center, 80, tt.points)
			scores := c.Scores(p)
			assert.InDelta(t, 0.6, scores[LabelStar], 1e-9, "scores: %v", scores)

			res := c.Classify(p)
			require.Equal(t, tt.want, res.Label, "scores: %v", scores)
			assert.InDelta(t, tt.conf, res.Confidence, 1e-9)
		})
	}
}

func TestClassify_Scribble(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	// Back and forth along a line: endpoints coincide, nothing encloses area.
	p := append(linePath(0, 0, 100, 0, 20), linePath(100, 0, 0, 0, 20)...)
	res := c.Classify(p)
	assert.Equal(t, LabelUnknown, res.Label, "scores: %v", c.Scores(p))
	assert.Nil(t, res.Completion)
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	p := geometry.Path{{X: 3, Y: 7}, {X: 40, Y: 12}, {X: 55, Y: 60}, {X: 10, Y: 58}, {X: 4, Y: 9}, {X: 20, Y: 30}}
	first := c.Classify(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(p))
	}
}

func TestClassify_TranslationAndScaleInvariant(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	shapes := map[string]geometry.Path{
		"circle":    circlePath(0, 0, 10, 48),
		"line":      linePath(0, 0, 30, 40, 20),
		"rectangle": rectPath(0, 0, 40, 25),
		"triangle":  {{X: 20, Y: 0}, {X: 40, Y: 35}, {X: 0, Y: 35}, {X: 20, Y: 0}},
	}
	for name, p := range shapes {
		t.Run(name, func(t *testing.T) {
			base := c.Classify(p)
			for _, tr := range []struct{ scale, dx, dy float64 }{
				{1, 500, -300},
				{0.25, 3, 3},
				{7.5, -1000, 40},
			} {
				got := c.Classify(transform(p, tr.scale, tr.dx, tr.dy))
				assert.Equal(t, base.Label, got.Label)
				assert.InDelta(t, base.Confidence, got.Confidence, 1e-6)
			}
		})
	}
}

func TestClassify_NonFiniteIsUnknown(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	p := geometry.Path{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}, {X: 4, Y: 4}}
	assert.Equal(t, LabelUnknown, c.Classify(p).Label)
}

func TestResultJSON(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	res := c.Classify(circlePath(0, 0, 20, 64))

	b, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Label      string         `json:"label"`
		Completion map[string]any `json:"completion"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "circle", decoded.Label)
	assert.Equal(t, "circle", decoded.Completion["type"])

	b, err = json.Marshal(c.Classify(nil))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "completion")
}
