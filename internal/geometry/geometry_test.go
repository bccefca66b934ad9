package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	b := Bounds(Path{{X: 3, Y: -1}, {X: -2, Y: 4}, {X: 1, Y: 1}})
	assert.Equal(t, BoundingBox{MinX: -2, MinY: -1, MaxX: 3, MaxY: 4}, b)
	assert.Equal(t, 5.0, b.Width())
	assert.Equal(t, 5.0, b.Height())
	assert.Equal(t, Point{X: 0.5, Y: 1.5}, b.Center())

	assert.Equal(t, BoundingBox{}, Bounds(nil))
}

func TestResample(t *testing.T) {
	t.Run("returns exactly n points with fixed endpoints", func(t *testing.T) {
		paths := []Path{
			{{X: 0, Y: 0}, {X: 10, Y: 0}},
			{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 50, Y: 30}, {X: -4, Y: 7}},
			{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 100, Y: 6}},
		}
		for _, p := range paths {
			for _, n := range []int{2, 3, 16, 64, 200} {
				out := Resample(p, n)
				require.Len(t, out, n)
				assert.InDelta(t, p[0].X, out[0].X, 1e-9)
				assert.InDelta(t, p[0].Y, out[0].Y, 1e-9)
				assert.InDelta(t, p[len(p)-1].X, out[n-1].X, 1e-9)
				assert.InDelta(t, p[len(p)-1].Y, out[n-1].Y, 1e-9)
			}
		}
	})

	t.Run("spacing is uniform along the polyline", func(t *testing.T) {
		p := Path{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 98}, {X: 3, Y: 98}}
		out := Resample(p, 11)
		step := Length(p) / 10
		for i := 0; i+1 < len(out); i++ {
			// Chords across a corner are shorter than the arc-length step.
			assert.LessOrEqual(t, Dist(out[i], out[i+1]), step+1e-9)
		}
		assert.InDelta(t, 2.0, out[1].X, 1e-9)
		assert.InDelta(t, 8.1, out[1].Y, 1e-9)
	})

	t.Run("short and zero-length paths pass through", func(t *testing.T) {
		assert.Len(t, Resample(Path{{X: 1, Y: 1}}, 64), 1)
		assert.Len(t, Resample(Path{{X: 1, Y: 1}, {X: 1, Y: 1}}, 64), 2)
		assert.Empty(t, Resample(nil, 64))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("longer side scaled to size and centered", func(t *testing.T) {
		p := Path{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 150}}
		out := Normalize(p, 32, 64)
		require.Len(t, out, 32)
		b := Bounds(out)
		assert.InDelta(t, 64, b.Width(), 1e-9)
		assert.InDelta(t, 16, b.Height(), 1e-9)
		assert.InDelta(t, 32, b.Center().X, 1e-9)
		assert.InDelta(t, 32, b.Center().Y, 1e-9)
	})

	t.Run("degenerate box does not blow up", func(t *testing.T) {
		out := Normalize(Path{{X: 7, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 7}}, 64, 64)
		for _, pt := range out {
			assert.False(t, math.IsNaN(pt.X) || math.IsInf(pt.X, 0))
			assert.InDelta(t, 32, pt.X, 1e-9)
			assert.InDelta(t, 32, pt.Y, 1e-9)
		}

		line := Normalize(Path{{X: 0, Y: 5}, {X: 10, Y: 5}}, 8, 64)
		for _, pt := range line {
			assert.InDelta(t, 32, pt.Y, 1e-9)
		}
	})

	t.Run("translation and scale invariant", func(t *testing.T) {
		p := Path{{X: 0, Y: 0}, {X: 30, Y: 10}, {X: 20, Y: 40}, {X: 5, Y: 25}}
		moved := make(Path, len(p))
		for i, pt := range p {
			moved[i] = Point{X: pt.X*3.5 + 400, Y: pt.Y*3.5 - 90}
		}
		a, b := Normalize(p, 64, 64), Normalize(moved, 64, 64)
		for i := range a {
			assert.InDelta(t, a[i].X, b[i].X, 1e-6)
			assert.InDelta(t, a[i].Y, b[i].Y, 1e-6)
		}
	})
}

func TestConvexHull(t *testing.T) {
	square := Path{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
		{X: 5, Y: 5}, {X: 0, Y: 10}, {X: 0, Y: 5},
	}
	hull := ConvexHull(square)
	assert.ElementsMatch(t, Path{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, hull)

	collinear := ConvexHull(Path{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}})
	assert.Len(t, collinear, 2)

	assert.Len(t, ConvexHull(Path{{X: 1, Y: 1}, {X: 2, Y: 2}}), 2)
}

func TestMergeClose(t *testing.T) {
	cut := Path{
		{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 10, Y: 1},
		{X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0.5},
	}
	merged := MergeClose(cut, 2)
	assert.Equal(t, Path{{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, merged)
}

func TestShoelaceArea(t *testing.T) {
	closed := Path{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}, {X: 0, Y: 0}}
	assert.InDelta(t, 12, ShoelaceArea(closed), 1e-9)

	reversed := Path{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 0}, {X: 0, Y: 0}}
	assert.InDelta(t, 12, ShoelaceArea(reversed), 1e-9)
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(Path{{X: 1, Y: 2}}))
	assert.False(t, Finite(Path{{X: math.NaN(), Y: 2}}))
	assert.False(t, Finite(Path{{X: 1, Y: math.Inf(1)}}))
}
