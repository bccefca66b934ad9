package geometry

import "math"

// Resample walks p and emits n points spaced at equal arc-length intervals,
// interpolating linearly between the bracketing input points. The first and last
// output points coincide with the first and last input points.
//
// Paths shorter than 2 points, zero-length paths and n < 2 are returned as a copy.
func Resample(p Path, n int) Path {
	if len(p) < 2 || n < 2 {
		return append(Path(nil), p...)
	}
	total := Length(p)
	if total == 0 {
		return append(Path(nil), p...)
	}

	out := make(Path, 0, n)
	traveled := 0.0
	seg := 0
	for i := 0; i < n; i++ {
		target := float64(i) / float64(n-1) * total
		for seg < len(p)-1 && traveled+Dist(p[seg], p[seg+1]) < target {
			traveled += Dist(p[seg], p[seg+1])
			seg++
		}
		if seg >= len(p)-1 {
			out = append(out, p[len(p)-1])
			continue
		}
		a, b := p[seg], p[seg+1]
		l := Dist(a, b)
		t := 0.0
		if l > 0 {
			t = math.Min((target-traveled)/l, 1)
		}
		out = append(out, Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
	}
	// Accumulated float error can leave the tail a hair short of the end.
	out[n-1] = p[len(p)-1]
	return out
}

// Normalize resamples p to n points, centers its bounding box on a size×size canvas
// and scales uniformly so the longer side equals size. A zero side counts as 1 so
// degenerate strokes never divide by zero.
func Normalize(p Path, n int, size float64) Path {
	r := Resample(p, n)
	b := Bounds(r)
	w, h := b.Width(), b.Height()
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	scale := size / math.Max(w, h)
	c := b.Center()
	half := size / 2
	out := make(Path, len(r))
	for i, pt := range r {
		out[i] = Point{X: (pt.X-c.X)*scale + half, Y: (pt.Y-c.Y)*scale + half}
	}
	return out
}
