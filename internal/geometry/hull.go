package geometry

import "sort"

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// ConvexHull returns the hull of pts in counter-clockwise order (monotone chain).
// Collinear points are dropped. Inputs of fewer than 3 points are returned as a copy.
func ConvexHull(pts Path) Path {
	if len(pts) < 3 {
		return append(Path(nil), pts...)
	}
	sorted := append(Path(nil), pts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	lower := make(Path, 0, len(sorted))
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make(Path, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return hull
}

// MergeClose walks a closed polygon and drops vertices closer than minGap to the
// previously kept one, including across the wrap-around. Resampled strokes rarely land
// exactly on a corner, so a corner usually shows up as two hull vertices a few units
// apart; merging them makes vertex counts reflect corners.
func MergeClose(poly Path, minGap float64) Path {
	if len(poly) < 2 {
		return append(Path(nil), poly...)
	}
	out := Path{poly[0]}
	for _, p := range poly[1:] {
		if Dist(out[len(out)-1], p) >= minGap {
			out = append(out, p)
		}
	}
	for len(out) > 1 && Dist(out[len(out)-1], out[0]) < minGap {
		out = out[:len(out)-1]
	}
	return out
}
