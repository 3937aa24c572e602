package sight

import "math"

// ParallelEpsilon is the largest |sin θ| between two segments that is still
// treated as parallel. The test is relative to the segment lengths, so it
// does not depend on the scale of the scene.
const ParallelEpsilon = 1e-12

// SegmentIntersection finds the intersection point of two line segments.
//
// a is P1 + t·(P2-P1) and b is P3 + u·(P4-P3); the segments intersect when
// both t and u lie in [0, 1]. Parallel, collinear and zero-length segments
// never intersect.
func SegmentIntersection(a, b Segment) (Point, bool) {
	ax := a.End.X - a.Start.X
	ay := a.End.Y - a.Start.Y
	bx := b.End.X - b.Start.X
	by := b.End.Y - b.Start.Y

	denominator := ax*by - ay*bx
	if math.Abs(denominator) <= ParallelEpsilon*math.Hypot(ax, ay)*math.Hypot(bx, by) {
		return Point{}, false
	}

	cx := b.Start.X - a.Start.X
	cy := b.Start.Y - a.Start.Y

	t := (cx*by - cy*bx) / denominator
	if t < 0 || t > 1 {
		return Point{}, false
	}

	u := (cx*ay - cy*ax) / denominator
	if u < 0 || u > 1 {
		return Point{}, false
	}

	return Point{X: a.Start.X + t*ax, Y: a.Start.Y + t*ay}, true
}

// ResolveRayHit returns the end point a single obstacle contributes to a ray.
//
// Without clipping only a real intersection counts. With clipping a ray that
// misses the obstacle reaches its far end, and a hit farther than maxLength
// is pulled back to maxLength along the ray.
func ResolveRayHit(ray, obstacle Segment, clip bool, maxLength float64) (Point, bool) {
	end, hit := SegmentIntersection(ray, obstacle)
	if !clip {
		return end, hit
	}

	if !hit {
		return ray.End, true
	}

	if Distance(ray.Start, end) > maxLength {
		// distance > maxLength >= 0, so the direction is never the zero vector
		dir, _ := Normalize(Sub(end, ray.Start))
		end = Add(ray.Start, Scale(dir, maxLength))
	}

	return end, true
}
