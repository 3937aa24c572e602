package sight

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy/lineintersector"
)

const tolerance = 1e-9

func seg(x1, y1, x2, y2 float64) Segment {
	return Segment{Start: Point{X: x1, Y: y1}, End: Point{X: x2, Y: y2}}
}

func TestSegmentIntersectionCrossing(t *testing.T) {
	p, ok := SegmentIntersection(seg(0, 0, 4, 4), seg(0, 4, 4, 0))
	require.True(t, ok)
	assert.InDelta(t, 2, p.X, tolerance)
	assert.InDelta(t, 2, p.Y, tolerance)
}

func TestSegmentIntersectionIsSymmetric(t *testing.T) {
	a := seg(-3, 1, 5, 2)
	b := seg(1, -4, 0.5, 6)

	p, ok := SegmentIntersection(a, b)
	q, ok2 := SegmentIntersection(b, a)
	require.True(t, ok)
	require.True(t, ok2)
	assert.InDelta(t, p.X, q.X, tolerance)
	assert.InDelta(t, p.Y, q.Y, tolerance)
}

func TestSegmentIntersectionParallel(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
	}{
		{"distinct horizontal", seg(0, 0, 4, 0), seg(0, 1, 4, 1)},
		{"opposite direction", seg(0, 0, 4, 0), seg(4, 1, 0, 1)},
		{"diagonal", seg(0, 0, 3, 3), seg(1, 0, 4, 3)},
		{"collinear overlapping", seg(0, 0, 4, 0), seg(2, 0, 6, 0)},
		{"collinear disjoint", seg(0, 0, 1, 0), seg(2, 0, 3, 0)},
		{"identical", seg(1, 2, 3, 4), seg(1, 2, 3, 4)},
		{"identical reversed", seg(1, 2, 3, 4), seg(3, 4, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SegmentIntersection(tt.a, tt.b)
			assert.False(t, ok)
		})
	}
}

func TestSegmentIntersectionOutsideRange(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
	}{
		// the infinite lines cross at (3,3)
		{"beyond end of a", seg(0, 0, 1, 1), seg(3, 0, 3, 4)},
		// the infinite lines cross at (2,0)
		{"beyond end of b", seg(0, 0, 4, 0), seg(2, 1, 2, 3)},
		{"before start of a", seg(1, 1, 2, 2), seg(0, -1, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SegmentIntersection(tt.a, tt.b)
			assert.False(t, ok)
		})
	}
}

func TestSegmentIntersectionEndpointsInclusive(t *testing.T) {
	// b starts exactly on a
	p, ok := SegmentIntersection(seg(0, 0, 4, 0), seg(2, 0, 2, 5))
	require.True(t, ok)
	assert.InDelta(t, 2, p.X, tolerance)
	assert.InDelta(t, 0, p.Y, tolerance)

	// shared corner
	p, ok = SegmentIntersection(seg(0, 0, 4, 0), seg(4, 0, 4, 4))
	require.True(t, ok)
	assert.InDelta(t, 4, p.X, tolerance)
	assert.InDelta(t, 0, p.Y, tolerance)
}

func TestSegmentIntersectionZeroLength(t *testing.T) {
	dot := seg(2, 2, 2, 2)

	_, ok := SegmentIntersection(dot, seg(0, 0, 4, 4))
	assert.False(t, ok, "zero-length a")

	_, ok = SegmentIntersection(seg(0, 0, 4, 4), dot)
	assert.False(t, ok, "zero-length b")

	p, ok := SegmentIntersection(dot, dot)
	assert.False(t, ok, "both zero-length")
	assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
}

func TestSegmentIntersectionNearlyParallel(t *testing.T) {
	// sin θ ≈ 1e-14, below ParallelEpsilon
	a := seg(0, 0, 1000, 0)
	b := seg(0, -1e-11, 1000, 1e-11)
	_, ok := SegmentIntersection(a, b)
	assert.False(t, ok)

	// sin θ ≈ 1e-6, well above ParallelEpsilon
	b = seg(0, -1e-3, 1000, 1e-3)
	p, ok := SegmentIntersection(a, b)
	require.True(t, ok)
	assert.InDelta(t, 500, p.X, 1e-6)
}

// The result has to agree with go-geom's robust intersector away from
// tangential configurations.
func TestSegmentIntersectionMatchesRobustIntersector(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	coord := func() float64 { return rng.Float64()*200 - 100 }

	checked := 0
	for i := 0; i < 2000; i++ {
		a := seg(coord(), coord(), coord(), coord())
		b := seg(coord(), coord(), coord(), coord())

		// skip pairs where an endpoint lies almost on the other segment's line
		if nearLine(a, b.Start) || nearLine(a, b.End) || nearLine(b, a.Start) || nearLine(b, a.End) {
			continue
		}

		result := lineintersector.LineIntersectsLine(lineintersector.RobustLineIntersector{},
			geom.Coord{a.Start.X, a.Start.Y}, geom.Coord{a.End.X, a.End.Y},
			geom.Coord{b.Start.X, b.Start.Y}, geom.Coord{b.End.X, b.End.Y})

		p, ok := SegmentIntersection(a, b)
		require.Equal(t, result.HasIntersection(), ok, "pair %v %v", a, b)
		if ok {
			want := result.Intersection()[0]
			assert.InDelta(t, want[0], p.X, 1e-6)
			assert.InDelta(t, want[1], p.Y, 1e-6)
		}
		checked++
	}

	assert.Greater(t, checked, 1000)
}

func nearLine(s Segment, p Point) bool {
	d := s.Direction()
	l := Magnitude(d)
	if l == 0 {
		return true
	}
	cross := d.X*(p.Y-s.Start.Y) - d.Y*(p.X-s.Start.X)
	return math.Abs(cross)/l < 1e-3
}

func TestResolveRayHitWithoutClip(t *testing.T) {
	ray := seg(0, 0, 10, 0)

	p, ok := ResolveRayHit(ray, seg(5, -1, 5, 1), false, 10)
	require.True(t, ok)
	assert.InDelta(t, 5, p.X, tolerance)
	assert.InDelta(t, 0, p.Y, tolerance)

	_, ok = ResolveRayHit(ray, seg(20, -1, 20, 1), false, 10)
	assert.False(t, ok)
}

func TestResolveRayHitClipMissReachesFarEnd(t *testing.T) {
	ray := seg(1, 1, 11, 1)

	p, ok := ResolveRayHit(ray, seg(20, -1, 20, 3), true, 10)
	require.True(t, ok)
	assert.Equal(t, ray.End, p)

	p, ok = ResolveRayHit(ray, seg(0, 0, 0, 0), true, 10)
	require.True(t, ok, "zero-length obstacle")
	assert.Equal(t, ray.End, p)
}

func TestResolveRayHitClipKeepsNearHit(t *testing.T) {
	ray := seg(0, 0, 10, 0)

	p, ok := ResolveRayHit(ray, seg(3, -1, 3, 1), true, 10)
	require.True(t, ok)
	assert.InDelta(t, 3, p.X, tolerance)
}

func TestResolveRayHitClampsToMaxLength(t *testing.T) {
	ray := seg(1, 2, 1, 12)

	p, ok := ResolveRayHit(ray, seg(-5, 10, 5, 10), true, 4)
	require.True(t, ok)
	assert.InDelta(t, 1, p.X, tolerance)
	assert.InDelta(t, 6, p.Y, tolerance)
	assert.InDelta(t, 4, Distance(ray.Start, p), tolerance)
}
