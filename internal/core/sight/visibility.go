package sight

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ComputeVisibilityPolygon calculates what the viewer can see from viewpoint.
// It builds the scan fan described by cfg and resolves it against obstacles.
// The returned polygon is implicitly closed between its last and first
// vertex.
func ComputeVisibilityPolygon(viewpoint Point, obstacles Obstacles, cfg Config) ([]Point, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fan := ScanLines(viewpoint.X, viewpoint.Y, cfg.RayCount, cfg.RayLength)

	if cfg.Workers > 1 {
		return resolveParallel(fan, obstacles, cfg.ClipToRayLength, cfg.Workers)
	}
	return Resolve(fan, obstacles, cfg.ClipToRayLength), nil
}

// Resolve returns the nearest end point of every scan line, in fan order.
// Scan lines without any candidate contribute no vertex, so the result can be
// shorter than the fan.
func Resolve(fan []Segment, obstacles Obstacles, clip bool) []Point {
	points := make([]Point, 0, len(fan))

	for _, scanLine := range fan {
		if p, ok := nearestHit(scanLine, obstacles, clip); ok {
			points = append(points, p)
		}
	}

	return points
}

// nearestHit picks the candidate closest to the ray start; on equal distance
// the first one seen wins. With clipping the far end of the ray is always a
// candidate, even in an empty scene.
func nearestHit(ray Segment, obstacles Obstacles, clip bool) (Point, bool) {
	maxLength := ray.Length()

	var closest Point
	found := false
	closestDist := math.MaxFloat64

	if clip {
		closest = ray.End
		closestDist = maxLength
		found = true
	}

	for _, obstacle := range obstacles.Candidates(ray) {
		end, ok := ResolveRayHit(ray, obstacle, clip, maxLength)
		if !ok {
			continue
		}

		if dist := Distance(ray.Start, end); dist < closestDist {
			closest = end
			closestDist = dist
			found = true
		}
	}

	return closest, found
}

// resolveParallel is Resolve split over contiguous chunks of the fan. Each
// ray owns one slot, so the workers share nothing but the read-only
// obstacles.
func resolveParallel(fan []Segment, obstacles Obstacles, clip bool, workers int) ([]Point, error) {
	hits := make([]Point, len(fan))
	resolved := make([]bool, len(fan))

	chunk := (len(fan) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(fan); lo += chunk {
		hi := min(lo+chunk, len(fan))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				hits[i], resolved[i] = nearestHit(fan[i], obstacles, clip)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to resolve scan lines")
	}

	points := make([]Point, 0, len(fan))
	for i, ok := range resolved {
		if ok {
			points = append(points, hits[i])
		}
	}

	return points, nil
}
