// Package sight computes 2D visibility polygons by casting a fan of scan
// lines from a viewpoint and keeping the nearest obstacle hit on each line.
//
// Everything in this package is pure: the scene and viewpoint are supplied by
// the caller on every call and nothing is cached between calls.
package sight

import "fmt"

// Point represents a 2D point or vector in space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a line segment. Rays start at the viewpoint; obstacle segments
// have no meaningful direction.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// String formats the segment as [x1,y1]-[x2,y2].
func (s Segment) String() string {
	return fmt.Sprintf("[%f,%f]-[%f,%f]", s.Start.X, s.Start.Y, s.End.X, s.End.Y)
}

// Length returns the distance between the segment endpoints.
func (s Segment) Length() float64 {
	return Distance(s.Start, s.End)
}

// Direction returns End - Start.
func (s Segment) Direction() Point {
	return Sub(s.End, s.Start)
}

// Scene is the obstacle set for one frame.
type Scene []Segment

// Candidates returns every segment of the scene. This is the brute-force
// baseline: each ray is tested against all obstacles.
func (s Scene) Candidates(Segment) []Segment {
	return s
}

// Obstacles supplies the segments a ray has to be tested against.
// Implementations may prune segments that cannot intersect the ray, but
// must never drop one that does.
type Obstacles interface {
	Candidates(ray Segment) []Segment
}
