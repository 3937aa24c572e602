package sight

import "math"

// ScanLines sweeps a full circle around (x, y) and returns count rays of the
// given length. Ray i points at angle i·2π/count, so the rays start at angle
// 0 and increase strictly; 2π itself is left out because it would repeat the
// first ray. The order defines the winding of the visibility polygon.
func ScanLines(x, y float64, count int, length float64) []Segment {
	if count <= 0 {
		return nil
	}

	origin := Point{X: x, Y: y}
	step := 2 * math.Pi / float64(count)

	scanLines := make([]Segment, count)
	for i := range scanLines {
		angle := float64(i) * step
		scanLines[i] = Segment{
			Start: origin,
			End: Point{
				X: x + math.Cos(angle)*length,
				Y: y + math.Sin(angle)*length,
			},
		}
	}

	return scanLines
}
