package sight

import "math"

// Add returns a + b.
func Add(a, b Point) Point {
	return Point{X: a.X + b.X, Y: a.Y + b.Y}
}

// Sub returns a - b.
func Sub(a, b Point) Point {
	return Point{X: a.X - b.X, Y: a.Y - b.Y}
}

// Magnitude returns the Euclidean length of v.
func Magnitude(v Point) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns v scaled to unit length.
// The zero vector has no direction; ok is false and v is returned unchanged.
func Normalize(v Point) (n Point, ok bool) {
	m := Magnitude(v)
	if m == 0 {
		return v, false
	}
	return Point{X: v.X / m, Y: v.Y / m}, true
}

// Scale returns v multiplied by k.
func Scale(v Point, k float64) Point {
	return Point{X: v.X * k, Y: v.Y * k}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return Magnitude(Sub(a, b))
}
