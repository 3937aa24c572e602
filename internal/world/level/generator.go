// Package level generates random obstacle maps for the line of sight demo:
// free-standing lines, non-overlapping rooms with doors, and walls around
// the whole canvas.
package level

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"chosenoffset.com/lineofsight/internal/core/sight"
)

// ErrInvalidConfig is returned by Generate for configurations that cannot
// produce a level.
var ErrInvalidConfig = errors.New("invalid level config")

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns MaxY - MinY.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Intersects reports whether the rectangles overlap. Rectangles that only
// share an edge count as overlapping.
func (r Rect) Intersects(o Rect) bool {
	return o.MaxX >= r.MinX && o.MinX <= r.MaxX && o.MaxY >= r.MinY && o.MinY <= r.MaxY
}

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p sight.Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Level is a generated obstacle map.
type Level struct {
	Bounds   Rect        `json:"bounds"`   // Canvas the level was generated for
	Segments sight.Scene `json:"segments"` // All obstacle segments
	Rooms    []Rect      `json:"rooms"`    // Floor area of every placed room
}

// Config holds configuration for level generation
type Config struct {
	Width           float64 // Canvas width
	Height          float64 // Canvas height
	LineCount       int     // Free-standing random lines
	RoomIterations  int     // Attempts to place a room; overlapping attempts are dropped
	HorizontalCells int     // Grid cells across the canvas; rooms snap to this grid
	MaxRoomWidth    float64 // Upper bound of a room's random width
	MaxRoomHeight   float64 // Upper bound of a room's random height
	Seed            int64   // Random seed (0 = use current time)
}

// DefaultConfig returns the settings of the demo canvas.
func DefaultConfig() Config {
	return Config{
		Width:           980,
		Height:          720,
		LineCount:       0,
		RoomIterations:  100,
		HorizontalCells: 60,
		MaxRoomWidth:    200,
		MaxRoomHeight:   200,
	}
}

// Validate reports whether c can produce a level.
func (c Config) Validate() error {
	switch {
	case !(c.Width > 0) || !(c.Height > 0):
		return errors.Wrapf(ErrInvalidConfig, "canvas %vx%v", c.Width, c.Height)
	case c.HorizontalCells < 1:
		return errors.Wrapf(ErrInvalidConfig, "horizontal cells %d", c.HorizontalCells)
	case c.LineCount < 0 || c.RoomIterations < 0:
		return errors.Wrapf(ErrInvalidConfig, "line count %d, room iterations %d", c.LineCount, c.RoomIterations)
	case c.MaxRoomWidth < 0 || c.MaxRoomHeight < 0:
		return errors.Wrapf(ErrInvalidConfig, "max room size %vx%v", c.MaxRoomWidth, c.MaxRoomHeight)
	}
	return nil
}

// Generator handles procedural level generation
type Generator struct {
	config Config
	rng    *rand.Rand
}

// NewGenerator creates a new level generator
func NewGenerator(config Config) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Generate creates a new level: random lines first, then rooms, then the
// outer walls. Each call continues the generator's random sequence.
func (g *Generator) Generate() (*Level, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	bounds := Rect{MaxX: g.config.Width, MaxY: g.config.Height}
	lvl := &Level{Bounds: bounds}

	lvl.Segments = append(lvl.Segments, g.randomLines(g.config.LineCount)...)

	rooms, walls := g.rooms(g.config.RoomIterations)
	lvl.Rooms = rooms
	lvl.Segments = append(lvl.Segments, walls...)

	lvl.Segments = append(lvl.Segments, OuterWalls(bounds)...)

	Logger().Debug("level generated",
		"segments", len(lvl.Segments),
		"rooms", len(lvl.Rooms),
		"lines", g.config.LineCount)

	return lvl, nil
}

func (g *Generator) randomLines(count int) []sight.Segment {
	lines := make([]sight.Segment, 0, count)
	for i := 0; i < count; i++ {
		lines = append(lines, sight.Segment{Start: g.randomPoint(), End: g.randomPoint()})
	}
	return lines
}

func (g *Generator) randomPoint() sight.Point {
	return sight.Point{
		X: g.rng.Float64() * g.config.Width,
		Y: g.rng.Float64() * g.config.Height,
	}
}

// rooms tries to place a room per iteration. Room corners snap down to the
// grid; rooms that collapse to a line or overlap an earlier room are skipped.
func (g *Generator) rooms(iterations int) ([]Rect, []sight.Segment) {
	cellSize := g.config.Width / float64(g.config.HorizontalCells)
	snap := func(v float64) float64 {
		return math.Trunc(v/cellSize) * cellSize
	}

	var rooms []Rect
	var walls []sight.Segment

	for i := 0; i < iterations; i++ {
		w := g.rng.Float64() * g.config.MaxRoomWidth
		h := g.rng.Float64() * g.config.MaxRoomHeight
		minX := g.rng.Float64() * g.config.Width
		minY := g.rng.Float64() * g.config.Height

		r := Rect{
			MinX: snap(minX),
			MinY: snap(minY),
			MaxX: snap(minX + w),
			MaxY: snap(minY + h),
		}

		if r.MinX == r.MaxX || r.MinY == r.MaxY {
			continue
		}

		overlaps := false
		for _, placed := range rooms {
			if r.Intersects(placed) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		rooms = append(rooms, r)
		walls = append(walls, g.room(r)...)
	}

	return rooms, walls
}

// room builds the four walls of r, each with a random number of doors.
func (g *Generator) room(r Rect) []sight.Segment {
	nw := sight.Point{X: r.MinX, Y: r.MinY}
	ne := sight.Point{X: r.MaxX, Y: r.MinY}
	se := sight.Point{X: r.MaxX, Y: r.MaxY}
	sw := sight.Point{X: r.MinX, Y: r.MaxY}

	var walls []sight.Segment
	walls = append(walls, WallSegments(nw, ne, g.randomWallCount())...) // north
	walls = append(walls, WallSegments(ne, se, g.randomWallCount())...) // east
	walls = append(walls, WallSegments(se, sw, g.randomWallCount())...) // south
	walls = append(walls, WallSegments(sw, nw, g.randomWallCount())...) // west
	return walls
}

// randomWallCount returns 1, or with a chance of one in four, 1 to 3.
func (g *Generator) randomWallCount() int {
	count := 1
	if g.rng.Float64() < 0.25 {
		count += g.rng.Intn(3)
	}
	return count
}

// OuterWalls returns the four unbroken walls along the border of bounds.
func OuterWalls(bounds Rect) []sight.Segment {
	nw := sight.Point{X: bounds.MinX, Y: bounds.MinY}
	ne := sight.Point{X: bounds.MaxX, Y: bounds.MinY}
	se := sight.Point{X: bounds.MaxX, Y: bounds.MaxY}
	sw := sight.Point{X: bounds.MinX, Y: bounds.MaxY}

	return []sight.Segment{
		{Start: nw, End: ne},
		{Start: ne, End: se},
		{Start: se, End: sw},
		{Start: sw, End: nw},
	}
}

// WallSegments splits the wall from -> to into walls pieces separated by
// walls-1 doors of the same length. A wall with 2 doors has 3 pieces.
func WallSegments(from, to sight.Point, walls int) []sight.Segment {
	if walls < 1 {
		return nil
	}

	numSegments := walls*2 - 1
	step := sight.Scale(sight.Sub(to, from), 1/float64(numSegments))

	pieces := make([]sight.Segment, 0, walls)
	for i := 0; i < numSegments; i += 2 {
		end := to
		if i+1 < numSegments {
			end = sight.Add(from, sight.Scale(step, float64(i+1)))
		}
		pieces = append(pieces, sight.Segment{
			Start: sight.Add(from, sight.Scale(step, float64(i))),
			End:   end,
		})
	}

	return pieces
}
