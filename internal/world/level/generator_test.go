package level

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/lineofsight/internal/core/sight"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.LineCount = 15
	cfg.Seed = 12345
	return cfg
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	a, err := NewGenerator(testConfig()).Generate()
	require.NoError(t, err)
	b, err := NewGenerator(testConfig()).Generate()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateLayout(t *testing.T) {
	cfg := testConfig()
	lvl, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)

	assert.Equal(t, Rect{MaxX: cfg.Width, MaxY: cfg.Height}, lvl.Bounds)

	// random lines come first and stay on the canvas
	require.GreaterOrEqual(t, len(lvl.Segments), cfg.LineCount+4)
	for _, s := range lvl.Segments[:cfg.LineCount] {
		assert.True(t, lvl.Bounds.Contains(s.Start), "line %v", s)
		assert.True(t, lvl.Bounds.Contains(s.End), "line %v", s)
	}

	// outer walls come last
	n := len(lvl.Segments)
	assert.Equal(t, OuterWalls(lvl.Bounds), []sight.Segment(lvl.Segments[n-4:]))
}

func TestRoomsAreSnappedAndDisjoint(t *testing.T) {
	cfg := testConfig()
	cfg.RoomIterations = 400
	lvl, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)
	require.NotEmpty(t, lvl.Rooms)

	cellSize := cfg.Width / float64(cfg.HorizontalCells)
	onGrid := func(v float64) bool {
		cells := v / cellSize
		return math.Abs(cells-math.Round(cells)) < 1e-9
	}

	for i, r := range lvl.Rooms {
		assert.Greater(t, r.Width(), 0.0)
		assert.Greater(t, r.Height(), 0.0)
		assert.True(t, onGrid(r.MinX) && onGrid(r.MinY) && onGrid(r.MaxX) && onGrid(r.MaxY), "room %d %v", i, r)

		for j := i + 1; j < len(lvl.Rooms); j++ {
			assert.False(t, r.Intersects(lvl.Rooms[j]), "rooms %d and %d overlap", i, j)
		}
	}
}

func TestWallSegmentsDoors(t *testing.T) {
	from := sight.Point{X: 0, Y: 0}
	to := sight.Point{X: 90, Y: 0}

	one := WallSegments(from, to, 1)
	require.Len(t, one, 1)
	assert.Equal(t, sight.Segment{Start: from, End: to}, one[0])

	// 2 walls: wall, door, wall in thirds
	two := WallSegments(from, to, 2)
	require.Len(t, two, 2)
	assert.InDelta(t, 0, two[0].Start.X, 1e-9)
	assert.InDelta(t, 30, two[0].End.X, 1e-9)
	assert.InDelta(t, 60, two[1].Start.X, 1e-9)
	assert.Equal(t, to, two[1].End)

	three := WallSegments(to, from, 3)
	require.Len(t, three, 3)
	for _, s := range three {
		assert.InDelta(t, 18, s.Length(), 1e-9)
	}
	assert.Equal(t, from, three[2].End)

	assert.Empty(t, WallSegments(from, to, 0))
}

func TestRectIntersects(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	assert.True(t, r.Intersects(Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}))
	assert.True(t, r.Intersects(Rect{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10}), "shared edge")
	assert.True(t, r.Intersects(Rect{MinX: 2, MinY: 2, MaxX: 3, MaxY: 3}), "contained")
	assert.False(t, r.Intersects(Rect{MinX: 11, MinY: 0, MaxX: 20, MaxY: 10}))
	assert.False(t, r.Intersects(Rect{MinX: 0, MinY: -5, MaxX: 10, MaxY: -1}))
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"no cells", func(c *Config) { c.HorizontalCells = 0 }},
		{"negative lines", func(c *Config) { c.LineCount = -1 }},
		{"negative room size", func(c *Config) { c.MaxRoomHeight = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			_, err := NewGenerator(cfg).Generate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestOuterWallsEncloseCanvas(t *testing.T) {
	cfg := testConfig()
	cfg.LineCount = 0
	lvl, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)

	// every ray from inside the canvas ends on some wall
	polygon, err := sight.ComputeVisibilityPolygon(
		sight.Point{X: cfg.Width / 2, Y: cfg.Height / 2},
		lvl.Segments,
		sight.Config{RayCount: 256, RayLength: cfg.Width + cfg.Height})
	require.NoError(t, err)
	assert.Len(t, polygon, 256)
}

func TestSaveAndLoadLevel(t *testing.T) {
	lvl, err := NewGenerator(testConfig()).Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "level.json")
	require.NoError(t, SaveLevel(path, lvl))

	loaded, err := LoadLevel(path)
	require.NoError(t, err)
	assert.Equal(t, lvl, loaded)
}

func TestLoadLevelErrors(t *testing.T) {
	_, err := LoadLevel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, SaveLevel(path, &Level{}))
	_, err = LoadLevel(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := NewGenerator(testConfig()).Generate()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level generated")

	SetLogger(nil)
	assert.NotNil(t, Logger())
}
