// Package config provides the tunable settings of the line of sight demo.
// Settings are loaded from an optional JSON file; every field missing from
// the file keeps its default.
package config

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"chosenoffset.com/lineofsight/internal/core/sight"
	"chosenoffset.com/lineofsight/internal/world/level"
)

// Bounds of the values the demo lets the user dial in.
const (
	MinRayCount = 1
	MaxRayCount = 2000

	MaxLineCount       = 150
	MaxRoomIterations  = 4000
	MinHorizontalCells = 1
	MaxHorizontalCells = 60
)

// Settings holds every tunable parameter. It is a plain value: changing a
// setting means building a new Settings and using it from the next frame on.
type Settings struct {
	// Scene generation
	Scene SceneSettings `json:"scene"`

	// Visibility computation
	ScanLines ScanLineSettings `json:"scan_lines"`

	// What the demo draws
	Display DisplaySettings `json:"display"`
}

// SceneSettings controls the canvas and the generated level.
type SceneSettings struct {
	Width           int     `json:"width"`            // Canvas width in pixels
	Height          int     `json:"height"`           // Canvas height in pixels
	HorizontalCells int     `json:"horizontal_cells"` // Grid cells across the canvas
	LineCount       int     `json:"line_count"`       // Free-standing random lines
	RoomIterations  int     `json:"room_iterations"`  // Room placement attempts
	MaxRoomWidth    float64 `json:"max_room_width"`
	MaxRoomHeight   float64 `json:"max_room_height"`
	Seed            int64   `json:"seed"` // 0 = random
}

// ScanLineSettings controls the scan fan.
type ScanLineSettings struct {
	Count         int     `json:"count"`           // Rays per frame
	Length        float64 `json:"length"`          // Length of every ray
	LimitToLength bool    `json:"limit_to_length"` // Unblocked rays end at Length
	Workers       int     `json:"workers"`         // Goroutines resolving rays
	UseIndex      bool    `json:"use_index"`       // Query obstacles through an R-tree
}

// DisplaySettings toggles the layers the demo draws.
type DisplaySettings struct {
	HighlightGridCell  bool `json:"highlight_grid_cell"`
	EnvironmentVisible bool `json:"environment_visible"`
	UserVisible        bool `json:"user_visible"`
	DrawPoints         bool `json:"draw_points"`
	DrawShape          bool `json:"draw_shape"`
	GradientShapeFill  bool `json:"gradient_shape_fill"`
	ShapeBorderVisible bool `json:"shape_border_visible"`
	DrawScanLines      bool `json:"draw_scan_lines"`
}

// DefaultSettings returns the settings the demo starts with.
func DefaultSettings() Settings {
	return Settings{
		Scene: SceneSettings{
			Width:           980,
			Height:          720,
			HorizontalCells: 60,
			LineCount:       0,
			RoomIterations:  100,
			MaxRoomWidth:    200,
			MaxRoomHeight:   200,
		},
		ScanLines: ScanLineSettings{
			Count:         1000,
			Length:        200,
			LimitToLength: true,
			Workers:       1,
		},
		Display: DisplaySettings{
			EnvironmentVisible: true,
			UserVisible:        true,
			DrawPoints:         true,
			DrawShape:          true,
			ShapeBorderVisible: true,
		},
	}
}

// LoadSettings loads settings from a JSON file
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, errors.Wrap(err, "failed to read settings")
	}

	settings := DefaultSettings() // Start with defaults
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.Wrap(err, "failed to parse settings")
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, errors.Wrapf(err, "invalid settings in %s", path)
	}

	return settings, nil
}

// Validate checks the settings against the visibility and level
// constraints.
func (s Settings) Validate() error {
	if err := s.Sight().Validate(); err != nil {
		return err
	}
	return s.Level().Validate()
}

// Sight returns the visibility configuration for one frame.
func (s Settings) Sight() sight.Config {
	return sight.Config{
		RayCount:        s.ScanLines.Count,
		RayLength:       s.ScanLines.Length,
		ClipToRayLength: s.ScanLines.LimitToLength,
		Workers:         s.ScanLines.Workers,
	}
}

// Level returns the level generator configuration.
func (s Settings) Level() level.Config {
	return level.Config{
		Width:           float64(s.Scene.Width),
		Height:          float64(s.Scene.Height),
		LineCount:       s.Scene.LineCount,
		RoomIterations:  s.Scene.RoomIterations,
		HorizontalCells: s.Scene.HorizontalCells,
		MaxRoomWidth:    s.Scene.MaxRoomWidth,
		MaxRoomHeight:   s.Scene.MaxRoomHeight,
		Seed:            s.Scene.Seed,
	}
}

// MaxRayLength is the canvas diagonal; a longer ray cannot reach anything
// more.
func (s Settings) MaxRayLength() float64 {
	return math.Hypot(float64(s.Scene.Width), float64(s.Scene.Height))
}

// WithRayCount returns a copy with the ray count clamped to
// [MinRayCount, MaxRayCount].
func (s Settings) WithRayCount(count int) Settings {
	s.ScanLines.Count = max(MinRayCount, min(count, MaxRayCount))
	return s
}

// WithRayLength returns a copy with the ray length clamped to
// [1, MaxRayLength].
func (s Settings) WithRayLength(length float64) Settings {
	s.ScanLines.Length = math.Max(1, math.Min(length, s.MaxRayLength()))
	return s
}

// WithLineCount returns a copy with the random line count clamped to
// [0, MaxLineCount].
func (s Settings) WithLineCount(count int) Settings {
	s.Scene.LineCount = max(0, min(count, MaxLineCount))
	return s
}

// WithRoomIterations returns a copy with the room placement attempts clamped
// to [0, MaxRoomIterations].
func (s Settings) WithRoomIterations(iterations int) Settings {
	s.Scene.RoomIterations = max(0, min(iterations, MaxRoomIterations))
	return s
}

// WithHorizontalCells returns a copy with the grid cell count clamped to
// [MinHorizontalCells, MaxHorizontalCells].
func (s Settings) WithHorizontalCells(cells int) Settings {
	s.Scene.HorizontalCells = max(MinHorizontalCells, min(cells, MaxHorizontalCells))
	return s
}
