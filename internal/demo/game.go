// Package demo runs the interactive line of sight demo: the cursor is the
// viewpoint, and every tick the visibility polygon is recomputed from scratch
// against the current level.
package demo

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/pkg/errors"

	"chosenoffset.com/lineofsight/internal/config"
	"chosenoffset.com/lineofsight/internal/core/sight"
	"chosenoffset.com/lineofsight/internal/core/spatial"
	"chosenoffset.com/lineofsight/internal/render"
	"chosenoffset.com/lineofsight/internal/world/level"
)

const (
	rayCountStep      = 100
	rayLengthStep     = 20
	lineCountStep     = 10
	roomIterationStep = 100
	cellCountStep     = 5
)

var (
	backgroundColor = color.White
	gridColor       = color.RGBA{211, 211, 211, 255}
	highlightColor  = color.RGBA{173, 216, 230, 255}
	roomFloorColor  = color.NRGBA{211, 211, 211, 77}
	wallColor       = color.Black
	scanLineColor   = color.NRGBA{0, 0, 255, 77}
	shapeColor      = color.NRGBA{0, 128, 0, 179}
	shapeBorder     = color.RGBA{0, 128, 0, 255}
	gradientStart   = color.NRGBA{255, 255, 0, 128}
	gradientEnd     = color.NRGBA{255, 255, 0, 0}
	pointColor      = color.NRGBA{255, 0, 0, 128}
	userFill        = color.RGBA{211, 211, 211, 255}
	userStroke      = color.Black
)

// Game holds the demo state. The visibility polygon is the only derived
// state and is rebuilt on every Update.
type Game struct {
	settings  config.Settings
	generator *level.Generator
	level     *level.Level
	index     *spatial.Index

	renderer render.Renderer
	input    render.InputManager

	viewpoint   sight.Point
	polygon     []sight.Point
	computeTime time.Duration
	fps         FPSCounter
}

// NewGame generates the first level and prepares the demo.
func NewGame(settings config.Settings, renderer render.Renderer, input render.InputManager) (*Game, error) {
	g, err := newGame(settings, renderer, input)
	if err != nil {
		return nil, err
	}

	if err := g.regenerate(); err != nil {
		return nil, err
	}

	return g, nil
}

// NewGameWithLevel starts the demo on a fixed level instead of a generated
// one. Regenerating still produces random levels.
func NewGameWithLevel(settings config.Settings, lvl *level.Level, renderer render.Renderer, input render.InputManager) (*Game, error) {
	g, err := newGame(settings, renderer, input)
	if err != nil {
		return nil, err
	}

	if err := g.setLevel(lvl); err != nil {
		return nil, err
	}

	return g, nil
}

func newGame(settings config.Settings, renderer render.Renderer, input render.InputManager) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &Game{
		settings:  settings,
		generator: level.NewGenerator(settings.Level()),
		renderer:  renderer,
		input:     input,
		viewpoint: sight.Point{
			X: float64(settings.Scene.Width) / 2,
			Y: float64(settings.Scene.Height) / 2,
		},
	}, nil
}

// Settings returns the settings in effect.
func (g *Game) Settings() config.Settings {
	return g.settings
}

// Level returns the current level.
func (g *Game) Level() *level.Level {
	return g.level
}

// Polygon returns the visibility polygon of the last Update.
func (g *Game) Polygon() []sight.Point {
	return g.polygon
}

// Viewpoint returns the viewpoint of the last Update.
func (g *Game) Viewpoint() sight.Point {
	return g.viewpoint
}

func (g *Game) regenerate() error {
	lvl, err := g.generator.Generate()
	if err != nil {
		return err
	}
	return g.setLevel(lvl)
}

// setLevel makes lvl current. A level the R-tree cannot index is still
// usable; queries then go through brute force.
func (g *Game) setLevel(lvl *level.Level) error {
	index, err := spatial.NewIndex(lvl.Segments)
	if err != nil {
		log.Printf("Warning: R-tree unavailable, using brute force: %v", err)
		index = nil
	}

	g.level = lvl
	g.index = index

	log.Printf("Level ready: %d segments, %d rooms", len(lvl.Segments), len(lvl.Rooms))
	return nil
}

// obstacles returns the obstacle set the visibility query runs against.
func (g *Game) obstacles() sight.Obstacles {
	if g.settings.ScanLines.UseIndex && g.index != nil {
		return g.index
	}
	return g.level.Segments
}

// Update handles input and recomputes the visibility polygon.
func (g *Game) Update() error {
	g.fps.Update(time.Now())

	if err := g.handleKeys(); err != nil {
		return err
	}

	x, y := g.input.GetCursorPosition()
	g.viewpoint = sight.Point{
		X: clamp(float64(x), 0, float64(g.settings.Scene.Width)),
		Y: clamp(float64(y), 0, float64(g.settings.Scene.Height)),
	}

	start := time.Now()
	polygon, err := sight.ComputeVisibilityPolygon(g.viewpoint, g.obstacles(), g.settings.Sight())
	if err != nil {
		return errors.Wrap(err, "failed to compute visibility")
	}
	g.computeTime = time.Since(start)
	g.polygon = polygon

	return nil
}

// handleKeys applies the toggles pressed this tick. Every toggle produces a
// new settings value that takes effect in this same Update.
func (g *Game) handleKeys() error {
	s := g.settings
	shift := g.input.IsKeyPressed(render.KeyShift)

	if g.input.IsKeyJustPressed(render.KeyL) {
		s.ScanLines.LimitToLength = !s.ScanLines.LimitToLength
	}
	if g.input.IsKeyJustPressed(render.KeyT) {
		s.Display.DrawScanLines = !s.Display.DrawScanLines
	}
	if g.input.IsKeyJustPressed(render.KeyP) {
		s.Display.DrawPoints = !s.Display.DrawPoints
	}
	if g.input.IsKeyJustPressed(render.KeyF) {
		s.Display.DrawShape = !s.Display.DrawShape
	}
	if g.input.IsKeyJustPressed(render.KeyB) {
		s.Display.ShapeBorderVisible = !s.Display.ShapeBorderVisible
	}
	if g.input.IsKeyJustPressed(render.KeyG) {
		if shift {
			s.Display.GradientShapeFill = !s.Display.GradientShapeFill
		} else {
			s.Display.HighlightGridCell = !s.Display.HighlightGridCell
		}
	}
	if g.input.IsKeyJustPressed(render.KeyE) {
		s.Display.EnvironmentVisible = !s.Display.EnvironmentVisible
	}
	if g.input.IsKeyJustPressed(render.KeyU) {
		s.Display.UserVisible = !s.Display.UserVisible
	}
	if g.input.IsKeyJustPressed(render.KeySpace) {
		s.ScanLines.UseIndex = !s.ScanLines.UseIndex
	}
	if g.input.IsKeyJustPressed(render.KeyUp) {
		s = s.WithRayCount(s.ScanLines.Count + rayCountStep)
	}
	if g.input.IsKeyJustPressed(render.KeyDown) {
		s = s.WithRayCount(s.ScanLines.Count - rayCountStep)
	}
	if g.input.IsKeyPressed(render.KeyRight) {
		s = s.WithRayLength(s.ScanLines.Length + rayLengthStep)
	}
	if g.input.IsKeyPressed(render.KeyLeft) {
		s = s.WithRayLength(s.ScanLines.Length - rayLengthStep)
	}

	// Scene keys grow their value, or shrink it with shift, and rebuild the
	// level from the new scene settings.
	sceneStep := func(key render.Key, step int) int {
		if !g.input.IsKeyJustPressed(key) {
			return 0
		}
		if shift {
			return -step
		}
		return step
	}
	scene := s.Scene
	if d := sceneStep(render.KeyN, lineCountStep); d != 0 {
		s = s.WithLineCount(s.Scene.LineCount + d)
	}
	if d := sceneStep(render.KeyI, roomIterationStep); d != 0 {
		s = s.WithRoomIterations(s.Scene.RoomIterations + d)
	}
	if d := sceneStep(render.KeyC, cellCountStep); d != 0 {
		s = s.WithHorizontalCells(s.Scene.HorizontalCells + d)
	}
	sceneChanged := s.Scene != scene

	g.settings = s

	if sceneChanged {
		g.generator = level.NewGenerator(s.Level())
	}

	if sceneChanged || g.input.IsKeyJustPressed(render.KeyR) {
		if err := g.regenerate(); err != nil {
			return errors.Wrap(err, "failed to regenerate level")
		}
	}

	return nil
}

// Draw paints the grid, the level, the scan lines, the visibility shape and
// the viewpoint, back to front.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(backgroundColor)

	g.drawGrid(screen)

	if g.settings.Display.DrawScanLines {
		for _, ray := range sight.ScanLines(g.viewpoint.X, g.viewpoint.Y, g.settings.ScanLines.Count, g.settings.ScanLines.Length) {
			g.drawSegment(screen, ray, scanLineColor)
		}
	}

	if g.settings.Display.EnvironmentVisible {
		for _, room := range g.level.Rooms {
			g.renderer.FillRect(screen, float32(room.MinX), float32(room.MinY), float32(room.Width()), float32(room.Height()), roomFloorColor)
		}
		for _, wall := range g.level.Segments {
			g.drawSegment(screen, wall, wallColor)
		}
	}

	if g.settings.Display.DrawShape {
		g.drawShape(screen)
	}

	if g.settings.Display.DrawPoints {
		for _, p := range g.polygon {
			g.renderer.FillCircle(screen, float32(p.X), float32(p.Y), 1, pointColor)
		}
	}

	if g.settings.Display.UserVisible {
		x, y := float32(g.viewpoint.X), float32(g.viewpoint.Y)
		g.renderer.FillCircle(screen, x, y, 2.5, userFill)
		g.renderer.StrokeCircle(screen, x, y, 2.5, 1, userStroke)
	}

	g.renderer.DrawText(screen, g.status(), 1, 1)
}

func (g *Game) drawGrid(screen render.Image) {
	width := float64(g.settings.Scene.Width)
	height := float64(g.settings.Scene.Height)
	cellSize := width / float64(g.settings.Scene.HorizontalCells)

	if g.settings.Display.HighlightGridCell {
		col := int(g.viewpoint.X / cellSize)
		row := int(g.viewpoint.Y / cellSize)
		g.renderer.FillRect(screen, float32(float64(col)*cellSize), float32(float64(row)*cellSize), float32(cellSize), float32(cellSize), highlightColor)
	}

	for row := 0.0; row < height; row += cellSize {
		y := float32(int(row)) + 0.5
		g.renderer.StrokeLine(screen, 0, y, float32(width), y, 1, gridColor)
	}
	for col := 0.0; col < width; col += cellSize {
		x := float32(int(col)) + 0.5
		g.renderer.StrokeLine(screen, x, 0, x, float32(height), 1, gridColor)
	}
}

func (g *Game) drawShape(screen render.Image) {
	points := make([]render.PathPoint, len(g.polygon))
	for i, p := range g.polygon {
		points[i] = render.PathPoint{X: float32(p.X), Y: float32(p.Y)}
	}

	if g.settings.Display.GradientShapeFill {
		center := render.PathPoint{X: float32(g.viewpoint.X), Y: float32(g.viewpoint.Y)}
		g.renderer.FillRadial(screen, center, points, float32(g.settings.ScanLines.Length), gradientStart, gradientEnd)
	} else {
		g.renderer.FillPolygon(screen, points, shapeColor)
	}

	if g.settings.Display.ShapeBorderVisible {
		g.renderer.StrokePolygon(screen, points, 1, shapeBorder)
	}
}

func (g *Game) drawSegment(screen render.Image, s sight.Segment, clr color.Color) {
	g.renderer.StrokeLine(screen, float32(s.Start.X), float32(s.Start.Y), float32(s.End.X), float32(s.End.Y), 1, clr)
}

func (g *Game) status() string {
	mode := "brute force"
	if g.settings.ScanLines.UseIndex {
		mode = "r-tree"
	}
	return fmt.Sprintf("Fps: %.1f  rays: %d  length: %.0f  limit: %v  walls: %d  vertices: %d  %s %v",
		g.fps.Rate(),
		g.settings.ScanLines.Count,
		g.settings.ScanLines.Length,
		g.settings.ScanLines.LimitToLength,
		len(g.level.Segments),
		len(g.polygon),
		mode,
		g.computeTime.Round(time.Microsecond))
}

// Layout returns the canvas size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.settings.Scene.Width, g.settings.Scene.Height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
