// Package render defines the drawing, input and game loop interfaces the
// demo is written against, so the demo never talks to a graphics engine
// directly.
package render

import (
	"image"
	"image/color"
)

// PathPoint is a vertex of a polygon in screen coordinates.
type PathPoint struct {
	X, Y float32
}

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// demo logic.
type Renderer interface {
	// Shapes
	FillRect(dst Image, x, y, width, height float32, clr color.Color)
	StrokeLine(dst Image, x0, y0, x1, y1, strokeWidth float32, clr color.Color)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)

	// Polygons. The polygon is closed between its last and first point.
	FillPolygon(dst Image, points []PathPoint, clr color.Color)
	StrokePolygon(dst Image, points []PathPoint, strokeWidth float32, clr color.Color)

	// FillRadial fills a polygon that is star-shaped around center, fading
	// from inner at the center to outer at radius and beyond.
	FillRadial(dst Image, center PathPoint, points []PathPoint, radius float32, inner, outer color.Color)

	// Text
	DrawText(dst Image, text string, x, y int)
}

// Image represents a renderable image surface.
type Image interface {
	Bounds() image.Rectangle
	Size() (width, height int)
	Fill(clr color.Color)
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
}

// Key represents a keyboard key.
type Key int

// Key constants for the demo toggles
const (
	KeyL Key = iota // Limit rays to their length
	KeyT            // Scan lines visible
	KeyP            // Hit points visible
	KeyF            // Shape fill
	KeyB            // Shape border
	KeyG            // Grid cell highlight / gradient with shift
	KeyE            // Environment visible
	KeyU            // User marker visible
	KeyR            // Regenerate level
	KeyN            // Random line count, fewer with shift
	KeyI            // Room iterations, fewer with shift
	KeyC            // Grid cells, fewer with shift
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyShift
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the demo state. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the engine that manages the loop and window.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame runs the loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
