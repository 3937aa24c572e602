package ebiten

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chosenoffset.com/lineofsight/internal/render"
)

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct {
	// whiteImg is the source texture for untextured triangles.
	whiteImg *ebiten.Image
}

// NewRenderer creates a new Ebiten-based render.
func NewRenderer() render.Renderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	return &EbitenRenderer{
		// the inner pixel avoids sampling the transparent border
		whiteImg: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// FillRect draws a filled rectangle on the destination image.
func (r *EbitenRenderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	vector.DrawFilledRect(unwrap(dst), x, y, width, height, clr, false)
}

// StrokeLine draws a line segment on the destination image.
func (r *EbitenRenderer) StrokeLine(dst render.Image, x0, y0, x1, y1, strokeWidth float32, clr color.Color) {
	vector.StrokeLine(unwrap(dst), x0, y0, x1, y1, strokeWidth, clr, true)
}

// FillCircle draws a filled circle on the destination image.
func (r *EbitenRenderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	vector.DrawFilledCircle(unwrap(dst), x, y, radius, clr, true)
}

// StrokeCircle draws a circle outline on the destination image.
func (r *EbitenRenderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	vector.StrokeCircle(unwrap(dst), x, y, radius, strokeWidth, clr, true)
}

// FillPolygon fills a closed polygon with a solid color.
func (r *EbitenRenderer) FillPolygon(dst render.Image, points []render.PathPoint, clr color.Color) {
	if len(points) < 3 {
		return
	}

	path := vector.Path{}
	path.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		path.LineTo(p.X, p.Y)
	}
	path.Close()

	vertices, indices := path.AppendVerticesAndIndicesForFilling(nil, nil)

	cr, cg, cb, ca := colorScale(clr)
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = cr
		vertices[i].ColorG = cg
		vertices[i].ColorB = cb
		vertices[i].ColorA = ca
	}

	opts := &ebiten.DrawTrianglesOptions{
		FillRule: ebiten.FillRuleNonZero,
	}
	unwrap(dst).DrawTriangles(vertices, indices, r.whiteImg, opts)
}

// StrokePolygon outlines a closed polygon.
func (r *EbitenRenderer) StrokePolygon(dst render.Image, points []render.PathPoint, strokeWidth float32, clr color.Color) {
	if len(points) < 2 {
		return
	}

	img := unwrap(dst)
	prev := points[len(points)-1]
	for _, p := range points {
		vector.StrokeLine(img, prev.X, prev.Y, p.X, p.Y, strokeWidth, clr, true)
		prev = p
	}
}

// FillRadial fills the polygon as a triangle fan around center. Vertex
// colors fade linearly from inner to outer with the distance from center.
func (r *EbitenRenderer) FillRadial(dst render.Image, center render.PathPoint, points []render.PathPoint, radius float32, inner, outer color.Color) {
	if len(points) < 2 || len(points)+1 > math.MaxUint16 {
		return
	}

	ir, ig, ib, ia := colorScale(inner)
	or, og, ob, oa := colorScale(outer)
	lerp := func(a, b, t float32) float32 { return a + (b-a)*t }

	vertices := make([]ebiten.Vertex, 0, len(points)+1)
	vertices = append(vertices, ebiten.Vertex{
		DstX: center.X, DstY: center.Y,
		SrcX: 1, SrcY: 1,
		ColorR: ir, ColorG: ig, ColorB: ib, ColorA: ia,
	})

	for _, p := range points {
		t := float32(1)
		if radius > 0 {
			dist := float32(math.Hypot(float64(p.X-center.X), float64(p.Y-center.Y)))
			t = min(dist/radius, 1)
		}
		vertices = append(vertices, ebiten.Vertex{
			DstX: p.X, DstY: p.Y,
			SrcX: 1, SrcY: 1,
			ColorR: lerp(ir, or, t),
			ColorG: lerp(ig, og, t),
			ColorB: lerp(ib, ob, t),
			ColorA: lerp(ia, oa, t),
		})
	}

	n := uint16(len(points))
	indices := make([]uint16, 0, 3*len(points))
	for i := uint16(1); i <= n; i++ {
		next := i%n + 1
		indices = append(indices, 0, i, next)
	}

	unwrap(dst).DrawTriangles(vertices, indices, r.whiteImg, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// DrawText draws text on the destination image using the debug font.
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y int) {
	ebitenutil.DebugPrintAt(unwrap(dst), str, x, y)
}

// colorScale converts clr to straight-alpha components in [0, 1].
func colorScale(clr color.Color) (r, g, b, a float32) {
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	return float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

// Bounds returns the bounds of the image.
func (i *EbitenImage) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// Size returns the width and height of the image.
func (i *EbitenImage) Size() (width, height int) {
	return i.img.Bounds().Dx(), i.img.Bounds().Dy()
}

// Fill fills the entire image with the given color.
func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// WrapEbitenImage wraps an existing ebiten.Image as a render.Image.
func WrapEbitenImage(img *ebiten.Image) render.Image {
	return &EbitenImage{img: img}
}

func unwrap(img render.Image) *ebiten.Image {
	return img.(*EbitenImage).img
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	return ebiten.IsKeyPressed(keyToEbitenKey(key))
}

// IsKeyJustPressed returns whether the specified key was just pressed this frame.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	return inpututil.IsKeyJustPressed(keyToEbitenKey(key))
}

// GetCursorPosition returns the current cursor position.
func (m *EbitenInputManager) GetCursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) ebiten.Key {
	switch key {
	case render.KeyL:
		return ebiten.KeyL
	case render.KeyT:
		return ebiten.KeyT
	case render.KeyP:
		return ebiten.KeyP
	case render.KeyF:
		return ebiten.KeyF
	case render.KeyB:
		return ebiten.KeyB
	case render.KeyG:
		return ebiten.KeyG
	case render.KeyE:
		return ebiten.KeyE
	case render.KeyU:
		return ebiten.KeyU
	case render.KeyR:
		return ebiten.KeyR
	case render.KeyN:
		return ebiten.KeyN
	case render.KeyI:
		return ebiten.KeyI
	case render.KeyC:
		return ebiten.KeyC
	case render.KeyUp:
		return ebiten.KeyArrowUp
	case render.KeyDown:
		return ebiten.KeyArrowDown
	case render.KeyLeft:
		return ebiten.KeyArrowLeft
	case render.KeyRight:
		return ebiten.KeyArrowRight
	case render.KeySpace:
		return ebiten.KeySpace
	case render.KeyShift:
		return ebiten.KeyShift
	default:
		return 0
	}
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct{}

// NewEngine creates a new Ebiten-based engine.
func NewEngine() render.Engine {
	return &EbitenEngine{}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// RunGame runs the loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	return ebiten.RunGame(&gameAdapter{game: game})
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	return a.game.Update()
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&EbitenImage{img: screen})
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
