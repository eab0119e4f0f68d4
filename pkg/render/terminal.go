package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them into area,
// with framebuffer pixel (0, 0) at the top left cell of area. Each cell shows
// two framebuffer rows using ▀ with fg=top color and bg=bottom color.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		if topY >= fb.Height {
			break
		}
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// CellsToPixels returns the framebuffer size needed to cover a cols x rows
// cell area.
func CellsToPixels(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// TerminalRenderer presents framebuffers on a terminal screen.
type TerminalRenderer struct {
	scr    uv.Screen
	width  int
	height int
}

// NewTerminalRenderer creates a renderer for a width x height cell screen.
func NewTerminalRenderer(scr uv.Screen, width, height int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, width: width, height: height}
}

// FramebufferSize returns the framebuffer size that fills the whole screen.
func (r *TerminalRenderer) FramebufferSize() (width, height int) {
	return CellsToPixels(r.width, r.height)
}

// Render draws fb into the given cell area of the screen.
func (r *TerminalRenderer) Render(fb *Framebuffer, area uv.Rectangle) {
	fb.Draw(r.scr, area.Intersect(uv.Rect(0, 0, r.width, r.height)))
}

// Text draws a single styled line starting at cell (x, y).
func (r *TerminalRenderer) Text(x, y int, s string) {
	if y < 0 || y >= r.height {
		return
	}
	uv.NewStyledString(s).Draw(r.scr, uv.Rect(x, y, r.width-x, 1))
}

// Flush displays pending cells when the screen supports it.
func (r *TerminalRenderer) Flush() error {
	if d, ok := r.scr.(interface{ Display() error }); ok {
		return d.Display()
	}
	return nil
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}
