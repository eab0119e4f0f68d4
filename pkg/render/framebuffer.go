// Package render draws sculpt viewports: cameras and projection, a software
// framebuffer with alpha blending, wireframe meshes and terminal output.
package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// Rows are drawn two at a time with half-block characters (▀), so a pixel
// is roughly square on screen.
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// BlendPixel composites c over the pixel at (x, y) using c's alpha
// (source-over). Out of bounds pixels are ignored.
func (fb *Framebuffer) BlendPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	if c.A == 255 {
		fb.Pixels[y*fb.Width+x] = c
		return
	}
	dst := &fb.Pixels[y*fb.Width+x]
	a := uint32(c.A)
	inv := 255 - a
	dst.R = uint8((uint32(c.R)*a + uint32(dst.R)*inv + 127) / 255)
	dst.G = uint8((uint32(c.G)*a + uint32(dst.G)*inv + 127) / 255)
	dst.B = uint8((uint32(c.B)*a + uint32(dst.B)*inv + 127) / 255)
	dst.A = uint8(a + (uint32(dst.A)*inv+127)/255)
}

// FillCircle blends a filled circle centred at (cx, cy). A pixel is covered
// when its centre lies within radius of (cx, cy).
func (fb *Framebuffer) FillCircle(cx, cy, radius float64, c color.RGBA) {
	fb.eachPixelNear(cx, cy, radius, func(x, y int, d float64) {
		if d <= radius {
			fb.BlendPixel(x, y, c)
		}
	})
}

// DrawRing blends a circle outline of the given thickness centred at
// (cx, cy).
func (fb *Framebuffer) DrawRing(cx, cy, radius, thickness float64, c color.RGBA) {
	half := thickness / 2
	fb.eachPixelNear(cx, cy, radius+half, func(x, y int, d float64) {
		if math.Abs(d-radius) <= half {
			fb.BlendPixel(x, y, c)
		}
	})
}

func (fb *Framebuffer) eachPixelNear(cx, cy, reach float64, fn func(x, y int, d float64)) {
	if reach < 0 {
		return
	}
	x0 := max(int(math.Floor(cx-reach)), 0)
	x1 := min(int(math.Ceil(cx+reach)), fb.Width-1)
	y0 := max(int(math.Floor(cy-reach)), 0)
	y1 := min(int(math.Ceil(cy+reach)), fb.Height-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(x, y, math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy))
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	defer f.Close()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return nil
}
