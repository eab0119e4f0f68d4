package render

import (
	"image/color"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestBlendPixel(t *testing.T) {
	tests := []struct {
		name string
		dst  color.RGBA
		src  color.RGBA
		want color.RGBA
	}{
		{"opaque replaces", RGB(10, 20, 30), RGB(200, 100, 50), RGB(200, 100, 50)},
		{"transparent keeps", RGB(10, 20, 30), RGBA(200, 100, 50, 0), RGB(10, 20, 30)},
		{"half over black", RGB(0, 0, 0), RGBA(255, 255, 255, 128), RGB(128, 128, 128)},
		{"alpha 0.7 over white", RGB(255, 255, 255), RGBA(41, 50, 82, 179), RGB(105, 111, 134)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(1, 1)
			fb.Clear(tt.dst)
			fb.BlendPixel(0, 0, tt.src)
			if got := fb.GetPixel(0, 0); got != tt.want {
				t.Errorf("blend = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlendPixelOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.BlendPixel(-1, 0, ColorWhite)
	fb.BlendPixel(0, 2, ColorWhite)
	for i, p := range fb.Pixels {
		if p != (color.RGBA{}) {
			t.Fatalf("pixel %d touched: %v", i, p)
		}
	}
}

func TestFillCircle(t *testing.T) {
	fb := NewFramebuffer(21, 21)
	fb.Clear(ColorBlack)
	fb.FillCircle(10.5, 10.5, 5, ColorWhite)

	if got := fb.GetPixel(10, 10); got != ColorWhite {
		t.Errorf("centre = %v, want white", got)
	}
	if got := fb.GetPixel(15, 10); got != ColorWhite {
		t.Errorf("edge pixel (distance 5) = %v, want white", got)
	}
	if got := fb.GetPixel(16, 10); got != ColorBlack {
		t.Errorf("pixel outside radius = %v, want black", got)
	}
	if got := fb.GetPixel(14, 14); got != ColorBlack {
		t.Errorf("corner pixel (distance 5.66) = %v, want black", got)
	}

	// Circles partly off screen must not panic.
	fb.FillCircle(-2, 25, 4, ColorRed)
}

func TestDrawRing(t *testing.T) {
	fb := NewFramebuffer(21, 21)
	fb.Clear(ColorBlack)
	fb.DrawRing(10.5, 10.5, 6, 1, ColorWhite)

	if got := fb.GetPixel(10, 10); got != ColorBlack {
		t.Errorf("ring centre = %v, want black", got)
	}
	if got := fb.GetPixel(16, 10); got != ColorWhite {
		t.Errorf("ring pixel = %v, want white", got)
	}
}

func TestFramebufferDrawArea(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(0, 1, ColorBlue)
	fb.SetPixel(1, 2, ColorGreen)

	scr := uv.NewScreenBuffer(10, 5)
	fb.Draw(scr, uv.Rect(3, 1, 2, 2))

	top := scr.CellAt(3, 1)
	if top == nil || top.Content != "▀" {
		t.Fatalf("cell (3,1) = %+v, want half block", top)
	}
	if top.Style.Fg != ColorRed || top.Style.Bg != ColorBlue {
		t.Errorf("cell (3,1) fg/bg = %v/%v, want red/blue", top.Style.Fg, top.Style.Bg)
	}
	if c := scr.CellAt(4, 2); c == nil || c.Style.Fg != ColorGreen {
		t.Errorf("cell (4,2) = %+v, want green foreground", c)
	}
	if c := scr.CellAt(2, 1); c != nil && c.Content == "▀" {
		t.Error("cell left of the area was drawn")
	}
}

func TestSavePNG(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(ColorGray)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("SavePNG into a missing directory succeeded")
	}
}

func BenchmarkFillCircle(b *testing.B) {
	fb := NewFramebuffer(200, 200)

	for b.Loop() {
		fb.FillCircle(100, 100, 9, RGBA(251, 100, 121, 179))
	}
}
