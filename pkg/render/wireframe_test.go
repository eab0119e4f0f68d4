package render

import (
	"testing"

	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/models"
)

func countColor(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestWireframeDrawMesh(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	fb := NewFramebuffer(80, 80)
	fb.Clear(ColorBlack)
	wf := NewWireframe(View{Camera: cam, Width: fb.Width, Height: fb.Height}, fb)

	mesh, err := models.NewPrimitive(models.PrimitiveTriangle)
	if err != nil {
		t.Fatal(err)
	}
	wf.DrawMesh(mesh, math3d.Zero3(), ColorWhite)
	if countColor(fb, ColorWhite) == 0 {
		t.Fatal("DrawMesh drew nothing")
	}

	// The hypotenuse runs from (-1,-1) to (1,1) and passes the centre.
	if fb.GetPixel(40, 39) != ColorWhite && fb.GetPixel(39, 40) != ColorWhite {
		t.Error("no edge through the centre")
	}
}

func TestWireframeSkipsBehindCamera(t *testing.T) {
	cam := NewCamera()
	fb := NewFramebuffer(40, 40)
	wf := NewWireframe(View{Camera: cam, Width: fb.Width, Height: fb.Height}, fb)

	wf.DrawLine3D(math3d.V3(0, 0, 10), math3d.V3(1, 0, 10), ColorRed)
	if countColor(fb, ColorRed) != 0 {
		t.Error("line behind the camera was drawn")
	}

	wf.DrawMesh(nil, math3d.Zero3(), ColorRed)
}

func TestWireframeGridAndAxes(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	fb := NewFramebuffer(60, 60)
	wf := NewWireframe(View{Camera: cam, Width: fb.Width, Height: fb.Height}, fb)

	wf.DrawGrid(2, 1, ColorGray)
	if countColor(fb, ColorGray) == 0 {
		t.Error("grid drew nothing")
	}
	wf.DrawAxes(1)
	if countColor(fb, ColorRed) == 0 || countColor(fb, ColorGreen) == 0 {
		t.Error("x and y axes should be visible from +Z")
	}
}
