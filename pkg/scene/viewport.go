package scene

import (
	"image"

	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/render"
)

// Viewport is a camera rendering into a rectangle of the terminal. It keeps
// two sizes: the cell rectangle it occupies on screen and the pixel size of
// its framebuffer. A cell covers CellSize pixels.
type Viewport struct {
	Group
	Camera   *render.Camera
	CellSize math3d.Vec2

	cells  image.Rectangle
	width  int
	height int
}

// NewViewport creates a viewport with terminal half-block cells (1x2 pixels)
// and no area. It is not live until SetCellArea gives it a size.
func NewViewport(id string, cam *render.Camera) *Viewport {
	return &Viewport{
		Group:    Group{name: id},
		Camera:   cam,
		CellSize: math3d.V2(1, 2),
	}
}

// ID returns the viewport identifier, which is its node name.
func (v *Viewport) ID() string {
	return v.name
}

// SetCellArea places the viewport on screen and resizes its framebuffer to
// match. The camera aspect ratio follows the pixel size.
func (v *Viewport) SetCellArea(area image.Rectangle) {
	v.cells = area.Canon()
	v.SetSize(
		int(float64(v.cells.Dx())*v.CellSize.X),
		int(float64(v.cells.Dy())*v.CellSize.Y),
	)
}

// SetSize sets the pixel size without moving the viewport.
func (v *Viewport) SetSize(width, height int) {
	v.width, v.height = max(width, 0), max(height, 0)
	if v.Camera != nil && v.width > 0 && v.height > 0 {
		v.Camera.SetAspectRatio(float64(v.width) / float64(v.height))
	}
}

// CellArea returns the terminal cells the viewport covers.
func (v *Viewport) CellArea() image.Rectangle {
	return v.cells
}

// Size returns the pixel size.
func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}

// View returns the projector for this viewport. ok is false when the
// viewport has no camera or no area.
func (v *Viewport) View() (render.View, bool) {
	view := render.View{Camera: v.Camera, Width: v.width, Height: v.height}
	return view, view.Live()
}

// Contains reports whether terminal cell (x, y) is inside the viewport.
func (v *Viewport) Contains(x, y int) bool {
	return image.Pt(x, y).In(v.cells)
}

// PointerPixel maps a terminal cell to the viewport pixel at the centre of
// that cell.
func (v *Viewport) PointerPixel(x, y int) math3d.Vec2 {
	return math3d.V2(
		(float64(x-v.cells.Min.X)+0.5)*v.CellSize.X,
		(float64(y-v.cells.Min.Y)+0.5)*v.CellSize.Y,
	)
}
