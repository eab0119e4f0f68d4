package render

import (
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/models"
)

// Wireframe renders 3D wireframe objects into a framebuffer through a view.
type Wireframe struct {
	view View
	fb   *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(view View, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		view: view,
		fb:   fb,
	}
}

// DrawLine3D draws a line in 3D space. Lines with an endpoint behind the
// camera are skipped, there is no near plane clipping.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	s1, vis1 := w.view.Project(p1)
	s2, vis2 := w.view.Project(p2)
	if !vis1 || !vis2 {
		return
	}
	if !w.nearScreen(s1) || !w.nearScreen(s2) {
		return
	}
	w.fb.DrawLine(int(s1.X), int(s1.Y), int(s2.X), int(s2.Y), color)
}

// nearScreen rejects projections far outside the framebuffer so Bresenham
// never walks millions of off-screen pixels.
func (w *Wireframe) nearScreen(p math3d.Vec2) bool {
	limit := float64(4 * max(w.fb.Width, w.fb.Height))
	return p.X > -limit && p.X < limit && p.Y > -limit && p.Y < limit
}

// DrawMesh draws the triangle edges of every surface of mesh, translated by
// origin.
func (w *Wireframe) DrawMesh(mesh *models.Mesh, origin math3d.Vec3, color Color) {
	if mesh == nil {
		return
	}
	for i := range mesh.SurfaceCount() {
		s, err := mesh.Surface(i)
		if err != nil {
			continue
		}
		for _, tri := range s.Triangles() {
			a := origin.Add(s.Vertices[tri[0]])
			b := origin.Add(s.Vertices[tri[1]])
			c := origin.Add(s.Vertices[tri[2]])
			w.DrawLine3D(a, b, color)
			w.DrawLine3D(b, c, color)
			w.DrawLine3D(c, a, color)
		}
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XY plane at z=0, the plane vertices are
// dragged in.
func (w *Wireframe) DrawGrid(size, step float64, color Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, -half, 0), math3d.V3(x, half, 0), color)
	}
	for y := -half; y <= half; y += step {
		w.DrawLine3D(math3d.V3(-half, y, 0), math3d.V3(half, y, 0), color)
	}
}
