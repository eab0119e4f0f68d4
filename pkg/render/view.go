package render

import "github.com/taigrr/sculpt/pkg/math3d"

// View pairs a camera with the pixel size of the surface it renders to. It
// maps between world space and viewport pixels, with x growing to the right
// and y growing down from the top left corner.
//
// The camera's aspect ratio is expected to match Width/Height; the scene
// viewport keeps the two in sync.
type View struct {
	Camera *Camera
	Width  int
	Height int
}

// Live reports whether the view can project anything.
func (v View) Live() bool {
	return v.Camera != nil && v.Width > 0 && v.Height > 0
}

// Project maps a world point to viewport pixels. The position is computed
// even when the point is off screen or behind the camera; the second result
// is false only in the latter case.
func (v View) Project(p math3d.Vec3) (math3d.Vec2, bool) {
	viewPos := v.Camera.ViewMatrix().MulVec3(p)
	clip := v.Camera.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	ndc := clip.PerspectiveDivide()
	if clip.W < 0 {
		// Keep points behind a perspective camera on the side they came from.
		ndc.X, ndc.Y = -ndc.X, -ndc.Y
	}

	px := math3d.V2(
		(ndc.X+1)*0.5*float64(v.Width),
		(1-ndc.Y)*0.5*float64(v.Height), // Y is flipped
	)
	return px, viewPos.Z < 0
}

// UnprojectRay returns the world space ray through a viewport pixel. The ray
// starts on the near plane and has a unit direction. A camera with a
// singular view-projection matrix yields a ray with a zero direction, which
// never intersects anything.
func (v View) UnprojectRay(px math3d.Vec2) math3d.Ray {
	inv, ok := v.Camera.InverseViewProjection()
	if !ok {
		return math3d.Ray{Origin: v.Camera.Position}
	}

	ndcX := 2*px.X/float64(v.Width) - 1
	ndcY := 1 - 2*px.Y/float64(v.Height)

	near := inv.MulVec4(math3d.V4(ndcX, ndcY, -1, 1)).PerspectiveDivide()
	far := inv.MulVec4(math3d.V4(ndcX, ndcY, 1, 1)).PerspectiveDivide()

	return math3d.Ray{
		Origin:    near,
		Direction: far.Sub(near).Normalize(),
	}
}
