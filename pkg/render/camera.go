package render

import (
	"math"

	"github.com/taigrr/sculpt/pkg/math3d"
)

// Projection selects how a Camera maps view space to clip space.
type Projection int

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
)

// String returns the projection name.
func (p Projection) String() string {
	if p == ProjectionOrthographic {
		return "orthographic"
	}
	return "perspective"
}

// Camera represents a 3D camera with position and orientation.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	// Projection parameters
	Projection  Projection
	FOV         float64 // Vertical field of view in radians (perspective)
	OrthoHeight float64 // Visible world height (orthographic)
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	invViewProj    math3d.Mat4
	invOK          bool
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera creates a perspective camera at (0, 0, 5) looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		FOV:         math.Pi / 3, // 60 degrees
		OrthoHeight: 4,
		AspectRatio: 16.0 / 9.0,
		Near:        0.05,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
	c.vpDirty = true
}

// SetRotation sets the camera rotation (pitch, yaw, roll in radians).
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = roll
	c.viewDirty = true
	c.vpDirty = true
}

// SetPerspective switches to a perspective projection with the given
// vertical field of view in radians.
func (c *Camera) SetPerspective(fov float64) {
	c.Projection = ProjectionPerspective
	c.FOV = fov
	c.projDirty = true
	c.vpDirty = true
}

// SetOrthographic switches to an orthographic projection showing height
// world units vertically.
func (c *Camera) SetOrthographic(height float64) {
	c.Projection = ProjectionOrthographic
	c.OrthoHeight = height
	c.projDirty = true
	c.vpDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect == c.AspectRatio {
		return
	}
	c.AspectRatio = aspect
	c.projDirty = true
	c.vpDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
	c.vpDirty = true
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec3 {
	// Forward is -Z in camera space, rotated by yaw and pitch
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the right direction vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(
		math.Cos(c.Yaw),
		0,
		-math.Sin(c.Yaw),
	)
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.computeProjectionMatrix()
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.updateViewProj()
	return c.viewProjMatrix
}

// InverseViewProjection returns the inverse of the view-projection matrix.
// The second result is false when the matrix is singular, which happens for
// degenerate clip planes or a zero aspect ratio.
func (c *Camera) InverseViewProjection() (math3d.Mat4, bool) {
	c.updateViewProj()
	return c.invViewProj, c.invOK
}

func (c *Camera) updateViewProj() {
	if !c.vpDirty && !c.viewDirty && !c.projDirty {
		return
	}
	c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
	c.invViewProj, c.invOK = c.viewProjMatrix.Inverse()
	c.vpDirty = false
}

func (c *Camera) computeViewMatrix() {
	// View = Rotation * Translation(-position)
	rot := math3d.RotateZ(-c.Roll).Mul(
		math3d.RotateX(-c.Pitch)).Mul(
		math3d.RotateY(-c.Yaw))

	trans := math3d.Translate(c.Position.Negate())

	c.viewMatrix = rot.Mul(trans)
}

func (c *Camera) computeProjectionMatrix() {
	if c.Projection == ProjectionOrthographic {
		top := c.OrthoHeight / 2
		right := top * c.AspectRatio
		c.projMatrix = math3d.Orthographic(-right, right, -top, top, c.Near, c.Far)
		return
	}
	c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0

	c.viewDirty = true
	c.vpDirty = true
}

// Orbit places the camera on a sphere of the given radius around target and
// points it at the target. pitch and yaw are in radians.
func (c *Camera) Orbit(target math3d.Vec3, radius, pitch, yaw float64) {
	const maxPitch = math.Pi/2 - 0.01
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))

	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		-math.Sin(pitch),
		math.Cos(yaw)*math.Cos(pitch),
	).Scale(radius)
	c.Position = target.Add(offset)
	c.LookAt(target)
}
