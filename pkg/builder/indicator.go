package builder

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/render"
	"github.com/taigrr/sculpt/pkg/scene"
)

// IndicatorName is the name of the marker node added to the edited scene on
// the first grab.
const IndicatorName = "VertexIndicator"

// Indicator is the ring drawn around the grabbed vertex. On each grab the
// ring starts wide and settles on a spring.
type Indicator struct {
	Marker *scene.Marker

	radius   float64
	velocity float64
	target   float64

	spring harmonica.Spring
	dt     float64
}

const (
	indicatorFrequency = 6.0
	indicatorDamping   = 0.4
	indicatorSpread    = 3.0
	indicatorThickness = 1.0
)

// grab shows the marker at pos and restarts the ring animation for a handle
// of the given outer radius.
func (ind *Indicator) grab(pos math3d.Vec3, outer float64) {
	ind.Marker.Position = pos
	ind.Marker.Visible = true
	ind.target = outer + indicatorThickness
	ind.radius = outer * indicatorSpread
	ind.velocity = 0
}

// move keeps the marker on the dragged vertex.
func (ind *Indicator) move(pos math3d.Vec3) {
	ind.Marker.Position = pos
}

func (ind *Indicator) hide() {
	ind.Marker.Visible = false
}

// Settled reports whether the ring has stopped moving.
func (ind *Indicator) Settled() bool {
	const eps = 1e-3
	d := ind.radius - ind.target
	return d < eps && d > -eps && ind.velocity < eps && ind.velocity > -eps
}

// Radius returns the current ring radius in pixels.
func (ind *Indicator) Radius() float64 {
	return ind.radius
}

// update advances the spring by dt seconds and reports whether the ring
// moved.
func (ind *Indicator) update(dt float64) bool {
	if !ind.Marker.Visible || dt <= 0 || ind.Settled() {
		return false
	}
	if dt != ind.dt {
		ind.spring = harmonica.NewSpring(dt, indicatorFrequency, indicatorDamping)
		ind.dt = dt
	}
	ind.radius, ind.velocity = ind.spring.Update(ind.radius, ind.velocity, ind.target)
	return true
}

func (ind *Indicator) draw(fb *render.Framebuffer, at math3d.Vec2, c render.Color) {
	fb.DrawRing(at.X, at.Y, ind.radius, indicatorThickness, c)
}
