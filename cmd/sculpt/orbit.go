package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/render"
)

// orbitAxis is one orbit angle whose velocity decays on a spring.
type orbitAxis struct {
	Position float64
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

func newOrbitAxis(fps int) orbitAxis {
	// Frequency 4, critically damped (no overshoot).
	return orbitAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *orbitAxis) update() {
	a.Position += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// orbit drives the perspective camera around the scene origin.
type orbit struct {
	Pitch, Yaw orbitAxis
	Distance   float64

	fps         int
	home        float64
	lastPitch   float64
	lastYaw     float64
	lastDist    float64
	initialized bool
}

const (
	minDistance = 1.0
	maxDistance = 20.0
	homePitch   = -0.35
	homeYaw     = 0.6
)

func newOrbit(fps int, distance float64) *orbit {
	o := &orbit{fps: fps, home: distance}
	o.reset()
	return o
}

func (o *orbit) reset() {
	o.Pitch = newOrbitAxis(o.fps)
	o.Yaw = newOrbitAxis(o.fps)
	o.Pitch.Position = homePitch
	o.Yaw.Position = homeYaw
	o.Distance = o.home
}

func (o *orbit) impulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

func (o *orbit) zoom(delta float64) {
	o.Distance = math.Max(minDistance, math.Min(maxDistance, o.Distance+delta))
}

// apply advances the springs and moves cam. It reports whether the camera
// moved since the last call.
func (o *orbit) apply(cam *render.Camera) bool {
	o.Pitch.update()
	o.Yaw.update()

	const eps = 1e-9
	moved := !o.initialized ||
		math.Abs(o.Pitch.Position-o.lastPitch) > eps ||
		math.Abs(o.Yaw.Position-o.lastYaw) > eps ||
		o.Distance != o.lastDist
	if !moved {
		return false
	}
	cam.Orbit(math3d.Zero3(), o.Distance, o.Pitch.Position, o.Yaw.Position)
	o.lastPitch, o.lastYaw, o.lastDist = o.Pitch.Position, o.Yaw.Position, o.Distance
	o.initialized = true
	return true
}
