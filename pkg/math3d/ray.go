package math3d

import "math"

// ParallelEpsilon is the smallest |n·d| for which a ray is considered to
// cross a plane. Below it the ray is treated as parallel and misses.
const ParallelEpsilon = 1e-6

// Ray is a half line starting at Origin. Direction is expected to be unit
// length but IntersectPlane does not depend on it.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point Origin + Direction*t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal Vec3
	D      float64
}

// PlaneFromPoint returns the plane with the given normal passing through p.
func PlaneFromPoint(normal, p Vec3) Plane {
	return Plane{Normal: normal, D: -normal.Dot(p)}
}

// Distance returns the signed distance from p to the plane, scaled by the
// normal's length.
func (pl Plane) Distance(p Vec3) float64 {
	return pl.Normal.Dot(p) + pl.D
}

// IntersectPlane returns where the ray meets the plane. The second result is
// false when the ray is parallel to the plane or the plane lies behind the
// ray origin.
func (r Ray) IntersectPlane(pl Plane) (Vec3, bool) {
	denom := pl.Normal.Dot(r.Direction)
	if math.Abs(denom) < ParallelEpsilon {
		return Vec3{}, false
	}
	t := -pl.Distance(r.Origin) / denom
	if t < 0 {
		return Vec3{}, false
	}
	return r.At(t), true
}
