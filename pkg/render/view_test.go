package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/sculpt/pkg/math3d"
)

func newTestView(proj Projection) View {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(3, 2, 5))
	cam.LookAt(math3d.Zero3())
	cam.SetAspectRatio(320.0 / 200.0)
	if proj == ProjectionOrthographic {
		cam.SetOrthographic(6)
	}
	return View{Camera: cam, Width: 320, Height: 200}
}

func TestCameraViewProjectionTracksChanges(t *testing.T) {
	cam := NewCamera()
	before := cam.ViewProjectionMatrix()

	cam.SetPosition(math3d.V3(1, 0, 5))
	// View was already computed once; the combined matrix must still refresh.
	_ = cam.ViewMatrix()
	after := cam.ViewProjectionMatrix()
	if before == after {
		t.Fatal("view-projection matrix not refreshed after SetPosition")
	}

	want := cam.ProjectionMatrix().Mul(cam.ViewMatrix())
	for i := range want {
		if math.Abs(after[i]-want[i]) > 1e-12 {
			t.Fatalf("vp[%d] = %v, want %v", i, after[i], want[i])
		}
	}
}

func TestCameraMatchesLookAt(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(3, 2, 5))
	cam.LookAt(math3d.Zero3())

	got := cam.ViewMatrix()
	want := mgl64.LookAtV(mgl64.Vec3{3, 2, 5}, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("view[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera()
	target := math3d.V3(1, 0, 0)
	cam.Orbit(target, 4, 0.3, -0.8)

	if d := cam.Position.Distance(target); math.Abs(d-4) > 1e-9 {
		t.Errorf("orbit radius = %v, want 4", d)
	}
	toTarget := target.Sub(cam.Position).Normalize()
	if d := toTarget.Dot(cam.Forward()); math.Abs(d-1) > 1e-9 {
		t.Errorf("camera not facing target, forward·dir = %v", d)
	}
}

func TestViewProjectCenter(t *testing.T) {
	for _, proj := range []Projection{ProjectionPerspective, ProjectionOrthographic} {
		t.Run(proj.String(), func(t *testing.T) {
			v := newTestView(proj)
			px, visible := v.Project(math3d.Zero3())
			if !visible {
				t.Fatal("look-at target reported behind camera")
			}
			if math.Abs(px.X-160) > 1e-9 || math.Abs(px.Y-100) > 1e-9 {
				t.Errorf("target projected to %v, want (160, 100)", px)
			}
		})
	}
}

func TestViewProjectAxes(t *testing.T) {
	cam := NewCamera() // at (0, 0, 5) looking down -Z
	cam.SetAspectRatio(1)
	v := View{Camera: cam, Width: 100, Height: 100}

	right, _ := v.Project(math3d.V3(1, 0, 0))
	if right.X <= 50 {
		t.Errorf("+X projected to x=%v, want right of centre", right.X)
	}
	up, _ := v.Project(math3d.V3(0, 1, 0))
	if up.Y >= 50 {
		t.Errorf("+Y projected to y=%v, want above centre (smaller y)", up.Y)
	}
}

func TestViewProjectBehindCamera(t *testing.T) {
	v := newTestView(ProjectionPerspective)
	behind := v.Camera.Position.Add(v.Camera.Position.Normalize())
	if _, visible := v.Project(behind); visible {
		t.Error("point behind camera reported visible")
	}

	// Off screen but in front is still visible (no frustum rejection).
	if _, visible := v.Project(math3d.V3(0, 0, -40)); !visible {
		t.Error("point in front of camera reported behind")
	}
}

func TestViewProjectMatchesGluProject(t *testing.T) {
	v := newTestView(ProjectionPerspective)
	view := mgl64.Mat4(v.Camera.ViewMatrix())
	proj := mgl64.Mat4(v.Camera.ProjectionMatrix())

	points := []math3d.Vec3{
		math3d.V3(0.5, 0.25, 0),
		math3d.V3(-1, 1, 0.5),
		math3d.V3(2, -1, -1),
	}
	for _, p := range points {
		got, _ := v.Project(p)
		win := mgl64.Project(mgl64.Vec3{p.X, p.Y, p.Z}, view, proj, 0, 0, v.Width, v.Height)
		wantX, wantY := win.X(), float64(v.Height)-win.Y()
		if math.Abs(got.X-wantX) > 1e-6 || math.Abs(got.Y-wantY) > 1e-6 {
			t.Errorf("Project(%v) = %v, gluProject gives (%v, %v)", p, got, wantX, wantY)
		}
	}
}

func TestViewUnprojectRoundTrip(t *testing.T) {
	pixels := []math3d.Vec2{
		math3d.V2(160, 100),
		math3d.V2(0, 0),
		math3d.V2(319, 17),
		math3d.V2(42.5, 180.25),
	}
	for _, proj := range []Projection{ProjectionPerspective, ProjectionOrthographic} {
		t.Run(proj.String(), func(t *testing.T) {
			v := newTestView(proj)
			for _, px := range pixels {
				ray := v.UnprojectRay(px)
				if l := ray.Direction.Len(); math.Abs(l-1) > 1e-9 {
					t.Fatalf("ray direction length = %v, want 1", l)
				}
				for _, dist := range []float64{0.5, 3, 20} {
					got, visible := v.Project(ray.At(dist))
					if !visible {
						t.Fatalf("point %v along ray through %v is behind camera", dist, px)
					}
					if got.Distance(px) > 1e-6 {
						t.Errorf("round trip of %v at distance %v = %v", px, dist, got)
					}
				}
			}
		})
	}
}

func TestViewUnprojectCenterFollowsForward(t *testing.T) {
	v := newTestView(ProjectionPerspective)
	ray := v.UnprojectRay(math3d.V2(160, 100))
	if d := ray.Direction.Dot(v.Camera.Forward()); math.Abs(d-1) > 1e-9 {
		t.Errorf("centre ray direction·forward = %v, want 1", d)
	}
}

func TestViewUnprojectSingularCamera(t *testing.T) {
	cam := NewCamera()
	cam.SetClipPlanes(1, 1)
	v := View{Camera: cam, Width: 10, Height: 10}

	ray := v.UnprojectRay(math3d.V2(5, 5))
	if ray.Direction != math3d.Zero3() {
		t.Fatalf("singular camera gave direction %v, want zero", ray.Direction)
	}
	if _, ok := ray.IntersectPlane(math3d.Plane{Normal: math3d.V3(0, 0, 1)}); ok {
		t.Error("zero-direction ray intersected a plane")
	}
}

func TestViewLive(t *testing.T) {
	cam := NewCamera()
	tests := []struct {
		name string
		view View
		want bool
	}{
		{"live", View{Camera: cam, Width: 10, Height: 10}, true},
		{"no camera", View{Width: 10, Height: 10}, false},
		{"zero width", View{Camera: cam, Height: 10}, false},
		{"zero height", View{Camera: cam, Width: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.view.Live(); got != tt.want {
				t.Errorf("Live() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkViewProject(b *testing.B) {
	v := newTestView(ProjectionPerspective)
	p := math3d.V3(0.5, -0.25, 1)

	for b.Loop() {
		_, _ = v.Project(p)
	}
}
