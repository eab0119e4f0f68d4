package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/taigrr/sculpt/pkg/math3d"
)

func triangleMesh(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewPrimitive(PrimitiveTriangle)
	if err != nil {
		t.Fatalf("NewPrimitive: %v", err)
	}
	return m
}

func TestSurfaceValidate(t *testing.T) {
	three := []math3d.Vec3{{}, {X: 1}, {Y: 1}}
	tests := []struct {
		name    string
		surface Surface
		wantErr bool
	}{
		{"positions only", Surface{Vertices: three}, false},
		{"full attributes", Surface{Vertices: three, Normals: three, UVs: make([]math3d.Vec2, 3), Indices: []int{0, 1, 2}}, false},
		{"empty", Surface{}, false},
		{"short normals", Surface{Vertices: three, Normals: three[:2]}, true},
		{"long uvs", Surface{Vertices: three, UVs: make([]math3d.Vec2, 4)}, true},
		{"index past end", Surface{Vertices: three, Indices: []int{0, 1, 3}}, true},
		{"negative index", Surface{Vertices: three, Indices: []int{-1, 1, 2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.surface.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedSurface) {
				t.Errorf("error %v is not ErrMalformedSurface", err)
			}
		})
	}
}

func TestSurfaceFormat(t *testing.T) {
	m := triangleMesh(t)
	s, _ := m.Surface(0)
	if got, want := s.Format(), FormatVertex|FormatNormal|FormatUV; got != want {
		t.Errorf("Format() = %b, want %b", got, want)
	}
}

func TestSurfaceTriangles(t *testing.T) {
	tests := []struct {
		name    string
		surface Surface
		want    int
	}{
		{"sequential", Surface{Vertices: make([]math3d.Vec3, 7)}, 2},
		{"indexed", Surface{Vertices: make([]math3d.Vec3, 4), Indices: []int{0, 1, 2, 0, 2, 3}}, 2},
		{"trailing indices ignored", Surface{Vertices: make([]math3d.Vec3, 4), Indices: []int{0, 1, 2, 3}}, 1},
		{"lines", Surface{Primitive: PrimitiveLines, Vertices: make([]math3d.Vec3, 6)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.surface.Triangles()); got != tt.want {
				t.Errorf("len(Triangles()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshSurfaceIsCopy(t *testing.T) {
	m := triangleMesh(t)
	s, err := m.Surface(0)
	if err != nil {
		t.Fatalf("Surface(0): %v", err)
	}
	s.Vertices[0] = math3d.V3(9, 9, 9)

	again, _ := m.Surface(0)
	if again.Vertices[0] == math3d.V3(9, 9, 9) {
		t.Error("editing a returned surface changed the mesh")
	}
}

func TestMeshSurfaceErrors(t *testing.T) {
	m := NewMesh("empty")
	if _, err := m.Surface(0); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Surface(0) on empty mesh = %v, want ErrNoSurface", err)
	}
	if err := m.RemoveSurface(0); !errors.Is(err, ErrNoSurface) {
		t.Errorf("RemoveSurface(0) = %v, want ErrNoSurface", err)
	}
	if err := m.ReplaceSurface(0, Surface{}); !errors.Is(err, ErrNoSurface) {
		t.Errorf("ReplaceSurface(0) = %v, want ErrNoSurface", err)
	}
	if _, err := m.AddSurface(Surface{Vertices: make([]math3d.Vec3, 2), Indices: []int{5}}); !errors.Is(err, ErrMalformedSurface) {
		t.Errorf("AddSurface(bad) = %v, want ErrMalformedSurface", err)
	}
	if m.SurfaceCount() != 0 {
		t.Errorf("SurfaceCount() = %d after failed add", m.SurfaceCount())
	}
}

func TestMeshReplaceSurfaceAtomic(t *testing.T) {
	m := triangleMesh(t)
	before, _ := m.Surface(0)

	bad := before.Clone()
	bad.Vertices = bad.Vertices[:2]
	if err := m.ReplaceSurface(0, bad); !errors.Is(err, ErrMalformedSurface) {
		t.Fatalf("ReplaceSurface(bad) = %v, want ErrMalformedSurface", err)
	}
	after, _ := m.Surface(0)
	if len(after.Vertices) != len(before.Vertices) {
		t.Errorf("failed replace changed vertex count to %d", len(after.Vertices))
	}
}

func TestMeshAddRemoveSurface(t *testing.T) {
	m := NewMesh("multi")
	for i := range 3 {
		idx, err := m.AddSurface(Surface{Vertices: []math3d.Vec3{math3d.V3(float64(i), 0, 0)}})
		if err != nil || idx != i {
			t.Fatalf("AddSurface #%d = %d, %v", i, idx, err)
		}
	}
	if err := m.RemoveSurface(1); err != nil {
		t.Fatalf("RemoveSurface(1): %v", err)
	}
	if m.SurfaceCount() != 2 {
		t.Fatalf("SurfaceCount() = %d, want 2", m.SurfaceCount())
	}
	s, _ := m.Surface(1)
	if s.Vertices[0].X != 2 {
		t.Errorf("surface 1 after removal starts at x=%v, want 2", s.Vertices[0].X)
	}
}

func TestMeshBounds(t *testing.T) {
	if _, _, ok := NewMesh("empty").Bounds(); ok {
		t.Error("empty mesh reported bounds")
	}
	m, err := NewPrimitive(PrimitiveCube)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi, ok := m.Bounds()
	if !ok || lo != math3d.V3(-1, -1, -1) || hi != math3d.V3(1, 1, 1) {
		t.Errorf("Bounds() = %v, %v, %v", lo, hi, ok)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("cube TriangleCount() = %d, want 12", got)
	}
}

func TestMeshClone(t *testing.T) {
	m := triangleMesh(t)
	c := m.Clone()
	s, _ := c.Surface(0)
	s.Vertices[1] = math3d.V3(5, 5, 5)
	if err := c.ReplaceSurface(0, s); err != nil {
		t.Fatal(err)
	}
	orig, _ := m.Surface(0)
	if orig.Vertices[1] == math3d.V3(5, 5, 5) {
		t.Error("clone shares storage with the original")
	}
}
