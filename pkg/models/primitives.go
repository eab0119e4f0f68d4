package models

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/taigrr/sculpt/pkg/math3d"
)

// PrimitiveKind names a built-in starting mesh.
type PrimitiveKind int

const (
	// PrimitiveTriangle is a single triangle in the z=0 plane.
	PrimitiveTriangle PrimitiveKind = iota
	// PrimitivePlane is a two triangle quad in the z=0 plane.
	PrimitivePlane
	// PrimitiveCube is a closed cube sharing its eight corners.
	PrimitiveCube
)

var primitiveNames = map[PrimitiveKind]string{
	PrimitiveTriangle: "triangle",
	PrimitivePlane:    "plane",
	PrimitiveCube:     "cube",
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return "unknown"
}

// Next returns the kind after k, wrapping around after the last one.
func (k PrimitiveKind) Next() PrimitiveKind {
	return (k + 1) % PrimitiveKind(len(primitiveNames))
}

// ParsePrimitiveKind parses a primitive name as used in config files.
func ParsePrimitiveKind(s string) (PrimitiveKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range primitiveNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown primitive %q", s)
}

// NewPrimitive builds a single surface mesh of the given kind centred on the
// origin.
func NewPrimitive(kind PrimitiveKind) (*Mesh, error) {
	var s Surface
	switch kind {
	case PrimitiveTriangle:
		s = triangleSurface()
	case PrimitivePlane:
		s = planeSurface()
	case PrimitiveCube:
		s = cubeSurface()
	default:
		return nil, errors.Errorf("unknown primitive kind %d", kind)
	}

	m := NewMesh(kind.String())
	if _, err := m.AddSurface(s); err != nil {
		return nil, errors.Wrapf(err, "build %s", kind)
	}
	return m, nil
}

func triangleSurface() Surface {
	up := math3d.V3(0, 0, 1)
	return Surface{
		Primitive: PrimitiveTriangles,
		Vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0),
			math3d.V3(-1, 1, 0),
			math3d.V3(1, 1, 0),
		},
		Normals: []math3d.Vec3{up, up, up},
		UVs: []math3d.Vec2{
			math3d.V2(0, 0),
			math3d.V2(0, 1),
			math3d.V2(1, 1),
		},
	}
}

func planeSurface() Surface {
	up := math3d.V3(0, 0, 1)
	return Surface{
		Primitive: PrimitiveTriangles,
		Vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0),
			math3d.V3(1, -1, 0),
			math3d.V3(1, 1, 0),
			math3d.V3(-1, 1, 0),
		},
		Normals: []math3d.Vec3{up, up, up, up},
		UVs: []math3d.Vec2{
			math3d.V2(0, 0),
			math3d.V2(1, 0),
			math3d.V2(1, 1),
			math3d.V2(0, 1),
		},
		Indices: []int{0, 1, 2, 0, 2, 3},
	}
}

func cubeSurface() Surface {
	s := Surface{
		Primitive: PrimitiveTriangles,
		Vertices: []math3d.Vec3{
			math3d.V3(-1, -1, -1), // 0: bottom-left-back
			math3d.V3(1, -1, -1),  // 1: bottom-right-back
			math3d.V3(1, 1, -1),   // 2: top-right-back
			math3d.V3(-1, 1, -1),  // 3: top-left-back
			math3d.V3(-1, -1, 1),  // 4: bottom-left-front
			math3d.V3(1, -1, 1),   // 5: bottom-right-front
			math3d.V3(1, 1, 1),    // 6: top-right-front
			math3d.V3(-1, 1, 1),   // 7: top-left-front
		},
		// Counter-clockwise seen from outside.
		Indices: []int{
			4, 5, 6, 4, 6, 7, // front
			1, 0, 3, 1, 3, 2, // back
			0, 4, 7, 0, 7, 3, // left
			5, 1, 2, 5, 2, 6, // right
			7, 6, 2, 7, 2, 3, // top
			0, 1, 5, 0, 5, 4, // bottom
		},
	}
	s.CalculateSmoothNormals()
	return s
}
