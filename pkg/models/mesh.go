// Package models holds editable mesh geometry for sculpt: meshes made of
// surfaces, an edit view over one surface, built-in primitives and GLB
// import/export.
package models

import (
	"github.com/pkg/errors"
	"github.com/taigrr/sculpt/pkg/math3d"
)

var (
	// ErrNoSurface is returned when a surface index does not exist.
	ErrNoSurface = errors.New("surface does not exist")

	// ErrMalformedSurface is returned when a surface's buffers disagree with
	// each other.
	ErrMalformedSurface = errors.New("malformed surface")
)

// PrimitiveType is how a surface's vertices are assembled.
type PrimitiveType int

const (
	PrimitiveTriangles PrimitiveType = iota
	PrimitiveLines
	PrimitivePoints
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitiveLines:
		return "lines"
	case PrimitivePoints:
		return "points"
	default:
		return "triangles"
	}
}

// Format flags which vertex attributes a surface carries.
type Format uint8

const (
	FormatVertex Format = 1 << iota
	FormatNormal
	FormatUV
	FormatIndex
)

// Surface is one draw batch of a mesh. Normals and UVs are either empty or
// have one entry per vertex. Indices, when present, refer into Vertices.
type Surface struct {
	Primitive PrimitiveType
	Material  string
	Vertices  []math3d.Vec3
	Normals   []math3d.Vec3
	UVs       []math3d.Vec2
	Indices   []int
}

// Format reports the attributes present on the surface.
func (s Surface) Format() Format {
	var f Format
	if len(s.Vertices) > 0 {
		f |= FormatVertex
	}
	if len(s.Normals) > 0 {
		f |= FormatNormal
	}
	if len(s.UVs) > 0 {
		f |= FormatUV
	}
	if len(s.Indices) > 0 {
		f |= FormatIndex
	}
	return f
}

// Validate checks that the attribute buffers agree with the vertex buffer.
func (s Surface) Validate() error {
	n := len(s.Vertices)
	if len(s.Normals) != 0 && len(s.Normals) != n {
		return errors.Wrapf(ErrMalformedSurface, "%d normals for %d vertices", len(s.Normals), n)
	}
	if len(s.UVs) != 0 && len(s.UVs) != n {
		return errors.Wrapf(ErrMalformedSurface, "%d uvs for %d vertices", len(s.UVs), n)
	}
	for i, idx := range s.Indices {
		if idx < 0 || idx >= n {
			return errors.Wrapf(ErrMalformedSurface, "index %d refers to vertex %d of %d", i, idx, n)
		}
	}
	return nil
}

// Clone returns a deep copy of the surface.
func (s Surface) Clone() Surface {
	c := s
	c.Vertices = append([]math3d.Vec3(nil), s.Vertices...)
	c.Normals = append([]math3d.Vec3(nil), s.Normals...)
	c.UVs = append([]math3d.Vec2(nil), s.UVs...)
	c.Indices = append([]int(nil), s.Indices...)
	return c
}

// Triangles returns the vertex index triples of a triangle surface. Other
// primitive types, and trailing indices that do not form a whole triangle,
// yield nothing.
func (s Surface) Triangles() [][3]int {
	if s.Primitive != PrimitiveTriangles {
		return nil
	}
	n := len(s.Vertices)
	var tris [][3]int
	if len(s.Indices) > 0 {
		for i := 0; i+2 < len(s.Indices); i += 3 {
			tri := [3]int{s.Indices[i], s.Indices[i+1], s.Indices[i+2]}
			if tri[0] < n && tri[1] < n && tri[2] < n && tri[0] >= 0 && tri[1] >= 0 && tri[2] >= 0 {
				tris = append(tris, tri)
			}
		}
		return tris
	}
	for i := 0; i+2 < n; i += 3 {
		tris = append(tris, [3]int{i, i + 1, i + 2})
	}
	return tris
}

// Mesh is an ordered list of surfaces. Surfaces are only reachable through
// copies, so a surface inside a mesh always satisfies Validate.
type Mesh struct {
	Name     string
	surfaces []Surface
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// SurfaceCount returns the number of surfaces.
func (m *Mesh) SurfaceCount() int {
	return len(m.surfaces)
}

// Surface returns a copy of surface i.
func (m *Mesh) Surface(i int) (Surface, error) {
	if i < 0 || i >= len(m.surfaces) {
		return Surface{}, errors.Wrapf(ErrNoSurface, "surface %d of %d", i, len(m.surfaces))
	}
	return m.surfaces[i].Clone(), nil
}

// AddSurface appends a copy of s and returns its index.
func (m *Mesh) AddSurface(s Surface) (int, error) {
	if err := s.Validate(); err != nil {
		return -1, err
	}
	m.surfaces = append(m.surfaces, s.Clone())
	return len(m.surfaces) - 1, nil
}

// RemoveSurface deletes surface i, shifting later surfaces down.
func (m *Mesh) RemoveSurface(i int) error {
	if i < 0 || i >= len(m.surfaces) {
		return errors.Wrapf(ErrNoSurface, "remove surface %d of %d", i, len(m.surfaces))
	}
	m.surfaces = append(m.surfaces[:i], m.surfaces[i+1:]...)
	return nil
}

// ReplaceSurface swaps surface i for a copy of s in one step. On error the
// mesh is unchanged.
func (m *Mesh) ReplaceSurface(i int, s Surface) error {
	if i < 0 || i >= len(m.surfaces) {
		return errors.Wrapf(ErrNoSurface, "replace surface %d of %d", i, len(m.surfaces))
	}
	if err := s.Validate(); err != nil {
		return err
	}
	m.surfaces[i] = s.Clone()
	return nil
}

// VertexCount returns the number of vertices across all surfaces.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, s := range m.surfaces {
		n += len(s.Vertices)
	}
	return n
}

// TriangleCount returns the number of triangles across all surfaces.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, s := range m.surfaces {
		n += len(s.Triangles())
	}
	return n
}

// Bounds returns the axis-aligned bounding box of every vertex. ok is false
// for a mesh without vertices.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3, ok bool) {
	for _, s := range m.surfaces {
		for _, v := range s.Vertices {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			lo = lo.Min(v)
			hi = hi.Max(v)
		}
	}
	return lo, hi, ok
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		surfaces: make([]Surface, len(m.surfaces)),
	}
	for i, s := range m.surfaces {
		clone.surfaces[i] = s.Clone()
	}
	return clone
}

// CalculateSmoothNormals fills the normals of a triangle surface by
// averaging the face normals around each vertex.
func (s *Surface) CalculateSmoothNormals() {
	normals := make([]math3d.Vec3, len(s.Vertices))
	for _, f := range s.Triangles() {
		v0 := s.Vertices[f[0]]
		v1 := s.Vertices[f[1]]
		v2 := s.Vertices[f[2]]

		normal := v1.Sub(v0).Cross(v2.Sub(v0)) // area weighted, normalized below

		normals[f[0]] = normals[f[0]].Add(normal)
		normals[f[1]] = normals[f[1]].Add(normal)
		normals[f[2]] = normals[f[2]].Add(normal)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	s.Normals = normals
}
