package models

import (
	"github.com/pkg/errors"
	"github.com/taigrr/sculpt/pkg/math3d"
)

// ErrVertexOutOfRange is returned for vertex indices outside the loaded
// surface.
var ErrVertexOutOfRange = errors.New("vertex index out of range")

// MeshData is a detached, editable copy of one mesh surface. Edits stay in
// the copy until CommitToSurface writes them back.
type MeshData struct {
	surface Surface
	loaded  bool
}

// CreateFromSurface loads a copy of surface i of m, discarding any previous
// contents.
func (d *MeshData) CreateFromSurface(m *Mesh, i int) error {
	d.Clear()
	if m == nil {
		return errors.Wrap(ErrNoSurface, "nil mesh")
	}
	s, err := m.Surface(i)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	d.surface = s
	d.loaded = true
	return nil
}

// Clear drops the loaded surface.
func (d *MeshData) Clear() {
	d.surface = Surface{}
	d.loaded = false
}

// Loaded reports whether a surface has been loaded.
func (d *MeshData) Loaded() bool {
	return d.loaded
}

// VertexCount returns the number of vertices in the loaded surface.
func (d *MeshData) VertexCount() int {
	return len(d.surface.Vertices)
}

// Vertex returns vertex i.
func (d *MeshData) Vertex(i int) (math3d.Vec3, error) {
	if i < 0 || i >= len(d.surface.Vertices) {
		return math3d.Vec3{}, errors.Wrapf(ErrVertexOutOfRange, "vertex %d of %d", i, len(d.surface.Vertices))
	}
	return d.surface.Vertices[i], nil
}

// SetVertex overwrites vertex i.
func (d *MeshData) SetVertex(i int, v math3d.Vec3) error {
	if i < 0 || i >= len(d.surface.Vertices) {
		return errors.Wrapf(ErrVertexOutOfRange, "set vertex %d of %d", i, len(d.surface.Vertices))
	}
	d.surface.Vertices[i] = v
	return nil
}

// CommitToSurface replaces surface i of m with the edited copy. Primitive
// type, material, normals, UVs and indices travel with it unchanged.
func (d *MeshData) CommitToSurface(m *Mesh, i int) error {
	if !d.loaded {
		return errors.New("commit without a loaded surface")
	}
	if m == nil {
		return errors.Wrap(ErrNoSurface, "commit to nil mesh")
	}
	return errors.Wrap(m.ReplaceSurface(i, d.surface), "commit surface")
}
