// Package gizmo computes and draws the screen-space vertex handles shown
// over each viewport while a mesh is being edited.
package gizmo

import (
	"github.com/pkg/errors"
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/render"
	"github.com/taigrr/sculpt/pkg/scene"
)

// ErrNoMesh is returned when there is no mesh to build handles for.
var ErrNoMesh = errors.New("no mesh to edit")

// Handle is the screen position of one vertex in one viewport.
type Handle struct {
	Viewport string
	Index    int
	Position math3d.Vec2
	// Visible is false when the vertex is behind the viewport's camera.
	Visible bool
}

// Set holds handles grouped by viewport. Within a group the handle at
// position i belongs to vertex i, and every group has one handle per vertex
// of the edited surface. Sets are rebuilt from scratch, never patched.
type Set struct {
	order  []string
	groups map[string][]Handle
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{groups: make(map[string][]Handle)}
}

// Clear removes every handle.
func (s *Set) Clear() {
	s.order = s.order[:0]
	clear(s.groups)
}

// Recompute rebuilds the set for every live viewport in viewports. On error
// the set is left empty.
func (s *Set) Recompute(inst *scene.MeshInstance, viewports []*scene.Viewport) error {
	s.Clear()
	verts, err := worldVertices(inst)
	if err != nil {
		return err
	}
	for _, vp := range viewports {
		view, ok := vp.View()
		if !ok {
			continue
		}
		s.fill(vp.ID(), view, verts)
	}
	return nil
}

// RecomputeForView rebuilds the set with a single group for one viewport.
// A view that is not live leaves the set empty.
func (s *Set) RecomputeForView(inst *scene.MeshInstance, id string, view render.View) error {
	s.Clear()
	verts, err := worldVertices(inst)
	if err != nil {
		return err
	}
	if view.Live() {
		s.fill(id, view, verts)
	}
	return nil
}

func (s *Set) fill(id string, view render.View, verts []math3d.Vec3) {
	handles := make([]Handle, len(verts))
	for i, v := range verts {
		pos, visible := view.Project(v)
		handles[i] = Handle{Viewport: id, Index: i, Position: pos, Visible: visible}
	}
	if _, ok := s.groups[id]; !ok {
		s.order = append(s.order, id)
	}
	s.groups[id] = handles
}

// worldVertices returns surface 0 of the instance's mesh in world space.
func worldVertices(inst *scene.MeshInstance) ([]math3d.Vec3, error) {
	if inst == nil || inst.Mesh == nil {
		return nil, ErrNoMesh
	}
	surf, err := inst.Mesh.Surface(0)
	if err != nil {
		return nil, errors.Wrapf(err, "gizmos for %s", inst.Name())
	}
	verts := make([]math3d.Vec3, len(surf.Vertices))
	for i, v := range surf.Vertices {
		verts[i] = inst.Origin.Add(v)
	}
	return verts, nil
}

// Group returns the handles of one viewport, indexed by vertex. The slice
// must not be modified.
func (s *Set) Group(id string) []Handle {
	return s.groups[id]
}

// Handle returns the handle of vertex index in viewport id.
func (s *Set) Handle(id string, index int) (Handle, bool) {
	g := s.groups[id]
	if index < 0 || index >= len(g) {
		return Handle{}, false
	}
	return g[index], true
}

// Viewports returns the viewport ids with handles, in the order they were
// computed.
func (s *Set) Viewports() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of handles across all viewports.
func (s *Set) Len() int {
	n := 0
	for _, g := range s.groups {
		n += len(g)
	}
	return n
}
