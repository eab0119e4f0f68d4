// Package meshedit moves mesh vertices to where the pointer is.
package meshedit

import (
	"github.com/pkg/errors"
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/models"
	"github.com/taigrr/sculpt/pkg/render"
	"github.com/taigrr/sculpt/pkg/scene"
)

// ErrIndexOutOfRange is returned for a vertex index the edited surface does
// not have.
var ErrIndexOutOfRange = errors.New("vertex index out of range")

// EditSurface is the surface vertices are edited on.
const EditSurface = 0

// CommitVertex moves vertex index of surface 0 to the point under the screen
// position in view, keeping its depth: the pointer ray is intersected with
// the plane z = origin.z + vertex.z. It reports false, with no error and no
// change, when the ray misses that plane. On error the mesh is untouched.
func CommitVertex(inst *scene.MeshInstance, index int, screen math3d.Vec2, view render.View) (bool, error) {
	if inst == nil || inst.Mesh == nil {
		return false, errors.Wrap(models.ErrNoSurface, "commit vertex: no mesh")
	}

	var md models.MeshData
	if err := md.CreateFromSurface(inst.Mesh, EditSurface); err != nil {
		return false, errors.Wrapf(err, "commit vertex %d", index)
	}
	if index < 0 || index >= md.VertexCount() {
		return false, errors.Wrapf(ErrIndexOutOfRange, "commit vertex %d of %d", index, md.VertexCount())
	}
	old, err := md.Vertex(index)
	if err != nil {
		return false, err
	}
	if !view.Live() {
		return false, nil
	}

	depth := inst.Origin.Z + old.Z
	plane := math3d.PlaneFromPoint(math3d.V3(0, 0, 1), math3d.V3(0, 0, depth))
	hit, ok := view.UnprojectRay(screen).IntersectPlane(plane)
	if !ok {
		return false, nil
	}

	// Depth is preserved bit for bit.
	local := hit.Sub(inst.Origin).WithZ(old.Z)
	if err := md.SetVertex(index, local); err != nil {
		return false, err
	}
	if err := md.CommitToSurface(inst.Mesh, EditSurface); err != nil {
		return false, errors.Wrapf(err, "commit vertex %d", index)
	}
	return true, nil
}
