package builder

import (
	"math"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/meshedit"
	"github.com/taigrr/sculpt/pkg/render"
	"github.com/taigrr/sculpt/pkg/scene"
)

// HandleInput processes one event that happened over vp and reports whether
// the builder consumed it. Events are ignored unless a mesh is being edited
// in vertex mode.
func (b *Builder) HandleInput(vp *scene.Viewport, ev uv.Event) bool {
	if b.selected == nil || b.mode != ModeVertex {
		return false
	}
	if vp != nil {
		b.lastViewport = vp
	}
	b.redraw = true

	switch ev := ev.(type) {
	case uv.MouseMotionEvent:
		b.pointerMoved(vp, ev.X, ev.Y)
	case uv.MouseClickEvent:
		if ev.Button != uv.MouseLeft {
			return false
		}
		if b.state.Hover == NoVertex {
			b.state.Dragging = false
			return false
		}
		b.grab(b.state.Hover)
		return true
	case uv.MouseReleaseEvent:
		// Some terminals do not report which button was released.
		if ev.Button == uv.MouseLeft || ev.Button == uv.MouseNone {
			b.state.Dragging = false
		}
	case uv.KeyPressEvent:
		if ev.MatchString("esc", "escape") {
			b.resetState()
			return true
		}
	}
	return false
}

// pointerMoved drags the active vertex when grabbed, refreshes the handles
// of vp and updates the hovered vertex.
func (b *Builder) pointerMoved(vp *scene.Viewport, x, y int) {
	if vp == nil {
		b.state.Hover = NoVertex
		return
	}
	view, ok := vp.View()
	if !ok {
		b.state.Hover = NoVertex
		return
	}
	px := vp.PointerPixel(x, y)

	if b.state.Dragging {
		moved, err := meshedit.CommitVertex(b.selected, b.state.Active, px, view)
		if err != nil {
			b.report(err)
			return
		}
		if moved && b.indicator != nil {
			if pos, ok := b.worldVertex(b.state.Active); ok {
				b.indicator.move(pos)
			}
		}
	}

	if err := b.gizmos.RecomputeForView(b.selected, vp.ID(), view); err != nil {
		b.report(err)
		b.state.Hover = NoVertex
		return
	}
	b.state.Hover = b.hitTest(vp.ID(), view, px)
}

// hitTest returns the vertex under screen position px, NoVertex if none.
// Each vertex is tested by intersecting the pointer ray with the plane
// facing +Z through the vertex and checking the hit against a box around
// the vertex. When several boxes are hit the handle closest to the pointer
// on screen wins.
func (b *Builder) hitTest(id string, view render.View, px math3d.Vec2) int {
	surf, err := b.selected.Mesh.Surface(meshedit.EditSurface)
	if err != nil {
		b.report(err)
		return NoVertex
	}
	ray := view.UnprojectRay(px)
	h := b.pickHalfExtent

	best, bestDist := NoVertex, math.Inf(1)
	for i, v := range surf.Vertices {
		world := b.selected.Origin.Add(v)
		hit, ok := ray.IntersectPlane(math3d.PlaneFromPoint(math3d.V3(0, 0, 1), world))
		if !ok {
			continue
		}
		if !hit.InBox(world, h) {
			continue
		}
		handle, ok := b.gizmos.Handle(id, i)
		if !ok || !handle.Visible {
			continue
		}
		if dist := handle.Position.Distance(px); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// grab starts dragging vertex index and shows the indicator on it. The
// indicator marker is added to the edited scene the first time.
func (b *Builder) grab(index int) {
	b.state.Active = index
	b.state.Dragging = true

	if b.indicator == nil {
		if b.tree == nil || b.tree.EditedRoot == nil {
			return
		}
		ind := &Indicator{Marker: scene.NewMarker(IndicatorName)}
		b.tree.EditedRoot.AddChild(ind.Marker)
		b.indicator = ind
	}
	if pos, ok := b.worldVertex(index); ok {
		b.indicator.grab(pos, b.style.OuterRadius)
	}
}

func (b *Builder) worldVertex(index int) (math3d.Vec3, bool) {
	surf, err := b.selected.Mesh.Surface(meshedit.EditSurface)
	if err != nil || index < 0 || index >= len(surf.Vertices) {
		return math3d.Vec3{}, false
	}
	return b.selected.Origin.Add(surf.Vertices[index]), true
}
