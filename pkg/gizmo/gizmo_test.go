package gizmo

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/models"
	"github.com/taigrr/sculpt/pkg/render"
	"github.com/taigrr/sculpt/pkg/scene"
)

func newInstance(t *testing.T, kind models.PrimitiveKind) *scene.MeshInstance {
	t.Helper()
	mesh, err := models.NewPrimitive(kind)
	if err != nil {
		t.Fatal(err)
	}
	return scene.NewMeshInstance("mesh", mesh, math3d.V3(0.5, 0, 0))
}

func newViewport(id string, x int) *scene.Viewport {
	vp := scene.NewViewport(id, render.NewCamera())
	vp.SetCellArea(image.Rect(x, 0, x+40, 20))
	return vp
}

func TestRecomputeOneHandlePerVertex(t *testing.T) {
	inst := newInstance(t, models.PrimitiveCube)
	a, b := newViewport("a", 0), newViewport("b", 40)
	dead := scene.NewViewport("dead", render.NewCamera()) // no area

	s := NewSet()
	if err := s.Recompute(inst, []*scene.Viewport{a, dead, b}); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if got := s.Viewports(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Viewports() = %v, want [a b]", got)
	}
	if s.Len() != 16 {
		t.Errorf("Len() = %d, want 16", s.Len())
	}
	for _, id := range []string{"a", "b"} {
		g := s.Group(id)
		if len(g) != 8 {
			t.Fatalf("group %s has %d handles, want 8", id, len(g))
		}
		for i, h := range g {
			if h.Index != i || h.Viewport != id {
				t.Errorf("group %s handle %d = %+v", id, i, h)
			}
		}
	}
	if g := s.Group("dead"); len(g) != 0 {
		t.Errorf("dead viewport got %d handles", len(g))
	}
}

func TestRecomputeUsesWorldPosition(t *testing.T) {
	inst := newInstance(t, models.PrimitiveTriangle)
	vp := newViewport("a", 0)
	view, _ := vp.View()

	s := NewSet()
	if err := s.RecomputeForView(inst, "a", view); err != nil {
		t.Fatal(err)
	}
	surf, _ := inst.Mesh.Surface(0)
	for i, v := range surf.Vertices {
		want, _ := view.Project(inst.Origin.Add(v))
		h, ok := s.Handle("a", i)
		if !ok {
			t.Fatalf("Handle(a, %d) missing", i)
		}
		if h.Position.Distance(want) > 1e-9 || !h.Visible {
			t.Errorf("handle %d = %+v, want position %v", i, h, want)
		}
	}
	if _, ok := s.Handle("a", 3); ok {
		t.Error("Handle(a, 3) exists for a three vertex mesh")
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	inst := newInstance(t, models.PrimitivePlane)
	vps := []*scene.Viewport{newViewport("a", 0), newViewport("b", 40)}

	s := NewSet()
	if err := s.Recompute(inst, vps); err != nil {
		t.Fatal(err)
	}
	first := append([]Handle(nil), s.Group("b")...)
	if err := s.Recompute(inst, vps); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 8 {
		t.Fatalf("Len() after second recompute = %d, want 8", s.Len())
	}
	for i, h := range s.Group("b") {
		if h != first[i] {
			t.Errorf("handle %d changed between recomputes: %+v vs %+v", i, h, first[i])
		}
	}
}

func TestRecomputeForViewReplacesAllGroups(t *testing.T) {
	inst := newInstance(t, models.PrimitiveTriangle)
	a, b := newViewport("a", 0), newViewport("b", 40)

	s := NewSet()
	if err := s.Recompute(inst, []*scene.Viewport{a, b}); err != nil {
		t.Fatal(err)
	}
	view, _ := b.View()
	if err := s.RecomputeForView(inst, "b", view); err != nil {
		t.Fatal(err)
	}
	if got := s.Viewports(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Viewports() = %v, want [b]", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	if err := s.RecomputeForView(inst, "b", render.View{}); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("dead view left %d handles", s.Len())
	}
}

func TestRecomputeErrorsLeaveSetEmpty(t *testing.T) {
	vps := []*scene.Viewport{newViewport("a", 0)}
	s := NewSet()
	if err := s.Recompute(newInstance(t, models.PrimitiveTriangle), vps); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		inst *scene.MeshInstance
		want error
	}{
		{"nil instance", nil, ErrNoMesh},
		{"nil mesh", scene.NewMeshInstance("m", nil, math3d.Zero3()), ErrNoMesh},
		{"no surface", scene.NewMeshInstance("m", models.NewMesh("empty"), math3d.Zero3()), models.ErrNoSurface},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Recompute(tt.inst, vps)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Recompute = %v, want %v", err, tt.want)
			}
			if s.Len() != 0 || len(s.Viewports()) != 0 {
				t.Errorf("set not empty after error: %d handles", s.Len())
			}
		})
	}
}

func TestRecomputeBehindCamera(t *testing.T) {
	inst := newInstance(t, models.PrimitiveTriangle)
	inst.Origin = math3d.V3(0, 0, 20) // camera sits at z=5 looking down -Z
	vp := newViewport("a", 0)

	s := NewSet()
	if err := s.Recompute(inst, []*scene.Viewport{vp}); err != nil {
		t.Fatal(err)
	}
	g := s.Group("a")
	if len(g) != 3 {
		t.Fatalf("got %d handles, want 3 even when behind the camera", len(g))
	}
	for _, h := range g {
		if h.Visible {
			t.Errorf("handle %d visible behind camera", h.Index)
		}
	}
}

func TestColors(t *testing.T) {
	tests := []struct {
		name            string
		active, hovered bool
		outer, inner    any
	}{
		{"normal", false, false, White, Peach},
		{"hovered", false, true, Peach, White},
		{"active", true, false, White, Plum},
		{"active wins", true, true, White, Plum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outer, inner := Colors(tt.active, tt.hovered)
			if outer != tt.outer || inner != tt.inner {
				t.Errorf("Colors = %v/%v, want %v/%v", outer, inner, tt.outer, tt.inner)
			}
		})
	}
}

func TestDraw(t *testing.T) {
	fb := render.NewFramebuffer(60, 20)
	fb.Clear(render.ColorBlack)
	handles := []Handle{
		{Index: 0, Position: math3d.V2(10, 10), Visible: true},
		{Index: 1, Position: math3d.V2(30, 10), Visible: true},
		{Index: 2, Position: math3d.V2(50, 10), Visible: false},
	}
	Draw(fb, handles, 1, 0, DefaultStyle)

	// Hovered handle: white inner over peach outer, centre shows the inner color.
	centreHover := fb.GetPixel(10, 10)
	centreActive := fb.GetPixel(30, 10)
	if centreHover == centreActive {
		t.Error("hovered and active handles drawn alike")
	}
	if centreHover.R <= centreHover.B {
		t.Errorf("hovered centre %v should be near white over black, not plum", centreHover)
	}
	if centreActive.B <= centreActive.R {
		t.Errorf("active centre %v should be plum tinted", centreActive)
	}
	// Ring between radius 8 and 9 shows the outer color.
	ring := fb.GetPixel(10+8, 10)
	if ring == centreHover {
		t.Error("outer ring not distinguishable from inner disc")
	}
	if got := fb.GetPixel(50, 10); got != render.ColorBlack {
		t.Errorf("invisible handle drawn: %v", got)
	}
}
