// Package builder is the vertex editing tool. A Builder follows the host's
// selection, turns pointer and key events into hover, grab and drag of mesh
// vertices, and draws the vertex handles over each viewport.
//
// All methods must be called from one goroutine. Mode changes coming from
// elsewhere go through ModeRequests and are applied in Process.
package builder

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/taigrr/sculpt/pkg/gizmo"
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/models"
	"github.com/taigrr/sculpt/pkg/render"
	"github.com/taigrr/sculpt/pkg/scene"
)

// ErrNoEditedRoot is returned when the scene has nowhere to add new nodes.
var ErrNoEditedRoot = errors.New("scene has no edited root")

// DefaultPickHalfExtent is the half size, in world units, of the box around
// each vertex that the pointer must hit.
const DefaultPickHalfExtent = 0.05

// Dock signal names.
const (
	SignalObjectMode      = "object_mode"
	SignalVertexMode      = "vertex_mode"
	SignalFaceMode        = "face_mode"
	SignalEdgeMode        = "edge_mode"
	SignalCreatePrimitive = "create_primitive"
)

// Selection reports what the host has selected.
type Selection interface {
	SelectedNodes() []scene.Node
}

// Dock is the host panel carrying the mode buttons.
type Dock interface {
	Connect(signal string, fn func(int64)) error
	Disconnect(signal string)
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithPickHalfExtent sets the hover box half size in world units.
func WithPickHalfExtent(h float64) Option {
	return func(b *Builder) {
		if h > 0 {
			b.pickHalfExtent = h
		}
	}
}

// WithStyle sets the handle radii.
func WithStyle(s gizmo.Style) Option {
	return func(b *Builder) {
		b.style = s
	}
}

// WithMode sets the initial build mode.
func WithMode(m BuildMode) Option {
	return func(b *Builder) {
		b.mode = m
	}
}

// Builder is the vertex editing tool state.
type Builder struct {
	tree *scene.Tree
	sel  Selection
	log  *zap.Logger

	pickHalfExtent float64
	style          gizmo.Style

	mode     BuildMode
	state    SelectionState
	selected *scene.MeshInstance
	gizmos   *gizmo.Set

	requests  chan int64
	dock      Dock
	connected []string

	indicator *Indicator
	// lastViewport is the viewport that received the latest input. The
	// overlay is drawn for it.
	lastViewport *scene.Viewport
	redraw       bool

	reported map[string]struct{}
}

// New creates a builder working on tree. sel may be nil when the host
// notifies selection changes only through Edit and Handles.
func New(tree *scene.Tree, sel Selection, opts ...Option) *Builder {
	b := &Builder{
		tree:           tree,
		sel:            sel,
		log:            zap.NewNop(),
		pickHalfExtent: DefaultPickHalfExtent,
		style:          gizmo.DefaultStyle,
		mode:           ModeVertex,
		state:          idleState(),
		gizmos:         gizmo.NewSet(),
		requests:       make(chan int64, 16),
		reported:       make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EnterTree activates the tool by connecting the dock signals. If any
// connection fails the ones already made are undone and the error names the
// failing signal.
func (b *Builder) EnterTree(dock Dock) error {
	if dock == nil {
		return errors.New("enter tree: no dock")
	}
	signals := []struct {
		name string
		fn   func(int64)
	}{
		{SignalObjectMode, b.requestMode},
		{SignalVertexMode, b.requestMode},
		{SignalFaceMode, b.requestMode},
		{SignalEdgeMode, b.requestMode},
		{SignalCreatePrimitive, b.requestPrimitive},
	}

	b.dock = dock
	for _, s := range signals {
		if err := dock.Connect(s.name, s.fn); err != nil {
			err = errors.Wrapf(err, "connect %s signal", s.name)
			b.log.Error("activation failed", zap.Error(err))
			b.disconnect()
			return err
		}
		b.connected = append(b.connected, s.name)
	}
	b.log.Info("builder active", zap.Stringer("mode", b.mode))
	return nil
}

// ExitTree disconnects the dock, frees the indicator and forgets the
// selection.
func (b *Builder) ExitTree() {
	b.disconnect()
	if b.indicator != nil && b.tree != nil && b.tree.EditedRoot != nil {
		b.tree.EditedRoot.RemoveChild(b.indicator.Marker)
	}
	b.indicator = nil
	b.clearSelection()
	b.log.Info("builder inactive")
}

func (b *Builder) disconnect() {
	if b.dock != nil {
		for _, name := range b.connected {
			b.dock.Disconnect(name)
		}
	}
	b.connected = nil
	b.dock = nil
}

func (b *Builder) requestMode(v int64) {
	select {
	case b.requests <- v:
	default:
		b.log.Warn("mode request dropped", zap.Int64("mode", v))
	}
}

func (b *Builder) requestPrimitive(v int64) {
	if _, err := b.CreatePrimitive(models.PrimitiveKind(v)); err != nil {
		b.report(err)
	}
}

// ModeRequests returns the channel mode changes can be queued on. Queued
// values are applied by the next Process call.
func (b *Builder) ModeRequests() chan<- int64 {
	return b.requests
}

// Handles reports whether obj can be edited. Anything else clears the
// current selection.
func (b *Builder) Handles(obj any) bool {
	if inst, ok := obj.(*scene.MeshInstance); ok && inst != nil {
		return true
	}
	b.clearSelection()
	return false
}

// Edit makes obj the edited object. A mesh instance starts editing and, in
// vertex mode, computes handles for every viewport in the scene. Anything
// else clears the selection.
func (b *Builder) Edit(obj any) {
	inst, ok := obj.(*scene.MeshInstance)
	if !ok || inst == nil {
		b.clearSelection()
		return
	}
	if inst != b.selected {
		b.clearSelection()
		b.selected = inst
		b.log.Debug("editing", zap.String("node", inst.Name()))
	}
	if b.mode == ModeVertex {
		b.recomputeAll()
	}
	b.redraw = true
}

// Process runs once per frame: it applies queued mode changes, drops the
// selection when the host has nothing selected and animates the indicator.
func (b *Builder) Process(dt float64) {
	for drained := false; !drained; {
		select {
		case v := <-b.requests:
			b.ChangeBuildMode(v)
		default:
			drained = true
		}
	}

	if b.selected != nil && b.sel != nil && len(b.sel.SelectedNodes()) == 0 {
		b.clearSelection()
	}

	if b.indicator != nil && b.indicator.update(dt) {
		b.redraw = true
	}
}

// ChangeBuildMode switches the build mode. Unknown values fall back to
// vertex mode.
func (b *Builder) ChangeBuildMode(v int64) {
	mode, ok := ModeFromValue(v)
	if !ok {
		b.log.Warn("invalid build mode, using vertex", zap.Int64("value", v))
	}
	prev := b.mode
	b.mode = mode
	if prev == mode {
		return
	}
	b.log.Debug("build mode", zap.Stringer("from", prev), zap.Stringer("to", mode))

	switch {
	case prev == ModeVertex:
		b.resetState()
		b.gizmos.Clear()
	case mode == ModeVertex && b.selected != nil:
		b.recomputeAll()
	}
	b.redraw = true
}

// CreatePrimitive builds a primitive mesh and adds it to the edited scene
// root at the origin.
func (b *Builder) CreatePrimitive(kind models.PrimitiveKind) (*scene.MeshInstance, error) {
	if b.tree == nil || b.tree.EditedRoot == nil {
		return nil, errors.Wrapf(ErrNoEditedRoot, "create %s", kind)
	}
	mesh, err := models.NewPrimitive(kind)
	if err != nil {
		return nil, err
	}
	inst := scene.NewMeshInstance(kind.String(), mesh, math3d.Zero3())
	b.tree.EditedRoot.AddChild(inst)
	b.log.Info("primitive created",
		zap.Stringer("kind", kind),
		zap.Int("vertices", mesh.VertexCount()))
	return inst, nil
}

// DrawOverlay paints the handles of the viewport that last received input,
// or of the first viewport with handles, plus the drag indicator.
func (b *Builder) DrawOverlay(fb *render.Framebuffer) {
	b.redraw = false
	if b.selected == nil || b.mode != ModeVertex {
		return
	}
	id := b.OverlayViewport()
	if id == "" {
		return
	}
	gizmo.Draw(fb, b.gizmos.Group(id), b.state.Active, b.state.Hover, b.style)

	if b.indicator == nil || !b.indicator.Marker.Visible {
		return
	}
	if h, ok := b.gizmos.Handle(id, b.state.Active); ok && h.Visible {
		b.indicator.draw(fb, h.Position, gizmo.White)
	}
}

// OverlayViewport returns the id of the viewport DrawOverlay paints, empty
// when there are no handles.
func (b *Builder) OverlayViewport() string {
	if b.lastViewport != nil && b.gizmos.Group(b.lastViewport.ID()) != nil {
		return b.lastViewport.ID()
	}
	if ids := b.gizmos.Viewports(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// State returns the interaction state.
func (b *Builder) State() SelectionState { return b.state }

// Mode returns the build mode.
func (b *Builder) Mode() BuildMode { return b.mode }

// Selected returns the edited instance, nil when idle.
func (b *Builder) Selected() *scene.MeshInstance { return b.selected }

// Gizmos returns the current handles. The set is owned by the builder.
func (b *Builder) Gizmos() *gizmo.Set { return b.gizmos }

// Indicator returns the drag indicator, nil before the first grab.
func (b *Builder) Indicator() *Indicator { return b.indicator }

// NeedsRedraw reports whether the overlay changed since the last
// DrawOverlay.
func (b *Builder) NeedsRedraw() bool { return b.redraw }

// Snapshot is a plain copy of the builder state for debug dumps.
type Snapshot struct {
	Mode       string
	State      SelectionState
	Selected   string
	Viewports  []string
	Handles    int
	Indicator  float64
	Connected  []string
	Suppressed int
}

// Snapshot returns the current state.
func (b *Builder) Snapshot() Snapshot {
	s := Snapshot{
		Mode:       b.mode.String(),
		State:      b.state,
		Viewports:  b.gizmos.Viewports(),
		Handles:    b.gizmos.Len(),
		Connected:  append([]string(nil), b.connected...),
		Suppressed: len(b.reported),
	}
	if b.selected != nil {
		s.Selected = b.selected.Name()
	}
	if b.indicator != nil {
		s.Indicator = b.indicator.Radius()
	}
	return s
}

func (b *Builder) resetState() {
	b.state = idleState()
	if b.indicator != nil {
		b.indicator.hide()
	}
}

func (b *Builder) clearSelection() {
	if b.selected != nil {
		b.log.Debug("selection cleared", zap.String("node", b.selected.Name()))
	}
	b.selected = nil
	b.resetState()
	b.gizmos.Clear()
	clear(b.reported)
	b.redraw = true
}

// recomputeAll rebuilds handles for every viewport in the scene.
func (b *Builder) recomputeAll() {
	if b.tree == nil || b.tree.Root == nil {
		b.gizmos.Clear()
		b.report(errors.New("recompute gizmos: scene has no root"))
		return
	}
	viewports := scene.FindViewports(b.tree.Root)
	if err := b.gizmos.Recompute(b.selected, viewports); err != nil {
		b.report(err)
	}
}

// report logs err unless the same error was already logged for the current
// selection.
func (b *Builder) report(err error) {
	msg := err.Error()
	if _, seen := b.reported[msg]; seen {
		return
	}
	b.reported[msg] = struct{}{}
	b.log.Error("edit aborted", zap.Error(err))
}
