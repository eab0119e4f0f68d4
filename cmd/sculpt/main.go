// sculpt - Terminal mesh vertex editor
// Grab and drag mesh vertices over a perspective and a front view.
//
// Controls:
//
//	Mouse move   - Hover a vertex handle
//	Left drag    - Move the hovered vertex in its depth plane
//	Right drag   - Orbit the perspective camera
//	Scroll       - Zoom in/out
//	1/2/3/4      - Object, vertex, face, edge mode
//	Tab          - Select or deselect the mesh
//	N            - Add a new primitive (cycles triangle, plane, cube)
//	S            - Save the selected mesh as GLB
//	P            - Save the perspective view as PNG
//	Arrows       - Orbit the perspective camera
//	R            - Reset the camera
//	H            - Toggle HUD
//	?            - Dump editor state to the log
//	Esc          - Cancel the vertex grab
//	Q / Ctrl+C   - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/taigrr/sculpt/internal/config"
	"github.com/taigrr/sculpt/internal/logger"
	"github.com/taigrr/sculpt/pkg/builder"
	"github.com/taigrr/sculpt/pkg/gizmo"
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/models"
	"github.com/taigrr/sculpt/pkg/render"
	"github.com/taigrr/sculpt/pkg/scene"
)

var (
	configPath = flag.String("config", "", "Path to config file (YAML)")
	targetFPS  = flag.Int("fps", 0, "Target FPS")
	bgColor    = flag.String("bg", "", "Background color (R,G,B)")
	primitive  = flag.String("primitive", "", "Mesh to start with when no file is given: triangle, plane, cube")
	mode       = flag.String("mode", "", "Initial build mode: object, vertex, face, edge")
	output     = flag.String("o", "", "Path the S key saves the mesh to (GLB)")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFile    = flag.String("log", "", "Log file path")
	single     = flag.Bool("single", false, "Show only the perspective view")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sculpt - Terminal mesh vertex editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: sculpt [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse       - Hover a vertex, left drag to move it\n")
		fmt.Fprintf(os.Stderr, "  Right drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  1-4         - Object, vertex, face, edge mode\n")
		fmt.Fprintf(os.Stderr, "  Tab         - Select or deselect the mesh\n")
		fmt.Fprintf(os.Stderr, "  N           - New primitive\n")
		fmt.Fprintf(os.Stderr, "  S / P       - Save GLB / PNG\n")
		fmt.Fprintf(os.Stderr, "  Arrows, R   - Orbit, reset camera\n")
		fmt.Fprintf(os.Stderr, "  H / ?       - Toggle HUD / dump state to the log\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Cancel grab\n")
		fmt.Fprintf(os.Stderr, "  Q           - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *targetFPS > 0 {
		cfg.View.FPS = *targetFPS
	}
	if *bgColor != "" {
		cfg.View.Background = *bgColor
	}
	if *primitive != "" {
		cfg.Editor.Primitive = *primitive
	}
	if *mode != "" {
		cfg.Editor.Mode = *mode
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.LogFile = *logFile
	}
	if *single {
		cfg.View.Split = false
	}
	return cfg, cfg.Validate()
}

// editor is the running host: scene, viewports and the vertex builder.
type editor struct {
	cfg  *config.Config
	log  *zap.Logger
	bg   render.Color
	next models.PrimitiveKind

	tree      *scene.Tree
	sel       *selection
	dock      *keyDock
	b         *builder.Builder
	viewports []*scene.Viewport
	persp     *scene.Viewport
	fbs       map[string]*render.Framebuffer
	orbit     *orbit
	hud       *hud

	renderer      *render.TerminalRenderer
	width, height int
	orbiting      bool
	lastX, lastY  int
	lastVP        *scene.Viewport
}

func run(modelPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "config")
	}

	// Console output would land on the alternate screen, so log to file only.
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(cfg.Logging.LogFile), false); err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logger.Sync()

	ed, err := newEditor(cfg, modelPath)
	if err != nil {
		return err
	}
	if err := ed.b.EnterTree(ed.dock); err != nil {
		return err
	}
	defer ed.b.ExitTree()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return errors.Wrap(err, "get terminal size")
	}
	if err := term.Start(); err != nil {
		return errors.Wrap(err, "start terminal")
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ed.layout(term, width, height)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Events are handled on the main loop so the builder only ever runs on
	// one goroutine.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.View.FPS)
	lastFrame := time.Now()

	for {
		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				if ws, ok := ev.(uv.WindowSizeEvent); ok {
					term.Erase()
					term.Resize(ws.Width, ws.Height)
					ed.layout(term, ws.Width, ws.Height)
					continue
				}
				if quit := ed.handleEvent(ev); quit {
					return nil
				}
			default:
				break drain
			}
		}

		ed.b.Process(dt)
		if ed.orbit.apply(ed.persp.Camera) {
			// Handles follow the camera.
			if inst := ed.b.Selected(); inst != nil {
				ed.b.Edit(inst)
			}
		}

		ed.draw()
		if err := ed.renderer.Flush(); err != nil {
			return errors.Wrap(err, "flush")
		}
		ed.hud.updateFPS()

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func newEditor(cfg *config.Config, modelPath string) (*editor, error) {
	log := logger.Named("sculpt")

	bg, err := config.ParseColor(cfg.View.Background)
	if err != nil {
		return nil, err
	}
	buildMode, err := builder.ParseBuildMode(cfg.Editor.Mode)
	if err != nil {
		return nil, errors.Wrap(err, "editor.mode")
	}
	kind, err := models.ParsePrimitiveKind(cfg.Editor.Primitive)
	if err != nil {
		return nil, errors.Wrap(err, "editor.primitive")
	}

	var mesh *models.Mesh
	title := kind.String()
	if modelPath != "" {
		mesh, err = models.LoadGLB(modelPath)
		if err != nil {
			return nil, errors.Wrap(err, "load model")
		}
		title = filepath.Base(modelPath)
	} else {
		mesh, err = models.NewPrimitive(kind)
		if err != nil {
			return nil, err
		}
	}
	log.Info("mesh loaded",
		zap.String("name", title),
		zap.Int("surfaces", mesh.SurfaceCount()),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()))

	root := scene.NewGroup("root")
	edited := scene.NewGroup("scene")
	root.AddChild(edited)
	inst := scene.NewMeshInstance(title, mesh, math3d.Zero3())
	edited.AddChild(inst)

	perspCam := render.NewCamera()
	perspCam.SetPerspective(cfg.View.FOV * math.Pi / 180)
	persp := scene.NewViewport("perspective", perspCam)
	root.AddChild(persp)
	viewports := []*scene.Viewport{persp}

	if cfg.View.Split {
		frontCam := render.NewCamera()
		frontCam.SetOrthographic(4)
		frontCam.SetPosition(math3d.V3(0, 0, cfg.View.CameraDistance))
		front := scene.NewViewport("front", frontCam)
		root.AddChild(front)
		viewports = append(viewports, front)
	}

	sel := &selection{}
	sel.set(inst)
	tree := &scene.Tree{Root: root, EditedRoot: edited}
	b := builder.New(tree, sel,
		builder.WithLogger(logger.Named("builder")),
		builder.WithPickHalfExtent(cfg.Editor.PickHalfExtent),
		builder.WithStyle(gizmo.Style{OuterRadius: cfg.Editor.OuterRadius, InnerRadius: cfg.Editor.InnerRadius}),
		builder.WithMode(buildMode),
	)

	return &editor{
		cfg:       cfg,
		log:       log,
		bg:        bg,
		next:      kind.Next(),
		tree:      tree,
		sel:       sel,
		dock:      newKeyDock(),
		b:         b,
		viewports: viewports,
		persp:     persp,
		fbs:       make(map[string]*render.Framebuffer),
		orbit:     newOrbit(cfg.View.FPS, cfg.View.CameraDistance),
		hud:       newHUD(title),
	}, nil
}

// layout splits the screen between the viewports, leaving the first and last
// rows for the HUD. Every viewport gets a fresh framebuffer of its new size.
func (ed *editor) layout(scr uv.Screen, width, height int) {
	ed.width, ed.height = width, height
	ed.renderer = render.NewTerminalRenderer(scr, width, height)

	rows := max(height-2, 1)
	cols := width / len(ed.viewports)
	for i, vp := range ed.viewports {
		x := i * cols
		w := cols
		if i == len(ed.viewports)-1 {
			w = width - x
		}
		vp.SetCellArea(image.Rect(x, 1, x+w, 1+rows))
		fbw, fbh := vp.Size()
		ed.fbs[vp.ID()] = render.NewFramebuffer(fbw, fbh)
	}

	if inst := ed.b.Selected(); inst != nil {
		ed.b.Edit(inst)
	}
	ed.log.Debug("layout", zap.Int("width", width), zap.Int("height", height))
}

// viewportAt returns the viewport under cell (x, y), nil if none.
func (ed *editor) viewportAt(x, y int) *scene.Viewport {
	for _, vp := range ed.viewports {
		if vp.Contains(x, y) {
			return vp
		}
	}
	return nil
}

// handleEvent routes one terminal event and reports whether to quit.
func (ed *editor) handleEvent(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		if ed.b.HandleInput(ed.lastVP, ev) {
			return false
		}
		return ed.handleKey(ev)

	case uv.MouseEvent:
		m := ev.Mouse()
		vp := ed.viewportAt(m.X, m.Y)
		if vp == nil {
			vp = ed.lastVP
		}
		ed.lastVP = vp
		if vp != nil && ed.b.HandleInput(vp, ev) {
			return false
		}
		ed.handleMouse(ev)
	}
	return false
}

func (ed *editor) handleKey(ev uv.KeyPressEvent) bool {
	const orbitStep = 0.05
	switch {
	case ev.MatchString("q", "ctrl+c"):
		return true
	case ev.MatchString("1"):
		ed.dock.emit(builder.SignalObjectMode, int64(builder.ModeObject))
	case ev.MatchString("2"):
		ed.dock.emit(builder.SignalVertexMode, int64(builder.ModeVertex))
	case ev.MatchString("3"):
		ed.dock.emit(builder.SignalFaceMode, int64(builder.ModeFace))
	case ev.MatchString("4"):
		ed.dock.emit(builder.SignalEdgeMode, int64(builder.ModeEdge))
	case ev.MatchString("tab"):
		ed.toggleSelection()
	case ev.MatchString("n"):
		ed.newPrimitive()
	case ev.MatchString("s"):
		ed.save()
	case ev.MatchString("p"):
		ed.snapshot()
	case ev.MatchString("up"):
		ed.orbit.impulse(-orbitStep, 0)
	case ev.MatchString("down"):
		ed.orbit.impulse(orbitStep, 0)
	case ev.MatchString("left"):
		ed.orbit.impulse(0, -orbitStep)
	case ev.MatchString("right"):
		ed.orbit.impulse(0, orbitStep)
	case ev.MatchString("+", "="):
		ed.orbit.zoom(-0.5)
	case ev.MatchString("-", "_"):
		ed.orbit.zoom(0.5)
	case ev.MatchString("r"):
		ed.orbit.reset()
	case ev.MatchString("h"):
		ed.hud.show = !ed.hud.show
	case ev.MatchString("?", "shift+/"):
		ed.log.Debug("builder state", zap.String("dump", spew.Sdump(ed.b.Snapshot())))
		ed.hud.flash("state dumped to log")
	}
	return false
}

// handleMouse orbits the perspective camera with the right button and zooms
// with the wheel.
func (ed *editor) handleMouse(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.MouseClickEvent:
		if ev.Button == uv.MouseRight {
			ed.orbiting = true
			ed.lastX, ed.lastY = ev.X, ev.Y
		}
	case uv.MouseReleaseEvent:
		ed.orbiting = false
	case uv.MouseMotionEvent:
		if ed.orbiting {
			dx := ev.X - ed.lastX
			dy := ev.Y - ed.lastY
			ed.orbit.impulse(float64(dy)*0.03, float64(dx)*0.03)
			ed.lastX, ed.lastY = ev.X, ev.Y
		}
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			ed.orbit.zoom(-0.5)
		case uv.MouseWheelDown:
			ed.orbit.zoom(0.5)
		}
	}
}

// toggleSelection selects the last mesh in the scene, or clears the
// selection when something is selected.
func (ed *editor) toggleSelection() {
	if len(ed.sel.nodes) > 0 {
		ed.sel.clear()
		return
	}
	meshes := meshInstances(ed.tree.EditedRoot)
	if len(meshes) == 0 {
		return
	}
	ed.selectNode(meshes[len(meshes)-1])
}

func (ed *editor) selectNode(n scene.Node) {
	ed.sel.set(n)
	if ed.b.Handles(n) {
		ed.b.Edit(n)
	}
}

// newPrimitive asks the builder for the next primitive kind, offsets it next
// to the existing meshes and selects it.
func (ed *editor) newPrimitive() {
	before := len(meshInstances(ed.tree.EditedRoot))
	ed.dock.emit(builder.SignalCreatePrimitive, int64(ed.next))
	meshes := meshInstances(ed.tree.EditedRoot)
	if len(meshes) == before {
		ed.hud.flash("could not create " + ed.next.String())
		return
	}
	inst := meshes[len(meshes)-1]
	inst.Origin = math3d.V3(2.5*float64(before), 0, 0)
	ed.hud.flash("added " + ed.next.String())
	ed.next = ed.next.Next()
	ed.selectNode(inst)
}

func (ed *editor) save() {
	inst := ed.b.Selected()
	if inst == nil {
		ed.hud.flash("nothing selected")
		return
	}
	if err := models.SaveGLB(inst.Mesh, ed.cfg.Output.Path); err != nil {
		ed.log.Error("save failed", zap.String("path", ed.cfg.Output.Path), zap.Error(err))
		ed.hud.flash("save failed")
		return
	}
	ed.log.Info("mesh saved", zap.String("path", ed.cfg.Output.Path), zap.String("mesh", inst.Name()))
	ed.hud.flash("saved " + ed.cfg.Output.Path)
}

func (ed *editor) snapshot() {
	path := fmt.Sprintf("sculpt-%s.png", time.Now().Format("20060102-150405"))
	if err := ed.fbs[ed.persp.ID()].SavePNG(path); err != nil {
		ed.log.Error("snapshot failed", zap.Error(err))
		ed.hud.flash("snapshot failed")
		return
	}
	ed.hud.flash("wrote " + path)
}

// draw renders every viewport, the vertex overlay and the HUD.
func (ed *editor) draw() {
	selected := ed.b.Selected()
	overlay := ed.b.OverlayViewport()

	for _, vp := range ed.viewports {
		fb := ed.fbs[vp.ID()]
		view, ok := vp.View()
		if fb == nil || !ok {
			continue
		}
		fb.Clear(ed.bg)

		wf := render.NewWireframe(view, fb)
		wf.DrawGrid(6, 0.5, render.RGB(60, 60, 75))
		wf.DrawAxes(1)
		for _, mi := range meshInstances(ed.tree.EditedRoot) {
			c := render.ColorGray
			if mi == selected {
				c = render.RGB(0, 255, 128)
			}
			wf.DrawMesh(mi.Mesh, mi.Origin, c)
		}

		if vp.ID() == overlay {
			ed.b.DrawOverlay(fb)
		}
		ed.renderer.Render(fb, vp.CellArea())
	}
	ed.hud.render(ed.renderer, ed.height, ed.b)
}
