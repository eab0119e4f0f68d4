package main

import (
	"fmt"
	"time"

	"github.com/taigrr/sculpt/pkg/builder"
	"github.com/taigrr/sculpt/pkg/render"
)

// hud draws a status line at the top and a key hint line at the bottom of
// the screen.
type hud struct {
	title     string
	show      bool
	status    string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(title string) *hud {
	return &hud{title: title, show: true, fpsTime: time.Now()}
}

// updateFPS counts a frame.
func (h *hud) updateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// flash shows msg in the status line until the next one.
func (h *hud) flash(msg string) {
	h.status = msg
}

func (h *hud) render(r *render.TerminalRenderer, height int, b *builder.Builder) {
	if !h.show {
		return
	}
	snap := b.Snapshot()
	selected := snap.Selected
	if selected == "" {
		selected = "-"
	}
	top := fmt.Sprintf("\x1b[1m%s\x1b[0m  %.0f fps  mode: %s  mesh: %s  hover: %s  active: %s",
		h.title, h.fps, snap.Mode, selected, index(snap.State.Hover), index(snap.State.Active))
	if snap.State.Dragging {
		top += "  \x1b[93mdragging\x1b[0m"
	}
	r.Text(0, 0, top)

	bottom := "\x1b[2m1-4 mode  tab select  n new  s save  p png  arrows orbit  h hud  q quit\x1b[0m"
	if h.status != "" {
		bottom = h.status + "  " + bottom
	}
	r.Text(0, height-1, bottom)
}

func index(i int) string {
	if i == builder.NoVertex {
		return "-"
	}
	return fmt.Sprint(i)
}
