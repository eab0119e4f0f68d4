package gizmo

import (
	"image/color"

	"github.com/taigrr/sculpt/pkg/render"
)

// Handle colors. All are drawn at 70% opacity.
var (
	Peach = color.RGBA{251, 100, 121, 179}
	White = color.RGBA{255, 255, 255, 179}
	Plum  = color.RGBA{41, 50, 82, 179}
)

// Style sets the handle circle radii in framebuffer pixels.
type Style struct {
	OuterRadius float64
	InnerRadius float64
}

// DefaultStyle matches a full resolution viewport.
var DefaultStyle = Style{OuterRadius: 9, InnerRadius: 8}

// Colors returns the outer and inner color of a handle.
func Colors(active, hovered bool) (outer, inner color.RGBA) {
	switch {
	case active:
		return White, Plum
	case hovered:
		return Peach, White
	default:
		return White, Peach
	}
}

// Draw paints handles onto fb as two blended circles each. active and hover
// are vertex indices, -1 for none; active takes precedence when both name
// the same vertex. Handles behind the camera are skipped.
func Draw(fb *render.Framebuffer, handles []Handle, active, hover int, style Style) {
	for _, h := range handles {
		if !h.Visible {
			continue
		}
		outer, inner := Colors(h.Index == active, h.Index == hover)
		fb.FillCircle(h.Position.X, h.Position.Y, style.OuterRadius, outer)
		fb.FillCircle(h.Position.X, h.Position.Y, style.InnerRadius, inner)
	}
}
