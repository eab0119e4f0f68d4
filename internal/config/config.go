// Package config handles sculpt configuration loading and saving.
package config

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Config holds all sculpt settings.
type Config struct {
	View    ViewConfig    `yaml:"view"`
	Editor  EditorConfig  `yaml:"editor"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// ViewConfig holds display and camera settings.
type ViewConfig struct {
	FPS            int     `yaml:"fps"`
	Background     string  `yaml:"background"` // "R,G,B"
	CameraDistance float64 `yaml:"camera_distance"`
	FOV            float64 `yaml:"fov"` // degrees
	Split          bool    `yaml:"split"`
}

// EditorConfig holds vertex editing settings.
type EditorConfig struct {
	Mode           string  `yaml:"mode"`             // object, vertex, face or edge
	Primitive      string  `yaml:"primitive"`        // triangle, plane or cube
	PickHalfExtent float64 `yaml:"pick_half_extent"` // world units
	OuterRadius    float64 `yaml:"outer_radius"`     // pixels
	InnerRadius    float64 `yaml:"inner_radius"`     // pixels
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with values tuned for a terminal host.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			FPS:            30,
			Background:     "30,30,40",
			CameraDistance: 5,
			FOV:            60,
			Split:          true,
		},
		Editor: EditorConfig{
			Mode:           "vertex",
			Primitive:      "triangle",
			PickHalfExtent: 0.15,
			OuterRadius:    2.5,
			InnerRadius:    1.5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "sculpt.log",
		},
		Output: OutputConfig{
			Path: "sculpt.glb",
		},
	}
}

// Validate rejects settings the editor cannot run with.
func (c *Config) Validate() error {
	if c.View.FPS <= 0 {
		return errors.Errorf("view.fps must be positive, got %d", c.View.FPS)
	}
	if c.View.FOV <= 0 || c.View.FOV >= 180 {
		return errors.Errorf("view.fov must be in (0, 180), got %v", c.View.FOV)
	}
	if c.Editor.PickHalfExtent <= 0 {
		return errors.Errorf("editor.pick_half_extent must be positive, got %v", c.Editor.PickHalfExtent)
	}
	if c.Editor.InnerRadius > c.Editor.OuterRadius {
		return errors.Errorf("editor.inner_radius %v exceeds outer_radius %v", c.Editor.InnerRadius, c.Editor.OuterRadius)
	}
	if _, err := ParseColor(c.View.Background); err != nil {
		return errors.Wrap(err, "view.background")
	}
	return nil
}

// ParseColor parses an "R,G,B" triple of 0-255 components.
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, errors.Errorf("color %q is not R,G,B", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, errors.Wrapf(err, "color %q component %d", s, i)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{rgb[0], rgb[1], rgb[2], 255}, nil
}
