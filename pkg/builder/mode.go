package builder

import (
	"strings"

	"github.com/pkg/errors"
)

// BuildMode is the editing granularity. The values are the ones carried by
// the dock's mode signals.
type BuildMode int64

const (
	ModeObject BuildMode = iota
	ModeVertex
	ModeFace
	ModeEdge
)

var modeNames = [...]string{"object", "vertex", "face", "edge"}

func (m BuildMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ModeFromValue converts a signal payload to a mode. ok is false for values
// outside the known modes.
func ModeFromValue(v int64) (BuildMode, bool) {
	if v < 0 || v >= int64(len(modeNames)) {
		return ModeVertex, false
	}
	return BuildMode(v), true
}

// ParseBuildMode parses a mode name as written in the config file.
func ParseBuildMode(s string) (BuildMode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return BuildMode(i), nil
		}
	}
	return ModeVertex, errors.Errorf("unknown build mode %q", s)
}

// NoVertex marks an unset active or hover index.
const NoVertex = -1

// SelectionState is the interaction state over the edited mesh. Dragging is
// never true while Active is NoVertex.
type SelectionState struct {
	Active   int
	Hover    int
	Dragging bool
}

func idleState() SelectionState {
	return SelectionState{Active: NoVertex, Hover: NoVertex}
}
