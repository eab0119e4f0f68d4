package main

import (
	"github.com/pkg/errors"

	"github.com/taigrr/sculpt/pkg/scene"
)

// keyDock stands in for the editor dock: keyboard shortcuts emit the same
// signals its buttons would.
type keyDock struct {
	handlers map[string]func(int64)
}

func newKeyDock() *keyDock {
	return &keyDock{handlers: make(map[string]func(int64))}
}

func (d *keyDock) Connect(signal string, fn func(int64)) error {
	if _, ok := d.handlers[signal]; ok {
		return errors.Errorf("signal %s already connected", signal)
	}
	d.handlers[signal] = fn
	return nil
}

func (d *keyDock) Disconnect(signal string) {
	delete(d.handlers, signal)
}

func (d *keyDock) emit(signal string, v int64) {
	if fn, ok := d.handlers[signal]; ok {
		fn(v)
	}
}

// selection is the host's node selection.
type selection struct {
	nodes []scene.Node
}

func (s *selection) SelectedNodes() []scene.Node {
	return s.nodes
}

func (s *selection) set(n scene.Node) {
	s.nodes = []scene.Node{n}
}

func (s *selection) clear() {
	s.nodes = nil
}

// meshInstances returns the mesh instances directly under root.
func meshInstances(root *scene.Group) []*scene.MeshInstance {
	var out []*scene.MeshInstance
	for _, c := range root.Children() {
		if mi, ok := c.(*scene.MeshInstance); ok {
			out = append(out, mi)
		}
	}
	return out
}
