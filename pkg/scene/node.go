// Package scene is the host side scene tree the builder works against:
// groups, viewports with their cameras, mesh instances and marker nodes.
package scene

import (
	"github.com/taigrr/sculpt/pkg/math3d"
	"github.com/taigrr/sculpt/pkg/models"
)

// Node is any element of the scene tree.
type Node interface {
	Name() string
	Children() []Node
}

// Group is a plain named node with children. The other node types embed it.
type Group struct {
	name     string
	children []Node
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

// Name returns the node name.
func (g *Group) Name() string {
	return g.name
}

// Children returns the direct children in insertion order.
func (g *Group) Children() []Node {
	return g.children
}

// AddChild appends n to the children.
func (g *Group) AddChild(n Node) {
	g.children = append(g.children, n)
}

// RemoveChild detaches n and reports whether it was a child.
func (g *Group) RemoveChild(n Node) bool {
	for i, c := range g.children {
		if c == n {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// Walk visits root and its descendants depth first, parents before
// children. Returning false from fn skips that node's children.
func Walk(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children() {
		Walk(c, fn)
	}
}

// FindViewports returns every viewport under root, root included, in depth
// first pre-order. It recurses into every child, viewports too.
func FindViewports(root Node) []*Viewport {
	var out []*Viewport
	Walk(root, func(n Node) bool {
		if vp, ok := n.(*Viewport); ok {
			out = append(out, vp)
		}
		return true
	})
	return out
}

// MeshInstance places a mesh in the world. Vertices of the mesh are local to
// Origin.
type MeshInstance struct {
	Group
	Origin math3d.Vec3
	Mesh   *models.Mesh
}

// NewMeshInstance creates an instance of mesh at origin.
func NewMeshInstance(name string, mesh *models.Mesh, origin math3d.Vec3) *MeshInstance {
	return &MeshInstance{Group: Group{name: name}, Origin: origin, Mesh: mesh}
}

// Marker is an indicator node shown at a world position.
type Marker struct {
	Group
	Position math3d.Vec3
	Visible  bool
}

// NewMarker creates a hidden marker.
func NewMarker(name string) *Marker {
	return &Marker{Group: Group{name: name}}
}

// Tree is the host scene: Root is searched for viewports, EditedRoot is
// where the builder adds nodes it creates.
type Tree struct {
	Root       *Group
	EditedRoot *Group
}
