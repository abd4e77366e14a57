// Package scene provides the scene graph: a node hierarchy with transforms,
// mesh primitives, lights and the environment panorama.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is an element of the scene hierarchy. A node with primitives is a mesh.
type Node struct {
	Name string

	// Local transform, applied as T * R * S unless Matrix is set.
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Matrix   *mgl32.Mat4

	Primitives []*Primitive

	CastShadow    bool
	ReceiveShadow bool
	Visible       bool

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// Add attaches children to n, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child from n. Reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Children returns the direct children of n.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the node n is attached to, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsMesh reports whether n carries geometry.
func (n *Node) IsMesh() bool {
	return len(n.Primitives) > 0
}

// Traverse calls fn for n and every descendant in pre-order.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseWorld is Traverse with each node's world matrix, computed once per
// node from parentWorld down.
func (n *Node) TraverseWorld(parentWorld mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	world := parentWorld.Mul4(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.children {
		c.TraverseWorld(world, fn)
	}
}

// FindMesh returns the first mesh node in pre-order whose name equals name.
func (n *Node) FindMesh(name string) *Node {
	if n.IsMesh() && n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindMesh(name); found != nil {
			return found
		}
	}
	return nil
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the transform from node space to world space.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent(); p != nil; p = p.Parent() {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}
