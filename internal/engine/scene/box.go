package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns a box that contains nothing; expanding it by a point
// yields a zero-size box at that point.
func EmptyBox() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X() < b.Min.X() || b.Max.Y() < b.Min.Y() || b.Max.Z() < b.Min.Z()
}

// ExpandByPoint returns the smallest box containing b and p.
func (b Box3) ExpandByPoint(p mgl32.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Center returns the midpoint of the box. An empty box has center zero.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis, zero for an empty box.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Radius returns the half-diagonal length.
func (b Box3) Radius() float32 {
	return b.Size().Len() / 2
}

// BoxFromObject computes the world-space box of every vertex under root,
// including root itself.
func BoxFromObject(root *Node) Box3 {
	box := EmptyBox()
	var parentWorld mgl32.Mat4
	if root.parent != nil {
		parentWorld = root.parent.WorldMatrix()
	} else {
		parentWorld = mgl32.Ident4()
	}

	root.TraverseWorld(parentWorld, func(n *Node, world mgl32.Mat4) {
		for _, p := range n.Primitives {
			for _, v := range p.Positions {
				w := world.Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 1})
				box = box.ExpandByPoint(w.Vec3())
			}
		}
	})
	return box
}
