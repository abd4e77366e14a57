package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is one drawable piece of geometry with a single material.
type Primitive struct {
	Positions [][3]float32
	Normals   [][3]float32 // Optional, per vertex
	UVs       [][2]float32 // Optional, per vertex
	Indices   []uint32     // Optional, triangle list

	Material *Material

	bounds *Box3
}

// VertexCount returns the number of vertices.
func (p *Primitive) VertexCount() int {
	return len(p.Positions)
}

// Bounds returns the local-space bounding box of the vertices.
func (p *Primitive) Bounds() Box3 {
	if p.bounds == nil {
		b := EmptyBox()
		for _, v := range p.Positions {
			b = b.ExpandByPoint(mgl32.Vec3{v[0], v[1], v[2]})
		}
		p.bounds = &b
	}
	return *p.bounds
}

// Material describes a metallic-roughness surface.
type Material struct {
	Name             string
	BaseColor        mgl32.Vec4
	BaseColorTexture *image.RGBA
	Metallic         float32
	Roughness        float32
	DoubleSided      bool
}

// DefaultMaterial returns the glTF fallback material: white, metallic 1, roughness 1.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		BaseColor: mgl32.Vec4{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
}
