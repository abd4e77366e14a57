package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/deskview/internal/engine/texture"
)

// AmbientLight lights every surface equally.
type AmbientLight struct {
	Color     mgl32.Vec3
	Intensity float32
}

// DirectionalLight shines from Position toward Target.
type DirectionalLight struct {
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32

	CastShadow    bool
	ShadowMapSize int
	ShadowNear    float32
	ShadowFar     float32
}

// Direction returns the normalized direction from the target to the light.
func (l DirectionalLight) Direction() mgl32.Vec3 {
	d := l.Position.Sub(l.Target)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize()
}

// Scene is the root of everything drawn in a frame.
type Scene struct {
	Root *Node

	// Background is drawn behind all geometry; Environment feeds reflections.
	Background  *texture.Panorama
	Environment *texture.Panorama

	Ambient AmbientLight
	Sun     DirectionalLight
}

// New creates an empty scene with a white ambient light and a shadow-casting
// directional light above and in front of the origin.
func New() *Scene {
	return &Scene{
		Root: NewNode("scene"),
		Ambient: AmbientLight{
			Color:     mgl32.Vec3{1, 1, 1},
			Intensity: 0.5,
		},
		Sun: DirectionalLight{
			Position:      mgl32.Vec3{5, 10, 7.5},
			Color:         mgl32.Vec3{1, 1, 1},
			Intensity:     0.8,
			CastShadow:    true,
			ShadowMapSize: 1024,
			ShadowNear:    0.5,
			ShadowFar:     50,
		},
	}
}

// Add attaches nodes to the scene root.
func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// SetEnvironment installs p as both background and reflection source, and
// tints the ambient light with the panorama's mean color.
func (s *Scene) SetEnvironment(p *texture.Panorama) {
	if p != nil {
		p.Mapping = texture.MappingEquirectReflection
		s.Ambient.Color = ambientTint(p.Average())
	}
	s.Background = p
	s.Environment = p
}

// ambientTint scales avg so its brightest channel is 1, leaving brightness to
// the ambient intensity. A black average yields white.
func ambientTint(avg mgl32.Vec3) mgl32.Vec3 {
	m := max(avg[0], avg[1], avg[2])
	if m <= 0 {
		return mgl32.Vec3{1, 1, 1}
	}
	return avg.Mul(1 / m)
}

// Bounds returns the world-space box of all geometry in the scene.
func (s *Scene) Bounds() Box3 {
	return BoxFromObject(s.Root)
}

// Meshes returns every visible mesh node with its world matrix.
func (s *Scene) Meshes() []Drawable {
	var out []Drawable
	var walk func(n *Node, parent mgl32.Mat4)
	walk = func(n *Node, parent mgl32.Mat4) {
		if !n.Visible {
			return
		}
		world := parent.Mul4(n.LocalMatrix())
		if n.IsMesh() {
			out = append(out, Drawable{Node: n, World: world})
		}
		for _, c := range n.Children() {
			walk(c, world)
		}
	}
	walk(s.Root, mgl32.Ident4())
	return out
}

// Drawable pairs a mesh node with its world transform for one frame.
type Drawable struct {
	Node  *Node
	World mgl32.Mat4
}
