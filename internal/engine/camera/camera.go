// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective is a pinhole camera with a vertical field of view.
type Perspective struct {
	Position mgl32.Vec3
	Up       mgl32.Vec3

	FOV    float32 // Vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	// target is the point the camera looks at.
	target mgl32.Vec3
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		target: mgl32.Vec3{0, 0, -1},
	}
}

// SetPosition moves the camera without changing its viewing direction.
func (c *Perspective) SetPosition(p mgl32.Vec3) {
	dir := c.Forward()
	c.Position = p
	c.target = p.Add(dir)
}

// LookAt orients the camera toward a world-space point.
// Looking at the camera's own position keeps the previous direction.
func (c *Perspective) LookAt(target mgl32.Vec3) {
	if target.Sub(c.Position).Len() == 0 {
		return
	}
	c.target = target
}

// Target returns the point the camera is looking at.
func (c *Perspective) Target() mgl32.Vec3 {
	return c.target
}

// Forward returns the normalized viewing direction.
func (c *Perspective) Forward() mgl32.Vec3 {
	d := c.target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// SetAspect updates the aspect ratio after a resize.
// Zero-height windows (minimized) are ignored.
func (c *Perspective) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Perspective) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), c.Up)
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *Perspective) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns ProjectionMatrix * ViewMatrix.
func (c *Perspective) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}
