package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit sways a camera in front of a center point.
//
// Every Advance adds Step to the elapsed time t and places the camera at
//
//	center + (sin(t)*HorizontalRadius, Height + sin(t/2)*VerticalRadius, Distance)
//
// looking back at the center.
type Orbit struct {
	Center mgl32.Vec3

	Step             float64
	HorizontalRadius float32
	VerticalRadius   float32
	Height           float32
	Distance         float32

	t float64
}

// NewOrbit creates an orbit around center with the default sway.
func NewOrbit(center mgl32.Vec3) *Orbit {
	return &Orbit{
		Center:           center,
		Step:             0.01,
		HorizontalRadius: 0.5,
		VerticalRadius:   0.2,
		Height:           0.5,
		Distance:         3,
	}
}

// Position returns the camera position at the current time.
func (o *Orbit) Position() mgl32.Vec3 {
	return mgl32.Vec3{
		o.Center.X() + float32(gomath.Sin(o.t))*o.HorizontalRadius,
		o.Center.Y() + o.Height + float32(gomath.Sin(o.t*0.5))*o.VerticalRadius,
		o.Center.Z() + o.Distance,
	}
}

// Advance steps the orbit one frame and applies it to cam.
func (o *Orbit) Advance(cam *Perspective) {
	o.t += o.Step
	cam.SetPosition(o.Position())
	cam.LookAt(o.Center)
}
