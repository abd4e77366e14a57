package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Zoom moves the camera from Start to End in a fixed number of frames while
// looking at LookAt.
type Zoom struct {
	Start  mgl32.Vec3
	End    mgl32.Vec3
	LookAt mgl32.Vec3
	Frames int

	progress int
}

// NewZoom creates a zoom from the camera position start toward a point
// offset from target, looking at target.
func NewZoom(start, target, offset mgl32.Vec3, frames int) Zoom {
	if frames < 1 {
		frames = 1
	}
	return Zoom{
		Start:  start,
		End:    target.Add(offset),
		LookAt: target,
		Frames: frames,
	}
}

// Done reports whether the camera has reached End.
func (z Zoom) Done() bool {
	return z.progress >= z.Frames
}

// Step advances one frame and returns the new camera position.
// Stepping a finished zoom keeps returning End.
func (z *Zoom) Step() mgl32.Vec3 {
	if z.progress < z.Frames {
		z.progress++
	}
	return z.Position()
}

// Position returns the camera position for the current progress.
func (z Zoom) Position() mgl32.Vec3 {
	return Lerp(z.Start, z.End, float32(z.progress)/float32(z.Frames))
}

// Lerp interpolates linearly between a and b. The endpoints are returned
// exactly for f <= 0 and f >= 1.
func Lerp(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	switch {
	case f <= 0:
		return a
	case f >= 1:
		return b
	}
	return a.Add(b.Sub(a).Mul(f))
}
