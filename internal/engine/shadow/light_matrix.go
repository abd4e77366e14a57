package shadow

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/deskview/internal/engine/scene"
)

// minRadius keeps the light frustum usable for empty or point-sized scenes.
const minRadius = 1

// LightMatrix computes the view-projection for a directional light's shadow
// map. The orthographic box is centered on bounds and sized to its bounding
// sphere; depth is clamped to the light's near and far planes when set.
func LightMatrix(light scene.DirectionalLight, bounds scene.Box3) mgl32.Mat4 {
	center := bounds.Center()
	radius := bounds.Radius()
	if radius < minRadius {
		radius = minRadius
	}

	dir := light.Direction()
	distance := radius * 2
	eye := center.Add(dir.Mul(distance))

	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(eye, center, up)

	half := radius * 1.1
	near := float32(0.1)
	far := distance + half
	if light.ShadowNear > 0 {
		near = light.ShadowNear
	}
	if light.ShadowFar > near && light.ShadowFar < far {
		far = light.ShadowFar
	}

	proj := mgl32.Ortho(-half, half, -half, half, near, far)
	return proj.Mul4(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
