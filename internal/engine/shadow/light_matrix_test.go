package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/deskview/internal/engine/scene"
)

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	c := m.Mul4x1(p.Vec4(1))
	return c.Vec3().Mul(1 / c.W())
}

func inClip(p mgl32.Vec3) bool {
	const eps = 1e-4
	return p.X() >= -1-eps && p.X() <= 1+eps &&
		p.Y() >= -1-eps && p.Y() <= 1+eps &&
		p.Z() >= -1-eps && p.Z() <= 1+eps
}

func corners(b scene.Box3) []mgl32.Vec3 {
	var out []mgl32.Vec3
	for _, x := range []float32{b.Min.X(), b.Max.X()} {
		for _, y := range []float32{b.Min.Y(), b.Max.Y()} {
			for _, z := range []float32{b.Min.Z(), b.Max.Z()} {
				out = append(out, mgl32.Vec3{x, y, z})
			}
		}
	}
	return out
}

func TestLightMatrixCoversBounds(t *testing.T) {
	light := scene.New().Sun
	bounds := scene.Box3{Min: mgl32.Vec3{-2, 0, -1}, Max: mgl32.Vec3{2, 3, 1}}

	m := LightMatrix(light, bounds)
	for i, c := range corners(bounds) {
		if p := project(m, c); !inClip(p) {
			t.Errorf("corner %d %v projects outside the shadow map: %v", i, c, p)
		}
	}

	// The center lands in the middle of the map.
	p := project(m, bounds.Center())
	if !floatNear(p.X(), 0, 1e-4) || !floatNear(p.Y(), 0, 1e-4) {
		t.Errorf("center projects to %v, want map center", p)
	}
}

func TestLightMatrixDepthOrdering(t *testing.T) {
	light := scene.DirectionalLight{Position: mgl32.Vec3{0, 10, 0}}
	bounds := scene.Box3{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	m := LightMatrix(light, bounds)
	top := project(m, mgl32.Vec3{0, 1, 0})
	bottom := project(m, mgl32.Vec3{0, -1, 0})
	if top.Z() >= bottom.Z() {
		t.Errorf("point nearer the light should have smaller depth: top %v, bottom %v", top.Z(), bottom.Z())
	}
}

func TestLightMatrixEmptyBounds(t *testing.T) {
	m := LightMatrix(scene.New().Sun, scene.EmptyBox())
	for i := 0; i < 16; i++ {
		if m[i] != m[i] {
			t.Fatalf("matrix has NaN at %d: %v", i, m)
		}
	}
}

// vecNear compares component-wise with an absolute tolerance.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if !floatNear(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func floatNear(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}
