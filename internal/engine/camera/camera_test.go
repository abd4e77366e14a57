package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewPerspectiveLooksDownNegativeZ(t *testing.T) {
	c := NewPerspective(75, 16.0/9.0, 0.1, 1000)
	c.SetPosition(mgl32.Vec3{0, 1, 5})

	if c.Forward() != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Forward() = %v, want (0,0,-1)", c.Forward())
	}
	if c.Target() != (mgl32.Vec3{0, 1, 4}) {
		t.Errorf("Target() = %v, want (0,1,4)", c.Target())
	}
}

func TestLookAt(t *testing.T) {
	c := NewPerspective(75, 1, 0.1, 1000)
	c.SetPosition(mgl32.Vec3{0, 0, 5})
	c.LookAt(mgl32.Vec3{5, 0, 5})

	if !vecNear(c.Forward(), mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("Forward() = %v, want +X", c.Forward())
	}

	// Looking at the eye itself is ignored.
	c.LookAt(c.Position)
	if !vecNear(c.Forward(), mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("degenerate LookAt changed direction to %v", c.Forward())
	}
}

func TestViewMatrixMapsTargetOntoAxis(t *testing.T) {
	c := NewPerspective(75, 1, 0.1, 1000)
	c.SetPosition(mgl32.Vec3{1, 2, 3})
	c.LookAt(mgl32.Vec3{1, 2, -7})

	// The look-at point lies on the camera's -Z axis, 10 units away.
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{1, 2, -7, 1})
	if !vecNear(p.Vec3(), mgl32.Vec3{0, 0, -10}, 1e-4) {
		t.Errorf("view-space target = %v, want (0,0,-10)", p.Vec3())
	}
}

func TestSetAspect(t *testing.T) {
	c := NewPerspective(75, 1, 0.1, 1000)
	c.SetAspect(1920, 1080)
	if !floatNear(c.Aspect, 1920.0/1080.0, 1e-5) {
		t.Errorf("Aspect = %v", c.Aspect)
	}

	c.SetAspect(800, 0)
	if !floatNear(c.Aspect, 1920.0/1080.0, 1e-5) {
		t.Error("zero height must not change aspect")
	}
}

func TestViewProjectionCentersTarget(t *testing.T) {
	c := NewPerspective(75, 4.0/3.0, 0.1, 1000)
	c.SetPosition(mgl32.Vec3{0, 1, 5})
	c.LookAt(mgl32.Vec3{0, 1, 0})

	clip := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	if !floatNear(ndc.X(), 0, 1e-5) || !floatNear(ndc.Y(), 0, 1e-5) {
		t.Errorf("target projects to %v, want screen center", ndc)
	}
	if ndc.Z() <= -1 || ndc.Z() >= 1 {
		t.Errorf("target depth %v outside clip range", ndc.Z())
	}
}

func TestOrbitAdvance(t *testing.T) {
	center := mgl32.Vec3{1, 2, 3}
	o := NewOrbit(center)
	c := NewPerspective(75, 1, 0.1, 1000)

	for i := 0; i < 3; i++ {
		o.Advance(c)
	}

	tm := 0.03
	if gomath.Abs(o.t-tm) > 1e-12 {
		t.Fatalf("orbit time = %v, want %v", o.t, tm)
	}

	want := mgl32.Vec3{
		1 + float32(gomath.Sin(tm))*0.5,
		2 + 0.5 + float32(gomath.Sin(tm*0.5))*0.2,
		3 + 3,
	}
	if !vecNear(c.Position, want, 1e-5) {
		t.Errorf("Position = %v, want %v", c.Position, want)
	}
	if c.Target() != center {
		t.Errorf("Target() = %v, want orbit center %v", c.Target(), center)
	}
}

func TestOrbitStaysInFront(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{})
	c := NewPerspective(75, 1, 0.1, 1000)

	for i := 0; i < 1000; i++ {
		o.Advance(c)
		p := c.Position
		if p.X() < -0.5-1e-6 || p.X() > 0.5+1e-6 {
			t.Fatalf("frame %d: x = %v outside sway radius", i, p.X())
		}
		if p.Y() < 0.3-1e-6 || p.Y() > 0.7+1e-6 {
			t.Fatalf("frame %d: y = %v outside sway band", i, p.Y())
		}
		if p.Z() != 3 {
			t.Fatalf("frame %d: z = %v, want 3", i, p.Z())
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
