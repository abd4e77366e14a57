package viewer

import (
	"github.com/Faultbox/deskview/internal/engine/input"
)

// Phase names as reported by Session.Phase.
const (
	PhaseIdle     = "idle"
	PhaseOrbiting = "orbiting"
	PhaseZooming  = "zooming"
	PhaseDeparted = "departed"
)

// idleState waits for the model. The camera stays where it was built and
// clicks are ignored.
type idleState struct{}

func (*idleState) Name() string                  { return PhaseIdle }
func (*idleState) Enter() error                  { return nil }
func (*idleState) Exit() error                   { return nil }
func (*idleState) Update(float64) error          { return nil }
func (*idleState) HandleInput(input.Event) error { return nil }

// orbitingState sways the camera around the model.
type orbitingState struct {
	s *Session
}

func (*orbitingState) Name() string { return PhaseOrbiting }
func (*orbitingState) Enter() error { return nil }
func (*orbitingState) Exit() error  { return nil }

func (o *orbitingState) Update(float64) error {
	o.s.orbit.Advance(o.s.camera)
	return nil
}

func (o *orbitingState) HandleInput(e input.Event) error {
	if e.Type == input.EventClick {
		o.s.startZoom()
	}
	return nil
}

// zoomingState flies the camera to the target. The orbit is paused.
type zoomingState struct {
	s    *Session
	zoom Zoom
}

func (*zoomingState) Name() string { return PhaseZooming }
func (*zoomingState) Enter() error { return nil }
func (*zoomingState) Exit() error  { return nil }

func (z *zoomingState) Update(float64) error {
	if z.zoom.Done() {
		z.s.depart()
		z.s.phases.Change(z.s.departed)
		return nil
	}
	z.s.camera.SetPosition(z.zoom.Step())
	z.s.camera.LookAt(z.zoom.LookAt)
	return nil
}

// A click mid-zoom restarts the sequence from the current camera position.
// Once the camera has arrived the zoom is terminal and clicks are ignored.
func (z *zoomingState) HandleInput(e input.Event) error {
	if e.Type == input.EventClick && !z.zoom.Done() {
		z.s.startZoom()
	}
	return nil
}

// departedState is terminal: the destination has been opened and the host
// loop is expected to close.
type departedState struct {
	s *Session
}

func (*departedState) Name() string                  { return PhaseDeparted }
func (*departedState) Enter() error                  { return nil }
func (*departedState) Exit() error                   { return nil }
func (*departedState) Update(float64) error          { return nil }
func (*departedState) HandleInput(input.Event) error { return nil }
