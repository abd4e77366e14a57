// Package viewer drives the landing scene: it loads the environment and the
// model in the background, sways the camera around the model, and on click
// zooms into the target screen before navigating away.
//
// A Session holds all state for one run and is advanced one frame at a time
// by the host loop. Drawing, sound and navigation are injected so the session
// runs without a window.
package viewer

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/config"
	"github.com/Faultbox/deskview/internal/engine/camera"
	"github.com/Faultbox/deskview/internal/engine/input"
	"github.com/Faultbox/deskview/internal/engine/scene"
	"github.com/Faultbox/deskview/internal/engine/texture"
	"github.com/Faultbox/deskview/internal/logger"
	"github.com/Faultbox/deskview/internal/viewer/states"
)

// Drawer draws one frame of a scene.
type Drawer interface {
	Render(s *scene.Scene, cam *camera.Perspective)
}

// CuePlayer restarts a short sound from its beginning.
type CuePlayer interface {
	Replay() error
}

// Deps are the outside effects of a session. Any of them may be nil.
type Deps struct {
	Drawer    Drawer
	Cue       CuePlayer
	Navigator Navigator
}

// Session is the state of one viewer run.
type Session struct {
	cfg  *config.Config
	deps Deps
	log  *zap.Logger

	scene  *scene.Scene
	camera *camera.Perspective
	orbit  *camera.Orbit

	model        *scene.Node
	target       *scene.Node
	cameraTarget mgl32.Vec3

	phases   *states.Manager
	idle     *idleState
	orbiting *orbitingState
	departed *departedState

	envLoad   *Async[*texture.Panorama]
	modelLoad *Async[*LoadedModel]

	frames    uint64
	navigated bool
	done      bool
}

// NewSession builds the scene, lights and camera described by cfg.
func NewSession(cfg *config.Config, deps Deps) *Session {
	s := &Session{
		cfg:   cfg,
		deps:  deps,
		log:   logger.Named("session"),
		scene: scene.New(),
	}

	l := cfg.Lighting
	s.scene.Ambient.Intensity = l.AmbientIntensity
	s.scene.Sun.Intensity = l.DirectionalIntensity
	s.scene.Sun.Position = mgl32.Vec3(l.DirectionalPosition)
	s.scene.Sun.CastShadow = l.Shadows
	s.scene.Sun.ShadowMapSize = l.ShadowMapSize
	s.scene.Sun.ShadowNear = l.ShadowNear
	s.scene.Sun.ShadowFar = l.ShadowFar

	c := cfg.Camera
	aspect := float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height)
	s.camera = camera.NewPerspective(c.FOV, aspect, c.Near, c.Far)
	s.camera.SetPosition(mgl32.Vec3(c.InitialPosition))

	s.orbit = camera.NewOrbit(mgl32.Vec3{})
	s.orbit.Step = c.OrbitStep
	s.orbit.HorizontalRadius = c.OrbitHorizontalRadius
	s.orbit.VerticalRadius = c.OrbitVerticalRadius
	s.orbit.Height = c.OrbitHeight
	s.orbit.Distance = c.OrbitDistance

	s.idle = &idleState{}
	s.orbiting = &orbitingState{s: s}
	s.departed = &departedState{s: s}
	s.phases = states.NewManager(s.idle)
	s.phases.OnChange = func(from, to states.State) {
		name := "none"
		if from != nil {
			name = from.Name()
		}
		s.log.Debug("phase change",
			zap.String("from", name),
			zap.String("to", to.Name()),
			zap.Uint64("frame", s.frames),
		)
	}
	return s
}

// Bootstrap starts loading the environment and the model in the background.
// Results are installed by Frame on the calling goroutine.
func (s *Session) Bootstrap(ctx context.Context) {
	envPath := s.cfg.Resolve(s.cfg.Assets.Environment)
	if envPath != "" {
		s.envLoad = Start(ctx, "environment", func(ctx context.Context) (*texture.Panorama, error) {
			return LoadEnvironment(ctx, envPath)
		})
	}

	modelPath := s.cfg.Resolve(s.cfg.Assets.Model)
	opts := ModelOptions{
		Position:   mgl32.Vec3(s.cfg.Scene.ModelPosition),
		Scale:      s.cfg.Scene.ModelScale,
		TargetMesh: s.cfg.Scene.TargetMesh,
	}
	s.modelLoad = Start(ctx, "model", func(ctx context.Context) (*LoadedModel, error) {
		return LoadModel(ctx, modelPath, opts)
	})

	s.log.Info("loading assets",
		zap.String("environment", envPath),
		zap.String("model", modelPath),
	)
}

// Close cancels loads still in flight.
func (s *Session) Close() {
	s.envLoad.Cancel()
	s.modelLoad.Cancel()
}

// Camera returns the viewer camera.
func (s *Session) Camera() *camera.Perspective { return s.camera }

// Phase returns the name of the active phase.
func (s *Session) Phase() string {
	if cur := s.phases.Current(); cur != nil {
		return cur.Name()
	}
	return s.idle.Name()
}

// Frames returns the number of frames run so far.
func (s *Session) Frames() uint64 { return s.frames }

// Done reports whether the session has navigated away and should close.
func (s *Session) Done() bool { return s.done }

// Resize updates the camera for a new drawable size.
func (s *Session) Resize(width, height int) {
	s.camera.SetAspect(width, height)
}

// HandleInput routes an event to the active phase.
func (s *Session) HandleInput(e input.Event) {
	if err := s.phases.HandleInput(e); err != nil {
		s.log.Error("input handling failed", zap.Stringer("event", e.Type), zap.Error(err))
	}
}

// Frame runs one frame: absorb finished loads, advance the active phase,
// then draw.
func (s *Session) Frame(dt float64) error {
	s.frames++
	s.absorbLoads()

	if err := s.phases.Update(dt); err != nil {
		return fmt.Errorf("frame %d: %w", s.frames, err)
	}

	if s.deps.Drawer != nil {
		s.deps.Drawer.Render(s.scene, s.camera)
	}
	return nil
}

func (s *Session) absorbLoads() {
	if env, err, ok := s.envLoad.Poll(); ok {
		if err != nil {
			s.log.Error("failed to load environment", zap.Error(err))
		} else {
			s.scene.SetEnvironment(env)
		}
	}

	if m, err, ok := s.modelLoad.Poll(); ok {
		if err != nil {
			s.log.Error("failed to load model", zap.Error(err))
		} else {
			s.attachModel(m)
		}
	}
}

// attachModel adds a prepared model to the scene and starts the orbit.
func (s *Session) attachModel(m *LoadedModel) {
	if s.model != nil {
		s.log.Warn("model already attached, ignoring", zap.String("name", m.Root.Name))
		return
	}
	s.scene.Add(m.Root)
	s.model = m.Root
	s.target = m.Target
	s.cameraTarget = m.CameraTarget
	s.orbit.Center = m.CameraTarget

	if s.target == nil {
		s.log.Warn("target mesh not found, clicks are disabled",
			zap.String("target", s.cfg.Scene.TargetMesh))
	}
	s.phases.Change(s.orbiting)
}

// startZoom begins the zoom toward the target, replacing any zoom in
// progress. Without a model or target nothing happens.
func (s *Session) startZoom() {
	if s.model == nil || s.target == nil {
		return
	}

	if s.deps.Cue != nil {
		if err := s.deps.Cue.Replay(); err != nil {
			s.log.Warn("click cue failed", zap.Error(err))
		}
	}

	target := s.target.WorldPosition()
	z := NewZoom(s.camera.Position, target, mgl32.Vec3(s.cfg.Zoom.Offset), s.cfg.Zoom.Frames)
	s.log.Info("zoom started",
		zap.Float32s("from", z.Start[:]),
		zap.Float32s("to", z.End[:]),
		zap.Int("frames", z.Frames),
	)
	s.phases.Change(&zoomingState{s: s, zoom: z})
}

// depart navigates to the destination once and marks the session done.
func (s *Session) depart() {
	if s.navigated {
		return
	}
	s.navigated = true
	s.done = true

	if s.deps.Navigator == nil {
		return
	}
	if err := s.deps.Navigator.Navigate(s.cfg.Scene.Destination); err != nil {
		s.log.Error("navigation failed",
			zap.String("destination", s.cfg.Scene.Destination),
			zap.Error(err),
		)
	}
}
