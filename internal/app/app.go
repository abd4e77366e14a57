// Package app owns the window, GL renderer and audio device and runs the
// viewer session in the frame loop.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/config"
	"github.com/Faultbox/deskview/internal/engine/audio"
	"github.com/Faultbox/deskview/internal/engine/capture"
	"github.com/Faultbox/deskview/internal/engine/input"
	"github.com/Faultbox/deskview/internal/engine/renderer"
	"github.com/Faultbox/deskview/internal/engine/window"
	"github.com/Faultbox/deskview/internal/logger"
	"github.com/Faultbox/deskview/internal/viewer"
)

// App is the desktop viewer.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Manager
	session  *viewer.Session
	capture  *capture.Capture

	captureRequested bool
}

// New creates the window and GL context, the renderer and the audio device,
// and builds the session. Audio problems are logged and the viewer runs
// silently.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Graphics.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:         width,
		Height:        height,
		Shadows:       cfg.Lighting.Shadows,
		ShadowMapSize: cfg.Lighting.ShadowMapSize,
		MSAA:          cfg.Graphics.MSAA > 0,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.capture = capture.New(filepath.Join(config.ConfigDir(), "screenshots"), "deskview")

	deps := viewer.Deps{
		Drawer:    a.renderer,
		Navigator: viewer.NewBrowserNavigator(cfg.Assets.BaseDir),
	}
	if cue := a.initAudio(); cue != nil {
		deps.Cue = cue
	}

	a.session = viewer.NewSession(cfg, deps)
	a.session.Resize(width, height)

	logger.Info("viewer initialized")
	return a, nil
}

func (a *App) initAudio() *audio.Cue {
	a.audio = audio.New()
	a.audio.SetMasterVolume(float64(a.cfg.Audio.MasterVolume))
	a.audio.SetSFXVolume(float64(a.cfg.Audio.SFXVolume))
	a.audio.SetMuted(a.cfg.Audio.Muted)

	if err := a.audio.Init(); err != nil {
		logger.Warn("audio unavailable", zap.Error(err))
		return nil
	}
	logger.Info("audio ready",
		zap.Float64("master_volume", a.audio.GetMasterVolume()),
		zap.Float64("sfx_volume", a.audio.GetSFXVolume()),
		zap.Bool("muted", a.audio.Muted()),
	)

	path := a.cfg.Resolve(a.cfg.Assets.ClickSound)
	if path == "" {
		return nil
	}
	cue, err := a.audio.LoadCue(path)
	if err != nil {
		logger.Warn("click sound unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	logger.Info("click sound loaded",
		zap.String("name", cue.Name()),
		zap.Duration("duration", cue.Duration()),
	)
	return cue
}

// Run starts the asset loads and runs frames until the window closes, Escape
// is pressed, ctx ends, or the session navigates away.
func (a *App) Run(ctx context.Context) error {
	a.running = true
	a.session.Bootstrap(ctx)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if ctx.Err() != nil {
			logger.Info("interrupted")
			break
		}

		a.window.PollEvents(a.input)
		if a.input.QuitRequested() {
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}
		if !a.running {
			break
		}

		if err := a.session.Frame(dt); err != nil {
			return fmt.Errorf("frame error: %w", err)
		}
		if a.captureRequested {
			a.captureFrame()
		}
		a.window.SwapBuffers()

		if a.session.Done() {
			logger.Info("session finished", zap.Uint64("frames", a.session.Frames()))
			a.running = false
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			stats := a.renderer.Stats()
			cam := a.session.Camera()
			target := cam.Target()
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("phase", a.session.Phase()),
				zap.Float32s("camera", cam.Position[:]),
				zap.Float32s("look_at", target[:]),
				zap.Int("draw_calls", stats.DrawCalls),
				zap.Int("triangles", stats.Triangles),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	a.running = false
	return nil
}

func (a *App) handleEvent(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		width, height := a.window.DrawableSize()
		a.renderer.Resize(width, height)
		a.session.Resize(width, height)
	case input.EventKeyDown:
		switch e.Key {
		case input.KeyEscape:
			a.running = false
		case input.KeyM:
			if !a.audio.IsInitialized() {
				logger.Info("mute ignored, audio unavailable")
				return
			}
			logger.Info("mute toggled", zap.Bool("muted", a.audio.ToggleMute()))
		case input.KeyF12:
			a.captureRequested = true
		}
	default:
		a.session.HandleInput(e)
	}
}

func (a *App) captureFrame() {
	a.captureRequested = false
	pixels, width, height := a.renderer.ReadPixels()
	path, err := a.capture.SaveFramebuffer(pixels, width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything New created.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.session != nil {
		a.session.Close()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
