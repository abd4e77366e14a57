// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for configurations that cannot run.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Zoom     ZoomConfig     `yaml:"zoom"`
	Lighting LightingConfig `yaml:"lighting"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	MSAA       int    `yaml:"msaa"` // Multisample count, 0 disables
}

// AssetsConfig holds asset paths. Relative paths resolve against BaseDir.
type AssetsConfig struct {
	BaseDir     string `yaml:"base_dir"`
	Environment string `yaml:"environment"`
	Model       string `yaml:"model"`
	ClickSound  string `yaml:"click_sound"`
}

// SceneConfig holds model placement and interaction targets.
type SceneConfig struct {
	ModelPosition [3]float32 `yaml:"model_position"`
	ModelScale    float32    `yaml:"model_scale"`
	TargetMesh    string     `yaml:"target_mesh"` // Sub-mesh the zoom flies to
	Destination   string     `yaml:"destination"` // Opened when the zoom completes
}

// CameraConfig holds the perspective camera and idle orbit settings.
type CameraConfig struct {
	FOV             float32    `yaml:"fov"` // Vertical, degrees
	Near            float32    `yaml:"near"`
	Far             float32    `yaml:"far"`
	InitialPosition [3]float32 `yaml:"initial_position"`

	OrbitStep             float64 `yaml:"orbit_step"` // Time added per frame
	OrbitHorizontalRadius float32 `yaml:"orbit_horizontal_radius"`
	OrbitVerticalRadius   float32 `yaml:"orbit_vertical_radius"`
	OrbitHeight           float32 `yaml:"orbit_height"`
	OrbitDistance         float32 `yaml:"orbit_distance"`
}

// ZoomConfig holds the click-triggered zoom animation settings.
type ZoomConfig struct {
	Frames int        `yaml:"frames"`
	Offset [3]float32 `yaml:"offset"` // Camera stop point relative to the target mesh
}

// LightingConfig holds scene light settings.
type LightingConfig struct {
	AmbientIntensity     float32    `yaml:"ambient_intensity"`
	DirectionalIntensity float32    `yaml:"directional_intensity"`
	DirectionalPosition  [3]float32 `yaml:"directional_position"`
	Shadows              bool       `yaml:"shadows"`
	ShadowMapSize        int        `yaml:"shadow_map_size"`
	ShadowNear           float32    `yaml:"shadow_near"`
	ShadowFar            float32    `yaml:"shadow_far"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns a Config with the stock scene setup.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Title:  "deskview",
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Assets: AssetsConfig{
			BaseDir:     ".",
			Environment: "models/autumn_field_puresky_4k.hdr",
			Model:       "models/computer4.glb",
			ClickSound:  "click-sound.mp3",
		},
		Scene: SceneConfig{
			ModelPosition: [3]float32{0, 0, 0},
			ModelScale:    4,
			TargetMesh:    "screen",
			Destination:   "site.html",
		},
		Camera: CameraConfig{
			FOV:                   75,
			Near:                  0.1,
			Far:                   1000,
			InitialPosition:       [3]float32{0, 1, 5},
			OrbitStep:             0.01,
			OrbitHorizontalRadius: 0.5,
			OrbitVerticalRadius:   0.2,
			OrbitHeight:           0.5,
			OrbitDistance:         3,
		},
		Zoom: ZoomConfig{
			Frames: 120,
			Offset: [3]float32{0, 0, 2.5},
		},
		Lighting: LightingConfig{
			AmbientIntensity:     0.5,
			DirectionalIntensity: 0.8,
			DirectionalPosition:  [3]float32{5, 10, 7.5},
			Shadows:              true,
			ShadowMapSize:        1024,
			ShadowNear:           0.5,
			ShadowFar:            50,
		},
		Audio: AudioConfig{
			MasterVolume: 1.0,
			SFXVolume:    1.0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Validate reports the first setting that would make the viewer misbehave.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Assets.Model == "":
		return fmt.Errorf("%w: assets.model is empty", ErrInvalid)
	case c.Scene.ModelScale <= 0:
		return fmt.Errorf("%w: scene.model_scale must be positive", ErrInvalid)
	case c.Scene.Destination == "":
		return fmt.Errorf("%w: scene.destination is empty", ErrInvalid)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera.fov %.1f out of range", ErrInvalid, c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip planes %.3f..%.3f", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Zoom.Frames <= 0:
		return fmt.Errorf("%w: zoom.frames must be positive", ErrInvalid)
	case c.Lighting.Shadows && c.Lighting.ShadowMapSize <= 0:
		return fmt.Errorf("%w: lighting.shadow_map_size must be positive", ErrInvalid)
	}
	return nil
}
