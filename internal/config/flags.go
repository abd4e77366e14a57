package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagModel       = flag.String("model", "", "Path to the glTF model")
	flagEnvironment = flag.String("environment", "", "Path to the environment panorama")
	flagDestination = flag.String("destination", "", "Page opened after the zoom")
	flagMute        = flag.Bool("mute", false, "Disable the click sound")
	flagWriteConfig = flag.Bool("write-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigRequested reports whether --write-config was given.
func WriteConfigRequested() bool {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagModel != "" {
		cfg.Assets.Model = *flagModel
	}
	if *flagEnvironment != "" {
		cfg.Assets.Environment = *flagEnvironment
	}
	if *flagDestination != "" {
		cfg.Scene.Destination = *flagDestination
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
}
