package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagBump       = flag.Bool("bump", false, "Start in bump shading mode")
	flagWatch      = flag.Bool("watch", false, "Reload the mesh file when it changes on disk")
	flagEnvMap     = flag.String("envmap", "", "Directory with cube map faces (posx.jpg .. negz.jpg)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// MeshArg returns the mesh file named on the command line, if any.
func MeshArg() string {
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagBump {
		cfg.Viewer.Displacement = true
		cfg.Viewer.Shading = "bump"
	}
	if *flagWatch {
		cfg.Watch.Enabled = true
	}
	if *flagEnvMap != "" {
		cfg.Viewer.EnvironmentMap = *flagEnvMap
	}
}
