// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"samples"`
}

// ViewerConfig holds the initial viewer state.
type ViewerConfig struct {
	// Displacement creates the bump materials.
	Displacement bool    `yaml:"displacement"`
	Shading      string  `yaml:"shading"` // "flat" or "bump"
	OverlayScale float32 `yaml:"overlay_scale"`

	// Slider values are log2 of the uniform value.
	ExposureLog          float32 `yaml:"exposure_log"`
	BumpScaleLog         float32 `yaml:"bump_scale_log"`
	DisplacementScaleLog float32 `yaml:"displacement_scale_log"`

	ShowAxes          bool `yaml:"show_axes"`
	ShowWireframe     bool `yaml:"show_wireframe"`
	ShowNormals       bool `yaml:"show_normals"`
	FixLightsToCamera bool `yaml:"fix_lights_to_camera"`

	// DefaultTextureUniform receives dropped images.
	DefaultTextureUniform string `yaml:"default_texture_uniform"`
	// EnvironmentMap is a directory holding posx.jpg .. negz.jpg.
	EnvironmentMap string `yaml:"environment_map"`
	// ScreenshotDir is where F12 captures are written.
	ScreenshotDir string `yaml:"screenshot_dir"`

	ClearColor [4]float32    `yaml:"clear_color,flow"`
	Lights     []LightConfig `yaml:"lights"`
	Camera     CameraConfig  `yaml:"camera"`
}

// LightConfig is one point light.
type LightConfig struct {
	Position [3]float32 `yaml:"position,flow"`
	Color    [3]float32 `yaml:"color,flow"`
}

// CameraConfig holds the orbit camera projection settings.
type CameraConfig struct {
	FOV      float32 `yaml:"fov"` // degrees
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Distance float32 `yaml:"distance"`
}

// WatchConfig controls auto-reload of the loaded mesh file.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "meshview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
		},
		Viewer: ViewerConfig{
			Displacement:          true,
			Shading:               "flat",
			OverlayScale:          0.1,
			ShowAxes:              true,
			ShowWireframe:         false,
			ShowNormals:           false,
			DefaultTextureUniform: "diffuseTexture",
			ScreenshotDir:         "screenshots",
			ClearColor:            [4]float32{0.1, 0.1, 0.15, 1.0},
			Lights: []LightConfig{
				{Position: [3]float32{4, 6, 8}, Color: [3]float32{60, 60, 60}},
				{Position: [3]float32{-6, 2, -4}, Color: [3]float32{20, 24, 32}},
			},
			Camera: CameraConfig{
				FOV:      45,
				Near:     0.05,
				Far:      500,
				Distance: 5,
			},
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
