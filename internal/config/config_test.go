package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if !cfg.Viewer.Displacement {
		t.Error("expected displacement support by default")
	}
	if cfg.Viewer.Shading != "flat" {
		t.Errorf("expected shading 'flat', got %s", cfg.Viewer.Shading)
	}
	if cfg.Viewer.OverlayScale != 0.1 {
		t.Errorf("expected overlay scale 0.1, got %f", cfg.Viewer.OverlayScale)
	}
	if cfg.Viewer.DefaultTextureUniform != "diffuseTexture" {
		t.Errorf("expected texture uniform 'diffuseTexture', got %s", cfg.Viewer.DefaultTextureUniform)
	}
	if len(cfg.Viewer.Lights) == 0 {
		t.Error("expected default lights")
	}

	if cfg.Watch.Enabled {
		t.Error("expected watch to be disabled by default")
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("expected debounce 200ms, got %v", cfg.Watch.Debounce)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshview.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

viewer:
  displacement: false
  shading: flat
  overlay_scale: 0.5
  exposure_log: 1.5
  show_normals: true
  fix_lights_to_camera: true
  environment_map: "skybox"
  clear_color: [0, 0, 0, 1]
  lights:
    - position: [1, 2, 3]
      color: [10, 10, 10]
  camera:
    fov: 60
    near: 0.1
    far: 100
    distance: 3

watch:
  enabled: true
  debounce: 500ms

logging:
  level: "debug"
  log_file: "meshview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	// untouched keys keep their defaults
	if cfg.Window.Title != "meshview" {
		t.Errorf("expected default title, got %s", cfg.Window.Title)
	}

	if cfg.Viewer.Displacement {
		t.Error("expected displacement to be false")
	}
	if cfg.Viewer.OverlayScale != 0.5 {
		t.Errorf("expected overlay scale 0.5, got %f", cfg.Viewer.OverlayScale)
	}
	if cfg.Viewer.ExposureLog != 1.5 {
		t.Errorf("expected exposure 1.5, got %f", cfg.Viewer.ExposureLog)
	}
	if !cfg.Viewer.ShowNormals || !cfg.Viewer.FixLightsToCamera {
		t.Error("expected show_normals and fix_lights_to_camera to be true")
	}
	if cfg.Viewer.EnvironmentMap != "skybox" {
		t.Errorf("expected environment map 'skybox', got %s", cfg.Viewer.EnvironmentMap)
	}
	if cfg.Viewer.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("expected black clear color, got %v", cfg.Viewer.ClearColor)
	}
	if len(cfg.Viewer.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(cfg.Viewer.Lights))
	}
	if cfg.Viewer.Lights[0].Position != [3]float32{1, 2, 3} {
		t.Errorf("expected light at (1,2,3), got %v", cfg.Viewer.Lights[0].Position)
	}
	if cfg.Viewer.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Viewer.Camera.FOV)
	}

	if !cfg.Watch.Enabled {
		t.Error("expected watch to be enabled")
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected debounce 500ms, got %v", cfg.Watch.Debounce)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "meshview.log" {
		t.Errorf("expected log file 'meshview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/meshview.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"unknown shading", func(c *Config) { c.Viewer.Shading = "toon" }},
		{"zero fov", func(c *Config) { c.Viewer.Camera.FOV = 0 }},
		{"inverted clip range", func(c *Config) { c.Viewer.Camera.Far = c.Viewer.Camera.Near / 2 }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "meshview.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find meshview.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meshview.yaml")

	cfg := Default()
	cfg.Viewer.Shading = "bump"
	cfg.Viewer.Lights = []LightConfig{{Position: [3]float32{0, 1, 0}, Color: [3]float32{5, 5, 5}}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Viewer.Shading != "bump" {
		t.Errorf("expected shading 'bump', got %s", loaded.Viewer.Shading)
	}
	if len(loaded.Viewer.Lights) != 1 || loaded.Viewer.Lights[0].Color != [3]float32{5, 5, 5} {
		t.Errorf("unexpected lights after reload: %v", loaded.Viewer.Lights)
	}
	if loaded.Watch.Debounce != cfg.Watch.Debounce {
		t.Errorf("expected debounce %v, got %v", cfg.Watch.Debounce, loaded.Watch.Debounce)
	}
}

func TestSaveToConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir override is XDG only")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Viewer.ShowNormals = true
	cfg.Viewer.OverlayScale = 0.5
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	path := filepath.Join(ConfigDir(), FileName)
	if got := findConfigFile(); got != path {
		t.Errorf("expected saved config at %s, got %q", path, got)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if !loaded.Viewer.ShowNormals {
		t.Error("expected show_normals to persist")
	}
	if loaded.Viewer.OverlayScale != 0.5 {
		t.Errorf("expected overlay scale 0.5, got %v", loaded.Viewer.OverlayScale)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "bump flag",
			setup: func() { *flagBump = true },
			verify: func(cfg *Config) {
				if cfg.Viewer.Shading != "bump" || !cfg.Viewer.Displacement {
					t.Errorf("expected bump shading with displacement, got %s/%v", cfg.Viewer.Shading, cfg.Viewer.Displacement)
				}
			},
			teardown: func() { *flagBump = false },
		},
		{
			name:  "watch flag",
			setup: func() { *flagWatch = true },
			verify: func(cfg *Config) {
				if !cfg.Watch.Enabled {
					t.Error("expected watch to be enabled with watch flag")
				}
			},
			teardown: func() { *flagWatch = false },
		},
		{
			name:  "envmap flag",
			setup: func() { *flagEnvMap = "/tmp/sky" },
			verify: func(cfg *Config) {
				if cfg.Viewer.EnvironmentMap != "/tmp/sky" {
					t.Errorf("expected environment map '/tmp/sky', got %s", cfg.Viewer.EnvironmentMap)
				}
			},
			teardown: func() { *flagEnvMap = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshview.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "meshview.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  shading: toon\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
