// Package app runs the viewer window: it owns the main loop and wires the
// window, renderer and input into the viewer core.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/app/controls"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
	"github.com/Faultbox/meshview/internal/watch"
	"github.com/Faultbox/meshview/pkg/mesh"
)

// minimizedPoll bounds how long the loop sleeps while minimized before
// polling input again.
const minimizedPoll = 100 * time.Millisecond

// App is the running viewer.
type App struct {
	config  *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	ctx     *viewer.Context
	bridge  *viewer.Bridge
	watcher *watch.Watcher
	capture *debug.ScreenshotCapture

	status            controls.Status
	screenshotPending bool
	dialogOpen        bool
}

// New creates the window and the viewer state.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config: cfg,
		log:    logger.Named("app"),
		status: controls.Status{App: cfg.Window.Title},
	}
	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context created by the window
	width, height := a.window.GetDrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Viewer.ClearColor,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()

	cam := cfg.Viewer.Camera
	a.camera = camera.NewOrbitCamera(cam.FOV, cam.Near, cam.Far, cam.Distance)

	if err := a.initViewer(); err != nil {
		a.Close()
		return nil, err
	}
	a.ctx.Resize(width, height)

	a.capture = debug.NewScreenshotCapture(cfg.Viewer.ScreenshotDir, "meshview")

	if cfg.Watch.Enabled {
		a.watcher, err = watch.New(cfg.Watch.Debounce, func(path string) {
			a.ctx.Events().Post(func() {
				a.log.Info("mesh changed on disk, reloading", zap.String("path", path))
				a.Open(path)
			})
		})
		if err != nil {
			// viewing still works without reload
			a.log.Warn("file watching disabled", zap.Error(err))
		}
	}

	a.log.Info("viewer initialized")
	return a, nil
}

func (a *App) initViewer() error {
	vc := a.config.Viewer

	mode, err := viewer.ParseShadingMode(vc.Shading)
	if err != nil {
		return err
	}

	a.ctx, err = viewer.NewContext(viewer.Options{
		Displacement: vc.Displacement,
		Shading:      mode,
		OverlayScale: vc.OverlayScale,
		NumericUniforms: map[string]float32{
			viewer.UniformExposure:          vc.ExposureLog,
			viewer.UniformBumpScale:         vc.BumpScaleLog,
			viewer.UniformDisplacementScale: vc.DisplacementScaleLog,
		},
		Toggles: viewer.Toggles{
			Axes:              vc.ShowAxes,
			Wireframe:         vc.ShowWireframe,
			Normals:           vc.ShowNormals,
			FixLightsToCamera: vc.FixLightsToCamera,
		},
	}, a.renderer, a.camera)
	if err != nil {
		return fmt.Errorf("failed to create viewer: %w", err)
	}

	for _, l := range vc.Lights {
		a.ctx.AddLight(mgl32.Vec3(l.Position), mgl32.Vec3(l.Color))
	}
	a.ctx.ApplyToggles()

	a.bridge = viewer.NewBridge(a.ctx, vc.DefaultTextureUniform)
	a.bridge.OnMeshLoaded = a.onMeshLoaded

	if vc.EnvironmentMap != "" {
		a.bridge.LoadEnvironmentMap(vc.EnvironmentMap)
	}
	return nil
}

// onMeshLoaded runs once a decoded mesh is installed. Only meshes that
// loaded are watched, so a file that fails to parse is not reloaded.
func (a *App) onMeshLoaded(path string, m *mesh.Mesh) {
	lo, hi := m.Bounds()
	a.camera.FitToBounds(lo, hi)
	a.status.Mesh = m.Name
	a.status.Triangles = m.TriangleCount()
	a.updateTitle()

	if a.watcher != nil && strings.EqualFold(filepath.Ext(path), ".obj") {
		if err := a.watcher.Watch(path); err != nil {
			a.log.Warn("cannot watch mesh file", zap.String("path", path), zap.Error(err))
		}
	}
}

// Open reads a file and hands it to the viewer. OBJ files become the mesh
// and, with watching enabled, are reloaded when they change.
func (a *App) Open(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.log.Error("cannot read file", zap.String("path", path), zap.Error(err))
		return
	}
	// errors are logged by the bridge
	_ = a.bridge.DropFile(path, data)
}

// saveSettings writes the current viewer state back to the config file it
// was loaded from, or to the user config directory.
func (a *App) saveSettings() {
	a.config.Viewer = controls.Settings(a.ctx, a.config.Viewer)

	path := config.ConfigPath()
	var err error
	if path != "" {
		err = a.config.SaveTo(path)
	} else {
		path = filepath.Join(config.ConfigDir(), config.FileName)
		err = a.config.Save()
	}
	if err != nil {
		a.log.Error("cannot save settings", zap.String("path", path), zap.Error(err))
		return
	}
	a.log.Info("settings saved", zap.String("path", path))
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.updateTitle()
	a.log.Info("starting main loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleInput(event)
		}

		// results of background decoding and file watching
		a.ctx.Events().Drain()

		if a.window.IsMinimized() {
			// nothing is visible; sleep until work is posted or input is due
			select {
			case <-a.ctx.Events().Notify():
			case <-time.After(minimizedPoll):
			}
			continue
		}

		a.ctx.Frame()

		if a.screenshotPending {
			a.screenshotPending = false
			a.takeScreenshot()
		}

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.status.FPS = frameCount
			a.updateTitle()
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleInput(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		// framebuffer size differs from the event size on high-DPI screens
		w, h := a.window.GetDrawableSize()
		a.ctx.Resize(w, h)

	case input.EventFileDrop:
		a.Open(event.Path)

	case input.EventMouseMove:
		switch {
		case event.Buttons&input.ButtonLeftMask != 0 && !event.Mods.Has(input.ModShift):
			a.camera.HandleDrag(event.DeltaX, event.DeltaY)
		case event.Buttons&(input.ButtonRightMask|input.ButtonMiddleMask|input.ButtonLeftMask) != 0:
			a.camera.HandlePan(event.DeltaX, event.DeltaY)
		}

	case input.EventMouseWheel:
		a.camera.HandleZoom(event.DeltaY)

	case input.EventKeyDown:
		a.handleKey(event)
	}
}

func (a *App) handleKey(event input.Event) {
	action := controls.Lookup(int32(event.Key), event.Mods.Has(input.ModCtrl))
	if event.Repeat && action != controls.ActionExposureUp && action != controls.ActionExposureDown {
		return
	}

	switch action {
	case controls.ActionNone:
		return
	case controls.ActionQuit:
		a.running = false
		return
	case controls.ActionOpenFile:
		a.openDialog()
		return
	case controls.ActionResetCamera:
		a.camera.Reset()
		return
	case controls.ActionScreenshot:
		// captured after the next frame is drawn
		a.screenshotPending = true
		return
	case controls.ActionSaveSettings:
		a.saveSettings()
		return
	}

	ev, ok := controls.Event(action, a.ctx)
	if !ok {
		return
	}
	if err := a.ctx.Handle(ev); err != nil && !errors.Is(err, viewer.ErrBumpUnavailable) {
		a.log.Error("ui event failed", zap.Stringer("kind", ev.Kind), zap.Error(err))
	}
	a.updateTitle()
}

// openDialog shows the native file picker without blocking the main loop.
func (a *App) openDialog() {
	if a.dialogOpen {
		return
	}
	a.dialogOpen = true

	go func() {
		path, err := dialog.File().
			Filter("Meshes and images", "obj", "png", "jpg", "jpeg", "bmp", "tga", "tif", "tiff", "webp").
			Filter("All files", "*").
			Title("Open").
			Load()

		a.ctx.Events().Post(func() {
			a.dialogOpen = false
			if err != nil {
				if err != dialog.ErrCancelled {
					a.log.Error("file dialog failed", zap.Error(err))
				}
				return
			}
			a.Open(path)
		})
	}()
}

func (a *App) takeScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.capture.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

func (a *App) updateTitle() {
	a.window.SetTitle(a.status.Line(a.ctx))
}

// Close releases every resource.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing file watcher", zap.Error(err))
		}
	}
	if a.bridge != nil {
		a.bridge.Wait()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
