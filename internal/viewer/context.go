// Package viewer is the mesh viewer core: the material bank, the scene
// controller, the render loop and the asset ingestion bridge.
//
// Everything except EventQueue.Post runs on the main thread.
package viewer

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/lighting"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/mesh"
)

// AxesSize is the length of each axis of the axes helper.
const AxesSize = 1.5

// Toggles are the display switches independent of the loaded mesh.
type Toggles struct {
	Axes              bool
	Wireframe         bool
	Normals           bool
	FixLightsToCamera bool
}

// Options configure a viewer context.
type Options struct {
	// Displacement creates the bump-shaded and bump-wireframe materials.
	Displacement bool
	Shading      ShadingMode
	OverlayScale float32
	// NumericUniforms maps uniform names to log2 slider values.
	NumericUniforms map[string]float32
	Toggles         Toggles
	// Logger defaults to logger.Named("viewer").
	Logger *zap.Logger
}

// Context is the viewer state owned by the application. It is not safe for
// concurrent use; background work reaches it through Events.
type Context struct {
	renderer Renderer
	camera   Camera
	log      *zap.Logger

	lights     *lighting.Registry
	bank       *MaterialBank
	scene      *RenderScene
	controller *SceneController
	axes       *Group
	events     *EventQueue

	toggles  Toggles
	numeric  map[string]float32
	textures map[string]Texture
	envMap   Texture

	lightScratch []mgl32.Vec3
	frames       uint64

	// meshGen is shared by direct loads and bridge decodes.
	meshGen uint64
}

// NewContext builds the materials, installs the default diffuse texture and
// applies the initial toggles.
func NewContext(opts Options, r Renderer, cam Camera) (*Context, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Named("viewer")
	}

	bank, err := NewMaterialBank(r, opts.Displacement, log)
	if err != nil {
		return nil, err
	}

	shading := opts.Shading
	if shading == ShadingBump && !bank.HasBump() {
		log.Warn("bump shading requested without displacement support, using flat")
		shading = ShadingFlat
	}

	scene := NewRenderScene()
	c := &Context{
		renderer:   r,
		camera:     cam,
		log:        log,
		lights:     lighting.NewRegistry(),
		bank:       bank,
		scene:      scene,
		controller: NewSceneController(scene, bank, shading, opts.OverlayScale, log),
		events:     NewEventQueue(),
		toggles:    opts.Toggles,
		numeric:    make(map[string]float32),
		textures:   make(map[string]Texture),
	}

	c.axes = &Group{
		Kind: GroupAxes,
		Name: "axes",
		Children: []*Drawable{{
			Name:     "axes",
			Geometry: debug.AxesGeometry(AxesSize),
			Material: bank.Material(AxesLines),
		}},
	}

	c.lights.OnChange(c.onLightCountChanged)

	placeholder, err := r.CreateTexture(texture.DefaultDiffuse())
	if err != nil {
		return nil, fmt.Errorf("create default texture: %w", err)
	}
	c.SetTexture(UniformDiffuseTexture, placeholder)

	for _, name := range NumericUniforms {
		c.numeric[name] = 0
	}
	for name, v := range opts.NumericUniforms {
		c.numeric[name] = v
	}

	c.ApplyToggles()
	return c, nil
}

// ApplyToggles pushes every toggle and slider value through its setter once,
// so material state matches the stored settings.
func (c *Context) ApplyToggles() {
	c.SetAxesVisible(c.toggles.Axes)
	c.SetWireframeVisible(c.toggles.Wireframe)
	c.SetNormalsVisible(c.toggles.Normals)
	c.SetFixLightsToCamera(c.toggles.FixLightsToCamera)
	c.SetNormalOverlayScale(c.controller.OverlayScale())

	names := make([]string, 0, len(c.numeric))
	for name := range c.numeric {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.SetNumericUniform(name, c.numeric[name])
	}
}

// Events returns the main-thread completion queue.
func (c *Context) Events() *EventQueue { return c.events }

// Bank returns the material bank.
func (c *Context) Bank() *MaterialBank { return c.bank }

// Scene returns the render scene.
func (c *Context) Scene() *RenderScene { return c.scene }

// Controller returns the scene controller.
func (c *Context) Controller() *SceneController { return c.controller }

// Lights returns the light registry.
func (c *Context) Lights() *lighting.Registry { return c.lights }

// Toggles returns the current display toggles.
func (c *Context) Toggles() Toggles { return c.toggles }

// NumericUniform returns the log2 value last set for name.
func (c *Context) NumericUniform(name string) (float32, bool) {
	v, ok := c.numeric[name]
	return v, ok
}

// Logger returns the context logger.
func (c *Context) Logger() *zap.Logger { return c.log }

// AddLight appends a light. The shaded materials are recompiled for the new
// count; adding lights after the first frame discards their compiled state.
func (c *Context) AddLight(position, color mgl32.Vec3) {
	if c.frames > 0 {
		c.log.Warn("light added after first frame, shaded materials will be recompiled")
	}
	if idx := c.lights.Add(position, color); idx < 0 {
		c.log.Error("light limit reached", zap.Int("max", lighting.MaxPointLights))
	}
}

func (c *Context) onLightCountChanged(count int) {
	c.bank.SetLightColors(c.lights.Colors())
	c.lightScratch = LightPositions(c.lightScratch, c.lights, c.camera.ViewMatrix(), c.toggles.FixLightsToCamera)
	c.bank.SetLightPositions(c.lightScratch)
	if err := c.bank.SetLightCount(count); err != nil {
		c.log.Error("shader recompilation failed", zap.Int("lights", count), zap.Error(err))
	}
}

// LoadMesh replaces the loaded mesh. A nil mesh leaves the scene untouched.
// Any mesh decode still in flight becomes stale.
func (c *Context) LoadMesh(m *mesh.Mesh) bool {
	if m == nil {
		return c.controller.LoadMesh(nil, c.meshGen)
	}
	return c.loadMeshGeneration(m, c.nextMeshGeneration())
}

// MeshGeneration returns the generation of the latest mesh request.
func (c *Context) MeshGeneration() uint64 { return c.meshGen }

// nextMeshGeneration issues the generation for a new mesh request.
func (c *Context) nextMeshGeneration() uint64 {
	c.meshGen++
	return c.meshGen
}

// loadMeshGeneration applies m when generation is the latest one issued.
func (c *Context) loadMeshGeneration(m *mesh.Mesh, generation uint64) bool {
	if generation != c.meshGen {
		c.log.Info("discarding stale mesh",
			zap.String("name", meshName(m)),
			zap.Uint64("generation", generation),
			zap.Uint64("current", c.meshGen))
		return false
	}
	return c.controller.LoadMesh(m, generation)
}

func meshName(m *mesh.Mesh) string {
	if m == nil {
		return ""
	}
	return m.Name
}

// SetShadingMode switches between flat and bump shading.
func (c *Context) SetShadingMode(mode ShadingMode) error {
	if err := c.controller.SetShadingMode(mode); err != nil {
		c.log.Warn("cannot change shading mode", zap.Stringer("mode", mode), zap.Error(err))
		return err
	}
	return nil
}

// SetNumericUniform sets a log-scaled slider value (the uniform gets 2^logValue).
func (c *Context) SetNumericUniform(name string, logValue float32) {
	c.numeric[name] = logValue
	c.bank.SetNumericUniform(name, logValue)
}

// SetWireframeVisible shows or hides the wireframe twin via its opacity.
func (c *Context) SetWireframeVisible(visible bool) {
	c.toggles.Wireframe = visible
	c.bank.SetWireframeVisible(visible)
}

// SetNormalsVisible shows or hides the normal overlay via its opacity.
func (c *Context) SetNormalsVisible(visible bool) {
	c.toggles.Normals = visible
	c.bank.SetNormalsVisible(visible)
}

// SetAxesVisible adds the axes helper to or removes it from the scene.
func (c *Context) SetAxesVisible(visible bool) {
	c.toggles.Axes = visible
	if visible {
		c.scene.Add(c.axes)
	} else {
		c.scene.Remove(c.axes)
	}
}

// SetFixLightsToCamera selects whether lights follow the camera.
func (c *Context) SetFixLightsToCamera(fixed bool) {
	c.toggles.FixLightsToCamera = fixed
}

// SetNormalOverlayScale sets the length multiplier of the normal lines.
func (c *Context) SetNormalOverlayScale(scale float32) {
	c.controller.SetNormalOverlayScale(scale)
}

// SetTexture binds t to a sampler uniform of the shaded materials and
// releases the texture previously bound there.
func (c *Context) SetTexture(uniform string, t Texture) {
	prev, had := c.textures[uniform]
	c.textures[uniform] = t
	c.bank.SetTexture(uniform, t)
	if had && prev.Valid() && prev != t {
		c.renderer.ReleaseTexture(prev)
	}
}

// SetEnvironmentMap binds a cube texture as the environment map and releases
// the previous one.
func (c *Context) SetEnvironmentMap(t Texture) {
	prev := c.envMap
	c.envMap = t
	c.bank.SetEnvironmentMap(t)
	if prev.Valid() && prev != t {
		c.renderer.ReleaseTexture(prev)
	}
}

// Resize updates the viewport and the camera aspect ratio.
func (c *Context) Resize(width, height int) {
	if v, ok := c.camera.(interface{ SetViewport(w, h int) }); ok {
		v.SetViewport(width, height)
	}
	c.renderer.Resize(width, height)
}
